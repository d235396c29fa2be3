package metrics

import "github.com/reachset/occucheck/core/report"

// MultiSink fans results out to multiple sinks.
type MultiSink struct {
	Sinks []report.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...report.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordResult forwards the result to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordResult(r report.Result) error {
	for _, s := range m.Sinks {
		if err := s.RecordResult(r); err != nil {
			return err
		}
	}
	return nil
}

// RecordSummary forwards the summary to all sinks.
func (m *MultiSink) RecordSummary(sum report.Summary) error {
	for _, s := range m.Sinks {
		if err := s.RecordSummary(sum); err != nil {
			return err
		}
	}
	return nil
}
