// Package report defines the per-source verdicts and batch summaries the
// checker produces, and the sink interface used to export them.
package report

import "time"

// Result is the verdict for one occupancy source.
type Result struct {
	// Source is the path of the occupancy CSV checked.
	Source string `json:"source"`
	// ScenarioID identifies the scenario the source was checked against.
	ScenarioID string `json:"scenario_id"`
	// Obstacles is true when the prediction hits a scenario obstacle.
	Obstacles bool `json:"collides_with_obstacles"`
	// Boundary is true when the prediction leaves the drivable area.
	Boundary bool `json:"collides_with_boundary"`
	// Steps is the number of time steps covered by the prediction.
	Steps int `json:"steps"`
	// Elapsed is the wall time of the check.
	Elapsed time.Duration `json:"elapsed"`
	// Error carries the failure message for sources that could not be
	// checked. Empty on success.
	Error string `json:"error,omitempty"`
}

// Collision reports whether either predicate fired.
func (r Result) Collision() bool { return r.Obstacles || r.Boundary }

// Failed reports whether the source could not be checked at all.
func (r Result) Failed() bool { return r.Error != "" }

// Summary aggregates a batch run.
type Summary struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Results    []Result  `json:"results"`
}

// Collisions counts the sources with at least one collision.
func (s Summary) Collisions() int {
	n := 0
	for _, r := range s.Results {
		if !r.Failed() && r.Collision() {
			n++
		}
	}
	return n
}

// Failures counts the sources that could not be checked.
func (s Summary) Failures() int {
	n := 0
	for _, r := range s.Results {
		if r.Failed() {
			n++
		}
	}
	return n
}

// Sink receives results as they are produced. Implementations must tolerate
// being called from a single goroutine only.
type Sink interface {
	RecordResult(Result) error
	RecordSummary(Summary) error
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) RecordResult(Result) error   { return nil }
func (NopSink) RecordSummary(Summary) error { return nil }
