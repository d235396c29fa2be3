package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/reachset/occucheck/config"
	"github.com/reachset/occucheck/core/report"
	"github.com/reachset/occucheck/infra/logger"
)

// InfluxSink writes check verdicts to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(cfg config.MetricsConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.InfluxURL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.InfluxToken,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and falls back to a
// NopSink when the health check fails, so a down instance never blocks a
// batch run.
func NewInfluxSinkWithFallback(cfg config.MetricsConfig) report.Sink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return report.NopSink{}
	}
	return sink
}

// RecordResult writes the verdict as a point.
func (s *InfluxSink) RecordResult(r report.Result) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("occupancy_check").
		AddTag("scenario_id", r.ScenarioID).
		AddTag("source", r.Source).
		AddField("collides_with_obstacles", r.Obstacles).
		AddField("collides_with_boundary", r.Boundary).
		AddField("steps", r.Steps).
		AddField("elapsed_ms", r.Elapsed.Milliseconds()).
		AddField("error", r.Error).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSummary writes the batch aggregate as a point.
func (s *InfluxSink) RecordSummary(sum report.Summary) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("occupancy_batch").
		AddTag("run_id", sum.RunID).
		AddField("sources", len(sum.Results)).
		AddField("collisions", sum.Collisions()).
		AddField("failures", sum.Failures()).
		SetTime(sum.FinishedAt)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }
