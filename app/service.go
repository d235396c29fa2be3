// Package app wires configuration, sinks and collaborators into the
// collision check service and drives single-source and batch runs.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reachset/occucheck/config"
	"github.com/reachset/occucheck/core/collision"
	"github.com/reachset/occucheck/core/occupancy"
	"github.com/reachset/occucheck/core/report"
	"github.com/reachset/occucheck/core/scenario"
	"github.com/reachset/occucheck/infra/logger"
	"github.com/reachset/occucheck/infra/metrics"
	"github.com/reachset/occucheck/infra/mqtt"
	"github.com/reachset/occucheck/infra/render"
	"github.com/reachset/occucheck/internal/eventbus"
)

// sourceSuffix is the naming convention of solution files; the scenario name
// is everything before it.
const sourceSuffix = "_occupancies"

// Service runs occupancy collision checks against scenarios.
type Service struct {
	cfg      *config.Config
	log      logger.Logger
	sink     report.Sink
	renderer *render.Renderer
	bus      *eventbus.Bus

	publisher *mqtt.Publisher
	influx    *metrics.InfluxSink
}

// New creates a Service from the configuration. The render capability is
// resolved here, once, rather than probed at render time.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []report.Sink
	var influx *metrics.InfluxSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Metrics)
		if is, ok := sink.(*metrics.InfluxSink); ok {
			influx = is
		}
		sinks = append(sinks, sink)
	}
	var publisher *mqtt.Publisher
	if cfg.Publisher.Enabled {
		pub, err := mqtt.NewPublisher(cfg.Publisher)
		if err != nil {
			return nil, fmt.Errorf("result publisher: %w", err)
		}
		publisher = pub
		sinks = append(sinks, pub)
	}

	var sink report.Sink
	switch len(sinks) {
	case 0:
		sink = report.NopSink{}
	case 1:
		sink = sinks[0]
	default:
		sink = metrics.NewMultiSink(sinks...)
	}

	svc := &Service{
		cfg:       cfg,
		log:       logg,
		sink:      sink,
		bus:       eventbus.New(),
		publisher: publisher,
		influx:    influx,
	}
	if cfg.Render.Enabled {
		svc.renderer = render.New(cfg.Render, logger.New("render"))
	}
	return svc, nil
}

// Bus exposes the event bus carrying report.Result values.
func (s *Service) Bus() eventbus.EventBus { return s.bus }

// StartMetrics serves Prometheus metrics until the context is cancelled.
// It is a no-op when Prometheus is disabled.
func (s *Service) StartMetrics(ctx context.Context) {
	if !s.cfg.Metrics.PrometheusEnabled {
		return
	}
	go func() {
		if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
			s.log.Errorf("prom server: %v", err)
		}
	}()
}

// CheckSource checks one occupancy source against its scenario. Failures are
// captured in the returned Result, never panicked or half-reported, so batch
// runs can keep going. wantRender asks for plot and animation output; when
// the render capability is disabled the request downgrades to a warning.
func (s *Service) CheckSource(ctx context.Context, csvPath string, wantRender bool) report.Result {
	start := time.Now()
	csvPath = occupancy.NormalizePath(csvPath)
	res := report.Result{Source: csvPath}
	defer func() {
		res.Elapsed = time.Since(start)
		if err := s.sink.RecordResult(res); err != nil {
			s.log.Errorf("record result: %v", err)
		}
		s.bus.Publish(res)
	}()

	scenarioPath := s.ScenarioPathFor(csvPath)
	sc, err := scenario.Load(scenarioPath)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.ScenarioID = sc.ID
	s.log.Infof("loaded scenario %s (dt=%g)", sc.ID, sc.DT)

	coinciding, cumulative, err := occupancy.ReadCSV(csvPath, sc.DT)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Steps = len(coinciding.Occupancies())
	s.log.Debugw("occupancies reconstructed", map[string]any{
		"coinciding": len(coinciding.Occupancies()),
		"cumulative": len(cumulative.Occupancies()),
	})

	checker := collision.NewChecker(sc)
	boundary, err := collision.NewRoadBoundary(sc, collision.MethodTriangulation)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.Boundary = boundary.Collide(coinciding)
	res.Obstacles = checker.Collide(coinciding)
	if res.Collision() {
		s.log.Infof("%s: a collision occured", sc.ID)
	} else {
		s.log.Infof("%s: no collision detected", sc.ID)
	}

	if wantRender {
		s.renderSource(scene(sc, checker, boundary, coinciding), csvPath)
	}
	return res
}

func scene(sc *scenario.Scenario, c *collision.Checker, b *collision.RoadBoundary, pred *occupancy.SetBasedPrediction) render.Scene {
	return render.Scene{Scenario: sc, Checker: c, Boundary: b, Prediction: pred}
}

func (s *Service) renderSource(sc render.Scene, csvPath string) {
	if s.renderer == nil {
		s.log.Warnf("render requested but capability is disabled; skipping output")
		return
	}
	base := strings.TrimSuffix(filepath.Base(csvPath), ".csv")
	base = strings.TrimSuffix(base, sourceSuffix)
	plotPath := filepath.Join(s.cfg.Paths.OutputDir, base+"_plot.png")
	if err := s.renderer.PlotScene(sc, plotPath); err != nil {
		s.log.Errorf("plot: %v", err)
	}
	if s.cfg.Render.Animation {
		animPath := filepath.Join(s.cfg.Paths.OutputDir, base+"_animation.gif")
		if err := s.renderer.Animate(sc, animPath); err != nil {
			s.log.Errorf("animation: %v", err)
		}
	}
}

// ScenarioPathFor derives the scenario descriptor path from a solution file
// name: <name>_occupancies.csv maps to <scenario_dir>/<name>.xml.
func (s *Service) ScenarioPathFor(csvPath string) string {
	base := filepath.Base(csvPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimSuffix(base, sourceSuffix)
	return filepath.Join(s.cfg.Paths.ScenarioDir, base+".xml")
}

// RunBatch checks every solution file in the results directory. A malformed
// source fails only its own entry; the batch keeps going and the summary
// aggregates the failures.
func (s *Service) RunBatch(ctx context.Context) (report.Summary, error) {
	pattern := filepath.Join(s.cfg.Paths.ResultsDir, "*"+sourceSuffix+".csv")
	sources, err := filepath.Glob(pattern)
	if err != nil {
		return report.Summary{}, fmt.Errorf("scan results dir: %w", err)
	}
	sort.Strings(sources)

	sum := report.Summary{RunID: uuid.NewString(), StartedAt: time.Now()}
	s.log.Infof("batch run %s over %d sources", sum.RunID, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		// Heavy per-source structures (checker, boundary, frames) stay
		// scoped to the call so each iteration releases them.
		sum.Results = append(sum.Results, s.CheckSource(ctx, src, false))
	}
	sum.FinishedAt = time.Now()
	if err := s.sink.RecordSummary(sum); err != nil {
		s.log.Errorf("record summary: %v", err)
	}
	return sum, nil
}

// Close releases the service's long-lived resources.
func (s *Service) Close() error {
	s.bus.Close()
	if s.publisher != nil {
		s.publisher.Close()
	}
	if s.influx != nil {
		s.influx.Close()
	}
	return nil
}
