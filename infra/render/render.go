// Package render draws scenario plots and animations of a checked occupancy
// prediction. Occupancies are coloured by their per-frame verdict: red for
// obstacle hits, yellow for boundary-only hits, green for clear frames.
package render

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"

	"github.com/reachset/occucheck/config"
	"github.com/reachset/occucheck/core/collision"
	"github.com/reachset/occucheck/core/geometry"
	"github.com/reachset/occucheck/core/occupancy"
	"github.com/reachset/occucheck/core/scenario"
	"github.com/reachset/occucheck/infra/logger"
)

// Scene bundles everything a frame needs.
type Scene struct {
	Scenario   *scenario.Scenario
	Checker    *collision.Checker
	Boundary   *collision.RoadBoundary
	Prediction *occupancy.SetBasedPrediction
}

// Renderer writes PNG plots and GIF animations.
type Renderer struct {
	cfg config.RenderConfig
	log logger.Logger
}

// New creates a renderer from the configuration.
func New(cfg config.RenderConfig, log logger.Logger) *Renderer {
	return &Renderer{cfg: cfg, log: log}
}

// PlotScene writes a single PNG showing the whole covered range at once.
func (r *Renderer) PlotScene(scene Scene, outPath string) error {
	dc, tf := r.newFrame(scene)
	for step := scene.Prediction.TimeStartIdx(); step <= scene.Prediction.TimeEndIdx(); step++ {
		r.drawOccupancy(dc, tf, scene, step)
	}
	r.drawObstaclesAll(dc, tf, scene)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	if err := dc.SavePNG(outPath); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	r.log.Infof("plot saved under %s", outPath)
	return nil
}

// Animate writes a GIF with one frame per covered time step.
func (r *Renderer) Animate(scene Scene, outPath string) error {
	anim := &gif.GIF{}
	delay := 100 / r.cfg.FPS
	for step := scene.Prediction.TimeStartIdx(); step <= scene.Prediction.TimeEndIdx(); step++ {
		dc, tf := r.newFrame(scene)
		r.drawShapeGroup(dc, tf, scene.Checker.TimeSlice(step), 0.2, 0.4, 0.8)
		r.drawOccupancy(dc, tf, scene, step)
		frame := dc.Image()
		pal := image.NewPaletted(frame.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pal, frame.Bounds(), frame, image.Point{})
		anim.Image = append(anim.Image, pal)
		anim.Delay = append(anim.Delay, delay)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create animation: %w", err)
	}
	defer func() { _ = f.Close() }()
	if err := gif.EncodeAll(f, anim); err != nil {
		return fmt.Errorf("encode animation: %w", err)
	}
	r.log.Infof("animation saved under %s", outPath)
	return nil
}

// transform maps scenario coordinates to pixels, y flipped.
type transform struct {
	scale  float64
	minX   float64
	maxY   float64
	margin float64
}

func (t transform) apply(p geometry.Point) (float64, float64) {
	return (p.X-t.minX)*t.scale + t.margin, (t.maxY-p.Y)*t.scale + t.margin
}

func (r *Renderer) newFrame(scene Scene) (*gg.Context, transform) {
	dc := gg.NewContext(r.cfg.Width, r.cfg.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	b := sceneBounds(scene)
	const margin = 20.0
	spanX := b.Max.X - b.Min.X
	spanY := b.Max.Y - b.Min.Y
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}
	scale := math.Min(
		(float64(r.cfg.Width)-2*margin)/spanX,
		(float64(r.cfg.Height)-2*margin)/spanY,
	)
	tf := transform{scale: scale, minX: b.Min.X, maxY: b.Max.Y, margin: margin}

	// Lanelet bounds in light gray, boundary strips in dark gray.
	dc.SetRGB(0.7, 0.7, 0.7)
	dc.SetLineWidth(1)
	for _, l := range scene.Scenario.Lanelets {
		r.strokePolyline(dc, tf, l.LeftBound)
		r.strokePolyline(dc, tf, l.RightBound)
	}
	r.drawShapeGroup(dc, tf, scene.Boundary.ShapeGroup(), 0.35, 0.35, 0.35)
	return dc, tf
}

func (r *Renderer) drawOccupancy(dc *gg.Context, tf transform, scene Scene, step int) {
	shape, ok := scene.Prediction.ShapeAtTime(step)
	if !ok {
		return
	}
	switch {
	case geometry.Intersects(shape, scene.Checker.TimeSlice(step)):
		r.drawShape(dc, tf, shape, 0.85, 0.1, 0.1)
	case geometry.Intersects(shape, scene.Boundary.ShapeGroup()):
		r.drawShape(dc, tf, shape, 0.9, 0.8, 0.1)
	default:
		r.drawShape(dc, tf, shape, 0.1, 0.7, 0.2)
	}
}

func (r *Renderer) drawObstaclesAll(dc *gg.Context, tf transform, scene Scene) {
	for step := scene.Prediction.TimeStartIdx(); step <= scene.Prediction.TimeEndIdx(); step++ {
		r.drawShapeGroup(dc, tf, scene.Checker.TimeSlice(step), 0.2, 0.4, 0.8)
	}
}

func (r *Renderer) drawShapeGroup(dc *gg.Context, tf transform, g *geometry.ShapeGroup, red, green, blue float64) {
	for _, s := range g.Shapes() {
		r.drawShape(dc, tf, s, red, green, blue)
	}
}

func (r *Renderer) drawShape(dc *gg.Context, tf transform, s geometry.Shape, red, green, blue float64) {
	dc.SetRGBA(red, green, blue, 0.6)
	if p, ok := s.(*geometry.Polygon); ok {
		r.fillRing(dc, tf, p.Vertices())
		return
	}
	for _, t := range s.Triangles() {
		r.fillRing(dc, tf, t[:])
	}
}

func (r *Renderer) fillRing(dc *gg.Context, tf transform, vs []geometry.Point) {
	if len(vs) == 0 {
		return
	}
	x, y := tf.apply(vs[0])
	dc.MoveTo(x, y)
	for _, v := range vs[1:] {
		x, y = tf.apply(v)
		dc.LineTo(x, y)
	}
	dc.ClosePath()
	dc.Fill()
}

func (r *Renderer) strokePolyline(dc *gg.Context, tf transform, vs []geometry.Point) {
	if len(vs) < 2 {
		return
	}
	x, y := tf.apply(vs[0])
	dc.MoveTo(x, y)
	for _, v := range vs[1:] {
		x, y = tf.apply(v)
		dc.LineTo(x, y)
	}
	dc.Stroke()
}

func sceneBounds(scene Scene) geometry.AABB {
	b := geometry.AABB{
		Min: geometry.Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: geometry.Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	extendPoint := func(p geometry.Point) {
		b = b.Extend(geometry.AABB{Min: p, Max: p})
	}
	for _, l := range scene.Scenario.Lanelets {
		for _, p := range l.LeftBound {
			extendPoint(p)
		}
		for _, p := range l.RightBound {
			extendPoint(p)
		}
	}
	for _, occ := range scene.Prediction.Occupancies() {
		b = b.Extend(occ.Shape.Bounds())
	}
	if math.IsInf(b.Min.X, 1) {
		b = geometry.AABB{Min: geometry.Point{X: -1, Y: -1}, Max: geometry.Point{X: 1, Y: 1}}
	}
	return b
}
