package scenario

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	"github.com/reachset/occucheck/core/geometry"
)

// NormalizePath appends the .xml extension when the path carries none.
func NormalizePath(path string) string {
	if filepath.Ext(path) != ".xml" {
		path += ".xml"
	}
	return path
}

// Load reads a scenario descriptor from disk. A missing file surfaces as an
// fs.ErrNotExist wrap; a descriptor without a positive time step is rejected.
func Load(path string) (*Scenario, error) {
	path = NormalizePath(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load scenario %s: %w", filepath.Base(path), err)
	}
	if sc.ID == "" {
		name := filepath.Base(path)
		sc.ID = name[:len(name)-len(filepath.Ext(name))]
	}
	return sc, nil
}

// Parse decodes a scenario descriptor from raw XML.
func Parse(data []byte) (*Scenario, error) {
	var doc xmlCommonRoad
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse descriptor: %w", err)
	}
	if doc.TimeStepSize <= 0 {
		return nil, fmt.Errorf("descriptor time step must be positive, got %g", doc.TimeStepSize)
	}

	sc := &Scenario{ID: doc.BenchmarkID, DT: doc.TimeStepSize}
	for _, l := range doc.Lanelets {
		sc.Lanelets = append(sc.Lanelets, Lanelet{
			ID:               l.ID,
			LeftBound:        l.LeftBound.points(),
			RightBound:       l.RightBound.points(),
			HasAdjacentLeft:  l.AdjacentLeft != nil,
			HasAdjacentRight: l.AdjacentRight != nil,
		})
	}
	for _, o := range doc.StaticObstacles {
		ob, err := o.obstacle(RoleStatic)
		if err != nil {
			return nil, err
		}
		sc.Obstacles = append(sc.Obstacles, ob)
	}
	for _, o := range doc.DynamicObstacles {
		ob, err := o.obstacle(RoleDynamic)
		if err != nil {
			return nil, err
		}
		sc.Obstacles = append(sc.Obstacles, ob)
	}
	return sc, nil
}

type xmlCommonRoad struct {
	XMLName          xml.Name      `xml:"commonRoad"`
	BenchmarkID      string        `xml:"benchmarkID,attr"`
	TimeStepSize     float64       `xml:"timeStepSize,attr"`
	Lanelets         []xmlLanelet  `xml:"lanelet"`
	StaticObstacles  []xmlObstacle `xml:"staticObstacle"`
	DynamicObstacles []xmlObstacle `xml:"dynamicObstacle"`
}

type xmlLanelet struct {
	ID            int64     `xml:"id,attr"`
	LeftBound     xmlBound  `xml:"leftBound"`
	RightBound    xmlBound  `xml:"rightBound"`
	AdjacentLeft  *xmlAdjac `xml:"adjacentLeft"`
	AdjacentRight *xmlAdjac `xml:"adjacentRight"`
}

type xmlAdjac struct {
	Ref int64 `xml:"ref,attr"`
}

type xmlBound struct {
	Points []xmlPoint `xml:"point"`
}

func (b xmlBound) points() []geometry.Point {
	ps := make([]geometry.Point, len(b.Points))
	for i, p := range b.Points {
		ps[i] = geometry.Point{X: p.X, Y: p.Y}
	}
	return ps
}

type xmlPoint struct {
	X float64 `xml:"x"`
	Y float64 `xml:"y"`
}

type xmlObstacle struct {
	ID           int64         `xml:"id,attr"`
	Shape        xmlShape      `xml:"shape"`
	InitialState xmlState      `xml:"initialState"`
	Trajectory   xmlTrajectory `xml:"trajectory"`
}

type xmlShape struct {
	Rectangle *xmlRectangle `xml:"rectangle"`
	Circle    *xmlCircle    `xml:"circle"`
	Polygon   *xmlPolygon   `xml:"polygon"`
}

type xmlRectangle struct {
	Length      float64   `xml:"length"`
	Width       float64   `xml:"width"`
	Orientation float64   `xml:"orientation"`
	Center      *xmlPoint `xml:"center"`
}

type xmlCircle struct {
	Radius float64   `xml:"radius"`
	Center *xmlPoint `xml:"center"`
}

type xmlPolygon struct {
	Points []xmlPoint `xml:"point"`
}

type xmlState struct {
	Position    xmlPosition `xml:"position"`
	Orientation xmlExact    `xml:"orientation"`
	Time        xmlExact    `xml:"time"`
}

type xmlPosition struct {
	Point xmlPoint `xml:"point"`
}

type xmlExact struct {
	Exact float64 `xml:"exact"`
}

type xmlTrajectory struct {
	States []xmlState `xml:"state"`
}

func (o xmlObstacle) obstacle(role ObstacleRole) (Obstacle, error) {
	spec, err := o.Shape.spec()
	if err != nil {
		return Obstacle{}, fmt.Errorf("obstacle %d: %w", o.ID, err)
	}
	ob := Obstacle{
		ID:           o.ID,
		Role:         role,
		Shape:        spec,
		InitialState: o.InitialState.state(),
	}
	for _, st := range o.Trajectory.States {
		ob.Trajectory = append(ob.Trajectory, st.state())
	}
	return ob, nil
}

func (s xmlState) state() State {
	return State{
		Position:    geometry.Point{X: s.Position.Point.X, Y: s.Position.Point.Y},
		Orientation: s.Orientation.Exact,
		TimeStep:    int(s.Time.Exact),
	}
}

func (s xmlShape) spec() (ShapeSpec, error) {
	switch {
	case s.Rectangle != nil:
		r := s.Rectangle
		if r.Length <= 0 || r.Width <= 0 {
			return ShapeSpec{}, fmt.Errorf("rectangle extents must be positive")
		}
		spec := ShapeSpec{Kind: ShapeRectangle, Length: r.Length, Width: r.Width, Orientation: r.Orientation}
		if r.Center != nil {
			spec.Center = geometry.Point{X: r.Center.X, Y: r.Center.Y}
		}
		return spec, nil
	case s.Circle != nil:
		c := s.Circle
		if c.Radius <= 0 {
			return ShapeSpec{}, fmt.Errorf("circle radius must be positive")
		}
		spec := ShapeSpec{Kind: ShapeCircle, Radius: c.Radius}
		if c.Center != nil {
			spec.Center = geometry.Point{X: c.Center.X, Y: c.Center.Y}
		}
		return spec, nil
	case s.Polygon != nil:
		if len(s.Polygon.Points) < 3 {
			return ShapeSpec{}, fmt.Errorf("polygon needs at least 3 vertices")
		}
		spec := ShapeSpec{Kind: ShapePolygon}
		for _, p := range s.Polygon.Points {
			spec.Vertices = append(spec.Vertices, geometry.Point{X: p.X, Y: p.Y})
		}
		return spec, nil
	default:
		return ShapeSpec{}, fmt.Errorf("obstacle shape missing or unsupported")
	}
}
