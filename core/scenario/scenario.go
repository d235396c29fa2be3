// Package scenario loads driving scenario descriptors: the time step of the
// scenario's discrete grid, the lanelet network the road boundary is built
// from, and the static and dynamic obstacles the collision checker tests
// against.
package scenario

import (
	"math"

	"github.com/reachset/occucheck/core/geometry"
)

// Scenario is the in-memory form of a scenario descriptor.
type Scenario struct {
	ID        string
	DT        float64
	Lanelets  []Lanelet
	Obstacles []Obstacle
}

// Lanelet is one road segment bounded by two polylines. The adjacency flags
// record whether another lanelet continues the road laterally; bounds without
// a neighbour form the outer edge of the drivable area.
type Lanelet struct {
	ID               int64
	LeftBound        []geometry.Point
	RightBound       []geometry.Point
	HasAdjacentLeft  bool
	HasAdjacentRight bool
}

// ObstacleRole distinguishes obstacles fixed in place from those following a
// trajectory.
type ObstacleRole int

const (
	RoleStatic ObstacleRole = iota
	RoleDynamic
)

// State is an obstacle pose at one time step.
type State struct {
	Position    geometry.Point
	Orientation float64
	TimeStep    int
}

// ShapeKind enumerates the supported obstacle footprint shapes.
type ShapeKind int

const (
	ShapeRectangle ShapeKind = iota
	ShapeCircle
	ShapePolygon
)

// ShapeSpec is an obstacle footprint in the obstacle's local frame.
type ShapeSpec struct {
	Kind        ShapeKind
	Length      float64
	Width       float64
	Radius      float64
	Orientation float64
	Center      geometry.Point
	Vertices    []geometry.Point
}

// Obstacle is a scenario obstacle. Static obstacles occupy their initial
// pose at every step; dynamic obstacles occupy a pose only at the steps
// their trajectory covers.
type Obstacle struct {
	ID           int64
	Role         ObstacleRole
	Shape        ShapeSpec
	InitialState State
	Trajectory   []State
}

// OccupancyAt returns the obstacle footprint at the given time step, or
// false when the obstacle is absent at that step.
func (o *Obstacle) OccupancyAt(step int) (geometry.Shape, bool) {
	if o.Role == RoleStatic {
		return o.placed(o.InitialState), true
	}
	if o.InitialState.TimeStep == step {
		return o.placed(o.InitialState), true
	}
	for _, st := range o.Trajectory {
		if st.TimeStep == step {
			return o.placed(st), true
		}
	}
	return nil, false
}

// MaxTimeStep returns the last step the obstacle exists at, or -1 for
// obstacles present at every step.
func (o *Obstacle) MaxTimeStep() int {
	if o.Role == RoleStatic {
		return -1
	}
	last := o.InitialState.TimeStep
	for _, st := range o.Trajectory {
		if st.TimeStep > last {
			last = st.TimeStep
		}
	}
	return last
}

// placed instantiates the local footprint at a pose. Shape construction only
// fails on degenerate descriptors, which Load rejects, so errors here reduce
// to nil shapes and are skipped by the checker.
func (o *Obstacle) placed(st State) geometry.Shape {
	sin, cos := math.Sincos(st.Orientation)
	rotate := func(p geometry.Point) geometry.Point {
		return geometry.Point{
			X: st.Position.X + p.X*cos - p.Y*sin,
			Y: st.Position.Y + p.X*sin + p.Y*cos,
		}
	}
	switch o.Shape.Kind {
	case ShapeCircle:
		c, err := geometry.NewCircle(rotate(o.Shape.Center), o.Shape.Radius)
		if err != nil {
			return nil
		}
		return c
	case ShapePolygon:
		vs := make([]geometry.Point, len(o.Shape.Vertices))
		for i, v := range o.Shape.Vertices {
			vs[i] = rotate(v)
		}
		p, err := geometry.NewPolygon(vs)
		if err != nil {
			return nil
		}
		return p
	default:
		r, err := geometry.NewRectangle(rotate(o.Shape.Center), o.Shape.Length, o.Shape.Width, st.Orientation+o.Shape.Orientation)
		if err != nil {
			return nil
		}
		return r
	}
}
