package collision

import (
	"fmt"
	"math"

	"github.com/reachset/occucheck/core/geometry"
	"github.com/reachset/occucheck/core/occupancy"
	"github.com/reachset/occucheck/core/scenario"
)

// MethodTriangulation is the only supported road boundary construction
// method: outer lanelet bounds are extruded into triangle strips.
const MethodTriangulation = "triangulation"

// boundaryWidth is the outward extrusion of the boundary strips in meters.
const boundaryWidth = 0.5

// RoadBoundary is the time-invariant geometry of the drivable-area limits.
type RoadBoundary struct {
	group *geometry.ShapeGroup
}

// NewRoadBoundary builds the road boundary from the scenario's lanelet
// network. Every lanelet bound without a lateral neighbour is part of the
// outer edge and contributes one extruded triangle strip.
func NewRoadBoundary(sc *scenario.Scenario, method string) (*RoadBoundary, error) {
	if method != MethodTriangulation {
		return nil, fmt.Errorf("unsupported road boundary method %q", method)
	}
	var tris []geometry.Shape
	for _, l := range sc.Lanelets {
		if !l.HasAdjacentLeft {
			tris = append(tris, extrudeBound(l.LeftBound, l.RightBound)...)
		}
		if !l.HasAdjacentRight {
			tris = append(tris, extrudeBound(l.RightBound, l.LeftBound)...)
		}
	}
	return &RoadBoundary{group: geometry.NewShapeGroup(tris)}, nil
}

// ShapeGroup returns the boundary triangles, e.g. for rendering.
func (b *RoadBoundary) ShapeGroup() *geometry.ShapeGroup { return b.group }

// Collide reports whether any prediction occupancy intersects the boundary.
// The boundary does not move, so every covered step is tested against the
// same geometry.
func (b *RoadBoundary) Collide(pred *occupancy.SetBasedPrediction) bool {
	for _, occ := range pred.Occupancies() {
		if geometry.Intersects(occ.Shape, b.group) {
			return true
		}
	}
	return false
}

// extrudeBound turns a bound polyline into a strip of triangles offset away
// from the lanelet interior. The opposite bound tells which side the
// interior is on.
func extrudeBound(bound, opposite []geometry.Point) []geometry.Shape {
	if len(bound) < 2 {
		return nil
	}
	inner := centroid(opposite)
	var tris []geometry.Shape
	for i := 0; i+1 < len(bound); i++ {
		p, q := bound[i], bound[i+1]
		dx, dy := q.X-p.X, q.Y-p.Y
		norm := math.Hypot(dx, dy)
		if norm == 0 {
			continue
		}
		// Segment normal, flipped to point away from the interior.
		nx, ny := -dy/norm, dx/norm
		mid := geometry.Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
		if (inner.X-mid.X)*nx+(inner.Y-mid.Y)*ny > 0 {
			nx, ny = -nx, -ny
		}
		po := geometry.Point{X: p.X + nx*boundaryWidth, Y: p.Y + ny*boundaryWidth}
		qo := geometry.Point{X: q.X + nx*boundaryWidth, Y: q.Y + ny*boundaryWidth}
		tris = append(tris,
			geometry.Triangle{p, q, qo},
			geometry.Triangle{p, qo, po},
		)
	}
	return tris
}

func centroid(ps []geometry.Point) geometry.Point {
	if len(ps) == 0 {
		return geometry.Point{}
	}
	var c geometry.Point
	for _, p := range ps {
		c.X += p.X
		c.Y += p.Y
	}
	c.X /= float64(len(ps))
	c.Y /= float64(len(ps))
	return c
}
