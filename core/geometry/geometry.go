// Package geometry provides the 2D shapes used to describe vehicle
// occupancies, obstacles and road boundaries, together with an exact
// intersection test based on triangle decomposition.
package geometry

import "math"

// Point is a 2D coordinate in the scenario frame.
type Point struct {
	X float64
	Y float64
}

// Sub returns the vector p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Cross returns the 2D cross product of p and q.
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }

// AABB is an axis-aligned bounding box used as an intersection prefilter.
type AABB struct {
	Min Point
	Max Point
}

// Overlaps reports whether the two boxes share any area. Touching boxes
// overlap: the box test is only a prefilter and must never reject a pair the
// exact test would accept.
func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X <= o.Max.X && o.Min.X <= b.Max.X &&
		b.Min.Y <= o.Max.Y && o.Min.Y <= b.Max.Y
}

// Extend grows the box to contain o.
func (b AABB) Extend(o AABB) AABB {
	return AABB{
		Min: Point{X: math.Min(b.Min.X, o.Min.X), Y: math.Min(b.Min.Y, o.Min.Y)},
		Max: Point{X: math.Max(b.Max.X, o.Max.X), Y: math.Max(b.Max.Y, o.Max.Y)},
	}
}

// Shape is any geometric object that can take part in a collision query.
// Concrete shapes decompose into triangles so that non-convex polygons can be
// tested with the convex separating-axis routine.
type Shape interface {
	Bounds() AABB
	Triangles() []Triangle
}

// Intersects reports whether two shapes share any area. The bounding boxes
// act as a prefilter; the exact answer comes from pairwise SAT tests over the
// triangle decompositions.
func Intersects(a, b Shape) bool {
	if a == nil || b == nil {
		return false
	}
	if !a.Bounds().Overlaps(b.Bounds()) {
		return false
	}
	for _, ta := range a.Triangles() {
		for _, tb := range b.Triangles() {
			if ta.intersects(tb) {
				return true
			}
		}
	}
	return false
}
