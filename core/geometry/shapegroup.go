package geometry

import "math"

// ShapeGroup is an unordered collection of shapes sharing a time index, for
// example the cumulative occupancy union or the triangulated road boundary.
// An empty group has an inverted bounding box and intersects nothing.
type ShapeGroup struct {
	shapes []Shape
	bounds AABB
	tris   []Triangle
}

// NewShapeGroup collects the given shapes into a group. The slice is copied;
// the group is immutable afterwards.
func NewShapeGroup(shapes []Shape) *ShapeGroup {
	g := &ShapeGroup{
		shapes: append([]Shape(nil), shapes...),
		bounds: AABB{
			Min: Point{X: math.Inf(1), Y: math.Inf(1)},
			Max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
		},
	}
	for _, s := range g.shapes {
		g.bounds = g.bounds.Extend(s.Bounds())
		g.tris = append(g.tris, s.Triangles()...)
	}
	return g
}

// Shapes returns the member shapes.
func (g *ShapeGroup) Shapes() []Shape { return g.shapes }

// Len returns the number of member shapes.
func (g *ShapeGroup) Len() int { return len(g.shapes) }

// Bounds returns the union bounding box of all members.
func (g *ShapeGroup) Bounds() AABB { return g.bounds }

// Triangles returns the concatenated decompositions of all members.
func (g *ShapeGroup) Triangles() []Triangle { return g.tris }
