package geometry

import (
	"fmt"
	"math"
)

// Polygon is a closed, not self-intersecting polygon given by its boundary
// vertices. The triangle decomposition is computed once at construction so
// repeated collision queries stay cheap.
type Polygon struct {
	vertices []Point
	tris     []Triangle
	bounds   AABB
}

// NewPolygon builds a polygon from its boundary vertices. A duplicated
// closing vertex is dropped. At least three distinct vertices are required.
func NewPolygon(vertices []Point) (*Polygon, error) {
	vs := append([]Point(nil), vertices...)
	if n := len(vs); n > 1 && vs[0] == vs[n-1] {
		vs = vs[:n-1]
	}
	if len(vs) < 3 {
		return nil, fmt.Errorf("polygon needs at least 3 vertices, got %d", len(vs))
	}
	if signedArea(vs) < 0 {
		reverse(vs)
	}
	p := &Polygon{vertices: vs}
	p.bounds = AABB{Min: vs[0], Max: vs[0]}
	for _, v := range vs[1:] {
		p.bounds.Min.X = math.Min(p.bounds.Min.X, v.X)
		p.bounds.Min.Y = math.Min(p.bounds.Min.Y, v.Y)
		p.bounds.Max.X = math.Max(p.bounds.Max.X, v.X)
		p.bounds.Max.Y = math.Max(p.bounds.Max.Y, v.Y)
	}
	p.tris = earClip(vs)
	return p, nil
}

// Vertices returns the boundary in counter-clockwise order.
func (p *Polygon) Vertices() []Point { return p.vertices }

// Bounds returns the polygon's axis-aligned bounding box.
func (p *Polygon) Bounds() AABB { return p.bounds }

// Triangles returns the ear-clipping decomposition of the polygon.
func (p *Polygon) Triangles() []Triangle { return p.tris }

func signedArea(vs []Point) float64 {
	area := 0.0
	for i, v := range vs {
		w := vs[(i+1)%len(vs)]
		area += v.Cross(w)
	}
	return area / 2
}

func reverse(vs []Point) {
	for i, j := 0, len(vs)-1; i < j; i, j = i+1, j-1 {
		vs[i], vs[j] = vs[j], vs[i]
	}
}

// earClip triangulates a simple polygon in CCW order. Degenerate inputs that
// defeat ear detection fall back to a fan, which is exact for convex shapes
// and still conservative for collision use.
func earClip(vs []Point) []Triangle {
	idx := make([]int, len(vs))
	for i := range idx {
		idx[i] = i
	}
	tris := make([]Triangle, 0, len(vs)-2)
	guard := 0
	for len(idx) > 3 {
		clipped := false
		for i := 0; i < len(idx); i++ {
			prev := idx[(i+len(idx)-1)%len(idx)]
			cur := idx[i]
			next := idx[(i+1)%len(idx)]
			if isEar(vs, idx, prev, cur, next) {
				tris = append(tris, Triangle{vs[prev], vs[cur], vs[next]})
				idx = append(idx[:i], idx[i+1:]...)
				clipped = true
				break
			}
		}
		guard++
		if !clipped || guard > 2*len(vs) {
			return fanTriangulate(vs)
		}
	}
	tris = append(tris, Triangle{vs[idx[0]], vs[idx[1]], vs[idx[2]]})
	return tris
}

func isEar(vs []Point, idx []int, prev, cur, next int) bool {
	a, b, c := vs[prev], vs[cur], vs[next]
	// Reflex vertices cannot be ears in a CCW polygon.
	if b.Sub(a).Cross(c.Sub(b)) <= 0 {
		return false
	}
	for _, j := range idx {
		if j == prev || j == cur || j == next {
			continue
		}
		if pointInTriangle(vs[j], a, b, c) {
			return false
		}
	}
	return true
}

func pointInTriangle(p, a, b, c Point) bool {
	d1 := p.Sub(a).Cross(b.Sub(a))
	d2 := p.Sub(b).Cross(c.Sub(b))
	d3 := p.Sub(c).Cross(a.Sub(c))
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func fanTriangulate(vs []Point) []Triangle {
	tris := make([]Triangle, 0, len(vs)-2)
	for i := 1; i < len(vs)-1; i++ {
		tris = append(tris, Triangle{vs[0], vs[i], vs[i+1]})
	}
	return tris
}
