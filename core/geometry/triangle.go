package geometry

import "math"

// Triangle is the primitive every shape decomposes into. Vertices may wind
// either way.
type Triangle [3]Point

// Bounds returns the triangle's axis-aligned bounding box.
func (t Triangle) Bounds() AABB {
	b := AABB{Min: t[0], Max: t[0]}
	for _, p := range t[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b
}

// Triangles lets a Triangle stand alone as a Shape.
func (t Triangle) Triangles() []Triangle { return []Triangle{t} }

// satGapEps treats gaps below this threshold as contact. Shapes that merely
// touch count as colliding, matching the conservative reading a reachability
// check needs.
const satGapEps = 1e-9

// intersects runs the separating-axis test over the edge normals of both
// triangles. Two convex shapes are disjoint iff some edge normal separates
// them (Ericson, "Real-Time Collision Detection" ch. 5).
func (t Triangle) intersects(o Triangle) bool {
	return !t.separatedBy(o) && !o.separatedBy(t)
}

// separatedBy reports whether any edge normal of t separates t from o.
func (t Triangle) separatedBy(o Triangle) bool {
	for i := 0; i < 3; i++ {
		e := t[(i+1)%3].Sub(t[i])
		// Outward-agnostic normal: the projection test is symmetric in sign.
		nx, ny := -e.Y, e.X
		if nx == 0 && ny == 0 {
			continue
		}
		minT, maxT := projectTriangle(t, nx, ny)
		minO, maxO := projectTriangle(o, nx, ny)
		if minT-maxO > satGapEps || minO-maxT > satGapEps {
			return true
		}
	}
	return false
}

func projectTriangle(t Triangle, nx, ny float64) (min, max float64) {
	min = t[0].X*nx + t[0].Y*ny
	max = min
	for _, p := range t[1:] {
		d := p.X*nx + p.Y*ny
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, max
}
