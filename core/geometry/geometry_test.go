package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(t *testing.T, x, y, size float64) *Polygon {
	t.Helper()
	p, err := NewPolygon([]Point{
		{X: x, Y: y}, {X: x + size, Y: y}, {X: x + size, Y: y + size}, {X: x, Y: y + size},
	})
	require.NoError(t, err)
	return p
}

func TestNewPolygonRejectsDegenerate(t *testing.T) {
	_, err := NewPolygon([]Point{{X: 0, Y: 0}, {X: 1, Y: 1}})
	assert.Error(t, err)

	// A duplicated closing vertex is tolerated.
	p, err := NewPolygon([]Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 0}})
	require.NoError(t, err)
	assert.Len(t, p.Vertices(), 3)
}

func TestNewPolygonNormalizesWinding(t *testing.T) {
	// Clockwise input gets reversed to CCW.
	p, err := NewPolygon([]Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}})
	require.NoError(t, err)
	assert.Positive(t, signedArea(p.Vertices()))
}

func TestPolygonTriangulation(t *testing.T) {
	p := square(t, 0, 0, 1)
	assert.Len(t, p.Triangles(), 2)

	// L-shape: 6 vertices, 4 triangles.
	l, err := NewPolygon([]Point{
		{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 3}, {X: 0, Y: 3},
	})
	require.NoError(t, err)
	assert.Len(t, l.Triangles(), 4)
}

func TestIntersectsOverlapAndDisjoint(t *testing.T) {
	a := square(t, 0, 0, 2)
	b := square(t, 1, 1, 2)
	c := square(t, 5, 5, 1)

	assert.True(t, Intersects(a, b))
	assert.True(t, Intersects(b, a))
	assert.False(t, Intersects(a, c))
}

func TestIntersectsContainment(t *testing.T) {
	outer := square(t, 0, 0, 10)
	inner := square(t, 4, 4, 1)
	assert.True(t, Intersects(outer, inner))
	assert.True(t, Intersects(inner, outer))
}

func TestIntersectsTouchingCountsAsContact(t *testing.T) {
	a := square(t, 0, 0, 1)
	b := square(t, 1, 0, 1)
	assert.True(t, Intersects(a, b))
}

func TestIntersectsRespectsConcavity(t *testing.T) {
	// A square placed inside the L-shape's notch does not collide.
	l, err := NewPolygon([]Point{
		{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 3}, {X: 0, Y: 3},
	})
	require.NoError(t, err)
	notch := square(t, 1.5, 1.5, 1)
	assert.False(t, Intersects(l, notch))

	overlapping := square(t, 0.5, 0.5, 1)
	assert.True(t, Intersects(l, overlapping))
}

func TestShapeGroup(t *testing.T) {
	a := square(t, 0, 0, 1)
	b := square(t, 10, 10, 1)
	g := NewShapeGroup([]Shape{a, b})

	assert.Equal(t, 2, g.Len())
	assert.Len(t, g.Triangles(), 4)
	assert.Equal(t, 0.0, g.Bounds().Min.X)
	assert.Equal(t, 11.0, g.Bounds().Max.Y)

	probe := square(t, 10.5, 10.5, 1)
	assert.True(t, Intersects(g, probe))
	far := square(t, 100, 100, 1)
	assert.False(t, Intersects(g, far))
}

func TestEmptyShapeGroupIntersectsNothing(t *testing.T) {
	g := NewShapeGroup(nil)
	assert.False(t, Intersects(g, square(t, 0, 0, 1)))
	assert.False(t, Intersects(square(t, 0, 0, 1), g))
}

func TestNewRectangleOrientation(t *testing.T) {
	// Axis-aligned: length along x.
	r, err := NewRectangle(Point{X: 0, Y: 0}, 4, 2, 0)
	require.NoError(t, err)
	b := r.Bounds()
	assert.InDelta(t, -2, b.Min.X, 1e-12)
	assert.InDelta(t, 2, b.Max.X, 1e-12)
	assert.InDelta(t, -1, b.Min.Y, 1e-12)

	// Rotated a quarter turn: length along y.
	r90, err := NewRectangle(Point{X: 0, Y: 0}, 4, 2, 1.5707963267948966)
	require.NoError(t, err)
	b90 := r90.Bounds()
	assert.InDelta(t, -2, b90.Min.Y, 1e-9)
	assert.InDelta(t, -1, b90.Min.X, 1e-9)
}

func TestNewCircleIsCircumscribed(t *testing.T) {
	c, err := NewCircle(Point{X: 0, Y: 0}, 1)
	require.NoError(t, err)

	// The boundary point (1,0) of the true circle lies inside the
	// circumscribed approximation.
	probe, err := NewPolygon([]Point{
		{X: 0.999, Y: -0.0005}, {X: 1.0, Y: 0}, {X: 0.999, Y: 0.0005},
	})
	require.NoError(t, err)
	assert.True(t, Intersects(c, probe))

	far := square(t, 1.2, 0, 1)
	assert.False(t, Intersects(c, far))
}
