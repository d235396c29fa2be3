package occupancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reachset/occucheck/core/geometry"
)

func poly(t *testing.T, offset float64) *geometry.Polygon {
	t.Helper()
	p, err := geometry.NewPolygon([]geometry.Point{
		{X: offset, Y: 0}, {X: offset + 1, Y: 0}, {X: offset + 1, Y: 1}, {X: offset, Y: 1},
	})
	require.NoError(t, err)
	return p
}

func groupLen(t *testing.T, s geometry.Shape) int {
	t.Helper()
	g, ok := s.(*geometry.ShapeGroup)
	require.True(t, ok, "expected shape group, got %T", s)
	return g.Len()
}

func TestReconstructAlignedIntervals(t *testing.T) {
	p1, p2 := poly(t, 0), poly(t, 5)
	coin, cum, err := Reconstruct([]Interval{
		{Start: 0, End: 1, Polygon: p1},
		{Start: 1, End: 2, Polygon: p2},
	}, 1.0)
	require.NoError(t, err)

	// Coinciding: exactly the bracketing interval's polygon per grid point.
	require.Len(t, coin.Occupancies(), 2)
	assert.Equal(t, 0, coin.Occupancies()[0].TimeStep)
	assert.Same(t, p1, coin.Occupancies()[0].Shape)
	assert.Equal(t, 1, coin.Occupancies()[1].TimeStep)
	assert.Same(t, p2, coin.Occupancies()[1].Shape)

	// Cumulative: empty start state, then {p1} at 0, then {p1,p2} at 1.
	require.Len(t, cum.Occupancies(), 3)
	assert.Equal(t, 0, cum.Occupancies()[0].TimeStep)
	assert.Equal(t, 0, groupLen(t, cum.Occupancies()[0].Shape))
	assert.Equal(t, 0, cum.Occupancies()[1].TimeStep)
	assert.Equal(t, 1, groupLen(t, cum.Occupancies()[1].Shape))
	assert.Equal(t, 1, cum.Occupancies()[2].TimeStep)
	assert.Equal(t, 2, groupLen(t, cum.Occupancies()[2].Shape))
}

func TestReconstructBuffersSubStepIntervals(t *testing.T) {
	p1, p2, p3 := poly(t, 0), poly(t, 2), poly(t, 4)
	coin, cum, err := Reconstruct([]Interval{
		{Start: 0, End: 0.4, Polygon: p1},
		{Start: 0.4, End: 0.8, Polygon: p2},
		{Start: 0.8, End: 1.2, Polygon: p3},
	}, 1.0)
	require.NoError(t, err)

	// Only the straddling intervals coincide with grid points.
	require.Len(t, coin.Occupancies(), 2)
	assert.Same(t, p1, coin.Occupancies()[0].Shape)
	assert.Equal(t, 0, coin.Occupancies()[0].TimeStep)
	assert.Same(t, p3, coin.Occupancies()[1].Shape)
	assert.Equal(t, 1, coin.Occupancies()[1].TimeStep)

	// Grid point 1 accumulates everything seen since grid point 0 closed:
	// p1 re-seeded across the boundary, p2 buffered, p3 straddling.
	last := cum.Occupancies()[len(cum.Occupancies())-1]
	assert.Equal(t, 1, last.TimeStep)
	assert.Equal(t, 3, groupLen(t, last.Shape))
}

func TestReconstructStraddlingSeedsNextPeriod(t *testing.T) {
	p1, p2 := poly(t, 0), poly(t, 2)
	_, cum, err := Reconstruct([]Interval{
		{Start: 0, End: 1, Polygon: p1},
		{Start: 1, End: 2, Polygon: p2},
	}, 1.0)
	require.NoError(t, err)

	// p1 spans [0,1]: it must close out grid point 0 and appear again in
	// grid point 1's union.
	idx1 := cum.Occupancies()[len(cum.Occupancies())-1]
	require.Equal(t, 1, idx1.TimeStep)
	g := idx1.Shape.(*geometry.ShapeGroup)
	assert.Contains(t, g.Shapes(), geometry.Shape(p1))
	assert.Contains(t, g.Shapes(), geometry.Shape(p2))
}

func TestReconstructZeroDurationInterval(t *testing.T) {
	p1 := poly(t, 0)
	coin, cum, err := Reconstruct([]Interval{
		{Start: 0, End: 0, Polygon: p1},
	}, 1.0)
	require.NoError(t, err)

	require.Len(t, coin.Occupancies(), 1)
	assert.Equal(t, 0, coin.Occupancies()[0].TimeStep)
	assert.Same(t, p1, coin.Occupancies()[0].Shape)

	// Empty start state, then the zero-duration interval closes out grid 0.
	require.Len(t, cum.Occupancies(), 2)
	assert.Equal(t, 0, groupLen(t, cum.Occupancies()[0].Shape))
	assert.Equal(t, 1, groupLen(t, cum.Occupancies()[1].Shape))
}

func TestReconstructNoEmptyGroupWhenStartLater(t *testing.T) {
	// A first interval not starting exactly at t=0 must not emit the
	// zero-duration start state.
	p1 := poly(t, 0)
	_, cum, err := Reconstruct([]Interval{
		{Start: -0.5, End: 0.5, Polygon: p1},
	}, 1.0)
	require.NoError(t, err)
	for _, occ := range cum.Occupancies() {
		assert.NotZero(t, groupLen(t, occ.Shape))
	}
}

func TestReconstructNegativeDuration(t *testing.T) {
	_, _, err := Reconstruct([]Interval{
		{Start: 1, End: 0.5, Polygon: poly(t, 0)},
	}, 1.0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNegativeDuration)
	var merr *MalformedInputError
	assert.ErrorAs(t, err, &merr)
}

func TestReconstructStepSizeExceeded(t *testing.T) {
	_, _, err := Reconstruct([]Interval{
		{Start: 0, End: 0.5, Polygon: poly(t, 0)},
	}, 0.1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStepSizeExceeded)
}

func TestReconstructChronologicalOrderViolation(t *testing.T) {
	_, _, err := Reconstruct([]Interval{
		{Start: 0, End: 1, Polygon: poly(t, 0)},
		{Start: 2.5, End: 3, Polygon: poly(t, 2)},
	}, 1.0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrChronologicalOrder)
}

func TestReconstructRoundingAbsorbsDrift(t *testing.T) {
	// 0.1+0.2 is not 0.3 in binary; five-decimal rounding must still land
	// the interval on its grid point.
	p1, p2, p3 := poly(t, 0), poly(t, 2), poly(t, 4)
	coin, _, err := Reconstruct([]Interval{
		{Start: 0, End: 0.1, Polygon: p1},
		{Start: 0.1, End: 0.2, Polygon: p2},
		{Start: 0.1 + 0.2 - 0.1, End: 0.30000000000000004, Polygon: p3},
	}, 0.1)
	require.NoError(t, err)
	require.Len(t, coin.Occupancies(), 3)
	for i, occ := range coin.Occupancies() {
		assert.Equal(t, i, occ.TimeStep)
	}
}

func TestReconstructIdempotent(t *testing.T) {
	intervals := []Interval{
		{Start: 0, End: 0.4, Polygon: poly(t, 0)},
		{Start: 0.4, End: 0.8, Polygon: poly(t, 2)},
		{Start: 0.8, End: 1.2, Polygon: poly(t, 4)},
		{Start: 1.2, End: 2, Polygon: poly(t, 6)},
	}
	coin1, cum1, err := Reconstruct(intervals, 1.0)
	require.NoError(t, err)
	coin2, cum2, err := Reconstruct(intervals, 1.0)
	require.NoError(t, err)
	assert.Equal(t, coin1.Occupancies(), coin2.Occupancies())
	require.Len(t, cum1.Occupancies(), len(cum2.Occupancies()))
	for i := range cum1.Occupancies() {
		assert.Equal(t, cum1.Occupancies()[i].TimeStep, cum2.Occupancies()[i].TimeStep)
		assert.Equal(t, groupLen(t, cum1.Occupancies()[i].Shape), groupLen(t, cum2.Occupancies()[i].Shape))
	}
}

func TestReconstructMonotonicTimeSteps(t *testing.T) {
	coin, cum, err := Reconstruct([]Interval{
		{Start: 0, End: 0.5, Polygon: poly(t, 0)},
		{Start: 0.5, End: 1, Polygon: poly(t, 1)},
		{Start: 1, End: 1.5, Polygon: poly(t, 2)},
		{Start: 1.5, End: 2, Polygon: poly(t, 3)},
		{Start: 2, End: 2.5, Polygon: poly(t, 4)},
	}, 1.0)
	require.NoError(t, err)

	// Coinciding steps are strictly increasing with no duplicates.
	for i := 1; i < len(coin.Occupancies()); i++ {
		assert.Greater(t, coin.Occupancies()[i].TimeStep, coin.Occupancies()[i-1].TimeStep)
	}
	// Cumulative steps never decrease, and every coinciding step appears.
	for i := 1; i < len(cum.Occupancies()); i++ {
		assert.GreaterOrEqual(t, cum.Occupancies()[i].TimeStep, cum.Occupancies()[i-1].TimeStep)
	}
	cumSteps := map[int]bool{}
	for _, occ := range cum.Occupancies() {
		cumSteps[occ.TimeStep] = true
	}
	for _, occ := range coin.Occupancies() {
		assert.True(t, cumSteps[occ.TimeStep], "coinciding step %d missing from cumulative", occ.TimeStep)
	}
}

func TestPredictionQueries(t *testing.T) {
	p1, p2 := poly(t, 0), poly(t, 5)
	coin, _, err := Reconstruct([]Interval{
		{Start: 0, End: 1, Polygon: p1},
		{Start: 1, End: 2, Polygon: p2},
	}, 1.0)
	require.NoError(t, err)

	assert.Equal(t, 0, coin.TimeStartIdx())
	assert.Equal(t, 1, coin.TimeEndIdx())
	s, ok := coin.ShapeAtTime(1)
	require.True(t, ok)
	assert.Same(t, p2, s)
	_, ok = coin.ShapeAtTime(7)
	assert.False(t, ok)
}
