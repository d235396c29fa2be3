package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reachset/occucheck/core/geometry"
	"github.com/reachset/occucheck/core/occupancy"
	"github.com/reachset/occucheck/core/scenario"
)

// straightRoad is a 50 m two-bound road around y=0 with no lateral
// neighbours, so both bounds carry boundary strips.
func straightRoad() *scenario.Scenario {
	return &scenario.Scenario{
		ID: "TEST_Road-1",
		DT: 0.1,
		Lanelets: []scenario.Lanelet{{
			ID:         1,
			LeftBound:  []geometry.Point{{X: 0, Y: 2}, {X: 50, Y: 2}},
			RightBound: []geometry.Point{{X: 0, Y: -2}, {X: 50, Y: -2}},
		}},
	}
}

func staticBox(x, y float64) scenario.Obstacle {
	return scenario.Obstacle{
		ID:           7,
		Role:         scenario.RoleStatic,
		Shape:        scenario.ShapeSpec{Kind: scenario.ShapeRectangle, Length: 4, Width: 2},
		InitialState: scenario.State{Position: geometry.Point{X: x, Y: y}},
	}
}

func prediction(t *testing.T, step int, x, y, size float64) *occupancy.SetBasedPrediction {
	t.Helper()
	p, err := geometry.NewPolygon([]geometry.Point{
		{X: x, Y: y}, {X: x + size, Y: y}, {X: x + size, Y: y + size}, {X: x, Y: y + size},
	})
	require.NoError(t, err)
	return occupancy.NewSetBasedPrediction(0, []occupancy.Occupancy{{TimeStep: step, Shape: p}})
}

func TestCheckerNoCollision(t *testing.T) {
	sc := straightRoad()
	sc.Obstacles = append(sc.Obstacles, staticBox(40, 0))
	checker := NewChecker(sc)
	boundary, err := NewRoadBoundary(sc, MethodTriangulation)
	require.NoError(t, err)

	// Occupancy well inside the road and far from the obstacle.
	pred := prediction(t, 0, 5, -0.5, 1)
	assert.False(t, checker.Collide(pred))
	assert.False(t, boundary.Collide(pred))
}

func TestCheckerObstacleCollision(t *testing.T) {
	sc := straightRoad()
	sc.Obstacles = append(sc.Obstacles, staticBox(10, 0))
	checker := NewChecker(sc)

	pred := prediction(t, 3, 9, -0.5, 1)
	assert.True(t, checker.Collide(pred))
}

func TestBoundaryOnlyCollision(t *testing.T) {
	sc := straightRoad()
	sc.Obstacles = append(sc.Obstacles, staticBox(40, 0))
	checker := NewChecker(sc)
	boundary, err := NewRoadBoundary(sc, MethodTriangulation)
	require.NoError(t, err)

	// Occupancy poking over the left bound at y=2 into the strip.
	pred := prediction(t, 0, 5, 1.8, 1)
	assert.True(t, boundary.Collide(pred))
	assert.False(t, checker.Collide(pred))
}

func TestDynamicObstacleTiming(t *testing.T) {
	sc := straightRoad()
	sc.Obstacles = append(sc.Obstacles, scenario.Obstacle{
		ID:           8,
		Role:         scenario.RoleDynamic,
		Shape:        scenario.ShapeSpec{Kind: scenario.ShapeRectangle, Length: 2, Width: 2},
		InitialState: scenario.State{Position: geometry.Point{X: 5, Y: 0}, TimeStep: 0},
		Trajectory: []scenario.State{
			{Position: geometry.Point{X: 8, Y: 0}, TimeStep: 1},
		},
	})
	checker := NewChecker(sc)

	// The obstacle is at x=8 only at step 1: an occupancy there at step 0
	// misses it, the same occupancy at step 1 hits it.
	assert.False(t, checker.Collide(prediction(t, 0, 7.5, -0.5, 1)))
	assert.True(t, checker.Collide(prediction(t, 1, 7.5, -0.5, 1)))
	// After the trajectory ends the obstacle is gone.
	assert.False(t, checker.Collide(prediction(t, 2, 7.5, -0.5, 1)))
}

func TestTimeSlice(t *testing.T) {
	sc := straightRoad()
	sc.Obstacles = append(sc.Obstacles, staticBox(10, 0), scenario.Obstacle{
		ID:           8,
		Role:         scenario.RoleDynamic,
		Shape:        scenario.ShapeSpec{Kind: scenario.ShapeCircle, Radius: 1},
		InitialState: scenario.State{Position: geometry.Point{X: 5, Y: 0}, TimeStep: 0},
	})
	checker := NewChecker(sc)

	assert.Equal(t, 2, checker.TimeSlice(0).Len())
	assert.Equal(t, 1, checker.TimeSlice(1).Len())
}

func TestRoadBoundaryMethod(t *testing.T) {
	sc := straightRoad()
	_, err := NewRoadBoundary(sc, "aligned_triangulation")
	assert.Error(t, err)

	b, err := NewRoadBoundary(sc, MethodTriangulation)
	require.NoError(t, err)
	// Two bounds, one segment each, two triangles per segment.
	assert.Equal(t, 4, b.ShapeGroup().Len())
	for _, s := range b.ShapeGroup().Shapes() {
		_, ok := s.(geometry.Triangle)
		assert.True(t, ok, "boundary must decompose into triangles, got %T", s)
	}
}

func TestBoundaryIgnoresAdjacentBounds(t *testing.T) {
	sc := straightRoad()
	sc.Lanelets[0].HasAdjacentLeft = true
	b, err := NewRoadBoundary(sc, MethodTriangulation)
	require.NoError(t, err)
	// Only the right bound contributes strips.
	assert.Equal(t, 2, b.ShapeGroup().Len())

	// An occupancy over the left bound no longer hits the boundary.
	pred := prediction(t, 0, 5, 1.8, 1)
	assert.False(t, b.Collide(pred))
}
