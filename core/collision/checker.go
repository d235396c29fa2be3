// Package collision answers the two boolean predicates of a reachable-set
// check: does the occupancy prediction hit any scenario obstacle, and does it
// leave the drivable area. The checker and the road boundary are built once
// per scenario and queried over a prediction's full covered range.
package collision

import (
	"github.com/reachset/occucheck/core/geometry"
	"github.com/reachset/occucheck/core/occupancy"
	"github.com/reachset/occucheck/core/scenario"
)

// Checker holds the time-indexed footprints of every scenario obstacle.
type Checker struct {
	static  []geometry.Shape
	dynamic map[int][]geometry.Shape
}

// NewChecker precomputes obstacle footprints from the scenario. Static
// obstacles are present at every step; dynamic obstacles only at the steps
// their trajectory covers.
func NewChecker(sc *scenario.Scenario) *Checker {
	c := &Checker{dynamic: make(map[int][]geometry.Shape)}
	for i := range sc.Obstacles {
		ob := &sc.Obstacles[i]
		if ob.Role == scenario.RoleStatic {
			if s, ok := ob.OccupancyAt(0); ok && s != nil {
				c.static = append(c.static, s)
			}
			continue
		}
		for step := ob.InitialState.TimeStep; step <= ob.MaxTimeStep(); step++ {
			if s, ok := ob.OccupancyAt(step); ok && s != nil {
				c.dynamic[step] = append(c.dynamic[step], s)
			}
		}
	}
	return c
}

// TimeSlice returns all obstacle footprints present at the given step.
func (c *Checker) TimeSlice(step int) *geometry.ShapeGroup {
	shapes := make([]geometry.Shape, 0, len(c.static)+len(c.dynamic[step]))
	shapes = append(shapes, c.static...)
	shapes = append(shapes, c.dynamic[step]...)
	return geometry.NewShapeGroup(shapes)
}

// Collide reports whether any prediction occupancy intersects an obstacle
// footprint at the matching time step.
func (c *Checker) Collide(pred *occupancy.SetBasedPrediction) bool {
	for _, occ := range pred.Occupancies() {
		if geometry.Intersects(occ.Shape, c.TimeSlice(occ.TimeStep)) {
			return true
		}
	}
	return false
}
