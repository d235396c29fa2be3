// Package occupancy reconstructs time-aligned vehicle occupancy sequences
// from the flat interval/vertex encoding used by reachable-set solution
// files. It produces two views of the same solution: the coinciding sequence
// (one polygon per grid point, for frame-by-frame checks) and the cumulative
// sequence (the union of everything seen per grid period, for conservative
// reachability checks).
package occupancy

import "github.com/reachset/occucheck/core/geometry"

// Occupancy is the region a vehicle may occupy at one discrete time step.
// Shape is a single polygon in the coinciding sequence and a shape group in
// the cumulative sequence.
type Occupancy struct {
	TimeStep int
	Shape    geometry.Shape
}

// SetBasedPrediction wraps an occupancy sequence and answers shape-at-step
// queries over its covered range. It is immutable after construction.
type SetBasedPrediction struct {
	initialTimeStep int
	occupancies     []Occupancy
	byStep          map[int]geometry.Shape
}

// NewSetBasedPrediction builds a prediction from an occupancy sequence. When
// a time step occurs more than once (the cumulative sequence may restate step
// zero) the later entry wins for point queries.
func NewSetBasedPrediction(initialTimeStep int, occupancies []Occupancy) *SetBasedPrediction {
	p := &SetBasedPrediction{
		initialTimeStep: initialTimeStep,
		occupancies:     append([]Occupancy(nil), occupancies...),
		byStep:          make(map[int]geometry.Shape, len(occupancies)),
	}
	for _, o := range p.occupancies {
		p.byStep[o.TimeStep] = o.Shape
	}
	return p
}

// InitialTimeStep returns the step the prediction starts at.
func (p *SetBasedPrediction) InitialTimeStep() int { return p.initialTimeStep }

// Occupancies returns the underlying sequence in emission order.
func (p *SetBasedPrediction) Occupancies() []Occupancy { return p.occupancies }

// TimeStartIdx returns the first covered time step.
func (p *SetBasedPrediction) TimeStartIdx() int {
	if len(p.occupancies) == 0 {
		return p.initialTimeStep
	}
	return p.occupancies[0].TimeStep
}

// TimeEndIdx returns the last covered time step.
func (p *SetBasedPrediction) TimeEndIdx() int {
	if len(p.occupancies) == 0 {
		return p.initialTimeStep
	}
	return p.occupancies[len(p.occupancies)-1].TimeStep
}

// ShapeAtTime returns the occupancy shape at the given step, if covered.
func (p *SetBasedPrediction) ShapeAtTime(step int) (geometry.Shape, bool) {
	s, ok := p.byStep[step]
	return s, ok
}
