package occupancy

import (
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/reachset/occucheck/core/geometry"
)

// gridPrecision is the decimal precision used for every temporal comparison.
// Solution files carry times printed with finite precision; rounding to five
// decimals absorbs the drift without collapsing distinct grid points.
const gridPrecision = 5

// Interval is one reconstructed record: the polygon a vehicle may occupy
// between Start and End.
type Interval struct {
	Start   float64
	End     float64
	Polygon *geometry.Polygon
	// row is the 1-based source row of the record's first line, kept for
	// error reporting.
	row int
}

// Reconstruct runs the temporal alignment pass over the interval records and
// returns the coinciding and cumulative predictions, both starting at step
// zero. stepSize is the scenario's grid step; every record must satisfy
// 0 <= End-Start <= stepSize and records must appear in chronological order.
func Reconstruct(intervals []Interval, stepSize float64) (coinciding, cumulative *SetBasedPrediction, err error) {
	var coin, cum []Occupancy
	var buffer []geometry.Shape

	// The grid point under construction is step*stepSize. Tracking the
	// integer index instead of a float accumulator keeps long sequences
	// free of accumulated drift.
	step := 0

	for _, iv := range intervals {
		t0 := scalar.Round(iv.Start, gridPrecision)
		t1 := scalar.Round(iv.End, gridPrecision)
		g := scalar.Round(float64(step)*stepSize, gridPrecision)
		dur := scalar.Round(iv.End-iv.Start, gridPrecision)

		if dur < 0 {
			return nil, nil, malformed(iv.row, ErrNegativeDuration)
		}
		if dur > stepSize {
			return nil, nil, malformed(iv.row, ErrStepSizeExceeded)
		}

		// A solution starting at t=0 contributes a zero-duration start
		// state: the grid point 0 closes out before any polygon has
		// accumulated.
		if step == 0 && t0 == 0 && len(cum) == 0 {
			cum = append(cum, Occupancy{TimeStep: 0, Shape: geometry.NewShapeGroup(buffer)})
		}

		switch {
		case t1 < g:
			// Entirely before the grid point: part of a future union.
			buffer = append(buffer, iv.Polygon)

		case t1 == g:
			// Ends exactly on the grid point: closes it out.
			buffer = append(buffer, iv.Polygon)
			cum = append(cum, Occupancy{TimeStep: step, Shape: geometry.NewShapeGroup(buffer)})
			buffer = buffer[:0]

		case t0 <= g:
			// Straddles the grid point: closes it out and also seeds
			// the next period, since the interval extends past g.
			buffer = append(buffer, iv.Polygon)
			cum = append(cum, Occupancy{TimeStep: step, Shape: geometry.NewShapeGroup(buffer)})
			buffer = append(buffer[:0], iv.Polygon)

		default:
			return nil, nil, malformed(iv.row, ErrChronologicalOrder)
		}

		if t0 <= g && g <= t1 {
			coin = append(coin, Occupancy{TimeStep: step, Shape: iv.Polygon})
			step++
		}
	}

	return NewSetBasedPrediction(0, coin), NewSetBasedPrediction(0, cum), nil
}
