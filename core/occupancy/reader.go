package occupancy

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/reachset/occucheck/core/geometry"
)

// NormalizePath appends the .csv extension when the path carries none.
func NormalizePath(path string) string {
	if filepath.Ext(path) != ".csv" {
		path += ".csv"
	}
	return path
}

// ReadCSV loads an occupancy solution file and reconstructs both prediction
// sequences against the given scenario step size. The file is headerless
// comma-separated text where each record spans two consecutive rows: the
// first holds the interval start time and the x coordinates, the second the
// end time and the matching y coordinates.
func ReadCSV(path string, stepSize float64) (coinciding, cumulative *SetBasedPrediction, err error) {
	path = NormalizePath(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open occupancy source: %w", err)
	}
	defer func() { _ = f.Close() }()

	intervals, err := readIntervals(f)
	if err != nil {
		return nil, nil, err
	}
	return Reconstruct(intervals, stepSize)
}

func readIntervals(f *os.File) ([]Interval, error) {
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read occupancy source: %w", err)
	}
	if len(rows)%2 != 0 {
		return nil, malformed(len(rows), ErrOddRowCount)
	}

	intervals := make([]Interval, 0, len(rows)/2)
	for i := 0; i < len(rows); i += 2 {
		iv, err := parseRecord(rows[i], rows[i+1], i+1)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, iv)
	}
	return intervals, nil
}

// parseRecord pairs the n x coordinates of the first row with the n y
// coordinates of the second into a closed polygon.
func parseRecord(first, second []string, row int) (Interval, error) {
	if len(first) != len(second) {
		return Interval{}, malformed(row, ErrVertexCountMismatch)
	}
	if len(first) < 2 {
		return Interval{}, malformed(row, fmt.Errorf("record carries no vertices"))
	}

	xs, err := parseFloats(first, row)
	if err != nil {
		return Interval{}, err
	}
	ys, err := parseFloats(second, row+1)
	if err != nil {
		return Interval{}, err
	}

	vs := make([]geometry.Point, len(xs)-1)
	for i := range vs {
		vs[i] = geometry.Point{X: xs[i+1], Y: ys[i+1]}
	}
	poly, err := geometry.NewPolygon(vs)
	if err != nil {
		return Interval{}, malformed(row, err)
	}
	return Interval{Start: xs[0], End: ys[0], Polygon: poly, row: row}, nil
}

func parseFloats(fields []string, row int) ([]float64, error) {
	vals := make([]float64, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, malformed(row, fmt.Errorf("column %d: %w", i+1, err))
		}
		vals[i] = v
	}
	return vals, nil
}
