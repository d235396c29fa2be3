package occupancy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestReadCSV(t *testing.T) {
	// Two records: unit square over [0,1], shifted square over [1,2].
	data := "0.0,0,1,1,0\n" +
		"1.0,0,0,1,1\n" +
		"1.0,5,6,6,5\n" +
		"2.0,0,0,1,1\n"
	path := writeSource(t, "TEST_occupancies.csv", data)

	coin, cum, err := ReadCSV(path, 1.0)
	require.NoError(t, err)
	require.Len(t, coin.Occupancies(), 2)
	require.Len(t, cum.Occupancies(), 3)
	assert.Equal(t, 0, coin.Occupancies()[0].TimeStep)
	assert.Equal(t, 1, coin.Occupancies()[1].TimeStep)
}

func TestReadCSVPairsCoordinates(t *testing.T) {
	data := "0.0,0,1,1,0\n1.0,0,0,1,1\n"
	path := writeSource(t, "sq_occupancies.csv", data)

	coin, _, err := ReadCSV(path, 1.0)
	require.NoError(t, err)
	require.Len(t, coin.Occupancies(), 1)
	b := coin.Occupancies()[0].Shape.Bounds()
	assert.Equal(t, 0.0, b.Min.X)
	assert.Equal(t, 0.0, b.Min.Y)
	assert.Equal(t, 1.0, b.Max.X)
	assert.Equal(t, 1.0, b.Max.Y)
}

func TestReadCSVNormalizesExtension(t *testing.T) {
	data := "0.0,0,1,1,0\n1.0,0,0,1,1\n"
	path := writeSource(t, "sq_occupancies.csv", data)

	_, _, err := ReadCSV(path[:len(path)-len(".csv")], 1.0)
	require.NoError(t, err)
}

func TestReadCSVMissingFile(t *testing.T) {
	_, _, err := ReadCSV(filepath.Join(t.TempDir(), "nope.csv"), 1.0)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadCSVOddRowCount(t *testing.T) {
	data := "0.0,0,1,1,0\n1.0,0,0,1,1\n1.0,5,6,6,5\n"
	path := writeSource(t, "odd_occupancies.csv", data)

	_, _, err := ReadCSV(path, 1.0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOddRowCount)
}

func TestReadCSVVertexCountMismatch(t *testing.T) {
	data := "0.0,0,1,1,0\n1.0,0,0,1\n"
	path := writeSource(t, "mismatch_occupancies.csv", data)

	_, _, err := ReadCSV(path, 1.0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVertexCountMismatch)
}

func TestReadCSVBadNumber(t *testing.T) {
	data := "0.0,0,x,1,0\n1.0,0,0,1,1\n"
	path := writeSource(t, "bad_occupancies.csv", data)

	_, _, err := ReadCSV(path, 1.0)
	require.Error(t, err)
	var merr *MalformedInputError
	assert.ErrorAs(t, err, &merr)
}

func TestReadCSVNegativeDurationAbortsWithoutPartialResult(t *testing.T) {
	data := "0.0,0,1,1,0\n" +
		"1.0,0,0,1,1\n" +
		"2.0,5,6,6,5\n" +
		"1.5,0,0,1,1\n"
	path := writeSource(t, "neg_occupancies.csv", data)

	coin, cum, err := ReadCSV(path, 1.0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNegativeDuration)
	assert.Nil(t, coin)
	assert.Nil(t, cum)
}
