package chamber

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogFieldGrid(t *testing.T) {
	grid := FieldGrid{Min: 100, Max: 100000, Count: 15, Log: true}
	require.NoError(t, grid.Validate())

	points := grid.Points()
	require.Len(t, points, 15)
	assert.Equal(t, 100., points[0])
	assert.Equal(t, 100000., points[14])

	ratio := math.Pow(1000, 1./14.)
	for i := 1; i < len(points); i++ {
		assert.Greater(t, points[i], points[i-1])
		assert.InDelta(t, ratio, points[i]/points[i-1], 1e-9)
	}
}

func TestLinearFieldGrid(t *testing.T) {
	grid := FieldGrid{Min: 0, Max: 10, Count: 6}
	require.NoError(t, grid.Validate())
	assert.InDeltaSlice(t, []float64{0, 2, 4, 6, 8, 10}, grid.Points(), 1e-12)
}

func TestFieldGridValidate(t *testing.T) {
	assert.Error(t, FieldGrid{Min: 100, Max: 1000, Count: 1, Log: true}.Validate())
	assert.Error(t, FieldGrid{Min: 1000, Max: 100, Count: 5}.Validate())
	assert.Error(t, FieldGrid{Min: 100, Max: 100, Count: 5}.Validate())
	assert.Error(t, FieldGrid{Min: 0, Max: 100, Count: 5, Log: true}.Validate())
	assert.NoError(t, FieldGrid{Min: 0, Max: 100, Count: 5}.Validate())
}
