package chamber

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellGeometry(t *testing.T) {
	cell := DefaultConfiguration().Cell
	g := CellGeometry(cell)
	require.NoError(t, g.Validate())
	require.Len(t, g.Wires, 13)
	require.Len(t, g.Planes, 4)

	sense := g.Wires[0]
	assert.Equal(t, "s", sense.Label)
	assert.Equal(t, 0., sense.X)
	assert.Equal(t, 0., sense.Y)
	assert.Equal(t, cell.SenseVoltage, sense.Voltage)

	positions := make(map[string]bool)
	for i, w := range g.Wires {
		key := fmt.Sprintf("%.6f,%.6f", w.X, w.Y)
		assert.False(t, positions[key], "duplicate position %s", key)
		positions[key] = true
		if i > 0 {
			assert.Equal(t, FieldWireLabel(i-1), w.Label)
			assert.Equal(t, cell.FieldWireRadius, w.Radius)
		}
	}
	assert.Len(t, positions, 13)

	xmin, xmax, ymin, ymax := g.Bounds()
	assert.InDelta(t, -2.52, xmin, 1e-12)
	assert.InDelta(t, 2.52, xmax, 1e-12)
	assert.InDelta(t, -2.52, ymin, 1e-12)
	assert.InDelta(t, 2.52, ymax, 1e-12)
	assert.True(t, g.Inside(Vector{X: 1, Y: -1}))
	assert.False(t, g.Inside(Vector{X: 3}))
}

func TestFieldWirePositions(t *testing.T) {
	positions := FieldWirePositions(0.7)
	require.Len(t, positions, 12)
	assert.Equal(t, [2]float64{-0.7, -0.7}, positions[0])
	assert.Equal(t, [2]float64{0.35, 0.7}, positions[11])
}

func TestGeometryValidate(t *testing.T) {
	planes := CellGeometry(DefaultConfiguration().Cell).Planes
	for name, g := range map[string]Geometry{
		"no wires":  {Planes: planes},
		"radius":    {Wires: []Wire{{Label: "a", Radius: 0}}, Planes: planes},
		"no label":  {Wires: []Wire{{Radius: 0.1}}, Planes: planes},
		"duplicate": {Wires: []Wire{{Label: "a", Radius: 0.1}, {Label: "a", X: 1, Radius: 0.1}}, Planes: planes},
		"overlap":   {Wires: []Wire{{Label: "a", Radius: 0.1}, {Label: "b", X: 0.15, Radius: 0.1}}, Planes: planes},
		"outside":   {Wires: []Wire{{Label: "a", X: 5, Radius: 0.1}}, Planes: planes},
	} {
		t.Run(name, func(t *testing.T) {
			var cfgErr *ErrInvalidConfig
			assert.ErrorAs(t, g.Validate(), &cfgErr)
		})
	}

	// Without planes the cell is unbounded.
	open := Geometry{Wires: []Wire{{Label: "a", X: 50, Radius: 0.1}}}
	assert.NoError(t, open.Validate())
	assert.True(t, open.Inside(Vector{X: 1e6}))
}

func TestWireLabels(t *testing.T) {
	g := CellGeometry(DefaultConfiguration().Cell)
	labels := g.WireLabels()
	require.Len(t, labels, 13)
	assert.Equal(t, "field0", labels[0])
	assert.Equal(t, "s", labels[12])
	assert.True(t, g.HasElectrode("field11"))
	assert.False(t, g.HasElectrode("boundary"))
}
