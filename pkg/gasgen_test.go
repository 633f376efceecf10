package chamber

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModel struct {
	calls  int
	fields []float64
}

func (m *fakeModel) GenerateTable(ctx context.Context, conditions GasConditions, fields []float64, collisions int) (*GasTable, error) {
	m.calls++
	m.fields = fields
	table := &GasTable{Conditions: conditions, Collisions: collisions}
	for _, e := range fields {
		table.Entries = append(table.Entries, TransportEntry{Field: e, DriftVelocity: 1e-3 * math.Log10(e), Townsend: math.Log(e / 1000)})
	}
	return table, nil
}

type fakeStore struct {
	filename string
	table    *GasTable
	err      error
}

func (s *fakeStore) WriteGasTable(filename string, table *GasTable) error {
	s.filename = filename
	s.table = table
	return s.err
}

func TestGenerateGasTable(t *testing.T) {
	config := DefaultGasConfiguration()
	model := &fakeModel{}
	store := &fakeStore{}

	table, samples, err := GenerateGasTable(context.Background(), config, model, store)
	require.NoError(t, err)
	assert.Equal(t, 1, model.calls)
	assert.Equal(t, config.FieldGrid.Points(), model.fields)
	assert.Equal(t, config.OutputFile, store.filename)
	assert.Same(t, table, store.table)
	assert.Len(t, table.Entries, 15)

	require.Len(t, samples, 5)
	assert.Equal(t, 1., samples[0].FieldKV)
	assert.InDelta(t, 3., samples[0].DriftVelocity, 1e-9)
	assert.InDelta(t, 1., samples[0].Alpha, 1e-9)
	// 100 kV/cm is the last point of the grid
	assert.InDelta(t, 100., samples[4].Alpha, 1e-6)
}

func TestGenerateGasTableInvalidConfig(t *testing.T) {
	config := DefaultGasConfiguration()
	config.FieldGrid.Min = 0
	model := &fakeModel{}

	_, _, err := GenerateGasTable(context.Background(), config, model, &fakeStore{})
	assert.Error(t, err)
	assert.Zero(t, model.calls)
}

func TestGenerateGasTableStoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("disk full")}
	_, _, err := GenerateGasTable(context.Background(), DefaultGasConfiguration(), &fakeModel{}, store)
	assert.ErrorContains(t, err, "disk full")
}
