package hdf5io

import (
	"path/filepath"
	"testing"

	hdf5 "github.com/jmbenlloch/go-hdf5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chamber "github.com/next-exp/wirechamber_go/pkg"
)

func TestGasTableRoundTrip(t *testing.T) {
	table := &chamber.GasTable{
		Conditions: chamber.GasConditions{
			Components:  []chamber.GasComponent{{Name: "he", Fraction: 90}, {Name: "ic4h10", Fraction: 10}},
			Temperature: 293.15,
			Pressure:    chamber.AtmosphericPressure,
		},
		Collisions: 8,
		Entries: []chamber.TransportEntry{
			{Field: 100, DriftVelocity: 0.001, LongDiffusion: 0.02, TransDiffusion: 0.02, Townsend: chamber.LogZero, Attachment: chamber.LogZero},
			{Field: 1000, DriftVelocity: 0.004, LongDiffusion: 0.01, TransDiffusion: 0.01, Townsend: 1.5, Attachment: chamber.LogZero},
		},
	}
	filename := filepath.Join(t.TempDir(), "gas.h5")
	require.NoError(t, GasFile{CompressionLevel: 4}.WriteGasTable(filename, table))

	read, err := ReadGasTable(filename)
	require.NoError(t, err)
	assert.Equal(t, table, read)
}

func TestReadGasTableMissingFile(t *testing.T) {
	_, err := ReadGasTable(filepath.Join(t.TempDir(), "missing.h5"))
	var openErr *ErrOpenFile
	assert.ErrorAs(t, err, &openErr)
}

func TestSignalWriter(t *testing.T) {
	window := chamber.TimeWindow{Tmin: 0, Tstep: 1, Bins: 10}
	sensor := chamber.NewSensor(window, "s")
	sensor.AddCurrent("s", 2.5, -1)

	filename := filepath.Join(t.TempDir(), "signals.h5")
	writer, err := NewSignalWriter(filename, window, []string{"s"}, 4)
	require.NoError(t, err)

	results := []chamber.TrackResult{
		{Index: 0, Outcome: chamber.TrackSignal, Clusters: 3, Electrons: 7, Processed: 7, Charge: -1,
			Crossings: []chamber.Crossing{{Time: 2.2, Level: -0.5}}},
		{Index: 1, Outcome: chamber.TrackNoCrossing, Clusters: 1, Electrons: 1, Processed: 1},
	}
	for _, r := range results {
		require.NoError(t, writer.RecordTrack(r, sensor))
	}
	require.NoError(t, writer.Close())

	file, err := hdf5.OpenFile(filename, hdf5.F_ACC_RDONLY)
	require.NoError(t, err)
	defer file.Close()

	run, err := file.OpenGroup("Run")
	require.NoError(t, err)
	defer run.Close()
	tracks, err := readTable[trackHDF5](run, "tracks")
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, int32(7), tracks[0].electrons)
	assert.Equal(t, 2.2, tracks[0].firstCrossing)
	assert.Equal(t, int32(chamber.TrackNoCrossing), tracks[1].outcome)

	windows, err := readTable[timeWindowHDF5](run, "timeWindow")
	require.NoError(t, err)
	assert.Equal(t, []timeWindowHDF5{{tmin: 0, tstep: 1, bins: 10}}, windows)

	signals, err := file.OpenGroup("Signals")
	require.NoError(t, err)
	defer signals.Close()
	dset, err := signals.OpenDataset("s")
	require.NoError(t, err)
	defer dset.Close()
	space := dset.Space()
	defer space.Close()
	dims, _, err := space.SimpleExtentDims()
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 10}, dims)
}
