package chamber

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfiguration(t *testing.T) {
	config, err := LoadConfiguration("")
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	assert.Equal(t, 200, config.MaxElectrons)
	assert.Equal(t, -2., config.Threshold)
	assert.Equal(t, "s", config.ThresholdLabel)
	assert.Equal(t, 1000., config.TransferTimeScale)
	assert.Equal(t, 3000, config.TimeWindow.Bins)
	assert.InDelta(t, 2000., config.TimeWindow.Tmax(), 1e-9)
	assert.True(t, config.NoDB)

	start := config.Track.Start()
	assert.InDelta(t, 1., start.Direction.Norm(), 1e-12)
	assert.Greater(t, start.Direction.X, 0.)
	assert.Equal(t, Vector{X: -0.2, Y: -1}, start.Position)
}

func TestLoadConfiguration(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "chamber.json")
	data := `{"num_tracks": 5, "threshold": -3.5, "cell": {"cell_size": 2.0}, "track": {"particle": "mu-"}}`
	require.NoError(t, os.WriteFile(filename, []byte(data), 0644))

	config, err := LoadConfiguration(filename)
	require.NoError(t, err)
	assert.Equal(t, 5, config.NumTracks)
	assert.Equal(t, -3.5, config.Threshold)
	assert.Equal(t, 2.0, config.Cell.CellSize)
	assert.Equal(t, "mu-", config.Track.Particle)
	// untouched values keep their defaults
	assert.Equal(t, 2000., config.Cell.SenseVoltage)
	assert.Equal(t, 200, config.MaxElectrons)

	_, err = LoadConfiguration(filepath.Join(t.TempDir(), "missing.json"))
	var openErr *ErrOpenFile
	assert.ErrorAs(t, err, &openErr)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = LoadConfiguration(bad)
	assert.Error(t, err)
}

func TestTrackAlongWires(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "chamber.json")
	data := `{"track": {"dx": 0, "dy": 0, "dz": 1}}`
	require.NoError(t, os.WriteFile(filename, []byte(data), 0644))

	config, err := LoadConfiguration(filename)
	require.NoError(t, err)
	require.NoError(t, config.Validate())
	assert.Equal(t, Vector{Z: 1}, config.Track.Start().Direction)
}

func TestConfigurationValidate(t *testing.T) {
	for name, modify := range map[string]func(*Configuration){
		"cell size":       func(c *Configuration) { c.Cell.CellSize = 0 },
		"radius":          func(c *Configuration) { c.Cell.SenseWireRadius = -1 },
		"voltage":         func(c *Configuration) { c.Cell.SenseVoltage = 20000 },
		"bins":            func(c *Configuration) { c.TimeWindow.Bins = 1 },
		"time scale":      func(c *Configuration) { c.TransferTimeScale = 0 },
		"readout":         func(c *Configuration) { c.Readout = []string{"x"} },
		"no readout":      func(c *Configuration) { c.Readout = nil },
		"threshold label": func(c *Configuration) { c.ThresholdLabel = "field0" },
		"tracks":          func(c *Configuration) { c.NumTracks = 0 },
		"electrons":       func(c *Configuration) { c.MaxElectrons = 0 },
		"gain":            func(c *Configuration) { c.Gain = 0.5 },
		"theta":           func(c *Configuration) { c.PolyaTheta = -1 },
		"direction":       func(c *Configuration) { c.Track.DX, c.Track.DY, c.Track.DZ = 0, 0, 0 },
		"length":          func(c *Configuration) { c.Track.MaxLength = 0 },
		"compression":     func(c *Configuration) { c.CompressionLevel = 10 },
		"overlap":         func(c *Configuration) { c.Cell.FieldWireRadius = 0.5 },
	} {
		t.Run(name, func(t *testing.T) {
			config := DefaultConfiguration()
			modify(&config)
			var cfgErr *ErrInvalidConfig
			assert.ErrorAs(t, config.Validate(), &cfgErr)
		})
	}
}

func TestCheckFiles(t *testing.T) {
	dir := t.TempDir()
	config := DefaultConfiguration()
	config.GasFile = filepath.Join(dir, "gas.h5")
	config.IonMobilityFile = filepath.Join(dir, "ions.txt")
	assert.Error(t, config.CheckFiles())

	require.NoError(t, os.WriteFile(config.GasFile, nil, 0644))
	require.NoError(t, os.WriteFile(config.IonMobilityFile, nil, 0644))
	assert.NoError(t, config.CheckFiles())
}

func TestGasConfiguration(t *testing.T) {
	config, err := LoadGasConfiguration("")
	require.NoError(t, err)
	require.NoError(t, config.Validate())
	assert.Equal(t, 15, config.FieldGrid.Count)
	assert.Equal(t, 8, config.Collisions)
	assert.Equal(t, "he_90_ic4h10_10_1atm.gas.h5", config.OutputFile)
	assert.Equal(t, 4, config.CompressionLevel)

	config.Collisions = 0
	assert.Error(t, config.Validate())
	config = DefaultGasConfiguration()
	config.Workers = 0
	assert.Error(t, config.Validate())
	for _, level := range []int{-1, 10} {
		config = DefaultGasConfiguration()
		config.CompressionLevel = level
		var cfgErr *ErrInvalidConfig
		assert.ErrorAs(t, config.Validate(), &cfgErr)
	}
	config = DefaultGasConfiguration()
	config.OutputFile = ""
	assert.Error(t, config.Validate())
	config = DefaultGasConfiguration()
	config.FieldGrid.Count = 1
	assert.Error(t, config.Validate())

	filename := filepath.Join(t.TempDir(), "gas.json")
	require.NoError(t, os.WriteFile(filename, []byte(`{"collisions": 2, "compression_level": 0, "field_grid": {"count": 5}}`), 0644))
	config, err = LoadGasConfiguration(filename)
	require.NoError(t, err)
	assert.Equal(t, 2, config.Collisions)
	assert.Equal(t, 5, config.FieldGrid.Count)
	assert.Equal(t, 0, config.CompressionLevel)
	require.NoError(t, config.Validate())
	assert.Equal(t, 100000., config.FieldGrid.Max)
}
