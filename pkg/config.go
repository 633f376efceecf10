package chamber

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// MaxVoltage bounds the absolute value of every electrode potential [V].
const MaxVoltage = 10000.

// TrackConfig sets up the particle and the straight line it follows.
type TrackConfig struct {
	Particle      string  `json:"particle"`
	Momentum      float64 `json:"momentum"` // eV/c
	X0            float64 `json:"x0"`
	Y0            float64 `json:"y0"`
	Z0            float64 `json:"z0"`
	DX            float64 `json:"dx"`
	DY            float64 `json:"dy"`
	DZ            float64 `json:"dz"`
	MaxLength     float64 `json:"max_length"`      // cm
	ClustersPerCm float64 `json:"clusters_per_cm"` // 0 takes the value of the gas
	RandomSeed    uint64  `json:"random_seed"`
}

// Start returns the track start with the direction normalised.
func (t TrackConfig) Start() TrackStart {
	dir := Vector{t.DX, t.DY, t.DZ}
	norm := dir.Norm()
	if norm > 0 {
		dir = dir.Scale(1 / norm)
	}
	return TrackStart{
		Particle:  t.Particle,
		Momentum:  t.Momentum,
		Position:  Vector{t.X0, t.Y0, t.Z0},
		Direction: dir,
	}
}

// Configuration of the chamber simulation.
type Configuration struct {
	Verbosity            int         `json:"verbosity"`
	NoColor              bool        `json:"no_color"`
	GasFile              string      `json:"gas_file"`
	IonMobilityFile      string      `json:"ion_mobility_file"`
	Cell                 CellConfig  `json:"cell"`
	Readout              []string    `json:"readout"`
	TimeWindow           TimeWindow  `json:"time_window"`
	TransferFunctionFile string      `json:"transfer_function_file"`
	TransferTimeScale    float64     `json:"transfer_time_scale"`
	Track                TrackConfig `json:"track"`
	NumTracks            int         `json:"num_tracks"`
	MaxElectrons         int         `json:"max_electrons"`
	Threshold            float64     `json:"threshold"`
	ThresholdLabel       string      `json:"threshold_label"`
	Gain                 float64     `json:"gain"`
	PolyaTheta           float64     `json:"polya_theta"`
	DriftIons            bool        `json:"drift_ions"`
	Diffusion            bool        `json:"diffusion"`
	PlotDrift            bool        `json:"plot_drift"`
	PlotSignal           bool        `json:"plot_signal"`
	PlotDir              string      `json:"plot_dir"`
	SignalFile           string      `json:"signal_file"`
	CompressionLevel     int         `json:"compression_level"`
	NoDB                 bool        `json:"no_db"`
	Host                 string      `json:"host"`
	User                 string      `json:"user"`
	Passwd               string      `json:"pass"`
	DBName               string      `json:"dbname"`
	ChamberName          string      `json:"chamber_name"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		Verbosity:       1,
		GasFile:         "ar_93_co2_7_3bar.gas.h5",
		IonMobilityFile: "IonMobility_Ar+_Ar.txt",
		Cell: CellConfig{
			CellSize:        1.4,
			SenseWireRadius: 10.e-4,
			FieldWireRadius: 20.e-4,
			SenseVoltage:    2000.,
			FieldVoltage:    0.,
			PlaneVoltage:    0.,
			BoundaryFactor:  1.8,
			SenseLabel:      "s",
		},
		Readout: []string{"s"},
		TimeWindow: TimeWindow{
			Tmin:  0.,
			Tstep: 2.0 / 3.0,
			Bins:  3000,
		},
		TransferFunctionFile: "mdt_elx_delta.txt",
		TransferTimeScale:    TransferTimeScale,
		Track: TrackConfig{
			Particle:  "pi-",
			Momentum:  10.e9,
			X0:        -0.2,
			Y0:        -1.0,
			Z0:        0.,
			// diagonal through the cell, dz = 1 alone runs along the wires
			DX:        0.5,
			DY:        1.0,
			DZ:        0.,
			MaxLength: 10.,
		},
		NumTracks:        1,
		MaxElectrons:     200,
		Threshold:        -2.,
		ThresholdLabel:   "s",
		Gain:             20000.,
		PolyaTheta:       0.,
		DriftIons:        true,
		PlotDrift:        true,
		PlotSignal:       true,
		PlotDir:          "plots",
		CompressionLevel: 4,
		NoDB:             true,
		Host:             "localhost",
		User:             "chamber",
		Passwd:           "readonly",
		DBName:           "CHAMBERS",
		ChamberName:      "idea_cell",
	}
}

// LoadConfiguration reads a JSON configuration on top of the defaults. An
// empty filename returns the defaults.
func LoadConfiguration(filename string) (Configuration, error) {
	config := DefaultConfiguration()
	if filename == "" {
		return config, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return config, &ErrOpenFile{Filename: filename, Err: err}
	}
	err = json.Unmarshal(data, &config)
	if err != nil {
		return config, fmt.Errorf("error parsing configuration %s: %w", filename, err)
	}
	return config, nil
}

// Validate checks the ranges of the configuration. Files are checked
// separately by CheckFiles.
func (c Configuration) Validate() error {
	cell := c.Cell
	if cell.CellSize <= 0 {
		return &ErrInvalidConfig{Field: "cell.cell_size", Reason: fmt.Sprintf("%g is not positive", cell.CellSize)}
	}
	if cell.SenseWireRadius <= 0 || cell.FieldWireRadius <= 0 {
		return &ErrInvalidConfig{Field: "cell", Reason: "wire radii must be positive"}
	}
	for name, v := range map[string]float64{
		"cell.sense_voltage": cell.SenseVoltage,
		"cell.field_voltage": cell.FieldVoltage,
		"cell.plane_voltage": cell.PlaneVoltage,
	} {
		if math.Abs(v) > MaxVoltage {
			return &ErrInvalidConfig{Field: name, Reason: fmt.Sprintf("|%g V| exceeds %g V", v, MaxVoltage)}
		}
	}
	if cell.SenseLabel == "" {
		return &ErrInvalidConfig{Field: "cell.sense_label", Reason: "empty label"}
	}
	if err := c.TimeWindow.Validate(); err != nil {
		return err
	}
	if c.TransferTimeScale <= 0 {
		return &ErrInvalidConfig{Field: "transfer_time_scale", Reason: fmt.Sprintf("%g is not positive", c.TransferTimeScale)}
	}
	if len(c.Readout) == 0 {
		return &ErrInvalidConfig{Field: "readout", Reason: "no electrodes read out"}
	}
	geometry := CellGeometry(cell)
	if err := geometry.Validate(); err != nil {
		return err
	}
	for _, label := range c.Readout {
		if !geometry.HasElectrode(label) {
			return &ErrInvalidConfig{Field: "readout", Reason: fmt.Sprintf("no wire labelled %q", label)}
		}
	}
	readout := false
	for _, label := range c.Readout {
		readout = readout || label == c.ThresholdLabel
	}
	if !readout {
		return &ErrInvalidConfig{Field: "threshold_label", Reason: fmt.Sprintf("%q is not read out", c.ThresholdLabel)}
	}
	if c.NumTracks < 1 {
		return &ErrInvalidConfig{Field: "num_tracks", Reason: fmt.Sprintf("%d", c.NumTracks)}
	}
	if c.MaxElectrons < 1 {
		return &ErrInvalidConfig{Field: "max_electrons", Reason: fmt.Sprintf("%d", c.MaxElectrons)}
	}
	if c.Gain < 1 {
		return &ErrInvalidConfig{Field: "gain", Reason: fmt.Sprintf("%g is below 1", c.Gain)}
	}
	if c.PolyaTheta < 0 {
		return &ErrInvalidConfig{Field: "polya_theta", Reason: fmt.Sprintf("%g is negative", c.PolyaTheta)}
	}
	if c.Track.Start().Direction.Norm() == 0 {
		return &ErrInvalidConfig{Field: "track", Reason: "null direction"}
	}
	if c.Track.MaxLength <= 0 {
		return &ErrInvalidConfig{Field: "track.max_length", Reason: fmt.Sprintf("%g is not positive", c.Track.MaxLength)}
	}
	if c.CompressionLevel < 0 || c.CompressionLevel > 9 {
		return &ErrInvalidConfig{Field: "compression_level", Reason: fmt.Sprintf("%d is not in [0, 9]", c.CompressionLevel)}
	}
	return nil
}

// CheckFiles verifies that the input files exist. The transfer function is
// left to the simulation, which stops before the first track without it.
func (c Configuration) CheckFiles() error {
	for _, filename := range []string{c.GasFile, c.IonMobilityFile} {
		if _, err := os.Stat(filename); err != nil {
			return &ErrOpenFile{Filename: filename, Err: err}
		}
	}
	return nil
}

// GasConfiguration of the gas table generator.
type GasConfiguration struct {
	Verbosity        int           `json:"verbosity"`
	NoColor          bool          `json:"no_color"`
	Gas              GasConditions `json:"gas"`
	FieldGrid        FieldGrid     `json:"field_grid"`
	Collisions       int           `json:"collisions"` // units of 10^7
	Workers          int           `json:"workers"`
	OutputFile       string        `json:"output_file"`
	CompressionLevel int           `json:"compression_level"`
	SampleFieldsKV   []float64     `json:"sample_fields_kv"`
}

func DefaultGasConfiguration() GasConfiguration {
	return GasConfiguration{
		Verbosity: 1,
		Gas: GasConditions{
			Components: []GasComponent{
				{Name: "he", Fraction: 90.},
				{Name: "ic4h10", Fraction: 10.},
			},
			Temperature: 293.15,
			Pressure:    AtmosphericPressure,
		},
		FieldGrid: FieldGrid{
			Min:   100.,
			Max:   100000.,
			Count: 15,
			Log:   true,
		},
		Collisions:       8,
		Workers:          4,
		OutputFile:       "he_90_ic4h10_10_1atm.gas.h5",
		CompressionLevel: 4,
		SampleFieldsKV:   []float64{1.0, 5.0, 10.0, 50.0, 100.0},
	}
}

func LoadGasConfiguration(filename string) (GasConfiguration, error) {
	config := DefaultGasConfiguration()
	if filename == "" {
		return config, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return config, &ErrOpenFile{Filename: filename, Err: err}
	}
	err = json.Unmarshal(data, &config)
	if err != nil {
		return config, fmt.Errorf("error parsing configuration %s: %w", filename, err)
	}
	return config, nil
}

func (c GasConfiguration) Validate() error {
	if err := c.Gas.Validate(); err != nil {
		return err
	}
	if err := c.FieldGrid.Validate(); err != nil {
		return err
	}
	if c.Collisions < 1 {
		return &ErrInvalidConfig{Field: "collisions", Reason: fmt.Sprintf("%d", c.Collisions)}
	}
	if c.Workers < 1 {
		return &ErrInvalidConfig{Field: "workers", Reason: fmt.Sprintf("%d", c.Workers)}
	}
	if c.OutputFile == "" {
		return &ErrInvalidConfig{Field: "output_file", Reason: "empty filename"}
	}
	if c.CompressionLevel < 0 || c.CompressionLevel > 9 {
		return &ErrInvalidConfig{Field: "compression_level", Reason: fmt.Sprintf("%d is not in [0, 9]", c.CompressionLevel)}
	}
	return nil
}
