package chamber

import "context"

// TransportModel computes electron transport coefficients of a gas mixture
// over a set of electric fields. The calculation may take a long time and is
// only interrupted through ctx.
type TransportModel interface {
	GenerateTable(ctx context.Context, conditions GasConditions, fields []float64, collisions int) (*GasTable, error)
}

// GasTableStore persists a generated gas table.
type GasTableStore interface {
	WriteGasTable(filename string, table *GasTable) error
}

type FieldStatus int

const (
	InGas FieldStatus = iota
	InWire
	Outside
)

func (s FieldStatus) String() string {
	switch s {
	case InGas:
		return "gas"
	case InWire:
		return "wire"
	case Outside:
		return "outside"
	default:
		return "unknown"
	}
}

// FieldSolver returns the electrostatic field of the chamber.
//
// ElectricField returns the field [V/cm] at p and where p lies. When p is
// inside a wire the label of that wire is returned as well.
// WeightingField returns the field obtained with the electrodes labelled
// label at 1 V and everything else grounded [1/cm].
type FieldSolver interface {
	ElectricField(p Vector) (Vector, FieldStatus, string)
	WeightingField(p Vector, label string) Vector
}

// IonizationSampler generates a charged particle track and its ionisation
// clusters.
type IonizationSampler interface {
	NewTrack(ctx context.Context, start TrackStart) (Track, error)
}

// DriftIntegrator drifts one electron through the field and adds the current
// it induces to the sensor it was built with.
type DriftIntegrator interface {
	DriftElectron(ctx context.Context, electron Electron) (DriftLine, error)
}

// TrackRecorder stores the signals of a processed track.
type TrackRecorder interface {
	RecordTrack(result TrackResult, sensor *Sensor) error
}

// Plotter renders drift lines and signals of a processed track.
type Plotter interface {
	PlotDrift(track int, geometry Geometry, lines []DriftLine, t Track) error
	PlotSignal(track int, label string, times []float64, signal []float64) error
}
