package chamber

import "math"

// Vector is a point or a field value in the chamber frame. Lengths are in
// cm, fields in V/cm.
type Vector struct {
	X float64
	Y float64
	Z float64
}

func (v Vector) Add(o Vector) Vector {
	return Vector{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vector) Scale(f float64) Vector {
	return Vector{f * v.X, f * v.Y, f * v.Z}
}

func (v Vector) Dot(o Vector) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vector) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Electron is an ionisation electron with its creation point and time [ns].
type Electron struct {
	Position Vector
	T        float64
}

// Cluster is a group of electrons deposited at one point along a track.
type Cluster struct {
	Position  Vector
	T         float64
	Energy    float64 // eV
	Electrons []Electron
}

type Track struct {
	Start     Vector
	Direction Vector
	Clusters  []Cluster
}

func (t Track) NumElectrons() int {
	n := 0
	for _, c := range t.Clusters {
		n += len(c.Electrons)
	}
	return n
}

// TrackStart describes where and how a new track is generated.
type TrackStart struct {
	Particle  string
	Momentum  float64 // eV/c
	Position  Vector
	Direction Vector
	T         float64
}

// DriftPoint is one step of a drift line.
type DriftPoint struct {
	Position Vector
	T        float64
}

type DriftEndpoint int

const (
	EndpointUnknown DriftEndpoint = iota
	EndpointWire
	EndpointOutside
	EndpointTimeWindow
	EndpointMaxSteps
)

func (e DriftEndpoint) String() string {
	switch e {
	case EndpointWire:
		return "wire"
	case EndpointOutside:
		return "outside"
	case EndpointTimeWindow:
		return "time window"
	case EndpointMaxSteps:
		return "max steps"
	default:
		return "unknown"
	}
}

// DriftLine is the path of one drifted electron.
type DriftLine struct {
	Points   []DriftPoint
	Endpoint DriftEndpoint
	Label    string  // wire label when Endpoint is EndpointWire
	Gain     float64 // number of avalanche electrons, 0 without avalanche
}
