package ionization

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"

	"golang.org/x/exp/maps"

	chamber "github.com/next-exp/wirechamber_go/pkg"
)

const (
	speedOfLight = 29.9792458 // cm/ns
	// MaxClusterEnergy is the upper edge of the cluster energy spectrum [eV].
	MaxClusterEnergy = 10.e3
	// mipBetaGamma is the beta gamma at which ClustersPerCm is quoted.
	mipBetaGamma = 3.5
)

// masses in eV
var masses = map[string]float64{
	"e-":     0.51099895e6,
	"e+":     0.51099895e6,
	"mu-":    105.6583755e6,
	"mu+":    105.6583755e6,
	"pi-":    139.57039e6,
	"pi+":    139.57039e6,
	"k-":     493.677e6,
	"k+":     493.677e6,
	"p":      938.27208816e6,
	"proton": 938.27208816e6,
	"alpha":  3727.3794066e6,
}

func Particles() []string {
	names := maps.Keys(masses)
	sort.Strings(names)
	return names
}

// Heed generates the ionisation clusters left by a charged particle crossing
// the gas. Cluster spacing is exponential with mean 1/n, the cluster energy
// follows a 1/E^2 spectrum and each cluster releases 1 + (E - I)/W electrons.
type Heed struct {
	Geometry      chamber.Geometry
	ClustersPerCm float64 // at minimum ionisation
	W             float64 // eV
	Ionisation    float64 // eV
	MaxLength     float64 // cm
	rng           *rand.Rand
}

func NewHeed(geometry chamber.Geometry, clustersPerCm, w, ionisation, maxLength float64, seed uint64) (*Heed, error) {
	if clustersPerCm <= 0 {
		return nil, &chamber.ErrInvalidConfig{Field: "clusters_per_cm", Reason: "must be positive"}
	}
	if w <= 0 || ionisation <= 0 || w < ionisation {
		return nil, &chamber.ErrInvalidConfig{Field: "w", Reason: fmt.Sprintf("pair energy %g eV and ionisation potential %g eV are not valid", w, ionisation)}
	}
	if maxLength <= 0 {
		return nil, &chamber.ErrInvalidConfig{Field: "max_length", Reason: "must be positive"}
	}
	return &Heed{
		Geometry:      geometry,
		ClustersPerCm: clustersPerCm,
		W:             w,
		Ionisation:    ionisation,
		MaxLength:     maxLength,
		rng:           rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}, nil
}

// ClusterDensity returns the mean number of clusters per cm for the particle.
func (h *Heed) ClusterDensity(particle string, momentum float64) (float64, error) {
	mass, ok := masses[strings.ToLower(particle)]
	if !ok {
		return 0, fmt.Errorf("unknown particle %q, known particles: %s", particle, strings.Join(Particles(), ", "))
	}
	if momentum <= 0 {
		return 0, fmt.Errorf("momentum %g eV is not positive", momentum)
	}
	bg := momentum / mass
	mip := mipBetaGamma * mipBetaGamma / (1 + mipBetaGamma*mipBetaGamma)
	beta2 := bg * bg / (1 + bg*bg)
	return h.ClustersPerCm * mip / beta2, nil
}

func (h *Heed) NewTrack(ctx context.Context, start chamber.TrackStart) (chamber.Track, error) {
	norm := start.Direction.Norm()
	if norm == 0 {
		return chamber.Track{}, &chamber.ErrInvalidConfig{Field: "direction", Reason: "null direction"}
	}
	direction := start.Direction.Scale(1 / norm)
	track := chamber.Track{Start: start.Position, Direction: direction}

	density, err := h.ClusterDensity(start.Particle, start.Momentum)
	if err != nil {
		return track, err
	}
	if !h.Geometry.Inside(start.Position) {
		return track, nil
	}

	s := 0.0
	for {
		if err := ctx.Err(); err != nil {
			return track, err
		}
		s += h.rng.ExpFloat64() / density
		if s > h.MaxLength {
			break
		}
		position := start.Position.Add(direction.Scale(s))
		if !h.Geometry.Inside(position) {
			break
		}
		t := start.T + s/speedOfLight
		energy := h.clusterEnergy()
		n := h.electrons(energy)
		cluster := chamber.Cluster{Position: position, T: t, Energy: energy}
		cluster.Electrons = make([]chamber.Electron, n)
		for i := range cluster.Electrons {
			cluster.Electrons[i] = chamber.Electron{Position: position, T: t}
		}
		track.Clusters = append(track.Clusters, cluster)
	}
	return track, nil
}

// clusterEnergy samples 1/E^2 between the ionisation potential and
// MaxClusterEnergy.
func (h *Heed) clusterEnergy() float64 {
	u := h.rng.Float64()
	lo, hi := 1/h.Ionisation, 1/MaxClusterEnergy
	return 1 / (lo - u*(lo-hi))
}

func (h *Heed) electrons(energy float64) int {
	return max(1, 1+int(math.Floor((energy-h.Ionisation)/h.W)))
}
