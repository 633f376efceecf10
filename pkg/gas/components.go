package gas

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/maps"

	chamber "github.com/next-exp/wirechamber_go/pkg"
)

// component holds the parametrisation of a pure gas at 293.15 K.
//
// Townsend: alpha/p = A exp(-B p/E) with A in 1/(cm Torr), B in V/(cm Torr).
// Velocity: v = VMax x/(x + X0), x = E/p in V/(cm Torr), v in cm/ns.
// Diffusion: sigma = sqrt(2 Ek/E) with the characteristic energy Ek in eV.
type component struct {
	A             float64
	B             float64
	VMax          float64
	X0            float64
	Ek            float64
	ClustersPerCm float64 // minimum ionising particle at 760 Torr
	W             float64 // eV per ion pair
	Ionisation    float64 // eV
}

var components = map[string]component{
	"ar":     {A: 12., B: 180., VMax: 0.0055, X0: 0.45, Ek: 4.0, ClustersPerCm: 25., W: 26., Ionisation: 15.76},
	"co2":    {A: 20., B: 466., VMax: 0.0110, X0: 4.0, Ek: 0.04, ClustersPerCm: 35.5, W: 33., Ionisation: 13.78},
	"he":     {A: 3., B: 34., VMax: 0.0120, X0: 1.5, Ek: 2.0, ClustersPerCm: 5.9, W: 41., Ionisation: 24.59},
	"ne":     {A: 4., B: 100., VMax: 0.0080, X0: 0.8, Ek: 3.0, ClustersPerCm: 12., W: 36., Ionisation: 21.56},
	"n2":     {A: 12., B: 342., VMax: 0.0130, X0: 3.0, Ek: 0.5, ClustersPerCm: 19., W: 35., Ionisation: 15.58},
	"ch4":    {A: 14., B: 180., VMax: 0.0105, X0: 0.3, Ek: 0.15, ClustersPerCm: 25., W: 28., Ionisation: 12.65},
	"ic4h10": {A: 28., B: 550., VMax: 0.0060, X0: 3.5, Ek: 0.05, ClustersPerCm: 46., W: 23., Ionisation: 10.67},
}

// Known returns the names of the parametrised gases.
func Known() []string {
	names := maps.Keys(components)
	sort.Strings(names)
	return names
}

type weighted struct {
	component
	fraction float64 // 0-1
}

func lookup(conditions chamber.GasConditions) ([]weighted, error) {
	mixture := conditions.Normalized()
	out := make([]weighted, len(mixture))
	for i, c := range mixture {
		data, ok := components[strings.ToLower(c.Name)]
		if !ok {
			return nil, fmt.Errorf("unknown gas %q, known gases: %s", c.Name, strings.Join(Known(), ", "))
		}
		out[i] = weighted{component: data, fraction: c.Fraction / 100.}
	}
	return out, nil
}

// reducedPressure returns the pressure [Torr] at 293.15 K giving the same
// density as the conditions.
func reducedPressure(conditions chamber.GasConditions) float64 {
	return conditions.Pressure * 293.15 / conditions.Temperature
}

// ClusterDensity returns the mean number of ionisation clusters per cm of a
// minimum ionising particle in the mixture.
func ClusterDensity(conditions chamber.GasConditions) (float64, error) {
	mixture, err := lookup(conditions)
	if err != nil {
		return 0, err
	}
	n := 0.0
	for _, c := range mixture {
		n += c.fraction * c.ClustersPerCm
	}
	return n * reducedPressure(conditions) / chamber.AtmosphericPressure, nil
}

// PairEnergy returns the mean energy per ion pair W and the lowest
// ionisation potential of the mixture [eV].
func PairEnergy(conditions chamber.GasConditions) (float64, float64, error) {
	mixture, err := lookup(conditions)
	if err != nil {
		return 0, 0, err
	}
	w := 0.0
	ionisation := mixture[0].Ionisation
	for _, c := range mixture {
		w += c.fraction * c.W
		ionisation = min(ionisation, c.Ionisation)
	}
	return w, ionisation, nil
}
