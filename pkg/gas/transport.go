package gas

import (
	"context"
	"fmt"
	"math"

	chamber "github.com/next-exp/wirechamber_go/pkg"
)

// Magboltz computes transport tables from the parametrisation of the pure
// gases, mixing them by molar fraction. Fields are evaluated by Workers
// goroutines, one when unset.
type Magboltz struct {
	Workers int
}

func (m Magboltz) GenerateTable(ctx context.Context, conditions chamber.GasConditions, fields []float64, collisions int) (*chamber.GasTable, error) {
	if err := conditions.Validate(); err != nil {
		return nil, err
	}
	mixture, err := lookup(conditions)
	if err != nil {
		return nil, err
	}
	for _, e := range fields {
		if e <= 0 {
			return nil, fmt.Errorf("field %g V/cm is not positive", e)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := runWorkers(ctx, mixture, reducedPressure(conditions), fields, m.Workers)
	if err != nil {
		return nil, err
	}
	return &chamber.GasTable{
		Conditions: chamber.GasConditions{
			Components:  conditions.Normalized(),
			Temperature: conditions.Temperature,
			Pressure:    conditions.Pressure,
		},
		Collisions: collisions,
		Entries:    entries,
	}, nil
}

func transportAt(mixture []weighted, e float64, p float64) chamber.TransportEntry {
	x := e / p
	velocity := 0.0
	ek := 0.0
	alpha := 0.0
	for _, c := range mixture {
		velocity += c.fraction * c.VMax * x / (x + c.X0)
		ek += c.fraction * c.Ek
		alpha += c.fraction * c.A * p * math.Exp(-c.B/x)
	}
	sigma := math.Sqrt(2 * ek / e)
	return chamber.TransportEntry{
		Field:          e,
		DriftVelocity:  velocity,
		LongDiffusion:  sigma,
		TransDiffusion: sigma,
		Townsend:       logCoefficient(alpha),
		Attachment:     chamber.LogZero,
	}
}

func logCoefficient(c float64) float64 {
	if c <= math.Exp(chamber.LogZero) {
		return chamber.LogZero
	}
	return math.Log(c)
}
