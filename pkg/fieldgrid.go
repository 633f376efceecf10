package chamber

import (
	"fmt"
	"math"
)

// FieldGrid defines the electric field magnitudes [V/cm] at which the
// transport coefficients are computed.
type FieldGrid struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
	Log   bool    `json:"log"`
}

func (g FieldGrid) Validate() error {
	if g.Count < 2 {
		return &ErrInvalidConfig{Field: "field_grid.count", Reason: fmt.Sprintf("need at least 2 points, got %d", g.Count)}
	}
	if !(g.Min < g.Max) {
		return &ErrInvalidConfig{Field: "field_grid", Reason: fmt.Sprintf("min %g is not below max %g", g.Min, g.Max)}
	}
	if g.Log && g.Min <= 0 {
		return &ErrInvalidConfig{Field: "field_grid.min", Reason: "logarithmic spacing needs a positive minimum"}
	}
	return nil
}

// Points returns the sampled fields. The first point is Min and the last is
// exactly Max.
func (g FieldGrid) Points() []float64 {
	points := make([]float64, g.Count)
	last := g.Count - 1
	if g.Log {
		ratio := math.Pow(g.Max/g.Min, 1.0/float64(last))
		for i := range points {
			points[i] = g.Min * math.Pow(ratio, float64(i))
		}
	} else {
		step := (g.Max - g.Min) / float64(last)
		for i := range points {
			points[i] = g.Min + float64(i)*step
		}
	}
	points[0] = g.Min
	points[last] = g.Max
	return points
}
