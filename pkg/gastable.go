package chamber

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// AtmosphericPressure in Torr.
const AtmosphericPressure = 760.

type GasComponent struct {
	Name     string  `json:"name"`
	Fraction float64 `json:"fraction"` // percent
}

// GasConditions is a mixture at a given temperature [K] and pressure [Torr].
type GasConditions struct {
	Components  []GasComponent `json:"components"`
	Temperature float64        `json:"temperature"`
	Pressure    float64        `json:"pressure"`
}

func (c GasConditions) Validate() error {
	if len(c.Components) == 0 {
		return &ErrInvalidConfig{Field: "gas.components", Reason: "empty mixture"}
	}
	total := 0.0
	seen := make(map[string]bool)
	for _, comp := range c.Components {
		name := strings.ToLower(comp.Name)
		if seen[name] {
			return &ErrInvalidConfig{Field: "gas.components", Reason: fmt.Sprintf("%s listed twice", comp.Name)}
		}
		seen[name] = true
		if comp.Fraction <= 0 {
			return &ErrInvalidConfig{Field: "gas.components", Reason: fmt.Sprintf("%s has fraction %g", comp.Name, comp.Fraction)}
		}
		total += comp.Fraction
	}
	if total <= 0 {
		return &ErrInvalidConfig{Field: "gas.components", Reason: "fractions add up to zero"}
	}
	if c.Temperature <= 0 {
		return &ErrInvalidConfig{Field: "gas.temperature", Reason: fmt.Sprintf("%g K", c.Temperature)}
	}
	if c.Pressure <= 0 {
		return &ErrInvalidConfig{Field: "gas.pressure", Reason: fmt.Sprintf("%g Torr", c.Pressure)}
	}
	return nil
}

// Normalized returns the components with fractions scaled to add up to 100.
func (c GasConditions) Normalized() []GasComponent {
	total := 0.0
	for _, comp := range c.Components {
		total += comp.Fraction
	}
	out := make([]GasComponent, len(c.Components))
	for i, comp := range c.Components {
		out[i] = GasComponent{Name: strings.ToLower(comp.Name), Fraction: 100 * comp.Fraction / total}
	}
	return out
}

func (c GasConditions) String() string {
	parts := make([]string, len(c.Components))
	for i, comp := range c.Normalized() {
		parts[i] = fmt.Sprintf("%g%% %s", math.Round(comp.Fraction*100)/100, comp.Name)
	}
	return strings.Join(parts, " + ")
}

// TransportEntry holds the electron transport coefficients at one field.
// Townsend and Attachment are stored as logarithms, -30 meaning zero.
type TransportEntry struct {
	Field          float64 // V/cm
	DriftVelocity  float64 // cm/ns
	LongDiffusion  float64 // cm^1/2
	TransDiffusion float64 // cm^1/2
	Townsend       float64 // ln(1/cm)
	Attachment     float64 // ln(1/cm)
}

// LogZero is the logarithm stored for a vanishing coefficient.
const LogZero = -30.

type GasTable struct {
	Conditions GasConditions
	Collisions int
	Entries    []TransportEntry
}

func (g *GasTable) Fields() []float64 {
	fields := make([]float64, len(g.Entries))
	for i, e := range g.Entries {
		fields[i] = e.Field
	}
	return fields
}

// ElectronVelocity returns the drift velocity [cm/ns] at field e [V/cm].
// ok is false only for an empty table or a negative field.
func (g *GasTable) ElectronVelocity(e float64) (float64, bool) {
	return g.interpolate(e, true, func(t TransportEntry) float64 { return t.DriftVelocity })
}

// ElectronTownsend returns ln(alpha) at field e.
func (g *GasTable) ElectronTownsend(e float64) (float64, bool) {
	return g.interpolate(e, false, func(t TransportEntry) float64 { return t.Townsend })
}

func (g *GasTable) ElectronDiffusion(e float64) (float64, float64, bool) {
	dl, ok := g.interpolate(e, false, func(t TransportEntry) float64 { return t.LongDiffusion })
	if !ok {
		return 0, 0, false
	}
	dt, _ := g.interpolate(e, false, func(t TransportEntry) float64 { return t.TransDiffusion })
	return dl, dt, true
}

// interpolate is linear in log(E). Fields outside the table use the closest
// entry, except that below the first field a velocity is scaled linearly to
// zero.
func (g *GasTable) interpolate(e float64, velocity bool, value func(TransportEntry) float64) (float64, bool) {
	n := len(g.Entries)
	if n == 0 || e < 0 || math.IsNaN(e) {
		return 0, false
	}
	first, last := g.Entries[0], g.Entries[n-1]
	if e <= first.Field {
		if !velocity || first.Field <= 0 {
			return value(first), true
		}
		return value(first) * e / first.Field, true
	}
	if e >= last.Field {
		return value(last), true
	}
	i := sort.Search(n, func(i int) bool { return g.Entries[i].Field >= e })
	lo, hi := g.Entries[i-1], g.Entries[i]
	f := (math.Log(e) - math.Log(lo.Field)) / (math.Log(hi.Field) - math.Log(lo.Field))
	return value(lo) + f*(value(hi)-value(lo)), true
}

// Summary returns a printable description of the table.
func (g *GasTable) Summary() []string {
	lines := []string{
		fmt.Sprintf("Gas composition: %s", g.Conditions),
		fmt.Sprintf("Temperature: %g K, pressure: %g Torr", g.Conditions.Temperature, g.Conditions.Pressure),
		fmt.Sprintf("Collisions: %d x 10^7", g.Collisions),
		fmt.Sprintf("Fields: %d", len(g.Entries)),
	}
	for _, e := range g.Entries {
		lines = append(lines, fmt.Sprintf("  E = %10.1f V/cm  v = %9.5f cm/ns  Dl = %8.5f  Dt = %8.5f  ln(alpha) = %7.3f",
			e.Field, e.DriftVelocity, e.LongDiffusion, e.TransDiffusion, e.Townsend))
	}
	return lines
}

// TransportSample is one row of the generator summary.
type TransportSample struct {
	FieldKV       float64 // kV/cm
	DriftVelocity float64 // cm/us
	Alpha         float64 // 1/cm
}

// TransportSamples evaluates the table at fields given in kV/cm. Fields
// beyond the table take the value of the closest entry; only negative fields
// and an empty table give no value and are left out.
func TransportSamples(table *GasTable, fieldsKV []float64) []TransportSample {
	samples := make([]TransportSample, 0, len(fieldsKV))
	for _, kv := range fieldsKV {
		e := kv * 1000.0
		v, ok := table.ElectronVelocity(e)
		if !ok {
			continue
		}
		alpha, ok := table.ElectronTownsend(e)
		if !ok {
			continue
		}
		samples = append(samples, TransportSample{
			FieldKV:       kv,
			DriftVelocity: v * 1000.0,
			Alpha:         math.Exp(alpha),
		})
	}
	return samples
}
