package field

import (
	"fmt"
	"math"

	chamber "github.com/next-exp/wirechamber_go/pkg"
)

// PlaneSegments is the number of line charges representing each plane.
const PlaneSegments = 48

type lineCharge struct {
	x, y    float64
	radius  float64
	voltage float64
	label   string
	wire    bool // false for the charges standing in for a plane
}

// AnalyticField is the two dimensional field of a set of wires between
// planes. Wires are line charges whose strengths are fixed by the wire
// potentials, planes are represented by rows of thin line charges held at
// the plane potential.
type AnalyticField struct {
	geometry  chamber.Geometry
	charges   []lineCharge
	lu        *capacitance
	lambda    []float64
	offset    float64
	weighting map[string][]float64
}

func NewAnalyticField(geometry chamber.Geometry) (*AnalyticField, error) {
	if err := geometry.Validate(); err != nil {
		return nil, err
	}
	f := &AnalyticField{geometry: geometry, weighting: make(map[string][]float64)}
	for _, w := range geometry.Wires {
		f.charges = append(f.charges, lineCharge{x: w.X, y: w.Y, radius: w.Radius, voltage: w.Voltage, label: w.Label, wire: true})
	}
	f.charges = append(f.charges, planeCharges(geometry)...)

	matrix := f.capacitanceMatrix()
	lu, err := factorize(matrix)
	if err != nil {
		return nil, fmt.Errorf("error solving wire charges: %w", err)
	}
	f.lu = lu

	rhs := make([]float64, len(f.charges)+1)
	for i, c := range f.charges {
		rhs[i] = c.voltage
	}
	solution, err := lu.solve(rhs)
	if err != nil {
		return nil, fmt.Errorf("error solving wire charges: %w", err)
	}
	f.lambda, f.offset = f.split(solution)
	return f, nil
}

func planeCharges(geometry chamber.Geometry) []lineCharge {
	xmin, xmax, ymin, ymax := geometry.Bounds()
	var charges []lineCharge
	for _, p := range geometry.Planes {
		lo, hi := ymin, ymax
		if p.Orientation == chamber.PlaneY {
			lo, hi = xmin, xmax
		}
		if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
			continue
		}
		step := (hi - lo) / PlaneSegments
		for k := 0; k < PlaneSegments; k++ {
			along := lo + (float64(k)+0.5)*step
			c := lineCharge{radius: 0.05 * step, voltage: p.Voltage, label: p.Label}
			if p.Orientation == chamber.PlaneX {
				c.x, c.y = p.Position, along
			} else {
				c.x, c.y = along, p.Position
			}
			charges = append(charges, c)
		}
	}
	return charges
}

// capacitanceMatrix returns the potential coefficients of the charges plus a
// row fixing the net charge to zero and a column for the potential offset.
func (f *AnalyticField) capacitanceMatrix() [][]float64 {
	n := len(f.charges)
	matrix := make([][]float64, n+1)
	for i := range matrix {
		matrix[i] = make([]float64, n+1)
	}
	for i, ci := range f.charges {
		for j, cj := range f.charges {
			d := ci.radius
			if i != j {
				d = math.Hypot(ci.x-cj.x, ci.y-cj.y)
			}
			matrix[i][j] = -2 * math.Log(d)
		}
		matrix[i][n] = 1
		matrix[n][i] = 1
	}
	return matrix
}

func (f *AnalyticField) split(solution []float64) ([]float64, float64) {
	n := len(f.charges)
	return solution[:n], solution[n]
}

func (f *AnalyticField) Geometry() chamber.Geometry {
	return f.geometry
}

// Charges returns the line charge of every wire, in the order of the
// geometry.
func (f *AnalyticField) Charges() []float64 {
	out := make([]float64, 0, len(f.geometry.Wires))
	for i, c := range f.charges {
		if c.wire {
			out = append(out, f.lambda[i])
		}
	}
	return out
}

func (f *AnalyticField) Potential(p chamber.Vector) float64 {
	return potential(f.charges, f.lambda, f.offset, p)
}

func (f *AnalyticField) ElectricField(p chamber.Vector) (chamber.Vector, chamber.FieldStatus, string) {
	if !f.geometry.Inside(p) {
		return chamber.Vector{}, chamber.Outside, ""
	}
	for _, c := range f.charges {
		if c.wire && math.Hypot(p.X-c.x, p.Y-c.y) <= c.radius {
			return chamber.Vector{}, chamber.InWire, c.label
		}
	}
	return field(f.charges, f.lambda, p), chamber.InGas, ""
}

func (f *AnalyticField) WeightingField(p chamber.Vector, label string) chamber.Vector {
	lambda, ok := f.weighting[label]
	if !ok {
		rhs := make([]float64, len(f.charges)+1)
		for i, c := range f.charges {
			if c.label == label {
				rhs[i] = 1
			}
		}
		solution, err := f.lu.solve(rhs)
		if err != nil {
			return chamber.Vector{}
		}
		lambda, _ = f.split(solution)
		f.weighting[label] = lambda
	}
	return field(f.charges, lambda, p)
}

func potential(charges []lineCharge, lambda []float64, offset float64, p chamber.Vector) float64 {
	v := offset
	for i, c := range charges {
		d := math.Hypot(p.X-c.x, p.Y-c.y)
		d = math.Max(d, c.radius)
		v -= 2 * lambda[i] * math.Log(d)
	}
	return v
}

func field(charges []lineCharge, lambda []float64, p chamber.Vector) chamber.Vector {
	var e chamber.Vector
	for i, c := range charges {
		dx, dy := p.X-c.x, p.Y-c.y
		d2 := dx*dx + dy*dy
		if d2 < c.radius*c.radius {
			d2 = c.radius * c.radius
		}
		e.X += 2 * lambda[i] * dx / d2
		e.Y += 2 * lambda[i] * dy / d2
	}
	return e
}
