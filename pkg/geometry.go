package chamber

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/maps"
)

type Wire struct {
	X       float64
	Y       float64
	Radius  float64
	Voltage float64
	Label   string
}

type PlaneOrientation int

const (
	PlaneX PlaneOrientation = iota // plane at constant x
	PlaneY                         // plane at constant y
)

func (o PlaneOrientation) String() string {
	switch o {
	case PlaneX:
		return "x"
	case PlaneY:
		return "y"
	default:
		return "unknown"
	}
}

type Plane struct {
	Orientation PlaneOrientation
	Position    float64
	Voltage     float64
	Label       string
}

// Geometry is the electrode layout of a cell.
type Geometry struct {
	Wires  []Wire
	Planes []Plane
}

// CellConfig holds the parameters of a square drift cell with one sense wire
// surrounded by twelve field wires.
type CellConfig struct {
	CellSize        float64 `json:"cell_size"`
	SenseWireRadius float64 `json:"sense_wire_radius"`
	FieldWireRadius float64 `json:"field_wire_radius"`
	SenseVoltage    float64 `json:"sense_voltage"`
	FieldVoltage    float64 `json:"field_voltage"`
	PlaneVoltage    float64 `json:"plane_voltage"`
	BoundaryFactor  float64 `json:"boundary_factor"`
	SenseLabel      string  `json:"sense_label"`
}

// FieldWirePositions returns the twelve field wire positions around a sense
// wire at the origin: the eight neighbours on a square of half size
// spacing followed by four wires at half spacing on the top and bottom rows.
func FieldWirePositions(spacing float64) [][2]float64 {
	half := spacing / 2.0
	return [][2]float64{
		{-spacing, -spacing},
		{-spacing, 0.0},
		{-spacing, spacing},
		{0.0, spacing},
		{spacing, spacing},
		{spacing, 0.0},
		{spacing, -spacing},
		{0.0, -spacing},
		{-half, -spacing},
		{-half, spacing},
		{half, -spacing},
		{half, spacing},
	}
}

func FieldWireLabel(i int) string {
	return fmt.Sprintf("field%d", i)
}

func CellGeometry(cfg CellConfig) Geometry {
	spacing := cfg.CellSize / 2.0
	g := Geometry{}
	g.Wires = append(g.Wires, Wire{
		X:       0.0,
		Y:       0.0,
		Radius:  cfg.SenseWireRadius,
		Voltage: cfg.SenseVoltage,
		Label:   cfg.SenseLabel,
	})
	for i, pos := range FieldWirePositions(spacing) {
		g.Wires = append(g.Wires, Wire{
			X:       pos[0],
			Y:       pos[1],
			Radius:  cfg.FieldWireRadius,
			Voltage: cfg.FieldVoltage,
			Label:   FieldWireLabel(i),
		})
	}

	boundary := cfg.BoundaryFactor * cfg.CellSize
	g.Planes = []Plane{
		{Orientation: PlaneX, Position: -boundary, Voltage: cfg.PlaneVoltage, Label: "boundary"},
		{Orientation: PlaneX, Position: boundary, Voltage: cfg.PlaneVoltage, Label: "boundary"},
		{Orientation: PlaneY, Position: -boundary, Voltage: cfg.PlaneVoltage, Label: "boundary"},
		{Orientation: PlaneY, Position: boundary, Voltage: cfg.PlaneVoltage, Label: "boundary"},
	}
	return g
}

// Validate checks that wires do not overlap, have a radius and carry unique
// labels. Planes are allowed to share a label.
func (g Geometry) Validate() error {
	if len(g.Wires) == 0 {
		return &ErrInvalidConfig{Field: "wires", Reason: "no wires defined"}
	}
	labels := make(map[string]bool)
	for i, w := range g.Wires {
		if w.Radius <= 0 {
			return &ErrInvalidConfig{Field: "wires", Reason: fmt.Sprintf("wire %q has radius %g", w.Label, w.Radius)}
		}
		if w.Label == "" {
			return &ErrInvalidConfig{Field: "wires", Reason: fmt.Sprintf("wire %d has no label", i)}
		}
		if labels[w.Label] {
			return &ErrInvalidConfig{Field: "wires", Reason: fmt.Sprintf("duplicate wire label %q", w.Label)}
		}
		labels[w.Label] = true
		for _, o := range g.Wires[:i] {
			if math.Hypot(w.X-o.X, w.Y-o.Y) < w.Radius+o.Radius {
				return &ErrInvalidConfig{Field: "wires", Reason: fmt.Sprintf("wires %q and %q overlap", o.Label, w.Label)}
			}
		}
	}
	xmin, xmax, ymin, ymax := g.Bounds()
	for _, w := range g.Wires {
		if w.X-w.Radius <= xmin || w.X+w.Radius >= xmax || w.Y-w.Radius <= ymin || w.Y+w.Radius >= ymax {
			return &ErrInvalidConfig{Field: "planes", Reason: fmt.Sprintf("wire %q lies outside the planes", w.Label)}
		}
	}
	return nil
}

// HasElectrode reports whether any wire carries the label.
func (g Geometry) HasElectrode(label string) bool {
	for _, w := range g.Wires {
		if w.Label == label {
			return true
		}
	}
	return false
}

// WireLabels returns the wire labels in lexical order.
func (g Geometry) WireLabels() []string {
	set := make(map[string]struct{}, len(g.Wires))
	for _, w := range g.Wires {
		set[w.Label] = struct{}{}
	}
	labels := maps.Keys(set)
	sort.Strings(labels)
	return labels
}

// Bounds returns the area enclosed by the planes. An orientation with fewer
// than two planes is unbounded.
func (g Geometry) Bounds() (xmin, xmax, ymin, ymax float64) {
	var xs, ys []float64
	for _, p := range g.Planes {
		switch p.Orientation {
		case PlaneX:
			xs = append(xs, p.Position)
		case PlaneY:
			ys = append(ys, p.Position)
		}
	}
	xmin, xmax = span(xs)
	ymin, ymax = span(ys)
	return xmin, xmax, ymin, ymax
}

func span(values []float64) (float64, float64) {
	if len(values) < 2 {
		return math.Inf(-1), math.Inf(1)
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// Inside reports whether the point lies strictly between the planes.
func (g Geometry) Inside(p Vector) bool {
	xmin, xmax, ymin, ymax := g.Bounds()
	return p.X > xmin && p.X < xmax && p.Y > ymin && p.Y < ymax
}
