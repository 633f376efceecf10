package drift

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	chamber "github.com/next-exp/wirechamber_go/pkg"
)

const (
	ElementaryCharge = 1.602176634e-4 // fC

	DefaultMaxSteps  = 10000
	DefaultMaxStep   = 0.01 // cm
	DefaultTolerance = 1.e-5
	MinStep          = 1.e-6 // cm
)

// Medium provides the transport properties used to drift charges. Fields are
// in V/cm, velocities in cm/ns and mobilities in cm2/(V ns).
type Medium interface {
	ElectronVelocity(e float64) (float64, bool)
	ElectronDiffusion(e float64) (float64, float64, bool)
	IonMobility(e float64) (float64, bool)
}

type carrier int

const (
	electron carrier = iota
	ion
)

// RungeKutta drifts electrons along the field lines with fourth order
// Runge-Kutta steps, the step length being controlled by comparing one full
// step with two half steps. Electrons reaching a wire start an avalanche
// whose size follows a Polya distribution; the ions of the avalanche are
// drifted back from the wire. The current induced on the read out electrodes
// is added to the sensor.
type RungeKutta struct {
	Field     chamber.FieldSolver
	Medium    Medium
	Sensor    *chamber.Sensor
	Gain      float64
	Theta     float64
	DriftIons bool
	Diffusion bool
	MaxSteps  int
	MaxStep   float64 // cm
	Tolerance float64 // cm
	src       *rand.PCG
	rng       *rand.Rand
}

func NewRungeKutta(field chamber.FieldSolver, medium Medium, sensor *chamber.Sensor, gain, theta float64, driftIons bool, seed uint64) *RungeKutta {
	src := rand.NewPCG(seed, ^seed)
	return &RungeKutta{
		Field:     field,
		Medium:    medium,
		Sensor:    sensor,
		Gain:      gain,
		Theta:     theta,
		DriftIons: driftIons,
		MaxSteps:  DefaultMaxSteps,
		MaxStep:   DefaultMaxStep,
		Tolerance: DefaultTolerance,
		src:       src,
		rng:       rand.New(src),
	}
}

func (r *RungeKutta) DriftElectron(ctx context.Context, e chamber.Electron) (chamber.DriftLine, error) {
	line, err := r.driftLine(ctx, e.Position, e.T, electron, -ElementaryCharge)
	if err != nil {
		return line, err
	}
	if line.Endpoint != chamber.EndpointWire || r.Gain <= 0 {
		return line, nil
	}

	line.Gain = r.Polya()
	if !r.DriftIons {
		return line, nil
	}
	if _, ok := r.Medium.IonMobility(1.); !ok {
		return line, nil
	}
	last := line.Points[len(line.Points)-1]
	if _, err := r.driftLine(ctx, last.Position, last.T, ion, line.Gain*ElementaryCharge); err != nil {
		return line, fmt.Errorf("error drifting ions: %w", err)
	}
	return line, nil
}

// Polya samples the avalanche size. The ratio to the mean gain follows a
// gamma distribution of shape theta + 1 and unit mean, theta = 0 being
// exponential.
func (r *RungeKutta) Polya() float64 {
	k := r.Theta + 1
	return r.Gain * distuv.Gamma{Alpha: k, Beta: k, Src: r.src}.Rand()
}

func (r *RungeKutta) velocity(p chamber.Vector, kind carrier) (chamber.Vector, chamber.FieldStatus, string) {
	e, status, label := r.Field.ElectricField(p)
	if status != chamber.InGas {
		return chamber.Vector{}, status, label
	}
	magnitude := e.Norm()
	if magnitude == 0 {
		return chamber.Vector{}, status, ""
	}
	switch kind {
	case electron:
		v, ok := r.Medium.ElectronVelocity(magnitude)
		if !ok {
			return chamber.Vector{}, status, ""
		}
		return e.Scale(-v / magnitude), status, ""
	default:
		mu, ok := r.Medium.IonMobility(magnitude)
		if !ok {
			return chamber.Vector{}, status, ""
		}
		return e.Scale(mu), status, ""
	}
}

// rk4 advances p by dt. A stage leaving the gas stops the step and returns
// where it ended.
func (r *RungeKutta) rk4(p chamber.Vector, dt float64, kind carrier) (chamber.Vector, chamber.FieldStatus, string) {
	k1, status, label := r.velocity(p, kind)
	if status != chamber.InGas {
		return p, status, label
	}
	k2, status, label := r.velocity(p.Add(k1.Scale(dt/2)), kind)
	if status != chamber.InGas {
		return p, status, label
	}
	k3, status, label := r.velocity(p.Add(k2.Scale(dt/2)), kind)
	if status != chamber.InGas {
		return p, status, label
	}
	k4, status, label := r.velocity(p.Add(k3.Scale(dt)), kind)
	if status != chamber.InGas {
		return p, status, label
	}
	sum := k1.Add(k2.Scale(2)).Add(k3.Scale(2)).Add(k4)
	next := p.Add(sum.Scale(dt / 6))
	_, status, label = r.Field.ElectricField(next)
	return next, status, label
}

func endpoint(status chamber.FieldStatus) chamber.DriftEndpoint {
	switch status {
	case chamber.InWire:
		return chamber.EndpointWire
	case chamber.Outside:
		return chamber.EndpointOutside
	default:
		return chamber.EndpointUnknown
	}
}

func (r *RungeKutta) driftLine(ctx context.Context, start chamber.Vector, t0 float64, kind carrier, charge float64) (chamber.DriftLine, error) {
	line := chamber.DriftLine{Points: []chamber.DriftPoint{{Position: start, T: t0}}}
	tmax := r.Sensor.Window().Tmax()
	p, t := start, t0
	h := r.MaxStep

	for steps := 0; ; steps++ {
		if steps%100 == 0 {
			if err := ctx.Err(); err != nil {
				return line, err
			}
		}
		if steps >= r.MaxSteps {
			line.Endpoint = chamber.EndpointMaxSteps
			return line, nil
		}
		v, status, label := r.velocity(p, kind)
		if status != chamber.InGas {
			line.Endpoint, line.Label = endpoint(status), label
			return line, nil
		}
		speed := v.Norm()
		if speed == 0 {
			line.Endpoint = chamber.EndpointUnknown
			return line, nil
		}

		var next chamber.Vector
		var dt float64
		for {
			dt = h / speed
			full, s1, l1 := r.rk4(p, dt, kind)
			half, s2, l2 := r.rk4(p, dt/2, kind)
			if s2 == chamber.InGas {
				half, s2, l2 = r.rk4(half, dt/2, kind)
			}
			if s1 != chamber.InGas || s2 != chamber.InGas {
				if h > MinStep {
					h /= 2
					continue
				}
				if s1 == chamber.InGas {
					s1, l1 = s2, l2
				}
				line.Endpoint, line.Label = endpoint(s1), l1
				return line, nil
			}
			diff := full.Add(half.Scale(-1)).Norm()
			if diff > r.Tolerance && h > MinStep {
				h /= 2
				continue
			}
			next = half
			if diff < r.Tolerance/10 {
				h = min(1.5*h, r.MaxStep)
			}
			break
		}

		if r.Diffusion && kind == electron {
			next = r.diffuse(p, next)
		}
		r.induce(p, next, t, t+dt, charge)
		p, t = next, t+dt
		line.Points = append(line.Points, chamber.DriftPoint{Position: p, T: t})
		if t > tmax {
			line.Endpoint = chamber.EndpointTimeWindow
			return line, nil
		}
	}
}

// diffuse smears the end of a step with the longitudinal and transverse
// diffusion of the field at its start.
func (r *RungeKutta) diffuse(from, to chamber.Vector) chamber.Vector {
	e, status, _ := r.Field.ElectricField(from)
	if status != chamber.InGas {
		return to
	}
	sl, st, ok := r.Medium.ElectronDiffusion(e.Norm())
	step := to.Add(from.Scale(-1))
	length := step.Norm()
	if !ok || length == 0 {
		return to
	}
	d := step.Scale(1 / length)
	u := cross(d, chamber.Vector{Z: 1})
	if u.Norm() < 1e-6 {
		u = cross(d, chamber.Vector{X: 1})
	}
	u = u.Scale(1 / u.Norm())
	w := cross(d, u)

	s := math.Sqrt(length)
	return to.
		Add(d.Scale(sl * s * r.rng.NormFloat64())).
		Add(u.Scale(st * s * r.rng.NormFloat64())).
		Add(w.Scale(st * s * r.rng.NormFloat64()))
}

func cross(a, b chamber.Vector) chamber.Vector {
	return chamber.Vector{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

// induce adds the charge induced by moving charge [fC] from one point to
// the next on every read out electrode (Shockley-Ramo), spread over the time
// bins the step covers.
func (r *RungeKutta) induce(from, to chamber.Vector, t0, t1, charge float64) {
	window := r.Sensor.Window()
	mid := from.Add(to).Scale(0.5)
	dx := to.Add(from.Scale(-1))
	n := max(1, int(math.Ceil((t1-t0)/window.Tstep)))
	for _, label := range r.Sensor.Electrodes() {
		dq := -charge * r.Field.WeightingField(mid, label).Dot(dx)
		if dq == 0 {
			continue
		}
		current := dq / window.Tstep / float64(n)
		for k := 0; k < n; k++ {
			tk := t0 + (float64(k)+0.5)*(t1-t0)/float64(n)
			r.Sensor.AddCurrent(label, tk, current)
		}
	}
}
