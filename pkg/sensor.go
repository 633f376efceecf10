package chamber

import (
	"fmt"
	"math"
)

// TimeWindow is the binning of the sensor signals [ns].
type TimeWindow struct {
	Tmin  float64 `json:"tmin"`
	Tstep float64 `json:"tstep"`
	Bins  int     `json:"bins"`
}

func (w TimeWindow) Validate() error {
	if w.Tstep <= 0 {
		return &ErrInvalidConfig{Field: "time_window.tstep", Reason: fmt.Sprintf("bin width %g is not positive", w.Tstep)}
	}
	if w.Bins < 2 {
		return &ErrInvalidConfig{Field: "time_window.bins", Reason: fmt.Sprintf("need at least 2 bins, got %d", w.Bins)}
	}
	return nil
}

func (w TimeWindow) Tmax() float64 {
	return w.Tmin + float64(w.Bins)*w.Tstep
}

// Crossing is a threshold crossing of a signal.
type Crossing struct {
	Time   float64
	Level  float64
	Rising bool
}

// Sensor accumulates the induced current [fC/ns] on the read out electrodes
// in time bins.
type Sensor struct {
	window     TimeWindow
	labels     []string
	signals    map[string][]float64
	transfer   *TransferFunction
	convoluted bool
}

func NewSensor(window TimeWindow, labels ...string) *Sensor {
	s := &Sensor{
		window:  window,
		signals: make(map[string][]float64, len(labels)),
	}
	for _, label := range labels {
		if _, ok := s.signals[label]; ok {
			continue
		}
		s.labels = append(s.labels, label)
		s.signals[label] = make([]float64, window.Bins)
	}
	return s
}

func (s *Sensor) Window() TimeWindow {
	return s.window
}

// Electrodes returns the read out labels in the order they were added.
func (s *Sensor) Electrodes() []string {
	return append([]string(nil), s.labels...)
}

func (s *Sensor) ReadsOut(label string) bool {
	_, ok := s.signals[label]
	return ok
}

func (s *Sensor) SetTransferFunction(tf TransferFunction) {
	s.transfer = &tf
}

func (s *Sensor) TransferFunction() (TransferFunction, bool) {
	if s.transfer == nil {
		return TransferFunction{}, false
	}
	return *s.transfer, true
}

func (s *Sensor) ClearSignal() {
	for _, signal := range s.signals {
		clear(signal)
	}
	s.convoluted = false
}

// IsClear reports whether every bin of every electrode is zero.
func (s *Sensor) IsClear() bool {
	for _, signal := range s.signals {
		for _, v := range signal {
			if v != 0 {
				return false
			}
		}
	}
	return true
}

// AddCurrent adds current i [fC/ns] at time t to the bin containing t.
// Times outside the window and electrodes not read out are ignored.
func (s *Sensor) AddCurrent(label string, t float64, i float64) {
	signal, ok := s.signals[label]
	if !ok {
		return
	}
	bin := s.bin(t)
	if bin < 0 {
		return
	}
	signal[bin] += i
}

func (s *Sensor) bin(t float64) int {
	if t < s.window.Tmin {
		return -1
	}
	bin := int(math.Floor((t - s.window.Tmin) / s.window.Tstep))
	if bin >= s.window.Bins {
		return -1
	}
	return bin
}

// Signal returns a copy of the binned signal of an electrode.
func (s *Sensor) Signal(label string) ([]float64, error) {
	signal, ok := s.signals[label]
	if !ok {
		return nil, &ErrUnknownElectrode{Label: label}
	}
	return append([]float64(nil), signal...), nil
}

// Times returns the centre of every bin.
func (s *Sensor) Times() []float64 {
	times := make([]float64, s.window.Bins)
	for i := range times {
		times[i] = s.window.Tmin + (float64(i)+0.5)*s.window.Tstep
	}
	return times
}

// Charge integrates the signal of an electrode [fC].
func (s *Sensor) Charge(label string) (float64, error) {
	signal, ok := s.signals[label]
	if !ok {
		return 0, &ErrUnknownElectrode{Label: label}
	}
	q := 0.0
	for _, v := range signal {
		q += v * s.window.Tstep
	}
	return q, nil
}

// ConvoluteSignals replaces every signal by its convolution with the transfer
// function.
func (s *Sensor) ConvoluteSignals() error {
	if s.transfer == nil {
		return &ErrTransferFunction{Reason: "no transfer function set"}
	}
	if s.convoluted {
		return nil
	}
	n := s.window.Bins
	dt := s.window.Tstep
	kernel := make([]float64, n)
	for k := range kernel {
		kernel[k] = s.transfer.Eval(float64(k) * dt)
	}
	for _, label := range s.labels {
		signal := s.signals[label]
		out := make([]float64, n)
		for j, in := range signal {
			if in == 0 {
				continue
			}
			for k := 0; j+k < n; k++ {
				out[j+k] += in * kernel[k] * dt
			}
		}
		copy(signal, out)
	}
	s.convoluted = true
	return nil
}

func (s *Sensor) Convoluted() bool {
	return s.convoluted
}

// ThresholdCrossings returns the times at which the signal of an electrode
// crosses level, interpolated between bin centres.
func (s *Sensor) ThresholdCrossings(level float64, label string) ([]Crossing, error) {
	signal, ok := s.signals[label]
	if !ok {
		return nil, &ErrUnknownElectrode{Label: label}
	}
	times := s.Times()
	var crossings []Crossing
	for i := 1; i < len(signal); i++ {
		a := signal[i-1] - level
		b := signal[i] - level
		if a == 0 || a*b > 0 {
			continue
		}
		if b == 0 && i+1 < len(signal) && (signal[i+1]-level)*a > 0 {
			// touches the level without crossing it
			continue
		}
		f := a / (a - b)
		crossings = append(crossings, Crossing{
			Time:   times[i-1] + f*(times[i]-times[i-1]),
			Level:  level,
			Rising: b > a,
		})
	}
	return crossings, nil
}
