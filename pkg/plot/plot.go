package plot

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	chamber "github.com/next-exp/wirechamber_go/pkg"
)

const (
	Width  = 800
	Height = 800
)

var (
	driftColor   = drawing.Color{R: 255, G: 165, B: 0, A: 255}
	clusterColor = chart.ColorRed
	wireColor    = chart.ColorBlack
	signalColor  = chart.ColorBlue
)

// PNG writes drift line and signal plots as png files in Dir.
type PNG struct {
	Dir string
}

func NewPNG(dir string) (*PNG, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error creating plot directory %s: %w", dir, err)
	}
	return &PNG{Dir: dir}, nil
}

func (p *PNG) DriftFilename(track int) string {
	return filepath.Join(p.Dir, fmt.Sprintf("drift_track%d.png", track))
}

func (p *PNG) SignalFilename(track int, label string) string {
	return filepath.Join(p.Dir, fmt.Sprintf("signal_%s_track%d.png", label, track))
}

func (p *PNG) PlotDrift(track int, geometry chamber.Geometry, lines []chamber.DriftLine, t chamber.Track) error {
	return writeFile(p.DriftFilename(track), func(w io.Writer) error {
		return RenderDrift(w, geometry, lines, t)
	})
}

func (p *PNG) PlotSignal(track int, label string, times []float64, signal []float64) error {
	return writeFile(p.SignalFilename(track, label), func(w io.Writer) error {
		return RenderSignal(w, label, times, signal)
	})
}

func writeFile(filename string, render func(io.Writer) error) error {
	f, err := os.Create(filename)
	if err != nil {
		return &chamber.ErrOpenFile{Filename: filename, Err: err}
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("error rendering %s: %w", filename, err)
	}
	return f.Close()
}

// RenderDrift draws the cell seen along z: wires, track clusters and drift
// lines.
func RenderDrift(w io.Writer, geometry chamber.Geometry, lines []chamber.DriftLine, t chamber.Track) error {
	xmin, xmax, ymin, ymax := viewport(geometry)

	var series []chart.Series
	for i, line := range lines {
		if len(line.Points) < 2 {
			continue
		}
		xs := make([]float64, len(line.Points))
		ys := make([]float64, len(line.Points))
		for j, point := range line.Points {
			xs[j] = point.Position.X
			ys[j] = point.Position.Y
		}
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("drift %d", i),
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: driftColor, StrokeWidth: 1.0},
		})
	}

	if len(t.Clusters) > 0 {
		xs := make([]float64, len(t.Clusters))
		ys := make([]float64, len(t.Clusters))
		for i, c := range t.Clusters {
			xs[i] = c.Position.X
			ys[i] = c.Position.Y
		}
		series = append(series, chart.ContinuousSeries{
			Name:    "clusters",
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeWidth: chart.Disabled, DotWidth: 2.0, DotColor: clusterColor},
		})
	}

	xs := make([]float64, len(geometry.Wires))
	ys := make([]float64, len(geometry.Wires))
	for i, wire := range geometry.Wires {
		xs[i] = wire.X
		ys[i] = wire.Y
	}
	series = append(series, chart.ContinuousSeries{
		Name:    "wires",
		XValues: xs,
		YValues: ys,
		Style:   chart.Style{StrokeWidth: chart.Disabled, DotWidth: 4.0, DotColor: wireColor},
	})

	graph := chart.Chart{
		Title:  "Drift lines",
		Width:  Width,
		Height: Height,
		XAxis: chart.XAxis{
			Name:  "x [cm]",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: xmin, Max: xmax},
		},
		YAxis: chart.YAxis{
			Name:  "y [cm]",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: ymin, Max: ymax},
		},
		Series: series,
	}
	return graph.Render(chart.PNG, w)
}

// viewport returns the area between the planes, or around the wires when
// the planes do not close the cell.
func viewport(geometry chamber.Geometry) (xmin, xmax, ymin, ymax float64) {
	xmin, xmax, ymin, ymax = geometry.Bounds()
	if !math.IsInf(xmin, 0) && !math.IsInf(ymin, 0) {
		return xmin, xmax, ymin, ymax
	}
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for _, w := range geometry.Wires {
		xmin, xmax = math.Min(xmin, w.X), math.Max(xmax, w.X)
		ymin, ymax = math.Min(ymin, w.Y), math.Max(ymax, w.Y)
	}
	return xmin - 1, xmax + 1, ymin - 1, ymax + 1
}

// RenderSignal draws the signal of one electrode against time.
func RenderSignal(w io.Writer, label string, times []float64, signal []float64) error {
	if len(times) != len(signal) || len(times) < 2 {
		return fmt.Errorf("signal %s has %d times and %d values", label, len(times), len(signal))
	}
	lo, hi := signal[0], signal[0]
	for _, v := range signal {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		lo, hi = lo-1, hi+1
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Signal %s", label),
		Width:  Width,
		Height: Height / 2,
		XAxis: chart.XAxis{
			Name:  "time [ns]",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: times[0], Max: times[len(times)-1]},
		},
		YAxis: chart.YAxis{
			Name:  "signal [fC/ns]",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    label,
				XValues: times,
				YValues: signal,
				Style:   chart.Style{StrokeColor: signalColor, StrokeWidth: 2.0},
			},
		},
	}
	return graph.Render(chart.PNG, w)
}
