package plot

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chamber "github.com/next-exp/wirechamber_go/pkg"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestRenderSignal(t *testing.T) {
	times := []float64{0, 1, 2, 3}
	signal := []float64{0, -1, -3, -0.5}

	var buf bytes.Buffer
	require.NoError(t, RenderSignal(&buf, "s", times, signal))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestRenderFlatSignal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSignal(&buf, "s", []float64{0, 1, 2}, []float64{0, 0, 0}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestRenderSignalMismatch(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, RenderSignal(&buf, "s", []float64{0, 1}, []float64{0}))
}

func TestPlotFiles(t *testing.T) {
	p, err := NewPNG(t.TempDir())
	require.NoError(t, err)

	geometry := chamber.CellGeometry(chamber.DefaultConfiguration().Cell)
	lines := []chamber.DriftLine{
		{Points: []chamber.DriftPoint{{Position: chamber.Vector{X: 0.5, Y: 0.5}}, {Position: chamber.Vector{X: 0.1, Y: 0.1}, T: 10}}},
		{Points: []chamber.DriftPoint{{Position: chamber.Vector{X: 0.5}}}},
	}
	track := chamber.Track{Clusters: []chamber.Cluster{{Position: chamber.Vector{X: 0.5, Y: 0.5}}}}

	require.NoError(t, p.PlotDrift(3, geometry, lines, track))
	data, err := os.ReadFile(p.DriftFilename(3))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))

	require.NoError(t, p.PlotSignal(3, "s", []float64{0, 1, 2}, []float64{0, -2, -1}))
	data, err = os.ReadFile(p.SignalFilename(3, "s"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))
	assert.Contains(t, p.SignalFilename(3, "s"), "signal_s_track3.png")
}
