package chamber

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSampler struct {
	tracks []Track
	calls  int
}

func (f *fakeSampler) NewTrack(ctx context.Context, start TrackStart) (Track, error) {
	track := f.tracks[f.calls%len(f.tracks)]
	f.calls++
	return track, nil
}

// fakeDrift puts a unit negative current at 10 ns for every electron.
type fakeDrift struct {
	sensor *Sensor
	calls  int
}

func (f *fakeDrift) DriftElectron(ctx context.Context, e Electron) (DriftLine, error) {
	f.calls++
	f.sensor.AddCurrent("s", 10.5, -1)
	return DriftLine{Points: []DriftPoint{{Position: e.Position, T: e.T}}, Endpoint: EndpointWire, Label: "s"}, nil
}

type fakeRecorder struct {
	results []TrackResult
}

func (f *fakeRecorder) RecordTrack(result TrackResult, sensor *Sensor) error {
	f.results = append(f.results, result)
	return nil
}

type fakePlotter struct {
	drift   []int
	signals []int
}

func (f *fakePlotter) PlotDrift(track int, geometry Geometry, lines []DriftLine, t Track) error {
	f.drift = append(f.drift, track)
	return nil
}

func (f *fakePlotter) PlotSignal(track int, label string, times []float64, signal []float64) error {
	f.signals = append(f.signals, track)
	return nil
}

func trackWith(n int) Track {
	cluster := Cluster{Electrons: make([]Electron, n)}
	return Track{Clusters: []Cluster{cluster}}
}

func writeTransferFunction(t *testing.T) string {
	filename := filepath.Join(t.TempDir(), "tf.txt")
	// 1 between 0 and 10 ns, then down to 0 at 20 ns
	require.NoError(t, os.WriteFile(filename, []byte("0 1\n0.01 1\n0.02 0\n"), 0644))
	return filename
}

func newTestSimulation(t *testing.T, tracks ...Track) (Configuration, Simulation, *fakeSampler, *fakeDrift, *fakeRecorder, *fakePlotter) {
	config := DefaultConfiguration()
	config.TransferFunctionFile = writeTransferFunction(t)
	config.TimeWindow = TimeWindow{Tmin: 0, Tstep: 1, Bins: 100}
	config.NumTracks = len(tracks)

	sensor := NewSensor(config.TimeWindow, "s")
	sampler := &fakeSampler{tracks: tracks}
	drift := &fakeDrift{sensor: sensor}
	recorder := &fakeRecorder{}
	plotter := &fakePlotter{}
	sim := Simulation{
		Geometry: CellGeometry(config.Cell),
		Sensor:   sensor,
		Sampler:  sampler,
		Drift:    drift,
		Recorder: recorder,
		Plotter:  plotter,
	}
	return config, sim, sampler, drift, recorder, plotter
}

func TestRunChamberWithoutTransferFunction(t *testing.T) {
	config, sim, sampler, drift, _, _ := newTestSimulation(t, trackWith(5))
	config.TransferFunctionFile = filepath.Join(t.TempDir(), "missing.txt")

	summary, err := RunChamber(context.Background(), config, sim)
	require.Error(t, err)
	var openErr *ErrOpenFile
	assert.ErrorAs(t, err, &openErr)
	assert.Empty(t, summary.Results)
	assert.Zero(t, sampler.calls)
	assert.Zero(t, drift.calls)
}

func TestRunChamberMalformedTransferFunction(t *testing.T) {
	config, sim, sampler, _, _, _ := newTestSimulation(t, trackWith(5))
	config.TransferFunctionFile = filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(config.TransferFunctionFile, []byte("0 1\n0.01 oops\n"), 0644))

	_, err := RunChamber(context.Background(), config, sim)
	require.Error(t, err)
	var tfErr *ErrTransferFunction
	assert.ErrorAs(t, err, &tfErr)
	assert.Zero(t, sampler.calls)
}

func TestRunChamberNoElectrons(t *testing.T) {
	config, sim, sampler, drift, recorder, plotter := newTestSimulation(t, Track{})

	summary, err := RunChamber(context.Background(), config, sim)
	require.NoError(t, err)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, TrackNoElectrons, summary.Results[0].Outcome)
	assert.Equal(t, 1, summary.NoElectrons)
	assert.Equal(t, 1, sampler.calls)
	assert.Zero(t, drift.calls)
	assert.True(t, sim.Sensor.IsClear())
	assert.Empty(t, recorder.results)
	assert.Empty(t, plotter.drift)
	assert.Empty(t, plotter.signals)
}

func TestRunChamberElectronCap(t *testing.T) {
	config, sim, _, drift, _, _ := newTestSimulation(t, trackWith(300))
	config.MaxElectrons = 200

	summary, err := RunChamber(context.Background(), config, sim)
	require.NoError(t, err)
	require.Len(t, summary.Results, 1)
	result := summary.Results[0]
	assert.Equal(t, 300, result.Electrons)
	assert.Equal(t, 200, result.Processed)
	assert.Equal(t, 200, drift.calls)
}

func TestRunChamberOutcomes(t *testing.T) {
	config, sim, _, drift, recorder, plotter := newTestSimulation(t, trackWith(5), trackWith(1), Track{})

	summary, err := RunChamber(context.Background(), config, sim)
	require.NoError(t, err)
	require.Len(t, summary.Results, 3)

	assert.Equal(t, TrackSignal, summary.Results[0].Outcome)
	assert.NotEmpty(t, summary.Results[0].Crossings)
	assert.InDelta(t, -5., summary.Results[0].Charge, 1e-12)
	// The previous track's signal is cleared before the next one.
	assert.Equal(t, TrackNoCrossing, summary.Results[1].Outcome)
	assert.Empty(t, summary.Results[1].Crossings)
	assert.Equal(t, TrackNoElectrons, summary.Results[2].Outcome)

	assert.Equal(t, 1, summary.Signals)
	assert.Equal(t, 1, summary.NoCrossing)
	assert.Equal(t, 1, summary.NoElectrons)
	assert.Equal(t, 6, drift.calls)

	require.Len(t, recorder.results, 1)
	assert.Equal(t, 0, recorder.results[0].Index)
	assert.Equal(t, []int{0, 1}, plotter.drift)
	assert.Equal(t, []int{0}, plotter.signals)
}

func TestRunChamberWithoutPlots(t *testing.T) {
	config, sim, _, _, _, plotter := newTestSimulation(t, trackWith(5))
	config.PlotDrift = false
	config.PlotSignal = false

	_, err := RunChamber(context.Background(), config, sim)
	require.NoError(t, err)
	assert.Empty(t, plotter.drift)
	assert.Empty(t, plotter.signals)
}

func TestRunChamberCancelled(t *testing.T) {
	config, sim, sampler, _, _, _ := newTestSimulation(t, trackWith(5))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunChamber(ctx, config, sim)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, sampler.calls)
}

func TestElectronsUpTo(t *testing.T) {
	track := Track{Clusters: []Cluster{
		{Electrons: make([]Electron, 3)},
		{Electrons: make([]Electron, 4)},
	}}
	assert.Len(t, ElectronsUpTo(track, 5), 5)
	assert.Len(t, ElectronsUpTo(track, 200), 7)
	assert.Empty(t, ElectronsUpTo(track, 0))
	assert.Empty(t, ElectronsUpTo(Track{}, 10))
}

func TestTrackOutcomeString(t *testing.T) {
	assert.Equal(t, "signal", TrackSignal.String())
	assert.Equal(t, "no electrons", TrackNoElectrons.String())
	assert.Equal(t, "no threshold crossing", TrackNoCrossing.String())
}
