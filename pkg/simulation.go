package chamber

import (
	"context"
	"fmt"
)

type TrackOutcome int

const (
	TrackSignal TrackOutcome = iota
	TrackNoElectrons
	TrackNoCrossing
)

func (o TrackOutcome) String() string {
	switch o {
	case TrackSignal:
		return "signal"
	case TrackNoElectrons:
		return "no electrons"
	case TrackNoCrossing:
		return "no threshold crossing"
	default:
		return "unknown"
	}
}

// TrackResult is the outcome of one simulated track.
type TrackResult struct {
	Index     int
	Outcome   TrackOutcome
	Clusters  int
	Electrons int     // generated along the track
	Processed int     // drifted, never above the electron cap
	Charge    float64 // induced before convolution [fC]
	Crossings []Crossing
}

// RunSummary aggregates the results of a run.
type RunSummary struct {
	Results     []TrackResult
	Signals     int
	NoElectrons int
	NoCrossing  int
}

func (s *RunSummary) add(r TrackResult) {
	s.Results = append(s.Results, r)
	switch r.Outcome {
	case TrackSignal:
		s.Signals++
	case TrackNoElectrons:
		s.NoElectrons++
	case TrackNoCrossing:
		s.NoCrossing++
	}
}

// Simulation groups the collaborators of a chamber run. Recorder and Plotter
// are optional.
type Simulation struct {
	Geometry Geometry
	Sensor   *Sensor
	Sampler  IonizationSampler
	Drift    DriftIntegrator
	Recorder TrackRecorder
	Plotter  Plotter
}

// RunChamber loads the transfer function and simulates the configured number
// of tracks. Without a usable transfer function no track is processed.
func RunChamber(ctx context.Context, config Configuration, sim Simulation) (RunSummary, error) {
	var summary RunSummary

	tf, err := LoadTransferFunction(config.TransferFunctionFile, config.TransferTimeScale)
	if err != nil {
		logger.Error(fmt.Sprintf("Could not read chamber transfer function: %v", err))
		return summary, err
	}
	if err := tf.Validate(); err != nil {
		logger.Error(fmt.Sprintf("Could not use chamber transfer function: %v", err))
		return summary, err
	}
	sim.Sensor.SetTransferFunction(tf)
	sim.Sensor.ClearSignal()
	if config.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Transfer function: %d points from %s", tf.Len(), config.TransferFunctionFile), "simulation")
	}

	start := config.Track.Start()
	for j := 0; j < config.NumTracks; j++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		logger.Info(fmt.Sprintf("=== Starting Track %d ===", j+1), "simulation")
		result, err := processTrack(ctx, config, sim, j, start)
		if err != nil {
			return summary, fmt.Errorf("error processing track %d: %w", j+1, err)
		}
		summary.add(result)
	}
	logger.Info(fmt.Sprintf("Tracks: %d, with signal: %d, without electrons: %d, without crossing: %d",
		len(summary.Results), summary.Signals, summary.NoElectrons, summary.NoCrossing), "simulation")
	return summary, nil
}

func processTrack(ctx context.Context, config Configuration, sim Simulation, index int, start TrackStart) (TrackResult, error) {
	result := TrackResult{Index: index}
	sim.Sensor.ClearSignal()

	track, err := sim.Sampler.NewTrack(ctx, start)
	if err != nil {
		return result, fmt.Errorf("error generating track: %w", err)
	}
	result.Clusters = len(track.Clusters)
	result.Electrons = track.NumElectrons()
	if config.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Found %d clusters, %d electrons", result.Clusters, result.Electrons), "simulation")
	}

	if result.Electrons == 0 {
		logger.Warn("No electrons generated", "simulation")
		result.Outcome = TrackNoElectrons
		return result, nil
	}

	toProcess := min(result.Electrons, config.MaxElectrons)
	var lines []DriftLine
	for _, electron := range ElectronsUpTo(track, config.MaxElectrons) {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		line, err := sim.Drift.DriftElectron(ctx, electron)
		if err != nil {
			return result, fmt.Errorf("error drifting electron: %w", err)
		}
		result.Processed++
		if config.Verbosity > 1 && result.Processed%50 == 0 {
			logger.Info(fmt.Sprintf("Processed %d/%d electrons", result.Processed, toProcess), "simulation")
		}
		if config.PlotDrift {
			lines = append(lines, line)
		}
	}
	if config.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Drifted %d electrons", result.Processed), "simulation")
	}

	if config.PlotDrift && sim.Plotter != nil {
		if err := sim.Plotter.PlotDrift(index, sim.Geometry, lines, track); err != nil {
			logger.Error(fmt.Sprintf("error plotting drift lines: %v", err))
		}
	}

	result.Charge, _ = sim.Sensor.Charge(config.ThresholdLabel)
	if err := sim.Sensor.ConvoluteSignals(); err != nil {
		return result, err
	}

	crossings, err := sim.Sensor.ThresholdCrossings(config.Threshold, config.ThresholdLabel)
	if err != nil {
		return result, err
	}
	result.Crossings = crossings
	if len(crossings) == 0 {
		result.Outcome = TrackNoCrossing
		return result, nil
	}
	result.Outcome = TrackSignal
	if config.Verbosity > 0 {
		logger.Info(fmt.Sprintf("%d threshold crossings, first at %.2f ns", len(crossings), crossings[0].Time), "simulation")
	}

	if sim.Recorder != nil {
		if err := sim.Recorder.RecordTrack(result, sim.Sensor); err != nil {
			return result, fmt.Errorf("error recording track: %w", err)
		}
	}
	if config.PlotSignal && sim.Plotter != nil {
		signal, err := sim.Sensor.Signal(config.ThresholdLabel)
		if err != nil {
			return result, err
		}
		if err := sim.Plotter.PlotSignal(index, config.ThresholdLabel, sim.Sensor.Times(), signal); err != nil {
			logger.Error(fmt.Sprintf("error plotting signal: %v", err))
		}
	}
	return result, nil
}

// ElectronsUpTo returns the electrons of a track in cluster order, at most
// limit of them.
func ElectronsUpTo(track Track, limit int) []Electron {
	limit = max(limit, 0)
	electrons := make([]Electron, 0, min(track.NumElectrons(), limit))
	for _, cluster := range track.Clusters {
		for _, electron := range cluster.Electrons {
			if len(electrons) >= limit {
				return electrons
			}
			electrons = append(electrons, electron)
		}
	}
	return electrons
}
