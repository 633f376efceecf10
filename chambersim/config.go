package main

import (
	"fmt"

	chamber "github.com/next-exp/wirechamber_go/pkg"
)

func printConfiguration(config chamber.Configuration, logger chamber.Logger) {
	logger.Info(fmt.Sprintf("Gas file: %s", config.GasFile), "config")
	logger.Info(fmt.Sprintf("Ion mobility file: %s", config.IonMobilityFile), "config")
	logger.Info(fmt.Sprintf("Cell size: %g cm", config.Cell.CellSize), "config")
	logger.Info(fmt.Sprintf("Sense wire: %s, radius %g cm, %g V", config.Cell.SenseLabel, config.Cell.SenseWireRadius, config.Cell.SenseVoltage), "config")
	logger.Info(fmt.Sprintf("Field wires: radius %g cm, %g V", config.Cell.FieldWireRadius, config.Cell.FieldVoltage), "config")
	logger.Info(fmt.Sprintf("Planes: %g V at %g x cell size", config.Cell.PlaneVoltage, config.Cell.BoundaryFactor), "config")
	logger.Info(fmt.Sprintf("Read out: %v", config.Readout), "config")
	logger.Info(fmt.Sprintf("Time window: %g ns, %g ns x %d bins", config.TimeWindow.Tmin, config.TimeWindow.Tstep, config.TimeWindow.Bins), "config")
	logger.Info(fmt.Sprintf("Transfer function: %s (time scale %g)", config.TransferFunctionFile, config.TransferTimeScale), "config")
	logger.Info(fmt.Sprintf("Particle: %s, %g eV/c", config.Track.Particle, config.Track.Momentum), "config")
	logger.Info(fmt.Sprintf("Track start: (%g, %g, %g) cm", config.Track.X0, config.Track.Y0, config.Track.Z0), "config")
	logger.Info(fmt.Sprintf("Track direction: (%g, %g, %g)", config.Track.DX, config.Track.DY, config.Track.DZ), "config")
	logger.Info(fmt.Sprintf("Max track length: %g cm", config.Track.MaxLength), "config")
	logger.Info(fmt.Sprintf("Random seed: %d", config.Track.RandomSeed), "config")
	logger.Info(fmt.Sprintf("Number of tracks: %d", config.NumTracks), "config")
	logger.Info(fmt.Sprintf("Max electrons: %d", config.MaxElectrons), "config")
	logger.Info(fmt.Sprintf("Threshold: %g on %s", config.Threshold, config.ThresholdLabel), "config")
	logger.Info(fmt.Sprintf("Gain: %g, Polya theta: %g", config.Gain, config.PolyaTheta), "config")
	logger.Info(fmt.Sprintf("Drift ions: %t", config.DriftIons), "config")
	logger.Info(fmt.Sprintf("Diffusion: %t", config.Diffusion), "config")
	logger.Info(fmt.Sprintf("Plot drift: %t", config.PlotDrift), "config")
	logger.Info(fmt.Sprintf("Plot signal: %t", config.PlotSignal), "config")
	logger.Info(fmt.Sprintf("Plot dir: %s", config.PlotDir), "config")
	logger.Info(fmt.Sprintf("Signal file: %s", config.SignalFile), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	logger.Info(fmt.Sprintf("Chamber: %s", config.ChamberName), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
}
