package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	sqlx "github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	chamber "github.com/next-exp/wirechamber_go/pkg"
	"github.com/next-exp/wirechamber_go/pkg/drift"
	"github.com/next-exp/wirechamber_go/pkg/field"
	"github.com/next-exp/wirechamber_go/pkg/gas"
	"github.com/next-exp/wirechamber_go/pkg/hdf5io"
	"github.com/next-exp/wirechamber_go/pkg/ionization"
	"github.com/next-exp/wirechamber_go/pkg/plot"
)

var dbConn *sqlx.DB

var (
	logger         chamber.ConsoleLogger
	configFilename string
	verbosity      int
	noColor        bool
	numTracks      int
)

var rootCmd = &cobra.Command{
	Use:   "chambersim",
	Short: "Simulate the signal of a drift cell crossed by charged tracks",
	Long: `chambersim generates ionisation along a straight track through a drift
cell, drifts the electrons to the wires, applies the avalanche gain and
convolutes the induced current with the front-end transfer function.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configFilename, "config", "c", "", "Configuration file path")
	rootCmd.Flags().IntVarP(&verbosity, "verbosity", "v", 1, "Verbosity level")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.Flags().IntVarP(&numTracks, "tracks", "n", 1, "Number of tracks to simulate")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command) {
	logger = chamber.NewConsoleLogger(os.Stdout, os.Stderr, noColor)

	configuration, err := chamber.LoadConfiguration(configFilename)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file: %w", err)
		logger.Error(message.Error())
		return
	}
	if cmd.Flags().Changed("verbosity") {
		configuration.Verbosity = verbosity
	}
	if cmd.Flags().Changed("tracks") {
		configuration.NumTracks = numTracks
	}
	if configuration.NoColor && !noColor {
		logger = chamber.NewConsoleLogger(os.Stdout, os.Stderr, true)
	}
	chamber.SetLogger(logger)

	if configuration.Verbosity > 0 {
		if configFilename != "" {
			logger.Info(fmt.Sprintf("Reading configuration file: %s", configFilename), "main")
		}
		printConfiguration(configuration, logger)
	}
	if err := configuration.Validate(); err != nil {
		message := fmt.Errorf("Invalid configuration: %w", err)
		logger.Error(message.Error())
		return
	}
	if err := configuration.CheckFiles(); err != nil {
		message := fmt.Errorf("Missing input: %w", err)
		logger.Error(message.Error())
		return
	}

	table, err := hdf5io.ReadGasTable(configuration.GasFile)
	if err != nil {
		message := fmt.Errorf("Error reading gas table: %w", err)
		logger.Error(message.Error())
		return
	}
	medium := gas.NewMedium(table)
	if configuration.Verbosity > 0 {
		for _, line := range table.Summary() {
			logger.Info(line, "gas")
		}
	}
	if err := medium.LoadIonMobility(configuration.IonMobilityFile); err != nil {
		message := fmt.Sprintf("Could not load ion mobility, ions are not drifted: %v", err)
		logger.Warn(message, "main")
	}

	geometry := chamber.CellGeometry(configuration.Cell)
	if !configuration.NoDB {
		dbConn, err = chamber.ConnectToDatabase(configuration.User, configuration.Passwd, configuration.Host, configuration.DBName)
		if err != nil {
			message := fmt.Errorf("Error connection to database: %w", err)
			logger.Error(message.Error())
			return
		}
		defer dbConn.Close()

		wires, err := chamber.LoadWires(dbConn, configuration.ChamberName, configuration.Verbosity)
		if err != nil {
			message := fmt.Errorf("Error loading wires of %s: %w", configuration.ChamberName, err)
			logger.Error(message.Error())
			return
		}
		geometry.Wires = wires
		if err := checkGeometry(geometry, configuration); err != nil {
			message := fmt.Errorf("Invalid chamber %s: %w", configuration.ChamberName, err)
			logger.Error(message.Error())
			return
		}
	}

	solver, err := field.NewAnalyticField(geometry)
	if err != nil {
		message := fmt.Errorf("Error computing the field: %w", err)
		logger.Error(message.Error())
		return
	}
	sensor := chamber.NewSensor(configuration.TimeWindow, configuration.Readout...)

	sampler, err := newSampler(geometry, table, configuration.Track)
	if err != nil {
		message := fmt.Errorf("Error setting up the track: %w", err)
		logger.Error(message.Error())
		return
	}

	integrator := drift.NewRungeKutta(solver, medium, sensor, configuration.Gain, configuration.PolyaTheta,
		configuration.DriftIons, configuration.Track.RandomSeed+1)
	integrator.Diffusion = configuration.Diffusion

	sim := chamber.Simulation{
		Geometry: geometry,
		Sensor:   sensor,
		Sampler:  sampler,
		Drift:    integrator,
	}
	if configuration.SignalFile != "" {
		writer, err := hdf5io.NewSignalWriter(configuration.SignalFile, configuration.TimeWindow,
			sensor.Electrodes(), configuration.CompressionLevel)
		if err != nil {
			message := fmt.Errorf("Error creating signal file: %w", err)
			logger.Error(message.Error())
			return
		}
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error(err.Error())
			}
		}()
		sim.Recorder = writer
	}
	if configuration.PlotDrift || configuration.PlotSignal {
		plotter, err := plot.NewPNG(configuration.PlotDir)
		if err != nil {
			message := fmt.Errorf("Error creating plot directory: %w", err)
			logger.Error(message.Error())
			return
		}
		sim.Plotter = plotter
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	summary, err := chamber.RunChamber(ctx, configuration, sim)
	if err != nil {
		message := fmt.Errorf("Error running the simulation: %w", err)
		logger.Error(message.Error())
		return
	}

	if dbConn != nil {
		runID, err := chamber.RecordRun(dbConn, configuration.ChamberName, start, summary)
		if err != nil {
			message := fmt.Errorf("Error recording run: %w", err)
			logger.Error(message.Error())
		} else if configuration.Verbosity > 0 {
			logger.Info(fmt.Sprintf("Run recorded as %s", runID), "main")
		}
	}

	duration := time.Since(start)
	logger.Info(fmt.Sprintf("Total time: %d ms", duration.Milliseconds()), "main")
}

// newSampler sets up the ionisation of the track, taking the cluster density
// and pair energy of the gas unless the configuration overrides them.
func newSampler(geometry chamber.Geometry, table *chamber.GasTable, track chamber.TrackConfig) (*ionization.Heed, error) {
	clusters := track.ClustersPerCm
	if clusters == 0 {
		var err error
		clusters, err = gas.ClusterDensity(table.Conditions)
		if err != nil {
			return nil, err
		}
	}
	w, ionisation, err := gas.PairEnergy(table.Conditions)
	if err != nil {
		return nil, err
	}
	return ionization.NewHeed(geometry, clusters, w, ionisation, track.MaxLength, track.RandomSeed)
}

func checkGeometry(geometry chamber.Geometry, config chamber.Configuration) error {
	if err := geometry.Validate(); err != nil {
		return err
	}
	for _, label := range config.Readout {
		if !geometry.HasElectrode(label) {
			return &chamber.ErrInvalidConfig{Field: "readout", Reason: fmt.Sprintf("no wire labelled %q", label)}
		}
	}
	return nil
}
