package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	chamber "github.com/next-exp/wirechamber_go/pkg"
	"github.com/next-exp/wirechamber_go/pkg/gas"
	"github.com/next-exp/wirechamber_go/pkg/hdf5io"
)

var (
	logger         chamber.ConsoleLogger
	configFilename string
	verbosity      int
	noColor        bool
	outputFile     string
)

var rootCmd = &cobra.Command{
	Use:   "gasgen",
	Short: "Generate an electron transport table for a gas mixture",
	Long: `gasgen computes drift velocity, diffusion and Townsend coefficients of a
gas mixture over a grid of electric fields and stores them in an HDF5 gas
table that chambersim reads.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configFilename, "config", "c", "", "Configuration file path")
	rootCmd.Flags().IntVarP(&verbosity, "verbosity", "v", 1, "Verbosity level")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output gas table file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command) {
	logger = chamber.NewConsoleLogger(os.Stdout, os.Stderr, noColor)

	configuration, err := chamber.LoadGasConfiguration(configFilename)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file: %w", err)
		logger.Error(message.Error())
		return
	}
	if cmd.Flags().Changed("verbosity") {
		configuration.Verbosity = verbosity
	}
	if cmd.Flags().Changed("output") {
		configuration.OutputFile = outputFile
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	store := hdf5io.GasFile{CompressionLevel: configuration.CompressionLevel}
	_, _, err = chamber.GenerateGasTable(ctx, configuration, gas.Magboltz{Workers: configuration.Workers}, store)
	if err != nil {
		message := fmt.Errorf("Error generating gas table: %w", err)
		logger.Error(message.Error())
		return
	}

	duration := time.Since(start)
	logger.Info(fmt.Sprintf("Gas table written to %s in %d ms", configuration.OutputFile, duration.Milliseconds()), "main")
}
