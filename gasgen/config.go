package main

import (
	"fmt"

	chamber "github.com/next-exp/wirechamber_go/pkg"
)

func printConfiguration(config chamber.GasConfiguration, logger chamber.Logger) {
	for _, c := range config.Gas.Components {
		logger.Info(fmt.Sprintf("Component: %s %g%%", c.Name, c.Fraction), "config")
	}
	logger.Info(fmt.Sprintf("Temperature: %g K", config.Gas.Temperature), "config")
	logger.Info(fmt.Sprintf("Pressure: %g Torr", config.Gas.Pressure), "config")
	logger.Info(fmt.Sprintf("Field min: %g V/cm", config.FieldGrid.Min), "config")
	logger.Info(fmt.Sprintf("Field max: %g V/cm", config.FieldGrid.Max), "config")
	logger.Info(fmt.Sprintf("Field points: %d", config.FieldGrid.Count), "config")
	logger.Info(fmt.Sprintf("Log spacing: %t", config.FieldGrid.Log), "config")
	logger.Info(fmt.Sprintf("Collisions: %d x 10^7", config.Collisions), "config")
	logger.Info(fmt.Sprintf("Workers: %d", config.Workers), "config")
	logger.Info(fmt.Sprintf("Output file: %s", config.OutputFile), "config")
	logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "config")
	logger.Info(fmt.Sprintf("Sample fields: %v kV/cm", config.SampleFieldsKV), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
}
