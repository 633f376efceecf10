package chamber

import (
	"context"
	"fmt"
	"time"
)

// GenerateGasTable runs the transport model once over the configured field
// grid, writes the table with store and logs the transport coefficients at
// the sample fields. The calculation is not retried.
func GenerateGasTable(ctx context.Context, config GasConfiguration, model TransportModel, store GasTableStore) (*GasTable, []TransportSample, error) {
	if err := config.Validate(); err != nil {
		return nil, nil, err
	}
	logger.Info("=== Generating gas file ===", "gasgen")
	logger.Info(fmt.Sprintf("Gas mixture: %s", config.Gas), "gasgen")
	logger.Info(fmt.Sprintf("Temperature: %g K", config.Gas.Temperature), "gasgen")
	logger.Info(fmt.Sprintf("Pressure: %g Torr", config.Gas.Pressure), "gasgen")

	fields := config.FieldGrid.Points()
	logger.Info(fmt.Sprintf("Electric field range: %g - %g V/cm", config.FieldGrid.Min, config.FieldGrid.Max), "gasgen")
	logger.Info(fmt.Sprintf("Number of E-field points: %d", config.FieldGrid.Count), "gasgen")
	logger.Info(fmt.Sprintf("Using logarithmic spacing: %t", config.FieldGrid.Log), "gasgen")
	logger.Info(fmt.Sprintf("Number of collisions: %d x 10^7", config.Collisions), "gasgen")

	start := time.Now()
	table, err := model.GenerateTable(ctx, config.Gas, fields, config.Collisions)
	if err != nil {
		return nil, nil, fmt.Errorf("error generating gas table: %w", err)
	}
	logger.Info(fmt.Sprintf("Transport calculation completed in %d ms", time.Since(start).Milliseconds()), "gasgen")

	if err := store.WriteGasTable(config.OutputFile, table); err != nil {
		return table, nil, fmt.Errorf("error writing gas file: %w", err)
	}
	logger.Info(fmt.Sprintf("Gas file saved as: %s", config.OutputFile), "gasgen")

	if config.Verbosity > 0 {
		logger.Info("=== Gas properties summary ===", "gasgen")
		for _, line := range table.Summary() {
			logger.Info(line, "gasgen")
		}
	}

	samples := TransportSamples(table, config.SampleFieldsKV)
	logger.Info("E [kV/cm]  Drift Vel [cm/us]  Townsend alpha [1/cm]", "gasgen")
	for _, s := range samples {
		logger.Info(fmt.Sprintf("%8.1f    %12.3f         %10.3e", s.FieldKV, s.DriftVelocity, s.Alpha), "gasgen")
	}
	return table, samples, nil
}
