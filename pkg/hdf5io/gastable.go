package hdf5io

import (
	"errors"
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"
	chamber "github.com/next-exp/wirechamber_go/pkg"
)

const gasGroup = "Gas"

// GasFile stores gas tables as HDF5 files with a Gas group holding the
// conditions, composition and transport tables.
type GasFile struct {
	CompressionLevel int
}

func (g GasFile) WriteGasTable(filename string, table *chamber.GasTable) (err error) {
	file, err := createFile(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing file: %w", cerr)
		}
	}()

	group, err := createGroup(file, gasGroup)
	if err != nil {
		return err
	}
	defer group.Close()

	conditions := conditionsHDF5{
		temperature: table.Conditions.Temperature,
		pressure:    table.Conditions.Pressure,
		collisions:  int32(table.Collisions),
	}
	if err := writeTable(group, "conditions", []conditionsHDF5{conditions}, g.CompressionLevel); err != nil {
		return err
	}

	components := make([]componentHDF5, len(table.Conditions.Components))
	for i, c := range table.Conditions.Normalized() {
		components[i] = componentHDF5{name: convertToHdf5String(c.Name), fraction: c.Fraction}
	}
	if err := writeTable(group, "composition", components, g.CompressionLevel); err != nil {
		return err
	}

	entries := make([]transportHDF5, len(table.Entries))
	for i, e := range table.Entries {
		entries[i] = transportHDF5{
			field:          e.Field,
			velocity:       e.DriftVelocity,
			longDiffusion:  e.LongDiffusion,
			transDiffusion: e.TransDiffusion,
			townsend:       e.Townsend,
			attachment:     e.Attachment,
		}
	}
	return writeTable(group, "transport", entries, g.CompressionLevel)
}

func writeTable[T any](group *hdf5.Group, name string, rows []T, compression int) error {
	var zero T
	dset, err := createTable(group, name, zero, compression)
	if err != nil {
		return err
	}
	var errs []error
	if len(rows) > 0 {
		if err := writeArrayToTable(dset, &rows, 0); err != nil {
			errs = append(errs, fmt.Errorf("error writing %s: %w", name, err))
		}
	}
	if err := dset.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing %s: %w", name, err))
	}
	return errors.Join(errs...)
}

// ReadGasTable loads a table written by GasFile.
func ReadGasTable(filename string) (*chamber.GasTable, error) {
	file, err := hdf5.OpenFile(filename, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, &ErrOpenFile{Filename: filename, Err: err}
	}
	defer file.Close()

	group, err := file.OpenGroup(gasGroup)
	if err != nil {
		return nil, fmt.Errorf("error opening group %s: %w", gasGroup, err)
	}
	defer group.Close()

	conditions, err := readTable[conditionsHDF5](group, "conditions")
	if err != nil {
		return nil, err
	}
	if len(conditions) != 1 {
		return nil, fmt.Errorf("expected one conditions entry, found %d", len(conditions))
	}
	components, err := readTable[componentHDF5](group, "composition")
	if err != nil {
		return nil, err
	}
	entries, err := readTable[transportHDF5](group, "transport")
	if err != nil {
		return nil, err
	}

	table := &chamber.GasTable{
		Conditions: chamber.GasConditions{
			Temperature: conditions[0].temperature,
			Pressure:    conditions[0].pressure,
		},
		Collisions: int(conditions[0].collisions),
		Entries:    make([]chamber.TransportEntry, len(entries)),
	}
	for _, c := range components {
		table.Conditions.Components = append(table.Conditions.Components, chamber.GasComponent{
			Name:     convertFromHdf5String(c.name),
			Fraction: c.fraction,
		})
	}
	for i, e := range entries {
		table.Entries[i] = chamber.TransportEntry{
			Field:          e.field,
			DriftVelocity:  e.velocity,
			LongDiffusion:  e.longDiffusion,
			TransDiffusion: e.transDiffusion,
			Townsend:       e.townsend,
			Attachment:     e.attachment,
		}
	}
	return table, nil
}
