package hdf5io

import (
	"errors"
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"
	chamber "github.com/next-exp/wirechamber_go/pkg"
)

// SignalWriter stores one row per recorded track: a Run/tracks table with the
// track summary and, for every read out electrode, a Signals/<label> array
// with the convoluted signal.
type SignalWriter struct {
	File             *hdf5.File
	Filename         string
	RunGroup         *hdf5.Group
	SignalsGroup     *hdf5.Group
	TrackTable       *hdf5.Dataset
	WindowTable      *hdf5.Dataset
	Signals          map[string]*hdf5.Dataset
	Labels           []string
	CompressionLevel int
	TrackCounter     int
}

func NewSignalWriter(filename string, window chamber.TimeWindow, labels []string, compression int) (*SignalWriter, error) {
	w := &SignalWriter{
		Filename:         filename,
		Signals:          make(map[string]*hdf5.Dataset, len(labels)),
		Labels:           labels,
		CompressionLevel: compression,
	}
	var err error
	if w.File, err = createFile(filename); err != nil {
		return nil, err
	}
	if w.RunGroup, err = createGroup(w.File, "Run"); err != nil {
		w.Close()
		return nil, err
	}
	if w.SignalsGroup, err = createGroup(w.File, "Signals"); err != nil {
		w.Close()
		return nil, err
	}
	if w.TrackTable, err = createTable(w.RunGroup, "tracks", trackHDF5{}, compression); err != nil {
		w.Close()
		return nil, err
	}
	if w.WindowTable, err = createTable(w.RunGroup, "timeWindow", timeWindowHDF5{}, compression); err != nil {
		w.Close()
		return nil, err
	}
	entry := timeWindowHDF5{tmin: window.Tmin, tstep: window.Tstep, bins: int32(window.Bins)}
	if err := writeEntryToTable(w.WindowTable, entry, 0); err != nil {
		w.Close()
		return nil, err
	}
	for _, label := range labels {
		dset, err := create2dArray(w.SignalsGroup, label, window.Bins, compression)
		if err != nil {
			w.Close()
			return nil, err
		}
		w.Signals[label] = dset
	}
	return w, nil
}

func (w *SignalWriter) RecordTrack(result chamber.TrackResult, sensor *chamber.Sensor) error {
	entry := trackHDF5{
		track:     int32(result.Index),
		outcome:   int32(result.Outcome),
		clusters:  int32(result.Clusters),
		electrons: int32(result.Electrons),
		processed: int32(result.Processed),
		crossings: int32(len(result.Crossings)),
		charge:    result.Charge,
	}
	if len(result.Crossings) > 0 {
		entry.firstCrossing = result.Crossings[0].Time
	}
	if err := writeEntryToTable(w.TrackTable, entry, w.TrackCounter); err != nil {
		return fmt.Errorf("error writing track %d: %w", result.Index, err)
	}
	for _, label := range w.Labels {
		signal, err := sensor.Signal(label)
		if err != nil {
			return err
		}
		if err := write2dArray(w.Signals[label], &signal, w.TrackCounter, len(signal)); err != nil {
			return fmt.Errorf("error writing signal %s of track %d: %w", label, result.Index, err)
		}
	}
	w.TrackCounter++
	return nil
}

func (w *SignalWriter) Close() error {
	var errs []error

	for _, label := range w.Labels {
		if dset, ok := w.Signals[label]; ok && dset != nil {
			if err := dset.Close(); err != nil {
				errs = append(errs, fmt.Errorf("error closing signal %s: %w", label, err))
			}
		}
	}
	if w.TrackTable != nil {
		if err := w.TrackTable.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing track table: %w", err))
		}
	}
	if w.WindowTable != nil {
		if err := w.WindowTable.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing time window table: %w", err))
		}
	}
	if w.SignalsGroup != nil {
		if err := w.SignalsGroup.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing signals group: %w", err))
		}
	}
	if w.RunGroup != nil {
		if err := w.RunGroup.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing run group: %w", err))
		}
	}
	if w.File != nil {
		if err := w.File.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing file: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
