package chamber

import "fmt"

// ErrOpenFile represents an error when opening a file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

func (e *ErrOpenFile) Unwrap() error {
	return e.Err
}

// ErrInvalidConfig represents a configuration field with an unusable value.
type ErrInvalidConfig struct {
	Field  string
	Reason string
}

func (e *ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid configuration %q: %s", e.Field, e.Reason)
}

// ErrTransferFunction represents a malformed transfer function file.
type ErrTransferFunction struct {
	Line   int
	Reason string
}

func (e *ErrTransferFunction) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("transfer function line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("transfer function: %s", e.Reason)
}

// ErrUnknownElectrode is returned when a signal is requested for a label
// the sensor does not read out.
type ErrUnknownElectrode struct {
	Label string
}

func (e *ErrUnknownElectrode) Error() string {
	return fmt.Sprintf("electrode %q is not read out by the sensor", e.Label)
}
