package chamber

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// TransferTimeScale converts the time column of a transfer function file to
// the ns used by the sensor. The electronics response files are written in us.
const TransferTimeScale = 1.e3

// TransferFunction is the impulse response of the readout electronics.
type TransferFunction struct {
	Times  []float64
	Values []float64
}

func LoadTransferFunction(filename string, scale float64) (TransferFunction, error) {
	file, err := os.Open(filename)
	if err != nil {
		return TransferFunction{}, &ErrOpenFile{Filename: filename, Err: err}
	}
	defer file.Close()
	tf, err := ReadTransferFunction(file, scale)
	if err != nil {
		return tf, fmt.Errorf("error reading transfer function %s: %w", filename, err)
	}
	return tf, nil
}

// ReadTransferFunction parses whitespace separated (time, value) pairs. Pairs
// may span lines. Every time is multiplied by scale.
func ReadTransferFunction(r io.Reader, scale float64) (TransferFunction, error) {
	var tf TransferFunction
	scanner := bufio.NewScanner(r)
	lineNumber := 0
	pending := false
	var t float64
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, field := range strings.Fields(line) {
			value, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return TransferFunction{}, &ErrTransferFunction{Line: lineNumber, Reason: fmt.Sprintf("%q is not a number", field)}
			}
			if !pending {
				t = value
				pending = true
				continue
			}
			tf.Times = append(tf.Times, scale*t)
			tf.Values = append(tf.Values, value)
			pending = false
		}
	}
	if err := scanner.Err(); err != nil {
		return TransferFunction{}, err
	}
	if pending {
		return TransferFunction{}, &ErrTransferFunction{Line: lineNumber, Reason: "time without value"}
	}
	if len(tf.Times) == 0 {
		return TransferFunction{}, &ErrTransferFunction{Reason: "no points"}
	}
	return tf, nil
}

func (tf TransferFunction) Len() int {
	return len(tf.Times)
}

// Validate checks that there is at least one point and that the times are
// strictly increasing, which the interpolation relies on. A single point is a
// delta response at its time.
func (tf TransferFunction) Validate() error {
	if len(tf.Times) != len(tf.Values) {
		return &ErrTransferFunction{Reason: fmt.Sprintf("%d times but %d values", len(tf.Times), len(tf.Values))}
	}
	if len(tf.Times) == 0 {
		return &ErrTransferFunction{Reason: "no points"}
	}
	for i := 1; i < len(tf.Times); i++ {
		if tf.Times[i] <= tf.Times[i-1] {
			return &ErrTransferFunction{Line: i + 1, Reason: fmt.Sprintf("time %g does not follow %g", tf.Times[i], tf.Times[i-1])}
		}
	}
	return nil
}

// Eval interpolates linearly between the points. The response is zero
// outside the tabulated range.
func (tf TransferFunction) Eval(t float64) float64 {
	n := len(tf.Times)
	if n == 0 || t < tf.Times[0] || t > tf.Times[n-1] {
		return 0
	}
	i := sort.SearchFloat64s(tf.Times, t)
	if i < n && tf.Times[i] == t {
		return tf.Values[i]
	}
	t0, t1 := tf.Times[i-1], tf.Times[i]
	f := (t - t0) / (t1 - t0)
	return tf.Values[i-1] + f*(tf.Values[i]-tf.Values[i-1])
}
