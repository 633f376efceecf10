package gas

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	chamber "github.com/next-exp/wirechamber_go/pkg"
)

const (
	boltzmann = 1.380649e-23 // J/K
	torr      = 133.322368   // Pa
	loschmidt = 2.6867811e19 // cm-3 at 273.15 K and 760 Torr
	townsend  = 1.e-17       // V cm2
)

// IonMobility is the mobility [cm2/(V ns)] of the ions versus the field
// [V/cm] at the density of the gas.
type IonMobility struct {
	Fields     []float64
	Mobilities []float64
}

// density returns the number density [cm-3].
func density(conditions chamber.GasConditions) float64 {
	return conditions.Pressure * torr / (boltzmann * conditions.Temperature) * 1.e-6
}

// LoadIonMobility reads a table of reduced field [Td] and reduced mobility
// [cm2/(V s)] and converts it to the conditions of the gas.
func LoadIonMobility(filename string, conditions chamber.GasConditions) (*IonMobility, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, &chamber.ErrOpenFile{Filename: filename, Err: err}
	}
	defer file.Close()
	ions, err := ReadIonMobility(file, conditions)
	if err != nil {
		return nil, fmt.Errorf("error reading ion mobility %s: %w", filename, err)
	}
	return ions, nil
}

// ReadIonMobility parses two numeric columns. Lines that do not start with
// two numbers are headers or comments and are skipped.
func ReadIonMobility(r io.Reader, conditions chamber.GasConditions) (*IonMobility, error) {
	if conditions.Pressure <= 0 || conditions.Temperature <= 0 {
		return nil, fmt.Errorf("invalid gas conditions %g Torr, %g K", conditions.Pressure, conditions.Temperature)
	}
	n := density(conditions)

	type point struct{ en, k0 float64 }
	var points []point
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		en, err1 := strconv.ParseFloat(fields[0], 64)
		k0, err2 := strconv.ParseFloat(fields[1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		if en < 0 || k0 <= 0 {
			return nil, fmt.Errorf("invalid mobility entry %q", scanner.Text())
		}
		points = append(points, point{en, k0})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("no mobility entries")
	}
	sort.Slice(points, func(i, j int) bool { return points[i].en < points[j].en })

	ions := &IonMobility{
		Fields:     make([]float64, len(points)),
		Mobilities: make([]float64, len(points)),
	}
	for i, p := range points {
		ions.Fields[i] = p.en * townsend * n
		ions.Mobilities[i] = p.k0 * (loschmidt / n) * 1.e-9
	}
	return ions, nil
}

// Mobility interpolates linearly in the field, clamping at both ends.
func (m *IonMobility) Mobility(e float64) (float64, bool) {
	n := len(m.Fields)
	if n == 0 || e < 0 {
		return 0, false
	}
	if e <= m.Fields[0] {
		return m.Mobilities[0], true
	}
	if e >= m.Fields[n-1] {
		return m.Mobilities[n-1], true
	}
	i := sort.SearchFloat64s(m.Fields, e)
	f := (e - m.Fields[i-1]) / (m.Fields[i] - m.Fields[i-1])
	return m.Mobilities[i-1] + f*(m.Mobilities[i]-m.Mobilities[i-1]), true
}
