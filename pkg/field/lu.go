package field

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

var errSingular = errors.New("singular matrix")

// capacitance holds the LU factorisation of the potential coefficients so
// the wire charges and every weighting field reuse it.
type capacitance struct {
	lu mat.LU
	n  int
}

func factorize(matrix [][]float64) (*capacitance, error) {
	n := len(matrix)
	if n == 0 {
		return nil, errSingular
	}
	data := make([]float64, 0, n*n)
	for _, row := range matrix {
		data = append(data, row...)
	}
	c := &capacitance{n: n}
	c.lu.Factorize(mat.NewDense(n, n, data))
	if cond := c.lu.Cond(); math.IsInf(cond, 1) || cond > mat.ConditionTolerance {
		return nil, errSingular
	}
	return c, nil
}

func (c *capacitance) solve(b []float64) ([]float64, error) {
	var x mat.VecDense
	if err := c.lu.SolveVecTo(&x, false, mat.NewVecDense(c.n, b)); err != nil {
		return nil, err
	}
	return x.RawVector().Data, nil
}
