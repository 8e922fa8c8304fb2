package tube

import (
	"errors"
	"math/cmplx"
)

var errSingular = errors.New("tube: singular scattering system")

// network is the port table of a topology. Port 2*s is the forward line of
// segment s and port 2*s+1 its backward line. Each step
//
//	head[i] = sum_j scatter[i][j]*tail[j] + input[i]*x
//	y       = sum_j output[j]*tail[j]
//
// In the frequency domain tail[j] = d[j/2]*head[j], which turns the table
// into the linear system (I - S*D) h = b.
type network struct {
	scatter [][]float64
	input   []float64
	output  []float64
}

func newNetwork(segments int) *network {
	ports := 2 * segments
	n := &network{
		scatter: make([][]float64, ports),
		input:   make([]float64, ports),
		output:  make([]float64, ports),
	}
	for i := range n.scatter {
		n.scatter[i] = make([]float64, ports)
	}
	return n
}

func (n *network) ports() int {
	return len(n.input)
}

// transfer returns the complex gain from input to output for per-segment
// propagation factors d.
func (n *network) transfer(d []complex128) (complex128, error) {
	ports := n.ports()
	a := make([][]complex128, ports)
	for i := range a {
		row := make([]complex128, ports+1)
		for j := 0; j < ports; j++ {
			row[j] = -complex(n.scatter[i][j], 0) * d[j/2]
		}
		row[i] += 1
		row[ports] = complex(n.input[i], 0)
		a[i] = row
	}
	h, err := solveAugmented(a)
	if err != nil {
		return 0, err
	}
	var y complex128
	for j, o := range n.output {
		if o != 0 {
			y += complex(o, 0) * d[j/2] * h[j]
		}
	}
	return y, nil
}

// solveAugmented solves an n x (n+1) augmented system in place using
// Gaussian elimination with partial pivoting.
func solveAugmented(a [][]complex128) ([]complex128, error) {
	n := len(a)
	for col := 0; col < n; col++ {
		pivot := col
		best := cmplx.Abs(a[col][col])
		for r := col + 1; r < n; r++ {
			if m := cmplx.Abs(a[r][col]); m > best {
				best = m
				pivot = r
			}
		}
		if best < 1e-300 {
			return nil, errSingular
		}
		a[col], a[pivot] = a[pivot], a[col]
		for r := col + 1; r < n; r++ {
			f := a[r][col] / a[col][col]
			if f == 0 {
				continue
			}
			for k := col; k <= n; k++ {
				a[r][k] -= f * a[col][k]
			}
		}
	}
	x := make([]complex128, n)
	for r := n - 1; r >= 0; r-- {
		sum := a[r][n]
		for k := r + 1; k < n; k++ {
			sum -= a[r][k] * x[k]
		}
		x[r] = sum / a[r][r]
	}
	return x, nil
}
