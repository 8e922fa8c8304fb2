// Package analysis measures tube engines from the outside: steady-state sine
// gain, impulse-response spectra and decay, and comparison against the
// analytic frequency response and simple reference resonances.
package analysis

import (
	"errors"
	"math"
)

// Errors returned by the measurement functions.
var (
	ErrEmptySignal       = errors.New("analysis: empty signal")
	ErrInvalidFrequency  = errors.New("analysis: frequency must be in (0, sampleRate/2)")
	ErrInvalidSampleRate = errors.New("analysis: sample rate must be > 0")
)

// Processor turns an input buffer into an output buffer at a fixed rate.
// tube.Engine satisfies it.
type Processor interface {
	SampleRate() int
	Process(input []float64) ([]float64, error)
}

// ImpulseResponse feeds a unit impulse followed by n-1 zeros through p.
func ImpulseResponse(p Processor, n int) ([]float64, error) {
	if n < 1 {
		return nil, ErrEmptySignal
	}
	in := make([]float64, n)
	in[0] = 1
	return p.Process(in)
}

// RMS returns the root mean square of x.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return math.Sqrt(Energy(x) / float64(len(x)))
}

// Energy returns the sum of squares of x.
func Energy(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return sum
}

// Peak returns the largest absolute sample value and its index.
func Peak(x []float64) (float64, int) {
	peak, idx := 0.0, 0
	for i, v := range x {
		if a := math.Abs(v); a > peak {
			peak, idx = a, i
		}
	}
	return peak, idx
}

func linToDB(x float64) float64 {
	if x < 1e-12 {
		x = 1e-12
	}
	return 20.0 * math.Log10(x)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
