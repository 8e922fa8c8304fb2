package analysis

import (
	"fmt"

	"github.com/cwbudde/algo-dsp/dsp/conv"
	irmeasure "github.com/cwbudde/algo-dsp/measure/ir"
)

// Decay computes reverberation-style decay metrics (RT60, EDT, T20, T30)
// of an impulse response from its Schroeder integral.
func Decay(ir []float64, sampleRate int) (irmeasure.Metrics, error) {
	if len(ir) == 0 {
		return irmeasure.Metrics{}, ErrEmptySignal
	}
	if sampleRate <= 0 {
		return irmeasure.Metrics{}, ErrInvalidSampleRate
	}
	m, err := irmeasure.NewAnalyzer(float64(sampleRate)).Analyze(ir)
	if err != nil {
		return m, fmt.Errorf("decay: %w", err)
	}
	return m, nil
}

// PredictFromImpulse returns the response of a linear time-invariant system
// with impulse response ir to input, truncated to len(input). When ir is at
// least as long as input the result is exact up to rounding.
func PredictFromImpulse(ir, input []float64) ([]float64, error) {
	if len(ir) == 0 || len(input) == 0 {
		return nil, ErrEmptySignal
	}
	y, err := conv.Convolve(input, ir)
	if err != nil {
		return nil, err
	}
	return y[:len(input)], nil
}
