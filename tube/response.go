package tube

import (
	"fmt"
	"math"
	"math/cmplx"

	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
)

// Response is a magnitude response sampled on a frequency grid.
type Response struct {
	Frequencies []float64 // Hz
	MagnitudeDB []float64 // 20*log10|H|
}

// Len returns the number of grid points.
func (r *Response) Len() int {
	return len(r.Frequencies)
}

// Magnitude returns the linear magnitude at grid point i.
func (r *Response) Magnitude(i int) float64 {
	return dspcore.DBToLinear(r.MagnitudeDB[i])
}

// Peak is a local maximum of a Response.
type Peak struct {
	Frequency   float64
	MagnitudeDB float64
}

// Peaks returns the interior local maxima in ascending frequency order.
func (r *Response) Peaks() []Peak {
	var out []Peak
	for i := 1; i+1 < len(r.MagnitudeDB); i++ {
		m := r.MagnitudeDB[i]
		if m > r.MagnitudeDB[i-1] && m > r.MagnitudeDB[i+1] {
			out = append(out, Peak{Frequency: r.Frequencies[i], MagnitudeDB: m})
		}
	}
	return out
}

// LogBands returns bands+1 log-spaced frequencies from low to high. Each
// point is the previous one times (high/low)^(1/bands).
func LogBands(low, high float64, bands int) ([]float64, error) {
	if !(low > 0) || math.IsInf(low, 0) {
		return nil, fmt.Errorf("%w: low frequency must be > 0: %g", ErrInvalidBands, low)
	}
	if !(high > low) || math.IsInf(high, 0) {
		return nil, fmt.Errorf("%w: high frequency must exceed low: %g <= %g", ErrInvalidBands, high, low)
	}
	if bands < 1 {
		return nil, fmt.Errorf("%w: band count must be >= 1: %d", ErrInvalidBands, bands)
	}
	step := math.Pow(high/low, 1.0/float64(bands))
	out := make([]float64, bands+1)
	out[0] = low
	for i := 1; i <= bands; i++ {
		out[i] = out[i-1] * step
	}
	return out, nil
}

type responseConfig struct {
	quantized bool
}

// ResponseOption configures FrequencyResponse.
type ResponseOption func(*responseConfig)

// WithQuantizedDelays evaluates the response with every segment delay rounded
// to whole samples, as the time-domain engine realises it. A segment that
// rounds to zero samples still delays by one step. The result then
// matches the engine's steady state at any frequency, not only where the
// rounding error is negligible.
func WithQuantizedDelays() ResponseOption {
	return func(c *responseConfig) {
		c.quantized = true
	}
}

type transferFunc func(d []complex128) (complex128, error)

func (c *core) frequencyResponse(low, high float64, bands int, opts []ResponseOption, h transferFunc) (*Response, error) {
	freqs, err := LogBands(low, high, bands)
	if err != nil {
		return nil, err
	}
	var cfg responseConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	mag := make([]float64, len(freqs))
	d := make([]complex128, len(c.segments))
	for i, f := range freqs {
		c.propagation(d, 2*math.Pi*f, cfg.quantized)
		v, err := h(d)
		if err != nil {
			return nil, fmt.Errorf("response at %.3f Hz: %w", f, err)
		}
		mag[i] = dspcore.LinearToDB(cmplx.Abs(v))
	}
	return &Response{Frequencies: freqs, MagnitudeDB: mag}, nil
}

// propagation fills d with the one-way factor g*exp(-j*w*tau) of every
// segment, where g is the segment's attenuation raised to its delay in samples.
func (c *core) propagation(d []complex128, w float64, quantized bool) {
	sr := float64(c.params.SampleRate)
	for s := range c.segments {
		tau := c.delays[s]
		if quantized {
			tau = float64(max(c.delaySamples[s], 1)) / sr
		}
		g := 1.0
		if att := c.attenuations[s]; att != 1 {
			g = math.Pow(att, tau*sr)
		}
		d[s] = complex(g, 0) * cmplx.Exp(complex(0, -w*tau))
	}
}
