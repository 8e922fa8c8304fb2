package analysis

import (
	"fmt"
	"math/cmplx"

	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-dsp/dsp/window"
	algofft "github.com/cwbudde/algo-fft"
)

// Spectrum is the magnitude of a real FFT, one value per bin from DC to
// Nyquist.
type Spectrum struct {
	SampleRate int
	FFTSize    int
	Magnitude  []float64
}

// BinHz returns the bin spacing in Hz.
func (s *Spectrum) BinHz() float64 {
	return float64(s.SampleRate) / float64(s.FFTSize)
}

// At returns the magnitude at freq, linearly interpolated between bins.
func (s *Spectrum) At(freq float64) float64 {
	pos := freq / s.BinHz()
	if pos <= 0 {
		return s.Magnitude[0]
	}
	last := len(s.Magnitude) - 1
	if pos >= float64(last) {
		return s.Magnitude[last]
	}
	k := int(pos)
	frac := pos - float64(k)
	return s.Magnitude[k]*(1-frac) + s.Magnitude[k+1]*frac
}

// AtDB returns At(freq) in dB.
func (s *Spectrum) AtDB(freq float64) float64 {
	return dspcore.LinearToDB(s.At(freq))
}

const minFFTSize = 64

type spectrumConfig struct {
	fftSize int
	taper   int
}

// SpectrumOption configures ImpulseSpectrum.
type SpectrumOption func(*spectrumConfig)

// WithFFTSize sets the transform length. It is rounded up to a power of two
// of at least 64.
// By default the next power of two that holds the whole response is used.
func WithFFTSize(n int) SpectrumOption {
	return func(c *spectrumConfig) {
		c.fftSize = n
	}
}

// WithTaper fades the last n samples of the response out with the falling
// half of a Hann window, which suppresses truncation ripple when the
// response has not fully decayed.
func WithTaper(n int) SpectrumOption {
	return func(c *spectrumConfig) {
		c.taper = n
	}
}

// ImpulseSpectrum returns the magnitude spectrum of an impulse response. For
// a linear processor this samples its transfer function at the FFT bins.
func ImpulseSpectrum(ir []float64, sampleRate int, opts ...SpectrumOption) (*Spectrum, error) {
	if len(ir) == 0 {
		return nil, ErrEmptySignal
	}
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	var cfg spectrumConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	n := cfg.fftSize
	if n <= 0 {
		n = len(ir)
	}
	n = nextPow2(n)

	buf := make([]float64, n)
	copy(buf, ir)
	used := len(ir)
	if used > n {
		used = n
	}
	if t := cfg.taper; t > 1 {
		if t > used {
			t = used
		}
		w, err := window.Hann(2 * t)
		if err != nil {
			return nil, fmt.Errorf("taper window: %w", err)
		}
		for i := 0; i < t; i++ {
			buf[used-t+i] *= w[t+i]
		}
	}

	plan, err := algofft.NewPlanReal64(n)
	if err != nil {
		return nil, fmt.Errorf("fft plan: %w", err)
	}
	spec := make([]complex128, n/2+1)
	plan.Forward(spec, buf)

	mag := make([]float64, len(spec))
	for k, v := range spec {
		mag[k] = cmplx.Abs(v)
	}
	return &Spectrum{SampleRate: sampleRate, FFTSize: n, Magnitude: mag}, nil
}

func nextPow2(n int) int {
	p := minFFTSize
	for p < n {
		p <<= 1
	}
	return p
}
