package analysis

import (
	"fmt"
	"math"

	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-dsp/dsp/signal"
	"github.com/cwbudde/algo-dsp/dsp/spectrum"
)

// GainConfig controls steady-state sine measurements.
type GainConfig struct {
	// SettleS is the time the processor runs before measuring, so the
	// transient of the sine onset has decayed.
	SettleS float64
	// MinBlock is the minimum measurement length in samples. The block is
	// extended to a whole number of periods of the test tone.
	MinBlock  int
	Amplitude float64
}

// DefaultGainConfig returns settings that suit the default tube geometries.
func DefaultGainConfig() GainConfig {
	return GainConfig{
		SettleS:   0.9,
		MinBlock:  4096,
		Amplitude: 1.0,
	}
}

// Validate reports an unusable gain configuration.
func (c *GainConfig) Validate() error {
	if c.SettleS < 0 {
		return fmt.Errorf("settle time must be >= 0")
	}
	if c.MinBlock < 1 {
		return fmt.Errorf("minimum block must be >= 1")
	}
	if c.Amplitude <= 0 {
		return fmt.Errorf("amplitude must be > 0")
	}
	return nil
}

// SineGain drives p with a sine at freq and returns the ratio of output to
// input magnitude at freq, measured with a Goertzel filter once the output
// has settled.
func SineGain(p Processor, freq float64, cfg GainConfig) (float64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	sr := p.SampleRate()
	if sr <= 0 {
		return 0, ErrInvalidSampleRate
	}
	if !(freq > 0) || freq >= float64(sr)/2 {
		return 0, fmt.Errorf("%w: %g Hz at %d Hz", ErrInvalidFrequency, freq, sr)
	}

	settle := int(math.Round(cfg.SettleS * float64(sr)))
	block := wholeCycleBlock(freq, sr, cfg.MinBlock)

	gen := signal.NewGenerator(dspcore.WithSampleRate(float64(sr)))
	in, err := gen.Sine(freq, cfg.Amplitude, settle+block)
	if err != nil {
		return 0, err
	}
	out, err := p.Process(in)
	if err != nil {
		return 0, err
	}

	ref, err := binMagnitude(in[settle:], freq, sr)
	if err != nil {
		return 0, err
	}
	got, err := binMagnitude(out[settle:], freq, sr)
	if err != nil {
		return 0, err
	}
	if ref == 0 {
		return 0, ErrEmptySignal
	}
	return got / ref, nil
}

// SineGains measures SineGain for every frequency in freqs. Each
// measurement starts from a fresh processor returned by newProcessor.
func SineGains(newProcessor func() (Processor, error), freqs []float64, cfg GainConfig) ([]float64, error) {
	out := make([]float64, len(freqs))
	for i, f := range freqs {
		p, err := newProcessor()
		if err != nil {
			return nil, err
		}
		g, err := SineGain(p, f, cfg)
		if err != nil {
			return nil, fmt.Errorf("gain at %.3f Hz: %w", f, err)
		}
		out[i] = g
	}
	return out, nil
}

// wholeCycleBlock returns the sample count closest to a whole number of
// periods of freq that is at least minSamples long.
func wholeCycleBlock(freq float64, sampleRate, minSamples int) int {
	period := float64(sampleRate) / freq
	cycles := math.Ceil(float64(minSamples) / period)
	n := int(math.Round(cycles * period))
	if n < minSamples {
		n = minSamples
	}
	return n
}

func binMagnitude(x []float64, freq float64, sampleRate int) (float64, error) {
	g, err := spectrum.NewGoertzel(freq, float64(sampleRate))
	if err != nil {
		return 0, err
	}
	g.ProcessBlock(x)
	return g.Magnitude(), nil
}
