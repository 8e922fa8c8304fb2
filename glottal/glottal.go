// Package glottal generates excitation signals for tube engines: a
// Rosenberg-style glottal flow pulse train with an exponential return phase,
// optional aspiration noise, a unit impulse and a pure tone.
package glottal

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-approx"
	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-dsp/dsp/signal"
)

// ErrInvalidConfig reports an unusable generator configuration.
var ErrInvalidConfig = errors.New("glottal: invalid config")

// Config controls glottal pulse generation.
type Config struct {
	SampleRate int
	DurationS  float64
	F0         float64 // Hz

	// OpenQuotient is the fraction of each period in which the glottis is
	// open. RiseFraction is the part of the open phase spent opening.
	OpenQuotient float64
	RiseFraction float64
	// ReturnS is the time constant of the exponential return phase. Zero
	// closes the glottis abruptly at the end of the open phase.
	ReturnS float64

	// NoiseLevel scales white aspiration noise, modulated by the flow.
	NoiseLevel float64
	Seed       int64

	// NormalizePeak scales the result to this peak. Zero keeps unit flow.
	NormalizePeak float64
}

// DefaultConfig returns a 120 Hz modal-voice configuration.
func DefaultConfig() Config {
	return Config{
		SampleRate:    48000,
		DurationS:     1.0,
		F0:            120,
		OpenQuotient:  0.6,
		RiseFraction:  0.65,
		ReturnS:       0.0003,
		NoiseLevel:    0,
		Seed:          1,
		NormalizePeak: 0.9,
	}
}

// Validate reports an unusable configuration as ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.SampleRate < 8000 {
		return fmt.Errorf("%w: sample rate too low: %d", ErrInvalidConfig, c.SampleRate)
	}
	if c.DurationS <= 0 {
		return fmt.Errorf("%w: duration must be > 0", ErrInvalidConfig)
	}
	if c.F0 <= 0 || c.F0 >= float64(c.SampleRate)/4 {
		return fmt.Errorf("%w: f0 must be in (0, sampleRate/4): %g", ErrInvalidConfig, c.F0)
	}
	if c.OpenQuotient <= 0 || c.OpenQuotient > 1 {
		return fmt.Errorf("%w: open quotient must be in (0,1]", ErrInvalidConfig)
	}
	if c.RiseFraction <= 0 || c.RiseFraction >= 1 {
		return fmt.Errorf("%w: rise fraction must be in (0,1)", ErrInvalidConfig)
	}
	if c.ReturnS < 0 {
		return fmt.Errorf("%w: return time must be >= 0", ErrInvalidConfig)
	}
	if c.NoiseLevel < 0 {
		return fmt.Errorf("%w: noise level must be >= 0", ErrInvalidConfig)
	}
	if c.NormalizePeak < 0 {
		return fmt.Errorf("%w: normalize peak must be >= 0", ErrInvalidConfig)
	}
	return nil
}

// Generate synthesizes a glottal flow waveform. The output is deterministic
// for a given config, including the seed.
func Generate(cfg Config) ([]float64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sr := float64(cfg.SampleRate)
	n := int(math.Round(cfg.DurationS * sr))
	if n < 1 {
		n = 1
	}

	p := newPulse(cfg)
	out := make([]float64, n)
	for i := range out {
		cycles := float64(i) * cfg.F0 / sr
		out[i] = p.at((cycles - math.Floor(cycles)) * p.period)
	}

	if cfg.NoiseLevel > 0 {
		gen := signal.NewGeneratorWithOptions(
			[]dspcore.ProcessorOption{dspcore.WithSampleRate(sr)},
			signal.WithSeed(cfg.Seed),
		)
		noise, err := gen.WhiteNoise(cfg.NoiseLevel, n)
		if err != nil {
			return nil, err
		}
		for i := range out {
			out[i] += noise[i] * out[i]
		}
	}

	if cfg.NormalizePeak > 0 {
		return signal.Normalize(out, cfg.NormalizePeak)
	}
	return out, nil
}

// Derivative returns the first difference of x scaled to units per second
// at sampleRate. The flow derivative is the usual excitation of a vocal
// tract model.
func Derivative(x []float64, sampleRate int) []float64 {
	out := make([]float64, len(x))
	prev := 0.0
	for i, v := range x {
		out[i] = (v - prev) * float64(sampleRate)
		prev = v
	}
	return out
}

// Impulse returns a unit impulse followed by n-1 zeros.
func Impulse(n int) []float64 {
	if n < 1 {
		return nil
	}
	out := make([]float64, n)
	out[0] = 1
	return out
}

// Sine returns n samples of a sine at freq Hz.
func Sine(freq, amplitude float64, sampleRate, n int) ([]float64, error) {
	if freq <= 0 || freq >= float64(sampleRate)/2 {
		return nil, fmt.Errorf("%w: sine frequency must be in (0, sampleRate/2): %g", ErrInvalidConfig, freq)
	}
	gen := signal.NewGenerator(dspcore.WithSampleRate(float64(sampleRate)))
	return gen.Sine(freq, amplitude, n)
}

// pulse is one period of the flow waveform.
type pulse struct {
	period float64
	rise   float64 // opening phase length
	fall   float64 // nominal closing phase length
	te     float64 // start of the exponential return, relative to the fall
	ue     float64 // flow at te
	ta     float64
}

func newPulse(cfg Config) pulse {
	period := 1 / cfg.F0
	open := cfg.OpenQuotient * period
	p := pulse{
		period: period,
		rise:   cfg.RiseFraction * open,
		fall:   (1 - cfg.RiseFraction) * open,
		ta:     cfg.ReturnS,
	}
	p.te = p.fall
	if p.ta > 0 {
		// Switch to the exponential where the remaining flow equals the
		// closing slope times ta, which keeps the slope continuous.
		s := (2 / math.Pi) * math.Atan(2*p.fall/(math.Pi*p.ta))
		p.te = s * p.fall
		p.ue = math.Cos(math.Pi / 2 * s)
	}
	return p
}

func (p pulse) at(t float64) float64 {
	if t < p.rise {
		return 0.5 * (1 - math.Cos(math.Pi*t/p.rise))
	}
	t -= p.rise
	if t < p.te {
		return math.Cos(math.Pi / 2 * t / p.fall)
	}
	if p.ta == 0 {
		return 0
	}
	x := -(t - p.te) / p.ta
	if x < -80 {
		return 0
	}
	return p.ue * float64(approx.FastExp(float32(x)))
}
