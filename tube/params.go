package tube

import (
	"fmt"
	"math"
)

// Params holds the construction parameters of an engine.
type Params struct {
	Lengths []float64 // cm, one per segment
	Areas   []float64 // cm^2, one per segment

	GlottisReflection float64 // rg0
	LipReflection     float64 // rl0
	// ClosedReflection is the closed-end reflection of the ThreeTube side
	// branch (rl3). An ideal closed end would be -1, which puts a pole on the
	// unit circle; the default keeps it slightly inside.
	ClosedReflection float64

	SampleRate int

	// Attenuation is the per-sample gain of segments outside any loop.
	Attenuation float64
	// LoopAttenuation is the per-sample gain of the OneLoop loop segments
	// (tube2 and tube3). Values below 1 keep loop resonances bounded.
	LoopAttenuation float64
}

// NewDefaultParams creates parameters with default boundaries and rates.
// Lengths and areas are left empty.
func NewDefaultParams() *Params {
	return &Params{
		GlottisReflection: 0.95,
		LipReflection:     0.9,
		ClosedReflection:  -0.97,
		SampleRate:        48000,
		Attenuation:       1.0,
		LoopAttenuation:   0.998,
	}
}

// Clone returns a deep copy.
func (p *Params) Clone() *Params {
	c := *p
	c.Lengths = append([]float64(nil), p.Lengths...)
	c.Areas = append([]float64(nil), p.Areas...)
	return &c
}

// Segments pairs up lengths and areas.
func (p *Params) Segments() []Segment {
	n := len(p.Lengths)
	if len(p.Areas) < n {
		n = len(p.Areas)
	}
	out := make([]Segment, n)
	for i := range out {
		out[i] = Segment{Length: p.Lengths[i], Area: p.Areas[i]}
	}
	return out
}

// Validate checks the parameters against a topology.
func (p *Params) Validate(t Topology) error {
	if p == nil {
		return fmt.Errorf("%w: nil params", ErrInvalidParams)
	}
	want := t.Segments()
	if want == 0 {
		return fmt.Errorf("%w: unknown topology %v", ErrInvalidParams, t)
	}
	if len(p.Lengths) != want || len(p.Areas) != want {
		return fmt.Errorf("%w: %v needs %d lengths and areas, got %d and %d",
			ErrInvalidGeometry, t, want, len(p.Lengths), len(p.Areas))
	}
	for i, s := range p.Segments() {
		if err := s.validate(i); err != nil {
			return err
		}
	}
	if p.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be > 0: %d", ErrInvalidParams, p.SampleRate)
	}
	if !inClosedUnit(p.GlottisReflection) {
		return fmt.Errorf("%w: glottis reflection must be in [-1,1]: %g", ErrInvalidParams, p.GlottisReflection)
	}
	if !inClosedUnit(p.LipReflection) {
		return fmt.Errorf("%w: lip reflection must be in [-1,1]: %g", ErrInvalidParams, p.LipReflection)
	}
	if t == ThreeTube && !(math.Abs(p.ClosedReflection) < 1) {
		return fmt.Errorf("%w: closed-end reflection must be in (-1,1): %g", ErrInvalidParams, p.ClosedReflection)
	}
	if !validAttenuation(p.Attenuation) {
		return fmt.Errorf("%w: attenuation must be in (0,1]: %g", ErrInvalidParams, p.Attenuation)
	}
	if t == OneLoop && !validAttenuation(p.LoopAttenuation) {
		return fmt.Errorf("%w: loop attenuation must be in (0,1]: %g", ErrInvalidParams, p.LoopAttenuation)
	}
	return nil
}

func inClosedUnit(x float64) bool {
	return x >= -1 && x <= 1
}

func validAttenuation(x float64) bool {
	return x > 0 && x <= 1
}
