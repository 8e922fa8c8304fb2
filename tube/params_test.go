package tube

import (
	"errors"
	"math"
	"testing"
)

func TestNewDefaultParams(t *testing.T) {
	p := NewDefaultParams()
	if p.GlottisReflection != 0.95 || p.LipReflection != 0.9 || p.ClosedReflection != -0.97 {
		t.Fatalf("unexpected boundary defaults: %+v", p)
	}
	if p.SampleRate != 48000 || p.Attenuation != 1 || p.LoopAttenuation != 0.998 {
		t.Fatalf("unexpected rate defaults: %+v", p)
	}
}

func TestParamsCloneIsDeep(t *testing.T) {
	p := threeTubeParams()
	c := p.Clone()
	c.Lengths[0] = 99
	c.Areas[1] = 99
	if p.Lengths[0] != 9 || p.Areas[1] != 7 {
		t.Fatal("clone shares slices with original")
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		topo   Topology
		mutate func(*Params)
		want   error
	}{
		{"too few segments", ThreeTube, func(p *Params) { p.Lengths = p.Lengths[:2] }, ErrInvalidGeometry},
		{"four for three-tube", ThreeTube, func(p *Params) {
			p.Lengths = append(p.Lengths, 1)
			p.Areas = append(p.Areas, 1)
		}, ErrInvalidGeometry},
		{"zero length", ThreeTube, func(p *Params) { p.Lengths[1] = 0 }, ErrInvalidGeometry},
		{"negative area", ThreeTube, func(p *Params) { p.Areas[2] = -3 }, ErrInvalidGeometry},
		{"nan area", ThreeTube, func(p *Params) { p.Areas[0] = math.NaN() }, ErrInvalidGeometry},
		{"inf length", ThreeTube, func(p *Params) { p.Lengths[0] = math.Inf(1) }, ErrInvalidGeometry},
		{"zero sample rate", ThreeTube, func(p *Params) { p.SampleRate = 0 }, ErrInvalidParams},
		{"glottis above one", ThreeTube, func(p *Params) { p.GlottisReflection = 1.01 }, ErrInvalidParams},
		{"lip below minus one", ThreeTube, func(p *Params) { p.LipReflection = -1.5 }, ErrInvalidParams},
		{"ideal closed end", ThreeTube, func(p *Params) { p.ClosedReflection = -1 }, ErrInvalidParams},
		{"zero attenuation", ThreeTube, func(p *Params) { p.Attenuation = 0 }, ErrInvalidParams},
		{"gain above one", ThreeTube, func(p *Params) { p.Attenuation = 1.1 }, ErrInvalidParams},
		{"loop attenuation", OneLoop, func(p *Params) { p.LoopAttenuation = 1.2 }, ErrInvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p *Params
			if tt.topo == OneLoop {
				p = oneLoopParams()
			} else {
				p = threeTubeParams()
			}
			tt.mutate(p)
			err := p.Validate(tt.topo)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if _, err := New(tt.topo, p); !errors.Is(err, tt.want) {
				t.Fatalf("New: expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParamsValidateAcceptsBoundaryExtremes(t *testing.T) {
	p := oneLoopParams()
	p.GlottisReflection = 1
	p.LipReflection = -1
	p.LoopAttenuation = 1
	if err := p.Validate(OneLoop); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// the closed end is only used by the T network
	p.ClosedReflection = -1
	if err := p.Validate(OneLoop); err != nil {
		t.Fatalf("closed-end reflection should be ignored for one-loop: %v", err)
	}
}

func TestNewRejectsUnknownTopology(t *testing.T) {
	if _, err := New(Topology(7), threeTubeParams()); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams, got %v", err)
	}
	if err := (*Params)(nil).Validate(ThreeTube); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams for nil params, got %v", err)
	}
}
