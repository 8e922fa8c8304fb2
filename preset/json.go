package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/algo-tube/tube"
)

// File is the JSON schema for tube presets.
type File struct {
	Name     string    `json:"name,omitempty"`
	Topology string    `json:"topology"`
	Lengths  []float64 `json:"lengths"`
	Areas    []float64 `json:"areas"`

	GlottisReflection *float64 `json:"glottis_reflection,omitempty"`
	LipReflection     *float64 `json:"lip_reflection,omitempty"`
	ClosedReflection  *float64 `json:"closed_reflection,omitempty"`
	SampleRate        *int     `json:"sample_rate,omitempty"`
	Attenuation       *float64 `json:"attenuation,omitempty"`
	LoopAttenuation   *float64 `json:"loop_attenuation,omitempty"`
}

// LoadJSON loads a preset JSON file and applies it on top of default params.
// The returned params are validated against the returned topology.
func LoadJSON(path string) (*tube.Params, tube.Topology, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}

	topo, err := f.topology()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	p := tube.NewDefaultParams()
	if err := ApplyFile(p, &f); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	if err := p.Validate(topo); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	return p, topo, nil
}

// ApplyFile applies a parsed preset file onto an existing params object.
// Geometry is replaced as a whole; scalar fields are only changed when set.
func ApplyFile(dst *tube.Params, f *File) error {
	if dst == nil {
		return fmt.Errorf("nil destination params")
	}
	if f == nil {
		return nil
	}

	if f.Lengths != nil || f.Areas != nil {
		if len(f.Lengths) != len(f.Areas) {
			return fmt.Errorf("lengths and areas must have the same count: %d vs %d", len(f.Lengths), len(f.Areas))
		}
		dst.Lengths = append([]float64(nil), f.Lengths...)
		dst.Areas = append([]float64(nil), f.Areas...)
	}

	if f.GlottisReflection != nil {
		if *f.GlottisReflection < -1 || *f.GlottisReflection > 1 {
			return fmt.Errorf("glottis_reflection must be in [-1,1]")
		}
		dst.GlottisReflection = *f.GlottisReflection
	}
	if f.LipReflection != nil {
		if *f.LipReflection < -1 || *f.LipReflection > 1 {
			return fmt.Errorf("lip_reflection must be in [-1,1]")
		}
		dst.LipReflection = *f.LipReflection
	}
	if f.ClosedReflection != nil {
		if *f.ClosedReflection <= -1 || *f.ClosedReflection >= 1 {
			return fmt.Errorf("closed_reflection must be in (-1,1)")
		}
		dst.ClosedReflection = *f.ClosedReflection
	}
	if f.SampleRate != nil {
		if *f.SampleRate <= 0 {
			return fmt.Errorf("sample_rate must be > 0")
		}
		dst.SampleRate = *f.SampleRate
	}
	if f.Attenuation != nil {
		if *f.Attenuation <= 0 || *f.Attenuation > 1 {
			return fmt.Errorf("attenuation must be in (0,1]")
		}
		dst.Attenuation = *f.Attenuation
	}
	if f.LoopAttenuation != nil {
		if *f.LoopAttenuation <= 0 || *f.LoopAttenuation > 1 {
			return fmt.Errorf("loop_attenuation must be in (0,1]")
		}
		dst.LoopAttenuation = *f.LoopAttenuation
	}
	return nil
}

// topology resolves the topology field. When it is empty the segment count
// decides.
func (f *File) topology() (tube.Topology, error) {
	if s := strings.TrimSpace(f.Topology); s != "" {
		return tube.ParseTopology(s)
	}
	switch len(f.Lengths) {
	case tube.ThreeTube.Segments():
		return tube.ThreeTube, nil
	case tube.OneLoop.Segments():
		return tube.OneLoop, nil
	default:
		return 0, fmt.Errorf("topology missing and %d segments do not imply one", len(f.Lengths))
	}
}

// WriteJSON writes params as a preset file.
func WriteJSON(path string, name string, topo tube.Topology, p *tube.Params) error {
	f := File{
		Name:              name,
		Topology:          topo.String(),
		Lengths:           p.Lengths,
		Areas:             p.Areas,
		GlottisReflection: &p.GlottisReflection,
		LipReflection:     &p.LipReflection,
		SampleRate:        &p.SampleRate,
		Attenuation:       &p.Attenuation,
	}
	switch topo {
	case tube.ThreeTube:
		f.ClosedReflection = &p.ClosedReflection
	case tube.OneLoop:
		f.LoopAttenuation = &p.LoopAttenuation
	}
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}
