package preset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-tube/tube"
)

func writePreset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "preset.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write preset: %v", err)
	}
	return path
}

func TestLoadJSONAppliesGeometryAndOverrides(t *testing.T) {
	path := writePreset(t, `{
  "topology": "one-loop",
  "lengths": [9, 8, 5.6, 1],
  "areas": [1, 7, 3, 1],
  "lip_reflection": 0.8,
  "sample_rate": 44100,
  "loop_attenuation": 0.99
}`)

	p, topo, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if topo != tube.OneLoop {
		t.Fatalf("topology mismatch: %v", topo)
	}
	if len(p.Lengths) != 4 || p.Lengths[2] != 5.6 || p.Areas[1] != 7 {
		t.Fatalf("geometry mismatch: %+v", p)
	}
	if p.LipReflection != 0.8 || p.SampleRate != 44100 || p.LoopAttenuation != 0.99 {
		t.Fatalf("override mismatch: %+v", p)
	}
	// untouched fields keep their defaults
	if p.GlottisReflection != 0.95 || p.Attenuation != 1 {
		t.Fatalf("defaults lost: %+v", p)
	}
}

func TestLoadJSONInfersTopologyFromSegmentCount(t *testing.T) {
	path := writePreset(t, `{"lengths": [9, 8, 5.6], "areas": [1, 7, 3]}`)
	_, topo, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if topo != tube.ThreeTube {
		t.Fatalf("expected three-tube, got %v", topo)
	}
}

func TestLoadJSONRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"mismatched counts", `{"lengths": [9, 8, 5.6], "areas": [1, 7]}`, nil},
		{"bad topology", `{"topology": "two-loop", "lengths": [9, 8, 5.6], "areas": [1, 7, 3]}`, nil},
		{"no topology", `{"lengths": [9, 8], "areas": [1, 7]}`, nil},
		{"wrong count", `{"topology": "one-loop", "lengths": [9, 8, 5.6], "areas": [1, 7, 3]}`, tube.ErrInvalidGeometry},
		{"negative area", `{"lengths": [9, 8, 5.6], "areas": [1, -7, 3]}`, tube.ErrInvalidGeometry},
		{"lip out of range", `{"lengths": [9, 8, 5.6], "areas": [1, 7, 3], "lip_reflection": 1.5}`, nil},
		{"closed end", `{"lengths": [9, 8, 5.6], "areas": [1, 7, 3], "closed_reflection": -1}`, nil},
		{"attenuation", `{"lengths": [9, 8, 5.6], "areas": [1, 7, 3], "attenuation": 0}`, nil},
		{"syntax", `{"lengths": [9, 8, 5.6`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := LoadJSON(writePreset(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	p := tube.NewDefaultParams()
	p.Lengths = []float64{9, 8, 5.6, 1}
	p.Areas = []float64{1, 7, 3, 1}
	p.LoopAttenuation = 0.97

	path := filepath.Join(t.TempDir(), "out.json")
	if err := WriteJSON(path, "test", tube.OneLoop, p); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, topo, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if topo != tube.OneLoop || got.LoopAttenuation != 0.97 || got.Lengths[3] != 1 {
		t.Fatalf("round trip mismatch: %v %+v", topo, got)
	}
}

func TestBundledPresetsLoad(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "assets", "presets", "*.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Skip("no bundled presets")
	}
	for _, path := range paths {
		p, topo, err := LoadJSON(path)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if _, err := tube.New(topo, p); err != nil {
			t.Fatalf("%s: New: %v", path, err)
		}
	}
}
