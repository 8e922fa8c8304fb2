package analysis

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-tube/tube"
)

func TestQuarterWaveModes(t *testing.T) {
	modes, err := QuarterWaveModes(17.5, 5, 1024)
	if err != nil {
		t.Fatalf("QuarterWaveModes: %v", err)
	}
	for k, f := range modes {
		want := float64(2*k+1) * tube.SpeedOfSound / (4 * 17.5)
		if math.Abs(f-want) > 0.005*want {
			t.Fatalf("mode %d: %g Hz, want about %g", k+1, f, want)
		}
	}
	if _, err := QuarterWaveModes(17.5, 5, 10); err == nil {
		t.Fatal("expected grid size error")
	}
	if _, err := QuarterWaveModes(0, 5, 1024); err == nil {
		t.Fatal("expected length error")
	}
}

func TestUniformTubeFormantsMatchQuarterWaveModes(t *testing.T) {
	p := tube.NewDefaultParams()
	p.Lengths = []float64{9, 8.5, 1}
	p.Areas = []float64{5, 5, 1e-6}
	e, err := tube.NewThreeTube(p)
	if err != nil {
		t.Fatal(err)
	}
	r, err := e.FrequencyResponse(100, 5000, 1024)
	if err != nil {
		t.Fatal(err)
	}
	peaks := Formants(r, 3)
	modes, err := QuarterWaveModes(17.5, 5, 1024)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range modes {
		_, rel, ok := NearestPeak(peaks, f)
		if !ok || rel > 0.02 {
			t.Fatalf("no formant near %g Hz (rel=%g, peaks=%v)", f, rel, peaks)
		}
	}
}

func TestFormantsProminenceFilter(t *testing.T) {
	r := &tube.Response{
		Frequencies: []float64{1, 2, 3, 4, 5, 6, 7},
		MagnitudeDB: []float64{0, 10, 8, 9, 0, 20, 0},
	}
	all := Formants(r, 0)
	if len(all) != 3 {
		t.Fatalf("expected 3 peaks, got %v", all)
	}
	// the 9 dB bump only rises 1 dB above the dip that separates it from
	// the 10 dB peak
	strong := Formants(r, 5)
	if len(strong) != 2 || strong[0].Frequency != 2 || strong[1].Frequency != 6 {
		t.Fatalf("unexpected prominent peaks: %v", strong)
	}
	if _, _, ok := NearestPeak(nil, 100); ok {
		t.Fatal("expected no peak")
	}
}
