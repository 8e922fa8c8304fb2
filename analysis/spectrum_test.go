package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-tube/tube"
)

func TestImpulseSpectrumOfUnitImpulseIsFlat(t *testing.T) {
	s, err := ImpulseSpectrum([]float64{1}, 48000, WithFFTSize(1000))
	if err != nil {
		t.Fatalf("ImpulseSpectrum: %v", err)
	}
	if s.FFTSize != 1024 || len(s.Magnitude) != 513 {
		t.Fatalf("unexpected size %d / %d bins", s.FFTSize, len(s.Magnitude))
	}
	for k, m := range s.Magnitude {
		if math.Abs(m-1) > 1e-12 {
			t.Fatalf("bin %d magnitude %g", k, m)
		}
	}
	if got := s.At(1234.5); math.Abs(got-1) > 1e-12 {
		t.Fatalf("interpolated magnitude %g", got)
	}
}

func TestImpulseSpectrumRejectsEmpty(t *testing.T) {
	if _, err := ImpulseSpectrum(nil, 48000); !errors.Is(err, ErrEmptySignal) {
		t.Fatalf("expected ErrEmptySignal, got %v", err)
	}
	if _, err := ImpulseSpectrum([]float64{1}, 0); !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("expected ErrInvalidSampleRate, got %v", err)
	}
}

func TestTaperFadesToZero(t *testing.T) {
	ir := make([]float64, 64)
	for i := range ir {
		ir[i] = 1
	}
	tapered, err := ImpulseSpectrum(ir, 48000, WithTaper(32))
	if err != nil {
		t.Fatal(err)
	}
	plain, err := ImpulseSpectrum(ir, 48000)
	if err != nil {
		t.Fatal(err)
	}
	// DC bin is the sum of the samples; the taper removes about half of the
	// faded region.
	if !(tapered.Magnitude[0] < plain.Magnitude[0]-10) {
		t.Fatalf("taper had no effect: %g vs %g", tapered.Magnitude[0], plain.Magnitude[0])
	}
}

func TestImpulseSpectrumMatchesAnalyticResponse(t *testing.T) {
	e := threeTube(t)
	ir, err := ImpulseResponse(e, 48000)
	if err != nil {
		t.Fatalf("ImpulseResponse: %v", err)
	}
	s, err := ImpulseSpectrum(ir, e.SampleRate(), WithFFTSize(65536))
	if err != nil {
		t.Fatalf("ImpulseSpectrum: %v", err)
	}

	quantized, err := e.FrequencyResponse(100, 5000, 256, tube.WithQuantizedDelays())
	if err != nil {
		t.Fatal(err)
	}
	m, err := CompareResponse(quantized, s)
	if err != nil {
		t.Fatalf("CompareResponse: %v", err)
	}
	if m.Bands != 257 {
		t.Fatalf("compared %d bands", m.Bands)
	}
	if m.RMSEDB > 0.01 || m.MaxAbsDB > 0.05 {
		t.Fatalf("measured spectrum deviates from quantized response: %+v", m)
	}

	// Exact delays put the resonances slightly elsewhere.
	exact, err := e.FrequencyResponse(100, 5000, 256)
	if err != nil {
		t.Fatal(err)
	}
	m2, err := CompareResponse(exact, s)
	if err != nil {
		t.Fatal(err)
	}
	if m2.RMSEDB < 1 {
		t.Fatalf("expected visible delay rounding error, got %+v", m2)
	}
}

func TestCompareResponseRejectsGridAboveNyquist(t *testing.T) {
	s, err := ImpulseSpectrum([]float64{1}, 8000)
	if err != nil {
		t.Fatal(err)
	}
	r := &tube.Response{Frequencies: []float64{100, 5000}, MagnitudeDB: []float64{0, 0}}
	if _, err := CompareResponse(r, s); !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("expected ErrInvalidFrequency, got %v", err)
	}
}
