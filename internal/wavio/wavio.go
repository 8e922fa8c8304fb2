// Package wavio reads and writes the mono 16-bit WAV files used by the tube
// commands.
package wavio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	dspresample "github.com/cwbudde/algo-dsp/dsp/resample"
	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"
)

// ErrEmpty reports an attempt to write a WAV file without samples.
var ErrEmpty = errors.New("wavio: no samples")

// ReadMono decodes a PCM WAV file and averages all channels. The decoder
// already returns samples in [-1,1].
func ReadMono(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("invalid wav file: %s", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, err
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, 0, fmt.Errorf("invalid wav buffer: %s", path)
	}
	ch := buf.Format.NumChannels
	frames := len(buf.Data) / ch
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < ch; c++ {
			sum += float64(buf.Data[i*ch+c])
		}
		out[i] = sum / float64(ch)
	}
	return out, buf.Format.SampleRate, nil
}

// ReadMonoAt reads path and resamples it to sampleRate when needed.
func ReadMonoAt(path string, sampleRate int) ([]float64, error) {
	x, sr, err := ReadMono(path)
	if err != nil {
		return nil, err
	}
	return Resample(x, sr, sampleRate)
}

// Resample converts in from fromRate to toRate. Equal rates return in as is.
func Resample(in []float64, fromRate int, toRate int) ([]float64, error) {
	if fromRate == toRate {
		return in, nil
	}
	if fromRate <= 0 || toRate <= 0 {
		return nil, fmt.Errorf("invalid resample rates %d -> %d", fromRate, toRate)
	}
	r, err := dspresample.NewForRates(
		float64(fromRate),
		float64(toRate),
		dspresample.WithQuality(dspresample.QualityBest),
	)
	if err != nil {
		return nil, err
	}
	return r.Process(in), nil
}

// WriteMono writes samples as a mono 16-bit PCM file, creating parent
// directories. Samples outside [-1,1] are clipped by the encoder.
func WriteMono(path string, samples []float64, sampleRate int) error {
	if len(samples) == 0 {
		return ErrEmpty
	}
	data := make([]float32, len(samples))
	for i, v := range samples {
		data[i] = float32(v)
	}
	return writeMonoFloat32(path, data, sampleRate)
}

// WriteMonoNormalized scales samples to the given peak before writing and
// returns the applied gain. Silent input is written unscaled.
func WriteMonoNormalized(path string, samples []float64, sampleRate int, peak float64) (float64, error) {
	maxAbs := 0.0
	for _, v := range samples {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	gain := 1.0
	if maxAbs > 0 && peak > 0 {
		gain = peak / maxAbs
	}
	scaled := make([]float64, len(samples))
	for i, v := range samples {
		scaled[i] = v * gain
	}
	return gain, WriteMono(path, scaled, sampleRate)
}

func writeMonoFloat32(path string, data []float32, sampleRate int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	defer enc.Close()

	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: 1,
		},
		Data:           data,
		SourceBitDepth: 16,
	}
	return enc.Write(buf)
}
