package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/cwbudde/algo-tube/analysis"
	"github.com/cwbudde/algo-tube/glottal"
	"github.com/cwbudde/algo-tube/internal/wavio"
	"github.com/cwbudde/algo-tube/preset"
	"github.com/cwbudde/algo-tube/tube"
)

func main() {
	presetPath := flag.String("preset", "assets/presets/three-tube-o.json", "Preset JSON file path")
	excitation := flag.String("excitation", "glottal", "Excitation: impulse, glottal, sine or wav")
	inputPath := flag.String("input", "", "Input WAV for -excitation wav")
	duration := flag.Float64("duration", 1.0, "Excitation duration in seconds")
	tail := flag.Float64("tail", 0.2, "Silence appended after the excitation in seconds")
	f0 := flag.Float64("f0", 120, "Glottal fundamental frequency in Hz")
	noise := flag.Float64("noise", 0, "Glottal aspiration noise level")
	seed := flag.Int64("seed", 1, "Noise seed")
	sineFreq := flag.Float64("sine-freq", 500, "Frequency for -excitation sine in Hz")
	loopAtt := flag.Float64("loop-att", math.NaN(), "Override the loop attenuation (one-loop only)")
	outputRate := flag.Int("output-rate", 0, "Resample the output to this rate (0 keeps the engine rate)")
	normalize := flag.Float64("normalize", 0.9, "Output peak normalization target (0 disables)")
	output := flag.String("output", "output.wav", "Output WAV file path")
	flag.Parse()

	params, topo, err := preset.LoadJSON(*presetPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading preset %q: %v\n", *presetPath, err)
		os.Exit(1)
	}
	if !math.IsNaN(*loopAtt) {
		params.LoopAttenuation = *loopAtt
	}
	engine, err := tube.New(topo, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating engine: %v\n", err)
		os.Exit(1)
	}
	sr := engine.SampleRate()

	x, err := buildExcitation(strings.ToLower(*excitation), excitationConfig{
		sampleRate: sr,
		duration:   *duration,
		f0:         *f0,
		noise:      *noise,
		seed:       *seed,
		sineFreq:   *sineFreq,
		inputPath:  *inputPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building excitation: %v\n", err)
		os.Exit(1)
	}
	if *tail > 0 {
		x = append(x, make([]float64, int(*tail*float64(sr)))...)
	}

	fmt.Printf("Rendering %s (%s, %d segments, delays %v samples) with %s excitation, %d samples at %d Hz...\n",
		*presetPath, topo, len(engine.Segments()), delaySamples(engine), *excitation, len(x), sr)

	y, err := engine.Process(x)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering: %v\n", err)
		os.Exit(1)
	}

	outRate := sr
	if *outputRate > 0 && *outputRate != sr {
		y, err = wavio.Resample(y, sr, *outputRate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resampling: %v\n", err)
			os.Exit(1)
		}
		outRate = *outputRate
	}

	peak, _ := analysis.Peak(y)
	gain := 1.0
	if *normalize > 0 {
		gain, err = wavio.WriteMonoNormalized(*output, y, outRate, *normalize)
	} else {
		err = wavio.WriteMono(*output, y, outRate)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing WAV file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Peak: %.6f (%.1f dBFS), RMS: %.6f, gain %.3f\n", peak, 20*math.Log10(math.Max(peak, 1e-12)), analysis.RMS(y), gain)
	fmt.Printf("Successfully wrote %s (%d frames @ %d Hz)\n", *output, len(y), outRate)
}

type excitationConfig struct {
	sampleRate int
	duration   float64
	f0         float64
	noise      float64
	seed       int64
	sineFreq   float64
	inputPath  string
}

func buildExcitation(kind string, c excitationConfig) ([]float64, error) {
	n := int(c.duration * float64(c.sampleRate))
	if n < 1 {
		n = 1
	}
	switch kind {
	case "impulse":
		return glottal.Impulse(n), nil
	case "glottal":
		cfg := glottal.DefaultConfig()
		cfg.SampleRate = c.sampleRate
		cfg.DurationS = c.duration
		cfg.F0 = c.f0
		cfg.NoiseLevel = c.noise
		cfg.Seed = c.seed
		cfg.NormalizePeak = 0
		flow, err := glottal.Generate(cfg)
		if err != nil {
			return nil, err
		}
		// the flow derivative excites the tract; scale it back to unit order
		d := glottal.Derivative(flow, c.sampleRate)
		for i := range d {
			d[i] /= float64(c.sampleRate)
		}
		return d, nil
	case "sine":
		return glottal.Sine(c.sineFreq, 0.5, c.sampleRate, n)
	case "wav":
		if c.inputPath == "" {
			return nil, fmt.Errorf("-input is required for wav excitation")
		}
		return wavio.ReadMonoAt(c.inputPath, c.sampleRate)
	default:
		return nil, fmt.Errorf("unknown excitation %q", kind)
	}
}

func delaySamples(e tube.Engine) []int {
	segs := e.Segments()
	out := make([]int, len(segs))
	for i, s := range segs {
		out[i] = s.DelaySamples(e.SampleRate())
	}
	return out
}
