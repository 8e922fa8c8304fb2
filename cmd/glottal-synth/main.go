package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-tube/analysis"
	"github.com/cwbudde/algo-tube/glottal"
	"github.com/cwbudde/algo-tube/internal/wavio"
)

func main() {
	cfg := glottal.DefaultConfig()

	output := flag.String("output", "out/glottal.wav", "Output WAV path")
	derivative := flag.Bool("derivative", false, "Write the flow derivative instead of the flow")
	flag.IntVar(&cfg.SampleRate, "sample-rate", cfg.SampleRate, "Output sample rate")
	flag.Float64Var(&cfg.DurationS, "duration", cfg.DurationS, "Length in seconds")
	flag.Float64Var(&cfg.F0, "f0", cfg.F0, "Fundamental frequency in Hz")
	flag.Float64Var(&cfg.OpenQuotient, "open-quotient", cfg.OpenQuotient, "Open fraction of each period")
	flag.Float64Var(&cfg.RiseFraction, "rise", cfg.RiseFraction, "Opening fraction of the open phase")
	flag.Float64Var(&cfg.ReturnS, "return", cfg.ReturnS, "Return phase time constant in seconds")
	flag.Float64Var(&cfg.NoiseLevel, "noise", cfg.NoiseLevel, "Aspiration noise level")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed")
	flag.Float64Var(&cfg.NormalizePeak, "normalize", cfg.NormalizePeak, "Peak normalization target")
	flag.Parse()

	x, err := glottal.Generate(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "glottal-synth error: %v\n", err)
		os.Exit(1)
	}
	if *derivative {
		d := glottal.Derivative(x, cfg.SampleRate)
		if cfg.NormalizePeak > 0 {
			_, err = wavio.WriteMonoNormalized(*output, d, cfg.SampleRate, cfg.NormalizePeak)
		} else {
			err = wavio.WriteMono(*output, d, cfg.SampleRate)
		}
		x = d
	} else {
		err = wavio.WriteMono(*output, x, cfg.SampleRate)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "wav write error: %v\n", err)
		os.Exit(1)
	}

	peak, _ := analysis.Peak(x)
	fmt.Printf("Wrote %s\n", *output)
	fmt.Printf("SampleRate: %d Hz, Duration: %.3f s, Samples: %d, F0: %.1f Hz\n", cfg.SampleRate, cfg.DurationS, len(x), cfg.F0)
	fmt.Printf("Peak: %.6f, RMS: %.6f\n", peak, analysis.RMS(x))
}
