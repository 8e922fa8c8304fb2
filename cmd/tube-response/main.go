package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/cwbudde/algo-tube/analysis"
	"github.com/cwbudde/algo-tube/internal/wavio"
	"github.com/cwbudde/algo-tube/preset"
	"github.com/cwbudde/algo-tube/tube"
)

type report struct {
	Preset   string `json:"preset"`
	Topology string `json:"topology"`

	DelaySamples []int   `json:"delay_samples"`
	InvariantDev float64 `json:"invariant_max_deviation"`
	Lossless     bool    `json:"lossless"`

	Exact     analysis.Metrics `json:"fft_vs_exact"`
	Quantized analysis.Metrics `json:"fft_vs_quantized"`

	Formants    []tube.Peak             `json:"formants"`
	QuarterWave []float64               `json:"quarter_wave_hz,omitempty"`
	RT60        float64                 `json:"rt60_s"`
	EDT         float64                 `json:"edt_s"`
	Reference   *analysis.SignalMetrics `json:"reference,omitempty"`
}

func main() {
	presetPath := flag.String("preset", "assets/presets/three-tube-o.json", "Preset JSON path")
	low := flag.Float64("low", 100, "Lowest analysis frequency in Hz")
	high := flag.Float64("high", 5000, "Highest analysis frequency in Hz")
	bands := flag.Int("bands", 256, "Number of logarithmic bands")
	irSeconds := flag.Float64("ir-seconds", 1.0, "Simulated impulse response length in seconds")
	prominence := flag.Float64("prominence", 3, "Minimum formant prominence in dB")
	refLength := flag.Float64("ref-length", 0, "Uniform tube length in cm for quarter-wave references (0 uses the glottis-to-lips path)")
	refModes := flag.Int("ref-modes", 5, "Number of quarter-wave references")
	table := flag.Int("table", 16, "Print every n-th band of the analytic response (0 disables)")
	referencePath := flag.String("reference", "", "Optional reference impulse response WAV")
	writeIR := flag.String("write-ir", "", "Optional path to write the simulated impulse response WAV")
	jsonOut := flag.Bool("json", false, "Print the report as JSON")
	flag.Parse()

	params, topo, err := preset.LoadJSON(*presetPath)
	if err != nil {
		die("Error loading preset %q: %v", *presetPath, err)
	}
	engine, err := tube.New(topo, params)
	if err != nil {
		die("Error creating engine: %v", err)
	}
	sr := engine.SampleRate()
	rep := report{Preset: *presetPath, Topology: topo.String()}
	for _, s := range engine.Segments() {
		rep.DelaySamples = append(rep.DelaySamples, s.DelaySamples(sr))
	}

	inv := engine.CheckInvariants()
	rep.InvariantDev = inv.MaxDeviation()
	rep.Lossless = inv.Lossless

	exact, err := engine.FrequencyResponse(*low, *high, *bands)
	if err != nil {
		die("frequency response: %v", err)
	}
	quantized, err := engine.FrequencyResponse(*low, *high, *bands, tube.WithQuantizedDelays())
	if err != nil {
		die("frequency response: %v", err)
	}

	// a fresh engine keeps the impulse response independent of earlier calls
	irEngine, err := tube.New(topo, params)
	if err != nil {
		die("Error creating engine: %v", err)
	}
	ir, err := analysis.ImpulseResponse(irEngine, int(*irSeconds*float64(sr)))
	if err != nil {
		die("impulse response: %v", err)
	}
	measured, err := analysis.ImpulseSpectrum(ir, sr)
	if err != nil {
		die("spectrum: %v", err)
	}
	if rep.Exact, err = analysis.CompareResponse(exact, measured); err != nil {
		die("compare: %v", err)
	}
	if rep.Quantized, err = analysis.CompareResponse(quantized, measured); err != nil {
		die("compare: %v", err)
	}

	rep.Formants = analysis.Formants(exact, *prominence)
	length := *refLength
	if length <= 0 {
		length = mainPathLength(topo, params)
	}
	if *refModes > 0 {
		rep.QuarterWave, err = analysis.QuarterWaveModes(length, *refModes, 64*(*refModes))
		if err != nil {
			die("quarter-wave modes: %v", err)
		}
	}

	decay, err := analysis.Decay(ir, sr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decay metrics unavailable: %v\n", err)
	}
	rep.RT60 = decay.RT60
	rep.EDT = decay.EDT

	if *referencePath != "" {
		ref, err := wavio.ReadMonoAt(*referencePath, sr)
		if err != nil {
			die("reference: %v", err)
		}
		m := analysis.CompareSignals(ref, ir, sr)
		rep.Reference = &m
	}
	if *writeIR != "" {
		if _, err := wavio.WriteMonoNormalized(*writeIR, ir, sr, 0.9); err != nil {
			die("failed to write impulse response: %v", err)
		}
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			die("json encode failed: %v", err)
		}
		return
	}

	fmt.Printf("Preset:    %s (%s)\n", rep.Preset, rep.Topology)
	for i, s := range engine.Segments() {
		fmt.Printf("  tube%d  L=%5.2f cm  A=%5.2f cm^2  delay=%3d samples (%.1f exact)\n",
			i+1, s.Length, s.Area, rep.DelaySamples[i], s.Delay()*float64(sr))
	}
	fmt.Println()
	fmt.Printf("Invariants (max deviation %.2e, lossless=%v, max boundary |r|=%.3f)\n", rep.InvariantDev, inv.Lossless, inv.MaxBoundaryReflection)
	for _, j := range inv.Junctions {
		fmt.Printf("  %-22s coeffs %+.4f %+.4f %+.4f  sums %.6f %.6f %.6f\n",
			j.Name, j.Coefficients[0], j.Coefficients[1], j.Coefficients[2], j.Sums[0], j.Sums[1], j.Sums[2])
	}

	if *table > 0 {
		fmt.Println()
		fmt.Printf("%10s  %10s  %10s  %10s\n", "Hz", "exact dB", "quant dB", "fft dB")
		for i := 0; i < exact.Len(); i += *table {
			f := exact.Frequencies[i]
			fmt.Printf("%10.1f  %10.2f  %10.2f  %10.2f\n", f, exact.MagnitudeDB[i], quantized.MagnitudeDB[i], measured.AtDB(f))
		}
	}

	fmt.Println()
	fmt.Printf("FFT vs analytic (%d bands)\n", rep.Exact.Bands)
	fmt.Printf("  exact delays:     RMSE %.4f dB, max %.4f dB at %.1f Hz\n", rep.Exact.RMSEDB, rep.Exact.MaxAbsDB, rep.Exact.WorstFrequency)
	fmt.Printf("  quantized delays: RMSE %.4f dB, max %.4f dB at %.1f Hz\n", rep.Quantized.RMSEDB, rep.Quantized.MaxAbsDB, rep.Quantized.WorstFrequency)

	fmt.Println()
	fmt.Printf("Formants (prominence >= %.1f dB)\n", *prominence)
	for k, p := range rep.Formants {
		line := fmt.Sprintf("  F%d %8.1f Hz  %7.2f dB", k+1, p.Frequency, p.MagnitudeDB)
		if k < len(rep.QuarterWave) {
			line += fmt.Sprintf("   uniform %.1f cm: %8.1f Hz", length, rep.QuarterWave[k])
		}
		fmt.Println(line)
	}

	fmt.Println()
	if math.IsNaN(rep.RT60) || rep.RT60 == 0 {
		fmt.Println("Decay: n/a")
	} else {
		fmt.Printf("Decay: RT60 %.4f s, EDT %.4f s\n", rep.RT60, rep.EDT)
	}
	if rep.Reference != nil {
		r := rep.Reference
		fmt.Printf("Reference: lag %d samples, time RMSE %.4f, spectral RMSE %.2f dB, similarity %.3f\n",
			r.LagSamples, r.TimeRMSE, r.SpectralRMSEDB, r.Similarity)
	}
}

// mainPathLength is the glottis-to-lips length: tube1+tube2 for the T
// junction and tube1+tube2+tube4 through the upper loop branch.
func mainPathLength(topo tube.Topology, p *tube.Params) float64 {
	switch topo {
	case tube.OneLoop:
		return p.Lengths[0] + p.Lengths[1] + p.Lengths[3]
	default:
		return p.Lengths[0] + p.Lengths[1]
	}
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
