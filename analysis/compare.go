package analysis

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tube/tube"
)

// Metrics summarises the disagreement between an analytic response and a
// measured spectrum on the analytic grid.
type Metrics struct {
	Bands int `json:"bands"`

	RMSEDB   float64 `json:"rmse_db"`
	MaxAbsDB float64 `json:"max_abs_db"`
	MeanDB   float64 `json:"mean_db"` // measured minus analytic

	WorstFrequency float64 `json:"worst_frequency"`
}

// CompareResponse evaluates s at every grid point of r and reports the dB
// differences. Magnitudes are floored at -240 dB.
func CompareResponse(r *tube.Response, s *Spectrum) (Metrics, error) {
	var m Metrics
	if r == nil || r.Len() == 0 || s == nil || len(s.Magnitude) == 0 {
		return m, ErrEmptySignal
	}
	nyquist := float64(s.SampleRate) / 2
	var sum, sq float64
	for i, f := range r.Frequencies {
		if f > nyquist {
			return m, fmt.Errorf("%w: grid point %g Hz above Nyquist %g Hz", ErrInvalidFrequency, f, nyquist)
		}
		want := r.MagnitudeDB[i]
		if want < -240 || math.IsNaN(want) {
			want = -240
		}
		d := linToDB(s.At(f)) - want
		sum += d
		sq += d * d
		if a := math.Abs(d); a > m.MaxAbsDB {
			m.MaxAbsDB = a
			m.WorstFrequency = f
		}
		m.Bands++
	}
	m.MeanDB = sum / float64(m.Bands)
	m.RMSEDB = math.Sqrt(sq / float64(m.Bands))
	return m, nil
}

// SignalMetrics contains distance measurements between two signals.
type SignalMetrics struct {
	SampleRate int `json:"sample_rate"`

	AlignedFrames int `json:"aligned_frames"`
	LagSamples    int `json:"lag_samples"`

	TimeRMSE       float64 `json:"time_rmse"`
	SpectralRMSEDB float64 `json:"spectral_rmse_db"`

	Score      float64 `json:"score"`
	Similarity float64 `json:"similarity"`
}

// CompareSignals aligns candidate to reference by cross-correlation, scales
// both to equal RMS and returns time and spectral distances plus a combined
// score in [0,1] (0 is identical).
func CompareSignals(reference, candidate []float64, sampleRate int) SignalMetrics {
	m := SignalMetrics{SampleRate: sampleRate, Score: 1}
	if sampleRate <= 0 || len(reference) == 0 || len(candidate) == 0 {
		return m
	}
	ref := trimLeadingSilence(reference, 1e-9)
	cand := trimLeadingSilence(candidate, 1e-9)
	if len(ref) == 0 || len(cand) == 0 {
		return m
	}
	ref = normalizeRMS(ref, 0.1)
	cand = normalizeRMS(cand, 0.1)

	maxLag := sampleRate / 50
	if maxLag > len(ref)-1 {
		maxLag = len(ref) - 1
	}
	if maxLag > len(cand)-1 {
		maxLag = len(cand) - 1
	}
	if maxLag < 1 {
		maxLag = 1
	}
	m.LagSamples = estimateLag(ref, cand, maxLag)
	ref, cand = alignByLag(ref, cand, m.LagSamples)
	n := len(ref)
	if len(cand) < n {
		n = len(cand)
	}
	if n < 64 {
		return m
	}
	ref, cand = ref[:n], cand[:n]
	m.AlignedFrames = n

	m.TimeRMSE = rmse(ref, cand)
	if sdb, ok := spectralRMSEDB(ref, cand, sampleRate); ok {
		m.SpectralRMSEDB = sdb
	}

	timeNorm := clamp01(m.TimeRMSE / 0.25)
	specNorm := clamp01(m.SpectralRMSEDB / 30.0)
	m.Score = clamp01(0.5*timeNorm + 0.5*specNorm)
	m.Similarity = clamp01(math.Exp(-4.0 * m.Score))
	return m
}

func trimLeadingSilence(x []float64, threshold float64) []float64 {
	for i, v := range x {
		if math.Abs(v) > threshold {
			return x[i:]
		}
	}
	return nil
}

func normalizeRMS(x []float64, target float64) []float64 {
	out := append([]float64(nil), x...)
	r := RMS(x)
	if r <= 1e-12 {
		return out
	}
	g := target / r
	for i := range out {
		out[i] *= g
	}
	return out
}

func estimateLag(ref, cand []float64, maxLag int) int {
	bestLag := 0
	best := math.Inf(-1)
	for lag := -maxLag; lag <= maxLag; lag++ {
		if s := dotAtLag(ref, cand, lag); s > best {
			best = s
			bestLag = lag
		}
	}
	return bestLag
}

func dotAtLag(a, b []float64, lag int) float64 {
	ai, bi := 0, 0
	if lag >= 0 {
		ai = lag
	} else {
		bi = -lag
	}
	n := len(a) - ai
	if len(b)-bi < n {
		n = len(b) - bi
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[ai+i] * b[bi+i]
	}
	return sum
}

func alignByLag(ref, cand []float64, lag int) ([]float64, []float64) {
	if lag >= 0 {
		if lag >= len(ref) {
			return nil, nil
		}
		return ref[lag:], cand
	}
	if -lag >= len(cand) {
		return nil, nil
	}
	return ref, cand[-lag:]
}

func rmse(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(n))
}

// spectralRMSEDB compares the Hann-tapered spectra of the first few thousand
// samples of a and b.
func spectralRMSEDB(a, b []float64, sampleRate int) (float64, bool) {
	n := len(a)
	if n > 8192 {
		n = 8192
	}
	if n < 64 {
		return 0, false
	}
	sa, err := ImpulseSpectrum(a[:n], sampleRate, WithTaper(n/2))
	if err != nil {
		return 0, false
	}
	sb, err := ImpulseSpectrum(b[:n], sampleRate, WithTaper(n/2))
	if err != nil {
		return 0, false
	}
	var sum float64
	bins := len(sa.Magnitude) - 1
	for k := 1; k < bins; k++ {
		d := linToDB(sa.Magnitude[k]) - linToDB(sb.Magnitude[k])
		sum += d * d
	}
	return math.Sqrt(sum / float64(bins-1)), true
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
