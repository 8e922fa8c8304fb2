package tube

import (
	"bufio"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/cwbudde/algo-dsp/dsp/spectrum"
)

// threeTubeParams is the /a/ geometry with an /o/ side branch.
func threeTubeParams() *Params {
	p := NewDefaultParams()
	p.Lengths = []float64{9, 8, 5.6}
	p.Areas = []float64{1, 7, 3}
	return p
}

func oneLoopParams() *Params {
	p := NewDefaultParams()
	p.Lengths = []float64{9, 8, 5.6, 1}
	p.Areas = []float64{1, 7, 3, 1}
	return p
}

func mustNew(t testing.TB, topo Topology, p *Params) Engine {
	t.Helper()
	e, err := New(topo, p)
	if err != nil {
		t.Fatalf("New(%v) failed: %v", topo, err)
	}
	return e
}

func impulse(n int) []float64 {
	x := make([]float64, n)
	x[0] = 1
	return x
}

func sine(freq float64, sampleRate, n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
	}
	return x
}

func rms(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var e float64
	for _, v := range x {
		e += v * v
	}
	return math.Sqrt(e / float64(len(x)))
}

func maxAbsDiff(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var m float64
	for i := 0; i < n; i++ {
		if d := math.Abs(a[i] - b[i]); d > m {
			m = d
		}
	}
	return m
}

// steadyStateGain drives e with a sine and returns |out|/|in| at freq over
// the last block samples.
func steadyStateGain(t *testing.T, e Engine, freq float64, n, block int) float64 {
	t.Helper()
	sr := e.SampleRate()
	in := sine(freq, sr, n)
	out, err := e.Process(in)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	return binMagnitude(t, out[n-block:], freq, sr) / binMagnitude(t, in[n-block:], freq, sr)
}

func binMagnitude(t *testing.T, x []float64, freq float64, sampleRate int) float64 {
	t.Helper()
	g, err := spectrum.NewGoertzel(freq, float64(sampleRate))
	if err != nil {
		t.Fatalf("NewGoertzel(%g) failed: %v", freq, err)
	}
	g.ProcessBlock(x)
	return g.Magnitude()
}

func loadGolden(t *testing.T, path string) []float64 {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	var out []float64
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			t.Fatalf("parse %s: %v", path, err)
		}
		out = append(out, v)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return out
}
