package analysis

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-tube/tube"
)

func threeTube(t testing.TB) tube.Engine {
	t.Helper()
	p := tube.NewDefaultParams()
	p.Lengths = []float64{9, 8, 5.6}
	p.Areas = []float64{1, 7, 3}
	e, err := tube.NewThreeTube(p)
	if err != nil {
		t.Fatalf("NewThreeTube: %v", err)
	}
	return e
}

func oneLoop(t testing.TB, loopAtt float64) tube.Engine {
	t.Helper()
	p := tube.NewDefaultParams()
	p.Lengths = []float64{9, 8, 5.6, 1}
	p.Areas = []float64{1, 7, 3, 1}
	p.LoopAttenuation = loopAtt
	e, err := tube.NewOneLoop(p)
	if err != nil {
		t.Fatalf("NewOneLoop: %v", err)
	}
	return e
}

func randomSignal(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.Float64()*2 - 1
	}
	return out
}

func makeDecaySine(sr int, freq float64, durationSec float64, decaySec float64) []float64 {
	n := int(float64(sr) * durationSec)
	out := make([]float64, n)
	for i := range out {
		t := float64(i) / float64(sr)
		out[i] = math.Exp(-t/decaySec) * math.Sin(2*math.Pi*freq*t)
	}
	return out
}
