package analysis

import (
	"fmt"
	"math"
	"sort"

	pdefd "github.com/cwbudde/algo-pde/fd"
	pdepoisson "github.com/cwbudde/algo-pde/poisson"

	"github.com/cwbudde/algo-tube/tube"
)

// QuarterWaveModes returns the first count resonance frequencies in Hz of a
// uniform tube of the given length in cm, closed at the glottis and open at
// the lips.
//
// The modes are taken from the discrete Dirichlet Laplacian of a tube of
// twice the length: its odd modes have a pressure node at the open end and a
// velocity node in the middle, which is the closed-open tube. gridPoints
// interior grid points are used; more points give a closer match to
// (2k-1)*c/(4L).
func QuarterWaveModes(length float64, count, gridPoints int) ([]float64, error) {
	if !(length > 0) || math.IsInf(length, 0) {
		return nil, fmt.Errorf("tube length must be positive and finite: %g", length)
	}
	if count < 1 {
		return nil, fmt.Errorf("mode count must be >= 1: %d", count)
	}
	if gridPoints < 4*count {
		return nil, fmt.Errorf("need at least %d grid points for %d modes, got %d", 4*count, count, gridPoints)
	}

	h := 2 * length / float64(gridPoints+1)
	ev := pdefd.Eigenvalues(gridPoints, h, pdepoisson.Dirichlet)
	sort.Float64s(ev)

	out := make([]float64, count)
	for k := range out {
		lambda := ev[2*k]
		out[k] = tube.SpeedOfSound * math.Sqrt(lambda) / (2 * math.Pi)
	}
	return out, nil
}

// Formants returns the peaks of r whose prominence is at least minProminenceDB.
// Prominence is the height of a peak above the higher of the two minima that
// separate it from a taller peak (or the grid edge) on each side.
func Formants(r *tube.Response, minProminenceDB float64) []tube.Peak {
	var out []tube.Peak
	mag := r.MagnitudeDB
	for i := 1; i+1 < len(mag); i++ {
		if !(mag[i] > mag[i-1] && mag[i] > mag[i+1]) {
			continue
		}
		left := mag[i]
		for j := i - 1; j >= 0 && mag[j] <= mag[i]; j-- {
			if mag[j] < left {
				left = mag[j]
			}
		}
		right := mag[i]
		for j := i + 1; j < len(mag) && mag[j] <= mag[i]; j++ {
			if mag[j] < right {
				right = mag[j]
			}
		}
		base := math.Max(left, right)
		if mag[i]-base >= minProminenceDB {
			out = append(out, tube.Peak{Frequency: r.Frequencies[i], MagnitudeDB: mag[i]})
		}
	}
	return out
}

// NearestPeak returns the peak closest to freq and its relative distance.
func NearestPeak(peaks []tube.Peak, freq float64) (tube.Peak, float64, bool) {
	if len(peaks) == 0 {
		return tube.Peak{}, 0, false
	}
	best := peaks[0]
	for _, p := range peaks[1:] {
		if math.Abs(p.Frequency-freq) < math.Abs(best.Frequency-freq) {
			best = p
		}
	}
	return best, math.Abs(best.Frequency-freq) / freq, true
}
