package tube

import "math"

// JunctionCheck reports the scattering-conservation sums of one junction.
// For a three-way junction the coefficients that feed each outgoing wave
// from the three incoming waves must add up to 1.
type JunctionCheck struct {
	Name         string
	Coefficients [3]float64
	Sums         [3]float64
}

// MaxDeviation returns the largest |sum-1|.
func (j JunctionCheck) MaxDeviation() float64 {
	var m float64
	for _, s := range j.Sums {
		if d := math.Abs(s - 1); d > m || math.IsNaN(d) {
			m = d
		}
	}
	return m
}

// Invariants is a self-test report computed from the coefficients of an
// engine. It is informational and never stops processing.
type Invariants struct {
	Junctions []JunctionCheck

	// MaxBoundaryReflection is the largest boundary reflection magnitude.
	MaxBoundaryReflection float64
	// Lossless is set when every boundary reflects fully and no segment is
	// attenuated. Such a network keeps its energy and never decays.
	Lossless bool
}

// MaxDeviation returns the largest deviation over all junctions.
func (inv Invariants) MaxDeviation() float64 {
	var m float64
	for _, j := range inv.Junctions {
		if d := j.MaxDeviation(); d > m || math.IsNaN(d) {
			m = d
		}
	}
	return m
}

// Holds reports whether every conservation sum is within tol of 1.
func (inv Invariants) Holds(tol float64) bool {
	return inv.MaxDeviation() <= tol
}

func boundaryReport(attenuations []float64, reflections ...float64) (float64, bool) {
	var maxR float64
	lossless := true
	for _, r := range reflections {
		a := math.Abs(r)
		if a > maxR {
			maxR = a
		}
		if a != 1 {
			lossless = false
		}
	}
	for _, att := range attenuations {
		if att != 1 {
			lossless = false
		}
	}
	return maxR, lossless
}
