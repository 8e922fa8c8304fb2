package tube

import (
	"fmt"
	"math"
)

// SpeedOfSound in air, cm/s.
const SpeedOfSound = 35000.0

// Segment is one uniform tube section.
type Segment struct {
	Length float64 // cm
	Area   float64 // cm^2
}

// Delay returns the one-way propagation time in seconds.
func (s Segment) Delay() float64 {
	return s.Length / SpeedOfSound
}

// DelaySamples returns the one-way delay rounded to whole samples (ties to
// even). A wave written at a segment's head reaches its tail this many steps
// later, except that a zero-sample segment still takes one step.
func (s Segment) DelaySamples(sampleRate int) int {
	n := int(math.RoundToEven(s.Delay() * float64(sampleRate)))
	if n < 0 {
		return 0
	}
	return n
}

// lineLength is the number of delay-line slots for the segment, at least 1.
func (s Segment) lineLength(sampleRate int) int {
	return s.DelaySamples(sampleRate) + 1
}

func (s Segment) validate(i int) error {
	if !(s.Length > 0) || math.IsInf(s.Length, 0) {
		return fmt.Errorf("%w: segment %d length must be positive and finite: %g", ErrInvalidGeometry, i+1, s.Length)
	}
	if !(s.Area > 0) || math.IsInf(s.Area, 0) {
		return fmt.Errorf("%w: segment %d area must be positive and finite: %g", ErrInvalidGeometry, i+1, s.Area)
	}
	return nil
}

// BranchReflection returns the reflection coefficient seen from the branch
// with area self at a three-way junction whose other branches have areas
// other1 and other2: (self - (other1+other2)) / (self+other1+other2).
func BranchReflection(self, other1, other2 float64) (float64, error) {
	for _, a := range [3]float64{self, other1, other2} {
		if !(a > 0) || math.IsInf(a, 0) {
			return 0, fmt.Errorf("%w: junction area must be positive and finite: %g", ErrInvalidGeometry, a)
		}
	}
	sum := self + other1 + other2
	return (self - (other1 + other2)) / sum, nil
}
