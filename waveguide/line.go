// Package waveguide provides the fixed-size shift-register delay lines that
// carry travelling waves through the tube segments.
package waveguide

import dspcore "github.com/cwbudde/algo-dsp/dsp/core"

// DelayLine is a shift register of fixed length. Index 0 holds the newest
// sample (the junction-facing slot), index Len()-1 the oldest.
type DelayLine struct {
	buffer      []float64
	attenuation float64
}

// NewDelayLine creates a zeroed delay line. Lengths below 1 are clamped to 1.
func NewDelayLine(length int, attenuation float64) *DelayLine {
	if length < 1 {
		length = 1
	}
	return &DelayLine{
		buffer:      make([]float64, length),
		attenuation: attenuation,
	}
}

// Len returns the number of slots.
func (d *DelayLine) Len() int {
	return len(d.buffer)
}

// Attenuation returns the per-step gain applied while shifting.
func (d *DelayLine) Attenuation() float64 {
	return d.attenuation
}

// Shift moves every sample one slot towards the tail, scaling it by the
// attenuation. Slot 0 keeps its old value until SetHead overwrites it.
func (d *DelayLine) Shift() {
	n := len(d.buffer)
	if n < 2 {
		return
	}
	if d.attenuation == 1.0 {
		copy(d.buffer[1:], d.buffer[:n-1])
		return
	}
	for i := n - 1; i > 0; i-- {
		d.buffer[i] = dspcore.FlushDenormals(d.buffer[i-1] * d.attenuation)
	}
}

// Tail returns the oldest sample.
func (d *DelayLine) Tail() float64 {
	return d.buffer[len(d.buffer)-1]
}

// SetHead writes the newest sample.
func (d *DelayLine) SetHead(v float64) {
	d.buffer[0] = v
}

// At returns the sample in slot i.
func (d *DelayLine) At(i int) float64 {
	return d.buffer[i]
}

// Energy returns the sum of squared samples currently held.
func (d *DelayLine) Energy() float64 {
	var sum float64
	for _, v := range d.buffer {
		sum += v * v
	}
	return sum
}
