package waveguide

import "fmt"

// Pair holds the forward- and backward-travelling components of one segment.
type Pair struct {
	Forward  *DelayLine
	Backward *DelayLine
}

// NewPair creates a pair of equal-length delay lines.
func NewPair(length int, attenuation float64) Pair {
	return Pair{
		Forward:  NewDelayLine(length, attenuation),
		Backward: NewDelayLine(length, attenuation),
	}
}

// Shift advances both directions by one step.
func (p Pair) Shift() {
	p.Forward.Shift()
	p.Backward.Shift()
}

// Bank owns one Pair per tube segment. Ports are addressed in the order
// segment0.forward, segment0.backward, segment1.forward, ...
type Bank struct {
	pairs []Pair
}

// NewBank creates a bank with the given per-segment lengths and attenuations.
func NewBank(lengths []int, attenuations []float64) (*Bank, error) {
	if len(lengths) == 0 {
		return nil, fmt.Errorf("waveguide bank needs at least one segment")
	}
	if len(attenuations) != len(lengths) {
		return nil, fmt.Errorf("attenuation count %d does not match segment count %d", len(attenuations), len(lengths))
	}
	b := &Bank{pairs: make([]Pair, len(lengths))}
	for i, n := range lengths {
		if attenuations[i] <= 0 || attenuations[i] > 1 {
			return nil, fmt.Errorf("segment %d attenuation must be in (0,1]: %g", i, attenuations[i])
		}
		b.pairs[i] = NewPair(n, attenuations[i])
	}
	return b, nil
}

// Segments returns the number of segments.
func (b *Bank) Segments() int {
	return len(b.pairs)
}

// Ports returns the number of ports (two per segment).
func (b *Bank) Ports() int {
	return 2 * len(b.pairs)
}

// Pair returns the delay-line pair of segment i.
func (b *Bank) Pair(i int) Pair {
	return b.pairs[i]
}

// Shift advances every delay line by one step.
func (b *Bank) Shift() {
	for _, p := range b.pairs {
		p.Shift()
	}
}

// Tails copies every port's oldest sample into dst, which must hold Ports() values.
func (b *Bank) Tails(dst []float64) {
	for i, p := range b.pairs {
		dst[2*i] = p.Forward.Tail()
		dst[2*i+1] = p.Backward.Tail()
	}
}

// SetHeads writes src, ordered like Tails, into every port's newest slot.
func (b *Bank) SetHeads(src []float64) {
	for i, p := range b.pairs {
		p.Forward.SetHead(src[2*i])
		p.Backward.SetHead(src[2*i+1])
	}
}

// Energy returns the sum of squared samples stored in the bank.
func (b *Bank) Energy() float64 {
	var sum float64
	for _, p := range b.pairs {
		sum += p.Forward.Energy() + p.Backward.Energy()
	}
	return sum
}
