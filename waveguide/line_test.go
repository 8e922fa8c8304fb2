package waveguide

import (
	"math"
	"testing"
)

func TestDelayLineClampsLength(t *testing.T) {
	for _, n := range []int{-3, 0, 1} {
		d := NewDelayLine(n, 1.0)
		if d.Len() != 1 {
			t.Fatalf("length %d: got Len()=%d, want 1", n, d.Len())
		}
	}
}

func TestDelayLineShiftMovesTowardsTail(t *testing.T) {
	d := NewDelayLine(4, 1.0)
	d.SetHead(1)
	for step := 1; step < 4; step++ {
		d.Shift()
		if d.At(step) != 1 {
			t.Fatalf("step %d: sample not at slot %d", step, step)
		}
		d.SetHead(0)
	}
	if d.Tail() != 1 {
		t.Fatalf("expected impulse at tail, got %v", d.Tail())
	}
	d.Shift()
	if d.Tail() != 0 {
		t.Fatalf("impulse should have left the line, tail=%v", d.Tail())
	}
}

func TestDelayLineShiftKeepsHeadUntilOverwritten(t *testing.T) {
	d := NewDelayLine(3, 1.0)
	d.SetHead(0.5)
	d.Shift()
	if d.At(0) != 0.5 || d.At(1) != 0.5 {
		t.Fatalf("shift should duplicate the head into slot 1: %v %v", d.At(0), d.At(1))
	}
}

func TestDelayLineAttenuationPerSlot(t *testing.T) {
	const att = 0.9
	d := NewDelayLine(5, att)
	d.SetHead(1)
	for i := 0; i < 4; i++ {
		d.Shift()
		d.SetHead(0)
	}
	want := math.Pow(att, 4)
	if math.Abs(d.Tail()-want) > 1e-15 {
		t.Fatalf("tail=%v want %v", d.Tail(), want)
	}
}

func TestDelayLineFlushesDenormals(t *testing.T) {
	d := NewDelayLine(2, 0.5)
	d.SetHead(1e-31)
	d.Shift()
	if d.Tail() != 0 {
		t.Fatalf("expected tiny value to be flushed, got %g", d.Tail())
	}
}

func TestSingleSlotLineIsARegister(t *testing.T) {
	d := NewDelayLine(1, 1.0)
	d.SetHead(2)
	d.Shift()
	if d.Tail() != 2 {
		t.Fatalf("single-slot line should hold its value across a shift, got %v", d.Tail())
	}
}
