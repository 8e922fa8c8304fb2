package tube

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tube/waveguide"
)

// Engine is one self-contained acoustic tube simulation.
type Engine interface {
	Topology() Topology
	SampleRate() int
	Segments() []Segment

	// Step consumes one input sample and returns one output sample.
	Step(x float64) float64
	// Process runs Step over a whole buffer. Processing a buffer at once or
	// sample by sample gives identical results.
	Process(input []float64) ([]float64, error)

	FrequencyResponse(low, high float64, bands int, opts ...ResponseOption) (*Response, error)
	CheckInvariants() Invariants
}

// New creates an engine of the given topology.
func New(t Topology, p *Params) (Engine, error) {
	switch t {
	case ThreeTube:
		return NewThreeTube(p)
	case OneLoop:
		return NewOneLoop(p)
	default:
		return nil, fmt.Errorf("%w: unknown topology %v", ErrInvalidParams, t)
	}
}

// core is the state shared by every topology: geometry, delay-line bank and
// the scratch buffers of one step.
type core struct {
	topology     Topology
	params       *Params
	segments     []Segment
	delays       []float64
	delaySamples []int
	attenuations []float64

	bank  *waveguide.Bank
	tails []float64
	heads []float64
}

func newCore(t Topology, p *Params, attenuations []float64) (*core, error) {
	segs := p.Segments()
	c := &core{
		topology:     t,
		params:       p,
		segments:     segs,
		delays:       make([]float64, len(segs)),
		delaySamples: make([]int, len(segs)),
		attenuations: attenuations,
	}
	lengths := make([]int, len(segs))
	for i, s := range segs {
		c.delays[i] = s.Delay()
		c.delaySamples[i] = s.DelaySamples(p.SampleRate)
		lengths[i] = s.lineLength(p.SampleRate)
	}
	bank, err := waveguide.NewBank(lengths, attenuations)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	c.bank = bank
	c.tails = make([]float64, bank.Ports())
	c.heads = make([]float64, bank.Ports())
	return c, nil
}

// Topology returns the junction layout.
func (c *core) Topology() Topology {
	return c.topology
}

// SampleRate returns the simulation rate in Hz.
func (c *core) SampleRate() int {
	return c.params.SampleRate
}

// Segments returns a copy of the tube geometry.
func (c *core) Segments() []Segment {
	return append([]Segment(nil), c.segments...)
}

// Delays returns the exact one-way delay of every segment in seconds.
func (c *core) Delays() []float64 {
	return append([]float64(nil), c.delays...)
}

// DelaySamples returns the realised one-way delay of every segment in samples.
func (c *core) DelaySamples() []int {
	return append([]int(nil), c.delaySamples...)
}

// StoredEnergy returns the sum of squared samples held in all delay lines.
func (c *core) StoredEnergy() float64 {
	return c.bank.Energy()
}

// advance shifts every line and snapshots all tails before any head is
// written, so the junction equations only see last step's waves.
func (c *core) advance() {
	c.bank.Shift()
	c.bank.Tails(c.tails)
}

func (c *core) commit() {
	c.bank.SetHeads(c.heads)
}

func process(step func(float64) float64, input []float64) ([]float64, error) {
	out := make([]float64, len(input))
	for i, x := range input {
		if !isFinite(x) {
			return nil, fmt.Errorf("%w: input sample %d is %v", ErrNonFinite, i, x)
		}
		y := step(x)
		if !isFinite(y) {
			return nil, fmt.Errorf("%w: output sample %d is %v", ErrNonFinite, i, y)
		}
		out[i] = y
	}
	return out, nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
