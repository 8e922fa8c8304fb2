package tube

// OneLoopEngine simulates the four-tube network with one closed loop:
//
//	              +--- tube2 ---+
//	x -> tube1 ---+             +--- tube4 -> y
//	              +--- tube3 ---+
//
// Segments a..d are tube1..tube4. tube2 and tube3 form the loop and use the
// loop attenuation.
type OneLoopEngine struct {
	*core

	rg0, rl0      float64
	r12, r21, r31 float64 // junction 1
	r23, r32, r42 float64 // junction 2
}

// NewOneLoop creates a one-loop four-tube engine. p is copied.
func NewOneLoop(p *Params) (*OneLoopEngine, error) {
	if err := p.Validate(OneLoop); err != nil {
		return nil, err
	}
	p = p.Clone()
	a := p.Areas

	var rho [6]float64
	args := [6][3]float64{
		{a[0], a[1], a[2]}, // tube1 at junction 1
		{a[1], a[2], a[0]}, // tube2 at junction 1
		{a[2], a[1], a[0]}, // tube3 at junction 1
		{a[1], a[2], a[3]}, // tube2 at junction 2
		{a[2], a[1], a[3]}, // tube3 at junction 2
		{a[3], a[1], a[2]}, // tube4 at junction 2
	}
	for i, v := range args {
		r, err := BranchReflection(v[0], v[1], v[2])
		if err != nil {
			return nil, err
		}
		rho[i] = r
	}

	att, loop := p.Attenuation, p.LoopAttenuation
	c, err := newCore(OneLoop, p, []float64{att, loop, loop, att})
	if err != nil {
		return nil, err
	}
	return &OneLoopEngine{
		core: c,
		rg0:  p.GlottisReflection,
		rl0:  p.LipReflection,
		r12:  -rho[0],
		r21:  rho[1],
		r31:  rho[2],
		r23:  -rho[3],
		r32:  -rho[4],
		r42:  rho[5],
	}, nil
}

// Step advances the network by one sample.
func (t *OneLoopEngine) Step(x float64) float64 {
	t.advance()
	a1, a2 := t.tails[0], t.tails[1]
	b1, b2 := t.tails[2], t.tails[3]
	c1, c2 := t.tails[4], t.tails[5]
	d1, d2 := t.tails[6], t.tails[7]

	h := t.heads
	h[0] = ((1+t.rg0)/2)*x + t.rg0*a2
	h[1] = -t.r12*a1 + (1-t.r12)*b2 + (1-t.r12)*c2
	// loop, upper branch
	h[2] = (1+t.r21)*a1 + t.r21*b2 + (1+t.r21)*c2
	h[3] = -t.r23*b1 + (1-t.r23)*c1 + (1-t.r23)*d2
	// loop, lower branch
	h[4] = (1+t.r31)*a1 + (1+t.r31)*b2 + t.r31*c2
	h[5] = (1-t.r32)*b1 - t.r32*c1 + (1-t.r32)*d2
	h[6] = (1+t.r42)*b1 + (1+t.r42)*c1 + t.r42*d2
	h[7] = -t.rl0 * d1
	t.commit()

	return (1 + t.rl0) * d1
}

// Process runs the engine over input and returns an equal-length output.
func (t *OneLoopEngine) Process(input []float64) ([]float64, error) {
	return process(t.Step, input)
}

// FrequencyResponse solves the scattering network on a log-spaced grid of
// bands+1 points between low and high Hz.
func (t *OneLoopEngine) FrequencyResponse(low, high float64, bands int, opts ...ResponseOption) (*Response, error) {
	n := t.network()
	return t.frequencyResponse(low, high, bands, opts, n.transfer)
}

// network returns the port table equivalent to Step.
func (t *OneLoopEngine) network() *network {
	const (
		a1, a2 = 0, 1
		b1, b2 = 2, 3
		c1, c2 = 4, 5
		d1, d2 = 6, 7
	)
	n := newNetwork(4)
	s := n.scatter
	s[a1][a2] = t.rg0
	s[a2][a1], s[a2][b2], s[a2][c2] = -t.r12, 1-t.r12, 1-t.r12
	s[b1][a1], s[b1][b2], s[b1][c2] = 1+t.r21, t.r21, 1+t.r21
	s[b2][b1], s[b2][c1], s[b2][d2] = -t.r23, 1-t.r23, 1-t.r23
	s[c1][a1], s[c1][b2], s[c1][c2] = 1+t.r31, 1+t.r31, t.r31
	s[c2][b1], s[c2][c1], s[c2][d2] = 1-t.r32, -t.r32, 1-t.r32
	s[d1][b1], s[d1][c1], s[d1][d2] = 1+t.r42, 1+t.r42, t.r42
	s[d2][d1] = -t.rl0
	n.input[a1] = (1 + t.rg0) / 2
	n.output[d1] = 1 + t.rl0
	return n
}

// CheckInvariants recomputes the conservation sums of both junctions.
func (t *OneLoopEngine) CheckInvariants() Invariants {
	j1 := JunctionCheck{
		Name:         "tube1/tube2/tube3",
		Coefficients: [3]float64{t.r12, t.r21, t.r31},
		Sums: [3]float64{
			-t.r12 + (1 + t.r21) + (1 + t.r31),
			(1 - t.r12) + t.r21 + (1 + t.r31),
			(1 - t.r12) + (1 + t.r21) + t.r31,
		},
	}
	j2 := JunctionCheck{
		Name:         "tube2/tube3/tube4",
		Coefficients: [3]float64{t.r23, t.r32, t.r42},
		Sums: [3]float64{
			-t.r23 + (1 - t.r32) + (1 + t.r42),
			(1 - t.r23) - t.r32 + (1 + t.r42),
			(1 - t.r23) + (1 - t.r32) + t.r42,
		},
	}
	maxR, lossless := boundaryReport(t.attenuations, t.rg0, t.rl0)
	return Invariants{
		Junctions:             []JunctionCheck{j1, j2},
		MaxBoundaryReflection: maxR,
		Lossless:              lossless,
	}
}
