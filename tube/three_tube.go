package tube

// ThreeTubeEngine simulates the T-shaped network:
//
//	x -> tube1 ---+--- tube2 -> y
//	              |
//	            tube3 (closed)
//
// Segment a is tube1 (glottis side), b is tube2 (lip side), c is tube3.
type ThreeTubeEngine struct {
	*core

	rg0, rl0, rl3 float64
	r12, r21, r31 float64
}

// NewThreeTube creates a T three-tube engine. p is copied.
func NewThreeTube(p *Params) (*ThreeTubeEngine, error) {
	if err := p.Validate(ThreeTube); err != nil {
		return nil, err
	}
	p = p.Clone()
	a := p.Areas

	rho1, err := BranchReflection(a[0], a[1], a[2])
	if err != nil {
		return nil, err
	}
	rho2, err := BranchReflection(a[1], a[2], a[0])
	if err != nil {
		return nil, err
	}
	rho3, err := BranchReflection(a[2], a[1], a[0])
	if err != nil {
		return nil, err
	}

	att := p.Attenuation
	c, err := newCore(ThreeTube, p, []float64{att, att, att})
	if err != nil {
		return nil, err
	}
	return &ThreeTubeEngine{
		core: c,
		rg0:  p.GlottisReflection,
		rl0:  p.LipReflection,
		rl3:  p.ClosedReflection,
		r12:  -rho1,
		r21:  rho2,
		r31:  rho3,
	}, nil
}

// Step advances the network by one sample.
func (t *ThreeTubeEngine) Step(x float64) float64 {
	t.advance()
	a1, a2 := t.tails[0], t.tails[1]
	b1, b2 := t.tails[2], t.tails[3]
	c1, c2 := t.tails[4], t.tails[5]

	h := t.heads
	// tube1: glottis boundary and junction side
	h[0] = ((1+t.rg0)/2)*x + t.rg0*a2
	h[1] = -t.r12*a1 + (1-t.r12)*b2 + (1-t.r12)*c2
	// tube2: junction side and lip boundary
	h[2] = (1+t.r21)*a1 + t.r21*b2 + (1+t.r21)*c2
	h[3] = -t.rl0 * b1
	// tube3: junction side and closed end
	h[4] = (1+t.r31)*a1 + t.r31*c2 + (1+t.r31)*b2
	h[5] = -t.rl3 * c1
	t.commit()

	return (1 + t.rl0) * b1
}

// Process runs the engine over input and returns an equal-length output.
func (t *ThreeTubeEngine) Process(input []float64) ([]float64, error) {
	return process(t.Step, input)
}

// FrequencyResponse evaluates the closed-form transfer function on a
// log-spaced grid of bands+1 points between low and high Hz.
func (t *ThreeTubeEngine) FrequencyResponse(low, high float64, bands int, opts ...ResponseOption) (*Response, error) {
	return t.frequencyResponse(low, high, bands, opts, func(d []complex128) (complex128, error) {
		return t.transfer(d), nil
	})
}

// transfer is the closed-form gain for one-way propagation factors d.
func (t *ThreeTubeEngine) transfer(d []complex128) complex128 {
	rg0 := complex(t.rg0, 0)
	rl0 := complex(t.rl0, 0)
	rl3 := complex(t.rl3, 0)
	r12 := complex(t.r12, 0)
	r21 := complex(t.r21, 0)
	r31 := complex(t.r31, 0)

	d1, d2 := d[0], d[1]
	rt1, rt2, rt3 := d1*d1, d2*d2, d[2]*d[2]

	num := 0.5 * (1 + rg0) * (1 + r21) * (1 + rl0) * d1 * d2
	den := 1 + r12*rg0*rt1 + r21*rl0*rt2 + rg0*rl0*(1-r12+r21)*rt1*rt2
	side := rl3 * (1 + r31) * (1 + rg0*rt1) * (1 - rl0*rt2) * rt3
	side /= 1 - rl3*rt3
	return num / (den + side)
}

// network returns the port table equivalent to Step.
func (t *ThreeTubeEngine) network() *network {
	const (
		a1, a2 = 0, 1
		b1, b2 = 2, 3
		c1, c2 = 4, 5
	)
	n := newNetwork(3)
	s := n.scatter
	s[a1][a2] = t.rg0
	s[a2][a1], s[a2][b2], s[a2][c2] = -t.r12, 1-t.r12, 1-t.r12
	s[b1][a1], s[b1][b2], s[b1][c2] = 1+t.r21, t.r21, 1+t.r21
	s[b2][b1] = -t.rl0
	s[c1][a1], s[c1][b2], s[c1][c2] = 1+t.r31, 1+t.r31, t.r31
	s[c2][c1] = -t.rl3
	n.input[a1] = (1 + t.rg0) / 2
	n.output[b1] = 1 + t.rl0
	return n
}

// CheckInvariants recomputes the conservation sums of the junction.
func (t *ThreeTubeEngine) CheckInvariants() Invariants {
	j := JunctionCheck{
		Name:         "tube1/tube2/tube3",
		Coefficients: [3]float64{t.r12, t.r21, t.r31},
		Sums: [3]float64{
			-t.r12 + (1 + t.r21) + (1 + t.r31),
			(1 - t.r12) + t.r21 + (1 + t.r31),
			(1 - t.r12) + (1 + t.r21) + t.r31,
		},
	}
	maxR, lossless := boundaryReport(t.attenuations, t.rg0, t.rl0, t.rl3)
	return Invariants{
		Junctions:             []JunctionCheck{j},
		MaxBoundaryReflection: maxR,
		Lossless:              lossless,
	}
}
