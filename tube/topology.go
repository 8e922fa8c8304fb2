// Package tube simulates acoustic wave propagation through branched
// vocal-tract tube networks as digital waveguides.
//
// Two topologies are provided. ThreeTube is the "T" network: tube1 runs from
// the glottis to a three-way junction, tube2 continues to the lips and tube3
// is a side branch with a closed end. OneLoop joins four tubes so that tube2
// and tube3 run in parallel between the input tube1 and the output tube4.
//
// Each segment is a pair of shift-register delay lines. Every sample the
// lines shift by one slot, the junction equations read the tail of every
// line and write new heads. The same geometry also feeds an analytic
// frequency-response evaluator used to validate the time-domain engine.
package tube

import (
	"fmt"
	"strings"
)

// Topology selects the junction layout of an engine.
type Topology int

const (
	// ThreeTube is the T-shaped network with a closed side branch.
	ThreeTube Topology = iota
	// OneLoop is the four-tube network with one closed loop.
	OneLoop
)

// Segments returns the number of tube segments of the topology.
func (t Topology) Segments() int {
	switch t {
	case ThreeTube:
		return 3
	case OneLoop:
		return 4
	default:
		return 0
	}
}

// Junctions returns the number of three-way junctions of the topology.
func (t Topology) Junctions() int {
	switch t {
	case ThreeTube:
		return 1
	case OneLoop:
		return 2
	default:
		return 0
	}
}

func (t Topology) String() string {
	switch t {
	case ThreeTube:
		return "three-tube"
	case OneLoop:
		return "one-loop"
	default:
		return fmt.Sprintf("Topology(%d)", int(t))
	}
}

// ParseTopology accepts the names produced by String plus a few aliases.
func ParseTopology(s string) (Topology, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "three-tube", "three", "t", "t-three-tube", "3":
		return ThreeTube, nil
	case "one-loop", "oneloop", "loop", "four-tube", "4":
		return OneLoop, nil
	default:
		return 0, fmt.Errorf("unknown topology %q (use three-tube or one-loop)", s)
	}
}
