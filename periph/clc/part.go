package clc

import (
	"github.com/db47h/clcsim"
	hl "github.com/db47h/clcsim/hwlib"
	"github.com/pkg/errors"
)

// gate n: OR of the data inputs selected by gls, XOR pol.
func dataGate(gls uint8, pol bool) *clcsim.PartSpec {
	return &clcsim.PartSpec{
		Name:    "GATE",
		Inputs:  clcsim.IO("d[4]"),
		Outputs: []string{"out"},
		Mount: func(s *clcsim.Socket) []clcsim.Component {
			d, out := s.Bus("d", 4), s.Pin("out")
			return []clcsim.Component{func(c *clcsim.Circuit) {
				v := false
				for x, pin := range d {
					in := c.Get(pin)
					if gls&(1<<uint(2*x+1)) != 0 && in || gls&(1<<uint(2*x)) != 0 && !in {
						v = true
						break
					}
				}
				c.Set(out, v != pol)
			}}
		},
	}
}

// An srLatch is the state of a logic cell in SRLatch mode. Set and Reset
// terms are sampled once per clock cycle.
type srLatch struct {
	q            bool
	prevS, prevR bool
}

// clock samples the Set and Reset terms and returns the new state. A rising
// Set while Reset is low sets the latch, a rising Reset while Set is low
// resets it. When both terms are high, the latch holds its state and
// conflict is true.
func (l *srLatch) clock(s, r bool) (q, conflict bool) {
	switch {
	case s && r:
		conflict = true
	case s && !l.prevS:
		l.q = true
	case r && !l.prevR:
		l.q = false
	}
	l.prevS, l.prevR = s, r
	return l.q, conflict
}

// core implements the mode function. Combinational modes are evaluated
// every step, sequential ones once per clock cycle.
func core(m Mode, enabled bool) *clcsim.PartSpec {
	return &clcsim.PartSpec{
		Name:    "CORE_" + m.String(),
		Inputs:  clcsim.IO("g[4]"),
		Outputs: []string{"q", "conflict"},
		Mount: func(s *clcsim.Socket) []clcsim.Component {
			gp, qp, cp := s.Bus("g", 4), s.Pin("q"), s.Pin("conflict")
			var (
				sr      srLatch
				q, cf   bool
				prevClk bool
			)
			return []clcsim.Component{func(c *clcsim.Circuit) {
				var g [4]bool
				for i, p := range gp {
					g[i] = c.Get(p)
				}
				switch {
				case !enabled:
					q, cf = false, false
				case m == AndOr:
					q = g[0] && g[1] || g[2] && g[3]
				case m == OrXor:
					q = (g[0] || g[1]) != (g[2] || g[3])
				case m == And4:
					q = g[0] && g[1] && g[2] && g[3]
				case !c.AtTick():
				case m == SRLatch:
					q, cf = sr.clock(g[0] || g[1], g[2] || g[3])
				default:
					clk := g[0] && !prevClk
					prevClk = g[0]
					q = sequential(m, q, clk, g)
				}
				c.Set(qp, q)
				c.Set(cp, cf)
			}}
		},
	}
}

// sequential returns the next state of the flip-flop modes given the
// current state q, whether the clock gate rose since the last cycle, and the
// gate outputs. Reset has priority over Set.
func sequential(m Mode, q, clk bool, g [4]bool) bool {
	switch m {
	case DFlipFlopSR:
		switch {
		case g[2]:
			return false
		case g[3]:
			return true
		case clk:
			return g[1]
		}
	case DFlipFlop2R:
		switch {
		case g[2]:
			return false
		case clk:
			return g[1] && g[3]
		}
	case JKFlipFlopR:
		switch {
		case g[2]:
			return false
		case !clk:
		case g[1] && g[3]:
			return !q
		case g[1]:
			return true
		case g[3]:
			return false
		}
	case TransparentLatchSR:
		switch {
		case g[0]:
			return false
		case g[3]:
			return true
		case !g[2]:
			return g[1]
		}
	}
	return q
}

// Part returns a simulation part for a logic cell configured with c.
//
// Data input n must be connected to the wire carrying c.Inputs[n].Source. A
// disabled cell holds its output low.
//
//	Inputs: d[4]
//	Outputs: out, conflict
//	Function: out = mode(gates(d)) ^ c.Polarity
//
// conflict is high during cycles where the Set and Reset terms of a cell in
// SRLatch mode are both asserted.
func Part(name string, c Config) (clcsim.NewPartFn, error) {
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, name)
	}
	parts := clcsim.Parts{}
	for n := 0; n < 4; n++ {
		g := dataGate(c.gls(n), c.GatePolarity[n]).NewPart
		parts = append(parts, g("d[0..3]=d[0..3], out="+clcsim.BusPinName("g", n)))
	}
	pol := clcsim.False
	if c.Polarity && c.Enabled {
		pol = clcsim.True
	}
	parts = append(parts,
		core(c.Mode, c.Enabled).NewPart("g[0..3]=g[0..3], q=q, conflict=conflict"),
		hl.Xor("a=q, b="+pol+", out=out"),
	)
	return clcsim.Chip(name, "d[4]", "out, conflict", parts...)
}
