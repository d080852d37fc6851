// Package clc configures the configurable logic cell.
//
// A logic cell has four data inputs, each selected from the internal signal
// bus. Each data input feeds one of four gates, optionally inverted. Gate
// outputs, each with its own polarity, drive the logic function selected
// by the cell mode. The cell output is the function output XOR the output
// polarity.
//
// In SRLatch mode, gates 1 and 2 are ORed into the Set term and gates 3 and
// 4 into the Reset term.
package clc

import (
	"strconv"

	"github.com/db47h/clcsim/reg"
	"github.com/pkg/errors"
)

// Signal is an internal signal that can be selected as a data input
// (CLCxSELy.DyS).
type Signal uint8

// Signals.
const (
	CLCIN0  Signal = 0x00
	CLCIN1  Signal = 0x01
	CLCIN2  Signal = 0x02
	CLCIN3  Signal = 0x03
	TMR2Out Signal = 0x13
	TMR4Out Signal = 0x15
)

var signals = map[Signal]struct{ name, wire string }{
	CLCIN0:  {"CLCIN0", "clcin0"},
	CLCIN1:  {"CLCIN1", "clcin1"},
	CLCIN2:  {"CLCIN2", "clcin2"},
	CLCIN3:  {"CLCIN3", "clcin3"},
	TMR2Out: {"TMR2_OUT", "tmr2"},
	TMR4Out: {"TMR4_OUT", "tmr4"},
}

func (s Signal) String() string {
	if n, ok := signals[s]; ok {
		return n.name
	}
	return "Signal(0x" + strconv.FormatUint(uint64(s), 16) + ")"
}

// Wire returns the name of the wire carrying s in a simulated device.
func (s Signal) Wire() string {
	return signals[s].wire
}

// SignalByName returns the signal with the given name ("TMR2_OUT", ...).
func SignalByName(name string) (Signal, bool) {
	for s, n := range signals {
		if n.name == name {
			return s, true
		}
	}
	return 0, false
}

// Mode is a logic cell function (CLCxCON.MODE).
type Mode uint8

// Logic cell functions.
const (
	AndOr              Mode = iota // (g1 & g2) | (g3 & g4)
	OrXor                          // (g1 | g2) ^ (g3 | g4)
	And4                           // g1 & g2 & g3 & g4
	SRLatch                        // S = g1 | g2, R = g3 | g4
	DFlipFlopSR                    // clock g1, D g2, R g3, S g4
	DFlipFlop2R                    // clock g1, D g2 & g4, R g3
	JKFlipFlopR                    // clock g1, J g2, R g3, K g4
	TransparentLatchSR             // R g1, D g2, LE g3 (active low), S g4
)

var modeNames = [...]string{"AND-OR", "OR-XOR", "AND4", "SR-LATCH", "DFF-SR", "DFF-2R", "JKFF-R", "LATCH-SR"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "Mode(" + strconv.Itoa(int(m)) + ")"
}

// ModeByName returns the mode with the given name ("SR-LATCH", ...).
func ModeByName(name string) (Mode, bool) {
	for m, n := range modeNames {
		if n == name {
			return Mode(m), true
		}
	}
	return 0, false
}

// Input is the configuration of one input slot: the signal selected as
// data input n, and how it is gated into gate n.
type Input struct {
	Source Signal
	Gate   bool // data input n feeds gate n
	Invert bool // data input n is inverted before gate n
}

// Config is a logic cell configuration.
type Config struct {
	Polarity     bool // invert the cell output
	Inputs       [4]Input
	GatePolarity [4]bool // invert the output of each gate
	Mode         Mode
	Enabled      bool
}

// Validate checks that all fields hold values from their enumeration.
func (c Config) Validate() error {
	for i, in := range c.Inputs {
		if _, ok := signals[in.Source]; !ok {
			return errors.Errorf("input %d: invalid source %s", i, in.Source)
		}
	}
	if c.Mode > TransparentLatchSR {
		return errors.Errorf("invalid mode %s", c.Mode)
	}
	return nil
}

// gls returns the gate logic select value for gate n.
func (c Config) gls(n int) uint8 {
	in := c.Inputs[n]
	switch {
	case !in.Gate:
		return 0
	case in.Invert:
		return 1 << uint(2*n) // DnN
	}
	return 1 << uint(2*n+1) // DnT
}

// Instance is the register set of one logic cell.
type Instance struct {
	Name string
	CON  reg.Reg
	POL  reg.Reg
	SEL  [4]reg.Reg
	GLS  [4]reg.Reg
}

// CLC1 is the first logic cell.
var CLC1 = Instance{
	Name: "CLC1",
	CON:  reg.CLC1CON,
	POL:  reg.CLC1POL,
	SEL:  [4]reg.Reg{reg.CLC1SEL0, reg.CLC1SEL1, reg.CLC1SEL2, reg.CLC1SEL3},
	GLS:  [4]reg.Reg{reg.CLC1GLS0, reg.CLC1GLS1, reg.CLC1GLS2, reg.CLC1GLS3},
}

func (l Instance) en() reg.Field           { return reg.Bit(l.CON, 7) }
func (l Instance) mode() reg.Field         { return reg.Field{Reg: l.CON, Shift: 0, Width: 3} }
func (l Instance) pol() reg.Field          { return reg.Bit(l.POL, 7) }
func (l Instance) gpol(n int) reg.Field    { return reg.Bit(l.POL, uint8(n)) }
func (l Instance) sel(n int) reg.Field     { return reg.Field{Reg: l.SEL[n], Shift: 0, Width: 6} }
func (l Instance) gateSel(n int) reg.Field { return reg.Whole(l.GLS[n]) }

func bit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// Configure writes the logic cell configuration: output and gate
// polarities, data input selections, gate logic, then the mode and finally
// the enable bit.
func Configure(w reg.Writer, l Instance, c Config) error {
	if err := c.Validate(); err != nil {
		return errors.Wrap(err, l.Name)
	}
	type fv struct {
		f reg.Field
		v uint8
	}
	seq := []fv{{l.pol(), bit(c.Polarity)}}
	for n := range c.GatePolarity {
		seq = append(seq, fv{l.gpol(n), bit(c.GatePolarity[n])})
	}
	for n := range c.Inputs {
		seq = append(seq, fv{l.sel(n), uint8(c.Inputs[n].Source)})
	}
	for n := range c.Inputs {
		seq = append(seq, fv{l.gateSel(n), c.gls(n)})
	}
	seq = append(seq, fv{l.mode(), uint8(c.Mode)}, fv{l.en(), bit(c.Enabled)})
	for _, s := range seq {
		if err := w.Set(s.f, s.v); err != nil {
			return errors.Wrap(err, l.Name)
		}
	}
	return nil
}

// Decode reads the logic cell configuration back from registers. Gate logic
// where gate n uses anything else than data input n is not supported.
func Decode(r reg.Reader, l Instance) (Config, error) {
	c := Config{
		Polarity: r.Get(l.pol()) != 0,
		Mode:     Mode(r.Get(l.mode())),
		Enabled:  r.Get(l.en()) != 0,
	}
	for n := range c.Inputs {
		c.GatePolarity[n] = r.Get(l.gpol(n)) != 0
		in := &c.Inputs[n]
		in.Source = Signal(r.Get(l.sel(n)))
		switch g := r.Get(l.gateSel(n)); g {
		case 0:
		case 1 << uint(2*n+1):
			in.Gate = true
		case 1 << uint(2*n):
			in.Gate, in.Invert = true, true
		default:
			return c, errors.Errorf("%s: unsupported gate logic 0x%02X for gate %d", l.Name, g, n+1)
		}
	}
	return c, errors.Wrap(c.Validate(), l.Name)
}
