// Package tmr configures the 8-bit timers used as free-running pulse
// generators.
//
// A timer counts edges of its clock source through a prescaler. When the
// count matches the period register it resets, and every Postscale resets
// it emits a one clock wide pulse on its postscaled output. Once armed it
// runs for the lifetime of the program.
package tmr

import (
	"strconv"
	"time"

	"github.com/db47h/clcsim/periph/osc"
	"github.com/db47h/clcsim/reg"
	"github.com/pkg/errors"
)

// Instance is the register set of one timer peripheral.
type Instance struct {
	Name   string
	CLKCON reg.Reg
	PR     reg.Reg
	CON    reg.Reg
	HLT    reg.Reg
}

// Timer peripherals.
var (
	TMR2 = Instance{"TMR2", reg.T2CLKCON, reg.T2PR, reg.T2CON, reg.T2HLT}
	TMR4 = Instance{"TMR4", reg.T4CLKCON, reg.T4PR, reg.T4CON, reg.T4HLT}
)

func (t Instance) cs() reg.Field    { return reg.Field{Reg: t.CLKCON, Shift: 0, Width: 4} }
func (t Instance) on() reg.Field    { return reg.Bit(t.CON, 7) }
func (t Instance) ckps() reg.Field  { return reg.Field{Reg: t.CON, Shift: 4, Width: 3} }
func (t Instance) outps() reg.Field { return reg.Field{Reg: t.CON, Shift: 0, Width: 4} }
func (t Instance) mode() reg.Field  { return reg.Field{Reg: t.HLT, Shift: 0, Width: 5} }

// Source is a timer clock source (TxCLKCON.CS).
type Source uint8

// Clock sources.
const (
	FoscDiv4 Source = 1
	Fosc     Source = 2
	HFINTOSC Source = 3
	LFINTOSC Source = 4
	MFINTOSC Source = 5
)

var sourceNames = map[Source]string{
	FoscDiv4: "FOSC/4",
	Fosc:     "FOSC",
	HFINTOSC: "HFINTOSC",
	LFINTOSC: "LFINTOSC",
	MFINTOSC: "MFINTOSC",
}

func (s Source) String() string {
	if n, ok := sourceNames[s]; ok {
		return n
	}
	return "Source(" + strconv.Itoa(int(s)) + ")"
}

// SourceByName returns the clock source with the given name ("FOSC/4", ...).
func SourceByName(name string) (Source, bool) {
	for s, n := range sourceNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

// Hz returns the frequency of the clock source given the oscillator
// configuration.
func (s Source) Hz(clock osc.Config) (osc.Hz, error) {
	switch s {
	case FoscDiv4, Fosc:
		f, err := clock.Fosc()
		if err != nil {
			return 0, err
		}
		if s == FoscDiv4 {
			f /= 4
		}
		return f, nil
	case HFINTOSC:
		return clock.HFINTOSC(), nil
	case LFINTOSC:
		return osc.LFINTOSCHz, nil
	case MFINTOSC:
		return osc.MFINTOSCHz, nil
	}
	return 0, errors.Errorf("invalid timer clock source %s", s)
}

// Prescale is a clock prescaler selection (TxCON.CKPS). The ratio is
// 1<<Prescale.
type Prescale uint8

// Prescaler ratios.
const (
	Prescale1 Prescale = iota
	Prescale2
	Prescale4
	Prescale8
	Prescale16
	Prescale32
	Prescale64
	Prescale128
)

// Ratio returns the prescaler ratio.
func (p Prescale) Ratio() uint { return 1 << p }

// PrescaleOf returns the Prescale for the given ratio.
func PrescaleOf(ratio uint) (Prescale, bool) {
	for p := Prescale1; p <= Prescale128; p++ {
		if p.Ratio() == ratio {
			return p, true
		}
	}
	return 0, false
}

// Postscale is the output postscaler ratio, from 1 to 16.
type Postscale uint8

// Config is the configuration of one timer.
type Config struct {
	Source    Source
	Period    uint8
	Prescale  Prescale
	Postscale Postscale
	Enabled   bool
}

// Validate checks that all fields hold values from their enumeration.
func (c Config) Validate() error {
	if _, ok := sourceNames[c.Source]; !ok {
		return errors.Errorf("invalid timer clock source %s", c.Source)
	}
	if c.Prescale > Prescale128 {
		return errors.Errorf("invalid prescaler selection %d", c.Prescale)
	}
	if c.Postscale < 1 || c.Postscale > 16 {
		return errors.Errorf("postscaler ratio %d out of range [1, 16]", c.Postscale)
	}
	return nil
}

// Counts returns the number of source clock edges between two pulses.
func (c Config) Counts() uint64 {
	return uint64(c.Prescale.Ratio()) * (uint64(c.Period) + 1) * uint64(c.Postscale)
}

// PulsePeriod returns the time between two pulses for a source clocked at
// src, truncated to the nanosecond.
func (c Config) PulsePeriod(src osc.Hz) time.Duration {
	if src == 0 {
		return 0
	}
	return time.Duration(c.Counts() * uint64(time.Second) / uint64(src))
}

// Arm configures and starts timer t.
func Arm(w reg.Writer, t Instance, c Config) error {
	if err := c.Validate(); err != nil {
		return errors.Wrap(err, t.Name)
	}
	var on uint8
	if c.Enabled {
		on = 1
	}
	for _, f := range []struct {
		f reg.Field
		v uint8
	}{
		{t.cs(), uint8(c.Source)},
		{reg.Whole(t.PR), c.Period},
		{t.mode(), 0}, // free running, software gate
		{t.on(), on},
		{t.ckps(), uint8(c.Prescale)},
		{t.outps(), uint8(c.Postscale - 1)},
	} {
		if err := w.Set(f.f, f.v); err != nil {
			return errors.Wrap(err, t.Name)
		}
	}
	return nil
}

// Decode reads the configuration of timer t back from registers.
func Decode(r reg.Reader, t Instance) (Config, error) {
	if m := r.Get(t.mode()); m != 0 {
		return Config{}, errors.Errorf("%s: unsupported timer mode %d", t.Name, m)
	}
	c := Config{
		Source:    Source(r.Get(t.cs())),
		Period:    r.Read(t.PR),
		Prescale:  Prescale(r.Get(t.ckps())),
		Postscale: Postscale(r.Get(t.outps()) + 1),
		Enabled:   r.Get(t.on()) != 0,
	}
	if !c.Enabled {
		// a stopped timer never pulses, whatever its clock source.
		return c, nil
	}
	return c, errors.Wrap(c.Validate(), t.Name)
}
