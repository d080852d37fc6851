// Package sim runs a configured device.
//
// New decodes a register file into a circuit clocked at the system clock
// frequency: the two timers, the logic cell with its data inputs wired to
// the selected signals, and the output driver of the pin the cell is routed
// to. Probes record the level changes of every signal once per clock cycle.
package sim

import (
	"log"

	"github.com/db47h/clcsim"
	hl "github.com/db47h/clcsim/hwlib"
	"github.com/db47h/clcsim/periph/clc"
	"github.com/db47h/clcsim/periph/osc"
	"github.com/db47h/clcsim/periph/pps"
	"github.com/db47h/clcsim/periph/tmr"
	"github.com/db47h/clcsim/reg"
	"github.com/pkg/errors"
)

// Option is a simulation option.
type Option func(*Sim)

// Workers sets the number of goroutines updating the circuit. See
// clcsim.NewCircuit.
func Workers(n int) Option { return func(s *Sim) { s.workers = n } }

// StepsPerCycle sets the number of simulation steps per system clock cycle.
// See clcsim.NewCircuit.
func StepsPerCycle(n uint) Option { return func(s *Sim) { s.spc = n } }

// Logger sets a logger. Level changes of the pin are logged at the end of
// each Run.
func Logger(l *log.Logger) Option { return func(s *Sim) { s.log = l } }

type timer struct {
	inst tmr.Instance
	cfg  tmr.Config
	src  osc.Hz
	rec  hl.Recorder
}

// Sim is a running device simulation.
type Sim struct {
	workers int
	spc     uint
	log     *log.Logger

	clock  osc.Config
	fosc   osc.Hz
	timers []*timer
	latch  clc.Config
	pin    pps.Mapping

	c        *clcsim.Circuit
	pad      hl.Recorder
	out      hl.Recorder // logic cell output, before the pin driver
	conflict hl.Recorder
	driven   bool
	logged   int
}

// New returns a simulation of the device configured with the registers in r.
func New(r reg.Reader, opts ...Option) (*Sim, error) {
	s := &Sim{workers: 1, spc: 4}
	for _, o := range opts {
		o(s)
	}

	var err error
	if s.clock, err = osc.Decode(r); err != nil {
		return nil, errors.Wrap(err, "oscillator")
	}
	if s.fosc, err = s.clock.Fosc(); err != nil {
		return nil, err
	}

	parts := clcsim.Parts{}
	driven := map[string]bool{}
	for _, t := range []struct {
		inst tmr.Instance
		sig  clc.Signal
	}{
		{tmr.TMR2, clc.TMR2Out},
		{tmr.TMR4, clc.TMR4Out},
	} {
		tm := &timer{inst: t.inst}
		if tm.cfg, err = tmr.Decode(r, t.inst); err != nil {
			return nil, err
		}
		if tm.cfg.Enabled {
			if tm.src, err = tm.cfg.Source.Hz(s.clock); err != nil {
				return nil, errors.Wrap(err, t.inst.Name)
			}
		}
		p, err := tmr.Part(t.inst.Name, tm.cfg, s.fosc, tm.src)
		if err != nil {
			return nil, err
		}
		w := t.sig.Wire()
		parts = append(parts, p("out="+w), tm.rec.Probe()("in="+w))
		driven[w] = true
		s.timers = append(s.timers, tm)
	}

	if s.latch, err = clc.Decode(r, clc.CLC1); err != nil {
		return nil, err
	}
	cell, err := clc.Part("CLC1", s.latch)
	if err != nil {
		return nil, err
	}
	conns := "out=clc1out, conflict=conflict"
	for n, in := range s.latch.Inputs {
		w := in.Source.Wire()
		conns += ", " + clcsim.BusPinName("d", n) + "=" + w
		if !driven[w] {
			// external inputs are not modeled.
			parts = append(parts, hl.Input(func() bool { return false })("out="+w))
			driven[w] = true
		}
	}
	parts = append(parts,
		cell(conns),
		s.out.Probe()("in=clc1out"),
		s.conflict.Probe()("in=conflict"),
	)

	if s.pin, err = pps.Decode(r, pps.RA2); err != nil {
		return nil, err
	}
	pc := "pad=pad, driven=driven"
	if s.pin.Route == pps.CLC1Out {
		pc += ", in=clc1out"
	}
	parts = append(parts,
		pps.Part(s.pin)(pc),
		s.pad.Probe()("in=pad"),
		hl.Output(func(v bool) { s.driven = v })("in=driven"),
	)

	if s.c, err = clcsim.NewCircuit(s.workers, s.spc, parts...); err != nil {
		return nil, errors.Wrap(err, "circuit")
	}
	return s, nil
}

// Close stops the simulation and releases its resources.
func (s *Sim) Close() {
	if s.c != nil {
		s.c.Dispose()
		s.c = nil
	}
}

// Run runs the simulation for the given number of system clock cycles.
func (s *Sim) Run(cycles uint) {
	for i := uint(0); i < cycles; i++ {
		s.c.TickTock()
	}
	if s.log == nil {
		return
	}
	edges := s.pad.Edges()
	for _, e := range edges[s.logged:] {
		lvl := "low"
		if e.Level {
			lvl = "high"
		}
		s.log.Printf("%s %s at cycle %d (%v)", s.pin.Pin, lvl, e.Cycle, s.Duration(float64(e.Cycle)))
	}
	s.logged = len(edges)
}

// Fosc returns the system clock frequency.
func (s *Sim) Fosc() osc.Hz { return s.fosc }

// Cycle returns the number of system clock cycles run so far.
func (s *Sim) Cycle() uint { return s.c.Cycles() }

// Pin returns the level of the pin.
func (s *Sim) Pin() bool { return s.pad.Level() }

// Driven returns true if the pin output driver is enabled.
func (s *Sim) Driven() bool { return s.driven }

// Edges returns the level changes of the pin.
func (s *Sim) Edges() []hl.Edge { return s.pad.Edges() }

// Output returns the level changes of the logic cell output, whether or not
// it is routed to the pin.
func (s *Sim) Output() []hl.Edge { return s.out.Edges() }

// Pulses returns the cycles at which the named timer ("TMR2", "TMR4")
// pulsed.
func (s *Sim) Pulses(name string) []uint {
	for _, t := range s.timers {
		if t.inst.Name == name {
			return t.rec.Rising()
		}
	}
	return nil
}

// Conflicts returns the cycles at which the Set and Reset terms of the
// logic cell were asserted together.
func (s *Sim) Conflicts() []uint { return s.conflict.Rising() }
