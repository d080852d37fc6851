// Package profile loads simulation profiles.
//
// A profile is a YAML document that overrides parts of the default device
// configuration for the host simulator. Fields left out keep their default
// value:
//
//	clock:
//	  frequency_mhz: 16
//	timer_a:
//	  prescale: 1
//	  period: 15
//	latch:
//	  polarity: true
package profile

import (
	"bytes"
	"io"
	"os"

	"github.com/db47h/clcsim/firmware"
	"github.com/db47h/clcsim/periph/clc"
	"github.com/db47h/clcsim/periph/osc"
	"github.com/db47h/clcsim/periph/pps"
	"github.com/db47h/clcsim/periph/tmr"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Profile is a set of configuration overrides.
type Profile struct {
	Name   string `yaml:"name"`
	Clock  *Clock `yaml:"clock"`
	TimerA *Timer `yaml:"timer_a"`
	TimerB *Timer `yaml:"timer_b"`
	Latch  *Latch `yaml:"latch"`
	Pin    *Pin   `yaml:"pin"`
}

// Clock overrides the oscillator configuration.
type Clock struct {
	Source       string `yaml:"source"`
	FrequencyMHz uint   `yaml:"frequency_mhz"`
	Divider      uint   `yaml:"divider"`
}

// Timer overrides the configuration of a timer.
type Timer struct {
	Source    string `yaml:"source"`
	Period    *uint8 `yaml:"period"`
	Prescale  uint   `yaml:"prescale"`
	Postscale uint8  `yaml:"postscale"`
	Enabled   *bool  `yaml:"enabled"`
}

// Input overrides one logic cell input slot.
type Input struct {
	Source string `yaml:"source"`
	Gate   *bool  `yaml:"gate"`
	Invert *bool  `yaml:"invert"`
}

// Latch overrides the logic cell configuration.
type Latch struct {
	Mode         string  `yaml:"mode"`
	Polarity     *bool   `yaml:"polarity"`
	Inputs       []Input `yaml:"inputs"`
	GatePolarity []bool  `yaml:"gate_polarity"`
	Enabled      *bool   `yaml:"enabled"`
}

// Pin overrides the output pin mapping.
type Pin struct {
	Direction string `yaml:"direction"`
	Route     string `yaml:"route"`
	Lat       *bool  `yaml:"lat"`
}

// Load reads and parses the profile in file path.
func Load(path string) (*Profile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(b)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return p, nil
}

// Parse parses a YAML profile. Unknown fields are rejected. Parse does not
// validate values; see Validate.
func Parse(b []byte) (*Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "parse profile")
	}
	return &p, nil
}

// Validate checks that every override names a known value. It does not
// modify p.
func Validate(p *Profile) error {
	_, err := Apply(p, firmware.Default())
	return err
}

// Apply returns c with the overrides in p applied. The resulting
// configuration is validated.
func Apply(p *Profile, c firmware.Config) (firmware.Config, error) {
	if p == nil {
		return c, nil
	}
	if err := p.Clock.apply(&c.Clock); err != nil {
		return c, errors.Wrap(err, "clock")
	}
	if err := p.TimerA.apply(&c.TimerA); err != nil {
		return c, errors.Wrap(err, "timer_a")
	}
	if err := p.TimerB.apply(&c.TimerB); err != nil {
		return c, errors.Wrap(err, "timer_b")
	}
	if err := p.Latch.apply(&c.Latch); err != nil {
		return c, errors.Wrap(err, "latch")
	}
	if err := p.Pin.apply(&c.Pin); err != nil {
		return c, errors.Wrap(err, "pin")
	}
	return c, nil
}

func (o *Clock) apply(c *osc.Config) error {
	if o == nil {
		return nil
	}
	if o.Source != "" {
		s, ok := osc.SourceByName(o.Source)
		if !ok {
			return errors.Errorf("unknown oscillator %q", o.Source)
		}
		c.Source = s
	}
	if o.FrequencyMHz != 0 {
		f, ok := osc.FrequencyOf(osc.Hz(o.FrequencyMHz) * osc.MHz)
		if !ok {
			return errors.Errorf("unsupported HFINTOSC frequency %d MHz", o.FrequencyMHz)
		}
		c.Frequency = f
	}
	if o.Divider != 0 {
		d, ok := osc.DividerOf(o.Divider)
		if !ok {
			return errors.Errorf("unsupported clock divider 1:%d", o.Divider)
		}
		c.Divider = d
	}
	if _, err := c.Fosc(); err != nil {
		return err
	}
	return c.Validate()
}

func (o *Timer) apply(c *tmr.Config) error {
	if o == nil {
		return nil
	}
	if o.Source != "" {
		s, ok := tmr.SourceByName(o.Source)
		if !ok {
			return errors.Errorf("unknown timer clock source %q", o.Source)
		}
		c.Source = s
	}
	if o.Period != nil {
		c.Period = *o.Period
	}
	if o.Prescale != 0 {
		p, ok := tmr.PrescaleOf(o.Prescale)
		if !ok {
			return errors.Errorf("unsupported prescaler ratio 1:%d", o.Prescale)
		}
		c.Prescale = p
	}
	if o.Postscale != 0 {
		c.Postscale = tmr.Postscale(o.Postscale)
	}
	if o.Enabled != nil {
		c.Enabled = *o.Enabled
	}
	return c.Validate()
}

func (o *Latch) apply(c *clc.Config) error {
	if o == nil {
		return nil
	}
	if o.Mode != "" {
		m, ok := clc.ModeByName(o.Mode)
		if !ok {
			return errors.Errorf("unknown mode %q", o.Mode)
		}
		c.Mode = m
	}
	if o.Polarity != nil {
		c.Polarity = *o.Polarity
	}
	if len(o.Inputs) > len(c.Inputs) {
		return errors.Errorf("%d inputs, at most %d", len(o.Inputs), len(c.Inputs))
	}
	for n, in := range o.Inputs {
		if in.Source != "" {
			s, ok := clc.SignalByName(in.Source)
			if !ok {
				return errors.Errorf("input %d: unknown signal %q", n+1, in.Source)
			}
			c.Inputs[n].Source = s
		}
		if in.Gate != nil {
			c.Inputs[n].Gate = *in.Gate
		}
		if in.Invert != nil {
			c.Inputs[n].Invert = *in.Invert
		}
	}
	if len(o.GatePolarity) > len(c.GatePolarity) {
		return errors.Errorf("%d gate polarities, at most %d", len(o.GatePolarity), len(c.GatePolarity))
	}
	copy(c.GatePolarity[:], o.GatePolarity)
	if o.Enabled != nil {
		c.Enabled = *o.Enabled
	}
	return c.Validate()
}

func (o *Pin) apply(m *pps.Mapping) error {
	if o == nil {
		return nil
	}
	switch o.Direction {
	case "":
	case "input":
		m.Direction = pps.Input
	case "output":
		m.Direction = pps.Output
	default:
		return errors.Errorf("invalid direction %q", o.Direction)
	}
	if o.Route != "" {
		s, ok := pps.SourceByName(o.Route)
		if !ok {
			return errors.Errorf("unknown route %q", o.Route)
		}
		m.Route = s
	}
	if o.Lat != nil {
		m.Lat = *o.Lat
	}
	return nil
}
