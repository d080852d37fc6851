// Package pps configures pin direction and peripheral pin select output
// routing.
//
// A pin shows the routed peripheral output only once its direction is
// Output. Routing a signal to a pin that is still an input is harmless: the
// pin is simply not driven.
package pps

import (
	"strconv"

	"github.com/db47h/clcsim"
	"github.com/db47h/clcsim/reg"
	"github.com/pkg/errors"
)

// Pin is a device pin.
type Pin uint8

// Pins.
const (
	RA2 Pin = iota
)

var pins = [...]struct {
	name string
	tris reg.Field
	lat  reg.Field
	pps  reg.Field
}{
	RA2: {"RA2", reg.Bit(reg.TRISA, 2), reg.Bit(reg.LATA, 2), reg.Field{Reg: reg.RA2PPS, Shift: 0, Width: 5}},
}

func (p Pin) valid() bool { return int(p) < len(pins) }

func (p Pin) String() string {
	if p.valid() {
		return pins[p].name
	}
	return "Pin(" + strconv.Itoa(int(p)) + ")"
}

// PinByName returns the pin with the given name.
func PinByName(name string) (Pin, bool) {
	for i := range pins {
		if pins[i].name == name {
			return Pin(i), true
		}
	}
	return 0, false
}

// Direction is a pin direction.
type Direction uint8

// Pin directions.
const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// Source is a peripheral output that can be routed to a pin (RxyPPS).
type Source uint8

// Routable outputs.
const (
	LAT     Source = 0x00 // port latch
	CLC1Out Source = 0x18
)

func (s Source) String() string {
	switch s {
	case LAT:
		return "LAT"
	case CLC1Out:
		return "CLC1OUT"
	}
	return "Source(0x" + strconv.FormatUint(uint64(s), 16) + ")"
}

// SourceByName returns the routable output with the given name.
func SourceByName(name string) (Source, bool) {
	for _, s := range []Source{LAT, CLC1Out} {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}

func (s Source) valid() bool { return s == LAT || s == CLC1Out }

// Mapping is the output mapping of one pin.
type Mapping struct {
	Pin       Pin
	Direction Direction
	Route     Source
	Lat       bool // port latch level, shown when Route is LAT
}

func checkPin(p Pin) error {
	if !p.valid() {
		return errors.Errorf("invalid pin %s", p)
	}
	return nil
}

func bit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// SetDirection sets the direction of pin p.
func SetDirection(w reg.Writer, p Pin, d Direction) error {
	if err := checkPin(p); err != nil {
		return err
	}
	// TRIS bits are set for inputs
	return errors.Wrap(w.Set(pins[p].tris, bit(d == Input)), p.String())
}

// SetLatch sets the port latch level of pin p.
func SetLatch(w reg.Writer, p Pin, v bool) error {
	if err := checkPin(p); err != nil {
		return err
	}
	return errors.Wrap(w.Set(pins[p].lat, bit(v)), p.String())
}

// Route routes peripheral output s to pin p.
func Route(w reg.Writer, p Pin, s Source) error {
	if err := checkPin(p); err != nil {
		return err
	}
	if !s.valid() {
		return errors.Errorf("%s: invalid route %s", p, s)
	}
	return errors.Wrap(w.Set(pins[p].pps, uint8(s)), p.String())
}

// Decode reads the mapping of pin p back from registers.
func Decode(r reg.Reader, p Pin) (Mapping, error) {
	if err := checkPin(p); err != nil {
		return Mapping{}, err
	}
	m := Mapping{
		Pin:   p,
		Route: Source(r.Get(pins[p].pps)),
		Lat:   r.Get(pins[p].lat) != 0,
	}
	if r.Get(pins[p].tris) == 0 {
		m.Direction = Output
	}
	if !m.Route.valid() {
		return m, errors.Errorf("%s: unsupported route %s", p, m.Route)
	}
	return m, nil
}

type pad struct {
	m      Mapping
	In     int `hw:"in"`
	Pad    int `hw:"out"`
	Driven int `hw:"out"`
}

func (p *pad) Update(c *clcsim.Circuit) {
	drv := p.m.Direction == Output
	v := p.m.Lat
	if p.m.Route != LAT {
		v = c.Get(p.In)
	}
	c.Set(p.Pad, drv && v)
	c.Set(p.Driven, drv)
}

// Part returns a simulation part for the output driver of a pin mapped
// with m. Its input must be connected to the wire carrying m.Route. An
// input pin reads low and is not driven.
//
//	Inputs: in
//	Outputs: pad, driven
func Part(m Mapping) clcsim.NewPartFn {
	return clcsim.MakePart(&pad{m: m}).NewPart
}
