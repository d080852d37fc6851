// Package firmware runs the power-up configuration of the device.
//
// The configuration is fixed at compile time (Default). Init writes it to
// the register file once, in dependency order, then seals the register
// file. After that the device runs on its own and the processor idles.
//
// Step order:
//
//	clock
//	direction   after clock
//	timerA      after clock
//	timerB      after clock
//	latch       after timerA, timerB
//	route       after latch, direction
package firmware

import (
	"time"

	"github.com/db47h/clcsim/periph/clc"
	"github.com/db47h/clcsim/periph/osc"
	"github.com/db47h/clcsim/periph/pps"
	"github.com/db47h/clcsim/periph/tmr"
	"github.com/db47h/clcsim/reg"
	"github.com/pkg/errors"
)

// Peripheral instances.
var (
	TimerA = tmr.TMR2
	TimerB = tmr.TMR4
	Latch  = clc.CLC1
)

// Config is the complete device configuration.
type Config struct {
	Clock  osc.Config
	TimerA tmr.Config
	TimerB tmr.Config
	Latch  clc.Config
	Pin    pps.Mapping
}

// Default returns the device configuration: a 64 MHz system clock, two
// timers pulsing every 4.096 ms and 4.08 ms, the first one setting the
// logic cell latch, the second one resetting it, and the latch output on
// RA2.
func Default() Config {
	timer := func(period uint8) tmr.Config {
		return tmr.Config{
			Source:    tmr.FoscDiv4,
			Period:    period,
			Prescale:  tmr.Prescale128,
			Postscale: 2,
			Enabled:   true,
		}
	}
	set := clc.Input{Source: clc.TMR2Out, Gate: true}
	reset := clc.Input{Source: clc.TMR4Out, Gate: true}
	return Config{
		Clock: osc.Config{
			Source:    osc.HFINTOSC,
			Frequency: osc.Freq64MHz,
			Divider:   osc.Div1,
		},
		TimerA: timer(0xFF),
		TimerB: timer(0xFE),
		Latch: clc.Config{
			Inputs:  [4]clc.Input{set, set, reset, reset},
			Mode:    clc.SRLatch,
			Enabled: true,
		},
		Pin: pps.Mapping{
			Pin:       pps.RA2,
			Direction: pps.Output,
			Route:     pps.CLC1Out,
		},
	}
}

// Device is a device with its register file and the configuration of each
// peripheral as last written by Init.
type Device struct {
	Bank   *reg.Bank
	Clock  osc.Config
	TimerA tmr.Config
	TimerB tmr.Config
	Latch  clc.Config
	Pin    pps.Mapping
}

// New returns a device in its power-on reset state.
func New() *Device {
	return &Device{Bank: reg.NewBank()}
}

// Reset performs a power-on reset of the device.
func (d *Device) Reset() {
	*d = Device{Bank: d.Bank}
	d.Bank.Reset()
}

// Steps returns the configuration sequence.
func Steps() Sequence {
	return Sequence{
		{Name: "clock", Run: func(d *Device, c Config) error {
			d.Clock = c.Clock
			return osc.Configure(d.Bank, c.Clock)
		}},
		{Name: "direction", After: []string{"clock"}, Run: func(d *Device, c Config) error {
			d.Pin.Pin, d.Pin.Direction = c.Pin.Pin, c.Pin.Direction
			return pps.SetDirection(d.Bank, c.Pin.Pin, c.Pin.Direction)
		}},
		{Name: "timerA", After: []string{"clock"}, Run: func(d *Device, c Config) error {
			d.TimerA = c.TimerA
			return tmr.Arm(d.Bank, TimerA, c.TimerA)
		}},
		{Name: "timerB", After: []string{"clock"}, Run: func(d *Device, c Config) error {
			d.TimerB = c.TimerB
			return tmr.Arm(d.Bank, TimerB, c.TimerB)
		}},
		{Name: "latch", After: []string{"timerA", "timerB"}, Run: func(d *Device, c Config) error {
			d.Latch = c.Latch
			return clc.Configure(d.Bank, Latch, c.Latch)
		}},
		{Name: "route", After: []string{"latch", "direction"}, Run: func(d *Device, c Config) error {
			d.Pin = c.Pin
			if c.Pin.Route == pps.LAT {
				if err := pps.SetLatch(d.Bank, c.Pin.Pin, c.Pin.Lat); err != nil {
					return err
				}
			}
			return pps.Route(d.Bank, c.Pin.Pin, c.Pin.Route)
		}},
	}
}

// Init configures device d with c and seals its register file. It must
// run once, on a device fresh out of reset.
func Init(d *Device, c Config) error {
	if d.Bank.Sealed() {
		return errors.Wrap(reg.ErrSealed, "device already initialized")
	}
	if err := Steps().Run(d, c); err != nil {
		return errors.Wrap(err, "init")
	}
	d.Bank.Seal()
	return nil
}

// Main is the firmware entry point. It configures a fresh device with the
// default configuration and idles forever. Configuration errors are
// programming errors and panic.
func Main() {
	d := New()
	if err := Init(d, Default()); err != nil {
		panic(err)
	}
	Idle()
}

// Idle blocks forever. Once configured, the peripherals run on their own.
func Idle() {
	for {
		time.Sleep(time.Hour)
	}
}
