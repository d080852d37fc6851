// Package osc configures the system oscillator.
package osc

import (
	"strconv"

	"github.com/db47h/clcsim/reg"
	"github.com/pkg/errors"
)

// Hz is a frequency in Hertz.
type Hz uint64

// Common frequencies.
const (
	KHz Hz = 1000
	MHz Hz = 1000 * KHz
)

func (f Hz) String() string {
	switch {
	case f >= MHz && f%MHz == 0:
		return strconv.FormatUint(uint64(f/MHz), 10) + "MHz"
	case f >= KHz && f%KHz == 0:
		return strconv.FormatUint(uint64(f/KHz), 10) + "kHz"
	}
	return strconv.FormatUint(uint64(f), 10) + "Hz"
}

// Fixed internal oscillators.
const (
	LFINTOSCHz Hz = 31 * KHz
	MFINTOSCHz Hz = 500 * KHz
)

// Source is a system oscillator selection (OSCCON1.NOSC).
type Source uint8

// Oscillator sources.
const (
	HFINTOSC2xPLL Source = 1
	EXTOSC4xPLL   Source = 2
	SOSC          Source = 4
	LFINTOSC      Source = 5
	HFINTOSC      Source = 6
	EXTOSC        Source = 7
)

var sourceNames = map[Source]string{
	HFINTOSC2xPLL: "HFINTOSC2xPLL",
	EXTOSC4xPLL:   "EXTOSC4xPLL",
	SOSC:          "SOSC",
	LFINTOSC:      "LFINTOSC",
	HFINTOSC:      "HFINTOSC",
	EXTOSC:        "EXTOSC",
}

func (s Source) String() string {
	if n, ok := sourceNames[s]; ok {
		return n
	}
	return "Source(" + strconv.Itoa(int(s)) + ")"
}

// SourceByName returns the oscillator source with the given name.
func SourceByName(name string) (Source, bool) {
	for s, n := range sourceNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

// Frequency is a HFINTOSC frequency selection (OSCFRQ.HFFRQ).
type Frequency uint8

// HFINTOSC frequencies.
const (
	Freq1MHz Frequency = iota
	Freq2MHz
	Freq4MHz
	Freq8MHz
	Freq12MHz
	Freq16MHz
	Freq32MHz
	Freq48MHz
	Freq64MHz
)

var frequencies = [...]Hz{1 * MHz, 2 * MHz, 4 * MHz, 8 * MHz, 12 * MHz, 16 * MHz, 32 * MHz, 48 * MHz, 64 * MHz}

// Hz returns the frequency for f.
func (f Frequency) Hz() Hz {
	if int(f) < len(frequencies) {
		return frequencies[f]
	}
	return 0
}

func (f Frequency) String() string {
	if int(f) < len(frequencies) {
		return f.Hz().String()
	}
	return "Frequency(" + strconv.Itoa(int(f)) + ")"
}

// FrequencyOf returns the Frequency code for hz.
func FrequencyOf(hz Hz) (Frequency, bool) {
	for i, f := range frequencies {
		if f == hz {
			return Frequency(i), true
		}
	}
	return 0, false
}

// Divider is the clock divider ratio selection (OSCCON1.NDIV). The divide
// ratio is 1<<Divider.
type Divider uint8

// Clock dividers.
const (
	Div1 Divider = iota
	Div2
	Div4
	Div8
	Div16
	Div32
	Div64
	Div128
	Div256
	Div512
)

// Ratio returns the divide ratio.
func (d Divider) Ratio() Hz { return 1 << d }

// DividerOf returns the Divider for the given divide ratio.
func DividerOf(ratio uint) (Divider, bool) {
	for d := Div1; d <= Div512; d++ {
		if uint(d.Ratio()) == ratio {
			return d, true
		}
	}
	return 0, false
}

// Register fields.
var (
	fieldNOSC  = reg.Field{Reg: reg.OSCCON1, Shift: 4, Width: 3}
	fieldNDIV  = reg.Field{Reg: reg.OSCCON1, Shift: 0, Width: 4}
	fieldHFFRQ = reg.Field{Reg: reg.OSCFRQ, Shift: 0, Width: 4}
)

// Config is a clock configuration.
type Config struct {
	Source    Source
	Frequency Frequency
	Divider   Divider
}

// Validate checks that all fields hold values from their enumeration.
func (c Config) Validate() error {
	if _, ok := sourceNames[c.Source]; !ok {
		return errors.Errorf("invalid oscillator source %s", c.Source)
	}
	if int(c.Frequency) >= len(frequencies) {
		return errors.Errorf("invalid HFINTOSC frequency %s", c.Frequency)
	}
	if c.Divider > Div512 {
		return errors.Errorf("invalid clock divider %d", c.Divider)
	}
	return nil
}

// Fosc returns the system clock frequency. Only the internal oscillators
// have a known frequency; external ones return an error.
func (c Config) Fosc() (Hz, error) {
	var f Hz
	switch c.Source {
	case HFINTOSC:
		f = c.Frequency.Hz()
	case LFINTOSC:
		f = LFINTOSCHz
	default:
		return 0, errors.Errorf("no known frequency for oscillator %s", c.Source)
	}
	return f / c.Divider.Ratio(), nil
}

// HFINTOSC returns the frequency of the high frequency internal oscillator.
func (c Config) HFINTOSC() Hz {
	return c.Frequency.Hz()
}

// Configure selects the oscillator and frequency. It must run before any
// timing dependent peripheral is configured.
func Configure(w reg.Writer, c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := w.Set(fieldNOSC, uint8(c.Source)); err != nil {
		return errors.Wrap(err, "oscillator source")
	}
	if err := w.Set(fieldNDIV, uint8(c.Divider)); err != nil {
		return errors.Wrap(err, "clock divider")
	}
	if err := w.Set(fieldHFFRQ, uint8(c.Frequency)); err != nil {
		return errors.Wrap(err, "HFINTOSC frequency")
	}
	return nil
}

// Decode reads the clock configuration back from registers.
func Decode(r reg.Reader) (Config, error) {
	c := Config{
		Source:    Source(r.Get(fieldNOSC)),
		Divider:   Divider(r.Get(fieldNDIV)),
		Frequency: Frequency(r.Get(fieldHFFRQ)),
	}
	return c, c.Validate()
}
