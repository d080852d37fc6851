// Package reg models the special function registers written by the
// power-up configuration, and is the only place where typed peripheral
// configurations become bit patterns.
//
// Register and bit-field layouts follow the PIC18F47Q10 data sheet.
package reg

import (
	"fmt"
	"strconv"
)

// Reg identifies a special function register.
type Reg uint8

// Registers used by the configuration.
const (
	OSCCON1 Reg = iota
	OSCFRQ
	T2CLKCON
	T2PR
	T2CON
	T2HLT
	T4CLKCON
	T4PR
	T4CON
	T4HLT
	CLC1CON
	CLC1POL
	CLC1SEL0
	CLC1SEL1
	CLC1SEL2
	CLC1SEL3
	CLC1GLS0
	CLC1GLS1
	CLC1GLS2
	CLC1GLS3
	TRISA
	LATA
	RA2PPS

	regCount
)

var names = [regCount]string{
	OSCCON1:  "OSCCON1",
	OSCFRQ:   "OSCFRQ",
	T2CLKCON: "T2CLKCON",
	T2PR:     "T2PR",
	T2CON:    "T2CON",
	T2HLT:    "T2HLT",
	T4CLKCON: "T4CLKCON",
	T4PR:     "T4PR",
	T4CON:    "T4CON",
	T4HLT:    "T4HLT",
	CLC1CON:  "CLC1CON",
	CLC1POL:  "CLC1POL",
	CLC1SEL0: "CLC1SEL0",
	CLC1SEL1: "CLC1SEL1",
	CLC1SEL2: "CLC1SEL2",
	CLC1SEL3: "CLC1SEL3",
	CLC1GLS0: "CLC1GLS0",
	CLC1GLS1: "CLC1GLS1",
	CLC1GLS2: "CLC1GLS2",
	CLC1GLS3: "CLC1GLS3",
	TRISA:    "TRISA",
	LATA:     "LATA",
	RA2PPS:   "RA2PPS",
}

// power-on reset values. Port pins come up as inputs.
var resetValues = [regCount]uint8{
	TRISA: 0xFF,
}

func (r Reg) String() string {
	if r < regCount {
		return names[r]
	}
	return "Reg(" + strconv.Itoa(int(r)) + ")"
}

// ResetValue returns the power-on reset value of r.
func (r Reg) ResetValue() uint8 {
	return resetValues[r]
}

// ByName returns the register with the given name.
func ByName(name string) (Reg, bool) {
	for r, n := range names {
		if n == name {
			return Reg(r), true
		}
	}
	return 0, false
}

// A Field is a contiguous group of bits in a register.
type Field struct {
	Reg   Reg
	Shift uint8
	Width uint8
}

// Whole returns a field covering all eight bits of r.
func Whole(r Reg) Field { return Field{r, 0, 8} }

// Bit returns a one bit field.
func Bit(r Reg, n uint8) Field { return Field{r, n, 1} }

// Mask returns the in-register mask of f.
func (f Field) Mask() uint8 {
	return uint8((1<<uint(f.Width) - 1) << f.Shift)
}

// Max returns the largest value f can hold.
func (f Field) Max() uint8 {
	return uint8(1<<uint(f.Width) - 1)
}

// Insert returns the register value r with the field set to v. Bits of v
// beyond the field width are discarded.
func (f Field) Insert(r, v uint8) uint8 {
	return r&^f.Mask() | v<<f.Shift&f.Mask()
}

// Extract returns the value of the field in the register value r.
func (f Field) Extract(r uint8) uint8 {
	return r & f.Mask() >> f.Shift
}

func (f Field) String() string {
	if f.Width == 8 {
		return f.Reg.String()
	}
	if f.Width == 1 {
		return fmt.Sprintf("%s<%d>", f.Reg, f.Shift)
	}
	return fmt.Sprintf("%s<%d:%d>", f.Reg, f.Shift+f.Width-1, f.Shift)
}
