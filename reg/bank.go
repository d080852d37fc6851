package reg

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrSealed is returned by writes to a sealed register file.
var ErrSealed = errors.New("register file is sealed")

// A Writer sets register fields. It is implemented by *Bank.
type Writer interface {
	Set(f Field, v uint8) error
	Write(r Reg, v uint8) error
}

// A Reader reads register fields. It is implemented by *Bank.
type Reader interface {
	Get(f Field) uint8
	Read(r Reg) uint8
}

// A Value is the content of a register.
type Value struct {
	Reg   Reg
	Value uint8
}

func (v Value) String() string {
	return fmt.Sprintf("%s=0x%02X", v.Reg, v.Value)
}

// Bank is the register file of one device.
//
// Once sealed, every write fails with ErrSealed until the next Reset: a
// configuration is written once at power-up and is immutable afterwards.
type Bank struct {
	regs   [regCount]uint8
	sealed bool
}

// NewBank returns a register file in its power-on reset state.
func NewBank() *Bank {
	b := new(Bank)
	b.Reset()
	return b
}

// Reset loads the power-on reset values and unseals the bank.
func (b *Bank) Reset() {
	b.regs = resetValues
	b.sealed = false
}

// Seal makes the register file read-only.
func (b *Bank) Seal() { b.sealed = true }

// Sealed returns true if the register file is read-only.
func (b *Bank) Sealed() bool { return b.sealed }

// Read returns the value of register r.
func (b *Bank) Read(r Reg) uint8 {
	return b.regs[r]
}

// Write sets the value of register r.
func (b *Bank) Write(r Reg, v uint8) error {
	if r >= regCount {
		return errors.Errorf("write to unknown register %s", r)
	}
	if b.sealed {
		return errors.Wrap(ErrSealed, "write "+r.String())
	}
	b.regs[r] = v
	return nil
}

// Get returns the value of field f.
func (b *Bank) Get(f Field) uint8 {
	return f.Extract(b.regs[f.Reg])
}

// Set does a read-modify-write of field f. It fails if v does not fit in
// the field.
func (b *Bank) Set(f Field, v uint8) error {
	if v > f.Max() {
		return errors.Errorf("value %d out of range for %s", v, f)
	}
	return b.Write(f.Reg, f.Insert(b.regs[f.Reg], v))
}

// Snapshot returns the content of every register, in register order.
func (b *Bank) Snapshot() []Value {
	vs := make([]Value, regCount)
	for i, v := range b.regs {
		vs[i] = Value{Reg(i), v}
	}
	return vs
}

// Changed returns the registers whose value differs from their reset value.
func (b *Bank) Changed() []Value {
	var vs []Value
	for i, v := range b.regs {
		if v != resetValues[i] {
			vs = append(vs, Value{Reg(i), v})
		}
	}
	return vs
}

// Equal reports whether both register files hold the same values.
// The sealed state is not compared.
func (b *Bank) Equal(o *Bank) bool {
	return b.regs == o.regs
}
