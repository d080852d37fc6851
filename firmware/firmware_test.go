package firmware_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/db47h/clcsim/firmware"
	"github.com/db47h/clcsim/periph/pps"
	"github.com/db47h/clcsim/reg"
	"github.com/pkg/errors"
)

// register writes of the reference firmware, in program order.
var literals = []reg.Value{
	{Reg: reg.OSCCON1, Value: 0x60},
	{Reg: reg.OSCFRQ, Value: 0x08},
	{Reg: reg.TRISA, Value: 0xFB},
	{Reg: reg.T2CLKCON, Value: 0x01},
	{Reg: reg.T2PR, Value: 0xFF},
	{Reg: reg.T2CON, Value: 0xF1},
	{Reg: reg.T4CLKCON, Value: 0x01},
	{Reg: reg.T4PR, Value: 0xFE},
	{Reg: reg.T4CON, Value: 0xF1},
	{Reg: reg.CLC1POL, Value: 0x00},
	{Reg: reg.CLC1SEL0, Value: 0x13},
	{Reg: reg.CLC1SEL1, Value: 0x13},
	{Reg: reg.CLC1SEL2, Value: 0x15},
	{Reg: reg.CLC1SEL3, Value: 0x15},
	{Reg: reg.CLC1GLS0, Value: 0x02},
	{Reg: reg.CLC1GLS1, Value: 0x08},
	{Reg: reg.CLC1GLS2, Value: 0x20},
	{Reg: reg.CLC1GLS3, Value: 0x80},
	{Reg: reg.CLC1CON, Value: 0x83},
	{Reg: reg.RA2PPS, Value: 0x18},
}

func TestInit_default(t *testing.T) {
	d := firmware.New()
	if err := firmware.Init(d, firmware.Default()); err != nil {
		t.Fatal(err)
	}
	ref := reg.NewBank()
	for _, v := range literals {
		if err := ref.Write(v.Reg, v.Value); err != nil {
			t.Fatal(err)
		}
		if got := d.Bank.Read(v.Reg); got != v.Value {
			t.Errorf("%s = 0x%02X, expected 0x%02X", v.Reg, got, v.Value)
		}
	}
	if !d.Bank.Equal(ref) {
		t.Fatalf("register file mismatch:\n got %v\nwant %v", d.Bank.Changed(), ref.Changed())
	}
	if !d.Bank.Sealed() {
		t.Fatal("register file not sealed after Init")
	}
	c := firmware.Default()
	if d.Clock != c.Clock || d.TimerA != c.TimerA || d.TimerB != c.TimerB || d.Latch != c.Latch || d.Pin != c.Pin {
		t.Fatalf("device configuration %+v does not match %+v", d, c)
	}
}

func TestInit_sealed(t *testing.T) {
	d := firmware.New()
	if err := firmware.Init(d, firmware.Default()); err != nil {
		t.Fatal(err)
	}
	before := d.Bank.Snapshot()
	if err := firmware.Init(d, firmware.Default()); errors.Cause(err) != reg.ErrSealed {
		t.Fatalf("expected ErrSealed, got %v", err)
	}
	if err := d.Bank.Write(reg.T2PR, 0x10); errors.Cause(err) != reg.ErrSealed {
		t.Fatalf("expected ErrSealed, got %v", err)
	}
	if !reflect.DeepEqual(before, d.Bank.Snapshot()) {
		t.Fatal("sealed register file modified")
	}
}

func TestInit_idempotent(t *testing.T) {
	d := firmware.New()
	if err := firmware.Init(d, firmware.Default()); err != nil {
		t.Fatal(err)
	}
	first := d.Bank.Snapshot()
	d.Reset()
	if d.Bank.Sealed() || d.Bank.Changed() != nil {
		t.Fatal("Reset did not restore the power-on state")
	}
	if err := firmware.Init(d, firmware.Default()); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, d.Bank.Snapshot()) {
		t.Fatalf("second Init produced\n%v\nexpected\n%v", d.Bank.Snapshot(), first)
	}
}

func TestInit_invalid(t *testing.T) {
	c := firmware.Default()
	c.TimerB.Postscale = 0
	d := firmware.New()
	err := firmware.Init(d, c)
	if err == nil || !strings.Contains(err.Error(), "timerB") {
		t.Fatalf("expected timerB error, got %v", err)
	}
	if d.Bank.Sealed() {
		t.Fatal("register file sealed after a failed Init")
	}
}

func TestInit_latchOutput(t *testing.T) {
	c := firmware.Default()
	c.Pin.Route = pps.LAT
	c.Pin.Lat = true
	d := firmware.New()
	if err := firmware.Init(d, c); err != nil {
		t.Fatal(err)
	}
	if v := d.Bank.Read(reg.LATA); v != 0x04 {
		t.Errorf("LATA = 0x%02X, expected 0x04", v)
	}
	if v := d.Bank.Read(reg.RA2PPS); v != 0x00 {
		t.Errorf("RA2PPS = 0x%02X, expected 0x00", v)
	}
}

func TestSteps(t *testing.T) {
	s := firmware.Steps()
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	pos := make(map[string]int)
	for i, st := range s {
		pos[st.Name] = i
	}
	for _, c := range [][2]string{
		{"clock", "timerA"},
		{"clock", "timerB"},
		{"clock", "direction"},
		{"timerA", "latch"},
		{"timerB", "latch"},
		{"latch", "route"},
		{"direction", "route"},
	} {
		if pos[c[0]] >= pos[c[1]] {
			t.Errorf("%s runs after %s", c[0], c[1])
		}
	}
}

func TestSequence_Validate(t *testing.T) {
	nop := func(*firmware.Device, firmware.Config) error { return nil }
	td := []struct {
		name string
		s    firmware.Sequence
		err  string
	}{
		{"ok", firmware.Sequence{{Name: "a", Run: nop}, {Name: "b", After: []string{"a"}, Run: nop}}, ""},
		{"order", firmware.Sequence{{Name: "b", After: []string{"a"}, Run: nop}, {Name: "a", Run: nop}}, "must run after"},
		{"cycle", firmware.Sequence{{Name: "a", After: []string{"b"}, Run: nop}, {Name: "b", After: []string{"a"}, Run: nop}}, "cycle"},
		{"self", firmware.Sequence{{Name: "a", After: []string{"a"}, Run: nop}}, "itself"},
		{"unknown", firmware.Sequence{{Name: "a", After: []string{"x"}, Run: nop}}, "unknown step"},
		{"duplicate", firmware.Sequence{{Name: "a", Run: nop}, {Name: "a", Run: nop}}, "duplicate"},
		{"no run", firmware.Sequence{{Name: "a"}}, "no Run"},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			err := d.s.Validate()
			if d.err == "" {
				if err != nil {
					t.Fatal(err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), d.err) {
				t.Fatalf("expected error containing %q, got %v", d.err, err)
			}
		})
	}
}

func TestSequence_Run(t *testing.T) {
	var trace []string
	step := func(name string, after ...string) firmware.Step {
		return firmware.Step{Name: name, After: after, Run: func(*firmware.Device, firmware.Config) error {
			trace = append(trace, name)
			return nil
		}}
	}
	s := firmware.Sequence{step("a"), step("c", "a"), step("b", "a")}
	if err := s.Run(firmware.New(), firmware.Config{}); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(trace, []string{"a", "c", "b"}) {
		t.Fatalf("steps ran in order %v", trace)
	}

	trace = nil
	s = append(s, step("d", "e"))
	if err := s.Run(firmware.New(), firmware.Config{}); err == nil {
		t.Fatal("invalid sequence ran")
	}
	if trace != nil {
		t.Fatalf("steps %v ran for an invalid sequence", trace)
	}
}
