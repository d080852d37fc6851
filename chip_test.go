package clcsim_test

import (
	"testing"

	hw "github.com/db47h/clcsim"
	hl "github.com/db47h/clcsim/hwlib"
)

func TestChip_errors(t *testing.T) {
	unkChip, err := hw.Chip("TESTCHIP", "a, b", "out",
		// chip input a is unused
		hl.Nand("a=b, b=b, out=out"),
	)
	if err != nil {
		t.Fatal(err)
	}
	data := []struct {
		name  string
		in    string
		out   string
		parts hw.Parts
		err   string
	}{
		{"true_out", "a, b", "out", hw.Parts{
			hl.Nand("a=a, b=b, out=true"),
			hl.Nand("a=a, b=b, out=out"),
		}, "NAND.out:true: output pin connected to constant true input"},
		{"false_out", "a, b", "out", hw.Parts{
			hl.Nand("a=a, b=b, out=false"),
			hl.Nand("a=a, b=b, out=out"),
		}, "NAND.out:false: output pin connected to constant false input"},
		{"multi_out", "a, b", "out", hw.Parts{
			hl.Nand("a=a, b=b, out=a"),
			hl.Nand("a=a, b=b, out=out"),
		}, "NAND.out:a: chip input pin used as output"},
		{"multi_out2", "a, b", "out", hw.Parts{
			hl.Nand("a=a, b=b, out=x"),
			hl.Nand("a=a, b=b, out=x"),
			hl.Not("in=x, out=out"),
		}, "NAND.out:x: output pin already used as output"},
		{"multi_in", "a, b", "out", hw.Parts{
			hl.Nand("a=a, a=b, b=b, out=out"),
		}, "NAND.a: input pin connected to more than one wire"},
		{"multi_chip_out", "a", "x, y", hw.Parts{
			hl.Not("in=a, out=x, out=y"),
		}, "NOT.out:y: output pin drives more than one chip output"},
		{"both_io", "a, b", "b", hw.Parts{}, "pin b is both an input and an output of both_io"},
		{"no_output", "a, b", "out", hw.Parts{
			hl.Nand("a=a, b=wx, out=out"),
		}, "pin wx not connected to any output"},
		{"no_input", "a, b", "out", hw.Parts{
			hl.Nand("a=a, b=b, out=foo"),
			hl.Nand("a=a, b=b, out=out"),
		}, "pin foo not connected to any input"},
		{"unconnected_in", "a, b", "out", hw.Parts{}, ""},
		{"unknown_pin", "a, b", "out", hw.Parts{
			hl.Nand("a=a, typo=b, out=out"),
		}, "invalid pin name typo for part NAND"},
		{"unknown_pin", "a, b", "out", hw.Parts{
			unkChip("a=a, typo=b, out=out"),
		}, "invalid pin name typo for part TESTCHIP"},
		{"unknown_pin", "a, b", "out", hw.Parts{
			unkChip("a=a, b=b, out=out"),
		}, ""},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			_, err := hw.Chip(d.name, d.in, d.out, d.parts...)
			if err == nil && d.err != "" || err != nil && err.Error() != d.err {
				t.Errorf("Got error %q, expected %q", err, d.err)
				return
			}
		})
	}
}

func TestChip_omitted_pins(t *testing.T) {
	var a, b, c, tr, f, o0, o1 int
	dummy := (&hw.PartSpec{
		Name:    "dummy",
		Inputs:  hw.IO("a, b, c, t, f"),
		Outputs: hw.IO("o0, o1"),
		Mount: func(s *hw.Socket) []hw.Component {
			a, b, c, tr, f, o0, o1 = s.Pin("a"), s.Pin("b"), s.Pin("c"), s.Pin("t"), s.Pin("f"), s.Pin("o0"), s.Pin("o1")
			return nil
		}}).NewPart
	// another dummy wire is allocated for dummy.o0:wo0
	wrapper, err := hw.Chip("wrapper", "wa, wb", "wo0, wo1",
		dummy("a=wa, c=clk, t=true, f=false, o0=wo0"),
	)
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}

	cc, err := hw.NewCircuit(0, 0, wrapper(""))
	if err != nil {
		t.Fatal(err)
	}
	defer cc.Dispose()

	if a != 0 || b != 0 || f != 0 { // 0 = cstFalse
		t.Errorf("a = %v, b = %v, f = %v, all must be 0", a, b, f)
	}
	if tr != 1 { // 1 = cstTrue
		t.Errorf("t = %v, must be 1", tr)
	}
	if c != 2 { // 2 = cstClk
		t.Errorf("c = %v, must be 2", c)
	}
	if o0 < 3 || o1 < 3 || o0 == o1 { // 3 = cstCount
		t.Errorf("o0 = %v, o1 = %v, both must be distinct and >= 3", o0, o1)
	}
}

func TestChip_fanout(t *testing.T) {
	gate, err := hw.Chip("FANOUT", "in", "a, bus[2]",
		hl.Or("a=in, b=in, out=a, out=w[0..1]"),
		hl.And("a=w[0], b=w[1], out=bus[0]"),
		hl.Not("in=w[1], out=bus[1]"),
	)
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	var in bool
	var out [3]bool
	c, err := hw.NewCircuit(0, testTPC,
		hl.Input(func() bool { return in })("out=in"),
		gate("in=in, a=o[0], bus[0..1]=o[1..2]"),
		hl.Output(func(v bool) { out[0] = v })("in=o[0]"),
		hl.Output(func(v bool) { out[1] = v })("in=o[1]"),
		hl.Output(func(v bool) { out[2] = v })("in=o[2]"),
	)
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	defer c.Dispose()

	for _, v := range []bool{false, true, false} {
		in = v
		c.TickTock()
		if exp := [3]bool{v, v, !v}; out != exp {
			t.Fatalf("in = %v: out = %v, expected %v", v, out, exp)
		}
	}
}

func TestParseConnections(t *testing.T) {
	td := []struct {
		in  string
		out []hw.Connection
		err bool
	}{
		{"a=b", []hw.Connection{{PP: "a", CP: []string{"b"}}}, false},
		{" a = b , c=d ", []hw.Connection{{PP: "a", CP: []string{"b"}}, {PP: "c", CP: []string{"d"}}}, false},
		{"o[0..1]=w[2..3]", []hw.Connection{{PP: "o[0]", CP: []string{"w[2]"}}, {PP: "o[1]", CP: []string{"w[3]"}}}, false},
		{"out=w[0..1], out=x", []hw.Connection{{PP: "out", CP: []string{"w[0]", "w[1]", "x"}}}, false},
		{"a[3]=b", []hw.Connection{{PP: "a[3]", CP: []string{"b"}}}, false},
		{"", nil, false},
		{"a", nil, true},
		{"a=b=c", nil, true},
		{"o[0..2]=w[0..1]", nil, true},
		{"o[2..1]=w", nil, true},
		{"o[x]=w", nil, true},
		{"1a=b", nil, true},
	}
	for _, d := range td {
		cs, err := hw.ParseConnections(d.in)
		if d.err {
			if err == nil {
				t.Errorf("%q: expected error", d.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", d.in, err)
			continue
		}
		if len(cs) != len(d.out) {
			t.Errorf("%q: got %v, expected %v", d.in, cs, d.out)
			continue
		}
		for i := range cs {
			if cs[i].PP != d.out[i].PP || len(cs[i].CP) != len(d.out[i].CP) {
				t.Errorf("%q: got %v, expected %v", d.in, cs, d.out)
				break
			}
			for j := range cs[i].CP {
				if cs[i].CP[j] != d.out[i].CP[j] {
					t.Errorf("%q: got %v, expected %v", d.in, cs, d.out)
				}
			}
		}
	}
}

func TestIO(t *testing.T) {
	got := hw.IO("in[2], sel")
	if len(got) != 3 || got[0] != "in[0]" || got[1] != "in[1]" || got[2] != "sel" {
		t.Fatalf("IO() = %v", got)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("IO did not panic on a malformed bus")
		}
	}()
	hw.IO("in[0]")
}
