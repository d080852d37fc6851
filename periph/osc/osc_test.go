package osc_test

import (
	"testing"

	"github.com/db47h/clcsim/periph/osc"
	"github.com/db47h/clcsim/reg"
)

func TestConfigure(t *testing.T) {
	b := reg.NewBank()
	c := osc.Config{Source: osc.HFINTOSC, Frequency: osc.Freq64MHz}
	if err := osc.Configure(b, c); err != nil {
		t.Fatal(err)
	}
	if v := b.Read(reg.OSCCON1); v != 0x60 {
		t.Errorf("OSCCON1 = 0x%02X, expected 0x60", v)
	}
	if v := b.Read(reg.OSCFRQ); v != 0x08 {
		t.Errorf("OSCFRQ = 0x%02X, expected 0x08", v)
	}
	d, err := osc.Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if d != c {
		t.Errorf("decoded %+v, expected %+v", d, c)
	}
}

func TestFosc(t *testing.T) {
	td := []struct {
		c   osc.Config
		f   osc.Hz
		err bool
	}{
		{osc.Config{Source: osc.HFINTOSC, Frequency: osc.Freq64MHz}, 64 * osc.MHz, false},
		{osc.Config{Source: osc.HFINTOSC, Frequency: osc.Freq64MHz, Divider: osc.Div4}, 16 * osc.MHz, false},
		{osc.Config{Source: osc.HFINTOSC, Frequency: osc.Freq1MHz}, osc.MHz, false},
		{osc.Config{Source: osc.LFINTOSC}, 31 * osc.KHz, false},
		{osc.Config{Source: osc.EXTOSC}, 0, true},
	}
	for _, d := range td {
		t.Run(d.c.Source.String()+"/"+d.f.String(), func(t *testing.T) {
			f, err := d.c.Fosc()
			if (err != nil) != d.err {
				t.Fatalf("unexpected error %v", err)
			}
			if f != d.f {
				t.Errorf("Fosc = %s, expected %s", f, d.f)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	bad := []osc.Config{
		{Source: 3, Frequency: osc.Freq64MHz},
		{Source: osc.HFINTOSC, Frequency: 9},
		{Source: osc.HFINTOSC, Divider: 10},
	}
	for _, c := range bad {
		if err := osc.Configure(reg.NewBank(), c); err == nil {
			t.Errorf("expected error for %+v", c)
		}
	}
	if f, ok := osc.FrequencyOf(48 * osc.MHz); !ok || f != osc.Freq48MHz {
		t.Errorf("FrequencyOf(48MHz) = %v, %v", f, ok)
	}
}

func TestByName(t *testing.T) {
	for _, s := range []osc.Source{osc.HFINTOSC, osc.LFINTOSC, osc.EXTOSC} {
		if got, ok := osc.SourceByName(s.String()); !ok || got != s {
			t.Errorf("SourceByName(%q) = %v, %v", s, got, ok)
		}
	}
	if _, ok := osc.SourceByName("PLL"); ok {
		t.Error("unexpected source PLL")
	}
	if d, ok := osc.DividerOf(16); !ok || d != osc.Div16 {
		t.Errorf("DividerOf(16) = %v, %v", d, ok)
	}
	if _, ok := osc.DividerOf(3); ok {
		t.Error("unexpected divider 1:3")
	}
}
