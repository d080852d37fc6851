package tmr_test

import (
	"testing"

	hw "github.com/db47h/clcsim"
	hl "github.com/db47h/clcsim/hwlib"
	"github.com/db47h/clcsim/periph/osc"
	"github.com/db47h/clcsim/periph/tmr"
)

func TestPart(t *testing.T) {
	const fosc = 64 * osc.MHz
	td := []struct {
		name string
		c    tmr.Config
		src  osc.Hz
	}{
		{"FOSC/4", tmr.Config{Source: tmr.FoscDiv4, Period: 3, Prescale: tmr.Prescale1, Postscale: 1, Enabled: true}, fosc / 4},
		{"FOSC", tmr.Config{Source: tmr.Fosc, Period: 4, Prescale: tmr.Prescale2, Postscale: 3, Enabled: true}, fosc},
		{"Postscale", tmr.Config{Source: tmr.FoscDiv4, Period: 1, Prescale: tmr.Prescale4, Postscale: 2, Enabled: true}, fosc / 4},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			p, err := tmr.Part("TMR", d.c, fosc, d.src)
			if err != nil {
				t.Fatal(err)
			}
			var rec hl.Recorder
			c, err := hw.NewCircuit(1, 2,
				p("out=pulse"),
				rec.Probe()("in=pulse"),
			)
			if err != nil {
				t.Fatal(err)
			}
			defer c.Dispose()

			period := uint(tmr.Cycles(d.c, fosc, d.src))
			for i := uint(0); i < 5*period+2; i++ {
				c.TickTock()
			}
			rising := rec.Rising()
			if len(rising) != 5 {
				t.Fatalf("expected 5 pulses, got %v", rec.Edges())
			}
			for i := 1; i < len(rising); i++ {
				if rising[i]-rising[i-1] != period {
					t.Errorf("pulse interval %d, expected %d", rising[i]-rising[i-1], period)
				}
			}
			// one cycle wide pulses
			for _, e := range rec.Edges() {
				if !e.Level && (e.Cycle-1)%period != rising[0]%period {
					t.Errorf("pulse ending at cycle %d is not one cycle wide", e.Cycle)
				}
			}
		})
	}
}

func TestPart_disabled(t *testing.T) {
	p, err := tmr.Part("TMR", tmr.Config{}, osc.MHz, 0)
	if err != nil {
		t.Fatal(err)
	}
	var rec hl.Recorder
	c, err := hw.NewCircuit(1, 2, p("out=pulse"), rec.Probe()("in=pulse"))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()
	for i := 0; i < 100; i++ {
		c.TickTock()
	}
	if len(rec.Edges()) != 0 {
		t.Fatalf("disabled timer pulsed: %v", rec.Edges())
	}
}

func TestPart_tooFast(t *testing.T) {
	c := tmr.Config{Source: tmr.HFINTOSC, Prescale: tmr.Prescale1, Postscale: 1, Enabled: true}
	if _, err := tmr.Part("TMR", c, 16*osc.MHz, 64*osc.MHz); err == nil {
		t.Fatal("expected error for a source faster than the system clock")
	}
}
