// Command clcsim runs the device configuration on a fresh register file and
// simulates the result.
//
//	clcsim [-profile fast.yaml] [-cycles n] [-workers n] [-dump]
package main

import (
	"flag"
	"log"
	"os"

	"github.com/db47h/clcsim/firmware"
	"github.com/db47h/clcsim/internal/profile"
	"github.com/db47h/clcsim/periph/tmr"
	"github.com/db47h/clcsim/sim"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func main() {
	var (
		profilePath = flag.String("profile", "", "YAML `file` overriding the default configuration")
		cycles      = flag.Uint("cycles", 600000, "number of system clock `cycles` to simulate")
		workers     = flag.Int("workers", 1, "number of simulation goroutines (0: GOMAXPROCS)")
		spc         = flag.Uint("spc", 4, "simulation steps per clock cycle")
		dump        = flag.Bool("dump", false, "print the register file after initialization")
	)
	flag.Parse()

	cfg := firmware.Default()
	if *profilePath != "" {
		p, err := profile.Load(*profilePath)
		if err != nil {
			log.Fatalf("profile load failed: %v", err)
		}
		if cfg, err = profile.Apply(p, cfg); err != nil {
			log.Fatalf("profile %s: %v", *profilePath, err)
		}
		if p.Name != "" {
			log.Printf("profile %s", p.Name)
		}
	}

	d := firmware.New()
	if err := firmware.Init(d, cfg); err != nil {
		log.Fatalf("init failed: %v", err)
	}
	if *dump {
		for _, v := range d.Bank.Snapshot() {
			log.Print(v)
		}
	}
	for _, t := range []struct {
		inst tmr.Instance
		cfg  tmr.Config
	}{
		{firmware.TimerA, d.TimerA},
		{firmware.TimerB, d.TimerB},
	} {
		if !t.cfg.Enabled {
			log.Printf("%s stopped", t.inst.Name)
			continue
		}
		src, err := t.cfg.Source.Hz(d.Clock)
		if err != nil {
			log.Fatalf("%s: %v", t.inst.Name, err)
		}
		log.Printf("%s: %s at %s, pulse every %v", t.inst.Name, t.cfg.Source, src, t.cfg.PulsePeriod(src))
	}

	s, err := sim.New(d.Bank,
		sim.Workers(*workers),
		sim.StepsPerCycle(*spc),
		sim.Logger(log.New(os.Stderr, "", log.LstdFlags)))
	if err != nil {
		log.Fatalf("simulation setup failed: %v", err)
	}
	defer s.Close()

	s.Run(*cycles)

	st := s.Stats()
	names := maps.Keys(st.Periods)
	slices.Sort(names)
	for _, n := range names {
		m := st.Periods[n]
		if m.N == 0 {
			log.Printf("%s: no complete period in %d cycles", n, s.Cycle())
			continue
		}
		log.Printf("%s: measured period %v (stddev %.1f cycles, %d samples)", n, s.Duration(m.Mean), m.StdDev, m.N)
	}
	if st.High.N > 0 {
		log.Printf("%s high for %v on average", d.Pin.Pin, s.Duration(st.High.Mean))
	}
	if st.Low.N > 0 {
		log.Printf("%s low for %v on average", d.Pin.Pin, s.Duration(st.Low.Mean))
	}
	if c := s.Conflicts(); len(c) > 0 {
		log.Printf("set and reset asserted together %d times", len(c))
	}
}
