package sim

import (
	"math"
	"time"

	hl "github.com/db47h/clcsim/hwlib"
	"gonum.org/v1/gonum/stat"
)

// A Measure summarizes a set of durations measured in system clock cycles.
type Measure struct {
	N      int
	Mean   float64
	StdDev float64
}

func measure(xs []float64) Measure {
	m := Measure{N: len(xs)}
	if m.N == 0 {
		return m
	}
	m.Mean = stat.Mean(xs, nil)
	if m.N > 1 {
		m.StdDev = stat.StdDev(xs, nil)
	}
	return m
}

// Stats holds the durations measured during a simulation.
type Stats struct {
	Periods map[string]Measure // time between two pulses, per timer
	High    Measure            // time the pin stays high
	Low     Measure            // time the pin stays low, not counting the first low period
}

// Stats measures timer periods and pin levels over the cycles run so far.
func (s *Sim) Stats() Stats {
	st := Stats{Periods: make(map[string]Measure, len(s.timers))}
	for _, t := range s.timers {
		st.Periods[t.inst.Name] = measure(intervals(t.rec.Rising()))
	}
	st.High, st.Low = levels(s.pad.Edges())
	return st
}

func intervals(cs []uint) []float64 {
	var xs []float64
	for i := 1; i < len(cs); i++ {
		xs = append(xs, float64(cs[i]-cs[i-1]))
	}
	return xs
}

func levels(edges []hl.Edge) (high, low Measure) {
	var h, l []float64
	for i := 1; i < len(edges); i++ {
		d := float64(edges[i].Cycle - edges[i-1].Cycle)
		if edges[i-1].Level {
			h = append(h, d)
		} else {
			l = append(l, d)
		}
	}
	return measure(h), measure(l)
}

// Duration converts a number of system clock cycles to a duration.
func (s *Sim) Duration(cycles float64) time.Duration {
	return time.Duration(math.Round(cycles * float64(time.Second) / float64(s.fosc)))
}
