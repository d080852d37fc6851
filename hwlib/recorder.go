package hwlib

import "github.com/db47h/clcsim"

// An Edge is a level change of a wire, sampled at the raising edge of the
// clock.
type Edge struct {
	Cycle uint
	Level bool
}

// A Recorder records the level changes of a wire.
//
// The zero value is ready to use. The initial level of the wire is assumed
// to be low, so a wire that is high on the very first cycle records a
// raising edge at cycle 0.
type Recorder struct {
	edges []Edge
	level bool
}

// Probe returns a NewPartFn for a part that feeds r. Its input pin is "in".
func (r *Recorder) Probe() clcsim.NewPartFn {
	return ClockedOutput(r.sample)
}

func (r *Recorder) sample(cycle uint, v bool) {
	if v == r.level {
		return
	}
	r.level = v
	r.edges = append(r.edges, Edge{cycle, v})
}

// Level returns the last sampled level.
func (r *Recorder) Level() bool { return r.level }

// Edges returns all recorded level changes.
func (r *Recorder) Edges() []Edge { return r.edges }

// Rising returns the cycles at which the wire went high.
func (r *Recorder) Rising() []uint {
	var cs []uint
	for _, e := range r.edges {
		if e.Level {
			cs = append(cs, e.Cycle)
		}
	}
	return cs
}

// Reset forgets all recorded edges. The current level is kept.
func (r *Recorder) Reset() { r.edges = nil }
