package clc

import (
	"testing"
	"testing/quick"
)

// Pulses on Set and Reset that never coincide leave the latch in the state
// of the last pulse.
func TestSRLatch_lastPulseWins(t *testing.T) {
	f := func(events []bool, gaps []uint8) bool {
		var (
			l    srLatch
			want bool
		)
		for i, set := range events {
			q, cf := l.clock(set, !set)
			if cf || q != set {
				return false
			}
			want = set
			gap := 0
			if i < len(gaps) {
				gap = int(gaps[i] % 4)
			}
			for ; gap >= 0; gap-- {
				if q, cf = l.clock(false, false); cf || q != want {
					return false
				}
			}
		}
		return l.q == want
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}

func TestSRLatch(t *testing.T) {
	type sample struct{ s, r, q, conflict bool }
	td := []struct {
		name string
		seq  []sample
	}{
		{"initial", []sample{{false, false, false, false}}},
		{"set", []sample{{true, false, true, false}, {false, false, true, false}}},
		{"held set", []sample{{true, false, true, false}, {true, false, true, false}, {false, true, false, false}}},
		{"reset", []sample{{true, false, true, false}, {false, false, true, false}, {false, true, false, false}, {false, false, false, false}}},
		{"both", []sample{{true, true, false, true}, {false, false, false, false}}},
		{"both while set", []sample{{true, false, true, false}, {false, false, true, false}, {true, true, true, true}, {false, false, true, false}}},
		// R rising while S is still high: conflict, no change.
		{"overlap", []sample{{true, false, true, false}, {true, true, true, true}, {false, true, true, false}, {false, false, true, false}, {false, true, false, false}}},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			var l srLatch
			for i, s := range d.seq {
				q, cf := l.clock(s.s, s.r)
				if q != s.q || cf != s.conflict {
					t.Fatalf("sample %d: S=%v R=%v => Q=%v conflict=%v, expected Q=%v conflict=%v", i, s.s, s.r, q, cf, s.q, s.conflict)
				}
			}
		})
	}
}

func TestSequential(t *testing.T) {
	g := func(g1, g2, g3, g4 bool) [4]bool { return [4]bool{g1, g2, g3, g4} }
	td := []struct {
		name string
		m    Mode
		q    bool
		clk  bool
		g    [4]bool
		want bool
	}{
		{"DFF-SR load", DFlipFlopSR, false, true, g(true, true, false, false), true},
		{"DFF-SR hold", DFlipFlopSR, false, false, g(false, true, false, false), false},
		{"DFF-SR reset", DFlipFlopSR, true, true, g(true, true, true, true), false},
		{"DFF-SR set", DFlipFlopSR, false, false, g(false, false, false, true), true},
		{"DFF-2R and", DFlipFlop2R, false, true, g(true, true, false, false), false},
		{"DFF-2R load", DFlipFlop2R, false, true, g(true, true, false, true), true},
		{"DFF-2R reset", DFlipFlop2R, true, false, g(false, false, true, false), false},
		{"JK toggle", JKFlipFlopR, true, true, g(true, true, false, true), false},
		{"JK set", JKFlipFlopR, false, true, g(true, true, false, false), true},
		{"JK clear", JKFlipFlopR, true, true, g(true, false, false, true), false},
		{"JK hold", JKFlipFlopR, true, false, g(false, false, false, true), true},
		{"JK reset", JKFlipFlopR, true, false, g(false, false, true, false), false},
		{"latch transparent", TransparentLatchSR, false, false, g(false, true, false, false), true},
		{"latch closed", TransparentLatchSR, false, false, g(false, true, true, false), false},
		{"latch reset", TransparentLatchSR, true, false, g(true, true, false, true), false},
		{"latch set", TransparentLatchSR, false, false, g(false, false, true, true), true},
	}
	for _, d := range td {
		if got := sequential(d.m, d.q, d.clk, d.g); got != d.want {
			t.Errorf("%s: got %v, expected %v", d.name, got, d.want)
		}
	}
}
