// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/clcsim"
)

// Input creates a function based input.
//
//	Outputs: out
//	Function: out = f()
func Input(f func() bool) clcsim.NewPartFn {
	p := &clcsim.PartSpec{
		Name:    "Input",
		Inputs:  nil,
		Outputs: []string{pOut},
		Mount: func(s *clcsim.Socket) []clcsim.Component {
			pin := s.Pin(pOut)
			return []clcsim.Component{
				func(c *clcsim.Circuit) {
					c.Set(pin, f())
				},
			}
		},
	}
	return p.NewPart
}

// Output creates an output or probe. The fn function is
// called with the named pin state on every circuit update.
//
//	Inputs: in
//	Function: f(in)
func Output(f func(bool)) clcsim.NewPartFn {
	p := &clcsim.PartSpec{
		Name:    "Output",
		Inputs:  []string{pIn},
		Outputs: nil,
		Mount: func(s *clcsim.Socket) []clcsim.Component {
			in := s.Pin(pIn)
			return []clcsim.Component{
				func(c *clcsim.Circuit) { f(c.Get(in)) },
			}
		},
	}
	return p.NewPart
}

// ClockedOutput is like Output, but f is only called once per clock cycle,
// at the raising edge of the clock, together with the number of the cycle.
//
//	Inputs: in
//	Function: f(cycle, in)
func ClockedOutput(f func(cycle uint, v bool)) clcsim.NewPartFn {
	p := &clcsim.PartSpec{
		Name:    "ClockedOutput",
		Inputs:  []string{pIn},
		Outputs: nil,
		Mount: func(s *clcsim.Socket) []clcsim.Component {
			in := s.Pin(pIn)
			return []clcsim.Component{
				func(c *clcsim.Circuit) {
					if c.AtTick() {
						f(c.Cycles(), c.Get(in))
					}
				},
			}
		},
	}
	return p.NewPart
}

// InputN creates an input bus of the given bits size. Bit 0 of the value
// returned by f drives out[0].
//
//	Outputs: out[bits]
//	Function: for i := range out { out[i] = f() & (1 << i) != 0 }
func InputN(bits int, f func() uint64) clcsim.NewPartFn {
	return (&clcsim.PartSpec{
		Name:    "INPUT" + strconv.Itoa(bits),
		Inputs:  nil,
		Outputs: bus(bits, pOut),
		Mount: func(s *clcsim.Socket) []clcsim.Component {
			pins := s.Bus(pOut, bits)
			return []clcsim.Component{func(c *clcsim.Circuit) {
				in := f()
				for bit := 0; bit < len(pins); bit++ {
					c.Set(pins[bit], in&(1<<uint(bit)) != 0)
				}
			}}
		}}).NewPart
}
