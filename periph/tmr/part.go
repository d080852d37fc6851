package tmr

import (
	"github.com/db47h/clcsim"
	"github.com/db47h/clcsim/periph/osc"
	"github.com/pkg/errors"
)

// Part returns a simulation part for a timer configured with c, in a
// circuit clocked at fosc, with its clock source running at src.
//
// Source clock edges are derived from the circuit clock with a fractional
// accumulator, so src must not be faster than fosc. A disabled timer holds
// its output low.
//
//	Outputs: out
//	Function: out is high for one cycle every c.Counts() source clock edges.
func Part(name string, c Config, fosc, src osc.Hz) (clcsim.NewPartFn, error) {
	if c.Enabled {
		if err := c.Validate(); err != nil {
			return nil, errors.Wrap(err, name)
		}
		if src == 0 || fosc == 0 {
			return nil, errors.Errorf("%s: clock frequencies must not be zero", name)
		}
		if src > fosc {
			return nil, errors.Errorf("%s: clock source (%s) faster than the system clock (%s)", name, src, fosc)
		}
	}
	return (&clcsim.PartSpec{
		Name:    name,
		Outputs: []string{"out"},
		Mount: func(s *clcsim.Socket) []clcsim.Component {
			out := s.Pin("out")
			var (
				acc   osc.Hz
				pre   uint
				count uint8
				post  Postscale
				pulse bool
			)
			prescale := c.Prescale.Ratio()
			return []clcsim.Component{
				func(cc *clcsim.Circuit) {
					if cc.AtTick() {
						pulse = false
						if c.Enabled {
							acc += src
							if acc >= fosc {
								acc -= fosc
								if pre++; pre == prescale {
									pre = 0
									if count == c.Period {
										count = 0
										if post++; post == c.Postscale {
											post = 0
											pulse = true
										}
									} else {
										count++
									}
								}
							}
						}
					}
					cc.Set(out, pulse)
				}}
		}}).NewPart, nil
}

// Cycles returns the number of system clock cycles between two pulses of a
// timer configured with c. It is only an integer when fosc is a multiple of
// src.
func Cycles(c Config, fosc, src osc.Hz) float64 {
	return float64(c.Counts()) * float64(fosc) / float64(src)
}
