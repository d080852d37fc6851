// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package clcsim

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type chip struct {
	PartSpec        // PartSpec for this chip
	parts    []Part // sub parts
	// alias maps the extra wires an output pin fans out to, onto the wire
	// that carries the signal.
	alias map[string]string
}

func (c *chip) mount(s *Socket) []Component {
	var updaters []Component

	for w, canon := range c.alias {
		s.m[w] = s.PinOrNew(canon)
	}
	for _, p := range c.parts {
		sub := newSocket(s.c)
		for _, cn := range p.Conns {
			sub.m[cn.PP] = s.PinOrNew(cn.CP[0])
		}
		// unconnected inputs read False, unconnected outputs get a private wire.
		for _, in := range p.Inputs {
			if _, ok := sub.m[in]; !ok {
				sub.m[in] = cstFalse
			}
		}
		for _, out := range p.Outputs {
			if _, ok := sub.m[out]; !ok {
				sub.m[out] = s.c.allocPin()
			}
		}
		updaters = append(updaters, p.Mount(sub)...)
	}
	return updaters
}

// Chip composes existing parts into a new part packaged into a chip.
// The pin names specified as inputs and outputs will be the inputs
// and outputs of the chip.
//
// An Xor gate could be created like this:
//
//	xor, err := Chip("XOR", "a, b", "out",
//		hwlib.Nand("a=a, b=b, out=nandAB"),
//		hwlib.Nand("a=a, b=nandAB, out=w0"),
//		hwlib.Nand("a=b, b=nandAB, out=w1"),
//		hwlib.Nand("a=w0, b=w1, out=out"),
//	)
//
// The returned value is a function of type NewPartFn that can be used to
// compose the new part with others into other chips:
//
//	xnor, err := Chip("XNOR", "a, b", "out",
//		xor("a=a, b=b, out=xorAB"),
//		hwlib.Not("in=xorAB, out=out"),
//	)
//
// Chip checks the wiring and reports unknown pin names, inputs connected to
// several wires, outputs driving constants or chip inputs, wires with more
// than one driver, wires that are read but never driven and wires that are
// driven but never read.
func Chip(name string, inputs string, outputs string, parts ...Part) (NewPartFn, error) {
	ins, err := parseIO(inputs)
	if err != nil {
		return nil, errors.Wrap(err, name+" inputs")
	}
	outs, err := parseIO(outputs)
	if err != nil {
		return nil, errors.Wrap(err, name+" outputs")
	}
	isIn := make(map[string]bool, len(ins))
	for _, n := range ins {
		isIn[n] = true
	}
	isOut := make(map[string]bool, len(outs))
	for _, n := range outs {
		if isIn[n] {
			return nil, errors.New("pin " + n + " is both an input and an output of " + name)
		}
		isOut[n] = true
	}

	drivers := make(map[string]string) // wire -> driving pin
	readers := make(map[string]bool)
	alias := make(map[string]string)

	for _, p := range parts {
		for _, cn := range p.Conns {
			pp := p.Name + "." + cn.PP
			switch {
			case p.isInput(cn.PP):
				if len(cn.CP) > 1 {
					return nil, errors.New(pp + ": input pin connected to more than one wire")
				}
				readers[cn.CP[0]] = true
			case p.isOutput(cn.PP):
				canon := ""
				for _, w := range cn.CP {
					switch {
					case isConstant(w):
						return nil, errors.New(pp + ":" + w + ": output pin connected to constant " + w + " input")
					case isIn[w]:
						return nil, errors.New(pp + ":" + w + ": chip input pin used as output")
					case drivers[w] != "":
						return nil, errors.New(pp + ":" + w + ": output pin already used as output")
					case isOut[w] && canon != "" && isOut[canon]:
						return nil, errors.New(pp + ":" + w + ": output pin drives more than one chip output")
					}
					drivers[w] = pp
					if canon == "" || isOut[w] {
						canon = w
					}
				}
				for _, w := range cn.CP {
					if w != canon {
						alias[w] = canon
					}
				}
			default:
				return nil, errors.New("invalid pin name " + cn.PP + " for part " + p.Name)
			}
		}
	}

	for _, w := range sortedKeys(readers) {
		if !isConstant(w) && !isIn[w] && drivers[w] == "" {
			return nil, errors.New("pin " + w + " not connected to any output")
		}
	}
	for _, w := range sortedKeys(drivers) {
		if !readers[w] && !isOut[w] {
			return nil, errors.New("pin " + w + " not connected to any input")
		}
	}

	c := &chip{
		PartSpec: PartSpec{
			Name:    name,
			Inputs:  ins,
			Outputs: outs,
		},
		parts: parts,
		alias: alias,
	}
	c.PartSpec.Mount = c.mount
	return c.PartSpec.NewPart, nil
}

// sortedKeys makes wiring errors deterministic.
func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
