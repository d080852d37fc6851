// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package clcsim

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// A Connection represents a connection between the pin PP of a part and
// the pins CP in its host chip.
type Connection struct {
	PP string
	CP []string
}

// BusPinName returns the pin name for the n-th bit of the given bus.
func BusPinName(bus string, bit int) string {
	return bus + "[" + strconv.Itoa(bit) + "]"
}

// IO parses a pin specification string and returns individual pin names,
// expanding bus declarations. It panics if the specification is malformed.
//
//	IO("in[2], sel") // returns []string{"in[0]", "in[1]", "sel"}
func IO(spec string) []string {
	out, err := parseIO(spec)
	if err != nil {
		panic(err)
	}
	return out
}

func parseIO(spec string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(spec, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		i := strings.IndexByte(f, '[')
		if i < 0 {
			if !isIdent(f) {
				return nil, parseError(spec, "invalid pin name "+strconv.Quote(f))
			}
			out = append(out, f)
			continue
		}
		name := f[:i]
		if !isIdent(name) || !strings.HasSuffix(f, "]") {
			return nil, parseError(spec, "invalid bus specification "+strconv.Quote(f))
		}
		n, err := strconv.Atoi(f[i+1 : len(f)-1])
		if err != nil || n <= 0 {
			return nil, parseError(spec, "invalid bus size in "+strconv.Quote(f))
		}
		for b := 0; b < n; b++ {
			out = append(out, BusPinName(name, b))
		}
	}
	return out, nil
}

// ParseConnections parses a connection configuration like "partPin1=chipPin1,
// partPin2=chipPin2" into a []Connection.
//
// Bus ranges are expanded: "out[0..1]=w[2..3]" connects out[0] to w[2] and
// out[1] to w[3]. A single part pin may be connected to a range of chip pins
// ("out=w[0..1]") and an output pin may be listed more than once to fan its
// signal out to several chip pins.
func ParseConnections(c string) ([]Connection, error) {
	var conns []Connection
	idx := make(map[string]int)
	for _, f := range strings.Split(c, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		kv := strings.Split(f, "=")
		if len(kv) != 2 {
			return nil, parseError(c, "expected pin=wire, got "+strconv.Quote(f))
		}
		k, v := strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1])
		ks, err := expandRange(k)
		if err != nil {
			return nil, parseError(c, err.Error())
		}
		vs, err := expandRange(v)
		if err != nil {
			return nil, parseError(c, err.Error())
		}
		var pairs [][2]string
		switch {
		case len(ks) == len(vs):
			for i := range ks {
				pairs = append(pairs, [2]string{ks[i], vs[i]})
			}
		case len(ks) == 1:
			for _, v := range vs {
				pairs = append(pairs, [2]string{ks[0], v})
			}
		default:
			return nil, parseError(c, "pin count mismatch in "+strconv.Quote(f))
		}
		for _, p := range pairs {
			if i, ok := idx[p[0]]; ok {
				conns[i].CP = append(conns[i].CP, p[1])
				continue
			}
			idx[p[0]] = len(conns)
			conns = append(conns, Connection{PP: p[0], CP: []string{p[1]}})
		}
	}
	return conns, nil
}

func expandRange(name string) ([]string, error) {
	i := strings.IndexByte(name, '[')
	if i < 0 {
		if !isIdent(name) {
			return nil, errors.New("invalid pin name " + strconv.Quote(name))
		}
		return []string{name}, nil
	}
	bus := name[:i]
	if !isIdent(bus) || !strings.HasSuffix(name, "]") {
		return nil, errors.New("invalid bus pin " + strconv.Quote(name))
	}
	n := name[i+1 : len(name)-1]
	j := strings.Index(n, "..")
	if j < 0 {
		bit, err := strconv.Atoi(n)
		if err != nil || bit < 0 {
			return nil, errors.New("invalid bus index in " + strconv.Quote(name))
		}
		return []string{BusPinName(bus, bit)}, nil
	}
	start, err := strconv.Atoi(n[:j])
	if err != nil {
		return nil, errors.Wrap(err, "bus range start")
	}
	end, err := strconv.Atoi(n[j+2:])
	if err != nil {
		return nil, errors.Wrap(err, "bus range end")
	}
	if start < 0 || end < start {
		return nil, errors.New("invalid bus range in " + strconv.Quote(name))
	}
	r := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		r = append(r, BusPinName(bus, i))
	}
	return r, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

func parseError(in string, msg string) error {
	return errors.Errorf("in %q: %s", in, msg)
}
