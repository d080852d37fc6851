package firmware

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph/multi"
	"gonum.org/v1/gonum/graph/topo"
)

// A Step is one named configuration step of the power-up sequence.
type Step struct {
	Name  string
	After []string // steps that must have run before this one
	Run   func(d *Device, c Config) error
}

// A Sequence is an ordered list of configuration steps. Steps run in the
// order they are declared. That order must satisfy every After constraint.
type Sequence []Step

type stepNode struct {
	name string
	id   int64
}

func (n *stepNode) ID() int64 { return n.id }

// Validate checks that step names are unique, that dependencies name
// existing steps, that the dependency graph is acyclic and that the declared
// order runs every step after its dependencies.
func (s Sequence) Validate() error {
	g := multi.NewDirectedGraph()
	nodes := make(map[string]*stepNode, len(s))
	for i, st := range s {
		if st.Name == "" {
			return errors.Errorf("step %d has no name", i)
		}
		if _, ok := nodes[st.Name]; ok {
			return errors.Errorf("duplicate step %q", st.Name)
		}
		if st.Run == nil {
			return errors.Errorf("step %q has no Run function", st.Name)
		}
		n := &stepNode{st.Name, int64(i)}
		nodes[st.Name] = n
		g.AddNode(n)
	}
	for _, st := range s {
		for _, dep := range st.After {
			from, ok := nodes[dep]
			switch {
			case !ok:
				return errors.Errorf("step %q depends on unknown step %q", st.Name, dep)
			case dep == st.Name:
				return errors.Errorf("step %q depends on itself", st.Name)
			}
			g.SetLine(g.NewLine(from, nodes[st.Name]))
		}
	}
	if _, err := topo.Sort(g); err != nil {
		return errors.Wrap(err, "dependency cycle")
	}
	for _, st := range s {
		for _, dep := range st.After {
			if nodes[dep].id > nodes[st.Name].id {
				return errors.Errorf("step %q must run after %q", st.Name, dep)
			}
		}
	}
	return nil
}

// Run validates the sequence then runs every step in order on d.
func (s Sequence) Run(d *Device, c Config) error {
	if err := s.Validate(); err != nil {
		return err
	}
	for _, st := range s {
		if err := st.Run(d, c); err != nil {
			return errors.Wrap(err, st.Name)
		}
	}
	return nil
}
