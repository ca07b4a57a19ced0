package collection

import (
	"fmt"

	"github.com/ggoodman/paramkit/param"
)

// Snapshot is the plain-data form of a collection.
type Snapshot struct {
	Name   string           `json:"name"`
	Params []param.Snapshot `json:"params"`
}

// Snapshot captures every parameter in display order.
func (c *Collection) Snapshot() Snapshot {
	ps := c.Params()
	s := Snapshot{Name: c.name, Params: make([]param.Snapshot, len(ps))}
	for i, p := range ps {
		s.Params[i] = p.Snapshot()
	}
	return s
}

// Restore rebuilds a collection from s. Parameter state is reproduced as
// recorded; no writes are replayed.
func Restore(s Snapshot, opts ...Option) (*Collection, error) {
	c := New(s.Name, opts...)
	for _, ps := range s.Params {
		p, err := param.FromSnapshot(ps)
		if err != nil {
			return nil, fmt.Errorf("collection %s: restore: %w", s.Name, err)
		}
		if err := c.Add(p); err != nil {
			return nil, fmt.Errorf("collection %s: restore: %w", s.Name, err)
		}
	}
	return c, nil
}
