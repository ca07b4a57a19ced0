package param

import (
	"encoding/json"
	"fmt"

	"github.com/ggoodman/paramkit/constraint"
	"github.com/ggoodman/paramkit/internal/validation"
	"github.com/ggoodman/paramkit/internal/values"
)

// Snapshot is the plain-data form of a declaration. Besides the declaration
// itself (default, constraint, read-only flag, name, doc, index, metadata) it
// records the live state so that FromSnapshot reproduces the parameter
// without replaying any writes.
type Snapshot struct {
	Name           string
	Doc            string
	Index          *int
	Default        any
	Constraint     constraint.Constraint
	ReadOnly       bool
	Metadata       map[string]any
	Kernel         bool
	Value          any
	IsSet          bool
	BoundToDefault bool
}

// Snapshot captures p. Values and metadata are deep copies.
func (p *Parameter) Snapshot() Snapshot {
	s := Snapshot{
		Name:           p.name,
		Doc:            p.doc,
		Default:        values.Copy(p.def),
		Constraint:     p.constraint,
		ReadOnly:       p.readOnly,
		Metadata:       values.CopyMap(p.meta),
		Value:          values.Copy(p.current),
		IsSet:          p.isSet,
		BoundToDefault: p.bound,
	}
	if p.index != nil {
		i := *p.index
		s.Index = &i
	}
	return s
}

// FromSnapshot rebuilds the declaration captured by s. The value is installed
// as recorded; the constraint is not re-applied and IsSet/IsDefault are
// restored rather than recomputed. Kernel snapshots yield a *KernelParameter.
func FromSnapshot(s Snapshot) (Declared, error) {
	if _, ok := s.Metadata[ReservedMetaKey]; ok {
		return nil, fmt.Errorf("%w: metadata key %q is reserved", ErrConfig, ReservedMetaKey)
	}
	if err := validation.Constraint(s.Constraint); err != nil {
		return nil, fmt.Errorf("%w: constraint: %w", ErrConfig, err)
	}
	p := &Parameter{
		name:       s.Name,
		doc:        s.Doc,
		constraint: s.Constraint,
		readOnly:   s.ReadOnly,
		meta:       values.CopyMap(s.Metadata),
		def:        values.Copy(s.Default),
		current:    values.Copy(s.Value),
		isSet:      s.IsSet,
		bound:      s.BoundToDefault,
	}
	if s.Index != nil {
		p.SetIndex(*s.Index)
	}
	if s.Kernel {
		return &KernelParameter{Parameter: p}, nil
	}
	return p, nil
}

type snapshotJSON struct {
	Name           string                     `json:"name"`
	Doc            string                     `json:"doc,omitempty"`
	Index          *int                       `json:"index,omitempty"`
	Default        json.RawMessage            `json:"default"`
	Constraint     json.RawMessage            `json:"constraint,omitempty"`
	ReadOnly       bool                       `json:"read_only,omitempty"`
	Metadata       map[string]json.RawMessage `json:"metadata,omitempty"`
	Kernel         bool                       `json:"kernel,omitempty"`
	Value          json.RawMessage            `json:"value"`
	IsSet          bool                       `json:"is_set,omitempty"`
	BoundToDefault bool                       `json:"bound_to_default,omitempty"`
}

// MarshalJSON encodes the snapshot with type-preserving value tags.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	w := snapshotJSON{
		Name:           s.Name,
		Doc:            s.Doc,
		Index:          s.Index,
		ReadOnly:       s.ReadOnly,
		Kernel:         s.Kernel,
		IsSet:          s.IsSet,
		BoundToDefault: s.BoundToDefault,
	}
	var err error
	if w.Default, err = values.Encode(s.Default); err != nil {
		return nil, fmt.Errorf("param %s: default: %w", s.Name, err)
	}
	if w.Value, err = values.Encode(s.Value); err != nil {
		return nil, fmt.Errorf("param %s: value: %w", s.Name, err)
	}
	if w.Metadata, err = values.EncodeMap(s.Metadata); err != nil {
		return nil, fmt.Errorf("param %s: metadata: %w", s.Name, err)
	}
	if s.Constraint != nil {
		if w.Constraint, err = constraint.Marshal(s.Constraint); err != nil {
			return nil, fmt.Errorf("param %s: %w", s.Name, err)
		}
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a snapshot produced by MarshalJSON.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var w snapshotJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("param: decode snapshot: %w", err)
	}
	out := Snapshot{
		Name:           w.Name,
		Doc:            w.Doc,
		Index:          w.Index,
		ReadOnly:       w.ReadOnly,
		Kernel:         w.Kernel,
		IsSet:          w.IsSet,
		BoundToDefault: w.BoundToDefault,
	}
	var err error
	if out.Default, err = values.Decode(w.Default); err != nil {
		return fmt.Errorf("param %s: default: %w", w.Name, err)
	}
	if out.Value, err = values.Decode(w.Value); err != nil {
		return fmt.Errorf("param %s: value: %w", w.Name, err)
	}
	if out.Metadata, err = values.DecodeMap(w.Metadata); err != nil {
		return fmt.Errorf("param %s: metadata: %w", w.Name, err)
	}
	if len(w.Constraint) > 0 {
		if out.Constraint, err = constraint.Unmarshal(w.Constraint); err != nil {
			return fmt.Errorf("param %s: %w", w.Name, err)
		}
	}
	*s = out
	return nil
}
