// Package param declares named, typed, constrained configuration values.
//
// A Parameter holds a default and a current value. Every write is routed
// through an optional constraint tree (see package constraint) and a change
// detection policy that records whether the value was explicitly overridden:
//
//	p, err := param.New(23.0,
//	    param.WithName("C"),
//	    param.WithDoc("Trade-off parameter"),
//	    param.WithConstraint(constraint.AnyOf(
//	        constraint.AllOf(constraint.Float(), constraint.Range(constraint.Min(7), constraint.Max(44))),
//	        constraint.Null(),
//	    )),
//	)
//	_ = p.SetValue("30")  // stored as 30.0, IsSet() == true
//	_ = p.ResetValue()    // back to 23.0
//
// Parameters are not safe for concurrent mutation. Owners that share one
// across goroutines must serialize access themselves.
package param

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ggoodman/paramkit/constraint"
	"github.com/ggoodman/paramkit/internal/validation"
	"github.com/ggoodman/paramkit/internal/values"
)

var (
	// ErrImmutable is returned when writing to a read-only parameter after
	// construction.
	ErrImmutable = errors.New("param: immutable parameter")
	// ErrConfig is returned for invalid construction arguments, such as the
	// reserved metadata key or a malformed constraint tree.
	ErrConfig = errors.New("param: invalid configuration")
)

// Declared is implemented by Parameter and KernelParameter. Collections hold
// Declared values and type switch on them to group by role.
type Declared interface {
	// Base returns the underlying Parameter.
	Base() *Parameter
	// Snapshot captures the declaration for later reconstruction.
	Snapshot() Snapshot
	// Describe renders the help entry.
	Describe(indent string, width int) string
}

// Parameter is a named configuration slot with a default, a current value and
// change tracking.
type Parameter struct {
	name       string
	doc        string
	index      *int
	constraint constraint.Constraint
	readOnly   bool
	meta       map[string]any

	def     any
	current any
	isSet   bool
	// bound marks current as the default itself rather than an equal copy.
	bound bool
}

var _ Declared = (*Parameter)(nil)

// New declares a parameter with default def. The initial value (def, or the
// one given by WithValue) passes through the constraint but neither the
// read-only check nor explicit-set tracking applies to it.
func New(def any, opts ...Option) (*Parameter, error) {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if _, ok := o.meta[ReservedMetaKey]; ok {
		return nil, fmt.Errorf("%w: metadata key %q is reserved", ErrConfig, ReservedMetaKey)
	}
	if err := validation.Constraint(o.constraint); err != nil {
		return nil, fmt.Errorf("%w: constraint: %w", ErrConfig, err)
	}

	p := &Parameter{
		name:       o.name,
		doc:        o.doc,
		index:      o.index,
		constraint: o.constraint,
		readOnly:   o.readOnly,
		meta:       o.meta,
		def:        def,
	}
	if o.value == nil {
		if _, err := p.set(def, true); err != nil {
			return nil, err
		}
		p.bound = true
	} else if _, err := p.set(o.value, true); err != nil {
		return nil, err
	}
	return p, nil
}

// MustNew is like New but panics on error.
func MustNew(def any, opts ...Option) *Parameter {
	p, err := New(def, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Base returns p.
func (p *Parameter) Base() *Parameter { return p }

// Name returns the registration name.
func (p *Parameter) Name() string { return p.name }

// Doc returns the documentation string.
func (p *Parameter) Doc() string { return p.doc }

// Index returns the display index, if one has been assigned.
func (p *Parameter) Index() (int, bool) {
	if p.index == nil {
		return 0, false
	}
	return *p.index, true
}

// SetIndex assigns the display index. Collections call it for parameters
// declared without one.
func (p *Parameter) SetIndex(i int) { p.index = &i }

// Constraint returns the bound constraint tree, or nil.
func (p *Parameter) Constraint() constraint.Constraint { return p.constraint }

// ReadOnly reports whether writes after construction are rejected.
func (p *Parameter) ReadOnly() bool { return p.readOnly }

// Value returns the current value.
func (p *Parameter) Value() any { return p.current }

// Default returns the stored default.
func (p *Parameter) Default() any { return p.def }

// IsSet reports whether the value was changed through SetValue or
// ResetValue since construction.
func (p *Parameter) IsSet() bool { return p.isSet }

// IsDefault reports whether the current value is bound to the default: it
// was assigned from the default at construction, by ResetValue or by
// SetDefault, and not overwritten since. A value that merely equals the
// default is not bound; see EqualDefault.
func (p *Parameter) IsDefault() bool { return p.bound }

// EqualDefault reports whether the current value equals the default.
func (p *Parameter) EqualDefault() bool { return values.Equal(p.current, p.def) }

// Metadata returns a copy of the descriptive metadata.
func (p *Parameter) Metadata() map[string]any {
	out := make(map[string]any, len(p.meta))
	for k, v := range p.meta {
		out[k] = v
	}
	return out
}

// Meta returns one metadata entry.
func (p *Parameter) Meta(key string) (any, bool) {
	v, ok := p.meta[key]
	return v, ok
}

// AllowedType returns the MetaAllowedType label, if it is a string.
func (p *Parameter) AllowedType() (string, bool) {
	s, ok := p.meta[MetaAllowedType].(string)
	return s, ok
}

// Step returns the MetaStep hint.
func (p *Parameter) Step() (any, bool) { return p.Meta(MetaStep) }

// SetValue writes v through the constraint. A value equal to the current one
// is a no-op. On a read-only parameter it fails with ErrImmutable even when
// the value would not change. On failure the parameter is left untouched.
func (p *Parameter) SetValue(v any) error {
	_, err := p.set(v, false)
	return err
}

// set reports whether current was assigned.
func (p *Parameter) set(v any, init bool) (bool, error) {
	if p.constraint != nil {
		out, err := p.constraint.Apply(v)
		if err != nil {
			return false, fmt.Errorf("param %s: %w", p.name, err)
		}
		v = out
	}
	different := values.Differ(p.current, v)
	if p.readOnly && !init {
		return false, fmt.Errorf("%w: attempt to set read-only parameter %s to %s", ErrImmutable, p.name, values.Format(v))
	}
	if !different {
		slog.Debug("param: not setting, value is the same", slog.String("name", p.name))
		return false, nil
	}
	slog.Debug("param: setting value", slog.String("name", p.name), slog.Any("value", v))
	p.current = v
	p.bound = false
	if !init {
		p.isSet = true
	}
	return true, nil
}

// ResetValue assigns the default to the current value. It does nothing when
// the value is already bound or the parameter is read-only. A value that
// merely equals the default is left as is and stays unbound. A successful
// reset leaves IsSet() true, even though the value now equals the default.
func (p *Parameter) ResetValue() error {
	if p.bound || p.readOnly {
		return nil
	}
	assigned, err := p.set(p.def, false)
	if err != nil {
		return err
	}
	if assigned {
		p.bound = true
	}
	p.isSet = true
	return nil
}

// SetDefault replaces the default. If the current value was bound to the old
// default it follows the new one and IsSet() is cleared; otherwise the
// current value is left alone. If the new default is rejected by the
// constraint, the old default is restored and the error returned.
func (p *Parameter) SetDefault(def any) error {
	wasDefault := p.bound
	prevDef := p.def
	p.def = def
	if !wasDefault {
		return nil
	}
	if p.readOnly {
		p.bound = false
		return nil
	}
	if _, err := p.set(def, false); err != nil {
		p.def = prevDef
		return err
	}
	p.bound = true
	p.isSet = false
	return nil
}

// String renders the parameter as name=value.
func (p *Parameter) String() string {
	return fmt.Sprintf("%s=%s", p.name, values.Format(p.current))
}
