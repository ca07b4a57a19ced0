package constraint

import (
	"strings"

	"github.com/ggoodman/paramkit/internal/values"
	"github.com/hashicorp/go-multierror"
)

// Sequence is the AND combinator built by AllOf.
type Sequence struct {
	children []Constraint
}

// AllOf pipes a value through each constraint in order: the output of one is
// the input of the next. The first failure is returned unchanged. Nil entries
// are ignored.
func AllOf(cs ...Constraint) *Sequence {
	return &Sequence{children: compact(cs)}
}

// Children returns a copy of the child constraints.
func (s *Sequence) Children() []Constraint { return append([]Constraint(nil), s.children...) }

func (s *Sequence) Kind() Kind { return KindAllOf }

func (s *Sequence) Apply(v any) (any, error) {
	for _, c := range s.children {
		out, err := c.Apply(v)
		if err != nil {
			return nil, err
		}
		v = out
	}
	return v, nil
}

// Describe joins the children with a comma.
func (s *Sequence) Describe() string {
	parts := make([]string, 0, len(s.children))
	for _, c := range s.children {
		parts = append(parts, c.Describe())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (s *Sequence) sealed() {}

// Alternation is the OR combinator built by AnyOf.
type Alternation struct {
	children []Constraint
}

// AnyOf tries each constraint in order and returns the first success. When
// one of the entries is Null(), a nil input is accepted immediately without
// consulting the others. Nil entries are ignored.
func AnyOf(cs ...Constraint) *Alternation {
	return &Alternation{children: compact(cs)}
}

// Children returns a copy of the child constraints, null marker included.
func (a *Alternation) Children() []Constraint { return append([]Constraint(nil), a.children...) }

// AllowsNull reports whether the null marker is among the children.
func (a *Alternation) AllowsNull() bool {
	for _, c := range a.children {
		if c.Kind() == KindNull {
			return true
		}
	}
	return false
}

func (a *Alternation) Kind() Kind { return KindAnyOf }

func (a *Alternation) Apply(v any) (any, error) {
	if v == nil && a.AllowsNull() {
		return nil, nil
	}
	var causes *multierror.Error
	for _, c := range a.children {
		if c.Kind() == KindNull {
			continue
		}
		out, err := c.Apply(v)
		if err == nil {
			return out, nil
		}
		causes = multierror.Append(causes, err)
	}
	return nil, &Error{
		Err:    ErrValidation,
		Value:  v,
		Msg:    "all given constraints are violated by " + values.Format(v),
		Causes: causes.ErrorOrNil(),
	}
}

// Describe joins the children with "or", leading with None when the null
// marker is present.
func (a *Alternation) Describe() string {
	var parts []string
	for _, c := range a.children {
		if c.Kind() != KindNull {
			parts = append(parts, c.Describe())
		}
	}
	if !a.AllowsNull() {
		return "(" + strings.Join(parts, " or ") + ")"
	}
	if len(parts) == 0 {
		return "(None)"
	}
	return "(None or " + strings.Join(parts, " or ") + ")"
}

func (a *Alternation) sealed() {}

// NullMarker is the literal "accept nil" entry of an AnyOf.
type NullMarker struct{}

// Null returns the null marker.
func Null() NullMarker { return NullMarker{} }

func (NullMarker) Kind() Kind { return KindNull }

// Apply accepts only nil.
func (NullMarker) Apply(v any) (any, error) {
	if v != nil {
		return nil, typeMismatch(v, "value must be None, got %s", values.Format(v))
	}
	return nil, nil
}

func (NullMarker) Describe() string { return "None" }

func (NullMarker) sealed() {}

func compact(cs []Constraint) []Constraint {
	out := make([]Constraint, 0, len(cs))
	for _, c := range cs {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Equal reports whether two constraint trees are structurally identical.
func Equal(a, b Constraint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch ta := a.(type) {
	case IntCoerce, FloatCoerce, BoolCheck, NullMarker:
		return true
	case *ChoiceCheck:
		tb := b.(*ChoiceCheck)
		if len(ta.allowed) != len(tb.allowed) {
			return false
		}
		for i := range ta.allowed {
			if !values.Equal(ta.allowed[i], tb.allowed[i]) {
				return false
			}
		}
		return true
	case *RangeCheck:
		tb := b.(*RangeCheck)
		return equalBound(ta.min, tb.min) && equalBound(ta.max, tb.max)
	case *Sequence:
		return equalChildren(ta.children, b.(*Sequence).children)
	case *Alternation:
		return equalChildren(ta.children, b.(*Alternation).children)
	}
	return false
}

func equalBound(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalChildren(a, b []Constraint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
