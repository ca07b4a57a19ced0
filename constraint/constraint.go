// Package constraint implements the value constraint algebra used by
// parameters: leaf coercions and checks, plus AllOf / AnyOf combinators that
// compose them into an expression tree.
//
// A constraint either returns a canonical value that satisfies it or fails
// with an *Error wrapping one of ErrTypeMismatch, ErrRangeViolation,
// ErrChoiceViolation or ErrValidation:
//
//	c := constraint.AnyOf(
//	    constraint.AllOf(constraint.Float(), constraint.Range(constraint.Min(7), constraint.Max(44))),
//	    constraint.Null(),
//	)
//	v, err := c.Apply("23")   // 23.0, nil
//	v, err = c.Apply(nil)     // nil, nil
//	_, err = c.Apply(50)      // errors.Is(err, constraint.ErrValidation)
//
// The set of variants is closed. Code that needs exhaustive handling can type
// switch over IntCoerce, FloatCoerce, BoolCheck, *ChoiceCheck, *RangeCheck,
// *Sequence, *Alternation and NullMarker.
package constraint

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/ggoodman/paramkit/internal/values"
	"github.com/spf13/cast"
)

// Kind names a constraint variant. It is also the discriminator used by the
// JSON encoding.
type Kind string

const (
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindBool   Kind = "bool"
	KindChoice Kind = "choice"
	KindRange  Kind = "range"
	KindAllOf  Kind = "all_of"
	KindAnyOf  Kind = "any_of"
	KindNull   Kind = "null"
)

// Constraint validates and canonicalizes a value.
type Constraint interface {
	// Kind reports the variant.
	Kind() Kind
	// Apply returns the canonical form of v or an error. It never mutates v.
	Apply(v any) (any, error)
	// Describe returns a human readable description of the accepted values.
	Describe() string

	sealed()
}

// IntCoerce converts values to int. Lists are converted elementwise into a
// []int.
type IntCoerce struct{}

// Int returns the int coercion.
func Int() IntCoerce { return IntCoerce{} }

func (IntCoerce) Kind() Kind { return KindInt }

func (IntCoerce) Apply(v any) (any, error) {
	if values.IsList(v) {
		return toIntList(v)
	}
	return toInt(v)
}

func (IntCoerce) Describe() string { return "value must be convertible to type int" }

func (IntCoerce) sealed() {}

func toInt(v any) (int, error) {
	if v == nil {
		return 0, typeMismatch(v, "None is not convertible to int")
	}
	// Named numeric types are not understood by cast.
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.String:
		// Decimal only: no base prefixes, underscores or fractions.
		n, err := strconv.Atoi(strings.TrimSpace(rv.String()))
		if err != nil {
			return 0, typeMismatch(v, "%s is not convertible to int", values.Format(v))
		}
		return n, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		if i < math.MinInt || i > math.MaxInt {
			return 0, typeMismatch(v, "%v overflows int", v)
		}
		return int(i), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt {
			return 0, typeMismatch(v, "%v overflows int", v)
		}
		return int(u), nil
	case reflect.Float32, reflect.Float64:
		f := math.Trunc(rv.Float())
		if math.IsNaN(f) || f < math.MinInt || f >= -float64(math.MinInt) {
			return 0, typeMismatch(v, "%v is not convertible to int", v)
		}
		return int(f), nil
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, typeMismatch(v, "%s is not convertible to int", values.Format(v))
	}
	return n, nil
}

func toIntList(v any) ([]int, error) {
	rv := reflect.ValueOf(v)
	out := make([]int, rv.Len())
	for i := range out {
		item := rv.Index(i).Interface()
		n, err := toInt(item)
		if err != nil {
			return nil, typeMismatch(v, "element %d: %s is not convertible to int", i, values.Format(item))
		}
		out[i] = n
	}
	return out, nil
}

// FloatCoerce converts scalar values to float64.
type FloatCoerce struct{}

// Float returns the float coercion.
func Float() FloatCoerce { return FloatCoerce{} }

func (FloatCoerce) Kind() Kind { return KindFloat }

func (FloatCoerce) Apply(v any) (any, error) {
	if v == nil || values.IsList(v) {
		return nil, typeMismatch(v, "%s is not convertible to float", values.Format(v))
	}
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil, typeMismatch(v, "%s is not convertible to float", values.Format(v))
	}
	return f, nil
}

func (FloatCoerce) Describe() string { return "value must be convertible to type float" }

func (FloatCoerce) sealed() {}

// BoolCheck accepts only real booleans. There is no truthiness coercion.
type BoolCheck struct{}

// Bool returns the boolean type check.
func Bool() BoolCheck { return BoolCheck{} }

func (BoolCheck) Kind() Kind { return KindBool }

func (BoolCheck) Apply(v any) (any, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, typeMismatch(v, "value must be of type bool, got %T", v)
	}
	return b, nil
}

func (BoolCheck) Describe() string { return "value must be of type bool" }

func (BoolCheck) sealed() {}

// ChoiceCheck accepts members of a fixed set of values.
type ChoiceCheck struct {
	allowed []any
}

// Choice returns a membership check over allowed. Numbers compare by value, so
// Choice(1, 2) accepts 1.0.
func Choice(allowed ...any) *ChoiceCheck {
	return &ChoiceCheck{allowed: append([]any(nil), allowed...)}
}

// Allowed returns a copy of the allowed values in declaration order.
func (c *ChoiceCheck) Allowed() []any { return append([]any(nil), c.allowed...) }

func (c *ChoiceCheck) Kind() Kind { return KindChoice }

func (c *ChoiceCheck) Apply(v any) (any, error) {
	for _, a := range c.allowed {
		if values.Equal(a, v) {
			return v, nil
		}
	}
	return nil, &Error{
		Err:   ErrChoiceViolation,
		Value: v,
		Msg:   fmt.Sprintf("value %s is not in %s", values.Format(v), c.set()),
	}
}

func (c *ChoiceCheck) Describe() string { return "value must be in " + c.set() }

func (c *ChoiceCheck) set() string {
	parts := make([]string, len(c.allowed))
	for i, a := range c.allowed {
		parts[i] = values.Format(a)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (c *ChoiceCheck) sealed() {}

// RangeCheck accepts numbers within an inclusive, optionally open-ended range.
type RangeCheck struct {
	min, max *float64
}

// RangeOption sets a bound on a RangeCheck.
type RangeOption func(*RangeCheck)

// Min sets the inclusive lower bound.
func Min(f float64) RangeOption { return func(r *RangeCheck) { r.min = &f } }

// Max sets the inclusive upper bound.
func Max(f float64) RangeOption { return func(r *RangeCheck) { r.max = &f } }

// Range returns a range check. Without options both sides are open.
func Range(opts ...RangeOption) *RangeCheck {
	r := &RangeCheck{}
	for _, o := range opts {
		if o != nil {
			o(r)
		}
	}
	return r
}

// Min returns the lower bound, if any.
func (r *RangeCheck) Min() (float64, bool) { return bound(r.min) }

// Max returns the upper bound, if any.
func (r *RangeCheck) Max() (float64, bool) { return bound(r.max) }

func bound(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

func (r *RangeCheck) Kind() Kind { return KindRange }

func (r *RangeCheck) Apply(v any) (any, error) {
	f, ok := values.ToFloat(v)
	if !ok {
		return nil, typeMismatch(v, "range check expects a number, got %T", v)
	}
	if r.min != nil && f < *r.min {
		return nil, &Error{
			Err:   ErrRangeViolation,
			Value: v,
			Msg:   fmt.Sprintf("value %s below minimum %s", values.Format(v), formatBound(r.min, "-inf")),
		}
	}
	if r.max != nil && f > *r.max {
		return nil, &Error{
			Err:   ErrRangeViolation,
			Value: v,
			Msg:   fmt.Sprintf("value %s above maximum %s", values.Format(v), formatBound(r.max, "inf")),
		}
	}
	return v, nil
}

func (r *RangeCheck) Describe() string {
	return "value must be in range [" + formatBound(r.min, "-inf") + ", " + formatBound(r.max, "inf") + "]"
}

func formatBound(p *float64, open string) string {
	if p == nil {
		return open
	}
	return strconv.FormatFloat(*p, 'g', -1, 64)
}

func (r *RangeCheck) sealed() {}
