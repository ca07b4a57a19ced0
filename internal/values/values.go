// Package values holds the dynamic-value helpers shared by the constraint and
// param packages: numeric-aware equality, change detection, formatting and deep
// copies of parameter values.
package values

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/copystructure"
)

// IsNumeric reports whether v is a Go integer or floating point value.
// Booleans and strings are not numeric.
func IsNumeric(v any) bool {
	_, ok := ToFloat(v)
	return ok
}

// ToFloat converts a numeric value to float64. It does not parse strings.
func ToFloat(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// IsList reports whether v is a slice or an array. Strings are scalars.
func IsList(v any) bool {
	if v == nil {
		return false
	}
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

// Equal compares two parameter values. Numbers compare by value regardless of
// their Go type (1 equals 1.0), lists compare elementwise, everything else
// falls back to reflect.DeepEqual.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if fa, ok := ToFloat(a); ok {
		fb, ok := ToFloat(b)
		return ok && fa == fb
	}
	if IsList(a) || IsList(b) {
		if !IsList(a) || !IsList(b) {
			return false
		}
		ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
		if ra.Len() != rb.Len() {
			return false
		}
		for i := 0; i < ra.Len(); i++ {
			if !Equal(ra.Index(i).Interface(), rb.Index(i).Interface()) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// Differ reports whether next should replace cur. For list values it is true
// when any element differs (or the lengths differ); for scalars it is plain
// inequality.
func Differ(cur, next any) bool {
	if IsList(cur) && IsList(next) {
		rc, rn := reflect.ValueOf(cur), reflect.ValueOf(next)
		if rc.Len() != rn.Len() {
			return true
		}
		for i := 0; i < rc.Len(); i++ {
			if !Equal(rc.Index(i).Interface(), rn.Index(i).Interface()) {
				return true
			}
		}
		return false
	}
	return !Equal(cur, next)
}

// Copy returns a deep copy of v. Values copystructure cannot handle are
// returned as-is.
func Copy(v any) any {
	if v == nil {
		return nil
	}
	c, err := copystructure.Copy(v)
	if err != nil {
		return v
	}
	return c
}

// CopyMap deep-copies a metadata map. A nil map stays nil.
func CopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Copy(v)
	}
	return out
}

// Format renders a value for documentation: strings are quoted, lists are
// bracketed, nil prints as None.
func Format(v any) string {
	switch tv := v.(type) {
	case nil:
		return "None"
	case string:
		return fmt.Sprintf("%q", tv)
	}
	if IsList(v) {
		rv := reflect.ValueOf(v)
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = Format(rv.Index(i).Interface())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return fmt.Sprintf("%v", v)
}
