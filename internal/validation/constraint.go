package validation

import (
	"fmt"

	"github.com/ggoodman/paramkit/constraint"
	"github.com/ggoodman/paramkit/internal/values"
)

// Constraint checks that a constraint tree is well formed before a parameter
// is bound to it. A nil tree is valid (no constraint).
func Constraint(c constraint.Constraint) error {
	if c == nil {
		return nil
	}
	if c.Kind() == constraint.KindNull {
		return fmt.Errorf("null marker is only valid inside any_of")
	}
	return walk(c)
}

func walk(c constraint.Constraint) error {
	switch tc := c.(type) {
	case *constraint.ChoiceCheck:
		allowed := tc.Allowed()
		if len(allowed) == 0 {
			return fmt.Errorf("choice requires at least one allowed value")
		}
		for i := range allowed {
			for j := i + 1; j < len(allowed); j++ {
				if values.Equal(allowed[i], allowed[j]) {
					return fmt.Errorf("duplicate choice value %s", values.Format(allowed[i]))
				}
			}
		}
	case *constraint.RangeCheck:
		lo, hasLo := tc.Min()
		hi, hasHi := tc.Max()
		if hasLo && hasHi && lo > hi {
			return fmt.Errorf("range minimum %g greater than maximum %g", lo, hi)
		}
	case *constraint.Sequence:
		children := tc.Children()
		if len(children) == 0 {
			return fmt.Errorf("all_of requires at least one constraint")
		}
		for i, child := range children {
			if child.Kind() == constraint.KindNull {
				return fmt.Errorf("all_of child %d: null marker is only valid inside any_of", i)
			}
			if err := walk(child); err != nil {
				return fmt.Errorf("all_of child %d: %w", i, err)
			}
		}
	case *constraint.Alternation:
		children := tc.Children()
		if len(children) == 0 {
			return fmt.Errorf("any_of requires at least one constraint")
		}
		nulls := 0
		for i, child := range children {
			if child.Kind() == constraint.KindNull {
				nulls++
				continue
			}
			if err := walk(child); err != nil {
				return fmt.Errorf("any_of child %d: %w", i, err)
			}
		}
		if nulls > 1 {
			return fmt.Errorf("any_of lists the null marker %d times", nulls)
		}
	}
	return nil
}
