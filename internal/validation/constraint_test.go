package validation

import (
	"testing"

	"github.com/ggoodman/paramkit/constraint"
)

func TestConstraint_Valid(t *testing.T) {
	valid := []constraint.Constraint{
		nil,
		constraint.Int(),
		constraint.Range(),
		constraint.Range(constraint.Min(1), constraint.Max(1)),
		constraint.Choice("a", "b"),
		constraint.AnyOf(constraint.AllOf(constraint.Float(), constraint.Range(constraint.Min(7), constraint.Max(44))), constraint.Null()),
		constraint.AnyOf(constraint.Null()),
	}
	for _, c := range valid {
		if err := Constraint(c); err != nil {
			t.Fatalf("expected %v to be valid, got %v", c, err)
		}
	}
}

func TestConstraint_Invalid(t *testing.T) {
	cases := map[string]constraint.Constraint{
		"empty choice":     constraint.Choice(),
		"duplicate choice": constraint.Choice(1, 1.0),
		"inverted range":   constraint.Range(constraint.Min(5), constraint.Max(1)),
		"empty all_of":     constraint.AllOf(),
		"empty any_of":     constraint.AnyOf(),
		"null at root":     constraint.Null(),
		"null in all_of":   constraint.AllOf(constraint.Int(), constraint.Null()),
		"double null":      constraint.AnyOf(constraint.Null(), constraint.Int(), constraint.Null()),
		"nested invalid":   constraint.AnyOf(constraint.AllOf(constraint.Range(constraint.Min(2), constraint.Max(1)))),
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			if err := Constraint(c); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
