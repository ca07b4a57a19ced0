package constraint

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/invopop/jsonschema"
)

// JSONSchema renders a constraint tree as a JSON Schema fragment. Leaves map
// to type/enum/minimum/maximum keywords, AllOf to allOf and AnyOf to anyOf
// (with a {"type":"null"} branch for the null marker). A nil constraint yields
// an empty schema that accepts anything. Every node carries its Describe text
// as the description.
func JSONSchema(c Constraint) *jsonschema.Schema {
	s := schema(c)
	if c != nil {
		s.Description = c.Describe()
	}
	return s
}

func schema(c Constraint) *jsonschema.Schema {
	switch tc := c.(type) {
	case IntCoerce:
		return &jsonschema.Schema{Type: "integer"}
	case FloatCoerce:
		return &jsonschema.Schema{Type: "number"}
	case BoolCheck:
		return &jsonschema.Schema{Type: "boolean"}
	case NullMarker:
		return &jsonschema.Schema{Type: "null"}
	case *ChoiceCheck:
		return &jsonschema.Schema{Enum: tc.Allowed()}
	case *RangeCheck:
		s := &jsonschema.Schema{Type: "number"}
		// Infinite bounds have no JSON number form and are left open.
		if tc.min != nil && !math.IsInf(*tc.min, 0) {
			s.Minimum = jsonNumber(*tc.min)
		}
		if tc.max != nil && !math.IsInf(*tc.max, 0) {
			s.Maximum = jsonNumber(*tc.max)
		}
		return s
	case *Sequence:
		return &jsonschema.Schema{AllOf: childSchemas(tc.children)}
	case *Alternation:
		return &jsonschema.Schema{AnyOf: childSchemas(tc.children)}
	}
	return &jsonschema.Schema{}
}

func childSchemas(cs []Constraint) []*jsonschema.Schema {
	out := make([]*jsonschema.Schema, len(cs))
	for i, c := range cs {
		out[i] = JSONSchema(c)
	}
	return out
}

func jsonNumber(f float64) json.Number {
	return json.Number(strconv.FormatFloat(f, 'g', -1, 64))
}
