package collection

import (
	"github.com/ggoodman/paramkit/constraint"
	"github.com/ggoodman/paramkit/param"
	"github.com/invopop/jsonschema"
)

// JSONSchema describes the collection as a JSON Schema object with one
// property per parameter. Metadata entries are exposed as "x-" extensions and
// kernel parameters are flagged with "x-kernel".
func (c *Collection) JSONSchema() *jsonschema.Schema {
	s := &jsonschema.Schema{
		Version:              jsonschema.Version,
		Title:                c.name,
		Type:                 "object",
		Properties:           jsonschema.NewProperties(),
		AdditionalProperties: jsonschema.FalseSchema,
	}
	for _, p := range c.Params() {
		s.Properties.Set(p.Base().Name(), propertySchema(p))
	}
	return s
}

func propertySchema(d param.Declared) *jsonschema.Schema {
	p := d.Base()
	ps := constraint.JSONSchema(p.Constraint())
	if p.Doc() != "" {
		ps.Description = p.Doc()
	}
	ps.Default = p.Default()
	ps.ReadOnly = p.ReadOnly()

	extras := map[string]any{}
	for k, v := range p.Metadata() {
		extras["x-"+k] = v
	}
	if _, ok := d.(*param.KernelParameter); ok {
		extras["x-kernel"] = true
	}
	if len(extras) > 0 {
		ps.Extras = extras
	}
	return ps
}
