package param

import "github.com/ggoodman/paramkit/constraint"

// Well-known metadata keys.
const (
	// MetaAllowedType is a free-form label describing the accepted type. It is
	// shown next to the name in generated documentation.
	MetaAllowedType = "allowedtype"
	// MetaStep is an increment/decrement step size hint for optimizers.
	MetaStep = "step"
)

// ReservedMetaKey can never be used as a metadata key.
const ReservedMetaKey = "value"

type options struct {
	constraint constraint.Constraint
	readOnly   bool
	index      *int
	value      any
	name       string
	doc        string
	meta       map[string]any
}

// Option configures a Parameter at construction.
type Option func(*options)

// WithConstraint binds a constraint tree. Every later write goes through it.
func WithConstraint(c constraint.Constraint) Option {
	return func(o *options) { o.constraint = c }
}

// ReadOnly forbids writes after construction. The initial value (default or
// WithValue) is still installed.
func ReadOnly() Option { return func(o *options) { o.readOnly = true } }

// WithIndex sets the display index. Without it the owning collection assigns
// one.
func WithIndex(i int) Option { return func(o *options) { o.index = &i } }

// WithValue installs v instead of the default at construction, without
// marking the parameter as explicitly set. A nil v is the same as omitting
// the option.
func WithValue(v any) Option { return func(o *options) { o.value = v } }

// WithName sets the name under which the parameter is registered.
func WithName(name string) Option { return func(o *options) { o.name = name } }

// WithDoc sets the documentation string.
func WithDoc(doc string) Option { return func(o *options) { o.doc = doc } }

// WithMeta attaches one metadata entry.
func WithMeta(key string, v any) Option {
	return func(o *options) {
		if o.meta == nil {
			o.meta = make(map[string]any)
		}
		o.meta[key] = v
	}
}

// WithMetadata attaches every entry of m.
func WithMetadata(m map[string]any) Option {
	return func(o *options) {
		for k, v := range m {
			WithMeta(k, v)(o)
		}
	}
}

// WithAllowedType sets the MetaAllowedType label.
func WithAllowedType(label string) Option { return WithMeta(MetaAllowedType, label) }

// WithStep sets the MetaStep hint.
func WithStep(step any) Option { return WithMeta(MetaStep, step) }
