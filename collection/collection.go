// Package collection hosts a set of named parameters. It assigns display
// indices, aggregates help text, groups parameters by role, applies bulk
// updates and captures or restores the whole set as a snapshot.
//
// A Collection is not safe for concurrent use.
package collection

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/ggoodman/paramkit/internal/logctx"
	"github.com/ggoodman/paramkit/param"
	"github.com/hashicorp/go-multierror"
)

var (
	// ErrNilParam is returned when adding a nil parameter.
	ErrNilParam = errors.New("collection: nil parameter")
	// ErrEmptyName is returned when adding a parameter without a name.
	ErrEmptyName = errors.New("collection: parameter has no name")
	// ErrDuplicate is returned when a name is already registered.
	ErrDuplicate = errors.New("collection: duplicate parameter")
	// ErrUnknown is returned for names that are not registered.
	ErrUnknown = errors.New("collection: unknown parameter")
)

// Collection is a named set of parameters.
type Collection struct {
	name      string
	cfg       Config
	log       *slog.Logger
	params    map[string]param.Declared
	nextIndex int
}

// Option configures a Collection.
type Option func(*Collection)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(c *Collection) { c.cfg = cfg.normalized() }
}

// WithLogger sets the logger. Records logged with a context carrying
// collection data get a "coll" attribute group.
func WithLogger(l *slog.Logger) Option {
	return func(c *Collection) {
		if l != nil {
			c.log = slog.New(logctx.Wrap(l.Handler()))
		}
	}
}

// New creates an empty collection.
func New(name string, opts ...Option) *Collection {
	c := &Collection{
		name:   name,
		cfg:    DefaultConfig(),
		params: make(map[string]param.Declared),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.log == nil {
		c.log = slog.New(logctx.Wrap(nil))
	}
	return c
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// Config returns the active configuration.
func (c *Collection) Config() Config { return c.cfg }

// Add registers p under its name. A parameter without a display index gets
// the next one in creation order.
func (c *Collection) Add(p param.Declared) error {
	if p == nil || p.Base() == nil {
		return ErrNilParam
	}
	b := p.Base()
	if b.Name() == "" {
		return ErrEmptyName
	}
	if _, ok := c.params[b.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, b.Name())
	}
	if i, ok := b.Index(); ok {
		if i >= c.nextIndex {
			c.nextIndex = i + 1
		}
	} else {
		b.SetIndex(c.nextIndex)
		c.nextIndex++
	}
	c.params[b.Name()] = p
	c.log.Debug("collection: added parameter", slog.String("collection", c.name), slog.String("param", b.Name()))
	return nil
}

// MustAdd is like Add but panics on error.
func (c *Collection) MustAdd(ps ...param.Declared) *Collection {
	for _, p := range ps {
		if err := c.Add(p); err != nil {
			panic(err)
		}
	}
	return c
}

// Lookup returns the declaration registered under name.
func (c *Collection) Lookup(name string) (param.Declared, bool) {
	p, ok := c.params[name]
	return p, ok
}

// Get returns the parameter registered under name or ErrUnknown.
func (c *Collection) Get(name string) (*param.Parameter, error) {
	p, ok := c.params[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	return p.Base(), nil
}

// Len returns the number of parameters.
func (c *Collection) Len() int { return len(c.params) }

// Names returns the parameter names in display order: by index, then name.
func (c *Collection) Names() []string {
	ps := c.Params()
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Base().Name()
	}
	return out
}

// Params returns the declarations in display order.
func (c *Collection) Params() []param.Declared {
	out := slices.Collect(maps.Values(c.params))
	slices.SortFunc(out, func(a, b param.Declared) int {
		ai, _ := a.Base().Index()
		bi, _ := b.Base().Index()
		if n := cmp.Compare(ai, bi); n != 0 {
			return n
		}
		return cmp.Compare(a.Base().Name(), b.Base().Name())
	})
	return out
}

// Kernel returns the kernel parameters in display order.
func (c *Collection) Kernel() []*param.KernelParameter {
	var out []*param.KernelParameter
	for _, p := range c.Params() {
		if k, ok := p.(*param.KernelParameter); ok {
			out = append(out, k)
		}
	}
	return out
}

// Regular returns the non-kernel parameters in display order.
func (c *Collection) Regular() []param.Declared {
	var out []param.Declared
	for _, p := range c.Params() {
		if _, ok := p.(*param.KernelParameter); !ok {
			out = append(out, p)
		}
	}
	return out
}

// Values returns the current value of every parameter.
func (c *Collection) Values() map[string]any {
	out := make(map[string]any, len(c.params))
	for name, p := range c.params {
		out[name] = p.Base().Value()
	}
	return out
}

// Set writes one parameter.
func (c *Collection) Set(name string, v any) error {
	p, err := c.Get(name)
	if err != nil {
		return err
	}
	if err := p.SetValue(v); err != nil {
		return fmt.Errorf("collection %s: %w", c.name, err)
	}
	return nil
}

// Update writes several parameters in sorted key order. It stops at the first
// failure; writes before it stay applied.
func (c *Collection) Update(vals map[string]any) error {
	for _, name := range slices.Sorted(maps.Keys(vals)) {
		if err := c.Set(name, vals[name]); err != nil {
			return err
		}
	}
	return nil
}

// ResetAll resets every writable parameter to its default. Failures are
// collected; the remaining parameters are still reset.
func (c *Collection) ResetAll() error {
	var errs *multierror.Error
	for _, p := range c.Params() {
		if err := p.Base().ResetValue(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("collection %s: %w", c.name, err))
		}
	}
	return errs.ErrorOrNil()
}

// WhichSet returns, in display order, the names of parameters changed since
// construction.
func (c *Collection) WhichSet() []string {
	var out []string
	for _, p := range c.Params() {
		if p.Base().IsSet() {
			out = append(out, p.Base().Name())
		}
	}
	return out
}

// Describe joins the help entries of all parameters in display order.
func (c *Collection) Describe(indent string, width int) string {
	parts := make([]string, 0, len(c.params))
	for _, p := range c.Params() {
		parts = append(parts, p.Describe(indent, width))
	}
	return strings.Join(parts, "\n")
}

// Help renders the help text with the configured indent and width. Kernel
// parameters get their own section.
func (c *Collection) Help() string {
	indent, width := c.cfg.indent(), c.cfg.HelpWidth
	var b strings.Builder
	section := func(title string, ps []param.Declared) {
		if len(ps) == 0 {
			return
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(title)
		b.WriteString("\n")
		b.WriteString(strings.Repeat("-", len(title)))
		for _, p := range ps {
			b.WriteString("\n")
			b.WriteString(p.Describe(indent, width))
		}
	}
	section("Parameters", c.Regular())
	kernel := c.Kernel()
	kps := make([]param.Declared, len(kernel))
	for i, k := range kernel {
		kps[i] = k
	}
	section("Kernel parameters", kps)
	return b.String()
}
