package param

import (
	"strings"

	"github.com/ggoodman/paramkit/internal/values"
	"github.com/mitchellh/go-wordwrap"
)

// Describe renders the help entry for the parameter: a line with the name
// (and the allowed type label, when present), followed by a paragraph made
// of the documentation, the constraint description and the default, wrapped
// to width columns with every paragraph line prefixed by indent.
//
//	C : float
//	  Trade-off parameter. Constraints: (value must be convertible to type
//	  float, value must be in range [7, 44]). (Default: 23)
func (p *Parameter) Describe(indent string, width int) string {
	head := p.name
	if t, ok := p.AllowedType(); ok {
		head += " : " + t
	}

	var b strings.Builder
	if doc := strings.TrimSpace(p.doc); doc != "" {
		b.WriteString(doc)
		if !strings.HasSuffix(doc, ".") {
			b.WriteString(".")
		}
	}
	if p.constraint != nil {
		b.WriteString(" Constraints: ")
		b.WriteString(p.constraint.Describe())
		b.WriteString(".")
	}
	b.WriteString(" (Default: ")
	b.WriteString(values.Format(p.def))
	b.WriteString(")")

	para := strings.Join(strings.Fields(b.String()), " ")
	limit := width - len(indent)
	if limit < 1 {
		limit = 1
	}
	lines := []string{head}
	for _, l := range strings.Split(wordwrap.WrapString(para, uint(limit)), "\n") {
		lines = append(lines, indent+l)
	}
	return strings.Join(lines, "\n")
}
