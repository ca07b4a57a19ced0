package constraint

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ggoodman/paramkit/internal/values"
)

// ErrUnknownKind is returned when decoding a constraint of an unrecognized kind.
var ErrUnknownKind = errors.New("constraint: unknown kind")

// node is the wire form of a constraint tree:
//
//	{"kind":"any_of","children":[{"kind":"range","min":7,"max":44},{"kind":"null"}]}
type node struct {
	Kind     Kind              `json:"kind"`
	Allowed  []json.RawMessage `json:"allowed,omitempty"`
	Min      *values.Float     `json:"min,omitempty"`
	Max      *values.Float     `json:"max,omitempty"`
	Children []node            `json:"children,omitempty"`
}

// Marshal encodes a constraint tree as JSON. Choice values keep their Go type
// across a round trip.
func Marshal(c Constraint) ([]byte, error) {
	n, err := encodeNode(c)
	if err != nil {
		return nil, err
	}
	return json.Marshal(n)
}

// Unmarshal decodes a constraint tree produced by Marshal.
func Unmarshal(data []byte) (Constraint, error) {
	var n node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("constraint: decode: %w", err)
	}
	return decodeNode(n)
}

func encodeNode(c Constraint) (node, error) {
	if c == nil {
		return node{}, errors.New("constraint: cannot encode nil constraint")
	}
	n := node{Kind: c.Kind()}
	switch tc := c.(type) {
	case IntCoerce, FloatCoerce, BoolCheck, NullMarker:
	case *ChoiceCheck:
		for i, a := range tc.allowed {
			raw, err := values.Encode(a)
			if err != nil {
				return node{}, fmt.Errorf("constraint: choice value %d: %w", i, err)
			}
			n.Allowed = append(n.Allowed, raw)
		}
	case *RangeCheck:
		n.Min, n.Max = toWire(tc.min), toWire(tc.max)
	case *Sequence:
		children, err := encodeChildren(tc.children)
		if err != nil {
			return node{}, err
		}
		n.Children = children
	case *Alternation:
		children, err := encodeChildren(tc.children)
		if err != nil {
			return node{}, err
		}
		n.Children = children
	default:
		return node{}, fmt.Errorf("%w: %T", ErrUnknownKind, c)
	}
	return n, nil
}

func encodeChildren(cs []Constraint) ([]node, error) {
	out := make([]node, len(cs))
	for i, c := range cs {
		n, err := encodeNode(c)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func decodeNode(n node) (Constraint, error) {
	switch n.Kind {
	case KindInt:
		return Int(), nil
	case KindFloat:
		return Float(), nil
	case KindBool:
		return Bool(), nil
	case KindNull:
		return Null(), nil
	case KindChoice:
		allowed := make([]any, len(n.Allowed))
		for i, raw := range n.Allowed {
			v, err := values.Decode(raw)
			if err != nil {
				return nil, fmt.Errorf("constraint: choice value %d: %w", i, err)
			}
			allowed[i] = v
		}
		return Choice(allowed...), nil
	case KindRange:
		return &RangeCheck{min: fromWire(n.Min), max: fromWire(n.Max)}, nil
	case KindAllOf:
		children, err := decodeChildren(n.Children)
		if err != nil {
			return nil, err
		}
		return AllOf(children...), nil
	case KindAnyOf:
		children, err := decodeChildren(n.Children)
		if err != nil {
			return nil, err
		}
		return AnyOf(children...), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, n.Kind)
}

func decodeChildren(ns []node) ([]Constraint, error) {
	out := make([]Constraint, len(ns))
	for i, n := range ns {
		c, err := decodeNode(n)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func toWire(p *float64) *values.Float {
	if p == nil {
		return nil
	}
	f := values.Float(*p)
	return &f
}

func fromWire(p *values.Float) *float64 {
	if p == nil {
		return nil
	}
	f := float64(*p)
	return &f
}
