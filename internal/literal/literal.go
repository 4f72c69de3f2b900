// Package literal parses the small literal language accepted by the console:
// quoted strings, integers, floats, flat lists of those, and flat mappings
// from quoted string keys to those. Nothing else is accepted and nothing is
// evaluated. The grammar is a strict subset of YAML flow syntax, so parsing
// is delegated to yaml.v3 and the resulting node tree is checked.
package literal

import (
	"errors"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Plain numbers only: no base prefixes, zero-padded integers, digit separators,
// or .inf/.nan.
var (
	decimalInt   = regexp.MustCompile(`^[-+]?(0|[1-9][0-9]*)$`)
	decimalFloat = regexp.MustCompile(`^[-+]?([0-9]+\.[0-9]*|\.[0-9]+|[0-9]+)([eE][-+]?[0-9]+)?$`)
	// yaml.v3 resolves "08" and "09" as floats.
	zeroPadded = regexp.MustCompile(`^[-+]?0[0-9]+$`)
)

// ErrSyntax is returned for any input outside the literal language.
var ErrSyntax = errors.New("invalid literal")

// Pair is one entry of a Mapping.
type Pair struct {
	Key   string
	Value any
}

// Mapping is a flat mapping literal with entries in source order.
type Mapping []Pair

// Map returns the mapping as a Go map. A key given twice keeps its last value.
func (m Mapping) Map() map[string]any {
	out := make(map[string]any, len(m))
	for _, p := range m {
		out[p.Key] = p.Value
	}
	return out
}

// Parse parses exactly one literal. The result is a string, int, float64,
// []any of scalars, or Mapping.
func Parse(src string) (any, error) {
	n, err := parseNode(src)
	if err != nil {
		return nil, err
	}
	return value(n, false)
}

// ParseList parses zero or more comma-separated literals, as found between
// the parentheses of a call.
func ParseList(src string) ([]any, error) {
	n, err := parseNode("[" + src + "]")
	if err != nil {
		return nil, err
	}
	if n.Kind != yaml.SequenceNode {
		return nil, ErrSyntax
	}
	out := make([]any, 0, len(n.Content))
	for _, c := range n.Content {
		v, err := value(c, false)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseNode(src string) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, ErrSyntax
	}
	return doc.Content[0], nil
}

// value converts n. Mappings are only allowed at the top level.
func value(n *yaml.Node, nested bool) (any, error) {
	if n.Anchor != "" {
		return nil, fmt.Errorf("%w: anchors are not allowed", ErrSyntax)
	}
	switch n.Kind {
	case yaml.ScalarNode:
		return scalar(n)
	case yaml.SequenceNode:
		return sequence(n)
	case yaml.MappingNode:
		if nested {
			return nil, fmt.Errorf("%w: nested mapping", ErrSyntax)
		}
		return mapping(n)
	default:
		return nil, ErrSyntax
	}
}

func scalar(n *yaml.Node) (any, error) {
	if n.Kind != yaml.ScalarNode || n.Anchor != "" {
		return nil, ErrSyntax
	}
	switch n.ShortTag() {
	case "!!str":
		if n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) == 0 {
			return nil, fmt.Errorf("%w: unquoted string %q", ErrSyntax, n.Value)
		}
		return n.Value, nil
	case "!!int":
		if !decimalInt.MatchString(n.Value) {
			return nil, fmt.Errorf("%w: not a decimal integer %q", ErrSyntax, n.Value)
		}
		var i int
		if err := n.Decode(&i); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		return i, nil
	case "!!float":
		if !decimalFloat.MatchString(n.Value) || zeroPadded.MatchString(n.Value) {
			return nil, fmt.Errorf("%w: not a decimal number %q", ErrSyntax, n.Value)
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%w: unsupported value %q", ErrSyntax, n.Value)
	}
}

func sequence(n *yaml.Node) ([]any, error) {
	if n.Style&yaml.FlowStyle == 0 {
		return nil, fmt.Errorf("%w: lists must use brackets", ErrSyntax)
	}
	out := make([]any, 0, len(n.Content))
	for _, c := range n.Content {
		v, err := scalar(c)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func mapping(n *yaml.Node) (Mapping, error) {
	if n.Style&yaml.FlowStyle == 0 {
		return nil, fmt.Errorf("%w: mappings must use braces", ErrSyntax)
	}
	out := make(Mapping, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, err := scalar(n.Content[i])
		if err != nil {
			return nil, err
		}
		key, ok := k.(string)
		if !ok {
			return nil, fmt.Errorf("%w: mapping keys must be strings", ErrSyntax)
		}
		v, err := value(n.Content[i+1], true)
		if err != nil {
			return nil, err
		}
		out = append(out, Pair{Key: key, Value: v})
	}
	return out, nil
}
