package console

import (
	"regexp"
	"strings"
	"unicode"
)

// aliasPattern matches "<Kind>.all()" and "<Kind>.count()".
var aliasPattern = regexp.MustCompile(`^(\w+)\.(all|count)\(\)$`)

// nextToken returns the first whitespace-separated token of s and the
// remainder. A token that starts with a double quote runs to the closing
// quote and is returned unquoted, so it may contain spaces. An unterminated
// quote takes the rest of the line.
func nextToken(s string) (tok, rest string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	if s == "" {
		return "", ""
	}
	if s[0] == '"' {
		if end := strings.IndexByte(s[1:], '"'); end >= 0 {
			return s[1 : end+1], s[end+2:]
		}
		return s[1:], ""
	}
	if i := strings.IndexFunc(s, unicode.IsSpace); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

// tokens splits s into every token nextToken would return.
func tokens(s string) []string {
	var out []string
	for strings.TrimSpace(s) != "" {
		var tok string
		tok, s = nextToken(s)
		out = append(out, tok)
	}
	return out
}

// dottedCall is a parsed "<Kind>.<verb>(<arg>)" line.
type dottedCall struct {
	kind string
	verb string
	arg  string
}

// parseDotted splits a kind-dotted line. The line must hold exactly one
// opening parenthesis, end with the closing one, carry a non-empty argument,
// and have a "Kind.verb" head.
func parseDotted(line string) (dottedCall, error) {
	if strings.Count(line, "(") != 1 || !strings.HasSuffix(line, ")") {
		return dottedCall{}, ErrInvalidCommand
	}
	head, arg, _ := strings.Cut(strings.TrimSuffix(line, ")"), "(")
	if strings.Contains(arg, ")") || strings.TrimSpace(arg) == "" {
		return dottedCall{}, ErrInvalidCommand
	}
	kind, verb, ok := strings.Cut(head, ".")
	kind, verb = strings.TrimSpace(kind), strings.TrimSpace(verb)
	if !ok || kind == "" || verb == "" || strings.Contains(verb, ".") {
		return dottedCall{}, ErrInvalidCommand
	}
	return dottedCall{kind: kind, verb: verb, arg: strings.TrimSpace(arg)}, nil
}

// unquote trims whitespace and surrounding quote characters from an id
// argument.
func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}
