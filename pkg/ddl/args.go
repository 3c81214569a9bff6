package ddl

import "strings"

// FindName returns the identifier at the start of body, after leading
// whitespace. Schema-qualified and double-quoted names are returned whole.
func FindName(body string) (string, bool) {
	name, _, ok := splitName(body)
	return name, ok
}

// splitName splits body into its leading name and the text after it.
func splitName(body string) (name, rest string, ok bool) {
	start := 0
	for start < len(body) && isSpace(body[start]) {
		start++
	}

	i := start
	for {
		end := identEnd(body, i)
		if end == i {
			break
		}
		i = end
		if i+1 < len(body) && body[i] == '.' && identEnd(body, i+1) > i+1 {
			i++
			continue
		}
		break
	}

	if i == start {
		return "", body, false
	}
	return body[start:i], body[i:], true
}

// identEnd returns the end of the identifier part starting at i, or i if
// there is none there.
func identEnd(s string, i int) int {
	if i >= len(s) {
		return i
	}
	if s[i] == '"' {
		for j := i + 1; j < len(s); j++ {
			if s[j] != '"' {
				continue
			}
			if j+1 < len(s) && s[j+1] == '"' {
				j++
				continue
			}
			return j + 1
		}
		return i
	}
	j := i
	for j < len(s) && (isWordByte(s[j]) || (j > i && s[j] == '$')) {
		j++
	}
	return j
}

// FindArgs returns the balanced parenthesised span starting at the first
// "(" in body, with whitespace runs collapsed. Nested parentheses, such as
// type modifiers in numeric(10,2), stay inside the span.
func FindArgs(body string) (string, error) {
	args, ok := argSpan(body)
	if !ok {
		return "", &MalformedArgumentListError{Body: body}
	}
	return args, nil
}

// argSpan scans from the first "(" keeping a depth count; the span ends at
// the ")" that brings the depth back to zero.
func argSpan(s string) (string, bool) {
	start := strings.IndexByte(s, '(')
	if start < 0 {
		return "", false
	}

	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return collapseSpace(s[start : i+1]), true
			}
		}
	}
	return "", false
}
