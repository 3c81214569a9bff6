package ddl

import (
	"fmt"
	"strings"
)

// fragmentLimit caps how much of a statement body is quoted in messages.
// The error values keep the full body.
const fragmentLimit = 80

// UnsupportedKindError is returned for a CREATE statement whose kind has no
// handler, e.g. CREATE INDEX.
type UnsupportedKindError struct {
	Kind string // keyword as written in the source
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported statement kind %q: can't process 'CREATE %s'", e.Kind, e.Kind)
}

// UnterminatedStatementError is returned when a CREATE statement runs to the
// end of the input without a semicolon.
type UnterminatedStatementError struct {
	Kind string
	Body string
}

func (e *UnterminatedStatementError) Error() string {
	return fmt.Sprintf("CREATE %s statement is not terminated by ';': %q", e.Kind, fragment(e.Body))
}

// MalformedArgumentListError is returned when a body has no parenthesised
// argument list, or its parentheses never balance.
type MalformedArgumentListError struct {
	Body string
}

func (e *MalformedArgumentListError) Error() string {
	return fmt.Sprintf("failed to parse arguments list: %q", fragment(e.Body))
}

// MissingNameError is returned when a handler can't find the identifier it
// needs at the start of a body.
type MissingNameError struct {
	Object string // what was being looked for: "name", "operator", ...
	Body   string
}

func (e *MissingNameError) Error() string {
	return fmt.Sprintf("can't find %s: %q", e.Object, fragment(e.Body))
}

// MissingOperatorArgsError is returned for a CREATE OPERATOR with neither
// LEFTARG nor RIGHTARG.
type MissingOperatorArgsError struct {
	Body string
}

func (e *MissingOperatorArgsError) Error() string {
	return fmt.Sprintf("can't find operator arguments (LEFTARG/RIGHTARG): %q", fragment(e.Body))
}

// fragment collapses whitespace in body and shortens it for messages.
func fragment(body string) string {
	s := collapseSpace(body)
	if len(s) > fragmentLimit {
		return s[:fragmentLimit] + "..."
	}
	return s
}

// collapseSpace replaces each run of whitespace with one space and trims
// the ends.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
