package sanitize

import "fmt"

// LiteralKind identifies the kind of span the cleaner was inside when the
// input ended.
type LiteralKind int

// Literal kinds.
const (
	BlockComment     LiteralKind = iota // /* comment */
	QuotedString                        // 'text'
	EscapeString                        // E'text'
	DollarQuoted                        // $tag$ text $tag$
	QuotedIdentifier                    // "ident"
)

func (k LiteralKind) String() string {
	switch k {
	case BlockComment:
		return "block comment"
	case QuotedString:
		return "string literal"
	case EscapeString:
		return "escape string literal"
	case DollarQuoted:
		return "dollar-quoted string"
	case QuotedIdentifier:
		return "quoted identifier"
	default:
		return fmt.Sprintf("LiteralKind(%d)", int(k))
	}
}

// Position represents a location in the raw source text.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset
}

// UnterminatedLiteralError reports a comment, string or dollar-quoted body
// whose closing delimiter never appears.
type UnterminatedLiteralError struct {
	Literal  LiteralKind
	Pos      Position
	Fragment string // opening text of the literal
}

func (e *UnterminatedLiteralError) Error() string {
	return fmt.Sprintf("unterminated %s at line %d, column %d: %q",
		e.Literal, e.Pos.Line, e.Pos.Column, e.Fragment)
}
