// Package sanitize removes SQL comments and literal strings from source text.
//
// The cleaned text keeps every structural token (keywords, identifiers,
// parentheses, semicolons) in its original order, so downstream scanners can
// look for statement boundaries and argument lists without having to know
// about quoting rules. Comments, single-quoted strings, escape strings and
// dollar-quoted bodies are replaced by the empty string. Double-quoted
// identifiers are copied through unchanged.
package sanitize

import (
	"strings"
)

// fragmentLimit caps the length of the text quoted back in errors.
const fragmentLimit = 60

// cleaner walks the raw input one byte at a time.
type cleaner struct {
	src string
	pos int
	out strings.Builder
}

// Clean returns src with comments and string literals removed.
// It fails with *UnterminatedLiteralError if any of them is left open.
func Clean(src string) (string, error) {
	c := &cleaner{src: src}
	c.out.Grow(len(src))
	if err := c.run(); err != nil {
		return "", err
	}
	return c.out.String(), nil
}

func (c *cleaner) run() error {
	for c.pos < len(c.src) {
		ch := c.src[c.pos]
		var err error

		switch {
		case ch == '-' && c.peek(1) == '-':
			c.skipLineComment()
		case ch == '/' && c.peek(1) == '*':
			err = c.skipBlockComment()
		case ch == '\'':
			err = c.skipString(c.pos, QuotedString)
		case (ch == 'E' || ch == 'e') && c.peek(1) == '\'' && !c.afterIdent():
			err = c.skipString(c.pos, EscapeString)
		case ch == '$' && !c.afterIdent():
			if tag, ok := c.dollarTag(); ok {
				err = c.skipDollar(tag)
			} else {
				c.emit()
			}
		case ch == '"':
			err = c.copyQuotedIdent()
		default:
			c.emit()
		}

		if err != nil {
			return err
		}
	}
	return nil
}

// peek returns the byte n positions ahead, or 0 past the end.
func (c *cleaner) peek(n int) byte {
	if c.pos+n >= len(c.src) {
		return 0
	}
	return c.src[c.pos+n]
}

// afterIdent reports whether the current byte continues an identifier, in
// which case neither E'' nor $ have their quoting meaning.
func (c *cleaner) afterIdent() bool {
	return c.pos > 0 && isIdentCont(c.src[c.pos-1])
}

func (c *cleaner) emit() {
	c.out.WriteByte(c.src[c.pos])
	c.pos++
}

// skipLineComment drops everything up to, not including, the newline.
func (c *cleaner) skipLineComment() {
	if i := strings.IndexByte(c.src[c.pos:], '\n'); i >= 0 {
		c.pos += i
		return
	}
	c.pos = len(c.src)
}

// skipBlockComment drops a /* ... */ comment. Comments do not nest: the
// first */ closes.
func (c *cleaner) skipBlockComment() error {
	start := c.pos
	i := strings.Index(c.src[start+2:], "*/")
	if i < 0 {
		return c.unterminated(BlockComment, start)
	}
	c.pos = start + 2 + i + 2
	return nil
}

// skipString drops a single-quoted literal starting at start. A doubled
// quote is an escaped quote; escape strings also honour backslash escapes.
func (c *cleaner) skipString(start int, kind LiteralKind) error {
	i := start + 1
	if kind == EscapeString {
		i++ // E prefix
	}
	for i < len(c.src) {
		switch c.src[i] {
		case '\\':
			if kind == EscapeString {
				i += 2
				continue
			}
		case '\'':
			if i+1 < len(c.src) && c.src[i+1] == '\'' {
				i += 2
				continue
			}
			c.pos = i + 1
			return nil
		}
		i++
	}
	return c.unterminated(kind, start)
}

// dollarTag reports whether the $ at the current position opens a
// dollar-quoted string, and returns the full $tag$ delimiter if so.
// A tag cannot start with a digit, so $1 is left alone.
func (c *cleaner) dollarTag() (string, bool) {
	i := c.pos + 1
	if i < len(c.src) && isDolqStart(c.src[i]) {
		i++
		for i < len(c.src) && isDolqCont(c.src[i]) {
			i++
		}
	}
	if i >= len(c.src) || c.src[i] != '$' {
		return "", false
	}
	return c.src[c.pos : i+1], true
}

// skipDollar drops a dollar-quoted body closed by the same tag.
func (c *cleaner) skipDollar(tag string) error {
	start := c.pos
	body := start + len(tag)
	i := strings.Index(c.src[body:], tag)
	if i < 0 {
		return c.unterminated(DollarQuoted, start)
	}
	c.pos = body + i + len(tag)
	return nil
}

// copyQuotedIdent copies a "quoted identifier" verbatim, so a -- or ' inside
// it is not mistaken for a comment or a string.
func (c *cleaner) copyQuotedIdent() error {
	start := c.pos
	i := start + 1
	for i < len(c.src) {
		if c.src[i] == '"' {
			if i+1 < len(c.src) && c.src[i+1] == '"' {
				i += 2
				continue
			}
			c.out.WriteString(c.src[start : i+1])
			c.pos = i + 1
			return nil
		}
		i++
	}
	return c.unterminated(QuotedIdentifier, start)
}

func (c *cleaner) unterminated(kind LiteralKind, offset int) error {
	return &UnterminatedLiteralError{
		Literal:  kind,
		Pos:      positionAt(c.src, offset),
		Fragment: fragmentAt(c.src, offset),
	}
}

// positionAt converts a byte offset into a line and column.
func positionAt(src string, offset int) Position {
	before := src[:offset]
	return Position{
		Line:   strings.Count(before, "\n") + 1,
		Column: offset - strings.LastIndexByte(before, '\n'),
		Offset: offset,
	}
}

// fragmentAt returns the rest of the line at offset, capped to fragmentLimit.
func fragmentAt(src string, offset int) string {
	frag := src[offset:]
	if i := strings.IndexByte(frag, '\n'); i >= 0 {
		frag = frag[:i]
	}
	if len(frag) > fragmentLimit {
		frag = frag[:fragmentLimit]
	}
	return strings.TrimRight(frag, "\r")
}

// isDolqStart reports whether ch can start a dollar-quote tag.
// Bytes >= 0x80 are accepted so UTF-8 tags work.
func isDolqStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch >= 0x80
}

// isDolqCont reports whether ch can continue a dollar-quote tag.
func isDolqCont(ch byte) bool {
	return isDolqStart(ch) || (ch >= '0' && ch <= '9')
}

// isIdentCont reports whether ch can continue an unquoted identifier.
func isIdentCont(ch byte) bool {
	return isDolqCont(ch) || ch == '$'
}
