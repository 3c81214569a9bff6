// Package ddl recognises CREATE statements in sanitized SQL and turns each
// one into the extension member it defines.
//
// The input is expected to come from sanitize.Clean: no comments, no string
// literals. Recognition is structural and shallow. A Scanner
// finds "CREATE [OR REPLACE] <kind> ... ;" spans, and Dispatch picks a
// per-kind handler that pulls the name and argument list out of the body.
package ddl

import "strings"

// Statement is one CREATE statement found by a Scanner.
type Statement struct {
	Kind    Kind
	Keyword string // kind word as written, e.g. "FUNCTION" or "index"
	Body    string // text between the kind word and the semicolon
}

// Scanner reads CREATE statements from clean SQL text, in source order.
// It is single use, like bufio.Scanner.
type Scanner struct {
	src   string
	lower string // ASCII-lowered copy of src for keyword search
	pos   int
	stmt  Statement
	err   error
	done  bool
}

// NewScanner returns a Scanner over clean SQL text.
func NewScanner(clean string) *Scanner {
	return &Scanner{src: clean, lower: asciiLower(clean)}
}

// Scan advances to the next statement. It returns false at the end of the
// input or on error; Err tells the two apart.
func (s *Scanner) Scan() bool {
	if s.done {
		return false
	}

	start, ok := s.nextCreate()
	if !ok {
		s.done = true
		return false
	}

	kwStart := s.skipSpace(start + len("create"))
	if next, ok := s.orReplace(kwStart); ok {
		kwStart = next
	}
	kwEnd := kwStart
	for kwEnd < len(s.src) && isWordByte(s.src[kwEnd]) {
		kwEnd++
	}
	keyword := s.src[kwStart:kwEnd]

	semi := strings.IndexByte(s.src[kwEnd:], ';')
	if semi < 0 {
		s.err = &UnterminatedStatementError{Kind: keyword, Body: s.src[kwEnd:]}
		s.done = true
		return false
	}

	s.stmt = Statement{
		Kind:    LookupKind(keyword),
		Keyword: keyword,
		Body:    s.src[kwEnd : kwEnd+semi],
	}
	s.pos = kwEnd + semi + 1
	return true
}

// Statement returns the statement found by the last successful Scan.
func (s *Scanner) Statement() Statement {
	return s.stmt
}

// Err returns the first error met while scanning, if any.
func (s *Scanner) Err() error {
	return s.err
}

// nextCreate finds the next CREATE keyword at a word boundary and followed
// by whitespace.
func (s *Scanner) nextCreate() (int, bool) {
	for s.pos < len(s.src) {
		i := strings.Index(s.lower[s.pos:], "create")
		if i < 0 {
			return 0, false
		}
		at := s.pos + i
		end := at + len("create")
		s.pos = end

		if at > 0 && isWordByte(s.src[at-1]) {
			continue
		}
		if end >= len(s.src) || !isSpace(s.src[end]) {
			continue
		}
		return at, true
	}
	return 0, false
}

// orReplace matches "OR <space> REPLACE <space>" at i and returns the
// position after it.
func (s *Scanner) orReplace(i int) (int, bool) {
	if !s.wordAt(i, "or") {
		return 0, false
	}
	j := s.skipSpace(i + len("or"))
	if j == i+len("or") || !s.wordAt(j, "replace") {
		return 0, false
	}
	k := s.skipSpace(j + len("replace"))
	if k == j+len("replace") {
		return 0, false
	}
	return k, true
}

// wordAt reports whether the lower-cased word w starts at i and is followed
// by a non-word byte.
func (s *Scanner) wordAt(i int, w string) bool {
	if !strings.HasPrefix(s.lower[i:], w) {
		return false
	}
	end := i + len(w)
	return end == len(s.src) || !isWordByte(s.src[end])
}

func (s *Scanner) skipSpace(i int) int {
	for i < len(s.src) && isSpace(s.src[i]) {
		i++
	}
	return i
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
}

// isWordByte matches identifier characters. Bytes >= 0x80 count as letters
// so UTF-8 identifiers stay whole.
func isWordByte(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') || ch >= 0x80
}

// asciiLower lower-cases ASCII letters only, keeping byte offsets intact.
func asciiLower(s string) string {
	b := []byte(s)
	for i, ch := range b {
		if ch >= 'A' && ch <= 'Z' {
			b[i] = ch + ('a' - 'A')
		}
	}
	return string(b)
}
