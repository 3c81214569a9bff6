// Package generator drives the sanitize, scan and dispatch stages over a list
// of sources and renders the ALTER EXTENSION script.
package generator

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pgmp/sql2extension/internal/source"
	"github.com/pgmp/sql2extension/pkg/ddl"
	"github.com/pgmp/sql2extension/pkg/sanitize"
)

// DefaultProgram is the program name written into the header.
const DefaultProgram = "sql2extension"

// ErrMissingExtName is returned by Run when no extension name is set.
var ErrMissingExtName = errors.New("extension name is required")

// Generator turns CREATE statements into ALTER EXTENSION ... ADD lines.
type Generator struct {
	ExtName string
	Program string       // header program name, DefaultProgram if empty
	Logger  *slog.Logger // nil discards
}

// Result summarises a successful run.
type Result struct {
	Sources    int
	Statements int
	PerKind    map[ddl.Kind]int
}

// SourceError reports a failure while processing one source.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Run processes sources in order and writes the script to w. Output is
// buffered: if any source fails, nothing is written and the error is a
// *SourceError naming the source.
func (g *Generator) Run(w io.Writer, sources []source.Source) (Result, error) {
	if g.ExtName == "" {
		return Result{}, ErrMissingExtName
	}
	logger := g.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var buf bytes.Buffer
	writeHeader(&buf, g.program(), sources)

	res := Result{PerKind: make(map[ddl.Kind]int)}
	for _, src := range sources {
		logger.Info("processing source", "source", src.Name())

		n, err := g.process(&buf, src, res.PerKind, logger)
		if err != nil {
			return Result{}, &SourceError{Source: src.Name(), Err: err}
		}
		res.Sources++
		res.Statements += n
	}

	if _, err := buf.WriteTo(w); err != nil {
		return Result{}, fmt.Errorf("failed to write output: %w", err)
	}
	return res, nil
}

func (g *Generator) program() string {
	if g.Program == "" {
		return DefaultProgram
	}
	return g.Program
}

func (g *Generator) process(buf *bytes.Buffer, src source.Source, perKind map[ddl.Kind]int, logger *slog.Logger) (int, error) {
	rc, err := src.Open()
	if err != nil {
		return 0, err
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return 0, fmt.Errorf("failed to read: %w", err)
	}

	clean, err := sanitize.Clean(string(data))
	if err != nil {
		return 0, err
	}

	n := 0
	sc := ddl.NewScanner(clean)
	for sc.Scan() {
		member, err := ddl.Dispatch(sc.Statement())
		if err != nil {
			return n, err
		}
		line := member.Statement(g.ExtName)
		logger.Debug("statement", "kind", member.Kind.String(), "line", line)

		buf.WriteString(line)
		buf.WriteByte('\n')
		perKind[member.Kind]++
		n++
	}
	return n, sc.Err()
}

func writeHeader(w io.Writer, program string, sources []source.Source) {
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name()
	}
	fmt.Fprintln(w, "-- This file was automatically generated")
	fmt.Fprintf(w, "-- by the script '%s'\n", program)
	fmt.Fprintf(w, "-- from input files: %s\n", strings.Join(names, ", "))
	fmt.Fprintln(w)
}
