// Package output writes generated scripts either to stdout or atomically to a
// file.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Stdout is the output path naming standard output.
const Stdout = "-"

// Writer collects generated output. For files the data goes to a temporary
// file next to the target, which only replaces the target on Commit.
type Writer struct {
	path   string
	w      io.Writer
	tmp    *os.File
	closed bool
}

// Open returns a Writer for path. "-" or "" writes straight to stdout.
func Open(path string, stdout io.Writer) (*Writer, error) {
	if path == "" || path == Stdout {
		return &Writer{path: Stdout, w: stdout}, nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return &Writer{path: path, w: tmp, tmp: tmp}, nil
}

// Path returns the final output path, or "-" for stdout.
func (w *Writer) Path() string {
	return w.path
}

func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, os.ErrClosed
	}
	return w.w.Write(p)
}

// Commit moves the written data into place. It is a no-op for stdout.
func (w *Writer) Commit() error {
	if w.closed {
		return os.ErrClosed
	}
	w.closed = true
	if w.tmp == nil {
		return nil
	}

	if err := w.tmp.Close(); err != nil {
		os.Remove(w.tmp.Name())
		return fmt.Errorf("failed to write %s: %w", w.path, err)
	}
	if err := os.Chmod(w.tmp.Name(), 0o644); err != nil {
		os.Remove(w.tmp.Name())
		return fmt.Errorf("failed to write %s: %w", w.path, err)
	}
	if err := os.Rename(w.tmp.Name(), w.path); err != nil {
		os.Remove(w.tmp.Name())
		return fmt.Errorf("failed to write %s: %w", w.path, err)
	}
	return nil
}

// Close discards uncommitted data. It is safe to call after Commit.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.tmp == nil {
		return nil
	}
	return errors.Join(w.tmp.Close(), os.Remove(w.tmp.Name()))
}
