// Package source resolves command-line input arguments into an ordered list
// of SQL sources.
package source

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
)

// Stdin is the argument naming standard input.
const Stdin = "-"

// DefaultInclude is the file pattern used when expanding directories.
const DefaultInclude = "*.sql"

// Source is one input to read SQL from.
type Source struct {
	name  string
	path  string // empty for stdin
	stdin io.Reader
}

// Name returns the name shown in the generated header.
func (s Source) Name() string {
	return s.name
}

// Path returns the file path, or "" for standard input.
func (s Source) Path() string {
	return s.path
}

// IsStdin reports whether s reads from standard input.
func (s Source) IsStdin() bool {
	return s.path == ""
}

// Open opens the source for reading. Closing a stdin source leaves the
// underlying stream open.
func (s Source) Open() (io.ReadCloser, error) {
	if s.IsStdin() {
		return io.NopCloser(s.stdin), nil
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	return f, nil
}

// File returns a source reading the file at path.
func File(path string) Source {
	return Source{name: path, path: path}
}

// Reader returns a source named name that reads from r, the way stdin
// sources do.
func Reader(name string, r io.Reader) Source {
	return Source{name: name, stdin: r}
}

// Resolver expands input arguments.
type Resolver struct {
	include glob.Glob
	pattern string
	stdin   io.Reader
	exclude map[string]bool // absolute paths
}

// NewResolver returns a Resolver matching directory entries against the
// include glob (DefaultInclude if empty). stdin backs the "-" argument.
func NewResolver(include string, stdin io.Reader) (*Resolver, error) {
	if include == "" {
		include = DefaultInclude
	}
	g, err := glob.Compile(include)
	if err != nil {
		return nil, fmt.Errorf("invalid include pattern %q: %w", include, err)
	}
	return &Resolver{include: g, pattern: include, stdin: stdin, exclude: make(map[string]bool)}, nil
}

// Exclude keeps paths out of directory expansion and Match. The generated
// script is excluded this way so a run never reads its own output.
func (r *Resolver) Exclude(paths ...string) error {
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		r.exclude[abs] = true
	}
	return nil
}

// Match reports whether a file's base name matches the include pattern and
// the file is not excluded.
func (r *Resolver) Match(name string) bool {
	return r.include.Match(filepath.Base(name)) && !r.excluded(name)
}

func (r *Resolver) excluded(path string) bool {
	if len(r.exclude) == 0 {
		return false
	}
	abs, err := filepath.Abs(path)
	return err == nil && r.exclude[abs]
}

// Resolve turns args into sources, in argument order. No arguments means
// standard input. Directories are walked in lexical order and contribute
// every file whose base name matches the include pattern, minus excluded
// paths. File arguments are used as given.
func (r *Resolver) Resolve(args []string) ([]Source, error) {
	if len(args) == 0 {
		args = []string{Stdin}
	}

	var sources []Source
	for _, arg := range args {
		if arg == Stdin {
			sources = append(sources, Reader(Stdin, r.stdin))
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", arg, err)
		}
		if !info.IsDir() {
			sources = append(sources, File(arg))
			continue
		}

		found, err := r.walk(arg)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("input %s: no files matching %q", arg, r.pattern)
		}
		sources = append(sources, found...)
	}
	return sources, nil
}

func (r *Resolver) walk(dir string) ([]Source, error) {
	var found []Source
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !r.include.Match(d.Name()) || r.excluded(path) {
			return nil
		}
		found = append(found, File(path))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	return found, nil
}
