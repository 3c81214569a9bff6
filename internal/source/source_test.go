package source

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func names(sources []Source) []string {
	out := make([]string, len(sources))
	for i, s := range sources {
		out[i] = s.Name()
	}
	return out
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"b.sql":          "CREATE TYPE b;",
		"a.sql":          "CREATE TYPE a;",
		"notes.txt":      "not sql",
		"sub/c.sql":      "CREATE TYPE c;",
		"sub/deep/d.sql": "CREATE TYPE d;",
	})

	r, err := NewResolver("", strings.NewReader(""))
	require.NoError(t, err)

	t.Run("directory walked in lexical order", func(t *testing.T) {
		got, err := r.Resolve([]string{dir})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "a.sql"),
			filepath.Join(dir, "b.sql"),
			filepath.Join(dir, "sub", "c.sql"),
			filepath.Join(dir, "sub", "deep", "d.sql"),
		}, names(got))
	})

	t.Run("argument order preserved", func(t *testing.T) {
		b := filepath.Join(dir, "b.sql")
		a := filepath.Join(dir, "a.sql")
		got, err := r.Resolve([]string{b, a})
		require.NoError(t, err)
		assert.Equal(t, []string{b, a}, names(got))
	})

	t.Run("explicit file ignores include pattern", func(t *testing.T) {
		txt := filepath.Join(dir, "notes.txt")
		got, err := r.Resolve([]string{txt})
		require.NoError(t, err)
		assert.Equal(t, []string{txt}, names(got))
	})

	t.Run("no arguments means stdin", func(t *testing.T) {
		got, err := r.Resolve(nil)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, got[0].IsStdin())
		assert.Equal(t, Stdin, got[0].Name())
		assert.Empty(t, got[0].Path())
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := r.Resolve([]string{filepath.Join(dir, "missing.sql")})
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestResolve_EmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"readme.md": "# nothing"})

	r, err := NewResolver("", nil)
	require.NoError(t, err)

	_, err = r.Resolve([]string{dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no files matching")
}

func TestResolve_CustomInclude(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"pgmp.sql.in": "CREATE TYPE mpz;",
		"pgmp.sql":    "CREATE TYPE mpq;",
	})

	r, err := NewResolver("*.sql.in", nil)
	require.NoError(t, err)

	got, err := r.Resolve([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "pgmp.sql.in")}, names(got))
	assert.True(t, r.Match("some/dir/x.sql.in"))
	assert.False(t, r.Match("x.sql"))
}

func TestResolve_Exclude(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"pgmp.sql":                "CREATE TYPE mpz;",
		"pgmp--unpackaged--1.sql": "ALTER EXTENSION pgmp ADD TYPE mpz;",
	})
	out := filepath.Join(dir, "pgmp--unpackaged--1.sql")

	r, err := NewResolver("", nil)
	require.NoError(t, err)
	require.NoError(t, r.Exclude(out))

	got, err := r.Resolve([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "pgmp.sql")}, names(got))
	assert.False(t, r.Match(out))
	assert.True(t, r.Match(filepath.Join(dir, "pgmp.sql")))
}

func TestNewResolver_InvalidPattern(t *testing.T) {
	_, err := NewResolver("[", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid include pattern")
}

func TestSource_Open(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"f.sql": "CREATE TYPE f;"})

	t.Run("file", func(t *testing.T) {
		rc, err := File(filepath.Join(dir, "f.sql")).Open()
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "CREATE TYPE f;", string(data))
	})

	t.Run("reader", func(t *testing.T) {
		src := Reader(Stdin, strings.NewReader("CREATE TYPE s;"))
		rc, err := src.Open()
		require.NoError(t, err)
		require.NoError(t, rc.Close())

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "CREATE TYPE s;", string(data))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := File(filepath.Join(dir, "nope.sql")).Open()
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
