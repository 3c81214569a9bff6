// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// ProjectConfig is the sql2extension.yaml written by SetupTestProject.
const ProjectConfig = `extname: pgmp
output: pgmp--unpackaged--1.0.sql
inputs:
  - sql
`

// SetupTestProject creates a temporary extension source tree:
//
//	sql2extension.yaml
//	sql/pgmp.sql
//	sql/aggregates.sql
//	sql/README.md
//
// It returns the project directory.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()

	if err := os.MkdirAll(filepath.Join(tmpDir, "sql"), 0755); err != nil {
		t.Fatalf("failed to create sql directory: %v", err)
	}

	pgmp := `-- Types and functions
CREATE TYPE mpz;

CREATE OR REPLACE FUNCTION mpz_in(cstring)
RETURNS mpz
AS 'MODULE_PATHNAME', 'pmpz_in'
LANGUAGE C IMMUTABLE STRICT;

CREATE OPERATOR + (
    LEFTARG = mpz,
    RIGHTARG = mpz,
    PROCEDURE = mpz_add
);
`
	aggregates := `/* Aggregates */
CREATE AGGREGATE sum(mpz) (
    SFUNC = _mpz_from_agg,
    STYPE = internal
);
`
	files := map[string]string{
		"sql2extension.yaml":                   ProjectConfig,
		filepath.Join("sql", "pgmp.sql"):       pgmp,
		filepath.Join("sql", "aggregates.sql"): aggregates,
		filepath.Join("sql", "README.md"):      "CREATE INDEX is never matched here\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0644); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}

	return tmpDir
}

// ProjectOutput is the script SetupTestProject's inputs generate, without
// the header.
const ProjectOutput = "ALTER EXTENSION pgmp ADD AGGREGATE sum (mpz);\n" +
	"ALTER EXTENSION pgmp ADD TYPE mpz;\n" +
	"ALTER EXTENSION pgmp ADD FUNCTION mpz_in (cstring);\n" +
	"ALTER EXTENSION pgmp ADD OPERATOR + (mpz, mpz);\n"

// Result holds the captured streams of a command run.
type Result struct {
	Out    string
	ErrOut string
	Err    error
}

// Run executes cmd with args and stdin, capturing both output streams.
func Run(cmd *cobra.Command, stdin string, args ...string) Result {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)

	err := cmd.Execute()
	return Result{Out: out.String(), ErrOut: errOut.String(), Err: err}
}

// GetTestdataDir returns the path to the testdata directory.
func GetTestdataDir(t *testing.T) string {
	t.Helper()

	// Get the absolute path to testdata directory
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	// Try different relative paths based on where tests are run from
	candidates := []string{
		filepath.Join(wd, "testdata"),
		filepath.Join(wd, "..", "testdata"),
		filepath.Join(wd, "..", "..", "testdata"),
		filepath.Join(wd, "..", "..", "..", "testdata"),
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	t.Fatalf("testdata directory not found, tried: %v", candidates)
	return ""
}
