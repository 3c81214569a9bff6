package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFlags mirrors the persistent flags registered by the root command.
func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "")
	flags.StringP("extname", "e", "", "")
	flags.StringP("output", "o", "", "")
	flags.String("include", "", "")
	flags.String("generator", "", "")
	flags.BoolP("verbose", "v", false, "")
	flags.Duration("debounce", 0, "")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	defer ResetConfig()

	cfg, err := LoadConfig("", newFlags())
	require.NoError(t, err)

	assert.Empty(t, cfg.ExtName)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, DefaultInclude, cfg.Include)
	assert.Equal(t, DefaultGenerator, cfg.Generator)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.Inputs)
	assert.Equal(t, DefaultDebounce, cfg.Watch.Debounce)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	defer ResetConfig()

	path, err := filepath.Abs(filepath.Join("testdata", "project", "sql2extension.yaml"))
	require.NoError(t, err)
	dir := filepath.Dir(path)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, GetConfigFileUsed())
	assert.Equal(t, "pgmp", cfg.ExtName)
	assert.Equal(t, "tools/sql2extension.py", cfg.Generator)
	assert.Equal(t, "*.sql.in", cfg.Include)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)

	// Paths in the file are anchored to the file's directory.
	assert.Equal(t, filepath.Join(dir, "pgmp--1.0.sql"), cfg.Output)
	assert.Equal(t, []string{
		filepath.Join(dir, "sql", "pgmp.sql.in"),
		filepath.Join(dir, "sql", "aggs.sql.in"),
	}, cfg.Inputs)
}

func TestLoadConfig_FoundInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sql2extension.yml"), []byte("extname: found\n"), 0o600))
	t.Chdir(dir)
	defer ResetConfig()

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "sql2extension.yml", GetConfigFileUsed())
	assert.Equal(t, "found", cfg.ExtName)
	assert.Equal(t, DefaultOutput, cfg.Output)
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sql2extension.yaml"), []byte(
		"extname: from_file\ngenerator: file-gen\nwatch:\n  debounce: 1s\n"), 0o600))
	t.Chdir(dir)
	defer ResetConfig()

	t.Setenv("SQL2EXTENSION_EXTNAME", "from_env")
	t.Setenv("SQL2EXTENSION_INCLUDE", "*.pgsql")
	t.Setenv("SQL2EXTENSION_WATCH_DEBOUNCE", "2s")
	t.Setenv("SQL2EXTENSION_INPUTS", "a.sql,b.sql")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--extname", "from_flag", "--debounce", "3s", "-v"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "from_flag", cfg.ExtName, "flag beats env and file")
	assert.Equal(t, "*.pgsql", cfg.Include, "env beats default")
	assert.Equal(t, "file-gen", cfg.Generator, "unset flag and env keep file value")
	assert.Equal(t, 3*time.Second, cfg.Watch.Debounce)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, []string{"a.sql", "b.sql"}, cfg.Inputs)
}

func TestLoadConfig_EnvDebounce(t *testing.T) {
	t.Chdir(t.TempDir())
	defer ResetConfig()
	t.Setenv("SQL2EXTENSION_WATCH_DEBOUNCE", "750ms")

	cfg, err := LoadConfig("", newFlags())
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, cfg.Watch.Debounce)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("extname: [unclosed\n"), 0o600))
	typo := filepath.Join(dir, "typo.yaml")
	require.NoError(t, os.WriteFile(typo, []byte("extnme: pgmp\n"), 0o600))
	defer ResetConfig()

	tests := []struct {
		name      string
		path      string
		errSubstr string
	}{
		{"missing explicit file", filepath.Join(dir, "missing.yaml"), "error reading config file"},
		{"invalid yaml", bad, "error reading config file"},
		{"unknown key", typo, "extnme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(tt.path, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestLoadConfig_UnknownEnvVar(t *testing.T) {
	t.Chdir(t.TempDir())
	defer ResetConfig()
	t.Setenv("SQL2EXTENSION_EXTNAM", "pgmp")

	_, err := LoadConfig("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extnam")
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{ExtName: "pgmp", Include: DefaultInclude, Watch: WatchConfig{Debounce: DefaultDebounce}}

	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantErr   error
		errSubstr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing extname", mutate: func(c *Config) { c.ExtName = "" }, wantErr: ErrMissingExtName},
		{name: "empty include", mutate: func(c *Config) { c.Include = "" }, errSubstr: "include pattern"},
		{name: "bad include", mutate: func(c *Config) { c.Include = "[" }, errSubstr: "invalid include pattern"},
		{name: "zero debounce", mutate: func(c *Config) { c.Watch.Debounce = 0 }, errSubstr: "watch.debounce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errSubstr != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSubstr)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestKeyMapping(t *testing.T) {
	assert.Equal(t, "extname", envKey("SQL2EXTENSION_EXTNAME"))
	assert.Equal(t, "watch.debounce", envKey("SQL2EXTENSION_WATCH_DEBOUNCE"))
	assert.Equal(t, "watch.debounce", flagKey("debounce"))
	assert.Equal(t, "", flagKey("config"))
	assert.Equal(t, "", flagKey("quiet"))
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()), "falls back to a discard logger")

	var buf bytes.Buffer
	logger := NewLogger(&buf, false)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	NewLogger(&buf, true).Debug("debug record")
	assert.Contains(t, buf.String(), "debug record")
}
