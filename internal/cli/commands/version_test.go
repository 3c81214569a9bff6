package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		info    BuildInfo
		args    []string
		wantOut []string
		exact   string
	}{
		{
			name:    "default build",
			info:    BuildInfo{Version: "0.1.0", Commit: "unknown", Date: "unknown"},
			wantOut: []string{"sql2extension v0.1.0", "commit: unknown", "built:  unknown"},
		},
		{
			name:    "stamped build",
			info:    BuildInfo{Version: "1.2.3", Commit: "3f2a9c1", Date: "2026-10-14T09:00:00Z"},
			wantOut: []string{"sql2extension v1.2.3", "commit: 3f2a9c1", "built:  2026-10-14T09:00:00Z"},
		},
		{
			name:  "short",
			info:  BuildInfo{Version: "1.2.3", Commit: "3f2a9c1", Date: "2026-10-14"},
			args:  []string{"--short"},
			exact: "1.2.3\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewVersionCommand(tt.info)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			args := tt.args
			if args == nil {
				args = []string{}
			}
			cmd.SetArgs(args)

			require.NoError(t, cmd.Execute())

			output := buf.String()
			if tt.exact != "" {
				assert.Equal(t, tt.exact, output)
				return
			}
			for _, want := range tt.wantOut {
				assert.Contains(t, output, want)
			}
		})
	}
}

func TestVersionCommandMetadata(t *testing.T) {
	cmd := NewVersionCommand(BuildInfo{Version: "test"})

	assert.Equal(t, "version", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Long, "Long should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("short"))
}
