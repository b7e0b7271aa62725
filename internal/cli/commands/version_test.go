package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runVersion(t *testing.T, info BuildInfo, args ...string) string {
	t.Helper()
	cmd := NewVersionCommand(info)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{}, args...))
	require.NoError(t, cmd.Execute())
	return buf.String()
}

func TestVersionCommand(t *testing.T) {
	tests := []struct {
		name string
		info BuildInfo
		want string
	}{
		{"version only", BuildInfo{Version: "0.1.0", Commit: "unknown", Date: "unknown"}, "leapdb v0.1.0\n"},
		{"commit", BuildInfo{Version: "0.2.0", Commit: "abc123"}, "leapdb v0.2.0\ncommit abc123\n"},
		{"date", BuildInfo{Version: "dev", Date: "2026-01-02"}, "leapdb vdev\nbuilt 2026-01-02\n"},
		{
			"commit and date",
			BuildInfo{Version: "1.0.0", Commit: "abc123", Date: "2026-01-02"},
			"leapdb v1.0.0\ncommit abc123, built 2026-01-02\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, runVersion(t, tt.info))
		})
	}
}

func TestVersionCommand_Short(t *testing.T) {
	out := runVersion(t, BuildInfo{Version: "1.0.0", Commit: "abc123"}, "--short")
	assert.Equal(t, "1.0.0\n", out)
}

func TestVersionCommand_RejectsArgs(t *testing.T) {
	cmd := NewVersionCommand(BuildInfo{Version: "1.0.0"})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"extra"})
	assert.Error(t, cmd.Execute())
}
