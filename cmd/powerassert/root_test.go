//go:build unit

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LerianStudio/lib-powerassert/powerassert/hint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, args...))

	err := cmd.Execute()

	return out.String(), err
}

func TestExplain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "false equality",
			args: []string{"explain", "--var", "x=1", "x == 2"},
			want: "x == 2\n| |\n1 false\n",
		},
		{
			name: "yaml list",
			args: []string{"explain", "--var", "xs=[1, 2]", "len(xs) == 3"},
			want: "len(xs) == 3\n|   |   |\n2   |   false\n    [1, 2]\n",
		},
		{
			name: "true expressions are printed too",
			args: []string{"explain", "--var", "name=alice", `strings.HasPrefix(name, "al")`},
			want: "name.HasPrefix(\"al\")\n|    |\n|    true\n\"alice\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestExplain_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "false under --fail", args: []string{"explain", "--fail", "--var", "x=1", "x == 2"}, wantErr: errPredicateFalse.Error()},
		{name: "malformed var", args: []string{"explain", "--var", "x", "x == 2"}, wantErr: "want name=value"},
		{name: "empty var", args: []string{"explain", "--var", "x=", "x == 2"}, wantErr: "no value"},
		{name: "unknown identifier", args: []string{"explain", "y == 2"}, wantErr: `unknown identifier "y"`},
		{name: "missing expression", args: []string{"explain"}, wantErr: "accepts 1 arg(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHints(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "powerassert.yaml")
	require.NoError(t, os.WriteFile(path, []byte("disabled_hints: [enum-erasure]\n"), 0o600))

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"hints", "--config", path})
	require.NoError(t, cmd.Execute())

	names := strings.Fields(out.String())
	assert.Len(t, names, len(hint.Defaults())-1)
	assert.NotContains(t, names, hint.EnumErasure)
	assert.Equal(t, hint.PointerEquality, names[0])
}

func TestHints_InvalidConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "powerassert.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_depth: [\n"), 0o600))

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"hints", "--config", path})
	assert.Error(t, cmd.Execute())
}
