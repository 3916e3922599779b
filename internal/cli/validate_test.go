package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tinyflags/internal/testutil"
)

func runValidateCmd(t *testing.T, format string, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: format}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

func TestValidateValidSchema(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"cue", "perm.cue", testutil.PermCUE},
		{"yaml", "perm.yaml", testutil.PermYAML},
		{"yml", "perm.yml", testutil.PermYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, t.TempDir(), tt.file, tt.content)

			buf, err := runValidateCmd(t, "text", path)
			require.NoError(t, err)
			assert.Contains(t, buf.String(), "✓ "+tt.file+" is valid: 1 flag set(s)")
		})
	}
}

func TestValidateValidSchemaJSON(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "perm.cue", testutil.PermCUE)

	buf, err := runValidateCmd(t, "json", path)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, "perm.cue", resp.Data.Source)
	assert.Equal(t, 1, resp.Data.FlagSets)
	assert.Empty(t, resp.Data.Warnings)
}

func TestValidateCUEDirectory(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "perm.cue", "package perm\n\n"+testutil.PermCUE)

	buf, err := runValidateCmd(t, "text", dir)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "is valid: 1 flag set(s)")
}

func TestValidateNonExistentPath(t *testing.T) {
	buf, err := runValidateCmd(t, "text", "/nonexistent/schema.cue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E005")
	assert.Contains(t, buf.String(), "not found")
}

func TestValidateEmptyDirectory(t *testing.T) {
	buf, err := runValidateCmd(t, "text", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E003")
	assert.Contains(t, buf.String(), "no CUE files found")
}

func TestValidateUnsupportedExtension(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "perm.json", "{}")

	_, err := runValidateCmd(t, "text", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E008")
}

func TestValidateMalformedSchema(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "perm.yaml", testutil.MalformedYAML)

	buf, err := runValidateCmd(t, "text", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "E106")
	assert.Contains(t, buf.String(), "value is required")
	assert.Contains(t, buf.String(), "perm.yaml:6:")
}

func TestValidateOverflow(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "small.yaml", testutil.OverflowYAML)

	buf, err := runValidateCmd(t, "text", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "validation failed with 1 error(s)")
	assert.Contains(t, buf.String(), "✗ Validation failed")
	assert.Contains(t, buf.String(), "E204: flagset.Small")
}

func TestValidateOverflowJSON(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "small.yaml", testutil.OverflowYAML)

	buf, err := runValidateCmd(t, "json", path)
	require.Error(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	require.Len(t, resp.Data.Errors, 1)
	assert.Equal(t, "E204", resp.Data.Errors[0].Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E204", resp.Error.Code)
}

func TestValidateMultipleErrors(t *testing.T) {
	schema := `go_package: perm
flagsets:
  - name: Bad
    type: int
    radix: 3
    derive: [Hash]
    flags:
      - name: OK
        value: 1
`
	path := testutil.WriteFile(t, t.TempDir(), "bad.yaml", schema)

	buf, err := runValidateCmd(t, "text", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed with 3 error(s)")

	output := buf.String()
	assert.Contains(t, output, "E202")
	assert.Contains(t, output, "E209")
	assert.Contains(t, output, "E207")
}

func TestValidateCollisionWarning(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "perm.yaml", testutil.CollisionYAML)

	buf, err := runValidateCmd(t, "text", path)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "✓ perm.yaml is valid")
	assert.Contains(t, buf.String(), "⚠ E206")
	assert.Contains(t, buf.String(), "flag Writable replaces the IsWritable/SetWritable/ClearWritable accessors of WRITABLE")
}

func TestValidateCollisionStrict(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "perm.yaml", testutil.CollisionYAML)

	buf, err := runValidateCmd(t, "text", "--strict", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "E206")
}

func TestValidateStrictFromRootOptions(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "perm.yaml", testutil.CollisionYAML)

	rootOpts := &RootOptions{Format: "text", Strict: true}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestValidateCollisionWarningJSON(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "perm.yaml", testutil.CollisionYAML)

	buf, err := runValidateCmd(t, "json", path)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp), "warnings must not break the JSON document")
	require.Len(t, resp.Data.Warnings, 1)
	assert.Equal(t, "E206", resp.Data.Warnings[0].Code)
}
