package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dessix/mumble-plugin-go/application/manifest"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestValidateCmd(t *testing.T) {
	good := writeFile(t, "good.yaml", "name: Echo\nauthor: Jane\nversion: 1.2.0\n")
	bad := writeFile(t, "bad.yaml", "name: Echo\nversion: nope\n")

	out, err := run(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "Echo 1.2.0 by Jane (API 1.0.2)")

	_, err = run(t, "validate", good, bad)
	assert.EqualError(t, err, "1 of 2 manifests invalid")

	_, err = run(t, "validate")
	assert.Error(t, err)
}

func TestSchemaCmd(t *testing.T) {
	out, err := run(t, "schema")
	require.NoError(t, err)
	assert.Contains(t, out, `"api_version"`)
}

func TestInitCmd(t *testing.T) {
	out, err := run(t, "init", "Radar", "--author", "Sam", "--feature", "positional")
	require.NoError(t, err)

	m, err := manifest.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "Radar", m.Name)
	assert.Equal(t, []string{"positional"}, m.Features)

	path := filepath.Join(t.TempDir(), "plugin.yaml")
	_, err = run(t, "init", "Radar", "--author", "Sam", "-o", path)
	require.NoError(t, err)
	_, err = manifest.Load(path)
	require.NoError(t, err)

	_, err = run(t, "init", "Radar", "--author", "Sam", "-o", path)
	assert.ErrorContains(t, err, "already exists")

	_, err = run(t, "init", "Radar", "--author", "Sam", "--feature", "video")
	assert.ErrorContains(t, err, "manifest validation failed")

	_, err = run(t, "init", "Radar")
	assert.Error(t, err, "author is required")
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "plugin API 1.0.2")
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := run(t, "--log-level", "loud", "version")
	assert.ErrorContains(t, err, "invalid --log-level")
}
