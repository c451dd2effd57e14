package cli

// ABOUTME: Tests for the config get/set/unset CLI commands.

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cliConfigDir points HOME at a temp dir and creates ~/.venvsweep inside it.
func cliConfigDir(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	dir := filepath.Join(tmpDir, ".venvsweep")
	require.NoError(t, os.MkdirAll(dir, 0750))
	return dir
}

func TestConfigGet_WholeFile(t *testing.T) {
	dir := cliConfigDir(t)
	content := "workers: 4\nno_color: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600))

	cmd := newConfigGetCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, content, buf.String())
}

func TestConfigGet_NoFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	cmd := newConfigGetCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	assert.Empty(t, buf.String())
}

func TestConfigGet_ScalarKey(t *testing.T) {
	dir := cliConfigDir(t)
	content := "probe_timeout: 2s\nworkers: 4\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600))

	cmd := newConfigGetCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"probe_timeout"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "2s\n", buf.String())
}

func TestConfigGet_DefaultForUnsetKey(t *testing.T) {
	dir := cliConfigDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("workers: 4\n"), 0600))

	cmd := newConfigGetCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"probe_timeout"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "5s\n", buf.String())
}

func TestConfigSet_ExistingFile(t *testing.T) {
	dir := cliConfigDir(t)
	content := "# my config\nworkers: 2\n"
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0600))

	cmd := newConfigSetCmd()
	cmd.SetArgs([]string{"workers", "8"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(configPath) //nolint:gosec // G304: test code with temp dir path
	require.NoError(t, err)
	assert.Contains(t, string(data), "workers: 8")
	assert.Contains(t, string(data), "my config")
}

func TestConfigSet_NoFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	cmd := newConfigSetCmd()
	cmd.SetArgs([]string{"probe_timeout", "10s"})
	require.NoError(t, cmd.Execute())

	configPath := filepath.Join(tmpDir, ".venvsweep", "config.yaml")
	data, err := os.ReadFile(configPath) //nolint:gosec // G304: test code with temp dir path
	require.NoError(t, err)
	assert.Contains(t, string(data), "probe_timeout: 10s")
}

func TestConfigSet_ThenGet(t *testing.T) {
	dir := cliConfigDir(t)
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("workers: 2\n"), 0600))

	cmd := newConfigSetCmd()
	cmd.SetArgs([]string{"no_color", "true"})
	require.NoError(t, cmd.Execute())

	getCmd := newConfigGetCmd()
	buf := new(bytes.Buffer)
	getCmd.SetOut(buf)
	getCmd.SetArgs([]string{"no_color"})
	require.NoError(t, getCmd.Execute())
	assert.Equal(t, "true\n", buf.String())
}

func TestConfigUnset_RemovesKey(t *testing.T) {
	dir := cliConfigDir(t)
	content := "workers: 8\nno_color: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600))

	cmd := newConfigUnsetCmd()
	cmd.SetArgs([]string{"workers"})
	require.NoError(t, cmd.Execute())

	// Verify via get, which should now report the default.
	getCmd := newConfigGetCmd()
	buf := new(bytes.Buffer)
	getCmd.SetOut(buf)
	getCmd.SetArgs([]string{"workers"})
	require.NoError(t, getCmd.Execute())
	assert.Equal(t, "0\n", buf.String())
}

func TestConfigUnset_RequiresArg(t *testing.T) {
	cmd := newConfigUnsetCmd()
	cmd.SetArgs([]string{})
	assert.Error(t, cmd.Execute())
}
