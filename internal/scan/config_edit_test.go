package scan

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// configHome points HOME at a temp dir and creates ~/.venvsweep inside it.
func configHome(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	dir := filepath.Join(tmpDir, ".venvsweep")
	require.NoError(t, os.MkdirAll(dir, 0750))
	return dir
}

func writeConfigFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600))
}

func TestConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	p, err := ConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, ".venvsweep", "config.yaml"), p)
}

func TestReadConfigRaw_MissingFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	data, err := ReadConfigRaw()
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestReadConfigRaw_ExistingFile(t *testing.T) {
	dir := configHome(t)
	content := "workers: 4\n"
	writeConfigFile(t, dir, content)

	data, err := ReadConfigRaw()
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestGetConfigValue_Scalar(t *testing.T) {
	dir := configHome(t)
	writeConfigFile(t, dir, "probe_timeout: 2s\nworkers: 4\n")

	val, found, err := GetConfigValue("probe_timeout")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "2s", val)
}

func TestGetConfigValue_Sequence(t *testing.T) {
	dir := configHome(t)
	writeConfigFile(t, dir, "exclude:\n  - vendor\n  - .tox\n")

	val, found, err := GetConfigValue("exclude")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Contains(t, val, "vendor")
	assert.Contains(t, val, ".tox")
}

func TestGetConfigValue_NotFound(t *testing.T) {
	dir := configHome(t)
	writeConfigFile(t, dir, "workers: 4\n")

	_, found, err := GetConfigValue("nonexistent")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetConfigValue_FallsBackToDefault(t *testing.T) {
	dir := configHome(t)
	writeConfigFile(t, dir, "workers: 4\n")

	val, found, err := GetConfigValue("probe_timeout")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "5s", val)
}

func TestGetConfigValue_MissingFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	// Unknown key with no file: not found
	_, found, err := GetConfigValue("anything")
	require.NoError(t, err)
	assert.False(t, found)

	// Known key with no file: returns default
	val, found, err := GetConfigValue("workers")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "0", val)
}

func TestUpdateConfigFields_RoundTripsThroughLoad(t *testing.T) {
	dir := configHome(t)
	writeConfigFile(t, dir, "{}\n")

	require.NoError(t, UpdateConfigFields(map[string]string{
		"workers":       "4",
		"probe_timeout": "2s",
		"no_color":      "true",
	}))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, Duration(2*time.Second), cfg.ProbeTimeout)
	assert.True(t, cfg.NoColor)
}

func TestUpdateConfigFields_PreservesComments(t *testing.T) {
	dir := configHome(t)
	writeConfigFile(t, dir, "# tuned for the big NFS volume\nworkers: 2 # keep the mount happy\n")

	require.NoError(t, UpdateConfigFields(map[string]string{
		"probe_timeout": "10s",
	}))

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml")) //nolint:gosec // G304: test code
	require.NoError(t, err)
	assert.Contains(t, string(data), "keep the mount happy")
	assert.Contains(t, string(data), "probe_timeout: 10s")
}

func TestUpdateConfigFields_ReplacesExistingValue(t *testing.T) {
	dir := configHome(t)
	writeConfigFile(t, dir, "workers: 2\n")

	require.NoError(t, UpdateConfigFields(map[string]string{"workers": "8"}))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
}

func TestDeleteConfigField_Scalar(t *testing.T) {
	dir := configHome(t)
	writeConfigFile(t, dir, "workers: 4\nno_color: true\n")

	require.NoError(t, DeleteConfigField("workers"))

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml")) //nolint:gosec // G304: test code
	require.NoError(t, err)
	assert.NotContains(t, string(data), "workers")
	assert.Contains(t, string(data), "no_color: true")

	// GetConfigValue should fall back to default
	val, found, err := GetConfigValue("workers")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "0", val)
}

func TestDeleteConfigField_NonexistentKey(t *testing.T) {
	dir := configHome(t)
	writeConfigFile(t, dir, "workers: 4\n")

	require.NoError(t, DeleteConfigField("nonexistent"))
}

func TestDeleteConfigField_MissingFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	require.NoError(t, DeleteConfigField("workers"))
}

func TestScalarTag(t *testing.T) {
	assert.Equal(t, "!!bool", scalarTag("true"))
	assert.Equal(t, "!!bool", scalarTag("false"))
	assert.Equal(t, "!!int", scalarTag("4"))
	assert.Equal(t, "!!int", scalarTag("-1"))
	assert.Equal(t, "!!str", scalarTag("2s"))
	assert.Equal(t, "!!str", scalarTag("hello"))
}
