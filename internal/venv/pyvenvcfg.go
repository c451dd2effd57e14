package venv

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// VenvConfig carries the fields read from an environment's pyvenv.cfg.
// Only the keys the scanner reports on are retained.
type VenvConfig struct {
	Home    string // base interpreter directory the environment was created from
	Version string // Python version, canonicalized when parseable
}

// ReadVenvConfig parses the key = value pairs in dir/pyvenv.cfg. Lines
// without a separator are ignored, matching CPython's own reader.
func ReadVenvConfig(dir string) (VenvConfig, error) {
	path := filepath.Join(dir, "pyvenv.cfg")
	f, err := os.Open(path) //nolint:gosec // G304: path comes from the scanned tree
	if err != nil {
		return VenvConfig{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var cfg VenvConfig
	var rawVersion string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, found := strings.Cut(scanner.Text(), "=")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		switch key {
		case "home":
			cfg.Home = value
		case "version":
			rawVersion = value
		case "version_info":
			// uv and newer virtualenv releases write version_info instead
			if rawVersion == "" {
				rawVersion = value
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return VenvConfig{}, fmt.Errorf("read %s: %w", path, err)
	}
	cfg.Version = canonicalVersion(rawVersion)
	return cfg, nil
}

// canonicalVersion runs a version string through go-version so "3.12" and
// "3.12.0" render the same way. Unparseable values pass through untouched;
// the field is display-only.
func canonicalVersion(raw string) string {
	if raw == "" {
		return ""
	}
	v, err := goversion.NewVersion(raw)
	if err != nil {
		return raw
	}
	return v.String()
}
