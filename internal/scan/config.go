package scan

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/venvsweep/venvsweep/internal/python"
	"github.com/venvsweep/venvsweep/internal/venv"
)

// Duration wraps time.Duration so YAML can carry values like "5s" or bare
// seconds.
type Duration time.Duration

// UnmarshalYAML accepts either a duration string or an integer second count.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw interface{}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case int:
		*d = Duration(time.Duration(v) * time.Second)
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration value %v", raw)
	}
	return nil
}

// DefaultExcludes are directory basenames never worth descending into.
// Exclusion applies to traversal only; environments are leaves anyway.
var DefaultExcludes = []string{".git", ".hg", ".svn", "node_modules", "__pycache__"}

// Config holds the scanner settings read from ~/.venvsweep/config.yaml.
// Flags override these; these override the built-in defaults.
type Config struct {
	ProbeTimeout Duration `yaml:"probe_timeout"`
	Workers      int      `yaml:"workers"` // zero means derive from CPU count
	Exclude      []string `yaml:"exclude"`
	NoColor      bool     `yaml:"no_color"`
}

// DefaultConfig returns the settings used when config.yaml is absent.
func DefaultConfig() Config {
	return Config{
		ProbeTimeout: Duration(python.DefaultTimeout),
		Exclude:      DefaultExcludes,
	}
}

// LoadConfig reads ~/.venvsweep/config.yaml. A missing file is simply all
// defaults; a file that exists but does not parse is a ConfigError.
func LoadConfig() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		slog.Debug("no home directory, using default config", "error", err)
		return DefaultConfig(), nil
	}
	return loadConfigFrom(path)
}

func loadConfigFrom(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is under the user's home
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, venv.NewConfigError("read %s: %v", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, venv.NewConfigError("parse %s: %v", path, err)
	}
	if cfg.Workers < 0 {
		return cfg, venv.NewConfigError("workers must not be negative (got %d)", cfg.Workers)
	}
	if cfg.ProbeTimeout < 0 {
		return cfg, venv.NewConfigError("probe_timeout must not be negative")
	}
	return cfg, nil
}
