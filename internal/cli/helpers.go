package cli

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/venvsweep/venvsweep/internal/report"
	"github.com/venvsweep/venvsweep/internal/scan"
)

// expandTilde handles a literal ~ prefix the way the shell would have.
func expandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}

// scanOptions merges the config file with flag overrides. A flag the user
// actually set wins over the file; the file wins over built-in defaults.
func scanOptions(cmd *cobra.Command, cfg scan.Config, root string) scan.Options {
	opts := scan.Options{
		Root:         root,
		ProbeTimeout: time.Duration(cfg.ProbeTimeout),
		Workers:      cfg.Workers,
		Exclude:      cfg.Exclude,
	}
	opts.ListPackages, _ = cmd.Flags().GetBool("list-packages")
	if cmd.Flags().Changed("workers") {
		opts.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if cmd.Flags().Changed("probe-timeout") {
		opts.ProbeTimeout, _ = cmd.Flags().GetDuration("probe-timeout")
	}
	return opts
}

// selectStyles picks colored or plain output. --no-color, the config
// file, the NO_COLOR convention, and a non-terminal stdout all force
// plain.
func selectStyles(cmd *cobra.Command, cfgNoColor bool) report.Styles {
	noColor, _ := cmd.Flags().GetBool("no-color")
	if noColor || cfgNoColor || os.Getenv("NO_COLOR") != "" {
		return report.PlainStyles()
	}
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) { //nolint:gosec // fd conversion is safe on all supported platforms
		return report.PlainStyles()
	}
	return report.DefaultStyles()
}
