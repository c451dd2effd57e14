// Package cli defines the Cobra command tree for venvsweep.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/venvsweep/venvsweep/internal/venv"
)

// Execute runs the root command and returns the exit code.
func Execute(ctx context.Context, version, commit, date string) int {
	rootCmd := newRootCmd(version, commit, date)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	fmt.Fprintf(os.Stderr, "venvsweep: %s\n", err) //nolint:errcheck // best-effort stderr write

	var usageErr *venv.UsageError
	if errors.As(err, &usageErr) {
		return 2
	}

	var configErr *venv.ConfigError
	if errors.As(err, &configErr) {
		return 3
	}

	return 1
}

// newRootCmd creates the root Cobra command with all subcommands registered.
func newRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "venvsweep",
		Short: "Find and clean Python virtual environments",
		Long: `Scan directory trees for Python virtual environments, check each one
against the machine it lives on, and sweep away the broken, foreign
architecture, and abandoned ones. Nothing is deleted unless --remove or
--remove-broken says so.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetCount("verbose")
			quiet, _ := cmd.Flags().GetCount("quiet")
			setupLogging(cmd.ErrOrStderr(), verbose, quiet)
		},
	}

	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (-v for debug)")
	rootCmd.PersistentFlags().CountP("quiet", "q", "Suppress non-essential output (-q for warn, -qq for error only)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		newScanCmd(),
		newConfigCmd(),
		newVersionCmd(version, commit, date),
	)

	return rootCmd
}

// setupLogging installs the default slog handler at the level the
// verbosity flags ask for.
func setupLogging(w io.Writer, verbose, quiet int) {
	level := slog.LevelInfo
	switch {
	case verbose > 0:
		level = slog.LevelDebug
	case quiet == 1:
		level = slog.LevelWarn
	case quiet > 1:
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
