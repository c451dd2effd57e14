package cli

// ABOUTME: `venvsweep scan` walks a tree, reports every Python virtual
// environment in it, and optionally deletes the ones the flags select.

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/venvsweep/venvsweep/internal/report"
	"github.com/venvsweep/venvsweep/internal/scan"
	"github.com/venvsweep/venvsweep/internal/venv"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <root>",
		Short: "Scan a directory tree for Python virtual environments",
		Args:  cobra.ExactArgs(1),
		RunE:  runScanCmd,
	}

	cmd.Flags().BoolP("list-packages", "p", false, "List installed packages in each environment")
	cmd.Flags().Int("older-than", 0, "Only report environments at least DAYS days old")
	cmd.Flags().Bool("remove", false, "Delete the reported environments")
	cmd.Flags().Bool("remove-broken", false, "Delete only broken and incompatible environments")
	cmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")
	cmd.Flags().Bool("json", false, "Output machine-readable JSON")
	cmd.Flags().Int("workers", 0, "Concurrent interpreter probes (0 = auto)")
	cmd.Flags().Duration("probe-timeout", 0, "Per-interpreter probe timeout (0 = config or 5s)")

	return cmd
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	removeAged, _ := cmd.Flags().GetBool("remove")
	removeBroken, _ := cmd.Flags().GetBool("remove-broken")
	olderThan, _ := cmd.Flags().GetInt("older-than")
	jsonOut, _ := cmd.Flags().GetBool("json")
	yes, _ := cmd.Flags().GetBool("yes")

	// 1. Validate the flag surface before touching the filesystem.
	if removeAged && removeBroken {
		return venv.NewUsageError("--remove and --remove-broken are mutually exclusive")
	}
	if olderThan < 0 {
		return venv.NewUsageError("--older-than must not be negative (got %d)", olderThan)
	}
	if workers, _ := cmd.Flags().GetInt("workers"); workers < 0 {
		return venv.NewUsageError("--workers must not be negative (got %d)", workers)
	}
	if err := requireYesForJSON(cmd); err != nil {
		return err
	}

	// 2. Settings: config file first, then flag overrides.
	cfg, err := scan.LoadConfig()
	if err != nil {
		return err
	}
	root, err := filepath.Abs(expandTilde(args[0]))
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}
	opts := scanOptions(cmd, cfg, root)
	opts.SystemArch = venv.HostArch(ctx)

	// 3. Discover and classify.
	result, err := scan.New(opts).Run(ctx)
	if err != nil {
		return err
	}

	// 4. Aggregate: the age filter decides what is shown and summarized.
	shown := result.Filter(olderThan)
	summary := venv.Summarize(shown)

	// 5. Removal targets. --remove takes the filtered set; --remove-broken
	// takes every unhealthy environment regardless of age.
	var targets []venv.Record
	switch {
	case removeAged:
		targets = shown
	case removeBroken:
		targets = result.Unhealthy()
	}

	// 6. JSON mode: deletions still run (gated on --yes above), then one
	// document carries everything.
	if jsonOut {
		return scanJSON(ctx, cmd, opts, result, shown, summary, scanJSONRemoval{
			requested:   removeAged || removeBroken,
			targets:     targets,
			statusGated: removeBroken,
		})
	}

	// 7. Human report.
	w := report.New(out, selectStyles(cmd, cfg.NoColor))
	switch {
	case len(result.Records) == 0:
		w.NoEnvironments(opts.Root)
	case len(shown) == 0:
		w.NoneMatched()
	}
	for _, rec := range shown {
		w.Record(rec)
	}
	if verbose, _ := cmd.Flags().GetCount("verbose"); verbose > 0 {
		w.Skipped(result.Skipped)
	}
	w.Summary(summary)

	// 8. Deletion, when asked for.
	if removeAged || removeBroken {
		if len(targets) == 0 {
			fmt.Fprintln(out, "Nothing to remove.")
			return nil
		}
		if !yes {
			prompt := fmt.Sprintf("Remove %d environment(s)? [y/N]: ", len(targets))
			confirmed, err := confirm(ctx, prompt, cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if !confirmed {
				return nil
			}
		}
		_, err := deleteTargets(ctx, w, opts, targets, removeBroken)
		return err
	}

	// 9. An age filter without a removal flag is a dry run worth naming.
	if olderThan > 0 {
		w.DryRunNote()
	}
	return nil
}

type removalFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type removalOutcome struct {
	Removed []string         `json:"removed"`
	Failed  []removalFailure `json:"failed,omitempty"`
}

// deleteTargets removes the selection one directory at a time, reporting
// through w when it is non-nil. Individual failures are collected; the
// returned error is only non-nil when the run as a whole failed, meaning
// cancellation or every single removal failing.
func deleteTargets(ctx context.Context, w *report.Writer, opts scan.Options, targets []venv.Record, statusGated bool) (removalOutcome, error) {
	outcome := removalOutcome{Removed: []string{}}

	remover, err := scan.NewRemover(opts.Root, opts.SystemArch, opts.ProbeTimeout)
	if err != nil {
		return outcome, err
	}
	for _, rec := range targets {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}
		if err := remover.Remove(ctx, rec, statusGated); err != nil {
			outcome.Failed = append(outcome.Failed, removalFailure{Path: rec.Path, Error: err.Error()})
			if w != nil {
				w.RemoveFailed(err)
			}
			continue
		}
		outcome.Removed = append(outcome.Removed, rec.Path)
		if w != nil {
			w.Removed(rec)
		}
	}
	if len(targets) > 0 && len(outcome.Failed) == len(targets) {
		return outcome, fmt.Errorf("all %d removal(s) failed", len(targets))
	}
	return outcome, nil
}

type scanJSONRemoval struct {
	requested   bool
	targets     []venv.Record
	statusGated bool
}

// scanJSON emits the whole scan as one document. When removal flags are
// set the deletions happen first so the document reports what was done,
// and a fatal removal error surfaces after the document is written.
func scanJSON(ctx context.Context, cmd *cobra.Command, opts scan.Options, result *scan.Result, shown []venv.Record, summary venv.Summary, removal scanJSONRemoval) error {
	if shown == nil {
		shown = []venv.Record{}
	}
	skipped := result.Skipped
	if skipped == nil {
		skipped = []scan.Diagnostic{}
	}
	doc := map[string]any{
		"root":    opts.Root,
		"records": shown,
		"summary": summary,
		"skipped": skipped,
	}

	var removeErr error
	if removal.requested {
		outcome, err := deleteTargets(ctx, nil, opts, removal.targets, removal.statusGated)
		removeErr = err
		doc["removed"] = outcome.Removed
		if len(outcome.Failed) > 0 {
			doc["failed"] = outcome.Failed
		}
	}

	if err := writeJSON(cmd.OutOrStdout(), doc); err != nil {
		return err
	}
	return removeErr
}
