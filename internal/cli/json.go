package cli

// ABOUTME: Helpers for --json output on commands that support it.

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/venvsweep/venvsweep/internal/venv"
)

// writeJSON marshals v as indented JSON and writes it to w with a trailing newline.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// requireYesForJSON rejects a deleting --json run without --yes. A
// confirmation prompt cannot work in a machine-readable pipeline, and
// deleting without any confirmation path must be opted into explicitly.
func requireYesForJSON(cmd *cobra.Command) error {
	jsonOut, _ := cmd.Flags().GetBool("json")
	if !jsonOut {
		return nil
	}
	removeAged, _ := cmd.Flags().GetBool("remove")
	removeBroken, _ := cmd.Flags().GetBool("remove-broken")
	if !removeAged && !removeBroken {
		return nil
	}
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		return venv.NewUsageError("--json with --remove or --remove-broken requires --yes")
	}
	return nil
}
