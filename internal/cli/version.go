package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	latest "github.com/tcnksm/go-latest"
)

func newVersionCmd(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "venvsweep version %s (commit: %s, built: %s)\n", version, commit, date); err != nil {
				return err
			}
			if check, _ := cmd.Flags().GetBool("check"); check {
				checkLatest(cmd.OutOrStdout(), version)
			}
			return nil
		},
	}
	cmd.Flags().Bool("check", false, "Check GitHub for a newer release")
	return cmd
}

// checkLatest compares the running version against the newest GitHub
// release tag. Network or parse failures are silent; an update check must
// never break the version command.
func checkLatest(out io.Writer, version string) {
	githubTag := &latest.GithubTag{
		Owner:      "venvsweep",
		Repository: "venvsweep",
	}
	res, err := latest.Check(githubTag, version)
	if err != nil {
		return
	}
	if res.Outdated {
		fmt.Fprintf(out, "A newer version is available: %s (you have %s)\n", res.Current, version)
		fmt.Fprintln(out, "Download it from https://github.com/venvsweep/venvsweep/releases")
	} else {
		fmt.Fprintf(out, "You are using the latest version: %s\n", version)
	}
}
