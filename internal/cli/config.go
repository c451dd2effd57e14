package cli

// ABOUTME: CLI commands for reading and writing venvsweep config.yaml settings.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/venvsweep/venvsweep/internal/scan"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Get or set configuration values",
	}

	cmd.AddCommand(
		newConfigGetCmd(),
		newConfigSetCmd(),
		newConfigUnsetCmd(),
	)

	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Print configuration value(s)",
		Long: `Print configuration values from ~/.venvsweep/config.yaml.

Without arguments, prints the entire config file.
With a key (e.g., probe_timeout), prints just that value; keys the file
does not set report their built-in default.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				data, err := scan.ReadConfigRaw()
				if err != nil {
					return err
				}
				if data != nil {
					_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
					return err
				}
				return nil
			}

			value, found, err := scan.GetConfigValue(args[0])
			if err != nil {
				return err
			}
			if !found {
				os.Exit(1)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), value)
			return err
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value in ~/.venvsweep/config.yaml.

Creates the config file if it doesn't exist.
Preserves comments and formatting.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			configPath, err := scan.ConfigPath()
			if err != nil {
				return err
			}

			// Create config file if it doesn't exist.
			if _, err := os.Stat(configPath); os.IsNotExist(err) {
				if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
					return fmt.Errorf("create config directory: %w", err)
				}
				if err := os.WriteFile(configPath, []byte("{}\n"), 0600); err != nil {
					return fmt.Errorf("create config.yaml: %w", err)
				}
			}

			return scan.UpdateConfigFields(map[string]string{
				args[0]: args[1],
			})
		},
	}
}

func newConfigUnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a configuration value",
		Long: `Remove a configuration value from ~/.venvsweep/config.yaml,
reverting the setting to its built-in default.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return scan.DeleteConfigField(args[0])
		},
	}
}
