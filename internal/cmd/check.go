package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ozgur/shipmate/internal/config"
	"github.com/ozgur/shipmate/internal/registry"
)

// NewCheckCommand creates the check subcommand: parse the config
// document, build the registry, report what it would expose, and exit.
func NewCheckCommand() *cobra.Command {
	var configPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the config document without starting the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(configPath)

			cfg, err := config.Load(path)
			if err != nil {
				return err
			}

			logger := zap.NewNop()
			if verbose {
				logger, err = zap.NewDevelopment()
				if err != nil {
					return err
				}
			}

			snap, err := registry.Build(cfg, logger)
			if err != nil {
				return fmt.Errorf("registry build failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok, %d entries\n", path, snap.Len())
			if verbose {
				for _, e := range snap.Entries() {
					flag := ""
					if e.Readonly {
						flag = " (readonly)"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "  %s -> %s%s\n", e.Name, e.Path, flag)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the config document")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list every registry entry")

	return cmd
}
