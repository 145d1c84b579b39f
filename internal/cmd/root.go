package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shipmate",
		Short: "HTTP API for managed host config files and containers",
		Long: `Shipmate exposes a curated registry of host configuration files for
reading and editing, and inspects and controls the containers running on
the same host, over a single HTTP/JSON API.

Which files are visible is decided by a declarative config document;
nothing outside the registry is ever reachable.`,
		Version:      Version,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewCheckCommand())

	return cmd
}
