package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	ret := &cobra.Command{
		Use:   "kuriosity",
		Short: "Kuriosity experiment engine",
		Long: `kuriosity drives crew experiments over a simulated universe.

Available subcommands:
  run     - Advance a YAML scenario and report experiment progress
  catalog - Inspect experiment definitions`,
		SilenceUsage: true,
	}
	ret.AddCommand(newRunCmd(), newCatalogCmd())
	return ret
}
