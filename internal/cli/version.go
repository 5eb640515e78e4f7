package cmd

import (
	"fmt"

	"github.com/rohmanhakim/wikicurious/internal/build"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "wikicurious %s (built: %s)\n", build.FullVersion(), build.BuildTime)
	},
}
