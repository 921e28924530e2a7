// Package cli implements the simcore command-line interface using
// Cobra, grounded on the teacher's internal/cli/root.go: a package-level
// rootCmd, subcommands self-registering via init(), and a single
// Execute(version) entrypoint called from main.go.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "simcore",
	Short: "simcore — Real-life business simulation engine",
	Long: `simcore projects a music-distribution SaaS business's metrics
across time horizons from 30 days to 50 years, at day-granularity
acceleration, and reports the resulting KPIs and system health.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
