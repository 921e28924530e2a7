package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stagelight/simcore/internal/domain"
)

func init() {
	rootCmd.AddCommand(periodsCmd)
}

var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "List the available simulation period presets",
	RunE:  runPeriods,
}

func runPeriods(cmd *cobra.Command, args []string) error {
	for _, p := range domain.Periods() {
		fmt.Printf("%-10s  %6d days\n", p.Name, p.Days)
	}
	return nil
}
