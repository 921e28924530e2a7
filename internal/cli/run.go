package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stagelight/simcore/internal/domain"
	"github.com/stagelight/simcore/internal/engine"
)

func init() {
	runCmd.Flags().Int64Var(&runInitialUsers, "initial-users", 50_000, "Starting user count")
	runCmd.Flags().Int64Var(&runInitialReleases, "initial-releases", 5_000, "Starting release count")
	runCmd.Flags().Float64Var(&runSeedMoney, "seed-money", 1_000_000, "Starting capital")
	runCmd.Flags().Uint64Var(&runSeed, "seed", 0, "Deterministic RNG seed (0 = random)")
	rootCmd.AddCommand(runCmd)
}

var (
	runInitialUsers     int64
	runInitialReleases  int64
	runSeedMoney        float64
	runSeed             uint64
)

var runCmd = &cobra.Command{
	Use:   "run PERIOD",
	Short: "Run a single simulation to completion and print its report",
	Long:  `Run one of the closed-set period presets (e.g. 1_year, 3_years) synchronously and print the Markdown report.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	periodName := args[0]
	if _, ok := domain.PeriodDays(periodName); !ok {
		return fmt.Errorf("unknown period %q", periodName)
	}

	cfg := domain.Config{
		PeriodName:               periodName,
		InitialUsers:             runInitialUsers,
		InitialReleases:          runInitialReleases,
		SeedMoney:                runSeedMoney,
		EnableAutonomousSystems:  true,
		EnableSystemFailures:     true,
		EnableMarketFluctuations: true,
		Seed:                     runSeed,
		HasSeed:                  runSeed != 0,
	}.WithDefaults()

	sim, err := engine.New(cfg)
	if err != nil {
		return fmt.Errorf("create simulation: %w", err)
	}

	result, err := sim.Run()
	if err != nil {
		return fmt.Errorf("run simulation: %w", err)
	}

	fmt.Print(engine.Report(sim.ID(), result))
	return nil
}
