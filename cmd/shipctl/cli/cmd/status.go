package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vlt-io/shipctl/internal/orchestrator"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current deployment state",
	Long:  `Prints the deployment overview, pod state, rollout history, and recent events. Read-only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		environment, _ := cmd.Flags().GetString("environment")
		if environment == "" {
			return fmt.Errorf("--environment is required")
		}
		if _, err := cfg.Environment(environment); err != nil {
			return err
		}

		reporter := orchestrator.NewStatusReporter(liveExecutor(), log, os.Stdout)
		return reporter.Report(cmd.Context(), cfg.Target(environment))
	},
}

func init() {
	statusCmd.Flags().String("environment", "", "Target environment")
}
