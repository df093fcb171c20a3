package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vlt-io/shipctl/pkg/model"
)

var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Roll back to a previous revision",
	Long: `Reverts the workload to the given revision (or the previous one) and
waits for the rollback to come up healthy.`,
	Example: `  shipctl rollback --environment staging
  shipctl rollback --environment production --revision 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		environment, _ := cmd.Flags().GetString("environment")
		revisionNum, _ := cmd.Flags().GetInt("revision")

		if environment == "" {
			return fmt.Errorf("--environment is required")
		}
		if _, err := cfg.Environment(environment); err != nil {
			return err
		}

		rev := model.RevisionPrevious
		if revisionNum > 0 {
			rev = model.Revision(strconv.Itoa(revisionNum))
		}

		ctx, stopTracing := setupTracing(cmd.Context())
		defer stopTracing()

		outcome, err := newController().Rollback(ctx, model.RollbackRequest{
			Target:   cfg.Target(environment),
			Revision: rev,
		})
		return finish(outcome, err)
	},
}

func init() {
	rollbackCmd.Flags().String("environment", "", "Target environment")
	rollbackCmd.Flags().Int("revision", 0, "Revision number to roll back to (default: previous revision)")
}
