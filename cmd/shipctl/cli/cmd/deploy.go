package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vlt-io/shipctl/pkg/model"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy a new image tag",
	Long: `Updates the workload image, annotates it with deploy metadata, and
verifies rollout health within the timeout. A failed health check
triggers an automatic rollback to the pre-deploy revision.`,
	Example: `  shipctl deploy --environment staging --image-tag v1.4.2
  shipctl deploy --environment production --image-tag v1.4.2 --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		environment, _ := cmd.Flags().GetString("environment")
		imageTag, _ := cmd.Flags().GetString("image-tag")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		timeoutSecs, _ := cmd.Flags().GetInt("timeout")

		if environment == "" || imageTag == "" {
			return fmt.Errorf("both --environment and --image-tag are required")
		}
		if _, err := cfg.Environment(environment); err != nil {
			return err
		}

		timeout := cfg.Health.DeployTimeout()
		if cmd.Flags().Changed("timeout") {
			timeout = time.Duration(timeoutSecs) * time.Second
		}

		ctx, stopTracing := setupTracing(cmd.Context())
		defer stopTracing()

		outcome, err := newController().Deploy(ctx, model.DeploymentRequest{
			Target:  cfg.Target(environment),
			Image:   cfg.ImageRef(imageTag),
			Timeout: timeout,
			DryRun:  dryRun,
		})
		return finish(outcome, err)
	},
}

func init() {
	deployCmd.Flags().String("environment", "", "Target environment")
	deployCmd.Flags().String("image-tag", "", "Image tag to deploy (e.g. v1.4.2)")
	deployCmd.Flags().Bool("dry-run", false, "Print commands without executing them")
	deployCmd.Flags().Int("timeout", 300, "Health check timeout in seconds")
}
