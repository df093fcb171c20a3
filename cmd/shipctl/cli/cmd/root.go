package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vlt-io/shipctl/internal/config"
	"github.com/vlt-io/shipctl/internal/executor"
	"github.com/vlt-io/shipctl/internal/health"
	"github.com/vlt-io/shipctl/internal/logger"
	"github.com/vlt-io/shipctl/internal/metrics"
	"github.com/vlt-io/shipctl/internal/orchestrator"
	"github.com/vlt-io/shipctl/internal/revision"
	"github.com/vlt-io/shipctl/internal/telemetry"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *logger.Logger

	rootCmd = &cobra.Command{
		Use:   "shipctl",
		Short: "Deployment automation for the video-analytics service",
		Long: `shipctl updates the video-processor workload to a new image tag,
verifies rollout health within a bounded time budget, and automatically
reverts to the pre-deploy revision when the rollout does not come up
healthy.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the CLI and exits with the outcome's code:
// 0 success / dry-run / user-abort, 1 health failure with rollback
// attempted, 2 rollback failed.
func Execute() {
	err := rootCmd.Execute()
	if log != nil {
		log.Sync()
	}
	if err == nil {
		return
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			fmt.Fprintln(os.Stderr, exitErr.err)
		}
		os.Exit(exitErr.code)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func init() {
	cobra.OnInitialize(initConfig, initLogger, initMetrics)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./shipctl.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().Bool("trace", false, "export spans (stdout, or OTLP when SHIPCTL_OTLP_ENDPOINT is set)")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("trace", rootCmd.PersistentFlags().Lookup("trace"))

	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(rollbackCmd)
	rootCmd.AddCommand(statusCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("shipctl")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.shipctl")
	}
	viper.SetEnvPrefix("SHIPCTL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		loaded, loadErr := config.Load(viper.ConfigFileUsed())
		if loadErr != nil {
			fmt.Fprintln(os.Stderr, loadErr)
			os.Exit(1)
		}
		cfg = loaded
		return
	} else if cfgFile != "" {
		fmt.Fprintln(os.Stderr, "cannot read config file:", err)
		os.Exit(1)
	}
	cfg = config.Default()
}

func initLogger() {
	var err error
	log, err = logger.New(viper.GetBool("verbose"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
}

func initMetrics() {
	if cfg.Metrics.Port > 0 {
		metrics.StartServer(fmt.Sprintf(":%d", cfg.Metrics.Port))
	}
}

// setupTracing installs the tracer provider when tracing was asked for;
// otherwise spans stay no-ops.
func setupTracing(ctx context.Context) (context.Context, func()) {
	endpoint := os.Getenv("SHIPCTL_OTLP_ENDPOINT")
	if !viper.GetBool("trace") && endpoint == "" {
		return ctx, func() {}
	}
	shutdown, err := telemetry.InitTracer(ctx, "shipctl", endpoint)
	if err != nil {
		log.Warn("tracing disabled", zap.Error(err))
		return ctx, func() {}
	}
	return ctx, func() { _ = shutdown(context.Background()) }
}

func liveExecutor() *executor.Kubectl {
	return executor.NewKubectl(cfg.KubectlBin, cfg.Namespace, log)
}

func newController() *orchestrator.Controller {
	live := liveExecutor()
	monitor := health.NewMonitor(live, log, health.Options{
		PollInterval:  cfg.Health.PollInterval(),
		QueryTimeout:  cfg.Health.QueryTimeout(),
		SuccessPhrase: cfg.Health.SuccessPhrase,
	})

	var journal *orchestrator.Journal
	if cfg.Journal.Path != "" {
		journal = &orchestrator.Journal{Path: cfg.Journal.Path}
	}

	var sensitive []string
	for _, env := range cfg.Environments {
		if env.Sensitive {
			sensitive = append(sensitive, env.Name)
		}
	}

	return orchestrator.NewController(orchestrator.Deps{
		Live:                  live,
		Dry:                   executor.NewDryRun(cfg.KubectlBin, cfg.Namespace, log),
		Tracker:               revision.NewTracker(live, log),
		Monitor:               monitor,
		Reverter:              orchestrator.NewReverter(live, monitor, log, cfg.Health.RollbackTimeout()),
		Confirm:               &orchestrator.StdinConfirmer{In: os.Stdin, Out: os.Stdout},
		Journal:               journal,
		Log:                   log,
		SensitiveEnvironments: sensitive,
	})
}
