package orchestrator

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
	"go.uber.org/zap"

	"github.com/vlt-io/shipctl/internal/executor"
	"github.com/vlt-io/shipctl/internal/logger"
	"github.com/vlt-io/shipctl/pkg/model"
)

// StatusSummary is the structured header printed before the raw
// platform output, built from the deploy metadata annotations.
type StatusSummary struct {
	Environment string `yaml:"environment"`
	Namespace   string `yaml:"namespace"`
	Workload    string `yaml:"workload"`
	ImageTag    string `yaml:"image_tag,omitempty"`
	DeployedAt  string `yaml:"deployed_at,omitempty"`
}

// StatusReporter shows the current deployment state. Strictly
// read-only: it only ever issues get/history queries.
type StatusReporter struct {
	exec executor.Executor
	log  *logger.Logger
	out  io.Writer
}

func NewStatusReporter(exec executor.Executor, log *logger.Logger, out io.Writer) *StatusReporter {
	return &StatusReporter{exec: exec, log: log, out: out}
}

func (s *StatusReporter) Report(ctx context.Context, target model.Target) error {
	s.log.Info("deployment status",
		zap.String("environment", target.Environment),
		zap.String("workload", target.Workload),
	)

	s.printSummary(ctx, target)

	sections := []struct {
		title string
		args  []string
	}{
		{"deployment", []string{"get", "deployment", target.Workload, "-o", "wide"}},
		{"pods", []string{"get", "pods", "-l", "app=" + target.Workload, "-o", "wide"}},
		{"rollout history", []string{"rollout", "history", "deployment/" + target.Workload}},
		{"recent events", []string{
			"get", "events",
			"--field-selector", "involvedObject.name=" + target.Workload,
			"--sort-by=.lastTimestamp",
		}},
	}

	for _, section := range sections {
		out, err := s.exec.Execute(ctx, executor.Command{Args: section.args})
		if err != nil {
			return fmt.Errorf("status query %q failed: %w", section.title, err)
		}
		fmt.Fprintf(s.out, "--- %s ---\n%s\n\n", section.title, out)
	}
	return nil
}

// printSummary is best-effort: targets that were never deployed through
// this tool have no annotations, and that is not an error.
func (s *StatusReporter) printSummary(ctx context.Context, target model.Target) {
	summary := StatusSummary{
		Environment: target.Environment,
		Namespace:   target.Namespace,
		Workload:    target.Workload,
	}

	out, err := s.exec.Execute(ctx, executor.Command{
		Args: []string{
			"get", "deployment", target.Workload,
			"-o", fmt.Sprintf("jsonpath={.metadata.annotations.%s} {.metadata.annotations.%s}",
				strings.ReplaceAll(annotationImageTag, ".", `\.`),
				strings.ReplaceAll(annotationDeployedAt, ".", `\.`)),
		},
		AllowFailure: true,
	})
	if err == nil {
		if fields := strings.Fields(out); len(fields) == 2 {
			summary.ImageTag, summary.DeployedAt = fields[0], fields[1]
		}
	}

	if data, err := yaml.Marshal(summary); err == nil {
		fmt.Fprintf(s.out, "%s\n", data)
	}
}
