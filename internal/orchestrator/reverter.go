package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vlt-io/shipctl/internal/executor"
	"github.com/vlt-io/shipctl/internal/health"
	"github.com/vlt-io/shipctl/internal/logger"
	"github.com/vlt-io/shipctl/internal/metrics"
	"github.com/vlt-io/shipctl/pkg/model"
)

// Reverter returns a target to a prior revision and confirms the
// platform actually settled there.
type Reverter struct {
	exec    executor.Executor
	monitor *health.Monitor
	log     *logger.Logger
	// healthBudget bounds the post-revert health re-check. Deliberately
	// its own budget, not the deploy timeout: a revert lands on a
	// revision that was recently healthy.
	healthBudget time.Duration
}

func NewReverter(exec executor.Executor, monitor *health.Monitor, log *logger.Logger, healthBudget time.Duration) *Reverter {
	return &Reverter{exec: exec, monitor: monitor, log: log, healthBudget: healthBudget}
}

// Revert rolls the target back to req.Revision (or the previous
// revision when none is given) and re-checks health before declaring
// the rollback complete.
func (r *Reverter) Revert(ctx context.Context, req model.RollbackRequest) error {
	r.log.Info("rolling back",
		zap.String("environment", req.Target.Environment),
		zap.String("workload", req.Target.Workload),
		zap.String("revision", req.Revision.String()),
	)
	metrics.RollbacksTotal.WithLabelValues(req.Target.Environment).Inc()

	args := []string{"rollout", "undo", "deployment/" + req.Target.Workload}
	if !req.Revision.IsPrevious() {
		args = append(args, "--to-revision="+string(req.Revision))
	}
	if _, err := r.exec.Execute(ctx, executor.Command{Args: args}); err != nil {
		return &RevertError{Target: req.Target, Revision: req.Revision, Err: err}
	}

	r.log.Info("waiting for rollback to complete")
	verdict := r.monitor.Await(ctx, req.Target, r.healthBudget)
	if verdict.Outcome != model.Healthy {
		return &RevertError{
			Target:   req.Target,
			Revision: req.Revision,
			Err: fmt.Errorf("post-rollback health check %s after %d attempts",
				verdict.Outcome, verdict.Attempts),
		}
	}

	r.log.Info("rollback completed successfully",
		zap.String("environment", req.Target.Environment),
	)
	return nil
}
