// Package orchestrator owns the deploy-verify-recover sequence: it
// updates the workload, watches the rollout, and reverts to the
// pre-deploy revision when the rollout does not come up healthy.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/vlt-io/shipctl/internal/executor"
	"github.com/vlt-io/shipctl/internal/health"
	"github.com/vlt-io/shipctl/internal/logger"
	"github.com/vlt-io/shipctl/internal/metrics"
	"github.com/vlt-io/shipctl/internal/revision"
	"github.com/vlt-io/shipctl/pkg/model"
)

const (
	annotationDeployedAt  = "deployment.vlt.io/deployed-at"
	annotationImageTag    = "deployment.vlt.io/image-tag"
	annotationEnvironment = "deployment.vlt.io/environment"
)

// Deps wires a Controller. Everything that used to be module-level
// state (sensitive tiers included) arrives here, so independent
// controllers can orchestrate different targets without interference.
type Deps struct {
	Live     executor.Executor
	Dry      executor.Executor
	Tracker  *revision.Tracker
	Monitor  *health.Monitor
	Reverter *Reverter
	Confirm  Confirmer
	Journal  *Journal // nil disables the journal
	Log      *logger.Logger
	// SensitiveEnvironments require confirmation before mutation.
	SensitiveEnvironments []string
}

type Controller struct {
	deps  Deps
	runID string
}

func NewController(deps Deps) *Controller {
	return &Controller{deps: deps, runID: uuid.NewString()}
}

func (c *Controller) sensitive(env string) bool {
	for _, s := range c.deps.SensitiveEnvironments {
		if s == env {
			return true
		}
	}
	return false
}

// Deploy runs the full deploy-verify-recover sequence for one request
// and returns the terminal outcome. Only a rejected platform action
// (initial update or rollback) also returns an error; health results
// are absorbed into the outcome.
func (c *Controller) Deploy(ctx context.Context, req model.DeploymentRequest) (Outcome, error) {
	ctx, span := otel.Tracer("shipctl/orchestrator").Start(ctx, "deploy")
	defer span.End()

	machine := newRolloutFSM(c.deps.Log)
	image := req.Image.String()
	env := req.Target.Environment

	c.deps.Log.Info("deploying",
		zap.String("run_id", c.runID),
		zap.String("image", image),
		zap.String("environment", env),
		zap.Bool("dry_run", req.DryRun),
	)

	if c.sensitive(env) && !req.DryRun {
		ok, err := c.deps.Confirm.Confirm(fmt.Sprintf(
			"You are deploying %s to %s. Are you sure?", image, strings.ToUpper(env)))
		if err != nil {
			return OutcomeFailed, fmt.Errorf("confirmation prompt failed: %w", err)
		}
		if !ok {
			c.deps.Log.Info("aborted by user, nothing was changed")
			c.record("deploy", env, req.Image.Tag, "", OutcomeAborted)
			return OutcomeAborted, nil
		}
	}

	step(ctx, c.deps.Log, machine, eventBegin)
	metrics.DeploymentsTotal.WithLabelValues(env).Inc()

	exec := c.deps.Live
	prev := model.RevisionPrevious
	if req.DryRun {
		exec = c.deps.Dry
	} else {
		// Snapshot strictly before any mutation so reversion stays
		// possible; a failed snapshot degrades to previous-revision
		// semantics rather than blocking the deploy.
		prev, _ = c.deps.Tracker.Snapshot(ctx, req.Target)
	}

	if _, err := exec.Execute(ctx, executor.Command{
		Args: []string{
			"set", "image", "deployment/" + req.Target.Workload,
			req.Target.Workload + "=" + image,
		},
	}); err != nil {
		c.deps.Log.Error("image update rejected by platform", err)
		c.record("deploy", env, req.Image.Tag, prev.String(), OutcomeFailed)
		return OutcomeFailed, err
	}

	timestamp := time.Now().UTC().Format(time.RFC3339)
	if _, err := exec.Execute(ctx, executor.Command{
		Args: []string{
			"annotate", "deployment", req.Target.Workload,
			annotationDeployedAt + "=" + timestamp,
			annotationImageTag + "=" + req.Image.Tag,
			annotationEnvironment + "=" + env,
			"--overwrite",
		},
	}); err != nil {
		c.deps.Log.Error("deploy metadata annotation rejected by platform", err)
		c.record("deploy", env, req.Image.Tag, prev.String(), OutcomeFailed)
		return OutcomeFailed, err
	}

	if req.DryRun {
		step(ctx, c.deps.Log, machine, eventSucceed)
		c.deps.Log.Info("[DRY RUN] skipping health check")
		return OutcomeDryRun, nil
	}

	step(ctx, c.deps.Log, machine, eventVerify)
	verdict := c.deps.Monitor.Await(ctx, req.Target, req.Timeout)
	if verdict.Outcome == model.Healthy {
		step(ctx, c.deps.Log, machine, eventSucceed)
		c.record("deploy", env, req.Image.Tag, prev.String(), OutcomeSucceeded)
		c.deps.Log.Info("deployment completed successfully",
			zap.String("image_tag", req.Image.Tag),
			zap.String("environment", env),
		)
		return OutcomeSucceeded, nil
	}

	c.deps.Log.Error("deployment failed health check, initiating automatic rollback",
		fmt.Errorf("health check %s after %d attempts", verdict.Outcome, verdict.Attempts),
	)
	metrics.DeploymentsFailed.WithLabelValues(env).Inc()
	step(ctx, c.deps.Log, machine, eventRevert)

	if err := c.deps.Reverter.Revert(ctx, model.RollbackRequest{Target: req.Target, Revision: prev}); err != nil {
		step(ctx, c.deps.Log, machine, eventFail)
		c.record("deploy", env, req.Image.Tag, prev.String(), OutcomeFatal)
		c.deps.Log.Error("rollback failed, manual intervention required", err)
		return OutcomeFatal, err
	}

	step(ctx, c.deps.Log, machine, eventRecover)
	c.record("deploy", env, req.Image.Tag, prev.String(), OutcomeRolledBack)
	c.deps.Log.Info("deployment rolled back to pre-deploy revision",
		zap.String("revision", prev.String()),
	)
	return OutcomeRolledBack, nil
}

// Rollback serves the explicit rollback subcommand.
func (c *Controller) Rollback(ctx context.Context, req model.RollbackRequest) (Outcome, error) {
	ctx, span := otel.Tracer("shipctl/orchestrator").Start(ctx, "rollback")
	defer span.End()

	if err := c.deps.Reverter.Revert(ctx, req); err != nil {
		c.record("rollback", req.Target.Environment, "", req.Revision.String(), OutcomeFatal)
		c.deps.Log.Error("rollback did not complete successfully, manual intervention required", err)
		return OutcomeFatal, err
	}
	c.record("rollback", req.Target.Environment, "", req.Revision.String(), OutcomeSucceeded)
	return OutcomeSucceeded, nil
}

func (c *Controller) record(command, env, tag, rev string, outcome Outcome) {
	if c.deps.Journal == nil {
		return
	}
	err := c.deps.Journal.Append(JournalEntry{
		RunID:       c.runID,
		Time:        time.Now().UTC(),
		Command:     command,
		Environment: env,
		ImageTag:    tag,
		Revision:    rev,
		Outcome:     string(outcome),
	})
	if err != nil {
		c.deps.Log.Warn("could not write journal entry", zap.Error(err))
	}
}
