// Package health polls the platform for rollout progress and turns the
// result into a single verdict.
package health

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vlt-io/shipctl/internal/executor"
	"github.com/vlt-io/shipctl/internal/logger"
	"github.com/vlt-io/shipctl/internal/metrics"
	"github.com/vlt-io/shipctl/pkg/model"
)

// Options tune one Monitor instance. Everything here used to be a
// module-level constant; it is injected so independent monitors can
// watch different platforms.
type Options struct {
	// PollInterval is the blocking wait between attempts.
	PollInterval time.Duration
	// QueryTimeout bounds each individual platform query. It is capped
	// at PollInterval so a slow query can never push an attempt past
	// the deadline by more than one interval.
	QueryTimeout time.Duration
	// SuccessPhrase is the platform's canonical "rollout done" sentence.
	// Healthy is declared the instant the rollout-status output contains
	// it; replica counts are observational only, since they can be
	// transiently equal mid-rollout.
	SuccessPhrase string
}

type Monitor struct {
	exec executor.Executor
	log  *logger.Logger
	opts Options
}

func NewMonitor(exec executor.Executor, log *logger.Logger, opts Options) *Monitor {
	if opts.QueryTimeout <= 0 || opts.QueryTimeout > opts.PollInterval {
		opts.QueryTimeout = opts.PollInterval
	}
	return &Monitor{exec: exec, log: log, opts: opts}
}

// Await polls until the rollout reports success, the deadline passes,
// or the context is cancelled. A timeout of zero or less performs no
// attempts at all.
func (m *Monitor) Await(ctx context.Context, target model.Target, timeout time.Duration) model.HealthVerdict {
	m.log.Info("running health check",
		zap.String("environment", target.Environment),
		zap.String("workload", target.Workload),
		zap.Duration("timeout", timeout),
	)

	started := time.Now()
	deadline := started.Add(timeout)
	defer func() {
		metrics.HealthCheckDuration.WithLabelValues(target.Environment).Observe(time.Since(started).Seconds())
	}()

	verdict := model.HealthVerdict{Outcome: model.TimedOut}
	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			m.log.Warn("health check cancelled", zap.Int("attempts", verdict.Attempts))
			verdict.Outcome = model.Errored
			return verdict
		}

		verdict.Attempts++
		metrics.HealthCheckAttempts.WithLabelValues(target.Environment).Inc()

		status, statusOK := m.queryRolloutStatus(ctx, target, verdict.Attempts)
		ready, readyOK := m.queryReadyReplicas(ctx, target, verdict.Attempts)
		if readyOK {
			verdict.Ready = ready
		}

		m.log.Info("health check attempt",
			zap.Int("attempt", verdict.Attempts),
			zap.String("ready", verdict.Ready),
			zap.String("status", status),
		)

		if statusOK && strings.Contains(status, m.opts.SuccessPhrase) {
			m.log.Info("health check passed, rollout is healthy",
				zap.Int("attempts", verdict.Attempts),
			)
			verdict.Outcome = model.Healthy
			return verdict
		}

		m.sleep(ctx)
	}

	m.log.Warn("health check timed out",
		zap.Duration("timeout", timeout),
		zap.Int("attempts", verdict.Attempts),
	)
	return verdict
}

// queryRolloutStatus asks the platform for its own verdict on the
// rollout. Best-effort: a failure degrades the attempt, never aborts
// the loop.
func (m *Monitor) queryRolloutStatus(ctx context.Context, target model.Target, attempt int) (string, bool) {
	qctx, cancel := context.WithTimeout(ctx, m.opts.QueryTimeout)
	defer cancel()

	out, err := m.exec.Execute(qctx, executor.Command{
		Args: []string{
			"rollout", "status", "deployment/" + target.Workload,
			fmt.Sprintf("--timeout=%ds", int(m.opts.QueryTimeout.Seconds())),
		},
	})
	if err != nil {
		m.log.Warn("rollout status query degraded",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		return "", false
	}
	return out, true
}

func (m *Monitor) queryReadyReplicas(ctx context.Context, target model.Target, attempt int) (string, bool) {
	qctx, cancel := context.WithTimeout(ctx, m.opts.QueryTimeout)
	defer cancel()

	out, err := m.exec.Execute(qctx, executor.Command{
		Args: []string{
			"get", "deployment", target.Workload,
			"-o", "jsonpath={.status.readyReplicas}/{.status.replicas}",
		},
	})
	if err != nil {
		m.log.Warn("replica count query degraded",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		return "", false
	}
	return out, true
}

func (m *Monitor) sleep(ctx context.Context) {
	t := time.NewTimer(m.opts.PollInterval)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
