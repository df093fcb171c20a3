// Package revision captures the platform revision active before a
// change, so a failed deploy can always be pointed back at it.
package revision

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/vlt-io/shipctl/internal/executor"
	"github.com/vlt-io/shipctl/internal/logger"
	"github.com/vlt-io/shipctl/pkg/model"
)

const revisionAnnotationPath = `{.metadata.annotations.deployment\.kubernetes\.io/revision}`

type Tracker struct {
	exec executor.Executor
	log  *logger.Logger
}

func NewTracker(exec executor.Executor, log *logger.Logger) *Tracker {
	return &Tracker{exec: exec, log: log}
}

// Snapshot records the current revision of the target. Best-effort: a
// failed or empty query returns the previous-revision sentinel and
// ok=false, so the caller can proceed with degraded rollback semantics
// instead of aborting.
func (t *Tracker) Snapshot(ctx context.Context, target model.Target) (model.Revision, bool) {
	out, err := t.exec.Execute(ctx, executor.Command{
		Args: []string{
			"rollout", "history", "deployment/" + target.Workload,
			"--output=jsonpath=" + revisionAnnotationPath,
		},
	})
	rev := strings.TrimSpace(out)
	if err != nil || rev == "" {
		t.log.Warn("could not capture current revision, automatic rollback will use previous-revision semantics",
			zap.String("environment", target.Environment),
			zap.Error(err),
		)
		return model.RevisionPrevious, false
	}

	t.log.Info("captured pre-deploy revision",
		zap.String("environment", target.Environment),
		zap.String("revision", rev),
	)
	return model.Revision(rev), true
}
