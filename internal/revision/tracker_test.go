package revision

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vlt-io/shipctl/internal/executor"
	"github.com/vlt-io/shipctl/internal/logger"
	"github.com/vlt-io/shipctl/pkg/model"
)

type stubExecutor struct {
	out string
	err error
}

func (s *stubExecutor) Execute(context.Context, executor.Command) (string, error) {
	return s.out, s.err
}

var target = model.Target{Environment: "staging", Workload: "video-processor", Namespace: "video-analytics"}

func TestSnapshotCapturesRevision(t *testing.T) {
	tr := NewTracker(&stubExecutor{out: "7\n"}, logger.NewNop())

	rev, ok := tr.Snapshot(context.Background(), target)

	assert.True(t, ok)
	assert.Equal(t, model.Revision("7"), rev)
	assert.False(t, rev.IsPrevious())
}

func TestSnapshotDegradesOnQueryFailure(t *testing.T) {
	tr := NewTracker(&stubExecutor{err: errors.New("connection refused")}, logger.NewNop())

	rev, ok := tr.Snapshot(context.Background(), target)

	assert.False(t, ok)
	assert.True(t, rev.IsPrevious())
}

func TestSnapshotDegradesOnEmptyOutput(t *testing.T) {
	tr := NewTracker(&stubExecutor{out: "  "}, logger.NewNop())

	rev, ok := tr.Snapshot(context.Background(), target)

	assert.False(t, ok)
	assert.True(t, rev.IsPrevious())
}
