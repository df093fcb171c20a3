package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vlt-io/shipctl/internal/executor"
	"github.com/vlt-io/shipctl/internal/logger"
	"github.com/vlt-io/shipctl/pkg/model"
)

var testTarget = model.Target{
	Environment: "staging",
	Workload:    "video-processor",
	Namespace:   "video-analytics",
}

// scriptedExecutor replays rollout-status responses attempt by attempt
// and counts what it was asked.
type scriptedExecutor struct {
	statuses    []string // per-attempt rollout status output; last entry repeats
	statusErr   error
	replicasErr error
	statusCalls int
}

func (s *scriptedExecutor) Execute(_ context.Context, cmd executor.Command) (string, error) {
	switch cmd.Args[0] {
	case "rollout":
		s.statusCalls++
		if s.statusErr != nil {
			return "", s.statusErr
		}
		i := s.statusCalls - 1
		if i >= len(s.statuses) {
			i = len(s.statuses) - 1
		}
		return s.statuses[i], nil
	case "get":
		if s.replicasErr != nil {
			return "", s.replicasErr
		}
		return "3/3", nil
	}
	return "", nil
}

func newTestMonitor(exec executor.Executor, interval time.Duration) *Monitor {
	return NewMonitor(exec, logger.NewNop(), Options{
		PollInterval:  interval,
		SuccessPhrase: "successfully rolled out",
	})
}

func TestAwaitZeroTimeoutMakesNoAttempts(t *testing.T) {
	for _, timeout := range []time.Duration{0, -1 * time.Second, -time.Hour} {
		exec := &scriptedExecutor{statuses: []string{"deployment \"video-processor\" successfully rolled out"}}
		m := newTestMonitor(exec, 10*time.Millisecond)

		v := m.Await(context.Background(), testTarget, timeout)

		assert.Equal(t, model.TimedOut, v.Outcome)
		assert.Zero(t, v.Attempts)
		assert.Zero(t, exec.statusCalls)
	}
}

func TestAwaitHealthyOnFirstAttempt(t *testing.T) {
	exec := &scriptedExecutor{statuses: []string{"deployment \"video-processor\" successfully rolled out"}}
	m := newTestMonitor(exec, 10*time.Millisecond)

	v := m.Await(context.Background(), testTarget, 5*time.Second)

	assert.Equal(t, model.Healthy, v.Outcome)
	assert.Equal(t, 1, v.Attempts)
	assert.Equal(t, "3/3", v.Ready)
}

func TestAwaitHealthyMidSession(t *testing.T) {
	exec := &scriptedExecutor{statuses: []string{
		"Waiting for deployment \"video-processor\" rollout to finish: 1 of 3 updated replicas are available...",
		"Waiting for deployment \"video-processor\" rollout to finish: 2 of 3 updated replicas are available...",
		"deployment \"video-processor\" successfully rolled out",
	}}
	m := newTestMonitor(exec, 5*time.Millisecond)

	v := m.Await(context.Background(), testTarget, 5*time.Second)

	assert.Equal(t, model.Healthy, v.Outcome)
	assert.Equal(t, 3, v.Attempts)
}

func TestAwaitTimesOutAfterExpectedAttempts(t *testing.T) {
	// interval 25, budget 50: attempts at t=0 and t=25, deadline at t=50.
	exec := &scriptedExecutor{statuses: []string{"Waiting for rollout to finish"}}
	m := newTestMonitor(exec, 25*time.Millisecond)

	v := m.Await(context.Background(), testTarget, 50*time.Millisecond)

	assert.Equal(t, model.TimedOut, v.Outcome)
	assert.Equal(t, 2, v.Attempts)
	assert.Equal(t, 2, exec.statusCalls)
}

func TestAwaitDegradedQueriesKeepPolling(t *testing.T) {
	exec := &scriptedExecutor{
		statusErr:   errors.New("connection refused"),
		replicasErr: errors.New("connection refused"),
	}
	m := newTestMonitor(exec, 10*time.Millisecond)

	v := m.Await(context.Background(), testTarget, 25*time.Millisecond)

	assert.Equal(t, model.TimedOut, v.Outcome)
	assert.NotZero(t, v.Attempts)
	assert.Empty(t, v.Ready)
}

func TestAwaitCancelledContextErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &scriptedExecutor{statuses: []string{"deployment \"video-processor\" successfully rolled out"}}
	m := newTestMonitor(exec, 10*time.Millisecond)

	v := m.Await(ctx, testTarget, 5*time.Second)

	assert.Equal(t, model.Errored, v.Outcome)
	assert.Zero(t, v.Attempts)
}
