package orchestrator

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vlt-io/shipctl/internal/logger"
)

func TestStatusIsReadOnly(t *testing.T) {
	exec := &recordingExecutor{}
	var out bytes.Buffer
	reporter := NewStatusReporter(exec, logger.NewNop(), &out)

	err := reporter.Report(context.Background(), testTarget("production"))
	require.NoError(t, err)

	assert.Empty(t, exec.mutations(), "status must never mutate the target")
	assert.NotEmpty(t, exec.commands)
}

func TestStatusPrintsAllSections(t *testing.T) {
	exec := &recordingExecutor{}
	var out bytes.Buffer
	reporter := NewStatusReporter(exec, logger.NewNop(), &out)

	require.NoError(t, reporter.Report(context.Background(), testTarget("staging")))

	text := out.String()
	for _, section := range []string{"deployment", "pods", "rollout history", "recent events"} {
		assert.Contains(t, text, "--- "+section+" ---")
	}
	// the YAML summary header always names the target
	assert.Contains(t, text, "environment: staging")
	assert.Contains(t, text, "workload: video-processor")

	var sawHistory, sawEvents bool
	for _, c := range exec.commands {
		line := strings.Join(c, " ")
		if strings.HasPrefix(line, "rollout history") {
			sawHistory = true
		}
		if strings.Contains(line, "involvedObject.name=video-processor") {
			sawEvents = true
		}
	}
	assert.True(t, sawHistory)
	assert.True(t, sawEvents)
}
