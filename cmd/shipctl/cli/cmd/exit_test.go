package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vlt-io/shipctl/internal/orchestrator"
)

func TestFinishExitCodeMapping(t *testing.T) {
	assert.NoError(t, finish(orchestrator.OutcomeSucceeded, nil))
	assert.NoError(t, finish(orchestrator.OutcomeDryRun, nil))
	assert.NoError(t, finish(orchestrator.OutcomeAborted, nil))

	tests := []struct {
		outcome  orchestrator.Outcome
		err      error
		wantCode int
	}{
		{orchestrator.OutcomeRolledBack, nil, 1},
		{orchestrator.OutcomeFailed, errors.New("set image rejected"), 1},
		{orchestrator.OutcomeFatal, errors.New("undo rejected"), 2},
		{orchestrator.OutcomeSucceeded, errors.New("confirmation prompt failed"), 1},
	}
	for _, tc := range tests {
		err := finish(tc.outcome, tc.err)
		var exitErr *exitError
		require.True(t, errors.As(err, &exitErr), "outcome %s", tc.outcome)
		assert.Equal(t, tc.wantCode, exitErr.code, "outcome %s", tc.outcome)
	}
}
