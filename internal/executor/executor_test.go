package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vlt-io/shipctl/internal/logger"
)

func TestKubectlScopesCommandsToNamespace(t *testing.T) {
	// echo stands in for kubectl: it prints the argv it was given.
	// (echo eats the leading -n itself, the rest comes through.)
	k := NewKubectl("echo", "video-analytics", logger.NewNop())

	out, err := k.Execute(context.Background(), Command{
		Args: []string{"get", "deployment", "video-processor"},
	})
	require.NoError(t, err)
	assert.Equal(t, "video-analytics get deployment video-processor", out)
}

func TestKubectlSurfacesActionError(t *testing.T) {
	k := NewKubectl("false", "video-analytics", logger.NewNop())

	_, err := k.Execute(context.Background(), Command{Args: []string{"rollout", "undo"}})
	require.Error(t, err)

	var actionErr *ActionError
	require.True(t, errors.As(err, &actionErr))
	assert.Contains(t, actionErr.Command, "false -n video-analytics rollout undo")
}

func TestKubectlAllowFailureTolerates(t *testing.T) {
	k := NewKubectl("false", "video-analytics", logger.NewNop())

	out, err := k.Execute(context.Background(), Command{
		Args:         []string{"rollout", "status"},
		AllowFailure: true,
	})
	assert.NoError(t, err)
	assert.Empty(t, out)
}

func TestKubectlMissingBinaryFails(t *testing.T) {
	k := NewKubectl("definitely-not-a-binary-shipctl", "video-analytics", logger.NewNop())

	_, err := k.Execute(context.Background(), Command{Args: []string{"version"}})
	var actionErr *ActionError
	require.True(t, errors.As(err, &actionErr))
}

func TestDryRunNeverExecutes(t *testing.T) {
	// A binary that would fail loudly if it ever ran.
	d := NewDryRun("false", "video-analytics", logger.NewNop())

	out, err := d.Execute(context.Background(), Command{Args: []string{"set", "image", "deployment/video-processor", "video-processor=img:v1"}})
	require.NoError(t, err)
	assert.Equal(t, DryRunOutput, out)
}
