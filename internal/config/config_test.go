package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shipctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
namespace: analytics-eu
workload: frame-indexer
health:
  poll_interval_seconds: 5
  deploy_timeout_seconds: 120
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "analytics-eu", cfg.Namespace)
	assert.Equal(t, "frame-indexer", cfg.Workload)
	assert.Equal(t, 5*time.Second, cfg.Health.PollInterval())
	assert.Equal(t, 120*time.Second, cfg.Health.DeployTimeout())
	// untouched fields keep their defaults
	assert.Equal(t, "successfully rolled out", cfg.Health.SuccessPhrase)
	assert.Equal(t, 180*time.Second, cfg.Health.RollbackTimeout())
	assert.Equal(t, "kubectl", cfg.KubectlBin)
}

func TestLoadRejectsBrokenConfig(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"empty namespace", "namespace: \"\""},
		{"no environments", "environments: []"},
		{"zero poll interval", "health:\n  poll_interval_seconds: 0"},
		{"empty success phrase", "health:\n  success_phrase: \"\""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.contents))
			assert.Error(t, err)
		})
	}
}

func TestEnvironmentLookup(t *testing.T) {
	cfg := Default()

	staging, err := cfg.Environment("staging")
	require.NoError(t, err)
	assert.False(t, staging.Sensitive)

	prod, err := cfg.Environment("production")
	require.NoError(t, err)
	assert.True(t, prod.Sensitive)

	_, err = cfg.Environment("qa")
	assert.ErrorContains(t, err, "unknown environment")
}

func TestTargetAndImageRef(t *testing.T) {
	cfg := Default()

	target := cfg.Target("staging")
	assert.Equal(t, "staging", target.Environment)
	assert.Equal(t, "video-processor", target.Workload)
	assert.Equal(t, "video-analytics", target.Namespace)

	ref := cfg.ImageRef("v1.4.2")
	assert.Equal(t, "123456789012.dkr.ecr.us-east-1.amazonaws.com/video-processor:v1.4.2", ref.String())
}
