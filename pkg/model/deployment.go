package model

import (
	"fmt"
	"time"
)

// Target is the environment/workload pair a single invocation operates on.
// It is selected once at invocation time and never changes afterwards.
type Target struct {
	Environment string `json:"environment"`
	Workload    string `json:"workload"`
	Namespace   string `json:"namespace"`
}

// Revision is the opaque, platform-assigned version identifier for a
// Target's deployed state. The platform keeps the history; we only
// carry the identifier around.
type Revision string

// RevisionPrevious asks the platform to pick the revision immediately
// before the current one.
const RevisionPrevious Revision = ""

func (r Revision) IsPrevious() bool {
	return r == RevisionPrevious
}

func (r Revision) String() string {
	if r.IsPrevious() {
		return "previous"
	}
	return string(r)
}

// ImageRef identifies the container image to roll out.
type ImageRef struct {
	Registry string `json:"registry"`
	Name     string `json:"name"`
	Tag      string `json:"tag"`
}

func (i ImageRef) String() string {
	return fmt.Sprintf("%s/%s:%s", i.Registry, i.Name, i.Tag)
}

// DeploymentRequest describes one deploy invocation. Immutable once built.
type DeploymentRequest struct {
	Target  Target
	Image   ImageRef
	Timeout time.Duration
	DryRun  bool
}

// RollbackRequest describes one reversion. An empty Revision means
// "previous revision".
type RollbackRequest struct {
	Target   Target
	Revision Revision
}

type HealthOutcome string

const (
	Healthy  HealthOutcome = "healthy"
	TimedOut HealthOutcome = "timed_out"
	Errored  HealthOutcome = "errored"
)

// HealthVerdict is the result of one bounded polling session against a
// Target's rollout progress.
type HealthVerdict struct {
	Outcome  HealthOutcome
	Attempts int
	// Ready holds the last observed "ready/total" replica counts, empty
	// if no replica query ever succeeded.
	Ready string
}
