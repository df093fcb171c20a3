package orchestrator

import (
	"fmt"

	"github.com/vlt-io/shipctl/pkg/model"
)

// RevertError means a reversion could not be applied or did not come
// back healthy. This is terminal: nothing retries past it.
type RevertError struct {
	Target   model.Target
	Revision model.Revision
	Err      error
}

func (e *RevertError) Error() string {
	return fmt.Sprintf("rollback of %s in %s to revision %s failed: %v",
		e.Target.Workload, e.Target.Environment, e.Revision, e.Err)
}

func (e *RevertError) Unwrap() error {
	return e.Err
}
