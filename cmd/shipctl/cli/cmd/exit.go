package cmd

import (
	"fmt"

	"github.com/vlt-io/shipctl/internal/orchestrator"
)

// exitError carries a specific process exit code through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit code %d", e.code)
}

func (e *exitError) Unwrap() error {
	return e.err
}

// finish maps a terminal outcome and error onto the process exit code.
// Outcomes that exit 0 with no error are simply done.
func finish(outcome orchestrator.Outcome, err error) error {
	code := outcome.ExitCode()
	if code == 0 && err == nil {
		return nil
	}
	if code == 0 {
		code = 1
	}
	return &exitError{code: code, err: err}
}
