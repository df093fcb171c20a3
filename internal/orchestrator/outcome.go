package orchestrator

// Outcome is the terminal result of one invocation, as reported to the
// operator and mapped onto the process exit code.
type Outcome string

const (
	// OutcomeSucceeded: the rollout completed and passed its health check.
	OutcomeSucceeded Outcome = "succeeded"
	// OutcomeDryRun: commands were printed, nothing was mutated.
	OutcomeDryRun Outcome = "dry-run"
	// OutcomeAborted: the operator declined the confirmation prompt.
	OutcomeAborted Outcome = "aborted"
	// OutcomeFailed: the initial update itself was rejected by the platform.
	OutcomeFailed Outcome = "failed"
	// OutcomeRolledBack: the health check failed and the automatic
	// rollback restored a healthy prior revision.
	OutcomeRolledBack Outcome = "rolled-back"
	// OutcomeFatal: rollback itself failed; manual intervention required.
	OutcomeFatal Outcome = "fatal"
)

func (o Outcome) ExitCode() int {
	switch o {
	case OutcomeSucceeded, OutcomeDryRun, OutcomeAborted:
		return 0
	case OutcomeFatal:
		return 2
	default:
		return 1
	}
}
