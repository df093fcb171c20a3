package orchestrator

import (
	"context"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/vlt-io/shipctl/internal/logger"
)

// Rollout states. The machine only ever moves forward: no state is
// revisited and rollback fires at most once per deployment attempt.
const (
	StateIdle           = "idle"
	StateUpdating       = "updating"
	StateAwaitingHealth = "awaiting_health"
	StateSucceeded      = "succeeded"
	StateRollingBack    = "rolling_back"
	StateRolledBack     = "rolled_back"
	StateFatal          = "fatal"
)

const (
	eventBegin   = "begin"
	eventVerify  = "verify"
	eventSucceed = "succeed"
	eventRevert  = "revert"
	eventRecover = "recover"
	eventFail    = "fail"
)

func newRolloutFSM(log *logger.Logger) *fsm.FSM {
	return fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: eventBegin, Src: []string{StateIdle}, Dst: StateUpdating},
			{Name: eventVerify, Src: []string{StateUpdating}, Dst: StateAwaitingHealth},
			// dry-run skips verification entirely
			{Name: eventSucceed, Src: []string{StateUpdating, StateAwaitingHealth}, Dst: StateSucceeded},
			{Name: eventRevert, Src: []string{StateAwaitingHealth}, Dst: StateRollingBack},
			{Name: eventRecover, Src: []string{StateRollingBack}, Dst: StateRolledBack},
			{Name: eventFail, Src: []string{StateRollingBack}, Dst: StateFatal},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				log.Info("rollout state transition",
					zap.String("from", e.Src),
					zap.String("to", e.Dst),
				)
			},
		},
	)
}

// step fires an event; an invalid transition is a programming error and
// is logged loudly rather than silently dropped.
func step(ctx context.Context, log *logger.Logger, machine *fsm.FSM, event string) {
	if err := machine.Event(ctx, event); err != nil {
		log.Error("invalid rollout state transition", err,
			zap.String("event", event),
			zap.String("state", machine.Current()),
		)
	}
}
