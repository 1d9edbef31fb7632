package agent

import "time"

// Stage labels a point in the turn lifecycle for progress streaming.
type Stage string

const (
	StageModelCall     Stage = "model_call"
	StageActionStarted Stage = "action_started"
	StageActionDone    Stage = "action_done"
	StageGuardTripped  Stage = "guard_tripped"
	StageTurnComplete  Stage = "turn_complete"
)

// TurnEvent is one progress update emitted while a turn runs.
type TurnEvent struct {
	Stage     Stage  `json:"stage"`
	Message   string `json:"message"`
	Iteration int    `json:"iteration"`
	Timestamp int64  `json:"timestamp"`
}

// ProgressReporter is an interface for reporting turn execution progress
type ProgressReporter interface {
	// Send sends a progress update
	Send(event *TurnEvent) error
}

// NoOpProgressReporter implements ProgressReporter with no-op operations
type NoOpProgressReporter struct{}

// Send does nothing
func (r *NoOpProgressReporter) Send(event *TurnEvent) error {
	return nil
}

// FuncProgressReporter adapts a callback into a ProgressReporter so
// callers can stream events over their own transport.
type FuncProgressReporter struct {
	Fn func(event *TurnEvent) error
}

// Send forwards the event to the callback.
func (r *FuncProgressReporter) Send(event *TurnEvent) error {
	if r.Fn == nil {
		return nil
	}
	return r.Fn(event)
}

func newTurnEvent(stage Stage, message string, iteration int) *TurnEvent {
	return &TurnEvent{
		Stage:     stage,
		Message:   message,
		Iteration: iteration,
		Timestamp: time.Now().UnixMilli(),
	}
}
