package agent

// LoopPhase is the state of one turn's action loop.
type LoopPhase int

const (
	// PhaseRunning means the loop will call the model again.
	PhaseRunning LoopPhase = iota
	// PhaseDone means the turn ended normally: the model answered
	// without an action, a calculation succeeded, or the iteration
	// bound was reached.
	PhaseDone
	// PhaseForcedFailure means the hallucination guard tripped and the
	// engine replaced the model's reply with an honest failure message.
	PhaseForcedFailure
)

type turnState struct {
	Phase         LoopPhase
	Iteration     int
	EmptySearches int
	ReplyText     string
	LastAction    *ActionResult
}

// foldActionOutcome advances the loop state after one executed action.
// st.Iteration counts model calls and is advanced by the loop before
// the call; the fold only reads it. It is pure so the guard arithmetic
// can be tested without a model or a gateway.
//
// A search that errors or returns nothing counts against the empty
// search budget; a search with results resets it. The guard check runs
// before the iteration bound so two consecutive dead ends force an
// honest failure even on the final iteration. A successful calculation
// ends the turn: the result the user asked for exists, and letting the
// model keep acting past it invites restatement drift.
func foldActionOutcome(st turnState, kind ActionKind, result *ActionResult, maxIterations, maxEmptySearches int) turnState {
	st.LastAction = result

	switch kind {
	case ActionSearchProcesses, ActionSearchProductSystems:
		if result.Error == "" && len(result.Results) > 0 {
			st.EmptySearches = 0
		} else {
			st.EmptySearches++
		}
	case ActionCalculateLCIA, ActionCalculateLCIAPS:
		if result.Error == "" {
			st.Phase = PhaseDone
			return st
		}
	}

	if st.EmptySearches >= maxEmptySearches {
		st.Phase = PhaseForcedFailure
		return st
	}

	if st.Iteration >= maxIterations {
		st.Phase = PhaseDone
	}
	return st
}
