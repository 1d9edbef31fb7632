package agent

import (
	"github.com/SaiNageswarS/lca-agent/gateway"
	"github.com/SaiNageswarS/lca-agent/memory"
)

// ActionKind names the machine-readable actions the model may request
// in its reply. search_failed is never requested by the model; the
// engine emits it when the hallucination guard trips.
type ActionKind string

const (
	ActionSearchProcesses      ActionKind = "search_processes"
	ActionSearchProductSystems ActionKind = "search_product_systems"
	ActionCalculateLCIA        ActionKind = "calculate_lcia"
	ActionCalculateLCIAPS      ActionKind = "calculate_lcia_ps"
	ActionSearchFailed         ActionKind = "search_failed"
)

// ActionDirective is a validated action request parsed from a model reply.
type ActionDirective struct {
	Kind            ActionKind
	Query           string
	Limit           int
	ProcessID       string
	ProductSystemID string
	Amount          float64
	MethodID        string
}

// ActionResult is the outcome of executing one directive against the
// data gateway. It is folded into the conversation transcript verbatim
// so the model can reason over it on the next iteration, and the final
// result of the turn carries the last one produced.
type ActionResult struct {
	Kind         ActionKind                 `json:"type"`
	Query        string                     `json:"query,omitempty"`
	DatabaseID   string                     `json:"database,omitempty"`
	Results      []gateway.Ref              `json:"results,omitempty"`
	EmptyResults bool                       `json:"empty_results,omitempty"`
	Calculation  *gateway.CalculationResult `json:"calculation,omitempty"`
	Attempts     int                        `json:"attempts,omitempty"`
	Suggestions  []Suggestion               `json:"suggestions,omitempty"`
	Error        string                     `json:"error,omitempty"`
}

// Suggestion points the user at an alternative database likely to
// cover what the current one could not.
type Suggestion struct {
	DatabaseID string `json:"database_id"`
	Name       string `json:"name"`
	Reason     string `json:"reason"`
}

// TurnRequest carries one user turn into the engine. An empty
// ConversationID starts a new conversation. MethodID nil means
// automatic method selection; non-nil pins the method manually.
type TurnRequest struct {
	ConversationID string
	Message        string
	DatabaseID     string
	MethodID       *string
	Mode           memory.Mode
}

// TurnContext is the post-turn snapshot of the conversation settings.
type TurnContext struct {
	DatabaseID          string
	MethodID            *string
	MethodSelectionMode memory.SelectionMode
	Mode                memory.Mode
}

// TurnResult is what a completed turn hands back to the caller.
// ReplyText has all protocol markup stripped; Action is the last
// action executed during the turn, or nil if none ran.
type TurnResult struct {
	ConversationID string
	ReplyText      string
	Action         *ActionResult
	Context        TurnContext
}
