package agent

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ParseOutcome distinguishes a reply that requests an action from one
// that does not, and from one that tried to but got the syntax wrong.
type ParseOutcome int

const (
	// ParsedAction means Directive holds a validated action request.
	ParsedAction ParseOutcome = iota
	// NoAction means the reply is plain conversational text.
	NoAction
	// Malformed means an ACTION marker was present but unusable. The
	// engine treats this the same as NoAction so a model typo yields a
	// conversational reply instead of a failed turn.
	Malformed
)

type ParseResult struct {
	Outcome   ParseOutcome
	Directive *ActionDirective
	Reason    string
}

var actionPattern = regexp.MustCompile(`ACTION:\s*(\{[^}]+\})`)

type actionPayload struct {
	Type            string   `json:"type"`
	Query           string   `json:"query"`
	Limit           int      `json:"limit"`
	ProcessID       string   `json:"process_id"`
	ProductSystemID string   `json:"product_system_id"`
	Amount          *float64 `json:"amount"`
	MethodID        string   `json:"method_id"`
}

// ParseAction extracts and validates the first ACTION directive in a
// model reply. Only flat JSON objects are recognized; nested braces do
// not occur in the action vocabulary.
func ParseAction(reply string) ParseResult {
	if !strings.Contains(reply, "ACTION:") {
		return ParseResult{Outcome: NoAction}
	}

	match := actionPattern.FindStringSubmatch(reply)
	if match == nil {
		return ParseResult{Outcome: Malformed, Reason: "ACTION marker without a JSON object"}
	}

	var payload actionPayload
	if err := json.Unmarshal([]byte(match[1]), &payload); err != nil {
		return ParseResult{Outcome: Malformed, Reason: "invalid JSON in action: " + err.Error()}
	}

	directive := &ActionDirective{
		Kind:            ActionKind(payload.Type),
		Query:           strings.TrimSpace(payload.Query),
		Limit:           payload.Limit,
		ProcessID:       payload.ProcessID,
		ProductSystemID: payload.ProductSystemID,
		Amount:          1.0,
		MethodID:        payload.MethodID,
	}
	if payload.Amount != nil {
		directive.Amount = *payload.Amount
	}
	if directive.Limit <= 0 {
		directive.Limit = 10
	}

	switch directive.Kind {
	case ActionSearchProcesses, ActionSearchProductSystems:
		if directive.Query == "" {
			return ParseResult{Outcome: Malformed, Reason: "search action without a query"}
		}
	case ActionCalculateLCIA:
		if directive.ProcessID == "" {
			return ParseResult{Outcome: Malformed, Reason: "calculate_lcia without a process_id"}
		}
	case ActionCalculateLCIAPS:
		if directive.ProductSystemID == "" {
			return ParseResult{Outcome: Malformed, Reason: "calculate_lcia_ps without a product_system_id"}
		}
	default:
		return ParseResult{Outcome: Malformed, Reason: "unrecognized action type " + payload.Type}
	}

	return ParseResult{Outcome: ParsedAction, Directive: directive}
}
