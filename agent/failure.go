package agent

import (
	"fmt"
	"strings"

	"github.com/SaiNageswarS/lca-agent/knowledge"
)

// buildForcedFailure constructs the honest-failure reply and the
// search_failed action emitted when the hallucination guard trips. The
// message names what was searched, states plainly that nothing was
// found, describes what the current database is actually good at, and
// offers alternatives instead of letting the model improvise numbers.
func (e *Engine) buildForcedFailure(databaseID, query string, attempts int) (string, *ActionResult) {
	databaseName := databaseID
	var strengths []string
	if databases, err := knowledge.Databases(); err == nil {
		if db, ok := databases[databaseID]; ok {
			databaseName = db.Name
			strengths = db.Strengths
		}
	}

	suggestions := e.config.Scorer.Suggest(query, databaseID)

	var sb strings.Builder
	fmt.Fprintf(&sb, "I searched for '%s' in the %s database %d times but could not find any matching data.\n",
		query, databaseName, attempts)

	if len(strengths) > 0 {
		fmt.Fprintf(&sb, "\n**%s is strongest for:** %s.\n", databaseName, strings.Join(strengths, "; "))
	}

	if len(suggestions) > 0 {
		sb.WriteString("\n**You could try instead:**\n")
		for _, s := range suggestions {
			fmt.Fprintf(&sb, "- %s (`%s`): %s\n", s.Name, s.DatabaseID, s.Reason)
		}
	}

	sb.WriteString("\nWould you like to rephrase the search, or switch to one of these databases?")

	message := sb.String()
	action := &ActionResult{
		Kind:        ActionSearchFailed,
		Query:       query,
		DatabaseID:  databaseID,
		Attempts:    attempts,
		Suggestions: suggestions,
		Error:       fmt.Sprintf("no results for %q after %d searches", query, attempts),
	}
	return message, action
}
