package agent

import (
	"sort"
	"strings"

	"github.com/SaiNageswarS/lca-agent/knowledge"
)

const maxSuggestions = 3

// SuggestionScorer ranks alternative databases for a query the current
// database could not answer.
type SuggestionScorer interface {
	Suggest(query, currentDatabaseID string) []Suggestion
}

// KeywordScorer classifies the query into product domains via the
// keyword table in the database guidance, then suggests databases
// tagged with a matching domain. When the query matches no domain it
// falls back to the current database's declared alternatives.
type KeywordScorer struct{}

func (KeywordScorer) Suggest(query, currentDatabaseID string) []Suggestion {
	databases, err := knowledge.Databases()
	if err != nil {
		return nil
	}
	keywords, err := knowledge.DomainKeywords()
	if err != nil {
		return nil
	}

	q := strings.ToLower(query)
	matched := map[string]bool{}
	for domain, terms := range keywords {
		for _, term := range terms {
			if strings.Contains(q, term) {
				matched[domain] = true
				break
			}
		}
	}

	var suggestions []Suggestion
	for id, db := range databases {
		if id == currentDatabaseID {
			continue
		}
		for _, domain := range db.Domains {
			if matched[domain] {
				suggestions = append(suggestions, Suggestion{
					DatabaseID: id,
					Name:       db.Name,
					Reason:     "covers " + domain + " products",
				})
				break
			}
		}
	}

	if len(suggestions) == 0 {
		if current, ok := databases[currentDatabaseID]; ok {
			for _, id := range current.Alternatives {
				alt, ok := databases[id]
				if !ok {
					continue
				}
				suggestions = append(suggestions, Suggestion{
					DatabaseID: id,
					Name:       alt.Name,
					Reason:     "listed as an alternative to " + current.Name,
				})
			}
		}
	}

	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].DatabaseID < suggestions[j].DatabaseID
	})
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}
