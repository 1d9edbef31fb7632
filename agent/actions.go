package agent

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/ollama/ollama/api"
)

// ActionSpecs declares the action vocabulary as standard tool schemas.
// Models that support native tool calling receive these directly; for
// everything else RenderActionProtocol turns the same schemas into the
// textual ACTION protocol embedded in the system prompt, so there is a
// single source of truth for names and parameters.
func ActionSpecs() []api.Tool {
	return []api.Tool{
		newActionSpec(ActionSearchProcesses,
			"Search the active database for unit processes matching a free-text query.",
			actionParam{"query", "string", "search terms, e.g. 'glass fibre'", true},
			actionParam{"limit", "integer", "maximum number of results (default 10)", false},
		),
		newActionSpec(ActionSearchProductSystems,
			"Search the active database for pre-built product systems matching a free-text query.",
			actionParam{"query", "string", "search terms, e.g. 'glass fibre'", true},
			actionParam{"limit", "integer", "maximum number of results (default 10)", false},
		),
		newActionSpec(ActionCalculateLCIA,
			"Run an impact assessment for a single process found via search_processes.",
			actionParam{"process_id", "string", "id of the process to assess", true},
			actionParam{"amount", "number", "reference amount, default 1.0", false},
			actionParam{"method_id", "string", "impact method id; omit to use the conversation's method", false},
		),
		newActionSpec(ActionCalculateLCIAPS,
			"Run an impact assessment for a product system found via search_product_systems.",
			actionParam{"product_system_id", "string", "id of the product system to assess", true},
			actionParam{"amount", "number", "reference amount, default 1.0", false},
			actionParam{"method_id", "string", "impact method id; omit to use the conversation's method", false},
		),
	}
}

type actionParam struct {
	name        string
	typ         string
	description string
	required    bool
}

func newActionSpec(kind ActionKind, description string, params ...actionParam) api.Tool {
	tool := api.Tool{
		Type: "function",
		Function: api.ToolFunction{
			Name:        string(kind),
			Description: description,
		},
	}
	tool.Function.Parameters.Type = "object"
	tool.Function.Parameters.Properties = make(map[string]api.ToolProperty, len(params))

	for _, p := range params {
		tool.Function.Parameters.Properties[p.name] = api.ToolProperty{
			Type:        api.PropertyType{p.typ},
			Description: p.description,
		}
		if p.required && !slices.Contains(tool.Function.Parameters.Required, p.name) {
			tool.Function.Parameters.Required = append(tool.Function.Parameters.Required, p.name)
		}
	}
	return tool
}

// RenderActionProtocol renders the textual action protocol given to
// models that emit actions inline as ACTION: {json} lines.
func RenderActionProtocol() string {
	var sb strings.Builder

	for _, tool := range ActionSpecs() {
		fmt.Fprintf(&sb, "- %s: %s\n", tool.Function.Name, tool.Function.Description)

		names := make([]string, 0, len(tool.Function.Parameters.Properties))
		for name := range tool.Function.Parameters.Properties {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			prop := tool.Function.Parameters.Properties[name]
			marker := "optional"
			if slices.Contains(tool.Function.Parameters.Required, name) {
				marker = "required"
			}
			fmt.Fprintf(&sb, "    %s (%s, %s): %s\n", name, propType(prop), marker, prop.Description)
		}
	}

	sb.WriteString("\nExamples:\n")
	sb.WriteString(`ACTION: {"type": "search_product_systems", "query": "glass fibre", "limit": 10}` + "\n")
	sb.WriteString(`ACTION: {"type": "search_processes", "query": "glass fibre", "limit": 10}` + "\n")
	sb.WriteString(`ACTION: {"type": "calculate_lcia_ps", "product_system_id": "abc-123", "amount": 1.0}` + "\n")
	sb.WriteString(`ACTION: {"type": "calculate_lcia", "process_id": "abc-123", "amount": 1.0}` + "\n")
	return sb.String()
}

func propType(p api.ToolProperty) string {
	if len(p.Type) == 0 {
		return "string"
	}
	return p.Type[0]
}
