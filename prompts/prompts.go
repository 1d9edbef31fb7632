package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/SaiNageswarS/lca-agent/memory"
)

//go:embed templates/*
var templatesFS embed.FS

// SystemPromptData feeds the per-turn system prompt template. The prompt is
// built once per turn and does not change between loop iterations.
type SystemPromptData struct {
	DatabaseName        string
	DatabaseContext     string
	MethodContext       string
	ConversationContext string
	ActionProtocol      string
	BiasRules           []string
	GuardRules          []string
}

// RenderSystemPrompt renders the mode-aware system prompt from the embedded
// template.
func RenderSystemPrompt(mode memory.Mode, data SystemPromptData) (string, error) {
	if len(data.BiasRules) == 0 {
		data.BiasRules = BiasRules(mode)
	}
	data.GuardRules = GuardRules()

	templateContent, err := templatesFS.ReadFile("templates/system_prompt.md")
	if err != nil {
		return "", err
	}

	tmpl, err := template.New("system_prompt").Parse(string(templateContent))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// RenderConversationContext turns the context's selections and change
// histories into the markdown block injected into the system prompt.
func RenderConversationContext(conv *memory.ConversationContext, databaseName, methodName string) string {
	var b strings.Builder

	b.WriteString("# Conversation Context\n\n")
	if databaseName == "" {
		databaseName = conv.DatabaseID
	}
	b.WriteString(fmt.Sprintf("**Database**: %s\n", databaseName))

	if conv.MethodID != nil {
		if methodName == "" {
			methodName = *conv.MethodID
		}
		b.WriteString(fmt.Sprintf("**Impact Method**: %s (user-selected)\n", methodName))
		b.WriteString("\nThe user has manually selected this method. Use it for every calculation; you may explain why another method could be relevant, but do not switch unless the user explicitly asks.\n")
	} else {
		b.WriteString("**Impact Method**: Auto (you may choose)\n")
		b.WriteString("\nMethod selection is automatic. Recommend and use the most appropriate method for each calculation.\n")
	}

	if len(conv.DatabaseHistory) > 0 {
		b.WriteString("\n## Database Change History\n")
		for _, change := range conv.DatabaseHistory {
			b.WriteString(fmt.Sprintf("- Switched from %s to %s: %s\n", change.From, change.To, change.Reason))
		}
	}

	if len(conv.MethodHistory) > 0 {
		b.WriteString("\n## Method Change History\n")
		for _, change := range conv.MethodHistory {
			b.WriteString(fmt.Sprintf("- Changed to %s (%s): %s\n", methodDisplay(change.To), change.To.Mode, change.Reason))
		}
	}

	return b.String()
}

func methodDisplay(sel memory.MethodSelection) string {
	if sel.ID == nil {
		return "Auto"
	}
	return *sel.ID
}
