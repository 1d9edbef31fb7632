package prompts

import (
	"github.com/SaiNageswarS/lca-agent/memory"
)

// ModeConfig carries the behavioral bias of one interaction mode. Only the
// bias differs between modes; the hallucination-guard rules are shared and
// rendered from a single slice so the modes cannot silently diverge.
type ModeConfig struct {
	BiasRules []string
}

var modeConfigs = map[memory.Mode]ModeConfig{
	memory.ModeAuto: {
		BiasRules: []string{
			"When a search returns exactly one candidate, proceed with it without asking.",
			"When a search returns several candidates, pick the most relevant one and say which you picked.",
			"Extract amounts and units from the user's message yourself (\"2kg glass fiber\" means amount 2.0); do not ask for confirmation.",
			"Minimize clarifying questions; ask only when the request is genuinely ambiguous.",
		},
	},
	memory.ModeInteractive: {
		BiasRules: []string{
			"When a search returns more than one candidate, present a numbered list and ask the user to choose.",
			"Restate any amount or unit you extracted from the user's message and confirm it before acting on it.",
			"Explain the rationale whenever you recommend an impact method or a database switch.",
		},
	},
}

// guardRules is the shared anti-hallucination rule set. Both modes include it
// verbatim; mode never weakens the guard.
var guardRules = []string{
	"Never state a numeric result without having executed a successful calculation action in this turn.",
	"After two consecutive empty searches, admit failure rather than guessing.",
	"Never describe calculation results in the same message as the ACTION that requests them.",
	"Only mention numbers that appear in [Action Results: ...] entries of the conversation.",
	"Issue at most one ACTION per message, and distinguish \"I am searching\" from \"I calculated\" from \"results show\".",
}

// BiasRules returns the bias rule set for a mode, defaulting to auto for
// unknown modes.
func BiasRules(mode memory.Mode) []string {
	if cfg, ok := modeConfigs[mode]; ok {
		return cfg.BiasRules
	}
	return modeConfigs[memory.ModeAuto].BiasRules
}

// GuardRules returns the shared hallucination-guard rules.
func GuardRules() []string {
	return guardRules
}
