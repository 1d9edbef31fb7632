package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/lca-agent/knowledge"
	"github.com/SaiNageswarS/lca-agent/llm"
	"github.com/SaiNageswarS/lca-agent/memory"
	"github.com/SaiNageswarS/lca-agent/metrics"
	"github.com/SaiNageswarS/lca-agent/prompts"
	"go.uber.org/zap"
)

// RunTurn executes one full user turn without progress streaming.
func (e *Engine) RunTurn(ctx context.Context, req *TurnRequest) (*TurnResult, error) {
	return e.RunTurnWithReporter(ctx, &NoOpProgressReporter{}, req)
}

// RunTurnWithReporter executes one full user turn: validate the
// database, load or create the conversation, apply the request's
// settings, run the action loop and persist the updated context.
func (e *Engine) RunTurnWithReporter(ctx context.Context, reporter ProgressReporter, req *TurnRequest) (*TurnResult, error) {
	if req.DatabaseID == "" {
		return nil, &InvalidDatabaseError{Reason: "no database selected"}
	}
	if !e.config.Gateway.IsAvailable(ctx, req.DatabaseID) {
		return nil, &InvalidDatabaseError{DatabaseID: req.DatabaseID, Reason: "database unknown or its server is offline"}
	}

	if req.ConversationID != "" {
		mu := e.lockFor(req.ConversationID)
		mu.Lock()
		defer mu.Unlock()
	}

	conv, err := e.config.Store.GetOrCreate(ctx, req.ConversationID)
	if err != nil {
		return nil, err
	}

	conv.ApplyDatabaseSelection(req.DatabaseID, "user selection")
	conv.ApplyMethodSelection(req.MethodID, "user selection")
	conv.ApplyMode(req.Mode)
	conv.AddUserMessage(req.Message)

	systemPrompt, err := e.buildSystemPrompt(conv)
	if err != nil {
		return nil, err
	}

	st, err := e.runLoop(ctx, reporter, conv, systemPrompt)
	if err != nil {
		// The user message stays in the transcript so a retry of the
		// same turn reads naturally.
		if saveErr := e.config.Store.Save(ctx, conv); saveErr != nil {
			logger.Error("Failed to save conversation after model error", zap.Error(saveErr))
		}
		metrics.TurnsCompleted.WithLabelValues("aborted").Inc()
		return nil, err
	}

	if err := e.config.Store.Save(ctx, conv); err != nil {
		metrics.TurnsCompleted.WithLabelValues("aborted").Inc()
		return nil, err
	}

	metrics.TurnsCompleted.WithLabelValues(phaseLabel(st.Phase)).Inc()
	metrics.TurnIterations.Observe(float64(st.Iteration))
	_ = reporter.Send(newTurnEvent(StageTurnComplete, "turn complete", st.Iteration))

	return &TurnResult{
		ConversationID: conv.ID,
		ReplyText:      StripProtocolMarkup(st.ReplyText),
		Action:         st.LastAction,
		Context: TurnContext{
			DatabaseID:          conv.DatabaseID,
			MethodID:            conv.MethodID,
			MethodSelectionMode: conv.MethodSelectionMode,
			Mode:                conv.Mode,
		},
	}, nil
}

// runLoop is the per-turn action loop. Each pass calls the model once,
// parses at most one action from the reply, executes it and folds the
// outcome back into both the transcript and the loop state.
func (e *Engine) runLoop(ctx context.Context, reporter ProgressReporter, conv *memory.ConversationContext, systemPrompt string) (turnState, error) {
	st := turnState{Phase: PhaseRunning}

	for st.Phase == PhaseRunning {
		st.Iteration++
		_ = reporter.Send(newTurnEvent(StageModelCall, "thinking", st.Iteration))

		reply, err := e.callModel(ctx, conv.Messages, systemPrompt)
		if err != nil {
			return st, &UpstreamModelError{Err: err}
		}
		st.ReplyText = reply

		parsed := ParseAction(reply)
		if parsed.Outcome != ParsedAction {
			if parsed.Outcome == Malformed {
				logger.Info("Ignoring malformed action", zap.String("reason", parsed.Reason))
			}
			conv.AddAssistantMessage(reply)
			st.Phase = PhaseDone
			break
		}

		_ = reporter.Send(newTurnEvent(StageActionStarted, string(parsed.Directive.Kind), st.Iteration))
		result := e.executeAction(ctx, conv, parsed.Directive)
		_ = reporter.Send(newTurnEvent(StageActionDone, string(parsed.Directive.Kind), st.Iteration))

		conv.AddAssistantMessage(reply)
		conv.AddActionResult(foldResult(result))

		st = foldActionOutcome(st, parsed.Directive.Kind, result, e.config.MaxIterations, e.config.MaxEmptySearches)

		if st.Phase == PhaseForcedFailure {
			metrics.GuardTrips.Inc()
			_ = reporter.Send(newTurnEvent(StageGuardTripped, "consecutive empty searches", st.Iteration))

			message, failAction := e.buildForcedFailure(conv.DatabaseID, parsed.Directive.Query, st.EmptySearches)
			st.ReplyText = message
			st.LastAction = failAction
			conv.AddActionResult(foldResult(failAction))
			conv.AddAssistantMessage(message)
		}
	}

	return st, nil
}

// callModel performs one model call, streaming chunks into a single
// reply string.
func (e *Engine) callModel(ctx context.Context, messages []llm.Message, systemPrompt string) (string, error) {
	mctx, cancel := context.WithTimeout(ctx, e.config.ModelTimeout)
	defer cancel()

	metrics.ModelCalls.Inc()

	var sb strings.Builder
	err := e.config.Model.GenerateInference(mctx, messages,
		func(chunk string) error {
			sb.WriteString(chunk)
			return nil
		},
		llm.WithSystemPrompt(systemPrompt),
		llm.WithMaxTokens(e.config.MaxTokens),
	)
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// foldResult renders an action result as the transcript entry the
// model sees on its next iteration.
func foldResult(result *ActionResult) string {
	raw, err := json.Marshal(result)
	if err != nil {
		raw = []byte(fmt.Sprintf(`{"type": %q, "error": "unserializable result"}`, result.Kind))
	}
	return "[Action Results: " + string(raw) + "]"
}

// buildSystemPrompt assembles the mode-aware system prompt from the
// guidance documents and the conversation's current settings. It is
// rendered once per turn; loop iterations share it.
func (e *Engine) buildSystemPrompt(conv *memory.ConversationContext) (string, error) {
	databaseName := conv.DatabaseID
	var databaseContext string
	if databases, err := knowledge.Databases(); err == nil {
		if db, ok := databases[conv.DatabaseID]; ok {
			databaseName = db.Name
			databaseContext = describeDatabase(db)
		}
	}

	methodName, methodContext := e.methodContext(conv)

	return prompts.RenderSystemPrompt(conv.Mode, prompts.SystemPromptData{
		DatabaseName:        databaseName,
		DatabaseContext:     databaseContext,
		MethodContext:       methodContext,
		ConversationContext: prompts.RenderConversationContext(conv, databaseName, methodName),
		ActionProtocol:      RenderActionProtocol(),
	})
}

func describeDatabase(db knowledge.Database) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Strengths: %s.\n", strings.Join(db.Strengths, "; "))
	fmt.Fprintf(&sb, "Best for: %s.\n", strings.Join(db.BestFor, "; "))
	if len(db.Limitations) > 0 {
		fmt.Fprintf(&sb, "Limitations: %s.\n", strings.Join(db.Limitations, "; "))
	}
	return sb.String()
}

func (e *Engine) methodContext(conv *memory.ConversationContext) (string, string) {
	if conv.MethodID != nil {
		name := *conv.MethodID
		context := fmt.Sprintf("The user has manually selected impact method %q. Use it for every calculation this conversation unless they change it.", name)
		return name, context
	}

	name, err := knowledge.RecommendedMethodName(conv.DatabaseID)
	if err != nil {
		return "", ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Impact method selection is automatic; the recommended method for this database is %q.", name)
	if methods, err := knowledge.Methods(); err == nil {
		if m, ok := methods[name]; ok {
			fmt.Fprintf(&sb, " It is a %s method with %s focus, best for: %s.",
				m.Type, m.RegionalFocus, strings.Join(m.BestFor, "; "))
		}
	}
	return name, sb.String()
}

func phaseLabel(phase LoopPhase) string {
	switch phase {
	case PhaseForcedFailure:
		return "forced_failure"
	default:
		return "done"
	}
}
