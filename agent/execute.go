package agent

import (
	"context"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/lca-agent/gateway"
	"github.com/SaiNageswarS/lca-agent/knowledge"
	"github.com/SaiNageswarS/lca-agent/memory"
	"github.com/SaiNageswarS/lca-agent/metrics"
	"go.uber.org/zap"
)

// executeAction runs one directive against the gateway. It never
// returns an error: gateway failures are embedded in the result so the
// loop can fold them into the transcript and let the model recover.
func (e *Engine) executeAction(ctx context.Context, conv *memory.ConversationContext, d *ActionDirective) *ActionResult {
	gctx, cancel := context.WithTimeout(ctx, e.config.GatewayTimeout)
	defer cancel()

	result := &ActionResult{Kind: d.Kind, Query: d.Query, DatabaseID: conv.DatabaseID}

	switch d.Kind {
	case ActionSearchProcesses:
		refs, err := e.config.Gateway.SearchProcesses(gctx, conv.DatabaseID, d.Query, d.Limit)
		e.fillSearchResult(result, refs, err)

	case ActionSearchProductSystems:
		refs, err := e.config.Gateway.SearchProductSystems(gctx, conv.DatabaseID, d.Query, d.Limit)
		e.fillSearchResult(result, refs, err)

	case ActionCalculateLCIA:
		e.runCalculation(gctx, conv, result, gateway.TargetProcess, d.ProcessID, d)

	case ActionCalculateLCIAPS:
		e.runCalculation(gctx, conv, result, gateway.TargetProductSystem, d.ProductSystemID, d)
	}

	if result.Error != "" {
		metrics.GatewayErrors.WithLabelValues(string(d.Kind)).Inc()
		logger.Error("Action failed",
			zap.String("action", string(d.Kind)),
			zap.String("database", conv.DatabaseID),
			zap.String("error", result.Error))
	}
	return result
}

func (e *Engine) fillSearchResult(result *ActionResult, refs []gateway.Ref, err error) {
	if err != nil {
		result.Error = err.Error()
		return
	}
	result.Results = refs
	result.EmptyResults = len(refs) == 0
}

func (e *Engine) runCalculation(ctx context.Context, conv *memory.ConversationContext, result *ActionResult, target gateway.TargetKind, targetID string, d *ActionDirective) {
	methodID, err := e.resolveMethodID(ctx, conv, d.MethodID)
	if err != nil {
		result.Error = err.Error()
		return
	}

	calc, err := e.config.Gateway.Calculate(ctx, conv.DatabaseID, target, targetID, d.Amount, methodID)
	if err != nil {
		result.Error = err.Error()
		return
	}
	result.Calculation = calc
}

// resolveMethodID picks the impact method for a calculation. An id in
// the action wins, then a manually pinned conversation method, then
// the recommended method for the active database matched against what
// the database actually provides.
func (e *Engine) resolveMethodID(ctx context.Context, conv *memory.ConversationContext, directiveMethodID string) (string, error) {
	if directiveMethodID != "" {
		return directiveMethodID, nil
	}
	if conv.MethodID != nil {
		return *conv.MethodID, nil
	}

	recommended, err := knowledge.RecommendedMethodName(conv.DatabaseID)
	if err != nil {
		return "", err
	}

	available, err := e.config.Gateway.ListImpactMethods(ctx, conv.DatabaseID)
	if err != nil {
		return "", err
	}
	if len(available) == 0 {
		return "", &gateway.GatewayError{Op: "list impact methods", DatabaseID: conv.DatabaseID,
			Err: errNoImpactMethods}
	}

	if ref, ok := matchMethod(recommended, available); ok {
		return ref.ID, nil
	}

	// The recommended method is not installed in this database; fall
	// back to the first one it offers rather than failing the
	// calculation.
	logger.Info("Recommended impact method not found, using first available",
		zap.String("recommended", recommended),
		zap.String("fallback", available[0].Name))
	return available[0].ID, nil
}

// matchMethod finds the recommended method among the database's
// installed ones: exact name match first, then a token match that
// tolerates naming variants like "ReCiPe 2016 Midpoint (H)" vs
// "ReCiPe Midpoint (H) 2016".
func matchMethod(name string, available []gateway.Ref) (gateway.Ref, bool) {
	for _, ref := range available {
		if strings.EqualFold(ref.Name, name) {
			return ref, true
		}
	}

	tokens := significantTokens(name)
	for _, ref := range available {
		haystack := strings.ToLower(ref.Name)
		allFound := len(tokens) > 0
		for _, token := range tokens {
			if !strings.Contains(haystack, token) {
				allFound = false
				break
			}
		}
		if allFound {
			return ref, true
		}
	}
	return gateway.Ref{}, false
}

// significantTokens keeps up to the first three tokens of a method
// name that are long enough to be discriminating.
func significantTokens(name string) []string {
	var tokens []string
	for _, token := range strings.Fields(strings.ToLower(name)) {
		if len(token) <= 3 || strings.HasPrefix(token, "(") {
			continue
		}
		tokens = append(tokens, token)
		if len(tokens) == 3 {
			break
		}
	}
	return tokens
}
