package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"go.uber.org/zap"
)

// IPCClient talks to openLCA IPC servers over their HTTP JSON-RPC protocol,
// one endpoint per registered database.
type IPCClient struct {
	registry   *Registry
	httpClient *http.Client
	requestID  atomic.Int64

	// pollInterval paces result-state polling during calculations.
	pollInterval time.Duration
}

func NewIPCClient(registry *Registry) *IPCClient {
	return &IPCClient{
		registry:     registry,
		httpClient:   &http.Client{},
		pollInterval: 500 * time.Millisecond,
	}
}

func (c *IPCClient) SearchProcesses(ctx context.Context, databaseID, query string, limit int) ([]Ref, error) {
	return c.search(ctx, databaseID, "Process", query, limit)
}

func (c *IPCClient) SearchProductSystems(ctx context.Context, databaseID, query string, limit int) ([]Ref, error) {
	return c.search(ctx, databaseID, "ProductSystem", query, limit)
}

func (c *IPCClient) ListImpactMethods(ctx context.Context, databaseID string) ([]Ref, error) {
	refs, err := c.descriptors(ctx, databaseID, "ImpactMethod")
	if err != nil {
		return nil, &GatewayError{Op: "list_impact_methods", DatabaseID: databaseID, Err: err}
	}
	return refs, nil
}

func (c *IPCClient) IsAvailable(ctx context.Context, databaseID string) bool {
	cfg, ok := c.registry.Get(databaseID)
	if !ok {
		return false
	}

	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var about json.RawMessage
	if err := c.rpc(probeCtx, cfg.Endpoint, "about", nil, &about); err != nil {
		logger.Info("Database probe failed", zap.String("database", databaseID), zap.Error(err))
		return false
	}
	return true
}

func (c *IPCClient) Calculate(ctx context.Context, databaseID string, target TargetKind, targetID string, amount float64, methodID string) (*CalculationResult, error) {
	cfg, ok := c.registry.Get(databaseID)
	if !ok {
		return nil, &GatewayError{Op: "calculate", DatabaseID: databaseID, Err: fmt.Errorf("unknown database id")}
	}

	targetType := "Process"
	if target == TargetProductSystem {
		targetType = "ProductSystem"
	}

	targetName, err := c.fetchName(ctx, cfg.Endpoint, targetType, targetID)
	if err != nil {
		return nil, &GatewayError{Op: "calculate", DatabaseID: databaseID, Err: err}
	}

	methodName, err := c.fetchName(ctx, cfg.Endpoint, "ImpactMethod", methodID)
	if err != nil {
		return nil, &GatewayError{Op: "calculate", DatabaseID: databaseID, Err: err}
	}

	setup := map[string]any{
		"target":       map[string]string{"@type": targetType, "@id": targetID},
		"impactMethod": map[string]string{"@type": "ImpactMethod", "@id": methodID},
		"amount":       amount,
	}

	var state struct {
		ID      string `json:"@id"`
		IsReady bool   `json:"isReady"`
		Error   string `json:"error"`
	}
	if err := c.rpc(ctx, cfg.Endpoint, "result/calculate", setup, &state); err != nil {
		return nil, &GatewayError{Op: "calculate", DatabaseID: databaseID, Err: err}
	}
	resultID := state.ID

	// The IPC server computes asynchronously; poll until the result is ready.
	for !state.IsReady {
		select {
		case <-ctx.Done():
			c.dispose(cfg.Endpoint, resultID)
			return nil, &GatewayError{Op: "calculate", DatabaseID: databaseID, Err: ctx.Err()}
		case <-time.After(c.pollInterval):
		}

		if err := c.rpc(ctx, cfg.Endpoint, "result/state", map[string]string{"@id": resultID}, &state); err != nil {
			c.dispose(cfg.Endpoint, resultID)
			return nil, &GatewayError{Op: "calculate", DatabaseID: databaseID, Err: err}
		}
		if state.Error != "" {
			c.dispose(cfg.Endpoint, resultID)
			return nil, &GatewayError{Op: "calculate", DatabaseID: databaseID, Err: fmt.Errorf("calculation failed: %s", state.Error)}
		}
	}
	defer c.dispose(cfg.Endpoint, resultID)

	var rows []struct {
		ImpactCategory struct {
			Name    string `json:"name"`
			RefUnit string `json:"refUnit"`
		} `json:"impactCategory"`
		Amount float64 `json:"amount"`
	}
	if err := c.rpc(ctx, cfg.Endpoint, "result/total-impacts", map[string]string{"@id": resultID}, &rows); err != nil {
		return nil, &GatewayError{Op: "calculate", DatabaseID: databaseID, Err: err}
	}

	impacts := make([]ImpactValue, len(rows))
	for i, row := range rows {
		impacts[i] = ImpactValue{
			Category: row.ImpactCategory.Name,
			Amount:   row.Amount,
			Unit:     row.ImpactCategory.RefUnit,
		}
	}

	return &CalculationResult{
		TargetName:   targetName,
		TargetKind:   target,
		ImpactMethod: methodName,
		MethodID:     methodID,
		Amount:       amount,
		Impacts:      impacts,
		GoalScope:    inferGoalScope(targetName, amount, methodName),
	}, nil
}

func (c *IPCClient) search(ctx context.Context, databaseID, refType, query string, limit int) ([]Ref, error) {
	refs, err := c.descriptors(ctx, databaseID, refType)
	if err != nil {
		op := "search_processes"
		if refType == "ProductSystem" {
			op = "search_product_systems"
		}
		return nil, &GatewayError{Op: op, DatabaseID: databaseID, Err: err}
	}

	// The IPC protocol has no server-side text search; descriptors are
	// filtered here by case-insensitive substring match.
	needle := strings.ToLower(query)
	matches := make([]Ref, 0, limit)
	for _, ref := range refs {
		if strings.Contains(strings.ToLower(ref.Name), needle) {
			matches = append(matches, ref)
			if len(matches) >= limit {
				break
			}
		}
	}
	return matches, nil
}

func (c *IPCClient) descriptors(ctx context.Context, databaseID, refType string) ([]Ref, error) {
	cfg, ok := c.registry.Get(databaseID)
	if !ok {
		return nil, fmt.Errorf("unknown database id")
	}

	var rows []struct {
		ID       string `json:"@id"`
		Name     string `json:"name"`
		Category string `json:"category"`
		Location string `json:"location"`
	}
	if err := c.rpc(ctx, cfg.Endpoint, "data/get/descriptors", map[string]string{"@type": refType}, &rows); err != nil {
		return nil, err
	}

	refs := make([]Ref, len(rows))
	for i, row := range rows {
		refs[i] = Ref{ID: row.ID, Name: row.Name, Category: row.Category, Location: row.Location}
	}
	return refs, nil
}

func (c *IPCClient) fetchName(ctx context.Context, endpoint, refType, id string) (string, error) {
	var entity struct {
		Name string `json:"name"`
	}
	params := map[string]string{"@type": refType, "@id": id}
	if err := c.rpc(ctx, endpoint, "data/get", params, &entity); err != nil {
		return "", fmt.Errorf("error fetching %s %s: %w", refType, id, err)
	}
	return entity.Name, nil
}

// dispose releases a server-side result. Failures are logged, not surfaced;
// the result has either been read already or abandoned.
func (c *IPCClient) dispose(endpoint, resultID string) {
	if resultID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var ack json.RawMessage
	if err := c.rpc(ctx, endpoint, "result/dispose", map[string]string{"@id": resultID}, &ack); err != nil {
		logger.Error("Failed to dispose calculation result", zap.String("result", resultID), zap.Error(err))
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *IPCClient) rpc(ctx context.Context, endpoint, method string, params, result any) error {
	request := rpcRequest{
		JSONRPC: "2.0",
		ID:      c.requestID.Add(1),
		Method:  method,
		Params:  params,
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("IPC request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response rpcResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return fmt.Errorf("error unmarshaling response: %w", err)
	}
	if response.Error != nil {
		return fmt.Errorf("IPC error %d: %s", response.Error.Code, response.Error.Message)
	}

	if result != nil {
		if err := json.Unmarshal(response.Result, result); err != nil {
			return fmt.Errorf("error unmarshaling result: %w", err)
		}
	}
	return nil
}

// inferGoalScope derives functional-unit metadata from what was calculated.
// It is descriptive boilerplate the assistant can surface; the study intent
// stays with the user.
func inferGoalScope(targetName string, amount float64, methodName string) GoalScope {
	return GoalScope{
		Goal:           fmt.Sprintf("Assess the environmental impact of %s", targetName),
		FunctionalUnit: fmt.Sprintf("%g unit(s) of %s", amount, targetName),
		Amount:         amount,
		SystemBoundary: "Cradle-to-gate, as modelled in the backing database",
		ImpactMethod:   methodName,
		ISOCompliance:  "Screening-level study; goal and scope inferred, not ISO 14044 reviewed",
	}
}
