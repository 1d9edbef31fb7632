package gateway

import (
	"context"
	"fmt"
)

// TargetKind selects what a calculation runs against.
type TargetKind string

const (
	TargetProcess       TargetKind = "process"
	TargetProductSystem TargetKind = "product_system"
)

// Ref is a lightweight descriptor of a process, product system or impact
// method inside a backing database.
type Ref struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

// ImpactValue is one category score of a calculation.
type ImpactValue struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
}

// GoalScope is the functional-unit and study-intent metadata the gateway
// infers alongside a calculation. It passes through the core unmodified.
type GoalScope struct {
	Goal           string  `json:"goal"`
	FunctionalUnit string  `json:"functional_unit"`
	Amount         float64 `json:"amount"`
	SystemBoundary string  `json:"system_boundary"`
	ImpactMethod   string  `json:"impact_method"`
	ISOCompliance  string  `json:"iso_compliance"`
}

// CalculationResult is the gateway's answer to one calculate action.
type CalculationResult struct {
	TargetName   string        `json:"target_name"`
	TargetKind   TargetKind    `json:"target_kind"`
	ImpactMethod string        `json:"impact_method"`
	MethodID     string        `json:"used_method_id"`
	Amount       float64       `json:"amount"`
	Impacts      []ImpactValue `json:"impacts"`
	GoalScope    GoalScope     `json:"goal_scope"`
}

// Gateway is the narrow contract to the external LCA engine. Every call is
// scoped to a registered backing database and is a single request/response
// exchange; the gateway owns connection handling.
type Gateway interface {
	SearchProcesses(ctx context.Context, databaseID, query string, limit int) ([]Ref, error)
	SearchProductSystems(ctx context.Context, databaseID, query string, limit int) ([]Ref, error)
	Calculate(ctx context.Context, databaseID string, target TargetKind, targetID string, amount float64, methodID string) (*CalculationResult, error)
	ListImpactMethods(ctx context.Context, databaseID string) ([]Ref, error)
	IsAvailable(ctx context.Context, databaseID string) bool
}

// GatewayError wraps any failure of a gateway call. Unknown database ids,
// offline IPC servers and calculation failures all surface through it.
type GatewayError struct {
	Op         string
	DatabaseID string
	Err        error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s failed for database %q: %v", e.Op, e.DatabaseID, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
