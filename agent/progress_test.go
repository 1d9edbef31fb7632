package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/SaiNageswarS/lca-agent/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuncProgressReporter_ForwardsToCallback(t *testing.T) {
	var got []*TurnEvent
	reporter := &FuncProgressReporter{Fn: func(event *TurnEvent) error {
		got = append(got, event)
		return nil
	}}

	require.NoError(t, reporter.Send(newTurnEvent(StageModelCall, "thinking", 1)))
	require.Len(t, got, 1)
	assert.Equal(t, StageModelCall, got[0].Stage)
	assert.Equal(t, 1, got[0].Iteration)
	assert.NotZero(t, got[0].Timestamp)

	failing := &FuncProgressReporter{Fn: func(event *TurnEvent) error {
		return errors.New("stream closed")
	}}
	assert.Error(t, failing.Send(newTurnEvent(StageTurnComplete, "turn complete", 1)))
}

func TestFuncProgressReporter_NilCallbackIsNoOp(t *testing.T) {
	reporter := &FuncProgressReporter{}
	assert.NoError(t, reporter.Send(newTurnEvent(StageModelCall, "thinking", 1)))
}

func TestRunTurnWithReporter_EmitsLifecycleStages(t *testing.T) {
	// One search that hits, then a plain reply closing the turn.
	gw := &mockGateway{processHits: map[string][]gateway.Ref{
		"steel": {{ID: "p1", Name: "steel production"}},
	}}
	model := &mockLLMClient{responses: []string{
		searchAction("steel"),
		"Steel production is available in the database.",
	}}
	engine := newTestEngine(model, gw)

	var stages []Stage
	reporter := &FuncProgressReporter{Fn: func(event *TurnEvent) error {
		stages = append(stages, event.Stage)
		return nil
	}}

	_, err := engine.RunTurnWithReporter(context.Background(), reporter, &TurnRequest{
		Message:    "Tell me about steel",
		DatabaseID: "elcd",
	})

	require.NoError(t, err)
	assert.Equal(t, []Stage{
		StageModelCall,
		StageActionStarted,
		StageActionDone,
		StageModelCall,
		StageTurnComplete,
	}, stages)
}

func TestRunTurnWithReporter_ReportsGuardTrip(t *testing.T) {
	gw := &mockGateway{}
	model := &mockLLMClient{responses: []string{
		searchAction("unobtainium"), searchAction("unobtainium alloy"),
	}}
	engine := newTestEngine(model, gw)

	var stages []Stage
	reporter := &FuncProgressReporter{Fn: func(event *TurnEvent) error {
		stages = append(stages, event.Stage)
		return nil
	}}

	_, err := engine.RunTurnWithReporter(context.Background(), reporter, &TurnRequest{
		Message:    "Footprint of unobtainium?",
		DatabaseID: "elcd",
	})

	require.NoError(t, err)
	assert.Contains(t, stages, StageGuardTripped)
	assert.Equal(t, StageTurnComplete, stages[len(stages)-1])
}
