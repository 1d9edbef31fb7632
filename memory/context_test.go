package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConversationContext_Defaults(t *testing.T) {
	conv := NewConversationContext()

	assert.NotEmpty(t, conv.ID)
	assert.Contains(t, conv.ID, "conv_")
	assert.Equal(t, SelectionAuto, conv.MethodSelectionMode)
	assert.Equal(t, ModeAuto, conv.Mode)
	assert.Nil(t, conv.MethodID)
	assert.Empty(t, conv.DatabaseHistory)
}

func TestApplyDatabaseSelection_InitialAssignmentSeedsWithoutHistory(t *testing.T) {
	conv := NewConversationContext()
	conv.ApplyDatabaseSelection("elcd", "initial")

	assert.Equal(t, "elcd", conv.DatabaseID)
	assert.Empty(t, conv.DatabaseHistory)
}

func TestApplyDatabaseSelection_SwitchesAppendHistory(t *testing.T) {
	conv := NewConversationContext()
	conv.ApplyDatabaseSelection("elcd", "initial")
	conv.ApplyDatabaseSelection("agribalyse", "food question")
	conv.ApplyDatabaseSelection("elcd", "back to materials")

	require.Len(t, conv.DatabaseHistory, 2)
	assert.Equal(t, "elcd", conv.DatabaseHistory[0].From)
	assert.Equal(t, "agribalyse", conv.DatabaseHistory[0].To)
	assert.Equal(t, "food question", conv.DatabaseHistory[0].Reason)
	assert.Equal(t, "elcd", conv.DatabaseHistory[1].To)
	assert.False(t, conv.DatabaseHistory[1].Timestamp.Before(conv.DatabaseHistory[0].Timestamp))
}

func TestApplyDatabaseSelection_NoopOnSameOrEmpty(t *testing.T) {
	conv := NewConversationContext()
	conv.ApplyDatabaseSelection("elcd", "initial")
	conv.ApplyDatabaseSelection("elcd", "same again")
	conv.ApplyDatabaseSelection("", "blank")

	assert.Equal(t, "elcd", conv.DatabaseID)
	assert.Empty(t, conv.DatabaseHistory)
}

func TestApplyDatabaseSelection_DoesNotTouchMethod(t *testing.T) {
	conv := NewConversationContext()
	conv.ApplyDatabaseSelection("elcd", "initial")
	manual := "m-traci"
	conv.ApplyMethodSelection(&manual, "user choice")

	conv.ApplyDatabaseSelection("agribalyse", "food question")

	require.NotNil(t, conv.MethodID)
	assert.Equal(t, "m-traci", *conv.MethodID)
	assert.Equal(t, SelectionManual, conv.MethodSelectionMode)
}

func TestApplyMethodSelection_ModeDerivedFromNullability(t *testing.T) {
	conv := NewConversationContext()

	manual := "m-recipe"
	conv.ApplyMethodSelection(&manual, "user choice")
	assert.Equal(t, SelectionManual, conv.MethodSelectionMode)
	require.Len(t, conv.MethodHistory, 1)

	conv.ApplyMethodSelection(nil, "back to auto")
	assert.Equal(t, SelectionAuto, conv.MethodSelectionMode)
	assert.Nil(t, conv.MethodID)
	require.Len(t, conv.MethodHistory, 2)
	assert.Nil(t, conv.MethodHistory[1].To.ID)
}

func TestApplyMethodSelection_NoopWhenUnchanged(t *testing.T) {
	conv := NewConversationContext()
	conv.ApplyMethodSelection(nil, "still auto")
	assert.Empty(t, conv.MethodHistory)

	manual := "m-recipe"
	conv.ApplyMethodSelection(&manual, "user choice")
	same := "m-recipe"
	conv.ApplyMethodSelection(&same, "same again")
	assert.Len(t, conv.MethodHistory, 1)
}

func TestApplyMode_StickyAndIgnoresBlank(t *testing.T) {
	conv := NewConversationContext()
	conv.ApplyMode(ModeInteractive)
	assert.Equal(t, ModeInteractive, conv.Mode)

	conv.ApplyMode("")
	assert.Equal(t, ModeInteractive, conv.Mode)
}

func TestTranscriptHelpers(t *testing.T) {
	conv := NewConversationContext()
	conv.AddUserMessage("hello")
	conv.AddAssistantMessage("hi there")
	conv.AddActionResult(`[Action Results: {"type": "search_processes"}]`)

	require.Len(t, conv.Messages, 3)
	assert.Equal(t, "user", conv.Messages[0].Role)
	assert.Equal(t, "assistant", conv.Messages[1].Role)
	assert.Equal(t, "user", conv.Messages[2].Role)
	assert.True(t, conv.Messages[2].IsActionResult)
	assert.False(t, conv.Messages[1].IsActionResult)
}
