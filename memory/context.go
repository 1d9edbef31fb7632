package memory

import (
	"fmt"
	"time"

	"github.com/SaiNageswarS/lca-agent/llm"
	"github.com/google/uuid"
)

// Mode governs how eagerly the assistant acts without asking the user.
type Mode string

const (
	ModeAuto        Mode = "auto"
	ModeInteractive Mode = "interactive"
)

// SelectionMode records whether the active impact method was chosen by the
// user or left to the assistant.
type SelectionMode string

const (
	SelectionAuto   SelectionMode = "auto"
	SelectionManual SelectionMode = "manual"
)

// DatabaseChange is one entry of the append-only database history.
type DatabaseChange struct {
	From      string    `bson:"from" json:"from"`
	To        string    `bson:"to" json:"to"`
	Reason    string    `bson:"reason" json:"reason"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// MethodSelection is an (id, mode) pair; a nil id means automatic selection.
type MethodSelection struct {
	ID   *string       `bson:"id" json:"id"`
	Mode SelectionMode `bson:"mode" json:"mode"`
}

// MethodChange is one entry of the append-only method history.
type MethodChange struct {
	From      MethodSelection `bson:"from" json:"from"`
	To        MethodSelection `bson:"to" json:"to"`
	Reason    string          `bson:"reason" json:"reason"`
	Timestamp time.Time       `bson:"timestamp" json:"timestamp"`
}

// ConversationContext holds everything the engine needs to resume one
// conversation: active selections, their change histories and the transcript.
type ConversationContext struct {
	ID                  string           `bson:"_id" json:"id"`
	DatabaseID          string           `bson:"database_id" json:"database_id"`
	MethodID            *string          `bson:"method_id" json:"method_id"`
	MethodSelectionMode SelectionMode    `bson:"method_selection_mode" json:"method_selection_mode"`
	Mode                Mode             `bson:"mode" json:"mode"`
	Messages            []llm.Message    `bson:"messages" json:"-"`
	DatabaseHistory     []DatabaseChange `bson:"database_history" json:"database_history"`
	MethodHistory       []MethodChange   `bson:"method_history" json:"method_history"`
	CreatedAt           time.Time        `bson:"created_at" json:"created_at"`
	LastUpdatedAt       time.Time        `bson:"last_updated_at" json:"last_updated_at"`
}

// NewConversationContext creates an empty context with a fresh id.
func NewConversationContext() *ConversationContext {
	now := time.Now().UTC()
	return &ConversationContext{
		ID:                  fmt.Sprintf("conv_%s", uuid.NewString()[:8]),
		MethodSelectionMode: SelectionAuto,
		Mode:                ModeAuto,
		CreatedAt:           now,
		LastUpdatedAt:       now,
	}
}

func (c ConversationContext) Id() string {
	return c.ID
}

func (c ConversationContext) CollectionName() string {
	return "conversations"
}

// ApplyDatabaseSelection switches the active database. The very first
// assignment seeds the field without a history entry; afterwards every
// effective change is appended to the history. Switching databases never
// touches the method selection.
func (c *ConversationContext) ApplyDatabaseSelection(databaseID, reason string) {
	if databaseID == "" || c.DatabaseID == databaseID {
		return
	}

	if c.DatabaseID != "" {
		c.DatabaseHistory = append(c.DatabaseHistory, DatabaseChange{
			From:      c.DatabaseID,
			To:        databaseID,
			Reason:    reason,
			Timestamp: time.Now().UTC(),
		})
	}
	c.DatabaseID = databaseID
	c.touch()
}

// ApplyMethodSelection switches the active impact method. The selection mode
// is derived from the id: an explicit method means manual, nil means back to
// automatic.
func (c *ConversationContext) ApplyMethodSelection(methodID *string, reason string) {
	mode := SelectionAuto
	if methodID != nil {
		mode = SelectionManual
	}

	if methodIDsEqual(c.MethodID, methodID) && c.MethodSelectionMode == mode {
		return
	}

	c.MethodHistory = append(c.MethodHistory, MethodChange{
		From:      MethodSelection{ID: c.MethodID, Mode: c.MethodSelectionMode},
		To:        MethodSelection{ID: methodID, Mode: mode},
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	})
	c.MethodID = methodID
	c.MethodSelectionMode = mode
	c.touch()
}

// ApplyMode sets the interaction mode. It is sticky across turns and keeps no
// separate history; the transcript carries it implicitly.
func (c *ConversationContext) ApplyMode(mode Mode) {
	if mode == "" || c.Mode == mode {
		return
	}
	c.Mode = mode
	c.touch()
}

func (c *ConversationContext) AddUserMessage(content string) {
	c.Messages = append(c.Messages, llm.Message{Role: "user", Content: content})
	c.touch()
}

func (c *ConversationContext) AddAssistantMessage(content string) {
	c.Messages = append(c.Messages, llm.Message{Role: "assistant", Content: content})
	c.touch()
}

// AddActionResult appends an internal action-result entry. It reaches the
// model as user-role context on the next loop iteration but is never shown
// to the end user.
func (c *ConversationContext) AddActionResult(content string) {
	c.Messages = append(c.Messages, llm.Message{Role: "user", Content: content, IsActionResult: true})
	c.touch()
}

func (c *ConversationContext) touch() {
	c.LastUpdatedAt = time.Now().UTC()
}

func methodIDsEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
