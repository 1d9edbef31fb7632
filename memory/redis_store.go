package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SaiNageswarS/lca-agent/llm"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "lca:conversation:"

// RedisStore persists one JSON document per conversation. Two concurrent
// turns on the same conversation are last-write-wins; the engine's per-id
// turn serialization keeps that from happening inside one process.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps a connected client. A zero ttl keeps conversations
// until explicitly deleted.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) GetOrCreate(ctx context.Context, conversationID string) (*ConversationContext, error) {
	if conversationID != "" {
		raw, err := s.client.Get(ctx, redisKeyPrefix+conversationID).Bytes()
		switch {
		case err == nil:
			var doc storedContext
			if err := json.Unmarshal(raw, &doc); err != nil {
				return nil, fmt.Errorf("error decoding conversation %s: %w", conversationID, err)
			}
			return doc.toContext(), nil
		case errors.Is(err, redis.Nil):
			// fall through to create
		default:
			return nil, fmt.Errorf("error loading conversation %s: %w", conversationID, err)
		}
	}

	return NewConversationContext(), nil
}

func (s *RedisStore) Save(ctx context.Context, conv *ConversationContext) error {
	raw, err := json.Marshal(newStoredContext(conv))
	if err != nil {
		return fmt.Errorf("error encoding conversation %s: %w", conv.ID, err)
	}

	if err := s.client.Set(ctx, redisKeyPrefix+conv.ID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("error saving conversation %s: %w", conv.ID, err)
	}
	return nil
}

// storedContext mirrors ConversationContext for persistence. llm.Message
// hides the action-result flag from API payloads, so the transcript is
// stored through an explicit DTO instead.
type storedContext struct {
	ID                  string           `json:"id"`
	DatabaseID          string           `json:"database_id"`
	MethodID            *string          `json:"method_id"`
	MethodSelectionMode SelectionMode    `json:"method_selection_mode"`
	Mode                Mode             `json:"mode"`
	Messages            []storedMessage  `json:"messages"`
	DatabaseHistory     []DatabaseChange `json:"database_history"`
	MethodHistory       []MethodChange   `json:"method_history"`
	CreatedAt           time.Time        `json:"created_at"`
	LastUpdatedAt       time.Time        `json:"last_updated_at"`
}

type storedMessage struct {
	Role           string `json:"role"`
	Content        string `json:"content"`
	IsActionResult bool   `json:"is_action_result,omitempty"`
}

func newStoredContext(conv *ConversationContext) storedContext {
	msgs := make([]storedMessage, len(conv.Messages))
	for i, m := range conv.Messages {
		msgs[i] = storedMessage{Role: m.Role, Content: m.Content, IsActionResult: m.IsActionResult}
	}
	return storedContext{
		ID:                  conv.ID,
		DatabaseID:          conv.DatabaseID,
		MethodID:            conv.MethodID,
		MethodSelectionMode: conv.MethodSelectionMode,
		Mode:                conv.Mode,
		Messages:            msgs,
		DatabaseHistory:     conv.DatabaseHistory,
		MethodHistory:       conv.MethodHistory,
		CreatedAt:           conv.CreatedAt,
		LastUpdatedAt:       conv.LastUpdatedAt,
	}
}

func (d storedContext) toContext() *ConversationContext {
	msgs := make([]llm.Message, len(d.Messages))
	for i, m := range d.Messages {
		msgs[i] = llm.Message{Role: m.Role, Content: m.Content, IsActionResult: m.IsActionResult}
	}
	return &ConversationContext{
		ID:                  d.ID,
		DatabaseID:          d.DatabaseID,
		MethodID:            d.MethodID,
		MethodSelectionMode: d.MethodSelectionMode,
		Mode:                d.Mode,
		Messages:            msgs,
		DatabaseHistory:     d.DatabaseHistory,
		MethodHistory:       d.MethodHistory,
		CreatedAt:           d.CreatedAt,
		LastUpdatedAt:       d.LastUpdatedAt,
	}
}
