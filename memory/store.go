package memory

import (
	"context"
	"sync"
)

// ContextStore is the conversation persistence capability handed to the
// engine. Implementations may be volatile (InMemoryStore) or durable
// (RedisStore, MongoStore); the engine never assumes durability.
type ContextStore interface {
	// GetOrCreate returns the context for conversationID, or a fresh context
	// with a newly generated id when conversationID is empty or unknown.
	GetOrCreate(ctx context.Context, conversationID string) (*ConversationContext, error)

	// Save persists the context after a completed turn.
	Save(ctx context.Context, conv *ConversationContext) error
}

// InMemoryStore keeps contexts in a process-wide map. Conversations do not
// survive a restart; that is the accepted baseline behavior.
type InMemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*ConversationContext
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		conversations: make(map[string]*ConversationContext),
	}
}

func (s *InMemoryStore) GetOrCreate(ctx context.Context, conversationID string) (*ConversationContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conversationID != "" {
		if conv, ok := s.conversations[conversationID]; ok {
			return conv, nil
		}
	}

	conv := NewConversationContext()
	s.conversations[conv.ID] = conv
	return conv, nil
}

func (s *InMemoryStore) Save(ctx context.Context, conv *ConversationContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations[conv.ID] = conv
	return nil
}

// Len reports the number of stored conversations.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}
