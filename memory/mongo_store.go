package memory

import (
	"context"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"go.uber.org/zap"
)

// MongoStore persists contexts through the ODM collection abstraction. A nil
// collection degrades to fresh contexts per turn, which keeps the engine
// usable while the database is down.
type MongoStore struct {
	collection odm.OdmCollectionInterface[ConversationContext]
}

func NewMongoStore(collection odm.OdmCollectionInterface[ConversationContext]) *MongoStore {
	return &MongoStore{collection: collection}
}

func (s *MongoStore) GetOrCreate(ctx context.Context, conversationID string) (*ConversationContext, error) {
	if s.collection == nil || conversationID == "" {
		return NewConversationContext(), nil
	}

	conv, err := async.Await(s.collection.FindOneByID(ctx, conversationID))
	if err != nil || conv == nil {
		if err != nil {
			logger.Error("Failed to load conversation", zap.String("conversation", conversationID), zap.Error(err))
		}
		return NewConversationContext(), nil
	}

	return conv, nil
}

func (s *MongoStore) Save(ctx context.Context, conv *ConversationContext) error {
	if s.collection == nil {
		return nil
	}

	_, err := async.Await(s.collection.Save(ctx, *conv))
	if err != nil {
		logger.Error("Failed to save conversation", zap.String("conversation", conv.ID), zap.Error(err))
		return err
	}
	return nil
}
