package conversation

import (
	"context"
	"time"

	"go-desk/internal/common/errs"
	common_models "go-desk/internal/common/models"
	"go-desk/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ConversationRepository interface {
	Create(ctx context.Context, m *ConversationMessage) error
	ListByTicket(ctx context.Context, ticketID string, scope common_models.Scope) ([]ConversationMessage, error)
	SoftDelete(ctx context.Context, id string, scope common_models.Scope) error
}

type ConversationRepositoryImpl struct {
	Messages *mongo.Collection
}

func NewConversationRepository(mongodb *database.MongodbDB) ConversationRepository {
	return &ConversationRepositoryImpl{
		Messages: mongodb.DB.Collection("conversation_messages"),
	}
}

func (r *ConversationRepositoryImpl) Create(ctx context.Context, m *ConversationMessage) error {
	m.ID = primitive.NewObjectID()
	m.CreatedAt = time.Now()
	m.UpdatedAt = time.Now()
	_, err := r.Messages.InsertOne(ctx, m)
	return err
}

func (r *ConversationRepositoryImpl) ListByTicket(ctx context.Context, ticketID string, scope common_models.Scope) ([]ConversationMessage, error) {
	oid, err := primitive.ObjectIDFromHex(ticketID)
	if err != nil {
		return nil, errs.ErrNotFound
	}
	filter := bson.M{
		"workspace_id": scope.WorkspaceID,
		"client_id":    scope.ClientID,
		"ticket_id":    oid,
		"deleted":      bson.M{"$ne": true},
	}

	cursor, err := r.Messages.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []ConversationMessage
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *ConversationRepositoryImpl) SoftDelete(ctx context.Context, id string, scope common_models.Scope) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errs.ErrNotFound
	}
	filter := bson.M{
		"workspace_id": scope.WorkspaceID,
		"client_id":    scope.ClientID,
		"_id":          oid,
		"deleted":      bson.M{"$ne": true},
	}

	res, err := r.Messages.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"deleted":    true,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}
