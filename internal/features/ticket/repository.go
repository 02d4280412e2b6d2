package ticket

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

type TicketRepository interface {
	Create(ctx context.Context, t *Ticket) error
	GetByID(ctx context.Context, id string, scope common_models.Scope) (*Ticket, error)
	GetBySno(ctx context.Context, sno int64, scope common_models.Scope) (*Ticket, error)
	GetRawByID(ctx context.Context, id string, scope common_models.Scope) (map[string]interface{}, error)
	List(ctx context.Context, scope common_models.Scope, status string) ([]Ticket, error)
	Update(ctx context.Context, t *Ticket) error
	UpdateFields(ctx context.Context, id string, scope common_models.Scope, set bson.M) error
	SoftDelete(ctx context.Context, id string, scope common_models.Scope) error
	NextSno(ctx context.Context, workspaceID string) (int64, error)
}

type TicketRepositoryImpl struct {
	Tickets  *mongo.Collection
	Counters *mongo.Collection
}

func NewTicketRepository(mongodb *database.MongodbDB) TicketRepository {
	return &TicketRepositoryImpl{
		Tickets:  mongodb.DB.Collection("tickets"),
		Counters: mongodb.DB.Collection("counters"),
	}
}

func scopeFilter(scope common_models.Scope) bson.M {
	return bson.M{
		"workspace_id": scope.WorkspaceID,
		"client_id":    scope.ClientID,
	}
}

// NextSno atomically increments the per-workspace ticket counter.
func (r *TicketRepositoryImpl) NextSno(ctx context.Context, workspaceID string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.Counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "tickets:" + workspaceID},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

func (r *TicketRepositoryImpl) Create(ctx context.Context, t *Ticket) error {
	sno, err := r.NextSno(ctx, t.WorkspaceID)
	if err != nil {
		return err
	}
	t.ID = primitive.NewObjectID()
	t.Sno = sno
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
	if t.Status == "" {
		t.Status = TicketStatusNew
	}
	if t.Priority == "" {
		t.Priority = TicketPriorityMedium
	}
	_, err = r.Tickets.InsertOne(ctx, t)
	return err
}

func (r *TicketRepositoryImpl) GetByID(ctx context.Context, id string, scope common_models.Scope) (*Ticket, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errs.ErrNotFound
	}
	filter := scopeFilter(scope)
	filter["_id"] = oid
	filter["deleted"] = bson.M{"$ne": true}

	var t Ticket
	err = r.Tickets.FindOne(ctx, filter).Decode(&t)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepositoryImpl) GetBySno(ctx context.Context, sno int64, scope common_models.Scope) (*Ticket, error) {
	filter := scopeFilter(scope)
	filter["sno"] = sno
	filter["deleted"] = bson.M{"$ne": true}

	var t Ticket
	err := r.Tickets.FindOne(ctx, filter).Decode(&t)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetRawByID returns the stored document as a map. The automation matcher
// resolves rule fields against raw field names, including custom_fields.
func (r *TicketRepositoryImpl) GetRawByID(ctx context.Context, id string, scope common_models.Scope) (map[string]interface{}, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errs.ErrNotFound
	}
	filter := scopeFilter(scope)
	filter["_id"] = oid
	filter["deleted"] = bson.M{"$ne": true}

	var doc bson.M
	err = r.Tickets.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	if oid, ok := doc["_id"].(primitive.ObjectID); ok {
		doc["id"] = oid.Hex()
	}
	return doc, nil
}

func (r *TicketRepositoryImpl) List(ctx context.Context, scope common_models.Scope, status string) ([]Ticket, error) {
	filter := scopeFilter(scope)
	filter["deleted"] = bson.M{"$ne": true}
	if status != "" {
		filter["status"] = status
	}

	cursor, err := r.Tickets.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tickets []Ticket
	if err = cursor.All(ctx, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *TicketRepositoryImpl) Update(ctx context.Context, t *Ticket) error {
	t.UpdatedAt = time.Now()
	filter := scopeFilter(common_models.Scope{WorkspaceID: t.WorkspaceID, ClientID: t.ClientID})
	filter["_id"] = t.ID
	filter["deleted"] = bson.M{"$ne": true}

	res, err := r.Tickets.UpdateOne(ctx, filter, bson.M{"$set": t})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// UpdateFields applies a partial update. Used by workflow actions so an
// automation only touches the attributes it names.
func (r *TicketRepositoryImpl) UpdateFields(ctx context.Context, id string, scope common_models.Scope, set bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errs.ErrNotFound
	}
	filter := scopeFilter(scope)
	filter["_id"] = oid
	filter["deleted"] = bson.M{"$ne": true}

	set["updated_at"] = time.Now()
	res, err := r.Tickets.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *TicketRepositoryImpl) SoftDelete(ctx context.Context, id string, scope common_models.Scope) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errs.ErrNotFound
	}
	filter := scopeFilter(scope)
	filter["_id"] = oid
	filter["deleted"] = bson.M{"$ne": true}

	now := time.Now()
	res, err := r.Tickets.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"deleted":    true,
		"deleted_at": now,
		"updated_at": now,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}
