package audit

import (
	"context"

	common_models "go-desk/internal/common/models"
	"go-desk/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *database.MongodbDB) *AuditRepository {
	return &AuditRepository{
		col: db.DB.Collection("audit_logs"),
	}
}

func (r *AuditRepository) Create(ctx context.Context, entry *common_models.AuditLog) error {
	_, err := r.col.InsertOne(ctx, entry)
	return err
}

func (r *AuditRepository) ListByRecord(ctx context.Context, module, recordID string, limit int64) ([]common_models.AuditLog, error) {
	filter := bson.M{
		"module":    module,
		"record_id": recordID,
	}
	opts := options.Find().SetSort(bson.M{"timestamp": -1})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []common_models.AuditLog
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
