package sync

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	common_models "go-desk/internal/common/models"
	"go-desk/internal/config"
	"go-desk/internal/database"

	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Auditor matches the audit service's change logger.
type Auditor interface {
	LogChange(ctx context.Context, action common_models.AuditAction, module, recordID string, changes map[string]common_models.Change) error
}

// SyncService mirrors tickets into a Supabase/Postgres table for reporting
// queries. Runs are incremental on updated_at and idempotent via upsert.
type SyncService interface {
	RunSync(ctx context.Context) error
	ListLogs(ctx context.Context, limit int64) ([]SyncLog, error)
}

type SyncServiceImpl struct {
	Config  *config.Config
	Tickets *mongo.Collection
	Logs    *mongo.Collection
	Audit   Auditor
	Log     *zap.Logger

	lastSyncAt time.Time
}

func NewSyncService(cfg *config.Config, mongodb *database.MongodbDB, audit Auditor, log *zap.Logger) SyncService {
	return &SyncServiceImpl{
		Config:  cfg,
		Tickets: mongodb.DB.Collection("tickets"),
		Logs:    mongodb.DB.Collection("sync_logs"),
		Audit:   audit,
		Log:     log,
	}
}

func (s *SyncServiceImpl) ListLogs(ctx context.Context, limit int64) ([]SyncLog, error) {
	if limit <= 0 {
		limit = 20
	}
	cursor, err := s.Logs.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"start_time": -1}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []SyncLog
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *SyncServiceImpl) RunSync(ctx context.Context) error {
	if !s.Config.SyncEnabled || s.Config.SupabaseDSN == "" {
		return nil
	}

	runLog := &SyncLog{
		ID:        primitive.NewObjectID(),
		StartTime: time.Now(),
		Status:    "in_progress",
	}
	_, _ = s.Logs.InsertOne(ctx, runLog)

	processed, syncErr := s.mirrorTickets(ctx)

	runLog.EndTime = time.Now()
	runLog.ProcessedCount = processed
	if syncErr != nil {
		runLog.Status = "failed"
		runLog.Error = syncErr.Error()
	} else {
		runLog.Status = "success"
		s.lastSyncAt = runLog.StartTime
	}
	_, _ = s.Logs.ReplaceOne(ctx, bson.M{"_id": runLog.ID}, runLog)

	status := "success"
	if syncErr != nil {
		status = "failed"
	}
	if s.Audit != nil {
		s.Audit.LogChange(ctx, common_models.AuditActionSync, "tickets", "mirror", map[string]common_models.Change{
			"status":    {New: status},
			"processed": {New: processed},
		})
	}

	return syncErr
}

func (s *SyncServiceImpl) mirrorTickets(ctx context.Context) (int, error) {
	db, err := sql.Open("postgres", s.Config.SupabaseDSN)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return 0, fmt.Errorf("failed to ping postgres: %w", err)
	}

	filter := bson.M{
		"updated_at": bson.M{"$gt": s.lastSyncAt},
	}
	cursor, err := s.Tickets.Find(ctx, filter, options.Find().SetSort(bson.M{"updated_at": 1}))
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	const upsert = `INSERT INTO tickets (id, workspace_id, client_id, sno, subject, status, priority, channel, deleted, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			workspace_id = $2, client_id = $3, sno = $4, subject = $5,
			status = $6, priority = $7, channel = $8, deleted = $9, updated_at = $10`

	count := 0
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return count, err
		}

		id := ""
		if oid, ok := doc["_id"].(primitive.ObjectID); ok {
			id = oid.Hex()
		}

		deleted, _ := doc["deleted"].(bool)
		updatedAt, _ := doc["updated_at"].(primitive.DateTime)

		_, err := db.ExecContext(ctx, upsert,
			id,
			doc["workspace_id"],
			doc["client_id"],
			doc["sno"],
			doc["subject"],
			doc["status"],
			doc["priority"],
			doc["channel"],
			deleted,
			updatedAt.Time(),
		)
		if err != nil {
			return count, fmt.Errorf("failed to upsert ticket %s: %w", id, err)
		}
		count++
	}

	if count > 0 {
		s.Log.Info("mirrored tickets to reporting database", zap.Int("count", count))
	}
	return count, cursor.Err()
}
