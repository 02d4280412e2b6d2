package cron

import (
	"context"
	"fmt"
	"time"

	"go-desk/internal/database"
	"go-desk/internal/features/event"
	"go-desk/internal/features/trigger"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Mirror is the reporting-sync entry point the scheduler drives.
type Mirror interface {
	RunSync(ctx context.Context) error
}

// CronService owns the background schedules: the SLA due-date sweep and the
// periodic reporting mirror.
type CronService interface {
	InitializeScheduler(ctx context.Context) error
	StopScheduler() error
	SweepSLADue(ctx context.Context) (int, error)
}

type CronServiceImpl struct {
	Tickets   *mongo.Collection
	Publisher *event.Publisher
	Sync      Mirror
	Log       *zap.Logger

	scheduler *cron.Cron
}

func NewCronService(mongodb *database.MongodbDB, publisher *event.Publisher, syncService Mirror, log *zap.Logger) CronService {
	return &CronServiceImpl{
		Tickets:   mongodb.DB.Collection("tickets"),
		Publisher: publisher,
		Sync:      syncService,
		Log:       log,
	}
}

func (s *CronServiceImpl) InitializeScheduler(_ context.Context) error {
	s.scheduler = cron.New()

	if _, err := s.scheduler.AddFunc("@every 5m", func() {
		if _, err := s.SweepSLADue(context.Background()); err != nil {
			s.Log.Error("sla sweep failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule sla sweep: %w", err)
	}

	if _, err := s.scheduler.AddFunc("@hourly", func() {
		if err := s.Sync.RunSync(context.Background()); err != nil {
			s.Log.Error("reporting sync failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule reporting sync: %w", err)
	}

	s.scheduler.Start()
	s.Log.Info("cron scheduler started")
	return nil
}

func (s *CronServiceImpl) StopScheduler() error {
	if s.scheduler != nil {
		ctx := s.scheduler.Stop()
		<-ctx.Done()
	}
	return nil
}

// SweepSLADue publishes ticket_sla_due for every open ticket whose due date
// has passed and that has not been flagged yet. The sla_due_notified stamp
// keeps the sweep from firing twice for one breach.
func (s *CronServiceImpl) SweepSLADue(ctx context.Context) (int, error) {
	filter := bson.M{
		"deleted":          bson.M{"$ne": true},
		"due_date":         bson.M{"$lte": time.Now()},
		"status":           bson.M{"$nin": []string{"resolved", "closed"}},
		"sla_due_notified": bson.M{"$ne": true},
	}

	cursor, err := s.Tickets.Find(ctx, filter)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	count := 0
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return count, err
		}

		oid, ok := doc["_id"].(primitive.ObjectID)
		if !ok {
			continue
		}

		data := map[string]interface{}{
			"ticket": map[string]interface{}{
				"id":  oid.Hex(),
				"sno": doc["sno"],
			},
			"workspace_id": doc["workspace_id"],
			"client_id":    doc["client_id"],
		}
		s.Publisher.Publish(ctx, trigger.TicketSLADue, data)

		if _, err := s.Tickets.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"sla_due_notified": true}}); err != nil {
			s.Log.Warn("failed to stamp sla notification", zap.String("ticket_id", oid.Hex()), zap.Error(err))
		}
		count++
	}

	if count > 0 {
		s.Log.Info("sla sweep published due tickets", zap.Int("count", count))
	}
	return count, cursor.Err()
}
