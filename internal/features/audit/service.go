package audit

import (
	"context"
	"time"

	common_models "go-desk/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type AuditService interface {
	LogChange(ctx context.Context, action common_models.AuditAction, module, recordID string, changes map[string]common_models.Change) error
	History(ctx context.Context, module, recordID string, limit int64) ([]common_models.AuditLog, error)
}

type AuditServiceImpl struct {
	Repo *AuditRepository
	Log  *zap.Logger
}

func NewAuditService(repo *AuditRepository, log *zap.Logger) AuditService {
	return &AuditServiceImpl{
		Repo: repo,
		Log:  log,
	}
}

// LogChange persists one audit entry. Failures are logged and not propagated;
// audit writes never fail the calling operation.
func (s *AuditServiceImpl) LogChange(ctx context.Context, action common_models.AuditAction, module, recordID string, changes map[string]common_models.Change) error {
	entry := &common_models.AuditLog{
		ID:        primitive.NewObjectID(),
		Action:    action,
		Module:    module,
		RecordID:  recordID,
		Changes:   changes,
		Timestamp: time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, entry); err != nil {
		s.Log.Error("failed to write audit entry",
			zap.String("module", module),
			zap.String("record_id", recordID),
			zap.Error(err))
	}
	return nil
}

func (s *AuditServiceImpl) History(ctx context.Context, module, recordID string, limit int64) ([]common_models.AuditLog, error) {
	return s.Repo.ListByRecord(ctx, module, recordID, limit)
}
