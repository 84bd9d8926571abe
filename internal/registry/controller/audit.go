package controller

import (
	"context"

	"github.com/gartstein/talent-verify/internal/registry/db"
	e "github.com/gartstein/talent-verify/internal/registry/errors"
	"github.com/gartstein/talent-verify/internal/registry/models"
	"github.com/gartstein/talent-verify/internal/registry/policy"
	"go.uber.org/zap"
)

// AuditService persists audit trail entries and serves them back to
// admins. Record is called from request middleware and must never
// disturb the request it observes, so persistence failures are logged
// and swallowed.
type AuditService struct {
	repo   *db.Repository
	logger *zap.Logger
}

func NewAuditService(repo *db.Repository, logger *zap.Logger) *AuditService {
	return &AuditService{
		repo:   repo,
		logger: logger.Named("audit_service"),
	}
}

// Record writes an audit entry. Errors are logged, not returned.
func (s *AuditService) Record(ctx context.Context, entry *models.AuditLog) {
	if err := s.repo.CreateAuditLog(ctx, entry); err != nil {
		s.logger.Error("failed to record audit entry",
			zap.Error(err),
			zap.String("action", string(entry.Action)),
			zap.String("entity_type", entry.EntityType),
		)
	}
}

// Get retrieves a single audit entry. Admin only.
func (s *AuditService) Get(ctx context.Context, actor *policy.Actor, id uint) (*models.AuditLog, error) {
	if !policy.CanReadAuditLogs(actor) {
		return nil, e.ErrForbidden
	}
	return s.repo.GetAuditLog(ctx, id)
}

// List returns audit entries, most recent first. Admin only.
func (s *AuditService) List(ctx context.Context, actor *policy.Actor, filter db.AuditFilter, params db.ListParams) ([]models.AuditLog, int64, error) {
	if !policy.CanReadAuditLogs(actor) {
		return nil, 0, e.ErrForbidden
	}
	return s.repo.ListAuditLogs(ctx, filter, params)
}
