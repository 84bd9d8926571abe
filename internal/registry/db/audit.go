package db

import (
	"context"
	"errors"

	e "github.com/gartstein/talent-verify/internal/registry/errors"
	"github.com/gartstein/talent-verify/internal/registry/models"
	"gorm.io/gorm"
)

// CreateAuditLog appends an audit entry. The application never updates
// or deletes audit rows.
func (r *Repository) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *Repository) GetAuditLog(ctx context.Context, id uint) (*models.AuditLog, error) {
	var entry models.AuditLog
	result := r.db.WithContext(ctx).Preload("Account").First(&entry, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &entry, nil
}

// AuditFilter narrows ListAuditLogs; zero values mean "no filter".
type AuditFilter struct {
	AccountID  uint
	Action     models.AuditAction
	EntityType string
}

func (r *Repository) ListAuditLogs(ctx context.Context, filter AuditFilter, params ListParams) ([]models.AuditLog, int64, error) {
	params = params.Normalize()

	query := r.db.WithContext(ctx).Model(&models.AuditLog{})
	if filter.AccountID != 0 {
		query = query.Where("account_id = ?", filter.AccountID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.AuditLog
	result := query.
		Preload("Account").
		Order("created_at DESC").
		Limit(params.PageSize).
		Offset(params.offset()).
		Find(&entries)
	if result.Error != nil {
		return nil, 0, result.Error
	}
	return entries, total, nil
}

// RecentAuditLogs returns the n most recent entries for the dashboard.
func (r *Repository) RecentAuditLogs(ctx context.Context, n int) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	result := r.db.WithContext(ctx).
		Preload("Account").
		Order("created_at DESC").
		Limit(n).
		Find(&entries)
	return entries, result.Error
}
