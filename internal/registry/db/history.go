package db

import (
	"context"
	"errors"

	e "github.com/gartstein/talent-verify/internal/registry/errors"
	"github.com/gartstein/talent-verify/internal/registry/models"
	"gorm.io/gorm"
)

// CreateHistory appends an employment history snapshot. Snapshots are
// never updated or deleted individually; they only go away with their
// employee or company.
func (r *Repository) CreateHistory(ctx context.Context, history *models.EmploymentHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

func (r *Repository) GetHistory(ctx context.Context, id uint) (*models.EmploymentHistory, error) {
	var history models.EmploymentHistory
	result := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Company").
		First(&history, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &history, nil
}

// HistoryFilter narrows ListHistories; zero values mean "no filter".
type HistoryFilter struct {
	EmployeeID uint
	CompanyID  uint
}

func (r *Repository) ListHistories(ctx context.Context, filter HistoryFilter, params ListParams) ([]models.EmploymentHistory, int64, error) {
	params = params.Normalize()

	query := r.db.WithContext(ctx).Model(&models.EmploymentHistory{})
	if filter.EmployeeID != 0 {
		query = query.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.CompanyID != 0 {
		query = query.Where("company_id = ?", filter.CompanyID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var histories []models.EmploymentHistory
	result := query.
		Preload("Employee").
		Preload("Company").
		Order("start_date DESC").
		Limit(params.PageSize).
		Offset(params.offset()).
		Find(&histories)
	if result.Error != nil {
		return nil, 0, result.Error
	}
	return histories, total, nil
}
