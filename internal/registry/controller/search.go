package controller

import (
	"context"

	"github.com/gartstein/talent-verify/internal/registry/db"
	"github.com/gartstein/talent-verify/internal/registry/models"
	"go.uber.org/zap"
)

// Metrics are the registry-wide counters on the dashboard.
type Metrics struct {
	TotalCompanies    int64 `json:"total_companies"`
	TotalEmployees    int64 `json:"total_employees"`
	ActiveEmployees   int64 `json:"active_employees"`
	InactiveEmployees int64 `json:"inactive_employees"`
}

// Dashboard is the aggregate served to authenticated users.
type Dashboard struct {
	Metrics          Metrics           `json:"metrics"`
	TopCompanies     []models.Company  `json:"top_companies"`
	RecentEmployees  []models.Employee `json:"recent_employees"`
	RecentActivities []models.AuditLog `json:"recent_activities"`
}

// SearchService answers cross-entity verification queries and the
// dashboard aggregation.
type SearchService struct {
	repo   *db.Repository
	logger *zap.Logger
}

func NewSearchService(repo *db.Repository, logger *zap.Logger) *SearchService {
	return &SearchService{
		repo:   repo,
		logger: logger.Named("search_service"),
	}
}

// Search finds employees matching every supplied criterion.
func (s *SearchService) Search(ctx context.Context, filter db.SearchFilter, params db.ListParams) ([]models.Employee, int64, error) {
	return s.repo.SearchEmployees(ctx, filter, params)
}

// Dashboard collects registry-wide counts, the five largest employers,
// the five most recently added employees and the ten latest audit
// entries.
func (s *SearchService) Dashboard(ctx context.Context) (*Dashboard, error) {
	dashboard := &Dashboard{}

	var err error
	if dashboard.Metrics.TotalCompanies, err = s.repo.CountCompanies(ctx); err != nil {
		return nil, err
	}
	if dashboard.Metrics.TotalEmployees, err = s.repo.CountEmployees(ctx); err != nil {
		return nil, err
	}
	if dashboard.Metrics.ActiveEmployees, err = s.repo.CountActiveEmployees(ctx); err != nil {
		return nil, err
	}
	dashboard.Metrics.InactiveEmployees = dashboard.Metrics.TotalEmployees - dashboard.Metrics.ActiveEmployees

	if dashboard.TopCompanies, err = s.repo.TopCompaniesByEmployeeCount(ctx, 5); err != nil {
		return nil, err
	}
	if dashboard.RecentEmployees, err = s.repo.RecentEmployees(ctx, 5); err != nil {
		return nil, err
	}
	if dashboard.RecentActivities, err = s.repo.RecentAuditLogs(ctx, 10); err != nil {
		return nil, err
	}
	return dashboard, nil
}
