package db

import (
	"context"
	"strings"
	"time"

	"github.com/gartstein/talent-verify/internal/registry/models"
)

// SearchFilter holds the conjunctive employee search criteria. String
// fields match as case-insensitive substrings; date bounds are
// inclusive; Active filters on the presence of an end date.
type SearchFilter struct {
	Name          string
	EmployeeID    string
	Company       string
	Department    string
	Role          string
	StartDateFrom *time.Time
	StartDateTo   *time.Time
	Active        *bool
}

func containsPattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

// SearchEmployees applies every non-zero filter conjunctively and
// returns one page of matches with the total match count.
func (r *Repository) SearchEmployees(ctx context.Context, filter SearchFilter, params ListParams) ([]models.Employee, int64, error) {
	params = params.Normalize()

	query := r.db.WithContext(ctx).Model(&models.Employee{})
	if filter.Name != "" {
		query = query.Where("LOWER(employees.name) LIKE ?", containsPattern(filter.Name))
	}
	if filter.EmployeeID != "" {
		query = query.Where("LOWER(employees.employee_id) LIKE ?", containsPattern(filter.EmployeeID))
	}
	if filter.Company != "" {
		query = query.
			Joins("JOIN companies ON companies.id = employees.company_id").
			Where("LOWER(companies.name) LIKE ?", containsPattern(filter.Company))
	}
	if filter.Department != "" {
		query = query.Where("LOWER(employees.department) LIKE ?", containsPattern(filter.Department))
	}
	if filter.Role != "" {
		query = query.Where("LOWER(employees.role) LIKE ?", containsPattern(filter.Role))
	}
	if filter.StartDateFrom != nil {
		query = query.Where("employees.start_date >= ?", *filter.StartDateFrom)
	}
	if filter.StartDateTo != nil {
		query = query.Where("employees.start_date <= ?", *filter.StartDateTo)
	}
	if filter.Active != nil {
		if *filter.Active {
			query = query.Where("employees.end_date IS NULL")
		} else {
			query = query.Where("employees.end_date IS NOT NULL")
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var employees []models.Employee
	result := query.
		Preload("Company").
		Order("employees.start_date DESC, employees.name").
		Limit(params.PageSize).
		Offset(params.offset()).
		Find(&employees)
	if result.Error != nil {
		return nil, 0, result.Error
	}
	return employees, total, nil
}
