package db

import (
	"context"
	"errors"

	e "github.com/gartstein/talent-verify/internal/registry/errors"
	"github.com/gartstein/talent-verify/internal/registry/models"
	"gorm.io/gorm"
)

func (r *Repository) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	result := r.db.WithContext(ctx).Create(employee)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrConflict
		}
		return result.Error
	}
	return nil
}

// CreateEmployees inserts a parsed import batch in a single statement.
func (r *Repository) CreateEmployees(ctx context.Context, employees []*models.Employee) error {
	if len(employees) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Create(employees)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrConflict
		}
		return result.Error
	}
	return nil
}

func (r *Repository) GetEmployee(ctx context.Context, id uint) (*models.Employee, error) {
	var employee models.Employee
	result := r.db.WithContext(ctx).Preload("Company").First(&employee, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &employee, nil
}

// EmployeeFilter narrows ListEmployees; zero values mean "no filter".
type EmployeeFilter struct {
	CompanyID  uint
	Department string
}

func (r *Repository) ListEmployees(ctx context.Context, filter EmployeeFilter, params ListParams) ([]models.Employee, int64, error) {
	params = params.Normalize()

	query := r.db.WithContext(ctx).Model(&models.Employee{})
	if filter.CompanyID != 0 {
		query = query.Where("company_id = ?", filter.CompanyID)
	}
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var employees []models.Employee
	result := query.
		Preload("Company").
		Order("start_date DESC, name").
		Limit(params.PageSize).
		Offset(params.offset()).
		Find(&employees)
	if result.Error != nil {
		return nil, 0, result.Error
	}
	return employees, total, nil
}

func (r *Repository) UpdateEmployee(ctx context.Context, update *models.EmployeeUpdate) error {
	values := map[string]interface{}{}
	if update.Name != nil {
		values["name"] = *update.Name
	}
	if update.EmployeeID != nil {
		values["employee_id"] = *update.EmployeeID
	}
	if update.CompanyID != nil {
		values["company_id"] = *update.CompanyID
	}
	if update.Department != nil {
		values["department"] = *update.Department
	}
	if update.Role != nil {
		values["role"] = *update.Role
	}
	if update.StartDate != nil {
		values["start_date"] = *update.StartDate
	}
	if update.EndDate != nil {
		values["end_date"] = *update.EndDate
	} else if update.ClearEndDate {
		values["end_date"] = nil
	}
	if update.Duties != nil {
		values["duties"] = *update.Duties
	}
	if len(values) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&models.Employee{}).
		Where("id = ?", update.ID).
		Updates(values)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrConflict
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// DeleteEmployee removes an employee and its history in one transaction.
func (r *Repository) DeleteEmployee(ctx context.Context, id uint) error {
	return r.WithTransaction(ctx, func(tx *Repository) error {
		if err := tx.db.Where("employee_id = ?", id).Delete(&models.EmploymentHistory{}).Error; err != nil {
			return err
		}
		result := tx.db.Delete(&models.Employee{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return e.ErrNotFound
		}
		return nil
	})
}

// RecentEmployees returns the n most recently created employees.
func (r *Repository) RecentEmployees(ctx context.Context, n int) ([]models.Employee, error) {
	var employees []models.Employee
	result := r.db.WithContext(ctx).
		Preload("Company").
		Order("created_at DESC").
		Limit(n).
		Find(&employees)
	return employees, result.Error
}

func (r *Repository) CountEmployees(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Employee{}).Count(&count).Error
	return count, err
}

func (r *Repository) CountActiveEmployees(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Employee{}).
		Where("end_date IS NULL").
		Count(&count).Error
	return count, err
}

// CountEmployeesOfCompany backs the denormalized roster counter.
func (r *Repository) CountEmployeesOfCompany(ctx context.Context, companyID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Employee{}).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count, err
}
