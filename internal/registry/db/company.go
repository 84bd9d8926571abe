package db

import (
	"context"
	"errors"

	e "github.com/gartstein/talent-verify/internal/registry/errors"
	"github.com/gartstein/talent-verify/internal/registry/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	result := r.db.WithContext(ctx).Create(company)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrConflict
		}
		return result.Error
	}
	return nil
}

// CreateCompanies inserts a parsed import batch in a single transaction.
func (r *Repository) CreateCompanies(ctx context.Context, companies []*models.Company) error {
	if len(companies) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Create(companies)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrConflict
		}
		return result.Error
	}
	return nil
}

func (r *Repository) GetCompany(ctx context.Context, id uint) (*models.Company, error) {
	var company models.Company
	result := r.db.WithContext(ctx).First(&company, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &company, nil
}

// GetCompanyByName resolves a company by exact name; used by the
// bulk-import company reference lookup.
func (r *Repository) GetCompanyByName(ctx context.Context, name string) (*models.Company, error) {
	var company models.Company
	result := r.db.WithContext(ctx).First(&company, "name = ?", name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &company, nil
}

func (r *Repository) ListCompanies(ctx context.Context, params ListParams) ([]models.Company, int64, error) {
	params = params.Normalize()

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Company{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var companies []models.Company
	result := r.db.WithContext(ctx).
		Order("name").
		Limit(params.PageSize).
		Offset(params.offset()).
		Find(&companies)
	if result.Error != nil {
		return nil, 0, result.Error
	}
	return companies, total, nil
}

func (r *Repository) UpdateCompany(ctx context.Context, update *models.CompanyUpdate) error {
	values := map[string]interface{}{}
	if update.Name != nil {
		values["name"] = *update.Name
	}
	if update.RegistrationNumber != nil {
		values["registration_number"] = *update.RegistrationNumber
	}
	if update.RegistrationDate != nil {
		values["registration_date"] = *update.RegistrationDate
	}
	if update.Address != nil {
		values["address"] = *update.Address
	}
	if update.ContactPerson != nil {
		values["contact_person"] = *update.ContactPerson
	}
	if update.Departments != nil {
		values["departments"] = datatypes.NewJSONSlice(*update.Departments)
	}
	if update.Phone != nil {
		values["phone"] = *update.Phone
	}
	if update.Email != nil {
		values["email"] = *update.Email
	}
	if len(values) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&models.Company{}).
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

// DeleteCompany removes a company and everything that only makes sense
// under it: employment histories, employees, and the company reference
// on staff profiles (the profiles themselves survive). The whole
// cascade is one transaction.
func (r *Repository) DeleteCompany(ctx context.Context, id uint) error {
	return r.WithTransaction(ctx, func(tx *Repository) error {
		var company models.Company
		if err := tx.db.First(&company, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return e.ErrNotFound
			}
			return err
		}

		if err := tx.db.Where("company_id = ?", id).Delete(&models.EmploymentHistory{}).Error; err != nil {
			return err
		}
		if err := tx.db.Where("company_id = ?", id).Delete(&models.Employee{}).Error; err != nil {
			return err
		}
		if err := tx.db.Model(&models.UserProfile{}).
			Where("company_id = ?", id).
			Update("company_id", nil).Error; err != nil {
			return err
		}
		return tx.db.Delete(&models.Company{}, "id = ?", id).Error
	})
}

// TopCompaniesByEmployeeCount returns the n largest companies for the
// dashboard.
func (r *Repository) TopCompaniesByEmployeeCount(ctx context.Context, n int) ([]models.Company, error) {
	var companies []models.Company
	result := r.db.WithContext(ctx).
		Order("employee_count DESC").
		Limit(n).
		Find(&companies)
	return companies, result.Error
}

// SetEmployeeCount writes the denormalized roster counter.
func (r *Repository) SetEmployeeCount(ctx context.Context, companyID uint, count int) error {
	return r.db.WithContext(ctx).Model(&models.Company{}).
		Where("id = ?", companyID).
		Update("employee_count", count).Error
}

func (r *Repository) CountCompanies(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Company{}).Count(&count).Error
	return count, err
}
