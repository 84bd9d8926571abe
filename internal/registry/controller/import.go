package controller

import (
	"context"
	"fmt"
	"io"

	"github.com/gartstein/talent-verify/internal/registry/bulk"
	"github.com/gartstein/talent-verify/internal/registry/db"
	e "github.com/gartstein/talent-verify/internal/registry/errors"
	"github.com/gartstein/talent-verify/internal/registry/models"
	"github.com/gartstein/talent-verify/internal/registry/policy"
	"go.uber.org/zap"
)

// ImportService ingests bulk uploads. Each upload is all-or-nothing:
// a single bad row rolls back the whole batch and the error names the
// offending row.
type ImportService struct {
	repo   *db.Repository
	logger *zap.Logger
}

func NewImportService(repo *db.Repository, logger *zap.Logger) *ImportService {
	return &ImportService{
		repo:   repo,
		logger: logger.Named("import_service"),
	}
}

// ImportResult reports how many rows an upload inserted.
type ImportResult struct {
	Created int `json:"created"`
}

// ImportCompanies parses and inserts company rows from an upload.
func (s *ImportService) ImportCompanies(ctx context.Context, actor *policy.Actor, filename string, r io.Reader) (*ImportResult, error) {
	if !policy.CanCreateCompany(actor) {
		return nil, e.ErrForbidden
	}

	rows, err := bulk.ParseCompanies(filename, r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: upload contains no data rows", e.ErrInvalidInput)
	}

	companies := make([]*models.Company, 0, len(rows))
	for _, row := range rows {
		companies = append(companies, &models.Company{
			Name:               row.Name,
			RegistrationNumber: row.RegistrationNumber,
			RegistrationDate:   row.RegistrationDate,
			Address:            row.Address,
			ContactPerson:      row.ContactPerson,
			Departments:        row.Departments,
			EmployeeCount:      row.EmployeeCount,
			Phone:              row.Phone,
			Email:              row.Email,
		})
	}

	if err := s.repo.CreateCompanies(ctx, companies); err != nil {
		return nil, err
	}

	s.logger.Info("imported companies",
		zap.Int("count", len(companies)),
		zap.String("filename", filename),
	)
	return &ImportResult{Created: len(companies)}, nil
}

// ImportEmployees parses and inserts employee rows. Each row's
// employer is resolved by ID when the file carries a company_id
// column, otherwise by exact company name; an unresolvable reference
// aborts the batch. Inserts, history snapshots and roster counter
// updates all happen in one transaction.
func (s *ImportService) ImportEmployees(ctx context.Context, actor *policy.Actor, filename string, r io.Reader) (*ImportResult, error) {
	if !policy.CanImportEmployees(actor) {
		return nil, e.ErrForbidden
	}

	rows, err := bulk.ParseEmployees(filename, r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: upload contains no data rows", e.ErrInvalidInput)
	}

	employees := make([]*models.Employee, 0, len(rows))
	touched := make(map[uint]struct{})
	for _, row := range rows {
		companyID, err := s.resolveCompany(ctx, row)
		if err != nil {
			return nil, err
		}
		touched[companyID] = struct{}{}
		employees = append(employees, &models.Employee{
			Name:       row.Name,
			EmployeeID: row.EmployeeID,
			CompanyID:  companyID,
			Department: row.Department,
			Role:       row.Role,
			StartDate:  row.StartDate,
			EndDate:    row.EndDate,
			Duties:     row.Duties,
		})
	}

	err = s.repo.WithTransaction(ctx, func(repo *db.Repository) error {
		if err := repo.CreateEmployees(ctx, employees); err != nil {
			return err
		}
		for _, employee := range employees {
			if err := repo.CreateHistory(ctx, snapshot(employee)); err != nil {
				return err
			}
		}
		for companyID := range touched {
			if err := refreshCount(ctx, repo, companyID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("imported employees",
		zap.Int("count", len(employees)),
		zap.String("filename", filename),
	)
	return &ImportResult{Created: len(employees)}, nil
}

// resolveCompany maps a parsed row to an existing company ID.
func (s *ImportService) resolveCompany(ctx context.Context, row bulk.EmployeeRow) (uint, error) {
	if row.CompanyID != 0 {
		company, err := s.repo.GetCompany(ctx, row.CompanyID)
		if err != nil {
			return 0, fmt.Errorf("%w: row %d: company not found: %d", e.ErrInvalidInput, row.Line, row.CompanyID)
		}
		return company.ID, nil
	}
	company, err := s.repo.GetCompanyByName(ctx, row.CompanyName)
	if err != nil {
		return 0, fmt.Errorf("%w: row %d: company not found: %s", e.ErrInvalidInput, row.Line, row.CompanyName)
	}
	return company.ID, nil
}
