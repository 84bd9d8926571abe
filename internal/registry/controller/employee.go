package controller

import (
	"context"
	"fmt"

	"github.com/gartstein/talent-verify/internal/registry/db"
	e "github.com/gartstein/talent-verify/internal/registry/errors"
	"github.com/gartstein/talent-verify/internal/registry/events"
	"github.com/gartstein/talent-verify/internal/registry/models"
	"github.com/gartstein/talent-verify/internal/registry/policy"
	"go.uber.org/zap"
)

// EmployeeService manages employee records, their append-only
// employment history and the denormalized roster counters on
// companies.
type EmployeeService struct {
	repo     *db.Repository
	producer EventProducer
	logger   *zap.Logger
}

func NewEmployeeService(repo *db.Repository, producer EventProducer, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("employee_service"),
	}
}

func validateEmployee(employee *models.Employee) error {
	if employee.Name == "" {
		return fmt.Errorf("%w: name is required", e.ErrInvalidInput)
	}
	if employee.EmployeeID == "" {
		return fmt.Errorf("%w: employee id is required", e.ErrInvalidInput)
	}
	if employee.CompanyID == 0 {
		return fmt.Errorf("%w: company is required", e.ErrInvalidInput)
	}
	if employee.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", e.ErrInvalidInput)
	}
	return nil
}

// snapshot captures the employee's current position as a history row.
func snapshot(employee *models.Employee) *models.EmploymentHistory {
	return &models.EmploymentHistory{
		EmployeeID: employee.ID,
		CompanyID:  employee.CompanyID,
		Department: employee.Department,
		Role:       employee.Role,
		StartDate:  employee.StartDate,
		EndDate:    employee.EndDate,
		Duties:     employee.Duties,
	}
}

// refreshCount recomputes a company's employee count from the roster.
func refreshCount(ctx context.Context, repo *db.Repository, companyID uint) error {
	count, err := repo.CountEmployeesOfCompany(ctx, companyID)
	if err != nil {
		return err
	}
	return repo.SetEmployeeCount(ctx, companyID, int(count))
}

// Create adds an employee and writes the first history snapshot in the
// same transaction. The employer's roster count is refreshed as part
// of the transaction as well.
func (s *EmployeeService) Create(ctx context.Context, actor *policy.Actor, employee *models.Employee) (*models.Employee, error) {
	if !policy.CanAccessEmployee(actor, policy.ActionWrite, employee.CompanyID) {
		return nil, e.ErrForbidden
	}
	if err := validateEmployee(employee); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetCompany(ctx, employee.CompanyID); err != nil {
		return nil, err
	}

	err := s.repo.WithTransaction(ctx, func(repo *db.Repository) error {
		if err := repo.CreateEmployee(ctx, employee); err != nil {
			return err
		}
		if err := repo.CreateHistory(ctx, snapshot(employee)); err != nil {
			return err
		}
		return refreshCount(ctx, repo, employee.CompanyID)
	})
	if err != nil {
		return nil, err
	}

	s.producer.Produce(events.EntityCreated, EntityEmployee, employee.ID, employee)
	return employee, nil
}

// Get retrieves an employee with the employing company preloaded.
func (s *EmployeeService) Get(ctx context.Context, id uint) (*models.Employee, error) {
	return s.repo.GetEmployee(ctx, id)
}

func (s *EmployeeService) List(ctx context.Context, filter db.EmployeeFilter, params db.ListParams) ([]models.Employee, int64, error) {
	return s.repo.ListEmployees(ctx, filter, params)
}

// positionChanged reports whether the update touches any field that is
// part of the employment history record.
func positionChanged(update *models.EmployeeUpdate) bool {
	return update.CompanyID != nil ||
		update.Department != nil ||
		update.Role != nil ||
		update.StartDate != nil ||
		update.EndDate != nil ||
		update.ClearEndDate ||
		update.Duties != nil
}

// Update modifies an employee. A change to any position field appends
// a snapshot of the new position to the employment history; moving the
// employee between companies refreshes both roster counts.
func (s *EmployeeService) Update(ctx context.Context, actor *policy.Actor, update *models.EmployeeUpdate) (*models.Employee, error) {
	current, err := s.repo.GetEmployee(ctx, update.ID)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccessEmployee(actor, policy.ActionWrite, current.CompanyID) {
		return nil, e.ErrForbidden
	}
	if update.Name != nil && *update.Name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", e.ErrInvalidInput)
	}
	if update.EmployeeID != nil && *update.EmployeeID == "" {
		return nil, fmt.Errorf("%w: employee id must not be empty", e.ErrInvalidInput)
	}
	if update.CompanyID != nil {
		if _, err := s.repo.GetCompany(ctx, *update.CompanyID); err != nil {
			return nil, err
		}
	}

	var updated *models.Employee
	err = s.repo.WithTransaction(ctx, func(repo *db.Repository) error {
		if err := repo.UpdateEmployee(ctx, update); err != nil {
			return err
		}
		updated, err = repo.GetEmployee(ctx, update.ID)
		if err != nil {
			return err
		}
		if positionChanged(update) {
			if err := repo.CreateHistory(ctx, snapshot(updated)); err != nil {
				return err
			}
		}
		if update.CompanyID != nil && *update.CompanyID != current.CompanyID {
			if err := refreshCount(ctx, repo, current.CompanyID); err != nil {
				return err
			}
			return refreshCount(ctx, repo, updated.CompanyID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.producer.Produce(events.EntityUpdated, EntityEmployee, updated.ID, updated)
	return updated, nil
}

// Delete removes an employee and their history rows, then refreshes
// the employer's roster count.
func (s *EmployeeService) Delete(ctx context.Context, actor *policy.Actor, id uint) error {
	current, err := s.repo.GetEmployee(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanAccessEmployee(actor, policy.ActionWrite, current.CompanyID) {
		return e.ErrForbidden
	}

	err = s.repo.WithTransaction(ctx, func(repo *db.Repository) error {
		if err := repo.DeleteEmployee(ctx, id); err != nil {
			return err
		}
		return refreshCount(ctx, repo, current.CompanyID)
	})
	if err != nil {
		return err
	}

	s.producer.Produce(events.EntityDeleted, EntityEmployee, id, nil)
	return nil
}

// GetHistory retrieves a single employment history row.
func (s *EmployeeService) GetHistory(ctx context.Context, id uint) (*models.EmploymentHistory, error) {
	return s.repo.GetHistory(ctx, id)
}

// ListHistories returns employment history rows, optionally filtered
// by employee or company.
func (s *EmployeeService) ListHistories(ctx context.Context, filter db.HistoryFilter, params db.ListParams) ([]models.EmploymentHistory, int64, error) {
	return s.repo.ListHistories(ctx, filter, params)
}
