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

// CompanyService provides methods to manage companies via repository
// operations and event production.
type CompanyService struct {
	repo     *db.Repository
	producer EventProducer
	logger   *zap.Logger
}

func NewCompanyService(repo *db.Repository, producer EventProducer, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("company_service"),
	}
}

func validateCompany(company *models.Company) error {
	if company.Name == "" {
		return fmt.Errorf("%w: name is required", e.ErrInvalidInput)
	}
	if company.RegistrationNumber == "" {
		return fmt.Errorf("%w: registration number is required", e.ErrInvalidInput)
	}
	if company.EmployeeCount < 0 {
		return fmt.Errorf("%w: employee count must not be negative", e.ErrInvalidInput)
	}
	return nil
}

// Create adds a new company after validating input data. Registration
// numbers are unique; a duplicate surfaces as a conflict.
func (s *CompanyService) Create(ctx context.Context, actor *policy.Actor, company *models.Company) (*models.Company, error) {
	if !policy.CanCreateCompany(actor) {
		return nil, e.ErrForbidden
	}
	if err := validateCompany(company); err != nil {
		return nil, err
	}

	if err := s.repo.CreateCompany(ctx, company); err != nil {
		return nil, err
	}

	s.producer.Produce(events.EntityCreated, EntityCompany, company.ID, company)
	return company, nil
}

// Get retrieves a company by ID, returning ErrNotFound if missing.
func (s *CompanyService) Get(ctx context.Context, id uint) (*models.Company, error) {
	return s.repo.GetCompany(ctx, id)
}

func (s *CompanyService) List(ctx context.Context, params db.ListParams) ([]models.Company, int64, error) {
	return s.repo.ListCompanies(ctx, params)
}

// Update modifies the specified company fields, then fetches the
// updated version for returning and event production.
func (s *CompanyService) Update(ctx context.Context, actor *policy.Actor, update *models.CompanyUpdate) (*models.Company, error) {
	if !policy.CanAccessCompany(actor, policy.ActionWrite, update.ID) {
		return nil, e.ErrForbidden
	}
	if update.Name != nil && *update.Name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", e.ErrInvalidInput)
	}
	if update.RegistrationNumber != nil && *update.RegistrationNumber == "" {
		return nil, fmt.Errorf("%w: registration number must not be empty", e.ErrInvalidInput)
	}

	if err := s.repo.UpdateCompany(ctx, update); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetCompany(ctx, update.ID)
	if err != nil {
		s.logger.Error("failed to reload company after update",
			zap.Error(err),
			zap.Uint("company_id", update.ID),
		)
		return nil, err
	}

	s.producer.Produce(events.EntityUpdated, EntityCompany, updated.ID, updated)
	return updated, nil
}

// Delete removes a company together with its employees and their
// histories; staff profiles only lose their company reference.
func (s *CompanyService) Delete(ctx context.Context, actor *policy.Actor, id uint) error {
	if !policy.CanAccessCompany(actor, policy.ActionWrite, id) {
		return e.ErrForbidden
	}

	if err := s.repo.DeleteCompany(ctx, id); err != nil {
		return err
	}

	s.producer.Produce(events.EntityDeleted, EntityCompany, id, nil)
	return nil
}
