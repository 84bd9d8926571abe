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

// ProfileService exposes user profiles. Reads are open to any
// authenticated actor; mutation is reserved for admins, who use it to
// assign roles and company affiliations.
type ProfileService struct {
	repo     *db.Repository
	producer EventProducer
	logger   *zap.Logger
}

func NewProfileService(repo *db.Repository, producer EventProducer, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("profile_service"),
	}
}

func (s *ProfileService) Get(ctx context.Context, id uint) (*models.UserProfile, error) {
	return s.repo.GetProfile(ctx, id)
}

func (s *ProfileService) List(ctx context.Context, params db.ListParams) ([]models.UserProfile, int64, error) {
	return s.repo.ListProfiles(ctx, params)
}

// Me returns the profile of the acting account.
func (s *ProfileService) Me(ctx context.Context, actor *policy.Actor) (*models.UserProfile, error) {
	return s.repo.GetProfileByAccount(ctx, actor.AccountID)
}

// Update changes a profile's role, company affiliation or phone.
// Role changes are validated against the known role set, and a company
// assignment must reference an existing company.
func (s *ProfileService) Update(ctx context.Context, actor *policy.Actor, update *models.ProfileUpdate) (*models.UserProfile, error) {
	if !policy.CanAccessProfile(actor, policy.ActionWrite) {
		return nil, e.ErrForbidden
	}
	if update.Role != nil && !update.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", e.ErrInvalidInput, *update.Role)
	}
	if update.CompanyID != nil {
		if _, err := s.repo.GetCompany(ctx, *update.CompanyID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateProfile(ctx, update); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetProfile(ctx, update.ID)
	if err != nil {
		s.logger.Error("failed to reload profile after update",
			zap.Error(err),
			zap.Uint("profile_id", update.ID),
		)
		return nil, err
	}

	s.producer.Produce(events.EntityUpdated, EntityProfile, updated.ID, updated)
	return updated, nil
}
