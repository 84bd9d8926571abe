package db

import (
	"context"
	"errors"

	e "github.com/gartstein/talent-verify/internal/registry/errors"
	"github.com/gartstein/talent-verify/internal/registry/models"
	"github.com/gartstein/talent-verify/internal/registry/policy"
	"gorm.io/gorm"
)

func (r *Repository) CreateAccount(ctx context.Context, account *models.Account) error {
	result := r.db.WithContext(ctx).Create(account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrConflict
		}
		return result.Error
	}
	return nil
}

func (r *Repository) GetAccount(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	result := r.db.WithContext(ctx).First(&account, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &account, nil
}

func (r *Repository) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	var account models.Account
	result := r.db.WithContext(ctx).First(&account, "username = ?", username)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &account, nil
}

func (r *Repository) CountAccounts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).Count(&count).Error
	return count, err
}

func (r *Repository) CreateProfile(ctx context.Context, profile *models.UserProfile) error {
	result := r.db.WithContext(ctx).Create(profile)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrConflict
		}
		return result.Error
	}
	return nil
}

func (r *Repository) GetProfile(ctx context.Context, id uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	result := r.db.WithContext(ctx).Preload("Account").First(&profile, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &profile, nil
}

func (r *Repository) GetProfileByAccount(ctx context.Context, accountID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	result := r.db.WithContext(ctx).First(&profile, "account_id = ?", accountID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &profile, nil
}

func (r *Repository) ListProfiles(ctx context.Context, params ListParams) ([]models.UserProfile, int64, error) {
	params = params.Normalize()

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.UserProfile{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []models.UserProfile
	result := r.db.WithContext(ctx).
		Preload("Account").
		Order("id").
		Limit(params.PageSize).
		Offset(params.offset()).
		Find(&profiles)
	if result.Error != nil {
		return nil, 0, result.Error
	}
	return profiles, total, nil
}

func (r *Repository) UpdateProfile(ctx context.Context, update *models.ProfileUpdate) error {
	values := map[string]interface{}{}
	if update.Role != nil {
		values["role"] = *update.Role
	}
	if update.CompanyID != nil {
		values["company_id"] = *update.CompanyID
	} else if update.ClearCompany {
		values["company_id"] = nil
	}
	if update.Phone != nil {
		values["phone"] = *update.Phone
	}
	if len(values) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&models.UserProfile{}).
		Where("id = ?", update.ID).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// ResolveActor loads the actor behind a validated account ID for the
// auth middleware. An account without a profile is still a valid actor;
// the policy denies it all mutating operations.
func (r *Repository) ResolveActor(ctx context.Context, accountID uint) (*policy.Actor, error) {
	if _, err := r.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}

	profile, err := r.GetProfileByAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return &policy.Actor{AccountID: accountID}, nil
		}
		return nil, err
	}
	return &policy.Actor{AccountID: accountID, Profile: profile}, nil
}
