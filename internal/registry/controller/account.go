package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/gartstein/talent-verify/internal/registry/auth"
	"github.com/gartstein/talent-verify/internal/registry/db"
	e "github.com/gartstein/talent-verify/internal/registry/errors"
	"github.com/gartstein/talent-verify/internal/registry/models"
	"go.uber.org/zap"
)

// AccountService handles registration and login. Every account gets
// exactly one profile, created in the same transaction as the account:
// the very first account becomes admin, later self-registrations
// become company managers.
type AccountService struct {
	repo      *db.Repository
	jwtSecret string
	logger    *zap.Logger
}

func NewAccountService(repo *db.Repository, jwtSecret string, logger *zap.Logger) *AccountService {
	return &AccountService{
		repo:      repo,
		jwtSecret: jwtSecret,
		logger:    logger.Named("account_service"),
	}
}

// RegisterInput carries the self-registration form.
type RegisterInput struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (in *RegisterInput) validate() FieldErrors {
	fieldErrs := FieldErrors{}
	if in.Username == "" {
		fieldErrs["username"] = "This field is required."
	}
	if in.Password == "" {
		fieldErrs["password"] = "This field is required."
	}
	if in.Password2 == "" {
		fieldErrs["password2"] = "This field is required."
	}
	if in.Email == "" {
		fieldErrs["email"] = "This field is required."
	}
	if in.FirstName == "" {
		fieldErrs["first_name"] = "This field is required."
	}
	if in.LastName == "" {
		fieldErrs["last_name"] = "This field is required."
	}
	if in.Password != "" && in.Password2 != "" && in.Password != in.Password2 {
		fieldErrs["password"] = "Password fields didn't match."
	}
	if len(fieldErrs) == 0 {
		return nil
	}
	return fieldErrs
}

// Register creates the account plus its profile and returns the new
// account with a bearer token. Validation failures come back as
// FieldErrors.
func (s *AccountService) Register(ctx context.Context, in *RegisterInput) (*models.Account, string, error) {
	if fieldErrs := in.validate(); fieldErrs != nil {
		return nil, "", fieldErrs
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
	}

	err = s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		if err := tx.CreateAccount(ctx, account); err != nil {
			return err
		}

		// The first account ever created administers the registry;
		// everyone after that self-registers as a company manager.
		total, err := tx.CountAccounts(ctx)
		if err != nil {
			return err
		}
		role := models.RoleCompanyManager
		if total == 1 {
			role = models.RoleAdmin
		}

		return tx.CreateProfile(ctx, &models.UserProfile{
			AccountID: account.ID,
			Role:      role,
		})
	})
	if err != nil {
		if errors.Is(err, e.ErrConflict) {
			return nil, "", FieldErrors{"username": "A user with that username already exists."}
		}
		return nil, "", fmt.Errorf("failed to register account: %w", err)
	}

	token, err := auth.GenerateToken(account.ID, s.jwtSecret)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("account registered",
		zap.Uint("account_id", account.ID),
		zap.String("username", account.Username),
	)
	return account, token, nil
}

// Login verifies the credentials and issues a bearer token.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, error) {
	account, err := s.repo.GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return "", fmt.Errorf("%w: bad credentials", e.ErrUnauthorized)
		}
		return "", fmt.Errorf("failed to load account: %w", err)
	}

	if !auth.CheckPassword(account.PasswordHash, password) {
		return "", fmt.Errorf("%w: bad credentials", e.ErrUnauthorized)
	}

	return auth.GenerateToken(account.ID, s.jwtSecret)
}
