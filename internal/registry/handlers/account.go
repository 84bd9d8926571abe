package handlers

import (
	"errors"
	"net/http"

	"github.com/gartstein/talent-verify/internal/registry/controller"
	e "github.com/gartstein/talent-verify/internal/registry/errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AccountHandler serves self-registration and token issuance, the two
// unauthenticated endpoints.
type AccountHandler struct {
	accounts *controller.AccountService
	logger   *zap.Logger
}

func NewAccountHandler(accounts *controller.AccountService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		logger:   logger.Named("account_handler"),
	}
}

// Register handles POST /api/register.
func (h *AccountHandler) Register(c echo.Context) error {
	var in controller.RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{"detail": "Invalid request body."})
	}

	account, token, err := h.accounts.Register(c.Request().Context(), &in)
	if err != nil {
		var fieldErrs controller.FieldErrors
		if errors.As(err, &fieldErrs) {
			return echo.NewHTTPError(http.StatusBadRequest, echo.Map{
				"detail": "Registration failed",
				"errors": fieldErrs,
			})
		}
		h.logger.Error("registration failed", zap.Error(err))
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"user":  account,
		"token": token,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/token.
func (h *AccountHandler) Login(c echo.Context) error {
	var in loginRequest
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{"detail": "Invalid request body."})
	}
	if in.Username == "" || in.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{"detail": "Username and password are required."})
	}

	token, err := h.accounts.Login(c.Request().Context(), in.Username, in.Password)
	if err != nil {
		if !errors.Is(err, e.ErrUnauthorized) {
			h.logger.Error("login failed", zap.Error(err), zap.String("username", in.Username))
		}
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"token": token})
}
