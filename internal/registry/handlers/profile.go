package handlers

import (
	"net/http"

	"github.com/gartstein/talent-verify/internal/registry/auth"
	"github.com/gartstein/talent-verify/internal/registry/controller"
	"github.com/gartstein/talent-verify/internal/registry/models"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProfileHandler serves /api/user-profiles.
type ProfileHandler struct {
	profiles *controller.ProfileService
	logger   *zap.Logger
}

func NewProfileHandler(profiles *controller.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		logger:   logger.Named("profile_handler"),
	}
}

type profileUpdateRequest struct {
	Role      *models.Role `json:"role"`
	CompanyID optionalID   `json:"company_id"`
	Phone     *string      `json:"phone"`
}

func (h *ProfileHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	profile, err := h.profiles.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

func (h *ProfileHandler) List(c echo.Context) error {
	params := listParams(c)
	profiles, total, err := h.profiles.List(c.Request().Context(), params)
	if err != nil {
		return httpError(err)
	}
	return paginated(c, params, total, toProfileResponses(profiles))
}

// Me serves the acting account's own profile.
func (h *ProfileHandler) Me(c echo.Context) error {
	profile, err := h.profiles.Me(c.Request().Context(), auth.ActorFromContext(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

func (h *ProfileHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var in profileUpdateRequest
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{"detail": "Invalid request body."})
	}

	update := &models.ProfileUpdate{
		ID:    id,
		Role:  in.Role,
		Phone: in.Phone,
	}
	if in.CompanyID.Set {
		if in.CompanyID.Value != nil {
			update.CompanyID = in.CompanyID.Value
		} else {
			update.ClearCompany = true
		}
	}

	updated, err := h.profiles.Update(c.Request().Context(), auth.ActorFromContext(c), update)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toProfileResponse(updated))
}
