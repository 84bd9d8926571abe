package handlers

import (
	"net/http"

	"github.com/gartstein/talent-verify/internal/registry/auth"
	"github.com/gartstein/talent-verify/internal/registry/controller"
	"github.com/gartstein/talent-verify/internal/registry/models"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CompanyHandler serves /api/companies.
type CompanyHandler struct {
	companies *controller.CompanyService
	logger    *zap.Logger
}

func NewCompanyHandler(companies *controller.CompanyService, logger *zap.Logger) *CompanyHandler {
	return &CompanyHandler{
		companies: companies,
		logger:    logger.Named("company_handler"),
	}
}

type companyRequest struct {
	Name               string   `json:"name"`
	RegistrationNumber string   `json:"registration_number"`
	RegistrationDate   date     `json:"registration_date"`
	Address            string   `json:"address"`
	ContactPerson      string   `json:"contact_person"`
	Departments        []string `json:"departments"`
	EmployeeCount      int      `json:"employee_count"`
	Phone              string   `json:"phone"`
	Email              string   `json:"email"`
}

type companyUpdateRequest struct {
	Name               *string   `json:"name"`
	RegistrationNumber *string   `json:"registration_number"`
	RegistrationDate   *date     `json:"registration_date"`
	Address            *string   `json:"address"`
	ContactPerson      *string   `json:"contact_person"`
	Departments        *[]string `json:"departments"`
	Phone              *string   `json:"phone"`
	Email              *string   `json:"email"`
}

func (h *CompanyHandler) Create(c echo.Context) error {
	var in companyRequest
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{"detail": "Invalid request body."})
	}

	company := &models.Company{
		Name:               in.Name,
		RegistrationNumber: in.RegistrationNumber,
		RegistrationDate:   in.RegistrationDate.Time,
		Address:            in.Address,
		ContactPerson:      in.ContactPerson,
		Departments:        in.Departments,
		EmployeeCount:      in.EmployeeCount,
		Phone:              in.Phone,
		Email:              in.Email,
	}

	created, err := h.companies.Create(c.Request().Context(), auth.ActorFromContext(c), company)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *CompanyHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	company, err := h.companies.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, company)
}

func (h *CompanyHandler) List(c echo.Context) error {
	params := listParams(c)
	companies, total, err := h.companies.List(c.Request().Context(), params)
	if err != nil {
		return httpError(err)
	}
	return paginated(c, params, total, companies)
}

func (h *CompanyHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var in companyUpdateRequest
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{"detail": "Invalid request body."})
	}

	update := &models.CompanyUpdate{
		ID:                 id,
		Name:               in.Name,
		RegistrationNumber: in.RegistrationNumber,
		Address:            in.Address,
		ContactPerson:      in.ContactPerson,
		Departments:        in.Departments,
		Phone:              in.Phone,
		Email:              in.Email,
	}
	if in.RegistrationDate != nil {
		update.RegistrationDate = &in.RegistrationDate.Time
	}

	updated, err := h.companies.Update(c.Request().Context(), auth.ActorFromContext(c), update)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *CompanyHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.companies.Delete(c.Request().Context(), auth.ActorFromContext(c), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
