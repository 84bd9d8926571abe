package handlers

import (
	"net/http"
	"strconv"

	"github.com/gartstein/talent-verify/internal/registry/auth"
	"github.com/gartstein/talent-verify/internal/registry/controller"
	"github.com/gartstein/talent-verify/internal/registry/db"
	"github.com/gartstein/talent-verify/internal/registry/models"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// EmployeeHandler serves /api/employees and the read-only
// /api/employment-history routes.
type EmployeeHandler struct {
	employees *controller.EmployeeService
	logger    *zap.Logger
}

func NewEmployeeHandler(employees *controller.EmployeeService, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		employees: employees,
		logger:    logger.Named("employee_handler"),
	}
}

type employeeRequest struct {
	Name       string `json:"name"`
	EmployeeID string `json:"employee_id"`
	CompanyID  uint   `json:"company_id"`
	Department string `json:"department"`
	Role       string `json:"role"`
	StartDate  date   `json:"start_date"`
	EndDate    *date  `json:"end_date"`
	Duties     string `json:"duties"`
}

type employeeUpdateRequest struct {
	Name       *string      `json:"name"`
	EmployeeID *string      `json:"employee_id"`
	CompanyID  *uint        `json:"company_id"`
	Department *string      `json:"department"`
	Role       *string      `json:"role"`
	StartDate  *date        `json:"start_date"`
	EndDate    optionalDate `json:"end_date"`
	Duties     *string      `json:"duties"`
}

func (h *EmployeeHandler) Create(c echo.Context) error {
	var in employeeRequest
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{"detail": "Invalid request body."})
	}

	employee := &models.Employee{
		Name:       in.Name,
		EmployeeID: in.EmployeeID,
		CompanyID:  in.CompanyID,
		Department: in.Department,
		Role:       in.Role,
		StartDate:  in.StartDate.Time,
		Duties:     in.Duties,
	}
	if in.EndDate != nil {
		employee.EndDate = &in.EndDate.Time
	}

	created, err := h.employees.Create(c.Request().Context(), auth.ActorFromContext(c), employee)
	if err != nil {
		return httpError(err)
	}
	// Reload with the company preloaded for the response.
	full, err := h.employees.Get(c.Request().Context(), created.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, toEmployeeResponse(full))
}

func (h *EmployeeHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	employee, err := h.employees.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(employee))
}

func (h *EmployeeHandler) List(c echo.Context) error {
	params := listParams(c)
	filter := db.EmployeeFilter{Department: c.QueryParam("department")}
	if companyID, err := strconv.ParseUint(c.QueryParam("company"), 10, 64); err == nil {
		filter.CompanyID = uint(companyID)
	}

	employees, total, err := h.employees.List(c.Request().Context(), filter, params)
	if err != nil {
		return httpError(err)
	}
	return paginated(c, params, total, toEmployeeResponses(employees))
}

func (h *EmployeeHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var in employeeUpdateRequest
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{"detail": "Invalid request body."})
	}

	update := &models.EmployeeUpdate{
		ID:         id,
		Name:       in.Name,
		EmployeeID: in.EmployeeID,
		CompanyID:  in.CompanyID,
		Department: in.Department,
		Role:       in.Role,
		Duties:     in.Duties,
	}
	if in.StartDate != nil {
		update.StartDate = &in.StartDate.Time
	}
	if in.EndDate.Set {
		if in.EndDate.Value != nil {
			update.EndDate = &in.EndDate.Value.Time
		} else {
			update.ClearEndDate = true
		}
	}

	updated, err := h.employees.Update(c.Request().Context(), auth.ActorFromContext(c), update)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(updated))
}

func (h *EmployeeHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.employees.Delete(c.Request().Context(), auth.ActorFromContext(c), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *EmployeeHandler) GetHistory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	history, err := h.employees.GetHistory(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toHistoryResponse(history))
}

func (h *EmployeeHandler) ListHistories(c echo.Context) error {
	params := listParams(c)
	filter := db.HistoryFilter{}
	if employeeID, err := strconv.ParseUint(c.QueryParam("employee"), 10, 64); err == nil {
		filter.EmployeeID = uint(employeeID)
	}
	if companyID, err := strconv.ParseUint(c.QueryParam("company"), 10, 64); err == nil {
		filter.CompanyID = uint(companyID)
	}

	histories, total, err := h.employees.ListHistories(c.Request().Context(), filter, params)
	if err != nil {
		return httpError(err)
	}
	return paginated(c, params, total, toHistoryResponses(histories))
}
