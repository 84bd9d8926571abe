package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gartstein/talent-verify/internal/registry/controller"
	"github.com/gartstein/talent-verify/internal/registry/db"
	e "github.com/gartstein/talent-verify/internal/registry/errors"
	"github.com/gartstein/talent-verify/internal/registry/models"
	"github.com/labstack/echo/v4"
)

// page is the envelope every list endpoint responds with.
type page struct {
	Count    int64       `json:"count"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Results  interface{} `json:"results"`
}

func paginated(c echo.Context, params db.ListParams, total int64, results interface{}) error {
	params = params.Normalize()
	return c.JSON(http.StatusOK, page{
		Count:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
		Results:  results,
	})
}

// listParams reads page/page_size from the query string. Bounds are
// clamped by the repository.
func listParams(c echo.Context) db.ListParams {
	pageNum, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	return db.ListParams{Page: pageNum, PageSize: pageSize}
}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, echo.Map{"detail": "Invalid ID."})
	}
	return uint(id), nil
}

// httpError maps service errors onto HTTP status codes. Field-level
// validation failures keep their per-field messages.
func httpError(err error) error {
	var fieldErrs controller.FieldErrors
	if errors.As(err, &fieldErrs) {
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{
			"detail": "Validation failed",
			"errors": fieldErrs,
		})
	}

	switch {
	case errors.Is(err, e.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{"detail": err.Error()})
	case errors.Is(err, e.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, echo.Map{"detail": "Invalid credentials."})
	case errors.Is(err, e.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, echo.Map{"detail": "You do not have permission to perform this action."})
	case errors.Is(err, e.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, echo.Map{"detail": "Not found."})
	case errors.Is(err, e.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, echo.Map{"detail": "Conflict with existing record."})
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, echo.Map{"detail": "Internal server error."})
	}
}

// employeeResponse enriches an employee with its employer's name and
// the derived active flag.
type employeeResponse struct {
	models.Employee
	CompanyName string `json:"company_name"`
	IsActive    bool   `json:"is_active"`
}

func toEmployeeResponse(employee *models.Employee) employeeResponse {
	resp := employeeResponse{
		Employee: *employee,
		IsActive: employee.IsActive(),
	}
	if employee.Company != nil {
		resp.CompanyName = employee.Company.Name
	}
	return resp
}

func toEmployeeResponses(employees []models.Employee) []employeeResponse {
	out := make([]employeeResponse, 0, len(employees))
	for i := range employees {
		out = append(out, toEmployeeResponse(&employees[i]))
	}
	return out
}

// historyResponse enriches a history row with the display names of the
// employee and company it snapshots.
type historyResponse struct {
	models.EmploymentHistory
	EmployeeName string `json:"employee_name"`
	CompanyName  string `json:"company_name"`
	IsActive     bool   `json:"is_active"`
}

func toHistoryResponse(history *models.EmploymentHistory) historyResponse {
	resp := historyResponse{
		EmploymentHistory: *history,
		IsActive:          history.EndDate == nil,
	}
	if history.Employee != nil {
		resp.EmployeeName = history.Employee.Name
	}
	if history.Company != nil {
		resp.CompanyName = history.Company.Name
	}
	return resp
}

func toHistoryResponses(histories []models.EmploymentHistory) []historyResponse {
	out := make([]historyResponse, 0, len(histories))
	for i := range histories {
		out = append(out, toHistoryResponse(&histories[i]))
	}
	return out
}

// profileResponse enriches a profile with the owning account's
// username.
type profileResponse struct {
	models.UserProfile
	Username string `json:"username"`
}

func toProfileResponse(profile *models.UserProfile) profileResponse {
	resp := profileResponse{UserProfile: *profile}
	if profile.Account != nil {
		resp.Username = profile.Account.Username
	}
	return resp
}

func toProfileResponses(profiles []models.UserProfile) []profileResponse {
	out := make([]profileResponse, 0, len(profiles))
	for i := range profiles {
		out = append(out, toProfileResponse(&profiles[i]))
	}
	return out
}
