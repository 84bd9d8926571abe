package handlers

import (
	"net/http"
	"time"

	"github.com/gartstein/talent-verify/internal/registry/controller"
	"github.com/gartstein/talent-verify/internal/registry/db"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SearchHandler serves /api/search and /api/dashboard.
type SearchHandler struct {
	search *controller.SearchService
	logger *zap.Logger
}

func NewSearchHandler(search *controller.SearchService, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		search: search,
		logger: logger.Named("search_handler"),
	}
}

// Search handles GET /api/search. All supplied criteria must match.
func (h *SearchHandler) Search(c echo.Context) error {
	params := listParams(c)
	filter := db.SearchFilter{
		Name:       c.QueryParam("name"),
		EmployeeID: c.QueryParam("employee_id"),
		Company:    c.QueryParam("company"),
		Department: c.QueryParam("department"),
		Role:       c.QueryParam("role"),
	}
	if from, err := time.Parse(dateLayout, c.QueryParam("start_date_from")); err == nil {
		filter.StartDateFrom = &from
	}
	if to, err := time.Parse(dateLayout, c.QueryParam("start_date_to")); err == nil {
		filter.StartDateTo = &to
	}
	switch c.QueryParam("is_active") {
	case "true":
		active := true
		filter.Active = &active
	case "false":
		active := false
		filter.Active = &active
	}

	employees, total, err := h.search.Search(c.Request().Context(), filter, params)
	if err != nil {
		return httpError(err)
	}
	return paginated(c, params, total, toEmployeeResponses(employees))
}

// Dashboard handles GET /api/dashboard.
func (h *SearchHandler) Dashboard(c echo.Context) error {
	dashboard, err := h.search.Dashboard(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dashboard)
}
