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

// AuditHandler serves the read-only /api/audit-logs routes.
type AuditHandler struct {
	audits *controller.AuditService
	logger *zap.Logger
}

func NewAuditHandler(audits *controller.AuditService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		audits: audits,
		logger: logger.Named("audit_handler"),
	}
}

func (h *AuditHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	entry, err := h.audits.Get(c.Request().Context(), auth.ActorFromContext(c), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *AuditHandler) List(c echo.Context) error {
	params := listParams(c)
	filter := db.AuditFilter{
		Action:     models.AuditAction(c.QueryParam("action")),
		EntityType: c.QueryParam("entity_type"),
	}
	if accountID, err := strconv.ParseUint(c.QueryParam("account"), 10, 64); err == nil {
		filter.AccountID = uint(accountID)
	}

	entries, total, err := h.audits.List(c.Request().Context(), auth.ActorFromContext(c), filter, params)
	if err != nil {
		return httpError(err)
	}
	return paginated(c, params, total, entries)
}
