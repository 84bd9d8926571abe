package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gartstein/talent-verify/internal/registry/auth"
	"github.com/gartstein/talent-verify/internal/registry/controller"
	"github.com/gartstein/talent-verify/internal/registry/policy"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UploadHandler serves the multipart bulk-upload endpoints.
type UploadHandler struct {
	imports *controller.ImportService
	logger  *zap.Logger
}

func NewUploadHandler(imports *controller.ImportService, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		imports: imports,
		logger:  logger.Named("upload_handler"),
	}
}

type importFunc func(ctx context.Context, actor *policy.Actor, filename string, r io.Reader) (*controller.ImportResult, error)

// ImportCompanies handles POST /api/companies/bulk-upload.
func (h *UploadHandler) ImportCompanies(c echo.Context) error {
	return h.handleUpload(c, h.imports.ImportCompanies, "companies")
}

// ImportEmployees handles POST /api/employees/bulk-upload.
func (h *UploadHandler) ImportEmployees(c echo.Context) error {
	return h.handleUpload(c, h.imports.ImportEmployees, "employees")
}

func (h *UploadHandler) handleUpload(c echo.Context, run importFunc, noun string) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{"detail": "A file upload is required."})
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("failed to open upload", zap.Error(err), zap.String("filename", fileHeader.Filename))
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{"detail": "Could not read uploaded file."})
	}
	defer file.Close()

	result, err := run(c.Request().Context(), auth.ActorFromContext(c), fileHeader.Filename, file)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": fmt.Sprintf("%d %s created successfully", result.Created, noun),
		"created": result.Created,
	})
}
