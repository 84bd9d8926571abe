// Package audit observes requests and turns them into audit trail
// entries. Recording is strictly best-effort: the recorder must never
// fail or slow down the request it observes.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/gartstein/talent-verify/internal/registry/auth"
	"github.com/gartstein/talent-verify/internal/registry/models"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// maskedValue replaces credential fields in recorded request bodies.
const maskedValue = "********"

// maxRecordedBody bounds how much of a request body ends up in the
// audit trail.
const maxRecordedBody = 64 * 1024

// Sink persists audit entries. Implementations swallow their own
// errors.
type Sink interface {
	Record(ctx context.Context, entry *models.AuditLog)
}

// Recorder is request middleware that writes one audit entry per
// classifiable, authenticated request.
type Recorder struct {
	sink   Sink
	logger *zap.Logger
}

func NewRecorder(sink Sink, logger *zap.Logger) *Recorder {
	return &Recorder{
		sink:   sink,
		logger: logger.Named("audit_recorder"),
	}
}

// skippedPrefixes are request paths that never produce audit entries.
var skippedPrefixes = []string{
	"/static/",
	"/media/",
	"/favicon.ico",
	"/health",
}

// entityPrefixes maps route prefixes to the entity type recorded for
// them. Longer prefixes are matched first.
var entityPrefixes = []struct {
	prefix string
	entity string
}{
	{"/api/employment-history", "employment_history"},
	{"/api/user-profiles", "user_profile"},
	{"/api/audit-logs", "audit_log"},
	{"/api/companies", "company"},
	{"/api/employees", "employee"},
	{"/api/dashboard", "dashboard"},
	{"/api/search", "search"},
}

// classifyAction maps the HTTP method to an audit action.
func classifyAction(method string) models.AuditAction {
	switch method {
	case "POST":
		return models.ActionCreate
	case "PUT", "PATCH":
		return models.ActionUpdate
	case "DELETE":
		return models.ActionDelete
	case "GET":
		return models.ActionView
	default:
		return ""
	}
}

// classifyEntity resolves the entity type and, when the path carries
// one, the numeric entity ID.
func classifyEntity(path string) (string, *uint) {
	for _, candidate := range entityPrefixes {
		if !strings.HasPrefix(path, candidate.prefix) {
			continue
		}
		rest := strings.Trim(strings.TrimPrefix(path, candidate.prefix), "/")
		if segment, _, _ := strings.Cut(rest, "/"); segment != "" {
			if id, err := strconv.ParseUint(segment, 10, 64); err == nil {
				entityID := uint(id)
				return candidate.entity, &entityID
			}
		}
		return candidate.entity, nil
	}
	return "", nil
}

// maskBody parses a JSON request body and blanks credential fields.
// Non-JSON bodies are dropped from the record.
func maskBody(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}
	for key := range payload {
		switch strings.ToLower(key) {
		case "password", "password2", "old_password", "new_password":
			payload[key] = maskedValue
		}
	}
	masked, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return masked
}

type details struct {
	Method string          `json:"method"`
	Path   string          `json:"path"`
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body,omitempty"`
}

// Middleware returns the echo middleware. It buffers the request body,
// lets the handler run, then records the outcome for authenticated,
// classifiable requests. A recording failure never affects the
// response.
func (r *Recorder) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, prefix := range skippedPrefixes {
				if strings.HasPrefix(path, prefix) {
					return next(c)
				}
			}

			var body []byte
			if c.Request().Body != nil {
				body, _ = io.ReadAll(io.LimitReader(c.Request().Body, maxRecordedBody))
				c.Request().Body = io.NopCloser(bytes.NewReader(body))
			}

			err := next(c)

			r.record(c, path, body, err)
			return err
		}
	}
}

func (r *Recorder) record(c echo.Context, path string, body []byte, handlerErr error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("audit recording panicked", zap.Any("panic", rec))
		}
	}()

	actor := auth.ActorFromContext(c)
	if actor == nil {
		return
	}
	action := classifyAction(c.Request().Method)
	if action == "" {
		return
	}
	entity, entityID := classifyEntity(path)
	if entity == "" {
		return
	}

	status := c.Response().Status
	if handlerErr != nil {
		if httpErr, ok := handlerErr.(*echo.HTTPError); ok {
			status = httpErr.Code
		}
	}

	detail, err := json.Marshal(details{
		Method: c.Request().Method,
		Path:   path,
		Status: status,
		Body:   maskBody(body),
	})
	if err != nil {
		r.logger.Error("failed to encode audit details", zap.Error(err))
		return
	}

	accountID := actor.AccountID
	r.sink.Record(c.Request().Context(), &models.AuditLog{
		AccountID:  &accountID,
		Action:     action,
		EntityType: entity,
		EntityID:   entityID,
		Details:    datatypes.JSON(detail),
		IPAddress:  c.RealIP(),
	})
}
