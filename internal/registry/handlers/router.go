package handlers

import (
	"github.com/gartstein/talent-verify/internal/registry/audit"
	"github.com/gartstein/talent-verify/internal/registry/auth"
	"github.com/gartstein/talent-verify/internal/registry/controller"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Services bundles the service layer for route registration.
type Services struct {
	Accounts  *controller.AccountService
	Companies *controller.CompanyService
	Employees *controller.EmployeeService
	Profiles  *controller.ProfileService
	Audits    *controller.AuditService
	Search    *controller.SearchService
	Imports   *controller.ImportService
}

// RegisterRoutes wires the API surface. Registration and token
// issuance are public; everything else requires a bearer token and is
// observed by the audit recorder.
func RegisterRoutes(e *echo.Echo, svcs Services, jwtSecret string, resolver auth.ActorResolver, recorder *audit.Recorder, logger *zap.Logger) {
	accountHandler := NewAccountHandler(svcs.Accounts, logger)
	companyHandler := NewCompanyHandler(svcs.Companies, logger)
	employeeHandler := NewEmployeeHandler(svcs.Employees, logger)
	profileHandler := NewProfileHandler(svcs.Profiles, logger)
	auditHandler := NewAuditHandler(svcs.Audits, logger)
	searchHandler := NewSearchHandler(svcs.Search, logger)
	uploadHandler := NewUploadHandler(svcs.Imports, logger)

	e.POST("/api/register", accountHandler.Register)
	e.POST("/api/auth/token", accountHandler.Login)

	api := e.Group("/api", auth.Middleware(jwtSecret, resolver), recorder.Middleware())

	api.GET("/companies", companyHandler.List)
	api.POST("/companies", companyHandler.Create)
	api.POST("/companies/bulk-upload", uploadHandler.ImportCompanies)
	api.GET("/companies/:id", companyHandler.Get)
	api.PUT("/companies/:id", companyHandler.Update)
	api.PATCH("/companies/:id", companyHandler.Update)
	api.DELETE("/companies/:id", companyHandler.Delete)

	api.GET("/employees", employeeHandler.List)
	api.POST("/employees", employeeHandler.Create)
	api.POST("/employees/bulk-upload", uploadHandler.ImportEmployees)
	api.GET("/employees/:id", employeeHandler.Get)
	api.PUT("/employees/:id", employeeHandler.Update)
	api.PATCH("/employees/:id", employeeHandler.Update)
	api.DELETE("/employees/:id", employeeHandler.Delete)

	api.GET("/employment-history", employeeHandler.ListHistories)
	api.GET("/employment-history/:id", employeeHandler.GetHistory)

	api.GET("/user-profiles", profileHandler.List)
	api.GET("/user-profiles/me", profileHandler.Me)
	api.GET("/user-profiles/:id", profileHandler.Get)
	api.PUT("/user-profiles/:id", profileHandler.Update)
	api.PATCH("/user-profiles/:id", profileHandler.Update)

	api.GET("/audit-logs", auditHandler.List)
	api.GET("/audit-logs/:id", auditHandler.Get)

	api.GET("/search", searchHandler.Search)
	api.GET("/dashboard", searchHandler.Dashboard)
}
