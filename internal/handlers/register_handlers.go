package handlers

import (
	"github.com/fieldsrv/field_service_app/internal/core/domain"
	portssvc "github.com/fieldsrv/field_service_app/internal/core/ports/services"
	"github.com/fieldsrv/field_service_app/internal/middleware"
	"github.com/fieldsrv/field_service_app/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// registerCustomValidations adds domain enum checks to gin's binding validator
// so malformed values fail at bind time with a 400.
func registerCustomValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("paymentmethod", func(fl validator.FieldLevel) bool {
		return domain.PaymentMethod(fl.Field().String()).IsValid()
	})
	v.RegisterValidation("tenantrole", func(fl validator.FieldLevel) bool {
		return domain.TenantRole(fl.Field().String()).IsValid()
	})
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerCustomValidations()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	// Delegate route registration to specific handlers, passing required services
	registerTenantRoutes(v1, service.Tenant)
	registerJobRoutes(v1, service.Job, service.Visit, service.Audit)
	registerVisitRoutes(v1, service.Visit, service.Audit)
	registerEstimateRoutes(v1, service.Estimate, service.Audit)
	registerInvoiceRoutes(v1, service.Invoice, service.Audit)
	registerAutomationRoutes(v1, service.Automation)
}
