package services

import (
	"log/slog"

	portsrepo "github.com/fieldsrv/field_service_app/internal/core/ports/repositories"
	portssvc "github.com/fieldsrv/field_service_app/internal/core/ports/services"
	"github.com/fieldsrv/field_service_app/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, logger *slog.Logger, repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Tenant service first since every other service authorizes through it.
	container.Tenant = NewTenantService(repos.TenantRepo)
	authorizer := container.Tenant.(portssvc.TenantAuthorizerSvc)

	container.Job = NewJobService(repos.JobRepo, repos.TxManager, authorizer)
	container.Visit = NewVisitService(repos.VisitRepo, repos.JobRepo, repos.TxManager, authorizer)
	container.Estimate = NewEstimateService(repos.EstimateRepo, repos.TxManager, authorizer)
	container.Invoice = NewInvoiceService(repos.InvoiceRepo, repos.PaymentRepo, repos.TxManager, authorizer)
	container.Automation = NewAutomationService(repos.AutomationRepo, repos.TxManager, authorizer, logger, cfg.AutomationPollInterval, cfg.AutomationRunBackoff)
	container.Audit = NewAuditService(repos.AuditRepo, authorizer)

	return container
}

// Compile-time interface implementation checks.
var (
	_ portssvc.TenantSvcFacade     = (*tenantService)(nil)
	_ portssvc.JobSvcFacade        = (*jobService)(nil)
	_ portssvc.VisitSvcFacade      = (*visitService)(nil)
	_ portssvc.EstimateSvcFacade   = (*estimateService)(nil)
	_ portssvc.InvoiceSvcFacade    = (*invoiceService)(nil)
	_ portssvc.AutomationSvcFacade = (*automationService)(nil)
	_ portssvc.AuditSvcFacade      = (*auditService)(nil)
)
