package services

import (
	"context"

	"github.com/fieldsrv/field_service_app/internal/core/domain"
	"github.com/fieldsrv/field_service_app/internal/dto"
)

// AutomationReaderSvc defines read operations for automation definitions
type AutomationReaderSvc interface {
	// GetAutomationByID retrieves a specific automation definition.
	GetAutomationByID(ctx context.Context, tctx domain.TenantContext, automationID string) (*domain.AutomationDefinition, error)

	// ListAutomations retrieves all automation definitions in the tenant.
	ListAutomations(ctx context.Context, tctx domain.TenantContext) ([]domain.AutomationDefinition, error)
}

// AutomationWriterSvc defines write operations for automation definitions
type AutomationWriterSvc interface {
	// CreateAutomation persists a new automation definition after validating
	// its config against its type.
	CreateAutomation(ctx context.Context, tctx domain.TenantContext, req dto.CreateAutomationRequest) (*domain.AutomationDefinition, error)

	// UpdateAutomation updates the enabled flag and/or config of a definition.
	UpdateAutomation(ctx context.Context, tctx domain.TenantContext, automationID string, req dto.UpdateAutomationRequest) (*domain.AutomationDefinition, error)
}

// AutomationDispatcherSvc runs due automations across tenants
type AutomationDispatcherSvc interface {
	// ProcessDue evaluates every due automation definition once and dispatches
	// the actions that have not already been recorded. Returns the number of
	// actions dispatched.
	ProcessDue(ctx context.Context) (int, error)

	// RunForever polls for due automations on a fixed interval until the
	// context is cancelled.
	RunForever(ctx context.Context)
}

// AutomationSvcFacade combines all automation-related service interfaces
type AutomationSvcFacade interface {
	AutomationReaderSvc
	AutomationWriterSvc
	AutomationDispatcherSvc
}
