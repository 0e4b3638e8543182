package repositories

import (
	"context"
	"time"

	"github.com/fieldsrv/field_service_app/internal/core/domain"
)

// AutomationRepository defines persistence operations for automation definitions.
type AutomationRepository interface {
	// SaveAutomation inserts a new definition.
	SaveAutomation(ctx context.Context, def domain.AutomationDefinition) error

	// FindAutomationByID retrieves a definition scoped to the tenant.
	FindAutomationByID(ctx context.Context, tenantID, automationID string) (*domain.AutomationDefinition, error)

	// UpdateAutomation updates enabled flag and config.
	UpdateAutomation(ctx context.Context, def domain.AutomationDefinition) error

	// ListAutomationsByTenant retrieves all definitions for a tenant.
	ListAutomationsByTenant(ctx context.Context, tenantID string) ([]domain.AutomationDefinition, error)

	// FindDueAutomations retrieves enabled definitions across all tenants
	// with next_run_at at or before asOf. Dispatcher use only.
	FindDueAutomations(ctx context.Context, asOf time.Time, limit int) ([]domain.AutomationDefinition, error)

	// UpdateRunTimestamps advances the definition's schedule bookkeeping.
	UpdateRunTimestamps(ctx context.Context, automationID string, lastRunAt, nextRunAt time.Time) error
}
