package repositories

import (
	"context"

	"github.com/fieldsrv/field_service_app/internal/core/domain"
)

// TenantRepository defines persistence operations for tenants and memberships.
type TenantRepository interface {
	// SaveTenant inserts a new tenant.
	SaveTenant(ctx context.Context, tenant domain.Tenant) error

	// FindTenantByID retrieves a tenant.
	FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)

	// SaveMembership inserts or updates an actor's role in a tenant.
	SaveMembership(ctx context.Context, membership domain.TenantMembership) error

	// FindMembership retrieves the actor's membership, or ErrNotFound.
	FindMembership(ctx context.Context, tenantID, actorID string) (*domain.TenantMembership, error)

	// ListMembers retrieves all memberships of a tenant.
	ListMembers(ctx context.Context, tenantID string) ([]domain.TenantMembership, error)
}
