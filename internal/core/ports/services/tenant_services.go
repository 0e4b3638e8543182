package services

import (
	"context"

	"github.com/fieldsrv/field_service_app/internal/core/domain"
	"github.com/fieldsrv/field_service_app/internal/dto"
)

// TenantReaderSvc defines read operations for tenant data
type TenantReaderSvc interface {
	// GetTenantByID retrieves a tenant by its ID.
	GetTenantByID(ctx context.Context, tctx domain.TenantContext, tenantID string) (*domain.Tenant, error)

	// ListMembers retrieves all memberships for the tenant.
	ListMembers(ctx context.Context, tctx domain.TenantContext) ([]domain.TenantMembership, error)
}

// TenantWriterSvc defines write operations for tenant data
type TenantWriterSvc interface {
	// CreateTenant provisions a new tenant with the creator as owner.
	CreateTenant(ctx context.Context, req dto.CreateTenantRequest, creatorActorID string) (*domain.Tenant, error)

	// AddMember grants an actor a role within the tenant.
	AddMember(ctx context.Context, tctx domain.TenantContext, req dto.AddMemberRequest) (*domain.TenantMembership, error)
}

// TenantAuthorizerSvc checks whether an actor may perform an action in a tenant.
type TenantAuthorizerSvc interface {
	// AuthorizeActorAction verifies the actor holds at least minRole in the
	// tenant. Returns apperrors.ErrForbidden on insufficient role and
	// apperrors.ErrNotFound when the membership does not exist.
	AuthorizeActorAction(ctx context.Context, tctx domain.TenantContext, minRole domain.TenantRole) error
}

// TenantSvcFacade combines all tenant-related service interfaces
type TenantSvcFacade interface {
	TenantReaderSvc
	TenantWriterSvc
	TenantAuthorizerSvc
}
