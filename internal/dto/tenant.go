package dto

import (
	"github.com/fieldsrv/field_service_app/internal/core/domain"
)

// CreateTenantRequest defines the data needed to create a tenant.
type CreateTenantRequest struct {
	Name string `json:"name" binding:"required"`
}

// AddMemberRequest adds an actor to a tenant with a role.
type AddMemberRequest struct {
	ActorID string            `json:"actorID" binding:"required"`
	Role    domain.TenantRole `json:"role" binding:"required,tenantrole"`
}
