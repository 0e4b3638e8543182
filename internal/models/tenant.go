package models

// Tenant represents one isolated customer account of the platform.
type Tenant struct {
	TenantID string `json:"tenantID"` // Primary Key (UUID)
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
	AuditFields
}

// TenantMembership links an actor to a tenant with a role.
type TenantMembership struct {
	TenantID string `json:"tenantID"`
	ActorID  string `json:"actorID"`
	Role     string `json:"role"`
	AuditFields
}
