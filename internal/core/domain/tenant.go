package domain

// TenantRole defines the role an actor has within a tenant.
type TenantRole string

const (
	RoleOwner    TenantRole = "owner"
	RoleAdmin    TenantRole = "admin"
	RoleMember   TenantRole = "member"
	RoleReadOnly TenantRole = "readonly"
)

// roleRank orders roles by privilege for HasAtLeast comparisons.
var roleRank = map[TenantRole]int{
	RoleReadOnly: 1,
	RoleMember:   2,
	RoleAdmin:    3,
	RoleOwner:    4,
}

// HasAtLeast reports whether the role grants at least the privileges of required.
func (r TenantRole) HasAtLeast(required TenantRole) bool {
	return roleRank[r] >= roleRank[required]
}

// IsValid reports whether the role is one of the known tenant roles.
func (r TenantRole) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// Tenant is an isolated customer account. Every other entity carries a
// tenant ID and every query is scoped by it.
type Tenant struct {
	TenantID string `json:"tenantID"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
	AuditFields
}

// TenantMembership links an actor to a tenant with a role.
type TenantMembership struct {
	TenantID string     `json:"tenantID"`
	ActorID  string     `json:"actorID"`
	Role     TenantRole `json:"role"`
	AuditFields
}
