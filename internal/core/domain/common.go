package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // Actor ID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // Actor ID reference
}

// SystemActorID is the actor recorded for mutations performed by the
// automation dispatcher rather than an interactive caller.
const SystemActorID = "system:automation"

// TenantContext captures the identity triple for a unit of work. It is built
// by the auth middleware (or synthesized by the dispatcher) and threaded
// through every service call so storage-layer isolation can be re-enforced.
type TenantContext struct {
	TenantID string
	ActorID  string
	Role     TenantRole
	TraceID  string
}

// SystemContext returns a TenantContext for dispatcher work scoped to one tenant.
func SystemContext(tenantID, traceID string) TenantContext {
	return TenantContext{
		TenantID: tenantID,
		ActorID:  SystemActorID,
		Role:     RoleAdmin,
		TraceID:  traceID,
	}
}
