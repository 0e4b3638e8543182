package models

import (
	"encoding/json"
	"time"
)

// AuditLogEntry is one append-only row in the audit ledger.
type AuditLogEntry struct {
	EntryID    string          `json:"entryID"` // Primary Key (UUID)
	TenantID   string          `json:"tenantID"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityID"`
	Action     string          `json:"action"`
	OldValue   json.RawMessage `json:"oldValue"`
	NewValue   json.RawMessage `json:"newValue"`
	DedupeKey  *string         `json:"dedupeKey"`
	ActorID    string          `json:"actorID"`
	TraceID    string          `json:"traceID"`
	CreatedAt  time.Time       `json:"createdAt"`
}
