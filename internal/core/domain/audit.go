package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// AuditAction classifies what happened to the entity.
type AuditAction string

const (
	ActionInsert     AuditAction = "insert"
	ActionUpdate     AuditAction = "update"
	ActionDelete     AuditAction = "delete"
	ActionAutomation AuditAction = "automation"
)

// EntityType names the kind of entity an audit entry or transition refers to.
type EntityType string

const (
	EntityJob        EntityType = "job"
	EntityVisit      EntityType = "visit"
	EntityEstimate   EntityType = "estimate"
	EntityInvoice    EntityType = "invoice"
	EntityPayment    EntityType = "payment"
	EntityAutomation EntityType = "automation"
)

// AuditLogEntry is an append-only record of a mutation or automation side
// effect. Entries with a dedupe key double as the idempotency witness for the
// automation dispatcher: at most one entry may exist per
// (tenant, entity type, entity id, dedupe key).
type AuditLogEntry struct {
	EntryID    string          `json:"entryID"`
	TenantID   string          `json:"tenantID"`
	EntityType EntityType      `json:"entityType"`
	EntityID   string          `json:"entityID"`
	Action     AuditAction     `json:"action"`
	ActorID    string          `json:"actorID"`
	OldValue   json.RawMessage `json:"oldValue,omitempty"`
	NewValue   json.RawMessage `json:"newValue,omitempty"`
	DedupeKey  *string         `json:"dedupeKey,omitempty"`
	TraceID    string          `json:"traceID"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// VisitReminderDedupeKey is the dedupe key for visit reminder events; any
// prior entry for the visit suppresses another reminder.
const VisitReminderDedupeKey = "visit_reminder"

// InvoiceFollowupDedupeKey builds the dedupe key for one cadence step of an
// invoice follow-up, so each step fires at most once per invoice.
func InvoiceFollowupDedupeKey(stepDays int) string {
	return fmt.Sprintf("invoice_followup:step:%d", stepDays)
}
