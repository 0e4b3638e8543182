package models

import (
	"encoding/json"
	"time"
)

// AutomationDefinition is a per-tenant automation rule. Config holds the
// type-specific settings as JSON.
type AutomationDefinition struct {
	AutomationID string          `json:"automationID"` // Primary Key (UUID)
	TenantID     string          `json:"tenantID"`
	Type         string          `json:"type"`
	Enabled      bool            `json:"enabled"`
	Config       json.RawMessage `json:"config"`
	NextRunAt    time.Time       `json:"nextRunAt"`
	LastRunAt    *time.Time      `json:"lastRunAt"`
	AuditFields
}
