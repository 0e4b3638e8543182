package models

// Job represents a unit of work performed for a client.
type Job struct {
	JobID    string `json:"jobID"` // Primary Key (UUID)
	TenantID string `json:"tenantID"`
	ClientID string `json:"clientID"`
	Title    string `json:"title"`
	Notes    string `json:"notes"`
	Priority int    `json:"priority"`
	Status   string `json:"status"`
	AuditFields
}
