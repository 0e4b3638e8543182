package models

import "time"

// Visit represents a scheduled on-site appointment under a job.
type Visit struct {
	VisitID        string    `json:"visitID"` // Primary Key (UUID)
	TenantID       string    `json:"tenantID"`
	JobID          string    `json:"jobID"`
	AssigneeID     *string   `json:"assigneeID"`
	ScheduledStart time.Time `json:"scheduledStart"`
	ScheduledEnd   time.Time `json:"scheduledEnd"`
	Status         string    `json:"status"`
	AuditFields
}
