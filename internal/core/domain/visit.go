package domain

import "time"

// VisitStatus indicates where a visit sits in its lifecycle.
type VisitStatus string

const (
	VisitScheduled  VisitStatus = "scheduled"
	VisitArrived    VisitStatus = "arrived"
	VisitInProgress VisitStatus = "in_progress"
	VisitCompleted  VisitStatus = "completed"
	VisitCancelled  VisitStatus = "cancelled"
)

// Visit is a scheduled trip to a job site, optionally assigned to a technician.
type Visit struct {
	VisitID        string      `json:"visitID"`
	TenantID       string      `json:"tenantID"`
	JobID          string      `json:"jobID"`
	AssigneeID     *string     `json:"assigneeID,omitempty"`
	ScheduledStart time.Time   `json:"scheduledStart"`
	ScheduledEnd   time.Time   `json:"scheduledEnd"`
	Status         VisitStatus `json:"status"`
	AuditFields
}
