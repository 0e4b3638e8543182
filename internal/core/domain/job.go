package domain

// JobStatus indicates where a job sits in its lifecycle.
type JobStatus string

const (
	JobDraft      JobStatus = "draft"
	JobQuoted     JobStatus = "quoted"
	JobScheduled  JobStatus = "scheduled"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobInvoiced   JobStatus = "invoiced"
	JobCancelled  JobStatus = "cancelled"
)

// JobPriority is a small ordinal; higher means more urgent.
type JobPriority int

const (
	PriorityLow    JobPriority = 1
	PriorityNormal JobPriority = 2
	PriorityHigh   JobPriority = 3
	PriorityUrgent JobPriority = 4
)

// IsValid reports whether the priority is within the supported range.
func (p JobPriority) IsValid() bool {
	return p >= PriorityLow && p <= PriorityUrgent
}

// Job is the top-level unit of field work for a client.
type Job struct {
	JobID    string      `json:"jobID"`
	TenantID string      `json:"tenantID"`
	ClientID string      `json:"clientID"`
	Title    string      `json:"title"`
	Notes    string      `json:"notes"`
	Priority JobPriority `json:"priority"`
	Status   JobStatus   `json:"status"`
	AuditFields
}
