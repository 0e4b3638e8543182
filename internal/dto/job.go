package dto

import (
	"github.com/fieldsrv/field_service_app/internal/core/domain"
)

// CreateJobRequest defines the data needed to create a new job.
type CreateJobRequest struct {
	ClientID string `json:"clientID" binding:"required"`
	Title    string `json:"title" binding:"required"`
	Notes    string `json:"notes"`
	Priority int    `json:"priority" binding:"omitempty,min=1,max=4"`
}

// UpdateJobRequest defines the data allowed for updating a job.
// Pointers distinguish zero-value updates from fields not provided.
type UpdateJobRequest struct {
	Title    *string `json:"title"`
	Notes    *string `json:"notes"`
	Priority *int    `json:"priority" binding:"omitempty,min=1,max=4"`
}

// TransitionJobRequest asks for a job status change.
type TransitionJobRequest struct {
	Status domain.JobStatus `json:"status" binding:"required"`
}

// ListJobsResponse is the paginated job listing.
type ListJobsResponse struct {
	Jobs      []domain.Job `json:"jobs"`
	NextToken *string      `json:"nextToken,omitempty"`
}
