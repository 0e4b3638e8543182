package dto

import (
	"time"

	"github.com/fieldsrv/field_service_app/internal/core/domain"
)

// CreateVisitRequest defines the data needed to schedule a visit under a job.
type CreateVisitRequest struct {
	JobID          string    `json:"jobID" binding:"required"`
	AssigneeID     *string   `json:"assigneeID"`
	ScheduledStart time.Time `json:"scheduledStart" binding:"required"`
	ScheduledEnd   time.Time `json:"scheduledEnd" binding:"required,gtfield=ScheduledStart"`
}

// AssignVisitRequest sets or clears the visit's technician.
type AssignVisitRequest struct {
	AssigneeID *string `json:"assigneeID"`
}

// RescheduleVisitRequest moves the visit's scheduled window.
type RescheduleVisitRequest struct {
	ScheduledStart time.Time `json:"scheduledStart" binding:"required"`
	ScheduledEnd   time.Time `json:"scheduledEnd" binding:"required,gtfield=ScheduledStart"`
}

// TransitionVisitRequest asks for a visit status change.
type TransitionVisitRequest struct {
	Status domain.VisitStatus `json:"status" binding:"required"`
}
