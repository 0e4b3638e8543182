package repositories

import (
	"context"
	"time"

	"github.com/fieldsrv/field_service_app/internal/core/domain"
)

// VisitRepository defines persistence operations for visits.
type VisitRepository interface {
	// SaveVisit inserts a new visit row.
	SaveVisit(ctx context.Context, visit domain.Visit) error

	// FindVisitByID retrieves a visit scoped to the tenant.
	FindVisitByID(ctx context.Context, tenantID, visitID string) (*domain.Visit, error)

	// FindVisitByIDForUpdate retrieves a visit and locks its row. Must run
	// inside a transactional unit.
	FindVisitByIDForUpdate(ctx context.Context, tenantID, visitID string) (*domain.Visit, error)

	// UpdateVisit updates assignee and scheduled window.
	UpdateVisit(ctx context.Context, visit domain.Visit) error

	// UpdateVisitStatus moves a visit to a new status.
	UpdateVisitStatus(ctx context.Context, tenantID, visitID string, status domain.VisitStatus, updatedBy string, updatedAt time.Time) error

	// ListVisitsByJob retrieves all visits under a job, earliest first.
	ListVisitsByJob(ctx context.Context, tenantID, jobID string) ([]domain.Visit, error)

	// ListScheduledVisitsStartingBetween retrieves visits still in scheduled
	// status whose start falls in [from, to]. Used by the reminder automation.
	ListScheduledVisitsStartingBetween(ctx context.Context, tenantID string, from, to time.Time) ([]domain.Visit, error)
}
