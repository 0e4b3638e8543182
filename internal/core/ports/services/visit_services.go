package services

import (
	"context"

	"github.com/fieldsrv/field_service_app/internal/core/domain"
	"github.com/fieldsrv/field_service_app/internal/dto"
)

// VisitReaderSvc defines read operations for visit data
type VisitReaderSvc interface {
	// GetVisitByID retrieves a specific visit by its ID.
	GetVisitByID(ctx context.Context, tctx domain.TenantContext, visitID string) (*domain.Visit, error)

	// ListVisitsByJob retrieves all visits under a job.
	ListVisitsByJob(ctx context.Context, tctx domain.TenantContext, jobID string) ([]domain.Visit, error)
}

// VisitWriterSvc defines write operations for visit data
type VisitWriterSvc interface {
	// CreateVisit schedules a new visit under a job.
	CreateVisit(ctx context.Context, tctx domain.TenantContext, req dto.CreateVisitRequest) (*domain.Visit, error)

	// AssignVisit sets or clears the visit's assignee.
	AssignVisit(ctx context.Context, tctx domain.TenantContext, visitID string, assigneeID *string) (*domain.Visit, error)

	// RescheduleVisit moves the visit's scheduled window while it is still scheduled.
	RescheduleVisit(ctx context.Context, tctx domain.TenantContext, visitID string, req dto.RescheduleVisitRequest) (*domain.Visit, error)

	// TransitionVisit moves the visit to a new status if the edge is legal.
	TransitionVisit(ctx context.Context, tctx domain.TenantContext, visitID string, target domain.VisitStatus) (*domain.Visit, error)
}

// VisitSvcFacade combines all visit-related service interfaces
type VisitSvcFacade interface {
	VisitReaderSvc
	VisitWriterSvc
}
