package services

import (
	"context"
	"time"

	"github.com/fieldsrv/field_service_app/internal/core/domain"
	"github.com/fieldsrv/field_service_app/internal/dto"
)

// EstimateReaderSvc defines read operations for estimate data
type EstimateReaderSvc interface {
	// GetEstimateByID retrieves a specific estimate with its line items.
	GetEstimateByID(ctx context.Context, tctx domain.TenantContext, estimateID string) (*domain.Estimate, error)

	// ListEstimates retrieves a paginated list of estimates in the tenant.
	ListEstimates(ctx context.Context, tctx domain.TenantContext, params dto.ListParams) (*dto.ListEstimatesResponse, error)
}

// EstimateWriterSvc defines write operations for estimate data
type EstimateWriterSvc interface {
	// CreateEstimate persists a new draft estimate with computed totals.
	CreateEstimate(ctx context.Context, tctx domain.TenantContext, req dto.CreateEstimateRequest) (*domain.Estimate, error)

	// UpdateEstimateItems replaces the line items of a draft estimate and
	// recomputes totals. Fails once the estimate has left draft.
	UpdateEstimateItems(ctx context.Context, tctx domain.TenantContext, estimateID string, req dto.UpdateEstimateItemsRequest) (*domain.Estimate, error)

	// UpdateEstimateNotes updates the notes, which stay mutable after send.
	UpdateEstimateNotes(ctx context.Context, tctx domain.TenantContext, estimateID string, notes string) (*domain.Estimate, error)

	// TransitionEstimate moves the estimate to a new status if the edge is legal.
	TransitionEstimate(ctx context.Context, tctx domain.TenantContext, estimateID string, target domain.EstimateStatus) (*domain.Estimate, error)
}

// EstimateConverterSvc converts approved estimates into invoices
type EstimateConverterSvc interface {
	// ConvertToInvoice creates an invoice from an approved estimate. Each
	// estimate converts at most once; repeated calls fail with a conflict.
	ConvertToInvoice(ctx context.Context, tctx domain.TenantContext, estimateID string, dueDate time.Time) (*domain.Invoice, error)
}

// EstimateSvcFacade combines all estimate-related service interfaces
type EstimateSvcFacade interface {
	EstimateReaderSvc
	EstimateWriterSvc
	EstimateConverterSvc
}
