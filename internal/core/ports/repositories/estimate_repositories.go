package repositories

import (
	"context"
	"time"

	"github.com/fieldsrv/field_service_app/internal/core/domain"
)

// EstimateRepository defines persistence operations for estimates and their line items.
type EstimateRepository interface {
	// SaveEstimate inserts an estimate together with its line items.
	SaveEstimate(ctx context.Context, estimate domain.Estimate) error

	// FindEstimateByID retrieves an estimate with its line items.
	FindEstimateByID(ctx context.Context, tenantID, estimateID string) (*domain.Estimate, error)

	// FindEstimateByIDForUpdate retrieves an estimate with line items and
	// locks the estimate row. Must run inside a transactional unit.
	FindEstimateByIDForUpdate(ctx context.Context, tenantID, estimateID string) (*domain.Estimate, error)

	// ReplaceLineItems swaps the full line item set and rewrites the derived
	// totals. Only legal while the estimate is in draft.
	ReplaceLineItems(ctx context.Context, estimate domain.Estimate) error

	// UpdateEstimateNotes updates the notes field, the one field that stays
	// mutable after sending.
	UpdateEstimateNotes(ctx context.Context, tenantID, estimateID, notes, updatedBy string, updatedAt time.Time) error

	// UpdateEstimateStatus moves an estimate to a new status.
	UpdateEstimateStatus(ctx context.Context, tenantID, estimateID string, status domain.EstimateStatus, updatedBy string, updatedAt time.Time) error

	// SetConvertedInvoice records the one-time estimate-to-invoice conversion link.
	SetConvertedInvoice(ctx context.Context, tenantID, estimateID, invoiceID, updatedBy string, updatedAt time.Time) error

	// ListEstimatesByTenant retrieves a paginated list using token-based pagination.
	ListEstimatesByTenant(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Estimate, *string, error)
}
