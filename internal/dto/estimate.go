package dto

import (
	"github.com/fieldsrv/field_service_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineItemRequest defines one priced line on an estimate or invoice.
type LineItemRequest struct {
	Description    string          `json:"description" binding:"required"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	UnitPriceCents int64           `json:"unitPriceCents" binding:"required,min=0"`
}

// CreateEstimateRequest defines the data needed to create a draft estimate.
type CreateEstimateRequest struct {
	ClientID   string            `json:"clientID" binding:"required"`
	JobID      *string           `json:"jobID"`
	TaxRateBPS int64             `json:"taxRateBPS" binding:"omitempty,min=0,max=10000"`
	Notes      string            `json:"notes"`
	LineItems  []LineItemRequest `json:"lineItems" binding:"required,min=1,dive"`
}

// UpdateEstimateItemsRequest replaces a draft estimate's line items; totals
// are recomputed from them.
type UpdateEstimateItemsRequest struct {
	TaxRateBPS *int64            `json:"taxRateBPS" binding:"omitempty,min=0,max=10000"`
	LineItems  []LineItemRequest `json:"lineItems" binding:"required,min=1,dive"`
}

// UpdateEstimateNotesRequest updates the notes field, which stays mutable
// after the estimate is sent.
type UpdateEstimateNotesRequest struct {
	Notes string `json:"notes" binding:"required"`
}

// TransitionEstimateRequest asks for an estimate status change.
type TransitionEstimateRequest struct {
	Status domain.EstimateStatus `json:"status" binding:"required"`
}

// ListEstimatesResponse is the paginated estimate listing.
type ListEstimatesResponse struct {
	Estimates []domain.Estimate `json:"estimates"`
	NextToken *string           `json:"nextToken,omitempty"`
}
