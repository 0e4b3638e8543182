package dto

import (
	"time"

	"github.com/fieldsrv/field_service_app/internal/core/domain"
)

// CreateInvoiceRequest defines the data needed to create a draft invoice directly.
type CreateInvoiceRequest struct {
	ClientID  string            `json:"clientID" binding:"required"`
	JobID     *string           `json:"jobID"`
	DueDate   time.Time         `json:"dueDate" binding:"required"`
	LineItems []LineItemRequest `json:"lineItems" binding:"required,min=1,dive"`
}

// ConvertEstimateRequest defines the data needed to convert an approved
// estimate into an invoice.
type ConvertEstimateRequest struct {
	DueDate time.Time `json:"dueDate" binding:"required"`
}

// TransitionInvoiceRequest asks for an invoice status change.
type TransitionInvoiceRequest struct {
	Status domain.InvoiceStatus `json:"status" binding:"required"`
}

// RecordPaymentRequest defines a proposed payment against an invoice.
type RecordPaymentRequest struct {
	AmountCents    int64                `json:"amountCents" binding:"required"`
	Method         domain.PaymentMethod `json:"method" binding:"required,paymentmethod"`
	ReceivedAt     *time.Time           `json:"receivedAt"`
	IdempotencyKey *string              `json:"idempotencyKey"`
}

// ListInvoicesResponse is the paginated invoice listing.
type ListInvoicesResponse struct {
	Invoices  []domain.Invoice `json:"invoices"`
	NextToken *string          `json:"nextToken,omitempty"`
}
