package services

import (
	"context"

	"github.com/fieldsrv/field_service_app/internal/core/domain"
	"github.com/fieldsrv/field_service_app/internal/dto"
)

// InvoiceReaderSvc defines read operations for invoice data
type InvoiceReaderSvc interface {
	// GetInvoiceByID retrieves a specific invoice with its line items.
	GetInvoiceByID(ctx context.Context, tctx domain.TenantContext, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves a paginated list of invoices in the tenant.
	ListInvoices(ctx context.Context, tctx domain.TenantContext, params dto.ListParams) (*dto.ListInvoicesResponse, error)

	// ListPayments retrieves all payments recorded against an invoice.
	ListPayments(ctx context.Context, tctx domain.TenantContext, invoiceID string) ([]domain.Payment, error)
}

// InvoiceWriterSvc defines write operations for invoice data
type InvoiceWriterSvc interface {
	// CreateInvoice persists a new draft invoice with computed totals.
	CreateInvoice(ctx context.Context, tctx domain.TenantContext, req dto.CreateInvoiceRequest) (*domain.Invoice, error)

	// TransitionInvoice moves the invoice to a new status if the edge is legal.
	TransitionInvoice(ctx context.Context, tctx domain.TenantContext, invoiceID string, target domain.InvoiceStatus) (*domain.Invoice, error)
}

// PaymentRecorderSvc records and removes payments against invoices
type PaymentRecorderSvc interface {
	// RecordPayment applies a payment to an invoice, updating its paid total
	// and deriving the resulting status in the same transaction. Replays of
	// the same idempotency key return the original result with Created false.
	RecordPayment(ctx context.Context, tctx domain.TenantContext, invoiceID string, req dto.RecordPaymentRequest) (*domain.PaymentResult, error)

	// DeletePayment removes a payment and recomputes the invoice's paid total
	// and status from the remaining payments.
	DeletePayment(ctx context.Context, tctx domain.TenantContext, invoiceID string, paymentID string) (*domain.Invoice, error)
}

// InvoiceSvcFacade combines all invoice-related service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
	PaymentRecorderSvc
}
