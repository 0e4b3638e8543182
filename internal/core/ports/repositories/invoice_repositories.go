package repositories

import (
	"context"
	"time"

	"github.com/fieldsrv/field_service_app/internal/core/domain"
)

// InvoiceReader defines read operations for invoice data.
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice with its line items.
	FindInvoiceByID(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error)

	// ListInvoicesByTenant retrieves a paginated list using token-based pagination.
	ListInvoicesByTenant(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Invoice, *string, error)

	// ListPayableInvoicesPastDue retrieves invoices in a payable status whose
	// due date is before asOf. Used by the follow-up automation.
	ListPayableInvoicesPastDue(ctx context.Context, tenantID string, asOf time.Time) ([]domain.Invoice, error)
}

// InvoiceWriter defines write operations for invoice data.
type InvoiceWriter interface {
	// SaveInvoice inserts an invoice together with its line items.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error

	// FindInvoiceByIDForUpdate retrieves the invoice header (no line items)
	// and locks its row. Required before any balance mutation: paid/status
	// derivation is a read-then-write sequence and concurrent writers must
	// serialize on the row lock.
	FindInvoiceByIDForUpdate(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error)

	// UpdateInvoiceStatus moves an invoice to a new status.
	UpdateInvoiceStatus(ctx context.Context, tenantID, invoiceID string, status domain.InvoiceStatus, updatedBy string, updatedAt time.Time) error

	// ApplyPaymentTotals persists a recomputed paid total with its derived
	// status and, when the invoice just became paid, the paid-at timestamp.
	ApplyPaymentTotals(ctx context.Context, tenantID, invoiceID string, paidCents int64, status domain.InvoiceStatus, paidAt *time.Time, updatedBy string, updatedAt time.Time) error
}

// InvoiceRepositoryFacade combines all invoice repository interfaces.
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}

// PaymentReader defines read operations for the payment ledger.
type PaymentReader interface {
	// FindPaymentByID retrieves a payment scoped to the tenant.
	FindPaymentByID(ctx context.Context, tenantID, paymentID string) (*domain.Payment, error)

	// FindPaymentByIdempotencyKey retrieves the payment previously stored for
	// the (invoice, key) pair, or ErrNotFound.
	FindPaymentByIdempotencyKey(ctx context.Context, tenantID, invoiceID, key string) (*domain.Payment, error)

	// ExistsRecentDuplicate reports whether a payment of identical amount and
	// method was recorded against the invoice at or after since.
	ExistsRecentDuplicate(ctx context.Context, tenantID, invoiceID string, amountCents int64, method domain.PaymentMethod, since time.Time) (bool, error)

	// SumPaymentsByInvoiceID recomputes the paid total from the ledger.
	SumPaymentsByInvoiceID(ctx context.Context, tenantID, invoiceID string) (int64, error)

	// CountPaymentsByInvoiceID counts payments recorded against the invoice.
	CountPaymentsByInvoiceID(ctx context.Context, tenantID, invoiceID string) (int, error)

	// ListPaymentsByInvoiceID retrieves the invoice's payments, oldest first.
	ListPaymentsByInvoiceID(ctx context.Context, tenantID, invoiceID string) ([]domain.Payment, error)
}

// PaymentWriter defines write operations for the payment ledger.
type PaymentWriter interface {
	// SavePayment appends a payment row.
	SavePayment(ctx context.Context, payment domain.Payment) error

	// DeletePayment removes a payment row. Callers enforce the non-terminal
	// invoice rule and recompute the invoice totals afterwards.
	DeletePayment(ctx context.Context, tenantID, paymentID string) error
}

// PaymentRepositoryFacade combines all payment repository interfaces.
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
