package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus indicates where an invoice sits in its lifecycle.
type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "draft"
	InvoiceSent    InvoiceStatus = "sent"
	InvoicePartial InvoiceStatus = "partial"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
	InvoiceVoid    InvoiceStatus = "void"
)

// PayableInvoiceStatuses are the statuses in which an invoice accepts payments.
var PayableInvoiceStatuses = []InvoiceStatus{InvoiceSent, InvoicePartial, InvoiceOverdue}

// IsPayable reports whether the invoice status accepts payments.
func (s InvoiceStatus) IsPayable() bool {
	for _, p := range PayableInvoiceStatuses {
		if s == p {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the invoice status admits no further transitions.
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoicePaid || s == InvoiceVoid
}

// InvoiceLineItem is a billed line, optionally tracing back to the estimate
// line item it was copied from during conversion.
type InvoiceLineItem struct {
	LineItemID       string          `json:"lineItemID"`
	InvoiceID        string          `json:"invoiceID"`
	SourceLineItemID *string         `json:"sourceLineItemID,omitempty"`
	Description      string          `json:"description"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPriceCents   int64           `json:"unitPriceCents"`
	TotalCents       int64           `json:"totalCents"`
	Position         int             `json:"position"`
}

// Invoice bills a client for work. PaidCents is always recomputed as the sum
// of the invoice's payments, never incremented in place.
type Invoice struct {
	InvoiceID  string            `json:"invoiceID"`
	TenantID   string            `json:"tenantID"`
	ClientID   string            `json:"clientID"`
	JobID      *string           `json:"jobID,omitempty"`
	EstimateID *string           `json:"estimateID,omitempty"`
	LineItems  []InvoiceLineItem `json:"lineItems,omitempty"`
	TotalCents int64             `json:"totalCents"`
	PaidCents  int64             `json:"paidCents"`
	DueDate    time.Time         `json:"dueDate"`
	PaidAt     *time.Time        `json:"paidAt,omitempty"`
	Status     InvoiceStatus     `json:"status"`
	AuditFields
}

// BalanceCents is the remaining amount owed. It can go negative if an
// overpayment is ever represented; status clamps to paid in that case.
func (i Invoice) BalanceCents() int64 {
	return i.TotalCents - i.PaidCents
}

// DeriveInvoiceStatus computes the status implied by the paid total.
// Overpayment clamps to paid; zero paid leaves the current status unchanged.
func DeriveInvoiceStatus(totalCents, paidCents int64, current InvoiceStatus) InvoiceStatus {
	switch {
	case totalCents > 0 && paidCents >= totalCents:
		return InvoicePaid
	case paidCents > 0 && paidCents < totalCents:
		return InvoicePartial
	default:
		return current
	}
}
