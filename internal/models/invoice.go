package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice represents a bill issued to a client.
type Invoice struct {
	InvoiceID  string     `json:"invoiceID"` // Primary Key (UUID)
	TenantID   string     `json:"tenantID"`
	ClientID   string     `json:"clientID"`
	JobID      *string    `json:"jobID"`
	EstimateID *string    `json:"estimateID"`
	Status     string     `json:"status"`
	TotalCents int64      `json:"totalCents"`
	PaidCents  int64      `json:"paidCents"`
	DueDate    time.Time  `json:"dueDate"`
	PaidAt     *time.Time `json:"paidAt"`
	AuditFields
}

// InvoiceLineItem is one priced line on an invoice.
type InvoiceLineItem struct {
	LineItemID       string          `json:"lineItemID"` // Primary Key (UUID)
	InvoiceID        string          `json:"invoiceID"`
	TenantID         string          `json:"tenantID"`
	SourceLineItemID *string         `json:"sourceLineItemID"`
	Description      string          `json:"description"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPriceCents   int64           `json:"unitPriceCents"`
	TotalCents       int64           `json:"totalCents"`
	Position         int             `json:"position"`
}

// Payment is one recorded receipt of money against an invoice.
type Payment struct {
	PaymentID      string    `json:"paymentID"` // Primary Key (UUID)
	TenantID       string    `json:"tenantID"`
	InvoiceID      string    `json:"invoiceID"`
	AmountCents    int64     `json:"amountCents"`
	Method         string    `json:"method"`
	ReceivedAt     time.Time `json:"receivedAt"`
	IdempotencyKey *string   `json:"idempotencyKey"`
	AuditFields
}
