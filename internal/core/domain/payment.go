package domain

import "time"

// PaymentMethod identifies how a payment was made.
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodCheck    PaymentMethod = "check"
	MethodCard     PaymentMethod = "card"
	MethodTransfer PaymentMethod = "transfer"
	MethodOther    PaymentMethod = "other"
)

// IsValid reports whether the method is one of the known payment methods.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCash, MethodCheck, MethodCard, MethodTransfer, MethodOther:
		return true
	}
	return false
}

// Payment is an append-only record against an invoice. Payments have no
// status of their own; the invoice's paid total is recomputed from them.
type Payment struct {
	PaymentID      string        `json:"paymentID"`
	TenantID       string        `json:"tenantID"`
	InvoiceID      string        `json:"invoiceID"`
	AmountCents    int64         `json:"amountCents"`
	Method         PaymentMethod `json:"method"`
	ReceivedAt     time.Time     `json:"receivedAt"`
	IdempotencyKey *string       `json:"idempotencyKey,omitempty"`
	AuditFields
}

// PaymentResult is returned by the reconciler. Created is false when an
// idempotency-key replay returned a previously stored payment.
type PaymentResult struct {
	Payment       Payment       `json:"payment"`
	Created       bool          `json:"created"`
	InvoiceStatus InvoiceStatus `json:"invoiceStatus"`
	PaidCents     int64         `json:"paidCents"`
	BalanceCents  int64         `json:"balanceCents"`
}
