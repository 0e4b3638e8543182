package domain

import "github.com/shopspring/decimal"

// EstimateStatus indicates where an estimate sits in its lifecycle.
type EstimateStatus string

const (
	EstimateDraft    EstimateStatus = "draft"
	EstimateSent     EstimateStatus = "sent"
	EstimateApproved EstimateStatus = "approved"
	EstimateDeclined EstimateStatus = "declined"
	EstimateExpired  EstimateStatus = "expired"
)

// EstimateLineItem is a single priced line on an estimate. Quantity may be
// fractional (e.g. 1.5 hours); money stays in integer minor units.
type EstimateLineItem struct {
	LineItemID     string          `json:"lineItemID"`
	EstimateID     string          `json:"estimateID"`
	Description    string          `json:"description"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPriceCents int64           `json:"unitPriceCents"`
	TotalCents     int64           `json:"totalCents"`
	Position       int             `json:"position"`
}

// ComputeTotal derives the line total as round(quantity x unit price).
func (li EstimateLineItem) ComputeTotal() int64 {
	return li.Quantity.Mul(decimal.NewFromInt(li.UnitPriceCents)).Round(0).IntPart()
}

// Estimate is a priced proposal for a job. Totals are always derived from the
// line items; they are never hand-edited independently.
type Estimate struct {
	EstimateID         string             `json:"estimateID"`
	TenantID           string             `json:"tenantID"`
	ClientID           string             `json:"clientID"`
	JobID              *string            `json:"jobID,omitempty"`
	LineItems          []EstimateLineItem `json:"lineItems,omitempty"`
	SubtotalCents      int64              `json:"subtotalCents"`
	TaxRateBPS         int64              `json:"taxRateBPS"` // basis points, e.g. 825 = 8.25%
	TaxCents           int64              `json:"taxCents"`
	TotalCents         int64              `json:"totalCents"`
	Notes              string             `json:"notes"`
	Status             EstimateStatus     `json:"status"`
	ConvertedInvoiceID *string            `json:"convertedInvoiceID,omitempty"`
	AuditFields
}

// RecalculateTotals recomputes each line total and the estimate's
// subtotal/tax/total from the line items. Callers must only invoke this while
// the estimate is in draft; sent estimates are frozen except for notes.
func (e *Estimate) RecalculateTotals() {
	var subtotal int64
	for i := range e.LineItems {
		e.LineItems[i].TotalCents = e.LineItems[i].ComputeTotal()
		subtotal += e.LineItems[i].TotalCents
	}
	e.SubtotalCents = subtotal
	e.TaxCents = decimal.NewFromInt(subtotal).
		Mul(decimal.NewFromInt(e.TaxRateBPS)).
		Div(decimal.NewFromInt(10000)).
		Round(0).IntPart()
	e.TotalCents = e.SubtotalCents + e.TaxCents
}
