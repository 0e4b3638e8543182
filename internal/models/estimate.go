package models

import "github.com/shopspring/decimal"

// Estimate represents a priced proposal sent to a client.
type Estimate struct {
	EstimateID         string  `json:"estimateID"` // Primary Key (UUID)
	TenantID           string  `json:"tenantID"`
	ClientID           string  `json:"clientID"`
	JobID              *string `json:"jobID"`
	Status             string  `json:"status"`
	Notes              string  `json:"notes"`
	TaxRateBPS         int64   `json:"taxRateBPS"`
	SubtotalCents      int64   `json:"subtotalCents"`
	TaxCents           int64   `json:"taxCents"`
	TotalCents         int64   `json:"totalCents"`
	ConvertedInvoiceID *string `json:"convertedInvoiceID"`
	AuditFields
}

// EstimateLineItem is one priced line on an estimate.
type EstimateLineItem struct {
	LineItemID     string          `json:"lineItemID"` // Primary Key (UUID)
	EstimateID     string          `json:"estimateID"`
	TenantID       string          `json:"tenantID"`
	Description    string          `json:"description"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPriceCents int64           `json:"unitPriceCents"`
	TotalCents     int64           `json:"totalCents"`
	Position       int             `json:"position"`
}
