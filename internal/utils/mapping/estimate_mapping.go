package mapping

import (
	"github.com/fieldsrv/field_service_app/internal/core/domain"
	"github.com/fieldsrv/field_service_app/internal/models"
)

// ToModelEstimate converts a domain Estimate to a model Estimate.
// Line items are mapped separately.
func ToModelEstimate(d domain.Estimate) models.Estimate {
	return models.Estimate{
		EstimateID:         d.EstimateID,
		TenantID:           d.TenantID,
		ClientID:           d.ClientID,
		JobID:              d.JobID,
		Status:             string(d.Status),
		Notes:              d.Notes,
		TaxRateBPS:         d.TaxRateBPS,
		SubtotalCents:      d.SubtotalCents,
		TaxCents:           d.TaxCents,
		TotalCents:         d.TotalCents,
		ConvertedInvoiceID: d.ConvertedInvoiceID,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEstimate converts a model Estimate to a domain Estimate
func ToDomainEstimate(m models.Estimate) domain.Estimate {
	return domain.Estimate{
		EstimateID:         m.EstimateID,
		TenantID:           m.TenantID,
		ClientID:           m.ClientID,
		JobID:              m.JobID,
		Status:             domain.EstimateStatus(m.Status),
		Notes:              m.Notes,
		TaxRateBPS:         m.TaxRateBPS,
		SubtotalCents:      m.SubtotalCents,
		TaxCents:           m.TaxCents,
		TotalCents:         m.TotalCents,
		ConvertedInvoiceID: m.ConvertedInvoiceID,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelEstimateLineItem converts a domain EstimateLineItem to its model
func ToModelEstimateLineItem(tenantID string, d domain.EstimateLineItem) models.EstimateLineItem {
	return models.EstimateLineItem{
		LineItemID:     d.LineItemID,
		EstimateID:     d.EstimateID,
		TenantID:       tenantID,
		Description:    d.Description,
		Quantity:       d.Quantity,
		UnitPriceCents: d.UnitPriceCents,
		TotalCents:     d.TotalCents,
		Position:       d.Position,
	}
}

// ToDomainEstimateLineItem converts a model EstimateLineItem to its domain form
func ToDomainEstimateLineItem(m models.EstimateLineItem) domain.EstimateLineItem {
	return domain.EstimateLineItem{
		LineItemID:     m.LineItemID,
		EstimateID:     m.EstimateID,
		Description:    m.Description,
		Quantity:       m.Quantity,
		UnitPriceCents: m.UnitPriceCents,
		TotalCents:     m.TotalCents,
		Position:       m.Position,
	}
}
