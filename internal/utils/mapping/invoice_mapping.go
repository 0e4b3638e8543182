package mapping

import (
	"github.com/fieldsrv/field_service_app/internal/core/domain"
	"github.com/fieldsrv/field_service_app/internal/models"
)

// ToModelInvoice converts a domain Invoice to a model Invoice.
// Line items are mapped separately.
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:   d.InvoiceID,
		TenantID:    d.TenantID,
		ClientID:    d.ClientID,
		JobID:       d.JobID,
		EstimateID:  d.EstimateID,
		Status:      string(d.Status),
		TotalCents:  d.TotalCents,
		PaidCents:   d.PaidCents,
		DueDate:     d.DueDate,
		PaidAt:      d.PaidAt,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:   m.InvoiceID,
		TenantID:    m.TenantID,
		ClientID:    m.ClientID,
		JobID:       m.JobID,
		EstimateID:  m.EstimateID,
		Status:      domain.InvoiceStatus(m.Status),
		TotalCents:  m.TotalCents,
		PaidCents:   m.PaidCents,
		DueDate:     m.DueDate,
		PaidAt:      m.PaidAt,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelInvoiceLineItem converts a domain InvoiceLineItem to its model
func ToModelInvoiceLineItem(tenantID string, d domain.InvoiceLineItem) models.InvoiceLineItem {
	return models.InvoiceLineItem{
		LineItemID:       d.LineItemID,
		InvoiceID:        d.InvoiceID,
		TenantID:         tenantID,
		SourceLineItemID: d.SourceLineItemID,
		Description:      d.Description,
		Quantity:         d.Quantity,
		UnitPriceCents:   d.UnitPriceCents,
		TotalCents:       d.TotalCents,
		Position:         d.Position,
	}
}

// ToDomainInvoiceLineItem converts a model InvoiceLineItem to its domain form
func ToDomainInvoiceLineItem(m models.InvoiceLineItem) domain.InvoiceLineItem {
	return domain.InvoiceLineItem{
		LineItemID:       m.LineItemID,
		InvoiceID:        m.InvoiceID,
		SourceLineItemID: m.SourceLineItemID,
		Description:      m.Description,
		Quantity:         m.Quantity,
		UnitPriceCents:   m.UnitPriceCents,
		TotalCents:       m.TotalCents,
		Position:         m.Position,
	}
}

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:      d.PaymentID,
		TenantID:       d.TenantID,
		InvoiceID:      d.InvoiceID,
		AmountCents:    d.AmountCents,
		Method:         string(d.Method),
		ReceivedAt:     d.ReceivedAt,
		IdempotencyKey: d.IdempotencyKey,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to a domain Payment
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:      m.PaymentID,
		TenantID:       m.TenantID,
		InvoiceID:      m.InvoiceID,
		AmountCents:    m.AmountCents,
		Method:         domain.PaymentMethod(m.Method),
		ReceivedAt:     m.ReceivedAt,
		IdempotencyKey: m.IdempotencyKey,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
