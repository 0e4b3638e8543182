package dto

import (
	"github.com/fieldsrv/field_service_app/internal/core/domain"
)

// CreateAutomationRequest defines the data needed to create an automation
// definition. Exactly one config variant must be set, matching Type; this is
// validated at write time by the service.
type CreateAutomationRequest struct {
	Type            domain.AutomationType         `json:"type" binding:"required,oneof=visit_reminder invoice_followup"`
	Enabled         bool                          `json:"enabled"`
	VisitReminder   *domain.VisitReminderConfig   `json:"visitReminder"`
	InvoiceFollowup *domain.InvoiceFollowupConfig `json:"invoiceFollowup"`
}

// UpdateAutomationRequest updates an automation definition's enabled flag
// and/or config. Type is immutable.
type UpdateAutomationRequest struct {
	Enabled         *bool                         `json:"enabled"`
	VisitReminder   *domain.VisitReminderConfig   `json:"visitReminder"`
	InvoiceFollowup *domain.InvoiceFollowupConfig `json:"invoiceFollowup"`
}
