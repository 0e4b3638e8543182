package domain

import (
	"fmt"
	"sort"
	"time"
)

// AutomationType identifies what an automation definition does.
type AutomationType string

const (
	AutomationVisitReminder   AutomationType = "visit_reminder"
	AutomationInvoiceFollowup AutomationType = "invoice_followup"
)

// VisitReminderConfig configures the visit reminder automation.
type VisitReminderConfig struct {
	HoursBefore int `json:"hoursBefore"`
}

// InvoiceFollowupConfig configures the invoice follow-up automation.
type InvoiceFollowupConfig struct {
	DaysOverdueSteps []int `json:"daysOverdueSteps"`
}

// AutomationDefinition is one tenant-scoped automation. Exactly one of the
// config variants is set, matching Type; the definition is validated when an
// admin writes it, not when the dispatcher reads it.
type AutomationDefinition struct {
	AutomationID    string                 `json:"automationID"`
	TenantID        string                 `json:"tenantID"`
	Type            AutomationType         `json:"type"`
	Enabled         bool                   `json:"enabled"`
	VisitReminder   *VisitReminderConfig   `json:"visitReminder,omitempty"`
	InvoiceFollowup *InvoiceFollowupConfig `json:"invoiceFollowup,omitempty"`
	NextRunAt       time.Time              `json:"nextRunAt"`
	LastRunAt       *time.Time             `json:"lastRunAt,omitempty"`
	AuditFields
}

// Validate checks that the definition carries exactly the config variant its
// type requires and that the config values are usable.
func (d AutomationDefinition) Validate() error {
	switch d.Type {
	case AutomationVisitReminder:
		if d.VisitReminder == nil || d.InvoiceFollowup != nil {
			return fmt.Errorf("visit_reminder automation requires exactly the visitReminder config")
		}
		if d.VisitReminder.HoursBefore <= 0 {
			return fmt.Errorf("hoursBefore must be positive, got %d", d.VisitReminder.HoursBefore)
		}
	case AutomationInvoiceFollowup:
		if d.InvoiceFollowup == nil || d.VisitReminder != nil {
			return fmt.Errorf("invoice_followup automation requires exactly the invoiceFollowup config")
		}
		if len(d.InvoiceFollowup.DaysOverdueSteps) == 0 {
			return fmt.Errorf("daysOverdueSteps must not be empty")
		}
		if !sort.IntsAreSorted(d.InvoiceFollowup.DaysOverdueSteps) {
			return fmt.Errorf("daysOverdueSteps must be sorted ascending")
		}
		for _, s := range d.InvoiceFollowup.DaysOverdueSteps {
			if s <= 0 {
				return fmt.Errorf("daysOverdueSteps values must be positive, got %d", s)
			}
		}
	default:
		return fmt.Errorf("unknown automation type %q", d.Type)
	}
	return nil
}
