package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/fieldsrv/field_service_app/internal/core/domain"
	"github.com/fieldsrv/field_service_app/internal/models"
)

// ToModelAutomation converts a domain AutomationDefinition to its model,
// marshalling the type-specific config into JSON.
func ToModelAutomation(d domain.AutomationDefinition) (models.AutomationDefinition, error) {
	var cfg any
	switch d.Type {
	case domain.AutomationVisitReminder:
		cfg = d.VisitReminder
	case domain.AutomationInvoiceFollowup:
		cfg = d.InvoiceFollowup
	default:
		return models.AutomationDefinition{}, fmt.Errorf("unknown automation type %q", d.Type)
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return models.AutomationDefinition{}, fmt.Errorf("marshal automation config: %w", err)
	}
	return models.AutomationDefinition{
		AutomationID: d.AutomationID,
		TenantID:     d.TenantID,
		Type:         string(d.Type),
		Enabled:      d.Enabled,
		Config:       raw,
		NextRunAt:    d.NextRunAt,
		LastRunAt:    d.LastRunAt,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainAutomation converts a model AutomationDefinition to its domain form,
// unmarshalling the config according to the stored type.
func ToDomainAutomation(m models.AutomationDefinition) (domain.AutomationDefinition, error) {
	d := domain.AutomationDefinition{
		AutomationID: m.AutomationID,
		TenantID:     m.TenantID,
		Type:         domain.AutomationType(m.Type),
		Enabled:      m.Enabled,
		NextRunAt:    m.NextRunAt,
		LastRunAt:    m.LastRunAt,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
	switch d.Type {
	case domain.AutomationVisitReminder:
		var cfg domain.VisitReminderConfig
		if err := json.Unmarshal(m.Config, &cfg); err != nil {
			return domain.AutomationDefinition{}, fmt.Errorf("unmarshal visit reminder config: %w", err)
		}
		d.VisitReminder = &cfg
	case domain.AutomationInvoiceFollowup:
		var cfg domain.InvoiceFollowupConfig
		if err := json.Unmarshal(m.Config, &cfg); err != nil {
			return domain.AutomationDefinition{}, fmt.Errorf("unmarshal invoice followup config: %w", err)
		}
		d.InvoiceFollowup = &cfg
	default:
		return domain.AutomationDefinition{}, fmt.Errorf("unknown automation type %q", m.Type)
	}
	return d, nil
}
