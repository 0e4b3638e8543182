package mapping

import (
	"github.com/fieldsrv/field_service_app/internal/core/domain"
	"github.com/fieldsrv/field_service_app/internal/models"
)

// ToModelVisit converts a domain Visit to a model Visit
func ToModelVisit(d domain.Visit) models.Visit {
	return models.Visit{
		VisitID:        d.VisitID,
		TenantID:       d.TenantID,
		JobID:          d.JobID,
		AssigneeID:     d.AssigneeID,
		ScheduledStart: d.ScheduledStart,
		ScheduledEnd:   d.ScheduledEnd,
		Status:         string(d.Status),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainVisit converts a model Visit to a domain Visit
func ToDomainVisit(m models.Visit) domain.Visit {
	return domain.Visit{
		VisitID:        m.VisitID,
		TenantID:       m.TenantID,
		JobID:          m.JobID,
		AssigneeID:     m.AssigneeID,
		ScheduledStart: m.ScheduledStart,
		ScheduledEnd:   m.ScheduledEnd,
		Status:         domain.VisitStatus(m.Status),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
