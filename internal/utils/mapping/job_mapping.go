package mapping

import (
	"github.com/fieldsrv/field_service_app/internal/core/domain"
	"github.com/fieldsrv/field_service_app/internal/models"
)

// ToModelJob converts a domain Job to a model Job
func ToModelJob(d domain.Job) models.Job {
	return models.Job{
		JobID:       d.JobID,
		TenantID:    d.TenantID,
		ClientID:    d.ClientID,
		Title:       d.Title,
		Notes:       d.Notes,
		Priority:    int(d.Priority),
		Status:      string(d.Status),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJob converts a model Job to a domain Job
func ToDomainJob(m models.Job) domain.Job {
	return domain.Job{
		JobID:       m.JobID,
		TenantID:    m.TenantID,
		ClientID:    m.ClientID,
		Title:       m.Title,
		Notes:       m.Notes,
		Priority:    domain.JobPriority(m.Priority),
		Status:      domain.JobStatus(m.Status),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
