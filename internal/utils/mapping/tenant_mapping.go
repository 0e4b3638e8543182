package mapping

import (
	"github.com/fieldsrv/field_service_app/internal/core/domain"
	"github.com/fieldsrv/field_service_app/internal/models"
)

// ToModelTenant converts a domain Tenant to a model Tenant
func ToModelTenant(d domain.Tenant) models.Tenant {
	return models.Tenant{
		TenantID:    d.TenantID,
		Name:        d.Name,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTenant converts a model Tenant to a domain Tenant
func ToDomainTenant(m models.Tenant) domain.Tenant {
	return domain.Tenant{
		TenantID:    m.TenantID,
		Name:        m.Name,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelMembership converts a domain TenantMembership to a model TenantMembership
func ToModelMembership(d domain.TenantMembership) models.TenantMembership {
	return models.TenantMembership{
		TenantID:    d.TenantID,
		ActorID:     d.ActorID,
		Role:        string(d.Role),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainMembership converts a model TenantMembership to a domain TenantMembership
func ToDomainMembership(m models.TenantMembership) domain.TenantMembership {
	return domain.TenantMembership{
		TenantID:    m.TenantID,
		ActorID:     m.ActorID,
		Role:        domain.TenantRole(m.Role),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
