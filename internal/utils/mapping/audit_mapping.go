package mapping

import (
	"github.com/fieldsrv/field_service_app/internal/core/domain"
	"github.com/fieldsrv/field_service_app/internal/models"
)

// ToModelAuditLogEntry converts a domain AuditLogEntry to its model
func ToModelAuditLogEntry(d domain.AuditLogEntry) models.AuditLogEntry {
	return models.AuditLogEntry{
		EntryID:    d.EntryID,
		TenantID:   d.TenantID,
		EntityType: string(d.EntityType),
		EntityID:   d.EntityID,
		Action:     string(d.Action),
		OldValue:   d.OldValue,
		NewValue:   d.NewValue,
		DedupeKey:  d.DedupeKey,
		ActorID:    d.ActorID,
		TraceID:    d.TraceID,
		CreatedAt:  d.CreatedAt,
	}
}

// ToDomainAuditLogEntry converts a model AuditLogEntry to its domain form
func ToDomainAuditLogEntry(m models.AuditLogEntry) domain.AuditLogEntry {
	return domain.AuditLogEntry{
		EntryID:    m.EntryID,
		TenantID:   m.TenantID,
		EntityType: domain.EntityType(m.EntityType),
		EntityID:   m.EntityID,
		Action:     domain.AuditAction(m.Action),
		OldValue:   m.OldValue,
		NewValue:   m.NewValue,
		DedupeKey:  m.DedupeKey,
		ActorID:    m.ActorID,
		TraceID:    m.TraceID,
		CreatedAt:  m.CreatedAt,
	}
}
