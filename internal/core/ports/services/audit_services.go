package services

import (
	"context"

	"github.com/fieldsrv/field_service_app/internal/core/domain"
	"github.com/fieldsrv/field_service_app/internal/dto"
)

// AuditReaderSvc defines read operations for the audit ledger
type AuditReaderSvc interface {
	// GetTimeline retrieves the audit entries for one entity, newest first.
	GetTimeline(ctx context.Context, tctx domain.TenantContext, entityType domain.EntityType, entityID string, params dto.ListParams) (*dto.ListTimelineResponse, error)
}

// AuditSvcFacade combines all audit-related service interfaces
type AuditSvcFacade interface {
	AuditReaderSvc
}
