package services

import (
	"context"

	"github.com/fieldsrv/field_service_app/internal/core/domain"
	portsrepo "github.com/fieldsrv/field_service_app/internal/core/ports/repositories"
	portssvc "github.com/fieldsrv/field_service_app/internal/core/ports/services"
	"github.com/fieldsrv/field_service_app/internal/dto"
)

// auditService exposes the read-only entity timeline.
type auditService struct {
	auditRepo portsrepo.AuditRepository
	tenantSvc portssvc.TenantAuthorizerSvc
}

// NewAuditService creates a new AuditService.
func NewAuditService(auditRepo portsrepo.AuditRepository, tenantSvc portssvc.TenantAuthorizerSvc) portssvc.AuditSvcFacade {
	return &auditService{auditRepo: auditRepo, tenantSvc: tenantSvc}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

func (s *auditService) GetTimeline(ctx context.Context, tctx domain.TenantContext, entityType domain.EntityType, entityID string, params dto.ListParams) (*dto.ListTimelineResponse, error) {
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	entries, nextToken, err := s.auditRepo.ListEntriesByEntity(ctx, tctx.TenantID, entityType, entityID, clampLimit(params.Limit), params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListTimelineResponse{Entries: entries, NextToken: nextToken}, nil
}
