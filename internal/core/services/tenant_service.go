package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fieldsrv/field_service_app/internal/apperrors"
	"github.com/fieldsrv/field_service_app/internal/core/domain"
	portsrepo "github.com/fieldsrv/field_service_app/internal/core/ports/repositories"
	portssvc "github.com/fieldsrv/field_service_app/internal/core/ports/services"
	"github.com/fieldsrv/field_service_app/internal/dto"
	"github.com/fieldsrv/field_service_app/internal/middleware"
)

// tenantService provides tenant provisioning, membership, and authorization.
type tenantService struct {
	tenantRepo portsrepo.TenantRepository
}

// NewTenantService creates a new TenantService.
func NewTenantService(tenantRepo portsrepo.TenantRepository) portssvc.TenantSvcFacade {
	return &tenantService{tenantRepo: tenantRepo}
}

var _ portssvc.TenantSvcFacade = (*tenantService)(nil)

func (s *tenantService) CreateTenant(ctx context.Context, req dto.CreateTenantRequest, creatorActorID string) (*domain.Tenant, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	tenant := domain.Tenant{
		TenantID: uuid.NewString(),
		Name:     req.Name,
		IsActive: true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorActorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorActorID,
		},
	}
	if err := s.tenantRepo.SaveTenant(ctx, tenant); err != nil {
		logger.Error("Failed to create tenant", "error", err)
		return nil, err
	}

	// The creator becomes the owner of the new tenant.
	membership := domain.TenantMembership{
		TenantID: tenant.TenantID,
		ActorID:  creatorActorID,
		Role:     domain.RoleOwner,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorActorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorActorID,
		},
	}
	if err := s.tenantRepo.SaveMembership(ctx, membership); err != nil {
		logger.Error("Failed to create owner membership", "tenant_id", tenant.TenantID, "error", err)
		return nil, err
	}

	logger.Info("Tenant created", "tenant_id", tenant.TenantID)
	return &tenant, nil
}

func (s *tenantService) GetTenantByID(ctx context.Context, tctx domain.TenantContext, tenantID string) (*domain.Tenant, error) {
	if tctx.TenantID != tenantID {
		// Cross-tenant reads look identical to missing resources.
		return nil, apperrors.NewNotFoundError("tenant not found")
	}
	return s.tenantRepo.FindTenantByID(ctx, tenantID)
}

func (s *tenantService) ListMembers(ctx context.Context, tctx domain.TenantContext) ([]domain.TenantMembership, error) {
	if err := s.AuthorizeActorAction(ctx, tctx, domain.RoleMember); err != nil {
		return nil, err
	}
	return s.tenantRepo.ListMembers(ctx, tctx.TenantID)
}

func (s *tenantService) AddMember(ctx context.Context, tctx domain.TenantContext, req dto.AddMemberRequest) (*domain.TenantMembership, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.AuthorizeActorAction(ctx, tctx, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if req.Role == domain.RoleOwner && tctx.Role != domain.RoleOwner {
		return nil, apperrors.NewAppError(403, "only an owner can grant the owner role", apperrors.ErrForbidden)
	}

	now := time.Now().UTC()
	membership := domain.TenantMembership{
		TenantID: tctx.TenantID,
		ActorID:  req.ActorID,
		Role:     req.Role,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     tctx.ActorID,
			LastUpdatedAt: now,
			LastUpdatedBy: tctx.ActorID,
		},
	}
	if err := s.tenantRepo.SaveMembership(ctx, membership); err != nil {
		logger.Error("Failed to save membership", "actor_id", req.ActorID, "error", err)
		return nil, err
	}
	logger.Info("Membership saved", "actor_id", req.ActorID, "role", string(req.Role))
	return &membership, nil
}

// AuthorizeActorAction verifies the actor's stored membership grants at least
// minRole. The role in the token is advisory; the membership table decides.
func (s *tenantService) AuthorizeActorAction(ctx context.Context, tctx domain.TenantContext, minRole domain.TenantRole) error {
	if tctx.ActorID == domain.SystemActorID {
		return nil
	}
	membership, err := s.tenantRepo.FindMembership(ctx, tctx.TenantID, tctx.ActorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewAppError(403, "actor is not a member of this tenant", apperrors.ErrForbidden)
		}
		return err
	}
	if !membership.Role.HasAtLeast(minRole) {
		return apperrors.NewAppError(403, "insufficient role for this action", apperrors.ErrForbidden)
	}
	return nil
}
