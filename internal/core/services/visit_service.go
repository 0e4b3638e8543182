package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fieldsrv/field_service_app/internal/apperrors"
	"github.com/fieldsrv/field_service_app/internal/core/domain"
	portsrepo "github.com/fieldsrv/field_service_app/internal/core/ports/repositories"
	portssvc "github.com/fieldsrv/field_service_app/internal/core/ports/services"
	"github.com/fieldsrv/field_service_app/internal/dto"
	"github.com/fieldsrv/field_service_app/internal/middleware"
)

// visitService provides visit scheduling and lifecycle operations.
type visitService struct {
	visitRepo portsrepo.VisitRepository
	jobRepo   portsrepo.JobRepositoryFacade
	txManager portsrepo.TransactionManager
	tenantSvc portssvc.TenantAuthorizerSvc
}

// NewVisitService creates a new VisitService.
func NewVisitService(visitRepo portsrepo.VisitRepository, jobRepo portsrepo.JobRepositoryFacade, txManager portsrepo.TransactionManager, tenantSvc portssvc.TenantAuthorizerSvc) portssvc.VisitSvcFacade {
	return &visitService{
		visitRepo: visitRepo,
		jobRepo:   jobRepo,
		txManager: txManager,
		tenantSvc: tenantSvc,
	}
}

var _ portssvc.VisitSvcFacade = (*visitService)(nil)

func (s *visitService) CreateVisit(ctx context.Context, tctx domain.TenantContext, req dto.CreateVisitRequest) (*domain.Visit, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleMember); err != nil {
		return nil, err
	}
	if !req.ScheduledEnd.After(req.ScheduledStart) {
		return nil, apperrors.NewValidationError("scheduledEnd must be after scheduledStart")
	}

	now := time.Now().UTC()
	visit := domain.Visit{
		VisitID:        uuid.NewString(),
		TenantID:       tctx.TenantID,
		JobID:          req.JobID,
		AssigneeID:     req.AssigneeID,
		ScheduledStart: req.ScheduledStart.UTC(),
		ScheduledEnd:   req.ScheduledEnd.UTC(),
		Status:         domain.VisitScheduled,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     tctx.ActorID,
			LastUpdatedAt: now,
			LastUpdatedBy: tctx.ActorID,
		},
	}

	err := s.txManager.WithTenantTx(ctx, tctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		job, err := repos.Jobs().FindJobByID(ctx, tctx.TenantID, req.JobID)
		if err != nil {
			return err
		}
		if job.Status == domain.JobCancelled || job.Status == domain.JobInvoiced {
			return apperrors.NewConflictError("cannot schedule a visit on a " + string(job.Status) + " job")
		}
		if err := repos.Visits().SaveVisit(ctx, visit); err != nil {
			return err
		}
		return recordAudit(ctx, repos, tctx, domain.EntityVisit, visit.VisitID, domain.ActionInsert, nil, visit)
	})
	if err != nil {
		logger.Error("Failed to create visit", "job_id", req.JobID, "error", err)
		return nil, err
	}
	logger.Info("Visit created", "visit_id", visit.VisitID, "job_id", req.JobID)
	return &visit, nil
}

func (s *visitService) GetVisitByID(ctx context.Context, tctx domain.TenantContext, visitID string) (*domain.Visit, error) {
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.visitRepo.FindVisitByID(ctx, tctx.TenantID, visitID)
}

func (s *visitService) ListVisitsByJob(ctx context.Context, tctx domain.TenantContext, jobID string) ([]domain.Visit, error) {
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	if _, err := s.jobRepo.FindJobByID(ctx, tctx.TenantID, jobID); err != nil {
		return nil, err
	}
	return s.visitRepo.ListVisitsByJob(ctx, tctx.TenantID, jobID)
}

func (s *visitService) AssignVisit(ctx context.Context, tctx domain.TenantContext, visitID string, assigneeID *string) (*domain.Visit, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleMember); err != nil {
		return nil, err
	}

	var updated *domain.Visit
	err := s.txManager.WithTenantTx(ctx, tctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		visit, err := repos.Visits().FindVisitByIDForUpdate(ctx, tctx.TenantID, visitID)
		if err != nil {
			return err
		}
		if visit.Status == domain.VisitCompleted || visit.Status == domain.VisitCancelled {
			return apperrors.NewImmutableEntityError("cannot reassign a " + string(visit.Status) + " visit")
		}
		old := *visit

		visit.AssigneeID = assigneeID
		visit.LastUpdatedAt = time.Now().UTC()
		visit.LastUpdatedBy = tctx.ActorID
		if err := repos.Visits().UpdateVisit(ctx, *visit); err != nil {
			return err
		}
		if err := recordAudit(ctx, repos, tctx, domain.EntityVisit, visitID, domain.ActionUpdate, old, visit); err != nil {
			return err
		}
		updated = visit
		return nil
	})
	if err != nil {
		logger.Error("Failed to assign visit", "visit_id", visitID, "error", err)
		return nil, err
	}
	return updated, nil
}

func (s *visitService) RescheduleVisit(ctx context.Context, tctx domain.TenantContext, visitID string, req dto.RescheduleVisitRequest) (*domain.Visit, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleMember); err != nil {
		return nil, err
	}
	if !req.ScheduledEnd.After(req.ScheduledStart) {
		return nil, apperrors.NewValidationError("scheduledEnd must be after scheduledStart")
	}

	var updated *domain.Visit
	err := s.txManager.WithTenantTx(ctx, tctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		visit, err := repos.Visits().FindVisitByIDForUpdate(ctx, tctx.TenantID, visitID)
		if err != nil {
			return err
		}
		if visit.Status != domain.VisitScheduled {
			return apperrors.NewConflictError("only scheduled visits can be rescheduled")
		}
		old := *visit

		visit.ScheduledStart = req.ScheduledStart.UTC()
		visit.ScheduledEnd = req.ScheduledEnd.UTC()
		visit.LastUpdatedAt = time.Now().UTC()
		visit.LastUpdatedBy = tctx.ActorID
		if err := repos.Visits().UpdateVisit(ctx, *visit); err != nil {
			return err
		}
		if err := recordAudit(ctx, repos, tctx, domain.EntityVisit, visitID, domain.ActionUpdate, old, visit); err != nil {
			return err
		}
		updated = visit
		return nil
	})
	if err != nil {
		logger.Error("Failed to reschedule visit", "visit_id", visitID, "error", err)
		return nil, err
	}
	return updated, nil
}

func (s *visitService) TransitionVisit(ctx context.Context, tctx domain.TenantContext, visitID string, target domain.VisitStatus) (*domain.Visit, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleMember); err != nil {
		return nil, err
	}

	var updated *domain.Visit
	err := s.txManager.WithTenantTx(ctx, tctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		visit, err := repos.Visits().FindVisitByIDForUpdate(ctx, tctx.TenantID, visitID)
		if err != nil {
			return err
		}
		if err := domain.CheckTransition(domain.EntityVisit, string(visit.Status), string(target)); err != nil {
			return err
		}
		if err := domain.VisitTransitionGuard(*visit, target); err != nil {
			return err
		}
		old := *visit

		now := time.Now().UTC()
		if err := repos.Visits().UpdateVisitStatus(ctx, tctx.TenantID, visitID, target, tctx.ActorID, now); err != nil {
			return err
		}
		visit.Status = target
		visit.LastUpdatedAt = now
		visit.LastUpdatedBy = tctx.ActorID

		if err := recordAudit(ctx, repos, tctx, domain.EntityVisit, visitID, domain.ActionUpdate, old, visit); err != nil {
			return err
		}
		updated = visit
		return nil
	})
	if err != nil {
		logger.Warn("Visit transition rejected", "visit_id", visitID, "target", string(target), "error", err)
		return nil, err
	}
	logger.Info("Visit transitioned", "visit_id", visitID, "status", string(target))
	return updated, nil
}
