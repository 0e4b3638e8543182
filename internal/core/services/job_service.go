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

const defaultListLimit = 20
const maxListLimit = 100

// jobService provides job lifecycle operations.
type jobService struct {
	jobRepo   portsrepo.JobRepositoryFacade
	txManager portsrepo.TransactionManager
	tenantSvc portssvc.TenantAuthorizerSvc
}

// NewJobService creates a new JobService.
func NewJobService(jobRepo portsrepo.JobRepositoryFacade, txManager portsrepo.TransactionManager, tenantSvc portssvc.TenantAuthorizerSvc) portssvc.JobSvcFacade {
	return &jobService{
		jobRepo:   jobRepo,
		txManager: txManager,
		tenantSvc: tenantSvc,
	}
}

var _ portssvc.JobSvcFacade = (*jobService)(nil)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func (s *jobService) CreateJob(ctx context.Context, tctx domain.TenantContext, req dto.CreateJobRequest) (*domain.Job, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleMember); err != nil {
		return nil, err
	}

	priority := domain.JobPriority(req.Priority)
	if req.Priority == 0 {
		priority = domain.PriorityNormal
	}
	if !priority.IsValid() {
		return nil, apperrors.NewValidationError("priority must be between 1 and 4")
	}

	now := time.Now().UTC()
	job := domain.Job{
		JobID:    uuid.NewString(),
		TenantID: tctx.TenantID,
		ClientID: req.ClientID,
		Title:    req.Title,
		Notes:    req.Notes,
		Priority: priority,
		Status:   domain.JobDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     tctx.ActorID,
			LastUpdatedAt: now,
			LastUpdatedBy: tctx.ActorID,
		},
	}

	err := s.txManager.WithTenantTx(ctx, tctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		if err := repos.Jobs().SaveJob(ctx, job); err != nil {
			return err
		}
		return recordAudit(ctx, repos, tctx, domain.EntityJob, job.JobID, domain.ActionInsert, nil, job)
	})
	if err != nil {
		logger.Error("Failed to create job", "error", err)
		return nil, err
	}
	logger.Info("Job created", "job_id", job.JobID)
	return &job, nil
}

func (s *jobService) GetJobByID(ctx context.Context, tctx domain.TenantContext, jobID string) (*domain.Job, error) {
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.jobRepo.FindJobByID(ctx, tctx.TenantID, jobID)
}

func (s *jobService) ListJobs(ctx context.Context, tctx domain.TenantContext, params dto.ListParams) (*dto.ListJobsResponse, error) {
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	jobs, nextToken, err := s.jobRepo.ListJobsByTenant(ctx, tctx.TenantID, clampLimit(params.Limit), params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListJobsResponse{Jobs: jobs, NextToken: nextToken}, nil
}

func (s *jobService) UpdateJob(ctx context.Context, tctx domain.TenantContext, jobID string, req dto.UpdateJobRequest) (*domain.Job, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleMember); err != nil {
		return nil, err
	}

	var updated *domain.Job
	err := s.txManager.WithTenantTx(ctx, tctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		job, err := repos.Jobs().FindJobByIDForUpdate(ctx, tctx.TenantID, jobID)
		if err != nil {
			return err
		}
		if job.Status == domain.JobCancelled {
			return apperrors.NewImmutableEntityError("cancelled jobs cannot be updated")
		}
		old := *job

		if req.Title != nil {
			job.Title = *req.Title
		}
		if req.Notes != nil {
			job.Notes = *req.Notes
		}
		if req.Priority != nil {
			p := domain.JobPriority(*req.Priority)
			if !p.IsValid() {
				return apperrors.NewValidationError("priority must be between 1 and 4")
			}
			job.Priority = p
		}
		job.LastUpdatedAt = time.Now().UTC()
		job.LastUpdatedBy = tctx.ActorID

		if err := repos.Jobs().UpdateJob(ctx, *job); err != nil {
			return err
		}
		if err := recordAudit(ctx, repos, tctx, domain.EntityJob, job.JobID, domain.ActionUpdate, old, job); err != nil {
			return err
		}
		updated = job
		return nil
	})
	if err != nil {
		logger.Error("Failed to update job", "job_id", jobID, "error", err)
		return nil, err
	}
	return updated, nil
}

func (s *jobService) TransitionJob(ctx context.Context, tctx domain.TenantContext, jobID string, target domain.JobStatus) (*domain.Job, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleMember); err != nil {
		return nil, err
	}

	var updated *domain.Job
	err := s.txManager.WithTenantTx(ctx, tctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		job, err := repos.Jobs().FindJobByIDForUpdate(ctx, tctx.TenantID, jobID)
		if err != nil {
			return err
		}
		if err := domain.CheckTransition(domain.EntityJob, string(job.Status), string(target)); err != nil {
			return err
		}
		old := *job

		now := time.Now().UTC()
		if err := repos.Jobs().UpdateJobStatus(ctx, tctx.TenantID, jobID, target, tctx.ActorID, now); err != nil {
			return err
		}
		job.Status = target
		job.LastUpdatedAt = now
		job.LastUpdatedBy = tctx.ActorID

		if err := recordAudit(ctx, repos, tctx, domain.EntityJob, jobID, domain.ActionUpdate, old, job); err != nil {
			return err
		}
		updated = job
		return nil
	})
	if err != nil {
		logger.Warn("Job transition rejected", "job_id", jobID, "target", string(target), "error", err)
		return nil, err
	}
	logger.Info("Job transitioned", "job_id", jobID, "status", string(target))
	return updated, nil
}

func (s *jobService) DeleteJob(ctx context.Context, tctx domain.TenantContext, jobID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleAdmin); err != nil {
		return err
	}

	err := s.txManager.WithTenantTx(ctx, tctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		job, err := repos.Jobs().FindJobByIDForUpdate(ctx, tctx.TenantID, jobID)
		if err != nil {
			return err
		}
		if job.Status != domain.JobDraft {
			return apperrors.NewImmutableEntityError("only draft jobs can be deleted")
		}
		if err := repos.Jobs().DeleteJob(ctx, tctx.TenantID, jobID); err != nil {
			return err
		}
		return recordAudit(ctx, repos, tctx, domain.EntityJob, jobID, domain.ActionDelete, job, nil)
	})
	if err != nil {
		logger.Error("Failed to delete job", "job_id", jobID, "error", err)
		return err
	}
	logger.Info("Job deleted", "job_id", jobID)
	return nil
}
