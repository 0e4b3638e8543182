package services

import (
	"context"

	"github.com/fieldsrv/field_service_app/internal/core/domain"
	"github.com/fieldsrv/field_service_app/internal/dto"
)

// JobReaderSvc defines read operations for job data
type JobReaderSvc interface {
	// GetJobByID retrieves a specific job by its ID.
	GetJobByID(ctx context.Context, tctx domain.TenantContext, jobID string) (*domain.Job, error)

	// ListJobs retrieves a paginated list of jobs in the tenant.
	ListJobs(ctx context.Context, tctx domain.TenantContext, params dto.ListParams) (*dto.ListJobsResponse, error)
}

// JobWriterSvc defines write operations for job data
type JobWriterSvc interface {
	// CreateJob persists a new job in draft status.
	CreateJob(ctx context.Context, tctx domain.TenantContext, req dto.CreateJobRequest) (*domain.Job, error)

	// UpdateJob updates mutable job details.
	UpdateJob(ctx context.Context, tctx domain.TenantContext, jobID string, req dto.UpdateJobRequest) (*domain.Job, error)

	// TransitionJob moves the job to a new status if the edge is legal.
	TransitionJob(ctx context.Context, tctx domain.TenantContext, jobID string, target domain.JobStatus) (*domain.Job, error)

	// DeleteJob removes a job that is still in draft status.
	DeleteJob(ctx context.Context, tctx domain.TenantContext, jobID string) error
}

// JobSvcFacade combines all job-related service interfaces
type JobSvcFacade interface {
	JobReaderSvc
	JobWriterSvc
}
