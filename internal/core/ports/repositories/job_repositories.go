package repositories

import (
	"context"
	"time"

	"github.com/fieldsrv/field_service_app/internal/core/domain"
)

// JobReader defines read operations for job data.
type JobReader interface {
	// FindJobByID retrieves a job scoped to the tenant. Jobs outside the
	// tenant are reported as not found.
	FindJobByID(ctx context.Context, tenantID, jobID string) (*domain.Job, error)

	// ListJobsByTenant retrieves a paginated list of jobs using token-based pagination.
	ListJobsByTenant(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Job, *string, error)
}

// JobWriter defines write operations for job data.
type JobWriter interface {
	// SaveJob inserts a new job row.
	SaveJob(ctx context.Context, job domain.Job) error

	// FindJobByIDForUpdate retrieves a job and locks its row. Must run inside
	// a transactional unit.
	FindJobByIDForUpdate(ctx context.Context, tenantID, jobID string) (*domain.Job, error)

	// UpdateJob updates non-status fields (title, notes, priority, client).
	UpdateJob(ctx context.Context, job domain.Job) error

	// UpdateJobStatus moves a job to a new status.
	UpdateJobStatus(ctx context.Context, tenantID, jobID string, status domain.JobStatus, updatedBy string, updatedAt time.Time) error

	// DeleteJob hard-deletes a job row. Callers enforce the draft-only rule.
	DeleteJob(ctx context.Context, tenantID, jobID string) error
}

// JobRepositoryFacade combines all job repository interfaces.
type JobRepositoryFacade interface {
	JobReader
	JobWriter
}
