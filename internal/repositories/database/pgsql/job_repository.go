package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/fieldsrv/field_service_app/internal/apperrors"
	"github.com/fieldsrv/field_service_app/internal/core/domain"
	portsrepo "github.com/fieldsrv/field_service_app/internal/core/ports/repositories"
	"github.com/fieldsrv/field_service_app/internal/models"
	"github.com/fieldsrv/field_service_app/internal/utils/mapping"
	"github.com/fieldsrv/field_service_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

const jobColumns = `job_id, tenant_id, client_id, title, notes, priority, status, created_at, created_by, last_updated_at, last_updated_by`

type PgxJobRepository struct {
	db Querier
}

func newPgxJobRepository(db Querier) portsrepo.JobRepositoryFacade {
	return &PgxJobRepository{db: db}
}

var _ portsrepo.JobRepositoryFacade = (*PgxJobRepository)(nil)

func scanJob(row pgx.Row) (*domain.Job, error) {
	var m models.Job
	err := row.Scan(
		&m.JobID, &m.TenantID, &m.ClientID, &m.Title, &m.Notes, &m.Priority, &m.Status,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("job not found")
		}
		return nil, apperrors.NewAppError(500, "failed to scan job", err)
	}
	d := mapping.ToDomainJob(m)
	return &d, nil
}

func (r *PgxJobRepository) SaveJob(ctx context.Context, job domain.Job) error {
	m := mapping.ToModelJob(job)
	query := `
		INSERT INTO jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.db.Exec(ctx, query,
		m.JobID, m.TenantID, m.ClientID, m.Title, m.Notes, m.Priority, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert job", err)
	}
	return nil
}

func (r *PgxJobRepository) FindJobByID(ctx context.Context, tenantID, jobID string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE tenant_id = $1 AND job_id = $2;`
	return scanJob(r.db.QueryRow(ctx, query, tenantID, jobID))
}

func (r *PgxJobRepository) FindJobByIDForUpdate(ctx context.Context, tenantID, jobID string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE tenant_id = $1 AND job_id = $2 FOR UPDATE;`
	return scanJob(r.db.QueryRow(ctx, query, tenantID, jobID))
}

func (r *PgxJobRepository) UpdateJob(ctx context.Context, job domain.Job) error {
	m := mapping.ToModelJob(job)
	query := `
		UPDATE jobs
		SET client_id = $3, title = $4, notes = $5, priority = $6, last_updated_at = $7, last_updated_by = $8
		WHERE tenant_id = $1 AND job_id = $2;
	`
	tag, err := r.db.Exec(ctx, query,
		m.TenantID, m.JobID, m.ClientID, m.Title, m.Notes, m.Priority,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update job", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("job not found")
	}
	return nil
}

func (r *PgxJobRepository) UpdateJobStatus(ctx context.Context, tenantID, jobID string, status domain.JobStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE jobs
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE tenant_id = $1 AND job_id = $2;
	`
	tag, err := r.db.Exec(ctx, query, tenantID, jobID, string(status), updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update job status", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("job not found")
	}
	return nil
}

func (r *PgxJobRepository) DeleteJob(ctx context.Context, tenantID, jobID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE tenant_id = $1 AND job_id = $2;`, tenantID, jobID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete job", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("job not found")
	}
	return nil
}

func (r *PgxJobRepository) ListJobsByTenant(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Job, *string, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE tenant_id = $1`
	args := []any{tenantID}

	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid pagination token")
		}
		query += ` AND (created_at, job_id) < ($2, $3)`
		args = append(args, createdAt, id)
	}

	query += ` ORDER BY created_at DESC, job_id DESC LIMIT $` + placeholderNum(len(args)+1) + `;`
	args = append(args, limit+1) // Fetch one extra row to detect the next page.

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list jobs", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		var m models.Job
		if err := rows.Scan(
			&m.JobID, &m.TenantID, &m.ClientID, &m.Title, &m.Notes, &m.Priority, &m.Status,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan job", err)
		}
		jobs = append(jobs, mapping.ToDomainJob(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed iterating jobs", err)
	}

	var token *string
	if len(jobs) > limit {
		jobs = jobs[:limit]
		last := jobs[len(jobs)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.JobID)
		token = &t
	}
	return jobs, token, nil
}
