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
	"github.com/jackc/pgx/v5"
)

const visitColumns = `visit_id, tenant_id, job_id, assignee_id, scheduled_start, scheduled_end, status, created_at, created_by, last_updated_at, last_updated_by`

type PgxVisitRepository struct {
	db Querier
}

func newPgxVisitRepository(db Querier) portsrepo.VisitRepository {
	return &PgxVisitRepository{db: db}
}

var _ portsrepo.VisitRepository = (*PgxVisitRepository)(nil)

func scanVisit(row pgx.Row) (*domain.Visit, error) {
	var m models.Visit
	err := row.Scan(
		&m.VisitID, &m.TenantID, &m.JobID, &m.AssigneeID, &m.ScheduledStart, &m.ScheduledEnd, &m.Status,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("visit not found")
		}
		return nil, apperrors.NewAppError(500, "failed to scan visit", err)
	}
	d := mapping.ToDomainVisit(m)
	return &d, nil
}

func (r *PgxVisitRepository) SaveVisit(ctx context.Context, visit domain.Visit) error {
	m := mapping.ToModelVisit(visit)
	query := `
		INSERT INTO visits (` + visitColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.db.Exec(ctx, query,
		m.VisitID, m.TenantID, m.JobID, m.AssigneeID, m.ScheduledStart, m.ScheduledEnd, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert visit", err)
	}
	return nil
}

func (r *PgxVisitRepository) FindVisitByID(ctx context.Context, tenantID, visitID string) (*domain.Visit, error) {
	query := `SELECT ` + visitColumns + ` FROM visits WHERE tenant_id = $1 AND visit_id = $2;`
	return scanVisit(r.db.QueryRow(ctx, query, tenantID, visitID))
}

func (r *PgxVisitRepository) FindVisitByIDForUpdate(ctx context.Context, tenantID, visitID string) (*domain.Visit, error) {
	query := `SELECT ` + visitColumns + ` FROM visits WHERE tenant_id = $1 AND visit_id = $2 FOR UPDATE;`
	return scanVisit(r.db.QueryRow(ctx, query, tenantID, visitID))
}

func (r *PgxVisitRepository) UpdateVisit(ctx context.Context, visit domain.Visit) error {
	m := mapping.ToModelVisit(visit)
	query := `
		UPDATE visits
		SET assignee_id = $3, scheduled_start = $4, scheduled_end = $5, last_updated_at = $6, last_updated_by = $7
		WHERE tenant_id = $1 AND visit_id = $2;
	`
	tag, err := r.db.Exec(ctx, query,
		m.TenantID, m.VisitID, m.AssigneeID, m.ScheduledStart, m.ScheduledEnd,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update visit", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("visit not found")
	}
	return nil
}

func (r *PgxVisitRepository) UpdateVisitStatus(ctx context.Context, tenantID, visitID string, status domain.VisitStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE visits
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE tenant_id = $1 AND visit_id = $2;
	`
	tag, err := r.db.Exec(ctx, query, tenantID, visitID, string(status), updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update visit status", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("visit not found")
	}
	return nil
}

func (r *PgxVisitRepository) ListVisitsByJob(ctx context.Context, tenantID, jobID string) ([]domain.Visit, error) {
	query := `SELECT ` + visitColumns + ` FROM visits WHERE tenant_id = $1 AND job_id = $2 ORDER BY scheduled_start ASC;`
	return r.queryVisits(ctx, query, tenantID, jobID)
}

func (r *PgxVisitRepository) ListScheduledVisitsStartingBetween(ctx context.Context, tenantID string, from, to time.Time) ([]domain.Visit, error) {
	query := `
		SELECT ` + visitColumns + `
		FROM visits
		WHERE tenant_id = $1 AND status = $2 AND scheduled_start >= $3 AND scheduled_start <= $4
		ORDER BY scheduled_start ASC;
	`
	return r.queryVisits(ctx, query, tenantID, string(domain.VisitScheduled), from, to)
}

func (r *PgxVisitRepository) queryVisits(ctx context.Context, query string, args ...any) ([]domain.Visit, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list visits", err)
	}
	defer rows.Close()

	var visits []domain.Visit
	for rows.Next() {
		var m models.Visit
		if err := rows.Scan(
			&m.VisitID, &m.TenantID, &m.JobID, &m.AssigneeID, &m.ScheduledStart, &m.ScheduledEnd, &m.Status,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan visit", err)
		}
		visits = append(visits, mapping.ToDomainVisit(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed iterating visits", err)
	}
	return visits, nil
}
