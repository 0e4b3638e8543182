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

const automationColumns = `automation_id, tenant_id, type, enabled, config, next_run_at, last_run_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxAutomationRepository struct {
	db Querier
}

func newPgxAutomationRepository(db Querier) portsrepo.AutomationRepository {
	return &PgxAutomationRepository{db: db}
}

var _ portsrepo.AutomationRepository = (*PgxAutomationRepository)(nil)

func (r *PgxAutomationRepository) SaveAutomation(ctx context.Context, def domain.AutomationDefinition) error {
	m, err := mapping.ToModelAutomation(def)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode automation config", err)
	}
	query := `
		INSERT INTO automation_definitions (` + automationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = r.db.Exec(ctx, query,
		m.AutomationID, m.TenantID, m.Type, m.Enabled, m.Config, m.NextRunAt, m.LastRunAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert automation definition", err)
	}
	return nil
}

func (r *PgxAutomationRepository) FindAutomationByID(ctx context.Context, tenantID, automationID string) (*domain.AutomationDefinition, error) {
	query := `SELECT ` + automationColumns + ` FROM automation_definitions WHERE tenant_id = $1 AND automation_id = $2;`
	var m models.AutomationDefinition
	err := r.db.QueryRow(ctx, query, tenantID, automationID).Scan(
		&m.AutomationID, &m.TenantID, &m.Type, &m.Enabled, &m.Config, &m.NextRunAt, &m.LastRunAt,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("automation not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find automation", err)
	}
	d, err := mapping.ToDomainAutomation(m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode automation config", err)
	}
	return &d, nil
}

func (r *PgxAutomationRepository) UpdateAutomation(ctx context.Context, def domain.AutomationDefinition) error {
	m, err := mapping.ToModelAutomation(def)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode automation config", err)
	}
	query := `
		UPDATE automation_definitions
		SET enabled = $3, config = $4, last_updated_at = $5, last_updated_by = $6
		WHERE tenant_id = $1 AND automation_id = $2;
	`
	tag, err := r.db.Exec(ctx, query,
		m.TenantID, m.AutomationID, m.Enabled, m.Config, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update automation", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("automation not found")
	}
	return nil
}

func (r *PgxAutomationRepository) ListAutomationsByTenant(ctx context.Context, tenantID string) ([]domain.AutomationDefinition, error) {
	query := `SELECT ` + automationColumns + ` FROM automation_definitions WHERE tenant_id = $1 ORDER BY created_at ASC;`
	return r.queryAutomations(ctx, query, tenantID)
}

// FindDueAutomations runs cross-tenant; it is reserved for the dispatcher,
// which fans out per-definition work under each definition's own tenant.
func (r *PgxAutomationRepository) FindDueAutomations(ctx context.Context, asOf time.Time, limit int) ([]domain.AutomationDefinition, error) {
	query := `
		SELECT ` + automationColumns + `
		FROM automation_definitions
		WHERE enabled = TRUE AND next_run_at <= $1
		ORDER BY next_run_at ASC
		LIMIT $2;
	`
	return r.queryAutomations(ctx, query, asOf, limit)
}

func (r *PgxAutomationRepository) UpdateRunTimestamps(ctx context.Context, automationID string, lastRunAt, nextRunAt time.Time) error {
	query := `
		UPDATE automation_definitions
		SET last_run_at = $2, next_run_at = $3
		WHERE automation_id = $1;
	`
	tag, err := r.db.Exec(ctx, query, automationID, lastRunAt, nextRunAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update automation run timestamps", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("automation not found")
	}
	return nil
}

func (r *PgxAutomationRepository) queryAutomations(ctx context.Context, query string, args ...any) ([]domain.AutomationDefinition, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list automations", err)
	}
	defer rows.Close()

	var defs []domain.AutomationDefinition
	for rows.Next() {
		var m models.AutomationDefinition
		if err := rows.Scan(
			&m.AutomationID, &m.TenantID, &m.Type, &m.Enabled, &m.Config, &m.NextRunAt, &m.LastRunAt,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan automation", err)
		}
		d, err := mapping.ToDomainAutomation(m)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to decode automation config", err)
		}
		defs = append(defs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed iterating automations", err)
	}
	return defs, nil
}
