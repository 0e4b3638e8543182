package pgsql

import (
	"context"
	"errors"

	"github.com/fieldsrv/field_service_app/internal/apperrors"
	"github.com/fieldsrv/field_service_app/internal/core/domain"
	portsrepo "github.com/fieldsrv/field_service_app/internal/core/ports/repositories"
	"github.com/fieldsrv/field_service_app/internal/models"
	"github.com/fieldsrv/field_service_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type PgxTenantRepository struct {
	db Querier
}

func newPgxTenantRepository(db Querier) portsrepo.TenantRepository {
	return &PgxTenantRepository{db: db}
}

var _ portsrepo.TenantRepository = (*PgxTenantRepository)(nil)

func (r *PgxTenantRepository) SaveTenant(ctx context.Context, tenant domain.Tenant) error {
	m := mapping.ToModelTenant(tenant)
	query := `
		INSERT INTO tenants (tenant_id, name, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.db.Exec(ctx, query,
		m.TenantID, m.Name, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(409, "tenant already exists", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert tenant", err)
	}
	return nil
}

func (r *PgxTenantRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	query := `
		SELECT tenant_id, name, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM tenants
		WHERE tenant_id = $1;
	`
	var m models.Tenant
	err := r.db.QueryRow(ctx, query, tenantID).Scan(
		&m.TenantID, &m.Name, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("tenant not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find tenant", err)
	}
	d := mapping.ToDomainTenant(m)
	return &d, nil
}

func (r *PgxTenantRepository) SaveMembership(ctx context.Context, membership domain.TenantMembership) error {
	m := mapping.ToModelMembership(membership)
	query := `
		INSERT INTO tenant_memberships (tenant_id, actor_id, role, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tenant_id, actor_id)
		DO UPDATE SET role = EXCLUDED.role, last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.db.Exec(ctx, query,
		m.TenantID, m.ActorID, m.Role,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save membership", err)
	}
	return nil
}

func (r *PgxTenantRepository) FindMembership(ctx context.Context, tenantID, actorID string) (*domain.TenantMembership, error) {
	query := `
		SELECT tenant_id, actor_id, role, created_at, created_by, last_updated_at, last_updated_by
		FROM tenant_memberships
		WHERE tenant_id = $1 AND actor_id = $2;
	`
	var m models.TenantMembership
	err := r.db.QueryRow(ctx, query, tenantID, actorID).Scan(
		&m.TenantID, &m.ActorID, &m.Role,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("membership not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find membership", err)
	}
	d := mapping.ToDomainMembership(m)
	return &d, nil
}

func (r *PgxTenantRepository) ListMembers(ctx context.Context, tenantID string) ([]domain.TenantMembership, error) {
	query := `
		SELECT tenant_id, actor_id, role, created_at, created_by, last_updated_at, last_updated_by
		FROM tenant_memberships
		WHERE tenant_id = $1
		ORDER BY created_at ASC;
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list members", err)
	}
	defer rows.Close()

	var members []domain.TenantMembership
	for rows.Next() {
		var m models.TenantMembership
		if err := rows.Scan(
			&m.TenantID, &m.ActorID, &m.Role,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan membership", err)
		}
		members = append(members, mapping.ToDomainMembership(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed iterating memberships", err)
	}
	return members, nil
}
