package pgsql

import (
	"context"

	"github.com/fieldsrv/field_service_app/internal/apperrors"
	"github.com/fieldsrv/field_service_app/internal/core/domain"
	portsrepo "github.com/fieldsrv/field_service_app/internal/core/ports/repositories"
	"github.com/fieldsrv/field_service_app/internal/models"
	"github.com/fieldsrv/field_service_app/internal/utils/mapping"
	"github.com/fieldsrv/field_service_app/internal/utils/pagination"
)

const auditColumns = `entry_id, tenant_id, entity_type, entity_id, action, old_value, new_value, dedupe_key, actor_id, trace_id, created_at`

type PgxAuditRepository struct {
	db Querier
}

func newPgxAuditRepository(db Querier) portsrepo.AuditRepository {
	return &PgxAuditRepository{db: db}
}

var _ portsrepo.AuditRepository = (*PgxAuditRepository)(nil)

// AppendEntry inserts one ledger row. The partial unique index on
// (tenant_id, entity_type, entity_id, dedupe_key) fires for a repeated dedupe
// key; that surfaces as ErrDuplicate so callers can treat the side effect as
// already emitted.
func (r *PgxAuditRepository) AppendEntry(ctx context.Context, entry domain.AuditLogEntry) error {
	m := mapping.ToModelAuditLogEntry(entry)
	query := `
		INSERT INTO audit_log (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.db.Exec(ctx, query,
		m.EntryID, m.TenantID, m.EntityType, m.EntityID, m.Action,
		m.OldValue, m.NewValue, m.DedupeKey, m.ActorID, m.TraceID, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(409, "audit entry with this dedupe key already exists", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to append audit entry", err)
	}
	return nil
}

func (r *PgxAuditRepository) ExistsEntry(ctx context.Context, tenantID string, entityType domain.EntityType, entityID, dedupeKey string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM audit_log
			WHERE tenant_id = $1 AND entity_type = $2 AND entity_id = $3 AND ($4 = '' OR dedupe_key = $4)
		);
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, tenantID, string(entityType), entityID, dedupeKey).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check audit entry", err)
	}
	return exists, nil
}

func (r *PgxAuditRepository) ListEntriesByEntity(ctx context.Context, tenantID string, entityType domain.EntityType, entityID string, limit int, nextToken *string) ([]domain.AuditLogEntry, *string, error) {
	query := `
		SELECT ` + auditColumns + `
		FROM audit_log
		WHERE tenant_id = $1 AND entity_type = $2 AND entity_id = $3`
	args := []any{tenantID, string(entityType), entityID}

	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid pagination token")
		}
		query += ` AND (created_at, entry_id) < ($4, $5)`
		args = append(args, createdAt, id)
	}

	query += ` ORDER BY created_at DESC, entry_id DESC LIMIT $` + placeholderNum(len(args)+1) + `;`
	args = append(args, limit+1)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list audit entries", err)
	}
	defer rows.Close()

	var entries []domain.AuditLogEntry
	for rows.Next() {
		var m models.AuditLogEntry
		if err := rows.Scan(
			&m.EntryID, &m.TenantID, &m.EntityType, &m.EntityID, &m.Action,
			&m.OldValue, &m.NewValue, &m.DedupeKey, &m.ActorID, &m.TraceID, &m.CreatedAt,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan audit entry", err)
		}
		entries = append(entries, mapping.ToDomainAuditLogEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed iterating audit entries", err)
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.EntryID)
		token = &t
	}
	return entries, token, nil
}
