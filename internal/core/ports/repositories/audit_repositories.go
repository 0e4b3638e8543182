package repositories

import (
	"context"

	"github.com/fieldsrv/field_service_app/internal/core/domain"
)

// AuditRepository defines operations on the append-only audit ledger, which
// doubles as the idempotency store for automation side effects.
type AuditRepository interface {
	// AppendEntry appends one entry. When the entry carries a dedupe key and
	// an entry for the same (tenant, entity type, entity id, dedupe key)
	// already exists, the unique constraint fires and AppendEntry returns an
	// error matching apperrors.ErrDuplicate; callers treat that as
	// already-emitted, which closes the exists-then-append race.
	AppendEntry(ctx context.Context, entry domain.AuditLogEntry) error

	// ExistsEntry reports whether an entry exists for the dedupe key. An
	// empty dedupeKey matches any entry for the entity.
	ExistsEntry(ctx context.Context, tenantID string, entityType domain.EntityType, entityID, dedupeKey string) (bool, error)

	// ListEntriesByEntity retrieves the entity's timeline, newest first, with
	// token-based pagination.
	ListEntriesByEntity(ctx context.Context, tenantID string, entityType domain.EntityType, entityID string, limit int, nextToken *string) ([]domain.AuditLogEntry, *string, error)
}
