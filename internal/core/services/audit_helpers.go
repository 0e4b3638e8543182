package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fieldsrv/field_service_app/internal/core/domain"
	portsrepo "github.com/fieldsrv/field_service_app/internal/core/ports/repositories"
	"github.com/google/uuid"
)

// recordAudit appends one ledger entry inside the caller's transaction.
// Old and new values are marshalled to JSON; a nil value stays NULL.
func recordAudit(ctx context.Context, repos portsrepo.TxRepositories, tctx domain.TenantContext, entityType domain.EntityType, entityID string, action domain.AuditAction, oldValue, newValue any) error {
	var oldJSON, newJSON json.RawMessage
	if oldValue != nil {
		b, err := json.Marshal(oldValue)
		if err != nil {
			return err
		}
		oldJSON = b
	}
	if newValue != nil {
		b, err := json.Marshal(newValue)
		if err != nil {
			return err
		}
		newJSON = b
	}
	return repos.Audit().AppendEntry(ctx, domain.AuditLogEntry{
		EntryID:    uuid.NewString(),
		TenantID:   tctx.TenantID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		ActorID:    tctx.ActorID,
		OldValue:   oldJSON,
		NewValue:   newJSON,
		TraceID:    tctx.TraceID,
		CreatedAt:  time.Now().UTC(),
	})
}
