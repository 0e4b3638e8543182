package pgsql

import (
	"context"

	"github.com/fieldsrv/field_service_app/internal/apperrors"
	"github.com/fieldsrv/field_service_app/internal/core/domain"
	portsrepo "github.com/fieldsrv/field_service_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxTransactionManager runs mutating flows inside one database transaction
// with the tenant identity bound to the session. Row-level security policies
// key off the app.tenant_id setting, so isolation holds even if a repository
// query misses a WHERE clause.
type PgxTransactionManager struct {
	pool *pgxpool.Pool
}

// NewPgxTransactionManager creates a transaction manager backed by the pool.
func NewPgxTransactionManager(pool *pgxpool.Pool) *PgxTransactionManager {
	return &PgxTransactionManager{pool: pool}
}

var _ portsrepo.TransactionManager = (*PgxTransactionManager)(nil)

// WithTenantTx opens a transaction, binds tenant and actor to the session,
// runs fn with a transaction-bound repository set, and commits on nil error.
func (m *PgxTransactionManager) WithTenantTx(ctx context.Context, tctx domain.TenantContext, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer tx.Rollback(ctx) // No-op after a successful commit.

	if _, err := tx.Exec(ctx, `SELECT set_config('app.tenant_id', $1, true), set_config('app.actor_id', $2, true)`, tctx.TenantID, tctx.ActorID); err != nil {
		return apperrors.NewAppError(500, "failed to bind tenant to transaction", err)
	}

	if err := fn(ctx, newTxRepositories(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// txRepositories is the repository set bound to one open transaction.
type txRepositories struct {
	jobs        portsrepo.JobRepositoryFacade
	visits      portsrepo.VisitRepository
	estimates   portsrepo.EstimateRepository
	invoices    portsrepo.InvoiceRepositoryFacade
	payments    portsrepo.PaymentRepositoryFacade
	audit       portsrepo.AuditRepository
	automations portsrepo.AutomationRepository
}

func newTxRepositories(tx pgx.Tx) portsrepo.TxRepositories {
	return &txRepositories{
		jobs:        newPgxJobRepository(tx),
		visits:      newPgxVisitRepository(tx),
		estimates:   newPgxEstimateRepository(tx),
		invoices:    newPgxInvoiceRepository(tx),
		payments:    newPgxPaymentRepository(tx),
		audit:       newPgxAuditRepository(tx),
		automations: newPgxAutomationRepository(tx),
	}
}

var _ portsrepo.TxRepositories = (*txRepositories)(nil)

func (r *txRepositories) Jobs() portsrepo.JobRepositoryFacade         { return r.jobs }
func (r *txRepositories) Visits() portsrepo.VisitRepository           { return r.visits }
func (r *txRepositories) Estimates() portsrepo.EstimateRepository     { return r.estimates }
func (r *txRepositories) Invoices() portsrepo.InvoiceRepositoryFacade { return r.invoices }
func (r *txRepositories) Payments() portsrepo.PaymentRepositoryFacade { return r.payments }
func (r *txRepositories) Audit() portsrepo.AuditRepository            { return r.audit }
func (r *txRepositories) Automations() portsrepo.AutomationRepository { return r.automations }
