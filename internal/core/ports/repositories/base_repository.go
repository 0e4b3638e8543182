package repositories

import (
	"context"

	"github.com/fieldsrv/field_service_app/internal/core/domain"
)

// TxRepositories exposes the repository set bound to one open transaction.
// Everything read or written through it shares the same snapshot and locks.
type TxRepositories interface {
	Jobs() JobRepositoryFacade
	Visits() VisitRepository
	Estimates() EstimateRepository
	Invoices() InvoiceRepositoryFacade
	Payments() PaymentRepositoryFacade
	Audit() AuditRepository
	Automations() AutomationRepository
}

// TransactionManager is the transactional unit every mutation runs through.
// WithTenantTx opens a transaction, binds the tenant identity to the database
// session (so row-level security policies re-enforce isolation independently
// of application WHERE clauses), runs fn, and commits on nil / rolls back on
// error. Rows read with intent to mutate must be locked via the ForUpdate
// repository variants for the duration of the unit.
type TransactionManager interface {
	WithTenantTx(ctx context.Context, tctx domain.TenantContext, fn func(ctx context.Context, repos TxRepositories) error) error
}
