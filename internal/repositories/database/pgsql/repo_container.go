package pgsql

import (
	portsrepo "github.com/fieldsrv/field_service_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider builds the repository set backed by the connection
// pool, plus the transaction manager that yields transaction-bound variants
// of the same repositories.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		TenantRepo:     newPgxTenantRepository(pool),
		JobRepo:        newPgxJobRepository(pool),
		VisitRepo:      newPgxVisitRepository(pool),
		EstimateRepo:   newPgxEstimateRepository(pool),
		InvoiceRepo:    newPgxInvoiceRepository(pool),
		PaymentRepo:    newPgxPaymentRepository(pool),
		AuditRepo:      newPgxAuditRepository(pool),
		AutomationRepo: newPgxAutomationRepository(pool),
		TxManager:      NewPgxTransactionManager(pool),
	}
}
