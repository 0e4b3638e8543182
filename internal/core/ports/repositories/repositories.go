package repositories

// RepositoryProvider bundles the repository set handed to the service
// container. Repositories here run outside any transaction; mutating flows go
// through the TxManager, which yields the same interfaces bound to one
// transaction.
type RepositoryProvider struct {
	TenantRepo     TenantRepository
	JobRepo        JobRepositoryFacade
	VisitRepo      VisitRepository
	EstimateRepo   EstimateRepository
	InvoiceRepo    InvoiceRepositoryFacade
	PaymentRepo    PaymentRepositoryFacade
	AuditRepo      AuditRepository
	AutomationRepo AutomationRepository
	TxManager      TransactionManager
}
