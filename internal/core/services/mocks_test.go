package services_test

import (
	"context"
	"time"

	"github.com/fieldsrv/field_service_app/internal/core/domain"
	portsrepo "github.com/fieldsrv/field_service_app/internal/core/ports/repositories"
	portssvc "github.com/fieldsrv/field_service_app/internal/core/ports/services"
	"github.com/stretchr/testify/mock"
)

// --- Mock TenantRepository ---
type MockTenantRepository struct {
	mock.Mock
}

var _ portsrepo.TenantRepository = (*MockTenantRepository)(nil)

func (m *MockTenantRepository) SaveTenant(ctx context.Context, tenant domain.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *MockTenantRepository) SaveMembership(ctx context.Context, membership domain.TenantMembership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockTenantRepository) FindMembership(ctx context.Context, tenantID, actorID string) (*domain.TenantMembership, error) {
	args := m.Called(ctx, tenantID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantMembership), args.Error(1)
}

func (m *MockTenantRepository) ListMembers(ctx context.Context, tenantID string) ([]domain.TenantMembership, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TenantMembership), args.Error(1)
}

// --- Mock JobRepository ---
type MockJobRepository struct {
	mock.Mock
}

var _ portsrepo.JobRepositoryFacade = (*MockJobRepository)(nil)

func (m *MockJobRepository) SaveJob(ctx context.Context, job domain.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) FindJobByID(ctx context.Context, tenantID, jobID string) (*domain.Job, error) {
	args := m.Called(ctx, tenantID, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobRepository) FindJobByIDForUpdate(ctx context.Context, tenantID, jobID string) (*domain.Job, error) {
	args := m.Called(ctx, tenantID, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobRepository) UpdateJob(ctx context.Context, job domain.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) UpdateJobStatus(ctx context.Context, tenantID, jobID string, status domain.JobStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tenantID, jobID, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockJobRepository) DeleteJob(ctx context.Context, tenantID, jobID string) error {
	args := m.Called(ctx, tenantID, jobID)
	return args.Error(0)
}

func (m *MockJobRepository) ListJobsByTenant(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Job, *string, error) {
	args := m.Called(ctx, tenantID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Job), returnedNextToken, args.Error(2)
}

// --- Mock VisitRepository ---
type MockVisitRepository struct {
	mock.Mock
}

var _ portsrepo.VisitRepository = (*MockVisitRepository)(nil)

func (m *MockVisitRepository) SaveVisit(ctx context.Context, visit domain.Visit) error {
	args := m.Called(ctx, visit)
	return args.Error(0)
}

func (m *MockVisitRepository) FindVisitByID(ctx context.Context, tenantID, visitID string) (*domain.Visit, error) {
	args := m.Called(ctx, tenantID, visitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Visit), args.Error(1)
}

func (m *MockVisitRepository) FindVisitByIDForUpdate(ctx context.Context, tenantID, visitID string) (*domain.Visit, error) {
	args := m.Called(ctx, tenantID, visitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Visit), args.Error(1)
}

func (m *MockVisitRepository) UpdateVisit(ctx context.Context, visit domain.Visit) error {
	args := m.Called(ctx, visit)
	return args.Error(0)
}

func (m *MockVisitRepository) UpdateVisitStatus(ctx context.Context, tenantID, visitID string, status domain.VisitStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tenantID, visitID, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockVisitRepository) ListVisitsByJob(ctx context.Context, tenantID, jobID string) ([]domain.Visit, error) {
	args := m.Called(ctx, tenantID, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Visit), args.Error(1)
}

func (m *MockVisitRepository) ListScheduledVisitsStartingBetween(ctx context.Context, tenantID string, from, to time.Time) ([]domain.Visit, error) {
	args := m.Called(ctx, tenantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Visit), args.Error(1)
}

// --- Mock EstimateRepository ---
type MockEstimateRepository struct {
	mock.Mock
}

var _ portsrepo.EstimateRepository = (*MockEstimateRepository)(nil)

func (m *MockEstimateRepository) SaveEstimate(ctx context.Context, estimate domain.Estimate) error {
	args := m.Called(ctx, estimate)
	return args.Error(0)
}

func (m *MockEstimateRepository) FindEstimateByID(ctx context.Context, tenantID, estimateID string) (*domain.Estimate, error) {
	args := m.Called(ctx, tenantID, estimateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Estimate), args.Error(1)
}

func (m *MockEstimateRepository) FindEstimateByIDForUpdate(ctx context.Context, tenantID, estimateID string) (*domain.Estimate, error) {
	args := m.Called(ctx, tenantID, estimateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Estimate), args.Error(1)
}

func (m *MockEstimateRepository) ReplaceLineItems(ctx context.Context, estimate domain.Estimate) error {
	args := m.Called(ctx, estimate)
	return args.Error(0)
}

func (m *MockEstimateRepository) UpdateEstimateNotes(ctx context.Context, tenantID, estimateID, notes, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tenantID, estimateID, notes, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockEstimateRepository) UpdateEstimateStatus(ctx context.Context, tenantID, estimateID string, status domain.EstimateStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tenantID, estimateID, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockEstimateRepository) SetConvertedInvoice(ctx context.Context, tenantID, estimateID, invoiceID, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tenantID, estimateID, invoiceID, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockEstimateRepository) ListEstimatesByTenant(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Estimate, *string, error) {
	args := m.Called(ctx, tenantID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Estimate), returnedNextToken, args.Error(2)
}

// --- Mock InvoiceRepository ---
type MockInvoiceRepository struct {
	mock.Mock
}

var _ portsrepo.InvoiceRepositoryFacade = (*MockInvoiceRepository)(nil)

func (m *MockInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, tenantID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindInvoiceByIDForUpdate(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, tenantID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, tenantID, invoiceID string, status domain.InvoiceStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tenantID, invoiceID, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockInvoiceRepository) ApplyPaymentTotals(ctx context.Context, tenantID, invoiceID string, paidCents int64, status domain.InvoiceStatus, paidAt *time.Time, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tenantID, invoiceID, paidCents, status, paidAt, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockInvoiceRepository) ListInvoicesByTenant(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	args := m.Called(ctx, tenantID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Invoice), returnedNextToken, args.Error(2)
}

func (m *MockInvoiceRepository) ListPayableInvoicesPastDue(ctx context.Context, tenantID string, asOf time.Time) ([]domain.Invoice, error) {
	args := m.Called(ctx, tenantID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

// --- Mock PaymentRepository ---
type MockPaymentRepository struct {
	mock.Mock
}

var _ portsrepo.PaymentRepositoryFacade = (*MockPaymentRepository)(nil)

func (m *MockPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, tenantID, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, tenantID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindPaymentByIdempotencyKey(ctx context.Context, tenantID, invoiceID, key string) (*domain.Payment, error) {
	args := m.Called(ctx, tenantID, invoiceID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ExistsRecentDuplicate(ctx context.Context, tenantID, invoiceID string, amountCents int64, method domain.PaymentMethod, since time.Time) (bool, error) {
	args := m.Called(ctx, tenantID, invoiceID, amountCents, method, since)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) SumPaymentsByInvoiceID(ctx context.Context, tenantID, invoiceID string) (int64, error) {
	args := m.Called(ctx, tenantID, invoiceID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepository) CountPaymentsByInvoiceID(ctx context.Context, tenantID, invoiceID string) (int, error) {
	args := m.Called(ctx, tenantID, invoiceID)
	return args.Int(0), args.Error(1)
}

func (m *MockPaymentRepository) ListPaymentsByInvoiceID(ctx context.Context, tenantID, invoiceID string) ([]domain.Payment, error) {
	args := m.Called(ctx, tenantID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) DeletePayment(ctx context.Context, tenantID, paymentID string) error {
	args := m.Called(ctx, tenantID, paymentID)
	return args.Error(0)
}

// --- Mock AuditRepository ---
type MockAuditRepository struct {
	mock.Mock
}

var _ portsrepo.AuditRepository = (*MockAuditRepository)(nil)

func (m *MockAuditRepository) AppendEntry(ctx context.Context, entry domain.AuditLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) ExistsEntry(ctx context.Context, tenantID string, entityType domain.EntityType, entityID, dedupeKey string) (bool, error) {
	args := m.Called(ctx, tenantID, entityType, entityID, dedupeKey)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuditRepository) ListEntriesByEntity(ctx context.Context, tenantID string, entityType domain.EntityType, entityID string, limit int, nextToken *string) ([]domain.AuditLogEntry, *string, error) {
	args := m.Called(ctx, tenantID, entityType, entityID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.AuditLogEntry), returnedNextToken, args.Error(2)
}

// --- Mock AutomationRepository ---
type MockAutomationRepository struct {
	mock.Mock
}

var _ portsrepo.AutomationRepository = (*MockAutomationRepository)(nil)

func (m *MockAutomationRepository) SaveAutomation(ctx context.Context, def domain.AutomationDefinition) error {
	args := m.Called(ctx, def)
	return args.Error(0)
}

func (m *MockAutomationRepository) FindAutomationByID(ctx context.Context, tenantID, automationID string) (*domain.AutomationDefinition, error) {
	args := m.Called(ctx, tenantID, automationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AutomationDefinition), args.Error(1)
}

func (m *MockAutomationRepository) UpdateAutomation(ctx context.Context, def domain.AutomationDefinition) error {
	args := m.Called(ctx, def)
	return args.Error(0)
}

func (m *MockAutomationRepository) ListAutomationsByTenant(ctx context.Context, tenantID string) ([]domain.AutomationDefinition, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AutomationDefinition), args.Error(1)
}

func (m *MockAutomationRepository) FindDueAutomations(ctx context.Context, asOf time.Time, limit int) ([]domain.AutomationDefinition, error) {
	args := m.Called(ctx, asOf, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AutomationDefinition), args.Error(1)
}

func (m *MockAutomationRepository) UpdateRunTimestamps(ctx context.Context, automationID string, lastRunAt, nextRunAt time.Time) error {
	args := m.Called(ctx, automationID, lastRunAt, nextRunAt)
	return args.Error(0)
}

// --- Mock TenantAuthorizerSvc ---
type MockTenantAuthorizer struct {
	mock.Mock
}

var _ portssvc.TenantAuthorizerSvc = (*MockTenantAuthorizer)(nil)

func (m *MockTenantAuthorizer) AuthorizeActorAction(ctx context.Context, tctx domain.TenantContext, minRole domain.TenantRole) error {
	args := m.Called(ctx, tctx, minRole)
	return args.Error(0)
}

// --- Fake transaction plumbing ---
// fakeTxRepositories hands the test's mocks to service code as if they were
// bound to an open transaction.
type fakeTxRepositories struct {
	jobs        *MockJobRepository
	visits      *MockVisitRepository
	estimates   *MockEstimateRepository
	invoices    *MockInvoiceRepository
	payments    *MockPaymentRepository
	audit       *MockAuditRepository
	automations *MockAutomationRepository
}

var _ portsrepo.TxRepositories = (*fakeTxRepositories)(nil)

func (f *fakeTxRepositories) Jobs() portsrepo.JobRepositoryFacade        { return f.jobs }
func (f *fakeTxRepositories) Visits() portsrepo.VisitRepository          { return f.visits }
func (f *fakeTxRepositories) Estimates() portsrepo.EstimateRepository    { return f.estimates }
func (f *fakeTxRepositories) Invoices() portsrepo.InvoiceRepositoryFacade {
	return f.invoices
}
func (f *fakeTxRepositories) Payments() portsrepo.PaymentRepositoryFacade {
	return f.payments
}
func (f *fakeTxRepositories) Audit() portsrepo.AuditRepository           { return f.audit }
func (f *fakeTxRepositories) Automations() portsrepo.AutomationRepository {
	return f.automations
}

// fakeTxManager runs the unit against the fake repositories without a database.
type fakeTxManager struct {
	repos *fakeTxRepositories
}

var _ portsrepo.TransactionManager = (*fakeTxManager)(nil)

func (f *fakeTxManager) WithTenantTx(ctx context.Context, tctx domain.TenantContext, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	return fn(ctx, f.repos)
}
