package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/fieldsrv/field_service_app/internal/apperrors"
	"github.com/fieldsrv/field_service_app/internal/core/domain"
	portssvc "github.com/fieldsrv/field_service_app/internal/core/ports/services"
	"github.com/fieldsrv/field_service_app/internal/core/services"
	"github.com/fieldsrv/field_service_app/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type InvoiceServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo *MockInvoiceRepository
	mockPaymentRepo *MockPaymentRepository
	mockAuditRepo   *MockAuditRepository
	mockAuthorizer  *MockTenantAuthorizer
	service         portssvc.InvoiceSvcFacade
	tctx            domain.TenantContext
	invoiceID       string
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.mockAuthorizer = new(MockTenantAuthorizer)

	txManager := &fakeTxManager{repos: &fakeTxRepositories{
		invoices: suite.mockInvoiceRepo,
		payments: suite.mockPaymentRepo,
		audit:    suite.mockAuditRepo,
	}}
	suite.service = services.NewInvoiceService(suite.mockInvoiceRepo, suite.mockPaymentRepo, txManager, suite.mockAuthorizer)

	suite.tctx = domain.TenantContext{
		TenantID: uuid.NewString(),
		ActorID:  uuid.NewString(),
		Role:     domain.RoleOwner,
		TraceID:  uuid.NewString(),
	}
	suite.invoiceID = uuid.NewString()
	suite.mockAuthorizer.On("AuthorizeActorAction", mock.Anything, suite.tctx, mock.Anything).Return(nil)
}

func (suite *InvoiceServiceTestSuite) sentInvoice(totalCents, paidCents int64) *domain.Invoice {
	status := domain.InvoiceSent
	if paidCents > 0 {
		status = domain.InvoicePartial
	}
	return &domain.Invoice{
		InvoiceID:  suite.invoiceID,
		TenantID:   suite.tctx.TenantID,
		ClientID:   uuid.NewString(),
		TotalCents: totalCents,
		PaidCents:  paidCents,
		DueDate:    time.Now().UTC().Add(7 * 24 * time.Hour),
		Status:     status,
	}
}

func (suite *InvoiceServiceTestSuite) TestRecordPayment_ExactBalanceMarksPaid() {
	invoice := suite.sentInvoice(10000, 4000)
	key := "pay-once"
	req := dto.RecordPaymentRequest{AmountCents: 6000, Method: domain.MethodCard, IdempotencyKey: &key}

	suite.mockInvoiceRepo.On("FindInvoiceByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.invoiceID).Return(invoice, nil)
	suite.mockPaymentRepo.On("FindPaymentByIdempotencyKey", mock.Anything, suite.tctx.TenantID, suite.invoiceID, key).
		Return(nil, apperrors.NewNotFoundError("payment not found"))
	suite.mockPaymentRepo.On("SavePayment", mock.Anything, mock.AnythingOfType("domain.Payment")).Return(nil)
	suite.mockPaymentRepo.On("SumPaymentsByInvoiceID", mock.Anything, suite.tctx.TenantID, suite.invoiceID).Return(int64(10000), nil)
	suite.mockInvoiceRepo.On("ApplyPaymentTotals", mock.Anything, suite.tctx.TenantID, suite.invoiceID,
		int64(10000), domain.InvoicePaid,
		mock.MatchedBy(func(paidAt *time.Time) bool { return paidAt != nil }),
		suite.tctx.ActorID, mock.AnythingOfType("time.Time")).Return(nil)
	suite.mockAuditRepo.On("AppendEntry", mock.Anything, mock.AnythingOfType("domain.AuditLogEntry")).Return(nil)

	result, err := suite.service.RecordPayment(context.Background(), suite.tctx, suite.invoiceID, req)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), result.Created)
	assert.Equal(suite.T(), domain.InvoicePaid, result.InvoiceStatus)
	assert.Equal(suite.T(), int64(10000), result.PaidCents)
	assert.Equal(suite.T(), int64(0), result.BalanceCents)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockPaymentRepo.AssertExpectations(suite.T())
	// One entry for the payment, one for the status change.
	suite.mockAuditRepo.AssertNumberOfCalls(suite.T(), "AppendEntry", 2)
}

func (suite *InvoiceServiceTestSuite) TestRecordPayment_ReplayReturnsOriginal() {
	invoice := suite.sentInvoice(10000, 6000)
	key := "pay-once"
	req := dto.RecordPaymentRequest{AmountCents: 4000, Method: domain.MethodCard, IdempotencyKey: &key}

	existing := &domain.Payment{
		PaymentID:      uuid.NewString(),
		TenantID:       suite.tctx.TenantID,
		InvoiceID:      suite.invoiceID,
		AmountCents:    4000,
		Method:         domain.MethodCard,
		IdempotencyKey: &key,
	}
	suite.mockInvoiceRepo.On("FindInvoiceByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.invoiceID).Return(invoice, nil)
	suite.mockPaymentRepo.On("FindPaymentByIdempotencyKey", mock.Anything, suite.tctx.TenantID, suite.invoiceID, key).Return(existing, nil)

	result, err := suite.service.RecordPayment(context.Background(), suite.tctx, suite.invoiceID, req)

	assert.NoError(suite.T(), err)
	assert.False(suite.T(), result.Created)
	assert.Equal(suite.T(), existing.PaymentID, result.Payment.PaymentID)
	assert.Equal(suite.T(), invoice.Status, result.InvoiceStatus)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "SavePayment", mock.Anything, mock.Anything)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "ApplyPaymentTotals", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestRecordPayment_OverBalanceRejected() {
	invoice := suite.sentInvoice(10000, 6000)
	req := dto.RecordPaymentRequest{AmountCents: 4001, Method: domain.MethodCash}

	suite.mockInvoiceRepo.On("FindInvoiceByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.invoiceID).Return(invoice, nil)

	result, err := suite.service.RecordPayment(context.Background(), suite.tctx, suite.invoiceID, req)

	assert.Nil(suite.T(), result)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	assert.Contains(suite.T(), err.Error(), "remaining balance of 4000")
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "SavePayment", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestRecordPayment_RecentDuplicateRejected() {
	invoice := suite.sentInvoice(10000, 0)
	req := dto.RecordPaymentRequest{AmountCents: 5000, Method: domain.MethodCash}

	suite.mockInvoiceRepo.On("FindInvoiceByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.invoiceID).Return(invoice, nil)
	suite.mockPaymentRepo.On("ExistsRecentDuplicate", mock.Anything, suite.tctx.TenantID, suite.invoiceID,
		int64(5000), domain.MethodCash, mock.AnythingOfType("time.Time")).Return(true, nil)

	result, err := suite.service.RecordPayment(context.Background(), suite.tctx, suite.invoiceID, req)

	assert.Nil(suite.T(), result)
	assert.ErrorIs(suite.T(), err, apperrors.ErrConflict)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "SavePayment", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestRecordPayment_DraftInvoiceRejected() {
	invoice := suite.sentInvoice(10000, 0)
	invoice.Status = domain.InvoiceDraft
	req := dto.RecordPaymentRequest{AmountCents: 5000, Method: domain.MethodCash}

	suite.mockInvoiceRepo.On("FindInvoiceByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.invoiceID).Return(invoice, nil)

	result, err := suite.service.RecordPayment(context.Background(), suite.tctx, suite.invoiceID, req)

	assert.Nil(suite.T(), result)
	var transitionErr *apperrors.InvalidTransitionError
	assert.ErrorAs(suite.T(), err, &transitionErr)
	assert.Equal(suite.T(), string(domain.InvoiceDraft), transitionErr.From)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "SavePayment", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestRecordPayment_ReplayAfterPayoff() {
	// The original request completed the invoice; its retry must still return
	// the stored payment instead of tripping the payable check.
	paidAt := time.Now().UTC().Add(-time.Minute)
	invoice := suite.sentInvoice(10000, 10000)
	invoice.Status = domain.InvoicePaid
	invoice.PaidAt = &paidAt

	key := "pay-once"
	req := dto.RecordPaymentRequest{AmountCents: 10000, Method: domain.MethodCard, IdempotencyKey: &key}
	existing := &domain.Payment{
		PaymentID:      uuid.NewString(),
		TenantID:       suite.tctx.TenantID,
		InvoiceID:      suite.invoiceID,
		AmountCents:    10000,
		Method:         domain.MethodCard,
		IdempotencyKey: &key,
	}

	suite.mockInvoiceRepo.On("FindInvoiceByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.invoiceID).Return(invoice, nil)
	suite.mockPaymentRepo.On("FindPaymentByIdempotencyKey", mock.Anything, suite.tctx.TenantID, suite.invoiceID, key).Return(existing, nil)

	result, err := suite.service.RecordPayment(context.Background(), suite.tctx, suite.invoiceID, req)

	assert.NoError(suite.T(), err)
	assert.False(suite.T(), result.Created)
	assert.Equal(suite.T(), existing.PaymentID, result.Payment.PaymentID)
	assert.Equal(suite.T(), domain.InvoicePaid, result.InvoiceStatus)
	assert.Equal(suite.T(), int64(0), result.BalanceCents)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "SavePayment", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestRecordPayment_UnknownMethodRejected() {
	req := dto.RecordPaymentRequest{AmountCents: 5000, Method: domain.PaymentMethod("barter")}

	result, err := suite.service.RecordPayment(context.Background(), suite.tctx, suite.invoiceID, req)

	assert.Nil(suite.T(), result)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *InvoiceServiceTestSuite) TestDeletePayment_RecomputesToPartial() {
	paidAt := time.Now().UTC().Add(-time.Hour)
	invoice := suite.sentInvoice(10000, 10000)
	invoice.Status = domain.InvoicePaid
	invoice.PaidAt = &paidAt

	paymentID := uuid.NewString()
	payment := &domain.Payment{
		PaymentID:   paymentID,
		TenantID:    suite.tctx.TenantID,
		InvoiceID:   suite.invoiceID,
		AmountCents: 3000,
		Method:      domain.MethodCash,
	}

	suite.mockInvoiceRepo.On("FindInvoiceByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.invoiceID).Return(invoice, nil)
	suite.mockPaymentRepo.On("FindPaymentByID", mock.Anything, suite.tctx.TenantID, paymentID).Return(payment, nil)
	suite.mockPaymentRepo.On("DeletePayment", mock.Anything, suite.tctx.TenantID, paymentID).Return(nil)
	suite.mockPaymentRepo.On("SumPaymentsByInvoiceID", mock.Anything, suite.tctx.TenantID, suite.invoiceID).Return(int64(7000), nil)
	suite.mockInvoiceRepo.On("ApplyPaymentTotals", mock.Anything, suite.tctx.TenantID, suite.invoiceID,
		int64(7000), domain.InvoicePartial,
		mock.MatchedBy(func(paidAt *time.Time) bool { return paidAt == nil }),
		suite.tctx.ActorID, mock.AnythingOfType("time.Time")).Return(nil)
	suite.mockAuditRepo.On("AppendEntry", mock.Anything, mock.AnythingOfType("domain.AuditLogEntry")).Return(nil)

	updated, err := suite.service.DeletePayment(context.Background(), suite.tctx, suite.invoiceID, paymentID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.InvoicePartial, updated.Status)
	assert.Equal(suite.T(), int64(7000), updated.PaidCents)
	assert.Nil(suite.T(), updated.PaidAt)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestDeletePayment_WrongInvoiceNotFound() {
	invoice := suite.sentInvoice(10000, 3000)
	paymentID := uuid.NewString()
	payment := &domain.Payment{
		PaymentID:   paymentID,
		TenantID:    suite.tctx.TenantID,
		InvoiceID:   uuid.NewString(),
		AmountCents: 3000,
	}

	suite.mockInvoiceRepo.On("FindInvoiceByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.invoiceID).Return(invoice, nil)
	suite.mockPaymentRepo.On("FindPaymentByID", mock.Anything, suite.tctx.TenantID, paymentID).Return(payment, nil)

	updated, err := suite.service.DeletePayment(context.Background(), suite.tctx, suite.invoiceID, paymentID)

	assert.Nil(suite.T(), updated)
	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "DeletePayment", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestDeletePayment_VoidInvoiceImmutable() {
	invoice := suite.sentInvoice(10000, 0)
	invoice.Status = domain.InvoiceVoid
	paymentID := uuid.NewString()

	suite.mockInvoiceRepo.On("FindInvoiceByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.invoiceID).Return(invoice, nil)

	updated, err := suite.service.DeletePayment(context.Background(), suite.tctx, suite.invoiceID, paymentID)

	assert.Nil(suite.T(), updated)
	assert.ErrorIs(suite.T(), err, apperrors.ErrImmutable)
}

func (suite *InvoiceServiceTestSuite) TestTransitionInvoice_VoidWithPaymentsRejected() {
	invoice := suite.sentInvoice(10000, 3000)

	suite.mockInvoiceRepo.On("FindInvoiceByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.invoiceID).Return(invoice, nil)
	suite.mockPaymentRepo.On("CountPaymentsByInvoiceID", mock.Anything, suite.tctx.TenantID, suite.invoiceID).Return(1, nil)

	updated, err := suite.service.TransitionInvoice(context.Background(), suite.tctx, suite.invoiceID, domain.InvoiceVoid)

	assert.Nil(suite.T(), updated)
	var preconditionErr *apperrors.PreconditionFailedError
	assert.ErrorAs(suite.T(), err, &preconditionErr)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateInvoiceStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestTransitionInvoice_IllegalEdgeRejected() {
	invoice := suite.sentInvoice(10000, 0)
	invoice.Status = domain.InvoicePaid

	suite.mockInvoiceRepo.On("FindInvoiceByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.invoiceID).Return(invoice, nil)

	updated, err := suite.service.TransitionInvoice(context.Background(), suite.tctx, suite.invoiceID, domain.InvoiceSent)

	assert.Nil(suite.T(), updated)
	var transitionErr *apperrors.InvalidTransitionError
	assert.ErrorAs(suite.T(), err, &transitionErr)
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
