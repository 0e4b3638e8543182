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
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type EstimateServiceTestSuite struct {
	suite.Suite
	mockEstimateRepo *MockEstimateRepository
	mockInvoiceRepo  *MockInvoiceRepository
	mockAuditRepo    *MockAuditRepository
	mockAuthorizer   *MockTenantAuthorizer
	service          portssvc.EstimateSvcFacade
	tctx             domain.TenantContext
	estimateID       string
}

func (suite *EstimateServiceTestSuite) SetupTest() {
	suite.mockEstimateRepo = new(MockEstimateRepository)
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.mockAuthorizer = new(MockTenantAuthorizer)

	txManager := &fakeTxManager{repos: &fakeTxRepositories{
		estimates: suite.mockEstimateRepo,
		invoices:  suite.mockInvoiceRepo,
		audit:     suite.mockAuditRepo,
	}}
	suite.service = services.NewEstimateService(suite.mockEstimateRepo, txManager, suite.mockAuthorizer)

	suite.tctx = domain.TenantContext{
		TenantID: uuid.NewString(),
		ActorID:  uuid.NewString(),
		Role:     domain.RoleMember,
		TraceID:  uuid.NewString(),
	}
	suite.estimateID = uuid.NewString()
	suite.mockAuthorizer.On("AuthorizeActorAction", mock.Anything, suite.tctx, mock.Anything).Return(nil)
}

func (suite *EstimateServiceTestSuite) approvedEstimate() *domain.Estimate {
	jobID := uuid.NewString()
	estimate := &domain.Estimate{
		EstimateID: suite.estimateID,
		TenantID:   suite.tctx.TenantID,
		ClientID:   uuid.NewString(),
		JobID:      &jobID,
		TaxRateBPS: 800,
		Status:     domain.EstimateApproved,
		LineItems: []domain.EstimateLineItem{
			{
				LineItemID:     uuid.NewString(),
				EstimateID:     suite.estimateID,
				Description:    "Water heater install",
				Quantity:       decimal.NewFromInt(1),
				UnitPriceCents: 45000,
			},
		},
	}
	estimate.RecalculateTotals()
	return estimate
}

func (suite *EstimateServiceTestSuite) TestCreateEstimate_TotalsDerivedFromItems() {
	req := dto.CreateEstimateRequest{
		ClientID:   uuid.NewString(),
		TaxRateBPS: 800,
		LineItems: []dto.LineItemRequest{
			{Description: "Labor", Quantity: decimal.NewFromFloat(1.5), UnitPriceCents: 1000},
			{Description: "Parts", Quantity: decimal.NewFromInt(2), UnitPriceCents: 5000},
		},
	}

	suite.mockEstimateRepo.On("SaveEstimate", mock.Anything, mock.AnythingOfType("domain.Estimate")).Return(nil)
	suite.mockAuditRepo.On("AppendEntry", mock.Anything, mock.AnythingOfType("domain.AuditLogEntry")).Return(nil)

	estimate, err := suite.service.CreateEstimate(context.Background(), suite.tctx, req)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.EstimateDraft, estimate.Status)
	// 1.5 x 1000 + 2 x 5000 = 11500; 8% tax = 920.
	assert.Equal(suite.T(), int64(11500), estimate.SubtotalCents)
	assert.Equal(suite.T(), int64(920), estimate.TaxCents)
	assert.Equal(suite.T(), int64(12420), estimate.TotalCents)
	assert.Equal(suite.T(), 0, estimate.LineItems[0].Position)
	assert.Equal(suite.T(), 1, estimate.LineItems[1].Position)
	suite.mockEstimateRepo.AssertExpectations(suite.T())
}

func (suite *EstimateServiceTestSuite) TestCreateEstimate_NonPositiveQuantityRejected() {
	req := dto.CreateEstimateRequest{
		ClientID: uuid.NewString(),
		LineItems: []dto.LineItemRequest{
			{Description: "Labor", Quantity: decimal.Zero, UnitPriceCents: 1000},
		},
	}

	estimate, err := suite.service.CreateEstimate(context.Background(), suite.tctx, req)

	assert.Nil(suite.T(), estimate)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockEstimateRepo.AssertNotCalled(suite.T(), "SaveEstimate", mock.Anything, mock.Anything)
}

func (suite *EstimateServiceTestSuite) TestUpdateEstimateItems_SentEstimateFrozen() {
	estimate := suite.approvedEstimate()
	estimate.Status = domain.EstimateSent
	req := dto.UpdateEstimateItemsRequest{
		LineItems: []dto.LineItemRequest{
			{Description: "Labor", Quantity: decimal.NewFromInt(1), UnitPriceCents: 2000},
		},
	}

	suite.mockEstimateRepo.On("FindEstimateByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.estimateID).Return(estimate, nil)

	updated, err := suite.service.UpdateEstimateItems(context.Background(), suite.tctx, suite.estimateID, req)

	assert.Nil(suite.T(), updated)
	assert.ErrorIs(suite.T(), err, apperrors.ErrImmutable)
	suite.mockEstimateRepo.AssertNotCalled(suite.T(), "ReplaceLineItems", mock.Anything, mock.Anything)
}

func (suite *EstimateServiceTestSuite) TestUpdateEstimateNotes_DeclinedEstimateFrozen() {
	estimate := suite.approvedEstimate()
	estimate.Status = domain.EstimateDeclined

	suite.mockEstimateRepo.On("FindEstimateByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.estimateID).Return(estimate, nil)

	updated, err := suite.service.UpdateEstimateNotes(context.Background(), suite.tctx, suite.estimateID, "call back in spring")

	assert.Nil(suite.T(), updated)
	assert.ErrorIs(suite.T(), err, apperrors.ErrImmutable)
}

func (suite *EstimateServiceTestSuite) TestTransitionEstimate_SendWithoutItemsRejected() {
	estimate := suite.approvedEstimate()
	estimate.Status = domain.EstimateDraft
	estimate.LineItems = nil

	suite.mockEstimateRepo.On("FindEstimateByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.estimateID).Return(estimate, nil)

	updated, err := suite.service.TransitionEstimate(context.Background(), suite.tctx, suite.estimateID, domain.EstimateSent)

	assert.Nil(suite.T(), updated)
	var preconditionErr *apperrors.PreconditionFailedError
	assert.ErrorAs(suite.T(), err, &preconditionErr)
	suite.mockEstimateRepo.AssertNotCalled(suite.T(), "UpdateEstimateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EstimateServiceTestSuite) TestTransitionEstimate_IllegalEdgeRejected() {
	estimate := suite.approvedEstimate()

	suite.mockEstimateRepo.On("FindEstimateByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.estimateID).Return(estimate, nil)

	updated, err := suite.service.TransitionEstimate(context.Background(), suite.tctx, suite.estimateID, domain.EstimateDraft)

	assert.Nil(suite.T(), updated)
	var transitionErr *apperrors.InvalidTransitionError
	assert.ErrorAs(suite.T(), err, &transitionErr)
}

func (suite *EstimateServiceTestSuite) TestConvertToInvoice_SnapshotsLineItems() {
	estimate := suite.approvedEstimate()
	dueDate := time.Now().UTC().Add(14 * 24 * time.Hour)

	suite.mockEstimateRepo.On("FindEstimateByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.estimateID).Return(estimate, nil)
	suite.mockInvoiceRepo.On("SaveInvoice", mock.Anything, mock.MatchedBy(func(inv domain.Invoice) bool {
		return inv.Status == domain.InvoiceDraft &&
			inv.EstimateID != nil && *inv.EstimateID == suite.estimateID &&
			inv.TotalCents == estimate.TotalCents &&
			len(inv.LineItems) == 1 &&
			inv.LineItems[0].SourceLineItemID != nil &&
			*inv.LineItems[0].SourceLineItemID == estimate.LineItems[0].LineItemID
	})).Return(nil)
	suite.mockEstimateRepo.On("SetConvertedInvoice", mock.Anything, suite.tctx.TenantID, suite.estimateID,
		mock.AnythingOfType("string"), suite.tctx.ActorID, mock.AnythingOfType("time.Time")).Return(nil)
	suite.mockAuditRepo.On("AppendEntry", mock.Anything, mock.AnythingOfType("domain.AuditLogEntry")).Return(nil)

	invoice, err := suite.service.ConvertToInvoice(context.Background(), suite.tctx, suite.estimateID, dueDate)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), estimate.ClientID, invoice.ClientID)
	assert.Equal(suite.T(), estimate.JobID, invoice.JobID)
	assert.Equal(suite.T(), int64(0), invoice.PaidCents)
	suite.mockEstimateRepo.AssertExpectations(suite.T())
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *EstimateServiceTestSuite) TestConvertToInvoice_NotApprovedRejected() {
	estimate := suite.approvedEstimate()
	estimate.Status = domain.EstimateSent

	suite.mockEstimateRepo.On("FindEstimateByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.estimateID).Return(estimate, nil)

	invoice, err := suite.service.ConvertToInvoice(context.Background(), suite.tctx, suite.estimateID, time.Now().UTC())

	assert.Nil(suite.T(), invoice)
	assert.ErrorIs(suite.T(), err, apperrors.ErrConflict)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoice", mock.Anything, mock.Anything)
}

func (suite *EstimateServiceTestSuite) TestConvertToInvoice_SecondConversionRejected() {
	estimate := suite.approvedEstimate()
	existingInvoiceID := uuid.NewString()
	estimate.ConvertedInvoiceID = &existingInvoiceID

	suite.mockEstimateRepo.On("FindEstimateByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.estimateID).Return(estimate, nil)

	invoice, err := suite.service.ConvertToInvoice(context.Background(), suite.tctx, suite.estimateID, time.Now().UTC())

	assert.Nil(suite.T(), invoice)
	assert.ErrorIs(suite.T(), err, apperrors.ErrConflict)
	assert.Contains(suite.T(), err.Error(), "already converted")
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoice", mock.Anything, mock.Anything)
}

func TestEstimateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EstimateServiceTestSuite))
}
