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

type VisitServiceTestSuite struct {
	suite.Suite
	mockVisitRepo  *MockVisitRepository
	mockJobRepo    *MockJobRepository
	mockAuditRepo  *MockAuditRepository
	mockAuthorizer *MockTenantAuthorizer
	service        portssvc.VisitSvcFacade
	tctx           domain.TenantContext
	jobID          string
	visitID        string
}

func (suite *VisitServiceTestSuite) SetupTest() {
	suite.mockVisitRepo = new(MockVisitRepository)
	suite.mockJobRepo = new(MockJobRepository)
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.mockAuthorizer = new(MockTenantAuthorizer)

	txManager := &fakeTxManager{repos: &fakeTxRepositories{
		visits: suite.mockVisitRepo,
		jobs:   suite.mockJobRepo,
		audit:  suite.mockAuditRepo,
	}}
	suite.service = services.NewVisitService(suite.mockVisitRepo, suite.mockJobRepo, txManager, suite.mockAuthorizer)

	suite.tctx = domain.TenantContext{
		TenantID: uuid.NewString(),
		ActorID:  uuid.NewString(),
		Role:     domain.RoleMember,
		TraceID:  uuid.NewString(),
	}
	suite.jobID = uuid.NewString()
	suite.visitID = uuid.NewString()
	suite.mockAuthorizer.On("AuthorizeActorAction", mock.Anything, suite.tctx, mock.Anything).Return(nil)
}

func (suite *VisitServiceTestSuite) scheduledVisit() *domain.Visit {
	start := time.Now().UTC().Add(24 * time.Hour)
	return &domain.Visit{
		VisitID:        suite.visitID,
		TenantID:       suite.tctx.TenantID,
		JobID:          suite.jobID,
		ScheduledStart: start,
		ScheduledEnd:   start.Add(2 * time.Hour),
		Status:         domain.VisitScheduled,
	}
}

func (suite *VisitServiceTestSuite) TestCreateVisit_SavedAsScheduled() {
	start := time.Now().UTC().Add(24 * time.Hour)
	req := dto.CreateVisitRequest{
		JobID:          suite.jobID,
		ScheduledStart: start,
		ScheduledEnd:   start.Add(time.Hour),
	}
	job := &domain.Job{JobID: suite.jobID, TenantID: suite.tctx.TenantID, Status: domain.JobScheduled}

	suite.mockJobRepo.On("FindJobByID", mock.Anything, suite.tctx.TenantID, suite.jobID).Return(job, nil)
	suite.mockVisitRepo.On("SaveVisit", mock.Anything, mock.MatchedBy(func(visit domain.Visit) bool {
		return visit.Status == domain.VisitScheduled && visit.JobID == suite.jobID
	})).Return(nil)
	suite.mockAuditRepo.On("AppendEntry", mock.Anything, mock.AnythingOfType("domain.AuditLogEntry")).Return(nil)

	visit, err := suite.service.CreateVisit(context.Background(), suite.tctx, req)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.VisitScheduled, visit.Status)
	suite.mockVisitRepo.AssertExpectations(suite.T())
}

func (suite *VisitServiceTestSuite) TestCreateVisit_CancelledJobRejected() {
	start := time.Now().UTC().Add(24 * time.Hour)
	req := dto.CreateVisitRequest{
		JobID:          suite.jobID,
		ScheduledStart: start,
		ScheduledEnd:   start.Add(time.Hour),
	}
	job := &domain.Job{JobID: suite.jobID, TenantID: suite.tctx.TenantID, Status: domain.JobCancelled}

	suite.mockJobRepo.On("FindJobByID", mock.Anything, suite.tctx.TenantID, suite.jobID).Return(job, nil)

	visit, err := suite.service.CreateVisit(context.Background(), suite.tctx, req)

	assert.Nil(suite.T(), visit)
	assert.ErrorIs(suite.T(), err, apperrors.ErrConflict)
	suite.mockVisitRepo.AssertNotCalled(suite.T(), "SaveVisit", mock.Anything, mock.Anything)
}

func (suite *VisitServiceTestSuite) TestCreateVisit_EndBeforeStartRejected() {
	start := time.Now().UTC().Add(24 * time.Hour)
	req := dto.CreateVisitRequest{
		JobID:          suite.jobID,
		ScheduledStart: start,
		ScheduledEnd:   start.Add(-time.Hour),
	}

	visit, err := suite.service.CreateVisit(context.Background(), suite.tctx, req)

	assert.Nil(suite.T(), visit)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockJobRepo.AssertNotCalled(suite.T(), "FindJobByID", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VisitServiceTestSuite) TestTransitionVisit_ArrivedWithoutAssigneeRejected() {
	visit := suite.scheduledVisit()

	suite.mockVisitRepo.On("FindVisitByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.visitID).Return(visit, nil)

	updated, err := suite.service.TransitionVisit(context.Background(), suite.tctx, suite.visitID, domain.VisitArrived)

	assert.Nil(suite.T(), updated)
	var preconditionErr *apperrors.PreconditionFailedError
	assert.ErrorAs(suite.T(), err, &preconditionErr)
	suite.mockVisitRepo.AssertNotCalled(suite.T(), "UpdateVisitStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VisitServiceTestSuite) TestTransitionVisit_ArrivedWithAssigneeAllowed() {
	visit := suite.scheduledVisit()
	assignee := uuid.NewString()
	visit.AssigneeID = &assignee

	suite.mockVisitRepo.On("FindVisitByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.visitID).Return(visit, nil)
	suite.mockVisitRepo.On("UpdateVisitStatus", mock.Anything, suite.tctx.TenantID, suite.visitID,
		domain.VisitArrived, suite.tctx.ActorID, mock.AnythingOfType("time.Time")).Return(nil)
	suite.mockAuditRepo.On("AppendEntry", mock.Anything, mock.AnythingOfType("domain.AuditLogEntry")).Return(nil)

	updated, err := suite.service.TransitionVisit(context.Background(), suite.tctx, suite.visitID, domain.VisitArrived)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.VisitArrived, updated.Status)
	suite.mockVisitRepo.AssertExpectations(suite.T())
}

func (suite *VisitServiceTestSuite) TestTransitionVisit_IllegalEdgeRejected() {
	visit := suite.scheduledVisit()

	suite.mockVisitRepo.On("FindVisitByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.visitID).Return(visit, nil)

	updated, err := suite.service.TransitionVisit(context.Background(), suite.tctx, suite.visitID, domain.VisitCompleted)

	assert.Nil(suite.T(), updated)
	var transitionErr *apperrors.InvalidTransitionError
	assert.ErrorAs(suite.T(), err, &transitionErr)
}

func (suite *VisitServiceTestSuite) TestAssignVisit_CompletedVisitImmutable() {
	visit := suite.scheduledVisit()
	visit.Status = domain.VisitCompleted
	assignee := uuid.NewString()

	suite.mockVisitRepo.On("FindVisitByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.visitID).Return(visit, nil)

	updated, err := suite.service.AssignVisit(context.Background(), suite.tctx, suite.visitID, &assignee)

	assert.Nil(suite.T(), updated)
	assert.ErrorIs(suite.T(), err, apperrors.ErrImmutable)
	suite.mockVisitRepo.AssertNotCalled(suite.T(), "UpdateVisit", mock.Anything, mock.Anything)
}

func (suite *VisitServiceTestSuite) TestRescheduleVisit_NonScheduledRejected() {
	visit := suite.scheduledVisit()
	visit.Status = domain.VisitInProgress
	start := time.Now().UTC().Add(48 * time.Hour)
	req := dto.RescheduleVisitRequest{ScheduledStart: start, ScheduledEnd: start.Add(time.Hour)}

	suite.mockVisitRepo.On("FindVisitByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.visitID).Return(visit, nil)

	updated, err := suite.service.RescheduleVisit(context.Background(), suite.tctx, suite.visitID, req)

	assert.Nil(suite.T(), updated)
	assert.ErrorIs(suite.T(), err, apperrors.ErrConflict)
	suite.mockVisitRepo.AssertNotCalled(suite.T(), "UpdateVisit", mock.Anything, mock.Anything)
}

func TestVisitServiceTestSuite(t *testing.T) {
	suite.Run(t, new(VisitServiceTestSuite))
}
