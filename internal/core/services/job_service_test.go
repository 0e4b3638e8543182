package services_test

import (
	"context"
	"testing"

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

type JobServiceTestSuite struct {
	suite.Suite
	mockJobRepo    *MockJobRepository
	mockAuditRepo  *MockAuditRepository
	mockAuthorizer *MockTenantAuthorizer
	service        portssvc.JobSvcFacade
	tctx           domain.TenantContext
	jobID          string
}

func (suite *JobServiceTestSuite) SetupTest() {
	suite.mockJobRepo = new(MockJobRepository)
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.mockAuthorizer = new(MockTenantAuthorizer)

	txManager := &fakeTxManager{repos: &fakeTxRepositories{
		jobs:  suite.mockJobRepo,
		audit: suite.mockAuditRepo,
	}}
	suite.service = services.NewJobService(suite.mockJobRepo, txManager, suite.mockAuthorizer)

	suite.tctx = domain.TenantContext{
		TenantID: uuid.NewString(),
		ActorID:  uuid.NewString(),
		Role:     domain.RoleAdmin,
		TraceID:  uuid.NewString(),
	}
	suite.jobID = uuid.NewString()
	suite.mockAuthorizer.On("AuthorizeActorAction", mock.Anything, suite.tctx, mock.Anything).Return(nil)
}

func (suite *JobServiceTestSuite) jobWithStatus(status domain.JobStatus) *domain.Job {
	return &domain.Job{
		JobID:    suite.jobID,
		TenantID: suite.tctx.TenantID,
		ClientID: uuid.NewString(),
		Title:    "Replace furnace filter",
		Priority: domain.PriorityNormal,
		Status:   status,
	}
}

func (suite *JobServiceTestSuite) TestCreateJob_DefaultsToDraftAndNormalPriority() {
	req := dto.CreateJobRequest{ClientID: uuid.NewString(), Title: "Annual HVAC checkup"}

	suite.mockJobRepo.On("SaveJob", mock.Anything, mock.MatchedBy(func(job domain.Job) bool {
		return job.Status == domain.JobDraft && job.Priority == domain.PriorityNormal
	})).Return(nil)
	suite.mockAuditRepo.On("AppendEntry", mock.Anything, mock.AnythingOfType("domain.AuditLogEntry")).Return(nil)

	job, err := suite.service.CreateJob(context.Background(), suite.tctx, req)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.JobDraft, job.Status)
	assert.Equal(suite.T(), domain.PriorityNormal, job.Priority)
	assert.Equal(suite.T(), suite.tctx.ActorID, job.CreatedBy)
	suite.mockJobRepo.AssertExpectations(suite.T())
	suite.mockAuditRepo.AssertNumberOfCalls(suite.T(), "AppendEntry", 1)
}

func (suite *JobServiceTestSuite) TestCreateJob_InvalidPriorityRejected() {
	req := dto.CreateJobRequest{ClientID: uuid.NewString(), Title: "Roof inspection", Priority: 9}

	job, err := suite.service.CreateJob(context.Background(), suite.tctx, req)

	assert.Nil(suite.T(), job)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockJobRepo.AssertNotCalled(suite.T(), "SaveJob", mock.Anything, mock.Anything)
}

func (suite *JobServiceTestSuite) TestTransitionJob_LegalEdgeUpdatesStatus() {
	job := suite.jobWithStatus(domain.JobScheduled)

	suite.mockJobRepo.On("FindJobByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.jobID).Return(job, nil)
	suite.mockJobRepo.On("UpdateJobStatus", mock.Anything, suite.tctx.TenantID, suite.jobID,
		domain.JobInProgress, suite.tctx.ActorID, mock.AnythingOfType("time.Time")).Return(nil)
	suite.mockAuditRepo.On("AppendEntry", mock.Anything, mock.AnythingOfType("domain.AuditLogEntry")).Return(nil)

	updated, err := suite.service.TransitionJob(context.Background(), suite.tctx, suite.jobID, domain.JobInProgress)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.JobInProgress, updated.Status)
	suite.mockJobRepo.AssertExpectations(suite.T())
}

func (suite *JobServiceTestSuite) TestTransitionJob_IllegalEdgeRejected() {
	job := suite.jobWithStatus(domain.JobDraft)

	suite.mockJobRepo.On("FindJobByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.jobID).Return(job, nil)

	updated, err := suite.service.TransitionJob(context.Background(), suite.tctx, suite.jobID, domain.JobCompleted)

	assert.Nil(suite.T(), updated)
	var transitionErr *apperrors.InvalidTransitionError
	assert.ErrorAs(suite.T(), err, &transitionErr)
	suite.mockJobRepo.AssertNotCalled(suite.T(), "UpdateJobStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JobServiceTestSuite) TestUpdateJob_CancelledJobImmutable() {
	job := suite.jobWithStatus(domain.JobCancelled)
	newTitle := "Different title"

	suite.mockJobRepo.On("FindJobByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.jobID).Return(job, nil)

	updated, err := suite.service.UpdateJob(context.Background(), suite.tctx, suite.jobID, dto.UpdateJobRequest{Title: &newTitle})

	assert.Nil(suite.T(), updated)
	assert.ErrorIs(suite.T(), err, apperrors.ErrImmutable)
	suite.mockJobRepo.AssertNotCalled(suite.T(), "UpdateJob", mock.Anything, mock.Anything)
}

func (suite *JobServiceTestSuite) TestDeleteJob_NonDraftRejected() {
	job := suite.jobWithStatus(domain.JobScheduled)

	suite.mockJobRepo.On("FindJobByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.jobID).Return(job, nil)

	err := suite.service.DeleteJob(context.Background(), suite.tctx, suite.jobID)

	assert.ErrorIs(suite.T(), err, apperrors.ErrImmutable)
	suite.mockJobRepo.AssertNotCalled(suite.T(), "DeleteJob", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JobServiceTestSuite) TestDeleteJob_DraftDeletedWithAuditEntry() {
	job := suite.jobWithStatus(domain.JobDraft)

	suite.mockJobRepo.On("FindJobByIDForUpdate", mock.Anything, suite.tctx.TenantID, suite.jobID).Return(job, nil)
	suite.mockJobRepo.On("DeleteJob", mock.Anything, suite.tctx.TenantID, suite.jobID).Return(nil)
	suite.mockAuditRepo.On("AppendEntry", mock.Anything, mock.MatchedBy(func(entry domain.AuditLogEntry) bool {
		return entry.Action == domain.ActionDelete && entry.EntityID == suite.jobID
	})).Return(nil)

	err := suite.service.DeleteJob(context.Background(), suite.tctx, suite.jobID)

	assert.NoError(suite.T(), err)
	suite.mockJobRepo.AssertExpectations(suite.T())
	suite.mockAuditRepo.AssertExpectations(suite.T())
}

func TestJobServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JobServiceTestSuite))
}
