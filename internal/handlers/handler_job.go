package handlers

import (
	"log/slog"
	"net/http"

	"github.com/fieldsrv/field_service_app/internal/core/domain"
	portssvc "github.com/fieldsrv/field_service_app/internal/core/ports/services"
	"github.com/fieldsrv/field_service_app/internal/dto"
	"github.com/fieldsrv/field_service_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// jobHandler handles HTTP requests related to jobs.
type jobHandler struct {
	jobService   portssvc.JobSvcFacade
	visitService portssvc.VisitSvcFacade
}

func newJobHandler(jobService portssvc.JobSvcFacade, visitService portssvc.VisitSvcFacade) *jobHandler {
	return &jobHandler{jobService: jobService, visitService: visitService}
}

func registerJobRoutes(rg *gin.RouterGroup, jobService portssvc.JobSvcFacade, visitService portssvc.VisitSvcFacade, auditService portssvc.AuditSvcFacade) {
	h := newJobHandler(jobService, visitService)

	jobs := rg.Group("/jobs")
	{
		jobs.POST("", h.createJob)
		jobs.GET("", h.listJobs)
		jobs.GET("/:jobID", h.getJob)
		jobs.PATCH("/:jobID", h.updateJob)
		jobs.DELETE("/:jobID", h.deleteJob)
		jobs.POST("/:jobID/transition", h.transitionJob)
		jobs.GET("/:jobID/visits", h.listJobVisits)
		jobs.GET("/:jobID/timeline", timelineEndpoint(auditService, domain.EntityJob, "jobID"))
	}
}

func (h *jobHandler) createJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for CreateJob", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	job, err := h.jobService.CreateJob(c.Request.Context(), tctx, req)
	if err != nil {
		respondWithError(c, logger, err, "create job")
		return
	}

	logger.Info("Job created", slog.String("job_id", job.JobID))
	c.JSON(http.StatusCreated, job)
}

func (h *jobHandler) getJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	jobID := c.Param("jobID")

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	job, err := h.jobService.GetJobByID(c.Request.Context(), tctx, jobID)
	if err != nil {
		respondWithError(c, logger, err, "get job")
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *jobHandler) listJobs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid pagination parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination parameters"})
		return
	}

	resp, err := h.jobService.ListJobs(c.Request.Context(), tctx, params)
	if err != nil {
		respondWithError(c, logger, err, "list jobs")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *jobHandler) updateJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	jobID := c.Param("jobID")

	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for UpdateJob", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	job, err := h.jobService.UpdateJob(c.Request.Context(), tctx, jobID, req)
	if err != nil {
		respondWithError(c, logger, err, "update job")
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *jobHandler) transitionJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	jobID := c.Param("jobID")

	var req dto.TransitionJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for TransitionJob", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	job, err := h.jobService.TransitionJob(c.Request.Context(), tctx, jobID, req.Status)
	if err != nil {
		respondWithError(c, logger, err, "transition job")
		return
	}

	logger.Info("Job transitioned", slog.String("job_id", jobID), slog.String("status", string(job.Status)))
	c.JSON(http.StatusOK, job)
}

func (h *jobHandler) deleteJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	jobID := c.Param("jobID")

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.jobService.DeleteJob(c.Request.Context(), tctx, jobID); err != nil {
		respondWithError(c, logger, err, "delete job")
		return
	}

	logger.Info("Job deleted", slog.String("job_id", jobID))
	c.Status(http.StatusNoContent)
}

func (h *jobHandler) listJobVisits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	jobID := c.Param("jobID")

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	visits, err := h.visitService.ListVisitsByJob(c.Request.Context(), tctx, jobID)
	if err != nil {
		respondWithError(c, logger, err, "list visits")
		return
	}

	c.JSON(http.StatusOK, gin.H{"visits": visits})
}
