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

// visitHandler handles HTTP requests related to visits.
type visitHandler struct {
	visitService portssvc.VisitSvcFacade
}

func newVisitHandler(visitService portssvc.VisitSvcFacade) *visitHandler {
	return &visitHandler{visitService: visitService}
}

func registerVisitRoutes(rg *gin.RouterGroup, visitService portssvc.VisitSvcFacade, auditService portssvc.AuditSvcFacade) {
	h := newVisitHandler(visitService)

	visits := rg.Group("/visits")
	{
		visits.POST("", h.createVisit)
		visits.GET("/:visitID", h.getVisit)
		visits.PUT("/:visitID/assignee", h.assignVisit)
		visits.PUT("/:visitID/schedule", h.rescheduleVisit)
		visits.POST("/:visitID/transition", h.transitionVisit)
		visits.GET("/:visitID/timeline", timelineEndpoint(auditService, domain.EntityVisit, "visitID"))
	}
}

func (h *visitHandler) createVisit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for CreateVisit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	visit, err := h.visitService.CreateVisit(c.Request.Context(), tctx, req)
	if err != nil {
		respondWithError(c, logger, err, "create visit")
		return
	}

	logger.Info("Visit created", slog.String("visit_id", visit.VisitID), slog.String("job_id", visit.JobID))
	c.JSON(http.StatusCreated, visit)
}

func (h *visitHandler) getVisit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	visitID := c.Param("visitID")

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	visit, err := h.visitService.GetVisitByID(c.Request.Context(), tctx, visitID)
	if err != nil {
		respondWithError(c, logger, err, "get visit")
		return
	}

	c.JSON(http.StatusOK, visit)
}

func (h *visitHandler) assignVisit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	visitID := c.Param("visitID")

	var req dto.AssignVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for AssignVisit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	visit, err := h.visitService.AssignVisit(c.Request.Context(), tctx, visitID, req.AssigneeID)
	if err != nil {
		respondWithError(c, logger, err, "assign visit")
		return
	}

	c.JSON(http.StatusOK, visit)
}

func (h *visitHandler) rescheduleVisit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	visitID := c.Param("visitID")

	var req dto.RescheduleVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for RescheduleVisit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	visit, err := h.visitService.RescheduleVisit(c.Request.Context(), tctx, visitID, req)
	if err != nil {
		respondWithError(c, logger, err, "reschedule visit")
		return
	}

	c.JSON(http.StatusOK, visit)
}

func (h *visitHandler) transitionVisit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	visitID := c.Param("visitID")

	var req dto.TransitionVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for TransitionVisit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	visit, err := h.visitService.TransitionVisit(c.Request.Context(), tctx, visitID, req.Status)
	if err != nil {
		respondWithError(c, logger, err, "transition visit")
		return
	}

	logger.Info("Visit transitioned", slog.String("visit_id", visitID), slog.String("status", string(visit.Status)))
	c.JSON(http.StatusOK, visit)
}
