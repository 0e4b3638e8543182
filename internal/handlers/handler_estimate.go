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

// estimateHandler handles HTTP requests related to estimates.
type estimateHandler struct {
	estimateService portssvc.EstimateSvcFacade
}

func newEstimateHandler(estimateService portssvc.EstimateSvcFacade) *estimateHandler {
	return &estimateHandler{estimateService: estimateService}
}

func registerEstimateRoutes(rg *gin.RouterGroup, estimateService portssvc.EstimateSvcFacade, auditService portssvc.AuditSvcFacade) {
	h := newEstimateHandler(estimateService)

	estimates := rg.Group("/estimates")
	{
		estimates.POST("", h.createEstimate)
		estimates.GET("", h.listEstimates)
		estimates.GET("/:estimateID", h.getEstimate)
		estimates.PUT("/:estimateID/items", h.updateItems)
		estimates.PUT("/:estimateID/notes", h.updateNotes)
		estimates.POST("/:estimateID/transition", h.transitionEstimate)
		estimates.POST("/:estimateID/convert", h.convertToInvoice)
		estimates.GET("/:estimateID/timeline", timelineEndpoint(auditService, domain.EntityEstimate, "estimateID"))
	}
}

func (h *estimateHandler) createEstimate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for CreateEstimate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	estimate, err := h.estimateService.CreateEstimate(c.Request.Context(), tctx, req)
	if err != nil {
		respondWithError(c, logger, err, "create estimate")
		return
	}

	logger.Info("Estimate created", slog.String("estimate_id", estimate.EstimateID))
	c.JSON(http.StatusCreated, estimate)
}

func (h *estimateHandler) getEstimate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	estimateID := c.Param("estimateID")

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	estimate, err := h.estimateService.GetEstimateByID(c.Request.Context(), tctx, estimateID)
	if err != nil {
		respondWithError(c, logger, err, "get estimate")
		return
	}

	c.JSON(http.StatusOK, estimate)
}

func (h *estimateHandler) listEstimates(c *gin.Context) {
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

	resp, err := h.estimateService.ListEstimates(c.Request.Context(), tctx, params)
	if err != nil {
		respondWithError(c, logger, err, "list estimates")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *estimateHandler) updateItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	estimateID := c.Param("estimateID")

	var req dto.UpdateEstimateItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for UpdateEstimateItems", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	estimate, err := h.estimateService.UpdateEstimateItems(c.Request.Context(), tctx, estimateID, req)
	if err != nil {
		respondWithError(c, logger, err, "update estimate items")
		return
	}

	c.JSON(http.StatusOK, estimate)
}

func (h *estimateHandler) updateNotes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	estimateID := c.Param("estimateID")

	var req dto.UpdateEstimateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for UpdateEstimateNotes", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	estimate, err := h.estimateService.UpdateEstimateNotes(c.Request.Context(), tctx, estimateID, req.Notes)
	if err != nil {
		respondWithError(c, logger, err, "update estimate notes")
		return
	}

	c.JSON(http.StatusOK, estimate)
}

func (h *estimateHandler) transitionEstimate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	estimateID := c.Param("estimateID")

	var req dto.TransitionEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for TransitionEstimate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	estimate, err := h.estimateService.TransitionEstimate(c.Request.Context(), tctx, estimateID, req.Status)
	if err != nil {
		respondWithError(c, logger, err, "transition estimate")
		return
	}

	logger.Info("Estimate transitioned", slog.String("estimate_id", estimateID), slog.String("status", string(estimate.Status)))
	c.JSON(http.StatusOK, estimate)
}

func (h *estimateHandler) convertToInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	estimateID := c.Param("estimateID")

	var req dto.ConvertEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for ConvertEstimate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.estimateService.ConvertToInvoice(c.Request.Context(), tctx, estimateID, req.DueDate)
	if err != nil {
		respondWithError(c, logger, err, "convert estimate")
		return
	}

	logger.Info("Estimate converted to invoice", slog.String("estimate_id", estimateID), slog.String("invoice_id", invoice.InvoiceID))
	c.JSON(http.StatusCreated, invoice)
}
