package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/fieldsrv/field_service_app/internal/core/ports/services"
	"github.com/fieldsrv/field_service_app/internal/dto"
	"github.com/fieldsrv/field_service_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// automationHandler handles HTTP requests related to automation definitions.
type automationHandler struct {
	automationService portssvc.AutomationSvcFacade
}

func newAutomationHandler(automationService portssvc.AutomationSvcFacade) *automationHandler {
	return &automationHandler{automationService: automationService}
}

func registerAutomationRoutes(rg *gin.RouterGroup, automationService portssvc.AutomationSvcFacade) {
	h := newAutomationHandler(automationService)

	automations := rg.Group("/automations")
	{
		automations.POST("", h.createAutomation)
		automations.GET("", h.listAutomations)
		automations.GET("/:automationID", h.getAutomation)
		automations.PATCH("/:automationID", h.updateAutomation)
	}
}

func (h *automationHandler) createAutomation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateAutomationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for CreateAutomation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	def, err := h.automationService.CreateAutomation(c.Request.Context(), tctx, req)
	if err != nil {
		respondWithError(c, logger, err, "create automation")
		return
	}

	logger.Info("Automation created", slog.String("automation_id", def.AutomationID), slog.String("type", string(def.Type)))
	c.JSON(http.StatusCreated, def)
}

func (h *automationHandler) getAutomation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	automationID := c.Param("automationID")

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	def, err := h.automationService.GetAutomationByID(c.Request.Context(), tctx, automationID)
	if err != nil {
		respondWithError(c, logger, err, "get automation")
		return
	}

	c.JSON(http.StatusOK, def)
}

func (h *automationHandler) listAutomations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	defs, err := h.automationService.ListAutomations(c.Request.Context(), tctx)
	if err != nil {
		respondWithError(c, logger, err, "list automations")
		return
	}

	c.JSON(http.StatusOK, gin.H{"automations": defs})
}

func (h *automationHandler) updateAutomation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	automationID := c.Param("automationID")

	var req dto.UpdateAutomationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for UpdateAutomation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	def, err := h.automationService.UpdateAutomation(c.Request.Context(), tctx, automationID, req)
	if err != nil {
		respondWithError(c, logger, err, "update automation")
		return
	}

	c.JSON(http.StatusOK, def)
}
