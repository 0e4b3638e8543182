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

// timelineEndpoint builds the audit timeline handler for one entity type.
// Each entity route group mounts it under its own ID parameter.
func timelineEndpoint(auditService portssvc.AuditSvcFacade, entityType domain.EntityType, idParam string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		entityID := c.Param(idParam)

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

		timeline, err := auditService.GetTimeline(c.Request.Context(), tctx, entityType, entityID, params)
		if err != nil {
			respondWithError(c, logger, err, "get timeline")
			return
		}

		c.JSON(http.StatusOK, timeline)
	}
}
