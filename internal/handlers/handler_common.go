package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fieldsrv/field_service_app/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondWithError maps a service-layer error to an HTTP response. Handlers
// stay thin; every status decision lives here.
func respondWithError(c *gin.Context, logger *slog.Logger, err error, action string) {
	var transitionErr *apperrors.InvalidTransitionError
	var preconditionErr *apperrors.PreconditionFailedError

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.As(err, &transitionErr):
		logger.Warn("Invalid transition", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &preconditionErr):
		logger.Warn("Transition precondition failed", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrImmutable),
		errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Conflict with current state", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Unhandled service error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
