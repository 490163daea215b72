package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/sadaqah_box_app/internal/apperrors"
	"github.com/SscSPs/sadaqah_box_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondWithError maps a service error to a status and JSON body. Client
// errors carry their message; anything else is logged and reported as failure.
func respondWithError(c *gin.Context, logger *slog.Logger, err error, failure string) {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 500:
		logger.Warn("Request rejected", slog.Int("status", appErr.Code), slog.String("error", err.Error()))
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate resource", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": "Resource already exists"})
	default:
		logger.Error(failure, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": failure})
	}
}

// requireUserID reads the authenticated user, answering 401 when it is missing.
func requireUserID(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}
