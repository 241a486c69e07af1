package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"erents/internal/app/apperr"
	domainrental "erents/internal/domain/rental"
)

// respondError translates a classified application error into the HTTP
// status the API contract promises. Validation failures carry the full
// violation list so clients can surface every broken rule at once.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	var validation *domainrental.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "validation failed",
			"violations": validation.Violations,
		})
		return
	}

	var appErr *apperr.Error
	message := "internal error"
	if errors.As(err, &appErr) && appErr.Kind != apperr.KindUnexpected {
		message = appErr.Message
	}

	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": message})
	case apperr.KindUnauthorized:
		c.JSON(http.StatusForbidden, gin.H{"error": message})
	case apperr.KindInvalidState:
		c.JSON(http.StatusConflict, gin.H{"error": message})
	case apperr.KindValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
	default:
		if logger != nil {
			logger.Error("request failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}
