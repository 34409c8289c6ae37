package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/niyatisanja0206/resume-builder/internal/render"
	"github.com/niyatisanja0206/resume-builder/pkg/apperror"
	"github.com/niyatisanja0206/resume-builder/pkg/logger"
)

// ErrorMiddleware is the single user-facing error surface. Handlers push
// errors through c.Error; this maps them to a status and preserves the
// original message for diagnostics.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var renderErr *render.Error
		if errors.As(err, &renderErr) {
			// Document construction failed. Never crashes the host: the
			// client gets a diagnostic panel with two recovery actions.
			log.Warn("document rendering failed",
				zap.String("kind", string(renderErr.Kind)),
				zap.String("message", renderErr.Message))
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "render_failed",
				"kind":    renderErr.Kind,
				"message": renderErr.Message,
				"actions": []string{"retry", "reload"},
			})
			return
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			status := apperror.ToHTTPStatus(appErr)
			if status >= http.StatusInternalServerError {
				log.Error("request failed", appErr, zap.String("path", c.FullPath()))
			} else {
				log.Warn("request rejected",
					zap.String("path", c.FullPath()),
					zap.Int("status", status),
					zap.String("message", appErr.Message))
			}
			c.JSON(status, appErr.ToJSON())
			return
		}

		log.Error("unhandled error", err, zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"message": err.Error(),
		})
	}
}
