package middleware

import (
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/carparks/internal/logger"
	"github.com/stwalsh4118/carparks/internal/metrics"
)

// Recovery turns a handler panic into a 500 response in the standard error
// shape and counts it when m is non-nil. Gin's own recovery output is
// discarded; the panic is logged once through log.
func Recovery(log *logger.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		requestID := GetRequestID(c)

		requestLogger := GetLogger(c)
		if requestLogger == nil {
			requestLogger = log
		}
		requestLogger.Error("Panic recovered", fmt.Errorf("panic: %v", recovered), logger.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"route":      c.FullPath(),
			"stack":      string(debug.Stack()),
		})

		if m != nil {
			m.PanicsTotal.Inc()
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":       "INTERNAL_SERVER_ERROR",
				"message":    "An unexpected error occurred",
				"request_id": requestID,
			},
		})
	})
}
