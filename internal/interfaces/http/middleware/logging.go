package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coachly/coachly/internal/shared/logger"
)

// headerTransmissionID ties an access log line to a PayPal delivery attempt.
const headerTransmissionID = "Paypal-Transmission-Id"

// Logger writes one access line per request. Server errors log at error,
// client errors at warn and the rest at debug.
func Logger(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		args := []any{
			"method", c.Request.Method,
			"route", route,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if requestID := RequestIDFrom(c); requestID != "" {
			args = append(args, "request_id", requestID)
		}
		if userID := CurrentUserID(c); userID != "" {
			args = append(args, "user_id", userID)
		}
		if transmissionID := c.GetHeader(headerTransmissionID); transmissionID != "" {
			args = append(args, "transmission_id", transmissionID)
		}
		if len(c.Errors) > 0 {
			args = append(args, "error", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Errorw("request failed", args...)
		case status >= 400:
			log.Warnw("request rejected", args...)
		default:
			log.Debugw("request completed", args...)
		}
	}
}
