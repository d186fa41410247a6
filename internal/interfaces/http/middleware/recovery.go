package middleware

import (
	"errors"
	"net"
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/coachly/coachly/internal/shared/logger"
	"github.com/coachly/coachly/internal/shared/utils"
)

// redactedHeaders never reach the log.
var redactedHeaders = map[string]bool{
	"Authorization":           true,
	"Cookie":                  true,
	"Paypal-Transmission-Sig": true,
}

func Recovery(log logger.Interface) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		if isBrokenConnection(recovered) {
			log.Warnw("connection broken during request",
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"error", recovered)
			c.Abort()
			return
		}

		log.Errorw("panic recovered",
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"request_id", RequestIDFrom(c),
			"headers", safeHeaders(c.Request.Header),
			"error", recovered,
			"stack", string(debug.Stack()))

		utils.AbortWithError(c, http.StatusInternalServerError, "Internal server error occurred")
	})
}

func safeHeaders(header http.Header) map[string]string {
	out := make(map[string]string, len(header))
	for name, values := range header {
		if redactedHeaders[http.CanonicalHeaderKey(name)] {
			out[name] = "*"
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

func isBrokenConnection(recovered interface{}) bool {
	err, ok := recovered.(error)
	if !ok {
		return false
	}

	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		return false
	}

	var sysErr *os.SyscallError
	if errors.As(opErr.Err, &sysErr) {
		return errors.Is(sysErr.Err, syscall.EPIPE) || errors.Is(sysErr.Err, syscall.ECONNRESET)
	}
	return false
}
