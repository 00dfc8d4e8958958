package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger writes one entry per request. Handlers attach the cause of a
// failed resize with c.Error so it ends up next to the status.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		entry := logrus.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
			"client_ip":   c.ClientIP(),
			"request_id":  c.GetString(RequestIDKey),
			"bytes_in":    c.Request.ContentLength,
			"bytes_out":   c.Writer.Size(),
		})
		if last := c.Errors.Last(); last != nil {
			entry = entry.WithField("error", last.Error())
		}

		switch {
		case status == http.StatusRequestEntityTooLarge:
			entry.Warn("Image rejected, payload too large")
		case status >= http.StatusInternalServerError:
			entry.Error("Resize failed")
		case status >= http.StatusBadRequest:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request processed")
		}
	}
}
