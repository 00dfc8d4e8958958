package middleware

import (
	"net/http"

	"github.com/ahmedsomaa/picloom/internal/entity"
	"github.com/gin-gonic/gin"
)

// BodyLimit rejects requests whose raw body is larger than limit bytes.
// Bodies without a Content-Length are cut off by http.MaxBytesReader and
// the handler sees *http.MaxBytesError.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}

		if c.Request.ContentLength > limit {
			_ = c.Error(entity.ErrPayloadTooLarge)
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, entity.ErrorResponse{Error: entity.ErrPayloadTooLarge.Error()})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
