package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orderdesk/backend/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that rejects request bodies larger than
// maxBytes. Oversized multipart uploads of shipment photos would
// otherwise be buffered in full before the handler sees them.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeRequestTooLarge,
					"Request body exceeds maximum allowed size", c.GetString(RequestIDKey)))
			return
		}

		// Wrap the body so chunked requests without a declared length
		// are still cut off at the limit while streaming.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
