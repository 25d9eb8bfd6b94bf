package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"textbook-market/internal/observability"
)

// RequestIDContextKey is the gin context key the request id is stored under.
const RequestIDContextKey = "request_id"

// RequestID ensures every request carries an id, generating one when the
// client did not supply an X-Request-Id header. The id is echoed back in
// the response for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := observability.RequestIDFromRequest(c.Request)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(RequestIDContextKey, requestID)
		c.Writer.Header().Set("X-Request-Id", requestID)
		c.Next()
	}
}
