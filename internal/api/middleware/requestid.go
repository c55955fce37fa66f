package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/tracelinehq/traceline/internal/shared/id"
)

// HeaderRequestID echoes the minted request ID back to the caller.
const HeaderRequestID = "X-Request-ID"

// RequestID mints a prefixed request ID for every inbound request,
// makes it available on the request context for log correlation, and
// echoes it on the response. Unlike the trace pair, request IDs are
// never taken from the caller: each hop gets its own.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := id.NewRequestID()

		c.Request = c.Request.WithContext(id.WithRequestID(c.Request.Context(), rid))
		c.Header(HeaderRequestID, string(rid))

		c.Next()
	}
}
