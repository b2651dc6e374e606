package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"server-yool/internal/utils"
)

// InjectTrace assigns every request a trace id. It is exposed in the X-Trace-Id
// header and bound to both the gin context and the request context, so that
// repositories and detached tasks log under the same id.
func InjectTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceId := c.GetHeader("X-Trace-Id")
		if traceId == "" || len(traceId) > 64 {
			traceId = utils.GenerateTraceId()
		}

		c.Set(utils.TraceIdKey.String(), traceId)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), utils.TraceIdKey, traceId))
		c.Header("X-Trace-Id", traceId)
		c.Next()
	}
}
