package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eventhub/eventhub/ctxutil"
	"github.com/eventhub/eventhub/logging/logger"
)

// LoggerMiddleware assigns each request a trace id and logs method, path,
// status and duration on completion.
func LoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		ctx, _ := ctxutil.EnsureTraceID(ctxutil.WithGinContext(c.Request.Context(), c))
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		log.Info(c.Request.Context(), "HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"ip", c.ClientIP(),
		)
	}
}
