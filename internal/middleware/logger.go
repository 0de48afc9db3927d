package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vesselworks/dashboard/internal/modules/model"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger logs one line per request. Dashboard API calls log at info, the rest at debug.
// Server errors are raised to error level.
func ZapLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		status := c.Writer.Status()

		level := zapcore.DebugLevel
		switch {
		case status >= 500:
			level = zapcore.ErrorLevel
		case strings.HasPrefix(path, "/api/"):
			level = zapcore.InfoLevel
		}
		ce := log.Check(level, "HTTP")
		if ce == nil {
			return
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("route", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if v, ok := c.Get(SessionKey); ok {
			if sess, ok := v.(model.SessionContext); ok {
				fields = append(fields, zap.String("firm_id", sess.FirmID), zap.String("user_id", sess.UserID))
			}
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		ce.Write(fields...)
	}
}
