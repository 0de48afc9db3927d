package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vesselworks/dashboard/internal/modules/model"
	"github.com/vesselworks/dashboard/internal/modules/serializer"
)

// Headers set by the session gateway in front of this service.
const (
	HeaderFirmID   = "X-Firm-Id"
	HeaderUserID   = "X-User-Id"
	HeaderUserRole = "X-User-Role"
)

// SessionKey is the gin context key holding the model.SessionContext.
const SessionKey = "session"

// Session reads the forwarded session headers into the context. Requests without a
// firm are rejected unless the role sees every firm.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := model.SessionContext{
			FirmID: c.GetHeader(HeaderFirmID),
			UserID: c.GetHeader(HeaderUserID),
			Role:   c.GetHeader(HeaderUserRole),
		}
		if err := sess.Validate(); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, serializer.ParamErr(err.Error(), nil))
			return
		}

		// Set firm_id attribute on the current span for telemetry filtering
		span := trace.SpanFromContext(c.Request.Context())
		if span.SpanContext().IsValid() {
			span.SetAttributes(
				attribute.String("firm_id", sess.FirmID),
				attribute.String("user_role", sess.Role),
			)
		}

		c.Set(SessionKey, sess)
		c.Next()
	}
}
