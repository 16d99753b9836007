package v1

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/adanyl0v/smart-task/internal/models"
	"github.com/adanyl0v/smart-task/internal/services"
)

const (
	userIDCtxKey  = "user_id"
	sessionCtxKey = "session"
)

func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	token, err := c.Cookie(h.cookie.Name)
	if err != nil || token == "" {
		h.logger.Debug().Msg("session cookie not found")
		abort(c, newUnauthorizedError(msgNotAuthorized))
		return
	}

	session, err := h.sessions.Authenticate(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSession) {
			abort(c, newUnauthorizedError(msgNotAuthorized))
			return
		}

		h.abortWithServiceError(c, err, "failed to authenticate session")
		return
	}

	c.Set(userIDCtxKey, session.User.ID)
	c.Set(sessionCtxKey, session)
	c.Next()
}

func getStringFromContext(c *gin.Context, key string) (string, bool) {
	value, exists := c.Get(key)
	if !exists {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

func getSessionFromContext(c *gin.Context) (*models.Session, bool) {
	value, exists := c.Get(sessionCtxKey)
	if !exists {
		return nil, false
	}
	session, ok := value.(*models.Session)
	return session, ok
}

// RequestLogger writes one line per request.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		}

		userID, _ := getStringFromContext(c, userIDCtxKey)
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("user_id", userID).
			Msg("handled request")
	}
}

// Tracing starts a server span per request and stores it in the
// request context so that services can attach child spans.
func Tracing(tracer trace.Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.FullPath()
		if name == "" {
			name = "unmatched"
		}

		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := tracer.Start(ctx, c.Request.Method+" "+name,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", c.Request.Method),
				attribute.String("http.route", name),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if status >= 500 {
			span.SetStatus(codes.Error, "server error")
		}
	}
}
