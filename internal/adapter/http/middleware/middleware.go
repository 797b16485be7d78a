package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// HeaderRequestID carries the request correlation id.
	HeaderRequestID = "X-Request-ID"
	// HeaderActor carries the opaque acting user stamped onto audit records.
	HeaderActor = "X-Actor"

	// Context keys
	CtxRequestID = "request_id"
	CtxActor     = "actor"

	// Actor used when the header is absent.
	anonymousActor = "anonymous"
)

// RequestID assigns every request a correlation id. An id supplied by the
// caller is kept; otherwise a fresh UUID is generated. The id is echoed in
// the response header and placed in the gin context for response envelopes.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(CtxRequestID, id)
		c.Writer.Header().Set(HeaderRequestID, id)
		c.Next()
	}
}

// ActorTag resolves the acting user from the X-Actor header and places it
// in the gin context for handlers to stamp onto audit records.
func ActorTag() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetHeader(HeaderActor)
		if actor == "" {
			actor = anonymousActor
		}
		c.Set(CtxActor, actor)
		c.Next()
	}
}

// Actor returns the acting user resolved by ActorTag.
func Actor(c *gin.Context) string {
	if actor, ok := c.Get(CtxActor); ok {
		if s, ok := actor.(string); ok {
			return s
		}
	}
	return anonymousActor
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Str("actor", Actor(c)).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error_code": "SYS_001",
					"message":    "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

// MaxBodySize returns middleware that limits the request body size.
// Once the limit is exceeded the reader returns an error and the
// request is rejected with 413 Payload Too Large.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
