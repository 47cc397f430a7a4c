// Package ctxutil carries request-scoped values across the gin/context
// boundary: trace id and the identity resolved by the auth middleware.
package ctxutil

import (
	"context"

	"github.com/gin-gonic/gin"
	nanoid "github.com/matoous/go-nanoid/v2"
)

const (
	ginContextKey = "gin_context"
	userIDKey     = "user_id"
	usernameKey   = "username"
	// TraceIDKey is the context key for the request trace id.
	TraceIDKey = "trace_id"
)

// FromGinContext extracts the context.Context from *gin.Context.
func FromGinContext(c *gin.Context) context.Context {
	return c.Request.Context()
}

// WithGinContext returns a context.Context that embeds the *gin.Context.
func WithGinContext(ctx context.Context, c *gin.Context) context.Context {
	return context.WithValue(ctx, ginContextKey, c)
}

// GetGinContext extracts *gin.Context from context.Context if it exists.
func GetGinContext(ctx context.Context) (*gin.Context, bool) {
	if c, ok := ctx.Value(ginContextKey).(*gin.Context); ok {
		return c, ok
	}
	return nil, false
}

// GetValue retrieves a value from the context.
func GetValue(ctx context.Context, key string) any {
	if c, ok := GetGinContext(ctx); ok {
		if val, exists := c.Get(key); exists {
			return val
		}
	}
	return ctx.Value(key)
}

// SetValue sets a value to the context.
func SetValue(ctx context.Context, key string, val any) context.Context {
	if c, ok := GetGinContext(ctx); ok {
		c.Set(key, val)
	}
	return context.WithValue(ctx, key, val)
}

// SetUserID sets the authenticated user id to the context.
func SetUserID(ctx context.Context, userID string) context.Context {
	return SetValue(ctx, userIDKey, userID)
}

// GetUserID gets the authenticated user id from the context.
// Empty means the request did not pass the auth middleware.
func GetUserID(ctx context.Context) string {
	if id, ok := GetValue(ctx, userIDKey).(string); ok {
		return id
	}
	return ""
}

// SetUsername sets the authenticated username to the context.
func SetUsername(ctx context.Context, username string) context.Context {
	return SetValue(ctx, usernameKey, username)
}

// GetUsername gets the authenticated username from the context.
func GetUsername(ctx context.Context) string {
	if name, ok := GetValue(ctx, usernameKey).(string); ok {
		return name
	}
	return ""
}

// GetTraceID gets trace id from context.Context or gin.Context.
func GetTraceID(ctx context.Context) string {
	if traceID, ok := GetValue(ctx, TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// SetTraceID sets trace id to context.Context and gin.Context if available.
func SetTraceID(ctx context.Context, traceID string) context.Context {
	return SetValue(ctx, TraceIDKey, traceID)
}

// EnsureTraceID ensures that a trace ID exists in the context.
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	if traceID := GetTraceID(ctx); traceID != "" {
		return ctx, traceID
	}
	traceID := nanoid.Must()
	return SetTraceID(ctx, traceID), traceID
}
