package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// contextKey keeps our request-context values from colliding with other packages.
type contextKey string

const (
	userIDKey    = contextKey("userID")
	loggerCtxKey = contextKey("logger")
	requestIDKey = contextKey("requestID")
	rolesKey     = contextKey("roles")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(userIDKey)); exists {
		userID, ok := v.(string)
		return userID, ok && userID != ""
	}
	return GetUserIDFromCtx(c.Request.Context())
}

// GetUserIDFromCtx reads the user ID placed on a standard context by AuthMiddleware.
func GetUserIDFromCtx(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// WithUserID returns ctx carrying userID, as AuthMiddleware would set it.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetRequestIDFromCtx returns the request ID assigned by StructuredLoggingMiddleware.
func GetRequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
