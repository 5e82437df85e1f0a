package auth

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxFirebaseUID = "firebase_uid"
)

type userIDKey struct{}

// WithUserID returns a copy of ctx carrying the authenticated uid.
func WithUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, userIDKey{}, uid)
}

// UserIDFromContext returns the uid stored by WithUserID, or "".
func UserIDFromContext(ctx context.Context) string {
	uid, _ := ctx.Value(userIDKey{}).(string)
	return strings.TrimSpace(uid)
}

// UserFirebaseUID extracts the Firebase UID from the Gin context
// This is set by FirebaseAuthMiddleware
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}

// SetUser records uid on both the gin context and the request context so
// code below the handler layer can read it without gin.
func SetUser(c *gin.Context, uid string) {
	c.Set(CtxFirebaseUID, uid)
	c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), uid))
}
