package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	rauth "github.com/roomify-app/roomify-backend/internal/auth"
)

const devUserHeader = "X-User-Id"

// TokenVerifier is the part of *auth.Client the middleware needs.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type Options struct {
	// AllowDevHeader accepts X-User-Id when no bearer token is sent.
	// Use this ONLY for development/testing.
	AllowDevHeader bool
	Logger         *logrus.Logger
}

// FirebaseAuthMiddleware validates Firebase ID tokens and extracts user info.
// verifier may be nil when Firebase is not configured; only the dev header
// is accepted then.
func FirebaseAuthMiddleware(verifier TokenVerifier, opts Options) gin.HandlerFunc {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return func(c *gin.Context) {
		token := extractToken(c)

		if token == "" {
			uid := strings.TrimSpace(c.GetHeader(devUserHeader))
			if opts.AllowDevHeader && uid != "" {
				rauth.SetUser(c, uid)
				c.Next()
				return
			}
			unauthorized(c, "missing authorization token")
			return
		}

		if verifier == nil {
			unauthorized(c, "token verification is not configured")
			return
		}

		decodedToken, err := verifier.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			log.WithError(err).WithField("path", c.FullPath()).Warn("rejected id token")
			unauthorized(c, "invalid token")
			return
		}

		rauth.SetUser(c, decodedToken.UID)

		// Extract email from claims if available
		if email, ok := decodedToken.Claims["email"].(string); ok {
			c.Set("email", email)
		}

		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   "Authentication failed",
		"message": msg,
	})
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}
