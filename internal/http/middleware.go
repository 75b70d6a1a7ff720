package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"game-catalog/internal/auth"
	"game-catalog/internal/domain"
)

const tokenExpiredHeader = "Token-Expired"

// RequestAuthenticator resolves the caller's identity from a bearer token or,
// failing that, the named cookie. It never rejects a request: an absent or
// invalid token leaves the request anonymous and gated routes decide.
func RequestAuthenticator(tokens *auth.TokenCodec, cookieName string, logger *logrus.Logger, clock func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" && cookieName != "" {
			raw, _ = c.Cookie(cookieName)
		}
		if raw == "" {
			c.Next()
			return
		}

		id, err := tokens.Validate(raw, clock())
		if err != nil {
			logger.WithFields(logrus.Fields{
				"reason": tokenFailureReason(err),
				"path":   c.Request.URL.Path,
			}).WithError(err).Warn("token rejected")
			if errors.Is(err, auth.ErrTokenExpired) {
				c.Header(tokenExpiredHeader, "true")
			}
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func tokenFailureReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return "expired"
	case errors.Is(err, auth.ErrTokenBadSignature):
		return "bad_signature"
	default:
		return "malformed"
	}
}

func requireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := auth.RequireAuthenticated(c.Request.Context()); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}
		c.Next()
	}
}

// requireRole answers 401 for anonymous callers and 403 for callers without role.
func requireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := auth.RequireAuthenticated(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}
		if err := auth.RequireRole(id, role); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden"})
			return
		}
		c.Next()
	}
}

func accessLog(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		entry := logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    status,
			"latency":   time.Since(start),
			"client_ip": c.ClientIP(),
		})
		if id, ok := auth.IdentityFrom(c.Request.Context()); ok {
			entry = entry.WithField("user_id", id.UserID)
		}
		if status >= http.StatusInternalServerError {
			entry.Error("request")
			return
		}
		entry.Info("request")
	}
}
