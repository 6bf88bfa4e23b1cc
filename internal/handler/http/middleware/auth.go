package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/uiineed/todo-service/internal/domain/models"
	"github.com/uiineed/todo-service/internal/infrastructure/security"
)

type principalKey struct{}

// PrincipalFromContext returns the verified caller identity attached by the
// auth middleware, if any.
func PrincipalFromContext(ctx context.Context) (models.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(models.Principal)
	return principal, ok
}

// ExtractToken strips the scheme prefix from a credential header value. A
// header without the prefix means "no credential supplied", not an error.
func ExtractToken(headerValue, prefix string) string {
	if headerValue == "" {
		return ""
	}
	parts := strings.SplitN(headerValue, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], prefix) {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth rejects requests without a valid access token. The rejection
// body is a uniform "unauthenticated" envelope; the specific failure kind is
// logged but never leaked to the caller. On success the principal is
// attached to the request context for downstream handlers.
func RequireAuth(tokens *security.JWTService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c.GetHeader(tokens.Header()), tokens.Prefix())
		if token == "" {
			rejectUnauthenticated(c)
			return
		}

		claims, err := tokens.ValidateAccessToken(token)
		if err != nil {
			logger.Warn("rejected access token",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
			)
			rejectUnauthenticated(c)
			return
		}

		principal, err := claims.Principal()
		if err != nil {
			logger.Warn("access token carries an unusable subject", zap.Error(err))
			rejectUnauthenticated(c)
			return
		}

		attachPrincipal(c, principal)
		c.Next()
	}
}

// OptionalAuth attaches a principal when a valid token is present but never
// blocks the request. Malformed tokens on public routes are logged and
// ignored.
func OptionalAuth(tokens *security.JWTService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c.GetHeader(tokens.Header()), tokens.Prefix())
		if token != "" {
			claims, err := tokens.ValidateAccessToken(token)
			if err != nil {
				logger.Debug("ignoring invalid token on public route",
					zap.Error(err),
					zap.String("path", c.Request.URL.Path),
				)
			} else if principal, perr := claims.Principal(); perr == nil {
				attachPrincipal(c, principal)
			}
		}
		c.Next()
	}
}

func attachPrincipal(c *gin.Context, principal models.Principal) {
	ctx := context.WithValue(c.Request.Context(), principalKey{}, principal)
	c.Request = c.Request.WithContext(ctx)
}

func rejectUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":      401,
		"message":   "unauthenticated",
		"timestamp": time.Now().UnixMilli(),
	})
}
