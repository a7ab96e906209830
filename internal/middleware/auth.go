package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"backend/internal/auth"
	"backend/internal/metrics"
	"backend/internal/repository"
	"backend/pkg/apperr"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthCookieName is the HttpOnly cookie carrying the credential. Clients
// may alternatively send it as a Bearer token.
const AuthCookieName = "auth-token"

// Context keys set by the gate for downstream handlers.
const (
	ContextUserIDKey      = "userID"
	ContextClaimsKey      = "claims"      // snapshot claims from the verified token
	ContextFreshClaimsKey = "freshClaims" // claims re-resolved from the store
)

// AuthMiddleware is the access gate: it runs before protected operations,
// extracts and verifies the credential, confirms the principal is still
// active, and checks permissions. Every ambiguous state rejects.
type AuthMiddleware struct {
	codec  *auth.Codec
	users  repository.UserRepository
	logger *zap.Logger
}

func NewAuthMiddleware(codec *auth.Codec, users repository.UserRepository, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{codec: codec, users: users, logger: logger}
}

// SetAuthCookie stores the credential as an HttpOnly cookie for the token's
// lifetime.
func (m *AuthMiddleware) SetAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AuthCookieName, token, int(m.codec.TTL().Seconds()), "/", "", false, true)
}

// ClearAuthCookie discards the client-held credential.
func (m *AuthMiddleware) ClearAuthCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AuthCookieName, "", -1, "/", "", false, true)
}

// extractToken reads the credential from the cookie, falling back to the
// Authorization header. Empty means "not authenticated", which is distinct
// from "invalid token" for logging and metrics.
func extractToken(c *gin.Context) string {
	if token, err := c.Cookie(AuthCookieName); err == nil && token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// RequireAuth admits only requests carrying a verifiable credential for a
// still-active principal. On success both the token's claims snapshot and
// a freshly resolved claims set are placed in the request context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := m.authenticate(c); !ok {
			return
		}
		metrics.ObserveAuthz("admit", "")
		c.Next()
	}
}

// RequirePermission runs the full gate and additionally requires the named
// permission in the principal's live permission set.
func (m *AuthMiddleware) RequirePermission(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		fresh, ok := m.authenticate(c)
		if !ok {
			return
		}

		if !auth.HasPermission(fresh, required) {
			metrics.ObserveAuthz("deny", "missing_permission")
			m.logger.Warn("permission denied",
				zap.String("user_id", fresh.UserID),
				zap.String("required", required))
			c.AbortWithStatusJSON(http.StatusForbidden, response.FromError(apperr.ErrForbidden))
			return
		}

		metrics.ObserveAuthz("admit", "")
		c.Next()
	}
}

// authenticate walks the gate's state machine up to CHECK_ACTIVE. The
// active check is a fresh store lookup, so deactivating a user takes
// effect immediately despite the 24h token lifetime.
func (m *AuthMiddleware) authenticate(c *gin.Context) (*auth.Claims, bool) {
	token := extractToken(c)
	if token == "" {
		metrics.ObserveAuthz("deny", "missing_token")
		m.logger.Debug("request without credential", zap.String("path", c.FullPath()))
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.FromError(apperr.ErrUnauthenticated))
		return nil, false
	}

	claims, err := m.codec.Verify(token, time.Now())
	if err != nil {
		m.ClearAuthCookie(c)
		metrics.ObserveAuthz("deny", verifyReason(err))
		m.logger.Warn("credential rejected",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.FromError(apperr.ErrUnauthenticated))
		return nil, false
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		m.ClearAuthCookie(c)
		metrics.ObserveAuthz("deny", "malformed")
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.FromError(apperr.ErrUnauthenticated))
		return nil, false
	}

	user, err := m.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			// Principal vanished since issuance; treat like an invalid token.
			m.ClearAuthCookie(c)
			metrics.ObserveAuthz("deny", "unknown_principal")
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.FromError(apperr.ErrUnauthenticated))
			return nil, false
		}
		metrics.ObserveAuthz("deny", "store_error")
		m.logger.Error("active check failed", zap.Error(err))
		c.AbortWithStatusJSON(apperr.HTTPStatus(err), response.FromError(err))
		return nil, false
	}

	if !user.IsActive {
		metrics.ObserveAuthz("deny", "inactive")
		m.logger.Warn("inactive principal rejected", zap.String("user_id", claims.UserID))
		c.AbortWithStatusJSON(http.StatusForbidden, response.FromError(apperr.ErrAccountInactive))
		return nil, false
	}

	fresh := auth.ClaimsFromUser(user)
	c.Set(ContextUserIDKey, userID)
	c.Set(ContextClaimsKey, claims)
	c.Set(ContextFreshClaimsKey, fresh)
	return fresh, true
}

func verifyReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpired):
		return "expired"
	case errors.Is(err, auth.ErrBadSignature):
		return "bad_signature"
	default:
		return "malformed"
	}
}
