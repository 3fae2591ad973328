package middlewares

import (
	"net/http"
	"strings"

	"github.com/geocoder89/standupbot/internal/actorctx"
	"github.com/geocoder89/standupbot/internal/auth"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwt TokenVerifier
}

func NewAuthMiddleware(jwt TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

func abortUnauthorized(c *gin.Context, message string) {
	abortWithError(c, http.StatusUnauthorized, "unauthorized", message)
}

func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(h, "Bearer"))
	return raw, raw != ""
}

func attach(c *gin.Context, claims *auth.Claims) {
	c.Set(CtxUserID, claims.UserID)
	c.Set(CtxEmail, claims.Email)
	c.Set(CtxRole, claims.Role)

	ctx := actorctx.WithActor(c.Request.Context(), actorctx.Actor{UserID: claims.UserID, Role: claims.Role})
	c.Request = c.Request.WithContext(ctx)
}

// OptionalAuth attaches the caller identity when a valid bearer token is
// present. Requests without a token pass through anonymously; a token that
// fails verification is rejected.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}

		raw, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, "Missing or invalid Authorization header")
			return
		}

		claims, err := m.jwt.VerifyAccessToken(raw)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired access token")
			return
		}

		attach(c, claims)
		c.Next()
	}
}

// Optional helpers so handlers don't need to know the magic keys.

func UserIDFromContext(c *gin.Context) (int64, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id != 0
}

func RoleFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxRole)
	if !ok {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}
