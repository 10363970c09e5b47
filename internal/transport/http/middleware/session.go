package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"vidshare/internal/app"
	"vidshare/internal/transport/http/response"
)

const ContextSessionKey = "session"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*app.SessionView, error)
}

// Gate authenticates the request's session token, if any, and then applies
// the policy once. Handlers behind it read the session with CurrentSession
// and do not re-check access.
func Gate(auth Authenticator, policy Policy, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := TokenFromRequest(c, cookieName); token != "" {
			session, err := auth.Authenticate(c.Request.Context(), token)
			switch {
			case err == nil:
				c.Set(ContextSessionKey, session)
			case errors.Is(err, app.ErrInvalidToken), errors.Is(err, app.ErrTokenRevoked):
				log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("rejected session token")
			default:
				log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("authenticate session failed")
			}
		}

		path := c.Request.URL.Path
		if policy.IsPublic(c.Request.Method, path) {
			c.Next()
			return
		}
		if _, ok := CurrentSession(c); ok {
			c.Next()
			return
		}

		if strings.HasPrefix(path, "/api/") {
			response.Error(c, http.StatusUnauthorized, response.KindUnauthorized, "authentication required")
			c.Abort()
			return
		}
		c.Redirect(http.StatusFound, "/login?callbackUrl="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// TokenFromRequest prefers the Authorization bearer token and falls back to
// the session cookie.
func TokenFromRequest(c *gin.Context, cookieName string) string {
	const prefix = "Bearer "
	if header := strings.TrimSpace(c.GetHeader("Authorization")); strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, prefix))
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie
	}
	return ""
}

func CurrentSession(c *gin.Context) (*app.SessionView, bool) {
	value, exists := c.Get(ContextSessionKey)
	if !exists {
		return nil, false
	}
	session, ok := value.(*app.SessionView)
	return session, ok && session != nil
}
