package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"vidshare/internal/app"
	"vidshare/internal/transport/http/middleware"
	"vidshare/internal/transport/http/response"
)

type AuthHandler struct {
	authService *app.AuthService
	cookie      CookieConfig
}

type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// CredentialsRequest carries no binding rules; missing fields fail
// authorization with 401 like any wrong pair.
type CredentialsRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type userView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func NewAuthHandler(authService *app.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	identity, err := h.authService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.KindValidation, err.Error())
		case errors.Is(err, app.ErrEmailExists):
			response.Error(c, http.StatusConflict, response.KindConflict, err.Error())
		default:
			log.Error().Err(err).Msg("register failed")
			response.Error(c, http.StatusInternalServerError, response.KindInternal, "register failed")
		}
		return
	}

	response.Created(c, userView{ID: identity.ID, Email: identity.Email})
}

// Login is the credentials callback: it authorizes the pair, issues the
// session token and sets it as an HttpOnly cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if !bindRequest(c, &req) {
		return
	}

	session, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidCredentials), errors.Is(err, app.ErrUserNotFound):
			response.Error(c, http.StatusUnauthorized, response.KindUnauthorized, app.ErrInvalidCredentials.Error())
		default:
			log.Error().Err(err).Msg("login failed")
			response.Error(c, http.StatusInternalServerError, response.KindInternal, "login failed")
		}
		return
	}

	h.setSessionCookie(c, session.Token, int(time.Until(session.ExpiresAt).Seconds()))
	response.OK(c, gin.H{
		"token":     session.Token,
		"expiresAt": session.ExpiresAt.UTC().Format(time.RFC3339),
		"user":      userView{ID: session.Identity.ID, Email: session.Identity.Email},
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.TokenFromRequest(c, h.cookie.Name)
	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		log.Error().Err(err).Msg("revoke session failed")
		response.Error(c, http.StatusInternalServerError, response.KindInternal, "sign out failed")
		return
	}

	h.setSessionCookie(c, "", -1)
	response.Message(c, "signed out")
}

// Session reports the current identity, or an empty object when signed out
// or when the account behind the token is gone.
func (h *AuthHandler) Session(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		response.OK(c, gin.H{})
		return
	}

	identity, err := h.authService.CurrentUser(c.Request.Context(), session)
	if err != nil {
		if errors.Is(err, app.ErrUserNotFound) {
			response.OK(c, gin.H{})
			return
		}
		log.Error().Err(err).Str("user_id", session.Identity.ID).Msg("load session user failed")
		response.Error(c, http.StatusInternalServerError, response.KindInternal, "failed to load session")
		return
	}

	response.OK(c, gin.H{
		"user":    userView{ID: identity.ID, Email: identity.Email},
		"expires": session.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
