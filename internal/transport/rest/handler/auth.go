package handler

import (
	"log/slog"
	"net/http"
	"time"

	"mindpulse/internal/config"
	"mindpulse/internal/model"
	"mindpulse/internal/service"
	"mindpulse/internal/transport/rest/middleware"
	"mindpulse/internal/transport/rest/response"
)

// AuthHandler handles authentication endpoints. Tokens travel as
// HttpOnly cookies.
type AuthHandler struct {
	authSvc *service.AuthService
	cfg     config.AuthConfig
	log     *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *service.AuthService, cfg config.AuthConfig, log *slog.Logger) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, cfg: cfg, log: log}
}

// Signup handles POST /api/v1/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := decode(w, r, &req); err != nil {
		response.Error(w, h.log, err)
		return
	}

	user, tokens, err := h.authSvc.Signup(r.Context(), req)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}

	h.setTokenCookies(w, tokens)
	response.JSON(w, http.StatusCreated, model.AuthResponse{User: user, Message: "Account created successfully"})
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decode(w, r, &req); err != nil {
		response.Error(w, h.log, err)
		return
	}

	user, tokens, err := h.authSvc.Login(r.Context(), req)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}

	h.setTokenCookies(w, tokens)
	response.JSON(w, http.StatusOK, model.AuthResponse{User: user, Message: "Login successful"})
}

// Refresh handles POST /api/v1/auth/refresh. The refresh token is rotated.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(middleware.RefreshCookie)
	if err != nil || c.Value == "" {
		response.Fail(w, http.StatusUnauthorized, service.KindUnauthorized, "missing refresh token")
		return
	}

	tokens, err := h.authSvc.Refresh(r.Context(), c.Value)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}

	h.setTokenCookies(w, tokens)
	response.JSON(w, http.StatusOK, response.Message{Message: "Token refreshed"})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(middleware.RefreshCookie); err == nil && c.Value != "" {
		if err := h.authSvc.Logout(r.Context(), c.Value); err != nil {
			response.Error(w, h.log, err)
			return
		}
	}

	h.clearCookie(w, middleware.AccessCookie)
	h.clearCookie(w, middleware.RefreshCookie)
	response.JSON(w, http.StatusOK, response.Message{Message: "Logged out successfully"})
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, middleware.UserFrom(r.Context()))
}

func (h *AuthHandler) setTokenCookies(w http.ResponseWriter, tokens *model.TokenPair) {
	h.setCookie(w, middleware.AccessCookie, tokens.AccessToken, h.cfg.AccessTTL)
	h.setCookie(w, middleware.RefreshCookie, tokens.RefreshToken, h.cfg.RefreshTTL)
}

func (h *AuthHandler) setCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
