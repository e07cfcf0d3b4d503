package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"mindpulse/internal/model"
	"mindpulse/internal/service"
	"mindpulse/internal/transport/rest/response"
)

// Cookie names carrying the credentials
const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

type contextKey string

const userKey contextKey = "user"

// AuthMiddleware resolves the caller from an access token
type AuthMiddleware struct {
	authSvc *service.AuthService
	log     *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService, log *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc, log: log}
}

// Authenticate rejects requests without a valid access token for an
// active user and stores that user in the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := AccessToken(r)
		if token == "" {
			response.Fail(w, http.StatusUnauthorized, service.KindUnauthorized, "missing credentials")
			return
		}

		user, err := m.authSvc.Authenticate(r.Context(), token)
		if err != nil {
			response.Error(w, m.log, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireRole admits authenticated callers whose role is one of roles.
// It must run after Authenticate.
func RequireRole(roles ...model.Role) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFrom(r.Context())
			if user == nil {
				response.Fail(w, http.StatusUnauthorized, service.KindUnauthorized, "missing credentials")
				return
			}
			if !service.Allowed(user.Role, roles...) {
				response.Fail(w, http.StatusForbidden, service.KindForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithUser returns a copy of ctx carrying user
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFrom extracts the authenticated user from context
func UserFrom(ctx context.Context) *model.User {
	if v, ok := ctx.Value(userKey).(*model.User); ok {
		return v
	}
	return nil
}

// AccessToken reads the bearer token, falling back to the access cookie
func AccessToken(r *http.Request) string {
	if token := extractBearerToken(r); token != "" {
		return token
	}
	if c, err := r.Cookie(AccessCookie); err == nil {
		return c.Value
	}
	return ""
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
