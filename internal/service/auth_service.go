package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"mindpulse/internal/cache"
	"mindpulse/internal/config"
	"mindpulse/internal/model"
	"mindpulse/internal/repository"
)

var bcryptCost = bcrypt.DefaultCost

// AuthService handles accounts, credentials and token lifecycles
type AuthService struct {
	users    repository.UserRepo
	settings repository.SettingsRepo
	revoked  cache.TokenCache
	cfg      config.AuthConfig
	log      *slog.Logger
	now      func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(store *repository.Store, revoked cache.TokenCache, cfg config.AuthConfig, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    store.Users,
		settings: store.Settings,
		revoked:  revoked,
		cfg:      cfg,
		log:      log.With(slog.String("component", "auth")),
		now:      time.Now,
	}
}

// Signup creates an account with default settings and signs it in
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (*model.User, *model.TokenPair, error) {
	email := normalizeEmail(req.Email)
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, ConflictError("email already registered")
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, nil, err
	}
	user := &model.User{
		ID:             uuid.NewString(),
		Email:          email,
		HashedPassword: hash,
		FullName:       strings.TrimSpace(req.FullName),
		Role:           model.RoleUser,
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ConflictError("email already registered")
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	settings := &model.UserSettings{ID: uuid.NewString(), UserID: user.ID, Preferences: model.DefaultPreferences()}
	if err := s.settings.Upsert(ctx, settings); err != nil {
		return nil, nil, fmt.Errorf("create settings: %w", err)
	}

	tokens, err := s.IssueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	s.log.Info("user_signed_up", slog.String("user_id", user.ID))
	return user, tokens, nil
}

// Login verifies credentials and records the login time
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.User, *model.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, nil, err
	}
	if user == nil || !CheckPassword(user.HashedPassword, req.Password) {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, ErrInactiveAccount
	}

	now := s.now().UTC()
	user.LastLogin = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("record login: %w", err)
	}

	tokens, err := s.IssueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token
// is revoked so it cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	if refreshToken == "" {
		return nil, UnauthorizedError("no refresh token")
	}
	claims, err := s.ParseToken(refreshToken, model.TokenRefresh)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrInvalidToken
	}

	user, err := s.activeUser(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if err := s.revoke(ctx, claims); err != nil {
		return nil, err
	}
	return s.IssueTokens(user)
}

// Logout revokes the refresh token when one is presented. Invalid
// tokens are ignored; the caller clears cookies either way.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := s.ParseToken(refreshToken, model.TokenRefresh)
	if err != nil {
		return nil
	}
	return s.revoke(ctx, claims)
}

// Authenticate resolves an access token to an active user
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*model.User, error) {
	if accessToken == "" {
		return nil, UnauthorizedError("not authenticated")
	}
	claims, err := s.ParseToken(accessToken, model.TokenAccess)
	if err != nil {
		return nil, err
	}
	return s.activeUser(ctx, claims.Subject)
}

func (s *AuthService) activeUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, UnauthorizedError("user not found")
	}
	return user, nil
}

func (s *AuthService) revoke(ctx context.Context, claims *model.Claims) error {
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Sub(s.now())); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IssueTokens signs a fresh access and refresh token for user
func (s *AuthService) IssueTokens(user *model.User) (*model.TokenPair, error) {
	access, err := s.sign(user.ID, model.TokenAccess, user.Role, s.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(user.ID, model.TokenRefresh, "", s.cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) sign(subject string, typ model.TokenType, role model.Role, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &model.Claims{
		Type: typ,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

// ParseToken validates signature, expiry and token type
func (s *AuthService) ParseToken(tokenString string, want model.TokenType) (*model.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.SecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.Claims)
	if !ok || !token.Valid || claims.Type != want || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
