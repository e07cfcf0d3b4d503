package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindpulse/internal/cache"
	"mindpulse/internal/model"
	"mindpulse/internal/repository"
)

func newAuth(t *testing.T) (*AuthService, *repository.Store) {
	t.Helper()
	store := newStore(t)
	return NewAuthService(store, cache.NewMemoryTokenCache(), testAuthConfig(), discardLogger()), store
}

func signup(t *testing.T, svc *AuthService, email string) (*model.User, *model.TokenPair) {
	t.Helper()
	user, tokens, err := svc.Signup(context.Background(), model.SignupRequest{
		Email: email, Password: "password123", FullName: "Test User",
	})
	require.NoError(t, err)
	return user, tokens
}

func TestSignupCreatesUserAndSettings(t *testing.T) {
	ctx := context.Background()
	svc, store := newAuth(t)

	user, tokens := signup(t, svc, " Ana@Example.com ")
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "password123", user.HashedPassword)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	settings, err := store.Settings.Get(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.Equal(t, model.DefaultPreferences(), settings.Preferences)

	_, _, err = svc.Signup(ctx, model.SignupRequest{Email: "ana@example.com", Password: "password123", FullName: "Again"})
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, store := newAuth(t)
	created, _ := signup(t, svc, "bo@example.com")

	_, _, err := svc.Login(ctx, model.LoginRequest{Email: "bo@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, model.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	user, tokens, err := svc.Login(ctx, model.LoginRequest{Email: "bo@example.com", Password: "password123"})
	require.NoError(t, err)
	require.NotNil(t, user.LastLogin)
	assert.NotEmpty(t, tokens.AccessToken)

	stored, err := store.Users.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLogin)

	stored.IsActive = false
	require.NoError(t, store.Users.Update(ctx, stored))
	_, _, err = svc.Login(ctx, model.LoginRequest{Email: "bo@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInactiveAccount)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestAuthenticateChecksTokenType(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuth(t)
	user, tokens := signup(t, svc, "cy@example.com")

	got, err := svc.Authenticate(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Authenticate(ctx, "")
	assert.Equal(t, KindUnauthorized, KindOf(err))

	_, err = svc.Authenticate(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticateRejectsExpiredAndInactive(t *testing.T) {
	ctx := context.Background()
	svc, store := newAuth(t)
	user, tokens := signup(t, svc, "di@example.com")

	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err := svc.Authenticate(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	svc.now = time.Now

	user.IsActive = false
	require.NoError(t, store.Users.Update(ctx, user))
	_, err = svc.Authenticate(ctx, tokens.AccessToken)
	assert.Equal(t, KindUnauthorized, KindOf(err))
}

func TestRefreshRotatesTokens(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuth(t)
	_, tokens := signup(t, svc, "ed@example.com")

	next, err := svc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, next.RefreshToken)

	_, err = svc.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "a used refresh token is revoked")

	_, err = svc.Refresh(ctx, next.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Refresh(ctx, "")
	assert.Equal(t, KindUnauthorized, KindOf(err))
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuth(t)
	_, tokens := signup(t, svc, "fi@example.com")

	require.NoError(t, svc.Logout(ctx, tokens.RefreshToken))
	_, err := svc.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	assert.NoError(t, svc.Logout(ctx, ""))
	assert.NoError(t, svc.Logout(ctx, "garbage"))
}
