package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindpulse/internal/model"
	"mindpulse/internal/repository"
)

func addUser(t *testing.T, store *repository.Store, email string) *model.User {
	t.Helper()
	u := &model.User{ID: uuid.NewString(), Email: email, FullName: "Name " + email, Role: model.RoleUser, IsActive: true}
	require.NoError(t, store.Users.Create(context.Background(), u))
	return u
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	svc := NewUserService(store)
	a := addUser(t, store, "a@example.com")
	addUser(t, store, "b@example.com")

	got, err := svc.UpdateProfile(ctx, a, model.ProfileUpdateRequest{FullName: strPtr("Alice A"), Email: strPtr("alice@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "Alice A", got.FullName)
	assert.Equal(t, "alice@example.com", got.Email)

	_, err = svc.UpdateProfile(ctx, a, model.ProfileUpdateRequest{Email: strPtr("B@example.com")})
	assert.Equal(t, KindConflict, KindOf(err))

	// an empty update leaves the profile as is
	got, err = svc.UpdateProfile(ctx, a, model.ProfileUpdateRequest{FullName: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "Alice A", got.FullName)
}

func TestSettingsDefaultsAndPatch(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	svc := NewUserService(store)
	u := addUser(t, store, "s@example.com")

	settings, err := svc.Settings(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPreferences(), settings.Preferences)

	dark := "dark"
	off := false
	updated, err := svc.UpdateSettings(ctx, u.ID, model.SettingsUpdateRequest{Theme: &dark, NotificationsPush: &off})
	require.NoError(t, err)
	assert.Equal(t, settings.ID, updated.ID)
	assert.Equal(t, "dark", updated.Preferences.Theme)
	assert.False(t, updated.Preferences.NotificationsPush)
	assert.True(t, updated.Preferences.NotificationsEmail)
	assert.Equal(t, "en", updated.Preferences.Language)
}

func TestListUsersPaging(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	svc := NewUserService(store)
	for i := 0; i < 5; i++ {
		addUser(t, store, fmt.Sprintf("user%d@example.com", i))
	}

	page, err := svc.ListUsers(ctx, 1, 2, "")
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.HasNext)

	page, err = svc.ListUsers(ctx, 3, 2, "")
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.False(t, page.HasNext)

	page, err = svc.ListUsers(ctx, 0, 500, "USER3")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, MaxPerPage, page.PerPage)
	assert.EqualValues(t, 1, page.Total)
}

func TestSetRoleAndDeactivate(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	svc := NewUserService(store)
	admin := addUser(t, store, "admin@example.com")
	target := addUser(t, store, "t@example.com")

	got, err := svc.SetRole(ctx, target.ID, model.RoleCoach)
	require.NoError(t, err)
	assert.Equal(t, model.RoleCoach, got.Role)

	_, err = svc.SetRole(ctx, "missing", model.RoleCoach)
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = svc.SetRole(ctx, target.ID, model.Role("root"))
	assert.Equal(t, KindValidation, KindOf(err))

	assert.Equal(t, KindValidation, KindOf(svc.Deactivate(ctx, admin, admin.ID)))
	require.NoError(t, svc.Deactivate(ctx, admin, target.ID))

	stored, err := store.Users.GetByID(ctx, target.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}
