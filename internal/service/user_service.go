package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"mindpulse/internal/model"
	"mindpulse/internal/repository"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// UserService manages profiles, settings and admin user operations
type UserService struct {
	users    repository.UserRepo
	settings repository.SettingsRepo
}

func NewUserService(store *repository.Store) *UserService {
	return &UserService{users: store.Users, settings: store.Settings}
}

// UpdateProfile applies the set fields of req to user
func (s *UserService) UpdateProfile(ctx context.Context, user *model.User, req model.ProfileUpdateRequest) (*model.User, error) {
	if req.FullName != nil && strings.TrimSpace(*req.FullName) != "" {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil && *req.Email != "" {
		email := normalizeEmail(*req.Email)
		if email != user.Email {
			other, err := s.users.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != user.ID {
				return nil, ConflictError("email already taken")
			}
			user.Email = email
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ConflictError("email already taken")
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// Settings returns the user's settings, creating defaults on first access
func (s *UserService) Settings(ctx context.Context, userID string) (*model.UserSettings, error) {
	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		return settings, nil
	}

	settings = &model.UserSettings{ID: uuid.NewString(), UserID: userID, Preferences: model.DefaultPreferences()}
	if err := s.settings.Upsert(ctx, settings); err != nil {
		return nil, fmt.Errorf("create settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings merges the set fields of req into the stored preferences
func (s *UserService) UpdateSettings(ctx context.Context, userID string, req model.SettingsUpdateRequest) (*model.UserSettings, error) {
	settings, err := s.Settings(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings.Preferences = req.Apply(settings.Preferences)
	if err := s.settings.Upsert(ctx, settings); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	return settings, nil
}

// ListUsers returns one page of active users matching search
func (s *UserService) ListUsers(ctx context.Context, page, perPage int, search string) (*model.UserPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	users, total, err := s.users.List(ctx, strings.TrimSpace(search), (page-1)*perPage, perPage)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return &model.UserPage{
		Items:   users,
		Total:   total,
		Page:    page,
		PerPage: perPage,
		HasNext: int64(page*perPage) < total,
	}, nil
}

// SetRole changes the role of the user with id
func (s *UserService) SetRole(ctx context.Context, id string, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, ValidationError("unknown role %q", role)
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFoundError("user not found")
	}
	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	return user, nil
}

// Deactivate soft deletes the user with id. Admins cannot remove themselves.
func (s *UserService) Deactivate(ctx context.Context, actor *model.User, id string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return NotFoundError("user not found")
	}
	if user.ID == actor.ID {
		return ValidationError("cannot delete yourself")
	}
	user.IsActive = false
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	return nil
}
