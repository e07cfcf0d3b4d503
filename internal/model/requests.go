package model

// CheckinRequest is the request body for submitting a check-in
type CheckinRequest struct {
	Mood       *int     `json:"mood" validate:"required,min=1,max=10"`
	SleepHours *float64 `json:"sleep_hours" validate:"required,gte=0,lte=24"`
	Notes      string   `json:"notes" validate:"max=1000"`
}

// AlertUpdateRequest changes an alert's status
type AlertUpdateRequest struct {
	Status AlertStatus `json:"status" validate:"required,oneof=acknowledged closed"`
}

// ProfileUpdateRequest updates the caller's profile. Empty fields are left unchanged.
type ProfileUpdateRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=255"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

// SettingsUpdateRequest patches the caller's preferences
type SettingsUpdateRequest struct {
	Theme              *string `json:"theme"`
	Language           *string `json:"language"`
	NotificationsEmail *bool   `json:"notifications_email"`
	NotificationsPush  *bool   `json:"notifications_push"`
	Timezone           *string `json:"timezone"`
}

// Apply copies the set fields of r onto p
func (r SettingsUpdateRequest) Apply(p Preferences) Preferences {
	if r.Theme != nil {
		p.Theme = *r.Theme
	}
	if r.Language != nil {
		p.Language = *r.Language
	}
	if r.NotificationsEmail != nil {
		p.NotificationsEmail = *r.NotificationsEmail
	}
	if r.NotificationsPush != nil {
		p.NotificationsPush = *r.NotificationsPush
	}
	if r.Timezone != nil {
		p.Timezone = *r.Timezone
	}
	return p
}

// RoleUpdateRequest changes a user's role (admin only)
type RoleUpdateRequest struct {
	Role Role `json:"role" validate:"required,oneof=user coach admin"`
}
