package model

import "time"

// Role is the access level of a user
type Role string

const (
	RoleUser  Role = "user"
	RoleCoach Role = "coach"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleCoach, RoleAdmin:
		return true
	}
	return false
}

// User is a registered account
type User struct {
	ID             string     `json:"id" bson:"_id"`
	Email          string     `json:"email" bson:"email"`
	HashedPassword string     `json:"-" bson:"hashedPassword"`
	FullName       string     `json:"full_name" bson:"fullName"`
	Role           Role       `json:"role" bson:"role"`
	IsActive       bool       `json:"-" bson:"isActive"`
	CreatedAt      time.Time  `json:"created_at" bson:"createdAt"`
	UpdatedAt      time.Time  `json:"updated_at" bson:"updatedAt"`
	LastLogin      *time.Time `json:"last_login" bson:"lastLogin,omitempty"`
}

// Preferences are per-user UI and notification settings
type Preferences struct {
	Theme              string `json:"theme" bson:"theme"`
	Language           string `json:"language" bson:"language"`
	NotificationsEmail bool   `json:"notifications_email" bson:"notificationsEmail"`
	NotificationsPush  bool   `json:"notifications_push" bson:"notificationsPush"`
	Timezone           string `json:"timezone" bson:"timezone"`
}

// DefaultPreferences returns the preferences a new account starts with
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:              "light",
		Language:           "en",
		NotificationsEmail: true,
		NotificationsPush:  true,
		Timezone:           "Asia/Kolkata",
	}
}

// UserSettings holds one user's preferences
type UserSettings struct {
	ID          string      `json:"id" bson:"_id"`
	UserID      string      `json:"user_id" bson:"userId"`
	Preferences Preferences `json:"preferences" bson:"preferences"`
}

// UserPage is one page of an admin user listing
type UserPage struct {
	Items   []*User `json:"items"`
	Total   int64   `json:"total"`
	Page    int     `json:"page"`
	PerPage int     `json:"per_page"`
	HasNext bool    `json:"has_next"`
}
