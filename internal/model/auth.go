package model

import "github.com/golang-jwt/jwt/v5"

// TokenType distinguishes access from refresh credentials
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// Claims are the JWT claims issued to a user. Subject holds the user ID
// and ID (jti) identifies the token for revocation.
type Claims struct {
	Type TokenType `json:"type"`
	Role Role      `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenPair is a freshly issued access and refresh token
type TokenPair struct {
	AccessToken  string `json:"-"`
	RefreshToken string `json:"-"`
}

// SignupRequest is the request body for account creation
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,min=2,max=255"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// AuthResponse is returned after signup and login
type AuthResponse struct {
	User    *User  `json:"user"`
	Message string `json:"message"`
}
