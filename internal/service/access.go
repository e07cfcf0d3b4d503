package service

import "mindpulse/internal/model"

// Allowed reports whether role is one of required. An empty required
// set admits any known role.
func Allowed(role model.Role, required ...model.Role) bool {
	if !role.Valid() {
		return false
	}
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		if r == role {
			return true
		}
	}
	return false
}
