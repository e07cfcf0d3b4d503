package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mindpulse/internal/model"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		name     string
		role     model.Role
		required []model.Role
		want     bool
	}{
		{name: "any role", role: model.RoleUser, want: true},
		{name: "member of set", role: model.RoleCoach, required: []model.Role{model.RoleCoach, model.RoleAdmin}, want: true},
		{name: "admin only", role: model.RoleUser, required: []model.Role{model.RoleAdmin}, want: false},
		{name: "coach is not admin", role: model.RoleCoach, required: []model.Role{model.RoleAdmin}, want: false},
		{name: "admin", role: model.RoleAdmin, required: []model.Role{model.RoleAdmin}, want: true},
		{name: "unknown role", role: model.Role("root"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.role, tt.required...))
		})
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFoundError("x")))
	assert.Equal(t, KindUnauthorized, KindOf(ErrInvalidToken))
	assert.Equal(t, KindInternal, KindOf(assert.AnError))
}
