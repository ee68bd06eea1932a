package models

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/fivemhub/backend/internal/auth"
)

func TestUser_Validate(t *testing.T) {
	valid := User{
		ID:          uuid.New(),
		Email:       "alice@example.com",
		DisplayName: "Alice",
		Role:        auth.RoleUser,
	}

	tests := []struct {
		name    string
		mutate  func(u *User)
		wantErr bool
	}{
		{"valid user", func(u *User) {}, false},
		{"missing email", func(u *User) { u.Email = "" }, true},
		{"malformed email", func(u *User) { u.Email = "not-an-email" }, true},
		{"missing display name", func(u *User) { u.DisplayName = "" }, true},
		{"display name too short", func(u *User) { u.DisplayName = "a" }, true},
		{"display name too long", func(u *User) { u.DisplayName = strings.Repeat("a", 101) }, true},
		{"unknown role", func(u *User) { u.Role = "overlord" }, true},
		{"moderator role", func(u *User) { u.Role = auth.RoleModerator }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := valid
			tt.mutate(&u)
			err := u.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
