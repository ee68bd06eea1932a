package auth

import (
	"testing"
)

func TestRole_Can(t *testing.T) {
	tests := []struct {
		name       string
		role       Role
		capability Capability
		want       bool
	}{
		{
			name:       "user can submit",
			role:       RoleUser,
			capability: CapSubmitContent,
			want:       true,
		},
		{
			name:       "user cannot moderate",
			role:       RoleUser,
			capability: CapModerateContent,
			want:       false,
		},
		{
			name:       "crew cannot moderate",
			role:       RoleCrew,
			capability: CapModerateContent,
			want:       false,
		},
		{
			name:       "verified creator can purchase ads",
			role:       RoleVerifiedCreator,
			capability: CapPurchaseAds,
			want:       true,
		},
		{
			name:       "moderator can moderate",
			role:       RoleModerator,
			capability: CapModerateContent,
			want:       true,
		},
		{
			name:       "moderator cannot manage users",
			role:       RoleModerator,
			capability: CapManageUsers,
			want:       false,
		},
		{
			name:       "founder can moderate and manage users",
			role:       RoleFounder,
			capability: CapModerateContent | CapManageUsers,
			want:       true,
		},
		{
			name:       "admin can moderate and manage users",
			role:       RoleAdmin,
			capability: CapModerateContent | CapManageUsers,
			want:       true,
		},
		{
			name:       "unknown role has no capabilities",
			role:       Role("superuser"),
			capability: CapSubmitContent,
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.role.Can(tt.capability); got != tt.want {
				t.Errorf("Role(%q).Can(%b) = %v, want %v", tt.role, tt.capability, got, tt.want)
			}
		})
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleCrew, RoleVerifiedCreator, RoleModerator, RoleFounder, RoleAdmin} {
		if !r.Valid() {
			t.Errorf("expected role %q to be valid", r)
		}
	}
	if Role("owner").Valid() {
		t.Error("expected unknown role to be invalid")
	}
}
