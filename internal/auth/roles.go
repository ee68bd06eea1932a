package auth

// Role is the wire and storage representation of a user's access level.
type Role string

const (
	RoleUser            Role = "user"
	RoleCrew            Role = "crew"
	RoleVerifiedCreator Role = "verified_creator"
	RoleModerator       Role = "moderator"
	RoleFounder         Role = "founder"
	RoleAdmin           Role = "admin"
)

// Capability is a bit in the capability set a role grants. Handlers check
// capabilities instead of comparing role strings.
type Capability uint8

const (
	CapSubmitContent Capability = 1 << iota
	CapPurchaseAds
	CapModerateContent
	CapManageUsers
)

var roleCapabilities = map[Role]Capability{
	RoleUser:            CapSubmitContent | CapPurchaseAds,
	RoleCrew:            CapSubmitContent | CapPurchaseAds,
	RoleVerifiedCreator: CapSubmitContent | CapPurchaseAds,
	RoleModerator:       CapSubmitContent | CapPurchaseAds | CapModerateContent,
	RoleFounder:         CapSubmitContent | CapPurchaseAds | CapModerateContent | CapManageUsers,
	RoleAdmin:           CapSubmitContent | CapPurchaseAds | CapModerateContent | CapManageUsers,
}

// Valid reports whether the role is one of the known role strings.
func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Capabilities returns the capability set for the role. Unknown roles get
// no capabilities.
func (r Role) Capabilities() Capability {
	return roleCapabilities[r]
}

// Can reports whether the role grants every capability in c.
func (r Role) Can(c Capability) bool {
	return roleCapabilities[r]&c == c
}
