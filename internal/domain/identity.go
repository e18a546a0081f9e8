package domain

import (
	"strings"
	"time"
)

// Role enumerates the fixed set of business roles. Authorization is literal
// membership in a per-route whitelist; the informal seniority ordering
// (administrator > owner > manager > ...) grants nothing by itself.
type Role string

const (
	RoleAdministrator Role = "ADMINISTRATOR"
	RoleOwner         Role = "OWNER"
	RoleManager       Role = "MANAGER"
	RoleKitchen       Role = "KITCHEN"
	RoleBarStaff      Role = "BAR_STAFF"
	RoleFloorStaff    Role = "FLOOR_STAFF"
	RoleCustomer      Role = "CUSTOMER"
)

// DefaultRole is assigned on public registration. Other roles are granted
// by an administrator or owner.
const DefaultRole = RoleCustomer

var validRoles = map[Role]struct{}{
	RoleAdministrator: {},
	RoleOwner:         {},
	RoleManager:       {},
	RoleKitchen:       {},
	RoleBarStaff:      {},
	RoleFloorStaff:    {},
	RoleCustomer:      {},
}

// ParseRole validates a role string, tolerating lower-case input.
func ParseRole(s string) (Role, bool) {
	role := Role(strings.ToUpper(s))
	_, ok := validRoles[role]
	return role, ok
}

// Identity is the authority-owned record for one account. SecretHash and
// RefreshBindingHash never serialize: responses built from an Identity must
// go through PublicProfile, and the json tags are a second line of defense.
type Identity struct {
	ID                 string    `json:"id"`
	FirstName          string    `json:"firstName"`
	LastName           string    `json:"lastName"`
	Email              string    `json:"email"`
	SecretHash         string    `json:"-"`
	Role               Role      `json:"role"`
	Phone              string    `json:"phone,omitempty"`
	Active             bool      `json:"active"`
	RefreshBindingHash *string   `json:"-"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// PublicProfile is the caller-visible projection of an Identity.
type PublicProfile struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	Phone     string `json:"phone,omitempty"`
	Active    bool   `json:"active"`
}

// Profile builds the public projection.
func (i *Identity) Profile() PublicProfile {
	return PublicProfile{
		ID:        i.ID,
		FirstName: i.FirstName,
		LastName:  i.LastName,
		Email:     i.Email,
		Role:      i.Role,
		Phone:     i.Phone,
		Active:    i.Active,
	}
}

// FullName returns "LastName FirstName".
func (i *Identity) FullName() string {
	return i.LastName + " " + i.FirstName
}

// NormalizeEmail lowercases the match key. Applied on every write and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
