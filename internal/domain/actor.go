package domain

import "fmt"

// Role is the closed set of roles an actor can hold.
type Role int

const (
	RoleGuest Role = iota
	RoleRegisteredUser
	RoleEventCoordinator
	RoleAdmin
)

// Roles lists every role, in declaration order.
var Roles = []Role{RoleGuest, RoleRegisteredUser, RoleEventCoordinator, RoleAdmin}

var roleNames = map[Role]string{
	RoleGuest:            "Guest",
	RoleRegisteredUser:   "Registered User",
	RoleEventCoordinator: "Event Coordinator",
	RoleAdmin:            "Admin",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// ParseRole maps a stored role name back to a Role.
func ParseRole(s string) (Role, error) {
	for role, name := range roleNames {
		if name == s {
			return role, nil
		}
	}
	return RoleGuest, fmt.Errorf("unknown role %q", s)
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Actor is the entity performing a request. It is built once per request
// from a verified credential and never persisted.
type Actor struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Guest is the anonymous actor.
var Guest = Actor{Role: RoleGuest}

func (a Actor) IsGuest() bool {
	return a.Role == RoleGuest
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
