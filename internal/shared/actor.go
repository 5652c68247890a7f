package shared

import (
	"github.com/google/uuid"
)

// Role identifies a tier in the fixed role hierarchy.
type Role string

// Role hierarchy, highest privilege first.
const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleEditor     Role = "EDITOR"
	RoleHost       Role = "HOST"
	RoleUser       Role = "USER"
	RoleGuest      Role = "GUEST"
)

var roleRanks = map[Role]int{
	RoleGuest:      0,
	RoleUser:       1,
	RoleHost:       2,
	RoleEditor:     3,
	RoleAdmin:      4,
	RoleSuperAdmin: 5,
}

// Rank returns the numeric privilege rank of the role. Unknown roles rank
// below guest.
func (r Role) Rank() int {
	if rank, ok := roleRanks[r]; ok {
		return rank
	}
	return -1
}

// Valid reports whether the role belongs to the declared hierarchy.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// Label returns the plural human form used in authorization messages.
func (r Role) Label() string {
	switch r {
	case RoleSuperAdmin:
		return "super admins"
	case RoleAdmin:
		return "admins"
	case RoleEditor:
		return "editors"
	case RoleHost:
		return "hosts"
	case RoleUser:
		return "users"
	default:
		return "guests"
	}
}

// Actor is the identity an operation executes on behalf of. It is supplied
// by the caller on every invocation and never persisted.
type Actor struct {
	ID          uuid.UUID `json:"id"`
	Role        Role      `json:"role"`
	Permissions []string  `json:"permissions"`
}

// Guest returns the anonymous actor used for unauthenticated requests.
func Guest() Actor {
	return Actor{Role: RoleGuest}
}

// IsZero reports whether the actor argument was effectively absent, which
// signals a caller-side integration defect rather than a legitimate actor.
func (a Actor) IsZero() bool {
	return a.Role == ""
}

// IsAnonymous reports whether the actor lacks an identity.
func (a Actor) IsAnonymous() bool {
	return a.ID == uuid.Nil
}

// AtLeast reports whether the actor's role ranks at or above the given role.
func (a Actor) AtLeast(role Role) bool {
	return a.Role.Rank() >= role.Rank()
}

// HasPermission reports whether the actor carries the named grant.
func (a Actor) HasPermission(name string) bool {
	for _, p := range a.Permissions {
		if p == name {
			return true
		}
	}
	return false
}

// Owns reports whether the actor is the identified owner.
func (a Actor) Owns(ownerID uuid.UUID) bool {
	return ownerID != uuid.Nil && a.ID == ownerID
}
