package crud

import (
	"github.com/google/uuid"

	"github.com/qazuor/hospeda-sub009/internal/shared"
)

// Rule describes the role-or-grant dual check repeated across every
// permission predicate: authorized when the actor's role ranks at or above
// MinRole, or when the actor carries the named grant. Rules with an empty
// Permission are role-only (the hard-delete tier has no grant escape).
// Action is the human description used in FORBIDDEN reasons.
type Rule struct {
	MinRole    shared.Role
	Permission string
	Action     string
}

// Authorize applies the rule to the actor. A zero actor is an integration
// defect and yields UNAUTHORIZED; anonymous and guest-tier actors are
// rejected for every rule-guarded (non-public) operation.
func Authorize(actor shared.Actor, rule Rule) error {
	if actor.IsZero() {
		return Unauthorizedf("actor is required to %s", rule.Action)
	}
	if rule.Permission == "" {
		if actor.AtLeast(rule.MinRole) {
			return nil
		}
		return Forbiddenf("Only %s can %s", rule.MinRole.Label(), rule.Action)
	}
	if actor.IsAnonymous() || actor.Role == shared.RoleGuest {
		return Forbiddenf("Sign in required to %s", rule.Action)
	}
	if actor.AtLeast(rule.MinRole) || actor.HasPermission(rule.Permission) {
		return nil
	}
	return Forbiddenf("Only %s or users with %s can %s", rule.MinRole.Label(), rule.Permission, rule.Action)
}

// AuthorizeOwner is the ownership variant: the owning actor passes outright,
// anyone else must satisfy the rule.
func AuthorizeOwner(actor shared.Actor, ownerID uuid.UUID, rule Rule) error {
	if actor.IsZero() {
		return Unauthorizedf("actor is required to %s", rule.Action)
	}
	if actor.Owns(ownerID) {
		return nil
	}
	if err := Authorize(actor, rule); err != nil {
		if coded, ok := AsError(err); ok && coded.Code == CodeForbidden {
			return Forbiddenf("Only the owner, %s or users with %s can %s", rule.MinRole.Label(), rule.Permission, rule.Action)
		}
		return err
	}
	return nil
}
