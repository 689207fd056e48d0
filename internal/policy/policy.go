// Package policy decides whether a subject may perform an action on a
// resource and which rows a subject may list. Every function is pure: the
// caller supplies the subject and a snapshot of the resource.
package policy

import (
	"inventory-manager/internal/apperr"
	"inventory-manager/internal/models"
)

const (
	ReasonUnauthenticated = "Authentication required"
	ReasonRole            = "Access denied"
	ReasonNotInScope      = "not in scope"
	ReasonNotManager      = "Access denied. You can only manage stores that you manage"
	ReasonAdminOnly       = "Only admins can perform this action"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string

	unauthenticated bool
}

func Allow() Decision { return Decision{Allowed: true} }

func Deny(reason string) Decision { return Decision{Reason: reason} }

// Err converts a denial into an apperr error; nil when allowed.
func (d Decision) Err() error {
	switch {
	case d.Allowed:
		return nil
	case d.unauthenticated:
		return apperr.Unauthenticated(d.Reason)
	}
	return apperr.Forbidden(d.Reason)
}

func unauthenticated() Decision {
	return Decision{Reason: ReasonUnauthenticated, unauthenticated: true}
}

// RequireRole allows the subject when its role is one of roles.
func RequireRole(sub Subject, roles ...models.UserRole) Decision {
	if !sub.Authenticated() {
		return unauthenticated()
	}
	for _, r := range roles {
		if sub.Role == r {
			return Allow()
		}
	}
	return Deny(ReasonRole)
}

// Authorize evaluates action on res for sub.
//
//   - list: any authenticated role; rows are narrowed by ListScope.
//   - view: the resource must be in scope through at least one of its stores.
//   - create/update on products and stores: admins, or managers managing
//     every store the resource touches.
//   - create/update on suppliers and users, delete, assign_manager: admins.
func Authorize(sub Subject, action Action, res Resource) Decision {
	if !sub.Authenticated() {
		return unauthenticated()
	}
	if !sub.Role.Valid() {
		return Deny(ReasonRole)
	}

	switch action {
	case ActionList:
		return Allow()

	case ActionView:
		if sub.IsAdmin() {
			return Allow()
		}
		for _, st := range res.Stores {
			if sub.InScope(st) {
				return Allow()
			}
		}
		return Deny(ReasonNotInScope)

	case ActionCreate, ActionUpdate:
		switch res.Kind {
		case KindProduct, KindStore:
			return authorizeStoreWrite(sub, res)
		}
		return adminOnly(sub)

	case ActionDelete, ActionAssignManager:
		return adminOnly(sub)
	}
	return Deny(ReasonRole)
}

func authorizeStoreWrite(sub Subject, res Resource) Decision {
	switch sub.Role {
	case models.RoleAdmin:
		return Allow()
	case models.RoleManager:
		if len(res.Stores) == 0 {
			return Deny(ReasonNotManager)
		}
		for _, st := range res.Stores {
			if !sub.Manages(st) {
				return Deny(ReasonNotManager)
			}
		}
		return Allow()
	}
	return Deny(ReasonRole)
}

func adminOnly(sub Subject) Decision {
	if sub.IsAdmin() {
		return Allow()
	}
	return Deny(ReasonAdminOnly)
}
