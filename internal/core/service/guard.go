package service

import (
	"github.com/epic-events/crm-system/internal/core/domain"
)

// ownedEntity keys the update-policy table.
type ownedEntity int

const (
	entityClient ownedEntity = iota
	entityContract
	entityEvent
)

// updatePolicy declares which roles may attempt an update on an entity and
// which of them is additionally restricted to resources it owns. Roles not
// listed never pass the gate; the restricted role must also pass the
// ownership check; every other listed role (management) bypasses it.
type updatePolicy struct {
	roles      []domain.Role
	restricted domain.Role
}

var updatePolicies = map[ownedEntity]updatePolicy{
	entityClient:   {roles: []domain.Role{domain.RoleCommercial, domain.RoleManagement}, restricted: domain.RoleCommercial},
	entityContract: {roles: []domain.Role{domain.RoleManagement, domain.RoleCommercial}, restricted: domain.RoleCommercial},
	entityEvent:    {roles: []domain.Role{domain.RoleSupport, domain.RoleManagement}, restricted: domain.RoleSupport},
}

// requireSession admits any authenticated, non-expired session. Expiry is
// detected here via Session.Valid, which also deauthenticates the stale
// session. ACCESS_DENIED is always returned, never displayed.
func requireSession(sess *domain.Session) error {
	if sess == nil || !sess.Valid() {
		return domain.NewError(domain.KindAccessDenied)
	}
	return nil
}

// requireRole admits sessions whose role is in the allowed set.
func requireRole(sess *domain.Session, roles ...domain.Role) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	for _, r := range roles {
		if sess.Role == r {
			return nil
		}
	}
	return domain.NewError(domain.KindAccessDenied)
}

// requireUpdateRole is phase 1 of the two-phase update check: the role
// gate, evaluated before the target resource is ever fetched.
func requireUpdateRole(sess *domain.Session, e ownedEntity) error {
	return requireRole(sess, updatePolicies[e].roles...)
}

// requireOwnership is phase 2, evaluated after the resource is fetched.
// owner is the resource's owning foreign key (nil for orphaned records).
// Only the restricted role for the entity is held to it.
func requireOwnership(sess *domain.Session, e ownedEntity, owner *int64) error {
	if sess.Role != updatePolicies[e].restricted {
		return nil
	}
	if owner == nil || *owner != sess.UserID {
		return domain.NewError(domain.KindAccessDenied)
	}
	return nil
}
