package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/epic-events/crm-system/internal/core/domain"
)

func TestRequireSession(t *testing.T) {
	f := newFixture()
	user := f.addUser("alice", domain.RoleCommercial)

	assert.NoError(t, requireSession(sessionFor(user)))
	assert.True(t, domain.IsKind(requireSession(nil), domain.KindAccessDenied))

	expired := expiredSession(user)
	assert.True(t, domain.IsKind(requireSession(expired), domain.KindAccessDenied))
	// detecting expiry deauthenticates the session for good
	assert.False(t, expired.Authenticated)

	ended := sessionFor(user)
	ended.End()
	assert.True(t, domain.IsKind(requireSession(ended), domain.KindAccessDenied))
}

func TestRequireRole(t *testing.T) {
	f := newFixture()
	commercial := sessionFor(f.addUser("alice", domain.RoleCommercial))
	support := sessionFor(f.addUser("bob", domain.RoleSupport))

	assert.NoError(t, requireRole(commercial, domain.RoleCommercial, domain.RoleManagement))
	assert.True(t, domain.IsKind(
		requireRole(support, domain.RoleCommercial, domain.RoleManagement),
		domain.KindAccessDenied))
}

func TestRequireOwnership(t *testing.T) {
	f := newFixture()
	commercial := sessionFor(f.addUser("alice", domain.RoleCommercial))
	management := sessionFor(f.addUser("boss", domain.RoleManagement))

	owner := commercial.UserID
	other := owner + 100

	// restricted role must own the resource
	assert.NoError(t, requireOwnership(commercial, entityClient, &owner))
	assert.True(t, domain.IsKind(
		requireOwnership(commercial, entityClient, &other), domain.KindAccessDenied))

	// orphaned records are off-limits to the restricted role
	assert.True(t, domain.IsKind(
		requireOwnership(commercial, entityClient, nil), domain.KindAccessDenied))

	// other admitted roles bypass ownership entirely
	assert.NoError(t, requireOwnership(management, entityClient, &other))
	assert.NoError(t, requireOwnership(management, entityClient, nil))
}
