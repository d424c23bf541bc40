package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epic-events/crm-system/internal/core/domain"
	"github.com/epic-events/crm-system/internal/core/ports"
)

func validUserInput() ports.CreateUserInput {
	return ports.CreateUserInput{
		Username:  "carol",
		FirstName: "Carol",
		LastName:  "Jones",
		Email:     "carol@epic.events",
		Role:      "support",
		Password:  "secret",
	}
}

func TestUserCreate(t *testing.T) {
	f := newFixture()
	mgmt := sessionFor(f.addUser("boss", domain.RoleManagement))

	user, err := f.userSvc.Create(context.Background(), mgmt, validUserInput())
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, domain.RoleSupport, user.Role)
	assert.Equal(t, "hashed:secret", user.PasswordHash, "password must be hashed before storage")
	assert.Len(t, f.db.users, 2)
}

func TestUserCreateRequiresManagement(t *testing.T) {
	f := newFixture()
	commercial := sessionFor(f.addUser("alice", domain.RoleCommercial))

	_, err := f.userSvc.Create(context.Background(), commercial, validUserInput())
	assert.True(t, domain.IsKind(err, domain.KindAccessDenied))
	assert.Len(t, f.db.users, 1, "nothing may be written on a denied create")
}

func TestUserCreateValidationOrder(t *testing.T) {
	f := newFixture()
	mgmt := sessionFor(f.addUser("boss", domain.RoleManagement))
	f.addUser("taken", domain.RoleSupport)

	// a duplicate username wins over every later failure
	in := validUserInput()
	in.Username = "taken"
	in.Email = "taken@epic.events" // also duplicate
	in.Role = "wizard"             // also invalid
	_, err := f.userSvc.Create(context.Background(), mgmt, in)
	assert.True(t, domain.IsKind(err, domain.KindUsernameTaken))

	// duplicate email is reported before the invalid role
	in = validUserInput()
	in.Email = "taken@epic.events"
	in.Role = "wizard"
	_, err = f.userSvc.Create(context.Background(), mgmt, in)
	assert.True(t, domain.IsKind(err, domain.KindEmailTaken))

	// invalid role is reported before empty required fields
	in = validUserInput()
	in.Role = "wizard"
	in.Password = ""
	_, err = f.userSvc.Create(context.Background(), mgmt, in)
	assert.True(t, domain.IsKind(err, domain.KindInvalidRole))

	// an empty role falls through to the required-fields check
	in = validUserInput()
	in.Role = ""
	_, err = f.userSvc.Create(context.Background(), mgmt, in)
	assert.True(t, domain.IsKind(err, domain.KindRequiredFieldsEmpty))

	// whitespace counts as empty
	in = validUserInput()
	in.FirstName = "   "
	_, err = f.userSvc.Create(context.Background(), mgmt, in)
	assert.True(t, domain.IsKind(err, domain.KindRequiredFieldsEmpty))

	assert.Len(t, f.db.users, 2, "no failed attempt may leave a row behind")
}

func TestUserCreateDuplicateLeavesSingleRow(t *testing.T) {
	f := newFixture()
	mgmt := sessionFor(f.addUser("boss", domain.RoleManagement))

	_, err := f.userSvc.Create(context.Background(), mgmt, validUserInput())
	require.NoError(t, err)
	_, err = f.userSvc.Create(context.Background(), mgmt, validUserInput())
	assert.True(t, domain.IsKind(err, domain.KindUsernameTaken))
	assert.Len(t, f.db.users, 2)
}

func TestUserCreateBootstrapForcesManagement(t *testing.T) {
	f := newFixture()

	in := validUserInput()
	in.Role = "support"
	user, err := f.userSvc.CreateBootstrap(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManagement, user.Role)
}

func TestUserUpdate(t *testing.T) {
	f := newFixture()
	mgmt := sessionFor(f.addUser("boss", domain.RoleManagement))
	target := f.addUser("carol", domain.RoleSupport)

	updated, err := f.userSvc.Update(context.Background(), mgmt, target.ID, ports.UpdateUserInput{
		Email: "carol.j@epic.events",
		Role:  "commercial",
	})
	require.NoError(t, err)
	assert.Equal(t, "carol.j@epic.events", updated.Email)
	assert.Equal(t, domain.RoleCommercial, updated.Role)
	// untouched fields keep their stored values
	assert.Equal(t, "carol", updated.Username)
	assert.Equal(t, target.LastName, updated.LastName)
}

func TestUserUpdateUniquenessExcludesSelf(t *testing.T) {
	f := newFixture()
	mgmt := sessionFor(f.addUser("boss", domain.RoleManagement))
	target := f.addUser("carol", domain.RoleSupport)

	// re-submitting the user's own username and email is not a conflict
	_, err := f.userSvc.Update(context.Background(), mgmt, target.ID, ports.UpdateUserInput{
		Username: "carol",
		Email:    "carol@epic.events",
	})
	assert.NoError(t, err)

	// but another user's username is
	_, err = f.userSvc.Update(context.Background(), mgmt, target.ID, ports.UpdateUserInput{
		Username: "boss",
	})
	assert.True(t, domain.IsKind(err, domain.KindUsernameTaken))
}

func TestUserUpdateUnknownID(t *testing.T) {
	f := newFixture()
	mgmt := sessionFor(f.addUser("boss", domain.RoleManagement))

	_, err := f.userSvc.Update(context.Background(), mgmt, 999, ports.UpdateUserInput{Email: "x@y.z"})
	assert.True(t, domain.IsKind(err, domain.KindContactNotFound))
}

func TestUserDeleteCascadesByNullification(t *testing.T) {
	f := newFixture()
	mgmt := sessionFor(f.addUser("boss", domain.RoleManagement))
	victim := f.addUser("alice", domain.RoleCommercial)
	other := f.addUser("bob", domain.RoleSupport)

	c1 := f.addClient("c1@acme.io", &victim.ID)
	c2 := f.addClient("c2@acme.io", &other.ID)
	ct1 := f.addContract(c1.ID, &victim.ID, 1000, 500, true)
	ev1 := f.addEvent(c1.ID, &victim.ID)
	ev2 := f.addEvent(c2.ID, &other.ID)

	require.NoError(t, f.userSvc.Delete(context.Background(), mgmt, victim.ID))

	assert.NotContains(t, f.db.users, victim.ID)
	assert.Nil(t, f.db.clients[c1.ID].CommercialContactID)
	assert.Nil(t, f.db.contracts[ct1.ID].CommercialContactID)
	assert.Nil(t, f.db.events[ev1.ID].SupportContactID)

	// records owned by other users are untouched
	assert.Equal(t, other.ID, *f.db.clients[c2.ID].CommercialContactID)
	assert.Equal(t, other.ID, *f.db.events[ev2.ID].SupportContactID)
}

func TestUserDeleteUnknownID(t *testing.T) {
	f := newFixture()
	mgmt := sessionFor(f.addUser("boss", domain.RoleManagement))

	err := f.userSvc.Delete(context.Background(), mgmt, 999)
	assert.True(t, domain.IsKind(err, domain.KindContactNotFound))
}

func TestUserDeleteRollsBackOnFailure(t *testing.T) {
	f := newFixture()
	mgmt := sessionFor(f.addUser("boss", domain.RoleManagement))
	victim := f.addUser("alice", domain.RoleCommercial)
	client := f.addClient("c1@acme.io", &victim.ID)
	event := f.addEvent(client.ID, &victim.ID)

	// the event dissociation fails after clients were already dissociated
	f.db.failClearEvents = true

	err := f.userSvc.Delete(context.Background(), mgmt, victim.ID)
	assert.True(t, domain.IsKind(err, domain.KindDeleteFailed))

	// everything is back exactly as it was
	assert.Contains(t, f.db.users, victim.ID)
	assert.Equal(t, victim.ID, *f.db.clients[client.ID].CommercialContactID)
	assert.Equal(t, victim.ID, *f.db.events[event.ID].SupportContactID)
}

func TestUserDeleteFinalStepFailureRollsBack(t *testing.T) {
	f := newFixture()
	mgmt := sessionFor(f.addUser("boss", domain.RoleManagement))
	victim := f.addUser("alice", domain.RoleCommercial)
	client := f.addClient("c1@acme.io", &victim.ID)

	f.db.failUserDelete = true

	err := f.userSvc.Delete(context.Background(), mgmt, victim.ID)
	assert.True(t, domain.IsKind(err, domain.KindDeleteFailed))
	assert.Contains(t, f.db.users, victim.ID)
	assert.Equal(t, victim.ID, *f.db.clients[client.ID].CommercialContactID)
}

func TestUserList(t *testing.T) {
	f := newFixture()
	support := sessionFor(f.addUser("bob", domain.RoleSupport))
	f.addUser("alice", domain.RoleCommercial)

	users, err := f.userSvc.List(context.Background(), support)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	_, err = f.userSvc.List(context.Background(), nil)
	assert.True(t, domain.IsKind(err, domain.KindAccessDenied))
}
