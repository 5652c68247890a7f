package shared_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/qazuor/hospeda-sub009/internal/shared"
)

func TestRoleRanking(t *testing.T) {
	ordered := []shared.Role{
		shared.RoleGuest,
		shared.RoleUser,
		shared.RoleHost,
		shared.RoleEditor,
		shared.RoleAdmin,
		shared.RoleSuperAdmin,
	}
	for i := 1; i < len(ordered); i++ {
		assert.Greater(t, ordered[i].Rank(), ordered[i-1].Rank(), "%s must outrank %s", ordered[i], ordered[i-1])
	}
	assert.Equal(t, -1, shared.Role("INTERN").Rank())
	assert.False(t, shared.Role("INTERN").Valid())
}

func TestActorAtLeast(t *testing.T) {
	editor := shared.Actor{ID: uuid.New(), Role: shared.RoleEditor}
	assert.True(t, editor.AtLeast(shared.RoleHost))
	assert.True(t, editor.AtLeast(shared.RoleEditor))
	assert.False(t, editor.AtLeast(shared.RoleAdmin))
}

func TestActorZeroAndAnonymous(t *testing.T) {
	assert.True(t, shared.Actor{}.IsZero())
	assert.False(t, shared.Guest().IsZero(), "guest is a legitimate actor, not an absent one")
	assert.True(t, shared.Guest().IsAnonymous())
	assert.False(t, shared.Actor{ID: uuid.New(), Role: shared.RoleUser}.IsAnonymous())
}

func TestActorOwns(t *testing.T) {
	id := uuid.New()
	actor := shared.Actor{ID: id, Role: shared.RoleHost}
	assert.True(t, actor.Owns(id))
	assert.False(t, actor.Owns(uuid.New()))
	assert.False(t, actor.Owns(uuid.Nil), "nil owner never matches")
}

func TestHasPermission(t *testing.T) {
	actor := shared.Actor{ID: uuid.New(), Role: shared.RoleUser, Permissions: []string{shared.PermEventCreate}}
	assert.True(t, actor.HasPermission(shared.PermEventCreate))
	assert.False(t, actor.HasPermission(shared.PermEventUpdate))
}
