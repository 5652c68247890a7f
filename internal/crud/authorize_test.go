package crud_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

func TestAuthorizeRoleOrGrant(t *testing.T) {
	rule := crud.Rule{MinRole: shared.RoleAdmin, Permission: "SUBSCRIPTION_CREATE", Action: "create subscriptions"}

	tests := []struct {
		name    string
		actor   shared.Actor
		wantErr string
	}{
		{
			name:  "role at threshold passes",
			actor: shared.Actor{ID: uuid.New(), Role: shared.RoleAdmin},
		},
		{
			name:  "role above threshold passes",
			actor: shared.Actor{ID: uuid.New(), Role: shared.RoleSuperAdmin},
		},
		{
			name:  "grant substitutes for role",
			actor: shared.Actor{ID: uuid.New(), Role: shared.RoleUser, Permissions: []string{"SUBSCRIPTION_CREATE"}},
		},
		{
			name:    "role below threshold without grant",
			actor:   shared.Actor{ID: uuid.New(), Role: shared.RoleEditor},
			wantErr: "Only admins or users with SUBSCRIPTION_CREATE can create subscriptions",
		},
		{
			name:    "unrelated grant does not help",
			actor:   shared.Actor{ID: uuid.New(), Role: shared.RoleUser, Permissions: []string{"EVENT_CREATE"}},
			wantErr: "Only admins or users with SUBSCRIPTION_CREATE can create subscriptions",
		},
		{
			name:    "guest is told to sign in",
			actor:   shared.Guest(),
			wantErr: "Sign in required to create subscriptions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := crud.Authorize(tt.actor, rule)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			coded, ok := crud.AsError(err)
			require.True(t, ok)
			assert.Equal(t, crud.CodeForbidden, coded.Code)
			assert.Equal(t, tt.wantErr, coded.Message)
		})
	}
}

func TestAuthorizeZeroActor(t *testing.T) {
	err := crud.Authorize(shared.Actor{}, crud.Rule{MinRole: shared.RoleAdmin, Action: "create subscriptions"})
	coded, ok := crud.AsError(err)
	require.True(t, ok)
	assert.Equal(t, crud.CodeUnauthorized, coded.Code)
}

func TestAuthorizeRoleOnlyRule(t *testing.T) {
	rule := crud.Rule{MinRole: shared.RoleSuperAdmin, Action: "hard delete events"}

	assert.NoError(t, crud.Authorize(shared.Actor{ID: uuid.New(), Role: shared.RoleSuperAdmin}, rule))

	// Grants never satisfy a role-only rule.
	granted := shared.Actor{ID: uuid.New(), Role: shared.RoleAdmin, Permissions: []string{"EVENT_HARD_DELETE"}}
	err := crud.Authorize(granted, rule)
	coded, ok := crud.AsError(err)
	require.True(t, ok)
	assert.Equal(t, crud.CodeForbidden, coded.Code)
	assert.Equal(t, "Only super admins can hard delete events", coded.Message)
}

func TestAuthorizeOwner(t *testing.T) {
	rule := crud.Rule{MinRole: shared.RoleAdmin, Permission: "ACCOMMODATION_UPDATE", Action: "update accommodations"}
	owner := shared.Actor{ID: uuid.New(), Role: shared.RoleHost}

	assert.NoError(t, crud.AuthorizeOwner(owner, owner.ID, rule))
	assert.NoError(t, crud.AuthorizeOwner(shared.Actor{ID: uuid.New(), Role: shared.RoleAdmin}, owner.ID, rule))

	stranger := shared.Actor{ID: uuid.New(), Role: shared.RoleHost}
	err := crud.AuthorizeOwner(stranger, owner.ID, rule)
	coded, ok := crud.AsError(err)
	require.True(t, ok)
	assert.Equal(t, crud.CodeForbidden, coded.Code)
	assert.Equal(t, "Only the owner, admins or users with ACCOMMODATION_UPDATE can update accommodations", coded.Message)

	// A nil owner id never grants ownership.
	err = crud.AuthorizeOwner(shared.Actor{ID: uuid.Nil, Role: shared.RoleHost}, uuid.Nil, rule)
	assert.Equal(t, crud.CodeForbidden, crud.CodeOf(err))
}
