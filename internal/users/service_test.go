package users

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/qazuor/hospeda-sub009/internal/auth"
	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

var fixedNow = time.Date(2026, 4, 5, 16, 0, 0, 0, time.UTC)

func newMemModel() *crud.MemModel[User] {
	return crud.NewMemModel(
		func(u *User) *crud.Lifecycle { return &u.Lifecycle },
		func(u *User) crud.Filter { return values(u) },
		func(u *User, patch crud.Filter) {
			crud.ApplyLifecycle(&u.Lifecycle, patch)
			if v, ok := patch["password_hash"].(string); ok {
				u.PasswordHash = v
			}
			if v, ok := patch["display_name"].(string); ok {
				u.DisplayName = v
			}
			if v, ok := patch["role"].(shared.Role); ok {
				u.Role = v
			}
			if v, ok := patch["permissions"].([]string); ok {
				u.Permissions = v
			}
			if v, ok := patch["active"].(bool); ok {
				u.Active = v
			}
		},
		func(u *User) string { return u.Email + " " + u.DisplayName },
	)
}

func newTestService() *Service {
	return NewService(newMemModel(), validator.New(validator.WithRequiredStructEnabled()), nil, crud.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:    func() time.Time { return fixedNow },
	})
}

func admin() shared.Actor {
	return shared.Actor{ID: uuid.New(), Role: shared.RoleAdmin}
}

func sampleInput(email string) CreateInput {
	return CreateInput{
		Email:       email,
		Password:    "correct horse battery",
		DisplayName: "Ada Rivera",
	}
}

func TestCreateHashesPassword(t *testing.T) {
	svc := newTestService()

	rec, err := svc.Create(context.Background(), admin(), sampleInput("ada@example.com"))
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", rec.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte("correct horse battery")))
	assert.Equal(t, shared.RoleUser, rec.Role)
	assert.True(t, rec.Active)
}

func TestUsersSeeThemselvesOnly(t *testing.T) {
	svc := newTestService()
	actor := admin()

	rec, err := svc.Create(context.Background(), actor, sampleInput("ada@example.com"))
	require.NoError(t, err)

	self := shared.Actor{ID: rec.ID, Role: shared.RoleUser}
	_, err = svc.Get(context.Background(), self, rec.ID)
	require.NoError(t, err)

	stranger := shared.Actor{ID: uuid.New(), Role: shared.RoleUser}
	_, err = svc.Get(context.Background(), stranger, rec.ID)
	assert.Equal(t, crud.CodeForbidden, crud.CodeOf(err))
}

func TestChangePassword(t *testing.T) {
	svc := newTestService()
	actor := admin()

	rec, err := svc.Create(context.Background(), actor, sampleInput("ada@example.com"))
	require.NoError(t, err)
	self := shared.Actor{ID: rec.ID, Role: shared.RoleUser}

	require.NoError(t, svc.ChangePassword(context.Background(), self, rec.ID, "a brand new phrase"))

	creds, err := svc.CredentialsByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte("a brand new phrase")))

	// Too short fails before any lookup.
	err = svc.ChangePassword(context.Background(), self, rec.ID, "short")
	assert.Equal(t, crud.CodeValidation, crud.CodeOf(err))

	// A stranger cannot reset someone else's password.
	err = svc.ChangePassword(context.Background(), shared.Actor{ID: uuid.New(), Role: shared.RoleUser}, rec.ID, "sneaky override")
	assert.Equal(t, crud.CodeForbidden, crud.CodeOf(err))
}

func TestSetRole(t *testing.T) {
	svc := newTestService()
	actor := admin()

	rec, err := svc.Create(context.Background(), actor, sampleInput("ada@example.com"))
	require.NoError(t, err)

	promoted, err := svc.SetRole(context.Background(), actor, rec.ID, shared.RoleEditor)
	require.NoError(t, err)
	assert.Equal(t, shared.RoleEditor, promoted.Role)

	// Admins cannot mint super admins.
	_, err = svc.SetRole(context.Background(), actor, rec.ID, shared.RoleSuperAdmin)
	coded, ok := crud.AsError(err)
	require.True(t, ok)
	assert.Equal(t, crud.CodeForbidden, coded.Code)
	assert.Equal(t, "Only super admins can promote to super admin", coded.Message)

	root := shared.Actor{ID: uuid.New(), Role: shared.RoleSuperAdmin}
	promoted, err = svc.SetRole(context.Background(), root, rec.ID, shared.RoleSuperAdmin)
	require.NoError(t, err)
	assert.Equal(t, shared.RoleSuperAdmin, promoted.Role)

	_, err = svc.SetRole(context.Background(), actor, rec.ID, shared.RoleGuest)
	assert.Equal(t, crud.CodeValidation, crud.CodeOf(err))
}

func TestCredentialsByEmailUnknown(t *testing.T) {
	svc := newTestService()

	_, err := svc.CredentialsByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}
