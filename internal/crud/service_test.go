package crud_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

type note struct {
	crud.Lifecycle
	OwnerID    uuid.UUID       `json:"owner_id"`
	Title      string          `json:"title"`
	Body       string          `json:"body"`
	Visibility crud.Visibility `json:"visibility"`
}

type noteCreate struct {
	Title      string          `json:"title" validate:"required,min=3"`
	Body       string          `json:"body" validate:"omitempty,max=500"`
	Visibility crud.Visibility `json:"visibility" validate:"omitempty,oneof=PUBLIC PRIVATE"`
}

type noteUpdate struct {
	Title *string `json:"title" validate:"omitempty,min=3"`
	Body  *string `json:"body" validate:"omitempty,max=500"`
}

func newNoteModel() *crud.MemModel[note] {
	return crud.NewMemModel(
		func(n *note) *crud.Lifecycle { return &n.Lifecycle },
		func(n *note) crud.Filter {
			return crud.Filter{
				"id":         n.ID,
				"owner_id":   n.OwnerID,
				"title":      n.Title,
				"body":       n.Body,
				"visibility": n.Visibility,
			}
		},
		func(n *note, patch crud.Filter) {
			crud.ApplyLifecycle(&n.Lifecycle, patch)
			if v, ok := patch["title"].(string); ok {
				n.Title = v
			}
			if v, ok := patch["body"].(string); ok {
				n.Body = v
			}
			if v, ok := patch["visibility"].(crud.Visibility); ok {
				n.Visibility = v
			}
		},
		func(n *note) string { return n.Title + " " + n.Body },
	)
}

// spyModel counts persistence calls and records the last update patch.
type spyModel struct {
	*crud.MemModel[note]
	creates   int
	updates   int
	lastPatch crud.Filter
}

func (s *spyModel) Create(ctx context.Context, rec *note) error {
	s.creates++
	return s.MemModel.Create(ctx, rec)
}

func (s *spyModel) Update(ctx context.Context, id uuid.UUID, patch crud.Filter) (*note, error) {
	s.updates++
	s.lastPatch = patch
	return s.MemModel.Update(ctx, id, patch)
}

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type noteFixture struct {
	svc        *crud.Service[note, noteCreate, noteUpdate]
	model      *spyModel
	guardCalls int
	afterErr   error
	afterCalls int
}

func newNoteFixture(t *testing.T) *noteFixture {
	t.Helper()
	f := &noteFixture{model: &spyModel{MemModel: newNoteModel()}}
	createRule := crud.Rule{MinRole: shared.RoleAdmin, Permission: "NOTE_CREATE", Action: "create notes"}
	updateRule := crud.Rule{MinRole: shared.RoleAdmin, Permission: "NOTE_UPDATE", Action: "update notes"}
	f.svc = crud.NewService(crud.Config[note, noteCreate, noteUpdate]{
		Entity:   "note",
		Model:    f.model,
		Validate: validator.New(validator.WithRequiredStructEnabled()),
		NewRecord: func(actor shared.Actor, now time.Time, in noteCreate) (note, error) {
			visibility := in.Visibility
			if visibility == "" {
				visibility = crud.VisibilityPrivate
			}
			return note{
				Lifecycle:  crud.NewLifecycle(actor, now),
				OwnerID:    actor.ID,
				Title:      in.Title,
				Body:       in.Body,
				Visibility: visibility,
			}, nil
		},
		PatchOf: func(in noteUpdate) crud.Filter {
			patch := crud.Filter{}
			if in.Title != nil {
				patch["title"] = *in.Title
			}
			if in.Body != nil {
				patch["body"] = *in.Body
			}
			return patch
		},
		Perms: crud.Permissions[note]{
			Create: func(actor shared.Actor, _ *note) error {
				f.guardCalls++
				return crud.Authorize(actor, createRule)
			},
			View: func(actor shared.Actor, rec *note) error {
				f.guardCalls++
				if rec.Visibility == crud.VisibilityPublic {
					return nil
				}
				return crud.AuthorizeOwner(actor, rec.OwnerID, updateRule)
			},
			List:   func(shared.Actor, *note) error { return nil },
			Search: func(shared.Actor, *note) error { return nil },
			Count:  func(shared.Actor, *note) error { return nil },
			Update: func(actor shared.Actor, rec *note) error {
				f.guardCalls++
				return crud.AuthorizeOwner(actor, rec.OwnerID, updateRule)
			},
			SoftDelete: func(actor shared.Actor, rec *note) error {
				return crud.AuthorizeOwner(actor, rec.OwnerID, updateRule)
			},
			HardDelete: func(actor shared.Actor, _ *note) error {
				return crud.Authorize(actor, crud.Rule{MinRole: shared.RoleSuperAdmin, Action: "hard delete notes"})
			},
			Restore: func(actor shared.Actor, rec *note) error {
				return crud.AuthorizeOwner(actor, rec.OwnerID, updateRule)
			},
			UpdateVisibility: func(actor shared.Actor, rec *note) error {
				return crud.AuthorizeOwner(actor, rec.OwnerID, updateRule)
			},
		},
		After: func(ctx context.Context, actor shared.Actor, op crud.Operation, rec *note) error {
			f.afterCalls++
			return f.afterErr
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:    func() time.Time { return testNow },
	})
	return f
}

func admin() shared.Actor {
	return shared.Actor{ID: uuid.New(), Role: shared.RoleAdmin}
}

func regularUser() shared.Actor {
	return shared.Actor{ID: uuid.New(), Role: shared.RoleUser}
}

func TestCreateStampsLifecycle(t *testing.T) {
	f := newNoteFixture(t)
	actor := admin()

	rec, err := f.svc.Create(context.Background(), actor, noteCreate{Title: "packing list"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, actor.ID, rec.CreatedByID)
	assert.Equal(t, actor.ID, rec.UpdatedByID)
	assert.Equal(t, testNow, rec.CreatedAt)
	assert.Nil(t, rec.DeletedAt)
	assert.Equal(t, crud.VisibilityPrivate, rec.Visibility)
	assert.Equal(t, 1, f.model.creates)
	assert.Equal(t, 1, f.afterCalls)
}

func TestCreateValidationShortCircuits(t *testing.T) {
	f := newNoteFixture(t)

	_, err := f.svc.Create(context.Background(), admin(), noteCreate{Title: "ab"})
	require.Error(t, err)
	assert.Equal(t, crud.CodeValidation, crud.CodeOf(err))
	assert.Zero(t, f.guardCalls, "guard must not run on invalid input")
	assert.Zero(t, f.model.creates, "persistence must not run on invalid input")
	assert.Zero(t, f.afterCalls)
}

func TestCreateRoleOrGrant(t *testing.T) {
	f := newNoteFixture(t)

	_, err := f.svc.Create(context.Background(), regularUser(), noteCreate{Title: "not allowed"})
	require.Error(t, err)
	coded, ok := crud.AsError(err)
	require.True(t, ok)
	assert.Equal(t, crud.CodeForbidden, coded.Code)
	assert.Equal(t, "Only admins or users with NOTE_CREATE can create notes", coded.Message)

	granted := shared.Actor{ID: uuid.New(), Role: shared.RoleUser, Permissions: []string{"NOTE_CREATE"}}
	_, err = f.svc.Create(context.Background(), granted, noteCreate{Title: "allowed via grant"})
	assert.NoError(t, err)
}

func TestZeroActorUnauthorized(t *testing.T) {
	f := newNoteFixture(t)

	_, err := f.svc.Create(context.Background(), shared.Actor{}, noteCreate{Title: "no actor"})
	require.Error(t, err)
	assert.Equal(t, crud.CodeUnauthorized, crud.CodeOf(err))
}

func TestGetFetchPrecedesAuthorize(t *testing.T) {
	f := newNoteFixture(t)
	owner := admin()
	rec, err := f.svc.Create(context.Background(), owner, noteCreate{Title: "private thing"})
	require.NoError(t, err)

	// Unknown id resolves before any permission check.
	_, err = f.svc.Get(context.Background(), regularUser(), uuid.New())
	assert.Equal(t, crud.CodeNotFound, crud.CodeOf(err))

	// Known id, insufficient actor: the guard decides.
	_, err = f.svc.Get(context.Background(), regularUser(), rec.ID)
	assert.Equal(t, crud.CodeForbidden, crud.CodeOf(err))

	// The owner reads their own private record.
	got, err := f.svc.Get(context.Background(), owner, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
}

func TestUpdateEmptyPatchShortCircuits(t *testing.T) {
	f := newNoteFixture(t)
	owner := admin()
	rec, err := f.svc.Create(context.Background(), owner, noteCreate{Title: "unchanged"})
	require.NoError(t, err)

	got, err := f.svc.Update(context.Background(), owner, rec.ID, noteUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "unchanged", got.Title)
	assert.Zero(t, f.model.updates, "empty patch must not hit persistence")
}

func TestUpdateStampsBookkeeping(t *testing.T) {
	f := newNoteFixture(t)
	owner := admin()
	rec, err := f.svc.Create(context.Background(), owner, noteCreate{Title: "before"})
	require.NoError(t, err)

	title := "after edit"
	got, err := f.svc.Update(context.Background(), owner, rec.ID, noteUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "after edit", got.Title)
	assert.Equal(t, testNow, got.UpdatedAt)
	assert.Contains(t, f.model.lastPatch, "updated_at")
	assert.Contains(t, f.model.lastPatch, "updated_by_id")
}

func TestSoftDeleteLifecycle(t *testing.T) {
	f := newNoteFixture(t)
	owner := admin()
	rec, err := f.svc.Create(context.Background(), owner, noteCreate{Title: "to delete"})
	require.NoError(t, err)

	deleted, err := f.svc.SoftDelete(context.Background(), owner, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted.DeletedAt)
	assert.Equal(t, owner.ID, *deleted.DeletedByID)

	// Soft-deleted records are invisible to read operations.
	_, err = f.svc.Get(context.Background(), owner, rec.ID)
	assert.Equal(t, crud.CodeNotFound, crud.CodeOf(err))

	items, _, err := f.svc.List(context.Background(), owner, crud.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, items)

	// A second soft delete is NOT_FOUND, not a silent no-op.
	_, err = f.svc.SoftDelete(context.Background(), owner, rec.ID)
	assert.Equal(t, crud.CodeNotFound, crud.CodeOf(err))
}

func TestRestore(t *testing.T) {
	f := newNoteFixture(t)
	owner := admin()
	rec, err := f.svc.Create(context.Background(), owner, noteCreate{Title: "resurrect"})
	require.NoError(t, err)

	// Restoring a live record is a validation failure.
	_, err = f.svc.Restore(context.Background(), owner, rec.ID)
	assert.Equal(t, crud.CodeValidation, crud.CodeOf(err))

	_, err = f.svc.SoftDelete(context.Background(), owner, rec.ID)
	require.NoError(t, err)

	restored, err := f.svc.Restore(context.Background(), owner, rec.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)

	got, err := f.svc.Get(context.Background(), owner, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "resurrect", got.Title)
}

func TestHardDeleteRequiresTopTier(t *testing.T) {
	f := newNoteFixture(t)
	owner := admin()
	rec, err := f.svc.Create(context.Background(), owner, noteCreate{Title: "purge me"})
	require.NoError(t, err)

	// Admins may soft delete but not hard delete; there is no grant escape.
	err = f.svc.HardDelete(context.Background(), owner, rec.ID)
	coded, ok := crud.AsError(err)
	require.True(t, ok)
	assert.Equal(t, crud.CodeForbidden, coded.Code)
	assert.Equal(t, "Only super admins can hard delete notes", coded.Message)

	granted := shared.Actor{ID: uuid.New(), Role: shared.RoleAdmin, Permissions: []string{"NOTE_HARD_DELETE"}}
	err = f.svc.HardDelete(context.Background(), granted, rec.ID)
	assert.Equal(t, crud.CodeForbidden, crud.CodeOf(err))

	super := shared.Actor{ID: uuid.New(), Role: shared.RoleSuperAdmin}

	// Hard delete reaches soft-deleted records too.
	_, err = f.svc.SoftDelete(context.Background(), owner, rec.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.HardDelete(context.Background(), super, rec.ID))

	_, err = f.svc.Restore(context.Background(), super, rec.ID)
	assert.Equal(t, crud.CodeNotFound, crud.CodeOf(err))
}

func TestSetVisibilityPatchesExactlyVisibility(t *testing.T) {
	f := newNoteFixture(t)
	owner := admin()
	rec, err := f.svc.Create(context.Background(), owner, noteCreate{Title: "toggle", Visibility: crud.VisibilityPrivate})
	require.NoError(t, err)

	got, err := f.svc.SetVisibility(context.Background(), owner, rec.ID, crud.VisibilityPublic)
	require.NoError(t, err)
	assert.Equal(t, crud.VisibilityPublic, got.Visibility)
	assert.Equal(t, "toggle", got.Title)

	require.Len(t, f.model.lastPatch, 3)
	assert.Contains(t, f.model.lastPatch, "visibility")
	assert.Contains(t, f.model.lastPatch, "updated_at")
	assert.Contains(t, f.model.lastPatch, "updated_by_id")

	_, err = f.svc.SetVisibility(context.Background(), owner, rec.ID, crud.Visibility("HIDDEN"))
	assert.Equal(t, crud.CodeValidation, crud.CodeOf(err))
}

func TestAfterHookFailureIsInternal(t *testing.T) {
	f := newNoteFixture(t)
	f.afterErr = errors.New("cache bump failed")
	owner := admin()

	_, err := f.svc.Create(context.Background(), owner, noteCreate{Title: "persisted anyway"})
	require.Error(t, err)
	assert.Equal(t, crud.CodeInternal, crud.CodeOf(err))

	// The write itself is not rolled back.
	f.afterErr = nil
	items, _, err := f.svc.List(context.Background(), owner, crud.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestSearchMatchesText(t *testing.T) {
	f := newNoteFixture(t)
	owner := admin()
	_, err := f.svc.Create(context.Background(), owner, noteCreate{Title: "winter packing list"})
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), owner, noteCreate{Title: "summer itinerary"})
	require.NoError(t, err)

	items, pagination, err := f.svc.Search(context.Background(), owner, crud.SearchQuery{Query: "packing"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "winter packing list", items[0].Title)
	assert.Equal(t, 1, pagination.Total)

	// Queries below the minimum length are rejected before the model runs.
	_, _, err = f.svc.Search(context.Background(), owner, crud.SearchQuery{Query: "p"})
	assert.Equal(t, crud.CodeValidation, crud.CodeOf(err))
}
