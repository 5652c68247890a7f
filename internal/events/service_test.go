package events

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

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

var fixedNow = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

func newMemModel() *crud.MemModel[Event] {
	return crud.NewMemModel(
		func(e *Event) *crud.Lifecycle { return &e.Lifecycle },
		func(e *Event) crud.Filter { return values(e) },
		func(e *Event, patch crud.Filter) {
			crud.ApplyLifecycle(&e.Lifecycle, patch)
			if v, ok := patch["name"].(string); ok {
				e.Name = v
			}
			if v, ok := patch["category"].(string); ok {
				e.Category = v
			}
			if v, ok := patch["summary"].(string); ok {
				e.Summary = v
			}
			if v, ok := patch["description"].(string); ok {
				e.Description = v
			}
			if v, ok := patch["starts_at"].(time.Time); ok {
				e.StartsAt = v
			}
			if v, ok := patch["slug"].(string); ok {
				e.Slug = v
			}
			if v, ok := patch["visibility"].(crud.Visibility); ok {
				e.Visibility = v
			}
		},
		func(e *Event) string { return e.Name + " " + e.Summary },
	)
}

func newTestService() (*Service, *crud.MemModel[Event]) {
	model := newMemModel()
	svc := NewService(model, validator.New(validator.WithRequiredStructEnabled()), nil, crud.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:    func() time.Time { return fixedNow },
	})
	return svc, model
}

func editor() shared.Actor {
	return shared.Actor{ID: uuid.New(), Role: shared.RoleEditor}
}

func sampleInput(name string) CreateInput {
	return CreateInput{
		DestinationID: uuid.New(),
		Name:          name,
		Category:      "MUSIC",
		Summary:       "An evening of live music by the river.",
		StartsAt:      time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC),
	}
}

func TestCreateDerivesSlug(t *testing.T) {
	svc, _ := newTestService()

	rec, err := svc.Create(context.Background(), editor(), sampleInput("Jazz Night"))
	require.NoError(t, err)
	assert.Equal(t, "music-jazz-night-2026-03-14", rec.Slug)
}

func TestCreateSlugHandlesDiacritics(t *testing.T) {
	svc, _ := newTestService()

	in := sampleInput("Noche de Tango en Colón")
	rec, err := svc.Create(context.Background(), editor(), in)
	require.NoError(t, err)
	assert.Equal(t, "music-noche-de-tango-en-colon-2026-03-14", rec.Slug)
}

func TestCreateSlugCollisionSuffixes(t *testing.T) {
	svc, _ := newTestService()
	actor := editor()

	first, err := svc.Create(context.Background(), actor, sampleInput("Jazz Night"))
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), actor, sampleInput("Jazz Night"))
	require.NoError(t, err)
	third, err := svc.Create(context.Background(), actor, sampleInput("Jazz Night"))
	require.NoError(t, err)

	assert.Equal(t, "music-jazz-night-2026-03-14", first.Slug)
	assert.Equal(t, "music-jazz-night-2026-03-14-2", second.Slug)
	assert.Equal(t, "music-jazz-night-2026-03-14-3", third.Slug)
}

func TestUpdateRecomputesSlugOnlyWhenSourceChanges(t *testing.T) {
	svc, _ := newTestService()
	actor := editor()

	rec, err := svc.Create(context.Background(), actor, sampleInput("Jazz Night"))
	require.NoError(t, err)

	// Touching a non-source field keeps the slug.
	summary := "Updated description of the evening program."
	got, err := svc.Update(context.Background(), actor, rec.ID, UpdateInput{Summary: &summary})
	require.NoError(t, err)
	assert.Equal(t, rec.Slug, got.Slug)

	// Renaming recomputes it.
	name := "Blues Night"
	got, err = svc.Update(context.Background(), actor, rec.ID, UpdateInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "music-blues-night-2026-03-14", got.Slug)

	// Moving the date recomputes it from the stored name.
	starts := time.Date(2026, 4, 2, 21, 0, 0, 0, time.UTC)
	got, err = svc.Update(context.Background(), actor, rec.ID, UpdateInput{StartsAt: &starts})
	require.NoError(t, err)
	assert.Equal(t, "music-blues-night-2026-04-02", got.Slug)
}

func TestUpdateKeepingOwnSlugIsNotACollision(t *testing.T) {
	svc, _ := newTestService()
	actor := editor()

	rec, err := svc.Create(context.Background(), actor, sampleInput("Jazz Night"))
	require.NoError(t, err)

	// Re-deriving the same slug for the same record must not append a suffix.
	name := "Jazz Night"
	got, err := svc.Update(context.Background(), actor, rec.ID, UpdateInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "music-jazz-night-2026-03-14", got.Slug)
}

func TestGuestSeesOnlyPublicEvents(t *testing.T) {
	svc, _ := newTestService()
	actor := editor()

	in := sampleInput("Open Air Cinema")
	in.Visibility = crud.VisibilityPublic
	public, err := svc.Create(context.Background(), actor, in)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), actor, sampleInput("Private Preview"))
	require.NoError(t, err)

	guest := shared.Guest()
	items, _, err := svc.List(context.Background(), guest, crud.ListQuery{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, public.ID, items[0].ID)

	// The editor sees both.
	items, _, err = svc.List(context.Background(), actor, crud.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestGuestCannotCreate(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), shared.Guest(), sampleInput("Nope"))
	coded, ok := crud.AsError(err)
	require.True(t, ok)
	assert.Equal(t, crud.CodeForbidden, coded.Code)
	assert.Equal(t, "Sign in required to create events", coded.Message)
}

func TestGetBySlug(t *testing.T) {
	svc, _ := newTestService()
	actor := editor()

	in := sampleInput("Harvest Festival")
	in.Category = "GASTRONOMY"
	in.Visibility = crud.VisibilityPublic
	rec, err := svc.Create(context.Background(), actor, in)
	require.NoError(t, err)

	got, err := svc.GetBySlug(context.Background(), shared.Guest(), rec.Slug)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	_, err = svc.GetBySlug(context.Background(), shared.Guest(), "missing-slug")
	assert.Equal(t, crud.CodeNotFound, crud.CodeOf(err))
}
