package accommodations

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

var fixedNow = time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC)

func newMemModel() *crud.MemModel[Accommodation] {
	return crud.NewMemModel(
		func(a *Accommodation) *crud.Lifecycle { return &a.Lifecycle },
		func(a *Accommodation) crud.Filter { return values(a) },
		func(a *Accommodation, patch crud.Filter) {
			crud.ApplyLifecycle(&a.Lifecycle, patch)
			if v, ok := patch["name"].(string); ok {
				a.Name = v
			}
			if v, ok := patch["summary"].(string); ok {
				a.Summary = v
			}
			if v, ok := patch["price_per_night"].(int64); ok {
				a.PricePerNight = v
			}
			if v, ok := patch["visibility"].(crud.Visibility); ok {
				a.Visibility = v
			}
		},
		func(a *Accommodation) string { return a.Name + " " + a.Summary },
	)
}

func newTestService() *Service {
	return NewService(newMemModel(), validator.New(validator.WithRequiredStructEnabled()), nil, crud.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:    func() time.Time { return fixedNow },
	})
}

func host() shared.Actor {
	return shared.Actor{ID: uuid.New(), Role: shared.RoleHost}
}

func sampleInput() CreateInput {
	return CreateInput{
		DestinationID: uuid.New(),
		Name:          "Cabaña del Río",
		Type:          "CABIN",
		Summary:       "Riverside cabin with a private deck.",
		PricePerNight: 9500,
		Currency:      "USD",
		MaxGuests:     4,
	}
}

func TestCreateDefaultsOwnerToActor(t *testing.T) {
	svc := newTestService()
	actor := host()

	rec, err := svc.Create(context.Background(), actor, sampleInput())
	require.NoError(t, err)
	assert.Equal(t, actor.ID, rec.OwnerID)
	assert.Equal(t, crud.VisibilityPrivate, rec.Visibility)
	assert.Equal(t, "cabin-cabana-del-rio", rec.Slug)
}

func TestOwnerCanUpdateStrangerCannot(t *testing.T) {
	svc := newTestService()
	owner := host()

	rec, err := svc.Create(context.Background(), owner, sampleInput())
	require.NoError(t, err)

	price := int64(11000)
	got, err := svc.Update(context.Background(), owner, rec.ID, UpdateInput{PricePerNight: &price})
	require.NoError(t, err)
	assert.Equal(t, price, got.PricePerNight)

	_, err = svc.Update(context.Background(), host(), rec.ID, UpdateInput{PricePerNight: &price})
	coded, ok := crud.AsError(err)
	require.True(t, ok)
	assert.Equal(t, crud.CodeForbidden, coded.Code)
	assert.Equal(t, "Only the owner, admins or users with ACCOMMODATION_UPDATE can update accommodations", coded.Message)
}

func TestPrivateListingVisibleToOwnerOnly(t *testing.T) {
	svc := newTestService()
	owner := host()

	rec, err := svc.Create(context.Background(), owner, sampleInput())
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), owner, rec.ID)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), host(), rec.ID)
	assert.Equal(t, crud.CodeForbidden, crud.CodeOf(err))

	_, err = svc.Get(context.Background(), shared.Actor{ID: uuid.New(), Role: shared.RoleAdmin}, rec.ID)
	assert.NoError(t, err)
}

func TestListOwnScopesToActor(t *testing.T) {
	svc := newTestService()
	owner := host()
	other := host()

	mine, err := svc.Create(context.Background(), owner, sampleInput())
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), other, sampleInput())
	require.NoError(t, err)

	items, _, err := svc.ListOwn(context.Background(), owner, crud.ListQuery{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, mine.ID, items[0].ID)

	// A host cannot smuggle another owner into the filter.
	items, _, err = svc.ListOwn(context.Background(), owner, crud.ListQuery{Filter: crud.Filter{"owner_id": other.ID}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, mine.ID, items[0].ID)
}

func TestGuestListSeesOnlyPublic(t *testing.T) {
	svc := newTestService()
	owner := host()

	in := sampleInput()
	in.Visibility = crud.VisibilityPublic
	public, err := svc.Create(context.Background(), owner, in)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), owner, sampleInput())
	require.NoError(t, err)

	items, _, err := svc.List(context.Background(), shared.Guest(), crud.ListQuery{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, public.ID, items[0].ID)
}

func TestHardDeleteIsRoleOnly(t *testing.T) {
	svc := newTestService()
	owner := host()

	rec, err := svc.Create(context.Background(), owner, sampleInput())
	require.NoError(t, err)

	// Even the owner with every grant cannot purge.
	granted := owner
	granted.Permissions = []string{shared.PermAccommodationUpdate, shared.PermAccommodationSoftDelete}
	err = svc.HardDelete(context.Background(), granted, rec.ID)
	coded, ok := crud.AsError(err)
	require.True(t, ok)
	assert.Equal(t, crud.CodeForbidden, coded.Code)
	assert.Equal(t, "Only super admins can hard delete accommodations", coded.Message)

	require.NoError(t, svc.HardDelete(context.Background(), shared.Actor{ID: uuid.New(), Role: shared.RoleSuperAdmin}, rec.ID))
	_, err = svc.Get(context.Background(), owner, rec.ID)
	assert.Equal(t, crud.CodeNotFound, crud.CodeOf(err))
}
