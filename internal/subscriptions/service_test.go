package subscriptions

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

var fixedNow = time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)

// spyModel counts writes so tests can prove the guard stopped the pipeline
// before the store was touched.
type spyModel struct {
	crud.Model[Subscription]
	creates int
	updates int
}

func (m *spyModel) Create(ctx context.Context, rec *Subscription) error {
	m.creates++
	return m.Model.Create(ctx, rec)
}

func (m *spyModel) Update(ctx context.Context, id uuid.UUID, patch crud.Filter) (*Subscription, error) {
	m.updates++
	return m.Model.Update(ctx, id, patch)
}

func newMemModel() *crud.MemModel[Subscription] {
	return crud.NewMemModel(
		func(s *Subscription) *crud.Lifecycle { return &s.Lifecycle },
		func(s *Subscription) crud.Filter { return values(s) },
		func(s *Subscription, patch crud.Filter) {
			crud.ApplyLifecycle(&s.Lifecycle, patch)
			if v, ok := patch["plan"].(string); ok {
				s.Plan = v
			}
			if v, ok := patch["status"].(string); ok {
				s.Status = v
			}
			if v, ok := patch["price"].(int64); ok {
				s.Price = v
			}
			if v, ok := patch["canceled_at"].(time.Time); ok {
				s.CanceledAt = &v
			}
		},
		func(s *Subscription) string { return s.Plan + " " + s.Status },
	)
}

func newTestService() (*Service, *spyModel) {
	model := &spyModel{Model: newMemModel()}
	svc := NewService(model, validator.New(validator.WithRequiredStructEnabled()), crud.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:    func() time.Time { return fixedNow },
	})
	return svc, model
}

func admin() shared.Actor {
	return shared.Actor{ID: uuid.New(), Role: shared.RoleAdmin}
}

func sampleInput() CreateInput {
	return CreateInput{
		ClientID: uuid.New(),
		Plan:     "STANDARD",
		Price:    14900,
		Currency: "USD",
		StartsAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateRequiresAdminOrGrant(t *testing.T) {
	svc, model := newTestService()

	_, err := svc.Create(context.Background(), shared.Actor{ID: uuid.New(), Role: shared.RoleUser}, sampleInput())
	coded, ok := crud.AsError(err)
	require.True(t, ok)
	assert.Equal(t, crud.CodeForbidden, coded.Code)
	assert.Equal(t, "Only admins or users with SUBSCRIPTION_CREATE can create subscriptions", coded.Message)
	assert.Zero(t, model.creates, "guard must run before the store is touched")

	granted := shared.Actor{ID: uuid.New(), Role: shared.RoleUser, Permissions: []string{shared.PermSubscriptionCreate}}
	rec, err := svc.Create(context.Background(), granted, sampleInput())
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", rec.Status)
	assert.Equal(t, 1, model.creates)
}

func TestCreateValidationShortCircuits(t *testing.T) {
	svc, model := newTestService()

	in := sampleInput()
	in.Plan = "GOLD"
	_, err := svc.Create(context.Background(), admin(), in)
	assert.Equal(t, crud.CodeValidation, crud.CodeOf(err))
	assert.Zero(t, model.creates)
}

func TestViewIsAdminOnly(t *testing.T) {
	svc, _ := newTestService()
	actor := admin()

	rec, err := svc.Create(context.Background(), actor, sampleInput())
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), shared.Actor{ID: uuid.New(), Role: shared.RoleEditor}, rec.ID)
	assert.Equal(t, crud.CodeForbidden, crud.CodeOf(err))

	got, err := svc.Get(context.Background(), actor, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
}

func TestGetUnknownIDIsNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Get(context.Background(), admin(), uuid.New())
	assert.Equal(t, crud.CodeNotFound, crud.CodeOf(err))
}

func TestCancel(t *testing.T) {
	svc, model := newTestService()
	actor := admin()

	rec, err := svc.Create(context.Background(), actor, sampleInput())
	require.NoError(t, err)

	canceled, err := svc.Cancel(context.Background(), actor, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "CANCELED", canceled.Status)
	require.NotNil(t, canceled.CanceledAt)
	assert.Equal(t, fixedNow, *canceled.CanceledAt)
	assert.Equal(t, 1, model.updates)

	// Canceling twice is a validation error, not another write.
	_, err = svc.Cancel(context.Background(), actor, rec.ID)
	assert.Equal(t, crud.CodeValidation, crud.CodeOf(err))
	assert.Equal(t, 1, model.updates)
}

func TestCancelUnknownIDIsNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Cancel(context.Background(), admin(), uuid.New())
	assert.Equal(t, crud.CodeNotFound, crud.CodeOf(err))
}
