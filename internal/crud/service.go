package crud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/qazuor/hospeda-sub009/internal/shared"
)

// Operation names one step of the shared pipeline, used for logging and
// audit entries.
type Operation string

const (
	OpCreate           Operation = "create"
	OpUpdate           Operation = "update"
	OpSoftDelete       Operation = "soft_delete"
	OpHardDelete       Operation = "hard_delete"
	OpRestore          Operation = "restore"
	OpView             Operation = "view"
	OpList             Operation = "list"
	OpSearch           Operation = "search"
	OpCount            Operation = "count"
	OpUpdateVisibility Operation = "update_visibility"
)

// Guard is the permission predicate for one (entity, operation) pair. The
// record is nil for class-level operations (create, list, search, count).
// Guards are total: they return nil or a coded error, never panic.
type Guard[T Record] func(actor shared.Actor, rec *T) error

// Permissions holds the per-operation guards of one entity. UpdateVisibility
// stays nil for entities without a visibility state.
type Permissions[T Record] struct {
	Create           Guard[T]
	View             Guard[T]
	List             Guard[T]
	Search           Guard[T]
	Count            Guard[T]
	Update           Guard[T]
	SoftDelete       Guard[T]
	HardDelete       Guard[T]
	Restore          Guard[T]
	UpdateVisibility Guard[T]
}

// BeforeCreateHook normalizes or derives fields on the record about to be
// persisted (e.g. slug derivation).
type BeforeCreateHook[T Record] func(ctx context.Context, actor shared.Actor, rec *T) error

// BeforeUpdateHook may transform the patch before it is applied; it receives
// the existing record so it can decide whether derived fields need
// recomputation.
type BeforeUpdateHook[T Record] func(ctx context.Context, actor shared.Actor, existing *T, patch Filter) (Filter, error)

// AfterHook runs side effects after a completed mutation (cache bumps, job
// enqueues). Failures surface as INTERNAL_ERROR but the persisted write is
// never rolled back.
type AfterHook[T Record] func(ctx context.Context, actor shared.Actor, op Operation, rec *T) error

// ListQuery parameterizes list and count operations.
type ListQuery struct {
	shared.PageRequest
	Filter Filter `validate:"-"`
}

// SearchQuery parameterizes text search.
type SearchQuery struct {
	shared.PageRequest
	Query  string `validate:"required,min=2"`
	Filter Filter `validate:"-"`
}

// Config is the capability record one entity supplies to instantiate the
// pipeline: schema, guards, hooks and persistence model as plain values
// instead of subclass overrides.
type Config[T Record, C any, U any] struct {
	Entity    string
	Model     Model[T]
	Validate  *validator.Validate
	Perms     Permissions[T]
	NewRecord func(actor shared.Actor, now time.Time, in C) (T, error)
	PatchOf   func(in U) Filter

	BeforeCreate BeforeCreateHook[T]
	BeforeUpdate BeforeUpdateHook[T]
	After        AfterHook[T]

	Logger *slog.Logger
	Audit  shared.AuditRecorder
	Now    func() time.Time
	// Observe counts operation outcomes for metrics; the code is empty on
	// success.
	Observe func(entity, operation, code string)
}

// Service executes the fixed validate → fetch → authorize → hook → persist →
// after-hook → log pipeline for one entity. It holds no cross-call state;
// every invocation is independent.
type Service[T Record, C any, U any] struct {
	cfg Config[T, C, U]
}

// NewService validates the capability record and builds the pipeline.
// Missing required capabilities are programming defects and panic here
// rather than surfacing as runtime error results.
func NewService[T Record, C any, U any](cfg Config[T, C, U]) *Service[T, C, U] {
	switch {
	case cfg.Entity == "":
		panic("crud: entity name is required")
	case cfg.Model == nil:
		panic("crud: persistence model is required")
	case cfg.Validate == nil:
		panic("crud: validator is required")
	case cfg.NewRecord == nil:
		panic("crud: record builder is required")
	case cfg.PatchOf == nil:
		panic("crud: patch builder is required")
	}
	requireGuard(cfg.Entity, "create", cfg.Perms.Create)
	requireGuard(cfg.Entity, "view", cfg.Perms.View)
	requireGuard(cfg.Entity, "list", cfg.Perms.List)
	requireGuard(cfg.Entity, "search", cfg.Perms.Search)
	requireGuard(cfg.Entity, "count", cfg.Perms.Count)
	requireGuard(cfg.Entity, "update", cfg.Perms.Update)
	requireGuard(cfg.Entity, "soft delete", cfg.Perms.SoftDelete)
	requireGuard(cfg.Entity, "hard delete", cfg.Perms.HardDelete)
	requireGuard(cfg.Entity, "restore", cfg.Perms.Restore)
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service[T, C, U]{cfg: cfg}
}

func requireGuard[T Record](entity, op string, g Guard[T]) {
	if g == nil {
		panic(fmt.Sprintf("crud: %s has no %s guard", entity, op))
	}
}

// Entity returns the entity name the service manages.
func (s *Service[T, C, U]) Entity() string {
	return s.cfg.Entity
}

// Create validates the payload, authorizes the actor, runs the before hook
// and persists a new record stamped with the actor and current time.
func (s *Service[T, C, U]) Create(ctx context.Context, actor shared.Actor, in C) (*T, error) {
	if err := s.validate(in); err != nil {
		return nil, s.finish(ctx, OpCreate, actor, uuid.Nil, err)
	}
	if err := s.authorize(s.cfg.Perms.Create, actor, nil); err != nil {
		return nil, s.finish(ctx, OpCreate, actor, uuid.Nil, err)
	}
	rec, err := s.cfg.NewRecord(actor, s.cfg.Now(), in)
	if err != nil {
		return nil, s.finish(ctx, OpCreate, actor, uuid.Nil, s.coded(err, "build %s", s.cfg.Entity))
	}
	if s.cfg.BeforeCreate != nil {
		if err := s.cfg.BeforeCreate(ctx, actor, &rec); err != nil {
			return nil, s.finish(ctx, OpCreate, actor, uuid.Nil, s.coded(err, "before-create hook for %s", s.cfg.Entity))
		}
	}
	if err := s.cfg.Model.Create(ctx, &rec); err != nil {
		return nil, s.finish(ctx, OpCreate, actor, rec.RecordID(), s.persistErr(err, "create %s", s.cfg.Entity))
	}
	s.audit(ctx, actor, OpCreate, rec.RecordID(), nil)
	if err := s.after(ctx, actor, OpCreate, &rec); err != nil {
		return nil, s.finish(ctx, OpCreate, actor, rec.RecordID(), err)
	}
	return &rec, s.finish(ctx, OpCreate, actor, rec.RecordID(), nil)
}

// Update validates the payload, resolves the live record, authorizes the
// actor against it and applies the patch through the before hook.
func (s *Service[T, C, U]) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, in U) (*T, error) {
	if err := s.validate(in); err != nil {
		return nil, s.finish(ctx, OpUpdate, actor, id, err)
	}
	rec, err := s.fetchLive(ctx, id)
	if err != nil {
		return nil, s.finish(ctx, OpUpdate, actor, id, err)
	}
	if err := s.authorize(s.cfg.Perms.Update, actor, rec); err != nil {
		return nil, s.finish(ctx, OpUpdate, actor, id, err)
	}
	patch := s.cfg.PatchOf(in)
	if s.cfg.BeforeUpdate != nil {
		patch, err = s.cfg.BeforeUpdate(ctx, actor, rec, patch)
		if err != nil {
			return nil, s.finish(ctx, OpUpdate, actor, id, s.coded(err, "before-update hook for %s", s.cfg.Entity))
		}
	}
	if len(patch) == 0 {
		return rec, s.finish(ctx, OpUpdate, actor, id, nil)
	}
	now := s.cfg.Now()
	patch["updated_at"] = now
	patch["updated_by_id"] = actor.ID
	updated, err := s.cfg.Model.Update(ctx, id, patch)
	if err != nil {
		return nil, s.finish(ctx, OpUpdate, actor, id, s.persistErr(err, "update %s", s.cfg.Entity))
	}
	s.audit(ctx, actor, OpUpdate, id, patchKeys(patch))
	if err := s.after(ctx, actor, OpUpdate, updated); err != nil {
		return nil, s.finish(ctx, OpUpdate, actor, id, err)
	}
	return updated, s.finish(ctx, OpUpdate, actor, id, nil)
}

// Get resolves one live record and authorizes the actor to view it. The
// fetch deliberately precedes the guard: most view rules need the record's
// attributes (owner, visibility) to decide.
func (s *Service[T, C, U]) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*T, error) {
	rec, err := s.fetchLive(ctx, id)
	if err != nil {
		return nil, s.finish(ctx, OpView, actor, id, err)
	}
	if err := s.authorize(s.cfg.Perms.View, actor, rec); err != nil {
		return nil, s.finish(ctx, OpView, actor, id, err)
	}
	return rec, s.finish(ctx, OpView, actor, id, nil)
}

// List returns a page of live records matching the filter.
func (s *Service[T, C, U]) List(ctx context.Context, actor shared.Actor, q ListQuery) ([]T, shared.Pagination, error) {
	if err := s.validate(q); err != nil {
		return nil, shared.Pagination{}, s.finish(ctx, OpList, actor, uuid.Nil, err)
	}
	if err := s.authorize(s.cfg.Perms.List, actor, nil); err != nil {
		return nil, shared.Pagination{}, s.finish(ctx, OpList, actor, uuid.Nil, err)
	}
	page := q.PageRequest.Normalize()
	items, total, err := s.cfg.Model.FindAll(ctx, q.Filter, page)
	if err != nil {
		return nil, shared.Pagination{}, s.finish(ctx, OpList, actor, uuid.Nil, s.persistErr(err, "list %s", s.cfg.Entity))
	}
	return items, shared.NewPagination(page, total), s.finish(ctx, OpList, actor, uuid.Nil, nil)
}

// Search returns a page of live records matching the text query and filter.
func (s *Service[T, C, U]) Search(ctx context.Context, actor shared.Actor, q SearchQuery) ([]T, shared.Pagination, error) {
	if err := s.validate(q); err != nil {
		return nil, shared.Pagination{}, s.finish(ctx, OpSearch, actor, uuid.Nil, err)
	}
	if err := s.authorize(s.cfg.Perms.Search, actor, nil); err != nil {
		return nil, shared.Pagination{}, s.finish(ctx, OpSearch, actor, uuid.Nil, err)
	}
	page := q.PageRequest.Normalize()
	items, total, err := s.cfg.Model.Search(ctx, q.Query, q.Filter, page)
	if err != nil {
		return nil, shared.Pagination{}, s.finish(ctx, OpSearch, actor, uuid.Nil, s.persistErr(err, "search %s", s.cfg.Entity))
	}
	return items, shared.NewPagination(page, total), s.finish(ctx, OpSearch, actor, uuid.Nil, nil)
}

// Count returns the number of live records matching the filter.
func (s *Service[T, C, U]) Count(ctx context.Context, actor shared.Actor, filter Filter) (int, error) {
	if err := s.authorize(s.cfg.Perms.Count, actor, nil); err != nil {
		return 0, s.finish(ctx, OpCount, actor, uuid.Nil, err)
	}
	total, err := s.cfg.Model.Count(ctx, filter)
	if err != nil {
		return 0, s.finish(ctx, OpCount, actor, uuid.Nil, s.persistErr(err, "count %s", s.cfg.Entity))
	}
	return total, s.finish(ctx, OpCount, actor, uuid.Nil, nil)
}

// SoftDelete marks the live record deleted by the actor. A second call on
// the same id yields NOT_FOUND: soft-deleted records are invisible to every
// operation except restore and hard delete.
func (s *Service[T, C, U]) SoftDelete(ctx context.Context, actor shared.Actor, id uuid.UUID) (*T, error) {
	rec, err := s.fetchLive(ctx, id)
	if err != nil {
		return nil, s.finish(ctx, OpSoftDelete, actor, id, err)
	}
	if err := s.authorize(s.cfg.Perms.SoftDelete, actor, rec); err != nil {
		return nil, s.finish(ctx, OpSoftDelete, actor, id, err)
	}
	if err := s.cfg.Model.SoftDelete(ctx, id, actor.ID, s.cfg.Now()); err != nil {
		return nil, s.finish(ctx, OpSoftDelete, actor, id, s.persistErr(err, "soft delete %s", s.cfg.Entity))
	}
	deleted, err := s.cfg.Model.FindByID(ctx, id)
	if err != nil {
		return nil, s.finish(ctx, OpSoftDelete, actor, id, s.persistErr(err, "reload %s", s.cfg.Entity))
	}
	s.audit(ctx, actor, OpSoftDelete, id, nil)
	if err := s.after(ctx, actor, OpSoftDelete, deleted); err != nil {
		return nil, s.finish(ctx, OpSoftDelete, actor, id, err)
	}
	return deleted, s.finish(ctx, OpSoftDelete, actor, id, nil)
}

// HardDelete physically removes the record, soft-deleted or not. The guard
// for this operation is role-only and reserved for the highest tier.
func (s *Service[T, C, U]) HardDelete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	rec, err := s.fetchAny(ctx, id)
	if err != nil {
		return s.finish(ctx, OpHardDelete, actor, id, err)
	}
	if err := s.authorize(s.cfg.Perms.HardDelete, actor, rec); err != nil {
		return s.finish(ctx, OpHardDelete, actor, id, err)
	}
	if err := s.cfg.Model.HardDelete(ctx, id); err != nil {
		return s.finish(ctx, OpHardDelete, actor, id, s.persistErr(err, "hard delete %s", s.cfg.Entity))
	}
	s.audit(ctx, actor, OpHardDelete, id, nil)
	if err := s.after(ctx, actor, OpHardDelete, rec); err != nil {
		return s.finish(ctx, OpHardDelete, actor, id, err)
	}
	return s.finish(ctx, OpHardDelete, actor, id, nil)
}

// Restore brings a soft-deleted record back. Restoring a live record is a
// validation failure, not a silent success.
func (s *Service[T, C, U]) Restore(ctx context.Context, actor shared.Actor, id uuid.UUID) (*T, error) {
	rec, err := s.fetchAny(ctx, id)
	if err != nil {
		return nil, s.finish(ctx, OpRestore, actor, id, err)
	}
	if !(*rec).Deleted() {
		return nil, s.finish(ctx, OpRestore, actor, id, Validationf("%s %s is not deleted", s.cfg.Entity, id))
	}
	if err := s.authorize(s.cfg.Perms.Restore, actor, rec); err != nil {
		return nil, s.finish(ctx, OpRestore, actor, id, err)
	}
	if err := s.cfg.Model.Restore(ctx, id, actor.ID, s.cfg.Now()); err != nil {
		return nil, s.finish(ctx, OpRestore, actor, id, s.persistErr(err, "restore %s", s.cfg.Entity))
	}
	restored, err := s.cfg.Model.FindByID(ctx, id)
	if err != nil {
		return nil, s.finish(ctx, OpRestore, actor, id, s.persistErr(err, "reload %s", s.cfg.Entity))
	}
	s.audit(ctx, actor, OpRestore, id, nil)
	if err := s.after(ctx, actor, OpRestore, restored); err != nil {
		return nil, s.finish(ctx, OpRestore, actor, id, err)
	}
	return restored, s.finish(ctx, OpRestore, actor, id, nil)
}

// SetVisibility patches exactly the visibility field of a live record.
// Calling it on an entity configured without an update-visibility guard is a
// wiring defect.
func (s *Service[T, C, U]) SetVisibility(ctx context.Context, actor shared.Actor, id uuid.UUID, v Visibility) (*T, error) {
	if s.cfg.Perms.UpdateVisibility == nil {
		panic(fmt.Sprintf("crud: %s has no update visibility guard", s.cfg.Entity))
	}
	if !v.Valid() {
		return nil, s.finish(ctx, OpUpdateVisibility, actor, id, Validationf("visibility must be one of %s, %s", VisibilityPublic, VisibilityPrivate))
	}
	rec, err := s.fetchLive(ctx, id)
	if err != nil {
		return nil, s.finish(ctx, OpUpdateVisibility, actor, id, err)
	}
	if err := s.authorize(s.cfg.Perms.UpdateVisibility, actor, rec); err != nil {
		return nil, s.finish(ctx, OpUpdateVisibility, actor, id, err)
	}
	now := s.cfg.Now()
	patch := Filter{"visibility": v, "updated_at": now, "updated_by_id": actor.ID}
	updated, err := s.cfg.Model.Update(ctx, id, patch)
	if err != nil {
		return nil, s.finish(ctx, OpUpdateVisibility, actor, id, s.persistErr(err, "update %s visibility", s.cfg.Entity))
	}
	s.audit(ctx, actor, OpUpdateVisibility, id, map[string]any{"visibility": string(v)})
	if err := s.after(ctx, actor, OpUpdateVisibility, updated); err != nil {
		return nil, s.finish(ctx, OpUpdateVisibility, actor, id, err)
	}
	return updated, s.finish(ctx, OpUpdateVisibility, actor, id, nil)
}

// validate runs the declared schema and converts failures into a
// VALIDATION_ERROR enumerating the failing fields.
func (s *Service[T, C, U]) validate(in any) error {
	err := s.cfg.Validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
		return Validationf("invalid %s payload: %s", s.cfg.Entity, strings.Join(fields, ", "))
	}
	return Internalf(err, "validate %s payload", s.cfg.Entity)
}

// authorize checks actor presence before delegating to the guard.
func (s *Service[T, C, U]) authorize(guard Guard[T], actor shared.Actor, rec *T) error {
	if actor.IsZero() {
		return Unauthorizedf("actor is required for %s operations", s.cfg.Entity)
	}
	if err := guard(actor, rec); err != nil {
		return s.coded(err, "authorize %s", s.cfg.Entity)
	}
	return nil
}

// fetchLive resolves a record that exists and is not soft-deleted.
func (s *Service[T, C, U]) fetchLive(ctx context.Context, id uuid.UUID) (*T, error) {
	rec, err := s.fetchAny(ctx, id)
	if err != nil {
		return nil, err
	}
	if (*rec).Deleted() {
		return nil, NotFoundf("%s %s not found", s.cfg.Entity, id)
	}
	return rec, nil
}

// fetchAny resolves a record regardless of deletion state.
func (s *Service[T, C, U]) fetchAny(ctx context.Context, id uuid.UUID) (*T, error) {
	if id == uuid.Nil {
		return nil, Validationf("%s id is required", s.cfg.Entity)
	}
	rec, err := s.cfg.Model.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, NotFoundf("%s %s not found", s.cfg.Entity, id)
		}
		return nil, s.persistErr(err, "find %s", s.cfg.Entity)
	}
	return rec, nil
}

// after runs the configured side-effect hook for mutations.
func (s *Service[T, C, U]) after(ctx context.Context, actor shared.Actor, op Operation, rec *T) error {
	if s.cfg.After == nil {
		return nil
	}
	if err := s.cfg.After(ctx, actor, op, rec); err != nil {
		return s.coded(err, "after hook for %s %s", s.cfg.Entity, op)
	}
	return nil
}

// audit records the mutation. Audit failures never drive control flow.
func (s *Service[T, C, U]) audit(ctx context.Context, actor shared.Actor, op Operation, id uuid.UUID, meta map[string]any) {
	if s.cfg.Audit == nil {
		return
	}
	entry := shared.AuditEntry{
		ActorID:  actor.ID,
		Action:   string(op),
		Entity:   s.cfg.Entity,
		EntityID: id.String(),
		Meta:     meta,
		At:       s.cfg.Now(),
	}
	if err := s.cfg.Audit.Record(ctx, entry); err != nil {
		s.cfg.Logger.WarnContext(ctx, "audit record failed",
			slog.String("entity", s.cfg.Entity),
			slog.String("operation", string(op)),
			slog.Any("error", err))
	}
}

// coded passes coded errors through untouched and wraps everything else as
// INTERNAL_ERROR.
func (s *Service[T, C, U]) coded(err error, format string, args ...any) error {
	if coded, ok := AsError(err); ok {
		return coded
	}
	return Internalf(err, format, args...)
}

// persistErr maps persistence failures: sentinel misses become NOT_FOUND,
// coded domain errors are preserved, the rest become INTERNAL_ERROR.
func (s *Service[T, C, U]) persistErr(err error, format string, args ...any) error {
	if errors.Is(err, ErrRecordNotFound) {
		return NotFoundf("%s not found", s.cfg.Entity)
	}
	return s.coded(err, format, args...)
}

// finish emits the single structured log entry per invocation and passes the
// outcome through.
func (s *Service[T, C, U]) finish(ctx context.Context, op Operation, actor shared.Actor, id uuid.UUID, err error) error {
	attrs := []any{
		slog.String("entity", s.cfg.Entity),
		slog.String("operation", string(op)),
		slog.String("actor_id", actor.ID.String()),
		slog.String("actor_role", string(actor.Role)),
	}
	if id != uuid.Nil {
		attrs = append(attrs, slog.String("record_id", id.String()))
	}
	if s.cfg.Observe != nil {
		code := ""
		if err != nil {
			code = string(CodeOf(err))
		}
		s.cfg.Observe(s.cfg.Entity, string(op), code)
	}
	if err == nil {
		s.cfg.Logger.InfoContext(ctx, "crud operation succeeded", attrs...)
		return nil
	}
	attrs = append(attrs, slog.String("code", string(CodeOf(err))), slog.String("reason", err.Error()))
	if CodeOf(err) == CodeInternal {
		s.cfg.Logger.ErrorContext(ctx, "crud operation failed", attrs...)
	} else {
		s.cfg.Logger.WarnContext(ctx, "crud operation rejected", attrs...)
	}
	return err
}

func patchKeys(patch Filter) map[string]any {
	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	return map[string]any{"fields": keys}
}
