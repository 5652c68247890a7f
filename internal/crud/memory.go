package crud

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/qazuor/hospeda-sub009/internal/shared"
)

// MemModel is an in-memory Model implementation used by tests and local
// tooling. It honors the same live/deleted semantics as the Postgres model.
type MemModel[T Record] struct {
	// Life exposes the record's lifecycle fields for deletion stamping.
	Life func(rec *T) *Lifecycle
	// Values maps a record to its column values for filter matching.
	Values func(rec *T) Filter
	// Apply applies a patch to the record. Lifecycle keys included.
	Apply func(rec *T, patch Filter)
	// SearchText returns the haystack Search matches against.
	SearchText func(rec *T) string

	mu    sync.RWMutex
	items map[uuid.UUID]*T
	order []uuid.UUID
}

// NewMemModel builds an empty in-memory model.
func NewMemModel[T Record](life func(*T) *Lifecycle, values func(*T) Filter, apply func(*T, Filter), searchText func(*T) string) *MemModel[T] {
	return &MemModel[T]{
		Life:       life,
		Values:     values,
		Apply:      apply,
		SearchText: searchText,
		items:      make(map[uuid.UUID]*T),
	}
}

func (m *MemModel[T]) FindByID(_ context.Context, id uuid.UUID) (*T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.items[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	clone := *rec
	return &clone, nil
}

func (m *MemModel[T]) FindOne(_ context.Context, filter Filter) (*T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, id := range m.order {
		rec := m.items[id]
		if (*rec).Deleted() || !m.matches(rec, filter) {
			continue
		}
		clone := *rec
		return &clone, nil
	}
	return nil, ErrRecordNotFound
}

func (m *MemModel[T]) FindAll(_ context.Context, filter Filter, page shared.PageRequest) ([]T, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	live := m.collect(filter, "")
	return paginate(live, page), len(live), nil
}

func (m *MemModel[T]) Search(_ context.Context, query string, filter Filter, page shared.PageRequest) ([]T, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	live := m.collect(filter, query)
	return paginate(live, page), len(live), nil
}

func (m *MemModel[T]) Create(_ context.Context, rec *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := (*rec).RecordID()
	if _, exists := m.items[id]; exists {
		return Validationf("record %s already exists", id)
	}
	clone := *rec
	m.items[id] = &clone
	m.order = append(m.order, id)
	return nil
}

func (m *MemModel[T]) Update(_ context.Context, id uuid.UUID, patch Filter) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.items[id]
	if !ok || (*rec).Deleted() {
		return nil, ErrRecordNotFound
	}
	m.Apply(rec, patch)
	clone := *rec
	return &clone, nil
}

func (m *MemModel[T]) SoftDelete(_ context.Context, id uuid.UUID, by uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.items[id]
	if !ok || (*rec).Deleted() {
		return ErrRecordNotFound
	}
	life := m.Life(rec)
	life.DeletedAt = &at
	life.DeletedByID = &by
	return nil
}

func (m *MemModel[T]) Restore(_ context.Context, id uuid.UUID, by uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.items[id]
	if !ok || !(*rec).Deleted() {
		return ErrRecordNotFound
	}
	life := m.Life(rec)
	life.DeletedAt = nil
	life.DeletedByID = nil
	life.UpdatedAt = at
	life.UpdatedByID = by
	return nil
}

func (m *MemModel[T]) HardDelete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return ErrRecordNotFound
	}
	delete(m.items, id)
	for i, ordered := range m.order {
		if ordered == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemModel[T]) Count(_ context.Context, filter Filter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collect(filter, "")), nil
}

func (m *MemModel[T]) collect(filter Filter, query string) []T {
	var live []T
	for _, id := range m.order {
		rec := m.items[id]
		if (*rec).Deleted() || !m.matches(rec, filter) {
			continue
		}
		if query != "" {
			if m.SearchText == nil {
				continue
			}
			if !strings.Contains(strings.ToLower(m.SearchText(rec)), strings.ToLower(query)) {
				continue
			}
		}
		live = append(live, *rec)
	}
	return live
}

// matches compares filter entries against the record's column values.
// Comparison goes through string form so typed values (uuid, Visibility)
// match their literal counterparts.
func (m *MemModel[T]) matches(rec *T, filter Filter) bool {
	if len(filter) == 0 {
		return true
	}
	values := m.Values(rec)
	for key, want := range filter {
		got, ok := values[key]
		if !ok {
			return false
		}
		if fmt.Sprintf("%v", got) != fmt.Sprintf("%v", want) {
			return false
		}
	}
	return true
}

func paginate[T any](items []T, page shared.PageRequest) []T {
	page = page.Normalize()
	start := page.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + page.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// ApplyLifecycle applies the pipeline's bookkeeping patch keys to the
// lifecycle, for use inside MemModel Apply funcs.
func ApplyLifecycle(l *Lifecycle, patch Filter) {
	if v, ok := patch["updated_at"].(time.Time); ok {
		l.UpdatedAt = v
	}
	if v, ok := patch["updated_by_id"].(uuid.UUID); ok {
		l.UpdatedByID = v
	}
}
