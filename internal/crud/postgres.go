package crud

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qazuor/hospeda-sub009/internal/shared"
)

const pgUniqueViolation = "23505"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PgConfig parameterizes the generic Postgres model for one entity table.
type PgConfig[T Record] struct {
	// Table is the entity table name.
	Table string
	// Columns lists the selectable columns in struct order.
	Columns []string
	// SearchColumns are the text columns matched by Search.
	SearchColumns []string
	// Values maps a record to its insert column values.
	Values func(rec *T) Filter
}

// PgModel is the single pgx-backed implementation of the persistence model
// contract, shared by every entity table.
type PgModel[T Record] struct {
	pool *pgxpool.Pool
	cfg  PgConfig[T]
}

// NewPgModel builds the Postgres model for one entity table.
func NewPgModel[T Record](pool *pgxpool.Pool, cfg PgConfig[T]) *PgModel[T] {
	switch {
	case cfg.Table == "":
		panic("crud: table name is required")
	case len(cfg.Columns) == 0:
		panic("crud: column list is required")
	case cfg.Values == nil:
		panic("crud: values mapper is required")
	}
	return &PgModel[T]{pool: pool, cfg: cfg}
}

// FindByID resolves a record by id regardless of deletion state.
func (m *PgModel[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	query := psql.Select(m.cfg.Columns...).From(m.cfg.Table).Where(sq.Eq{"id": id})
	return m.selectOne(ctx, query)
}

// FindOne resolves the first live record matching the filter.
func (m *PgModel[T]) FindOne(ctx context.Context, filter Filter) (*T, error) {
	query := psql.Select(m.cfg.Columns...).From(m.cfg.Table).
		Where(sq.Eq{"deleted_at": nil}).
		Limit(1)
	query = applyFilter(query, filter)
	return m.selectOne(ctx, query)
}

// FindAll returns a page of live records plus the total match count.
func (m *PgModel[T]) FindAll(ctx context.Context, filter Filter, page shared.PageRequest) ([]T, int, error) {
	query := psql.Select(m.cfg.Columns...).From(m.cfg.Table).
		Where(sq.Eq{"deleted_at": nil}).
		OrderBy("created_at DESC, id DESC")
	query = applyFilter(query, filter)
	items, err := m.selectPage(ctx, query, page)
	if err != nil {
		return nil, 0, err
	}
	total, err := m.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Search returns live records whose text columns match the query.
func (m *PgModel[T]) Search(ctx context.Context, text string, filter Filter, page shared.PageRequest) ([]T, int, error) {
	pattern := "%" + text + "%"
	match := make(sq.Or, 0, len(m.cfg.SearchColumns))
	for _, col := range m.cfg.SearchColumns {
		match = append(match, sq.ILike{col: pattern})
	}
	query := psql.Select(m.cfg.Columns...).From(m.cfg.Table).
		Where(sq.Eq{"deleted_at": nil}).
		Where(match).
		OrderBy("created_at DESC, id DESC")
	query = applyFilter(query, filter)
	items, err := m.selectPage(ctx, query, page)
	if err != nil {
		return nil, 0, err
	}

	count := psql.Select("COUNT(*)").From(m.cfg.Table).
		Where(sq.Eq{"deleted_at": nil}).
		Where(match)
	count = applyFilter(count, filter)
	total, err := m.countQuery(ctx, count)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Create inserts the record. Unique violations surface as coded validation
// errors so the pipeline preserves them.
func (m *PgModel[T]) Create(ctx context.Context, rec *T) error {
	values := m.cfg.Values(rec)
	sqlStr, args, err := psql.Insert(m.cfg.Table).SetMap(map[string]any(values)).ToSql()
	if err != nil {
		return fmt.Errorf("crud/pg: build insert for %s: %w", m.cfg.Table, err)
	}
	if _, err := m.pool.Exec(ctx, sqlStr, args...); err != nil {
		return m.mapError(err, "insert")
	}
	return nil
}

// Update applies the patch to a live record and returns the updated row.
func (m *PgModel[T]) Update(ctx context.Context, id uuid.UUID, patch Filter) (*T, error) {
	query := psql.Update(m.cfg.Table).
		SetMap(map[string]any(patch)).
		Where(sq.Eq{"id": id, "deleted_at": nil}).
		Suffix("RETURNING " + strings.Join(m.cfg.Columns, ", "))
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("crud/pg: build update for %s: %w", m.cfg.Table, err)
	}
	rows, err := m.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, m.mapError(err, "update")
	}
	rec, err := pgx.CollectOneRow(rows, pgx.RowToStructByNameLax[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, m.mapError(err, "update")
	}
	return &rec, nil
}

// SoftDelete stamps the deletion fields on a live record.
func (m *PgModel[T]) SoftDelete(ctx context.Context, id uuid.UUID, by uuid.UUID, at time.Time) error {
	query := psql.Update(m.cfg.Table).
		Set("deleted_at", at).
		Set("deleted_by_id", by).
		Where(sq.Eq{"id": id, "deleted_at": nil})
	return m.execExpectRow(ctx, query)
}

// Restore clears the deletion fields of a soft-deleted record and stamps the
// update fields.
func (m *PgModel[T]) Restore(ctx context.Context, id uuid.UUID, by uuid.UUID, at time.Time) error {
	query := psql.Update(m.cfg.Table).
		Set("deleted_at", nil).
		Set("deleted_by_id", nil).
		Set("updated_at", at).
		Set("updated_by_id", by).
		Where(sq.NotEq{"deleted_at": nil}).
		Where(sq.Eq{"id": id})
	return m.execExpectRow(ctx, query)
}

// HardDelete physically removes the record.
func (m *PgModel[T]) HardDelete(ctx context.Context, id uuid.UUID) error {
	sqlStr, args, err := psql.Delete(m.cfg.Table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("crud/pg: build delete for %s: %w", m.cfg.Table, err)
	}
	tag, err := m.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return m.mapError(err, "delete")
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Count returns the number of live records matching the filter.
func (m *PgModel[T]) Count(ctx context.Context, filter Filter) (int, error) {
	query := psql.Select("COUNT(*)").From(m.cfg.Table).Where(sq.Eq{"deleted_at": nil})
	query = applyFilter(query, filter)
	return m.countQuery(ctx, query)
}

func (m *PgModel[T]) selectOne(ctx context.Context, query sq.SelectBuilder) (*T, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("crud/pg: build select for %s: %w", m.cfg.Table, err)
	}
	rows, err := m.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, m.mapError(err, "select")
	}
	rec, err := pgx.CollectOneRow(rows, pgx.RowToStructByNameLax[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, m.mapError(err, "select")
	}
	return &rec, nil
}

func (m *PgModel[T]) selectPage(ctx context.Context, query sq.SelectBuilder, page shared.PageRequest) ([]T, error) {
	page = page.Normalize()
	query = query.Limit(uint64(page.PerPage)).Offset(uint64(page.Offset()))
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("crud/pg: build select for %s: %w", m.cfg.Table, err)
	}
	rows, err := m.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, m.mapError(err, "select")
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[T])
	if err != nil {
		return nil, m.mapError(err, "select")
	}
	return items, nil
}

func (m *PgModel[T]) countQuery(ctx context.Context, query sq.SelectBuilder) (int, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("crud/pg: build count for %s: %w", m.cfg.Table, err)
	}
	var total int
	if err := m.pool.QueryRow(ctx, sqlStr, args...).Scan(&total); err != nil {
		return 0, m.mapError(err, "count")
	}
	return total, nil
}

func (m *PgModel[T]) execExpectRow(ctx context.Context, query sq.UpdateBuilder) error {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("crud/pg: build update for %s: %w", m.cfg.Table, err)
	}
	tag, err := m.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return m.mapError(err, "update")
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// mapError converts unique violations into coded validation errors and
// wraps everything else with table context.
func (m *PgModel[T]) mapError(err error, verb string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return Validationf("%s violates unique constraint %s", m.cfg.Table, pgErr.ConstraintName)
	}
	return fmt.Errorf("crud/pg: %s %s: %w", verb, m.cfg.Table, err)
}

func applyFilter(query sq.SelectBuilder, filter Filter) sq.SelectBuilder {
	if len(filter) > 0 {
		query = query.Where(sq.Eq(filter))
	}
	return query
}
