package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Table maps a record type onto its MySQL table. Every content table shares
// the same shape: a uuid id, a set of editable columns and created_at.
type Table[T any] struct {
	Name      string
	Columns   []string // editable columns, excluding id and created_at
	OrderBy   string
	Published string // column that gates public reads, empty if none
	// Args returns the values of Columns, in order.
	Args func(*T) []any
	// Dest returns scan targets for id, Columns..., created_at.
	Dest  func(*T) []any
	SetID func(*T, string)
}

// Filter narrows a Find call. Where is an SQL condition using ? placeholders.
type Filter struct {
	Where         string
	Args          []any
	PublishedOnly bool
	Limit         int
}

// RecordRepo is a generic list/get/create/update/delete repository used by
// every back office content collection.
type RecordRepo[T any] struct {
	db *sql.DB
	t  Table[T]
}

func NewRecordRepo[T any](db *sql.DB, t Table[T]) *RecordRepo[T] {
	return &RecordRepo[T]{db: db, t: t}
}

// Name is the underlying table name.
func (r *RecordRepo[T]) Name() string { return r.t.Name }

func (r *RecordRepo[T]) selectSQL() string {
	return "SELECT id, " + strings.Join(r.t.Columns, ", ") + ", created_at FROM " + r.t.Name
}

// Find lists records matching f in the table's default order.
func (r *RecordRepo[T]) Find(ctx context.Context, f Filter) ([]T, error) {
	var where []string
	if f.Where != "" {
		where = append(where, f.Where)
	}
	if f.PublishedOnly && r.t.Published != "" {
		where = append(where, r.t.Published+" = TRUE")
	}
	q := r.selectSQL()
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	if r.t.OrderBy != "" {
		q += " ORDER BY " + r.t.OrderBy
	}
	if f.Limit > 0 {
		q += " LIMIT " + strconv.Itoa(f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, f.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []T{}
	for rows.Next() {
		var rec T
		if err := rows.Scan(r.t.Dest(&rec)...); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// List is Find without a condition.
func (r *RecordRepo[T]) List(ctx context.Context, publishedOnly bool) ([]T, error) {
	return r.Find(ctx, Filter{PublishedOnly: publishedOnly})
}

// Get returns the record with id or ErrNotFound.
func (r *RecordRepo[T]) Get(ctx context.Context, id string) (*T, error) {
	return r.GetBy(ctx, "id", id, false)
}

// GetBy returns the single record whose column equals value. column must be
// a trusted identifier, never user input.
func (r *RecordRepo[T]) GetBy(ctx context.Context, column, value string, publishedOnly bool) (*T, error) {
	q := r.selectSQL() + " WHERE " + column + " = ?"
	if publishedOnly && r.t.Published != "" {
		q += " AND " + r.t.Published + " = TRUE"
	}
	var rec T
	if err := r.db.QueryRowContext(ctx, q+" LIMIT 1", value).Scan(r.t.Dest(&rec)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// Create inserts rec with a fresh id and returns the stored row.
func (r *RecordRepo[T]) Create(ctx context.Context, rec *T) (*T, error) {
	id := uuid.NewString()
	r.t.SetID(rec, id)
	q := "INSERT INTO " + r.t.Name + " (id, " + strings.Join(r.t.Columns, ", ") + ") VALUES (?" +
		strings.Repeat(", ?", len(r.t.Columns)) + ")"
	args := append([]any{id}, r.t.Args(rec)...)
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		if isDuplicate(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return r.Get(ctx, id)
}

// Update overwrites the editable columns of the record with id.
func (r *RecordRepo[T]) Update(ctx context.Context, id string, rec *T) (*T, error) {
	if _, err := r.Get(ctx, id); err != nil {
		return nil, err
	}
	sets := make([]string, len(r.t.Columns))
	for i, c := range r.t.Columns {
		sets[i] = c + " = ?"
	}
	q := "UPDATE " + r.t.Name + " SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args := append(r.t.Args(rec), id)
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		if isDuplicate(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return r.Get(ctx, id)
}

// Delete removes the record with id.
func (r *RecordRepo[T]) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM "+r.t.Name+" WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
