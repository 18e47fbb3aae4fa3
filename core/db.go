package core

import (
	"context"
	"database/sql"
	"strings"
)

type (
	DBExecutor interface {
		Exec(query string, args ...interface{}) (sql.Result, error)
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
		Query(query string, args ...interface{}) (*sql.Rows, error)
		QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
		QueryRow(query string, args ...interface{}) *sql.Row
		QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	}

	DB interface {
		DBExecutor

		Begin() (*sql.Tx, error)
		BeginTx(context.Context, *sql.TxOptions) (*sql.Tx, error)
	}

	DBTransactor interface {
		DBExecutor

		Commit() error
		Rollback() error
	}
)

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// OrderingFields maps the JSON names a client may order by to their column names.
type OrderingFields map[string]string

// Columns translates orderings expressed in JSON names into column orderings.
// Unknown fields are dropped.
func (of OrderingFields) Columns(ordering []DBOrdering) []DBOrdering {
	cols := make([]DBOrdering, 0, len(ordering))
	for _, ord := range ordering {
		if col, ok := of[ord.Field]; ok {
			cols = append(cols, DBOrdering{Field: col, Ascending: ord.Ascending})
		}
	}
	return cols
}

// Allowed drops orderings on unknown fields, keeping the JSON names.
func (of OrderingFields) Allowed(ordering []DBOrdering) []DBOrdering {
	allowed := make([]DBOrdering, 0, len(ordering))
	for _, ord := range ordering {
		if _, ok := of[ord.Field]; ok {
			allowed = append(allowed, ord)
		}
	}
	return allowed
}

// OrderBy renders orderings as a SQL ORDER BY list.
func OrderBy(ordering []DBOrdering) string {
	parts := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		parts = append(parts, ord.String())
	}
	return strings.Join(parts, ", ")
}

// WithTx runs fn inside a transaction, rolling it back when fn fails.
func WithTx(ctx context.Context, db DB, fn func(tx DBExecutor) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
