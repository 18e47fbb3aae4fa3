// Package boiledrepos implements the repositories on top of sqlboiler's query builder.
package boiledrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/drivers"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"

	"github.com/smaipa/smaipa/core"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

var (
	dialect = drivers.Dialect{
		LQ: '"',
		RQ: '"',

		UseIndexPlaceholders: true,
		UseLastInsertID:      false,
		UseSchema:            false,
		UseDefaultKeyword:    true,
		UseAutoColumns:       false,
		UseTopClause:         false,
		UseOutputClause:      false,
	}

	// unique constraints -> payload field
	uniqueFields = map[string]string{
		"escolas_inep_key":       "inep",
		"alunos_matricula_key":   "matricula",
		"descritores_codigo_key": "codigo",
		"usuarios_email_key":     "email",
		"gabarito_itens_pkey":    "itens",
	}
)

// NewQuery builds a postgres query from query mods.
func NewQuery(mods ...qm.QueryMod) *queries.Query {
	q := &queries.Query{}
	queries.SetDialect(q, &dialect)
	qm.Apply(q, mods...)
	return q
}

type execGetter struct {
	exec core.DBExecutor
}

func (g execGetter) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return g.exec
}

// trapErr maps sql.ErrNoRows to notFound and pq integrity errors to core validation/conflict errors.
func trapErr(err error, notFound error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok {
		switch pqErr.Code {
		case pqUniqueViolation:
			field, ok := uniqueFields[pqErr.Constraint]
			if !ok {
				field = pqErr.Column
			}
			return core.NewUniqueValueError(pqErr, field)
		case pqForeignKeyViolation:
			return core.NewConflictError(pqErr.Detail)
		}
	}
	return errors.Wrap(err, msg)
}

// checkAffected turns a statement that touched no row into notFound.
func checkAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "reading rows affected")
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func exists(ctx context.Context, exec core.DBExecutor, table string, mods ...qm.QueryMod) (bool, error) {
	var count int64
	q := NewQuery(append([]qm.QueryMod{qm.Select("COUNT(*)"), qm.From(table)}, mods...)...)
	if err := q.QueryRowContext(ctx, exec).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func excludeIDs(col string, ids []string) qm.QueryMod {
	if len(ids) == 0 {
		return nil
	}
	return qm.Where(col+"::text <> ALL(?)", pq.StringArray(ids))
}

func includeIDs(col string, ids []string) qm.QueryMod {
	return qm.Where(col+"::text = ANY(?)", pq.StringArray(ids))
}

// searchMod matches term against cols ignoring case and accents.
func searchMod(term string, cols ...string) qm.QueryMod {
	val := "%" + term + "%"
	clauses := make([]string, 0, len(cols))
	args := make([]interface{}, 0, len(cols))
	for _, col := range cols {
		clauses = append(clauses, fmt.Sprintf("unaccent(%s) ILIKE unaccent(?)", col))
		args = append(args, val)
	}
	return qm.Expr(qm.Where(strings.Join(clauses, " OR "), args...))
}

// orderMods translates JSON orderings to ORDER BY clauses, falling back to def.
func orderMods(fields core.OrderingFields, ordering []core.DBOrdering, def string) []qm.QueryMod {
	cols := fields.Columns(ordering)
	if len(cols) == 0 {
		return []qm.QueryMod{qm.OrderBy(def)}
	}
	return []qm.QueryMod{qm.OrderBy(core.OrderBy(cols))}
}

func nullString(s string) null.String {
	return null.NewString(s, s != "")
}

func appendMods(mods []qm.QueryMod, extra ...qm.QueryMod) []qm.QueryMod {
	for _, m := range extra {
		if m != nil {
			mods = append(mods, m)
		}
	}
	return mods
}
