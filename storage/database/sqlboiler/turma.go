package boiledrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/turma"
)

const turmaColumns = "id, nome, ano, turno, escola_id, created_at, updated_at"

type turmaRow struct {
	ID        string    `boil:"id"`
	Nome      string    `boil:"nome"`
	Ano       string    `boil:"ano"`
	Turno     string    `boil:"turno"`
	EscolaID  string    `boil:"escola_id"`
	CreatedAt time.Time `boil:"created_at"`
	UpdatedAt time.Time `boil:"updated_at"`
}

type turmaRepository struct {
	execGetter
}

var _ turma.Repository = (*turmaRepository)(nil) // interface compliance check

func NewTurmaRepository(exec core.DBExecutor) turma.Repository {
	return &turmaRepository{execGetter{exec: exec}}
}

func (repo turmaRepository) unboil(row *turmaRow) turma.Turma {
	if row == nil {
		return turma.Turma{}
	}
	return turma.Turma{
		ID:        row.ID,
		Nome:      row.Nome,
		Ano:       row.Ano,
		Turno:     turma.Turno(row.Turno),
		EscolaID:  row.EscolaID,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}

func (repo turmaRepository) CreateTurma(ctx context.Context, t turma.Turma, exec ...core.DBExecutor) (turma.Turma, error) {
	t.ID = uuid.New().String()
	_, err := queries.Raw(
		"INSERT INTO turmas ("+turmaColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7)",
		t.ID, t.Nome, t.Ano, string(t.Turno), t.EscolaID, t.CreatedAt.UTC(), t.UpdatedAt.UTC(),
	).ExecContext(ctx, repo.getExec(exec))
	if err != nil {
		return turma.Turma{}, trapErr(err, turma.ErrNotFound, "inserting turma")
	}
	return t, nil
}

func (repo turmaRepository) QueryTurmas(ctx context.Context, filter *turma.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]turma.Turma, error) {
	mods := []qm.QueryMod{qm.Select(turmaColumns), qm.From("turmas")}
	if filter != nil {
		if filter.Search != "" {
			mods = append(mods, searchMod(filter.Search, "nome", "ano"))
		}
		if filter.EscolaID != "" {
			if _, err := uuid.Parse(filter.EscolaID); err != nil {
				return []turma.Turma{}, nil
			}
			mods = append(mods, qm.Where("escola_id = ?", filter.EscolaID))
		}
		if filter.Turno != "" {
			mods = append(mods, qm.Where("turno = ?", string(filter.Turno)))
		}
	}
	mods = append(mods, orderMods(turma.OrderingFields, ordering, "ano DESC, nome ASC")...)

	var rows []*turmaRow
	if err := NewQuery(mods...).Bind(ctx, repo.getExec(exec), &rows); err != nil {
		return nil, trapErr(err, turma.ErrNotFound, "querying turmas")
	}
	turmas := make([]turma.Turma, 0, len(rows))
	for _, row := range rows {
		turmas = append(turmas, repo.unboil(row))
	}
	return turmas, nil
}

func (repo turmaRepository) GetTurmaByID(ctx context.Context, id string, exec ...core.DBExecutor) (turma.Turma, error) {
	if _, err := uuid.Parse(id); err != nil {
		return turma.Turma{}, turma.ErrNotFound
	}
	var row turmaRow
	q := NewQuery(qm.Select(turmaColumns), qm.From("turmas"), qm.Where("id = ?", id))
	if err := q.Bind(ctx, repo.getExec(exec), &row); err != nil {
		return turma.Turma{}, trapErr(err, turma.ErrNotFound, "finding turma by ID")
	}
	return repo.unboil(&row), nil
}

func (repo turmaRepository) UpdateTurma(ctx context.Context, t turma.Turma, exec ...core.DBExecutor) (turma.Turma, error) {
	res, err := queries.Raw(
		"UPDATE turmas SET nome = $2, ano = $3, turno = $4, escola_id = $5, updated_at = $6 WHERE id = $1",
		t.ID, t.Nome, t.Ano, string(t.Turno), t.EscolaID, t.UpdatedAt.UTC(),
	).ExecContext(ctx, repo.getExec(exec))
	if err != nil {
		return turma.Turma{}, trapErr(err, turma.ErrNotFound, "updating turma")
	}
	if err = checkAffected(res, turma.ErrNotFound); err != nil {
		return turma.Turma{}, err
	}
	return t, nil
}

func (repo turmaRepository) DeleteTurmaByID(ctx context.Context, id string, exec ...core.DBExecutor) error {
	if _, err := uuid.Parse(id); err != nil {
		return turma.ErrNotFound
	}
	res, err := queries.Raw("DELETE FROM turmas WHERE id = $1", id).ExecContext(ctx, repo.getExec(exec))
	if err != nil {
		return trapErr(err, turma.ErrNotFound, "deleting turma")
	}
	return checkAffected(res, turma.ErrNotFound)
}
