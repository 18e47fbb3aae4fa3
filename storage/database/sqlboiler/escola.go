package boiledrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/escola"
)

const escolaColumns = "id, nome, inep, endereco, telefone, diretor, created_at, updated_at"

type escolaRow struct {
	ID        string      `boil:"id"`
	Nome      string      `boil:"nome"`
	Inep      string      `boil:"inep"`
	Endereco  null.String `boil:"endereco"`
	Telefone  null.String `boil:"telefone"`
	Diretor   null.String `boil:"diretor"`
	CreatedAt time.Time   `boil:"created_at"`
	UpdatedAt time.Time   `boil:"updated_at"`
}

type escolaRepository struct {
	execGetter
}

var _ escola.Repository = (*escolaRepository)(nil) // interface compliance check

func NewEscolaRepository(exec core.DBExecutor) escola.Repository {
	return &escolaRepository{execGetter{exec: exec}}
}

func (repo escolaRepository) unboil(row *escolaRow) escola.Escola {
	if row == nil {
		return escola.Escola{}
	}
	return escola.Escola{
		ID:        row.ID,
		Nome:      row.Nome,
		Inep:      row.Inep,
		Endereco:  row.Endereco.String,
		Telefone:  row.Telefone.String,
		Diretor:   row.Diretor.String,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}

func (repo escolaRepository) CheckInepUniqueness(ctx context.Context, inep string, excludedIDs []string, exec ...core.DBExecutor) error {
	mods := appendMods([]qm.QueryMod{qm.Where("inep = ?", inep)}, excludeIDs("id", excludedIDs))
	found, err := exists(ctx, repo.getExec(exec), "escolas", mods...)
	if err != nil {
		return trapErr(err, escola.ErrNotFound, "checking inep uniqueness")
	}
	if found {
		return escola.ErrInepExists
	}
	return nil
}

func (repo escolaRepository) CreateEscola(ctx context.Context, esc escola.Escola, exec ...core.DBExecutor) (escola.Escola, error) {
	esc.ID = uuid.New().String()
	_, err := queries.Raw(
		"INSERT INTO escolas ("+escolaColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		esc.ID, esc.Nome, esc.Inep, nullString(esc.Endereco), nullString(esc.Telefone), nullString(esc.Diretor),
		esc.CreatedAt.UTC(), esc.UpdatedAt.UTC(),
	).ExecContext(ctx, repo.getExec(exec))
	if err != nil {
		return escola.Escola{}, trapErr(err, escola.ErrNotFound, "inserting escola")
	}
	return esc, nil
}

func (repo escolaRepository) QueryEscolas(ctx context.Context, filter *escola.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]escola.Escola, error) {
	mods := []qm.QueryMod{qm.Select(escolaColumns), qm.From("escolas")}
	if filter != nil {
		// escolas with Nome, Inep or Diretor matching the search keyword
		if filter.Search != "" {
			mods = append(mods, searchMod(filter.Search, "nome", "inep", "diretor"))
		}
		if filter.IDs != nil {
			mods = append(mods, includeIDs("id", filter.IDs))
		}
	}
	mods = append(mods, orderMods(escola.OrderingFields, ordering, "nome ASC")...)

	var rows []*escolaRow
	if err := NewQuery(mods...).Bind(ctx, repo.getExec(exec), &rows); err != nil {
		return nil, trapErr(err, escola.ErrNotFound, "querying escolas")
	}
	escolas := make([]escola.Escola, 0, len(rows))
	for _, row := range rows {
		escolas = append(escolas, repo.unboil(row))
	}
	return escolas, nil
}

func (repo escolaRepository) GetEscolaByID(ctx context.Context, id string, exec ...core.DBExecutor) (escola.Escola, error) {
	if _, err := uuid.Parse(id); err != nil {
		return escola.Escola{}, escola.ErrNotFound
	}
	var row escolaRow
	q := NewQuery(qm.Select(escolaColumns), qm.From("escolas"), qm.Where("id = ?", id))
	if err := q.Bind(ctx, repo.getExec(exec), &row); err != nil {
		return escola.Escola{}, trapErr(err, escola.ErrNotFound, "finding escola by ID")
	}
	return repo.unboil(&row), nil
}

func (repo escolaRepository) UpdateEscola(ctx context.Context, esc escola.Escola, exec ...core.DBExecutor) (escola.Escola, error) {
	res, err := queries.Raw(
		"UPDATE escolas SET nome = $2, inep = $3, endereco = $4, telefone = $5, diretor = $6, updated_at = $7 WHERE id = $1",
		esc.ID, esc.Nome, esc.Inep, nullString(esc.Endereco), nullString(esc.Telefone), nullString(esc.Diretor),
		esc.UpdatedAt.UTC(),
	).ExecContext(ctx, repo.getExec(exec))
	if err != nil {
		return escola.Escola{}, trapErr(err, escola.ErrNotFound, "updating escola")
	}
	if err = checkAffected(res, escola.ErrNotFound); err != nil {
		return escola.Escola{}, err
	}
	return esc, nil
}

func (repo escolaRepository) DeleteEscolaByID(ctx context.Context, id string, exec ...core.DBExecutor) error {
	if _, err := uuid.Parse(id); err != nil {
		return escola.ErrNotFound
	}
	res, err := queries.Raw("DELETE FROM escolas WHERE id = $1", id).ExecContext(ctx, repo.getExec(exec))
	if err != nil {
		return trapErr(err, escola.ErrNotFound, "deleting escola")
	}
	return checkAffected(res, escola.ErrNotFound)
}
