package boiledrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/descritor"
)

const descritorColumns = "id, codigo, descricao, disciplina, tipo, data_criacao, data_atualizacao"

type descritorRow struct {
	ID              string    `boil:"id"`
	Codigo          string    `boil:"codigo"`
	Descricao       string    `boil:"descricao"`
	Disciplina      string    `boil:"disciplina"`
	Tipo            string    `boil:"tipo"`
	DataCriacao     time.Time `boil:"data_criacao"`
	DataAtualizacao time.Time `boil:"data_atualizacao"`
}

type descritorRepository struct {
	execGetter
}

var _ descritor.Repository = (*descritorRepository)(nil) // interface compliance check

func NewDescritorRepository(exec core.DBExecutor) descritor.Repository {
	return &descritorRepository{execGetter{exec: exec}}
}

func (repo descritorRepository) unboil(row *descritorRow) descritor.Descritor {
	if row == nil {
		return descritor.Descritor{}
	}
	return descritor.Descritor{
		ID:              row.ID,
		Codigo:          row.Codigo,
		Descricao:       row.Descricao,
		Disciplina:      core.Disciplina(row.Disciplina),
		Tipo:            descritor.Tipo(row.Tipo),
		DataCriacao:     row.DataCriacao.UTC(),
		DataAtualizacao: row.DataAtualizacao.UTC(),
	}
}

func (repo descritorRepository) unboilSlice(rows []*descritorRow) []descritor.Descritor {
	descritores := make([]descritor.Descritor, 0, len(rows))
	for _, row := range rows {
		descritores = append(descritores, repo.unboil(row))
	}
	return descritores
}

func (repo descritorRepository) CheckCodigoUniqueness(ctx context.Context, codigo string, excludedIDs []string, exec ...core.DBExecutor) error {
	mods := appendMods([]qm.QueryMod{qm.Where("codigo = ?", codigo)}, excludeIDs("id", excludedIDs))
	found, err := exists(ctx, repo.getExec(exec), "descritores", mods...)
	if err != nil {
		return trapErr(err, descritor.ErrNotFound, "checking codigo uniqueness")
	}
	if found {
		return descritor.ErrCodigoExists
	}
	return nil
}

func (repo descritorRepository) CreateDescritor(ctx context.Context, d descritor.Descritor, exec ...core.DBExecutor) (descritor.Descritor, error) {
	d.ID = uuid.New().String()
	_, err := queries.Raw(
		"INSERT INTO descritores ("+descritorColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7)",
		d.ID, d.Codigo, d.Descricao, string(d.Disciplina), string(d.Tipo), d.DataCriacao.UTC(), d.DataAtualizacao.UTC(),
	).ExecContext(ctx, repo.getExec(exec))
	if err != nil {
		return descritor.Descritor{}, trapErr(err, descritor.ErrNotFound, "inserting descritor")
	}
	return d, nil
}

func (repo descritorRepository) QueryDescritores(ctx context.Context, filter *descritor.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]descritor.Descritor, error) {
	mods := []qm.QueryMod{qm.Select(descritorColumns), qm.From("descritores")}
	if filter != nil {
		if filter.Search != "" {
			mods = append(mods, searchMod(filter.Search, "codigo", "descricao"))
		}
		if filter.Componente != "" {
			mods = append(mods, qm.Where("disciplina = ?", string(filter.Componente)))
		}
		if filter.Fase != "" {
			// tipo is stored in either shape
			mods = append(mods, qm.Where("tipo = ANY(?)", pq.StringArray(filter.Fase.Tipos())))
		}
	}
	mods = append(mods, orderMods(descritor.OrderingFields, ordering, "codigo ASC")...)

	var rows []*descritorRow
	if err := NewQuery(mods...).Bind(ctx, repo.getExec(exec), &rows); err != nil {
		return nil, trapErr(err, descritor.ErrNotFound, "querying descritores")
	}
	return repo.unboilSlice(rows), nil
}

func (repo descritorRepository) GetDescritorByID(ctx context.Context, id string, exec ...core.DBExecutor) (descritor.Descritor, error) {
	if _, err := uuid.Parse(id); err != nil {
		return descritor.Descritor{}, descritor.ErrNotFound
	}
	var row descritorRow
	q := NewQuery(qm.Select(descritorColumns), qm.From("descritores"), qm.Where("id = ?", id))
	if err := q.Bind(ctx, repo.getExec(exec), &row); err != nil {
		return descritor.Descritor{}, trapErr(err, descritor.ErrNotFound, "finding descritor by ID")
	}
	return repo.unboil(&row), nil
}

func (repo descritorRepository) GetDescritoresByIDs(ctx context.Context, ids []string, exec ...core.DBExecutor) ([]descritor.Descritor, error) {
	if len(ids) == 0 {
		return []descritor.Descritor{}, nil
	}
	var rows []*descritorRow
	q := NewQuery(qm.Select(descritorColumns), qm.From("descritores"), includeIDs("id", ids))
	if err := q.Bind(ctx, repo.getExec(exec), &rows); err != nil {
		return nil, trapErr(err, descritor.ErrNotFound, "finding descritores by IDs")
	}
	return repo.unboilSlice(rows), nil
}

func (repo descritorRepository) UpdateDescritor(ctx context.Context, d descritor.Descritor, exec ...core.DBExecutor) (descritor.Descritor, error) {
	res, err := queries.Raw(
		"UPDATE descritores SET codigo = $2, descricao = $3, disciplina = $4, tipo = $5, data_atualizacao = $6 WHERE id = $1",
		d.ID, d.Codigo, d.Descricao, string(d.Disciplina), string(d.Tipo), d.DataAtualizacao.UTC(),
	).ExecContext(ctx, repo.getExec(exec))
	if err != nil {
		return descritor.Descritor{}, trapErr(err, descritor.ErrNotFound, "updating descritor")
	}
	if err = checkAffected(res, descritor.ErrNotFound); err != nil {
		return descritor.Descritor{}, err
	}
	return d, nil
}

func (repo descritorRepository) DeleteDescritorByID(ctx context.Context, id string, exec ...core.DBExecutor) error {
	if _, err := uuid.Parse(id); err != nil {
		return descritor.ErrNotFound
	}
	res, err := queries.Raw("DELETE FROM descritores WHERE id = $1", id).ExecContext(ctx, repo.getExec(exec))
	if err != nil {
		return trapErr(err, descritor.ErrNotFound, "deleting descritor")
	}
	return checkAffected(res, descritor.ErrNotFound)
}
