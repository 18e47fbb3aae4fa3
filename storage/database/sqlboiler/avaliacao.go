package boiledrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/avaliacao"
)

const avaliacaoColumns = "id, nome, descricao, componente, status, tipo, disciplina, ano, data_aplicacao, created_at, updated_at"

type avaliacaoRow struct {
	ID            string      `boil:"id"`
	Nome          string      `boil:"nome"`
	Descricao     null.String `boil:"descricao"`
	Componente    null.String `boil:"componente"`
	Status        string      `boil:"status"`
	Tipo          string      `boil:"tipo"`
	Disciplina    string      `boil:"disciplina"`
	Ano           string      `boil:"ano"`
	DataAplicacao null.Time   `boil:"data_aplicacao"`
	CreatedAt     time.Time   `boil:"created_at"`
	UpdatedAt     time.Time   `boil:"updated_at"`
}

type avaliacaoRepository struct {
	execGetter
}

var _ avaliacao.Repository = (*avaliacaoRepository)(nil) // interface compliance check

func NewAvaliacaoRepository(exec core.DBExecutor) avaliacao.Repository {
	return &avaliacaoRepository{execGetter{exec: exec}}
}

func (repo avaliacaoRepository) dataAplicacao(av avaliacao.Avaliacao) null.Time {
	if av.DataAplicacao == nil || av.DataAplicacao.IsZero() {
		return null.Time{}
	}
	return null.TimeFrom(av.DataAplicacao.Time)
}

func (repo avaliacaoRepository) unboil(row *avaliacaoRow) avaliacao.Avaliacao {
	if row == nil {
		return avaliacao.Avaliacao{}
	}
	av := avaliacao.Avaliacao{
		ID:         row.ID,
		Nome:       row.Nome,
		Descricao:  row.Descricao.String,
		Componente: row.Componente.String,
		Status:     avaliacao.Status(row.Status),
		Tipo:       avaliacao.Tipo(row.Tipo),
		Disciplina: core.Disciplina(row.Disciplina),
		Ano:        row.Ano,
		CreatedAt:  row.CreatedAt.UTC(),
		UpdatedAt:  row.UpdatedAt.UTC(),
	}
	if row.DataAplicacao.Valid {
		y, m, d := row.DataAplicacao.Time.Date()
		data := core.NewDate(y, m, d)
		av.DataAplicacao = &data
	}
	return av
}

func (repo avaliacaoRepository) CreateAvaliacao(ctx context.Context, av avaliacao.Avaliacao, exec ...core.DBExecutor) (avaliacao.Avaliacao, error) {
	av.ID = uuid.New().String()
	_, err := queries.Raw(
		"INSERT INTO avaliacoes ("+avaliacaoColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)",
		av.ID, av.Nome, nullString(av.Descricao), nullString(av.Componente), string(av.Status), string(av.Tipo),
		string(av.Disciplina), av.Ano, repo.dataAplicacao(av), av.CreatedAt.UTC(), av.UpdatedAt.UTC(),
	).ExecContext(ctx, repo.getExec(exec))
	if err != nil {
		return avaliacao.Avaliacao{}, trapErr(err, avaliacao.ErrNotFound, "inserting avaliacao")
	}
	return av, nil
}

func (repo avaliacaoRepository) QueryAvaliacoes(ctx context.Context, filter *avaliacao.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]avaliacao.Avaliacao, error) {
	mods := []qm.QueryMod{qm.Select(avaliacaoColumns), qm.From("avaliacoes")}
	if filter != nil {
		if filter.Search != "" {
			mods = append(mods, searchMod(filter.Search, "nome", "descricao", "componente"))
		}
		if filter.Status != "" {
			mods = append(mods, qm.Where("status = ?", string(filter.Status)))
		}
		if filter.Disciplina != "" {
			mods = append(mods, qm.Where("disciplina = ?", string(filter.Disciplina)))
		}
		if filter.Ano != "" {
			mods = append(mods, qm.Where("ano = ?", filter.Ano))
		}
	}
	mods = append(mods, orderMods(avaliacao.OrderingFields, ordering, "created_at DESC")...)

	var rows []*avaliacaoRow
	if err := NewQuery(mods...).Bind(ctx, repo.getExec(exec), &rows); err != nil {
		return nil, trapErr(err, avaliacao.ErrNotFound, "querying avaliacoes")
	}
	avaliacoes := make([]avaliacao.Avaliacao, 0, len(rows))
	for _, row := range rows {
		avaliacoes = append(avaliacoes, repo.unboil(row))
	}
	return avaliacoes, nil
}

func (repo avaliacaoRepository) GetAvaliacaoByID(ctx context.Context, id string, exec ...core.DBExecutor) (avaliacao.Avaliacao, error) {
	if _, err := uuid.Parse(id); err != nil {
		return avaliacao.Avaliacao{}, avaliacao.ErrNotFound
	}
	var row avaliacaoRow
	q := NewQuery(qm.Select(avaliacaoColumns), qm.From("avaliacoes"), qm.Where("id = ?", id))
	if err := q.Bind(ctx, repo.getExec(exec), &row); err != nil {
		return avaliacao.Avaliacao{}, trapErr(err, avaliacao.ErrNotFound, "finding avaliacao by ID")
	}
	return repo.unboil(&row), nil
}

func (repo avaliacaoRepository) UpdateAvaliacao(ctx context.Context, av avaliacao.Avaliacao, exec ...core.DBExecutor) (avaliacao.Avaliacao, error) {
	res, err := queries.Raw(
		"UPDATE avaliacoes SET nome = $2, descricao = $3, componente = $4, status = $5, tipo = $6, "+
			"disciplina = $7, ano = $8, data_aplicacao = $9, updated_at = $10 WHERE id = $1",
		av.ID, av.Nome, nullString(av.Descricao), nullString(av.Componente), string(av.Status), string(av.Tipo),
		string(av.Disciplina), av.Ano, repo.dataAplicacao(av), av.UpdatedAt.UTC(),
	).ExecContext(ctx, repo.getExec(exec))
	if err != nil {
		return avaliacao.Avaliacao{}, trapErr(err, avaliacao.ErrNotFound, "updating avaliacao")
	}
	if err = checkAffected(res, avaliacao.ErrNotFound); err != nil {
		return avaliacao.Avaliacao{}, err
	}
	return av, nil
}

func (repo avaliacaoRepository) DeleteAvaliacaoByID(ctx context.Context, id string, exec ...core.DBExecutor) error {
	if _, err := uuid.Parse(id); err != nil {
		return avaliacao.ErrNotFound
	}
	res, err := queries.Raw("DELETE FROM avaliacoes WHERE id = $1", id).ExecContext(ctx, repo.getExec(exec))
	if err != nil {
		return trapErr(err, avaliacao.ErrNotFound, "deleting avaliacao")
	}
	return checkAffected(res, avaliacao.ErrNotFound)
}
