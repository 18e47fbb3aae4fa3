package boiledrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/descritor"
	"github.com/smaipa/smaipa/core/gabarito"
	"github.com/smaipa/smaipa/core/turma"
)

const (
	gabaritoColumns = "id, avaliacao_id, turno, created_at, updated_at"
	itemSelect      = "i.gabarito_id, i.numero, i.resposta, i.descritor_id, " +
		"d.codigo AS descritor_codigo, d.descricao AS descritor_descricao"
)

type (
	gabaritoRow struct {
		ID          string    `boil:"id"`
		AvaliacaoID string    `boil:"avaliacao_id"`
		Turno       string    `boil:"turno"`
		CreatedAt   time.Time `boil:"created_at"`
		UpdatedAt   time.Time `boil:"updated_at"`
	}

	itemRow struct {
		GabaritoID         string      `boil:"gabarito_id"`
		Numero             int         `boil:"numero"`
		Resposta           string      `boil:"resposta"`
		DescritorID        null.String `boil:"descritor_id"`
		DescritorCodigo    null.String `boil:"descritor_codigo"`
		DescritorDescricao null.String `boil:"descritor_descricao"`
	}
)

type gabaritoRepository struct {
	execGetter
}

var _ gabarito.Repository = (*gabaritoRepository)(nil) // interface compliance check

func NewGabaritoRepository(exec core.DBExecutor) gabarito.Repository {
	return &gabaritoRepository{execGetter{exec: exec}}
}

// inTx runs fn in a transaction when exec can start one; fn runs on exec otherwise (it already is a tx).
func (repo gabaritoRepository) inTx(ctx context.Context, exec core.DBExecutor, fn func(tx core.DBExecutor) error) error {
	if db, ok := exec.(core.DB); ok {
		return core.WithTx(ctx, db, fn)
	}
	return fn(exec)
}

func (repo gabaritoRepository) unboil(row *gabaritoRow, itens []gabarito.Item) gabarito.Gabarito {
	if itens == nil {
		itens = []gabarito.Item{}
	}
	gabarito.SortItens(itens)
	return gabarito.Gabarito{
		ID:          row.ID,
		AvaliacaoID: row.AvaliacaoID,
		Turno:       turma.Turno(row.Turno),
		Itens:       itens,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}

func (repo gabaritoRepository) unboilItem(row *itemRow) gabarito.Item {
	it := gabarito.Item{Numero: row.Numero, Resposta: row.Resposta}
	if row.DescritorID.Valid {
		it.DescritorID = row.DescritorID.String
		it.Descritor = &descritor.Summary{
			ID:        row.DescritorID.String,
			Codigo:    row.DescritorCodigo.String,
			Descricao: row.DescritorDescricao.String,
		}
	}
	return it
}

// loadItens returns the itens of the given gabaritos, keyed by gabarito.
func (repo gabaritoRepository) loadItens(ctx context.Context, exec core.DBExecutor, ids []string) (map[string][]gabarito.Item, error) {
	itens := make(map[string][]gabarito.Item, len(ids))
	if len(ids) == 0 {
		return itens, nil
	}
	var rows []*itemRow
	q := NewQuery(
		qm.Select(itemSelect),
		qm.From("gabarito_itens i"),
		qm.LeftOuterJoin("descritores d ON d.id = i.descritor_id"),
		includeIDs("i.gabarito_id", ids),
		qm.OrderBy("i.gabarito_id, i.numero"),
	)
	if err := q.Bind(ctx, exec, &rows); err != nil {
		return nil, errors.Wrap(err, "querying gabarito itens")
	}
	for _, row := range rows {
		itens[row.GabaritoID] = append(itens[row.GabaritoID], repo.unboilItem(row))
	}
	return itens, nil
}

func (repo gabaritoRepository) insertItens(ctx context.Context, exec core.DBExecutor, g gabarito.Gabarito) error {
	for _, it := range g.Itens {
		_, err := queries.Raw(
			"INSERT INTO gabarito_itens (gabarito_id, numero, resposta, descritor_id) VALUES ($1, $2, $3, $4)",
			g.ID, it.Numero, it.Resposta, nullString(it.DescritorID),
		).ExecContext(ctx, exec)
		if err != nil {
			return err
		}
	}
	return nil
}

func (repo gabaritoRepository) CreateGabarito(ctx context.Context, g gabarito.Gabarito, exec ...core.DBExecutor) (gabarito.Gabarito, error) {
	g.ID = uuid.New().String()
	err := repo.inTx(ctx, repo.getExec(exec), func(tx core.DBExecutor) error {
		_, err := queries.Raw(
			"INSERT INTO gabaritos ("+gabaritoColumns+") VALUES ($1, $2, $3, $4, $5)",
			g.ID, g.AvaliacaoID, string(g.Turno), g.CreatedAt.UTC(), g.UpdatedAt.UTC(),
		).ExecContext(ctx, tx)
		if err != nil {
			return err
		}
		return repo.insertItens(ctx, tx, g)
	})
	if err != nil {
		return gabarito.Gabarito{}, trapErr(err, gabarito.ErrNotFound, "inserting gabarito")
	}
	return repo.GetGabaritoByID(ctx, g.ID, exec...)
}

func (repo gabaritoRepository) QueryGabaritos(ctx context.Context, filter *gabarito.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]gabarito.Gabarito, error) {
	mods := []qm.QueryMod{qm.Select(gabaritoColumns), qm.From("gabaritos")}
	if filter != nil {
		if filter.AvaliacaoID != "" {
			if _, err := uuid.Parse(filter.AvaliacaoID); err != nil {
				return []gabarito.Gabarito{}, nil
			}
			mods = append(mods, qm.Where("avaliacao_id = ?", filter.AvaliacaoID))
		}
		if filter.Turno != "" {
			mods = append(mods, qm.Where("turno = ?", string(filter.Turno)))
		}
	}
	mods = append(mods, orderMods(gabarito.OrderingFields, ordering, "created_at DESC")...)

	var rows []*gabaritoRow
	if err := NewQuery(mods...).Bind(ctx, repo.getExec(exec), &rows); err != nil {
		return nil, trapErr(err, gabarito.ErrNotFound, "querying gabaritos")
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	itens, err := repo.loadItens(ctx, repo.getExec(exec), ids)
	if err != nil {
		return nil, err
	}
	gabaritos := make([]gabarito.Gabarito, 0, len(rows))
	for _, row := range rows {
		gabaritos = append(gabaritos, repo.unboil(row, itens[row.ID]))
	}
	return gabaritos, nil
}

func (repo gabaritoRepository) GetGabaritoByID(ctx context.Context, id string, exec ...core.DBExecutor) (gabarito.Gabarito, error) {
	if _, err := uuid.Parse(id); err != nil {
		return gabarito.Gabarito{}, gabarito.ErrNotFound
	}
	var row gabaritoRow
	q := NewQuery(qm.Select(gabaritoColumns), qm.From("gabaritos"), qm.Where("id = ?", id))
	if err := q.Bind(ctx, repo.getExec(exec), &row); err != nil {
		return gabarito.Gabarito{}, trapErr(err, gabarito.ErrNotFound, "finding gabarito by ID")
	}
	itens, err := repo.loadItens(ctx, repo.getExec(exec), []string{id})
	if err != nil {
		return gabarito.Gabarito{}, err
	}
	return repo.unboil(&row, itens[id]), nil
}

// UpdateGabarito rewrites the itens of g.
func (repo gabaritoRepository) UpdateGabarito(ctx context.Context, g gabarito.Gabarito, exec ...core.DBExecutor) (gabarito.Gabarito, error) {
	err := repo.inTx(ctx, repo.getExec(exec), func(tx core.DBExecutor) error {
		res, err := queries.Raw(
			"UPDATE gabaritos SET turno = $2, updated_at = $3 WHERE id = $1",
			g.ID, string(g.Turno), g.UpdatedAt.UTC(),
		).ExecContext(ctx, tx)
		if err != nil {
			return err
		}
		if err = checkAffected(res, gabarito.ErrNotFound); err != nil {
			return err
		}
		if _, err = queries.Raw("DELETE FROM gabarito_itens WHERE gabarito_id = $1", g.ID).ExecContext(ctx, tx); err != nil {
			return err
		}
		return repo.insertItens(ctx, tx, g)
	})
	if err != nil {
		if err == gabarito.ErrNotFound {
			return gabarito.Gabarito{}, err
		}
		return gabarito.Gabarito{}, trapErr(err, gabarito.ErrNotFound, "updating gabarito")
	}
	return repo.GetGabaritoByID(ctx, g.ID, exec...)
}

func (repo gabaritoRepository) DeleteGabaritoByID(ctx context.Context, id string, exec ...core.DBExecutor) error {
	if _, err := uuid.Parse(id); err != nil {
		return gabarito.ErrNotFound
	}
	// itens are removed by ON DELETE CASCADE
	res, err := queries.Raw("DELETE FROM gabaritos WHERE id = $1", id).ExecContext(ctx, repo.getExec(exec))
	if err != nil {
		return trapErr(err, gabarito.ErrNotFound, "deleting gabarito")
	}
	return checkAffected(res, gabarito.ErrNotFound)
}
