package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/gabarito"
)

var gabaritoKeys = map[string]sortKey[gabarito.Gabarito]{
	"turno":     func(g gabarito.Gabarito) string { return string(g.Turno) },
	"createdAt": func(g gabarito.Gabarito) string { return timeKey(g.CreatedAt) },
}

type gabaritoRepository struct {
	db *DB
}

var _ gabarito.Repository = (*gabaritoRepository)(nil)

func NewGabaritoRepository(db *DB) gabarito.Repository {
	return &gabaritoRepository{db: db}
}

// checkRefs verifies the avaliacao and descritores of g exist. Callers must hold the lock.
func (repo *gabaritoRepository) checkRefs(g gabarito.Gabarito) error {
	if _, ok := repo.db.avaliacoes[g.AvaliacaoID]; !ok {
		return core.NewConflictError("avaliação inexistente")
	}
	for _, id := range g.DescritorIDs() {
		if _, ok := repo.db.descritores[id]; !ok {
			return core.NewConflictError("descritor inexistente")
		}
	}
	return nil
}

// store keeps its own copy of the itens, stripped of the descritor summaries.
func (repo *gabaritoRepository) store(g gabarito.Gabarito) {
	itens := make([]gabarito.Item, len(g.Itens))
	copy(itens, g.Itens)
	for i := range itens {
		itens[i].Descritor = nil
	}
	gabarito.SortItens(itens)
	g.Itens = itens
	repo.db.gabaritos[g.ID] = g
}

// load returns a copy of g with the descritor summaries filled. Callers must hold the lock.
func (repo *gabaritoRepository) load(g gabarito.Gabarito) gabarito.Gabarito {
	itens := make([]gabarito.Item, len(g.Itens))
	copy(itens, g.Itens)
	for i := range itens {
		if d, ok := repo.db.descritores[itens[i].DescritorID]; ok {
			itens[i].Descritor = d.Summary()
		}
	}
	g.Itens = itens
	return g
}

func (repo *gabaritoRepository) CreateGabarito(_ context.Context, g gabarito.Gabarito, _ ...core.DBExecutor) (gabarito.Gabarito, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.checkRefs(g); err != nil {
		return gabarito.Gabarito{}, err
	}
	g.ID = uuid.New().String()
	repo.store(g)
	return repo.load(repo.db.gabaritos[g.ID]), nil
}

func (repo *gabaritoRepository) QueryGabaritos(_ context.Context, filter *gabarito.QueryFilter, ordering []core.DBOrdering, _ ...core.DBExecutor) ([]gabarito.Gabarito, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	gabaritos := make([]gabarito.Gabarito, 0, len(repo.db.gabaritos))
	for _, g := range repo.db.gabaritos {
		if filter.Matches(g) {
			gabaritos = append(gabaritos, repo.load(g))
		}
	}
	sortRecords(gabaritos, ordering, gabaritoKeys, []core.DBOrdering{desc("createdAt")})
	return gabaritos, nil
}

func (repo *gabaritoRepository) GetGabaritoByID(_ context.Context, id string, _ ...core.DBExecutor) (gabarito.Gabarito, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if g, ok := repo.db.gabaritos[id]; ok {
		return repo.load(g), nil
	}
	return gabarito.Gabarito{}, gabarito.ErrNotFound
}

func (repo *gabaritoRepository) UpdateGabarito(_ context.Context, g gabarito.Gabarito, _ ...core.DBExecutor) (gabarito.Gabarito, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.gabaritos[g.ID]; !ok {
		return gabarito.Gabarito{}, gabarito.ErrNotFound
	}
	if err := repo.checkRefs(g); err != nil {
		return gabarito.Gabarito{}, err
	}
	repo.store(g)
	return repo.load(repo.db.gabaritos[g.ID]), nil
}

func (repo *gabaritoRepository) DeleteGabaritoByID(_ context.Context, id string, _ ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.gabaritos[id]; !ok {
		return gabarito.ErrNotFound
	}
	delete(repo.db.gabaritos, id)
	return nil
}
