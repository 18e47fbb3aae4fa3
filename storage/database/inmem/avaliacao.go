package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/avaliacao"
)

var avaliacaoKeys = map[string]sortKey[avaliacao.Avaliacao]{
	"nome":   func(av avaliacao.Avaliacao) string { return av.Nome },
	"ano":    func(av avaliacao.Avaliacao) string { return av.Ano },
	"status": func(av avaliacao.Avaliacao) string { return string(av.Status) },
	"dataAplicacao": func(av avaliacao.Avaliacao) string {
		if av.DataAplicacao == nil {
			return ""
		}
		return av.DataAplicacao.Format("2006-01-02")
	},
	"createdAt": func(av avaliacao.Avaliacao) string { return timeKey(av.CreatedAt) },
}

type avaliacaoRepository struct {
	db *DB
}

var _ avaliacao.Repository = (*avaliacaoRepository)(nil)

func NewAvaliacaoRepository(db *DB) avaliacao.Repository {
	return &avaliacaoRepository{db: db}
}

func (repo *avaliacaoRepository) CreateAvaliacao(_ context.Context, av avaliacao.Avaliacao, _ ...core.DBExecutor) (avaliacao.Avaliacao, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	av.ID = uuid.New().String()
	repo.db.avaliacoes[av.ID] = av
	return av, nil
}

func (repo *avaliacaoRepository) QueryAvaliacoes(_ context.Context, filter *avaliacao.QueryFilter, ordering []core.DBOrdering, _ ...core.DBExecutor) ([]avaliacao.Avaliacao, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	avaliacoes := make([]avaliacao.Avaliacao, 0, len(repo.db.avaliacoes))
	for _, av := range repo.db.avaliacoes {
		if filter.Matches(av) {
			avaliacoes = append(avaliacoes, av)
		}
	}
	sortRecords(avaliacoes, ordering, avaliacaoKeys, []core.DBOrdering{desc("createdAt")})
	return avaliacoes, nil
}

func (repo *avaliacaoRepository) GetAvaliacaoByID(_ context.Context, id string, _ ...core.DBExecutor) (avaliacao.Avaliacao, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if av, ok := repo.db.avaliacoes[id]; ok {
		return av, nil
	}
	return avaliacao.Avaliacao{}, avaliacao.ErrNotFound
}

func (repo *avaliacaoRepository) UpdateAvaliacao(_ context.Context, av avaliacao.Avaliacao, _ ...core.DBExecutor) (avaliacao.Avaliacao, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.avaliacoes[av.ID]; !ok {
		return avaliacao.Avaliacao{}, avaliacao.ErrNotFound
	}
	repo.db.avaliacoes[av.ID] = av
	return av, nil
}

func (repo *avaliacaoRepository) DeleteAvaliacaoByID(_ context.Context, id string, _ ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.avaliacoes[id]; !ok {
		return avaliacao.ErrNotFound
	}
	for _, g := range repo.db.gabaritos {
		if g.AvaliacaoID == id {
			return core.NewConflictError("avaliação possui gabaritos")
		}
	}
	delete(repo.db.avaliacoes, id)
	return nil
}
