package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/descritor"
)

var descritorKeys = map[string]sortKey[descritor.Descritor]{
	"codigo":      func(d descritor.Descritor) string { return d.Codigo },
	"disciplina":  func(d descritor.Descritor) string { return string(d.Disciplina) },
	"dataCriacao": func(d descritor.Descritor) string { return timeKey(d.DataCriacao) },
}

type descritorRepository struct {
	db *DB
}

var _ descritor.Repository = (*descritorRepository)(nil)

func NewDescritorRepository(db *DB) descritor.Repository {
	return &descritorRepository{db: db}
}

func (repo *descritorRepository) CheckCodigoUniqueness(_ context.Context, codigo string, excludedIDs []string, _ ...core.DBExecutor) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if repo.codigoTaken(codigo, excludedIDs...) {
		return descritor.ErrCodigoExists
	}
	return nil
}

// codigoTaken mirrors the unique constraint on codigo. Callers must hold the lock.
func (repo *descritorRepository) codigoTaken(codigo string, excludedIDs ...string) bool {
	for _, d := range repo.db.descritores {
		if d.Codigo == codigo && !isExcluded(d.ID, excludedIDs) {
			return true
		}
	}
	return false
}

func (repo *descritorRepository) CreateDescritor(_ context.Context, d descritor.Descritor, _ ...core.DBExecutor) (descritor.Descritor, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if repo.codigoTaken(d.Codigo) {
		return descritor.Descritor{}, core.NewUniqueValueError(descritor.ErrCodigoExists, "codigo")
	}
	d.ID = uuid.New().String()
	repo.db.descritores[d.ID] = d
	return d, nil
}

func (repo *descritorRepository) QueryDescritores(_ context.Context, filter *descritor.QueryFilter, ordering []core.DBOrdering, _ ...core.DBExecutor) ([]descritor.Descritor, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	descritores := make([]descritor.Descritor, 0, len(repo.db.descritores))
	for _, d := range repo.db.descritores {
		if filter.Matches(d) {
			descritores = append(descritores, d)
		}
	}
	sortRecords(descritores, ordering, descritorKeys, []core.DBOrdering{asc("codigo")})
	return descritores, nil
}

func (repo *descritorRepository) GetDescritorByID(_ context.Context, id string, _ ...core.DBExecutor) (descritor.Descritor, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if d, ok := repo.db.descritores[id]; ok {
		return d, nil
	}
	return descritor.Descritor{}, descritor.ErrNotFound
}

func (repo *descritorRepository) GetDescritoresByIDs(_ context.Context, ids []string, _ ...core.DBExecutor) ([]descritor.Descritor, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	descritores := make([]descritor.Descritor, 0, len(ids))
	for _, id := range ids {
		if d, ok := repo.db.descritores[id]; ok {
			descritores = append(descritores, d)
		}
	}
	return descritores, nil
}

func (repo *descritorRepository) UpdateDescritor(_ context.Context, d descritor.Descritor, _ ...core.DBExecutor) (descritor.Descritor, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.descritores[d.ID]; !ok {
		return descritor.Descritor{}, descritor.ErrNotFound
	}
	if repo.codigoTaken(d.Codigo, d.ID) {
		return descritor.Descritor{}, core.NewUniqueValueError(descritor.ErrCodigoExists, "codigo")
	}
	repo.db.descritores[d.ID] = d
	return d, nil
}

func (repo *descritorRepository) DeleteDescritorByID(_ context.Context, id string, _ ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.descritores[id]; !ok {
		return descritor.ErrNotFound
	}
	for _, g := range repo.db.gabaritos {
		for _, it := range g.Itens {
			if it.DescritorID == id {
				return core.NewConflictError("descritor usado em gabaritos")
			}
		}
	}
	delete(repo.db.descritores, id)
	return nil
}
