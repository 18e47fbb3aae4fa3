package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/escola"
)

var escolaKeys = map[string]sortKey[escola.Escola]{
	"nome":      func(e escola.Escola) string { return e.Nome },
	"inep":      func(e escola.Escola) string { return e.Inep },
	"createdAt": func(e escola.Escola) string { return timeKey(e.CreatedAt) },
	"updatedAt": func(e escola.Escola) string { return timeKey(e.UpdatedAt) },
}

type escolaRepository struct {
	db *DB
}

var _ escola.Repository = (*escolaRepository)(nil)

func NewEscolaRepository(db *DB) escola.Repository {
	return &escolaRepository{db: db}
}

func (repo *escolaRepository) CheckInepUniqueness(_ context.Context, inep string, excludedIDs []string, _ ...core.DBExecutor) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if repo.inepTaken(inep, excludedIDs...) {
		return escola.ErrInepExists
	}
	return nil
}

// inepTaken mirrors the unique constraint on inep. Callers must hold the lock.
func (repo *escolaRepository) inepTaken(inep string, excludedIDs ...string) bool {
	for _, esc := range repo.db.escolas {
		if esc.Inep == inep && !isExcluded(esc.ID, excludedIDs) {
			return true
		}
	}
	return false
}

func (repo *escolaRepository) CreateEscola(_ context.Context, esc escola.Escola, _ ...core.DBExecutor) (escola.Escola, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if repo.inepTaken(esc.Inep) {
		return escola.Escola{}, core.NewUniqueValueError(escola.ErrInepExists, "inep")
	}
	esc.ID = uuid.New().String()
	repo.db.escolas[esc.ID] = esc
	return esc, nil
}

func (repo *escolaRepository) QueryEscolas(_ context.Context, filter *escola.QueryFilter, ordering []core.DBOrdering, _ ...core.DBExecutor) ([]escola.Escola, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	escolas := make([]escola.Escola, 0, len(repo.db.escolas))
	for _, esc := range repo.db.escolas {
		if filter.Matches(esc) {
			escolas = append(escolas, esc)
		}
	}
	sortRecords(escolas, ordering, escolaKeys, []core.DBOrdering{asc("nome")})
	return escolas, nil
}

func (repo *escolaRepository) GetEscolaByID(_ context.Context, id string, _ ...core.DBExecutor) (escola.Escola, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if esc, ok := repo.db.escolas[id]; ok {
		return esc, nil
	}
	return escola.Escola{}, escola.ErrNotFound
}

func (repo *escolaRepository) UpdateEscola(_ context.Context, esc escola.Escola, _ ...core.DBExecutor) (escola.Escola, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.escolas[esc.ID]; !ok {
		return escola.Escola{}, escola.ErrNotFound
	}
	if repo.inepTaken(esc.Inep, esc.ID) {
		return escola.Escola{}, core.NewUniqueValueError(escola.ErrInepExists, "inep")
	}
	repo.db.escolas[esc.ID] = esc
	return esc, nil
}

func (repo *escolaRepository) DeleteEscolaByID(_ context.Context, id string, _ ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.escolas[id]; !ok {
		return escola.ErrNotFound
	}
	for _, t := range repo.db.turmas {
		if t.EscolaID == id {
			return core.NewConflictError("escola possui turmas")
		}
	}
	for _, u := range repo.db.usuarios {
		if u.EscolaID == id {
			return core.NewConflictError("escola possui usuários")
		}
	}
	delete(repo.db.escolas, id)
	return nil
}

func isExcluded(id string, excludedIDs []string) bool {
	for _, excl := range excludedIDs {
		if excl == id {
			return true
		}
	}
	return false
}
