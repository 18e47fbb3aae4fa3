package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/turma"
)

var turmaKeys = map[string]sortKey[turma.Turma]{
	"nome":      func(t turma.Turma) string { return t.Nome },
	"ano":       func(t turma.Turma) string { return t.Ano },
	"turno":     func(t turma.Turma) string { return string(t.Turno) },
	"createdAt": func(t turma.Turma) string { return timeKey(t.CreatedAt) },
}

type turmaRepository struct {
	db *DB
}

var _ turma.Repository = (*turmaRepository)(nil)

func NewTurmaRepository(db *DB) turma.Repository {
	return &turmaRepository{db: db}
}

func (repo *turmaRepository) CreateTurma(_ context.Context, t turma.Turma, _ ...core.DBExecutor) (turma.Turma, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.escolas[t.EscolaID]; !ok {
		return turma.Turma{}, core.NewConflictError("escola inexistente")
	}
	t.ID = uuid.New().String()
	repo.db.turmas[t.ID] = t
	return t, nil
}

func (repo *turmaRepository) QueryTurmas(_ context.Context, filter *turma.QueryFilter, ordering []core.DBOrdering, _ ...core.DBExecutor) ([]turma.Turma, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	turmas := make([]turma.Turma, 0, len(repo.db.turmas))
	for _, t := range repo.db.turmas {
		if filter.Matches(t) {
			turmas = append(turmas, t)
		}
	}
	sortRecords(turmas, ordering, turmaKeys, []core.DBOrdering{desc("ano"), asc("nome")})
	return turmas, nil
}

func (repo *turmaRepository) GetTurmaByID(_ context.Context, id string, _ ...core.DBExecutor) (turma.Turma, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if t, ok := repo.db.turmas[id]; ok {
		return t, nil
	}
	return turma.Turma{}, turma.ErrNotFound
}

func (repo *turmaRepository) UpdateTurma(_ context.Context, t turma.Turma, _ ...core.DBExecutor) (turma.Turma, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.turmas[t.ID]; !ok {
		return turma.Turma{}, turma.ErrNotFound
	}
	if _, ok := repo.db.escolas[t.EscolaID]; !ok {
		return turma.Turma{}, core.NewConflictError("escola inexistente")
	}
	repo.db.turmas[t.ID] = t
	return t, nil
}

func (repo *turmaRepository) DeleteTurmaByID(_ context.Context, id string, _ ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.turmas[id]; !ok {
		return turma.ErrNotFound
	}
	for _, a := range repo.db.alunos {
		if a.TurmaID == id {
			return core.NewConflictError("turma possui alunos")
		}
	}
	delete(repo.db.turmas, id)
	return nil
}
