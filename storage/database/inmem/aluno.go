package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/aluno"
)

var alunoKeys = map[string]sortKey[aluno.Aluno]{
	"nome":      func(a aluno.Aluno) string { return a.Nome },
	"matricula": func(a aluno.Aluno) string { return a.Matricula },
	"createdAt": func(a aluno.Aluno) string { return timeKey(a.CreatedAt) },
}

type alunoRepository struct {
	db *DB
}

var _ aluno.Repository = (*alunoRepository)(nil)

func NewAlunoRepository(db *DB) aluno.Repository {
	return &alunoRepository{db: db}
}

// withTurma fills the turma summary. Callers must hold the lock.
func (repo *alunoRepository) withTurma(a aluno.Aluno) aluno.Aluno {
	a.Turma = nil
	if t, ok := repo.db.turmas[a.TurmaID]; ok {
		a.Turma = t.Summary()
	}
	return a
}

func (repo *alunoRepository) matches(filter *aluno.QueryFilter, a aluno.Aluno) bool {
	if filter == nil {
		return true
	}
	if filter.TurmaID != "" && a.TurmaID != filter.TurmaID {
		return false
	}
	if filter.EscolaID != "" && repo.db.turmas[a.TurmaID].EscolaID != filter.EscolaID {
		return false
	}
	return core.ContainsFolded(filter.Search, a.Nome, a.Matricula)
}

func (repo *alunoRepository) CheckMatriculaUniqueness(_ context.Context, matricula string, excludedIDs []string, _ ...core.DBExecutor) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if repo.matriculaTaken(matricula, excludedIDs...) {
		return aluno.ErrMatriculaExists
	}
	return nil
}

// matriculaTaken mirrors the unique constraint on matricula. Callers must hold the lock.
func (repo *alunoRepository) matriculaTaken(matricula string, excludedIDs ...string) bool {
	for _, a := range repo.db.alunos {
		if a.Matricula == matricula && !isExcluded(a.ID, excludedIDs) {
			return true
		}
	}
	return false
}

func (repo *alunoRepository) CreateAluno(_ context.Context, a aluno.Aluno, _ ...core.DBExecutor) (aluno.Aluno, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.turmas[a.TurmaID]; !ok {
		return aluno.Aluno{}, core.NewConflictError("turma inexistente")
	}
	if repo.matriculaTaken(a.Matricula) {
		return aluno.Aluno{}, core.NewUniqueValueError(aluno.ErrMatriculaExists, "matricula")
	}
	a.ID = uuid.New().String()
	a.Turma = nil
	repo.db.alunos[a.ID] = a
	return repo.withTurma(a), nil
}

func (repo *alunoRepository) QueryAlunos(_ context.Context, filter *aluno.QueryFilter, ordering []core.DBOrdering, _ ...core.DBExecutor) ([]aluno.Aluno, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	alunos := make([]aluno.Aluno, 0, len(repo.db.alunos))
	for _, a := range repo.db.alunos {
		if repo.matches(filter, a) {
			alunos = append(alunos, repo.withTurma(a))
		}
	}
	sortRecords(alunos, ordering, alunoKeys, []core.DBOrdering{asc("nome")})
	return alunos, nil
}

func (repo *alunoRepository) GetAlunoByID(_ context.Context, id string, _ ...core.DBExecutor) (aluno.Aluno, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if a, ok := repo.db.alunos[id]; ok {
		return repo.withTurma(a), nil
	}
	return aluno.Aluno{}, aluno.ErrNotFound
}

func (repo *alunoRepository) UpdateAluno(_ context.Context, a aluno.Aluno, _ ...core.DBExecutor) (aluno.Aluno, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.alunos[a.ID]; !ok {
		return aluno.Aluno{}, aluno.ErrNotFound
	}
	if _, ok := repo.db.turmas[a.TurmaID]; !ok {
		return aluno.Aluno{}, core.NewConflictError("turma inexistente")
	}
	if repo.matriculaTaken(a.Matricula, a.ID) {
		return aluno.Aluno{}, core.NewUniqueValueError(aluno.ErrMatriculaExists, "matricula")
	}
	a.Turma = nil
	repo.db.alunos[a.ID] = a
	return repo.withTurma(a), nil
}

func (repo *alunoRepository) DeleteAlunoByID(_ context.Context, id string, _ ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.alunos[id]; !ok {
		return aluno.ErrNotFound
	}
	delete(repo.db.alunos, id)
	return nil
}
