package aluno

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/turma"
)

var (
	ErrNotFound        = core.NewNotFoundError("aluno")
	ErrMatriculaExists = errors.New("já existe um aluno com esta matrícula")

	errTurmaNotFound = "turma não encontrada"

	// mockable
	nowFunc = func() time.Time { return time.Now().UTC() }
)

type (
	// Repository fills Aluno.Turma on every read.
	// QueryFilter.EscolaID restricts alunos to turmas of that escola.
	Repository interface {
		CheckMatriculaUniqueness(ctx context.Context, matricula string, excludedIDs []string, exec ...core.DBExecutor) error
		CreateAluno(ctx context.Context, a Aluno, exec ...core.DBExecutor) (Aluno, error)
		QueryAlunos(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Aluno, error)
		GetAlunoByID(ctx context.Context, id string, exec ...core.DBExecutor) (Aluno, error)
		UpdateAluno(ctx context.Context, a Aluno, exec ...core.DBExecutor) (Aluno, error)
		DeleteAlunoByID(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	Service interface {
		Create(ctx context.Context, na NewAluno) (Aluno, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Aluno, error)
		GetByID(ctx context.Context, id string) (Aluno, error)
		Update(ctx context.Context, a Aluno, ua UpdateAluno) (Aluno, error)
		Delete(ctx context.Context, id string) error
		// Turma returns the turma an aluno would belong to; used for escola scoping.
		Turma(ctx context.Context, turmaID string) (turma.Turma, error)
	}

	service struct {
		repo      Repository
		turmaRepo turma.Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, turmaRepo turma.Repository) Service {
	return &service{repo: repo, turmaRepo: turmaRepo}
}

func (svc *service) checkUniqueness(ctx context.Context, matricula string, excludedIDs ...string) error {
	if err := svc.repo.CheckMatriculaUniqueness(ctx, matricula, excludedIDs); err != nil {
		if err == ErrMatriculaExists {
			return core.NewValidationError(err, core.FieldError{Field: "matricula", Error: err.Error()})
		}
		return errors.Wrap(err, "checking matricula uniqueness")
	}
	return nil
}

func (svc *service) Turma(ctx context.Context, turmaID string) (turma.Turma, error) {
	t, err := svc.turmaRepo.GetTurmaByID(ctx, turmaID)
	if err != nil {
		if core.IsNotFound(err) {
			return turma.Turma{}, core.NewValidationError(nil, core.FieldError{Field: "turmaId", Error: errTurmaNotFound})
		}
		return turma.Turma{}, errors.Wrap(err, "finding turma by ID")
	}
	return t, nil
}

func (svc *service) Create(ctx context.Context, na NewAluno) (Aluno, error) {
	if _, err := svc.Turma(ctx, na.TurmaID); err != nil {
		return Aluno{}, err
	}
	if err := svc.checkUniqueness(ctx, na.Matricula); err != nil {
		return Aluno{}, err
	}
	now := nowFunc()
	a := Aluno{
		Nome:      na.Nome,
		Matricula: na.Matricula,
		TurmaID:   na.TurmaID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateAluno(ctx, a)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Aluno, error) {
	return svc.repo.QueryAlunos(ctx, filter, OrderingFields.Allowed(ordering))
}

func (svc *service) GetByID(ctx context.Context, id string) (Aluno, error) {
	return svc.repo.GetAlunoByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, a Aluno, ua UpdateAluno) (Aluno, error) {
	if ua.TurmaID != nil && *ua.TurmaID != a.TurmaID {
		if _, err := svc.Turma(ctx, *ua.TurmaID); err != nil {
			return Aluno{}, err
		}
	}
	if ua.Matricula != nil && *ua.Matricula != a.Matricula {
		if err := svc.checkUniqueness(ctx, *ua.Matricula, a.ID); err != nil {
			return Aluno{}, err
		}
	}
	a = ua.Apply(a)
	a.UpdatedAt = nowFunc()
	return svc.repo.UpdateAluno(ctx, a)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteAlunoByID(ctx, id)
}
