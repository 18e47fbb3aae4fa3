package turma

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/escola"
)

var (
	ErrNotFound = core.NewNotFoundError("turma")

	errEscolaNotFound = "escola não encontrada"

	// mockable
	nowFunc = func() time.Time { return time.Now().UTC() }
)

type (
	Repository interface {
		CreateTurma(ctx context.Context, t Turma, exec ...core.DBExecutor) (Turma, error)
		QueryTurmas(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Turma, error)
		GetTurmaByID(ctx context.Context, id string, exec ...core.DBExecutor) (Turma, error)
		UpdateTurma(ctx context.Context, t Turma, exec ...core.DBExecutor) (Turma, error)
		DeleteTurmaByID(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	Service interface {
		Create(ctx context.Context, nt NewTurma) (Turma, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Turma, error)
		GetByID(ctx context.Context, id string) (Turma, error)
		Update(ctx context.Context, t Turma, ut UpdateTurma) (Turma, error)
		Delete(ctx context.Context, id string) error
	}

	service struct {
		repo       Repository
		escolaRepo escola.Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, escolaRepo escola.Repository) Service {
	return &service{repo: repo, escolaRepo: escolaRepo}
}

func (svc *service) checkEscola(ctx context.Context, escolaID string) error {
	if _, err := svc.escolaRepo.GetEscolaByID(ctx, escolaID); err != nil {
		if core.IsNotFound(err) {
			return core.NewValidationError(nil, core.FieldError{Field: "escolaId", Error: errEscolaNotFound})
		}
		return errors.Wrap(err, "finding escola by ID")
	}
	return nil
}

func (svc *service) Create(ctx context.Context, nt NewTurma) (Turma, error) {
	if err := svc.checkEscola(ctx, nt.EscolaID); err != nil {
		return Turma{}, err
	}
	now := nowFunc()
	t := Turma{
		Nome:      nt.Nome,
		Ano:       nt.Ano,
		Turno:     nt.Turno,
		EscolaID:  nt.EscolaID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateTurma(ctx, t)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Turma, error) {
	return svc.repo.QueryTurmas(ctx, filter, OrderingFields.Allowed(ordering))
}

func (svc *service) GetByID(ctx context.Context, id string) (Turma, error) {
	return svc.repo.GetTurmaByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, t Turma, ut UpdateTurma) (Turma, error) {
	if ut.EscolaID != nil && *ut.EscolaID != t.EscolaID {
		if err := svc.checkEscola(ctx, *ut.EscolaID); err != nil {
			return Turma{}, err
		}
	}
	t = ut.Apply(t)
	t.UpdatedAt = nowFunc()
	return svc.repo.UpdateTurma(ctx, t)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteTurmaByID(ctx, id)
}
