package escola

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/smaipa/smaipa/core"
)

var (
	// errors
	ErrNotFound   = core.NewNotFoundError("escola")
	ErrInepExists = errors.New("já existe uma escola com este código INEP")

	// mockable
	nowFunc = func() time.Time { return time.Now().UTC() }
)

type (
	Repository interface {
		CheckInepUniqueness(ctx context.Context, inep string, excludedIDs []string, exec ...core.DBExecutor) error
		CreateEscola(ctx context.Context, esc Escola, exec ...core.DBExecutor) (Escola, error)
		QueryEscolas(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Escola, error)
		GetEscolaByID(ctx context.Context, id string, exec ...core.DBExecutor) (Escola, error)
		UpdateEscola(ctx context.Context, esc Escola, exec ...core.DBExecutor) (Escola, error)
		DeleteEscolaByID(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	Service interface {
		Create(ctx context.Context, ne NewEscola) (Escola, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Escola, error)
		GetByID(ctx context.Context, id string) (Escola, error)
		Update(ctx context.Context, esc Escola, ue UpdateEscola) (Escola, error)
		Delete(ctx context.Context, id string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) checkUniqueness(ctx context.Context, inep string, excludedIDs ...string) error {
	if err := svc.repo.CheckInepUniqueness(ctx, inep, excludedIDs); err != nil {
		if err == ErrInepExists {
			return core.NewValidationError(err, core.FieldError{Field: "inep", Error: err.Error()})
		}
		return errors.Wrap(err, "checking inep uniqueness")
	}
	return nil
}

func (svc *service) Create(ctx context.Context, ne NewEscola) (Escola, error) {
	if err := svc.checkUniqueness(ctx, ne.Inep); err != nil {
		return Escola{}, err
	}
	now := nowFunc()
	esc := Escola{
		Nome:      ne.Nome,
		Inep:      ne.Inep,
		Endereco:  ne.Endereco,
		Telefone:  ne.Telefone,
		Diretor:   ne.Diretor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateEscola(ctx, esc)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Escola, error) {
	return svc.repo.QueryEscolas(ctx, filter, OrderingFields.Allowed(ordering))
}

func (svc *service) GetByID(ctx context.Context, id string) (Escola, error) {
	return svc.repo.GetEscolaByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, esc Escola, ue UpdateEscola) (Escola, error) {
	if ue.Inep != nil && *ue.Inep != esc.Inep {
		if err := svc.checkUniqueness(ctx, *ue.Inep, esc.ID); err != nil {
			return Escola{}, err
		}
	}
	esc = ue.Apply(esc)
	esc.UpdatedAt = nowFunc()
	return svc.repo.UpdateEscola(ctx, esc)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteEscolaByID(ctx, id)
}
