package descritor

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/smaipa/smaipa/core"
)

var (
	ErrNotFound     = core.NewNotFoundError("descritor")
	ErrCodigoExists = errors.New("já existe um descritor com este código")

	// mockable
	nowFunc = func() time.Time { return time.Now().UTC() }
)

type (
	Repository interface {
		CheckCodigoUniqueness(ctx context.Context, codigo string, excludedIDs []string, exec ...core.DBExecutor) error
		CreateDescritor(ctx context.Context, d Descritor, exec ...core.DBExecutor) (Descritor, error)
		QueryDescritores(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Descritor, error)
		GetDescritorByID(ctx context.Context, id string, exec ...core.DBExecutor) (Descritor, error)
		GetDescritoresByIDs(ctx context.Context, ids []string, exec ...core.DBExecutor) ([]Descritor, error)
		UpdateDescritor(ctx context.Context, d Descritor, exec ...core.DBExecutor) (Descritor, error)
		DeleteDescritorByID(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	Service interface {
		Create(ctx context.Context, nd NewDescritor) (Descritor, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Descritor, error)
		GetByID(ctx context.Context, id string) (Descritor, error)
		Update(ctx context.Context, d Descritor, ud UpdateDescritor) (Descritor, error)
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

func (svc *service) checkUniqueness(ctx context.Context, codigo string, excludedIDs ...string) error {
	if err := svc.repo.CheckCodigoUniqueness(ctx, codigo, excludedIDs); err != nil {
		if err == ErrCodigoExists {
			return core.NewValidationError(err, core.FieldError{Field: "codigo", Error: err.Error()})
		}
		return errors.Wrap(err, "checking codigo uniqueness")
	}
	return nil
}

func (svc *service) Create(ctx context.Context, nd NewDescritor) (Descritor, error) {
	if err := svc.checkUniqueness(ctx, nd.Codigo); err != nil {
		return Descritor{}, err
	}
	now := nowFunc()
	d := Descritor{
		Codigo:          nd.Codigo,
		Descricao:       nd.Descricao,
		Disciplina:      nd.Disciplina,
		Tipo:            nd.Tipo,
		DataCriacao:     now,
		DataAtualizacao: now,
	}
	return svc.repo.CreateDescritor(ctx, d)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Descritor, error) {
	return svc.repo.QueryDescritores(ctx, filter, OrderingFields.Allowed(ordering))
}

func (svc *service) GetByID(ctx context.Context, id string) (Descritor, error) {
	return svc.repo.GetDescritorByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, d Descritor, ud UpdateDescritor) (Descritor, error) {
	if ud.Codigo != nil && *ud.Codigo != d.Codigo {
		if err := svc.checkUniqueness(ctx, *ud.Codigo, d.ID); err != nil {
			return Descritor{}, err
		}
	}
	d = ud.Apply(d)
	d.DataAtualizacao = nowFunc()
	return svc.repo.UpdateDescritor(ctx, d)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteDescritorByID(ctx, id)
}
