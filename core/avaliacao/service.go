package avaliacao

import (
	"context"
	"time"

	"github.com/smaipa/smaipa/core"
)

var (
	ErrNotFound = core.NewNotFoundError("avaliação")

	// mockable
	nowFunc = func() time.Time { return time.Now().UTC() }
)

type (
	Repository interface {
		CreateAvaliacao(ctx context.Context, av Avaliacao, exec ...core.DBExecutor) (Avaliacao, error)
		QueryAvaliacoes(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Avaliacao, error)
		GetAvaliacaoByID(ctx context.Context, id string, exec ...core.DBExecutor) (Avaliacao, error)
		UpdateAvaliacao(ctx context.Context, av Avaliacao, exec ...core.DBExecutor) (Avaliacao, error)
		DeleteAvaliacaoByID(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	Service interface {
		Create(ctx context.Context, na NewAvaliacao) (Avaliacao, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Avaliacao, error)
		GetByID(ctx context.Context, id string) (Avaliacao, error)
		Update(ctx context.Context, av Avaliacao, ua UpdateAvaliacao) (Avaliacao, error)
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

func (svc *service) Create(ctx context.Context, na NewAvaliacao) (Avaliacao, error) {
	now := nowFunc()
	av := Avaliacao{
		Nome:          na.Nome,
		Descricao:     na.Descricao,
		Componente:    na.Componente,
		Status:        na.Status,
		Tipo:          na.Tipo,
		Disciplina:    na.Disciplina,
		Ano:           na.Ano,
		DataAplicacao: na.DataAplicacao,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if av.Status == "" {
		av.Status = StatusPendente
	}
	if av.DataAplicacao != nil && av.DataAplicacao.IsZero() {
		av.DataAplicacao = nil
	}
	return svc.repo.CreateAvaliacao(ctx, av)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Avaliacao, error) {
	return svc.repo.QueryAvaliacoes(ctx, filter, OrderingFields.Allowed(ordering))
}

func (svc *service) GetByID(ctx context.Context, id string) (Avaliacao, error) {
	return svc.repo.GetAvaliacaoByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, av Avaliacao, ua UpdateAvaliacao) (Avaliacao, error) {
	av = ua.Apply(av)
	av.UpdatedAt = nowFunc()
	return svc.repo.UpdateAvaliacao(ctx, av)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteAvaliacaoByID(ctx, id)
}
