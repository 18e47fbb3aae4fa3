package gabarito

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/avaliacao"
	"github.com/smaipa/smaipa/core/descritor"
)

var (
	ErrNotFound = core.NewNotFoundError("gabarito")

	errAvaliacaoNotFound = "avaliação não encontrada"
	errDescritorNotFound = "descritor não encontrado: %s"

	// mockable
	nowFunc = func() time.Time { return time.Now().UTC() }
)

type (
	// Repository stores itens together with their gabarito and fills Item.Descritor on every read.
	Repository interface {
		CreateGabarito(ctx context.Context, g Gabarito, exec ...core.DBExecutor) (Gabarito, error)
		QueryGabaritos(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Gabarito, error)
		GetGabaritoByID(ctx context.Context, id string, exec ...core.DBExecutor) (Gabarito, error)
		UpdateGabarito(ctx context.Context, g Gabarito, exec ...core.DBExecutor) (Gabarito, error)
		DeleteGabaritoByID(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	Service interface {
		Create(ctx context.Context, ng NewGabarito) (Gabarito, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Gabarito, error)
		GetByID(ctx context.Context, id string) (Gabarito, error)
		Update(ctx context.Context, g Gabarito, ug UpdateGabarito) (Gabarito, error)
		Delete(ctx context.Context, id string) error
	}

	service struct {
		repo          Repository
		avaliacaoRepo avaliacao.Repository
		descritorRepo descritor.Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, avaliacaoRepo avaliacao.Repository, descritorRepo descritor.Repository) Service {
	return &service{repo: repo, avaliacaoRepo: avaliacaoRepo, descritorRepo: descritorRepo}
}

func (svc *service) checkAvaliacao(ctx context.Context, avaliacaoID string) error {
	if _, err := svc.avaliacaoRepo.GetAvaliacaoByID(ctx, avaliacaoID); err != nil {
		if core.IsNotFound(err) {
			return core.NewValidationError(nil, core.FieldError{Field: "avaliacaoId", Error: errAvaliacaoNotFound})
		}
		return errors.Wrap(err, "finding avaliacao by ID")
	}
	return nil
}

func (svc *service) checkDescritores(ctx context.Context, itens []Item) error {
	ids := descritorIDs(itens)
	if len(ids) == 0 {
		return nil
	}
	found, err := svc.descritorRepo.GetDescritoresByIDs(ctx, ids)
	if err != nil {
		return errors.Wrap(err, "finding descritores by IDs")
	}
	known := make(map[string]bool, len(found))
	for _, d := range found {
		known[d.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return core.NewValidationError(nil, core.FieldError{Field: "itens", Error: fmt.Sprintf(errDescritorNotFound, id)})
		}
	}
	return nil
}

func (svc *service) Create(ctx context.Context, ng NewGabarito) (Gabarito, error) {
	if err := svc.checkAvaliacao(ctx, ng.AvaliacaoID); err != nil {
		return Gabarito{}, err
	}
	itens := ng.ToItens()
	if err := svc.checkDescritores(ctx, itens); err != nil {
		return Gabarito{}, err
	}
	now := nowFunc()
	g := Gabarito{
		AvaliacaoID: ng.AvaliacaoID,
		Turno:       ng.Turno,
		Itens:       itens,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateGabarito(ctx, g)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Gabarito, error) {
	return svc.repo.QueryGabaritos(ctx, filter, OrderingFields.Allowed(ordering))
}

func (svc *service) GetByID(ctx context.Context, id string) (Gabarito, error) {
	return svc.repo.GetGabaritoByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, g Gabarito, ug UpdateGabarito) (Gabarito, error) {
	g = ug.Apply(g)
	if len(ug.Itens) > 0 {
		if err := svc.checkDescritores(ctx, g.Itens); err != nil {
			return Gabarito{}, err
		}
	}
	g.UpdatedAt = nowFunc()
	return svc.repo.UpdateGabarito(ctx, g)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteGabaritoByID(ctx, id)
}
