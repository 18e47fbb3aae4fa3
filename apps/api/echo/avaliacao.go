package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/smaipa/smaipa/core/avaliacao"
)

type avaliacaoApi struct {
	svc      avaliacao.Service
	validate *validator.Validate
}

func registerAvaliacaoAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := avaliacaoApi{svc: deps.AvaliacaoSvc, validate: deps.Validate}

	ag := g.Group("/avaliacoes", jwt)
	ag.GET("", api.query)
	ag.GET("/status/:status", api.query)
	ag.POST("", api.create, secretariaMiddleware())

	dg := ag.Group("/:id", objectMiddleware[avaliacao.Avaliacao](api.svc.GetByID, nil))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, secretariaMiddleware())
	dg.DELETE("", api.destroy, secretariaMiddleware())
}

func (api *avaliacaoApi) query(ctx echo.Context) error {
	filter := new(avaliacao.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []avaliacao.Avaliacao{})
	}
	if status := ctx.Param("status"); status != "" {
		filter.Status = avaliacao.Status(status)
	}
	filter.Clean()

	avaliacoes, err := api.svc.Query(ctx.Request().Context(), filter, bindOrdering(ctx))
	if err != nil {
		return errors.Wrap(err, "querying avaliacoes")
	}
	if avaliacoes == nil {
		avaliacoes = []avaliacao.Avaliacao{}
	}
	return ctx.JSON(http.StatusOK, avaliacoes)
}

func (api *avaliacaoApi) create(ctx echo.Context) error {
	var data avaliacao.NewAvaliacao
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAvaliacao")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	av, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating avaliacao")
	}
	return ctx.JSON(http.StatusCreated, av)
}

func (api *avaliacaoApi) retrieve(ctx echo.Context) error {
	av, err := getContextObject[avaliacao.Avaliacao](ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, av)
}

func (api *avaliacaoApi) update(ctx echo.Context) error {
	av, err := getContextObject[avaliacao.Avaliacao](ctx)
	if err != nil {
		return err
	}

	var data avaliacao.UpdateAvaliacao
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAvaliacao")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	av, err = api.svc.Update(ctx.Request().Context(), av, data)
	if err != nil {
		return errors.Wrap(err, "updating avaliacao")
	}
	return ctx.JSON(http.StatusOK, av)
}

func (api *avaliacaoApi) destroy(ctx echo.Context) error {
	av, err := getContextObject[avaliacao.Avaliacao](ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), av.ID); err != nil {
		return errors.Wrap(err, "deleting avaliacao")
	}
	return ctx.NoContent(http.StatusNoContent)
}
