package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/smaipa/smaipa/core/gabarito"
)

type gabaritoApi struct {
	svc      gabarito.Service
	validate *validator.Validate
}

func registerGabaritoAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := gabaritoApi{svc: deps.GabaritoSvc, validate: deps.Validate}

	gg := g.Group("/gabaritos", jwt)
	gg.GET("", api.query)
	gg.GET("/avaliacao/:avaliacaoId", api.query)
	gg.POST("", api.create, secretariaMiddleware())

	dg := gg.Group("/:id", objectMiddleware[gabarito.Gabarito](api.svc.GetByID, nil))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, secretariaMiddleware())
	dg.DELETE("", api.destroy, secretariaMiddleware())
}

func (api *gabaritoApi) query(ctx echo.Context) error {
	filter := new(gabarito.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []gabarito.Gabarito{})
	}
	if avaliacaoID := ctx.Param("avaliacaoId"); avaliacaoID != "" {
		filter.AvaliacaoID = avaliacaoID
	}
	filter.Clean()

	gabaritos, err := api.svc.Query(ctx.Request().Context(), filter, bindOrdering(ctx))
	if err != nil {
		return errors.Wrap(err, "querying gabaritos")
	}
	if gabaritos == nil {
		gabaritos = []gabarito.Gabarito{}
	}
	return ctx.JSON(http.StatusOK, gabaritos)
}

func (api *gabaritoApi) create(ctx echo.Context) error {
	var data gabarito.NewGabarito
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGabarito")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	g, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating gabarito")
	}
	return ctx.JSON(http.StatusCreated, g)
}

func (api *gabaritoApi) retrieve(ctx echo.Context) error {
	g, err := getContextObject[gabarito.Gabarito](ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, g)
}

func (api *gabaritoApi) update(ctx echo.Context) error {
	g, err := getContextObject[gabarito.Gabarito](ctx)
	if err != nil {
		return err
	}

	var data gabarito.UpdateGabarito
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateGabarito")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	g, err = api.svc.Update(ctx.Request().Context(), g, data)
	if err != nil {
		return errors.Wrap(err, "updating gabarito")
	}
	return ctx.JSON(http.StatusOK, g)
}

func (api *gabaritoApi) destroy(ctx echo.Context) error {
	g, err := getContextObject[gabarito.Gabarito](ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), g.ID); err != nil {
		return errors.Wrap(err, "deleting gabarito")
	}
	return ctx.NoContent(http.StatusNoContent)
}
