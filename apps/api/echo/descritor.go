package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/descritor"
)

type descritorApi struct {
	svc      descritor.Service
	validate *validator.Validate
}

func registerDescritorAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := descritorApi{svc: deps.DescritorSvc, validate: deps.Validate}

	dsg := g.Group("/descritores", jwt)
	dsg.GET("", api.query)
	dsg.GET("/componente/:componente", api.query)
	dsg.POST("", api.create, secretariaMiddleware())

	dg := dsg.Group("/:id", objectMiddleware[descritor.Descritor](api.svc.GetByID, nil))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, secretariaMiddleware())
	dg.DELETE("", api.destroy, secretariaMiddleware())
}

func (api *descritorApi) query(ctx echo.Context) error {
	filter := new(descritor.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []descritor.Descritor{})
	}
	if componente := ctx.Param("componente"); componente != "" {
		filter.Componente = core.Disciplina(componente)
	}
	filter.Clean()

	descritores, err := api.svc.Query(ctx.Request().Context(), filter, bindOrdering(ctx))
	if err != nil {
		return errors.Wrap(err, "querying descritores")
	}
	if descritores == nil {
		descritores = []descritor.Descritor{}
	}
	return ctx.JSON(http.StatusOK, descritores)
}

func (api *descritorApi) create(ctx echo.Context) error {
	var data descritor.NewDescritor
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDescritor")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	d, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating descritor")
	}
	return ctx.JSON(http.StatusCreated, d)
}

func (api *descritorApi) retrieve(ctx echo.Context) error {
	d, err := getContextObject[descritor.Descritor](ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, d)
}

func (api *descritorApi) update(ctx echo.Context) error {
	d, err := getContextObject[descritor.Descritor](ctx)
	if err != nil {
		return err
	}

	var data descritor.UpdateDescritor
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateDescritor")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	d, err = api.svc.Update(ctx.Request().Context(), d, data)
	if err != nil {
		return errors.Wrap(err, "updating descritor")
	}
	return ctx.JSON(http.StatusOK, d)
}

func (api *descritorApi) destroy(ctx echo.Context) error {
	d, err := getContextObject[descritor.Descritor](ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), d.ID); err != nil {
		return errors.Wrap(err, "deleting descritor")
	}
	return ctx.NoContent(http.StatusNoContent)
}
