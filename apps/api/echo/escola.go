package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/smaipa/smaipa/core/escola"
)

type escolaApi struct {
	svc      escola.Service
	validate *validator.Validate
}

func registerEscolaAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := escolaApi{svc: deps.EscolaSvc, validate: deps.Validate}

	eg := g.Group("/escolas", jwt)
	eg.GET("", api.query)
	eg.POST("", api.create, secretariaMiddleware())

	dg := eg.Group("/:id", objectMiddleware(api.svc.GetByID, canAccessEscola))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, secretariaMiddleware())
	dg.DELETE("", api.destroy, secretariaMiddleware())
}

func canAccessEscola(_ echo.Context, claims Claims, esc escola.Escola) (bool, error) {
	return claims.CanAccessEscola(esc.ID), nil
}

func (api *escolaApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	filter := new(escola.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []escola.Escola{})
	}
	filter.Clean()
	if !claims.IsSecretaria() {
		filter.IDs = []string{claims.EscolaID}
	}

	escolas, err := api.svc.Query(ctx.Request().Context(), filter, bindOrdering(ctx))
	if err != nil {
		return errors.Wrap(err, "querying escolas")
	}
	if escolas == nil {
		escolas = []escola.Escola{}
	}
	return ctx.JSON(http.StatusOK, escolas)
}

func (api *escolaApi) create(ctx echo.Context) error {
	var data escola.NewEscola
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEscola")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	esc, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating escola")
	}
	return ctx.JSON(http.StatusCreated, esc)
}

func (api *escolaApi) retrieve(ctx echo.Context) error {
	esc, err := getContextObject[escola.Escola](ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, esc)
}

func (api *escolaApi) update(ctx echo.Context) error {
	esc, err := getContextObject[escola.Escola](ctx)
	if err != nil {
		return err
	}

	var data escola.UpdateEscola
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEscola")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	esc, err = api.svc.Update(ctx.Request().Context(), esc, data)
	if err != nil {
		return errors.Wrap(err, "updating escola")
	}
	return ctx.JSON(http.StatusOK, esc)
}

func (api *escolaApi) destroy(ctx echo.Context) error {
	esc, err := getContextObject[escola.Escola](ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), esc.ID); err != nil {
		return errors.Wrap(err, "deleting escola")
	}
	return ctx.NoContent(http.StatusNoContent)
}
