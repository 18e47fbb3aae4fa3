package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/turma"
)

var errEscolaOutOfScope = core.NewValidationError(nil, core.FieldError{Field: "escolaId", Error: "escola não encontrada"})

type turmaApi struct {
	svc      turma.Service
	validate *validator.Validate
}

func registerTurmaAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := turmaApi{svc: deps.TurmaSvc, validate: deps.Validate}

	tg := g.Group("/turmas", jwt)
	tg.GET("", api.query)
	tg.GET("/escola/:escolaId", api.query)
	tg.POST("", api.create)

	dg := tg.Group("/:id", objectMiddleware(api.svc.GetByID, canAccessTurma))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

func canAccessTurma(_ echo.Context, claims Claims, t turma.Turma) (bool, error) {
	return claims.CanAccessEscola(t.EscolaID), nil
}

func (api *turmaApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	filter := new(turma.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []turma.Turma{})
	}
	if escolaID := ctx.Param("escolaId"); escolaID != "" {
		filter.EscolaID = escolaID
	}
	filter.Clean()
	if !claims.IsSecretaria() {
		if filter.EscolaID != "" && filter.EscolaID != claims.EscolaID {
			return ctx.JSON(http.StatusOK, []turma.Turma{})
		}
		filter.EscolaID = claims.EscolaID
	}

	turmas, err := api.svc.Query(ctx.Request().Context(), filter, bindOrdering(ctx))
	if err != nil {
		return errors.Wrap(err, "querying turmas")
	}
	if turmas == nil {
		turmas = []turma.Turma{}
	}
	return ctx.JSON(http.StatusOK, turmas)
}

func (api *turmaApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data turma.NewTurma
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTurma")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if !claims.CanAccessEscola(data.EscolaID) {
		return errEscolaOutOfScope
	}

	t, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating turma")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *turmaApi) retrieve(ctx echo.Context) error {
	t, err := getContextObject[turma.Turma](ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *turmaApi) update(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	t, err := getContextObject[turma.Turma](ctx)
	if err != nil {
		return err
	}

	var data turma.UpdateTurma
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTurma")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if data.EscolaID != nil && !claims.CanAccessEscola(*data.EscolaID) {
		return errEscolaOutOfScope
	}

	t, err = api.svc.Update(ctx.Request().Context(), t, data)
	if err != nil {
		return errors.Wrap(err, "updating turma")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *turmaApi) destroy(ctx echo.Context) error {
	t, err := getContextObject[turma.Turma](ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), t.ID); err != nil {
		return errors.Wrap(err, "deleting turma")
	}
	return ctx.NoContent(http.StatusNoContent)
}
