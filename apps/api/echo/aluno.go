package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/aluno"
)

var errTurmaOutOfScope = core.NewValidationError(nil, core.FieldError{Field: "turmaId", Error: "turma não encontrada"})

type alunoApi struct {
	svc      aluno.Service
	validate *validator.Validate
}

func registerAlunoAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := alunoApi{svc: deps.AlunoSvc, validate: deps.Validate}

	ag := g.Group("/alunos", jwt)
	ag.GET("", api.query)
	ag.GET("/turma/:turmaId", api.query)
	ag.POST("", api.create)

	dg := ag.Group("/:id", objectMiddleware(api.svc.GetByID, api.canAccess))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

func (api *alunoApi) canAccess(ctx echo.Context, claims Claims, a aluno.Aluno) (bool, error) {
	if claims.IsSecretaria() {
		return true, nil
	}
	return api.canAccessTurma(ctx, claims, a.TurmaID)
}

// canAccessTurma reports whether the bearer may place alunos in the turma turmaID.
// Missing turmas are left for the service to report.
func (api *alunoApi) canAccessTurma(ctx echo.Context, claims Claims, turmaID string) (bool, error) {
	if claims.IsSecretaria() {
		return true, nil
	}
	t, err := api.svc.Turma(ctx.Request().Context(), turmaID)
	if err != nil {
		if _, ok := errors.Cause(err).(*core.ValidationError); ok {
			return true, nil
		}
		return false, errors.Wrap(err, "finding turma by ID")
	}
	return claims.CanAccessEscola(t.EscolaID), nil
}

func (api *alunoApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	filter := new(aluno.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []aluno.Aluno{})
	}
	if turmaID := ctx.Param("turmaId"); turmaID != "" {
		filter.TurmaID = turmaID
	}
	filter.Clean()
	if !claims.IsSecretaria() {
		if filter.EscolaID != "" && filter.EscolaID != claims.EscolaID {
			return ctx.JSON(http.StatusOK, []aluno.Aluno{})
		}
		filter.EscolaID = claims.EscolaID
	}

	alunos, err := api.svc.Query(ctx.Request().Context(), filter, bindOrdering(ctx))
	if err != nil {
		return errors.Wrap(err, "querying alunos")
	}
	if alunos == nil {
		alunos = []aluno.Aluno{}
	}
	return ctx.JSON(http.StatusOK, alunos)
}

func (api *alunoApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data aluno.NewAluno
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAluno")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	ok, err := api.canAccessTurma(ctx, claims, data.TurmaID)
	if err != nil {
		return err
	}
	if !ok {
		return errTurmaOutOfScope
	}

	a, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating aluno")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *alunoApi) retrieve(ctx echo.Context) error {
	a, err := getContextObject[aluno.Aluno](ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *alunoApi) update(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	a, err := getContextObject[aluno.Aluno](ctx)
	if err != nil {
		return err
	}

	var data aluno.UpdateAluno
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAluno")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if data.TurmaID != nil {
		ok, err := api.canAccessTurma(ctx, claims, *data.TurmaID)
		if err != nil {
			return err
		}
		if !ok {
			return errTurmaOutOfScope
		}
	}

	a, err = api.svc.Update(ctx.Request().Context(), a, data)
	if err != nil {
		return errors.Wrap(err, "updating aluno")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *alunoApi) destroy(ctx echo.Context) error {
	a, err := getContextObject[aluno.Aluno](ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), a.ID); err != nil {
		return errors.Wrap(err, "deleting aluno")
	}
	return ctx.NoContent(http.StatusNoContent)
}
