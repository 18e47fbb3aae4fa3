package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/smaipa/smaipa/core/usuario"
)

type usuarioApi struct {
	svc      usuario.Service
	validate *validator.Validate
}

func registerUsuarioAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := usuarioApi{svc: deps.UsuarioSvc, validate: deps.Validate}

	ug := g.Group("/usuarios", jwt)
	ug.GET("", api.query)
	ug.GET("/escola/:escolaId", api.query)
	ug.POST("", api.create, secretariaMiddleware())

	dg := ug.Group("/:id", objectMiddleware(api.svc.GetByID, canAccessUsuario))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, secretariaMiddleware())
	dg.DELETE("", api.destroy, secretariaMiddleware())
}

// canAccessUsuario lets escola usuarios see only themselves.
func canAccessUsuario(_ echo.Context, claims Claims, u usuario.Usuario) (bool, error) {
	return claims.IsSecretaria() || claims.Subject == u.ID, nil
}

func (api *usuarioApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	filter := new(usuario.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []usuario.Usuario{})
	}
	if escolaID := ctx.Param("escolaId"); escolaID != "" {
		filter.EscolaID = escolaID
	}
	filter.Clean()
	filter.IDs = nil
	if !claims.IsSecretaria() {
		filter.IDs = []string{claims.Subject}
	}

	usuarios, err := api.svc.Query(ctx.Request().Context(), filter, bindOrdering(ctx))
	if err != nil {
		return errors.Wrap(err, "querying usuarios")
	}
	if usuarios == nil {
		usuarios = []usuario.Usuario{}
	}
	return ctx.JSON(http.StatusOK, usuarios)
}

func (api *usuarioApi) create(ctx echo.Context) error {
	var data usuario.NewUsuario
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUsuario")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	u, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating usuario")
	}
	return ctx.JSON(http.StatusCreated, u)
}

func (api *usuarioApi) retrieve(ctx echo.Context) error {
	u, err := getContextObject[usuario.Usuario](ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, u)
}

func (api *usuarioApi) update(ctx echo.Context) error {
	u, err := getContextObject[usuario.Usuario](ctx)
	if err != nil {
		return err
	}

	var data usuario.UpdateUsuario
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUsuario")
	}
	if err := data.Validate(u, api.validate); err != nil {
		return err
	}

	u, err = api.svc.Update(ctx.Request().Context(), u, data)
	if err != nil {
		return errors.Wrap(err, "updating usuario")
	}
	return ctx.JSON(http.StatusOK, u)
}

func (api *usuarioApi) destroy(ctx echo.Context) error {
	u, err := getContextObject[usuario.Usuario](ctx)
	if err != nil {
		return err
	}

	// Say No to Suicide! the bearer cannot delete themselves
	ctxUsr, err := getContextUsuario(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context usuario")
	}
	if u.ID == ctxUsr.ID {
		return errHttpForbidden
	}

	if err := api.svc.Delete(ctx.Request().Context(), u.ID); err != nil {
		return errors.Wrap(err, "deleting usuario")
	}
	return ctx.NoContent(http.StatusNoContent)
}
