package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/usuario"
)

var (
	tokenContextKey  = "usuarioToken"
	contextUserKey   = "usuario"
	contextObjectKey = "object"

	// mockable
	nowFunc = time.Now
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64        `json:"oriat,omitempty"`
	Nome         string       `json:"nome,omitempty"`
	Email        string       `json:"email,omitempty"`
	Role         usuario.Role `json:"role"`
	EscolaID     string       `json:"escolaId,omitempty"`
}

func (c Claims) IsSecretaria() bool { return c.Role == usuario.RoleSecretaria }

// CanAccessEscola reports whether the bearer may act on records of the escola escolaID.
func (c Claims) CanAccessEscola(escolaID string) bool {
	return c.IsSecretaria() || (c.EscolaID != "" && c.EscolaID == escolaID)
}

func (c Claims) LoggedUser() core.LoggedUser {
	return core.LoggedUser{ID: c.Subject, Nome: c.Nome, Email: c.Email}
}

type authenticator struct {
	conf      *core.Config
	jwtConfig middleware.JWTConfig
}

func newAuthenticator(conf *core.Config) *authenticator {
	return &authenticator{
		conf: conf,
		jwtConfig: middleware.JWTConfig{
			SigningKey:    []byte(conf.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    tokenContextKey,
			Claims:        new(Claims),
		},
	}
}

func (a *authenticator) claims(u usuario.Usuario, origIat ...int64) *Claims {
	now := nowFunc()
	nownix := now.Unix()

	oriat := nownix
	if len(origIat) > 0 {
		oriat = origIat[0]
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    a.conf.AppName,
			Subject:   u.ID,
			ExpiresAt: now.Add(a.conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Nome:         u.Nome,
		Email:        u.Email,
		Role:         u.Role,
		EscolaID:     u.EscolaID,
	}
}

// generateToken generates a signed JWT token string representing the usuario Claims.
func (a *authenticator) generateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(a.jwtConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(a.jwtConfig.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func (a *authenticator) authenticate(ctx echo.Context, email, senha string, svc usuario.Service) (usuario.Usuario, error) {
	c := ctx.Request().Context()
	u, err := svc.GetByEmail(c, email)
	if err != nil {
		if core.IsNotFound(err) {
			return usuario.Usuario{}, errAuthenticationFailed
		}
		return usuario.Usuario{}, errors.Wrap(err, "finding usuario by email")
	}
	if err = u.CheckPassword(senha); err != nil {
		return usuario.Usuario{}, errAuthenticationFailed
	}
	u, err = svc.SetLastLogin(c, u)
	if err != nil {
		return usuario.Usuario{}, errors.Wrap(err, "setting lastLogin")
	}
	return u, nil
}

func (a *authenticator) refreshToken(ctx echo.Context, svc usuario.Service) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context claims")
	}

	u, err := getContextUsuario(ctx, svc)
	if err != nil {
		return "", errors.Wrap(err, "getting context usuario")
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(a.conf.Server.JWTRefreshExpirationDelta)
	if nowFunc().After(expTime) {
		return "", errRefreshExpired
	}

	token, err := a.generateToken(a.claims(u, claims.OrigIssuedAt))
	return token, errors.Wrap(err, "generating token")
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// getContextUsuario loads the bearer of the token once per request.
// A token whose usuario was deleted is rejected.
func getContextUsuario(ctx echo.Context, svc usuario.Service) (usuario.Usuario, error) {
	if u, ok := ctx.Get(contextUserKey).(usuario.Usuario); ok {
		return u, nil
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return usuario.Usuario{}, errors.Wrap(err, "getting context claims")
	}

	u, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if core.IsNotFound(err) {
			return usuario.Usuario{}, errUnauthorized
		}
		return usuario.Usuario{}, errors.Wrap(err, "finding usuario by ID")
	}
	ctx.Set(contextUserKey, u)
	return u, nil
}

type authApi struct {
	auth     *authenticator
	svc      usuario.Service
	validate *validator.Validate
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, auth *authenticator, deps ServerDeps) {
	api := authApi{auth: auth, svc: deps.UsuarioSvc, validate: deps.Validate}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/refresh", api.refresh, jwt)
	ag.GET("/me", api.me, jwt)
	ag.POST("/password-reset", api.requestPasswordReset)
	ag.POST("/password-reset/confirm", api.confirmPasswordReset)
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	u, err := api.auth.authenticate(ctx, data.Email, data.Senha, api.svc)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	token, err := api.auth.generateToken(api.auth.claims(u))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Usuario: u})
}

func (api *authApi) refresh(ctx echo.Context) error {
	token, err := api.auth.refreshToken(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, TokenResponse{Token: token})
}

func (api *authApi) me(ctx echo.Context) error {
	u, err := getContextUsuario(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context usuario")
	}
	return ctx.JSON(http.StatusOK, u)
}

func (api *authApi) requestPasswordReset(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	data.Email = core.CleanString(data.Email, true /* lower */)
	if err := api.validate.Struct(data); err != nil {
		return err
	}
	if err := api.svc.RequestPasswordReset(ctx.Request().Context(), data.Email); err != nil {
		return errors.Wrap(err, "requesting password reset")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *authApi) confirmPasswordReset(ctx echo.Context) error {
	var data PasswordResetConfirmRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetConfirmRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}
	err := api.svc.ConfirmPasswordReset(ctx.Request().Context(), data.UID, data.Token, data.Senha)
	if err != nil {
		return errors.Wrap(err, "confirming password reset")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type (
	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	PasswordResetConfirmRequest struct {
		UID   string `json:"uid" validate:"required"`
		Token string `json:"token" validate:"required"`
		Senha string `json:"senha" validate:"required"`
	}

	LoginRequest struct {
		Email string `json:"email" validate:"required,email"`
		Senha string `json:"senha" validate:"required"`
	}

	LoginResponse struct {
		Token   string          `json:"token"`
		Usuario usuario.Usuario `json:"usuario"`
	}

	TokenResponse struct {
		Token string `json:"token"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}
