package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/aluno"
	"github.com/smaipa/smaipa/core/avaliacao"
	"github.com/smaipa/smaipa/core/descritor"
	"github.com/smaipa/smaipa/core/escola"
	"github.com/smaipa/smaipa/core/gabarito"
	"github.com/smaipa/smaipa/core/turma"
	"github.com/smaipa/smaipa/core/usuario"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		EscolaSvc    escola.Service
		TurmaSvc     turma.Service
		AlunoSvc     aluno.Service
		AvaliacaoSvc avaliacao.Service
		DescritorSvc descritor.Service
		GabaritoSvc  gabarito.Service
		UsuarioSvc   usuario.Service

		DisableReqLogs bool
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		auth     *authenticator
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		auth:     newAuthenticator(deps.Conf),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{conf.FrontendBaseURL},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.SignalShutdown)
	s.app.Debug = conf.Debug && !conf.TestMode

	s.app.GET("/", s.home)

	g := s.app.Group("/api")
	jwt := middleware.JWTWithConfig(s.auth.jwtConfig)

	registerAuthAPI(g, jwt, s.auth, s.deps)
	registerEscolaAPI(g, jwt, s.deps)
	registerTurmaAPI(g, jwt, s.deps)
	registerAlunoAPI(g, jwt, s.deps)
	registerAvaliacaoAPI(g, jwt, s.deps)
	registerDescritorAPI(g, jwt, s.deps)
	registerGabaritoAPI(g, jwt, s.deps)
	registerUsuarioAPI(g, jwt, s.deps)
}

// Start blocks until the server stops. Failures are reported on Errors().
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

// SignalShutdown asks the owner of the server to shut it down.
func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

// GenerateToken signs a token for u, as the login endpoint does.
func (s *Server) GenerateToken(u usuario.Usuario) (string, error) {
	return s.auth.generateToken(s.auth.claims(u))
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Bem-vindo à API do "+s.deps.Conf.AppName+"!")
}
