package main

import (
	"context"
	"database/sql"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/smaipa/smaipa/apps/api/echo"
	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/aluno"
	"github.com/smaipa/smaipa/core/avaliacao"
	"github.com/smaipa/smaipa/core/descritor"
	"github.com/smaipa/smaipa/core/escola"
	"github.com/smaipa/smaipa/core/gabarito"
	"github.com/smaipa/smaipa/core/turma"
	"github.com/smaipa/smaipa/core/usuario"
	appfs "github.com/smaipa/smaipa/fs"
	emailsvc "github.com/smaipa/smaipa/services/email"
	logsvc "github.com/smaipa/smaipa/services/logger"
	"github.com/smaipa/smaipa/storage/database"
	boiledrepos "github.com/smaipa/smaipa/storage/database/sqlboiler"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)
	defer logger.Close()

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// set up repositories & services
	escolaRepo := boiledrepos.NewEscolaRepository(db)
	turmaRepo := boiledrepos.NewTurmaRepository(db)
	avaliacaoRepo := boiledrepos.NewAvaliacaoRepository(db)
	descritorRepo := boiledrepos.NewDescritorRepository(db)
	mailSvc := emailsvc.NewService(conf, logger)

	usuarioSvc := usuario.NewService(boiledrepos.NewUsuarioRepository(db), escolaRepo, mailSvc, usuario.WithResetTokens(usuario.ResetTokens{
		SecretKey: conf.SecretKey,
		Timeout:   conf.Server.PasswordResetTimeout,
	}))

	deps := echoapi.ServerDeps{
		Conf:         conf,
		Logger:       logger,
		EscolaSvc:    escola.NewService(escolaRepo),
		TurmaSvc:     turma.NewService(turmaRepo, escolaRepo),
		AlunoSvc:     aluno.NewService(boiledrepos.NewAlunoRepository(db), turmaRepo),
		AvaliacaoSvc: avaliacao.NewService(avaliacaoRepo),
		DescritorSvc: descritor.NewService(descritorRepo),
		GabaritoSvc:  gabarito.NewService(boiledrepos.NewGabaritoRepository(db), avaliacaoRepo, descritorRepo),
		UsuarioSvc:   usuarioSvc,
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	deps.Validate = validator.New()
	deps.Translator = core.NewTranslator()
	core.InitValidators(deps.Validate, deps.Translator)
	turma.InitValidators(deps.Validate, deps.Translator)
	avaliacao.InitValidators(deps.Validate, deps.Translator)
	descritor.InitValidators(deps.Validate, deps.Translator)
	gabarito.InitValidators(deps.Validate, deps.Translator)
	usuario.InitValidators(deps.Validate, deps.Translator)

	core.ParseEmailTemplates(appfs.Templates, appfs.EmailTemplatesDir, conf.Debug, logger)
	usuario.LoadCommonPasswords(appfs.Passwords, appfs.CommonPasswordsFile, logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(deps)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
