package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

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
	os.Exit(run())
}

func run() int {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)
	defer logger.Close()

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Error(fmt.Sprintf("opening database: %v", err), err)
		return 1
	}
	defer db.Close()
	if err = db.Ping(); err != nil {
		logger.Error(fmt.Sprintf("pinging database: %v", err), err)
		return 1
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	usuario.InitValidators(validate, translator)
	core.ParseEmailTemplates(appfs.Templates, appfs.EmailTemplatesDir, conf.Debug, logger)
	usuario.LoadCommonPasswords(appfs.Passwords, appfs.CommonPasswordsFile, logger)

	escolaRepo := boiledrepos.NewEscolaRepository(db)
	turmaRepo := boiledrepos.NewTurmaRepository(db)
	avaliacaoRepo := boiledrepos.NewAvaliacaoRepository(db)
	descritorRepo := boiledrepos.NewDescritorRepository(db)
	mailSvc := emailsvc.NewService(conf, logger)

	// start CLI
	cli := commandLine{
		db:           db,
		conf:         conf,
		logger:       logger,
		out:          os.Stdout,
		validate:     validate,
		translator:   translator,
		escolaSvc:    escola.NewService(escolaRepo),
		turmaSvc:     turma.NewService(turmaRepo, escolaRepo),
		alunoSvc:     aluno.NewService(boiledrepos.NewAlunoRepository(db), turmaRepo),
		avaliacaoSvc: avaliacao.NewService(avaliacaoRepo),
		descritorSvc: descritor.NewService(descritorRepo),
		gabaritoSvc:  gabarito.NewService(boiledrepos.NewGabaritoRepository(db), avaliacaoRepo, descritorRepo),
		usuarioSvc:   usuario.NewService(boiledrepos.NewUsuarioRepository(db), escolaRepo, mailSvc),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		return 1
	}
	return 0
}
