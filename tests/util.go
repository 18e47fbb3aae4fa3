// Package testutil holds factories and fixtures shared by the test suites.
package testutil

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
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
	logsvc "github.com/smaipa/smaipa/services/logger"
	"github.com/smaipa/smaipa/storage/database"
)

// DatabaseURLEnv names the variable holding the Postgres DSN used by database tests.
const DatabaseURLEnv = "TEST_DATABASE_URL"

// Senha satisfies the password policy.
const Senha = "Pr0va#Segura"

var tables = []string{"gabarito_itens", "gabaritos", "usuarios", "alunos", "turmas", "descritores", "avaliacoes", "escolas"}

// NewConfig returns a configuration suitable for tests, independent of the environment.
func NewConfig() *core.Config {
	return &core.Config{
		Env:             "TEST",
		TestMode:        true,
		AppName:         "SMAIPA",
		SecretKey:       "test-secret",
		FrontendBaseURL: "http://localhost:3000",
		Server: core.ServerConfig{
			Address:                   ":0",
			ShutdownTimeout:           time.Second,
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 24 * time.Hour,
			PasswordResetTimeout:      3 * 24 * time.Hour,
		},
	}
}

// NewLogger returns a logger with Rollbar disabled, writing to stderr.
func NewLogger() core.Logger {
	return logsvc.NewRollbarLogger(log.New(os.Stderr, "TEST : ", log.LstdFlags), NewConfig())
}

// NewValidator registers every validator and translation the API uses.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	turma.InitValidators(validate, translator)
	avaliacao.InitValidators(validate, translator)
	descritor.InitValidators(validate, translator)
	gabarito.InitValidators(validate, translator)
	usuario.InitValidators(validate, translator)
	usuario.LoadCommonPasswords(appfs.Passwords, appfs.CommonPasswordsFile, NewLogger())
	return validate, translator
}

// PrepareDB opens the database named by TEST_DATABASE_URL, migrates it and empties every table.
// The test is skipped when the variable is not set.
func PrepareDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv(DatabaseURLEnv)
	if dsn == "" {
		t.Skipf("%s not set", DatabaseURLEnv)
	}
	db, err := database.OpenURL(dsn)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	if err = database.Migrate(db); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	ResetDB(t, db)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func ResetDB(t *testing.T, db *sql.DB) {
	t.Helper()
	for _, table := range tables {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("ResetDB() failed: %v", err)
		}
	}
}

func CreateEscola(t *testing.T, repo escola.Repository, nome, inep string) escola.Escola {
	t.Helper()
	now := time.Now().UTC()
	esc, err := repo.CreateEscola(context.Background(), escola.Escola{Nome: nome, Inep: inep, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		t.Fatalf("CreateEscola() failed: %v", err)
	}
	return esc
}

func CreateTurma(t *testing.T, repo turma.Repository, escolaID, nome, ano string, turno turma.Turno) turma.Turma {
	t.Helper()
	now := time.Now().UTC()
	tu, err := repo.CreateTurma(context.Background(), turma.Turma{
		Nome: nome, Ano: ano, Turno: turno, EscolaID: escolaID, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateTurma() failed: %v", err)
	}
	return tu
}

func CreateAluno(t *testing.T, repo aluno.Repository, turmaID, nome, matricula string) aluno.Aluno {
	t.Helper()
	now := time.Now().UTC()
	a, err := repo.CreateAluno(context.Background(), aluno.Aluno{
		Nome: nome, Matricula: matricula, TurmaID: turmaID, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateAluno() failed: %v", err)
	}
	return a
}

func CreateAvaliacao(
	t *testing.T,
	repo avaliacao.Repository,
	nome string,
	status avaliacao.Status,
	disciplina core.Disciplina,
	createdAt ...time.Time,
) avaliacao.Avaliacao {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	av, err := repo.CreateAvaliacao(context.Background(), avaliacao.Avaliacao{
		Nome:       nome,
		Status:     status,
		Tipo:       avaliacao.TipoDiagnosticaInicial,
		Disciplina: disciplina,
		Ano:        "2024",
		CreatedAt:  tstamp,
		UpdatedAt:  tstamp,
	})
	if err != nil {
		t.Fatalf("CreateAvaliacao() failed: %v", err)
	}
	return av
}

func CreateDescritor(t *testing.T, repo descritor.Repository, codigo string, disciplina core.Disciplina, tipo descritor.Tipo) descritor.Descritor {
	t.Helper()
	now := time.Now().UTC()
	d, err := repo.CreateDescritor(context.Background(), descritor.Descritor{
		Codigo:          codigo,
		Descricao:       "Descritor " + codigo,
		Disciplina:      disciplina,
		Tipo:            tipo,
		DataCriacao:     now,
		DataAtualizacao: now,
	})
	if err != nil {
		t.Fatalf("CreateDescritor() failed: %v", err)
	}
	return d
}

func CreateGabarito(t *testing.T, repo gabarito.Repository, avaliacaoID string, turno turma.Turno, itens ...gabarito.Item) gabarito.Gabarito {
	t.Helper()
	now := time.Now().UTC()
	g, err := repo.CreateGabarito(context.Background(), gabarito.Gabarito{
		AvaliacaoID: avaliacaoID, Turno: turno, Itens: itens, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateGabarito() failed: %v", err)
	}
	return g
}

// CreateUsuario stores a usuario whose password is Senha.
func CreateUsuario(t *testing.T, repo usuario.Repository, nome, email string, role usuario.Role, escolaID string) usuario.Usuario {
	t.Helper()
	now := time.Now().UTC()
	u := usuario.Usuario{Nome: nome, Email: email, Role: role, EscolaID: escolaID, CreatedAt: now, UpdatedAt: now}
	if err := u.SetPassword(Senha); err != nil {
		t.Fatalf("CreateUsuario() failed: %v", err)
	}
	u, err := repo.CreateUsuario(context.Background(), u)
	if err != nil {
		t.Fatalf("CreateUsuario() failed: %v", err)
	}
	return u
}
