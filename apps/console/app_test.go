package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/smaipa/smaipa/apps/api/echo"
	"github.com/smaipa/smaipa/client"
	"github.com/smaipa/smaipa/console"
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
	"github.com/smaipa/smaipa/session"
	inmemdb "github.com/smaipa/smaipa/storage/database/inmem"
	testutil "github.com/smaipa/smaipa/tests"
)

type testEnv struct {
	url        string
	escolaRepo escola.Repository
	turmaRepo  turma.Repository
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	conf := testutil.NewConfig()
	logger := testutil.NewLogger()
	validate, translator := testutil.NewValidator()
	core.ParseEmailTemplates(appfs.Templates, appfs.EmailTemplatesDir, true, logger)

	db := inmemdb.Open()
	env := &testEnv{
		escolaRepo: inmemdb.NewEscolaRepository(db),
		turmaRepo:  inmemdb.NewTurmaRepository(db),
	}
	avaliacaoRepo := inmemdb.NewAvaliacaoRepository(db)
	descritorRepo := inmemdb.NewDescritorRepository(db)
	usuarioRepo := inmemdb.NewUsuarioRepository(db)

	app := echoapi.NewServer(echoapi.ServerDeps{
		Conf:           conf,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
		EscolaSvc:      escola.NewService(env.escolaRepo),
		TurmaSvc:       turma.NewService(env.turmaRepo, env.escolaRepo),
		AlunoSvc:       aluno.NewService(inmemdb.NewAlunoRepository(db), env.turmaRepo),
		AvaliacaoSvc:   avaliacao.NewService(avaliacaoRepo),
		DescritorSvc:   descritor.NewService(descritorRepo),
		GabaritoSvc:    gabarito.NewService(inmemdb.NewGabaritoRepository(db), avaliacaoRepo, descritorRepo),
		UsuarioSvc:     usuario.NewService(usuarioRepo, env.escolaRepo, emailsvc.NewConsoleServiceMock(conf, logger)),
		DisableReqLogs: true,
	})
	srv := httptest.NewServer(app)
	t.Cleanup(srv.Close)
	env.url = srv.URL + "/api"

	testutil.CreateUsuario(t, usuarioRepo, "Ana Souza", "ana@smaipa.test", usuario.RoleSecretaria, "")
	return env
}

func TestLogin(t *testing.T) {
	env := setup(t)

	t.Run("bad password", func(t *testing.T) {
		_, api, err := login(context.Background(), env.url, "ana@smaipa.test", "lol")
		assert.Nil(t, api)
		var apiErr *client.APIError
		if assert.True(t, errors.As(err, &apiErr)) {
			assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		}
	})

	t.Run("bad url", func(t *testing.T) {
		_, _, err := login(context.Background(), "", "ana@smaipa.test", testutil.Senha)
		assert.Error(t, err)
	})

	t.Run("ok", func(t *testing.T) {
		ctx, api, err := login(context.Background(), env.url, "ana@smaipa.test", testutil.Senha)
		require.NoError(t, err)
		sess, ok := session.FromContext(ctx)
		require.True(t, ok)
		assert.True(t, sess.IsSecretaria())

		me, err := api.Me(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ana@smaipa.test", me.Email)
	})
}

func TestLoop(t *testing.T) {
	env := setup(t)
	alfa := testutil.CreateEscola(t, env.escolaRepo, "Escola Alfa", "11111111")
	beta := testutil.CreateEscola(t, env.escolaRepo, "Escola Beta", "22222222")
	testutil.CreateTurma(t, env.turmaRepo, alfa.ID, "6A", "2024", turma.TurnoMatutino)

	ctx, api, err := login(context.Background(), env.url, "ana@smaipa.test", testutil.Senha)
	require.NoError(t, err)

	input := strings.Join([]string{
		"e 1",
		"d 1", "s", // referenced by a turma
		"d 2", "n",
		"d 2", "sim",
		"d 9",
		"e",
		"lol",
		"q",
		"r", // never reached
	}, "\n")
	var out bytes.Buffer
	a := newApp(strings.NewReader(input), &out, testutil.NewLogger())
	s, err := newScreen(a.deps(api), "escolas", "")
	require.NoError(t, err)

	require.NoError(t, a.loop(ctx, s))

	got := out.String()
	assert.Contains(t, got, "Ana Souza (ana@smaipa.test)")
	assert.Equal(t, 2, strings.Count(got, "Carregando..."), "initial load and refetch after the deletion")
	assert.Contains(t, got, `"nome": "Escola Alfa"`)
	assert.Contains(t, got, `✖ Não foi possível excluir a escola "Escola Alfa": api: 409`)
	assert.Contains(t, got, `✔ A escola "Escola Beta" excluído(a) com sucesso.`)
	assert.Contains(t, got, "índice 9: item inexistente")
	assert.Contains(t, got, "uso: e <n>")
	assert.Contains(t, got, help)

	_, err = env.escolaRepo.GetEscolaByID(context.Background(), beta.ID)
	assert.True(t, core.IsNotFound(err))
	_, err = env.escolaRepo.GetEscolaByID(context.Background(), alfa.ID)
	assert.NoError(t, err)
}

func TestLoopEOF(t *testing.T) {
	env := setup(t)
	ctx, api, err := login(context.Background(), env.url, "ana@smaipa.test", testutil.Senha)
	require.NoError(t, err)

	var out bytes.Buffer
	a := newApp(strings.NewReader("r"), &out, testutil.NewLogger())
	s, err := newScreen(a.deps(api), "turmas", "")
	require.NoError(t, err)

	require.NoError(t, a.loop(ctx, s))
	assert.Equal(t, 2, strings.Count(out.String(), "Nenhuma turma cadastrada."))
}

func TestLoopFailedFetch(t *testing.T) {
	errUnavailable := errors.New("api: 503 Service Unavailable")
	sess := session.New("token", usuario.Usuario{ID: "u1", Nome: "Ana Souza", Email: "ana@smaipa.test", Role: usuario.RoleSecretaria})
	ctx := session.NewContext(context.Background(), sess)

	tests := []struct {
		name      string
		failFrom  int
		wantAlfa  int
		wantEmpty bool
	}{
		{name: "initial load", failFrom: 1, wantEmpty: true},
		{name: "refresh keeps the records", failFrom: 2, wantAlfa: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int
			fetch := func(context.Context) ([]escola.Escola, error) {
				calls++
				if calls >= tt.failFrom {
					return nil, errUnavailable
				}
				return []escola.Escola{{ID: "e1", Nome: "Escola Alfa", Inep: "11111111"}}, nil
			}

			var out bytes.Buffer
			a := newApp(strings.NewReader("r\nq\n"), &out, testutil.NewLogger())
			deps := a.deps(nil)
			s := newPage(deps, fetch, console.NewEscolaList, func(context.Context, escola.Escola) error { return nil })

			require.NoError(t, a.loop(ctx, s))
			assert.Equal(t, 2, calls)

			got := out.String()
			assert.Contains(t, got, "✖ Não foi possível carregar os registros: api: 503 Service Unavailable")
			assert.Equal(t, tt.wantAlfa, strings.Count(got, "Escola Alfa"))
			if tt.wantEmpty {
				assert.Contains(t, got, "Nenhuma escola cadastrada.")
			}
			assert.False(t, strings.HasSuffix(strings.TrimSpace(got), "Carregando..."))
		})
	}
}

func TestAvaliacaoScreen(t *testing.T) {
	env := setup(t)
	ctx, api, err := login(context.Background(), env.url, "ana@smaipa.test", testutil.Senha)
	require.NoError(t, err)
	a := newApp(strings.NewReader(""), new(bytes.Buffer), testutil.NewLogger())

	t.Run("known status", func(t *testing.T) {
		var out bytes.Buffer
		deps := a.deps(api)
		deps.out = &out
		s, err := newScreen(deps, "avaliacoes", "pendente")
		require.NoError(t, err)
		require.NoError(t, s.refresh(ctx))
		assert.Contains(t, out.String(), "Não há avaliações com status")
	})

	t.Run("unknown status", func(t *testing.T) {
		s, err := newScreen(a.deps(api), "avaliacoes", "lol")
		require.NoError(t, err)
		assert.ErrorIs(t, s.refresh(ctx), console.ErrUnknownFilter)
	})
}

func TestNewScreen(t *testing.T) {
	api, err := client.New("http://localhost:8000/api")
	require.NoError(t, err)
	deps := screenDeps{api: api}

	for _, resource := range resources {
		s, err := newScreen(deps, resource, "")
		assert.NoError(t, err, resource)
		assert.NotNil(t, s, resource)
	}
	_, err = newScreen(deps, "lol", "")
	assert.EqualError(t, err, `unknown resource "lol"`)
}

func TestIndex(t *testing.T) {
	n, err := index([]string{"d", "3"})
	assert.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, fields := range [][]string{{"d"}, {"d", "0"}, {"d", "x"}, {"d", "1", "2"}} {
		_, err := index(fields)
		assert.Error(t, err, fields)
	}
}
