package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

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
	inmemdb "github.com/smaipa/smaipa/storage/database/inmem"
	testutil "github.com/smaipa/smaipa/tests"
)

// newAPI serves the real API over in-memory storage and returns a logged in Client.
func newAPI(t *testing.T) *Client {
	t.Helper()
	conf := testutil.NewConfig()
	logger := testutil.NewLogger()
	validate, translator := testutil.NewValidator()
	core.ParseEmailTemplates(appfs.Templates, appfs.EmailTemplatesDir, true, logger)

	db := inmemdb.Open()
	escolaRepo := inmemdb.NewEscolaRepository(db)
	turmaRepo := inmemdb.NewTurmaRepository(db)
	avaliacaoRepo := inmemdb.NewAvaliacaoRepository(db)
	descritorRepo := inmemdb.NewDescritorRepository(db)
	usuarioRepo := inmemdb.NewUsuarioRepository(db)

	app := echoapi.NewServer(echoapi.ServerDeps{
		Conf:           conf,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
		EscolaSvc:      escola.NewService(escolaRepo),
		TurmaSvc:       turma.NewService(turmaRepo, escolaRepo),
		AlunoSvc:       aluno.NewService(inmemdb.NewAlunoRepository(db), turmaRepo),
		AvaliacaoSvc:   avaliacao.NewService(avaliacaoRepo),
		DescritorSvc:   descritor.NewService(descritorRepo),
		GabaritoSvc:    gabarito.NewService(inmemdb.NewGabaritoRepository(db), avaliacaoRepo, descritorRepo),
		UsuarioSvc:     usuario.NewService(usuarioRepo, escolaRepo, emailsvc.NewConsoleServiceMock(conf, logger)),
		DisableReqLogs: true,
	})
	srv := httptest.NewServer(app)
	t.Cleanup(srv.Close)

	testutil.CreateUsuario(t, usuarioRepo, "Ana Souza", "ana@smaipa.test", usuario.RoleSecretaria, "")

	ctx := context.Background()
	anon, err := New(srv.URL + "/api")
	require.NoError(t, err)
	resp, err := anon.Login(ctx, "ana@smaipa.test", testutil.Senha)
	require.NoError(t, err)

	c, err := New(srv.URL+"/api", WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: resp.Token})))
	require.NoError(t, err)
	return c
}

func TestRoundTrip(t *testing.T) {
	c := newAPI(t)
	ctx := context.Background()

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, usuario.RoleSecretaria, me.Role)

	esc, err := c.Escolas.Create(ctx, escola.NewEscola{Nome: "Escola Paulo Freire", Inep: "11112222"})
	require.NoError(t, err)

	got, err := c.Escolas.Get(ctx, esc.ID)
	require.NoError(t, err)
	assert.Equal(t, esc, got)

	tu, err := c.Turmas.Create(ctx, turma.NewTurma{Nome: "6A", Ano: "2024", Turno: turma.TurnoMatutino, EscolaID: esc.ID})
	require.NoError(t, err)

	turmas, err := c.Turmas.ListByEscola(ctx, esc.ID)
	require.NoError(t, err)
	assert.Equal(t, []turma.Turma{tu}, turmas)

	nome := "6B"
	tu, err = c.Turmas.Update(ctx, tu.ID, turma.UpdateTurma{Nome: &nome})
	require.NoError(t, err)
	assert.Equal(t, "6B", tu.Nome)
	assert.Equal(t, "2024", tu.Ano)

	// still referenced by the turma
	err = c.Escolas.Delete(ctx, esc.ID)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 409, apiErr.StatusCode)

	require.NoError(t, c.Turmas.Delete(ctx, tu.ID))
	require.NoError(t, c.Escolas.Delete(ctx, esc.ID))

	_, err = c.Escolas.Get(ctx, esc.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoginFailure(t *testing.T) {
	c := newAPI(t)

	_, err := c.Login(context.Background(), "ana@smaipa.test", "errada")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 401, apiErr.StatusCode)
	assert.Equal(t, "e-mail ou senha inválidos", apiErr.Message)
}
