package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smaipa/smaipa/core/escola"
	"github.com/smaipa/smaipa/core/turma"
	"github.com/smaipa/smaipa/core/usuario"
	testutil "github.com/smaipa/smaipa/tests"
)

func TestEscolaQuery(t *testing.T) {
	env := setup(t)
	esc1 := testutil.CreateEscola(t, env.escolaRepo, "Escola Vinícius de Moraes", "12345678")
	esc2 := testutil.CreateEscola(t, env.escolaRepo, "Escola Anísio Teixeira", "87654321")
	sec := testutil.CreateUsuario(t, env.usuarioRepo, "Ana Souza", "ana@smaipa.test", usuario.RoleSecretaria, "")
	dir := testutil.CreateUsuario(t, env.usuarioRepo, "Bruno Lima", "bruno@smaipa.test", usuario.RoleEscola, esc1.ID)
	secToken := getToken(t, env.app, sec)
	dirToken := getToken(t, env.app, dir)

	env.run(t, []httpTest{
		{
			name:     "missing token",
			path:     "/api/escolas",
			wantCode: http.StatusUnauthorized,
			wantData: marshallObj(t, errMissingToken),
		},
		{
			name:     "secretaria sees all, ordered by nome",
			path:     "/api/escolas",
			token:    secToken,
			wantCode: http.StatusOK,
			wantData: marshallList(t, esc2, esc1),
		},
		{
			name:     "ordering",
			path:     "/api/escolas?ordering=-inep",
			token:    secToken,
			wantCode: http.StatusOK,
			wantData: marshallList(t, esc2, esc1),
		},
		{
			name:     "search is accent insensitive",
			path:     "/api/escolas?search=vinicius",
			token:    secToken,
			wantCode: http.StatusOK,
			wantData: marshallList(t, esc1),
		},
		{
			name:     "search without results",
			path:     "/api/escolas?search=nada",
			token:    secToken,
			wantCode: http.StatusOK,
			wantData: marshallList(t),
		},
		{
			name:     "escola usuario sees its own escola",
			path:     "/api/escolas",
			token:    dirToken,
			wantCode: http.StatusOK,
			wantData: marshallList(t, esc1),
		},
		{
			name:     "escola usuario cannot see other escolas",
			path:     "/api/escolas/" + esc2.ID,
			token:    dirToken,
			wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: "não encontrado"}),
		},
		{
			name:     "retrieve",
			path:     "/api/escolas/" + esc1.ID,
			token:    dirToken,
			wantCode: http.StatusOK,
			wantData: marshallObj(t, esc1),
		},
		{
			name:     "retrieve unknown",
			path:     "/api/escolas/0b1b2b3b-0000-4000-8000-000000000000",
			token:    secToken,
			wantCode: http.StatusNotFound,
		},
	})
}

func TestEscolaCreate(t *testing.T) {
	env := setup(t)
	existing := testutil.CreateEscola(t, env.escolaRepo, "Escola Anísio Teixeira", "87654321")
	sec := testutil.CreateUsuario(t, env.usuarioRepo, "Ana Souza", "ana@smaipa.test", usuario.RoleSecretaria, "")
	dir := testutil.CreateUsuario(t, env.usuarioRepo, "Bruno Lima", "bruno@smaipa.test", usuario.RoleEscola, existing.ID)
	secToken := getToken(t, env.app, sec)

	env.run(t, []httpTest{
		{
			name:     "escola usuario is forbidden",
			method:   http.MethodPost,
			path:     "/api/escolas",
			body:     []byte(`{"nome": "Nova", "inep": "11112222"}`),
			token:    getToken(t, env.app, dir),
			wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "permissão negada"}),
		},
		{
			name:     "blank nome",
			method:   http.MethodPost,
			path:     "/api/escolas",
			body:     []byte(`{"nome": "   ", "inep": "11112222"}`),
			token:    secToken,
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"nome": "este campo não pode ficar em branco"}),
		},
		{
			name:     "invalid inep",
			method:   http.MethodPost,
			path:     "/api/escolas",
			body:     []byte(`{"nome": "Nova", "inep": "1234"}`),
			token:    secToken,
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"inep": "o código INEP deve conter exatamente 8 dígitos"}),
		},
		{
			name:     "duplicate inep",
			method:   http.MethodPost,
			path:     "/api/escolas",
			body:     []byte(`{"nome": "Nova", "inep": "87654321"}`),
			token:    secToken,
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"inep": escola.ErrInepExists.Error()}),
		},
	})

	t.Run("ok", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/escolas", secToken,
			[]byte(`{"nome": "  Escola Paulo Freire ", "inep": "11112222", "diretor": "Carla"}`))
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var esc escola.Escola
		decode(t, rec, &esc)
		assert.NotEmpty(t, esc.ID)
		assert.Equal(t, "Escola Paulo Freire", esc.Nome)
		assert.Equal(t, "11112222", esc.Inep)
		assert.Equal(t, "Carla", esc.Diretor)
		assert.False(t, esc.CreatedAt.IsZero())

		rec = env.do(http.MethodGet, "/api/escolas/"+esc.ID, secToken)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestEscolaUpdate(t *testing.T) {
	env := setup(t)
	esc1 := testutil.CreateEscola(t, env.escolaRepo, "Escola Vinícius de Moraes", "12345678")
	testutil.CreateEscola(t, env.escolaRepo, "Escola Anísio Teixeira", "87654321")
	sec := testutil.CreateUsuario(t, env.usuarioRepo, "Ana Souza", "ana@smaipa.test", usuario.RoleSecretaria, "")
	secToken := getToken(t, env.app, sec)

	env.run(t, []httpTest{
		{
			name:     "duplicate inep",
			method:   http.MethodPut,
			path:     "/api/escolas/" + esc1.ID,
			body:     []byte(`{"inep": "87654321"}`),
			token:    secToken,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "same inep is allowed",
			method:   http.MethodPut,
			path:     "/api/escolas/" + esc1.ID,
			body:     []byte(`{"inep": "12345678"}`),
			token:    secToken,
			wantCode: http.StatusOK,
		},
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		rec := env.do(http.MethodPut, "/api/escolas/"+esc1.ID, secToken, []byte(`{"telefone": "(71) 3333-4444"}`))
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var esc escola.Escola
		decode(t, rec, &esc)
		assert.Equal(t, esc1.Nome, esc.Nome)
		assert.Equal(t, esc1.Inep, esc.Inep)
		assert.Equal(t, "(71) 3333-4444", esc.Telefone)
		assert.False(t, esc.UpdatedAt.Before(esc1.UpdatedAt))
	})
}

func TestEscolaDelete(t *testing.T) {
	env := setup(t)
	esc1 := testutil.CreateEscola(t, env.escolaRepo, "Escola Vinícius de Moraes", "12345678")
	esc2 := testutil.CreateEscola(t, env.escolaRepo, "Escola Anísio Teixeira", "87654321")
	testutil.CreateTurma(t, env.turmaRepo, esc1.ID, "6A", "2024", turma.TurnoMatutino)
	sec := testutil.CreateUsuario(t, env.usuarioRepo, "Ana Souza", "ana@smaipa.test", usuario.RoleSecretaria, "")
	secToken := getToken(t, env.app, sec)

	env.run(t, []httpTest{
		{
			name:     "referenced by turmas",
			method:   http.MethodDelete,
			path:     "/api/escolas/" + esc1.ID,
			token:    secToken,
			wantCode: http.StatusConflict,
			wantData: marshallObj(t, httpErr{Error: "o registro é referenciado por outros registros: escola possui turmas"}),
		},
		{
			name:     "ok",
			method:   http.MethodDelete,
			path:     "/api/escolas/" + esc2.ID,
			token:    secToken,
			wantCode: http.StatusNoContent,
		},
		{
			name:     "already deleted",
			method:   http.MethodDelete,
			path:     "/api/escolas/" + esc2.ID,
			token:    secToken,
			wantCode: http.StatusNotFound,
		},
	})
}
