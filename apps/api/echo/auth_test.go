package echoapi

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smaipa/smaipa/core/usuario"
	testutil "github.com/smaipa/smaipa/tests"
)

func TestLogin(t *testing.T) {
	env := setup(t)
	u := testutil.CreateUsuario(t, env.usuarioRepo, "Ana Souza", "ana@smaipa.test", usuario.RoleSecretaria, "")

	env.run(t, []httpTest{
		{
			name:     "bad password",
			method:   http.MethodPost,
			path:     "/api/auth/login",
			body:     []byte(`{"email": "ana@smaipa.test", "senha": "errada"}`),
			wantCode: http.StatusUnauthorized,
			wantData: marshallObj(t, httpErr{Error: "e-mail ou senha inválidos"}),
		},
		{
			name:     "unknown email",
			method:   http.MethodPost,
			path:     "/api/auth/login",
			body:     []byte(`{"email": "ninguem@smaipa.test", "senha": "` + testutil.Senha + `"}`),
			wantCode: http.StatusUnauthorized,
			wantData: marshallObj(t, httpErr{Error: "e-mail ou senha inválidos"}),
		},
		{
			name:     "missing fields",
			method:   http.MethodPost,
			path:     "/api/auth/login",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
		},
	})

	t.Run("ok", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/auth/login", "",
			[]byte(`{"email": " ANA@smaipa.test ", "senha": "`+testutil.Senha+`"}`))
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp LoginResponse
		decode(t, rec, &resp)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, u.ID, resp.Usuario.ID)
		assert.NotNil(t, resp.Usuario.LastLogin)

		rec = env.do(http.MethodGet, "/api/auth/me", resp.Token)
		assert.Equal(t, http.StatusOK, rec.Code)
		var me usuario.Usuario
		decode(t, rec, &me)
		assert.Equal(t, "ana@smaipa.test", me.Email)
		assert.NotContains(t, rec.Body.String(), "senha")
	})
}

func TestMe(t *testing.T) {
	env := setup(t)
	u := testutil.CreateUsuario(t, env.usuarioRepo, "Ana Souza", "ana@smaipa.test", usuario.RoleSecretaria, "")
	ghost := testutil.CreateUsuario(t, env.usuarioRepo, "Bruno Lima", "bruno@smaipa.test", usuario.RoleSecretaria, "")
	ghostToken := getToken(t, env.app, ghost)
	if err := env.usuarioRepo.DeleteUsuarioByID(context.Background(), ghost.ID); err != nil {
		t.Fatal(err)
	}

	env.run(t, []httpTest{
		{
			name:     "missing token",
			path:     "/api/auth/me",
			wantCode: http.StatusUnauthorized,
			wantData: marshallObj(t, errMissingToken),
		},
		{
			name:     "invalid token",
			path:     "/api/auth/me",
			token:    "not-a-token",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "deleted usuario",
			path:     "/api/auth/me",
			token:    ghostToken,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "ok",
			path:     "/api/auth/me",
			token:    getToken(t, env.app, u),
			wantCode: http.StatusOK,
			wantData: marshallObj(t, u),
		},
	})
}

func TestRefresh(t *testing.T) {
	env := setup(t)
	u := testutil.CreateUsuario(t, env.usuarioRepo, "Ana Souza", "ana@smaipa.test", usuario.RoleSecretaria, "")

	rec := env.do(http.MethodPost, "/api/auth/refresh", getToken(t, env.app, u))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp TokenResponse
	decode(t, rec, &resp)
	assert.NotEmpty(t, resp.Token)

	rec = env.do(http.MethodPost, "/api/auth/refresh", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPasswordReset(t *testing.T) {
	env := setup(t)
	u := testutil.CreateUsuario(t, env.usuarioRepo, "Ana Souza", "ana@smaipa.test", usuario.RoleSecretaria, "")
	conf := testutil.NewConfig()
	tokens := usuario.ResetTokens{SecretKey: conf.SecretKey, Timeout: conf.Server.PasswordResetTimeout}

	t.Run("request", func(t *testing.T) {
		env.mail.Reset()
		rec := env.do(http.MethodPost, "/api/auth/password-reset", "", []byte(`{"email": "ninguem@smaipa.test"}`))
		assert.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
		assert.Empty(t, env.mail.SentMessages())

		rec = env.do(http.MethodPost, "/api/auth/password-reset", "", []byte(`{"email": "invalido"}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = env.do(http.MethodPost, "/api/auth/password-reset", "", []byte(`{"email": " ANA@smaipa.test"}`))
		assert.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
		msgs := env.mail.SentMessages()
		if assert.Len(t, msgs, 1) {
			assert.Equal(t, u.Email, msgs[0].To[0].Address)
		}
	})

	token, err := tokens.Make(u)
	require.NoError(t, err)
	uid := usuario.EncodeUID(u)
	confirm := func(uid, token, senha string) []byte {
		return []byte(fmt.Sprintf(`{"uid": %q, "token": %q, "senha": %q}`, uid, token, senha))
	}

	env.run(t, []httpTest{
		{
			name:     "bad uid",
			method:   http.MethodPost,
			path:     "/api/auth/password-reset/confirm",
			body:     confirm("@@@", token, "Nov@Senha42"),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, httpErr{Error: usuario.ErrInvalidToken.Error()}),
		},
		{
			name:     "bad token",
			method:   http.MethodPost,
			path:     "/api/auth/password-reset/confirm",
			body:     confirm(uid, "HE4TS-sigsig", "Nov@Senha42"),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, httpErr{Error: usuario.ErrInvalidToken.Error()}),
		},
		{
			name:     "weak password",
			method:   http.MethodPost,
			path:     "/api/auth/password-reset/confirm",
			body:     confirm(uid, token, "12345678"),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"senha": "a senha não pode ser inteiramente numérica"}),
		},
		{
			name:     "missing fields",
			method:   http.MethodPost,
			path:     "/api/auth/password-reset/confirm",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
		},
	})

	t.Run("confirm", func(t *testing.T) {
		env.mail.Reset()
		rec := env.do(http.MethodPost, "/api/auth/password-reset/confirm", "", confirm(uid, token, "Nov@Senha42"))
		assert.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
		assert.Len(t, env.mail.SentMessages(), 1)

		rec = env.do(http.MethodPost, "/api/auth/login", "", []byte(`{"email": "ana@smaipa.test", "senha": "Nov@Senha42"}`))
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		// single use
		rec = env.do(http.MethodPost, "/api/auth/password-reset/confirm", "", confirm(uid, token, "Outr@Senha77"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
