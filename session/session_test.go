package session

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/smaipa/smaipa/core/usuario"
)

var (
	secretaria = usuario.Usuario{ID: "u1", Nome: "Ana Souza", Role: usuario.RoleSecretaria}
	diretor    = usuario.Usuario{ID: "u2", Nome: "Bruno Lima", Role: usuario.RoleEscola, EscolaID: "e1"}
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		usuario   usuario.Usuario
		wantPanic bool
	}{
		{"secretaria", "tok", secretaria, false},
		{"escola", "tok", diretor, false},
		{"empty token", "", secretaria, true},
		{"empty usuario ID", "tok", usuario.Usuario{Role: usuario.RoleSecretaria}, true},
		{"escola without escolaId", "tok", usuario.Usuario{ID: "u3", Role: usuario.RoleEscola}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantPanic {
				assert.Panics(t, func() { New(tt.token, tt.usuario) })
			} else {
				assert.NotPanics(t, func() { New(tt.token, tt.usuario) })
			}
		})
	}
}

func TestContext(t *testing.T) {
	ctx := context.Background()

	_, ok := FromContext(ctx)
	assert.False(t, ok)
	assert.PanicsWithValue(t, ErrNoSession, func() { MustFromContext(ctx) })

	s := New("tok", diretor)
	ctx = NewContext(ctx, s)
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Same(t, s, MustFromContext(ctx))
}

func TestAccessors(t *testing.T) {
	sec := New("tok", secretaria)
	assert.True(t, sec.IsSecretaria())
	assert.True(t, sec.CanAccessEscola("e1"))
	assert.Equal(t, "", sec.EscolaID())

	dir := New("tok", diretor)
	assert.False(t, dir.IsSecretaria())
	assert.Equal(t, usuario.RoleEscola, dir.Role())
	assert.Equal(t, "e1", dir.EscolaID())
	assert.Equal(t, "Bruno Lima", dir.Usuario().Nome)
	assert.True(t, dir.CanAccessEscola("e1"))
	assert.False(t, dir.CanAccessEscola("e2"))
	assert.False(t, dir.CanAccessEscola(""))
}

func TestToken(t *testing.T) {
	var ts oauth2.TokenSource = New("tok", secretaria)
	tok, err := ts.Token()
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	tok.SetAuthHeader(req)
	assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
}
