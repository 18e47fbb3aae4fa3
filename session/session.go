// Package session holds the authenticated usuario of the console front-end.
//
// A Session is built once after login and travels explicitly through a context.Context.
package session

import (
	"context"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/smaipa/smaipa/core/usuario"
)

// ErrNoSession is the panic value of MustFromContext outside a session scope.
var ErrNoSession = errors.New("session: no authenticated usuario in context")

type ctxKey struct{}

// Session is immutable.
type Session struct {
	token   string
	usuario usuario.Usuario
}

// New panics when token or the usuario ID is empty, or when an escola usuario has no escola.
func New(token string, u usuario.Usuario) *Session {
	vala.BeginValidation().Validate(
		vala.StringNotEmpty(token, "token"),
		vala.StringNotEmpty(u.ID, "usuario.ID"),
		escolaRule(u),
	).CheckAndPanic()

	return &Session{token: token, usuario: u}
}

func escolaRule(u usuario.Usuario) vala.Checker {
	return func() (bool, string) {
		if u.Role == usuario.RoleEscola && u.EscolaID == "" {
			return false, "usuario.EscolaID: escola usuarios must belong to an escola"
		}
		return true, ""
	}
}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}

// MustFromContext panics with ErrNoSession when ctx carries no Session.
func MustFromContext(ctx context.Context) *Session {
	s, ok := FromContext(ctx)
	if !ok {
		panic(ErrNoSession)
	}
	return s
}

func (s *Session) Usuario() usuario.Usuario { return s.usuario }
func (s *Session) Role() usuario.Role       { return s.usuario.Role }
func (s *Session) EscolaID() string         { return s.usuario.EscolaID }
func (s *Session) IsSecretaria() bool       { return s.usuario.Role == usuario.RoleSecretaria }

// CanAccessEscola mirrors the API scoping rule: secretaria reaches every escola.
func (s *Session) CanAccessEscola(escolaID string) bool {
	return s.IsSecretaria() || (escolaID != "" && s.usuario.EscolaID == escolaID)
}

// Token makes Session an oauth2.TokenSource for the API client.
func (s *Session) Token() (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: s.token, TokenType: "Bearer"}, nil
}
