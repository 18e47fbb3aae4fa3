// Package client is the typed HTTP client of the SMAIPA REST API.
//
// Every call is exactly one round-trip: no retries, no caching.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/aluno"
	"github.com/smaipa/smaipa/core/avaliacao"
	"github.com/smaipa/smaipa/core/descritor"
	"github.com/smaipa/smaipa/core/escola"
	"github.com/smaipa/smaipa/core/gabarito"
	"github.com/smaipa/smaipa/core/turma"
	"github.com/smaipa/smaipa/core/usuario"
)

const defaultTimeout = 30 * time.Second

type (
	Client struct {
		baseURL *url.URL
		http    *http.Client
		tokens  oauth2.TokenSource
		logger  core.Logger

		Escolas     *Resource[escola.Escola, escola.NewEscola, escola.UpdateEscola]
		Turmas      *TurmaResource
		Alunos      *AlunoResource
		Avaliacoes  *AvaliacaoResource
		Descritores *DescritorResource
		Gabaritos   *GabaritoResource
		Usuarios    *UsuarioResource
	}

	Option func(c *Client)
)

// WithHTTPClient replaces the default *http.Client (30s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenSource makes every request carry the bearer token returned by ts.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithLogger(logger core.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New returns a Client for the API rooted at baseURL, e.g. http://localhost:8000/api.
func New(baseURL string, opts ...Option) (*Client, error) {
	if err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(baseURL, "baseURL"),
	).Check(); err != nil {
		return nil, err
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parsing baseURL")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("invalid baseURL %q", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Escolas = newResource[escola.Escola, escola.NewEscola, escola.UpdateEscola](c, "escolas")
	c.Turmas = &TurmaResource{newResource[turma.Turma, turma.NewTurma, turma.UpdateTurma](c, "turmas")}
	c.Alunos = &AlunoResource{newResource[aluno.Aluno, aluno.NewAluno, aluno.UpdateAluno](c, "alunos")}
	c.Avaliacoes = &AvaliacaoResource{newResource[avaliacao.Avaliacao, avaliacao.NewAvaliacao, avaliacao.UpdateAvaliacao](c, "avaliacoes")}
	c.Descritores = &DescritorResource{newResource[descritor.Descritor, descritor.NewDescritor, descritor.UpdateDescritor](c, "descritores")}
	c.Gabaritos = &GabaritoResource{newResource[gabarito.Gabarito, gabarito.NewGabarito, gabarito.UpdateGabarito](c, "gabaritos")}
	c.Usuarios = &UsuarioResource{newResource[usuario.Usuario, usuario.NewUsuario, usuario.UpdateUsuario](c, "usuarios")}
	return c, nil
}

func (c *Client) url(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.baseURL.String() + "/" + strings.Join(escaped, "/")
}

// do sends one request and decodes the response into out (if not nil).
// Any status other than wantStatus yields an *APIError.
func (c *Client) do(ctx context.Context, method, endpoint string, in, out interface{}, wantStatus int) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			return errors.Wrap(err, "getting token")
		}
		tok.SetAuthHeader(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		err = errors.Wrapf(err, "%s %s", method, endpoint)
		c.logError("request failed", err)
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "reading response body")
	}

	if resp.StatusCode != wantStatus {
		apiErr := newAPIError(resp.StatusCode, data)
		c.logError(fmt.Sprintf("%s %s: unexpected status %d", method, endpoint, resp.StatusCode), apiErr)
		return apiErr
	}
	if out != nil {
		if err = json.Unmarshal(data, out); err != nil {
			return errors.Wrap(err, "decoding response body")
		}
	}
	return nil
}

func (c *Client) logError(msg string, err error) {
	if c.logger != nil {
		c.logger.Error(msg, err)
	}
}
