package client

import (
	"context"
	"net/http"

	"github.com/smaipa/smaipa/core/usuario"
)

type (
	loginRequest struct {
		Email string `json:"email"`
		Senha string `json:"senha"`
	}

	LoginResponse struct {
		Token   string          `json:"token"`
		Usuario usuario.Usuario `json:"usuario"`
	}
)

// Login exchanges credentials for a token. It does not store the token: build a session from it.
func (c *Client) Login(ctx context.Context, email, senha string) (LoginResponse, error) {
	var resp LoginResponse
	err := c.do(ctx, http.MethodPost, c.url("auth", "login"), loginRequest{Email: email, Senha: senha}, &resp, http.StatusOK)
	return resp, err
}

// Me returns the usuario bearing the current token.
func (c *Client) Me(ctx context.Context) (usuario.Usuario, error) {
	var u usuario.Usuario
	err := c.do(ctx, http.MethodGet, c.url("auth", "me"), nil, &u, http.StatusOK)
	return u, err
}
