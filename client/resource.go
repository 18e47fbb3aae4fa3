package client

import (
	"context"
	"net/http"
)

// Resource maps the CRUD operations of one API resource.
// T is the record, N the creation payload and P the patch payload.
type Resource[T, N, P any] struct {
	c    *Client
	name string
}

func newResource[T, N, P any](c *Client, name string) *Resource[T, N, P] {
	return &Resource[T, N, P]{c: c, name: name}
}

// List fetches GET /<resource>.
func (r *Resource[T, N, P]) List(ctx context.Context) ([]T, error) {
	var items []T
	if err := r.c.do(ctx, http.MethodGet, r.c.url(r.name), nil, &items, http.StatusOK); err != nil {
		return nil, err
	}
	return items, nil
}

// ListBy fetches GET /<resource>/<dimension>/<value>.
func (r *Resource[T, N, P]) ListBy(ctx context.Context, dimension, value string) ([]T, error) {
	var items []T
	if err := r.c.do(ctx, http.MethodGet, r.c.url(r.name, dimension, value), nil, &items, http.StatusOK); err != nil {
		return nil, err
	}
	return items, nil
}

// Get fetches one record. errors.Is(err, ErrNotFound) holds when it does not exist.
func (r *Resource[T, N, P]) Get(ctx context.Context, id string) (T, error) {
	var item T
	err := r.c.do(ctx, http.MethodGet, r.c.url(r.name, id), nil, &item, http.StatusOK)
	return item, err
}

// Create returns the record as stored by the server.
func (r *Resource[T, N, P]) Create(ctx context.Context, data N) (T, error) {
	var item T
	err := r.c.do(ctx, http.MethodPost, r.c.url(r.name), data, &item, http.StatusCreated)
	return item, err
}

// Update sends the patch; nil fields of P are left untouched by the server.
func (r *Resource[T, N, P]) Update(ctx context.Context, id string, patch P) (T, error) {
	var item T
	err := r.c.do(ctx, http.MethodPut, r.c.url(r.name, id), patch, &item, http.StatusOK)
	return item, err
}

// Delete succeeds only when the server answers 204.
func (r *Resource[T, N, P]) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, http.MethodDelete, r.c.url(r.name, id), nil, nil, http.StatusNoContent)
}
