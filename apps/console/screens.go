package main

import (
	"context"
	"fmt"
	"io"

	"github.com/smaipa/smaipa/client"
	"github.com/smaipa/smaipa/console"
	"github.com/smaipa/smaipa/core/aluno"
	"github.com/smaipa/smaipa/core/avaliacao"
	"github.com/smaipa/smaipa/core/descritor"
	"github.com/smaipa/smaipa/core/escola"
	"github.com/smaipa/smaipa/core/gabarito"
	"github.com/smaipa/smaipa/core/turma"
	"github.com/smaipa/smaipa/core/usuario"
)

var resources = []string{"escolas", "turmas", "alunos", "avaliacoes", "descritores", "gabaritos", "usuarios"}

type screenDeps struct {
	api     *client.Client
	out     io.Writer
	confirm console.Confirmer
	notify  console.Notifier
}

func newPage[T any](deps screenDeps, fetch func(context.Context) ([]T, error), build func([]T) *console.ListView[T], destroy func(context.Context, T) error) *page[T] {
	return &page[T]{
		fetch:   fetch,
		build:   build,
		destroy: destroy,
		out:     deps.out,
		confirm: deps.confirm,
		notify:  deps.notify,
	}
}

// newScreen returns the listing of resource. filter narrows avaliacoes by status.
func newScreen(deps screenDeps, resource, filter string) (screen, error) {
	api := deps.api
	switch resource {
	case "escolas":
		return newPage(deps, api.Escolas.List, console.NewEscolaList,
			func(ctx context.Context, e escola.Escola) error { return api.Escolas.Delete(ctx, e.ID) }), nil
	case "turmas":
		return newPage(deps, api.Turmas.List, console.NewTurmaList,
			func(ctx context.Context, t turma.Turma) error { return api.Turmas.Delete(ctx, t.ID) }), nil
	case "alunos":
		return newPage(deps, api.Alunos.List, console.NewAlunoList,
			func(ctx context.Context, a aluno.Aluno) error { return api.Alunos.Delete(ctx, a.ID) }), nil
	case "avaliacoes":
		fetch := api.Avaliacoes.List
		if filter != "" && filter != avaliacao.FiltroTodas {
			fetch = func(ctx context.Context) ([]avaliacao.Avaliacao, error) {
				return api.Avaliacoes.ListByStatus(ctx, filter)
			}
		}
		build := func(items []avaliacao.Avaliacao) *console.ListView[avaliacao.Avaliacao] {
			return console.NewAvaliacaoList(items, filter)
		}
		return newPage(deps, fetch, build,
			func(ctx context.Context, a avaliacao.Avaliacao) error { return api.Avaliacoes.Delete(ctx, a.ID) }), nil
	case "descritores":
		return newPage(deps, api.Descritores.List, console.NewDescritorList,
			func(ctx context.Context, d descritor.Descritor) error { return api.Descritores.Delete(ctx, d.ID) }), nil
	case "gabaritos":
		return newPage(deps, api.Gabaritos.List, console.NewGabaritoList,
			func(ctx context.Context, g gabarito.Gabarito) error { return api.Gabaritos.Delete(ctx, g.ID) }), nil
	case "usuarios":
		return newPage(deps, api.Usuarios.List, console.NewUsuarioList,
			func(ctx context.Context, u usuario.Usuario) error { return api.Usuarios.Delete(ctx, u.ID) }), nil
	default:
		return nil, fmt.Errorf("unknown resource %q", resource)
	}
}
