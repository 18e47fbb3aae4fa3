package client

import (
	"context"

	"github.com/smaipa/smaipa/core/aluno"
	"github.com/smaipa/smaipa/core/avaliacao"
	"github.com/smaipa/smaipa/core/descritor"
	"github.com/smaipa/smaipa/core/gabarito"
	"github.com/smaipa/smaipa/core/turma"
	"github.com/smaipa/smaipa/core/usuario"
)

type (
	TurmaResource struct {
		*Resource[turma.Turma, turma.NewTurma, turma.UpdateTurma]
	}

	AlunoResource struct {
		*Resource[aluno.Aluno, aluno.NewAluno, aluno.UpdateAluno]
	}

	AvaliacaoResource struct {
		*Resource[avaliacao.Avaliacao, avaliacao.NewAvaliacao, avaliacao.UpdateAvaliacao]
	}

	DescritorResource struct {
		*Resource[descritor.Descritor, descritor.NewDescritor, descritor.UpdateDescritor]
	}

	GabaritoResource struct {
		*Resource[gabarito.Gabarito, gabarito.NewGabarito, gabarito.UpdateGabarito]
	}

	UsuarioResource struct {
		*Resource[usuario.Usuario, usuario.NewUsuario, usuario.UpdateUsuario]
	}
)

func (r *TurmaResource) ListByEscola(ctx context.Context, escolaID string) ([]turma.Turma, error) {
	return r.ListBy(ctx, "escola", escolaID)
}

func (r *AlunoResource) ListByTurma(ctx context.Context, turmaID string) ([]aluno.Aluno, error) {
	return r.ListBy(ctx, "turma", turmaID)
}

// ListByStatus accepts avaliacao.FiltroTodas as "every status".
func (r *AvaliacaoResource) ListByStatus(ctx context.Context, status string) ([]avaliacao.Avaliacao, error) {
	return r.ListBy(ctx, "status", status)
}

func (r *DescritorResource) ListByComponente(ctx context.Context, componente string) ([]descritor.Descritor, error) {
	return r.ListBy(ctx, "componente", componente)
}

func (r *GabaritoResource) ListByAvaliacao(ctx context.Context, avaliacaoID string) ([]gabarito.Gabarito, error) {
	return r.ListBy(ctx, "avaliacao", avaliacaoID)
}

func (r *UsuarioResource) ListByEscola(ctx context.Context, escolaID string) ([]usuario.Usuario, error) {
	return r.ListBy(ctx, "escola", escolaID)
}
