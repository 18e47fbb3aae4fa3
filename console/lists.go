package console

import (
	"fmt"
	"strconv"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/aluno"
	"github.com/smaipa/smaipa/core/avaliacao"
	"github.com/smaipa/smaipa/core/descritor"
	"github.com/smaipa/smaipa/core/escola"
	"github.com/smaipa/smaipa/core/gabarito"
	"github.com/smaipa/smaipa/core/turma"
	"github.com/smaipa/smaipa/core/usuario"
)

const dateLayout = "02/01/2006"

func NewEscolaList(items []escola.Escola) *ListView[escola.Escola] {
	return &ListView[escola.Escola]{
		Items: items,
		Columns: []Column[escola.Escola]{
			{"Nome", func(e escola.Escola) string { return e.Nome }},
			{"INEP", func(e escola.Escola) string { return e.Inep }},
			{"Diretor(a)", func(e escola.Escola) string { return e.Diretor }},
			{"Telefone", func(e escola.Escola) string { return e.Telefone }},
		},
		Empty:    StaticEmpty("Nenhuma escola cadastrada."),
		Describe: func(e escola.Escola) string { return fmt.Sprintf("a escola %q", e.Nome) },
	}
}

// NewTurmaList shows the turma nome and its "<ano> - <turno>" description.
func NewTurmaList(items []turma.Turma) *ListView[turma.Turma] {
	return &ListView[turma.Turma]{
		Items: items,
		Columns: []Column[turma.Turma]{
			{"Turma", func(t turma.Turma) string { return t.Nome }},
			{"Ano / Turno", func(t turma.Turma) string { return t.Descricao() }},
		},
		Empty:    StaticEmpty("Nenhuma turma cadastrada."),
		Describe: func(t turma.Turma) string { return fmt.Sprintf("a turma %q", t.Nome) },
	}
}

func NewAlunoList(items []aluno.Aluno) *ListView[aluno.Aluno] {
	return &ListView[aluno.Aluno]{
		Items: items,
		Columns: []Column[aluno.Aluno]{
			{"Nome", func(a aluno.Aluno) string { return a.Nome }},
			{"Matrícula", func(a aluno.Aluno) string { return a.Matricula }},
			{"Turma", func(a aluno.Aluno) string {
				if a.Turma == nil {
					return "-"
				}
				return a.Turma.Nome
			}},
		},
		Empty:    StaticEmpty("Nenhum aluno cadastrado."),
		Describe: func(a aluno.Aluno) string { return fmt.Sprintf("o(a) aluno(a) %q", a.Nome) },
	}
}

// NewAvaliacaoList explains an empty list according to filtro, the selected status tab.
func NewAvaliacaoList(items []avaliacao.Avaliacao, filtro string) *ListView[avaliacao.Avaliacao] {
	return &ListView[avaliacao.Avaliacao]{
		Items: items,
		Columns: []Column[avaliacao.Avaliacao]{
			{"Nome", func(a avaliacao.Avaliacao) string { return a.Nome }},
			{"Disciplina", func(a avaliacao.Avaliacao) string { return core.DisciplinaLabel(a.Disciplina) }},
			{"Tipo", func(a avaliacao.Avaliacao) string { return avaliacao.TipoLabel(a.Tipo) }},
			{"Status", func(a avaliacao.Avaliacao) string { return avaliacao.StatusLabel(a.Status) }},
			{"Aplicação", func(a avaliacao.Avaliacao) string {
				if a.DataAplicacao == nil {
					return "-"
				}
				return a.DataAplicacao.Format(dateLayout)
			}},
		},
		Empty:    AvaliacaoEmpty{Filtro: filtro},
		Describe: func(a avaliacao.Avaliacao) string { return fmt.Sprintf("a avaliação %q", a.Nome) },
	}
}

func NewDescritorList(items []descritor.Descritor) *ListView[descritor.Descritor] {
	return &ListView[descritor.Descritor]{
		Items: items,
		Columns: []Column[descritor.Descritor]{
			{"Código", func(d descritor.Descritor) string { return d.Codigo }},
			{"Descrição", func(d descritor.Descritor) string { return d.Descricao }},
			{"Disciplina", func(d descritor.Descritor) string { return core.DisciplinaLabel(d.Disciplina) }},
			{"Tipo", func(d descritor.Descritor) string { return descritor.TipoLabel(d.Tipo) }},
		},
		Empty:    StaticEmpty("Nenhum descritor cadastrado."),
		Describe: func(d descritor.Descritor) string { return fmt.Sprintf("o descritor %s", d.Codigo) },
	}
}

func NewGabaritoList(items []gabarito.Gabarito) *ListView[gabarito.Gabarito] {
	return &ListView[gabarito.Gabarito]{
		Items: items,
		Columns: []Column[gabarito.Gabarito]{
			{"Turno", func(g gabarito.Gabarito) string { return turma.TurnoLabel(g.Turno) }},
			{"Itens", func(g gabarito.Gabarito) string { return strconv.Itoa(len(g.Itens)) }},
			{"Criado em", func(g gabarito.Gabarito) string { return g.CreatedAt.Format(dateLayout) }},
		},
		Empty: StaticEmpty("Nenhum gabarito cadastrado."),
		Describe: func(g gabarito.Gabarito) string {
			return fmt.Sprintf("o gabarito do turno %s", turma.TurnoLabel(g.Turno))
		},
	}
}

func NewUsuarioList(items []usuario.Usuario) *ListView[usuario.Usuario] {
	return &ListView[usuario.Usuario]{
		Items: items,
		Columns: []Column[usuario.Usuario]{
			{"Nome", func(u usuario.Usuario) string { return u.Nome }},
			{"E-mail", func(u usuario.Usuario) string { return u.Email }},
			{"Perfil", func(u usuario.Usuario) string { return usuario.RoleLabel(u.Role) }},
			{"Escola", func(u usuario.Usuario) string {
				if u.Escola == nil {
					return "-"
				}
				return u.Escola.Nome
			}},
		},
		Empty:    StaticEmpty("Nenhum usuário cadastrado."),
		Describe: func(u usuario.Usuario) string { return fmt.Sprintf("o(a) usuário(a) %q", u.Nome) },
	}
}
