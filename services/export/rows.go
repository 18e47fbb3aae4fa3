package exportsvc

import (
	"strconv"
	"time"

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

type (
	EscolaRow struct {
		ID       string `csv:"id"`
		Nome     string `csv:"nome"`
		Inep     string `csv:"inep"`
		Endereco string `csv:"endereco"`
		Telefone string `csv:"telefone"`
		Diretor  string `csv:"diretor"`
	}

	TurmaRow struct {
		ID       string `csv:"id"`
		Nome     string `csv:"nome"`
		Ano      string `csv:"ano"`
		Turno    string `csv:"turno"`
		EscolaID string `csv:"escola_id"`
	}

	AlunoRow struct {
		ID        string `csv:"id"`
		Nome      string `csv:"nome"`
		Matricula string `csv:"matricula"`
		Turma     string `csv:"turma"`
		TurmaID   string `csv:"turma_id"`
	}

	AvaliacaoRow struct {
		ID            string `csv:"id"`
		Nome          string `csv:"nome"`
		Disciplina    string `csv:"disciplina"`
		Tipo          string `csv:"tipo"`
		Status        string `csv:"status"`
		Ano           string `csv:"ano"`
		DataAplicacao string `csv:"data_aplicacao"`
	}

	DescritorRow struct {
		ID         string `csv:"id"`
		Codigo     string `csv:"codigo"`
		Descricao  string `csv:"descricao"`
		Disciplina string `csv:"disciplina"`
		Tipo       string `csv:"tipo"`
	}

	// GabaritoRow is one item of a gabarito.
	GabaritoRow struct {
		GabaritoID  string `csv:"gabarito_id"`
		AvaliacaoID string `csv:"avaliacao_id"`
		Turno       string `csv:"turno"`
		Numero      string `csv:"numero"`
		Resposta    string `csv:"resposta"`
		Descritor   string `csv:"descritor"`
	}

	UsuarioRow struct {
		ID        string `csv:"id"`
		Nome      string `csv:"nome"`
		Email     string `csv:"email"`
		Perfil    string `csv:"perfil"`
		Escola    string `csv:"escola"`
		LastLogin string `csv:"ultimo_acesso"`
	}
)

func EscolaRows(escolas []escola.Escola) []EscolaRow {
	rows := make([]EscolaRow, 0, len(escolas))
	for _, e := range escolas {
		rows = append(rows, EscolaRow{ID: e.ID, Nome: e.Nome, Inep: e.Inep, Endereco: e.Endereco, Telefone: e.Telefone, Diretor: e.Diretor})
	}
	return rows
}

func TurmaRows(turmas []turma.Turma) []TurmaRow {
	rows := make([]TurmaRow, 0, len(turmas))
	for _, t := range turmas {
		rows = append(rows, TurmaRow{ID: t.ID, Nome: t.Nome, Ano: t.Ano, Turno: turma.TurnoLabel(t.Turno), EscolaID: t.EscolaID})
	}
	return rows
}

func AlunoRows(alunos []aluno.Aluno) []AlunoRow {
	rows := make([]AlunoRow, 0, len(alunos))
	for _, a := range alunos {
		row := AlunoRow{ID: a.ID, Nome: a.Nome, Matricula: a.Matricula, TurmaID: a.TurmaID}
		if a.Turma != nil {
			row.Turma = a.Turma.Nome
		}
		rows = append(rows, row)
	}
	return rows
}

func AvaliacaoRows(avaliacoes []avaliacao.Avaliacao) []AvaliacaoRow {
	rows := make([]AvaliacaoRow, 0, len(avaliacoes))
	for _, av := range avaliacoes {
		row := AvaliacaoRow{
			ID:         av.ID,
			Nome:       av.Nome,
			Disciplina: core.DisciplinaLabel(av.Disciplina),
			Tipo:       avaliacao.TipoLabel(av.Tipo),
			Status:     avaliacao.StatusLabel(av.Status),
			Ano:        av.Ano,
		}
		if av.DataAplicacao != nil {
			row.DataAplicacao = av.DataAplicacao.Format(dateLayout)
		}
		rows = append(rows, row)
	}
	return rows
}

func DescritorRows(descritores []descritor.Descritor) []DescritorRow {
	rows := make([]DescritorRow, 0, len(descritores))
	for _, d := range descritores {
		rows = append(rows, DescritorRow{
			ID:         d.ID,
			Codigo:     d.Codigo,
			Descricao:  d.Descricao,
			Disciplina: core.DisciplinaLabel(d.Disciplina),
			Tipo:       descritor.TipoLabel(d.Tipo),
		})
	}
	return rows
}

func GabaritoRows(gabaritos []gabarito.Gabarito) []GabaritoRow {
	var rows []GabaritoRow
	for _, g := range gabaritos {
		for _, it := range g.Itens {
			row := GabaritoRow{
				GabaritoID:  g.ID,
				AvaliacaoID: g.AvaliacaoID,
				Turno:       turma.TurnoLabel(g.Turno),
				Numero:      strconv.Itoa(it.Numero),
				Resposta:    it.Resposta,
			}
			if it.Descritor != nil {
				row.Descritor = it.Descritor.Codigo
			}
			rows = append(rows, row)
		}
	}
	if rows == nil {
		rows = []GabaritoRow{}
	}
	return rows
}

func UsuarioRows(usuarios []usuario.Usuario) []UsuarioRow {
	rows := make([]UsuarioRow, 0, len(usuarios))
	for _, u := range usuarios {
		row := UsuarioRow{ID: u.ID, Nome: u.Nome, Email: u.Email, Perfil: usuario.RoleLabel(u.Role)}
		if u.Escola != nil {
			row.Escola = u.Escola.Nome
		}
		if u.LastLogin != nil {
			row.LastLogin = u.LastLogin.In(time.UTC).Format(time.RFC3339)
		}
		rows = append(rows, row)
	}
	return rows
}
