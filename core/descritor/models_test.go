package descritor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smaipa/smaipa/core"
)

func TestTipo(t *testing.T) {
	tests := []struct {
		tipo  Tipo
		fase  Fase
		label string
	}{
		{TipoInicial, FaseInicial, "Inicial"},
		{TipoDiagnosticaInicial, FaseInicial, "Inicial"},
		{TipoFinal, FaseFinal, "Final"},
		{TipoDiagnosticaFinal, FaseFinal, "Final"},
	}
	for _, tt := range tests {
		assert.True(t, tt.tipo.IsValid(), tt.tipo)
		assert.Equal(t, tt.fase, tt.tipo.Fase(), tt.tipo)
		assert.Equal(t, tt.label, TipoLabel(tt.tipo), tt.tipo)
	}

	assert.False(t, Tipo("INICIAL").IsValid())
	assert.Equal(t, Fase(""), Tipo("lol").Fase())
	assert.Equal(t, `Desconhecido ("lol")`, TipoLabel("lol"))

	assert.Equal(t, []string{"inicial", "DIAGNOSTICA_INICIAL"}, FaseInicial.Tipos())
	assert.Equal(t, []string{"final", "DIAGNOSTICA_FINAL"}, FaseFinal.Tipos())
	assert.Empty(t, Fase("lol").Tipos())
}

func TestQueryFilter(t *testing.T) {
	d := Descritor{Codigo: "D01", Descricao: "Localizar informações explícitas", Disciplina: core.DisciplinaPortugues, Tipo: TipoDiagnosticaInicial}

	qf := QueryFilter{Search: "INFORMACOES", Componente: " portugues ", Fase: "Inicial"}
	qf.Clean()
	assert.Equal(t, core.DisciplinaPortugues, qf.Componente)
	assert.True(t, qf.Matches(d))

	assert.True(t, (&QueryFilter{Search: "d01"}).Matches(d))
	assert.False(t, (&QueryFilter{Fase: FaseFinal}).Matches(d))
	assert.False(t, (&QueryFilter{Componente: core.DisciplinaMatematica}).Matches(d))
}

func TestUpdateDescritorApply(t *testing.T) {
	d := Descritor{ID: "d1", Codigo: "D01", Descricao: "x", Disciplina: core.DisciplinaPortugues, Tipo: TipoInicial}
	tipo := TipoDiagnosticaFinal
	got := UpdateDescritor{Tipo: &tipo}.Apply(d)
	assert.Equal(t, TipoDiagnosticaFinal, got.Tipo)
	assert.Equal(t, "D01", got.Codigo)
	assert.Equal(t, &Summary{ID: "d1", Codigo: "D01", Descricao: "x"}, got.Summary())
}
