package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Escola Pública", CleanString("  Escola Pública \n"))
	assert.Equal(t, "ana@smaipa.test", CleanString(" ANA@smaipa.test ", true))
	assert.Nil(t, CleanStringPtr(nil))

	s := " 6A "
	assert.Equal(t, "6a", *CleanStringPtr(&s, true))
	assert.Equal(t, " 6A ", s)
}

func TestContainsFolded(t *testing.T) {
	tests := []struct {
		term   string
		fields []string
		want   bool
	}{
		{term: "", fields: nil, want: true},
		{term: "  ", fields: []string{"x"}, want: true},
		{term: "conceicao", fields: []string{"Escola Nossa Senhora da Conceição"}, want: true},
		{term: "CONCEIÇÃO", fields: []string{"conceicao"}, want: true},
		{term: "mat", fields: []string{"Português", "Matemática"}, want: true},
		{term: "física", fields: []string{"Português", "Matemática"}, want: false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ContainsFolded(tt.term, tt.fields...), tt.term)
	}
}

func TestOrderingFields(t *testing.T) {
	of := OrderingFields{"nome": "nome", "createdAt": "created_at"}
	ordering := []DBOrdering{{Field: "createdAt"}, {Field: "lol", Ascending: true}, {Field: "nome", Ascending: true}}

	assert.Equal(t, []DBOrdering{{Field: "createdAt"}, {Field: "nome", Ascending: true}}, of.Allowed(ordering))
	cols := of.Columns(ordering)
	assert.Equal(t, []DBOrdering{{Field: "created_at"}, {Field: "nome", Ascending: true}}, cols)
	assert.Equal(t, "created_at DESC, nome ASC", OrderBy(cols))
}

func TestDisciplinaLabel(t *testing.T) {
	seen := make(map[string]Disciplina)
	for _, d := range Disciplinas {
		label, ok := LookupDisciplinaLabel(d)
		assert.True(t, ok, d)
		assert.NotEmpty(t, label, d)
		assert.NotContains(t, seen, label, "duplicate label")
		seen[label] = d
		assert.True(t, d.IsValid())
	}

	assert.Equal(t, "Matemática", DisciplinaLabel(DisciplinaMatematica))
	assert.False(t, Disciplina("matematica").IsValid())
	assert.Equal(t, `Desconhecido ("FISICA")`, DisciplinaLabel("FISICA"))
	assert.Equal(t, `Desconhecido ("")`, DisciplinaLabel(""))
}
