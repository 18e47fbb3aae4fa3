package core

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Disciplina is the curricular subject shared by avaliações and descritores.
type Disciplina string

const (
	DisciplinaPortugues  Disciplina = "PORTUGUES"
	DisciplinaMatematica Disciplina = "MATEMATICA"
)

var (
	Disciplinas = []Disciplina{DisciplinaPortugues, DisciplinaMatematica}

	disciplinaLabels = map[Disciplina]string{
		DisciplinaPortugues:  "Língua Portuguesa",
		DisciplinaMatematica: "Matemática",
	}
)

func (d Disciplina) IsValid() bool {
	return slices.Contains(Disciplinas, d)
}

// LookupDisciplinaLabel returns the human label of d, or false if d is unknown.
func LookupDisciplinaLabel(d Disciplina) (string, bool) {
	label, ok := disciplinaLabels[d]
	return label, ok
}

// DisciplinaLabel never returns an empty string.
func DisciplinaLabel(d Disciplina) string {
	if label, ok := LookupDisciplinaLabel(d); ok {
		return label
	}
	return UnknownLabel(string(d))
}

// UnknownLabel is the placeholder label for values outside a closed enum.
func UnknownLabel(raw string) string {
	return fmt.Sprintf("Desconhecido (%q)", raw)
}
