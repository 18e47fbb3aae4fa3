package turma

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/smaipa/smaipa/core"
)

type Turno string

// Turnos
const (
	TurnoMatutino   Turno = "matutino"
	TurnoVespertino Turno = "vespertino"
	TurnoNoturno    Turno = "noturno"
	TurnoIntegral   Turno = "integral"
)

var (
	Turnos = []Turno{TurnoMatutino, TurnoVespertino, TurnoNoturno, TurnoIntegral}

	turnoLabels = map[Turno]string{
		TurnoMatutino:   "Matutino",
		TurnoVespertino: "Vespertino",
		TurnoNoturno:    "Noturno",
		TurnoIntegral:   "Integral",
	}

	OrderingFields = core.OrderingFields{
		"nome":      "nome",
		"ano":       "ano",
		"turno":     "turno",
		"createdAt": "created_at",
	}
)

func (t Turno) IsValid() bool {
	_, ok := turnoLabels[t]
	return ok
}

func LookupTurnoLabel(t Turno) (string, bool) {
	label, ok := turnoLabels[t]
	return label, ok
}

// TurnoLabel returns the human label of t ("matutino" -> "Matutino").
func TurnoLabel(t Turno) string {
	if label, ok := LookupTurnoLabel(t); ok {
		return label
	}
	return core.UnknownLabel(string(t))
}

type Turma struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	Ano       string    `json:"ano"`
	Turno     Turno     `json:"turno"`
	EscolaID  string    `json:"escolaId"`
	CreatedAt time.Time `json:"createdAt"` // UTC
	UpdatedAt time.Time `json:"updatedAt"` // UTC
}

// Descricao renders the ano and turno of the turma, e.g. "2024 - Matutino".
func (t Turma) Descricao() string {
	return t.Ano + " - " + TurnoLabel(t.Turno)
}

// Summary is the short form of a Turma nested in alunos.
type Summary struct {
	ID    string `json:"id"`
	Nome  string `json:"nome"`
	Ano   string `json:"ano"`
	Turno Turno  `json:"turno"`
}

func (t Turma) Summary() *Summary {
	return &Summary{ID: t.ID, Nome: t.Nome, Ano: t.Ano, Turno: t.Turno}
}

// NewTurma contains information needed to create a new Turma.
type NewTurma struct {
	Nome     string `json:"nome" validate:"notblank,max=100"`
	Ano      string `json:"ano" validate:"required,numeric,len=4"`
	Turno    Turno  `json:"turno" validate:"required,turno"`
	EscolaID string `json:"escolaId" validate:"required,uuid"`
}

func (nt *NewTurma) Validate(validate *validator.Validate) error {
	nt.Nome = core.CleanString(nt.Nome)
	nt.Ano = core.CleanString(nt.Ano)
	nt.Turno = Turno(core.CleanString(string(nt.Turno), true /* lower */))
	nt.EscolaID = core.CleanString(nt.EscolaID)
	return validate.Struct(nt)
}

// UpdateTurma defines what information may be provided to modify an existing Turma.
type UpdateTurma struct {
	Nome     *string `json:"nome,omitempty" validate:"omitempty,notblank,max=100"`
	Ano      *string `json:"ano,omitempty" validate:"omitempty,numeric,len=4"`
	Turno    *Turno  `json:"turno,omitempty" validate:"omitempty,turno"`
	EscolaID *string `json:"escolaId,omitempty" validate:"omitempty,uuid"`
}

func (ut *UpdateTurma) Validate(validate *validator.Validate) error {
	ut.Nome = core.CleanStringPtr(ut.Nome)
	ut.Ano = core.CleanStringPtr(ut.Ano)
	ut.EscolaID = core.CleanStringPtr(ut.EscolaID)
	if ut.Turno != nil {
		turno := Turno(core.CleanString(string(*ut.Turno), true /* lower */))
		ut.Turno = &turno
	}
	return validate.Struct(ut)
}

func (ut UpdateTurma) Apply(t Turma) Turma {
	if ut.Nome != nil {
		t.Nome = *ut.Nome
	}
	if ut.Ano != nil {
		t.Ano = *ut.Ano
	}
	if ut.Turno != nil {
		t.Turno = *ut.Turno
	}
	if ut.EscolaID != nil {
		t.EscolaID = *ut.EscolaID
	}
	return t
}

type QueryFilter struct {
	Search   string `query:"search"`
	EscolaID string `query:"escolaId"`
	Turno    Turno  `query:"turno"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.EscolaID = core.CleanString(qf.EscolaID)
	qf.Turno = Turno(core.CleanString(string(qf.Turno), true /* lower */))
}

func (qf *QueryFilter) Matches(t Turma) bool {
	if qf == nil {
		return true
	}
	if qf.EscolaID != "" && t.EscolaID != qf.EscolaID {
		return false
	}
	if qf.Turno != "" && t.Turno != qf.Turno {
		return false
	}
	return core.ContainsFolded(qf.Search, t.Nome, t.Ano)
}
