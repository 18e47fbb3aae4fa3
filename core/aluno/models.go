package aluno

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/turma"
)

var OrderingFields = core.OrderingFields{
	"nome":      "nome",
	"matricula": "matricula",
	"createdAt": "created_at",
}

type Aluno struct {
	ID        string         `json:"id"`
	Nome      string         `json:"nome"`
	Matricula string         `json:"matricula"`
	TurmaID   string         `json:"turmaId"`
	Turma     *turma.Summary `json:"turma,omitempty"`
	CreatedAt time.Time      `json:"createdAt"` // UTC
	UpdatedAt time.Time      `json:"updatedAt"` // UTC
}

// NewAluno contains information needed to create a new Aluno.
type NewAluno struct {
	Nome      string `json:"nome" validate:"notblank,max=255"`
	Matricula string `json:"matricula" validate:"notblank,max=50"`
	TurmaID   string `json:"turmaId" validate:"required,uuid"`
}

func (na *NewAluno) Validate(validate *validator.Validate) error {
	na.Nome = core.CleanString(na.Nome)
	na.Matricula = core.CleanString(na.Matricula)
	na.TurmaID = core.CleanString(na.TurmaID)
	return validate.Struct(na)
}

// UpdateAluno defines what information may be provided to modify an existing Aluno.
type UpdateAluno struct {
	Nome      *string `json:"nome,omitempty" validate:"omitempty,notblank,max=255"`
	Matricula *string `json:"matricula,omitempty" validate:"omitempty,notblank,max=50"`
	TurmaID   *string `json:"turmaId,omitempty" validate:"omitempty,uuid"`
}

func (ua *UpdateAluno) Validate(validate *validator.Validate) error {
	ua.Nome = core.CleanStringPtr(ua.Nome)
	ua.Matricula = core.CleanStringPtr(ua.Matricula)
	ua.TurmaID = core.CleanStringPtr(ua.TurmaID)
	return validate.Struct(ua)
}

func (ua UpdateAluno) Apply(a Aluno) Aluno {
	if ua.Nome != nil {
		a.Nome = *ua.Nome
	}
	if ua.Matricula != nil {
		a.Matricula = *ua.Matricula
	}
	if ua.TurmaID != nil && *ua.TurmaID != a.TurmaID {
		a.TurmaID = *ua.TurmaID
		a.Turma = nil
	}
	return a
}

type QueryFilter struct {
	Search   string `query:"search"`
	TurmaID  string `query:"turmaId"`
	EscolaID string `query:"escolaId"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.TurmaID = core.CleanString(qf.TurmaID)
	qf.EscolaID = core.CleanString(qf.EscolaID)
}
