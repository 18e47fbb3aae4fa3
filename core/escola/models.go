package escola

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/smaipa/smaipa/core"
)

var OrderingFields = core.OrderingFields{
	"nome":      "nome",
	"inep":      "inep",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type Escola struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	Inep      string    `json:"inep"`
	Endereco  string    `json:"endereco"`
	Telefone  string    `json:"telefone"`
	Diretor   string    `json:"diretor"`
	CreatedAt time.Time `json:"createdAt"` // UTC
	UpdatedAt time.Time `json:"updatedAt"` // UTC
}

// Summary is the short form of an Escola nested in other records.
type Summary struct {
	ID   string `json:"id"`
	Nome string `json:"nome"`
	Inep string `json:"inep,omitempty"`
}

func (e Escola) Summary() *Summary {
	return &Summary{ID: e.ID, Nome: e.Nome, Inep: e.Inep}
}

// NewEscola contains information needed to create a new Escola.
type NewEscola struct {
	Nome     string `json:"nome" validate:"notblank,max=255"`
	Inep     string `json:"inep" validate:"required,inep"`
	Endereco string `json:"endereco" validate:"max=255"`
	Telefone string `json:"telefone" validate:"max=30"`
	Diretor  string `json:"diretor" validate:"max=255"`
}

func (ne *NewEscola) Validate(validate *validator.Validate) error {
	ne.Nome = core.CleanString(ne.Nome)
	ne.Inep = core.CleanString(ne.Inep)
	ne.Endereco = core.CleanString(ne.Endereco)
	ne.Telefone = core.CleanString(ne.Telefone)
	ne.Diretor = core.CleanString(ne.Diretor)
	return validate.Struct(ne)
}

// UpdateEscola defines what information may be provided to modify an existing Escola.
// nil fields are left untouched.
type UpdateEscola struct {
	Nome     *string `json:"nome,omitempty" validate:"omitempty,notblank,max=255"`
	Inep     *string `json:"inep,omitempty" validate:"omitempty,inep"`
	Endereco *string `json:"endereco,omitempty" validate:"omitempty,max=255"`
	Telefone *string `json:"telefone,omitempty" validate:"omitempty,max=30"`
	Diretor  *string `json:"diretor,omitempty" validate:"omitempty,max=255"`
}

func (ue *UpdateEscola) Validate(validate *validator.Validate) error {
	ue.Nome = core.CleanStringPtr(ue.Nome)
	ue.Inep = core.CleanStringPtr(ue.Inep)
	ue.Endereco = core.CleanStringPtr(ue.Endereco)
	ue.Telefone = core.CleanStringPtr(ue.Telefone)
	ue.Diretor = core.CleanStringPtr(ue.Diretor)
	return validate.Struct(ue)
}

// Apply merges the patch into esc.
func (ue UpdateEscola) Apply(esc Escola) Escola {
	if ue.Nome != nil {
		esc.Nome = *ue.Nome
	}
	if ue.Inep != nil {
		esc.Inep = *ue.Inep
	}
	if ue.Endereco != nil {
		esc.Endereco = *ue.Endereco
	}
	if ue.Telefone != nil {
		esc.Telefone = *ue.Telefone
	}
	if ue.Diretor != nil {
		esc.Diretor = *ue.Diretor
	}
	return esc
}

type QueryFilter struct {
	Search string   `query:"search"`
	IDs    []string `query:"-"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

// Matches reports whether esc satisfies the filter. Search is case and accent insensitive.
func (qf *QueryFilter) Matches(esc Escola) bool {
	if qf == nil {
		return true
	}
	if qf.IDs != nil && !contains(qf.IDs, esc.ID) {
		return false
	}
	return core.ContainsFolded(qf.Search, esc.Nome, esc.Inep, esc.Diretor)
}

func contains(ids []string, id string) bool {
	for _, i := range ids {
		if i == id {
			return true
		}
	}
	return false
}
