package avaliacao

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/smaipa/smaipa/core"
)

type (
	Status string
	Tipo   string
)

// Statuses
const (
	StatusPendente    Status = "pendente"
	StatusEmAndamento Status = "em_andamento"
	StatusFinalizada  Status = "finalizada"

	// FiltroTodas is the tab value meaning "no status filter".
	FiltroTodas = "todas"
)

// Tipos
const (
	TipoDiagnosticaInicial Tipo = "DIAGNOSTICA_INICIAL"
	TipoDiagnosticaFinal   Tipo = "DIAGNOSTICA_FINAL"
)

var (
	Statuses = []Status{StatusPendente, StatusEmAndamento, StatusFinalizada}
	Tipos    = []Tipo{TipoDiagnosticaInicial, TipoDiagnosticaFinal}

	statusLabels = map[Status]string{
		StatusPendente:    "Pendente",
		StatusEmAndamento: "Em andamento",
		StatusFinalizada:  "Finalizada",
	}
	tipoLabels = map[Tipo]string{
		TipoDiagnosticaInicial: "Diagnóstica inicial",
		TipoDiagnosticaFinal:   "Diagnóstica final",
	}

	OrderingFields = core.OrderingFields{
		"nome":          "nome",
		"ano":           "ano",
		"status":        "status",
		"dataAplicacao": "data_aplicacao",
		"createdAt":     "created_at",
	}
)

func (s Status) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (t Tipo) IsValid() bool {
	_, ok := tipoLabels[t]
	return ok
}

func LookupStatusLabel(s Status) (string, bool) {
	label, ok := statusLabels[s]
	return label, ok
}

func StatusLabel(s Status) string {
	if label, ok := LookupStatusLabel(s); ok {
		return label
	}
	return core.UnknownLabel(string(s))
}

func LookupTipoLabel(t Tipo) (string, bool) {
	label, ok := tipoLabels[t]
	return label, ok
}

func TipoLabel(t Tipo) string {
	if label, ok := LookupTipoLabel(t); ok {
		return label
	}
	return core.UnknownLabel(string(t))
}

type Avaliacao struct {
	ID            string          `json:"id"`
	Nome          string          `json:"nome"`
	Descricao     string          `json:"descricao"`
	Componente    string          `json:"componente"`
	Status        Status          `json:"status"`
	Tipo          Tipo            `json:"tipo"`
	Disciplina    core.Disciplina `json:"disciplina"`
	Ano           string          `json:"ano"`
	DataAplicacao *core.Date      `json:"dataAplicacao"`
	CreatedAt     time.Time       `json:"createdAt"` // UTC
	UpdatedAt     time.Time       `json:"updatedAt"` // UTC
}

// NewAvaliacao contains information needed to create a new Avaliacao. Status defaults to pendente.
type NewAvaliacao struct {
	Nome          string          `json:"nome" validate:"notblank,max=255"`
	Descricao     string          `json:"descricao"`
	Componente    string          `json:"componente" validate:"max=100"`
	Status        Status          `json:"status" validate:"omitempty,avaliacao_status"`
	Tipo          Tipo            `json:"tipo" validate:"required,avaliacao_tipo"`
	Disciplina    core.Disciplina `json:"disciplina" validate:"required,disciplina"`
	Ano           string          `json:"ano" validate:"required,numeric,len=4"`
	DataAplicacao *core.Date      `json:"dataAplicacao"`
}

func (na *NewAvaliacao) Validate(validate *validator.Validate) error {
	na.Nome = core.CleanString(na.Nome)
	na.Descricao = core.CleanString(na.Descricao)
	na.Componente = core.CleanString(na.Componente)
	na.Ano = core.CleanString(na.Ano)
	if na.Status == "" {
		na.Status = StatusPendente
	}
	return validate.Struct(na)
}

// UpdateAvaliacao defines what information may be provided to modify an existing Avaliacao.
type UpdateAvaliacao struct {
	Nome          *string          `json:"nome,omitempty" validate:"omitempty,notblank,max=255"`
	Descricao     *string          `json:"descricao,omitempty"`
	Componente    *string          `json:"componente,omitempty" validate:"omitempty,max=100"`
	Status        *Status          `json:"status,omitempty" validate:"omitempty,avaliacao_status"`
	Tipo          *Tipo            `json:"tipo,omitempty" validate:"omitempty,avaliacao_tipo"`
	Disciplina    *core.Disciplina `json:"disciplina,omitempty" validate:"omitempty,disciplina"`
	Ano           *string          `json:"ano,omitempty" validate:"omitempty,numeric,len=4"`
	DataAplicacao *core.Date       `json:"dataAplicacao,omitempty"`
}

func (ua *UpdateAvaliacao) Validate(validate *validator.Validate) error {
	ua.Nome = core.CleanStringPtr(ua.Nome)
	ua.Descricao = core.CleanStringPtr(ua.Descricao)
	ua.Componente = core.CleanStringPtr(ua.Componente)
	ua.Ano = core.CleanStringPtr(ua.Ano)
	return validate.Struct(ua)
}

func (ua UpdateAvaliacao) Apply(av Avaliacao) Avaliacao {
	if ua.Nome != nil {
		av.Nome = *ua.Nome
	}
	if ua.Descricao != nil {
		av.Descricao = *ua.Descricao
	}
	if ua.Componente != nil {
		av.Componente = *ua.Componente
	}
	if ua.Status != nil {
		av.Status = *ua.Status
	}
	if ua.Tipo != nil {
		av.Tipo = *ua.Tipo
	}
	if ua.Disciplina != nil {
		av.Disciplina = *ua.Disciplina
	}
	if ua.Ano != nil {
		av.Ano = *ua.Ano
	}
	if ua.DataAplicacao != nil {
		if ua.DataAplicacao.IsZero() {
			av.DataAplicacao = nil
		} else {
			data := *ua.DataAplicacao
			av.DataAplicacao = &data
		}
	}
	return av
}

type QueryFilter struct {
	Search     string          `query:"search"`
	Status     Status          `query:"status"`
	Disciplina core.Disciplina `query:"disciplina"`
	Ano        string          `query:"ano"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = Status(core.CleanString(string(qf.Status), true /* lower */))
	if qf.Status == FiltroTodas {
		qf.Status = ""
	}
	qf.Disciplina = core.Disciplina(core.CleanString(string(qf.Disciplina)))
	qf.Ano = core.CleanString(qf.Ano)
}

func (qf *QueryFilter) Matches(av Avaliacao) bool {
	if qf == nil {
		return true
	}
	if qf.Status != "" && av.Status != qf.Status {
		return false
	}
	if qf.Disciplina != "" && av.Disciplina != qf.Disciplina {
		return false
	}
	if qf.Ano != "" && av.Ano != qf.Ano {
		return false
	}
	return core.ContainsFolded(qf.Search, av.Nome, av.Descricao, av.Componente)
}
