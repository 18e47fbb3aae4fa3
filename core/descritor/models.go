package descritor

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/smaipa/smaipa/core"
)

// Tipo is stored verbatim in either of its two accepted shapes:
// "inicial"/"final" or "DIAGNOSTICA_INICIAL"/"DIAGNOSTICA_FINAL".
// Compare tipos through Fase.
type Tipo string

// Fase is the normalized form of a Tipo.
type Fase string

const (
	TipoInicial            Tipo = "inicial"
	TipoFinal              Tipo = "final"
	TipoDiagnosticaInicial Tipo = "DIAGNOSTICA_INICIAL"
	TipoDiagnosticaFinal   Tipo = "DIAGNOSTICA_FINAL"

	FaseInicial Fase = "inicial"
	FaseFinal   Fase = "final"
)

var (
	Tipos = []Tipo{TipoInicial, TipoFinal, TipoDiagnosticaInicial, TipoDiagnosticaFinal}

	fases = map[Tipo]Fase{
		TipoInicial:            FaseInicial,
		TipoFinal:              FaseFinal,
		TipoDiagnosticaInicial: FaseInicial,
		TipoDiagnosticaFinal:   FaseFinal,
	}
	faseLabels = map[Fase]string{
		FaseInicial: "Inicial",
		FaseFinal:   "Final",
	}

	OrderingFields = core.OrderingFields{
		"codigo":      "codigo",
		"disciplina":  "disciplina",
		"dataCriacao": "data_criacao",
	}
)

// Fase returns the normalized fase of t, or "" when t is unknown.
func (t Tipo) Fase() Fase {
	return fases[t]
}

func (t Tipo) IsValid() bool {
	_, ok := fases[t]
	return ok
}

func LookupTipoLabel(t Tipo) (string, bool) {
	label, ok := faseLabels[t.Fase()]
	return label, ok
}

func TipoLabel(t Tipo) string {
	if label, ok := LookupTipoLabel(t); ok {
		return label
	}
	return core.UnknownLabel(string(t))
}

type Descritor struct {
	ID              string          `json:"id"`
	Codigo          string          `json:"codigo"`
	Descricao       string          `json:"descricao"`
	Disciplina      core.Disciplina `json:"disciplina"`
	Tipo            Tipo            `json:"tipo"`
	DataCriacao     time.Time       `json:"dataCriacao"`     // UTC
	DataAtualizacao time.Time       `json:"dataAtualizacao"` // UTC
}

// Summary is the short form of a Descritor nested in gabarito itens.
type Summary struct {
	ID        string `json:"id"`
	Codigo    string `json:"codigo"`
	Descricao string `json:"descricao"`
}

func (d Descritor) Summary() *Summary {
	return &Summary{ID: d.ID, Codigo: d.Codigo, Descricao: d.Descricao}
}

// NewDescritor contains information needed to create a new Descritor.
type NewDescritor struct {
	Codigo     string          `json:"codigo" validate:"notblank,max=20"`
	Descricao  string          `json:"descricao" validate:"notblank"`
	Disciplina core.Disciplina `json:"disciplina" validate:"required,disciplina"`
	Tipo       Tipo            `json:"tipo" validate:"required,descritor_tipo"`
}

func (nd *NewDescritor) Validate(validate *validator.Validate) error {
	nd.Codigo = core.CleanString(strings.ToUpper(nd.Codigo))
	nd.Descricao = core.CleanString(nd.Descricao)
	nd.Disciplina = core.Disciplina(core.CleanString(strings.ToUpper(string(nd.Disciplina))))
	nd.Tipo = Tipo(core.CleanString(string(nd.Tipo)))
	return validate.Struct(nd)
}

// UpdateDescritor defines what information may be provided to modify an existing Descritor.
type UpdateDescritor struct {
	Codigo     *string          `json:"codigo,omitempty" validate:"omitempty,notblank,max=20"`
	Descricao  *string          `json:"descricao,omitempty" validate:"omitempty,notblank"`
	Disciplina *core.Disciplina `json:"disciplina,omitempty" validate:"omitempty,disciplina"`
	Tipo       *Tipo            `json:"tipo,omitempty" validate:"omitempty,descritor_tipo"`
}

func (ud *UpdateDescritor) Validate(validate *validator.Validate) error {
	if ud.Codigo != nil {
		codigo := core.CleanString(strings.ToUpper(*ud.Codigo))
		ud.Codigo = &codigo
	}
	ud.Descricao = core.CleanStringPtr(ud.Descricao)
	if ud.Disciplina != nil {
		disc := core.Disciplina(core.CleanString(strings.ToUpper(string(*ud.Disciplina))))
		ud.Disciplina = &disc
	}
	return validate.Struct(ud)
}

func (ud UpdateDescritor) Apply(d Descritor) Descritor {
	if ud.Codigo != nil {
		d.Codigo = *ud.Codigo
	}
	if ud.Descricao != nil {
		d.Descricao = *ud.Descricao
	}
	if ud.Disciplina != nil {
		d.Disciplina = *ud.Disciplina
	}
	if ud.Tipo != nil {
		d.Tipo = *ud.Tipo
	}
	return d
}

// QueryFilter.Componente filters by disciplina; the API exposes it as /descritores/componente/:componente.
type QueryFilter struct {
	Search     string          `query:"search"`
	Componente core.Disciplina `query:"componente"`
	Fase       Fase            `query:"fase"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Componente = core.Disciplina(core.CleanString(strings.ToUpper(string(qf.Componente))))
	qf.Fase = Fase(core.CleanString(string(qf.Fase), true /* lower */))
}

func (qf *QueryFilter) Matches(d Descritor) bool {
	if qf == nil {
		return true
	}
	if qf.Componente != "" && d.Disciplina != qf.Componente {
		return false
	}
	if qf.Fase != "" && d.Tipo.Fase() != qf.Fase {
		return false
	}
	return core.ContainsFolded(qf.Search, d.Codigo, d.Descricao)
}

// Tipos returns the stored tipos matching fase f.
func (f Fase) Tipos() []string {
	tipos := make([]string, 0, 2)
	for _, t := range Tipos {
		if t.Fase() == f {
			tipos = append(tipos, string(t))
		}
	}
	return tipos
}
