package gabarito

import (
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/descritor"
	"github.com/smaipa/smaipa/core/turma"
)

var (
	Respostas = []string{"A", "B", "C", "D", "E"}

	OrderingFields = core.OrderingFields{
		"turno":     "turno",
		"createdAt": "created_at",
	}
)

type (
	Gabarito struct {
		ID          string      `json:"id"`
		AvaliacaoID string      `json:"avaliacaoId"`
		Turno       turma.Turno `json:"turno"`
		Itens       []Item      `json:"itens"`
		CreatedAt   time.Time   `json:"createdAt"` // UTC
		UpdatedAt   time.Time   `json:"updatedAt"` // UTC
	}

	// Item is one question of a gabarito. Numero is 1-based.
	Item struct {
		Numero      int                `json:"numero"`
		Resposta    string             `json:"resposta"`
		DescritorID string             `json:"descritorId,omitempty"`
		Descritor   *descritor.Summary `json:"descritor,omitempty"`
	}
)

// SortItens orders itens by numero.
func SortItens(itens []Item) {
	sort.SliceStable(itens, func(i, j int) bool { return itens[i].Numero < itens[j].Numero })
}

// DescritorIDs returns the distinct descritores referenced by the itens.
func (g Gabarito) DescritorIDs() []string {
	return descritorIDs(g.Itens)
}

func descritorIDs(itens []Item) []string {
	seen := make(map[string]bool, len(itens))
	ids := make([]string, 0, len(itens))
	for _, it := range itens {
		if it.DescritorID != "" && !seen[it.DescritorID] {
			seen[it.DescritorID] = true
			ids = append(ids, it.DescritorID)
		}
	}
	return ids
}

type NewItem struct {
	Numero      int    `json:"numero" validate:"required,gt=0"`
	Resposta    string `json:"resposta" validate:"required,resposta"`
	DescritorID string `json:"descritorId" validate:"omitempty,uuid"`
}

func cleanItens(itens []NewItem) {
	for i := range itens {
		itens[i].Resposta = core.CleanString(strings.ToUpper(itens[i].Resposta))
		itens[i].DescritorID = core.CleanString(itens[i].DescritorID)
	}
}

func toItens(newItens []NewItem) []Item {
	itens := make([]Item, 0, len(newItens))
	for _, ni := range newItens {
		itens = append(itens, Item{Numero: ni.Numero, Resposta: ni.Resposta, DescritorID: ni.DescritorID})
	}
	SortItens(itens)
	return itens
}

// NewGabarito contains information needed to create a new Gabarito.
type NewGabarito struct {
	AvaliacaoID string      `json:"avaliacaoId" validate:"required,uuid"`
	Turno       turma.Turno `json:"turno" validate:"required,turno"`
	Itens       []NewItem   `json:"itens" validate:"required,min=1,dive"`
}

func (ng *NewGabarito) Validate(validate *validator.Validate) error {
	ng.AvaliacaoID = core.CleanString(ng.AvaliacaoID)
	ng.Turno = turma.Turno(core.CleanString(string(ng.Turno), true /* lower */))
	cleanItens(ng.Itens)
	return validate.Struct(ng)
}

func (ng NewGabarito) ToItens() []Item { return toItens(ng.Itens) }

// UpdateGabarito defines what information may be provided to modify an existing Gabarito.
// A non-empty Itens replaces every item of the gabarito.
type UpdateGabarito struct {
	Turno *turma.Turno `json:"turno,omitempty" validate:"omitempty,turno"`
	Itens []NewItem    `json:"itens,omitempty" validate:"omitempty,dive"`
}

func (ug *UpdateGabarito) Validate(validate *validator.Validate) error {
	if ug.Turno != nil {
		turno := turma.Turno(core.CleanString(string(*ug.Turno), true /* lower */))
		ug.Turno = &turno
	}
	cleanItens(ug.Itens)
	return validate.Struct(ug)
}

func (ug UpdateGabarito) Apply(g Gabarito) Gabarito {
	if ug.Turno != nil {
		g.Turno = *ug.Turno
	}
	if len(ug.Itens) > 0 {
		g.Itens = toItens(ug.Itens)
	}
	return g
}

type QueryFilter struct {
	AvaliacaoID string      `query:"avaliacaoId"`
	Turno       turma.Turno `query:"turno"`
}

func (qf *QueryFilter) Clean() {
	qf.AvaliacaoID = core.CleanString(qf.AvaliacaoID)
	qf.Turno = turma.Turno(core.CleanString(string(qf.Turno), true /* lower */))
}

func (qf *QueryFilter) Matches(g Gabarito) bool {
	if qf == nil {
		return true
	}
	if qf.AvaliacaoID != "" && g.AvaliacaoID != qf.AvaliacaoID {
		return false
	}
	return qf.Turno == "" || g.Turno == qf.Turno
}
