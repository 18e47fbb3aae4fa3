package console

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/smaipa/smaipa/core/avaliacao"
)

// ErrUnknownFilter is returned for a status filter that has no label.
var ErrUnknownFilter = errors.New("filtro de avaliações desconhecido")

type EmptyState interface {
	Message() (string, error)
}

type StaticEmpty string

func (s StaticEmpty) Message() (string, error) { return string(s), nil }

// AvaliacaoEmpty explains an empty avaliações list for the selected status tab.
type AvaliacaoEmpty struct {
	Filtro string
}

func (e AvaliacaoEmpty) Message() (string, error) {
	filtro := strings.ToLower(strings.TrimSpace(e.Filtro))
	if filtro == "" || filtro == avaliacao.FiltroTodas {
		return "Não há avaliações cadastradas no sistema.", nil
	}
	label, ok := avaliacao.LookupStatusLabel(avaliacao.Status(filtro))
	if !ok {
		return "", errors.Wrapf(ErrUnknownFilter, "%q", e.Filtro)
	}
	return fmt.Sprintf(`Não há avaliações com status "%s".`, label), nil
}
