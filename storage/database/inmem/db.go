// Package inmemdb implements the repositories on top of guarded maps.
package inmemdb

import (
	"sort"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/aluno"
	"github.com/smaipa/smaipa/core/avaliacao"
	"github.com/smaipa/smaipa/core/descritor"
	"github.com/smaipa/smaipa/core/escola"
	"github.com/smaipa/smaipa/core/gabarito"
	"github.com/smaipa/smaipa/core/turma"
	"github.com/smaipa/smaipa/core/usuario"
)

// DB holds every table behind a single lock so that references can be checked across tables.
type DB struct {
	mutex sync.RWMutex

	escolas     map[string]escola.Escola
	turmas      map[string]turma.Turma
	alunos      map[string]aluno.Aluno
	avaliacoes  map[string]avaliacao.Avaliacao
	descritores map[string]descritor.Descritor
	gabaritos   map[string]gabarito.Gabarito
	usuarios    map[string]usuario.Usuario
}

func Open() *DB {
	return &DB{
		escolas:     make(map[string]escola.Escola),
		turmas:      make(map[string]turma.Turma),
		alunos:      make(map[string]aluno.Aluno),
		avaliacoes:  make(map[string]avaliacao.Avaliacao),
		descritores: make(map[string]descritor.Descritor),
		gabaritos:   make(map[string]gabarito.Gabarito),
		usuarios:    make(map[string]usuario.Usuario),
	}
}

// sortKey extracts the value a record is ordered by.
type sortKey[T any] func(T) string

// timeKey is fixed width so that keys order like the instants they encode.
func timeKey(t time.Time) string { return t.UTC().Format(timeKeyLayout) }

const timeKeyLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sortRecords orders records by the JSON field orderings, comparing strings with pt-BR collation.
// keys[""] is the default ordering.
func sortRecords[T any](records []T, ordering []core.DBOrdering, keys map[string]sortKey[T], def []core.DBOrdering) {
	if len(ordering) == 0 {
		ordering = def
	}
	col := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
	sort.SliceStable(records, func(i, j int) bool {
		for _, ord := range ordering {
			key, ok := keys[ord.Field]
			if !ok {
				continue
			}
			c := col.CompareString(key(records[i]), key(records[j]))
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
}

func asc(field string) core.DBOrdering  { return core.DBOrdering{Field: field, Ascending: true} }
func desc(field string) core.DBOrdering { return core.DBOrdering{Field: field} }
