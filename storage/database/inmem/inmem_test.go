package inmemdb_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/escola"
	"github.com/smaipa/smaipa/core/usuario"
	inmemdb "github.com/smaipa/smaipa/storage/database/inmem"
	testutil "github.com/smaipa/smaipa/tests"
)

func nomes(escolas []escola.Escola) []string {
	out := make([]string, 0, len(escolas))
	for _, e := range escolas {
		out = append(out, e.Nome)
	}
	return out
}

func TestQueryEscolasOrdering(t *testing.T) {
	db := inmemdb.Open()
	repo := inmemdb.NewEscolaRepository(db)
	ctx := context.Background()
	testutil.CreateEscola(t, repo, "Escola Zumbi", "11111111")
	testutil.CreateEscola(t, repo, "escola Ágape", "33333333")
	testutil.CreateEscola(t, repo, "Escola Bela Vista", "22222222")

	got, err := repo.QueryEscolas(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"escola Ágape", "Escola Bela Vista", "Escola Zumbi"}, nomes(got))

	got, err = repo.QueryEscolas(ctx, nil, []core.DBOrdering{{Field: "inep"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"escola Ágape", "Escola Bela Vista", "Escola Zumbi"}, nomes(got))

	got, err = repo.QueryEscolas(ctx, &escola.QueryFilter{Search: "agape"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"escola Ágape"}, nomes(got))
}

func TestQueryEscolasByCreatedAt(t *testing.T) {
	db := inmemdb.Open()
	repo := inmemdb.NewEscolaRepository(db)
	ctx := context.Background()
	base := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	for i, tt := range []struct {
		nome  string
		delta time.Duration
	}{
		{"Escola A", 0},
		{"Escola B", 120 * time.Millisecond},
		{"Escola C", 500 * time.Millisecond},
		{"Escola D", time.Second},
	} {
		at := base.Add(tt.delta)
		_, err := repo.CreateEscola(ctx, escola.Escola{Nome: tt.nome, Inep: fmt.Sprintf("1000000%d", i), CreatedAt: at, UpdatedAt: at})
		require.NoError(t, err)
	}

	got, err := repo.QueryEscolas(ctx, nil, []core.DBOrdering{{Field: "createdAt", Ascending: true}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Escola A", "Escola B", "Escola C", "Escola D"}, nomes(got))

	got, err = repo.QueryEscolas(ctx, nil, []core.DBOrdering{{Field: "createdAt"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Escola D", "Escola C", "Escola B", "Escola A"}, nomes(got))
}

func TestEscolaUniquenessAndConflicts(t *testing.T) {
	db := inmemdb.Open()
	escolaRepo := inmemdb.NewEscolaRepository(db)
	turmaRepo := inmemdb.NewTurmaRepository(db)
	usuarioRepo := inmemdb.NewUsuarioRepository(db)
	ctx := context.Background()

	alfa := testutil.CreateEscola(t, escolaRepo, "Escola Alfa", "11111111")
	beta := testutil.CreateEscola(t, escolaRepo, "Escola Beta", "22222222")

	assert.Equal(t, escola.ErrInepExists, escolaRepo.CheckInepUniqueness(ctx, "11111111", nil))
	assert.NoError(t, escolaRepo.CheckInepUniqueness(ctx, "11111111", []string{alfa.ID}))
	assert.NoError(t, escolaRepo.CheckInepUniqueness(ctx, "99999999", nil))

	tu := testutil.CreateTurma(t, turmaRepo, alfa.ID, "6A", "2024", "matutino")
	err := escolaRepo.DeleteEscolaByID(ctx, alfa.ID)
	assert.True(t, core.IsConflict(err))
	assert.EqualError(t, err, "o registro é referenciado por outros registros: escola possui turmas")

	testutil.CreateUsuario(t, usuarioRepo, "Bia Lima", "bia@smaipa.test", usuario.RoleEscola, beta.ID)
	err = escolaRepo.DeleteEscolaByID(ctx, beta.ID)
	assert.EqualError(t, err, "o registro é referenciado por outros registros: escola possui usuários")

	require.NoError(t, turmaRepo.DeleteTurmaByID(ctx, tu.ID))
	require.NoError(t, escolaRepo.DeleteEscolaByID(ctx, alfa.ID))
	_, err = escolaRepo.GetEscolaByID(ctx, alfa.ID)
	assert.True(t, core.IsNotFound(err))
	assert.True(t, core.IsNotFound(escolaRepo.DeleteEscolaByID(ctx, alfa.ID)))
}

func TestConcurrentCreates(t *testing.T) {
	db := inmemdb.Open()
	repo := inmemdb.NewEscolaRepository(db)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.CreateEscola(ctx, escola.Escola{Nome: fmt.Sprintf("Escola %02d", i), Inep: fmt.Sprintf("%08d", i)})
			assert.NoError(t, err)
			_, _ = repo.QueryEscolas(ctx, nil, nil)
		}(i)
	}
	wg.Wait()

	got, err := repo.QueryEscolas(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, got, 50)
	assert.Equal(t, "Escola 00", got[0].Nome)
	assert.Equal(t, "Escola 49", got[49].Nome)
}
