package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smaipa/smaipa/core/avaliacao"
	"github.com/smaipa/smaipa/core/turma"
)

func turmas() []turma.Turma {
	return []turma.Turma{
		{ID: "t1", Nome: "6A", Ano: "2024", Turno: turma.TurnoMatutino},
		{ID: "t2", Nome: "7B", Ano: "2023", Turno: turma.TurnoVespertino},
	}
}

func TestRender(t *testing.T) {
	t.Run("loading shows only the indicator", func(t *testing.T) {
		lv := NewTurmaList(turmas())
		lv.IsLoading = true
		var buf bytes.Buffer
		require.NoError(t, lv.Render(&buf))
		assert.Equal(t, "Carregando...\n", buf.String())
	})

	t.Run("empty shows only the empty state", func(t *testing.T) {
		lv := NewTurmaList(nil)
		var buf bytes.Buffer
		require.NoError(t, lv.Render(&buf))
		assert.Equal(t, "Nenhuma turma cadastrada.\n", buf.String())
	})

	t.Run("rows", func(t *testing.T) {
		lv := NewTurmaList(turmas())
		var buf bytes.Buffer
		require.NoError(t, lv.Render(&buf))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, []string{"#", "Turma", "Ano", "/", "Turno"}, strings.Fields(lines[0]))
		assert.Contains(t, lines[1], "6A")
		assert.Contains(t, lines[1], "2024 - Matutino")
		assert.Contains(t, lines[2], "2023 - Vespertino")
		assert.NotContains(t, buf.String(), "Carregando")
	})

	t.Run("unknown avaliacao filter", func(t *testing.T) {
		lv := NewAvaliacaoList(nil, "arquivada")
		var buf bytes.Buffer
		err := lv.Render(&buf)
		assert.True(t, errors.Is(err, ErrUnknownFilter))
		assert.Empty(t, buf.String())
	})
}

func TestEdit(t *testing.T) {
	var edited []turma.Turma
	lv := NewTurmaList(turmas())
	lv.OnEdit = func(t turma.Turma) { edited = append(edited, t) }
	lv.Confirm = confirmerFunc(func(Confirmation) bool {
		t.Fatal("edit must not ask for confirmation")
		return false
	})

	require.NoError(t, lv.Edit(1))
	require.Len(t, edited, 1)
	assert.Equal(t, "t2", edited[0].ID)

	assert.True(t, errors.Is(lv.Edit(2), ErrNoSuchItem))
	assert.True(t, errors.Is(lv.Edit(-1), ErrNoSuchItem))
	assert.Len(t, edited, 1)
}

type confirmerFunc func(Confirmation) bool

func (f confirmerFunc) Confirm(_ context.Context, c Confirmation) (bool, error) {
	return f(c), nil
}

func TestDelete(t *testing.T) {
	errBoom := errors.New("boom")
	tests := []struct {
		name        string
		confirm     bool
		deleteErr   error
		wantOutcome Outcome
		wantCalls   int
		wantOutput  string
	}{
		{"confirmed", true, nil, OutcomeDeleted, 1, "✔ A turma \"6A\" excluído(a) com sucesso.\n"},
		{"cancelled", false, nil, OutcomeCancelled, 0, ""},
		{"failed", true, errBoom, OutcomeFailed, 1, "✖ Não foi possível excluir a turma \"6A\": boom\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				calls  int
				asked  Confirmation
				output bytes.Buffer
			)
			lv := NewTurmaList(turmas())
			lv.Notify = WriterNotifier{W: &output}
			lv.Confirm = confirmerFunc(func(c Confirmation) bool {
				asked = c
				return tt.confirm
			})
			lv.OnDelete = func(_ context.Context, item turma.Turma) error {
				calls++
				assert.Equal(t, "t1", item.ID)
				return tt.deleteErr
			}

			outcome, err := lv.Delete(context.Background(), 0)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutcome, outcome)
			assert.Equal(t, tt.wantCalls, calls)
			assert.Equal(t, tt.wantOutput, output.String())
			assert.True(t, asked.Destructive)
			assert.Equal(t, "Excluir", asked.ConfirmLabel)
			assert.Equal(t, "Cancelar", asked.CancelLabel)
		})
	}

	t.Run("without OnDelete", func(t *testing.T) {
		var output bytes.Buffer
		lv := NewTurmaList(turmas())
		lv.Notify = WriterNotifier{W: &output}
		lv.Confirm = AutoConfirmer(true)

		outcome, err := lv.Delete(context.Background(), 0)
		assert.ErrorIs(t, err, ErrReadOnly)
		assert.Equal(t, OutcomeCancelled, outcome)
		assert.Empty(t, output.String())
	})

	t.Run("bad index", func(t *testing.T) {
		lv := NewTurmaList(turmas())
		lv.Confirm = AutoConfirmer(true)
		_, err := lv.Delete(context.Background(), 5)
		assert.True(t, errors.Is(err, ErrNoSuchItem))
	})
}

func TestPromptConfirmer(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"s\n", true},
		{"SIM\n", true},
		{" s ", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"talvez\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var out bytes.Buffer
			pc := NewPromptConfirmer(strings.NewReader(tt.input), &out)
			got, err := pc.Confirm(context.Background(), deleteConfirmation("a turma \"6A\""))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "[s] Excluir  [n] Cancelar")
		})
	}
}

func TestAvaliacaoEmpty(t *testing.T) {
	tests := []struct {
		filtro  string
		want    string
		wantErr bool
	}{
		{"", "Não há avaliações cadastradas no sistema.", false},
		{avaliacao.FiltroTodas, "Não há avaliações cadastradas no sistema.", false},
		{"pendente", `Não há avaliações com status "Pendente".`, false},
		{"em_andamento", `Não há avaliações com status "Em andamento".`, false},
		{"finalizada", `Não há avaliações com status "Finalizada".`, false},
		{"cancelada", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.filtro, func(t *testing.T) {
			got, err := AvaliacaoEmpty{Filtro: tt.filtro}.Message()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownFilter))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "undefined")
		})
	}
}
