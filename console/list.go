// Package console renders entity lists on a terminal and drives their edit/delete interactions.
//
// Components never talk to the API: callers inject OnEdit/OnDelete and refetch afterwards.
package console

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
)

const loadingText = "Carregando..."

var (
	ErrNoSuchItem = errors.New("item inexistente")
	ErrReadOnly   = errors.New("esta lista não permite exclusões")
)

// Outcome of a delete interaction.
type Outcome int

const (
	OutcomeCancelled Outcome = iota
	OutcomeDeleted
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDeleted:
		return "deleted"
	case OutcomeFailed:
		return "failed"
	default:
		return "cancelled"
	}
}

type Column[T any] struct {
	Header string
	Value  func(T) string
}

type ListView[T any] struct {
	Items     []T
	Columns   []Column[T]
	IsLoading bool
	Empty     EmptyState

	OnEdit   func(item T)
	OnDelete func(ctx context.Context, item T) error

	Confirm Confirmer
	Notify  Notifier

	// Describe names an item in confirmations and notifications.
	Describe func(item T) string
}

// Render writes the loading indicator, the empty-state message or the table, exclusively.
func (lv *ListView[T]) Render(w io.Writer) error {
	if lv.IsLoading {
		_, err := fmt.Fprintln(w, loadingText)
		return err
	}
	if len(lv.Items) == 0 {
		empty := lv.Empty
		if empty == nil {
			empty = StaticEmpty("Nenhum registro encontrado.")
		}
		msg, err := empty.Message()
		if err != nil {
			return errors.Wrap(err, "rendering empty state")
		}
		_, err = fmt.Fprintln(w, msg)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	headers := make([]string, 0, len(lv.Columns)+1)
	headers = append(headers, "#")
	for _, col := range lv.Columns {
		headers = append(headers, col.Header)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for i, item := range lv.Items {
		cells := make([]string, 0, len(lv.Columns)+1)
		cells = append(cells, fmt.Sprint(i+1))
		for _, col := range lv.Columns {
			cells = append(cells, col.Value(item))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func (lv *ListView[T]) item(i int) (T, error) {
	if i < 0 || i >= len(lv.Items) {
		var zero T
		return zero, errors.Wrapf(ErrNoSuchItem, "índice %d", i+1)
	}
	return lv.Items[i], nil
}

func (lv *ListView[T]) describe(item T) string {
	if lv.Describe != nil {
		return lv.Describe(item)
	}
	return "o registro"
}

// Edit hands the i-th item (0-based) to OnEdit, without confirmation.
func (lv *ListView[T]) Edit(i int) error {
	item, err := lv.item(i)
	if err != nil {
		return err
	}
	if lv.OnEdit != nil {
		lv.OnEdit(item)
	}
	return nil
}

// Delete asks for confirmation before handing the i-th item (0-based) to OnDelete.
// A failing OnDelete is reported through Notify and yields OutcomeFailed with a nil error;
// the returned error only signals a bad index or a broken Confirmer.
func (lv *ListView[T]) Delete(ctx context.Context, i int) (Outcome, error) {
	item, err := lv.item(i)
	if err != nil {
		return OutcomeCancelled, err
	}
	if lv.OnDelete == nil {
		return OutcomeCancelled, ErrReadOnly
	}
	desc := lv.describe(item)

	confirm := lv.Confirm
	if confirm == nil {
		confirm = AutoConfirmer(false)
	}
	ok, err := confirm.Confirm(ctx, deleteConfirmation(desc))
	if err != nil {
		return OutcomeCancelled, errors.Wrap(err, "asking for confirmation")
	}
	if !ok {
		return OutcomeCancelled, nil
	}

	notify := lv.Notify
	if notify == nil {
		notify = nopNotifier{}
	}
	if err = lv.OnDelete(ctx, item); err != nil {
		notify.Error(fmt.Sprintf("Não foi possível excluir %s", desc), err)
		return OutcomeFailed, nil
	}
	notify.Success(fmt.Sprintf("%s excluído(a) com sucesso.", capitalize(desc)))
	return OutcomeDeleted, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
