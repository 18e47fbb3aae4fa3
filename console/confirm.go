package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Confirmation describes a yes/no question. The confirm action is destructive, cancel is a no-op.
type Confirmation struct {
	Title        string
	Message      string
	ConfirmLabel string
	CancelLabel  string
	Destructive  bool
}

func deleteConfirmation(desc string) Confirmation {
	return Confirmation{
		Title:        "Confirmar exclusão",
		Message:      fmt.Sprintf("Deseja realmente excluir %s? Esta ação não pode ser desfeita.", desc),
		ConfirmLabel: "Excluir",
		CancelLabel:  "Cancelar",
		Destructive:  true,
	}
}

type Confirmer interface {
	Confirm(ctx context.Context, c Confirmation) (bool, error)
}

// AutoConfirmer answers every question with its own value.
type AutoConfirmer bool

func (a AutoConfirmer) Confirm(context.Context, Confirmation) (bool, error) {
	return bool(a), nil
}

// PromptConfirmer asks on Out and reads one line from In: `s` or `sim` confirms, anything else cancels.
type PromptConfirmer struct {
	In  *bufio.Reader
	Out io.Writer
}

func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	return &PromptConfirmer{In: br, Out: out}
}

func (p *PromptConfirmer) Confirm(ctx context.Context, c Confirmation) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(p.Out, "%s\n%s\n[s] %s  [n] %s: ", c.Title, c.Message, c.ConfirmLabel, c.CancelLabel)

	line, err := p.In.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, errors.Wrap(err, "reading answer")
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "sim":
		return true, nil
	default:
		return false, nil
	}
}
