package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/smaipa/smaipa/client"
	"github.com/smaipa/smaipa/console"
	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/session"
)

const help = "comandos: e <n> mostrar | d <n> excluir | r recarregar | q sair"

// login authenticates against the API and returns a client acting on behalf of the session,
// together with a context carrying that session.
func login(ctx context.Context, baseURL, email, senha string, opts ...client.Option) (context.Context, *client.Client, error) {
	anon, err := client.New(baseURL, opts...)
	if err != nil {
		return ctx, nil, err
	}
	resp, err := anon.Login(ctx, email, senha)
	if err != nil {
		return ctx, nil, errors.Wrap(err, "logging in")
	}

	sess := session.New(resp.Token, resp.Usuario)
	api, err := client.New(baseURL, append(opts, client.WithTokenSource(sess))...)
	if err != nil {
		return ctx, nil, err
	}
	return session.NewContext(ctx, sess), api, nil
}

type app struct {
	in     *bufio.Reader
	out    io.Writer
	logger core.Logger
}

func newApp(in io.Reader, out io.Writer, logger core.Logger) *app {
	return &app{in: bufio.NewReader(in), out: out, logger: logger}
}

// deps shares the command input with the delete confirmation prompt.
func (a *app) deps(api *client.Client) screenDeps {
	return screenDeps{
		api:     api,
		out:     a.out,
		confirm: console.NewPromptConfirmer(a.in, a.out),
		notify:  console.WriterNotifier{W: a.out},
	}
}

// loop runs commands against s until `q` or the end of the input.
func (a *app) loop(ctx context.Context, s screen) error {
	sess := session.MustFromContext(ctx)
	fmt.Fprintf(a.out, "%s (%s)\n%s\n", sess.Usuario().Nome, sess.Usuario().Email, help)

	if err := s.refresh(ctx); err != nil {
		return err
	}

	for {
		fmt.Fprint(a.out, "> ")
		line, err := a.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return errors.Wrap(err, "reading command")
		}
		eof := err != nil

		fields := strings.Fields(line)
		if len(fields) == 0 {
			if eof {
				fmt.Fprintln(a.out)
				return nil
			}
			continue
		}

		switch cmd := fields[0]; cmd {
		case "q":
			return nil
		case "r":
			if err := s.refresh(ctx); err != nil {
				return err
			}
		case "e", "d":
			n, err := index(fields)
			if err != nil {
				fmt.Fprintln(a.out, err)
				break
			}
			if cmd == "e" {
				err = s.edit(n)
			} else {
				_, err = s.remove(ctx, n)
			}
			if errors.Is(err, console.ErrNoSuchItem) {
				fmt.Fprintln(a.out, err)
			} else if err != nil {
				return err
			}
		default:
			fmt.Fprintln(a.out, help)
		}

		if eof {
			return nil
		}
	}
}

// index parses the 1-based row number of an `e`/`d` command.
func index(fields []string) (int, error) {
	if len(fields) != 2 {
		return 0, fmt.Errorf("uso: %s <n>", fields[0])
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("número inválido: %q", fields[1])
	}
	return n - 1, nil
}
