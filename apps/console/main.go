package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/smaipa/smaipa/client"
	"github.com/smaipa/smaipa/core"
	logsvc "github.com/smaipa/smaipa/services/logger"
)

var readPasswordFunc = term.ReadPassword // mockable

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "CONSOLE : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)
	defer logger.Close()

	flags := flag.NewFlagSet("console", flag.ContinueOnError)
	baseURL := flags.String("url", conf.Client.BaseURL, "API base URL.")
	email := flags.String("email", os.Getenv("SMAIPA_EMAIL"), "Login e-mail. The password will be prompted next.")
	resource := flags.String("resource", "escolas", "Listing to open: "+strings.Join(resources, ", ")+".")
	filter := flags.String("status", "", "Avaliacao status filter (pendente, em_andamento, finalizada or todas).")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if *email == "" {
		flags.Usage()
		return 2
	}

	fmt.Print("Senha: ")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		logger.Error(fmt.Sprintf("reading password: %v", err), err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, api, err := login(ctx, *baseURL, *email, string(pwd),
		client.WithLogger(logger), client.WithHTTPClient(&http.Client{Timeout: conf.Client.Timeout}))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	a := newApp(os.Stdin, os.Stdout, logger)
	s, err := newScreen(a.deps(api), *resource, *filter)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if err := a.loop(ctx, s); err != nil {
		logger.Error(fmt.Sprintf("console: %v", err), err)
		return 1
	}
	return 0
}
