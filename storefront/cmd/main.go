package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fjod/go_storefront/pkg/logger"
	"github.com/fjod/go_storefront/storefront/internal/app"
	"github.com/fjod/go_storefront/storefront/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewWithWriter(os.Stderr, "storefront", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	in := bufio.NewScanner(os.Stdin)
	a, err := app.New(ctx, cfg, app.Dependencies{
		Sheet: &terminalSheet{in: in, out: os.Stdout},
	}, log)
	if err != nil {
		log.Error("failed to start storefront", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error("failed to close storefront", "error", err)
		}
	}()

	if err := a.Start(ctx); err != nil {
		log.Error("failed to load local state", "error", err)
		os.Exit(1)
	}

	sh := &shell{app: a, in: in, out: os.Stdout}
	sh.run(ctx)
}

type shell struct {
	app *app.App
	in  *bufio.Scanner
	out io.Writer
}

func (s *shell) run(ctx context.Context) {
	fmt.Fprintln(s.out, "storefront - type 'help' for commands")
	for {
		if u := s.app.Session.User(); u != nil {
			fmt.Fprintf(s.out, "[%s] > ", u.Email)
		} else {
			fmt.Fprint(s.out, "> ")
		}
		if !s.in.Scan() || ctx.Err() != nil {
			return
		}
		fields := strings.Fields(s.in.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return
		}
		if err := s.dispatch(ctx, fields[0], fields[1:]); err != nil {
			fmt.Fprintf(s.out, "error: %s\n", s.messageFor(err))
		}
	}
}
