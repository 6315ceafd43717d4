package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"marketxi/internal/api"
	"marketxi/internal/common/config"
	"marketxi/internal/common/logger"
	"marketxi/internal/session"
	"marketxi/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger.Init("marketxi", cfg.Debug)

	store := session.NewFileStore(cfg.Session.TokenFile)
	sess := session.New(store)
	client := api.NewClient(cfg.API.BaseURL, sess)

	term := ui.NewTerm(os.Stdin, os.Stdout)
	shell := ui.NewShell(client, sess, term)
	shell.Run(ctx)
}
