package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/peterkuimelis/lendas/internal/ai"
	"github.com/peterkuimelis/lendas/internal/catalog"
	"github.com/peterkuimelis/lendas/internal/config"
	"github.com/peterkuimelis/lendas/internal/game"
	"github.com/peterkuimelis/lendas/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("web", pflag.ExitOnError)
	config.RegisterFlags(flags)
	flags.String("http-addr", ":8080", "HTTP address to listen on")
	flags.String("static-dir", "", "directory with the browser client")
	flags.Duration("action-delay", 400*time.Millisecond, "pause before each AI turn")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	z, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer z.Sync()

	cat, err := catalog.Load(cfg.Catalog.Cards, cfg.Catalog.Decks)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	side, err := cfg.Duel.Side()
	if err != nil {
		return err
	}
	human := game.PlayerA
	if side == game.PlayerA {
		human = game.PlayerB
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := web.NewServer(web.Options{
		Catalog:     cat,
		AI:          ai.New(),
		HumanSide:   human,
		Seed:        cfg.Duel.Seed,
		SafetyBound: cfg.Duel.SafetyBound,
		ActionDelay: cfg.Server.ActionDelay,
		StaticDir:   cfg.Server.StaticDir,
		Logger:      z,
	})
	return srv.ListenAndServe(ctx, cfg.Server.HTTPAddr)
}
