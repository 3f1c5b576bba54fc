package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/pflag"

	"github.com/peterkuimelis/lendas/internal/ai"
	"github.com/peterkuimelis/lendas/internal/catalog"
	"github.com/peterkuimelis/lendas/internal/config"
	lendasmcp "github.com/peterkuimelis/lendas/internal/mcp"
)

func main() {
	flags := pflag.NewFlagSet("lendas-mcp", pflag.ExitOnError)
	config.RegisterFlags(flags)
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	// stdout carries the protocol; the zap development config writes to stderr.
	z, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer z.Sync()

	cat, err := catalog.Load(cfg.Catalog.Cards, cfg.Catalog.Decks)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tools := &lendasmcp.Tools{
		Catalog:     cat,
		AI:          ai.New(),
		Seed:        cfg.Duel.Seed,
		SafetyBound: cfg.Duel.SafetyBound,
		Logger:      z,
	}
	s := server.NewMCPServer("lendas", "1.0.0")
	tools.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
