package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/peterkuimelis/lendas/internal/ai"
	"github.com/peterkuimelis/lendas/internal/catalog"
	"github.com/peterkuimelis/lendas/internal/config"
	"github.com/peterkuimelis/lendas/internal/game"
	"github.com/peterkuimelis/lendas/internal/log"
	lendasnet "github.com/peterkuimelis/lendas/internal/net"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "host":
		err = runHost(ctx, os.Args[2:])
	case "join":
		err = runJoin(ctx, os.Args[2:])
	case "sim":
		err = runSim(ctx, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  lendas host [--deck N] [--addr ADDR] [--ai-side p1|p2|none] [--seed S]")
	fmt.Println("  lendas join [--deck N] [--addr ADDR]")
	fmt.Println("  lendas sim  [--games N] [--max-turns T] [--seed S] [--quiet]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  host    Start a duel server; the joiner plays the AI, or you with --ai-side none")
	fmt.Println("  join    Connect to a duel server and play from this terminal")
	fmt.Println("  sim     Play AI against AI with the starter decks")
	fmt.Println()
	fmt.Println("Every command also takes --config, --log-level, --log-format, --cards and --decks.")
}

// setup parses args and loads configuration, logger and catalog.
func setup(flags *pflag.FlagSet, args []string) (*config.Config, *zap.Logger, *catalog.Catalog, error) {
	config.RegisterFlags(flags)
	if err := flags.Parse(args); err != nil {
		return nil, nil, nil, err
	}
	cfg, err := config.Load(flags)
	if err != nil {
		return nil, nil, nil, err
	}
	z, err := cfg.NewLogger()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build logger: %w", err)
	}
	cat, err := catalog.Load(cfg.Catalog.Cards, cfg.Catalog.Decks)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	return cfg, z, cat, nil
}

func runHost(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("host", pflag.ExitOnError)
	deck := flags.Int("deck", 1, "host's deck number when playing without AI")
	flags.String("addr", ":9999", "TCP address to listen on")
	flags.Int("safety-bound", game.DefaultSafetyBound, "max AI actions per turn")

	cfg, z, cat, err := setup(flags, args)
	if err != nil {
		return err
	}
	defer z.Sync()

	side, err := cfg.Duel.Side()
	if err != nil {
		return err
	}
	srv := &lendasnet.Server{
		Addr:        cfg.Server.TCPAddr,
		Catalog:     cat,
		HostDeck:    *deck,
		Seed:        cfg.Duel.Seed,
		AISide:      side,
		SafetyBound: cfg.Duel.SafetyBound,
		Logger:      z,
	}
	if side != game.NoPlayer {
		srv.AI = ai.New()
	}
	return srv.Run(ctx)
}

func runJoin(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("join", pflag.ExitOnError)
	deck := flags.Int("deck", 0, "deck number to use (default: server's choice)")
	flags.String("addr", ":9999", "server address to connect to")

	cfg, z, _, err := setup(flags, args)
	if err != nil {
		return err
	}
	defer z.Sync()

	return lendasnet.Connect(ctx, cfg.Server.TCPAddr, *deck)
}

func runSim(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("sim", pflag.ExitOnError)
	games := flags.Int("games", 1, "number of duels to play")
	quiet := flags.Bool("quiet", false, "print results only")
	flags.Int("max-turns", 200, "turn limit per duel")
	flags.Int("safety-bound", game.DefaultSafetyBound, "max actions per turn")

	cfg, z, cat, err := setup(flags, args)
	if err != nil {
		return err
	}
	defer z.Sync()

	controller := ai.New()
	var wins [2]int
	var unfinished int
	for g := range *games {
		seed := cfg.Duel.Seed
		if seed != 0 {
			seed += uint64(g)
		}
		s, err := game.NewBoardState(game.Setup{
			Catalog: cat,
			DeckA:   cat.StarterDeck(),
			DeckB:   cat.StarterDeckAI(),
			Seed:    seed,
		})
		if err != nil {
			return err
		}

		var events log.EventLogger = log.NewZapLogger(z)
		if !*quiet {
			events = log.NewTextLogger(os.Stdout)
		}
		onStep := func(out game.Outcome) {
			for _, e := range out.Events {
				events.Log(e)
			}
		}

		final, err := game.Simulate(ctx, s, [2]game.Chooser{controller, controller},
			cfg.Duel.SafetyBound, cfg.Duel.MaxTurns, onStep)
		if err != nil {
			return fmt.Errorf("duel %d: %w", g+1, err)
		}
		if final.Over() {
			wins[final.Winner]++
		} else {
			unfinished++
		}
		fmt.Printf("Duel %d: %s\n", g+1, lendasnet.ResultText(final))
	}

	if *games > 1 {
		fmt.Printf("\nP1 %d  P2 %d  unfinished %d\n", wins[0], wins[1], unfinished)
	}
	return nil
}
