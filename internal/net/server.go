package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net"

	"go.uber.org/zap"

	"github.com/peterkuimelis/lendas/internal/catalog"
	"github.com/peterkuimelis/lendas/internal/game"
	"github.com/peterkuimelis/lendas/internal/log"
)

// Server hosts a duel for one TCP client. With an AI the client plays against
// it; without one the host plays the first side from the local terminal.
type Server struct {
	Addr        string
	Catalog     *catalog.Catalog
	HostDeck    int // host's deck number (1-indexed), two-player mode only
	Seed        uint64
	AI          game.Chooser // nil for host against joiner
	AISide      game.PlayerID
	SafetyBound int
	Logger      *zap.Logger
}

func (s *Server) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Run listens, waits for a client to join, then runs the duel.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer ln.Close()

	z := s.logger()
	z.Info("waiting for opponent", zap.String("addr", ln.Addr().String()))

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	// Accept exactly one connection (the joiner)
	conn, err := ln.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("accept: %w", err)
	}
	defer conn.Close()
	z.Info("opponent connected", zap.Stringer("remote", conn.RemoteAddr()))

	return s.Serve(ctx, conn)
}

// Serve runs one duel over an accepted connection.
func (s *Server) Serve(ctx context.Context, conn net.Conn) error {
	z := s.logger()

	var join ClientMessage
	if err := json.NewDecoder(conn).Decode(&join); err != nil {
		return fmt.Errorf("read join message: %w", err)
	}
	if join.Type != MsgJoin {
		return fmt.Errorf("expected %s message, got %q", MsgJoin, join.Type)
	}

	cat := s.Catalog
	if cat == nil {
		cat = catalog.Default()
	}

	var seats [2]*NetworkController
	var decks [2][]string
	var hostConn net.Conn

	if s.AI != nil {
		if s.AISide != game.PlayerA && s.AISide != game.PlayerB {
			return fmt.Errorf("AI side must be %s or %s", game.PlayerA, game.PlayerB)
		}
		human := s.AISide.Opponent()
		name, ids, err := cat.DeckByNumber(defaultNumber(join.DeckNumber, 1))
		if err != nil {
			return fmt.Errorf("load joiner deck: %w", err)
		}
		decks[human] = ids
		decks[s.AISide] = cat.StarterDeckAI()
		seats[human] = NewNetworkController(conn, human)
		z.Info("duel against AI", zap.String("deck", name), zap.Stringer("ai", s.AISide))
	} else {
		hostName, hostIDs, err := cat.DeckByNumber(defaultNumber(s.HostDeck, 1))
		if err != nil {
			return fmt.Errorf("load host deck: %w", err)
		}
		joinerName, joinerIDs, err := cat.DeckByNumber(defaultNumber(join.DeckNumber, 2))
		if err != nil {
			return fmt.Errorf("load joiner deck: %w", err)
		}
		decks[game.PlayerA], decks[game.PlayerB] = hostIDs, joinerIDs

		// The host's REPL talks to the duel through an in-memory pipe.
		var hostServerConn net.Conn
		hostConn, hostServerConn = net.Pipe()
		defer hostConn.Close()
		defer hostServerConn.Close()
		seats[game.PlayerA] = NewNetworkController(hostServerConn, game.PlayerA)
		seats[game.PlayerB] = NewNetworkController(conn, game.PlayerB)
		z.Info("duel between players", zap.String("host", hostName), zap.String("joiner", joinerName))
	}

	events := &broadcastLogger{
		EventLogger: log.NewZapLogger(z),
		seats:       seats,
		onFail: func(p game.PlayerID, err error) {
			z.Warn("notify failed", zap.Stringer("player", p), zap.Error(err))
		},
	}
	duel, err := game.NewDuel(game.DuelConfig{
		Setup: game.Setup{
			Catalog: cat,
			DeckA:   decks[game.PlayerA],
			DeckB:   decks[game.PlayerB],
			Seed:    s.Seed,
		},
		AI:          s.AI,
		AISide:      s.AISide,
		SafetyBound: s.SafetyBound,
		Logger:      events,
		Zap:         z,
	})
	if err != nil {
		return fmt.Errorf("new duel: %w", err)
	}

	errCh := make(chan error, 2)
	if hostConn != nil {
		go func() {
			client := &Client{conn: hostConn}
			errCh <- client.RunREPL(ctx)
		}()
	}
	go func() {
		final, err := Play(ctx, duel, seats)
		if err != nil {
			errCh <- fmt.Errorf("duel error: %w", err)
			return
		}
		z.Info("duel finished", zap.String("result", ResultText(final)))
		errCh <- nil
	}()

	// Wait for either the duel or the REPL to finish
	return <-errCh
}

func defaultNumber(n, def int) int {
	if n == 0 {
		return def
	}
	return n
}
