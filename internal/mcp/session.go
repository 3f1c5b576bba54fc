package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/peterkuimelis/lendas/internal/catalog"
	"github.com/peterkuimelis/lendas/internal/game"
	"github.com/peterkuimelis/lendas/internal/log"
	"github.com/peterkuimelis/lendas/internal/net"
)

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Events   []net.EventView  `json:"events"`
	State    *net.StateView   `json:"state,omitempty"`
	Actions  []net.ActionView `json:"actions,omitempty"`
	Rejected string           `json:"rejected,omitempty"`
	GameOver bool             `json:"game_over"`
	Winner   string           `json:"winner,omitempty"`
	Result   string           `json:"result,omitempty"`
}

// SessionConfig describes a duel between the agent and the built-in AI.
type SessionConfig struct {
	Catalog     *catalog.Catalog
	Deck        int           // agent's deck number (1-indexed)
	Player      game.PlayerID // agent's side
	Seed        uint64
	AI          game.Chooser
	SafetyBound int
	Logger      *zap.Logger
}

// GameSession holds the state of a single MCP duel. The agent acts through
// TakeAction; the AI's turns run inside the same call.
type GameSession struct {
	duel   *game.Duel
	player game.PlayerID
	events *eventRecorder
}

// NewGameSession deals a new duel and plays the AI's opening turn if it moves first.
func NewGameSession(ctx context.Context, cfg SessionConfig) (*GameSession, error) {
	if cfg.Player != game.PlayerA && cfg.Player != game.PlayerB {
		return nil, fmt.Errorf("player must be 0 or 1, got %d", cfg.Player)
	}
	if cfg.AI == nil {
		return nil, errors.New("no AI configured")
	}
	cat := cfg.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	_, agentDeck, err := cat.DeckByNumber(cfg.Deck)
	if err != nil {
		return nil, fmt.Errorf("load agent deck: %w", err)
	}
	z := cfg.Logger
	if z == nil {
		z = zap.NewNop()
	}

	var decks [2][]string
	decks[cfg.Player] = agentDeck
	decks[cfg.Player.Opponent()] = cat.StarterDeckAI()

	events := newEventRecorder(log.NewZapLogger(z), cfg.Player)
	duel, err := game.NewDuel(game.DuelConfig{
		Setup: game.Setup{
			Catalog: cat,
			DeckA:   decks[game.PlayerA],
			DeckB:   decks[game.PlayerB],
			Seed:    cfg.Seed,
		},
		AI:          cfg.AI,
		AISide:      cfg.Player.Opponent(),
		SafetyBound: cfg.SafetyBound,
		Logger:      events,
		Zap:         z,
	})
	if err != nil {
		return nil, fmt.Errorf("new duel: %w", err)
	}
	duel.Start(ctx)

	return &GameSession{duel: duel, player: cfg.Player, events: events}, nil
}

// Snapshot returns the events since the last call, the board from the
// agent's side, and the agent's legal actions.
func (s *GameSession) Snapshot() *ToolResponse {
	state := s.duel.State()
	resp := &ToolResponse{
		Events: s.events.drain(),
		State:  net.BuildStateView(state, s.player),
	}
	switch {
	case state.Over():
		resp.GameOver = true
		resp.Winner = playerLabel(state.Winner, s.player)
		resp.Result = net.ResultText(state)
	case state.Current == s.player:
		resp.Actions = net.NewActionViews(game.AvailableActions(state))
	}
	return resp
}

// TakeAction plays the agent's action by index into the current legal
// action list, then lets the AI respond.
func (s *GameSession) TakeAction(ctx context.Context, index int) (*ToolResponse, error) {
	state := s.duel.State()
	if state.Over() {
		return nil, errors.New("the duel is over")
	}
	if state.Current != s.player {
		return nil, errors.New("it is not your turn")
	}
	actions := game.AvailableActions(state)
	if index < 0 || index >= len(actions) {
		return nil, fmt.Errorf("invalid index %d, must be 0-%d", index, len(actions)-1)
	}

	_, err := s.duel.Dispatch(ctx, actions[index])
	resp := s.Snapshot()
	var rejected *game.RejectedError
	if errors.As(err, &rejected) {
		resp.Rejected = rejected.Error()
	} else if err != nil {
		return nil, err
	}
	return resp, nil
}

// playerLabel returns "you" or "ai" for the given side.
func playerLabel(p, agent game.PlayerID) string {
	if p == agent {
		return "you"
	}
	return "ai"
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
