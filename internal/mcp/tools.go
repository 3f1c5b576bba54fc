package mcp

import (
	"context"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/peterkuimelis/lendas/internal/catalog"
	"github.com/peterkuimelis/lendas/internal/game"
)

// Tools serves one duel at a time to an MCP client.
type Tools struct {
	Catalog     *catalog.Catalog
	AI          game.Chooser
	Seed        uint64 // 0 picks a random seed per duel
	SafetyBound int
	Logger      *zap.Logger

	mu     sync.Mutex
	active *GameSession
}

// RegisterTools adds all duel tools to the MCP server.
func (t *Tools) RegisterTools(s *server.MCPServer) {
	s.AddTool(startDuelTool(), t.handleStartDuel)
	s.AddTool(takeActionTool(), t.handleTakeAction)
	s.AddTool(getStateTool(), t.handleGetState)
}

// --- Tool definitions ---

func startDuelTool() mcp.Tool {
	return mcp.NewTool("start_duel",
		mcp.WithDescription("Start a new Lendas card duel against the built-in AI. Replaces any running duel. "+
			"Returns the opening events, the board from your side, and your legal actions."),
		mcp.WithNumber("deck", mcp.Description("Your deck number (1-indexed from the deck list, default 1)")),
		mcp.WithNumber("player", mcp.Description("Which side you play: 0 = goes first (default), 1 = goes second")),
	)
}

func takeActionTool() mcp.Tool {
	return mcp.NewTool("take_action",
		mcp.WithDescription("Play one of your legal actions. The AI answers as soon as your turn ends; "+
			"the response carries every event since your last call."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index into the actions list")),
	)
}

func getStateTool() mcp.Tool {
	return mcp.NewTool("get_state",
		mcp.WithDescription("Get the board, events not yet seen, and your legal actions without acting. Read-only."),
	)
}

// --- Tool handlers ---

func (t *Tools) handleStartDuel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deck := request.GetInt("deck", 1)
	player := request.GetInt("player", 0)
	if deck < 1 {
		return mcp.NewToolResultError("deck must be >= 1"), nil
	}
	if player != 0 && player != 1 {
		return mcp.NewToolResultError("player must be 0 or 1"), nil
	}

	sess, err := NewGameSession(ctx, SessionConfig{
		Catalog:     t.Catalog,
		Deck:        deck,
		Player:      game.PlayerID(player),
		Seed:        t.Seed,
		AI:          t.AI,
		SafetyBound: t.SafetyBound,
		Logger:      t.Logger,
	})
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start duel: %v", err), nil
	}

	t.mu.Lock()
	t.active = sess
	t.mu.Unlock()

	return mcp.NewToolResultText(respondJSON(sess.Snapshot())), nil
}

func (t *Tools) handleTakeAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := t.session()
	if sess == nil {
		return mcp.NewToolResultError("No duel is running. Use start_duel first."), nil
	}

	resp, err := sess.TakeAction(ctx, request.GetInt("index", -1))
	if err != nil {
		return mcp.NewToolResultErrorf("Cannot take action: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (t *Tools) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := t.session()
	if sess == nil {
		return mcp.NewToolResultError("No duel is running. Use start_duel first."), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.Snapshot())), nil
}

func (t *Tools) session() *GameSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}
