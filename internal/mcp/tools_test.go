package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/peterkuimelis/lendas/internal/ai"
	"github.com/peterkuimelis/lendas/internal/game"
	"github.com/peterkuimelis/lendas/internal/log"
)

type handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func newTools(t *testing.T) *Tools {
	t.Helper()
	return &Tools{AI: ai.New(), Seed: 9, Logger: zaptest.NewLogger(t)}
}

func call(t *testing.T, h handler, args map[string]any) (*ToolResponse, *mcp.CallToolResult) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	if res.IsError {
		return nil, res
	}
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	var resp ToolResponse
	require.NoError(t, json.Unmarshal([]byte(text.Text), &resp))
	return &resp, res
}

func TestRegisterTools(t *testing.T) {
	s := server.NewMCPServer("lendas", "test")
	newTools(t).RegisterTools(s)
}

func TestToolsRequireDuel(t *testing.T) {
	tools := newTools(t)
	_, res := call(t, tools.handleGetState, nil)
	assert.True(t, res.IsError)
	_, res = call(t, tools.handleTakeAction, map[string]any{"index": 0})
	assert.True(t, res.IsError)
}

func TestStartDuelValidatesArguments(t *testing.T) {
	tools := newTools(t)
	_, res := call(t, tools.handleStartDuel, map[string]any{"player": 2})
	assert.True(t, res.IsError)
	_, res = call(t, tools.handleStartDuel, map[string]any{"deck": 0})
	assert.True(t, res.IsError)
	_, res = call(t, tools.handleStartDuel, map[string]any{"deck": 7})
	assert.True(t, res.IsError, "unknown deck")
}

func TestStartDuelGoingFirst(t *testing.T) {
	tools := newTools(t)
	resp, _ := call(t, tools.handleStartDuel, nil)
	require.NotNil(t, resp)

	assert.NotNil(t, resp.Events)
	require.NotNil(t, resp.State)
	assert.True(t, resp.State.IsYourTurn)
	assert.Equal(t, "Draw Phase", resp.State.Phase)
	assert.Len(t, resp.State.You.Hand, 5)
	require.Len(t, resp.Actions, 1)
	assert.Equal(t, game.ActionAdvancePhase.String(), resp.Actions[0].Type)
	assert.False(t, resp.GameOver)

	again, _ := call(t, tools.handleGetState, nil)
	assert.Empty(t, again.Events, "events are delivered once")
	assert.Equal(t, resp.Actions, again.Actions)
}

func TestStartDuelGoingSecond(t *testing.T) {
	tools := newTools(t)
	resp, _ := call(t, tools.handleStartDuel, map[string]any{"player": 1})
	require.NotNil(t, resp)

	assert.Equal(t, 2, resp.State.Turn, "the AI played turn 1")
	assert.True(t, resp.State.IsYourTurn)
	assert.NotEmpty(t, resp.Events)
	assert.NotEmpty(t, resp.Actions)
}

func TestTakeActionRejectsBadIndex(t *testing.T) {
	tools := newTools(t)
	call(t, tools.handleStartDuel, nil)
	_, res := call(t, tools.handleTakeAction, map[string]any{"index": 5})
	assert.True(t, res.IsError)
	_, res = call(t, tools.handleTakeAction, nil)
	assert.True(t, res.IsError, "index is required")
}

// An agent that only ever advances loses to the AI.
func TestPassiveAgentLoses(t *testing.T) {
	tools := newTools(t)
	resp, _ := call(t, tools.handleStartDuel, nil)
	require.NotNil(t, resp)

	var aiDraws int
	for calls := 0; !resp.GameOver; calls++ {
		require.Less(t, calls, 2000)
		require.NotEmpty(t, resp.Actions)
		resp, _ = call(t, tools.handleTakeAction, map[string]any{"index": len(resp.Actions) - 1})
		require.NotNil(t, resp)
		assert.Empty(t, resp.Rejected)
		for _, ev := range resp.Events {
			if ev.Type == log.EventDraw.String() && ev.Player == int(game.PlayerB) {
				aiDraws++
				assert.Empty(t, ev.Card)
			}
		}
	}

	assert.Equal(t, "ai", resp.Winner)
	assert.Contains(t, resp.Result, "P2 wins")
	assert.Empty(t, resp.Actions)
	assert.Positive(t, aiDraws)

	_, res := call(t, tools.handleTakeAction, map[string]any{"index": 0})
	assert.True(t, res.IsError, "no actions after the duel")
}
