package net

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/peterkuimelis/lendas/internal/ai"
	"github.com/peterkuimelis/lendas/internal/catalog"
	"github.com/peterkuimelis/lendas/internal/game"
	"github.com/peterkuimelis/lendas/internal/log"
)

var cat = catalog.Default()

func deck(top ...string) []string {
	d := append([]string(nil), top...)
	for len(d) < 20 {
		d = append(d, "saci")
	}
	return d
}

func newState(t *testing.T, handA []string) *game.BoardState {
	t.Helper()
	s, err := game.NewBoardState(game.Setup{Catalog: cat, DeckA: deck(handA...), DeckB: deck(), Seed: 1, NoShuffle: true})
	require.NoError(t, err)
	return s
}

func step(t *testing.T, s *game.BoardState, a game.Action) *game.BoardState {
	t.Helper()
	out := game.Step(s, a)
	require.NoError(t, out.Err)
	return out.State
}

func TestBuildStateViewHidesOpponentCards(t *testing.T) {
	s := newState(t, []string{"arapuca", "curupira"})
	s = step(t, s, game.AdvancePhase())
	s = step(t, s, game.SetTrapFromHand(0))
	s = step(t, s, game.SummonFromHand(0))

	mine := BuildStateView(s, game.PlayerA)
	assert.True(t, mine.IsYourTurn)
	assert.Len(t, mine.You.Hand, 3)
	assert.Equal(t, ZoneView{FaceDown: true, ID: "arapuca", Name: "Arapuca"}, mine.You.Backrow[0])
	assert.Equal(t, "Curupira", mine.You.Creatures[0].Name)
	assert.True(t, mine.You.SummonUsed)
	assert.True(t, mine.You.Backrow[1].Empty)

	theirs := BuildStateView(s, game.PlayerB)
	assert.False(t, theirs.IsYourTurn)
	assert.Nil(t, theirs.Opponent.Hand)
	assert.Equal(t, 3, theirs.Opponent.HandCount)
	assert.Equal(t, ZoneView{FaceDown: true}, theirs.Opponent.Backrow[0])
	assert.Equal(t, "Curupira", theirs.Opponent.Creatures[0].Name, "face-up creatures are public")
	assert.Len(t, theirs.You.Hand, 5)
}

func TestZoneViewMarksBorrowedCreature(t *testing.T) {
	tpl, ok := cat.CardByID("boto")
	require.True(t, ok)
	ci := game.NewCardInstance(tpl, game.PlayerB, game.DefaultIDs)

	zv := ZoneViewOf(ci, game.PlayerA, true)
	assert.True(t, zv.Borrowed)
	assert.Equal(t, tpl.ATK, zv.ATK)
	assert.False(t, ZoneViewOf(ci, game.PlayerB, true).Borrowed)
}

func TestRedactFor(t *testing.T) {
	e := log.NewDrawEvent(2, "Draw Phase", 1, "Boto")

	hidden := RedactFor(e, game.PlayerA)
	assert.Empty(t, hidden.Card)
	assert.Equal(t, "P2 draws a card", hidden.Details)

	assert.Equal(t, e, RedactFor(e, game.PlayerB))
}

func TestResultText(t *testing.T) {
	s := newState(t, nil)
	assert.Equal(t, "Duel unfinished", ResultText(s))

	s.Winner = game.PlayerA
	s.Players[game.PlayerB].LifePoints = 0
	assert.Equal(t, "P1 wins on turn 1 (life points reduced to 0)", ResultText(s))

	s.Players[game.PlayerB].LifePoints = 300
	assert.Equal(t, "P1 wins on turn 1 (deck out)", ResultText(s))
}

func TestChooseActionRetriesOutOfRange(t *testing.T) {
	serverEnd, clientEnd := net.Pipe()
	defer serverEnd.Close()
	defer clientEnd.Close()

	s := newState(t, nil)
	s = step(t, s, game.AdvancePhase())
	actions := []game.Action{game.AdvancePhase(), game.EndTurn()}

	var got []ServerMessage
	done := make(chan struct{})
	go func() {
		defer close(done)
		dec, enc := json.NewDecoder(clientEnd), json.NewEncoder(clientEnd)
		for _, idx := range []int{7, 1} {
			var msg ServerMessage
			if dec.Decode(&msg) != nil {
				return
			}
			got = append(got, msg)
			if enc.Encode(ClientMessage{Type: MsgAction, Index: idx}) != nil {
				return
			}
		}
	}()

	nc := NewNetworkController(serverEnd, game.PlayerA)
	a, err := nc.ChooseAction(context.Background(), s, actions)
	require.NoError(t, err)
	assert.Equal(t, game.ActionEndTurn, a.Type)

	<-done
	require.Len(t, got, 2)
	assert.Equal(t, MsgChooseAction, got[0].Type)
	assert.Len(t, got[0].Actions, 2)
	require.NotNil(t, got[0].State)
	assert.Equal(t, "Main Phase 1", got[0].State.Phase)
	assert.Equal(t, MsgRejected, got[1].Type)
	assert.Contains(t, got[1].Error, "between 1 and 2")
}

func TestChooseActionHonoursContext(t *testing.T) {
	serverEnd, clientEnd := net.Pipe()
	defer serverEnd.Close()
	defer clientEnd.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		var msg ServerMessage
		_ = json.NewDecoder(clientEnd).Decode(&msg)
		cancel()
	}()

	nc := NewNetworkController(serverEnd, game.PlayerA)
	_, err := nc.ChooseAction(ctx, newState(t, nil), []game.Action{game.AdvancePhase()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChooseActionWithoutActions(t *testing.T) {
	nc := NewNetworkController(nil, game.PlayerA)
	_, err := nc.ChooseAction(context.Background(), newState(t, nil), nil)
	assert.ErrorIs(t, err, game.ErrNoAction)
}

func TestServeRequiresJoin(t *testing.T) {
	serverEnd, clientEnd := net.Pipe()
	defer serverEnd.Close()
	defer clientEnd.Close()

	go func() {
		_ = json.NewEncoder(clientEnd).Encode(ClientMessage{Type: MsgAction})
	}()
	srv := &Server{AI: ai.New(), AISide: game.PlayerB}
	err := srv.Serve(context.Background(), serverEnd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected join")
}

// A client that always advances loses to the AI, and sees every event except
// what the AI draws.
func TestServeDuelAgainstAI(t *testing.T) {
	serverEnd, clientEnd := net.Pipe()
	defer serverEnd.Close()
	defer clientEnd.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	type transcript struct {
		notifies []EventView
		over     *ServerMessage
	}
	result := make(chan transcript, 1)
	go func() {
		var tr transcript
		defer func() { result <- tr }()
		enc, dec := json.NewEncoder(clientEnd), json.NewDecoder(clientEnd)
		if enc.Encode(ClientMessage{Type: MsgJoin, DeckNumber: 1}) != nil {
			return
		}
		for {
			var msg ServerMessage
			if dec.Decode(&msg) != nil {
				return
			}
			switch msg.Type {
			case MsgNotify:
				tr.notifies = append(tr.notifies, *msg.Event)
			case MsgChooseAction:
				if enc.Encode(ClientMessage{Type: MsgAction, Index: len(msg.Actions) - 1}) != nil {
					return
				}
			case MsgGameOver:
				tr.over = &msg
				return
			}
		}
	}()

	srv := &Server{
		Catalog: cat,
		Seed:    42,
		AI:      ai.New(),
		AISide:  game.PlayerB,
		Logger:  zaptest.NewLogger(t),
	}
	require.NoError(t, srv.Serve(ctx, serverEnd))

	tr := <-result
	require.NotNil(t, tr.over, "client saw the end of the duel")
	assert.Equal(t, int(game.PlayerB), tr.over.Winner)
	assert.True(t, strings.HasPrefix(tr.over.Result, "P2 wins"), tr.over.Result)
	require.NotNil(t, tr.over.State)
	assert.Equal(t, "P2", tr.over.State.Winner)

	require.NotEmpty(t, tr.notifies)
	var aiDraws int
	for _, ev := range tr.notifies {
		if ev.Type == log.EventDraw.String() && ev.Player == int(game.PlayerB) {
			aiDraws++
			assert.Empty(t, ev.Card)
		}
	}
	assert.Positive(t, aiDraws)
}

func TestClientREPL(t *testing.T) {
	serverEnd, clientEnd := net.Pipe()
	defer serverEnd.Close()
	defer clientEnd.Close()

	var out bytes.Buffer
	client := &Client{conn: clientEnd, in: strings.NewReader("x\n9\n2\n"), out: &out}
	done := make(chan error, 1)
	go func() { done <- client.RunREPL(context.Background()) }()

	s := newState(t, []string{"curupira"})
	enc, dec := json.NewEncoder(serverEnd), json.NewDecoder(serverEnd)
	require.NoError(t, enc.Encode(ServerMessage{Type: MsgNotify, Event: &EventView{Turn: 1, Phase: "Draw Phase", Details: "hello"}}))
	require.NoError(t, enc.Encode(ServerMessage{
		Type:    MsgChooseAction,
		State:   BuildStateView(s, game.PlayerA),
		Actions: NewActionViews([]game.Action{game.AdvancePhase(), game.EndTurn()}),
	}))

	var reply ClientMessage
	require.NoError(t, dec.Decode(&reply))
	assert.Equal(t, ClientMessage{Type: MsgAction, Index: 1}, reply)

	require.NoError(t, enc.Encode(ServerMessage{Type: MsgGameOver, Result: "P1 wins on turn 3 (deck out)"}))
	require.NoError(t, <-done)

	text := out.String()
	assert.Contains(t, text, "T1  Draw Phase      | hello")
	assert.Contains(t, text, "Curupira (Lv")
	assert.Contains(t, text, "2) END_TURN")
	assert.Contains(t, text, "Enter a number between 1 and 2")
	assert.Contains(t, text, "P1 wins on turn 3 (deck out)")
}
