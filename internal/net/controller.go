package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/peterkuimelis/lendas/internal/game"
	"github.com/peterkuimelis/lendas/internal/log"
)

// NetworkController plays one side of a duel for a remote client. It
// implements game.Chooser.
type NetworkController struct {
	mu     sync.Mutex // guards writes
	conn   net.Conn
	enc    *json.Encoder
	dec    *json.Decoder
	player game.PlayerID
}

var _ game.Chooser = (*NetworkController)(nil)

// NewNetworkController creates a controller that talks to conn on behalf of player.
func NewNetworkController(conn net.Conn, player game.PlayerID) *NetworkController {
	return &NetworkController{
		conn:   conn,
		enc:    json.NewEncoder(conn),
		dec:    json.NewDecoder(conn),
		player: player,
	}
}

// Player returns the side this controller plays.
func (nc *NetworkController) Player() game.PlayerID {
	return nc.player
}

func (nc *NetworkController) send(msg ServerMessage) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.enc.Encode(msg)
}

func (nc *NetworkController) recv(ctx context.Context) (ClientMessage, error) {
	stop := context.AfterFunc(ctx, func() {
		_ = nc.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	var msg ClientMessage
	if err := nc.dec.Decode(&msg); err != nil {
		if ctx.Err() != nil {
			return msg, ctx.Err()
		}
		return msg, err
	}
	return msg, nil
}

// ChooseAction implements game.Chooser. It sends the board and the numbered
// actions, then waits for the client's pick. Out-of-range picks are answered
// with a rejected message and asked again.
func (nc *NetworkController) ChooseAction(ctx context.Context, state *game.BoardState, actions []game.Action) (game.Action, error) {
	if len(actions) == 0 {
		return game.Action{}, game.ErrNoAction
	}
	msg := ServerMessage{
		Type:    MsgChooseAction,
		Actions: NewActionViews(actions),
		State:   BuildStateView(state, nc.player),
	}
	if err := nc.send(msg); err != nil {
		return game.Action{}, fmt.Errorf("send choose_action: %w", err)
	}

	for {
		resp, err := nc.recv(ctx)
		if err != nil {
			return game.Action{}, fmt.Errorf("recv action: %w", err)
		}
		if resp.Type == MsgAction && resp.Index >= 0 && resp.Index < len(actions) {
			return actions[resp.Index], nil
		}
		reason := fmt.Sprintf("choose an action between 1 and %d", len(actions))
		if err := nc.send(ServerMessage{Type: MsgRejected, Error: reason}); err != nil {
			return game.Action{}, fmt.Errorf("send rejected: %w", err)
		}
	}
}

// Notify forwards an engine event, hiding what the other side drew.
func (nc *NetworkController) Notify(event log.GameEvent) error {
	return nc.send(ServerMessage{Type: MsgNotify, Event: NewEventView(RedactFor(event, nc.player))})
}

// SendRejected reports an action the engine refused.
func (nc *NetworkController) SendRejected(err error) error {
	return nc.send(ServerMessage{Type: MsgRejected, Error: err.Error()})
}

// SendGameOver sends the final board and result.
func (nc *NetworkController) SendGameOver(state *game.BoardState) error {
	return nc.send(ServerMessage{
		Type:   MsgGameOver,
		State:  BuildStateView(state, nc.player),
		Winner: int(state.Winner),
		Result: ResultText(state),
	})
}

// broadcastLogger records events and forwards each one to the seated clients.
type broadcastLogger struct {
	log.EventLogger
	seats  [2]*NetworkController
	onFail func(game.PlayerID, error)
}

func (b *broadcastLogger) Log(event log.GameEvent) {
	b.EventLogger.Log(event)
	for _, nc := range b.seats {
		if nc == nil {
			continue
		}
		if err := nc.Notify(event); err != nil && b.onFail != nil {
			b.onFail(nc.player, err)
		}
	}
}

// Play drives d until it is decided, asking the seated controller of the
// acting side for each move. Sides without a seat are left to the duel's AI.
func Play(ctx context.Context, d *game.Duel, seats [2]*NetworkController) (*game.BoardState, error) {
	d.Start(ctx)
	for {
		s := d.State()
		if s.Over() {
			break
		}
		nc := seats[s.Current]
		if nc == nil {
			if _, err := d.RunOpponentTurn(ctx); err != nil {
				return d.State(), fmt.Errorf("AI turn: %w", err)
			}
			if d.State() == s {
				return s, fmt.Errorf("%s has no controller", s.Current)
			}
			continue
		}

		a, err := nc.ChooseAction(ctx, s, game.AvailableActions(s))
		if err != nil {
			return s, fmt.Errorf("%s: %w", s.Current, err)
		}
		if _, err := d.Dispatch(ctx, a); err != nil {
			var rejected *game.RejectedError
			if !errors.As(err, &rejected) {
				return d.State(), err
			}
			if err := nc.SendRejected(err); err != nil {
				return d.State(), err
			}
		}
	}

	final := d.State()
	for _, nc := range seats {
		if nc != nil {
			_ = nc.SendGameOver(final)
		}
	}
	return final, nil
}
