package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/peterkuimelis/lendas/internal/game"
	"github.com/peterkuimelis/lendas/internal/log"
	"github.com/peterkuimelis/lendas/internal/net"
)

// duelSession is one browser playing against the AI.
type duelSession struct {
	id       uuid.UUID
	deckName string
	human    game.PlayerID
	duel     *game.Duel
	conn     *websocket.Conn
	ctx      context.Context
	logger   *zap.Logger

	overOnce sync.Once
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		s.logger.Warn("websocket accept", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The first message picks the deck.
	var join net.ClientMessage
	if err := wsjson.Read(ctx, conn, &join); err != nil || join.Type != net.MsgJoin {
		conn.Close(websocket.StatusPolicyViolation, "expected join message")
		return
	}

	sess, err := s.newDuelSession(ctx, conn, join.DeckNumber)
	if err != nil {
		_ = wsjson.Write(ctx, conn, net.ServerMessage{Type: net.MsgRejected, Error: err.Error()})
		conn.Close(websocket.StatusNormalClosure, "could not start duel")
		return
	}
	s.register(sess)
	defer s.unregister(sess)
	sess.logger.Info("duel started", zap.String("deck", sess.deckName))

	sess.duel.Start(ctx)
	for {
		var msg net.ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				sess.logger.Debug("websocket read", zap.Error(err))
			}
			return
		}
		if msg.Type != net.MsgAction {
			continue
		}
		sess.act(msg.Index)
	}
}

func (s *Server) newDuelSession(ctx context.Context, conn *websocket.Conn, deckNumber int) (*duelSession, error) {
	if deckNumber == 0 {
		deckNumber = 1
	}
	name, ids, err := s.catalog.DeckByNumber(deckNumber)
	if err != nil {
		return nil, err
	}
	if s.opts.AI == nil {
		return nil, errors.New("no AI configured")
	}

	id := uuid.New()
	sess := &duelSession{
		id:       id,
		deckName: name,
		human:    s.opts.HumanSide,
		conn:     conn,
		ctx:      ctx,
		logger:   s.logger.With(zap.String("duel", id.String())),
	}

	var decks [2][]string
	decks[sess.human] = ids
	decks[sess.human.Opponent()] = s.catalog.StarterDeckAI()

	var schedule func(run func())
	if s.opts.ActionDelay > 0 {
		delay := s.opts.ActionDelay
		schedule = func(run func()) { time.AfterFunc(delay, run) }
	}

	duel, err := game.NewDuel(game.DuelConfig{
		Setup: game.Setup{
			Catalog: s.catalog,
			DeckA:   decks[game.PlayerA],
			DeckB:   decks[game.PlayerB],
			Seed:    s.opts.Seed,
		},
		AI:          s.opts.AI,
		AISide:      sess.human.Opponent(),
		SafetyBound: s.opts.SafetyBound,
		Logger:      &socketLogger{EventLogger: log.NewZapLogger(sess.logger), sess: sess},
		Zap:         sess.logger,
		Renderer:    sess,
		Schedule:    schedule,
	})
	if err != nil {
		return nil, fmt.Errorf("new duel: %w", err)
	}
	sess.duel = duel
	return sess, nil
}

// act plays the human's pick from the current legal actions.
func (sess *duelSession) act(index int) {
	state := sess.duel.State()
	if state.Over() || state.Current != sess.human {
		sess.send(net.ServerMessage{Type: net.MsgRejected, Error: "it is not your turn"})
		return
	}
	actions := game.AvailableActions(state)
	if index < 0 || index >= len(actions) {
		sess.send(net.ServerMessage{Type: net.MsgRejected, Error: fmt.Sprintf("invalid action %d", index)})
		return
	}
	if _, err := sess.duel.Dispatch(sess.ctx, actions[index]); err != nil {
		sess.send(net.ServerMessage{Type: net.MsgRejected, Error: err.Error()})
	}
}

// Render implements game.Renderer. The human gets a choose_action prompt
// whenever it is their move, a state message otherwise.
func (sess *duelSession) Render(state *game.BoardState) {
	view := net.BuildStateView(state, sess.human)
	switch {
	case state.Over():
		sess.overOnce.Do(func() {
			sess.logger.Info("duel finished", zap.String("result", net.ResultText(state)))
			sess.send(net.ServerMessage{
				Type:   net.MsgGameOver,
				State:  view,
				Winner: int(state.Winner),
				Result: net.ResultText(state),
			})
		})
	case state.Current == sess.human:
		sess.send(net.ServerMessage{
			Type:    net.MsgChooseAction,
			State:   view,
			Actions: net.NewActionViews(game.AvailableActions(state)),
		})
	default:
		sess.send(net.ServerMessage{Type: net.MsgState, State: view})
	}
}

func (sess *duelSession) send(msg net.ServerMessage) {
	if err := wsjson.Write(sess.ctx, sess.conn, msg); err != nil && sess.ctx.Err() == nil {
		sess.logger.Debug("websocket write", zap.String("type", msg.Type), zap.Error(err))
	}
}

func (sess *duelSession) info(withState bool) DuelInfo {
	state := sess.duel.State()
	info := DuelInfo{
		ID:    sess.id.String(),
		Human: sess.human.String(),
		Deck:  sess.deckName,
		Turn:  state.Turn,
		Phase: state.Phase.String(),
		Over:  state.Over(),
	}
	if state.Over() {
		info.Result = net.ResultText(state)
	}
	if withState {
		info.State = net.BuildStateView(state, sess.human)
		info.State.You.Hand = nil
	}
	return info
}

// socketLogger forwards every duel event to the browser.
type socketLogger struct {
	log.EventLogger
	sess *duelSession
}

func (l *socketLogger) Log(event log.GameEvent) {
	l.EventLogger.Log(event)
	l.sess.send(net.ServerMessage{Type: net.MsgNotify, Event: net.NewEventView(net.RedactFor(event, l.sess.human))})
}
