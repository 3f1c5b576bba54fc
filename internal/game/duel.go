package game

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/peterkuimelis/lendas/internal/log"
)

// DefaultSafetyBound caps the number of actions in one automated turn.
const DefaultSafetyBound = 64

var (
	// ErrNoAction is returned by a Chooser that declines to act.
	ErrNoAction = errors.New("no action chosen")
	// ErrSafetyBound reports an automated turn that did not finish in time.
	ErrSafetyBound = errors.New("automated turn exceeded safety bound")
)

// Chooser picks one of the legal actions for the turn player.
type Chooser interface {
	ChooseAction(ctx context.Context, state *BoardState, actions []Action) (Action, error)
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(ctx context.Context, state *BoardState, actions []Action) (Action, error)

func (f ChooserFunc) ChooseAction(ctx context.Context, state *BoardState, actions []Action) (Action, error) {
	return f(ctx, state, actions)
}

// Renderer is notified with every state the duel publishes.
type Renderer interface {
	Render(state *BoardState)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(state *BoardState)

func (f RendererFunc) Render(state *BoardState) { f(state) }

// DuelConfig holds configuration for creating a new duel.
type DuelConfig struct {
	Setup

	AI          Chooser  // plays AISide automatically; nil for two external players
	AISide      PlayerID // side driven by AI
	SafetyBound int      // max AI actions per turn (0 = DefaultSafetyBound)

	Logger   log.EventLogger // receives every engine event (nil = memory logger)
	Zap      *zap.Logger     // process diagnostics (nil = no-op)
	Renderer Renderer        // optional

	// Schedule runs the AI turn. nil runs it synchronously inside Dispatch;
	// UIs can defer it to give the human's move a chance to render first.
	Schedule func(run func())
}

// Duel owns the current BoardState of one match and serializes access to it.
type Duel struct {
	mu    sync.Mutex
	state *BoardState

	ai       Chooser
	aiSide   PlayerID
	bound    int
	logger   log.EventLogger
	zap      *zap.Logger
	renderer Renderer
	schedule func(run func())
}

// NewDuel creates a new duel from the given config.
func NewDuel(cfg DuelConfig) (*Duel, error) {
	state, err := NewBoardState(cfg.Setup)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	z := cfg.Zap
	if z == nil {
		z = zap.NewNop()
	}
	bound := cfg.SafetyBound
	if bound <= 0 {
		bound = DefaultSafetyBound
	}
	schedule := cfg.Schedule
	if schedule == nil {
		schedule = func(run func()) { run() }
	}

	return &Duel{
		state:    state,
		ai:       cfg.AI,
		aiSide:   cfg.AISide,
		bound:    bound,
		logger:   logger,
		zap:      z,
		renderer: cfg.Renderer,
		schedule: schedule,
	}, nil
}

// State returns the current published state.
func (d *Duel) State() *BoardState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Logger returns the event logger the duel writes to.
func (d *Duel) Logger() log.EventLogger {
	return d.logger
}

// AISide returns the side played automatically, or NoPlayer.
func (d *Duel) AISide() PlayerID {
	if d.ai == nil {
		return NoPlayer
	}
	return d.aiSide
}

// Start renders the opening state and plays the AI's turn if it moves first.
func (d *Duel) Start(ctx context.Context) {
	s := d.State()
	d.render(s)
	d.maybeRunAI(ctx, s)
}

// Dispatch applies an action for whichever player is acting, publishes the
// result, and hands control to the AI when the turn passes to it.
func (d *Duel) Dispatch(ctx context.Context, a Action) (*BoardState, error) {
	d.mu.Lock()
	out := Step(d.state, a)
	d.commit(out)
	s := d.state
	d.mu.Unlock()

	d.maybeRunAI(ctx, s)
	return s, out.Err
}

// RunOpponentTurn drives the AI side until its turn ends.
func (d *Duel) RunOpponentTurn(ctx context.Context) (*BoardState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ai == nil {
		return d.state, nil
	}

	s, err := PlayOpponentTurn(ctx, d.state, d.ai, d.aiSide, d.bound, d.commit)
	switch {
	case errors.Is(err, ErrSafetyBound):
		d.zap.Error("AI turn stopped at safety bound",
			zap.Int("turn", s.Turn),
			zap.Stringer("phase", s.Phase),
			zap.Int("bound", d.bound))
	case err != nil:
		d.zap.Warn("AI turn aborted", zap.Int("turn", s.Turn), zap.Error(err))
	}
	return s, err
}

func (d *Duel) maybeRunAI(ctx context.Context, s *BoardState) {
	if d.ai == nil || s.Over() || s.Current != d.aiSide {
		return
	}
	d.schedule(func() {
		_, _ = d.RunOpponentTurn(ctx)
	})
}

// commit publishes an outcome. Callers hold d.mu.
func (d *Duel) commit(out Outcome) {
	d.state = out.State
	for _, e := range out.Events {
		d.logger.Log(e)
	}
	if out.Err != nil {
		d.zap.Debug("action rejected", zap.Error(out.Err))
	}
	d.render(out.State)
}

func (d *Duel) render(s *BoardState) {
	if d.renderer != nil {
		d.renderer.Render(s)
	}
}

// PlayOpponentTurn repeatedly asks c for an action while side is acting and
// the duel is undecided, applying each one to s. onStep, when set, sees every
// outcome. It stops when the turn passes, a winner is set, or c returns
// ErrNoAction, and fails with ErrSafetyBound after bound actions.
func PlayOpponentTurn(ctx context.Context, s *BoardState, c Chooser, side PlayerID, bound int, onStep func(Outcome)) (*BoardState, error) {
	for range bound {
		if s.Over() || s.Current != side {
			return s, nil
		}
		if err := ctx.Err(); err != nil {
			return s, err
		}
		a, err := c.ChooseAction(ctx, s, AvailableActions(s))
		if errors.Is(err, ErrNoAction) {
			return s, nil
		}
		if err != nil {
			return s, err
		}

		out := Step(s, a)
		if onStep != nil {
			onStep(out)
		}
		if out.Err != nil {
			return s, fmt.Errorf("chosen action %s: %w", a, out.Err)
		}
		s = out.State
	}
	if s.Over() || s.Current != side {
		return s, nil
	}
	return s, ErrSafetyBound
}

// Simulate plays a whole duel between two choosers, one automated turn at a
// time, for at most maxTurns turns. It returns the final state; Winner is
// NoPlayer when the turn limit ran out.
func Simulate(ctx context.Context, s *BoardState, players [2]Chooser, bound, maxTurns int, onStep func(Outcome)) (*BoardState, error) {
	if bound <= 0 {
		bound = DefaultSafetyBound
	}
	for !s.Over() && s.Turn <= maxTurns {
		side := s.Current
		next, err := PlayOpponentTurn(ctx, s, players[side], side, bound, onStep)
		if err != nil {
			return next, fmt.Errorf("turn %d (%s): %w", next.Turn, side, err)
		}
		if !next.Over() && next.Current == side {
			// the chooser stopped without ending its turn
			out := Step(next, EndTurn())
			if onStep != nil {
				onStep(out)
			}
			next = out.State
		}
		s = next
	}
	return s, nil
}
