// Package ai is the built-in opponent: a greedy, stateless action chooser
// with no lookahead.
package ai

import (
	"context"

	"github.com/peterkuimelis/lendas/internal/game"
)

// Controller picks actions by a fixed priority list. It implements game.Chooser.
type Controller struct{}

var _ game.Chooser = Controller{}

// New returns the default controller.
func New() Controller {
	return Controller{}
}

// ChooseAction picks one of actions for the turn player of state. It returns
// game.ErrNoAction when actions is empty.
func (Controller) ChooseAction(_ context.Context, state *game.BoardState, actions []game.Action) (game.Action, error) {
	if len(actions) == 0 {
		return game.Action{}, game.ErrNoAction
	}

	var pick game.Action
	var ok bool
	switch {
	case state.Phase.IsMain():
		pick, ok = chooseMain(state, actions)
	case state.Phase == game.PhaseBattle:
		pick, ok = chooseBattle(actions)
	}
	if ok {
		return pick, nil
	}

	if a, ok := first(actions, game.ActionAdvancePhase); ok {
		return a, nil
	}
	return actions[0], nil
}

// chooseMain prefers the strongest summon, then a spell, then a trap.
func chooseMain(state *game.BoardState, actions []game.Action) (game.Action, bool) {
	p := state.CurrentPlayer()

	best, bestATK := -1, -1
	for i, a := range actions {
		if a.Type != game.ActionSummonFromHand {
			continue
		}
		atk := p.HandCard(a.HandIndex).Template.ATK
		if best < 0 || atk > bestATK || (atk == bestATK && a.HandIndex < actions[best].HandIndex) {
			best, bestATK = i, atk
		}
	}
	if best >= 0 {
		a := actions[best]
		tpl := p.HandCard(a.HandIndex).Template
		a.Tributes = game.WeakestCreatures(p, tpl.TributesRequired())
		return a, true
	}

	if a, ok := first(actions, game.ActionActivateSpellFromHand); ok {
		return a, true
	}
	return first(actions, game.ActionSetTrapFromHand)
}

// chooseBattle prefers a direct attack, then the first attack on a creature.
func chooseBattle(actions []game.Action) (game.Action, bool) {
	for _, a := range actions {
		if a.Type == game.ActionAttack && a.Direct {
			return a, true
		}
	}
	return first(actions, game.ActionAttack)
}

func first(actions []game.Action, t game.ActionType) (game.Action, bool) {
	for _, a := range actions {
		if a.Type == t {
			return a, true
		}
	}
	return game.Action{}, false
}
