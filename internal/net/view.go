package net

import (
	"fmt"

	"github.com/peterkuimelis/lendas/internal/game"
	"github.com/peterkuimelis/lendas/internal/log"
)

// BuildStateView creates a StateView from the perspective of viewer. The
// opponent's hand and face-down cards stay hidden.
func BuildStateView(state *game.BoardState, viewer game.PlayerID) *StateView {
	sv := &StateView{
		You:        buildPlayerView(state.Player(viewer), viewer, true),
		Opponent:   buildPlayerView(state.Player(viewer.Opponent()), viewer.Opponent(), false),
		Turn:       state.Turn,
		Phase:      state.Phase.String(),
		IsYourTurn: state.Current == viewer,
	}
	if state.Over() {
		sv.Winner = log.PlayerName(int(state.Winner))
	}
	return sv
}

func buildPlayerView(p *game.PlayerState, controller game.PlayerID, isSelf bool) PlayerView {
	pv := PlayerView{
		LP:             p.LifePoints,
		HandCount:      len(p.Hand),
		GraveyardCount: len(p.Graveyard),
		DeckCount:      len(p.Deck),
		SummonUsed:     p.NormalSummonUsed,
		FieldCard:      ZoneViewOf(p.Field.FieldCard, controller, isSelf),
	}
	if isSelf {
		for i, ci := range p.Hand {
			pv.Hand = append(pv.Hand, CardViewOf(i, ci))
		}
	}
	for i, ci := range p.Field.Creatures {
		pv.Creatures[i] = ZoneViewOf(ci, controller, isSelf)
	}
	for i, ci := range p.Field.Backrow {
		pv.Backrow[i] = ZoneViewOf(ci, controller, isSelf)
	}
	return pv
}

// CardViewOf describes a card in hand.
func CardViewOf(index int, ci *game.CardInstance) CardView {
	tpl := ci.Template
	return CardView{
		Index: index,
		ID:    tpl.ID,
		Name:  tpl.Name,
		Kind:  tpl.Kind.String(),
		Level: tpl.Level,
		ATK:   tpl.ATK,
		DEF:   tpl.DEF,
		Text:  tpl.Description,
	}
}

// ZoneViewOf describes a zone slot. Face-down cards only show their name to
// their controller.
func ZoneViewOf(ci *game.CardInstance, controller game.PlayerID, isSelf bool) ZoneView {
	if ci == nil {
		return ZoneView{Empty: true}
	}
	if ci.FaceDown && !isSelf {
		return ZoneView{FaceDown: true}
	}
	zv := ZoneView{
		FaceDown: ci.FaceDown,
		ID:       ci.Template.ID,
		Name:     ci.Template.Name,
		Borrowed: ci.Owner != controller,
	}
	if ci.Template.Kind == game.KindCreature {
		zv.ATK, zv.DEF = ci.ATK, ci.DEF
		zv.Attacked = ci.Has(game.FlagAttacked)
	}
	return zv
}

// RedactFor hides the card name of draws made by the other side.
func RedactFor(e log.GameEvent, viewer game.PlayerID) log.GameEvent {
	if e.Type == log.EventDraw && game.PlayerID(e.Player) != viewer {
		e.Card = ""
		e.Details = fmt.Sprintf("%s draws a card", log.PlayerName(e.Player))
	}
	return e
}

// ResultText describes the outcome of a finished duel.
func ResultText(state *game.BoardState) string {
	if !state.Over() {
		return "Duel unfinished"
	}
	loser := state.Player(state.Winner.Opponent())
	reason := "life points reduced to 0"
	if loser.LifePoints > 0 {
		reason = "deck out"
	}
	return fmt.Sprintf("%s wins on turn %d (%s)", log.PlayerName(int(state.Winner)), state.Turn, reason)
}
