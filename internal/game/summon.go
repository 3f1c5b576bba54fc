package game

import (
	"fmt"
	"slices"

	"github.com/peterkuimelis/lendas/internal/log"
)

// checkSummon validates everything about a normal summon except the chosen
// tributes. The enumerator and the engine share it.
func checkSummon(s *BoardState, handIndex int) (*CardInstance, error) {
	if !s.Phase.IsMain() {
		return nil, ErrWrongPhase
	}
	p := s.CurrentPlayer()
	if p.NormalSummonUsed {
		return nil, ErrSummonUsed
	}
	card := p.HandCard(handIndex)
	if card == nil {
		return nil, fmt.Errorf("%w: %d", ErrBadHandIndex, handIndex)
	}
	if card.Template.Kind != KindCreature {
		return nil, fmt.Errorf("%w: %s", ErrNotCreature, card.Template.Name)
	}
	if p.FreeCreatureSlot() < 0 {
		return nil, ErrNoFreeSlot
	}
	if need := card.Template.TributesRequired(); p.CreatureCount() < need {
		return nil, fmt.Errorf("%w: %s needs %d, only %d on field", ErrTributes, card.Template.Name, need, p.CreatureCount())
	}
	return card, nil
}

// checkTributes validates the chosen tribute slots and returns them sorted.
func checkTributes(p *PlayerState, card *CardInstance, tributes []int) ([]int, error) {
	need := card.Template.TributesRequired()
	if len(tributes) < need {
		return nil, fmt.Errorf("%w: %s needs %d, got %d", ErrTributes, card.Template.Name, need, len(tributes))
	}
	sorted := slices.Clone(tributes)
	slices.Sort(sorted)
	for i, slot := range sorted {
		if p.Creature(slot) == nil {
			return nil, fmt.Errorf("%w: slot %d is empty", ErrTributes, slot)
		}
		if i > 0 && sorted[i-1] == slot {
			return nil, fmt.Errorf("%w: slot %d listed twice", ErrTributes, slot)
		}
	}
	return sorted, nil
}

func (t *txn) summonFromHand(a Action) error {
	s := t.s
	card, err := checkSummon(s, a.HandIndex)
	if err != nil {
		return err
	}
	p := s.CurrentPlayer()
	tributes, err := checkTributes(p, card, a.Tributes)
	if err != nil {
		return err
	}

	p.removeFromHand(a.HandIndex)

	var tributeNames []string
	for i := len(tributes) - 1; i >= 0; i-- {
		slot := tributes[i]
		victim := p.Field.Creatures[slot]
		p.Field.Creatures[slot] = nil
		tributeNames = append(tributeNames, victim.Template.Name)
		t.log(log.NewTributeEvent(s.Turn, t.phase(), int(s.Current), victim.Template.Name, slot))
		t.sendToGraveyard(victim, "tributed")
	}

	slot := p.FreeCreatureSlot()
	c := card.clone()
	c.resetStats()
	c.FaceDown = false
	c.Flags = 0
	c.UsedThisTurn = nil
	p.Field.Creatures[slot] = c
	p.NormalSummonUsed = true
	t.log(log.NewSummonEvent(s.Turn, t.phase(), int(s.Current), c.Template.Name, c.ATK, slot, tributeNames))

	t.onSummon(c)
	t.recomputeAuras()
	return nil
}

// onSummon runs the summon hooks of a creature that just entered the field.
func (t *txn) onSummon(c *CardInstance) {
	for _, eff := range c.Effects {
		switch eff.(type) {
		case ShuffleOpponentHand:
			t.shuffleOpponentHand(c)
		}
	}
}

// shuffleOpponentHand moves one random card from the opponent's hand to a
// random position in their deck.
func (t *txn) shuffleOpponentHand(source *CardInstance) {
	s := t.s
	oppID := s.Current.Opponent()
	opp := s.Players[oppID]
	if len(opp.Hand) == 0 {
		return
	}
	r := t.rand()
	card := opp.removeFromHand(r.IntN(len(opp.Hand)))
	opp.insertIntoDeck(r.IntN(len(opp.Deck)+1), card)
	t.log(log.NewShuffleEvent(s.Turn, t.phase(), int(oppID),
		fmt.Sprintf("%s sent a card from %s's hand back into the deck", source.Template.Name, oppID)))
}
