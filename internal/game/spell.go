package game

import (
	"fmt"

	"github.com/peterkuimelis/lendas/internal/log"
)

func checkActivate(s *BoardState, handIndex int) (*CardInstance, error) {
	if !s.Phase.IsMain() {
		return nil, ErrWrongPhase
	}
	p := s.CurrentPlayer()
	card := p.HandCard(handIndex)
	if card == nil {
		return nil, fmt.Errorf("%w: %d", ErrBadHandIndex, handIndex)
	}
	switch card.Template.Kind {
	case KindField:
	case KindSpell:
		if card.Template.Subtype == SubtypeContinuous && p.FreeBackrowSlot() < 0 {
			return nil, ErrBackrowFull
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotSpell, card.Template.Name)
	}
	return card, nil
}

func checkSetTrap(s *BoardState, handIndex int) (*CardInstance, error) {
	if !s.Phase.IsMain() {
		return nil, ErrWrongPhase
	}
	p := s.CurrentPlayer()
	card := p.HandCard(handIndex)
	if card == nil {
		return nil, fmt.Errorf("%w: %d", ErrBadHandIndex, handIndex)
	}
	if card.Template.Kind != KindTrap {
		return nil, fmt.Errorf("%w: %s", ErrNotTrap, card.Template.Name)
	}
	if p.FreeBackrowSlot() < 0 {
		return nil, ErrBackrowFull
	}
	return card, nil
}

func (t *txn) activateSpell(a Action) error {
	s := t.s
	card, err := checkActivate(s, a.HandIndex)
	if err != nil {
		return err
	}
	p := s.CurrentPlayer()
	p.removeFromHand(a.HandIndex)
	t.log(log.NewActivateEvent(s.Turn, t.phase(), int(s.Current), card.Template.Name))

	switch {
	case card.Template.Kind == KindField:
		old := p.Field.FieldCard
		p.Field.FieldCard = card
		if old != nil {
			t.log(log.NewFieldReplaceEvent(s.Turn, t.phase(), int(s.Current), old.Template.Name, card.Template.Name))
			t.sendToGraveyard(old, "replaced by "+card.Template.Name)
		}
	case card.Template.Subtype == SubtypeContinuous:
		p.Field.Backrow[p.FreeBackrowSlot()] = card
	default:
		t.resolveSpell(card)
		t.sendToGraveyard(card, "resolved")
	}

	t.recomputeAuras()
	return nil
}

func (t *txn) setTrap(a Action) error {
	s := t.s
	card, err := checkSetTrap(s, a.HandIndex)
	if err != nil {
		return err
	}
	p := s.CurrentPlayer()
	p.removeFromHand(a.HandIndex)
	slot := p.FreeBackrowSlot()
	c := card.clone()
	c.FaceDown = true
	p.Field.Backrow[slot] = c
	t.log(log.NewSetTrapEvent(s.Turn, t.phase(), int(s.Current), slot))

	t.recomputeAuras()
	return nil
}

// resolveSpell runs the one-shot hooks of a spell for the turn player.
func (t *txn) resolveSpell(card *CardInstance) {
	s := t.s
	tp := s.Current
	oppID := tp.Opponent()
	name := card.Template.Name

	for _, eff := range card.Effects {
		switch e := eff.(type) {
		case Burn:
			t.damage(oppID, e.Amount, name)
		case Heal:
			t.changeLP(tp, e.Amount, name)
		case Draw:
			p := s.Players[tp]
			for range e.Count {
				drawn := p.drawCard()
				if drawn == nil {
					t.log(log.NewEffectEvent(s.Turn, t.phase(), int(tp), name, "deck is empty"))
					break
				}
				t.log(log.NewDrawEvent(s.Turn, t.phase(), int(tp), drawn.Template.Name))
			}
		case Protect:
			t.protectStrongest(name)
		case DestroyBackrow:
			t.destroyOpponentBackrow(name)
		case MindControl:
			t.takeStrongest(name)
		}
	}
}

// strongestCreature returns the slot of the highest-ATK creature, lowest slot
// on ties, or -1 when the side has none.
func strongestCreature(p *PlayerState) int {
	best := -1
	for i, c := range p.Field.Creatures {
		if c != nil && (best < 0 || c.ATK > p.Field.Creatures[best].ATK) {
			best = i
		}
	}
	return best
}

func (t *txn) protectStrongest(source string) {
	s := t.s
	p := s.CurrentPlayer()
	slot := strongestCreature(p)
	if slot < 0 {
		t.log(log.NewEffectEvent(s.Turn, t.phase(), int(s.Current), source, "no creature to protect"))
		return
	}
	c := p.editCreature(slot)
	c.Flags |= FlagIndestructible
	t.log(log.NewEffectEvent(s.Turn, t.phase(), int(s.Current), source,
		fmt.Sprintf("%s cannot be destroyed by battle this turn", c.Template.Name)))
}

func (t *txn) destroyOpponentBackrow(source string) {
	s := t.s
	oppID := s.Current.Opponent()
	opp := s.Players[oppID]

	var target *CardInstance
	if fc := opp.Field.FieldCard; fc != nil {
		target = fc
		opp.Field.FieldCard = nil
	} else {
		for i, c := range opp.Field.Backrow {
			if c != nil {
				target = c
				opp.Field.Backrow[i] = nil
				break
			}
		}
	}
	if target == nil {
		t.log(log.NewEffectEvent(s.Turn, t.phase(), int(s.Current), source, "nothing to destroy"))
		return
	}
	t.log(log.NewDestroyEvent(s.Turn, t.phase(), int(oppID), target.Template.Name, source))
	t.sendToGraveyard(target, "destroyed by "+source)
}

// takeStrongest moves the opponent's strongest creature to the turn player's
// side until the end of the turn.
func (t *txn) takeStrongest(source string) {
	s := t.s
	p := s.CurrentPlayer()
	opp := s.OpponentPlayer()
	from := strongestCreature(opp)
	to := p.FreeCreatureSlot()
	if from < 0 || to < 0 {
		t.log(log.NewEffectEvent(s.Turn, t.phase(), int(s.Current), source, "no creature taken"))
		return
	}
	c := opp.Field.Creatures[from].clone()
	opp.Field.Creatures[from] = nil
	c.Flags &^= FlagAttacked
	p.Field.Creatures[to] = c
	t.log(log.NewChangeControlEvent(s.Turn, t.phase(), int(s.Current), c.Template.Name, int(s.Current)))
}
