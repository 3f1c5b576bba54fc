package game

import (
	"fmt"
	"slices"
)

// AvailableActions lists the legal actions for the turn player. It runs the
// same precondition checks as Step, so every returned action is accepted.
// END_TURN is always accepted but never listed. A finished duel has no actions.
func AvailableActions(s *BoardState) []Action {
	if s.Over() {
		return nil
	}

	var actions []Action
	switch {
	case s.Phase.IsMain():
		actions = mainPhaseActions(s)
	case s.Phase == PhaseBattle:
		actions = battlePhaseActions(s)
	}

	next := "Advance to " + (s.Phase + 1).String()
	if s.Phase == PhaseEnd {
		next = "End turn"
	}
	adv := AdvancePhase()
	adv.Desc = next
	return append(actions, adv)
}

func mainPhaseActions(s *BoardState) []Action {
	p := s.CurrentPlayer()
	var actions []Action
	for i, card := range p.Hand {
		tpl := card.Template
		switch tpl.Kind {
		case KindCreature:
			if _, err := checkSummon(s, i); err != nil {
				continue
			}
			a := SummonFromHand(i, WeakestCreatures(p, tpl.TributesRequired())...)
			a.Desc = fmt.Sprintf("Summon %s (ATK %d)", tpl.Name, tpl.ATK)
			if n := len(a.Tributes); n > 0 {
				a.Desc += fmt.Sprintf(" tributing %d", n)
			}
			actions = append(actions, a)
		case KindSpell, KindField:
			if _, err := checkActivate(s, i); err != nil {
				continue
			}
			a := ActivateSpellFromHand(i)
			a.Desc = "Activate " + tpl.Name
			actions = append(actions, a)
		case KindTrap:
			if _, err := checkSetTrap(s, i); err != nil {
				continue
			}
			a := SetTrapFromHand(i)
			a.Desc = "Set " + tpl.Name
			actions = append(actions, a)
		}
	}
	return actions
}

func battlePhaseActions(s *BoardState) []Action {
	p := s.CurrentPlayer()
	opp := s.OpponentPlayer()
	var actions []Action
	for i, c := range p.Field.Creatures {
		if c == nil || c.Has(FlagAttacked) {
			continue
		}
		if opp.CreatureCount() == 0 {
			a := DirectAttack(i)
			a.Desc = fmt.Sprintf("Direct attack with %s (ATK %d)", c.Template.Name, c.ATK)
			actions = append(actions, a)
			continue
		}
		for j, d := range opp.Field.Creatures {
			if d == nil {
				continue
			}
			a := Attack(i, j)
			if checkAttack(s, a) != nil {
				continue
			}
			a.Desc = fmt.Sprintf("Attack with %s → %s", c.Template.Name, d.Template.Name)
			actions = append(actions, a)
		}
	}
	return actions
}

// WeakestCreatures returns the slots of the n lowest-ATK creatures, lower
// slot first on ties. The result is in slot order.
func WeakestCreatures(p *PlayerState, n int) []int {
	if n == 0 {
		return nil
	}
	var slots []int
	for i, c := range p.Field.Creatures {
		if c != nil {
			slots = append(slots, i)
		}
	}
	slices.SortStableFunc(slots, func(a, b int) int {
		return p.Field.Creatures[a].ATK - p.Field.Creatures[b].ATK
	})
	slots = slots[:min(n, len(slots))]
	slices.Sort(slots)
	return slots
}

