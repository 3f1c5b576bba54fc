package game

import (
	"fmt"

	"github.com/peterkuimelis/lendas/internal/log"
)

// checkAttack validates an attack declaration against s.
func checkAttack(s *BoardState, a Action) error {
	if s.Phase != PhaseBattle {
		return ErrWrongPhase
	}
	attacker := s.CurrentPlayer().Creature(a.AttackerIndex)
	if attacker == nil {
		return fmt.Errorf("%w: %d", ErrBadAttacker, a.AttackerIndex)
	}
	if attacker.Has(FlagAttacked) {
		return fmt.Errorf("%w: %s", ErrAlreadyAttacked, attacker.Template.Name)
	}
	opp := s.OpponentPlayer()
	if opp.CreatureCount() == 0 {
		if !a.Direct {
			return ErrMustAttackDirect
		}
		return nil
	}
	if a.Direct {
		return ErrDirectBlocked
	}
	if opp.Creature(a.TargetIndex) == nil {
		return fmt.Errorf("%w: %d", ErrBadTarget, a.TargetIndex)
	}
	return nil
}

func (t *txn) attack(a Action) error {
	s := t.s
	if err := checkAttack(s, a); err != nil {
		return err
	}
	tp := s.Current
	oppID := tp.Opponent()
	attacker := s.Players[tp].editCreature(a.AttackerIndex)
	attacker.Flags |= FlagAttacked

	if a.Direct {
		t.log(log.NewDirectAttackEvent(s.Turn, int(tp), attacker.Template.Name, attacker.ATK))
		t.damage(oppID, attacker.ATK, fmt.Sprintf("direct attack by %s", attacker.Template.Name))
		t.recomputeAuras()
		return nil
	}

	opp := s.Players[oppID]
	defender := opp.editCreature(a.TargetIndex)
	t.log(log.NewAttackDeclareEvent(s.Turn, int(tp), attacker.Template.Name, defender.Template.Name))
	t.onDefend(attacker, defender)

	atk, def := attacker.ATK, defender.DEF
	t.log(log.NewDamageCalcEvent(s.Turn, int(tp),
		fmt.Sprintf("%s ATK %d vs %s DEF %d", attacker.Template.Name, atk, defender.Template.Name, def)))

	switch {
	case atk > def:
		if defender.Has(FlagIndestructible) {
			t.log(log.NewEffectEvent(s.Turn, t.phase(), int(oppID), defender.Template.Name, "survives the battle"))
		} else {
			opp.Field.Creatures[a.TargetIndex] = nil
			t.log(log.NewBattleDestroyEvent(s.Turn, int(oppID), defender.Template.Name))
			t.sendToGraveyard(defender, "destroyed by battle")
		}
		t.damage(oppID, atk-def, fmt.Sprintf("battle with %s", attacker.Template.Name))
	case atk < def:
		t.damage(tp, def-atk, fmt.Sprintf("attack into %s", defender.Template.Name))
	}

	t.recomputeAuras()
	return nil
}

// onDefend runs the reactive hooks of a creature chosen as an attack target.
// Both instances are working copies owned by the txn.
func (t *txn) onDefend(attacker, defender *CardInstance) {
	s := t.s
	owner := int(s.Current.Opponent())
	for _, eff := range defender.Effects {
		switch e := eff.(type) {
		case SwapOnDefend:
			defender.ATK, defender.DEF = defender.DEF, defender.ATK
			t.log(log.NewEffectEvent(s.Turn, t.phase(), owner, defender.Template.Name,
				fmt.Sprintf("swaps ATK/DEF to %d/%d", defender.ATK, defender.DEF)))
		case CharmAttacker:
			if defender.UsedThisTurn[EffectCharmAttacker] {
				continue
			}
			if defender.UsedThisTurn == nil {
				defender.UsedThisTurn = make(map[EffectKind]bool)
			}
			defender.UsedThisTurn[EffectCharmAttacker] = true
			attacker.ATK = max(0, attacker.ATK-e.Amount)
			t.log(log.NewEffectEvent(s.Turn, t.phase(), owner, defender.Template.Name,
				fmt.Sprintf("charms %s, ATK now %d", attacker.Template.Name, attacker.ATK)))
		}
	}
}
