package game

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/peterkuimelis/lendas/internal/log"
)

// Reasons an action can be rejected. Match them with errors.Is.
var (
	ErrDuelOver         = errors.New("duel is over")
	ErrUnknownAction    = errors.New("unknown action type")
	ErrWrongPhase       = errors.New("not allowed in this phase")
	ErrBadHandIndex     = errors.New("no card at hand index")
	ErrSummonUsed       = errors.New("normal summon already used this turn")
	ErrNotCreature      = errors.New("card is not a creature")
	ErrNoFreeSlot       = errors.New("no free creature slot")
	ErrTributes         = errors.New("invalid tributes")
	ErrNotSpell         = errors.New("card is not a spell or field card")
	ErrNotTrap          = errors.New("card is not a trap")
	ErrBackrowFull      = errors.New("no free backrow slot")
	ErrBadAttacker      = errors.New("no creature in attacker slot")
	ErrAlreadyAttacked  = errors.New("creature already attacked this turn")
	ErrBadTarget        = errors.New("no creature in target slot")
	ErrMustAttackDirect = errors.New("opponent has no creatures; attack must be direct")
	ErrDirectBlocked    = errors.New("opponent has creatures; direct attack not allowed")
)

// RejectedError reports an action whose preconditions failed. The state is
// left unchanged.
type RejectedError struct {
	Action ActionType
	Reason error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s rejected: %v", e.Action, e.Reason)
}

func (e *RejectedError) Unwrap() error {
	return e.Reason
}

// Outcome is the result of applying one action.
type Outcome struct {
	State  *BoardState
	Events []log.GameEvent
	Err    error // *RejectedError when the action was illegal
}

// Rejected reports whether the action was refused.
func (o Outcome) Rejected() bool {
	return o.Err != nil
}

// Step applies a to s and returns the resulting state. s is never modified.
// An illegal action yields an unchanged clone of s and a *RejectedError.
func Step(s *BoardState, a Action) Outcome {
	if s.Over() {
		return Outcome{State: s.Clone(), Err: &RejectedError{Action: a.Type, Reason: ErrDuelOver}}
	}

	t := &txn{s: s.Clone()}
	var err error
	switch a.Type {
	case ActionAdvancePhase:
		t.advancePhase()
	case ActionEndTurn:
		t.endTurn()
	case ActionSummonFromHand:
		err = t.summonFromHand(a)
	case ActionActivateSpellFromHand:
		err = t.activateSpell(a)
	case ActionSetTrapFromHand:
		err = t.setTrap(a)
	case ActionAttack:
		err = t.attack(a)
	default:
		err = ErrUnknownAction
	}
	if err != nil {
		return Outcome{State: s.Clone(), Err: &RejectedError{Action: a.Type, Reason: err}}
	}

	t.checkWin()
	return Outcome{State: t.s, Events: t.events}
}

// ApplyAction is Step without the rejection reason: illegal actions are
// silent no-ops.
func ApplyAction(s *BoardState, a Action) *BoardState {
	return Step(s, a).State
}

// txn is the working copy of one Step. Every zone or instance it changes is
// copied first, so the input state stays intact.
type txn struct {
	s      *BoardState
	events []log.GameEvent
}

func (t *txn) log(e log.GameEvent) {
	t.events = append(t.events, e)
	t.s.appendLog(e)
}

func (t *txn) rand() *rand.Rand {
	return rand.New(&t.s.rng)
}

func (t *txn) phase() string {
	return t.s.Phase.String()
}

// --- Phase machine ---

func (t *txn) advancePhase() {
	s := t.s
	if s.Phase == PhaseEnd {
		t.passTurn()
		return
	}
	s.Phase++
	t.log(log.NewPhaseChangeEvent(s.Turn, int(s.Current), s.Phase.String()))
}

func (t *txn) endTurn() {
	s := t.s
	if s.Phase != PhaseEnd {
		s.Phase = PhaseEnd
		t.log(log.NewPhaseChangeEvent(s.Turn, int(s.Current), s.Phase.String()))
	}
	t.passTurn()
}

// passTurn hands the turn to the opponent and runs their draw step.
func (t *txn) passTurn() {
	s := t.s
	t.endOfTurnCleanup()

	s.Current = s.Current.Opponent()
	s.Turn++
	s.Phase = PhaseDraw
	s.CurrentPlayer().NormalSummonUsed = false

	t.log(log.NewTurnEvent(s.Turn, int(s.Current)))
	t.drawStep()
}

// drawStep draws one card for the turn player. An empty deck loses the duel.
func (t *txn) drawStep() {
	s := t.s
	card := s.CurrentPlayer().drawCard()
	if card == nil {
		s.Winner = s.Current.Opponent()
		t.log(log.NewDeckOutEvent(s.Turn, int(s.Current)))
		t.log(log.NewWinEvent(s.Turn, t.phase(), int(s.Winner), fmt.Sprintf("%s decked out", s.Current)))
		return
	}
	t.log(log.NewDrawEvent(s.Turn, t.phase(), int(s.Current), card.Template.Name))
}

// endOfTurnCleanup clears per-turn creature state and returns borrowed
// creatures to their owners.
func (t *txn) endOfTurnCleanup() {
	s := t.s
	moved := false
	for side := PlayerA; side <= PlayerB; side++ {
		p := s.Players[side]
		for i, c := range p.Field.Creatures {
			if c == nil {
				continue
			}
			if c.Owner != side {
				p.Field.Creatures[i] = nil
				t.returnToOwner(c)
				moved = true
				continue
			}
			if c.Flags != 0 || len(c.UsedThisTurn) > 0 {
				c = p.editCreature(i)
				c.Flags = 0
				c.UsedThisTurn = nil
			}
		}
	}
	if moved {
		t.recomputeAuras()
	}
}

func (t *txn) returnToOwner(card *CardInstance) {
	s := t.s
	owner := s.Players[card.Owner]
	c := card.clone()
	c.Flags = 0
	c.UsedThisTurn = nil
	slot := owner.FreeCreatureSlot()
	if slot < 0 {
		t.sendToGraveyard(c, "no zone to return to")
		return
	}
	owner.Field.Creatures[slot] = c
	t.log(log.NewChangeControlEvent(s.Turn, t.phase(), int(card.Owner), c.Template.Name, int(card.Owner)))
}

// --- Zones and life points ---

// sendToGraveyard moves a card to its owner's graveyard. The caller has
// already removed it from its previous zone.
func (t *txn) sendToGraveyard(card *CardInstance, reason string) {
	c := card.clone()
	c.resetStats()
	c.Flags = 0
	c.FaceDown = false
	c.UsedThisTurn = nil
	t.s.Players[c.Owner].addToGraveyard(c)
	t.log(log.NewSendToGraveyardEvent(t.s.Turn, t.phase(), int(c.Owner), c.Template.Name, reason))
}

func (t *txn) changeLP(player PlayerID, delta int, reason string) {
	p := t.s.Players[player]
	old := p.LifePoints
	p.LifePoints += delta
	t.log(log.NewLPChangeEvent(t.s.Turn, t.phase(), int(player), old, p.LifePoints, reason))
}

func (t *txn) damage(player PlayerID, amount int, reason string) {
	if amount <= 0 {
		return
	}
	t.changeLP(player, -amount, reason)
}

// checkWin sets the winner once a player's life points reach zero and clamps
// the loser's life points at zero.
func (t *txn) checkWin() {
	s := t.s
	if s.Over() {
		return
	}
	aDead := s.Players[PlayerA].LifePoints <= 0
	bDead := s.Players[PlayerB].LifePoints <= 0

	var loser PlayerID
	switch {
	case aDead && bDead:
		// only the acting player's own action can drop both; they keep the win
		loser = s.Current.Opponent()
		s.Players[s.Current].LifePoints = 0
	case aDead:
		loser = PlayerA
	case bDead:
		loser = PlayerB
	default:
		return
	}
	s.Players[loser].LifePoints = 0
	s.Winner = loser.Opponent()
	t.log(log.NewWinEvent(s.Turn, t.phase(), int(s.Winner), fmt.Sprintf("%s's LP reached 0", loser)))
}
