package log

// EventType enumerates all observable duel events.
type EventType int

const (
	EventPhaseChange EventType = iota
	EventNewTurn
	EventDraw
	EventDeckOut
	EventSummon
	EventTribute
	EventActivate
	EventSetTrap
	EventFieldReplace
	EventAttackDeclare
	EventDirectAttack
	EventDamageCalc
	EventBattleDestroy
	EventDestroy
	EventSendToGraveyard
	EventLPChange
	EventShuffle
	EventEffect
	EventChangeControl
	EventWin
)

func (e EventType) String() string {
	switch e {
	case EventPhaseChange:
		return "PhaseChange"
	case EventNewTurn:
		return "NewTurn"
	case EventDraw:
		return "Draw"
	case EventDeckOut:
		return "DeckOut"
	case EventSummon:
		return "Summon"
	case EventTribute:
		return "Tribute"
	case EventActivate:
		return "Activate"
	case EventSetTrap:
		return "SetTrap"
	case EventFieldReplace:
		return "FieldReplace"
	case EventAttackDeclare:
		return "AttackDeclare"
	case EventDirectAttack:
		return "DirectAttack"
	case EventDamageCalc:
		return "DamageCalc"
	case EventBattleDestroy:
		return "BattleDestroy"
	case EventDestroy:
		return "Destroy"
	case EventSendToGraveyard:
		return "SendToGraveyard"
	case EventLPChange:
		return "LPChange"
	case EventShuffle:
		return "Shuffle"
	case EventEffect:
		return "Effect"
	case EventChangeControl:
		return "ChangeControl"
	case EventWin:
		return "Win"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a duel.
type GameEvent struct {
	Seq     int       `json:"seq"`               // monotonic sequence number, set by the logger
	Turn    int       `json:"turn"`              // which turn (1-based)
	Phase   string    `json:"phase"`             // phase name (e.g. "Main Phase 1")
	Player  int       `json:"player"`            // acting player (0 or 1)
	Type    EventType `json:"type"`              // event type
	Card    string    `json:"card,omitempty"`    // card name (if applicable)
	Details string    `json:"details,omitempty"` // human-readable detail string
}
