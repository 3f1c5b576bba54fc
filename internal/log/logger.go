package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// EventLogger is the interface for logging duel events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	mu     sync.Mutex
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]GameEvent, len(l.events))
	copy(out, l.events)
	return out
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.Events() {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	events := l.Events()
	if len(events) == 0 {
		return GameEvent{}
	}
	return events[len(events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// PlayerName returns "P1" or "P2" for display.
func PlayerName(p int) string {
	return fmt.Sprintf("P%d", p+1)
}

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	if phase == "" {
		phase = "          "
	}
	// Pad phase to 16 chars for alignment
	for len(phase) < 16 {
		phase += " "
	}

	return fmt.Sprintf("T%-2d %s| %s", e.Turn, phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewPhaseChangeEvent(turn int, player int, phase string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventPhaseChange,
		Details: fmt.Sprintf("Phase → %s", phase),
	}
}

func NewTurnEvent(turn int, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Draw Phase",
		Player:  player,
		Type:    EventNewTurn,
		Details: fmt.Sprintf("=== Turn %d (%s) ===", turn, PlayerName(player)),
	}
}

func NewDrawEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDraw,
		Card:    cardName,
		Details: fmt.Sprintf("%s draws %s", PlayerName(player), cardName),
	}
}

func NewDeckOutEvent(turn int, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Draw Phase",
		Player:  player,
		Type:    EventDeckOut,
		Details: fmt.Sprintf("%s cannot draw: deck is empty", PlayerName(player)),
	}
}

func NewSummonEvent(turn int, phase string, player int, cardName string, atk int, slot int, tributes []string) GameEvent {
	details := fmt.Sprintf("%s summons %s (ATK %d) to Creature Zone %d", PlayerName(player), cardName, atk, slot+1)
	if len(tributes) > 0 {
		details += fmt.Sprintf(" (tributed: %s)", strings.Join(tributes, ", "))
	}
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventSummon,
		Card:    cardName,
		Details: details,
	}
}

func NewTributeEvent(turn int, phase string, player int, cardName string, slot int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventTribute,
		Card:    cardName,
		Details: fmt.Sprintf("%s tributes %s from Creature Zone %d", PlayerName(player), cardName, slot+1),
	}
}

func NewActivateEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventActivate,
		Card:    cardName,
		Details: fmt.Sprintf("%s activates %s", PlayerName(player), cardName),
	}
}

func NewSetTrapEvent(turn int, phase string, player int, slot int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventSetTrap,
		Details: fmt.Sprintf("%s sets a card in Backrow Zone %d", PlayerName(player), slot+1),
	}
}

func NewFieldReplaceEvent(turn int, phase string, player int, oldName, newName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventFieldReplace,
		Card:    newName,
		Details: fmt.Sprintf("%s replaces %s with %s", PlayerName(player), oldName, newName),
	}
}

func NewAttackDeclareEvent(turn int, player int, attacker string, defender string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Battle Phase",
		Player:  player,
		Type:    EventAttackDeclare,
		Card:    attacker,
		Details: fmt.Sprintf("%s declares attack: %s → %s", PlayerName(player), attacker, defender),
	}
}

func NewDirectAttackEvent(turn int, player int, attacker string, atk int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Battle Phase",
		Player:  player,
		Type:    EventDirectAttack,
		Card:    attacker,
		Details: fmt.Sprintf("%s attacks directly with %s (ATK %d)", PlayerName(player), attacker, atk),
	}
}

func NewDamageCalcEvent(turn int, player int, details string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Battle Phase",
		Player:  player,
		Type:    EventDamageCalc,
		Details: details,
	}
}

func NewBattleDestroyEvent(turn int, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Battle Phase",
		Player:  player,
		Type:    EventBattleDestroy,
		Card:    cardName,
		Details: fmt.Sprintf("%s is destroyed by battle", cardName),
	}
}

func NewDestroyEvent(turn int, phase string, player int, cardName string, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDestroy,
		Card:    cardName,
		Details: fmt.Sprintf("%s is destroyed (%s)", cardName, reason),
	}
}

func NewSendToGraveyardEvent(turn int, phase string, player int, cardName string, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventSendToGraveyard,
		Card:    cardName,
		Details: fmt.Sprintf("%s is sent to %s's Graveyard (%s)", cardName, PlayerName(player), reason),
	}
}

func NewLPChangeEvent(turn int, phase string, player int, oldLP, newLP int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventLPChange,
		Details: fmt.Sprintf("%s LP: %d → %d (%s)", PlayerName(player), oldLP, newLP, reason),
	}
}

func NewShuffleEvent(turn int, phase string, player int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventShuffle,
		Details: fmt.Sprintf("%s shuffles a card into their deck (%s)", PlayerName(player), reason),
	}
}

func NewEffectEvent(turn int, phase string, player int, cardName string, details string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventEffect,
		Card:    cardName,
		Details: fmt.Sprintf("%s: %s", cardName, details),
	}
}

func NewChangeControlEvent(turn int, phase string, player int, cardName string, newController int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventChangeControl,
		Card:    cardName,
		Details: fmt.Sprintf("%s control changes to %s", cardName, PlayerName(newController)),
	}
}

func NewWinEvent(turn int, phase string, winner int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  winner,
		Type:    EventWin,
		Details: fmt.Sprintf("%s wins! (%s)", PlayerName(winner), reason),
	}
}
