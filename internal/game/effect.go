package game

// EffectKind identifies one of the fixed effect hooks.
type EffectKind int

const (
	EffectShuffleOpponentHand EffectKind = iota + 1
	EffectSwapOnDefend
	EffectCharmAttacker
	EffectFieldAura
	EffectAttributeAura
	EffectBackrowAura
	EffectBurn
	EffectHeal
	EffectDraw
	EffectProtect
	EffectDestroyBackrow
	EffectMindControl
)

func (k EffectKind) String() string {
	switch k {
	case EffectShuffleOpponentHand:
		return "shuffle-opponent-hand"
	case EffectSwapOnDefend:
		return "swap-on-defend"
	case EffectCharmAttacker:
		return "charm-attacker"
	case EffectFieldAura:
		return "field-aura"
	case EffectAttributeAura:
		return "attribute-aura"
	case EffectBackrowAura:
		return "backrow-aura"
	case EffectBurn:
		return "burn"
	case EffectHeal:
		return "heal"
	case EffectDraw:
		return "draw"
	case EffectProtect:
		return "protect"
	case EffectDestroyBackrow:
		return "destroy-backrow"
	case EffectMindControl:
		return "mind-control"
	default:
		return "unknown"
	}
}

// Trigger is the point in the rules at which a hook fires.
type Trigger int

const (
	TriggerSummon  Trigger = iota // creature enters the field by normal summon
	TriggerDefend                 // creature is targeted by an attack
	TriggerAura                   // continuous, applied during aura recomputation
	TriggerResolve                // one-shot spell resolution
)

// Effect is the closed set of hooks. Each implementation is matched
// exhaustively by the engine at its trigger point.
type Effect interface {
	Kind() EffectKind
	Trigger() Trigger
}

// ShuffleOpponentHand sends a random card from the opponent's hand to a random
// position in their deck.
type ShuffleOpponentHand struct{}

// SwapOnDefend swaps the defender's current ATK and DEF before damage calculation.
type SwapOnDefend struct{}

// CharmAttacker lowers the attacker's ATK for one battle, once per turn.
type CharmAttacker struct {
	Amount int
}

// FieldAura modifies every creature on the board: matching attribute gets
// ATK/DEF, every other attribute gets OtherATK/OtherDEF.
type FieldAura struct {
	Attribute Attribute
	ATK, DEF  int

	OtherATK, OtherDEF int
}

// AttributeAura boosts every creature of Attribute on its controller's side.
type AttributeAura struct {
	Attribute Attribute
	ATK, DEF  int
}

// BackrowAura modifies every creature on one side while the card sits in the backrow.
type BackrowAura struct {
	Opponent bool // false: own creatures, true: the opponent's
	ATK, DEF int
}

// Burn deals damage to the opponent.
type Burn struct {
	Amount int
}

// Heal restores the caster's life points.
type Heal struct {
	Amount int
}

// Draw draws cards for the caster. An empty deck stops the draw without loss.
type Draw struct {
	Count int
}

// Protect makes the caster's strongest creature indestructible by battle this turn.
type Protect struct{}

// DestroyBackrow destroys the opponent's field card, or their first backrow card
// when no field card is active.
type DestroyBackrow struct{}

// MindControl takes the opponent's strongest creature until the end of the turn.
type MindControl struct{}

func (ShuffleOpponentHand) Kind() EffectKind { return EffectShuffleOpponentHand }
func (SwapOnDefend) Kind() EffectKind        { return EffectSwapOnDefend }
func (CharmAttacker) Kind() EffectKind       { return EffectCharmAttacker }
func (FieldAura) Kind() EffectKind           { return EffectFieldAura }
func (AttributeAura) Kind() EffectKind       { return EffectAttributeAura }
func (BackrowAura) Kind() EffectKind         { return EffectBackrowAura }
func (Burn) Kind() EffectKind                { return EffectBurn }
func (Heal) Kind() EffectKind                { return EffectHeal }
func (Draw) Kind() EffectKind                { return EffectDraw }
func (Protect) Kind() EffectKind             { return EffectProtect }
func (DestroyBackrow) Kind() EffectKind      { return EffectDestroyBackrow }
func (MindControl) Kind() EffectKind         { return EffectMindControl }

func (ShuffleOpponentHand) Trigger() Trigger { return TriggerSummon }
func (SwapOnDefend) Trigger() Trigger        { return TriggerDefend }
func (CharmAttacker) Trigger() Trigger       { return TriggerDefend }
func (FieldAura) Trigger() Trigger           { return TriggerAura }
func (AttributeAura) Trigger() Trigger       { return TriggerAura }
func (BackrowAura) Trigger() Trigger         { return TriggerAura }
func (Burn) Trigger() Trigger                { return TriggerResolve }
func (Heal) Trigger() Trigger                { return TriggerResolve }
func (Draw) Trigger() Trigger                { return TriggerResolve }
func (Protect) Trigger() Trigger             { return TriggerResolve }
func (DestroyBackrow) Trigger() Trigger      { return TriggerResolve }
func (MindControl) Trigger() Trigger         { return TriggerResolve }

// effectTable maps catalog card ids to their hooks. Cards not listed here have
// no machine-interpreted effect.
var effectTable = map[string][]Effect{
	// creatures
	"saci":       {ShuffleOpponentHand{}},
	"curupira":   {SwapOnDefend{}},
	"iara":       {CharmAttacker{Amount: 500}},
	"boitata":    {AttributeAura{Attribute: AttrFire, ATK: 300}},
	"mapinguari": {AttributeAura{Attribute: AttrForest, DEF: 300}},

	// field cards
	"mata-atlantica":     {FieldAura{Attribute: AttrForest, ATK: 500, DEF: 500, OtherATK: -200}},
	"noite-de-lua-cheia": {FieldAura{Attribute: AttrDark, ATK: 500, OtherDEF: -300}},
	"encontro-das-aguas": {FieldAura{Attribute: AttrWater, ATK: 400, DEF: 200}},

	// spells
	"fogueira-de-sao-joao": {Burn{Amount: 600}},
	"benzedeira":           {Heal{Amount: 1000}},
	"simpatia":             {Draw{Count: 2}},
	"patua":                {Protect{}},
	"redemoinho":           {DestroyBackrow{}},
	"feitico-do-boto":      {MindControl{}},
	"figa":                 {BackrowAura{DEF: 300}},

	// traps
	"arapuca":           {BackrowAura{Opponent: true, ATK: -300}},
	"cerca-de-espinhos": {BackrowAura{DEF: 200}},
}

// EffectsFor returns the hooks attached to the given card id.
func EffectsFor(cardID string) []Effect {
	return effectTable[cardID]
}
