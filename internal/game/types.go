package game

import (
	"fmt"
	"strings"
)

// --- Enums ---

// PlayerID identifies one side of the duel.
type PlayerID int

const (
	NoPlayer PlayerID = iota - 1
	PlayerA
	PlayerB
)

// Opponent returns the other side. NoPlayer has no opponent.
func (p PlayerID) Opponent() PlayerID {
	switch p {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	default:
		return NoPlayer
	}
}

func (p PlayerID) String() string {
	switch p {
	case PlayerA:
		return "P1"
	case PlayerB:
		return "P2"
	default:
		return "none"
	}
}

type Phase int

const (
	PhaseDraw Phase = iota
	PhaseMain1
	PhaseBattle
	PhaseMain2
	PhaseEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseDraw:
		return "Draw Phase"
	case PhaseMain1:
		return "Main Phase 1"
	case PhaseBattle:
		return "Battle Phase"
	case PhaseMain2:
		return "Main Phase 2"
	case PhaseEnd:
		return "End Phase"
	default:
		return "None"
	}
}

// IsMain reports whether cards may be played from hand in this phase.
func (p Phase) IsMain() bool {
	return p == PhaseMain1 || p == PhaseMain2
}

type CardKind int

const (
	KindCreature CardKind = iota
	KindSpell
	KindTrap
	KindField
)

func (k CardKind) String() string {
	switch k {
	case KindCreature:
		return "creature"
	case KindSpell:
		return "spell"
	case KindTrap:
		return "trap"
	case KindField:
		return "field"
	default:
		return "unknown"
	}
}

func (k CardKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *CardKind) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "creature":
		*k = KindCreature
	case "spell":
		*k = KindSpell
	case "trap":
		*k = KindTrap
	case "field":
		*k = KindField
	default:
		return fmt.Errorf("unknown card kind %q", b)
	}
	return nil
}

type Attribute int

const (
	AttrNone Attribute = iota
	AttrWind
	AttrForest
	AttrFire
	AttrWater
	AttrDark
	AttrLight
	AttrEarth
)

var attributeNames = map[Attribute]string{
	AttrNone:   "",
	AttrWind:   "wind",
	AttrForest: "forest",
	AttrFire:   "fire",
	AttrWater:  "water",
	AttrDark:   "dark",
	AttrLight:  "light",
	AttrEarth:  "earth",
}

func (a Attribute) String() string {
	return attributeNames[a]
}

func (a Attribute) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Attribute) UnmarshalText(b []byte) error {
	name := strings.ToLower(string(b))
	for attr, n := range attributeNames {
		if n == name {
			*a = attr
			return nil
		}
	}
	return fmt.Errorf("unknown attribute %q", b)
}

type Rarity int

const (
	RarityCommon Rarity = iota
	RarityRare
	RaritySuperRare
	RarityLegendary
)

var rarityNames = map[Rarity]string{
	RarityCommon:    "common",
	RarityRare:      "rare",
	RaritySuperRare: "super-rare",
	RarityLegendary: "legendary",
}

func (r Rarity) String() string {
	return rarityNames[r]
}

func (r Rarity) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Rarity) UnmarshalText(b []byte) error {
	name := strings.ToLower(string(b))
	for rarity, n := range rarityNames {
		if n == name {
			*r = rarity
			return nil
		}
	}
	return fmt.Errorf("unknown rarity %q", b)
}

// Subtype refines spells and traps.
type Subtype int

const (
	SubtypeNormal Subtype = iota
	SubtypeQuick
	SubtypeContinuous
)

func (s Subtype) String() string {
	switch s {
	case SubtypeQuick:
		return "quick"
	case SubtypeContinuous:
		return "continuous"
	default:
		return "normal"
	}
}

func (s Subtype) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Subtype) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "", "normal":
		*s = SubtypeNormal
	case "quick":
		*s = SubtypeQuick
	case "continuous":
		*s = SubtypeContinuous
	default:
		return fmt.Errorf("unknown subtype %q", b)
	}
	return nil
}

// --- Card definition (static, from the catalog) ---

// CardTemplate is the immutable definition of a card. Templates are only ever
// produced by a Catalog.
type CardTemplate struct {
	ID          string    `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Kind        CardKind  `yaml:"kind" json:"kind"`
	Attribute   Attribute `yaml:"attribute,omitempty" json:"attribute,omitempty"`
	Level       int       `yaml:"level,omitempty" json:"level,omitempty"`
	ATK         int       `yaml:"atk,omitempty" json:"atk,omitempty"`
	DEF         int       `yaml:"def,omitempty" json:"def,omitempty"`
	Rarity      Rarity    `yaml:"rarity,omitempty" json:"rarity"`
	Subtype     Subtype   `yaml:"subtype,omitempty" json:"subtype"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
}

func (c *CardTemplate) String() string {
	return c.Name
}

// TributesRequired returns the number of tributes needed to normal summon this creature.
func (c *CardTemplate) TributesRequired() int {
	return TributesForLevel(c.Level)
}

// TributesForLevel maps a creature level to its tribute cost.
func TributesForLevel(level int) int {
	switch {
	case level <= 4:
		return 0
	case level <= 6:
		return 1
	case level <= 8:
		return 2
	default:
		return 3
	}
}

// --- CardInstance (runtime card in a zone) ---

// CardFlag is a per-instance boolean battle state.
type CardFlag uint8

const (
	FlagAttacked CardFlag = 1 << iota
	FlagIndestructible
)

// CardInstance is one physical copy of a template inside a duel. Instances are
// treated as immutable once a BoardState is published; the engine clones an
// instance before changing it.
type CardInstance struct {
	ID       uint64
	Template *CardTemplate
	Owner    PlayerID
	FaceDown bool

	ATK   int // current attack, recomputed from base by auras
	DEF   int // current defense, recomputed from base by auras
	Flags CardFlag

	// UsedThisTurn marks once-per-turn effects that already fired.
	UsedThisTurn map[EffectKind]bool

	// Effects are resolved from the hook table when the instance is created.
	Effects []Effect
}

// Has reports whether the flag is set.
func (ci *CardInstance) Has(f CardFlag) bool {
	return ci.Flags&f != 0
}

func (ci *CardInstance) String() string {
	if ci == nil {
		return "(empty)"
	}
	return ci.Template.Name
}

// DisplayString returns a human-readable description for the event log.
func (ci *CardInstance) DisplayString() string {
	if ci == nil {
		return "(empty)"
	}
	if ci.Template.Kind == KindCreature {
		return fmt.Sprintf("%s (ATK %d/DEF %d)", ci.Template.Name, ci.ATK, ci.DEF)
	}
	return ci.Template.Name
}

// clone returns a copy that can be changed without affecting published states.
func (ci *CardInstance) clone() *CardInstance {
	c := *ci
	if ci.UsedThisTurn != nil {
		c.UsedThisTurn = make(map[EffectKind]bool, len(ci.UsedThisTurn))
		for k, v := range ci.UsedThisTurn {
			c.UsedThisTurn[k] = v
		}
	}
	return &c
}

// resetStats restores base attack and defense.
func (ci *CardInstance) resetStats() {
	ci.ATK = ci.Template.ATK
	ci.DEF = ci.Template.DEF
}

// --- Action types ---

type ActionType int

const (
	ActionAdvancePhase ActionType = iota
	ActionSummonFromHand
	ActionActivateSpellFromHand
	ActionSetTrapFromHand
	ActionAttack
	ActionEndTurn
)

func (a ActionType) String() string {
	switch a {
	case ActionAdvancePhase:
		return "ADVANCE_PHASE"
	case ActionSummonFromHand:
		return "SUMMON_FROM_HAND"
	case ActionActivateSpellFromHand:
		return "ACTIVATE_SPELL_FROM_HAND"
	case ActionSetTrapFromHand:
		return "SET_TRAP_FROM_HAND"
	case ActionAttack:
		return "ATTACK"
	case ActionEndTurn:
		return "END_TURN"
	default:
		return "UNKNOWN"
	}
}

// Action is a tagged record. Only the fields relevant to Type are read.
type Action struct {
	Type ActionType `json:"type"`

	HandIndex int   `json:"handIndex,omitempty"` // summon, activate, set
	Tributes  []int `json:"tributes,omitempty"`  // summon

	AttackerIndex int  `json:"attackerIndex,omitempty"` // attack
	TargetIndex   int  `json:"targetIndex,omitempty"`   // attack
	Direct        bool `json:"direct,omitempty"`        // attack

	Desc string `json:"desc,omitempty"` // human-readable description
}

func (a Action) String() string {
	if a.Desc != "" {
		return a.Desc
	}
	return a.Type.String()
}

// Constructors for the action vocabulary.

func AdvancePhase() Action { return Action{Type: ActionAdvancePhase} }

func EndTurn() Action { return Action{Type: ActionEndTurn} }

func SummonFromHand(handIndex int, tributes ...int) Action {
	return Action{Type: ActionSummonFromHand, HandIndex: handIndex, Tributes: tributes}
}

func ActivateSpellFromHand(handIndex int) Action {
	return Action{Type: ActionActivateSpellFromHand, HandIndex: handIndex}
}

func SetTrapFromHand(handIndex int) Action {
	return Action{Type: ActionSetTrapFromHand, HandIndex: handIndex}
}

func Attack(attackerIndex, targetIndex int) Action {
	return Action{Type: ActionAttack, AttackerIndex: attackerIndex, TargetIndex: targetIndex}
}

func DirectAttack(attackerIndex int) Action {
	return Action{Type: ActionAttack, AttackerIndex: attackerIndex, Direct: true}
}
