package game

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync/atomic"

	"github.com/peterkuimelis/lendas/internal/log"
)

const (
	StartingLP      = 8000
	InitialHandSize = 5
	CreatureSlots   = 5
	BackrowSlots    = 3
	LogCapacity     = 64
)

// Catalog is the card catalog the engine instantiates cards through.
type Catalog interface {
	CardByID(id string) (*CardTemplate, bool)
	All() []*CardTemplate
	StarterDeck() []string
	StarterDeckAI() []string
}

// IDAllocator hands out card instance IDs.
type IDAllocator interface {
	NextID() uint64
}

// processIDs is unique for the lifetime of the process; IDs are never reused.
type processIDs struct {
	n atomic.Uint64
}

func (p *processIDs) NextID() uint64 {
	return p.n.Add(1)
}

// DefaultIDs is the process-wide instance ID allocator.
var DefaultIDs IDAllocator = &processIDs{}

// Field holds the positional zones of one player.
type Field struct {
	Creatures [CreatureSlots]*CardInstance
	Backrow   [BackrowSlots]*CardInstance
	FieldCard *CardInstance
}

// PlayerState represents one player's entire state.
type PlayerState struct {
	LifePoints int
	Deck       []*CardInstance // top of deck is index 0
	Hand       []*CardInstance
	Graveyard  []*CardInstance
	Banished   []*CardInstance

	NormalSummonUsed bool
	Field            Field
}

// FreeCreatureSlot returns the index of the first empty creature slot, or -1.
func (p *PlayerState) FreeCreatureSlot() int {
	for i, c := range p.Field.Creatures {
		if c == nil {
			return i
		}
	}
	return -1
}

// FreeBackrowSlot returns the index of the first empty backrow slot, or -1.
func (p *PlayerState) FreeBackrowSlot() int {
	for i, c := range p.Field.Backrow {
		if c == nil {
			return i
		}
	}
	return -1
}

// CreatureCount returns the number of creatures on the field.
func (p *PlayerState) CreatureCount() int {
	count := 0
	for _, c := range p.Field.Creatures {
		if c != nil {
			count++
		}
	}
	return count
}

// Creatures returns all non-nil creatures on the field in slot order.
func (p *PlayerState) Creatures() []*CardInstance {
	var result []*CardInstance
	for _, c := range p.Field.Creatures {
		if c != nil {
			result = append(result, c)
		}
	}
	return result
}

// BackrowCards returns all non-nil backrow cards in slot order.
func (p *PlayerState) BackrowCards() []*CardInstance {
	var result []*CardInstance
	for _, c := range p.Field.Backrow {
		if c != nil {
			result = append(result, c)
		}
	}
	return result
}

// HandCard returns the hand card at index i, or nil when out of range.
func (p *PlayerState) HandCard(i int) *CardInstance {
	if i < 0 || i >= len(p.Hand) {
		return nil
	}
	return p.Hand[i]
}

// Creature returns the creature in slot i, or nil when empty or out of range.
func (p *PlayerState) Creature(i int) *CardInstance {
	if i < 0 || i >= CreatureSlots {
		return nil
	}
	return p.Field.Creatures[i]
}

// Zone slices may be shared with earlier states, so every change builds a new slice.

func (p *PlayerState) removeFromHand(i int) *CardInstance {
	card := p.Hand[i]
	p.Hand = slices.Delete(slices.Clone(p.Hand), i, i+1)
	return card
}

func (p *PlayerState) addToHand(card *CardInstance) {
	p.Hand = append(slices.Clip(p.Hand), card)
}

func (p *PlayerState) addToGraveyard(card *CardInstance) {
	p.Graveyard = append(slices.Clip(p.Graveyard), card)
}

// drawCard removes the top card from the deck and adds it to the hand.
// Returns nil if the deck is empty.
func (p *PlayerState) drawCard() *CardInstance {
	if len(p.Deck) == 0 {
		return nil
	}
	card := p.Deck[0]
	p.Deck = slices.Clone(p.Deck[1:])
	p.addToHand(card)
	return card
}

func (p *PlayerState) insertIntoDeck(pos int, card *CardInstance) {
	p.Deck = slices.Insert(slices.Clone(p.Deck), pos, card)
}

// editCreature clones the creature in slot i into place and returns the copy.
func (p *PlayerState) editCreature(i int) *CardInstance {
	c := p.Field.Creatures[i].clone()
	p.Field.Creatures[i] = c
	return c
}

func (p *PlayerState) clone() *PlayerState {
	c := *p
	return &c
}

// --- BoardState ---

// BoardState holds the complete state of a duel. A published BoardState is
// never mutated; the engine derives new states from it.
type BoardState struct {
	Turn    int
	Current PlayerID
	Phase   Phase
	Players [2]*PlayerState
	Winner  PlayerID

	// Log keeps the most recent events, oldest first.
	Log []log.GameEvent

	rng rand.PCG
}

// Player returns the state of the given side.
func (s *BoardState) Player(id PlayerID) *PlayerState {
	return s.Players[id]
}

// CurrentPlayer returns the acting player's state.
func (s *BoardState) CurrentPlayer() *PlayerState {
	return s.Players[s.Current]
}

// OpponentPlayer returns the non-acting player's state.
func (s *BoardState) OpponentPlayer() *PlayerState {
	return s.Players[s.Current.Opponent()]
}

// Over reports whether a winner has been decided.
func (s *BoardState) Over() bool {
	return s.Winner != NoPlayer
}

// Clone returns a copy sharing every card instance and zone slice with s.
func (s *BoardState) Clone() *BoardState {
	c := *s
	c.Players[0] = s.Players[0].clone()
	c.Players[1] = s.Players[1].clone()
	return &c
}

func (s *BoardState) appendLog(e log.GameEvent) {
	entries := s.Log
	if len(entries) >= LogCapacity {
		entries = entries[len(entries)-LogCapacity+1:]
	}
	s.Log = append(slices.Clip(entries), e)
}

// Setup configures a new duel.
type Setup struct {
	Catalog   Catalog
	DeckA     []string // card ids, drawn from the front
	DeckB     []string
	Seed      uint64 // RNG seed (0 for random)
	NoShuffle bool   // skip deck shuffle (for deterministic tests)
	IDs       IDAllocator
}

// NewBoardState builds a fresh duel: both decks instantiated and shuffled, five
// cards dealt to each hand, Draw phase of turn 1 with PlayerA acting.
func NewBoardState(cfg Setup) (*BoardState, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("new board state: no catalog")
	}
	ids := cfg.IDs
	if ids == nil {
		ids = DefaultIDs
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	s := &BoardState{
		Turn:    1,
		Current: PlayerA,
		Phase:   PhaseDraw,
		Winner:  NoPlayer,
		rng:     *rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
	}
	r := rand.New(&s.rng)

	for i, deck := range [2][]string{cfg.DeckA, cfg.DeckB} {
		owner := PlayerID(i)
		p := &PlayerState{LifePoints: StartingLP}
		for _, id := range deck {
			tpl, ok := cfg.Catalog.CardByID(id)
			if !ok {
				return nil, fmt.Errorf("deck %s: unknown card id %q", owner, id)
			}
			p.Deck = append(p.Deck, NewCardInstance(tpl, owner, ids))
		}
		if !cfg.NoShuffle {
			r.Shuffle(len(p.Deck), func(i, j int) {
				p.Deck[i], p.Deck[j] = p.Deck[j], p.Deck[i]
			})
		}
		for n := 0; n < InitialHandSize; n++ {
			if p.drawCard() == nil {
				break
			}
		}
		s.Players[i] = p
	}

	return s, nil
}

// NewCardInstance creates an instance of tpl owned by owner and resolves its
// effect hooks.
func NewCardInstance(tpl *CardTemplate, owner PlayerID, ids IDAllocator) *CardInstance {
	return &CardInstance{
		ID:       ids.NextID(),
		Template: tpl,
		Owner:    owner,
		ATK:      tpl.ATK,
		DEF:      tpl.DEF,
		Effects:  EffectsFor(tpl.ID),
	}
}
