package game

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// --- Test catalog ---

type testCatalog map[string]*CardTemplate

func (c testCatalog) CardByID(id string) (*CardTemplate, bool) {
	tpl, ok := c[id]
	return tpl, ok
}

func (c testCatalog) All() []*CardTemplate {
	var out []*CardTemplate
	for _, tpl := range c {
		out = append(out, tpl)
	}
	return out
}

func (c testCatalog) StarterDeck() []string   { return padDeck(nil, 40) }
func (c testCatalog) StarterDeckAI() []string { return padDeck(nil, 40) }

func creature(id string, attr Attribute, level, atk, def int) *CardTemplate {
	return &CardTemplate{ID: id, Name: id, Kind: KindCreature, Attribute: attr, Level: level, ATK: atk, DEF: def}
}

func spell(id string, sub Subtype) *CardTemplate {
	return &CardTemplate{ID: id, Name: id, Kind: KindSpell, Subtype: sub}
}

var cards = testCatalog{}

func init() {
	for _, tpl := range []*CardTemplate{
		creature("filler", AttrEarth, 1, 100, 100),
		creature("atk1800", AttrDark, 4, 1800, 1000),
		creature("def1800", AttrEarth, 4, 1000, 1800),
		creature("even1500", AttrLight, 4, 1500, 1500),
		creature("lvl5", AttrWind, 5, 2000, 1200),
		creature("lvl7", AttrDark, 7, 2500, 2100),
		creature("lvl9", AttrForest, 9, 3000, 2500),
		creature("saci", AttrWind, 3, 1300, 1000),
		creature("curupira", AttrForest, 4, 1900, 700),
		creature("iara", AttrWater, 4, 1400, 1600),
		creature("boitata", AttrFire, 5, 2100, 1500),
		creature("mula", AttrFire, 4, 1700, 1000),
		creature("mapinguari", AttrForest, 6, 2300, 2000),
		spell("fogueira-de-sao-joao", SubtypeNormal),
		spell("benzedeira", SubtypeNormal),
		spell("simpatia", SubtypeNormal),
		spell("patua", SubtypeQuick),
		spell("redemoinho", SubtypeNormal),
		spell("feitico-do-boto", SubtypeNormal),
		spell("figa", SubtypeContinuous),
		{ID: "mata-atlantica", Name: "mata-atlantica", Kind: KindField},
		{ID: "noite-de-lua-cheia", Name: "noite-de-lua-cheia", Kind: KindField},
		{ID: "arapuca", Name: "arapuca", Kind: KindTrap},
		{ID: "cerca-de-espinhos", Name: "cerca-de-espinhos", Kind: KindTrap, Subtype: SubtypeContinuous},
	} {
		cards[tpl.ID] = tpl
	}
}

// padDeck puts top first (top[0] is drawn first) and fills up to size with filler.
func padDeck(top []string, size int) []string {
	deck := append([]string(nil), top...)
	for len(deck) < size {
		deck = append(deck, "filler")
	}
	return deck
}

// newBoard builds an unshuffled duel whose opening hands are handA and handB
// (padded with filler), moved to phase.
func newBoard(t *testing.T, handA, handB []string, phase Phase) *BoardState {
	t.Helper()
	s, err := NewBoardState(Setup{
		Catalog:   cards,
		DeckA:     padDeck(handA, 20),
		DeckB:     padDeck(handB, 20),
		Seed:      7,
		NoShuffle: true,
	})
	require.NoError(t, err)
	s.Phase = phase
	return s
}

// place puts a fresh creature straight onto a side's field. Only for states
// that have not been handed to the engine yet.
func place(t *testing.T, s *BoardState, side PlayerID, slot int, id string) *CardInstance {
	t.Helper()
	tpl, ok := cards.CardByID(id)
	require.True(t, ok, id)
	c := NewCardInstance(tpl, side, DefaultIDs)
	s.Players[side].Field.Creatures[slot] = c
	settle(s)
	return c
}

func setBackrow(t *testing.T, s *BoardState, side PlayerID, slot int, id string) {
	t.Helper()
	tpl, ok := cards.CardByID(id)
	require.True(t, ok, id)
	c := NewCardInstance(tpl, side, DefaultIDs)
	c.FaceDown = tpl.Kind == KindTrap
	s.Players[side].Field.Backrow[slot] = c
	settle(s)
}

func settle(s *BoardState) {
	(&txn{s: s}).recomputeAuras()
}

// handIndex finds the first hand card with the given id.
func handIndex(t *testing.T, p *PlayerState, id string) int {
	t.Helper()
	for i, c := range p.Hand {
		if c.Template.ID == id {
			return i
		}
	}
	t.Fatalf("%s not in hand", id)
	return -1
}

// mustStep applies a and fails the test on rejection.
func mustStep(t *testing.T, s *BoardState, a Action) *BoardState {
	t.Helper()
	out := Step(s, a)
	require.NoError(t, out.Err, "action %s", a)
	return out.State
}

// fingerprint renders every observable part of a state, card instance
// contents included, so in-place mutation of shared data shows up.
func fingerprint(s *BoardState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "turn=%d cur=%s phase=%s winner=%s log=%d\n", s.Turn, s.Current, s.Phase, s.Winner, len(s.Log))
	rng, _ := s.rng.MarshalBinary()
	fmt.Fprintf(&b, "rng=%x\n", rng)
	card := func(c *CardInstance) string {
		if c == nil {
			return "-"
		}
		return fmt.Sprintf("%d:%s:%d/%d:f%d:d%v:u%v", c.ID, c.Template.ID, c.ATK, c.DEF, c.Flags, c.FaceDown, c.UsedThisTurn)
	}
	zone := func(cs []*CardInstance) string {
		parts := make([]string, len(cs))
		for i, c := range cs {
			parts[i] = card(c)
		}
		return strings.Join(parts, ",")
	}
	for i, p := range s.Players {
		fmt.Fprintf(&b, "p%d lp=%d nsu=%v\n", i, p.LifePoints, p.NormalSummonUsed)
		fmt.Fprintf(&b, " hand=%s\n deck=%s\n gy=%s\n", zone(p.Hand), zone(p.Deck), zone(p.Graveyard))
		fmt.Fprintf(&b, " creatures=%s\n backrow=%s\n field=%s\n",
			zone(p.Field.Creatures[:]), zone(p.Field.Backrow[:]), card(p.Field.FieldCard))
	}
	return b.String()
}

// --- Choosers ---

// scriptedChooser plays its actions in order, then declines.
type scriptedChooser struct {
	actions []Action
	pos     int
	seen    [][]Action
}

func (sc *scriptedChooser) ChooseAction(_ context.Context, _ *BoardState, actions []Action) (Action, error) {
	sc.seen = append(sc.seen, actions)
	if sc.pos >= len(sc.actions) {
		return Action{}, ErrNoAction
	}
	a := sc.actions[sc.pos]
	sc.pos++
	return a, nil
}

// eagerChooser takes the first listed action that is not ADVANCE_PHASE.
var eagerChooser = ChooserFunc(func(_ context.Context, _ *BoardState, actions []Action) (Action, error) {
	if len(actions) == 0 {
		return Action{}, ErrNoAction
	}
	for _, a := range actions {
		if a.Type != ActionAdvancePhase {
			return a, nil
		}
	}
	return actions[len(actions)-1], nil
})
