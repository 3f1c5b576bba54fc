package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBurnAndHeal(t *testing.T) {
	s := newBoard(t, []string{"fogueira-de-sao-joao", "benzedeira"}, nil, PhaseMain1)
	s.Players[PlayerA].LifePoints = 5000

	s = mustStep(t, s, ActivateSpellFromHand(0))
	assert.Equal(t, StartingLP-600, s.Players[PlayerB].LifePoints)
	s = mustStep(t, s, ActivateSpellFromHand(0))
	assert.Equal(t, 6000, s.Players[PlayerA].LifePoints)

	p := s.Players[PlayerA]
	require.Len(t, p.Graveyard, 2)
	assert.Equal(t, "fogueira-de-sao-joao", p.Graveyard[0].Template.ID)
	assert.Len(t, p.Hand, InitialHandSize-2)
}

func TestBurnCanWin(t *testing.T) {
	s := newBoard(t, []string{"fogueira-de-sao-joao"}, nil, PhaseMain2)
	s.Players[PlayerB].LifePoints = 600

	s = mustStep(t, s, ActivateSpellFromHand(0))
	assert.Equal(t, PlayerA, s.Winner)
	assert.Equal(t, 0, s.Players[PlayerB].LifePoints)
}

func TestDrawStopsOnEmptyDeck(t *testing.T) {
	s := newBoard(t, []string{"simpatia"}, nil, PhaseMain1)
	p := s.Players[PlayerA]
	p.Deck = p.Deck[:1]

	s = mustStep(t, s, ActivateSpellFromHand(0))
	assert.Len(t, s.Players[PlayerA].Hand, InitialHandSize)
	assert.Empty(t, s.Players[PlayerA].Deck)
	assert.Equal(t, NoPlayer, s.Winner, "running out mid-effect does not lose")
}

func TestProtectStrongest(t *testing.T) {
	s := newBoard(t, []string{"patua"}, nil, PhaseMain1)
	place(t, s, PlayerA, 0, "even1500")
	place(t, s, PlayerA, 1, "atk1800")

	s = mustStep(t, s, ActivateSpellFromHand(0))
	assert.True(t, s.Players[PlayerA].Field.Creatures[1].Has(FlagIndestructible))
	assert.False(t, s.Players[PlayerA].Field.Creatures[0].Has(FlagIndestructible))

	s = mustStep(t, s, EndTurn())
	assert.False(t, s.Players[PlayerA].Field.Creatures[1].Has(FlagIndestructible))
}

func TestDestroyBackrowPrefersFieldCard(t *testing.T) {
	s := newBoard(t, []string{"redemoinho", "redemoinho"}, nil, PhaseMain1)
	setBackrow(t, s, PlayerB, 1, "arapuca")
	tpl, _ := cards.CardByID("mata-atlantica")
	s.Players[PlayerB].Field.FieldCard = NewCardInstance(tpl, PlayerB, DefaultIDs)

	s = mustStep(t, s, ActivateSpellFromHand(0))
	opp := s.Players[PlayerB]
	assert.Nil(t, opp.Field.FieldCard)
	assert.NotNil(t, opp.Field.Backrow[1])

	s = mustStep(t, s, ActivateSpellFromHand(0))
	opp = s.Players[PlayerB]
	assert.Nil(t, opp.Field.Backrow[1])
	assert.Len(t, opp.Graveyard, 2)
}

func TestMindControlReturnsAtEndOfTurn(t *testing.T) {
	s := newBoard(t, []string{"feitico-do-boto"}, nil, PhaseMain1)
	place(t, s, PlayerB, 0, "even1500")
	stolen := place(t, s, PlayerB, 3, "lvl7")

	s = mustStep(t, s, ActivateSpellFromHand(0))
	mine := s.Players[PlayerA].Field.Creatures[0]
	require.NotNil(t, mine)
	assert.Equal(t, stolen.ID, mine.ID)
	assert.Equal(t, PlayerB, mine.Owner)
	assert.Nil(t, s.Players[PlayerB].Field.Creatures[3])

	// it can attack for its new controller
	s.Phase = PhaseBattle
	s = mustStep(t, s, Attack(0, 0))
	assert.Equal(t, StartingLP-(2500-1500), s.Players[PlayerB].LifePoints)

	s = mustStep(t, s, EndTurn())
	assert.Nil(t, s.Players[PlayerA].Field.Creatures[0])
	back := s.Players[PlayerB].Field.Creatures[0]
	require.NotNil(t, back, "returns to the owner's first empty slot")
	assert.Equal(t, stolen.ID, back.ID)
	assert.False(t, back.Has(FlagAttacked))
}

func TestMindControlReturnsToGraveyardWhenOwnerFull(t *testing.T) {
	s := newBoard(t, []string{"feitico-do-boto", "atk1800"}, nil, PhaseMain1)
	for i := range CreatureSlots {
		place(t, s, PlayerB, i, "filler")
	}
	place(t, s, PlayerB, 4, "lvl7")

	s = mustStep(t, s, ActivateSpellFromHand(0))
	require.Equal(t, 4, s.Players[PlayerB].CreatureCount())

	// the owner refills the gap before the creature comes home
	s.Players[PlayerB].Field.Creatures[4] = NewCardInstance(cards["filler"], PlayerB, DefaultIDs)
	s = mustStep(t, s, EndTurn())
	assert.Equal(t, 0, s.Players[PlayerA].CreatureCount())
	gy := s.Players[PlayerB].Graveyard
	require.Len(t, gy, 1)
	assert.Equal(t, "lvl7", gy[0].Template.ID)
}

func TestMindControlWithoutTargetFizzles(t *testing.T) {
	s := newBoard(t, []string{"feitico-do-boto"}, nil, PhaseMain1)
	s = mustStep(t, s, ActivateSpellFromHand(0))
	assert.Equal(t, 0, s.Players[PlayerA].CreatureCount())
	assert.Len(t, s.Players[PlayerA].Graveyard, 1)
}

func TestContinuousSpellStaysInBackrow(t *testing.T) {
	s := newBoard(t, []string{"figa", "figa", "figa", "figa"}, nil, PhaseMain1)
	for range BackrowSlots {
		s = mustStep(t, s, ActivateSpellFromHand(0))
	}
	assert.Len(t, s.Players[PlayerA].BackrowCards(), BackrowSlots)
	assert.Empty(t, s.Players[PlayerA].Graveyard)

	out := Step(s, ActivateSpellFromHand(0))
	assert.ErrorIs(t, out.Err, ErrBackrowFull)
}

func TestFieldCardReplacesPrevious(t *testing.T) {
	s := newBoard(t, []string{"mata-atlantica", "noite-de-lua-cheia"}, nil, PhaseMain1)
	s = mustStep(t, s, ActivateSpellFromHand(0))
	s = mustStep(t, s, ActivateSpellFromHand(0))

	p := s.Players[PlayerA]
	require.NotNil(t, p.Field.FieldCard)
	assert.Equal(t, "noite-de-lua-cheia", p.Field.FieldCard.Template.ID)
	require.Len(t, p.Graveyard, 1)
	assert.Equal(t, "mata-atlantica", p.Graveyard[0].Template.ID)
}

func TestSetTrap(t *testing.T) {
	s := newBoard(t, []string{"arapuca"}, nil, PhaseMain2)
	s = mustStep(t, s, SetTrapFromHand(0))

	trap := s.Players[PlayerA].Field.Backrow[0]
	require.NotNil(t, trap)
	assert.True(t, trap.FaceDown)
	assert.Len(t, s.Players[PlayerA].Hand, InitialHandSize-1)
}
