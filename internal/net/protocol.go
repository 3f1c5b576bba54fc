package net

import (
	"github.com/peterkuimelis/lendas/internal/game"
	"github.com/peterkuimelis/lendas/internal/log"
)

// Message types sent by the server.
const (
	MsgNotify       = "notify"
	MsgState        = "state"
	MsgChooseAction = "choose_action"
	MsgRejected     = "rejected"
	MsgGameOver     = "game_over"
)

// Message types sent by the client.
const (
	MsgJoin   = "join"
	MsgAction = "action"
)

// ServerMessage is sent from server to client as newline-delimited JSON.
type ServerMessage struct {
	Type    string       `json:"type"`
	Event   *EventView   `json:"event,omitempty"`
	Actions []ActionView `json:"actions,omitempty"`
	State   *StateView   `json:"state,omitempty"`
	Error   string       `json:"error,omitempty"`
	Winner  int          `json:"winner,omitempty"`
	Result  string       `json:"result,omitempty"`
}

// EventView is a serializable game event.
type EventView struct {
	Turn    int    `json:"turn"`
	Phase   string `json:"phase"`
	Player  int    `json:"player"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Details string `json:"details"`
}

// NewEventView converts an engine event for the wire.
func NewEventView(e log.GameEvent) *EventView {
	return &EventView{
		Turn:    e.Turn,
		Phase:   e.Phase,
		Player:  e.Player,
		Type:    e.Type.String(),
		Card:    e.Card,
		Details: e.Details,
	}
}

// ActionView is a serializable action choice.
type ActionView struct {
	Index int    `json:"index"`
	Type  string `json:"type"`
	Desc  string `json:"desc"`
}

// NewActionViews numbers actions in enumeration order.
func NewActionViews(actions []game.Action) []ActionView {
	views := make([]ActionView, len(actions))
	for i, a := range actions {
		views[i] = ActionView{Index: i, Type: a.Type.String(), Desc: a.String()}
	}
	return views
}

// CardView is a serializable card in hand.
type CardView struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Level int    `json:"level,omitempty"`
	ATK   int    `json:"atk,omitempty"`
	DEF   int    `json:"def,omitempty"`
	Text  string `json:"text,omitempty"`
}

// StateView is the visible board from one player's perspective.
type StateView struct {
	You        PlayerView `json:"you"`
	Opponent   PlayerView `json:"opponent"`
	Turn       int        `json:"turn"`
	Phase      string     `json:"phase"`
	IsYourTurn bool       `json:"isYourTurn"`
	Winner     string     `json:"winner,omitempty"`
}

// PlayerView is one player's visible state.
type PlayerView struct {
	LP             int                          `json:"lp"`
	HandCount      int                          `json:"handCount"`
	Hand           []CardView                   `json:"hand,omitempty"` // only for self
	Creatures      [game.CreatureSlots]ZoneView `json:"creatures"`
	Backrow        [game.BackrowSlots]ZoneView  `json:"backrow"`
	FieldCard      ZoneView                     `json:"fieldCard"`
	GraveyardCount int                          `json:"graveyardCount"`
	DeckCount      int                          `json:"deckCount"`
	SummonUsed     bool                         `json:"summonUsed"`
}

// ZoneView is the visible content of one zone slot.
type ZoneView struct {
	Empty    bool   `json:"empty"`
	FaceDown bool   `json:"faceDown,omitempty"`
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	ATK      int    `json:"atk,omitempty"`
	DEF      int    `json:"def,omitempty"`
	Attacked bool   `json:"attacked,omitempty"`
	Borrowed bool   `json:"borrowed,omitempty"` // controlled by the non-owner
}

// ClientMessage is sent from client to server.
type ClientMessage struct {
	Type       string `json:"type"`
	Index      int    `json:"index,omitempty"`
	DeckNumber int    `json:"deckNumber,omitempty"`
}
