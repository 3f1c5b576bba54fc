package web

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// CardInfo is the JSON representation of a card for the /api/cards endpoint.
type CardInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	Level       int    `json:"level,omitempty"`
	Attribute   string `json:"attribute,omitempty"`
	ATK         int    `json:"atk,omitempty"`
	DEF         int    `json:"def,omitempty"`
	Rarity      string `json:"rarity"`
	Subtype     string `json:"subtype"`
	Tributes    int    `json:"tributes,omitempty"`
}

// DeckInfo is the JSON representation of a deck for the /api/decks endpoint.
type DeckInfo struct {
	Number int      `json:"number"`
	Name   string   `json:"name"`
	Size   int      `json:"size"`
	Cards  []string `json:"cards"` // unique card names
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	var cards []CardInfo
	for _, tpl := range s.catalog.All() {
		ci := CardInfo{
			ID:          tpl.ID,
			Name:        tpl.Name,
			Description: tpl.Description,
			Kind:        tpl.Kind.String(),
			Level:       tpl.Level,
			Attribute:   tpl.Attribute.String(),
			ATK:         tpl.ATK,
			DEF:         tpl.DEF,
			Rarity:      tpl.Rarity.String(),
			Subtype:     tpl.Subtype.String(),
			Tributes:    tpl.TributesRequired(),
		}
		cards = append(cards, ci)
	}
	s.writeJSON(w, cards)
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	var decks []DeckInfo
	for i, d := range s.catalog.Decks() {
		di := DeckInfo{
			Number: i + 1,
			Name:   d.Name,
			Size:   d.Size(),
		}
		for _, e := range d.Cards {
			if tpl, ok := s.catalog.CardByID(e.ID); ok {
				di.Cards = append(di.Cards, tpl.Name)
			}
		}
		decks = append(decks, di)
	}
	s.writeJSON(w, decks)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", zap.Error(err))
	}
}
