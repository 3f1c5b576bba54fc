package catalog

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DeckFile represents the top-level YAML structure of a deck list.
type DeckFile struct {
	Starter   string      `yaml:"starter"`
	StarterAI string      `yaml:"starter_ai"`
	Decks     []DeckEntry `yaml:"decks"`
}

// DeckEntry represents a single deck in the YAML file.
type DeckEntry struct {
	Name  string      `yaml:"name" json:"name"`
	Cards []CardEntry `yaml:"cards" json:"cards"`
}

// CardEntry represents a card and its count in a deck.
type CardEntry struct {
	ID    string `yaml:"id" json:"id"`
	Count int    `yaml:"count" json:"count"`
}

// Size returns the number of cards in the deck.
func (d DeckEntry) Size() int {
	n := 0
	for _, e := range d.Cards {
		n += e.Count
	}
	return n
}

// ParseDeckFile parses a YAML deck list.
func ParseDeckFile(data []byte) (DeckFile, error) {
	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return df, fmt.Errorf("parse deck YAML: %w", err)
	}
	return df, nil
}

// expand turns a deck entry into a flat list of card ids, checking each id
// against the catalog.
func (c *Catalog) expand(d DeckEntry) ([]string, error) {
	var ids []string
	for _, e := range d.Cards {
		if _, ok := c.cards[e.ID]; !ok {
			return nil, fmt.Errorf("deck %q: unknown card id %q", d.Name, e.ID)
		}
		if e.Count < 1 {
			return nil, fmt.Errorf("deck %q: card %q has count %d", d.Name, e.ID, e.Count)
		}
		for range e.Count {
			ids = append(ids, e.ID)
		}
	}
	return ids, nil
}
