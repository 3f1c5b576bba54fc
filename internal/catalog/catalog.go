// Package catalog loads card templates and deck lists from YAML. A default set
// of folklore cards is embedded in the binary.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/peterkuimelis/lendas/internal/game"
)

var (
	//go:embed cards.yaml
	defaultCards []byte
	//go:embed decks.yaml
	defaultDecks []byte
)

type cardFile struct {
	Cards []*game.CardTemplate `yaml:"cards"`
}

// Catalog is an immutable card catalog. It implements game.Catalog.
type Catalog struct {
	cards map[string]*game.CardTemplate
	order []*game.CardTemplate
	decks []DeckEntry
	named map[string][]string

	starter, starterAI string
}

var _ game.Catalog = (*Catalog)(nil)

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultCards, defaultDecks)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Load reads a catalog from files. An empty path falls back to the embedded
// card set or deck list.
func Load(cardsPath, decksPath string) (*Catalog, error) {
	cardsData, decksData := defaultCards, defaultDecks
	var err error
	if cardsPath != "" {
		if cardsData, err = os.ReadFile(cardsPath); err != nil {
			return nil, fmt.Errorf("read cards: %w", err)
		}
	}
	if decksPath != "" {
		if decksData, err = os.ReadFile(decksPath); err != nil {
			return nil, fmt.Errorf("read decks: %w", err)
		}
	}
	return Parse(cardsData, decksData)
}

// Parse builds a catalog from YAML card and deck documents.
func Parse(cardsYAML, decksYAML []byte) (*Catalog, error) {
	var cf cardFile
	if err := yaml.Unmarshal(cardsYAML, &cf); err != nil {
		return nil, fmt.Errorf("parse cards YAML: %w", err)
	}

	c := &Catalog{
		cards: make(map[string]*game.CardTemplate, len(cf.Cards)),
		named: make(map[string][]string),
	}
	for _, tpl := range cf.Cards {
		if err := validate(tpl); err != nil {
			return nil, err
		}
		if _, dup := c.cards[tpl.ID]; dup {
			return nil, fmt.Errorf("duplicate card id %q", tpl.ID)
		}
		c.cards[tpl.ID] = tpl
		c.order = append(c.order, tpl)
	}

	df, err := ParseDeckFile(decksYAML)
	if err != nil {
		return nil, err
	}
	for _, d := range df.Decks {
		ids, err := c.expand(d)
		if err != nil {
			return nil, err
		}
		c.decks = append(c.decks, d)
		c.named[d.Name] = ids
	}
	for _, name := range []string{df.Starter, df.StarterAI} {
		if _, ok := c.named[name]; !ok {
			return nil, fmt.Errorf("starter deck %q is not in the deck list", name)
		}
	}
	c.starter, c.starterAI = df.Starter, df.StarterAI
	return c, nil
}

func validate(tpl *game.CardTemplate) error {
	switch {
	case tpl.ID == "":
		return fmt.Errorf("card %q has no id", tpl.Name)
	case tpl.Name == "":
		return fmt.Errorf("card %q has no name", tpl.ID)
	case tpl.Kind == game.KindCreature && tpl.Level < 1:
		return fmt.Errorf("creature %q has no level", tpl.ID)
	case tpl.ATK < 0 || tpl.DEF < 0:
		return fmt.Errorf("card %q has negative stats", tpl.ID)
	}
	return nil
}

// CardByID looks up a template.
func (c *Catalog) CardByID(id string) (*game.CardTemplate, bool) {
	tpl, ok := c.cards[id]
	return tpl, ok
}

// All returns every template in file order.
func (c *Catalog) All() []*game.CardTemplate {
	return slices.Clone(c.order)
}

// StarterDeck returns the player's starter deck as card ids.
func (c *Catalog) StarterDeck() []string {
	return slices.Clone(c.named[c.starter])
}

// StarterDeckAI returns the AI's starter deck as card ids.
func (c *Catalog) StarterDeckAI() []string {
	return slices.Clone(c.named[c.starterAI])
}

// Decks returns the named deck lists in file order.
func (c *Catalog) Decks() []DeckEntry {
	return slices.Clone(c.decks)
}

// Deck returns the card ids of a named deck.
func (c *Catalog) Deck(name string) ([]string, bool) {
	ids, ok := c.named[name]
	return slices.Clone(ids), ok
}

// DeckByNumber returns the Nth deck (1-indexed).
func (c *Catalog) DeckByNumber(n int) (string, []string, error) {
	if n < 1 || n > len(c.decks) {
		return "", nil, fmt.Errorf("deck %d not found (have %d decks)", n, len(c.decks))
	}
	name := c.decks[n-1].Name
	return name, slices.Clone(c.named[name]), nil
}
