package masterdata

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Provider is the read-only lookup over all reference tables. The simulation
// core never mutates it.
type Provider struct {
	players  map[int]*PlayerStats
	wives    map[int]*WifeStats
	houses   map[int]*Housing
	foods    map[int]*FoodTier
	actions  map[int]*Action
	events   []*GameEvent
	settings *Settings
}

// sectionDecoder parses one named document section into the provider.
// The registry maps stable section keys to their typed decoders, resolved
// once per load instead of dispatching on reflected types.
type sectionDecoder func(p *Provider, node *yaml.Node) error

var sections = map[string]sectionDecoder{
	"players":    decodePlayers,
	"wives":      decodeWives,
	"houses":     decodeHouses,
	"food_tiers": decodeFoodTiers,
	"actions":    decodeActions,
	"events":     decodeEvents,
	"settings":   decodeSettings,
}

// Load reads the master-data document from a YAML file.
func Load(path string) (*Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read master data: %w", err)
	}
	p, err := LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse master data %s: %w", path, err)
	}
	return p, nil
}

// LoadBytes parses a master-data document from raw YAML.
func LoadBytes(data []byte) (*Provider, error) {
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	p := &Provider{
		players:  make(map[int]*PlayerStats),
		wives:    make(map[int]*WifeStats),
		houses:   make(map[int]*Housing),
		foods:    make(map[int]*FoodTier),
		actions:  make(map[int]*Action),
		settings: NewSettings(nil),
	}

	for key, node := range doc {
		dec, ok := sections[key]
		if !ok {
			slog.Warn("unknown master-data section skipped", "section", key)
			continue
		}
		n := node
		if err := dec(p, &n); err != nil {
			return nil, fmt.Errorf("section %q: %w", key, err)
		}
	}

	slog.Info("master data loaded",
		"players", len(p.players),
		"wives", len(p.wives),
		"houses", len(p.houses),
		"actions", len(p.actions),
		"events", len(p.events),
	)
	return p, nil
}

func decodePlayers(p *Provider, node *yaml.Node) error {
	var rows []*PlayerStats
	if err := node.Decode(&rows); err != nil {
		return err
	}
	for _, r := range rows {
		p.players[r.ID] = r
	}
	return nil
}

func decodeWives(p *Provider, node *yaml.Node) error {
	var rows []*WifeStats
	if err := node.Decode(&rows); err != nil {
		return err
	}
	for _, r := range rows {
		p.wives[r.ID] = r
	}
	return nil
}

func decodeHouses(p *Provider, node *yaml.Node) error {
	var rows []*Housing
	if err := node.Decode(&rows); err != nil {
		return err
	}
	for _, r := range rows {
		p.houses[r.ID] = r
	}
	return nil
}

func decodeFoodTiers(p *Provider, node *yaml.Node) error {
	var rows []*FoodTier
	if err := node.Decode(&rows); err != nil {
		return err
	}
	for _, r := range rows {
		p.foods[r.Rank] = r
	}
	return nil
}

func decodeActions(p *Provider, node *yaml.Node) error {
	var rows []*Action
	if err := node.Decode(&rows); err != nil {
		return err
	}
	for _, r := range rows {
		p.actions[r.ID] = r
	}
	return nil
}

func decodeEvents(p *Provider, node *yaml.Node) error {
	return node.Decode(&p.events)
}

func decodeSettings(p *Provider, node *yaml.Node) error {
	var values map[string]float64
	if err := node.Decode(&values); err != nil {
		return err
	}
	p.settings = NewSettings(values)
	return nil
}

// PlayerByID returns the player template for id, or nil.
func (p *Provider) PlayerByID(id int) *PlayerStats { return p.players[id] }

// WifeByID returns the wife template for id, or nil.
func (p *Provider) WifeByID(id int) *WifeStats { return p.wives[id] }

// HouseByID returns the housing entry for id, or nil.
func (p *Provider) HouseByID(id int) *Housing { return p.houses[id] }

// FoodTierByRank returns the food tier for a meal rank, or nil.
func (p *Provider) FoodTierByRank(rank int) *FoodTier { return p.foods[rank] }

// ActionByID returns the action definition for id, or nil.
func (p *Provider) ActionByID(id int) *Action { return p.actions[id] }

// Actions returns all loaded actions in unspecified order.
func (p *Provider) Actions() []*Action {
	out := make([]*Action, 0, len(p.actions))
	for _, a := range p.actions {
		out = append(out, a)
	}
	return out
}

// Events returns the random-event candidates.
func (p *Provider) Events() []*GameEvent { return p.events }

// Settings returns the keyed numeric settings table.
func (p *Provider) Settings() *Settings { return p.settings }
