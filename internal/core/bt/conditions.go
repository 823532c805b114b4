package bt

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kumite/kumite/internal/core/gamestate"
)

// Predicate is a pure check against one frame of the fight. Predicates
// must not retain the snapshot or carry tick-to-tick state; anything that
// needs duration belongs in an action node.
type Predicate func(gamestate.Snapshot) bool

// Provider maps condition names to predicates. Trees reference conditions
// by name only; registration happens at setup time and the loader resolves
// each name exactly once while building a tree.
type Provider struct {
	mu    sync.RWMutex
	preds map[string]Predicate
}

func NewProvider() *Provider {
	return &Provider{preds: make(map[string]Predicate)}
}

// Register binds name to pred, replacing any previous binding.
func (p *Provider) Register(name string, pred Predicate) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.preds[name] = pred
}

// Lookup resolves a name to its predicate.
func (p *Provider) Lookup(name string) (Predicate, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	pred, ok := p.preds[name]
	return pred, ok
}

// Evaluate runs the named predicate against snap.
func (p *Provider) Evaluate(name string, snap gamestate.Snapshot) (bool, error) {
	pred, ok := p.Lookup(name)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownCondition, name)
	}
	return pred(snap), nil
}

// Names lists the registered conditions in sorted order.
func (p *Provider) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.preds))
	for name := range p.preds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RangeBands sets the horizontal distance thresholds the stock predicates
// cut on. Close doubles as the dead zone for the directional checks.
type RangeBands struct {
	Close int `json:"close" yaml:"close"`
	Far   int `json:"far" yaml:"far"`
}

func DefaultRangeBands() RangeBands {
	return RangeBands{Close: 50, Far: 150}
}

func (b RangeBands) Validate() error {
	if b.Close <= 0 {
		return fmt.Errorf("range bands: close must be positive, got %d", b.Close)
	}
	if b.Far <= b.Close {
		return fmt.Errorf("range bands: far (%d) must exceed close (%d)", b.Far, b.Close)
	}
	return nil
}

// RegisterDefaults installs the stock relative-position conditions.
func RegisterDefaults(p *Provider, bands RangeBands) {
	p.Register("is_enemy_to_the_right", func(s gamestate.Snapshot) bool {
		return s.PlayerX < s.EnemyX-bands.Close
	})
	p.Register("is_enemy_to_the_left", func(s gamestate.Snapshot) bool {
		return s.PlayerX > s.EnemyX+bands.Close
	})
	p.Register("is_close_to_enemy", func(s gamestate.Snapshot) bool {
		return s.DistanceX() <= bands.Close
	})
	p.Register("is_medium_range_enemy", func(s gamestate.Snapshot) bool {
		d := s.DistanceX()
		return d > bands.Close && d <= bands.Far
	})
	p.Register("is_long_range_enemy", func(s gamestate.Snapshot) bool {
		return s.DistanceX() > bands.Far
	})
}

// DefaultProvider is a provider preloaded with the stock conditions at the
// default bands.
func DefaultProvider() *Provider {
	p := NewProvider()
	RegisterDefaults(p, DefaultRangeBands())
	return p
}
