package agent

import (
	"sync"

	"github.com/kumite/kumite/internal/core/action"
	"github.com/kumite/kumite/internal/core/gamestate"
	"github.com/kumite/kumite/internal/core/input"
)

// HumanAgent turns externally captured key states into catalog actions.
// The capture layer calls SetPressed whenever the held set changes; the
// frame loop reads the translation like any other agent. Combinations not
// listed in the catalog resolve to neutral.
type HumanAgent struct {
	name       string
	translator *input.Translator
	neutral    action.ID

	mu      sync.Mutex
	pressed []string
}

var _ Agent = (*HumanAgent)(nil)

func NewHumanAgent(name string, keymap input.KeyMap, catalog *action.Catalog) *HumanAgent {
	neutral := action.ID(0)
	if id, ok := catalog.Neutral(); ok {
		neutral = id
	}
	return &HumanAgent{
		name:       name,
		translator: input.NewTranslator(keymap, catalog),
		neutral:    neutral,
	}
}

func (a *HumanAgent) Name() string { return a.name }

// SetPressed replaces the held key set.
func (a *HumanAgent) SetPressed(keys []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pressed = append(a.pressed[:0], keys...)
}

func (a *HumanAgent) SelectAction(gamestate.Snapshot) action.ID {
	a.mu.Lock()
	pressed := append([]string(nil), a.pressed...)
	a.mu.Unlock()

	if id, ok := a.translator.ActionID(pressed); ok {
		return id
	}
	return a.neutral
}

func (a *HumanAgent) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pressed = a.pressed[:0]
}
