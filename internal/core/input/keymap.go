// Package input translates physical key states into catalog actions. Key
// capture itself stays outside the module; callers feed in whatever set of
// key names their windowing layer reports as held.
package input

import (
	"sort"

	"github.com/kumite/kumite/internal/core/action"
)

// KeyMap maps key names to button labels. Keys missing from the map are
// ignored, so a player mashing unbound keys produces no phantom presses.
type KeyMap map[string]string

// DefaultP1 is the stock player-one layout: arrows plus Z/X/C and Enter.
func DefaultP1() KeyMap {
	return KeyMap{
		"UP":    "UP",
		"DOWN":  "DOWN",
		"LEFT":  "LEFT",
		"RIGHT": "RIGHT",
		"Z":     "A",
		"X":     "B",
		"C":     "C",
		"ENTER": "START",
	}
}

// DefaultP2 is the stock player-two layout: WASD plus T/Y/U and Enter.
func DefaultP2() KeyMap {
	return KeyMap{
		"W":     "UP",
		"S":     "DOWN",
		"A":     "LEFT",
		"D":     "RIGHT",
		"T":     "A",
		"Y":     "B",
		"U":     "C",
		"ENTER": "START",
	}
}

// Translator converts held keys into press vectors and catalog ids against
// a fixed keymap and catalog. Buttons bound in the keymap but absent from
// the registry are dropped.
type Translator struct {
	keymap  KeyMap
	catalog *action.Catalog
	bits    map[string]int
}

func NewTranslator(keymap KeyMap, catalog *action.Catalog) *Translator {
	bits := make(map[string]int)
	for i, label := range catalog.Buttons() {
		bits[label] = i
	}
	return &Translator{keymap: keymap, catalog: catalog, bits: bits}
}

// Buttons maps held keys to the distinct button labels they bind, sorted
// for stable output.
func (t *Translator) Buttons(pressed []string) []string {
	seen := make(map[string]struct{}, len(pressed))
	var buttons []string
	for _, key := range pressed {
		label, ok := t.keymap[key]
		if !ok {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		buttons = append(buttons, label)
	}
	sort.Strings(buttons)
	return buttons
}

// Vector builds the press vector for the held keys.
func (t *Translator) Vector(pressed []string) action.Vector {
	vec := make(action.Vector, t.catalog.Width())
	for _, key := range pressed {
		label, ok := t.keymap[key]
		if !ok {
			continue
		}
		if bit, ok := t.bits[label]; ok {
			vec[bit] = 1
		}
	}
	return vec
}

// ActionID resolves the held keys to a catalog id when the exact
// combination is listed; ok is false otherwise and callers fall back to
// neutral.
func (t *Translator) ActionID(pressed []string) (action.ID, bool) {
	return t.catalog.IDForVector(t.Vector(pressed))
}
