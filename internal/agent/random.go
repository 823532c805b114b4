package agent

import (
	"math/rand"

	"github.com/kumite/kumite/internal/core/action"
	"github.com/kumite/kumite/internal/core/gamestate"
)

// RandomAgent picks uniformly over the catalog. It is the stock sparring
// baseline: any tree worth keeping should beat it.
type RandomAgent struct {
	name string
	n    int
	rng  *rand.Rand
}

var _ Agent = (*RandomAgent)(nil)

func NewRandomAgent(name string, catalog *action.Catalog, seed int64) *RandomAgent {
	return &RandomAgent{
		name: name,
		n:    catalog.Len(),
		rng:  rand.New(rand.NewSource(seed)),
	}
}

func (a *RandomAgent) Name() string { return a.name }

func (a *RandomAgent) SelectAction(gamestate.Snapshot) action.ID {
	if a.n == 0 {
		return 0
	}
	return action.ID(a.rng.Intn(a.n))
}

func (a *RandomAgent) Reset() {}
