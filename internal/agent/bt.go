package agent

import (
	"sync"

	"github.com/kumite/kumite/internal/core/action"
	"github.com/kumite/kumite/internal/core/bt"
	"github.com/kumite/kumite/internal/core/gamestate"
	"github.com/kumite/kumite/internal/core/observability/log"
)

// BTAgent drives a shared behavior-tree definition with its own private
// runtime. Several BTAgents can hold the same *bt.Tree; each keeps its own
// progress. When the tree cannot produce an action (FAILURE, or no action
// node reached) the agent answers with the catalog's neutral action.
type BTAgent struct {
	name     string
	fallback action.ID
	log      log.Log

	mu   sync.Mutex
	tree *bt.Tree
	rt   *bt.Runtime
}

var _ Agent = (*BTAgent)(nil)

func NewBTAgent(name string, tree *bt.Tree, catalog *action.Catalog, logger log.Log) *BTAgent {
	if logger == nil {
		logger = log.Nop()
	}
	fallback := action.ID(0)
	if id, ok := catalog.Neutral(); ok {
		fallback = id
	}
	return &BTAgent{
		name:     name,
		fallback: fallback,
		log:      logger.Named("bt-agent"),
		tree:     tree,
		rt:       tree.NewRuntime(),
	}
}

func (a *BTAgent) Name() string { return a.name }

func (a *BTAgent) SelectAction(snap gamestate.Snapshot) action.ID {
	a.mu.Lock()
	defer a.mu.Unlock()

	status, id, acted := a.tree.Tick(a.rt, snap)
	if status == bt.StatusFailure || !acted {
		return a.fallback
	}
	return id
}

func (a *BTAgent) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rt.Reset()
}

// SetTree swaps the definition, e.g. after a live reload. The runtime
// re-arms itself on the next tick.
func (a *BTAgent) SetTree(tree *bt.Tree) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tree = tree
	a.log.Info("behavior tree swapped",
		log.String("agent", a.name),
		log.Int("nodes", tree.Size()),
	)
}
