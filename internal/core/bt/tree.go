package bt

import (
	"github.com/kumite/kumite/internal/core/action"
	"github.com/kumite/kumite/internal/core/gamestate"
)

// Tree is an immutable behavior-tree definition. Build one per document,
// share it freely: ticking mutates only the Runtime passed in.
type Tree struct {
	root       *Node
	size       int
	unresolved []string
}

// NewTree takes ownership of root, assigns dense node ids in depth-first
// document order and returns the definition.
func NewTree(root *Node) (*Tree, error) {
	if root == nil {
		return nil, ErrNoRoot
	}
	t := &Tree{root: root}
	t.size = assignIDs(root, 0)
	return t, nil
}

func assignIDs(n *Node, next int) int {
	n.id = next
	next++
	for _, child := range n.children {
		next = assignIDs(child, next)
	}
	return next
}

// Root exposes the definition for inspection.
func (t *Tree) Root() *Node { return t.root }

// Size is the number of nodes, i.e. the runtime arena width.
func (t *Tree) Size() int { return t.size }

// UnresolvedActions lists the action nodes the loader had to bind to the
// neutral action because their names were missing from the catalog.
func (t *Tree) UnresolvedActions() []string {
	return append([]string(nil), t.unresolved...)
}

// nodeState is the per-runtime scratch for one node.
type nodeState struct {
	child   int  // composites: index of the in-progress child
	elapsed int  // actions: ticks since activation
	active  bool // actions: activation flag
}

// Runtime holds every mutable bit of one agent's walk over a shared tree:
// a flat arena indexed by node id plus the action recorded this tick.
// Runtimes are not safe for concurrent use; give each agent its own.
type Runtime struct {
	tree   *Tree
	states []nodeState
	chosen action.ID
	acted  bool
}

// NewRuntime allocates a fresh runtime sized for the tree.
func (t *Tree) NewRuntime() *Runtime {
	return &Runtime{tree: t, states: make([]nodeState, t.size)}
}

// Reset drops all remembered progress, as at an episode boundary.
func (rt *Runtime) Reset() {
	clear(rt.states)
	rt.chosen = 0
	rt.acted = false
}

// Tick walks the tree once against snap. It returns the overall status,
// the id recorded by the most recently ticked action node, and whether any
// action node was reached; when none was, callers fall back to their own
// default, conventionally the neutral action.
func (t *Tree) Tick(rt *Runtime, snap gamestate.Snapshot) (Status, action.ID, bool) {
	if rt.tree != t {
		// The runtime belonged to an older revision of the definition,
		// e.g. after a live reload. Start it over on this one.
		rt.tree = t
		rt.states = make([]nodeState, t.size)
	}
	rt.chosen = 0
	rt.acted = false
	status := t.tick(t.root, rt, snap)
	return status, rt.chosen, rt.acted
}

func (t *Tree) tick(n *Node, rt *Runtime, snap gamestate.Snapshot) Status {
	switch n.kind {
	case KindCondition:
		if n.predicate != nil && n.predicate(snap) {
			return StatusSuccess
		}
		return StatusFailure

	case KindAction:
		st := &rt.states[n.id]
		rt.chosen = n.action
		rt.acted = true
		if !st.active {
			st.active = true
			st.elapsed = 0
			return StatusRunning
		}
		st.elapsed++
		if st.elapsed >= n.frames-1 {
			st.active = false
			st.elapsed = 0
			return StatusSuccess
		}
		return StatusRunning

	case KindSequence:
		st := &rt.states[n.id]
		for st.child < len(n.children) {
			switch t.tick(n.children[st.child], rt, snap) {
			case StatusRunning:
				return StatusRunning
			case StatusFailure:
				st.child = 0
				return StatusFailure
			default:
				st.child++
			}
		}
		st.child = 0
		return StatusSuccess

	case KindSelector:
		st := &rt.states[n.id]
		for st.child < len(n.children) {
			switch t.tick(n.children[st.child], rt, snap) {
			case StatusRunning:
				return StatusRunning
			case StatusSuccess:
				st.child = 0
				return StatusSuccess
			default:
				st.child++
			}
		}
		st.child = 0
		return StatusFailure
	}
	return StatusFailure
}
