package bt

import (
	"github.com/kumite/kumite/internal/core/action"
)

// Kind discriminates the node variants of a tree definition.
type Kind int

const (
	KindSelector Kind = iota
	KindSequence
	KindCondition
	KindAction
)

func (k Kind) String() string {
	switch k {
	case KindSelector:
		return "selector"
	case KindSequence:
		return "sequence"
	case KindCondition:
		return "condition"
	case KindAction:
		return "action"
	default:
		return "unknown"
	}
}

// Node is one vertex of a tree definition. Nodes carry no tick state:
// everything mutable lives in a Runtime keyed by the node id, so a single
// definition can drive any number of agents concurrently. A node belongs
// to exactly one Tree, which assigns its id.
type Node struct {
	id       int
	kind     Kind
	name     string
	children []*Node

	predicate Predicate
	condition string

	action action.ID
	frames int
}

// Selector returns a composite that succeeds at the first succeeding child
// and fails only when every child has failed.
func Selector(name string, children ...*Node) *Node {
	return &Node{kind: KindSelector, name: name, children: children}
}

// Sequence returns a composite that runs children in order and fails at the
// first failing child.
func Sequence(name string, children ...*Node) *Node {
	return &Node{kind: KindSequence, name: name, children: children}
}

// Condition returns a leaf evaluating pred against the tick snapshot.
func Condition(name string, pred Predicate) *Node {
	return &Node{kind: KindCondition, name: name, condition: name, predicate: pred}
}

// Action returns a leaf that holds id as the chosen action for frames
// consecutive ticks.
func Action(name string, id action.ID, frames int) *Node {
	return &Node{kind: KindAction, name: name, action: id, frames: frames}
}

// ID is the node's position in the tree's state arena, assigned by NewTree
// in depth-first document order.
func (n *Node) ID() int { return n.id }

func (n *Node) Kind() Kind   { return n.kind }
func (n *Node) Name() string { return n.name }

// Children exposes the child list for inspection; callers must not modify it.
func (n *Node) Children() []*Node { return n.children }

// ConditionName reports the registered predicate name of a condition node.
func (n *Node) ConditionName() string { return n.condition }

// ActionID reports the catalog id held by an action node.
func (n *Node) ActionID() action.ID { return n.action }

// Frames reports how many ticks an action node occupies.
func (n *Node) Frames() int { return n.frames }
