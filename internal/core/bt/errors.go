package bt

import "errors"

var (
	// ErrNoRoot is returned when a document declares no root node.
	ErrNoRoot = errors.New("behavior tree has no root node")

	// ErrUnknownNodeType is returned when a document uses a node type
	// outside selector, sequence, condition and action.
	ErrUnknownNodeType = errors.New("unknown node type")

	// ErrUnknownCondition is returned when a condition name has no
	// registered predicate. Unlike action names this is fatal: a tree
	// that cannot evaluate a branch has no sensible degraded form.
	ErrUnknownCondition = errors.New("unknown condition")

	// ErrBadFrames is returned when an action node declares a
	// non-positive frames_needed.
	ErrBadFrames = errors.New("frames_needed must be a positive integer")

	// ErrUnresolvedAction names an action absent from the catalog. The
	// loader does not fail on it; it binds the node to the neutral id,
	// warns, and records the name for callers that want to be strict.
	ErrUnresolvedAction = errors.New("action not in catalog")
)
