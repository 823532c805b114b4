// Package bt implements the behavior-tree decision layer: immutable tree
// definitions, per-agent runtimes, the synchronous tick walk and the
// document loader that binds trees to an action catalog and a condition
// provider.
package bt

// Status is the tri-state outcome of ticking a node.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
	StatusRunning
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusFailure:
		return "FAILURE"
	case StatusRunning:
		return "RUNNING"
	default:
		return "INVALID"
	}
}

// Terminal reports whether the status finishes a node for this tick.
func (s Status) Terminal() bool {
	return s != StatusRunning
}
