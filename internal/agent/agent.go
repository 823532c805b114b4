// Package agent defines the decision-makers that fight in an arena. An
// agent sees one snapshot per frame and answers with a catalog action id;
// how it decides (behavior tree, keyboard, dice) is its own business.
package agent

import (
	"github.com/kumite/kumite/internal/core/action"
	"github.com/kumite/kumite/internal/core/gamestate"
)

// Agent picks one catalog action per frame. SelectAction is called from a
// single goroutine; Reset marks an episode boundary such as a new round.
type Agent interface {
	Name() string
	SelectAction(snap gamestate.Snapshot) action.ID
	Reset()
}
