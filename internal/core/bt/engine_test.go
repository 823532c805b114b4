package bt

import (
	"testing"

	"github.com/kumite/kumite/internal/core/action"
	"github.com/kumite/kumite/internal/core/gamestate"
)

func always(gamestate.Snapshot) bool { return true }
func never(gamestate.Snapshot) bool  { return false }

func mustTree(t *testing.T, root *Node) *Tree {
	t.Helper()
	tree, err := NewTree(root)
	if err != nil {
		t.Fatalf("new tree: %v", err)
	}
	return tree
}

func TestActionNodeTiming(t *testing.T) {
	tree := mustTree(t, Action("Jab", action.ID(7), 3))
	rt := tree.NewRuntime()

	want := []Status{StatusRunning, StatusRunning, StatusSuccess}
	for i, expected := range want {
		st, id, acted := tree.Tick(rt, gamestate.Snapshot{})
		if st != expected {
			t.Fatalf("tick %d: expected %v, got %v", i+1, expected, st)
		}
		if !acted || id != action.ID(7) {
			t.Fatalf("tick %d: expected action 7 emitted, got %v,%v", i+1, id, acted)
		}
	}

	// The window restarts once the hold completes.
	st, _, _ := tree.Tick(rt, gamestate.Snapshot{})
	if st != StatusRunning {
		t.Fatalf("expected a fresh RUNNING after completion, got %v", st)
	}
}

func TestActionNodeSingleFrame(t *testing.T) {
	tree := mustTree(t, Action("Tap", action.ID(3), 1))
	rt := tree.NewRuntime()

	if st, _, _ := tree.Tick(rt, gamestate.Snapshot{}); st != StatusRunning {
		t.Fatalf("first visit must run, got %v", st)
	}
	if st, _, _ := tree.Tick(rt, gamestate.Snapshot{}); st != StatusSuccess {
		t.Fatalf("second visit must succeed, got %v", st)
	}
}

func TestSequenceResumesFromRunningChild(t *testing.T) {
	gateCalls := 0
	gate := func(gamestate.Snapshot) bool {
		gateCalls++
		return true
	}
	tree := mustTree(t, Sequence("Combo",
		Condition("Gate", gate),
		Action("Windup", action.ID(4), 2),
		Condition("Confirm", always),
	))
	rt := tree.NewRuntime()

	st, id, acted := tree.Tick(rt, gamestate.Snapshot{})
	if st != StatusRunning || !acted || id != action.ID(4) {
		t.Fatalf("tick 1: expected RUNNING with action 4, got %v,%v,%v", st, id, acted)
	}

	st, _, _ = tree.Tick(rt, gamestate.Snapshot{})
	if st != StatusSuccess {
		t.Fatalf("tick 2: expected SUCCESS, got %v", st)
	}
	if gateCalls != 1 {
		t.Fatalf("gate must not be re-evaluated while resuming, got %d calls", gateCalls)
	}

	// Completed sequence starts over from the first child.
	tree.Tick(rt, gamestate.Snapshot{})
	if gateCalls != 2 {
		t.Fatalf("expected gate re-evaluated after completion, got %d calls", gateCalls)
	}
}

func TestSequenceFailureResetsIndex(t *testing.T) {
	open := false
	door := func(gamestate.Snapshot) bool { return open }
	firstCalls := 0
	first := func(gamestate.Snapshot) bool {
		firstCalls++
		return true
	}
	tree := mustTree(t, Sequence("Walk",
		Condition("First", first),
		Condition("Door", door),
	))
	rt := tree.NewRuntime()

	if st, _, _ := tree.Tick(rt, gamestate.Snapshot{}); st != StatusFailure {
		t.Fatalf("expected FAILURE, got %v", st)
	}

	open = true
	if st, _, _ := tree.Tick(rt, gamestate.Snapshot{}); st != StatusSuccess {
		t.Fatalf("expected SUCCESS after the door opens, got %v", st)
	}
	if firstCalls != 2 {
		t.Fatalf("a failed sequence must restart at child 0, got %d first-child calls", firstCalls)
	}
}

func TestSelectorResumesAndShortCircuits(t *testing.T) {
	planACalls := 0
	planA := func(gamestate.Snapshot) bool {
		planACalls++
		return false
	}
	tree := mustTree(t, Selector("Decide",
		Condition("PlanA", planA),
		Action("PlanB", action.ID(2), 3),
		Condition("Unreachable", always),
	))
	rt := tree.NewRuntime()

	for i, expected := range []Status{StatusRunning, StatusRunning, StatusSuccess} {
		st, _, _ := tree.Tick(rt, gamestate.Snapshot{})
		if st != expected {
			t.Fatalf("tick %d: expected %v, got %v", i+1, expected, st)
		}
	}
	if planACalls != 1 {
		t.Fatalf("selector must resume at the running child, got %d PlanA calls", planACalls)
	}

	// Completion clears the remembered index.
	tree.Tick(rt, gamestate.Snapshot{})
	if planACalls != 2 {
		t.Fatalf("expected PlanA re-evaluated after completion, got %d calls", planACalls)
	}
}

func TestSelectorExhaustedFails(t *testing.T) {
	tree := mustTree(t, Selector("Decide",
		Condition("A", never),
		Condition("B", never),
	))
	rt := tree.NewRuntime()

	st, id, acted := tree.Tick(rt, gamestate.Snapshot{})
	if st != StatusFailure {
		t.Fatalf("expected FAILURE, got %v", st)
	}
	if acted || id != 0 {
		t.Fatalf("no action node reached, got %v,%v", id, acted)
	}
}

func TestEmptyComposites(t *testing.T) {
	sel := mustTree(t, Selector("Empty"))
	if st, _, _ := sel.Tick(sel.NewRuntime(), gamestate.Snapshot{}); st != StatusFailure {
		t.Fatalf("empty selector: expected FAILURE, got %v", st)
	}

	seq := mustTree(t, Sequence("Empty"))
	if st, _, _ := seq.Tick(seq.NewRuntime(), gamestate.Snapshot{}); st != StatusSuccess {
		t.Fatalf("empty sequence: expected SUCCESS, got %v", st)
	}
}

func TestCascadeWithinOneTick(t *testing.T) {
	// The second tick completes the first hold and activates the second
	// within the same walk; the emitted id follows the most recently
	// ticked action.
	tree := mustTree(t, Sequence("Chain",
		Action("First", action.ID(5), 1),
		Action("Second", action.ID(9), 1),
	))
	rt := tree.NewRuntime()

	st, id, _ := tree.Tick(rt, gamestate.Snapshot{})
	if st != StatusRunning || id != action.ID(5) {
		t.Fatalf("tick 1: expected RUNNING on first action, got %v id=%v", st, id)
	}

	st, id, _ = tree.Tick(rt, gamestate.Snapshot{})
	if st != StatusRunning || id != action.ID(9) {
		t.Fatalf("tick 2: expected cascade into second action, got %v id=%v", st, id)
	}
}

func TestRuntimeReset(t *testing.T) {
	tree := mustTree(t, Action("Hold", action.ID(1), 3))
	rt := tree.NewRuntime()

	tree.Tick(rt, gamestate.Snapshot{})
	tree.Tick(rt, gamestate.Snapshot{})
	rt.Reset()

	want := []Status{StatusRunning, StatusRunning, StatusSuccess}
	for i, expected := range want {
		if st, _, _ := tree.Tick(rt, gamestate.Snapshot{}); st != expected {
			t.Fatalf("tick %d after reset: expected %v, got %v", i+1, expected, st)
		}
	}
}

func TestSharedTreeIndependentRuntimes(t *testing.T) {
	tree := mustTree(t, Action("Hold", action.ID(1), 3))
	a := tree.NewRuntime()
	b := tree.NewRuntime()

	tree.Tick(a, gamestate.Snapshot{})
	tree.Tick(a, gamestate.Snapshot{})

	if st, _, _ := tree.Tick(b, gamestate.Snapshot{}); st != StatusRunning {
		t.Fatalf("fresh runtime must start its own window, got %v", st)
	}
	if st, _, _ := tree.Tick(a, gamestate.Snapshot{}); st != StatusSuccess {
		t.Fatalf("advanced runtime must complete, got %v", st)
	}
}

func TestRuntimeRearmsOnNewTree(t *testing.T) {
	old := mustTree(t, Action("Hold", action.ID(1), 3))
	rt := old.NewRuntime()
	old.Tick(rt, gamestate.Snapshot{})
	old.Tick(rt, gamestate.Snapshot{})

	swapped := mustTree(t, Sequence("Root",
		Condition("Gate", always),
		Action("Hold", action.ID(2), 2),
	))
	st, id, _ := swapped.Tick(rt, gamestate.Snapshot{})
	if st != StatusRunning || id != action.ID(2) {
		t.Fatalf("expected fresh walk on the swapped tree, got %v id=%v", st, id)
	}
}

func TestNodeIDsAreDepthFirst(t *testing.T) {
	left := Condition("Left", always)
	right := Action("Right", action.ID(1), 1)
	inner := Sequence("Inner", left, right)
	last := Condition("Last", always)
	tree := mustTree(t, Selector("Root", inner, last))

	expect := map[*Node]int{
		tree.Root(): 0,
		inner:       1,
		left:        2,
		right:       3,
		last:        4,
	}
	for node, want := range expect {
		if node.ID() != want {
			t.Fatalf("node %s: expected id %d, got %d", node.Name(), want, node.ID())
		}
	}
	if tree.Size() != 5 {
		t.Fatalf("expected arena size 5, got %d", tree.Size())
	}
}
