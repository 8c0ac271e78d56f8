// Package engine is the navigation state machine over a built command tree.
// It owns the path of selections and the loop, fleeting, and anchor
// bookkeeping; everything derived (selectable set, loop context, anchor
// index, machine state) is recomputed from the entry list after every
// mutation, never restored from a snapshot.
package engine

import (
	"fmt"

	"github.com/oakwood-commons/whichcmd/internal/tree"
)

// State identifies where the walk currently stands.
type State int

const (
	// StateRoot is the empty path; the top-level keys are selectable.
	StateRoot State = iota
	// StateBranch means a branch node's children are selectable.
	StateBranch
	// StateLoop is the re-entrant branch sub-state: the loop node's children
	// stay selectable after being chosen.
	StateLoop
	// StateChoice waits for one of a choice node's options.
	StateChoice
	// StateInput waits for a typed value.
	StateInput
	// StateLeaf means a leaf was reached outside any loop; only Finalize,
	// Backspace, or Reset apply.
	StateLeaf
)

func (s State) String() string {
	switch s {
	case StateRoot:
		return "root"
	case StateBranch:
		return "branch"
	case StateLoop:
		return "loop"
	case StateChoice:
		return "choice"
	case StateInput:
		return "input"
	case StateLeaf:
		return "leaf"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Synthetic keys carried by resolution entries, mirroring the node id scheme
// of the tree without ever colliding with a real single-rune key.
const (
	ChoiceKey = "[choice]"
	InputKey  = "[input]"
)

// Entry is one selection on the path. Tree nodes are referenced by id, not
// by pointer, and the attributes composition needs are captured at selection
// time so Compose stays a pure function of the entries. Resolution entries
// (a picked choice option or a typed value) have an empty NodeID.
type Entry struct {
	NodeID string
	Key    string
	Name   string
	Value  string

	Anchor    bool
	Immediate bool

	// FleetingTag groups entries that were selected inside one fleeting
	// subtree; the whole group leaves the path together. Zero means none.
	FleetingTag int
}

// Result is a finalized command.
type Result struct {
	Command string
	// Immediate signals that the surrounding integration should execute the
	// command rather than insert it for further editing.
	Immediate bool
}

// Engine tracks one in-progress walk. It is not safe for concurrent use;
// the interactive loop delivers one event at a time.
type Engine struct {
	tree    *tree.Tree
	entries []Entry
	nextTag int

	// Derived state, rebuilt by recompute.
	state       State
	containerID string
	pendingID   string
	loopIdx     int
	consumed    map[string]bool
	activeTag   int
}

// New returns an engine at the root of the given tree.
func New(t *tree.Tree) *Engine {
	e := &Engine{tree: t}
	e.recompute()
	return e
}

// State returns the current machine state.
func (e *Engine) State() State {
	return e.state
}

// Entries returns a copy of the current path.
func (e *Engine) Entries() []Entry {
	out := make([]Entry, len(e.entries))
	copy(out, e.entries)
	return out
}

// KeysPressed returns the key of every path entry, for display.
func (e *Engine) KeysPressed() []string {
	keys := make([]string, len(e.entries))
	for i, ent := range e.entries {
		keys[i] = ent.Key
	}
	return keys
}

// Preview composes the command for the current, possibly non-terminal, path.
func (e *Engine) Preview() string {
	return Compose(e.entries)
}

// Selectable returns the nodes reachable from the current position. Inside a
// loop run, non-repeatable children already chosen in that run are omitted
// until a Backspace removes the selection.
func (e *Engine) Selectable() []*tree.Node {
	switch e.state {
	case StateRoot:
		return e.tree.Roots()
	case StateBranch:
		if n, ok := e.tree.Lookup(e.containerID); ok {
			return n.Children()
		}
	case StateLoop:
		n, ok := e.tree.Lookup(e.containerID)
		if !ok {
			return nil
		}
		children := n.Children()
		out := make([]*tree.Node, 0, len(children))
		for _, c := range children {
			if e.consumed[c.Key] {
				continue
			}
			out = append(out, c)
		}
		return out
	}
	return nil
}

// Pending returns the choice or input node awaiting resolution, or nil.
func (e *Engine) Pending() *tree.Node {
	if e.pendingID == "" {
		return nil
	}
	if n, ok := e.tree.Lookup(e.pendingID); ok {
		return n
	}
	return nil
}

// Select looks up key in the current selectable set and appends the matched
// node to the path. It fails with UnknownKeyError when the key has no match;
// the path is unchanged in that case.
func (e *Engine) Select(key string) error {
	var match *tree.Node
	for _, c := range e.Selectable() {
		if c.Key == key {
			match = c
			break
		}
	}
	if match == nil {
		return &UnknownKeyError{Key: key}
	}

	tag := e.activeTag
	if match.Fleeting && tag == 0 {
		e.nextTag++
		tag = e.nextTag
	}
	e.entries = append(e.entries, Entry{
		NodeID:      match.ID,
		Key:         match.Key,
		Name:        match.Name,
		Value:       match.Value,
		Anchor:      match.Anchor,
		Immediate:   match.Immediate,
		FleetingTag: tag,
	})
	e.recompute()
	return nil
}

// ResolveChoice resolves a pending choice prompt with the option at idx,
// recorded as a select-equivalent entry carrying the option text.
func (e *Engine) ResolveChoice(idx int) error {
	if e.state != StateChoice {
		return ErrNoPendingChoice
	}
	pending := e.Pending()
	options := pending.Action.(tree.Choice).Options
	if idx < 0 || idx >= len(options) {
		return fmt.Errorf("choice index %d out of range (%d options)", idx, len(options))
	}
	e.appendResolution(ChoiceKey, options[idx])
	return nil
}

// ResolveInput resolves a pending input prompt with the typed value.
// Validation of the value against the input type belongs to the caller
// collecting it.
func (e *Engine) ResolveInput(value string) error {
	if e.state != StateInput {
		return ErrNoPendingInput
	}
	e.appendResolution(InputKey, value)
	return nil
}

func (e *Engine) appendResolution(key, value string) {
	e.entries = append(e.entries, Entry{
		Key:         key,
		Name:        value,
		Value:       value,
		FleetingTag: e.activeTag,
	})
	e.recompute()
}

// Backspace removes the most recent fleeting group in full when the last
// entry carries a tag, otherwise exactly the last entry. A no-op on an empty
// path. All derived state is recomputed from the shorter path.
func (e *Engine) Backspace() {
	if len(e.entries) == 0 {
		return
	}
	if tag := e.entries[len(e.entries)-1].FleetingTag; tag != 0 {
		for len(e.entries) > 0 && e.entries[len(e.entries)-1].FleetingTag == tag {
			e.entries = e.entries[:len(e.entries)-1]
		}
	} else {
		e.entries = e.entries[:len(e.entries)-1]
	}
	e.recompute()
}

// CanFinalize reports whether Finalize would succeed: a leaf was reached, or
// a loop run is active and the caller may close it explicitly.
func (e *Engine) CanFinalize() bool {
	return e.state == StateLeaf || e.state == StateLoop
}

// Finalize composes the command and resets the engine to the root. Inside a
// loop run it acts as the explicit completion signal and the immediate flag
// is the loop node's; at a leaf it is the leaf's. Anywhere else it fails
// with ErrIncompleteSelection and leaves the path unchanged.
func (e *Engine) Finalize() (Result, error) {
	var immediate bool
	switch e.state {
	case StateLeaf:
		immediate = e.entries[len(e.entries)-1].Immediate
	case StateLoop:
		immediate = e.entries[e.loopIdx].Immediate
	default:
		return Result{}, ErrIncompleteSelection
	}

	res := Result{Command: Compose(e.entries), Immediate: immediate}
	e.Reset()
	return res, nil
}

// Reset clears the path and all bookkeeping.
func (e *Engine) Reset() {
	e.entries = nil
	e.nextTag = 0
	e.recompute()
}

type loopFrame struct {
	idx      int
	consumed map[string]bool
}

// recompute rebuilds every piece of derived state by replaying the entry
// list against the tree. Keeping this a replay (rather than caching
// snapshots) is what keeps nested loop/fleeting/anchor state consistent
// across Backspace.
func (e *Engine) recompute() {
	e.state = StateRoot
	e.containerID = ""
	e.pendingID = ""
	e.loopIdx = -1
	e.consumed = nil
	e.activeTag = 0

	var loops []loopFrame
	pending := false

	for i := range e.entries {
		ent := &e.entries[i]

		if pending {
			// Resolution entry: behaves like a leaf of the prompt node.
			pending = false
			e.pendingID = ""
			e.settleAfterLeaf(loops)
			continue
		}

		n, ok := e.tree.Lookup(ent.NodeID)
		if !ok {
			// Entries are only appended through Select against this tree.
			continue
		}

		// A selection made while the loop's own children were on offer
		// consumes its key for the rest of that run unless repeatable.
		if e.state == StateLoop && len(loops) > 0 && !n.Repeatable {
			loops[len(loops)-1].consumed[n.Key] = true
		}

		switch n.Action.(type) {
		case tree.Branch:
			if n.Loop {
				loops = append(loops, loopFrame{idx: i, consumed: make(map[string]bool)})
				e.state = StateLoop
			} else {
				e.state = StateBranch
			}
			e.containerID = n.ID
			e.activeTag = ent.FleetingTag
		case tree.Choice:
			pending = true
			e.pendingID = n.ID
			e.state = StateChoice
			e.activeTag = ent.FleetingTag
		case tree.Input:
			pending = true
			e.pendingID = n.ID
			e.state = StateInput
			e.activeTag = ent.FleetingTag
		case tree.Leaf:
			e.settleAfterLeaf(loops)
		}
	}

	if len(loops) > 0 {
		top := loops[len(loops)-1]
		e.loopIdx = top.idx
		e.consumed = top.consumed
	}
}

// settleAfterLeaf decides where control lands after a leaf (or a resolved
// prompt): back at the innermost active loop's child set, or terminal.
func (e *Engine) settleAfterLeaf(loops []loopFrame) {
	if len(loops) > 0 {
		top := loops[len(loops)-1]
		e.state = StateLoop
		e.containerID = e.entries[top.idx].NodeID
		e.activeTag = e.entries[top.idx].FleetingTag
		return
	}
	e.state = StateLeaf
	e.containerID = ""
	e.activeTag = 0
}
