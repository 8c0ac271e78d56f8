package engine

import (
	"errors"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/whichcmd/internal/tree"
)

const fixtureYAML = `
keys:
  - key: g
    value: git
    keys:
      - key: s
        value: status
      - key: h
        value: gh
        anchor: true
        keys:
          - key: p
            value: pr
            keys:
              - key: c
                value: create
      - key: b
        value: branch
        fleeting: true
        keys:
          - key: d
            value: --delete
  - key: D
    value: date +%s
    keys:
      - key: t
        value: -d
  - key: c
    value: curl
    loop: true
    keys:
      - key: H
        value: -H
      - key: X
        value: -X POST
      - key: v
        value: -v
        repeatable: true
      - key: u
        name: url
        value: --url
        input: text
  - key: k
    value: kubectl
    keys:
      - key: n
        name: namespace
        value: -n
        choices:
          - default
          - kube-system
  - key: r
    value: rm -rf
    immediate: true
`

func fixtureTree(t *testing.T) *tree.Tree {
	t.Helper()
	var f tree.File
	if err := yaml.Unmarshal([]byte(fixtureYAML), &f); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	tr, err := tree.Build(f.Keys)
	if err != nil {
		t.Fatalf("build fixture: %v", err)
	}
	return tr
}

func selectKeys(t *testing.T, e *Engine, keys ...string) {
	t.Helper()
	for _, k := range keys {
		if err := e.Select(k); err != nil {
			t.Fatalf("Select(%q): %v", k, err)
		}
	}
}

func finalize(t *testing.T, e *Engine) Result {
	t.Helper()
	res, err := e.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return res
}

func TestSelectWalksRealEdges(t *testing.T) {
	e := New(fixtureTree(t))

	selectKeys(t, e, "g", "h", "p", "c")
	if got := e.State(); got != StateLeaf {
		t.Fatalf("State = %v, want leaf", got)
	}
	if got := e.KeysPressed(); len(got) != 4 || got[0] != "g" || got[3] != "c" {
		t.Errorf("KeysPressed = %v", got)
	}
}

func TestSelectUnknownKeyLeavesPathUnchanged(t *testing.T) {
	e := New(fixtureTree(t))
	selectKeys(t, e, "g")

	err := e.Select("z")
	var uerr *UnknownKeyError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UnknownKeyError, got %v", err)
	}
	if uerr.Key != "z" {
		t.Errorf("Key = %q, want z", uerr.Key)
	}
	if len(e.Entries()) != 1 {
		t.Errorf("path changed after unknown key: %v", e.KeysPressed())
	}
}

func TestBackspaceMirrorsSelects(t *testing.T) {
	e := New(fixtureTree(t))
	selectKeys(t, e, "g", "h", "p", "c")

	for i := 0; i < 4; i++ {
		e.Backspace()
	}
	if e.State() != StateRoot {
		t.Errorf("State = %v, want root", e.State())
	}
	if len(e.Entries()) != 0 {
		t.Errorf("entries remain: %v", e.KeysPressed())
	}
	if got := e.Preview(); got != "" {
		t.Errorf("Preview on empty path = %q, want empty", got)
	}
}

func TestBackspaceOnEmptyPathIsNoop(t *testing.T) {
	e := New(fixtureTree(t))
	e.Backspace()
	if e.State() != StateRoot {
		t.Errorf("State = %v, want root", e.State())
	}
}

func TestAnchorComposition(t *testing.T) {
	e := New(fixtureTree(t))
	selectKeys(t, e, "g", "h", "p")

	if got := e.Preview(); got != "gh pr" {
		t.Errorf("Preview = %q, want %q", got, "gh pr")
	}
}

func TestEndToEndFixtures(t *testing.T) {
	tests := []struct {
		keys []string
		want string
	}{
		{[]string{"g", "h", "p", "c"}, "gh pr create"},
		{[]string{"D", "t"}, "date +%s -d"},
		{[]string{"g", "s"}, "git status"},
	}
	for _, tt := range tests {
		e := New(fixtureTree(t))
		selectKeys(t, e, tt.keys...)
		if got := finalize(t, e).Command; got != tt.want {
			t.Errorf("keys %v: Command = %q, want %q", tt.keys, got, tt.want)
		}
	}
}

func TestFinalizeResetsToRoot(t *testing.T) {
	e := New(fixtureTree(t))
	selectKeys(t, e, "g", "s")
	finalize(t, e)

	if e.State() != StateRoot {
		t.Errorf("State after finalize = %v, want root", e.State())
	}
	if len(e.Entries()) != 0 {
		t.Errorf("entries remain after finalize")
	}
}

func TestFinalizeIncompleteSelection(t *testing.T) {
	e := New(fixtureTree(t))
	selectKeys(t, e, "g")

	_, err := e.Finalize()
	if !errors.Is(err, ErrIncompleteSelection) {
		t.Fatalf("expected ErrIncompleteSelection, got %v", err)
	}
	if len(e.Entries()) != 1 {
		t.Errorf("path changed by failed finalize")
	}
}

func TestLoopAccumulation(t *testing.T) {
	e := New(fixtureTree(t))
	selectKeys(t, e, "c", "H", "X")

	if e.State() != StateLoop {
		t.Fatalf("State = %v, want loop", e.State())
	}
	if got := finalize(t, e).Command; got != "curl -H -X POST" {
		t.Errorf("Command = %q, want %q", got, "curl -H -X POST")
	}
}

func TestLoopNonRepeatableConsumedOnce(t *testing.T) {
	e := New(fixtureTree(t))
	selectKeys(t, e, "c", "H")

	err := e.Select("H")
	var uerr *UnknownKeyError
	if !errors.As(err, &uerr) {
		t.Fatalf("second select of non-repeatable child: want UnknownKeyError, got %v", err)
	}
}

func TestLoopBackspaceRestoresConsumedKey(t *testing.T) {
	e := New(fixtureTree(t))
	selectKeys(t, e, "c", "H")
	e.Backspace()

	if err := e.Select("H"); err != nil {
		t.Fatalf("key should be selectable again after backspace: %v", err)
	}
}

func TestLoopRepeatableSelectedTwice(t *testing.T) {
	e := New(fixtureTree(t))
	selectKeys(t, e, "c", "v", "v")

	if got := finalize(t, e).Command; got != "curl -v -v" {
		t.Errorf("Command = %q, want %q", got, "curl -v -v")
	}
}

func TestBackspaceAfterRepeatedSelectionRemovesSingleEntry(t *testing.T) {
	e := New(fixtureTree(t))
	selectKeys(t, e, "c", "v", "v")
	e.Backspace()

	if got := e.Preview(); got != "curl -v" {
		t.Errorf("Preview = %q, want %q", got, "curl -v")
	}
	if e.State() != StateLoop {
		t.Errorf("State = %v, want loop", e.State())
	}
}

func TestLoopSelectableOmitsConsumedKeys(t *testing.T) {
	e := New(fixtureTree(t))
	selectKeys(t, e, "c", "H")

	for _, n := range e.Selectable() {
		if n.Key == "H" {
			t.Errorf("consumed key still selectable")
		}
	}
	// Repeatable child stays on offer.
	selectKeys(t, e, "v")
	found := false
	for _, n := range e.Selectable() {
		if n.Key == "v" {
			found = true
		}
	}
	if !found {
		t.Errorf("repeatable key dropped from selectable set")
	}
}

func TestFleetingGroupRemovedWhole(t *testing.T) {
	e := New(fixtureTree(t))
	selectKeys(t, e, "g")
	before := e.KeysPressed()

	selectKeys(t, e, "b", "d")
	e.Backspace()

	after := e.KeysPressed()
	if len(after) != len(before) || after[0] != "g" {
		t.Errorf("path after fleeting backspace = %v, want %v", after, before)
	}
	if got := e.Preview(); got != "git" {
		t.Errorf("Preview = %q, want %q", got, "git")
	}
}

func TestChoiceResolution(t *testing.T) {
	e := New(fixtureTree(t))
	selectKeys(t, e, "k", "n")

	if e.State() != StateChoice {
		t.Fatalf("State = %v, want choice", e.State())
	}
	pending := e.Pending()
	if pending == nil || pending.Name != "namespace" {
		t.Fatalf("Pending = %+v", pending)
	}
	if err := e.ResolveChoice(1); err != nil {
		t.Fatalf("ResolveChoice: %v", err)
	}
	if got := finalize(t, e).Command; got != "kubectl -n kube-system" {
		t.Errorf("Command = %q, want %q", got, "kubectl -n kube-system")
	}
}

func TestChoiceOutOfRange(t *testing.T) {
	e := New(fixtureTree(t))
	selectKeys(t, e, "k", "n")
	if err := e.ResolveChoice(5); err == nil {
		t.Fatal("expected out-of-range error")
	}
	if e.State() != StateChoice {
		t.Errorf("failed resolve should leave the prompt pending")
	}
}

func TestResolveChoiceWithoutPending(t *testing.T) {
	e := New(fixtureTree(t))
	if err := e.ResolveChoice(0); !errors.Is(err, ErrNoPendingChoice) {
		t.Fatalf("expected ErrNoPendingChoice, got %v", err)
	}
}

func TestChoiceGroupBackspacedTogether(t *testing.T) {
	e := New(fixtureTree(t))
	selectKeys(t, e, "k", "n")
	if err := e.ResolveChoice(0); err != nil {
		t.Fatalf("ResolveChoice: %v", err)
	}

	e.Backspace()
	if got := e.Preview(); got != "kubectl" {
		t.Errorf("Preview = %q, want %q", got, "kubectl")
	}
	if e.State() != StateBranch {
		t.Errorf("State = %v, want branch", e.State())
	}
}

func TestInputResolutionInsideLoop(t *testing.T) {
	e := New(fixtureTree(t))
	selectKeys(t, e, "c", "u")

	if e.State() != StateInput {
		t.Fatalf("State = %v, want input", e.State())
	}
	if err := e.ResolveInput("https://example.com"); err != nil {
		t.Fatalf("ResolveInput: %v", err)
	}
	// Control returns to the loop's child set.
	if e.State() != StateLoop {
		t.Fatalf("State after input = %v, want loop", e.State())
	}
	selectKeys(t, e, "H")
	if got := finalize(t, e).Command; got != "curl --url https://example.com -H" {
		t.Errorf("Command = %q", got)
	}
}

func TestInputGroupBackspacedTogether(t *testing.T) {
	e := New(fixtureTree(t))
	selectKeys(t, e, "c", "u")
	if err := e.ResolveInput("https://example.com"); err != nil {
		t.Fatalf("ResolveInput: %v", err)
	}

	e.Backspace()
	if got := e.Preview(); got != "curl" {
		t.Errorf("Preview = %q, want %q", got, "curl")
	}
	// The consumed input key is selectable again.
	if err := e.Select("u"); err != nil {
		t.Fatalf("Select(u) after backspace: %v", err)
	}
}

func TestResolveInputWithoutPending(t *testing.T) {
	e := New(fixtureTree(t))
	if err := e.ResolveInput("x"); !errors.Is(err, ErrNoPendingInput) {
		t.Fatalf("expected ErrNoPendingInput, got %v", err)
	}
}

func TestImmediateFlagOnLeafResult(t *testing.T) {
	e := New(fixtureTree(t))
	selectKeys(t, e, "r")

	res := finalize(t, e)
	if !res.Immediate {
		t.Error("Immediate flag lost on finalize")
	}
	if res.Command != "rm -rf" {
		t.Errorf("Command = %q", res.Command)
	}
}

func TestNonImmediateLeaf(t *testing.T) {
	e := New(fixtureTree(t))
	selectKeys(t, e, "g", "s")
	if finalize(t, e).Immediate {
		t.Error("Immediate set on a plain leaf")
	}
}

func TestReset(t *testing.T) {
	e := New(fixtureTree(t))
	selectKeys(t, e, "c", "H")
	e.Reset()

	if e.State() != StateRoot || len(e.Entries()) != 0 {
		t.Errorf("Reset left state %v with %d entries", e.State(), len(e.Entries()))
	}
	// A fresh loop run has a fresh consumed set.
	selectKeys(t, e, "c", "H")
}
