package tree

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Keys the interactive loop claims for itself. A command key colliding with
// one of these could never be selected.
const (
	SearchKey = "/"
	HelpKey   = "?"
)

var reservedKeys = map[string]bool{
	SearchKey: true,
	HelpKey:   true,
}

// ValidationError reports a malformed tree, naming the path of ancestor keys
// leading to the offending node.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid command tree: %s", e.Reason)
	}
	return fmt.Sprintf("invalid command tree at %q: %s", e.Path, e.Reason)
}

// Tree is the validated, immutable command tree. It is built once per
// session and shared by reference; nothing mutates it afterwards.
type Tree struct {
	roots []*Node
	byID  map[string]*Node
}

// Build validates the decoded nodes and assigns ids in a single traversal by
// concatenating ancestor keys. It returns a ValidationError when two siblings
// share a key, a key is not a single printable rune, or a key collides with
// a reserved control key. Whitespace keys are rejected because the loop can
// never deliver them as selections.
func Build(roots []*Node) (*Tree, error) {
	t := &Tree{
		roots: roots,
		byID:  make(map[string]*Node),
	}
	if err := t.validate(roots, "", nil); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tree) validate(siblings []*Node, parentID string, ancestors []string) error {
	seen := make(map[string]bool, len(siblings))
	for _, n := range siblings {
		at := strings.Join(append(append([]string{}, ancestors...), n.Key), " > ")

		if utf8.RuneCountInString(n.Key) != 1 {
			return &ValidationError{Path: at, Reason: fmt.Sprintf("key %q must be a single character", n.Key)}
		}
		if r, _ := utf8.DecodeRuneInString(n.Key); unicode.IsSpace(r) {
			return &ValidationError{Path: at, Reason: "key must not be a whitespace character"}
		}
		if reservedKeys[n.Key] {
			return &ValidationError{Path: at, Reason: fmt.Sprintf("key %q is reserved by the interactive loop", n.Key)}
		}
		if seen[n.Key] {
			return &ValidationError{Path: at, Reason: fmt.Sprintf("duplicate sibling key %q", n.Key)}
		}
		seen[n.Key] = true

		n.ID = parentID + n.Key
		t.byID[n.ID] = n

		if children := n.Children(); len(children) > 0 {
			if err := t.validate(children, n.ID, append(ancestors, n.Key)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Roots returns the top-level nodes.
func (t *Tree) Roots() []*Node {
	return t.roots
}

// Lookup resolves a node by its id.
func (t *Tree) Lookup(id string) (*Node, bool) {
	n, ok := t.byID[id]
	return n, ok
}

// Walk visits every node depth-first in declaration order. The callback
// receives the node and its ancestor chain (excluding the node itself).
func (t *Tree) Walk(fn func(n *Node, ancestors []*Node)) {
	var visit func(nodes []*Node, ancestors []*Node)
	visit = func(nodes []*Node, ancestors []*Node) {
		for _, n := range nodes {
			fn(n, ancestors)
			if children := n.Children(); len(children) > 0 {
				visit(children, append(ancestors, n))
			}
		}
	}
	visit(t.roots, nil)
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.byID)
}
