// Package tree models the command tree: an immutable, validated hierarchy of
// key-triggered command fragments loaded once per session from YAML.
package tree

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// InputType restricts what an input prompt accepts.
type InputType string

const (
	InputText   InputType = "text"
	InputNumber InputType = "number"
)

// Action is the closed set of node behaviors. A node is exactly one of
// Branch, Choice, Input, or Leaf; the interface is sealed so no fifth kind
// can exist.
type Action interface {
	isAction()
}

// Branch holds an ordered set of child nodes keyed by single characters.
type Branch struct {
	Children []*Node
}

// Choice holds a fixed ordered list of selectable text options.
type Choice struct {
	Options []string
}

// Input prompts for a free-text or numeric value.
type Input struct {
	Type InputType
}

// Leaf terminates a walk; it carries no further action.
type Leaf struct{}

func (Branch) isAction() {}
func (Choice) isAction() {}
func (Input) isAction()  {}
func (Leaf) isAction()   {}

// Node is one key-triggered unit in the command tree.
type Node struct {
	// ID is the concatenation of keys from the root to this node, assigned
	// by Build. Unique across the tree because keys are single runes.
	ID string

	Key   string
	Name  string
	Value string

	Immediate  bool
	Fleeting   bool
	Anchor     bool
	Loop       bool
	Repeatable bool

	Action Action
}

// IsLeaf reports whether the node terminates a walk.
func (n *Node) IsLeaf() bool {
	_, ok := n.Action.(Leaf)
	return ok
}

// Children returns the child nodes of a branch, or nil for other kinds.
func (n *Node) Children() []*Node {
	if b, ok := n.Action.(Branch); ok {
		return b.Children
	}
	return nil
}

// ChildByKey returns the branch child triggered by key, or nil.
func (n *Node) ChildByKey(key string) *Node {
	for _, c := range n.Children() {
		if c.Key == key {
			return c
		}
	}
	return nil
}

// rawNode mirrors the YAML schema; exactly-one-of validation happens during
// decoding so a Node can never be ambiguous about its kind.
type rawNode struct {
	Key        string    `yaml:"key"`
	Name       string    `yaml:"name"`
	Value      string    `yaml:"value"`
	Immediate  bool      `yaml:"immediate"`
	Fleeting   bool      `yaml:"fleeting"`
	Anchor     bool      `yaml:"anchor"`
	Loop       bool      `yaml:"loop"`
	Repeatable bool      `yaml:"repeatable"`
	Keys       []*Node   `yaml:"keys"`
	Choices    []string  `yaml:"choices"`
	Input      *string   `yaml:"input"`
}

// UnmarshalYAML decodes a node, defaulting the display name to the value and
// rejecting nodes that declare more than one action kind.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	var raw rawNode
	if err := value.Decode(&raw); err != nil {
		return err
	}

	name := raw.Name
	if name == "" {
		name = raw.Value
	}
	if name == "" {
		return fmt.Errorf("node %q: name must not be empty", raw.Key)
	}

	kinds := 0
	for _, present := range []bool{len(raw.Keys) > 0, len(raw.Choices) > 0, raw.Input != nil} {
		if present {
			kinds++
		}
	}
	if kinds > 1 {
		return fmt.Errorf("node %q: must have only one of keys, choices, or input", name)
	}

	var action Action
	switch {
	case len(raw.Keys) > 0:
		action = Branch{Children: raw.Keys}
	case len(raw.Choices) > 0:
		action = Choice{Options: raw.Choices}
	case raw.Input != nil:
		it, err := parseInputType(*raw.Input)
		if err != nil {
			return fmt.Errorf("node %q: %w", name, err)
		}
		action = Input{Type: it}
	default:
		action = Leaf{}
	}

	// Choice and input prompts are transient by nature: the prompt node and
	// its resolved value always travel together on the path.
	fleeting := raw.Fleeting
	if _, ok := action.(Choice); ok {
		fleeting = true
	}
	if _, ok := action.(Input); ok {
		fleeting = true
	}

	*n = Node{
		Key:        raw.Key,
		Name:       name,
		Value:      raw.Value,
		Immediate:  raw.Immediate,
		Fleeting:   fleeting,
		Anchor:     raw.Anchor,
		Loop:       raw.Loop,
		Repeatable: raw.Repeatable,
		Action:     action,
	}
	return nil
}

func parseInputType(s string) (InputType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return InputText, nil
	case "number":
		return InputNumber, nil
	default:
		return "", fmt.Errorf("unknown input type %q (want text or number)", s)
	}
}

// File is the YAML document shape of a commands file.
type File struct {
	Keys []*Node `yaml:"keys"`
}
