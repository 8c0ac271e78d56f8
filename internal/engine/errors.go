package engine

import (
	"errors"
	"fmt"
)

// UnknownKeyError reports a key press with no match in the current
// selectable set. The path is left unchanged; callers recover locally.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("no binding for key %q", e.Key)
}

// ErrIncompleteSelection is returned by Finalize when the current node still
// requires children, a choice, or an input value.
var ErrIncompleteSelection = errors.New("selection is incomplete")

// ErrNoPendingChoice is returned by ResolveChoice outside of a choice prompt.
var ErrNoPendingChoice = errors.New("no choice is pending")

// ErrNoPendingInput is returned by ResolveInput outside of an input prompt.
var ErrNoPendingInput = errors.New("no input is pending")
