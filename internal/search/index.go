// Package search flattens the command tree into searchable records and can
// rebuild a navigation path from a chosen record's id.
package search

import (
	"fmt"
	"strings"

	runewidth "github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"github.com/oakwood-commons/whichcmd/internal/engine"
	"github.com/oakwood-commons/whichcmd/internal/tree"
)

// Record is one flattened node.
type Record struct {
	ID string
	// Display joins the node names from the root down, for human display.
	Display string
	// Command is the string the composer would produce at this node.
	Command string
	IsLeaf  bool
}

// CorruptIndexError reports an id that no longer resolves against the tree.
// The tree is immutable for the session, so this is an internal invariant
// violation: callers discard the search result and log it.
type CorruptIndexError struct {
	ID  string
	Key string
	Err error
}

func (e *CorruptIndexError) Error() string {
	return fmt.Sprintf("search index out of sync with tree: id %q failed at key %q", e.ID, e.Key)
}

func (e *CorruptIndexError) Unwrap() error {
	return e.Err
}

// Index holds the flattened records for one tree. The tree never changes
// mid-session, so the flatten happens once, in New.
type Index struct {
	tree    *tree.Tree
	records []Record
	leaves  []Record
}

// New traverses the whole tree once and materializes one record per node.
func New(t *tree.Tree) *Index {
	ix := &Index{tree: t}
	t.Walk(func(n *tree.Node, ancestors []*tree.Node) {
		names := make([]string, 0, len(ancestors)+1)
		entries := make([]engine.Entry, 0, len(ancestors)+1)
		for _, a := range append(append([]*tree.Node{}, ancestors...), n) {
			name := a.Name
			if name == "" {
				name = a.Key
			}
			names = append(names, name)
			entries = append(entries, engine.Entry{Value: a.Value, Anchor: a.Anchor})
		}

		rec := Record{
			ID:      n.ID,
			Display: strings.Join(names, " > "),
			Command: engine.Compose(entries),
			IsLeaf:  n.IsLeaf(),
		}
		ix.records = append(ix.records, rec)
		if rec.IsLeaf {
			ix.leaves = append(ix.leaves, rec)
		}
	})
	return ix
}

// Records returns every flattened node in traversal order.
func (ix *Index) Records() []Record {
	return ix.records
}

// Leaves returns only the records that complete a command.
func (ix *Index) Leaves() []Record {
	return ix.leaves
}

// searchText is what the fuzzy matcher scores a record by.
func (r Record) searchText() string {
	return r.Command + " " + r.Display
}

// leafSource adapts the leaf records to the fuzzy matcher.
type leafSource []Record

func (s leafSource) String(i int) string {
	return s[i].searchText()
}

func (s leafSource) Len() int {
	return len(s)
}

// Match returns the leaf records matching query, best score first. An empty
// query returns all leaves in traversal order.
func (ix *Index) Match(query string) []Record {
	if strings.TrimSpace(query) == "" {
		return ix.leaves
	}
	matches := fuzzy.FindFrom(query, leafSource(ix.leaves))
	out := make([]Record, 0, len(matches))
	for _, m := range matches {
		out = append(out, ix.leaves[m.Index])
	}
	return out
}

// Rebuild replays the id's keys against a fresh engine, reproducing the path
// a user would have walked by pressing the same keys. Splitting the id is
// unambiguous because every key is exactly one rune. It fails with
// CorruptIndexError when a key cannot be resolved.
func (ix *Index) Rebuild(id string) (*engine.Engine, error) {
	eng := engine.New(ix.tree)
	for _, r := range id {
		key := string(r)
		if err := eng.Select(key); err != nil {
			return nil, &CorruptIndexError{ID: id, Key: key, Err: err}
		}
	}
	return eng, nil
}

// FormatOptions renders records as two aligned columns: the composed command
// padded to the widest entry, then the key path.
func FormatOptions(records []Record) []string {
	widest := 0
	for _, r := range records {
		if w := runewidth.StringWidth(r.Command); w > widest {
			widest = w
		}
	}
	out := make([]string, len(records))
	for i, r := range records {
		keys := strings.Split(r.ID, "")
		out[i] = runewidth.FillRight(r.Command, widest) + " " + strings.Join(keys, " > ")
	}
	return out
}
