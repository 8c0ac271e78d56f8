package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/oakwood-commons/whichcmd/internal/engine"
	"github.com/oakwood-commons/whichcmd/internal/tree"
)

const sampleYAML = `
keys:
  - key: g
    value: git
    keys:
      - key: s
        value: status
`

func TestLoadExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "commands.yml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	tr, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := tr.Lookup("gs"); !ok {
		t.Error("expected node gs in loaded tree")
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yml")
	_, err := Load(path)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Path != path {
		t.Errorf("Path = %q, want %q", nf.Path, path)
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("keys: [")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseEmptyDocument(t *testing.T) {
	if _, err := Parse([]byte("")); err == nil {
		t.Fatal("expected error for a document with no keys")
	}
}

func TestParseSurfacesValidationErrors(t *testing.T) {
	_, err := Parse([]byte(`
keys:
  - key: g
    value: git
  - key: g
    value: grep
`))
	var verr *tree.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

// The shipped example file must compose real commands: every fragment node
// carries a value, since composition emits values and never display names.
func TestExampleCommandsFileComposes(t *testing.T) {
	tr, err := Load(filepath.Join("..", "..", "examples", "commands.yml"))
	if err != nil {
		t.Fatalf("Load example file: %v", err)
	}

	cases := []struct {
		keys []string
		want string
	}{
		{[]string{"g", "s"}, "git status"},
		{[]string{"h", "p", "c"}, "gh pr create"},
		{[]string{"k", "g"}, "kubectl get pods"},
	}
	for _, tc := range cases {
		eng := engine.New(tr)
		for _, k := range tc.keys {
			if err := eng.Select(k); err != nil {
				t.Fatalf("keys %v: Select(%q): %v", tc.keys, k, err)
			}
		}
		res, err := eng.Finalize()
		if err != nil {
			t.Fatalf("keys %v: Finalize: %v", tc.keys, err)
		}
		if res.Command != tc.want {
			t.Errorf("keys %v composed %q, want %q", tc.keys, res.Command, tc.want)
		}
	}
}

// Immediate leaves still compose from the root fragment.
func TestExampleCommandsImmediateLeafKeepsPrefix(t *testing.T) {
	tr, err := Load(filepath.Join("..", "..", "examples", "commands.yml"))
	if err != nil {
		t.Fatalf("Load example file: %v", err)
	}

	eng := engine.New(tr)
	for _, k := range []string{"g", "l"} {
		if err := eng.Select(k); err != nil {
			t.Fatalf("Select(%q): %v", k, err)
		}
	}
	res, err := eng.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if res.Command != "git log --oneline --graph" {
		t.Errorf("composed %q, want %q", res.Command, "git log --oneline --graph")
	}
	if !res.Immediate {
		t.Error("expected immediate leaf")
	}
}

func TestDefaultPathEndsWithFileName(t *testing.T) {
	path, err := DefaultPath()
	if err != nil {
		t.Skipf("no user config dir in this environment: %v", err)
	}
	if filepath.Base(path) != FileName {
		t.Errorf("DefaultPath = %q, want base %q", path, FileName)
	}
}
