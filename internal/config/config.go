// Package config locates and loads the commands file that describes the
// command tree. File discovery and file-shaped diagnostics live here; the
// tree package owns structural validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/whichcmd/internal/tree"
	"github.com/oakwood-commons/whichcmd/pkg/settings"
)

// FileName is the commands file inside the user config directory.
const FileName = "commands.yml"

// NotFoundError reports a missing commands file with the path that was tried.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("commands file not found at %s", e.Path)
}

// DefaultPath returns the user-level commands file location,
// e.g. ~/.config/whichcmd/commands.yml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, settings.CliBinaryName, FileName), nil
}

// Load reads and validates the commands file. An empty path means the
// default location.
func Load(path string) (*tree.Tree, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("read commands file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a commands document and builds the validated tree.
func Parse(data []byte) (*tree.Tree, error) {
	var f tree.File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse commands file: %w", err)
	}
	if len(f.Keys) == 0 {
		return nil, fmt.Errorf("commands file defines no keys")
	}
	return tree.Build(f.Keys)
}
