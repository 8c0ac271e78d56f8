// Package history persists the single most recent built command so shell
// integrations can retrieve it after the TUI has exited.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oakwood-commons/whichcmd/pkg/settings"
)

// fileName is the output file inside the user data directory.
const fileName = "out"

// Path returns the location of the last-command file,
// e.g. ~/.local/share/whichcmd/out.
func Path() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, settings.CliBinaryName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", settings.CliBinaryName, fileName), nil
}

// Write replaces the stored command with the given one.
func Write(command string) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(command+"\n"), 0o644); err != nil {
		return fmt.Errorf("write last command: %w", err)
	}
	return nil
}

// Read returns the most recently stored command.
func Read() (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read last command: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
