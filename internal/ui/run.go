package ui

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/whichcmd/internal/engine"
	"github.com/oakwood-commons/whichcmd/internal/tree"
	"github.com/oakwood-commons/whichcmd/pkg/logger"
	"github.com/oakwood-commons/whichcmd/pkg/settings"
)

// Run starts the builder TUI over a validated tree and blocks until the user
// finalizes a command or cancels. Run settings and the logger are taken from
// ctx; missing settings fall back to defaults. The TUI renders to stderr so
// stdout stays reserved for the composed command; shell widgets capture it
// with $(...). The boolean reports whether a command was built.
func Run(ctx context.Context, tr *tree.Tree, opts ...tea.ProgramOption) (engine.Result, bool, error) {
	params, ok := settings.FromContext(ctx)
	if !ok {
		params = settings.NewCliParams()
	}
	log := logger.FromContext(ctx)

	m := NewModel(tr, params.Height, params.NoColor, log)

	opts = append([]tea.ProgramOption{tea.WithOutput(os.Stderr)}, opts...)
	prog := tea.NewProgram(&m, opts...)

	finalModel, err := prog.Run()
	if err != nil {
		return engine.Result{}, false, fmt.Errorf("run builder: %w", err)
	}

	fm, ok := finalModel.(*Model)
	if !ok || fm.Result == nil {
		return engine.Result{}, false, nil
	}
	return *fm.Result, true, nil
}
