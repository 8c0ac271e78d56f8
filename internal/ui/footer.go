package ui

import (
	"strings"
)

// FooterModel renders the bottom hint bar. It is passive; the hints change
// with the mode the root model is in.
type FooterModel struct {
	Theme Theme
}

func footerHints(mode Mode) []string {
	switch mode {
	case ModeSearch:
		return []string{"enter jump", "↑/↓ move", "esc back"}
	case ModeChoice:
		return []string{"enter pick", "1-9 pick", "↑/↓ move", "esc back"}
	case ModeInput:
		return []string{"enter confirm", "esc back"}
	default:
		return []string{"⌫ back", "/ search", "? help", "esc close"}
	}
}

// View renders the hints for the given mode, with a finalize hint when an
// open loop run can be closed.
func (f FooterModel) View(mode Mode, canFinalize bool) string {
	hints := footerHints(mode)
	if mode == ModeKeys && canFinalize {
		hints = append([]string{"enter done"}, hints...)
	}
	return f.Theme.Footer.Render(strings.Join(hints, "  ·  "))
}
