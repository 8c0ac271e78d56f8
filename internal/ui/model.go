// Package ui implements the interactive builder loop: a Bubble Tea program
// that walks the command tree one key press at a time, with choice, input,
// and fuzzy-search modes layered on top of the path engine.
package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"
	runewidth "github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/whichcmd/internal/engine"
	"github.com/oakwood-commons/whichcmd/internal/search"
	"github.com/oakwood-commons/whichcmd/internal/tree"
)

// Mode is the input mode of the builder UI.
type Mode int

const (
	// ModeKeys is the default menu: single key presses walk the tree.
	ModeKeys Mode = iota
	// ModeChoice presents a choice node's options.
	ModeChoice
	// ModeInput collects a free-text or numeric value.
	ModeInput
	// ModeSearch fuzzy-searches the flattened leaves.
	ModeSearch
)

// flashDuration is how long a transient error message stays visible.
const flashDuration = 750 * time.Millisecond

type flashClearMsg struct {
	id int
}

// Model is the root Bubble Tea model for the builder.
type Model struct {
	Tree  *tree.Tree
	Eng   *engine.Engine
	Index *search.Index

	Mode   Mode
	Theme  Theme
	Footer FooterModel

	Height    int // content rows, from settings
	WinWidth  int
	WinHeight int

	Flash   string
	flashID int

	SearchInput   textinput.Model
	SearchMatches []search.Record
	SearchSel     int

	ValueInput textinput.Model

	ChoiceSel int

	HelpVisible bool

	// Result is set when a command was finalized; Cancelled when the user
	// backed out. Exactly one of them ends a session.
	Result    *engine.Result
	Cancelled bool

	Log *logr.Logger
}

// NewModel builds the initial model for a validated tree. The search index
// is materialized eagerly; the tree is immutable for the session.
func NewModel(tr *tree.Tree, height int, noColor bool, log *logr.Logger) Model {
	theme := DefaultTheme(noColor)

	si := textinput.New()
	si.Prompt = ""
	si.Placeholder = "search"

	vi := textinput.New()
	vi.Prompt = ""

	return Model{
		Tree:        tr,
		Eng:         engine.New(tr),
		Index:       search.New(tr),
		Mode:        ModeKeys,
		Theme:       theme,
		Footer:      FooterModel{Theme: theme},
		Height:      height,
		SearchInput: si,
		ValueInput:  vi,
		Log:         log,
	}
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case flashClearMsg:
		if msg.id == m.flashID {
			m.Flash = ""
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.WinWidth = msg.Width
		m.WinHeight = msg.Height
		return m, nil

	case tea.KeyMsg:
		keyStr := msg.String()

		if keyStr == "ctrl+c" {
			m.Cancelled = true
			return m, tea.Quit
		}
		if m.HelpVisible {
			m.HelpVisible = false
			return m, nil
		}

		switch m.Mode {
		case ModeSearch:
			return m.updateSearch(msg, keyStr)
		case ModeInput:
			return m.updateInput(msg, keyStr)
		case ModeChoice:
			return m.updateChoice(keyStr)
		default:
			return m.updateKeys(keyStr)
		}
	}
	return m, nil
}

// updateKeys handles the default menu mode.
func (m *Model) updateKeys(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "esc":
		m.Cancelled = true
		return m, tea.Quit
	case "backspace":
		m.Eng.Backspace()
		return m, nil
	case "enter":
		if !m.Eng.CanFinalize() {
			return m, m.flash("nothing to finalize yet")
		}
		return m.finalize()
	case tree.SearchKey:
		m.Mode = ModeSearch
		m.SearchInput.SetValue("")
		m.SearchInput.Focus()
		m.SearchMatches = m.Index.Match("")
		m.SearchSel = 0
		return m, textinput.Blink
	case tree.HelpKey:
		m.HelpVisible = true
		return m, nil
	}

	// Anything longer than one rune is a special key with no binding here.
	if len([]rune(keyStr)) != 1 {
		return m, nil
	}
	if err := m.Eng.Select(keyStr); err != nil {
		var uerr *engine.UnknownKeyError
		if errors.As(err, &uerr) {
			return m, m.flash(fmt.Sprintf("no binding for %q", uerr.Key))
		}
		return m, m.flash(err.Error())
	}
	return m.afterAdvance()
}

// afterAdvance routes the UI according to the engine state after the path
// grew: prompts open their mode, a terminal leaf finalizes and quits.
func (m *Model) afterAdvance() (tea.Model, tea.Cmd) {
	switch m.Eng.State() {
	case engine.StateLeaf:
		return m.finalize()
	case engine.StateChoice:
		m.Mode = ModeChoice
		m.ChoiceSel = 0
		return m, nil
	case engine.StateInput:
		m.Mode = ModeInput
		m.ValueInput.SetValue("")
		if pending := m.Eng.Pending(); pending != nil {
			m.ValueInput.Placeholder = pending.Name
		}
		m.ValueInput.Focus()
		return m, textinput.Blink
	default:
		m.Mode = ModeKeys
		return m, nil
	}
}

func (m *Model) finalize() (tea.Model, tea.Cmd) {
	res, err := m.Eng.Finalize()
	if err != nil {
		return m, m.flash(err.Error())
	}
	m.Result = &res
	return m, tea.Quit
}

// updateChoice handles a pending choice prompt.
func (m *Model) updateChoice(keyStr string) (tea.Model, tea.Cmd) {
	pending := m.Eng.Pending()
	if pending == nil {
		m.Mode = ModeKeys
		return m, nil
	}
	options := pending.Action.(tree.Choice).Options

	switch keyStr {
	case "esc":
		m.Eng.Backspace()
		m.Mode = ModeKeys
		return m, nil
	case "up", "k":
		if m.ChoiceSel > 0 {
			m.ChoiceSel--
		}
		return m, nil
	case "down", "j":
		if m.ChoiceSel < len(options)-1 {
			m.ChoiceSel++
		}
		return m, nil
	case "enter":
		return m.resolveChoice(m.ChoiceSel)
	}

	if len(keyStr) == 1 && keyStr[0] >= '1' && keyStr[0] <= '9' {
		idx := int(keyStr[0] - '1')
		if idx < len(options) {
			return m.resolveChoice(idx)
		}
	}
	return m, nil
}

func (m *Model) resolveChoice(idx int) (tea.Model, tea.Cmd) {
	if err := m.Eng.ResolveChoice(idx); err != nil {
		return m, m.flash(err.Error())
	}
	m.Mode = ModeKeys
	return m.afterAdvance()
}

// updateInput handles a pending input prompt.
func (m *Model) updateInput(msg tea.Msg, keyStr string) (tea.Model, tea.Cmd) {
	pending := m.Eng.Pending()
	if pending == nil {
		m.Mode = ModeKeys
		return m, nil
	}

	switch keyStr {
	case "esc":
		m.ValueInput.Blur()
		m.Eng.Backspace()
		m.Mode = ModeKeys
		return m, nil
	case "enter":
		value := m.ValueInput.Value()
		if value == "" {
			return m, m.flash("value must not be empty")
		}
		if err := m.Eng.ResolveInput(value); err != nil {
			return m, m.flash(err.Error())
		}
		m.ValueInput.Blur()
		m.Mode = ModeKeys
		return m.afterAdvance()
	}

	if pending.Action.(tree.Input).Type == tree.InputNumber && !allowedNumberKey(keyStr, m.ValueInput.Value()) {
		return m, nil
	}

	var cmd tea.Cmd
	m.ValueInput, cmd = m.ValueInput.Update(msg)
	return m, cmd
}

// allowedNumberKey admits digits, a leading minus, and editing keys for
// numeric input prompts.
func allowedNumberKey(keyStr, current string) bool {
	if len([]rune(keyStr)) != 1 {
		return true // editing keys (backspace, arrows) pass through
	}
	r := []rune(keyStr)[0]
	if unicode.IsDigit(r) {
		return true
	}
	return r == '-' && current == ""
}

// updateSearch handles the fuzzy search mode.
func (m *Model) updateSearch(msg tea.Msg, keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "esc":
		m.SearchInput.Blur()
		m.Mode = ModeKeys
		return m, nil
	case "up", "ctrl+p":
		if m.SearchSel > 0 {
			m.SearchSel--
		}
		return m, nil
	case "down", "ctrl+n":
		if m.SearchSel < len(m.SearchMatches)-1 {
			m.SearchSel++
		}
		return m, nil
	case "enter":
		return m.jumpToMatch()
	}

	var cmd tea.Cmd
	m.SearchInput, cmd = m.SearchInput.Update(msg)
	m.SearchMatches = m.Index.Match(m.SearchInput.Value())
	m.SearchSel = 0
	return m, cmd
}

// jumpToMatch rebuilds the path for the chosen record and continues as if
// the user had pressed those keys. A record that no longer resolves is an
// internal invariant violation: it is logged and discarded, never silently
// substituted.
func (m *Model) jumpToMatch() (tea.Model, tea.Cmd) {
	if len(m.SearchMatches) == 0 {
		return m, nil
	}
	rec := m.SearchMatches[m.SearchSel]
	rebuilt, err := m.Index.Rebuild(rec.ID)
	if err != nil {
		var cerr *search.CorruptIndexError
		if errors.As(err, &cerr) && m.Log != nil {
			m.Log.Error(err, "discarding stale search result", "id", cerr.ID, "key", cerr.Key)
		}
		return m, m.flash("search result no longer resolves")
	}
	m.Eng = rebuilt
	m.SearchInput.Blur()
	m.Mode = ModeKeys
	return m.afterAdvance()
}

func (m *Model) flash(text string) tea.Cmd {
	m.Flash = text
	m.flashID++
	id := m.flashID
	return func() tea.Msg {
		time.Sleep(flashDuration)
		return flashClearMsg{id: id}
	}
}

// contentRows returns how many body rows the layout may use.
func (m *Model) contentRows() int {
	rows := m.Height
	if m.WinHeight > 0 && m.WinHeight < rows {
		rows = m.WinHeight
	}
	if rows < 4 {
		rows = 4
	}
	return rows
}

func (m *Model) View() tea.View {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	switch {
	case m.HelpVisible:
		b.WriteString(m.viewHelp())
	case m.Mode == ModeSearch:
		b.WriteString(m.viewSearch())
	case m.Mode == ModeChoice:
		b.WriteString(m.viewChoice())
	case m.Mode == ModeInput:
		b.WriteString(m.viewInput())
	default:
		b.WriteString(m.viewKeys())
	}

	if m.Flash != "" {
		b.WriteString("\n" + m.Theme.Flash.Render(m.Flash))
	}
	b.WriteString("\n" + m.Footer.View(m.Mode, m.Eng.CanFinalize()))

	v := tea.NewView(b.String())
	v.AltScreen = true
	return v
}

func (m *Model) viewHeader() string {
	title := m.Theme.Title.Render("whichcmd")
	if keys := m.Eng.KeysPressed(); len(keys) > 0 {
		title += "  " + m.Theme.Crumbs.Render(strings.Join(keys, " > "))
	}
	line := title + "\n"
	if preview := m.Eng.Preview(); preview != "" {
		line += m.Theme.Preview.Render("> "+preview) + "\n"
	}
	return line + "\n"
}

func (m *Model) viewKeys() string {
	nodes := m.Eng.Selectable()
	if len(nodes) == 0 {
		return m.Theme.Name.Render("(no further keys)")
	}

	rows := make([]string, 0, len(nodes))
	limit := m.contentRows()
	for i, n := range nodes {
		if i >= limit {
			rows = append(rows, m.Theme.Count.Render(fmt.Sprintf("… %d more", len(nodes)-i)))
			break
		}
		row := m.Theme.Key.Render(padRight(n.Key, 3)) + m.Theme.Name.Render(padRight(n.Name, 18))
		if count := len(n.Children()); count > 0 {
			row += m.Theme.Count.Render(fmt.Sprintf("+%d", count))
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

func (m *Model) viewChoice() string {
	pending := m.Eng.Pending()
	if pending == nil {
		return ""
	}
	options := pending.Action.(tree.Choice).Options

	var b strings.Builder
	b.WriteString(m.Theme.Prompt.Render("Choose "+pending.Name+":") + "\n")
	for i, opt := range options {
		line := fmt.Sprintf("%d  %s", i+1, opt)
		if i == m.ChoiceSel {
			line = m.Theme.Selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) viewInput() string {
	pending := m.Eng.Pending()
	if pending == nil {
		return ""
	}
	return m.Theme.Prompt.Render("Enter "+pending.Name+": ") + m.ValueInput.View()
}

func (m *Model) viewSearch() string {
	var b strings.Builder
	b.WriteString(m.Theme.Prompt.Render(tree.SearchKey+" ") + m.SearchInput.View() + "\n")

	lines := search.FormatOptions(m.SearchMatches)
	limit := m.contentRows()
	for i, line := range lines {
		if i >= limit {
			break
		}
		if i == m.SearchSel {
			b.WriteString(m.Theme.Selected.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) viewHelp() string {
	rows := []struct{ key, text string }{
		{"a-z", "select the option bound to that key"},
		{"backspace", "remove the last selection"},
		{"enter", "finish an open loop run"},
		{tree.SearchKey, "fuzzy-search all commands"},
		{"esc", "close without output"},
	}
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(m.Theme.HelpKey.Render(padRight(r.key, 11)) + m.Theme.Name.Render(r.text) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func padRight(s string, width int) string {
	if runewidth.StringWidth(s) >= width {
		return s + " "
	}
	return runewidth.FillRight(s, width)
}
