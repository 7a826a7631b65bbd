// Package tui provides a Bubble Tea terminal UI for Alley Cats: a board
// panel, a scrolling journal, a status bar and a prompt line.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/alleycats/cli"
	"github.com/nathoo/alleycats/engine/view"
	"github.com/nathoo/alleycats/types"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the Alley Cats TUI.
type Model struct {
	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated journal lines (unstyled, for re-wrapping)
	snap     snapshot
	prompt   *promptMsg // question waiting for an answer
	winTrust int

	cancel   context.CancelFunc // stops the engine goroutine
	width    int
	height   int
	ready    bool
	over     bool
	quitting bool
}

// outputMsg carries journal lines from the engine goroutine.
type outputMsg struct {
	lines    []string
	isSystem bool
}

// promptMsg asks the current player a question. The answer goes to reply.
type promptMsg struct {
	player string
	text   string
	snap   snapshot
	reply  chan<- string
}

// snapshotMsg refreshes the board and status bar.
type snapshotMsg snapshot

// turnMsg reports a finished turn.
type turnMsg struct {
	result types.TurnResult
	trace  bool
	snap   snapshot
}

// doneMsg reports that the game loop returned.
type doneMsg struct {
	summary []string
	err     error
}

// New creates a TUI model. cancel, if non-nil, is called when the player
// leaves with ctrl+c.
func New(cancel context.CancelFunc, winTrust int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	m := Model{
		input:    ti,
		history:  NewHistory(100),
		winTrust: winTrust,
		cancel:   cancel,
	}
	m.rawLines = []rawLine{
		{text: "Alley Cats. Win the full trust of one owner to rule the yard."},
		{text: fmt.Sprintf("First to %d trust wins. Type help at any prompt.", winTrust)},
		{},
	}
	return m
}

// Init starts the cursor blinking; the engine goroutine drives everything
// else.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages (key presses, window resize, engine traffic).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m.quit()

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(m.asking()); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(m.asking()); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case outputMsg:
		m = m.appendLines(msg.lines, msg.isSystem)

	case promptMsg:
		m.prompt = &msg
		m = m.setSnapshot(msg.snap)

	case snapshotMsg:
		m = m.setSnapshot(snapshot(msg))

	case turnMsg:
		lines := msg.result.Output
		if msg.trace {
			lines = append(append([]string(nil), lines...), view.Trace(msg.result)...)
		}
		m = m.appendLines(lines, false)
		m = m.appendLines([]string{""}, false)
		m = m.setSnapshot(msg.snap)

	case doneMsg:
		m.over = true
		m.prompt = nil
		if msg.err != nil && ignoreQuit(msg.err) == nil {
			// The player asked to leave; nothing left to show.
			return m.quit()
		}
		if msg.err != nil {
			m = m.appendLines([]string{"Error: " + msg.err.Error()}, false)
		} else {
			m = m.appendLines(msg.summary, false)
		}
		m = m.appendLines([]string{"Press Enter to exit."}, true)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// asking returns the player the pending question is for.
func (m Model) asking() string {
	if m.prompt == nil {
		return ""
	}
	return m.prompt.player
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.cancel != nil {
		m.cancel()
	}
	return m, tea.Quit
}

// handleEnter answers the pending question with the submitted line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if m.over {
		return m.quit()
	}
	if input == "" {
		return m, nil
	}
	if m.prompt == nil {
		m = m.appendLines([]string{"Wait for your turn."}, true)
		return m, nil
	}

	m.history.Push(m.prompt.player, input)
	m.history.ResetCursor()

	m.rawLines = append(m.rawLines, rawLine{
		text: fmt.Sprintf("[%s] > %s", m.prompt.player, input), isInput: true,
	})
	m.refreshViewport()

	m.prompt.reply <- input
	m.prompt = nil
	return m, nil
}

func (m Model) setSnapshot(s snapshot) Model {
	m.snap = s
	m.layout()
	m.refreshViewport()
	return m
}

// appendLines adds lines to the journal and refreshes the viewport.
func (m Model) appendLines(lines []string, isSystem bool) Model {
	for _, line := range lines {
		rl := rawLine{text: line, isSystem: isSystem}
		if !isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}
	m.refreshViewport()
	return m
}

// layout sizes the viewport around the board panel: the board on the
// left, the journal on the right, then status bar, prompt and input.
func (m *Model) layout() {
	if m.width == 0 {
		return
	}
	vpWidth := m.width - m.boardWidth()
	if vpWidth < 20 {
		vpWidth = m.width
	}
	vpHeight := m.height - 3 // status bar + prompt + input line
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(vpWidth, vpHeight)
		m.viewport.KeyMap = viewportKeyMap()
		m.ready = true
	} else {
		m.viewport.Width = vpWidth
		m.viewport.Height = vpHeight
	}
}

func (m Model) boardWidth() int {
	if len(m.snap.board) == 0 {
		return 0
	}
	return lipgloss.Width(m.renderBoard())
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.viewport.Width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindTurn:
		return styleTurn.Render(line)
	case kindFight:
		return styleFight.Render(line)
	case kindAgenda:
		return styleAgenda.Render(line)
	case kindWin:
		return styleWin.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarration.Render(line)
	}
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 || lipgloss.Width(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := lipgloss.Width(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full TUI layout.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	top := m.viewport.View()
	if len(m.snap.board) > 0 && m.viewport.Width < m.width {
		top = lipgloss.JoinHorizontal(lipgloss.Top, m.renderBoard(), top)
	}
	return top + "\n" + m.renderStatusBar() + "\n" + m.renderPrompt() + "\n" + m.input.View()
}

// ignoreQuit treats leaving the game as a normal end.
func ignoreQuit(err error) error {
	if errors.Is(err, cli.ErrQuit) || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
