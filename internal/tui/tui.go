// Package tui is the terminal front end for a table: a rendering of the
// table above a log and a command line.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/pokertable/internal/command"
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/server"
)

const requestTimeout = 10 * time.Second

// Model represents the Bubble Tea model for a table
type Model struct {
	backend Backend
	logger  *log.Logger

	logViewport viewport.Model
	input       textinput.Model

	current  server.Update
	gameLog  []string
	quitting bool
	logFocus bool

	width  int
	height int
}

// resultMsg is the outcome of applying a typed command
type resultMsg struct {
	line   string
	action game.Action
	prev   game.GameState
	update server.Update
	err    error
}

// remoteMsg is an update made by another client
type remoteMsg struct {
	update server.Update
	ok     bool
}

// NewModel creates a model driving backend
func NewModel(backend Backend, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)

	ti := textinput.New()
	ti.Placeholder = "start, call, bet 40, board As Kd 7c, auto, settle, help"
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 80
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorText)
	ti.Prompt = "> "

	m := &Model{
		backend:     backend,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		input:       ti,
		current:     backend.Snapshot(),
	}
	m.AddLogEntry(InfoStyle.Render("Type 'help' for commands, Ctrl+C to quit"))
	return m
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForRemote())
}

// waitForRemote returns a command that delivers the next remote update
func (m *Model) waitForRemote() tea.Cmd {
	updates := m.backend.Updates()
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-updates
		return remoteMsg{update: u, ok: ok}
	}
}

// State returns the state the model is showing
func (m *Model) State() game.GameState {
	return m.current.State
}

// Log returns the log lines
func (m *Model) Log() []string {
	return append([]string(nil), m.gameLog...)
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case resultMsg:
		m.handleResult(msg)

	case remoteMsg:
		if !msg.ok {
			m.AddLogEntry(ErrorStyle.Render("Disconnected from server"))
			return m, nil
		}
		if msg.update.Version > m.current.Version {
			m.AddLogEntry(InfoStyle.Render(fmt.Sprintf("remote: %s", msg.update.Action)))
			m.current = msg.update
		}
		cmds = append(cmds, m.waitForRemote())

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			m.logFocus = !m.logFocus
			if m.logFocus {
				m.input.Blur()
			} else {
				cmds = append(cmds, m.input.Focus())
			}
		case "enter":
			if !m.logFocus {
				line := strings.TrimSpace(m.input.Value())
				m.input.SetValue("")
				cmds = append(cmds, m.Submit(line))
			}
		}
	}

	var cmd tea.Cmd
	if !m.logFocus {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// Submit handles one typed line. Commands that change the table return a
// tea.Cmd that applies them through the backend.
func (m *Model) Submit(line string) tea.Cmd {
	switch strings.ToLower(line) {
	case "":
		return nil
	case "quit", "exit":
		m.quitting = true
		return tea.Quit
	case "help", "?":
		for _, l := range strings.Split(command.Help, "\n") {
			m.AddLogEntry(InfoStyle.Render(l))
		}
		return nil
	}

	action, err := command.Parse(line, m.current.State)
	if err != nil {
		m.AddLogEntry(ErrorStyle.Render(fmt.Sprintf("%s: %v", line, err)))
		return nil
	}

	prev := m.current.State
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		update, err := backend.Apply(ctx, action)
		return resultMsg{line: line, action: action, prev: prev, update: update, err: err}
	}
}

func (m *Model) handleResult(msg resultMsg) {
	if msg.err != nil {
		m.logger.Debug("Command failed", "line", msg.line, "error", msg.err)
		text := msg.err.Error()
		if errors.Is(msg.err, server.ErrStaleVersion) {
			text = "the table changed underneath you, try again"
		}
		m.AddLogEntry(ErrorStyle.Render(fmt.Sprintf("%s: %s", msg.line, text)))
		if msg.update.Version > m.current.Version {
			m.current = msg.update
		}
		return
	}

	if msg.update.Version > m.current.Version {
		m.current = msg.update
	}
	for _, entry := range describe(msg.action, msg.prev, msg.update.State) {
		m.AddLogEntry(entry)
	}
}

// AddLogEntry adds an entry to the game log
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	tableContent := renderTable(m.current)
	tableWidth := max(lipgloss.Width(tableContent), 44)

	inputContent := m.renderInput()
	inputHeight := lipgloss.Height(inputContent)

	bodyHeight := max(m.height-inputHeight-4, 1)
	logWidth := max(m.width-tableWidth-4, 1)
	m.logViewport.Width = logWidth
	m.logViewport.Height = bodyHeight

	tablePane := paneStyle.Width(tableWidth).Height(bodyHeight).Render(tableContent)

	logStyle := paneStyle
	if m.logFocus {
		logStyle = focusedPaneStyle
	}
	logPane := logStyle.Width(logWidth).Height(bodyHeight).Render(m.logViewport.View())

	inputStyle := focusedPaneStyle
	if m.logFocus {
		inputStyle = paneStyle
	}
	inputPane := inputStyle.Width(max(m.width-2, 1)).Render(inputContent)

	top := lipgloss.JoinHorizontal(lipgloss.Top, tablePane, logPane)
	return lipgloss.JoinVertical(lipgloss.Left, top, inputPane)
}

func (m *Model) renderInput() string {
	var b strings.Builder
	s := m.current.State
	if moves := s.LegalMoves(s.ActionSeat); len(moves) > 0 {
		b.WriteString(renderMoves(s, moves))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.logFocus {
		b.WriteString(InfoStyle.Render("Log focused: ↑↓ scroll, PgUp/PgDn, Tab to input"))
	} else {
		b.WriteString(InfoStyle.Render("Tab to scroll log • Enter to submit • Ctrl+C to quit"))
	}
	return b.String()
}
