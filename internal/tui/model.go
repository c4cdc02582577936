package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/msto63/udyr/foundation/udyr"
	"github.com/msto63/udyr/foundation/udyr/diag"
	"github.com/msto63/udyr/internal/history"
)

// Mode selects how a parsed line is shown
type Mode int

const (
	ModeTree Mode = iota
	ModeTokens
	ModeJSON
)

var modeNames = []string{"Tree", "Tokens", "JSON"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "Tree"
}

// recallLimit bounds how many past sources are loaded for arrow-key recall
const recallLimit = 200

// Entry is one line of the transcript
type Entry struct {
	Source      string
	Output      string
	Diagnostics diag.List
}

// OK reports whether the line parsed without diagnostics
func (e Entry) OK() bool {
	return len(e.Diagnostics) == 0
}

// Model is the REPL model
type Model struct {
	// State
	mode   Mode
	width  int
	height int
	ready  bool
	err    error

	// Components
	input    textinput.Model
	viewport viewport.Model

	// Front end and persistence
	engine  *udyr.Engine
	store   history.Store
	session string

	// Transcript
	entries []Entry
	failed  int

	// Arrow-key recall, oldest first; recallIdx == len(recall) is the live line
	recall    []string
	recallIdx int
}

// NewModel creates a new REPL model. store may be nil.
func NewModel(engine *udyr.Engine, store history.Store, session string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = PromptStyle
	ti.Placeholder = "expression, e.g. (1 + 2) * 3"
	ti.CharLimit = engine.Options().MaxSourceLength
	ti.Focus()

	return Model{
		mode:    ModeTree,
		input:   ti,
		engine:  engine,
		store:   store,
		session: session,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.loadRecall(),
	)
}

type recallLoadedMsg struct {
	sources []string
	err     error
}

type recordedMsg struct {
	err error
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "ctrl+d":
			return m, tea.Quit

		case "tab":
			m.mode = (m.mode + 1) % Mode(len(modeNames))
			m.updateContent()
			return m, nil

		case "enter":
			source := strings.TrimSpace(m.input.Value())
			if source == "" {
				return m, nil
			}
			m.input.Reset()
			entry := m.evaluate(source)
			m.entries = append(m.entries, entry)
			if !entry.OK() {
				m.failed++
			}
			m.pushRecall(source)
			m.updateContent()
			return m, m.record(entry)

		case "up":
			if m.recallIdx > 0 {
				m.recallIdx--
				m.input.SetValue(m.recall[m.recallIdx])
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if m.recallIdx < len(m.recall) {
				m.recallIdx++
				if m.recallIdx == len(m.recall) {
					m.input.Reset()
				} else {
					m.input.SetValue(m.recall[m.recallIdx])
					m.input.CursorEnd()
				}
			}
			return m, nil

		case "ctrl+l":
			m.entries = nil
			m.failed = 0
			m.err = nil
			m.updateContent()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		if !m.ready {
			m.viewport = viewport.New(msg.Width, max(msg.Height-7, 1))
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = max(msg.Height-7, 1)
		}
		m.input.Width = max(msg.Width-8, 10)
		m.updateContent()

	case recallLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			// Loaded entries are older than anything typed since start
			m.recall = append(msg.sources, m.recall...)
			m.recallIdx = len(m.recall)
		}

	case recordedMsg:
		if msg.err != nil {
			m.err = msg.err
		}
	}

	// Update components
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// evaluate parses one line and renders it in the current mode
func (m *Model) evaluate(source string) Entry {
	entry := Entry{Source: source}

	result, err := m.engine.Parse(source)
	if err != nil {
		entry.Output = RenderError(err.Error())
		return entry
	}
	entry.Diagnostics = result.Diagnostics

	switch m.mode {
	case ModeTokens:
		lines := make([]string, len(result.Tokens))
		for i, t := range result.Tokens {
			lines[i] = t.String()
		}
		entry.Output = strings.Join(lines, "\n")
	case ModeJSON:
		data, err := json.MarshalIndent(result.ToMap(false), "", "  ")
		if err != nil {
			entry.Output = RenderError(err.Error())
		} else {
			entry.Output = string(data)
		}
	default:
		if result.OK() {
			entry.Output = result.Expr().String()
		}
	}

	return entry
}

func (m *Model) pushRecall(source string) {
	if n := len(m.recall); n == 0 || m.recall[n-1] != source {
		m.recall = append(m.recall, source)
	}
	m.recallIdx = len(m.recall)
}

// loadRecall reads earlier submissions from the store
func (m Model) loadRecall() tea.Cmd {
	if m.store == nil {
		return nil
	}
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		entries, err := store.Recent(ctx, recallLimit)
		if err != nil {
			return recallLoadedMsg{err: err}
		}

		sources := make([]string, 0, len(entries))
		for i := len(entries) - 1; i >= 0; i-- {
			sources = append(sources, entries[i].Source)
		}
		return recallLoadedMsg{sources: sources}
	}
}

// record persists a submission
func (m Model) record(entry Entry) tea.Cmd {
	if m.store == nil {
		return nil
	}
	store := m.store
	rec := &history.Entry{
		Session:     m.session,
		Source:      entry.Source,
		OK:          entry.OK(),
		Diagnostics: len(entry.Diagnostics),
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return recordedMsg{err: store.Record(ctx, rec)}
	}
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var s strings.Builder

	// Header
	s.WriteString(m.renderHeader())
	s.WriteString("\n")

	// Transcript
	s.WriteString(m.viewport.View())
	s.WriteString("\n")

	// Input area
	s.WriteString(FocusedInputStyle.Render(m.input.View()))
	s.WriteString("\n")

	// Footer
	s.WriteString(m.renderFooter())

	return s.String()
}

func (m *Model) renderHeader() string {
	var renderedTabs []string
	for i, name := range modeNames {
		if Mode(i) == m.mode {
			renderedTabs = append(renderedTabs, ActiveTabStyle.Render(name))
		} else {
			renderedTabs = append(renderedTabs, TabStyle.Render(name))
		}
	}

	title := RenderTitle("udyr")
	return lipgloss.JoinHorizontal(lipgloss.Top, append([]string{title, " "}, renderedTabs...)...)
}

func (m *Model) renderFooter() string {
	status := StatusOKStyle.Render(fmt.Sprintf("%d parsed", len(m.entries)-m.failed))
	if m.failed > 0 {
		status += " " + StatusErrorStyle.Render(fmt.Sprintf("%d with diagnostics", m.failed))
	}
	if m.err != nil {
		status += " " + RenderError(m.err.Error())
	}

	bar := StatusBarStyle.Render(status)
	help := RenderHelp("enter parse | tab mode | up/down recall | ctrl+l clear | esc quit")
	return lipgloss.JoinVertical(lipgloss.Left, bar, help)
}

// Transcript renders all entries as plain styled text
func (m Model) Transcript() string {
	var s strings.Builder

	if len(m.entries) == 0 {
		s.WriteString(SubtitleStyle.Render("Type an expression and press enter."))
		return s.String()
	}

	for i, e := range m.entries {
		if i > 0 {
			s.WriteString("\n")
		}
		s.WriteString(PromptStyle.Render("> "))
		s.WriteString(SourceStyle.Render(e.Source))
		s.WriteString("\n")
		if e.Output != "" {
			s.WriteString(TreeStyle.Render(e.Output))
			s.WriteString("\n")
		}
		if !e.OK() {
			s.WriteString(RenderDiagnostics(e.Diagnostics))
			s.WriteString("\n")
		}
	}

	return s.String()
}

func (m *Model) updateContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.Transcript())
	m.viewport.GotoBottom()
}

// Entries returns the transcript entries
func (m Model) Entries() []Entry {
	return m.entries
}

// Run starts the REPL on the terminal and blocks until the user quits
func Run(engine *udyr.Engine, store history.Store, session string) error {
	p := tea.NewProgram(NewModel(engine, store, session), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
