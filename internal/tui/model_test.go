package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	mdwerror "github.com/msto63/udyr/foundation/core/error"
	mdwlog "github.com/msto63/udyr/foundation/core/log"
	"github.com/msto63/udyr/foundation/udyr"
	"github.com/msto63/udyr/foundation/udyr/diag"
	"github.com/msto63/udyr/foundation/udyr/token"
	"github.com/msto63/udyr/internal/history"
)

func newTestModel(store history.Store) Model {
	engine := udyr.New(udyr.Options{Logger: mdwlog.Discard()})
	m := NewModel(engine, store, "test-session")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func typeLine(m Model, line string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(line)})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model)
}

func TestModel_ParsesLine(t *testing.T) {
	m := newTestModel(nil)
	m = typeLine(m, "1 + 2 * 3")

	entries := m.Entries()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Source != "1 + 2 * 3" {
		t.Errorf("Expected source to be kept, got %q", entries[0].Source)
	}
	if entries[0].Output != "(+ 1 (* 2 3))" {
		t.Errorf("Expected (+ 1 (* 2 3)), got %q", entries[0].Output)
	}
	if m.input.Value() != "" {
		t.Errorf("Expected input to be cleared, got %q", m.input.Value())
	}
}

func TestModel_Diagnostics(t *testing.T) {
	m := newTestModel(nil)
	m = typeLine(m, "(1 + 2")

	entry := m.Entries()[0]
	if entry.OK() {
		t.Fatal("Expected diagnostics for unclosed grouping")
	}
	if entry.Output != "" {
		t.Errorf("Expected no tree output, got %q", entry.Output)
	}
	if !strings.Contains(m.Transcript(), "Expect ')' after expression.") {
		t.Errorf("Expected diagnostic in transcript, got %q", m.Transcript())
	}
	if m.failed != 1 {
		t.Errorf("Expected 1 failed entry, got %d", m.failed)
	}
}

func TestModel_EmptyLineIgnored(t *testing.T) {
	m := newTestModel(nil)
	m = typeLine(m, "   ")

	if len(m.Entries()) != 0 {
		t.Errorf("Expected no entries, got %d", len(m.Entries()))
	}
}

func TestModel_Modes(t *testing.T) {
	tests := []struct {
		name     string
		tabs     int
		contains string
	}{
		{"tree", 0, "(- 1)"},
		{"tokens", 1, "MINUS - null"},
		{"json", 2, `"type": "unary"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(nil)
			for i := 0; i < tt.tabs; i++ {
				next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
				m = next.(Model)
			}
			m = typeLine(m, "-1")

			if out := m.Entries()[0].Output; !strings.Contains(out, tt.contains) {
				t.Errorf("Expected output to contain %q, got %q", tt.contains, out)
			}
		})
	}
}

func TestModel_ModeWraps(t *testing.T) {
	m := newTestModel(nil)
	for i := 0; i < len(modeNames); i++ {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m = next.(Model)
	}
	if m.mode != ModeTree {
		t.Errorf("Expected mode to wrap to Tree, got %v", m.mode)
	}
}

func TestModel_Recall(t *testing.T) {
	m := newTestModel(nil)
	m = typeLine(m, "1")
	m = typeLine(m, "2")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)
	if m.input.Value() != "2" {
		t.Errorf("Expected 2, got %q", m.input.Value())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)
	if m.input.Value() != "1" {
		t.Errorf("Expected 1, got %q", m.input.Value())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	if m.input.Value() != "" {
		t.Errorf("Expected live line to be empty, got %q", m.input.Value())
	}
}

func TestModel_RecallLoadedFromStore(t *testing.T) {
	store := history.NewMemoryStore()
	for _, src := range []string{"old one", "old two"} {
		if err := store.Record(context.Background(), &history.Entry{Session: "s", Source: src, OK: true}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	m := newTestModel(store)
	msg := m.loadRecall()()
	next, _ := m.Update(msg)
	m = next.(Model)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)
	if m.input.Value() != "old two" {
		t.Errorf("Expected most recent stored source, got %q", m.input.Value())
	}
}

func TestModel_RecordsHistory(t *testing.T) {
	store := history.NewMemoryStore()
	m := newTestModel(store)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1 +")})
	m = next.(Model)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	if cmd == nil {
		t.Fatal("Expected a record command")
	}
	if msg, ok := cmd().(recordedMsg); !ok || msg.err != nil {
		t.Fatalf("Expected successful recordedMsg, got %#v", msg)
	}

	entries, _ := store.Recent(context.Background(), 10)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 stored entry, got %d", len(entries))
	}
	if entries[0].OK || entries[0].Diagnostics != 1 || entries[0].Session != "test-session" {
		t.Errorf("Expected failed entry with 1 diagnostic in test-session, got %+v", entries[0])
	}
}

func TestModel_ClearAndQuit(t *testing.T) {
	m := newTestModel(nil)
	m = typeLine(m, "1")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = next.(Model)
	if len(m.Entries()) != 0 {
		t.Errorf("Expected transcript cleared, got %d entries", len(m.Entries()))
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
}

func TestModel_View(t *testing.T) {
	m := NewModel(udyr.New(udyr.Options{Logger: mdwlog.Discard()}), nil, "s")
	if m.View() != "Loading..." {
		t.Errorf("Expected loading view before sizing, got %q", m.View())
	}

	m = newTestModel(nil)
	view := m.View()
	for _, want := range []string{"udyr", "Tree", "Tokens", "JSON", "0 parsed"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}
}

func TestRenderDiagnostic(t *testing.T) {
	tests := []struct {
		name string
		d    diag.Diagnostic
	}{
		{"lexical", diag.Lexical(3, mdwerror.CodeUnexpectedCharacter, diag.MsgUnexpectedCharacter)},
		{"at token", diag.AtToken(token.New(token.RightParen, ")", nil, 1), mdwerror.CodeExpectedExpression, diag.MsgExpectExpression)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderDiagnostic(tt.d)
			if !strings.Contains(out, tt.d.Message) {
				t.Errorf("Expected rendered diagnostic to contain %q, got %q", tt.d.Message, out)
			}
			if !strings.Contains(out, "line") {
				t.Errorf("Expected line location, got %q", out)
			}
		})
	}
}
