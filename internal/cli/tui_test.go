package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/microsoft/playwright-go-sub009/pkg/buildinfo"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestVersionListNavigation(t *testing.T) {
	m := NewVersionListModel([]string{"1.45.0", "1.44.1", "1.44.0"})

	next, _ := m.Update(key("down"))
	m = next.(VersionListModel)
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d after down, want 1", m.Cursor)
	}

	next, _ = m.Update(key("up"))
	m = next.(VersionListModel)
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d after up, want 0", m.Cursor)
	}

	// Can't move above the first entry.
	next, _ = m.Update(key("up"))
	m = next.(VersionListModel)
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d at top, want 0", m.Cursor)
	}
}

func TestVersionListSelect(t *testing.T) {
	m := NewVersionListModel([]string{"1.45.0", "1.44.1"})

	next, _ := m.Update(key("down"))
	m = next.(VersionListModel)
	next, cmd := m.Update(key("enter"))
	m = next.(VersionListModel)

	if m.Selected != "1.44.1" {
		t.Errorf("Selected = %q, want 1.44.1", m.Selected)
	}
	if cmd == nil {
		t.Error("enter did not quit the program")
	}
}

func TestVersionListQuit(t *testing.T) {
	m := NewVersionListModel(knownDriverVersions)

	next, cmd := m.Update(key("esc"))
	m = next.(VersionListModel)
	if m.Selected != "" {
		t.Errorf("Selected = %q after quit, want empty", m.Selected)
	}
	if cmd == nil {
		t.Error("esc did not quit the program")
	}
}

func TestVersionListView(t *testing.T) {
	m := NewVersionListModel(knownDriverVersions)
	view := m.View()

	if !strings.Contains(view, buildinfo.DriverVersion) {
		t.Error("view missing the pinned version")
	}
	if !strings.Contains(view, "pinned") {
		t.Error("view missing the pinned marker")
	}
}
