package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/microsoft/playwright-go-sub009/pkg/buildinfo"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// knownDriverVersions lists the driver releases this build can install,
// newest first. The pinned release is always the first entry.
var knownDriverVersions = []string{
	buildinfo.DriverVersion,
	"1.44.1",
	"1.44.0",
	"1.43.1",
	"1.43.0",
	"1.42.1",
}

// =============================================================================
// VersionListModel - Interactive driver version selection
// =============================================================================

// VersionListModel is the bubbletea model for interactive version selection.
type VersionListModel struct {
	Versions []string
	Cursor   int
	Selected string
	Height   int
	Offset   int
}

// NewVersionListModel creates a new version list model.
func NewVersionListModel(versions []string) VersionListModel {
	return VersionListModel{
		Versions: versions,
		Cursor:   0,
		Height:   10,
		Offset:   0,
	}
}

func (m VersionListModel) Init() tea.Cmd {
	return nil
}

func (m VersionListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Versions)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = m.Versions[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m VersionListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Driver Version"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Versions) {
		end = len(m.Versions)
	}

	for i := m.Offset; i < end; i++ {
		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}

		line := m.Versions[i]
		if m.Versions[i] == buildinfo.DriverVersion {
			line += listDimStyle.Render("  (pinned)")
		}

		b.WriteString(cursor + style.Render(line) + "\n")
	}

	return b.String()
}

// pickDriverVersion runs the interactive version selector and returns the
// chosen version, or "" if the user quit without selecting.
func pickDriverVersion() (string, error) {
	model := NewVersionListModel(knownDriverVersions)
	result, err := tea.NewProgram(model).Run()
	if err != nil {
		return "", fmt.Errorf("version selector: %w", err)
	}
	final, ok := result.(VersionListModel)
	if !ok {
		return "", nil
	}
	return final.Selected, nil
}
