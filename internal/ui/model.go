package ui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/nconklindev/labpivot/internal/converter"
	"github.com/nconklindev/labpivot/internal/logging"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	stateFilePicker state = iota
	stateSelected
	stateCancelled
)

type Model struct {
	state        state
	filepicker   filepicker.Model
	selectedFile string
	notice       string
	width        int
	height       int
}

func InitialModel(startDir string) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{converter.ExtXLSX, converter.ExtCSV}
	fp.CurrentDirectory = startDir
	if fp.CurrentDirectory == "" {
		fp.CurrentDirectory, _ = os.Getwd()
	}

	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(accent)
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(highlight)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(highlight)
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.DisabledFile = lipgloss.NewStyle().Foreground(muted)
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(muted)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(accent).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(muted)

	return Model{
		state:      stateFilePicker,
		filepicker: fp,
	}
}

// Selected returns the chosen path, or "" when the picker was cancelled.
func (m Model) Selected() string {
	if m.state != stateSelected {
		return ""
	}
	return m.selectedFile
}

func (m Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Leave room for the title, subtitle and help line
		height := msg.Height - 12
		if height < 5 {
			height = 5
		}
		m.filepicker.SetHeight(height)

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.state = stateCancelled
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.filepicker, cmd = m.filepicker.Update(msg)

	if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
		m.selectedFile = path
		m.state = stateSelected
		return m, tea.Quit
	}

	if didSelect, path := m.filepicker.DidSelectDisabledFile(msg); didSelect {
		m.notice = fmt.Sprintf("%s is not a spreadsheet", path)
		return m, cmd
	}

	return m, cmd
}

func (m Model) View() string {
	if m.state != stateFilePicker {
		return ""
	}

	var s strings.Builder

	s.WriteString(TitleStyle.Render("🧪 labpivot - Lab Results to Patient Table"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select an XLSX or CSV export of lab results"))
	s.WriteString("\n\n")
	if m.notice != "" {
		s.WriteString(ErrorStyle.Render(m.notice))
		s.WriteString("\n\n")
	}
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("↑/↓: navigate • enter: open/select • esc/q: cancel"))

	return s.String()
}

// FilePicker is a pipeline.Selector that asks the user for a file in the terminal.
type FilePicker struct {
	StartDir string
	Options  []tea.ProgramOption
}

func (p FilePicker) Select(ctx context.Context) (string, error) {
	opts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, p.Options...)

	final, err := tea.NewProgram(InitialModel(p.StartDir), opts...).Run()
	if err != nil {
		return "", err
	}

	m, ok := final.(Model)
	if !ok {
		return "", fmt.Errorf("unexpected picker model %T", final)
	}

	logging.Logger(logging.SourceUI).Debug("picker closed", "selected", m.Selected())
	return m.Selected(), nil
}
