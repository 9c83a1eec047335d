package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/cascade/internal/config"
)

var (
	cyan        = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white       = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

const (
	stateMenu = iota
	stateLive
)

// Factory builds the live model for a chosen preset.
type Factory func(preset string) (Model, error)

type picker struct {
	state, cursor int
	presets       []string
	width, height int
	build         Factory
	live          Model
	err           error
}

// NewPicker lists the presets and switches to the live model built by f for
// the one selected.
func NewPicker(f Factory) tea.Model {
	return picker{
		presets: config.ListPresets(),
		build:   f,
		width:   defaultWidth,
		height:  defaultHeight,
	}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateLive {
		live, cmd := m.live.Update(msg)
		m.live = live.(Model)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.presets)-1 {
				m.cursor++
			}
		case "enter", " ":
			live, err := m.build(m.presets[m.cursor])
			if err != nil {
				m.err = err
				return m, nil
			}
			live.resize(m.width, m.height)
			m.live, m.state = live, stateLive
			return m, live.Init()
		}
	}
	return m, nil
}

func (m picker) View() string {
	if m.state == stateLive {
		return m.live.View()
	}

	var s strings.Builder
	s.WriteString("\n  " + GradientText("cascade", ThemeMatrix.Foreground, ThemeMatrix.Highlight) + "\n")
	s.WriteString("  " + dimStyle.Render("falling glyph columns") + "\n\n")
	for i, name := range m.presets {
		line := fmt.Sprintf("%-10s %s", name, dimmerStyle.Render(config.PresetDescriptions[name]))
		if i == m.cursor {
			s.WriteString(cyan.Render("  > ") + white.Render(line) + "\n")
		} else {
			s.WriteString("    " + dimStyle.Render(line) + "\n")
		}
	}
	if m.err != nil {
		s.WriteString("\n  " + StatusError.Render(m.err.Error()) + "\n")
	}
	s.WriteString("\n  " + KeyHint.Render("↑↓ select  enter start  q quit") + "\n")
	return s.String()
}

// RunPicker starts the preset menu on the alternate screen.
func RunPicker(f Factory) error {
	_, err := tea.NewProgram(NewPicker(f), tea.WithAltScreen()).Run()
	return err
}
