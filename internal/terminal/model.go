package terminal

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Jelmerro/nus/internal/core"
)

// selectorModel drives a core.Selector from bubbletea events. The selector
// is shared by pointer, so copies made by the program loop see one state.
type selectorModel struct {
	name     string
	selector *core.Selector
	style    lipgloss.Style
	width    int
	outcome  core.Outcome
}

func newSelectorModel(name string, selector *core.Selector, style lipgloss.Style) selectorModel {
	return selectorModel{name: name, selector: selector, style: style}
}

func (m selectorModel) Init() tea.Cmd {
	return nil
}

func (m selectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		for _, key := range keysFromMsg(msg) {
			if outcome := m.selector.Apply(key); outcome != core.OutcomePending {
				m.outcome = outcome
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// View is the single prompt line, cut to the terminal width so redraws
// never wrap. Once the session is decided the view is empty, which clears
// the line.
func (m selectorModel) View() string {
	if m.outcome != core.OutcomePending {
		return ""
	}
	style := m.style
	if m.width > 0 {
		style = style.MaxWidth(m.width)
	}
	return style.Render(m.selector.Render(m.name))
}
