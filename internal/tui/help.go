package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlayStyle frames the full key list.
var HelpOverlayStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("62")).
	Padding(1, 2)

// focusedKeys narrows the short help to the keys that work in the focused pane.
type focusedKeys struct {
	KeyMap
	focus focusArea
}

func (k focusedKeys) ShortHelp() []key.Binding {
	if k.focus == focusInput {
		return []key.Binding{k.Search, k.Focus, k.Refresh, k.ForceQuitHelp()}
	}
	return []key.Binding{k.Open, k.Edit, k.Refresh, k.Help, k.Quit}
}

// ForceQuitHelp is ForceQuit with a help entry; ctrl+c is not listed in the full help.
func (k KeyMap) ForceQuitHelp() key.Binding {
	b := k.ForceQuit
	b.SetHelp("ctrl+c", "quit")
	return b
}

// HelpModel renders key hints for the search screen.
type HelpModel struct {
	help   help.Model
	keymap KeyMap
}

// NewHelpModel creates a new help model.
func NewHelpModel(keymap KeyMap) HelpModel {
	return HelpModel{
		help:   help.New(),
		keymap: keymap,
	}
}

// ShortView renders the one-line hint for the focused pane.
func (m HelpModel) ShortView(width int, focus focusArea) string {
	m.help.Width = width
	m.help.ShowAll = false
	return HelpStyle.Render(m.help.View(focusedKeys{KeyMap: m.keymap, focus: focus}))
}

// View renders every binding in an overlay.
func (m HelpModel) View(width int) string {
	if width > 8 {
		m.help.Width = width - 8 // border and padding
	}
	m.help.ShowAll = true
	return HelpOverlayStyle.Render(m.help.View(m.keymap))
}
