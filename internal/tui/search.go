package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/h0rv/ghs/internal/search"
	"github.com/muesli/reflow/wordwrap"
	"github.com/pkg/browser"
)

// Screen is the part of search.Screen the TUI drives.
type Screen interface {
	Submit(actions ...search.Action)
	SubmitWithProgress(action search.Action)
	State() search.State
}

type focusArea int

const (
	focusInput focusArea = iota
	focusResults
)

// SearchModel renders the search State and turns key presses into Actions.
// It never changes the State itself; new States arrive as stateMsg.
type SearchModel struct {
	screen Screen
	state  search.State
	keymap KeyMap
	help   HelpModel

	input   textinput.Model
	results list.Model
	spinner spinner.Model

	focus    focusArea
	showHelp bool
	notice   string
	width    int
	height   int

	openURL func(string) error
}

// NewSearchModel creates the search screen view. query pre-fills the input; when empty
// the query of the current State is used.
func NewSearchModel(screen Screen, query string) SearchModel {
	state := screen.State()
	if query == "" {
		query = state.Query
	}

	keymap := DefaultKeyMap()

	ti := textinput.New()
	ti.Placeholder = "Search GitHub repositories..."
	ti.Prompt = "🔍 "
	ti.CharLimit = 256
	ti.Width = 60
	ti.SetValue(query)
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = StatusStyle

	m := SearchModel{
		screen:  screen,
		keymap:  keymap,
		help:    NewHelpModel(keymap),
		input:   ti,
		results: newResultList(),
		spinner: sp,
		focus:   focusInput,
		openURL: browser.OpenURL,
	}
	m.setState(state)
	return m
}

// Init starts the spinner.
func (m SearchModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update handles messages for the search screen.
func (m SearchModel) Update(msg tea.Msg) (SearchModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case stateMsg:
		return m, m.setState(msg.state)

	case OpenedMsg:
		if msg.Err != nil {
			m.notice = fmt.Sprintf("Could not open %s: %v", msg.URL, msg.Err)
		} else {
			m.notice = "Opened " + msg.URL
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m SearchModel) handleKey(msg tea.KeyMsg) (SearchModel, tea.Cmd) {
	m.notice = ""

	// Global keys
	switch {
	case key.Matches(msg, m.keymap.ForceQuit):
		return m, quit
	case key.Matches(msg, m.keymap.Refresh):
		m.screen.SubmitWithProgress(search.Refresh{})
		return m, nil
	case key.Matches(msg, m.keymap.Focus):
		if m.focus == focusInput {
			return m, m.focusResults()
		}
		return m, m.focusInput()
	}

	if m.focus == focusInput {
		switch {
		case key.Matches(msg, m.keymap.Search):
			m.screen.SubmitWithProgress(search.Search{Query: m.input.Value()})
			return m, m.focusResults()
		case key.Matches(msg, m.keymap.Cancel):
			return m, m.focusResults()
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	// Results focused
	if m.showHelp {
		if key.Matches(msg, m.keymap.Help, m.keymap.Cancel) {
			m.showHelp = false
			return m, nil
		}
		if key.Matches(msg, m.keymap.Quit) {
			return m, quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, quit
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keymap.Edit):
		return m, m.focusInput()
	case key.Matches(msg, m.keymap.Open):
		return m, m.openSelected()
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func quit() tea.Msg {
	return QuitMsg{}
}

func (m *SearchModel) focusInput() tea.Cmd {
	m.focus = focusInput
	m.showHelp = false
	return m.input.Focus()
}

func (m *SearchModel) focusResults() tea.Cmd {
	m.focus = focusResults
	m.input.Blur()
	return nil
}

// setState replaces the rendered State. The input keeps what the user is typing.
func (m *SearchModel) setState(state search.State) tea.Cmd {
	m.state = state
	if m.focus != focusInput && m.input.Value() != state.Query {
		m.input.SetValue(state.Query)
	}
	return m.results.SetItems(toListItems(state.Items))
}

// openSelected hands the highlighted repository to the browser.
func (m SearchModel) openSelected() tea.Cmd {
	item, ok := m.results.SelectedItem().(repoItem)
	if !ok {
		return nil
	}
	open := m.openURL
	target := item.repo.URL.String()
	return func() tea.Msg {
		return OpenedMsg{URL: target, Err: open(target)}
	}
}

func (m *SearchModel) resize(width, height int) {
	m.width = width
	m.height = height

	m.input.Width = max(width-10, 10)

	// title (2) + input box (3) + status (2) + short help (2)
	listHeight := max(height-9, 3)
	m.results.SetSize(max(width-2, 10), listHeight)
}

// View renders the search screen.
func (m SearchModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("GitHub Repository Search"))
	b.WriteString("\n")

	inputStyle := BlurredBorderStyle
	if m.focus == focusInput {
		inputStyle = FocusedBorderStyle
	}
	b.WriteString(inputStyle.Render(m.input.View()))
	b.WriteString("\n")

	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	if m.showHelp {
		b.WriteString(m.help.View(m.width))
	} else if len(m.state.Items) > 0 {
		b.WriteString(m.results.View())
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortView(m.width, m.focus))

	return b.String()
}

// statusLine reports loading, errors and result counts. An error stays in the State after
// a later success, so it is only shown while there is nothing else to show.
func (m SearchModel) statusLine() string {
	switch {
	case m.state.IsLoading:
		return m.spinner.View() + StatusStyle.Render(" Searching...")
	case m.notice != "":
		return URLStyle.Render(m.notice)
	case m.state.Err != nil && len(m.state.Items) == 0:
		msg := m.state.Err.Message
		if m.width > 4 {
			msg = wordwrap.String(msg, m.width-4)
		}
		return ErrorStyle.Render(msg)
	case len(m.state.Items) > 0:
		return StatusStyle.Render(fmt.Sprintf("%d repositories for %q", len(m.state.Items), m.state.Query))
	default:
		return lipgloss.NewStyle().Faint(true).Render("Type a query and press enter")
	}
}
