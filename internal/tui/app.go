package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/h0rv/ghs/internal/search"
	"github.com/sirupsen/logrus"
)

// AppModel is the root Bubble Tea model. It connects the screen's State subscription to
// the search view and reports the screen lifecycle (Enter on start, Exit on quit).
type AppModel struct {
	screen Screen
	states <-chan search.State
	query  string
	log    logrus.FieldLogger

	search SearchModel
}

// NewAppModel creates the root model. states must be a subscription of screen.
// A non-empty query is searched as soon as the program starts.
func NewAppModel(screen Screen, states <-chan search.State, query string, log logrus.FieldLogger) AppModel {
	if log == nil {
		log = discardLogger()
	}
	return AppModel{
		screen: screen,
		states: states,
		query:  query,
		log:    log,
		search: NewSearchModel(screen, query),
	}
}

// Init reports Enter and resumes or starts a search when there is one to run.
func (m AppModel) Init() tea.Cmd {
	m.screen.Submit(search.Enter{})

	switch {
	case m.query != "":
		m.log.WithField("query", m.query).Debug("initial search")
		m.screen.SubmitWithProgress(search.Search{Query: m.query})
	case m.screen.State().IsLoading:
		// A restored State was saved mid-search; run it again.
		m.log.WithField("query", m.screen.State().Query).Debug("resuming search")
		m.screen.SubmitWithProgress(search.Refresh{})
	}

	return tea.Batch(m.search.Init(), waitForState(m.states), tea.WindowSize())
}

// Update handles lifecycle messages and delegates the rest to the search view.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case QuitMsg:
		m.log.Debug("quit requested")
		m.screen.Submit(search.Exit{})
		return m, tea.Quit

	case stateMsg:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, tea.Batch(cmd, waitForState(m.states))

	case OpenedMsg:
		if msg.Err != nil {
			m.log.WithError(msg.Err).WithField("url", msg.URL).Warn("open in browser failed")
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// View renders the search view.
func (m AppModel) View() string {
	return m.search.View()
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
