// Package tui provides the Bubble Tea models for the interactive search screen.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/h0rv/ghs/internal/search"
)

// stateMsg carries a State published by the screen's loop.
type stateMsg struct {
	state search.State
}

// OpenedMsg is emitted after a repository URL was handed to the browser.
type OpenedMsg struct {
	URL string
	Err error
}

// QuitMsg is emitted when the user requests to quit.
type QuitMsg struct{}

// waitForState blocks on the loop subscription and delivers the next State.
// It must be re-issued after every stateMsg.
func waitForState(states <-chan search.State) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-states
		if !ok {
			return nil
		}
		return stateMsg{state: state}
	}
}
