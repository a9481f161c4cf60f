package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/h0rv/ghs/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppModel_InitEntersWithoutSearch(t *testing.T) {
	screen := &fakeScreen{}
	m := NewAppModel(screen, make(chan search.State), "", nil)

	require.NotNil(t, m.Init())

	assert.Equal(t, []search.Action{search.Enter{}}, screen.submitted())
}

func TestAppModel_InitSearchesQueryFlag(t *testing.T) {
	screen := &fakeScreen{}
	m := NewAppModel(screen, make(chan search.State), "octocat", nil)

	m.Init()

	assert.Equal(t, []search.Action{
		search.Enter{},
		search.MarkInProgress{},
		search.Search{Query: "octocat"},
	}, screen.submitted())
	assert.Equal(t, "octocat", m.search.input.Value())
}

func TestAppModel_InitResumesLoadingState(t *testing.T) {
	screen := &fakeScreen{state: search.State{Query: "octocat", IsLoading: true}}
	m := NewAppModel(screen, make(chan search.State), "", nil)

	m.Init()

	assert.Equal(t, []search.Action{
		search.Enter{},
		search.MarkInProgress{},
		search.Refresh{},
	}, screen.submitted())
}

func TestAppModel_QuitSubmitsExit(t *testing.T) {
	screen := &fakeScreen{}
	m := NewAppModel(screen, make(chan search.State), "", nil)

	_, cmd := m.Update(QuitMsg{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, []search.Action{search.Exit{}}, screen.submitted())
}

func TestAppModel_StateMsgRearmsSubscription(t *testing.T) {
	states := make(chan search.State, 1)
	screen := &fakeScreen{}
	m := NewAppModel(screen, states, "", nil)

	next := octocatState(t)
	states <- next

	model, cmd := m.Update(stateMsg{state: search.State{Query: "octocat", IsLoading: true}})
	require.NotNil(t, cmd)

	app := model.(AppModel)
	assert.True(t, app.search.state.IsLoading)

	// The returned command (alone or batched) delivers the next State.
	var got []stateMsg
	switch msg := cmd().(type) {
	case stateMsg:
		got = append(got, msg)
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if sm, ok := c().(stateMsg); ok {
				got = append(got, sm)
			}
		}
	}
	require.Len(t, got, 1)
	assert.Equal(t, next, got[0].state)
}

func TestWaitForState_ClosedChannel(t *testing.T) {
	states := make(chan search.State)
	close(states)

	assert.Nil(t, waitForState(states)())
}
