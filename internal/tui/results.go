package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/h0rv/ghs/internal/search"
	"github.com/muesli/reflow/truncate"
)

// repoItem represents a repository in the result list.
type repoItem struct {
	repo search.RepoListItem
}

func (i repoItem) FilterValue() string { return i.repo.Name }

// repoItemDelegate handles rendering of repository rows.
type repoItemDelegate struct{}

func (d repoItemDelegate) Height() int                             { return 1 }
func (d repoItemDelegate) Spacing() int                            { return 0 }
func (d repoItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d repoItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(repoItem)
	if !ok {
		return
	}

	// Format: name  url, cut to the list width
	str := fmt.Sprintf("%s  %s", i.repo.Name, i.repo.URL.String())
	if avail := m.Width() - 2; avail > 1 {
		str = truncate.StringWithTail(str, uint(avail), "…")
	}

	fn := NormalItemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return SelectedItemStyle.Render("> " + s[0])
		}
	} else {
		str = "  " + str
	}

	fmt.Fprint(w, fn(str))
}

// newResultList creates the repository list. Filtering, paging chrome and the list's own
// quit keys are off; the search screen owns those keys.
func newResultList() list.Model {
	// Start with a reasonable default - will be resized by WindowSizeMsg
	l := list.New(nil, repoItemDelegate{}, 80, 20)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.Styles.PaginationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return l
}

// toListItems converts State rows into list items.
func toListItems(repos []search.RepoListItem) []list.Item {
	items := make([]list.Item, len(repos))
	for i, r := range repos {
		items[i] = repoItem{repo: r}
	}
	return items
}
