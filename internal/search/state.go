package search

import (
	"net/url"
	"slices"
	"strings"

	"github.com/h0rv/ghs/internal/domain"
)

// RepoListItem is one row of the result list.
type RepoListItem struct {
	Name string
	URL  url.URL
}

// State is the screen snapshot. Values are never modified in place: the With helpers
// return changed copies and never share the Items backing array.
type State struct {
	Query     string
	IsLoading bool
	Items     []RepoListItem
	Err       *Error
}

// WithQuery returns a copy of s with Query set.
func (s State) WithQuery(query string) State {
	s.Items = slices.Clone(s.Items)
	s.Query = query
	return s
}

// WithLoading returns a copy of s with IsLoading set.
func (s State) WithLoading(loading bool) State {
	s.Items = slices.Clone(s.Items)
	s.IsLoading = loading
	return s
}

// WithItems returns a copy of s holding a copy of items.
func (s State) WithItems(items []RepoListItem) State {
	s.Items = slices.Clone(items)
	return s
}

// WithErr returns a copy of s with Err set.
func (s State) WithErr(err *Error) State {
	s.Items = slices.Clone(s.Items)
	s.Err = err
	return s
}

// Settled reports whether no search is pending.
func (s State) Settled() bool {
	return !s.IsLoading
}

// MapItems converts raw search items into list rows, in source order. Items with a
// missing or blank name or URL, or a URL that does not parse, are dropped.
func MapItems(raw []domain.RawRepo) []RepoListItem {
	items := make([]RepoListItem, 0, len(raw))
	for _, r := range raw {
		if isBlank(r.Name) || isBlank(r.HTMLURL) {
			continue
		}
		u, err := url.Parse(*r.HTMLURL)
		if err != nil {
			continue
		}
		items = append(items, RepoListItem{Name: *r.Name, URL: *u})
	}
	return items
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
