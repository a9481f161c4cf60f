// Package search implements the repository search screen on top of the reducer loop.
//
// Actions describe what the user asked for, Results describe what happened, and State is
// the snapshot the renderer draws. All three are plain values.
package search

import "github.com/h0rv/ghs/internal/domain"

// Action is an intent submitted to the screen. The set of Actions is closed.
type Action interface {
	isAction()
}

// Enter is submitted when the screen becomes visible.
type Enter struct{}

// Exit is submitted when the screen goes away.
type Exit struct{}

// MarkInProgress makes the screen show its loading state.
type MarkInProgress struct{}

// Search runs a repository search for Query.
type Search struct {
	Query string
}

// Refresh repeats the search for the query held in the current State.
type Refresh struct{}

func (Enter) isAction()          {}
func (Exit) isAction()           {}
func (MarkInProgress) isAction() {}
func (Search) isAction()         {}
func (Refresh) isAction()        {}

// Result is the outcome of interpreting one Action. The set of Results is closed.
type Result interface {
	isResult()
}

// InProgress marks the start of a search.
type InProgress struct{}

// GotItems carries a successful search response.
type GotItems struct {
	Query string
	Body  domain.SearchBody
}

// GotError carries a failed search.
type GotError struct {
	Query string
	Err   *Error
}

func (InProgress) isResult() {}
func (GotItems) isResult()   {}
func (GotError) isResult()   {}
