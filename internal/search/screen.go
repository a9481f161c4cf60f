package search

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/h0rv/ghs/internal/domain"
	"github.com/h0rv/ghs/internal/reducer"
	"github.com/sirupsen/logrus"
)

// Searcher is the outbound search service.
type Searcher interface {
	SearchRepositories(ctx context.Context, query string) domain.SearchResponse
}

// Screen is the search screen's reducer loop.
type Screen struct {
	*reducer.Loop[Action, Result, State]
}

// NewScreen creates a search screen starting from initial. Call Run to start it.
func NewScreen(searcher Searcher, initial State, log logrus.FieldLogger) *Screen {
	if log == nil {
		log = discardLogger()
	}

	logic := &interpreter{searcher: searcher}
	loop := reducer.New[Action, Result, State](logic, initial, log)
	logic.log = log.WithField("screen", loop.ID())
	return &Screen{Loop: loop}
}

// SubmitWithProgress queues MarkInProgress immediately followed by action, so the
// loading state is observed before the action's result.
func (s *Screen) SubmitWithProgress(action Action) {
	s.Submit(MarkInProgress{}, action)
}

// Await returns the first settled State received from states.
func Await(ctx context.Context, states <-chan State) (State, error) {
	for {
		select {
		case <-ctx.Done():
			return State{}, ctx.Err()
		case s := <-states:
			if s.Settled() {
				return s, nil
			}
		}
	}
}

type interpreter struct {
	searcher Searcher
	log      logrus.FieldLogger
}

// Interpret implements reducer.Screen.
func (i *interpreter) Interpret(ctx context.Context, current State, action Action) (Result, bool) {
	switch a := action.(type) {
	case Enter, Exit:
		// No screen lifecycle behavior is defined for these yet.
		i.log.WithField("action", describe(a)).Debug("lifecycle action ignored")
		return nil, false
	case MarkInProgress:
		return InProgress{}, true
	case Search:
		return i.search(ctx, a.Query), true
	case Refresh:
		return i.search(ctx, current.Query), true
	default:
		i.log.WithField("action", describe(a)).Warn("unknown action")
		return nil, false
	}
}

// Fold implements reducer.Screen.
func (i *interpreter) Fold(prior State, result Result) State {
	return Fold(prior, result)
}

func (i *interpreter) search(ctx context.Context, query string) Result {
	if strings.TrimSpace(query) == "" {
		return GotError{Query: query, Err: invalidArgument("Enter a search term")}
	}

	resp := i.searcher.SearchRepositories(ctx, query)
	if !resp.Successful || resp.Body == nil {
		return GotError{Query: query, Err: networkError(resp.Message)}
	}
	if len(resp.Body.Items) == 0 {
		return GotError{Query: query, Err: notFound("No results found for: " + query)}
	}
	return GotItems{Query: query, Body: *resp.Body}
}

// Fold derives the State that follows result.
//
// GotItems leaves Err as it was: a stale error from an earlier failure survives a later
// successful load. Renderers decide whether to show it.
func Fold(prior State, result Result) State {
	switch r := result.(type) {
	case InProgress:
		return prior.WithLoading(true)
	case GotItems:
		return prior.
			WithQuery(r.Query).
			WithLoading(false).
			WithItems(MapItems(r.Body.Items))
	case GotError:
		return prior.
			WithQuery(r.Query).
			WithLoading(false).
			WithItems(nil).
			WithErr(r.Err)
	}
	return prior
}

func describe(a Action) string {
	return fmt.Sprintf("%T", a)
}

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
