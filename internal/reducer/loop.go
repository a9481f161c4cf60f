// Package reducer runs a screen's Action → Result → State pipeline.
//
// A Loop owns exactly one State value. Actions are queued in submission order and
// interpreted one at a time by a single worker; each Result is folded onto the current
// State and the new State is published to subscribers before the next Action starts.
// Interpretation may block (a network call, for instance). Submissions made while it
// blocks are queued and processed afterwards.
package reducer

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Screen is the screen-specific half of a Loop.
type Screen[A, R, S any] interface {
	// Interpret turns an Action into a Result. It may block; ctx is cancelled when the
	// loop stops. ok is false when the Action produces no Result.
	Interpret(ctx context.Context, current S, action A) (result R, ok bool)

	// Fold derives the next State from the prior one. It must not mutate prior.
	Fold(prior S, result R) S
}

// Loop is a single-consumer Action queue bound to one Screen.
type Loop[A, R, S any] struct {
	screen Screen[A, R, S]
	id     string
	log    logrus.FieldLogger

	mu     sync.Mutex
	queue  []A
	closed bool
	wake   chan struct{}

	stateMu sync.RWMutex
	state   S

	subsMu  sync.Mutex
	subs    map[uint64]*subscriber[S]
	nextSub uint64
}

type subscriber[S any] struct {
	ch   chan S
	done chan struct{}
	once sync.Once
}

// New creates a Loop starting from initial. A nil log discards diagnostics.
// The loop does nothing until Run is called.
func New[A, R, S any](screen Screen[A, R, S], initial S, log logrus.FieldLogger) *Loop[A, R, S] {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	id := uuid.NewString()
	return &Loop[A, R, S]{
		screen: screen,
		id:     id,
		log:    log.WithField("screen", id),
		wake:   make(chan struct{}, 1),
		state:  initial,
		subs:   make(map[uint64]*subscriber[S]),
	}
}

// ID identifies this loop instance in log entries.
func (l *Loop[A, R, S]) ID() string {
	return l.id
}

// Submit enqueues actions in order. It never blocks. Actions submitted in one call are
// queued contiguously. Submissions after Close are dropped.
func (l *Loop[A, R, S]) Submit(actions ...A) {
	if len(actions) == 0 {
		return
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		l.log.WithField("count", len(actions)).Warn("submit after close, actions dropped")
		return
	}
	l.queue = append(l.queue, actions...)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// State returns the latest published State.
func (l *Loop[A, R, S]) State() S {
	l.stateMu.RLock()
	defer l.stateMu.RUnlock()
	return l.state
}

// Subscribe returns a channel receiving every State produced from now on, in order.
// The loop waits for slow subscribers instead of dropping States, so the channel must be
// drained until cancel is called. The channel is never closed.
func (l *Loop[A, R, S]) Subscribe(buffer int) (<-chan S, func()) {
	if buffer < 0 {
		buffer = 0
	}
	sub := &subscriber[S]{
		ch:   make(chan S, buffer),
		done: make(chan struct{}),
	}

	l.subsMu.Lock()
	key := l.nextSub
	l.nextSub++
	l.subs[key] = sub
	l.subsMu.Unlock()

	cancel := func() {
		sub.once.Do(func() {
			close(sub.done)
			l.subsMu.Lock()
			delete(l.subs, key)
			l.subsMu.Unlock()
		})
	}
	return sub.ch, cancel
}

// Close stops accepting Actions. Run returns once the already queued Actions are done.
func (l *Loop[A, R, S]) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run is the loop's single worker. It returns nil after Close has been called and the
// queue is drained, or ctx.Err() when ctx is cancelled. Run must be called at most once.
func (l *Loop[A, R, S]) Run(ctx context.Context) error {
	l.log.Debug("loop started")
	defer l.log.Debug("loop stopped")

	for {
		action, ok, err := l.next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		l.step(ctx, action)
	}
}

// next blocks until an Action is queued. ok is false once the loop is closed and empty.
func (l *Loop[A, R, S]) next(ctx context.Context) (action A, ok bool, err error) {
	for {
		l.mu.Lock()
		if len(l.queue) > 0 {
			action = l.queue[0]
			var zero A
			l.queue[0] = zero
			l.queue = l.queue[1:]
			l.mu.Unlock()
			return action, true, nil
		}
		closed := l.closed
		l.mu.Unlock()

		if closed {
			return action, false, nil
		}

		select {
		case <-ctx.Done():
			return action, false, ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop[A, R, S]) step(ctx context.Context, action A) {
	entry := l.log.WithField("action", describe(action))
	entry.Debug("action")

	result, ok := l.screen.Interpret(ctx, l.State(), action)
	if !ok {
		entry.Debug("action produced no result")
		return
	}
	if ctx.Err() != nil {
		// The loop is stopping; the State keeps describing the unfinished action.
		entry.Debug("result discarded, loop stopping")
		return
	}

	next := l.screen.Fold(l.State(), result)
	l.publish(ctx, next)

	entry.WithFields(logrus.Fields{
		"result": describe(result),
		"state":  fmt.Sprintf("%+v", next),
	}).Debug("result")
}

func (l *Loop[A, R, S]) publish(ctx context.Context, next S) {
	l.stateMu.Lock()
	l.state = next
	l.stateMu.Unlock()

	l.subsMu.Lock()
	subs := make([]*subscriber[S], 0, len(l.subs))
	for _, sub := range l.subs {
		subs = append(subs, sub)
	}
	l.subsMu.Unlock()

	for _, sub := range subs {
		select {
		case sub.ch <- next:
		case <-sub.done:
		case <-ctx.Done():
			return
		}
	}
}

// describe renders a value with its type, e.g. "search.Search{Query:octocat}".
func describe(v any) string {
	return fmt.Sprintf("%T%+v", v, v)
}
