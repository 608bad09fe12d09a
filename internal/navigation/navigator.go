package navigation

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/qrseekers/qrseekers/internal/broker"
	"github.com/qrseekers/qrseekers/internal/qrseekers"
)

// Topics published by the navigator.
const (
	TopicRoute  = "route"
	TopicNotice = "notice"
	TopicError  = "error"
)

// Event is published after every applied request.
type Event struct {
	Type     string    `json:"type"`
	Snapshot *Snapshot `json:"snapshot,omitempty"`
	Message  string    `json:"message,omitempty"`
}

type requestKind int

const (
	reqNavigate requestKind = iota
	reqBack
	reqAuth
	reqBarrier
)

type request struct {
	kind  requestKind
	route qrseekers.Route
	opts  []Option
	auth  qrseekers.AuthState
	done  chan struct{}
}

// Navigator serialises every route mutation through a single-consumer queue
// drained by Run. Requests never block the caller; their effects show up in
// Snapshot and on the event topics.
type Navigator struct {
	logger *slog.Logger
	events *broker.Broker[Event]

	mu    sync.RWMutex
	state *State

	qmu     sync.Mutex
	pending []request
	wake    chan struct{}

	// Owned by the Run goroutine.
	lastAuth *qrseekers.AuthState
}

// New returns a navigator positioned on the login screen.
func New(logger *slog.Logger) *Navigator {
	return &Navigator{
		logger: logger,
		events: broker.New[Event](),
		state:  NewState(qrseekers.RouteLogin),
		wake:   make(chan struct{}, 1),
	}
}

func (n *Navigator) Navigate(route qrseekers.Route, opts ...Option) {
	n.enqueue(request{kind: reqNavigate, route: route, opts: opts})
}

func (n *Navigator) Back() {
	n.enqueue(request{kind: reqBack})
}

// HandleAuthState queues an auth state delivery. Its signature fits
// auth.Service.Subscribe.
func (n *Navigator) HandleAuthState(s qrseekers.AuthState) {
	n.enqueue(request{kind: reqAuth, auth: s})
}

// Sync waits until every request queued before the call has been applied.
func (n *Navigator) Sync(ctx context.Context) error {
	done := make(chan struct{})
	n.enqueue(request{kind: reqBarrier, done: done})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *Navigator) Snapshot() Snapshot {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.state.Snapshot()
}

func (n *Navigator) CurrentRoute() qrseekers.Route {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.state.Current()
}

func (n *Navigator) SecondaryNavVisible() bool {
	return n.CurrentRoute().ShowsBottomNav()
}

func (n *Navigator) Subscribe(topic string) chan Event {
	return n.events.Subscribe(topic)
}

func (n *Navigator) Unsubscribe(topic string, ch chan Event) {
	n.events.Unsubscribe(topic, ch)
}

// Run applies queued requests one at a time until ctx is cancelled.
func (n *Navigator) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-n.wake:
		}
		for _, req := range n.drain() {
			n.apply(req)
		}
	}
}

func (n *Navigator) enqueue(req request) {
	n.qmu.Lock()
	n.pending = append(n.pending, req)
	n.qmu.Unlock()

	select {
	case n.wake <- struct{}{}:
	default:
	}
}

func (n *Navigator) drain() []request {
	n.qmu.Lock()
	defer n.qmu.Unlock()
	reqs := n.pending
	n.pending = nil
	return reqs
}

func (n *Navigator) apply(req request) {
	switch req.kind {
	case reqNavigate:
		n.mutate(func(s *State) error { return s.Navigate(req.route, req.opts...) })
	case reqBack:
		n.mutate(func(s *State) error { return s.Back() })
	case reqAuth:
		n.applyAuth(req.auth)
	case reqBarrier:
		close(req.done)
	}
}

func (n *Navigator) mutate(fn func(*State) error) {
	n.mu.Lock()
	err := fn(n.state)
	snap := n.state.Snapshot()
	n.mu.Unlock()

	if err != nil {
		n.reject(err)
		return
	}
	n.logger.Debug("route changed", "route", snap.Current, "depth", len(snap.BackStack))
	n.events.Publish(TopicRoute, Event{Type: TopicRoute, Snapshot: &snap})
}

func (n *Navigator) applyAuth(s qrseekers.AuthState) {
	if n.lastAuth != nil && *n.lastAuth == s {
		return
	}
	n.lastAuth = &s

	r, ok := RedirectFor(n.CurrentRoute(), s)
	if !ok {
		return
	}
	if !r.Navigates() {
		n.logger.Info("auth notice", "message", r.Notice)
		n.events.Publish(TopicNotice, Event{Type: TopicNotice, Message: r.Notice})
		return
	}
	n.logger.Info("auth redirect", "auth", s.String(), "route", r.Route)
	n.mutate(func(st *State) error { return st.Navigate(r.Route, r.options()...) })
}

// reject reports a request that could not be applied. It never fails the
// loop: the state is still consistent.
func (n *Navigator) reject(err error) {
	if errors.Is(err, ErrEmptyStack) {
		n.logger.Debug("back ignored", "error", err)
	} else {
		n.logger.Warn("navigation rejected", "error", err)
	}
	n.events.Publish(TopicError, Event{Type: TopicError, Message: err.Error()})
}
