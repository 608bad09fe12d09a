// Package navigation owns the route graph of the app: the back-stack, the
// current route, and the redirects driven by the auth state.
package navigation

import (
	"errors"
	"fmt"
	"slices"

	"github.com/qrseekers/qrseekers/internal/qrseekers"
)

var (
	ErrInvalidRoute = qrseekers.ErrInvalidRoute
	ErrEmptyStack   = errors.New("nothing to go back to")
)

type Option func(*options)

type options struct {
	popUpTo   qrseekers.Route
	inclusive bool
	singleTop bool
}

// PopUpTo clears the stack down to route before the new route is pushed.
// route itself is removed too when inclusive is set. Nothing is popped if
// route is not on the stack.
func PopUpTo(route qrseekers.Route, inclusive bool) Option {
	return func(o *options) {
		o.popUpTo = route
		o.inclusive = inclusive
	}
}

// SingleTop skips the push when the route is already current.
func SingleTop() Option {
	return func(o *options) { o.singleTop = true }
}

// Snapshot is a point-in-time copy of the navigation state.
type Snapshot struct {
	Current             qrseekers.Route   `json:"current"`
	BackStack           []qrseekers.Route `json:"backStack"`
	SecondaryNavVisible bool              `json:"secondaryNavVisible"`
}

// State is the back-stack; its top entry is the current route. It is not
// safe for concurrent use. Navigator serialises access to it.
type State struct {
	stack []qrseekers.Route
}

func NewState(start qrseekers.Route) *State {
	if !start.Valid() {
		start = qrseekers.RouteLogin
	}
	return &State{stack: []qrseekers.Route{start}}
}

func (s *State) Current() qrseekers.Route {
	if len(s.stack) == 0 {
		return ""
	}
	return s.stack[len(s.stack)-1]
}

// BackStack returns the stack bottom first.
func (s *State) BackStack() []qrseekers.Route {
	return slices.Clone(s.stack)
}

func (s *State) SecondaryNavVisible() bool {
	return s.Current().ShowsBottomNav()
}

func (s *State) Contains(route qrseekers.Route) bool {
	return slices.Contains(s.stack, route)
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Current:             s.Current(),
		BackStack:           s.BackStack(),
		SecondaryNavVisible: s.SecondaryNavVisible(),
	}
}

// Navigate pushes route. On error the state is left untouched.
func (s *State) Navigate(route qrseekers.Route, opts ...Option) error {
	if !route.Valid() {
		return fmt.Errorf("navigate to %q: %w", route, ErrInvalidRoute)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.popUpTo != "" && !o.popUpTo.Valid() {
		return fmt.Errorf("pop up to %q: %w", o.popUpTo, ErrInvalidRoute)
	}

	if o.popUpTo != "" {
		if i := lastIndex(s.stack, o.popUpTo); i >= 0 {
			if o.inclusive {
				s.stack = s.stack[:i]
			} else {
				s.stack = s.stack[:i+1]
			}
		}
	}

	if o.singleTop && s.Current() == route {
		return nil
	}
	s.stack = append(s.stack, route)
	return nil
}

// Back pops the current route. The last remaining entry is never popped.
func (s *State) Back() error {
	if len(s.stack) <= 1 {
		return ErrEmptyStack
	}
	s.stack = s.stack[:len(s.stack)-1]
	return nil
}

func lastIndex(stack []qrseekers.Route, route qrseekers.Route) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == route {
			return i
		}
	}
	return -1
}
