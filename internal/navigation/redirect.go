package navigation

import "github.com/qrseekers/qrseekers/internal/qrseekers"

// Redirect is the reaction to an auth state change: either a navigation or
// a transient notice for the user.
type Redirect struct {
	Route     qrseekers.Route
	PopUpTo   qrseekers.Route
	Inclusive bool
	Notice    string
}

func (r Redirect) Navigates() bool { return r.Route != "" }

func (r Redirect) options() []Option {
	if r.PopUpTo == "" {
		return nil
	}
	return []Option{PopUpTo(r.PopUpTo, r.Inclusive)}
}

// RedirectFor maps an auth state, observed while current is shown, to the
// reaction it requires. ok is false when nothing should happen.
//
//	authenticated             -> joingame, clearing the stack through login
//	unauthenticated on a
//	signed-in-only route      -> login, clearing the stack through current
//	error                     -> notice with the message
//	loading                   -> nothing
func RedirectFor(current qrseekers.Route, s qrseekers.AuthState) (r Redirect, ok bool) {
	switch s.Kind {
	case qrseekers.AuthAuthenticated:
		return Redirect{
			Route:     qrseekers.RouteJoinGame,
			PopUpTo:   qrseekers.RouteLogin,
			Inclusive: true,
		}, true
	case qrseekers.AuthUnauthenticated:
		if !current.RequiresAuth() {
			return Redirect{}, false
		}
		return Redirect{
			Route:     qrseekers.RouteLogin,
			PopUpTo:   current,
			Inclusive: true,
		}, true
	case qrseekers.AuthError:
		return Redirect{Notice: s.Message}, true
	}
	return Redirect{}, false
}
