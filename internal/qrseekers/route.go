package qrseekers

import (
	"errors"
	"fmt"
)

// ErrInvalidRoute is returned for identifiers outside the route enumeration.
var ErrInvalidRoute = errors.New("invalid route")

// Route identifies a screen of the app. The string values are stable and
// used in deep links and persisted navigation state.
type Route string

const (
	RouteLogin          Route = "login"
	RouteSignup         Route = "signup"
	RouteHome           Route = "home"
	RouteScan           Route = "scan"
	RouteProfile        Route = "profile"
	RouteTeam           Route = "team"
	RouteQuiz           Route = "quiz"
	RouteJoinGame       Route = "joingame"
	RouteGame           Route = "game"
	RouteForgotPassword Route = "forgot_password"
)

var routes = []Route{
	RouteLogin,
	RouteSignup,
	RouteHome,
	RouteScan,
	RouteProfile,
	RouteTeam,
	RouteQuiz,
	RouteJoinGame,
	RouteGame,
	RouteForgotPassword,
}

// Routes returns every route in declaration order.
func Routes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

func ParseRoute(s string) (Route, error) {
	r := Route(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRoute, s)
	}
	return r, nil
}

func (r Route) Valid() bool {
	for _, known := range routes {
		if r == known {
			return true
		}
	}
	return false
}

// ShowsBottomNav reports whether the bottom navigation bar is shown on r.
// Every route except the pre-login screens shows it.
func (r Route) ShowsBottomNav() bool {
	switch r {
	case RouteLogin, RouteSignup, RouteForgotPassword:
		return false
	}
	return r.Valid()
}

// RequiresAuth reports whether r is only reachable by a signed-in user.
func (r Route) RequiresAuth() bool {
	return r.ShowsBottomNav()
}

func (r Route) String() string { return string(r) }
