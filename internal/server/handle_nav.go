package server

import (
	"net/http"

	"github.com/qrseekers/qrseekers/internal/navigation"
	"github.com/qrseekers/qrseekers/internal/qrseekers"
)

type NavigateRequest struct {
	Route     string `json:"route"`
	PopUpTo   string `json:"popUpTo,omitempty"`
	Inclusive bool   `json:"inclusive,omitempty"`
	SingleTop bool   `json:"singleTop,omitempty"`
}

func (req NavigateRequest) parse() (qrseekers.Route, []navigation.Option, error) {
	route, err := qrseekers.ParseRoute(req.Route)
	if err != nil {
		return "", nil, err
	}
	var opts []navigation.Option
	if req.PopUpTo != "" {
		target, err := qrseekers.ParseRoute(req.PopUpTo)
		if err != nil {
			return "", nil, err
		}
		opts = append(opts, navigation.PopUpTo(target, req.Inclusive))
	}
	if req.SingleTop {
		opts = append(opts, navigation.SingleTop())
	}
	return route, opts, nil
}

func handleNavState(nav *navigation.Navigator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, nav.Snapshot())
	}
}

func handleNavigate(nav *navigation.Navigator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req NavigateRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		route, opts, err := req.parse()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		nav.Navigate(route, opts...)
		if err := settle(r.Context(), nav.Sync); err != nil {
			writeError(w, http.StatusServiceUnavailable, "navigator not responding")
			return
		}
		writeJSON(w, http.StatusOK, nav.Snapshot())
	}
}

// handleBack always answers with the resulting state; going back from the
// bottom of the stack is a no-op, not an error.
func handleBack(nav *navigation.Navigator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nav.Back()
		if err := settle(r.Context(), nav.Sync); err != nil {
			writeError(w, http.StatusServiceUnavailable, "navigator not responding")
			return
		}
		writeJSON(w, http.StatusOK, nav.Snapshot())
	}
}
