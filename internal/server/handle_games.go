package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qrseekers/qrseekers/internal/docstore"
	"github.com/qrseekers/qrseekers/internal/games"
	"github.com/qrseekers/qrseekers/internal/navigation"
	"github.com/qrseekers/qrseekers/internal/qrseekers"
)

type JoinGameResponse struct {
	Game       qrseekers.Game      `json:"game"`
	Navigation navigation.Snapshot `json:"navigation"`
}

func handleListGames(catalog *games.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := catalog.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func handleJoinGame(catalog *games.Catalog, nav *navigation.Navigator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := catalog.Join(r.Context(), userFrom(r), chi.URLParam(r, "gameID"))
		switch {
		case errors.Is(err, games.ErrNotFound):
			writeError(w, http.StatusNotFound, "game not found")
			return
		case errors.Is(err, docstore.ErrNotFound):
			writeError(w, http.StatusNotFound, "profile not found")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		nav.Navigate(qrseekers.RouteGame, navigation.SingleTop())
		if err := settle(r.Context(), nav.Sync); err != nil {
			writeError(w, http.StatusServiceUnavailable, "navigator not responding")
			return
		}

		writeJSON(w, http.StatusOK, JoinGameResponse{Game: g, Navigation: nav.Snapshot()})
	}
}
