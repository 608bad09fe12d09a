package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qrseekers/qrseekers/internal/docstore"
	"github.com/qrseekers/qrseekers/internal/navigation"
	"github.com/qrseekers/qrseekers/internal/qrseekers"
	"github.com/qrseekers/qrseekers/internal/zone"
)

type ScanRequest struct {
	Payload string `json:"payload"`
}

type ScanResponse struct {
	Zone       zone.View           `json:"zone"`
	Navigation navigation.Snapshot `json:"navigation"`
}

func handleCurrentZone(tracker *zone.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, tracker.View())
	}
}

// handleScan resolves a scanned QR payload and opens the zone's quiz.
func handleScan(tracker *zone.Tracker, nav *navigation.Navigator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ScanRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		_, err := tracker.Scan(r.Context(), req.Payload)
		switch {
		case errors.Is(err, zone.ErrInvalidPayload):
			writeError(w, http.StatusBadRequest, "not a QRseekers code")
			return
		case errors.Is(err, docstore.ErrNotFound):
			writeError(w, http.StatusNotFound, "zone not found")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		nav.Navigate(qrseekers.RouteQuiz)
		if err := settle(r.Context(), nav.Sync); err != nil {
			writeError(w, http.StatusServiceUnavailable, "navigator not responding")
			return
		}

		writeJSON(w, http.StatusOK, ScanResponse{Zone: tracker.View(), Navigation: nav.Snapshot()})
	}
}

func handleZoneQR(size int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		png, err := zone.QRCode(chi.URLParam(r, "zoneID"), size)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}
