package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/qrseekers/qrseekers/internal/navigation"
)

// handleEvents streams navigator events as Server-Sent Events. Each SSE
// event name is the navigator topic: route, notice or error.
func handleEvents(nav *navigation.Navigator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		routes := nav.Subscribe(navigation.TopicRoute)
		defer nav.Unsubscribe(navigation.TopicRoute, routes)
		notices := nav.Subscribe(navigation.TopicNotice)
		defer nav.Unsubscribe(navigation.TopicNotice, notices)
		errs := nav.Subscribe(navigation.TopicError)
		defer nav.Unsubscribe(navigation.TopicError, errs)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		snap := nav.Snapshot()
		writeEvent(w, navigation.Event{Type: navigation.TopicRoute, Snapshot: &snap})
		flusher.Flush()

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			var ev navigation.Event
			select {
			case <-r.Context().Done():
				return
			case ev = <-routes:
			case ev = <-notices:
			case ev = <-errs:
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
				continue
			}
			writeEvent(w, ev)
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, ev navigation.Event) {
	data, _ := json.Marshal(ev)
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
}
