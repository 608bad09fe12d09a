package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/qrseekers/qrseekers/internal/navigation"
)

// NavCommand is a message a remote sends over /ws/nav.
type NavCommand struct {
	NavigateRequest
	Back bool `json:"back,omitempty"`
}

// handleNavSocket is a bidirectional remote for the navigator: it pushes a
// snapshot on every route change and applies commands sent by the peer.
func handleNavSocket(logger *slog.Logger, nav *navigation.Navigator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
		defer cancel()

		routes := nav.Subscribe(navigation.TopicRoute)
		defer nav.Unsubscribe(navigation.TopicRoute, routes)

		snap := nav.Snapshot()
		if err := wsjson.Write(ctx, conn, navigation.Event{Type: navigation.TopicRoute, Snapshot: &snap}); err != nil {
			logger.Debug("websocket write failed", "error", err)
			return
		}

		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case ev := <-routes:
					if err := wsjson.Write(ctx, conn, ev); err != nil {
						logger.Debug("websocket write failed", "error", err)
						cancel()
						return
					}
				}
			}
		}()

		for {
			var cmd NavCommand
			if err := wsjson.Read(ctx, conn, &cmd); err != nil {
				logger.Debug("websocket read ended", "error", err)
				return
			}

			if cmd.Back {
				nav.Back()
				continue
			}
			route, opts, err := cmd.parse()
			if err != nil {
				ev := navigation.Event{Type: navigation.TopicError, Message: err.Error()}
				if err := wsjson.Write(ctx, conn, ev); err != nil {
					logger.Debug("websocket write failed", "error", err)
					return
				}
				continue
			}
			nav.Navigate(route, opts...)
		}
	}
}
