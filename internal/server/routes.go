package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/qrseekers/qrseekers/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("QRseekers API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, map[string]health.Checker{
		"sqlite":    health.CheckerFunc(deps.Docs.Ping),
		"navigator": health.CheckerFunc(deps.Nav.Sync),
	}).Routes())
	r.Get("/ws/nav", handleNavSocket(logger, deps.Nav))

	r.Route("/api", func(r chi.Router) {
		r.Get("/nav", handleNavState(deps.Nav))
		r.Post("/nav/navigate", handleNavigate(deps.Nav))
		r.Post("/nav/back", handleBack(deps.Nav))
		r.Get("/nav/events", handleEvents(deps.Nav))

		r.Get("/auth/state", handleAuthState(deps.Auth))
		r.Post("/auth/login", handleLogin(deps.Auth, deps.Nav))
		r.Post("/auth/signup", handleSignup(deps.Auth, deps.Nav))
		r.Post("/auth/signout", handleSignOut(deps.Auth, deps.Nav))
		r.Post("/auth/reset", handlePasswordReset(logger, deps.Auth))

		r.Get("/zones/{zoneID}/qr.png", handleZoneQR(deps.QRSize))

		// Screens that need a signed-in user.
		r.Group(func(r chi.Router) {
			r.Use(requireUser(deps.Auth))

			r.Get("/profile", handleProfile(deps.Profiles))
			r.Put("/profile/image", handleProfileImage(deps.Profiles))

			r.Get("/games", handleListGames(deps.Games))
			r.Post("/games/{gameID}/join", handleJoinGame(deps.Games, deps.Nav))

			r.Get("/zone", handleCurrentZone(deps.Tracker))
			r.Post("/scan", handleScan(deps.Tracker, deps.Nav))
			r.Get("/zones/{zoneID}/quiz", handleQuiz(deps.Zones))
			r.Post("/zones/{zoneID}/quiz", handleSubmitQuiz(deps.Zones, deps.Docs))
		})
	})
}

// settle waits for the navigator to apply what a handler just queued, so
// the response reflects it.
func settle(ctx context.Context, sync func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sync(ctx)
}
