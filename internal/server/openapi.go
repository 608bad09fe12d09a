package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/qrseekers/qrseekers/internal/handler/health"
	"github.com/qrseekers/qrseekers/internal/navigation"
	"github.com/qrseekers/qrseekers/internal/profile"
	"github.com/qrseekers/qrseekers/internal/qrseekers"
	"github.com/qrseekers/qrseekers/internal/zone"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type operation struct {
	method, path, summary, description string
	req                                any
	resp                               map[int]any
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "QRseekers API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Control surface for the QRseekers client: navigation, auth, profile, games, zones and quizzes.")

	ops := []operation{
		{
			method: http.MethodGet, path: "/healthz",
			summary:     "Health check",
			description: "Returns the health status of the database and the navigator loop.",
			resp:        map[int]any{http.StatusOK: health.Response{}, http.StatusServiceUnavailable: health.Response{}},
		},
		{
			method: http.MethodGet, path: "/api/nav",
			summary:     "Navigation state",
			description: "Returns the current route, the back-stack and whether the bottom bar is visible.",
			resp:        map[int]any{http.StatusOK: navigation.Snapshot{}},
		},
		{
			method: http.MethodPost, path: "/api/nav/navigate",
			summary:     "Navigate",
			description: "Pushes a route, optionally popping the stack down to another route first.",
			req:         NavigateRequest{},
			resp:        map[int]any{http.StatusOK: navigation.Snapshot{}, http.StatusBadRequest: ErrorResponse{}},
		},
		{
			method: http.MethodPost, path: "/api/nav/back",
			summary:     "Back",
			description: "Pops the current route. A no-op when only the root route is left.",
			resp:        map[int]any{http.StatusOK: navigation.Snapshot{}},
		},
		{
			method: http.MethodGet, path: "/api/nav/events",
			summary:     "Navigation event stream",
			description: "Server-Sent Events for route changes, notices and navigation errors.",
		},
		{
			method: http.MethodGet, path: "/ws/nav",
			summary:     "Navigation socket",
			description: "WebSocket that accepts navigation commands and streams route changes.",
		},
		{
			method: http.MethodGet, path: "/api/auth/state",
			summary: "Auth state",
			resp:    map[int]any{http.StatusOK: StatusResponse{}},
		},
		{
			method: http.MethodPost, path: "/api/auth/login",
			summary:     "Log in",
			description: "Signs in with email and password. The navigator follows the resulting auth state.",
			req:         CredentialsRequest{},
			resp:        map[int]any{http.StatusOK: AuthResponse{}, http.StatusUnauthorized: AuthResponse{}},
		},
		{
			method: http.MethodPost, path: "/api/auth/signup",
			summary: "Sign up",
			req:     CredentialsRequest{},
			resp:    map[int]any{http.StatusOK: AuthResponse{}, http.StatusUnauthorized: AuthResponse{}},
		},
		{
			method: http.MethodPost, path: "/api/auth/signout",
			summary: "Sign out",
			resp:    map[int]any{http.StatusOK: AuthResponse{}},
		},
		{
			method: http.MethodPost, path: "/api/auth/reset",
			summary:     "Request password reset",
			description: "Always accepted, whether or not the email is registered.",
			req:         PasswordResetRequest{},
			resp:        map[int]any{http.StatusAccepted: nil},
		},
		{
			method: http.MethodGet, path: "/api/profile",
			summary: "Profile screen",
			resp:    map[int]any{http.StatusOK: profile.View{}, http.StatusUnauthorized: ErrorResponse{}},
		},
		{
			method: http.MethodPut, path: "/api/profile/image",
			summary:     "Set profile image",
			description: "Body is the raw PNG, JPEG or GIF image.",
			resp:        map[int]any{http.StatusOK: ProfileImageResponse{}, http.StatusBadRequest: ErrorResponse{}},
		},
		{
			method: http.MethodGet, path: "/api/games",
			summary: "List games",
			resp:    map[int]any{http.StatusOK: []qrseekers.Game{}},
		},
		{
			method: http.MethodPost, path: "/api/games/{gameID}/join",
			summary: "Join game",
			resp:    map[int]any{http.StatusOK: JoinGameResponse{}, http.StatusNotFound: ErrorResponse{}},
		},
		{
			method: http.MethodGet, path: "/api/zone",
			summary: "Current zone",
			resp:    map[int]any{http.StatusOK: zone.View{}},
		},
		{
			method: http.MethodPost, path: "/api/scan",
			summary:     "Scan QR code",
			description: "Resolves a scanned zone code and opens its quiz.",
			req:         ScanRequest{},
			resp:        map[int]any{http.StatusOK: ScanResponse{}, http.StatusBadRequest: ErrorResponse{}, http.StatusNotFound: ErrorResponse{}},
		},
		{
			method: http.MethodGet, path: "/api/zones/{zoneID}/quiz",
			summary: "Zone quiz",
			resp:    map[int]any{http.StatusOK: QuizResponse{}, http.StatusNotFound: ErrorResponse{}},
		},
		{
			method: http.MethodPost, path: "/api/zones/{zoneID}/quiz",
			summary: "Submit quiz",
			req:     SubmitQuizRequest{},
			resp:    map[int]any{http.StatusOK: SubmitQuizResponse{}, http.StatusBadRequest: ErrorResponse{}},
		},
	}

	for _, op := range ops {
		oc, err := r.NewOperationContext(op.method, op.path)
		if err != nil {
			continue
		}
		oc.SetSummary(op.summary)
		if op.description != "" {
			oc.SetDescription(op.description)
		}
		if op.req != nil {
			oc.AddReqStructure(op.req)
		}
		for status, body := range op.resp {
			oc.AddRespStructure(body, openapi.WithHTTPStatus(status))
		}
		_ = r.AddOperation(oc)
	}

	// GET /api/zones/{zoneID}/qr.png
	getQR, _ := r.NewOperationContext(http.MethodGet, "/api/zones/{zoneID}/qr.png")
	getQR.SetSummary("Zone QR code")
	getQR.SetDescription("PNG QR code that players scan to open the zone.")
	getQR.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK), openapi.WithContentType("image/png"))
	_ = r.AddOperation(getQR)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
