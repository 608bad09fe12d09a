package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/qrseekers/qrseekers/internal/auth"
	"github.com/qrseekers/qrseekers/internal/navigation"
	"github.com/qrseekers/qrseekers/internal/qrseekers"
)

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

// AuthResponse reports the auth state a request left behind and the
// navigation it caused.
type AuthResponse struct {
	Auth       qrseekers.AuthState `json:"auth"`
	Navigation navigation.Snapshot `json:"navigation"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

func handleAuthState(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.State())
	}
}

func handleLogin(svc *auth.Service, nav *navigation.Navigator) http.HandlerFunc {
	return handleCredentials(nav, svc, svc.Login)
}

func handleSignup(svc *auth.Service, nav *navigation.Navigator) http.HandlerFunc {
	return handleCredentials(nav, svc, svc.Signup)
}

// handleCredentials runs a login-like action. The outcome arrives as an
// auth state change, which the navigator reacts to before we answer.
func handleCredentials(nav *navigation.Navigator, svc *auth.Service, action func(ctx context.Context, email, password string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CredentialsRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		action(r.Context(), req.Email, req.Password)

		if err := settle(r.Context(), nav.Sync); err != nil {
			writeError(w, http.StatusServiceUnavailable, "navigator not responding")
			return
		}

		state := svc.State()
		status := http.StatusOK
		if state.Kind == qrseekers.AuthError {
			status = http.StatusUnauthorized
		}
		writeJSON(w, status, AuthResponse{Auth: state, Navigation: nav.Snapshot()})
	}
}

func handleSignOut(svc *auth.Service, nav *navigation.Navigator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.SignOut()
		if err := settle(r.Context(), nav.Sync); err != nil {
			writeError(w, http.StatusServiceUnavailable, "navigator not responding")
			return
		}
		writeJSON(w, http.StatusOK, AuthResponse{Auth: svc.State(), Navigation: nav.Snapshot()})
	}
}

// handlePasswordReset answers the same way whether or not the account
// exists.
func handlePasswordReset(logger *slog.Logger, svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PasswordResetRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Email) == "" {
			writeError(w, http.StatusBadRequest, "email is required")
			return
		}

		if _, err := svc.RequestPasswordReset(r.Context(), req.Email); err != nil {
			logger.Error("password reset failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusAccepted, StatusResponse{Status: "if the account exists, a reset link is on its way"})
	}
}
