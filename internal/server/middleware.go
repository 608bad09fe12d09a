package server

import (
	"context"
	"net/http"

	"github.com/qrseekers/qrseekers/internal/auth"
)

type ctxKey int

const ctxKeyUser ctxKey = iota

// requireUser rejects requests unless the auth state is Authenticated.
func requireUser(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := svc.UserID()
			if !ok {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func userFrom(r *http.Request) string {
	return r.Context().Value(ctxKeyUser).(string)
}
