package server

import (
	"net/http"
	"slices"
	"testing"

	"github.com/qrseekers/qrseekers/internal/navigation"
	"github.com/qrseekers/qrseekers/internal/qrseekers"
)

func TestNavState(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/nav", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	snap := decode[navigation.Snapshot](t, rec)
	wantCurrent(t, snap, qrseekers.RouteLogin)
	if snap.SecondaryNavVisible {
		t.Error("bottom bar visible on login")
	}
}

func TestNavigateAndBack(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/nav/navigate", NavigateRequest{Route: "signup"})
	if rec.Code != http.StatusOK {
		t.Fatalf("navigate status = %d, body %s", rec.Code, rec.Body.String())
	}
	wantCurrent(t, decode[navigation.Snapshot](t, rec), qrseekers.RouteSignup)

	rec = env.do(t, http.MethodPost, "/api/nav/back", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("back status = %d", rec.Code)
	}
	wantCurrent(t, decode[navigation.Snapshot](t, rec), qrseekers.RouteLogin)

	// Nothing left to pop: still on login.
	rec = env.do(t, http.MethodPost, "/api/nav/back", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("back status = %d", rec.Code)
	}
	snap := decode[navigation.Snapshot](t, rec)
	wantCurrent(t, snap, qrseekers.RouteLogin)
	if len(snap.BackStack) != 1 {
		t.Errorf("stack = %v, want only login", snap.BackStack)
	}
}

func TestNavigatePopUpTo(t *testing.T) {
	env := newTestEnv(t)

	for _, route := range []string{"home", "scan", "quiz"} {
		if rec := env.do(t, http.MethodPost, "/api/nav/navigate", NavigateRequest{Route: route}); rec.Code != http.StatusOK {
			t.Fatalf("navigate %s: status %d", route, rec.Code)
		}
	}

	rec := env.do(t, http.MethodPost, "/api/nav/navigate", NavigateRequest{Route: "profile", PopUpTo: "home"})
	snap := decode[navigation.Snapshot](t, rec)

	want := []qrseekers.Route{qrseekers.RouteLogin, qrseekers.RouteHome, qrseekers.RouteProfile}
	if !slices.Equal(snap.BackStack, want) {
		t.Fatalf("stack = %v, want %v", snap.BackStack, want)
	}
	if !snap.SecondaryNavVisible {
		t.Error("bottom bar hidden on profile")
	}
}

func TestNavigateRejectsUnknownRoute(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body any
	}{
		{"unknown route", NavigateRequest{Route: "settings"}},
		{"unknown popUpTo", NavigateRequest{Route: "home", PopUpTo: "nowhere"}},
		{"malformed json", []byte(`{"route":`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/nav/navigate", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}

	snap := decode[navigation.Snapshot](t, env.do(t, http.MethodGet, "/api/nav", nil))
	wantCurrent(t, snap, qrseekers.RouteLogin)
}
