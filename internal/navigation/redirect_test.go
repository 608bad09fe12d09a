package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qrseekers/qrseekers/internal/qrseekers"
)

func TestRedirectFor(t *testing.T) {
	tests := []struct {
		name    string
		current qrseekers.Route
		state   qrseekers.AuthState
		want    Redirect
		wantOK  bool
	}{
		{
			name:    "signed in from login",
			current: qrseekers.RouteLogin,
			state:   qrseekers.SignedIn("u1"),
			want:    Redirect{Route: qrseekers.RouteJoinGame, PopUpTo: qrseekers.RouteLogin, Inclusive: true},
			wantOK:  true,
		},
		{
			name:    "signed out on profile",
			current: qrseekers.RouteProfile,
			state:   qrseekers.SignedOut(),
			want:    Redirect{Route: qrseekers.RouteLogin, PopUpTo: qrseekers.RouteProfile, Inclusive: true},
			wantOK:  true,
		},
		{
			name:    "signed out on quiz",
			current: qrseekers.RouteQuiz,
			state:   qrseekers.SignedOut(),
			want:    Redirect{Route: qrseekers.RouteLogin, PopUpTo: qrseekers.RouteQuiz, Inclusive: true},
			wantOK:  true,
		},
		{
			name:    "signed out on login",
			current: qrseekers.RouteLogin,
			state:   qrseekers.SignedOut(),
		},
		{
			name:    "signed out on signup",
			current: qrseekers.RouteSignup,
			state:   qrseekers.SignedOut(),
		},
		{
			name:    "error",
			current: qrseekers.RouteLogin,
			state:   qrseekers.Failed("invalid credentials"),
			want:    Redirect{Notice: "invalid credentials"},
			wantOK:  true,
		},
		{
			name:    "loading",
			current: qrseekers.RouteHome,
			state:   qrseekers.Loading(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RedirectFor(tt.current, tt.state)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
