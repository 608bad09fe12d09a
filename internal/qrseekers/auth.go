package qrseekers

import "fmt"

type AuthKind string

const (
	AuthLoading         AuthKind = "loading"
	AuthUnauthenticated AuthKind = "unauthenticated"
	AuthAuthenticated   AuthKind = "authenticated"
	AuthError           AuthKind = "error"
)

// AuthState is the session status reported by the auth service. It is a
// comparable value: two states are the same when kind and payload match.
type AuthState struct {
	Kind    AuthKind `json:"kind"`
	UserID  string   `json:"userId,omitempty"`
	Message string   `json:"message,omitempty"`
}

func Loading() AuthState { return AuthState{Kind: AuthLoading} }

func SignedOut() AuthState { return AuthState{Kind: AuthUnauthenticated} }

func SignedIn(userID string) AuthState {
	return AuthState{Kind: AuthAuthenticated, UserID: userID}
}

func Failed(message string) AuthState {
	return AuthState{Kind: AuthError, Message: message}
}

func (s AuthState) Authenticated() bool { return s.Kind == AuthAuthenticated }

func (s AuthState) String() string {
	switch s.Kind {
	case AuthAuthenticated:
		return fmt.Sprintf("authenticated(%s)", s.UserID)
	case AuthError:
		return fmt.Sprintf("error(%s)", s.Message)
	}
	return string(s.Kind)
}
