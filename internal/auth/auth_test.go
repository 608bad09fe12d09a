package auth_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/qrseekers/qrseekers/internal/auth"
	"github.com/qrseekers/qrseekers/internal/database"
	"github.com/qrseekers/qrseekers/internal/docstore"
	"github.com/qrseekers/qrseekers/internal/migrations"
	"github.com/qrseekers/qrseekers/internal/qrseekers"
)

type recorder struct {
	mu     sync.Mutex
	states []qrseekers.AuthState
}

func (r *recorder) handle(s qrseekers.AuthState) {
	r.mu.Lock()
	r.states = append(r.states, s)
	r.mu.Unlock()
}

func (r *recorder) all() []qrseekers.AuthState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]qrseekers.AuthState(nil), r.states...)
}

func newService(t *testing.T) (*auth.Service, *docstore.Store) {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db))

	docs := docstore.New(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return auth.NewService(db, docs, logger, auth.WithHashCost(bcrypt.MinCost)), docs
}

func TestSubscribeDeliversCurrentState(t *testing.T) {
	svc, _ := newService(t)
	rec := &recorder{}

	sub := svc.Subscribe(rec.handle)
	defer sub.Unsubscribe()

	assert.Equal(t, []qrseekers.AuthState{qrseekers.Loading()}, rec.all())
}

func TestSignupThenLogin(t *testing.T) {
	ctx := context.Background()
	svc, docs := newService(t)

	svc.Signup(ctx, "  Ana@Example.com ", "secret123")
	userID, ok := svc.UserID()
	require.True(t, ok, "state after signup: %s", svc.State())

	doc, err := docs.Get(ctx, auth.UsersCollection, userID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", doc.String("email"))
	assert.Equal(t, "", doc.String("gameName"))

	svc.SignOut()
	assert.Equal(t, qrseekers.SignedOut(), svc.State())

	rec := &recorder{}
	sub := svc.Subscribe(rec.handle)
	defer sub.Unsubscribe()

	svc.Login(ctx, "ana@example.com", "secret123")
	assert.Equal(t, []qrseekers.AuthState{
		qrseekers.SignedOut(),
		qrseekers.Loading(),
		qrseekers.SignedIn(userID),
	}, rec.all())
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	svc.Signup(ctx, "ana@example.com", "secret123")
	svc.SignOut()

	tests := []struct {
		name     string
		email    string
		password string
		want     string
	}{
		{"empty email", "", "secret123", auth.MsgEmptyCredentials},
		{"empty password", "ana@example.com", "", auth.MsgEmptyCredentials},
		{"unknown user", "bob@example.com", "secret123", auth.MsgInvalidCredentials},
		{"wrong password", "ana@example.com", "nope-nope", auth.MsgInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc.Login(ctx, tt.email, tt.password)
			assert.Equal(t, qrseekers.Failed(tt.want), svc.State())
		})
	}
}

func TestSignupRejections(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	svc.Signup(ctx, "ana@example.com", "123")
	assert.Equal(t, qrseekers.Failed(auth.MsgWeakPassword), svc.State())

	svc.Signup(ctx, "ana@example.com", "secret123")
	require.True(t, svc.State().Authenticated())

	svc.Signup(ctx, "ANA@example.com", "another1")
	assert.Equal(t, qrseekers.Failed(auth.MsgEmailTaken), svc.State())
}

func TestCheckStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	svc.Signup(ctx, "ana@example.com", "secret123")
	userID, _ := svc.UserID()

	svc.CheckStatus(ctx, "")
	assert.Equal(t, qrseekers.SignedOut(), svc.State())

	svc.CheckStatus(ctx, "ghost")
	assert.Equal(t, qrseekers.SignedOut(), svc.State())

	svc.CheckStatus(ctx, userID)
	assert.Equal(t, qrseekers.SignedIn(userID), svc.State())
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	svc, _ := newService(t)
	rec := &recorder{}

	sub := svc.Subscribe(rec.handle)
	sub.Unsubscribe()
	sub.Unsubscribe()
	svc.SignOut()

	assert.Len(t, rec.all(), 1)
}

func TestRequestPasswordReset(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	svc.Signup(ctx, "ana@example.com", "secret123")

	token, err := svc.RequestPasswordReset(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	token, err = svc.RequestPasswordReset(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, token)

	_, err = svc.RequestPasswordReset(ctx, " ")
	assert.Error(t, err)
}
