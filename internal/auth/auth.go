// Package auth is the authentication service of the client. Results of
// login, sign-up and sign-out are never returned to the caller; they are
// delivered as AuthState changes to subscribers.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/qrseekers/qrseekers/internal/docstore"
	"github.com/qrseekers/qrseekers/internal/qrseekers"
)

// UsersCollection holds one profile document per user id.
const UsersCollection = "users"

const minPasswordLen = 6

// Messages carried by error states.
const (
	MsgEmptyCredentials   = "Email or password can't be empty"
	MsgInvalidCredentials = "invalid credentials"
	MsgWeakPassword       = "password must be at least 6 characters"
	MsgEmailTaken         = "email already registered"
	MsgInternal           = "something went wrong, please try again"
)

// Subscription is returned by Subscribe.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe stops deliveries. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

type Option func(*Service)

// WithHashCost sets the bcrypt cost used for new passwords.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.hashCost = cost }
}

type Service struct {
	db       *sql.DB
	docs     *docstore.Store
	logger   *slog.Logger
	hashCost int

	// deliver keeps state changes and their deliveries in one order.
	deliver sync.Mutex

	mu    sync.Mutex
	state qrseekers.AuthState
	subs  map[uint64]func(qrseekers.AuthState)
	next  uint64
}

// NewService returns a service in the Loading state. Call CheckStatus to
// resolve it.
func NewService(db *sql.DB, docs *docstore.Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		db:       db,
		docs:     docs,
		logger:   logger,
		hashCost: bcrypt.DefaultCost,
		state:    qrseekers.Loading(),
		subs:     make(map[uint64]func(qrseekers.AuthState)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) State() qrseekers.AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// UserID returns the signed-in user, if any.
func (s *Service) UserID() (string, bool) {
	st := s.State()
	return st.UserID, st.Authenticated()
}

// Subscribe registers fn and immediately delivers the current state to it.
// fn runs on the goroutine that changed the state and must not call back
// into the service.
func (s *Service) Subscribe(fn func(qrseekers.AuthState)) *Subscription {
	s.deliver.Lock()
	defer s.deliver.Unlock()

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	current := s.state
	s.mu.Unlock()

	fn(current)

	return &Subscription{cancel: func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}}
}

// CheckStatus resolves the start-up state from a remembered user id.
func (s *Service) CheckStatus(ctx context.Context, userID string) {
	if userID == "" {
		s.publish(qrseekers.SignedOut())
		return
	}

	var found string
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id FROM credentials WHERE user_id = ?`, userID,
	).Scan(&found)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.Info("remembered user no longer exists", "user_id", userID)
		s.publish(qrseekers.SignedOut())
	case err != nil:
		s.logger.Error("checking auth status", "error", err)
		s.publish(qrseekers.SignedOut())
	default:
		s.publish(qrseekers.SignedIn(found))
	}
}

func (s *Service) Login(ctx context.Context, email, password string) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		s.publish(qrseekers.Failed(MsgEmptyCredentials))
		return
	}
	s.publish(qrseekers.Loading())

	var userID, passwordHash string
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, password_hash FROM credentials WHERE email = ?`, email,
	).Scan(&userID, &passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		s.publish(qrseekers.Failed(MsgInvalidCredentials))
		return
	}
	if err != nil {
		s.logger.Error("looking up credentials", "error", err)
		s.publish(qrseekers.Failed(MsgInternal))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		s.publish(qrseekers.Failed(MsgInvalidCredentials))
		return
	}

	s.logger.Info("user logged in", "user_id", userID)
	s.publish(qrseekers.SignedIn(userID))
}

// Signup creates the account and its profile document, then signs in.
func (s *Service) Signup(ctx context.Context, email, password string) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		s.publish(qrseekers.Failed(MsgEmptyCredentials))
		return
	}
	if len(password) < minPasswordLen {
		s.publish(qrseekers.Failed(MsgWeakPassword))
		return
	}
	s.publish(qrseekers.Loading())

	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM credentials WHERE email = ?`, email,
	).Scan(&exists)
	if err != nil {
		s.logger.Error("checking email", "error", err)
		s.publish(qrseekers.Failed(MsgInternal))
		return
	}
	if exists > 0 {
		s.publish(qrseekers.Failed(MsgEmailTaken))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		s.logger.Error("hashing password", "error", err)
		s.publish(qrseekers.Failed(MsgInternal))
		return
	}

	userID := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO credentials (email, user_id, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		email, userID, string(hash), nowUTC(),
	)
	if err != nil {
		s.logger.Error("creating credentials", "error", err)
		s.publish(qrseekers.Failed(MsgInternal))
		return
	}

	profile := docstore.Document{"email": email, "gameName": ""}
	if err := s.docs.Set(ctx, UsersCollection, userID, profile); err != nil {
		s.logger.Error("creating user document", "user_id", userID, "error", err)
		s.publish(qrseekers.Failed(MsgInternal))
		return
	}

	s.logger.Info("user signed up", "user_id", userID)
	s.publish(qrseekers.SignedIn(userID))
}

func (s *Service) SignOut() {
	s.publish(qrseekers.SignedOut())
}

// RequestPasswordReset records a reset token for a known email and returns
// it. Unknown emails yield an empty token and no error so callers cannot
// probe which accounts exist.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", errors.New("email is required")
	}

	var userID string
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id FROM credentials WHERE email = ?`, email,
	).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	token := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO password_resets (token, user_id, created_at) VALUES (?, ?, ?)`,
		token, userID, nowUTC(),
	)
	if err != nil {
		return "", err
	}
	s.logger.Info("password reset requested", "user_id", userID)
	return token, nil
}

func (s *Service) publish(next qrseekers.AuthState) {
	s.deliver.Lock()
	defer s.deliver.Unlock()

	s.mu.Lock()
	s.state = next
	ids := make([]uint64, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	handlers := make([]func(qrseekers.AuthState), 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, s.subs[id])
	}
	s.mu.Unlock()

	s.logger.Debug("auth state changed", "state", next.String())
	for _, fn := range handlers {
		fn(next)
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func nowUTC() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}
