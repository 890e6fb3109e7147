// Package session owns the auth state machine of the client: the current
// user, the loading/authenticated/unauthenticated state, and the side
// effects of login, register and logout on the durable token store.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Qoldo3/Django/api"
	"github.com/Qoldo3/Django/model"
	"github.com/Qoldo3/Django/store"
)

type State int

const (
	// StateLoading is the initial state while the startup token check is
	// in flight.
	StateLoading State = iota
	StateUnauthenticated
	StateAuthenticated
)

// Result is the tagged outcome of login/register. No error ever crosses
// from this package into page code as anything but a Result.
type Result struct {
	OK  bool
	Err string
}

type Session struct {
	api   *api.Client
	store *store.Store
	log   *slog.Logger

	mu      sync.Mutex
	state   State
	user    *model.User
	started bool
}

func New(client *api.Client, st *store.Store, log *slog.Logger) *Session {
	return &Session{
		api:   client,
		store: st,
		log:   log,
		state: StateLoading,
	}
}

// Startup performs the once-per-process token check: no stored token
// means unauthenticated right away; a stored token is validated by
// fetching the profile, and cleared together with the rest of the
// session keys if that fails. Calling Startup again is a no-op.
func (s *Session) Startup(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	if s.store.AccessToken() == "" {
		s.setState(StateUnauthenticated, nil)
		return
	}

	user, err := s.api.FetchProfile(ctx)
	if err != nil {
		// The one auto-recovered failure: a stale token just means we
		// start logged out.
		s.log.Info("startup profile check failed", "err", err)
		if clearErr := s.store.Clear(); clearErr != nil {
			s.log.Error("clearing session", "err", clearErr)
		}
		s.setState(StateUnauthenticated, nil)
		return
	}

	if err := s.store.SaveUser(&user); err != nil {
		s.log.Error("caching user", "err", err)
	}
	s.setState(StateAuthenticated, &user)
}

// Login exchanges credentials for tokens, persists them, then fetches
// and stores the profile. On any failure the outcome is a Result with a
// message; nothing is persisted when the credential exchange fails.
func (s *Session) Login(ctx context.Context, email, password string) Result {
	pair, err := s.api.Login(ctx, email, password)
	if err != nil {
		return Result{Err: err.Error()}
	}

	if err := s.store.SaveTokens(pair.Access, pair.Refresh); err != nil {
		s.log.Error("persisting tokens", "err", err)
		return Result{Err: "Failed to save session"}
	}

	user, err := s.api.FetchProfile(ctx)
	if err != nil {
		return Result{Err: err.Error()}
	}

	if err := s.store.SaveUser(&user); err != nil {
		s.log.Error("caching user", "err", err)
	}
	s.setState(StateAuthenticated, &user)
	s.log.Info("logged in", "user", user.Email)
	return Result{OK: true}
}

// Register creates the account and, on success, chains straight into
// Login with the same credentials, inheriting its outcome. A failed
// registration never attempts the login.
func (s *Session) Register(ctx context.Context, email, password, confirm string) Result {
	if err := s.api.Register(ctx, email, password, confirm); err != nil {
		return Result{Err: err.Error()}
	}
	return s.Login(ctx, email, password)
}

// Logout clears the in-memory user and every persisted session key.
// Idempotent; logging out while unauthenticated changes nothing.
func (s *Session) Logout() {
	if err := s.store.Clear(); err != nil {
		s.log.Error("clearing session", "err", err)
	}
	s.setState(StateUnauthenticated, nil)
	s.log.Info("logged out")
}

// ForcedLogout is Logout triggered by the transport layer after a 401.
// The store is already wiped by the interceptor at that point, but the
// clear is repeated here so the effect does not depend on ordering.
func (s *Session) ForcedLogout() {
	s.Logout()
}

// SetUser replaces the current profile wholesale, e.g. after a profile
// update. Requires an authenticated session.
func (s *Session) SetUser(u *model.User) {
	if err := s.store.SaveUser(u); err != nil {
		s.log.Error("caching user", "err", err)
	}
	s.setState(StateAuthenticated, u)
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Authenticated() bool {
	return s.State() == StateAuthenticated
}

// User returns a copy of the current profile, or nil when logged out.
func (s *Session) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// TokenExpiry reports when the stored access token expires, read from
// its exp claim without signature verification (the client has no key;
// the value is informational only).
func (s *Session) TokenExpiry() (time.Time, bool) {
	token := s.store.AccessToken()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (s *Session) setState(state State, user *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.user = user
}
