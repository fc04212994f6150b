// Package auth provides the authentication state store: login, signup,
// logout, and forgot-password flows over an in-memory credential
// registry, with the session and authenticated flag persisted across
// restarts.
package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/appsim/appsim/internal/id"
	"github.com/appsim/appsim/pkg/kvstore"
	"github.com/appsim/appsim/pkg/logging"
	"github.com/appsim/appsim/pkg/state"
)

// DefaultKey is the durable record key for auth state.
const DefaultKey = "auth-store"

// DefaultDelay is the simulated network latency applied by the
// asynchronous actions when no delay is configured explicitly.
const DefaultDelay = time.Second

// Options configures a Store.
type Options struct {
	// KV is the durable key-value store. Required.
	KV kvstore.Store
	// Key overrides DefaultKey.
	Key string
	// Registry overrides the seeded credential registry.
	Registry *Registry
	// Delay is the simulated latency for Login, Signup, and
	// ForgotPassword. Zero means no delay; use DefaultDelay to match
	// interactive builds.
	Delay time.Duration
	// Logger defaults to a no-op logger.
	Logger *slog.Logger
}

// Store owns the auth state. Construct one per process and pass it by
// reference to whatever layer needs it.
type Store struct {
	state    *state.Store[State]
	registry *Registry
	delay    time.Duration
	log      *slog.Logger
}

// NewStore creates the auth store, restoring any persisted session from
// opts.KV. Loading and Err always start as false/"" regardless of the
// state at last shutdown.
func NewStore(opts Options) *Store {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	persistence := &state.Persistence[State]{
		Store: opts.KV,
		Key:   opts.Key,
		Partialize: func(st State) any {
			return persistedState{Session: st.Session, IsAuthenticated: st.Authenticated}
		},
		Restore: func(def State, data []byte) State {
			var stored persistedState
			if !state.Unmarshal(data, &stored) {
				return def
			}
			def.Session = stored.Session
			def.Authenticated = stored.IsAuthenticated
			return def
		},
	}

	return &Store{
		state:    state.New(State{}, persistence, opts.Logger),
		registry: opts.Registry,
		delay:    opts.Delay,
		log:      opts.Logger,
	}
}

// State returns the current auth snapshot.
func (s *Store) State() State {
	return s.state.State()
}

// Subscribe registers a callback notified after every mutation.
func (s *Store) Subscribe(fn func(State)) func() {
	return s.state.Subscribe(fn)
}

// Login verifies email and password against the credential registry
// after a simulated network delay. On success the session is replaced
// with the record's public fields and Authenticated becomes true; on
// failure Err is set and Authenticated stays false.
//
// Cancellation is not supported: once started, the mutation and its
// persistence complete even if the caller abandons the result.
func (s *Store) Login(ctx context.Context, email, password string) bool {
	s.begin()
	s.wait()

	rec, ok := s.registry.Lookup(email, password)
	if !ok {
		s.fail(errInvalidCredentials)
		s.log.Debug("login rejected", "email", email)
		return false
	}

	session := rec.Session
	s.state.Set(func(st State) State {
		st.Session = &session
		st.Authenticated = true
		st.Loading = false
		st.Err = ""
		return st
	})
	s.log.Info("login succeeded", "email", email)
	return true
}

// Signup registers a new account after a simulated delay. A duplicate
// email (case-sensitive) rejects with an error and leaves both the
// registry and the session unchanged. On success the new account is
// appended to the registry and becomes the active session.
func (s *Store) Signup(ctx context.Context, email, password, firstName, lastName string) bool {
	s.begin()
	s.wait()

	rec := Credential{
		Session: Session{
			ID:        id.Timestamp(),
			Email:     email,
			FirstName: firstName,
			LastName:  lastName,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		},
		Password: password,
	}

	if !s.registry.Add(rec) {
		s.fail(errEmailTaken)
		s.log.Debug("signup rejected", "email", email)
		return false
	}

	session := rec.Session
	s.state.Set(func(st State) State {
		st.Session = &session
		st.Authenticated = true
		st.Loading = false
		st.Err = ""
		return st
	})
	s.log.Info("signup succeeded", "email", email, "accountId", session.ID)
	return true
}

// Logout clears the session synchronously. No simulated delay.
func (s *Store) Logout() {
	s.state.Set(func(st State) State {
		st.Session = nil
		st.Authenticated = false
		st.Err = ""
		return st
	})
	s.log.Info("logged out")
}

// ForgotPassword reports whether an account with the given email
// exists, after a simulated delay. No mail is sent and no state beyond
// Loading/Err changes; the UI layer owns any "email sent" claim.
func (s *Store) ForgotPassword(ctx context.Context, email string) bool {
	s.begin()
	s.wait()

	if !s.registry.Exists(email) {
		s.fail(errUnknownEmail)
		return false
	}

	s.state.Set(func(st State) State {
		st.Loading = false
		st.Err = ""
		return st
	})
	return true
}

// ClearError resets Err. Idempotent.
func (s *Store) ClearError() {
	s.state.Set(func(st State) State {
		st.Err = ""
		return st
	})
}

// begin marks the authenticating phase.
func (s *Store) begin() {
	s.state.Set(func(st State) State {
		st.Loading = true
		st.Err = ""
		return st
	})
}

// fail records a business rejection.
func (s *Store) fail(msg string) {
	s.state.Set(func(st State) State {
		st.Loading = false
		st.Err = msg
		return st
	})
}

// wait sleeps for the configured simulated latency. It runs outside any
// store lock so overlapping actions still resolve by completion order.
func (s *Store) wait() {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
}
