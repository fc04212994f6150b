package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appsim/appsim/pkg/kvstore"
)

func newTestStore(kv kvstore.Store) *Store {
	if kv == nil {
		kv = kvstore.NewMemory()
	}
	return NewStore(Options{KV: kv})
}

func TestLoginWithSeededCredentials(t *testing.T) {
	s := newTestStore(nil)

	ok := s.Login(context.Background(), "demo@example.com", "password123")
	require.True(t, ok)

	st := s.State()
	assert.True(t, st.Authenticated)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Err)
	require.NotNil(t, st.Session)
	assert.Equal(t, "demo@example.com", st.Session.Email)
	assert.Equal(t, "Demo", st.Session.FirstName)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "demo@example.com", "wrong"},
		{"unknown email", "nobody@example.com", "password123"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(nil)

			ok := s.Login(context.Background(), tt.email, tt.password)
			assert.False(t, ok)

			st := s.State()
			assert.False(t, st.Authenticated)
			assert.Nil(t, st.Session)
			assert.Equal(t, "Invalid email or password", st.Err)
			assert.False(t, st.Loading)
		})
	}
}

func TestSignupCreatesAccountAndSession(t *testing.T) {
	reg := NewRegistry()
	s := NewStore(Options{KV: kvstore.NewMemory(), Registry: reg})

	ok := s.Signup(context.Background(), "new@example.com", "secret", "New", "Person")
	require.True(t, ok)

	st := s.State()
	assert.True(t, st.Authenticated)
	require.NotNil(t, st.Session)
	assert.Equal(t, "new@example.com", st.Session.Email)
	assert.NotEmpty(t, st.Session.ID)
	assert.NotEmpty(t, st.Session.CreatedAt)
	assert.Equal(t, 2, reg.Count())

	// The new account can log in.
	s2 := NewStore(Options{KV: kvstore.NewMemory(), Registry: reg})
	assert.True(t, s2.Login(context.Background(), "new@example.com", "secret"))
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	reg := NewRegistry()
	s := NewStore(Options{KV: kvstore.NewMemory(), Registry: reg})

	ok := s.Signup(context.Background(), "demo@example.com", "other", "Someone", "Else")
	assert.False(t, ok)

	st := s.State()
	assert.Equal(t, "User with this email already exists", st.Err)
	assert.False(t, st.Authenticated)
	assert.Nil(t, st.Session)
	assert.Equal(t, 1, reg.Count(), "registry must be unchanged")
}

func TestSignupEmailMatchIsCaseSensitive(t *testing.T) {
	s := newTestStore(nil)

	// Differs only in case from the seeded account, so it is a new email.
	ok := s.Signup(context.Background(), "Demo@example.com", "pw", "A", "B")
	assert.True(t, ok)
}

func TestLogoutClearsSession(t *testing.T) {
	s := newTestStore(nil)
	require.True(t, s.Login(context.Background(), "demo@example.com", "password123"))

	s.Logout()

	st := s.State()
	assert.Nil(t, st.Session)
	assert.False(t, st.Authenticated)
	assert.Empty(t, st.Err)
}

func TestForgotPassword(t *testing.T) {
	s := newTestStore(nil)

	assert.True(t, s.ForgotPassword(context.Background(), "demo@example.com"))
	assert.Empty(t, s.State().Err)

	assert.False(t, s.ForgotPassword(context.Background(), "nobody@example.com"))
	assert.Equal(t, "No account found with this email address", s.State().Err)

	// ForgotPassword never mutates the session.
	assert.Nil(t, s.State().Session)
	assert.False(t, s.State().Authenticated)
}

func TestClearErrorIsIdempotent(t *testing.T) {
	s := newTestStore(nil)
	s.Login(context.Background(), "demo@example.com", "bad")
	require.NotEmpty(t, s.State().Err)

	s.ClearError()
	assert.Empty(t, s.State().Err)
	s.ClearError()
	assert.Empty(t, s.State().Err)
}

func TestPersistedSubsetRoundTrip(t *testing.T) {
	kv := kvstore.NewMemory()
	s := newTestStore(kv)
	require.True(t, s.Login(context.Background(), "demo@example.com", "password123"))

	// Leave a transient error behind before the "restart".
	s.ForgotPassword(context.Background(), "nobody@example.com")
	require.NotEmpty(t, s.State().Err)

	// Simulated process restart over the same durable key. The registry
	// is in-memory only, so a fresh one is seeded.
	restarted := NewStore(Options{KV: kv})

	st := restarted.State()
	assert.True(t, st.Authenticated)
	require.NotNil(t, st.Session)
	assert.Equal(t, "demo@example.com", st.Session.Email)
	assert.False(t, st.Loading, "isLoading must reset on reload")
	assert.Empty(t, st.Err, "error must reset on reload")
}

func TestLogoutPersists(t *testing.T) {
	kv := kvstore.NewMemory()
	s := newTestStore(kv)
	require.True(t, s.Login(context.Background(), "demo@example.com", "password123"))
	s.Logout()

	restarted := NewStore(Options{KV: kv})
	assert.False(t, restarted.State().Authenticated)
	assert.Nil(t, restarted.State().Session)
}

func TestCorruptPersistedRecordDegradesToAnonymous(t *testing.T) {
	kv := kvstore.NewMemory()
	require.NoError(t, kv.Set(DefaultKey, []byte("{nonsense")))

	s := newTestStore(kv)
	st := s.State()
	assert.Nil(t, st.Session)
	assert.False(t, st.Authenticated)
}

func TestSubscriberSeesTransitions(t *testing.T) {
	s := newTestStore(nil)

	var loadingSeen, authedSeen bool
	s.Subscribe(func(st State) {
		if st.Loading {
			loadingSeen = true
		}
		if st.Authenticated {
			authedSeen = true
		}
	})

	require.True(t, s.Login(context.Background(), "demo@example.com", "password123"))
	assert.True(t, loadingSeen, "authenticating phase must be observable")
	assert.True(t, authedSeen)
}
