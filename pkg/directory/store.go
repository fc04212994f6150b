// Package directory provides the user-collection state store backing
// the demo user list: a profile collection plus a current selection,
// both persisted across restarts.
package directory

import (
	"log/slog"

	"github.com/appsim/appsim/pkg/kvstore"
	"github.com/appsim/appsim/pkg/logging"
	"github.com/appsim/appsim/pkg/state"
)

// DefaultKey is the durable record key for directory state.
const DefaultKey = "user-store"

// State is the directory store's observable value.
type State struct {
	Users    []UserProfile
	Selected *UserProfile
}

// persistedState is the durable shape. Unlike auth, the whole state
// persists.
type persistedState struct {
	Users        []UserProfile `json:"users"`
	SelectedUser *UserProfile  `json:"selectedUser"`
}

// Options configures a Store.
type Options struct {
	// KV is the durable key-value store. Required.
	KV kvstore.Store
	// Key overrides DefaultKey.
	Key string
	// Logger defaults to a no-op logger.
	Logger *slog.Logger
}

// Store owns the user-collection state. All mutations are synchronous
// direct mutations; there is no simulated latency here.
type Store struct {
	state *state.Store[State]
}

// NewStore creates the directory store, restoring any persisted
// collection and selection from opts.KV.
func NewStore(opts Options) *Store {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	persistence := &state.Persistence[State]{
		Store: opts.KV,
		Key:   opts.Key,
		Partialize: func(st State) any {
			users := st.Users
			if users == nil {
				users = []UserProfile{}
			}
			return persistedState{Users: users, SelectedUser: st.Selected}
		},
		Restore: func(def State, data []byte) State {
			var stored persistedState
			if !state.Unmarshal(data, &stored) {
				return def
			}
			def.Users = stored.Users
			def.Selected = stored.SelectedUser
			return def
		},
	}

	return &Store{state: state.New(State{}, persistence, opts.Logger)}
}

// State returns the current snapshot.
func (s *Store) State() State {
	return s.state.State()
}

// Subscribe registers a callback notified after every mutation.
func (s *Store) Subscribe(fn func(State)) func() {
	return s.state.Subscribe(fn)
}

// SetUsers replaces the entire collection. The selection is untouched.
func (s *Store) SetUsers(users []UserProfile) {
	s.state.Set(func(st State) State {
		st.Users = users
		return st
	})
}

// AddUser appends a profile. Adding an id that already exists is a
// full no-op: nothing persists and subscribers are not notified, so
// the call is idempotent by id.
func (s *Store) AddUser(u UserProfile) {
	for _, existing := range s.state.State().Users {
		if existing.ID == u.ID {
			return
		}
	}
	s.state.Set(func(st State) State {
		for _, existing := range st.Users {
			if existing.ID == u.ID {
				return st
			}
		}
		users := make([]UserProfile, len(st.Users), len(st.Users)+1)
		copy(users, st.Users)
		st.Users = append(users, u)
		return st
	})
}

// RemoveUser removes the profile with the given id. When the removed
// profile was the current selection, the selection clears; otherwise it
// is untouched.
func (s *Store) RemoveUser(id int) {
	s.state.Set(func(st State) State {
		users := make([]UserProfile, 0, len(st.Users))
		for _, u := range st.Users {
			if u.ID != id {
				users = append(users, u)
			}
		}
		st.Users = users
		if st.Selected != nil && st.Selected.ID == id {
			st.Selected = nil
		}
		return st
	})
}

// SetSelectedUser replaces the selection unconditionally. The profile
// does not have to be present in the collection.
func (s *Store) SetSelectedUser(u *UserProfile) {
	s.state.Set(func(st State) State {
		st.Selected = u
		return st
	})
}

// ClearUsers empties the collection and clears the selection.
func (s *Store) ClearUsers() {
	s.state.Set(func(st State) State {
		st.Users = []UserProfile{}
		st.Selected = nil
		return st
	})
}
