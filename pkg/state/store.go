// Package state provides the observable state container behind each
// application concern.
//
// A Store holds a single typed value. Every mutation runs the same
// cycle: swap the value, synchronously persist the declared subset to
// the durable key-value store, then notify subscribers in registration
// order. There is no queue in front of mutations — two actions in
// flight at once resolve last-writer-wins by completion order.
package state

import (
	"log/slog"
	"sync"

	"github.com/appsim/appsim/pkg/kvstore"
)

// Persistence declares which part of the state survives a restart and
// where it lives. Partialize picks the persisted subset; Restore applies
// previously stored bytes onto the default value. Restore is only called
// with data that was found under Key; it should fall back to the default
// on any decode failure.
type Persistence[T any] struct {
	Store      kvstore.Store
	Key        string
	Partialize func(T) any
	Restore    func(def T, data []byte) T
}

// Store is an observable container for a value of type T.
type Store[T any] struct {
	mu      sync.RWMutex
	current T

	subMu sync.Mutex
	subs  []*subscriber[T]

	persist *Persistence[T]
	log     *slog.Logger
}

type subscriber[T any] struct {
	fn      func(T)
	removed bool
}

// New creates a Store holding def. If p is non-nil, any value previously
// persisted under p.Key is restored onto def before the store becomes
// visible; missing or unreadable data leaves def untouched.
func New[T any](def T, p *Persistence[T], log *slog.Logger) *Store[T] {
	if log == nil {
		log = slog.Default()
	}

	s := &Store[T]{current: def, persist: p, log: log}

	if p != nil && p.Restore != nil {
		data, err := p.Store.Get(p.Key)
		if err == nil {
			s.current = p.Restore(def, data)
		}
	}

	return s
}

// State returns the current snapshot. No side effects.
func (s *Store[T]) State() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set replaces the state via mutate, persists the declared subset, and
// notifies subscribers with the new value. The persist step runs inside
// the same critical section as the swap, so durable state always
// reflects the latest swap even when mutations overlap. No lock is held
// while subscribers run, so a callback may itself call Set.
func (s *Store[T]) Set(mutate func(T) T) T {
	s.mu.Lock()
	next := mutate(s.current)
	s.current = next
	s.save(next)
	s.mu.Unlock()

	s.notify(next)
	return next
}

// Subscribe registers fn to be called with the new state immediately
// after every mutation. Subscribers run synchronously in registration
// order. The returned function deregisters fn and is safe to call from
// within a notification, including fn itself.
func (s *Store[T]) Subscribe(fn func(T)) func() {
	sub := &subscriber[T]{fn: fn}

	s.subMu.Lock()
	s.subs = append(s.subs, sub)
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			sub.removed = true
			for i, cur := range s.subs {
				if cur == sub {
					s.subs = append(s.subs[:i], s.subs[i+1:]...)
					break
				}
			}
			s.subMu.Unlock()
		})
	}
}

// SubscriberCount reports the number of registered subscribers.
func (s *Store[T]) SubscriberCount() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs)
}

// save serializes the persisted subset. Persistence failures are logged,
// never surfaced: store actions are total functions over their input.
func (s *Store[T]) save(v T) {
	if s.persist == nil || s.persist.Partialize == nil {
		return
	}

	data, err := marshal(s.persist.Partialize(v))
	if err != nil {
		s.log.Error("failed to serialize persisted state", "key", s.persist.Key, "error", err)
		return
	}
	if err := s.persist.Store.Set(s.persist.Key, data); err != nil {
		s.log.Error("failed to persist state", "key", s.persist.Key, "error", err)
	}
}

// notify runs subscribers over a snapshot of the registration list, so
// subscribing or unsubscribing mid-notification never corrupts the pass.
// A subscriber removed earlier in the same pass is skipped.
func (s *Store[T]) notify(v T) {
	s.subMu.Lock()
	snapshot := make([]*subscriber[T], len(s.subs))
	copy(snapshot, s.subs)
	s.subMu.Unlock()

	for _, sub := range snapshot {
		s.subMu.Lock()
		removed := sub.removed
		s.subMu.Unlock()
		if removed {
			continue
		}
		sub.fn(v)
	}
}
