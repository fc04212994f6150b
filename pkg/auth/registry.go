package auth

import (
	"sync"
	"time"
)

// Credential pairs a session's public fields with the plaintext secret
// used for login verification. Records live only in this in-memory
// registry — they are never written to durable storage, so the set
// resets to its seed on every process start.
type Credential struct {
	Session
	Password string
}

// Registry is the in-memory credential record set. At most one record
// exists per email (case-sensitive exact match).
type Registry struct {
	mu      sync.Mutex
	records []Credential
}

// NewRegistry creates a registry seeded with the demo account.
func NewRegistry() *Registry {
	return &Registry{
		records: []Credential{
			{
				Session: Session{
					ID:        "1",
					Email:     "demo@example.com",
					FirstName: "Demo",
					LastName:  "User",
					CreatedAt: time.Now().UTC().Format(time.RFC3339),
				},
				Password: "password123",
			},
		},
	}
}

// Lookup returns the record matching both email and password.
func (r *Registry) Lookup(email, password string) (Credential, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.records {
		if rec.Email == email && rec.Password == password {
			return rec, true
		}
	}
	return Credential{}, false
}

// Exists reports whether a record with the given email is registered.
func (r *Registry) Exists(email string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.records {
		if rec.Email == email {
			return true
		}
	}
	return false
}

// Add appends a new record. It returns false, leaving the set
// unchanged, when a record with the same email already exists.
func (r *Registry) Add(c Credential) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.records {
		if rec.Email == c.Email {
			return false
		}
	}
	r.records = append(r.records, c)
	return true
}

// Count returns the number of registered records.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
