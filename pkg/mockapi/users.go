package mockapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/appsim/appsim/pkg/directory"
)

// DefaultSlowDelay is the fixed latency of the slow endpoint.
const DefaultSlowDelay = 2 * time.Second

// UserService owns the in-memory UserProfile collection shared by the
// mock user routes. Every fresh service starts from the same three
// seeded records.
type UserService struct {
	mu       sync.Mutex
	profiles []directory.UserProfile

	slowDelay time.Duration
}

// NewUserService creates a seeded user service. A slowDelay of zero
// falls back to DefaultSlowDelay; tests pass a small value.
func NewUserService(slowDelay time.Duration) *UserService {
	if slowDelay <= 0 {
		slowDelay = DefaultSlowDelay
	}
	return &UserService{
		profiles:  seedProfiles(),
		slowDelay: slowDelay,
	}
}

// Routes returns the fixed ordered route list. Order matters: the
// literal /users/search rule precedes /users/:id so that first-match
// resolves "search" as a path, not an id.
func (s *UserService) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/users", Handler: s.list},
		{Method: http.MethodGet, Path: "/users/search", Handler: s.search},
		{Method: http.MethodGet, Path: "/users/:id", Handler: s.get},
		{Method: http.MethodPost, Path: "/users", Handler: s.create},
		{Method: http.MethodPut, Path: "/users/:id", Handler: s.update},
		{Method: http.MethodDelete, Path: "/users/:id", Handler: s.delete},
		{Method: http.MethodGet, Path: "/slow-endpoint", Handler: s.slow},
		{Method: http.MethodGet, Path: "/error-endpoint", Handler: s.fail},
	}
}

// Reset restores the collection to its seed records.
func (s *UserService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = seedProfiles()
}

// Count returns the number of records in the collection.
func (s *UserService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.profiles)
}

func (s *UserService) list(*Request) *Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]directory.UserProfile, len(s.profiles))
	copy(out, s.profiles)
	return JSON(http.StatusOK, out)
}

func (s *UserService) get(req *Request) *Response {
	userID, ok := parseID(req.Params["id"])
	if !ok {
		return notFound(req.Params["id"])
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.profiles {
		if p.ID == userID {
			return JSON(http.StatusOK, p)
		}
	}
	return notFound(req.Params["id"])
}

func (s *UserService) create(req *Request) *Response {
	var profile directory.UserProfile
	if err := json.Unmarshal(req.Body, &profile); err != nil {
		return JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// New ids continue from the highest existing id; an empty collection
	// starts over at 1.
	maxID := 0
	for _, p := range s.profiles {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	profile.ID = maxID + 1

	s.profiles = append(s.profiles, profile)
	return JSON(http.StatusCreated, profile)
}

func (s *UserService) update(req *Request) *Response {
	userID, ok := parseID(req.Params["id"])
	if !ok {
		return notFound(req.Params["id"])
	}

	var updates map[string]json.RawMessage
	if err := json.Unmarshal(req.Body, &updates); err != nil {
		return JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
	}
	// This is an id-keyed operation; the path decides the record.
	delete(updates, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.profiles {
		if p.ID != userID {
			continue
		}
		merged, err := shallowMerge(p, updates)
		if err != nil {
			return JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		}
		s.profiles[i] = merged
		return JSON(http.StatusOK, merged)
	}
	return notFound(req.Params["id"])
}

func (s *UserService) delete(req *Request) *Response {
	userID, ok := parseID(req.Params["id"])
	if !ok {
		return notFound(req.Params["id"])
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.profiles {
		if p.ID != userID {
			continue
		}
		s.profiles = append(s.profiles[:i], s.profiles[i+1:]...)
		return Empty(http.StatusNoContent)
	}
	return notFound(req.Params["id"])
}

func (s *UserService) search(req *Request) *Response {
	q := strings.ToLower(req.Query.Get("q"))

	s.mu.Lock()
	defer s.mu.Unlock()

	matches := make([]directory.UserProfile, 0)
	for _, p := range s.profiles {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Email), q) ||
			strings.Contains(strings.ToLower(p.Username), q) {
			matches = append(matches, p)
		}
	}
	return JSON(http.StatusOK, matches)
}

// slow responds after a fixed delay to exercise loading-state UI.
func (s *UserService) slow(*Request) *Response {
	time.Sleep(s.slowDelay)
	return JSON(http.StatusOK, map[string]string{"message": "Slow response"})
}

// fail always responds 500 to exercise error-state UI.
func (s *UserService) fail(*Request) *Response {
	return JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
}

func parseID(raw string) (int, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func notFound(rawID string) *Response {
	return JSON(http.StatusNotFound, ErrorResponse{Error: "user not found", ID: rawID})
}

// shallowMerge overlays top-level JSON fields from updates onto base.
// Nested objects present in updates replace the base value wholesale.
func shallowMerge(base directory.UserProfile, updates map[string]json.RawMessage) (directory.UserProfile, error) {
	raw, err := json.Marshal(base)
	if err != nil {
		return base, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return base, err
	}
	for k, v := range updates {
		fields[k] = v
	}

	mergedRaw, err := json.Marshal(fields)
	if err != nil {
		return base, err
	}

	var merged directory.UserProfile
	if err := json.Unmarshal(mergedRaw, &merged); err != nil {
		return base, err
	}
	return merged, nil
}
